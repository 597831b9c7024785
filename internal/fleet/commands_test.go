package fleet

import (
	"testing"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmResetsSetpointAndTransitionsToArmed(t *testing.T) {
	reg := NewRegistry(nil)
	ep := &fakeEndpoint{}
	sess, err := reg.Admit(1, 1, ep, nil)
	require.NoError(t, err)
	sess.SetManualControl(ManualControlSetpoint{X: 500, Y: 500, Z: 900, R: 500})

	cmds := NewCommands(reg)
	require.NoError(t, cmds.Arm(1, 1))

	assert.Equal(t, StatusArmed, sess.Status())
	assert.Equal(t, NeutralManualControl(), sess.ManualControl())

	cl, ok := ep.last().(*common.MessageCommandLong)
	require.True(t, ok)
	assert.EqualValues(t, common.MAV_CMD_COMPONENT_ARM_DISARM, cl.Command)
	assert.Equal(t, float32(1.0), cl.Param1)
}

func TestDisarmResetsSetpointAndTransitionsToDisarmed(t *testing.T) {
	reg := NewRegistry(nil)
	ep := &fakeEndpoint{}
	sess, err := reg.Admit(1, 1, ep, nil)
	require.NoError(t, err)
	sess.setStatus(StatusArmed)

	cmds := NewCommands(reg)
	require.NoError(t, cmds.Disarm(1, 1))

	assert.Equal(t, StatusDisarmed, sess.Status())
	cl, ok := ep.last().(*common.MessageCommandLong)
	require.True(t, ok)
	assert.Equal(t, float32(0.0), cl.Param1)
}

func TestArmAgainstUnknownVehicleStillErrors(t *testing.T) {
	reg := NewRegistry(nil)
	cmds := NewCommands(reg)

	err := cmds.Arm(99, 1)
	assert.ErrorIs(t, err, ErrUnknownVehicle)
}

func TestSetModeEncodesBaseModeAndCustomMode(t *testing.T) {
	reg := NewRegistry(nil)
	ep := &fakeEndpoint{}
	_, err := reg.Admit(1, 1, ep, nil)
	require.NoError(t, err)

	cmds := NewCommands(reg)
	require.NoError(t, cmds.SetMode(1, 4))

	sm, ok := ep.last().(*common.MessageSetMode)
	require.True(t, ok)
	assert.EqualValues(t, 209, sm.BaseMode)
	assert.Equal(t, uint32(4), sm.CustomMode)
}

func TestSetServoEncodesServoNoAndPWM(t *testing.T) {
	reg := NewRegistry(nil)
	ep := &fakeEndpoint{}
	_, err := reg.Admit(1, 1, ep, nil)
	require.NoError(t, err)

	cmds := NewCommands(reg)
	require.NoError(t, cmds.SetServo(1, 1, 9.0, 1500.0))

	cl, ok := ep.last().(*common.MessageCommandLong)
	require.True(t, ok)
	assert.EqualValues(t, common.MAV_CMD_DO_SET_SERVO, cl.Command)
	assert.Equal(t, float32(9.0), cl.Param1)
	assert.Equal(t, float32(1500.0), cl.Param2)
}

func TestManualControlStoresWithoutTransmitting(t *testing.T) {
	reg := NewRegistry(nil)
	ep := &fakeEndpoint{}
	sess, err := reg.Admit(1, 1, ep, nil)
	require.NoError(t, err)

	cmds := NewCommands(reg)
	require.NoError(t, cmds.ManualControl(1, 10, 20, 30, 40, 1))

	assert.Equal(t, 0, ep.count(), "ManualControl only updates the setpoint; the pump transmits it")
	assert.Equal(t, int16(10), sess.ManualControl().X)
}
