package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualControlPumpSendsOnlyWhenArmed(t *testing.T) {
	sess := newSession(1, 1, &fakeEndpoint{}, nil)
	ep := sess.endpoint.(*fakeEndpoint)
	pump := NewManualControlPump(sess)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pump.Run(ctx)

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, ep.count(), "disarmed vehicle must not receive MANUAL_CONTROL")

	sess.setStatus(StatusArmed)
	sess.SetManualControl(ManualControlSetpoint{X: 1, Y: 2, Z: 3, R: 4})

	require.Eventually(t, func() bool { return ep.count() > 0 }, time.Second, 10*time.Millisecond)

	mc, ok := ep.last().(*common.MessageManualControl)
	require.True(t, ok)
	assert.Equal(t, int16(1), mc.X)
}
