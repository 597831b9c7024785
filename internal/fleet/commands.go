package fleet

import (
	"log"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
)

// Constants this package needs beyond common's own MAV_CMD_*/
// MAV_MODE_FLAG_* — MOTOR_TEST has no generated enum in the common
// dialect, so those stay as named local constants.
const (
	motorTestThrottlePWM  = 1 // MOTOR_TEST_THROTTLE_PWM
	motorTestOrderDefault = 0 // MOTOR_TEST_ORDER_DEFAULT
	motorTestTimeoutSec   = 10
)

// Commands is the Command Surface: encodes and transmits the outbound
// command set named in spec.md §4.8. It operates against a Registry so
// each call can look up the target Session by system id.
type Commands struct {
	registry *Registry
}

func NewCommands(registry *Registry) *Commands {
	return &Commands{registry: registry}
}

// lookupForCommand resolves sysID, logging when no session exists for
// it. It does not check readiness: every command is built and
// transmitted to a still-initiating session. For an absent session,
// Arm/Disarm return ErrUnknownVehicle and the other commands return nil
// without sending anything.
func (c *Commands) lookupForCommand(sysID SystemID) (*Session, bool) {
	sess, err := c.registry.Lookup(sysID)
	if err != nil {
		log.Printf("fleet: command: sys %d: %v", sysID, err)
		return nil, false
	}
	return sess, true
}

// Arm transitions the vehicle to Armed and resets the manual-control
// setpoint to neutral, then sends COMPONENT_ARM_DISARM regardless of
// whether the session was found ready — this is the original
// implementation's observed contract (spec.md §4.8 Design Notes),
// preserved rather than hardened.
func (c *Commands) Arm(sysID SystemID, autopilot uint8) error {
	sess, ok := c.lookupForCommand(sysID)
	if !ok {
		return ErrUnknownVehicle
	}

	sess.resetManualControl()
	sess.setStatus(StatusArmed)

	return sess.endpoint.Send(&common.MessageCommandLong{
		TargetSystem:    uint8(sysID),
		TargetComponent: autopilot,
		Command:         common.MAV_CMD_COMPONENT_ARM_DISARM,
		Param1:          1.0,
	})
}

// Disarm is Arm's mirror image: resets the setpoint, transitions to
// Disarmed, sends COMPONENT_ARM_DISARM with param1=0.
func (c *Commands) Disarm(sysID SystemID, autopilot uint8) error {
	sess, ok := c.lookupForCommand(sysID)
	if !ok {
		return ErrUnknownVehicle
	}

	sess.resetManualControl()
	sess.setStatus(StatusDisarmed)

	return sess.endpoint.Send(&common.MessageCommandLong{
		TargetSystem:    uint8(sysID),
		TargetComponent: autopilot,
		Command:         common.MAV_CMD_COMPONENT_ARM_DISARM,
		Param1:          0.0,
	})
}

// SetMode sends SET_MODE with base_mode=209 (custom mode enabled) and
// the given custom_mode (spec.md §4.8).
func (c *Commands) SetMode(sysID SystemID, mode uint32) error {
	sess, ok := c.lookupForCommand(sysID)
	if !ok {
		return nil // non-fatal no-op per spec.md §4.8
	}

	return sess.endpoint.Send(&common.MessageSetMode{
		TargetSystem: uint8(sysID),
		BaseMode:     209, // SAFETY_ARMED|MANUAL_INPUT_ENABLED|STABILIZE_ENABLED|CUSTOM_MODE_ENABLED
		CustomMode:   mode,
	})
}

// SetServo sends COMMAND_LONG(DO_SET_SERVO, param1=servoNo, param2=pwm).
func (c *Commands) SetServo(sysID SystemID, autopilot uint8, servoNo, pwm float32) error {
	sess, ok := c.lookupForCommand(sysID)
	if !ok {
		return nil
	}

	return sess.endpoint.Send(&common.MessageCommandLong{
		TargetSystem:    uint8(sysID),
		TargetComponent: autopilot,
		Command:         common.MAV_CMD_DO_SET_SERVO,
		Param1:          servoNo,
		Param2:          pwm,
	})
}

// MotorTest sends COMMAND_LONG(DO_MOTOR_TEST) with the fixed
// throttle-type/timeout/ordering parameters spec.md §4.8 names:
// param1=motorNo-1, param2=THROTTLE_PWM_TYPE, param3=pwm, param4=10,
// param5=8, param6=ORDER_DEFAULT.
func (c *Commands) MotorTest(sysID SystemID, autopilot uint8, motorNo int, pwm float32) error {
	sess, ok := c.lookupForCommand(sysID)
	if !ok {
		return nil
	}

	return sess.endpoint.Send(&common.MessageCommandLong{
		TargetSystem:    uint8(sysID),
		TargetComponent: autopilot,
		Command:         common.MAV_CMD_DO_MOTOR_TEST,
		Param1:          float32(motorNo - 1),
		Param2:          motorTestThrottlePWM,
		Param3:          pwm,
		Param4:          motorTestTimeoutSec,
		Param5:          8,
		Param6:          motorTestOrderDefault,
	})
}

// RCChannelsOverride sends RC_CHANNELS_OVERRIDE for channels 1..8.
// A channel value of 0 means "release override" per the MAVLink spec.
func (c *Commands) RCChannelsOverride(sysID SystemID, autopilot uint8, ch1, ch2, ch3, ch4, ch5, ch6, ch7, ch8 uint16) error {
	sess, ok := c.lookupForCommand(sysID)
	if !ok {
		return nil
	}

	return sess.endpoint.Send(&common.MessageRcChannelsOverride{
		TargetSystem:    uint8(sysID),
		TargetComponent: autopilot,
		Chan1Raw:        ch1,
		Chan2Raw:        ch2,
		Chan3Raw:        ch3,
		Chan4Raw:        ch4,
		Chan5Raw:        ch5,
		Chan6Raw:        ch6,
		Chan7Raw:        ch7,
		Chan8Raw:        ch8,
	})
}

// ManualControl stores the new setpoint for the Manual-Control Pump to
// pick up on its next tick; it does not transmit directly.
func (c *Commands) ManualControl(sysID SystemID, x, y, z, r int16, buttons uint16) error {
	sess, ok := c.lookupForCommand(sysID)
	if !ok {
		return nil
	}

	sess.SetManualControl(ManualControlSetpoint{X: x, Y: y, Z: z, R: r, Buttons: buttons})
	return nil
}
