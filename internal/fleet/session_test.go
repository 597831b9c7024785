package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionStartsInitiatingWithNeutralSetpoint(t *testing.T) {
	sess := newSession(1, 1, &fakeEndpoint{}, nil)

	assert.Equal(t, StatusInitiating, sess.Status())
	assert.Equal(t, NeutralManualControl(), sess.ManualControl())
}

func TestSessionSetAndResetManualControl(t *testing.T) {
	sess := newSession(1, 1, &fakeEndpoint{}, nil)

	sess.SetManualControl(ManualControlSetpoint{X: 100, Y: -200, Z: 700, R: 50, Buttons: 1})
	assert.Equal(t, int16(100), sess.ManualControl().X)

	sess.resetManualControl()
	assert.Equal(t, NeutralManualControl(), sess.ManualControl())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	sess := newSession(1, 1, &fakeEndpoint{}, nil)

	assert.False(t, sess.closed())
	sess.close()
	assert.True(t, sess.closed())

	assert.NotPanics(t, func() { sess.close() })
}

func TestSessionQueueDropCallbackInvoked(t *testing.T) {
	var drops []string
	sess := newSession(1, 1, &fakeEndpoint{}, func(queue string, sysID SystemID) {
		drops = append(drops, queue)
	})

	for i := 0; i < MaxStatustext+1; i++ {
		sess.statusText.push(StatustextEvent{SystemID: 1, Text: "x"})
	}

	assert.Contains(t, drops, "statustext")
}
