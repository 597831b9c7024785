package fleet

import (
	"testing"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorUpdatesMessageSetOnHeartbeat(t *testing.T) {
	reg := NewRegistry(nil)
	sess, err := reg.Admit(1, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)

	agg := NewAggregator(sess)
	agg.Handle(&common.MessageHeartbeat{BaseMode: common.MAV_MODE_FLAG_SAFETY_ARMED, Type: common.MAV_TYPE_SUBMARINE})

	sess.msgset.mu.RLock()
	hb := sess.msgset.ms.Heartbeat
	sess.msgset.mu.RUnlock()

	require.NotNil(t, hb)
	assert.EqualValues(t, common.MAV_TYPE_SUBMARINE, hb.Type)
}

func TestAggregatorTransitionsInitiatingToDisarmedOnceParametersComplete(t *testing.T) {
	reg := NewRegistry(nil)
	sess, err := reg.Admit(1, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)
	require.Equal(t, StatusInitiating, sess.Status())

	agg := NewAggregator(sess)

	var paramID [16]byte
	copy(paramID[:], "TEST_PARAM")
	agg.Handle(&common.MessageParamValue{ParamId: paramID, ParamValue: 1.0, ParamType: 9, ParamCount: 1, ParamIndex: 0})

	assert.True(t, sess.params.complete())
	assert.Equal(t, StatusInitiating, sess.Status(), "parameter completion alone does not transition status")

	agg.Handle(&common.MessageHeartbeat{})
	assert.Equal(t, StatusDisarmed, sess.Status())
}

func TestAggregatorDoesNotTransitionBeforeParametersComplete(t *testing.T) {
	reg := NewRegistry(nil)
	sess, err := reg.Admit(1, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)

	agg := NewAggregator(sess)
	agg.Handle(&common.MessageHeartbeat{})

	assert.Equal(t, StatusInitiating, sess.Status())
}

func TestAggregatorRoutesStatustextThroughEventRouter(t *testing.T) {
	reg := NewRegistry(nil)
	sess, err := reg.Admit(1, 1, &fakeEndpoint{}, nil)
	require.NoError(t, err)

	agg := NewAggregator(sess)
	var text [50]byte
	copy(text[:], "hello")
	agg.Handle(&common.MessageStatustext{Severity: 6, Text: text})

	require.Equal(t, 1, len(sess.rawEvents), "raw event queued for the Event Router to drain")
	ev := <-sess.rawEvents
	require.NotNil(t, ev.statustext)
	assert.Equal(t, "hello", ev.statustext.Text)
}
