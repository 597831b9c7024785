package fleet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRouterDrainsRawEventsIntoQueues(t *testing.T) {
	sess := newSession(1, 1, &fakeEndpoint{}, nil)
	router := NewEventRouter(sess)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go router.Run(ctx)

	ev := StatustextEvent{SystemID: 1, Text: "hello"}
	sess.rawEvents <- rawEvent{statustext: &ev}

	require.Eventually(t, func() bool {
		return sess.statusText.length() == 1
	}, time.Second, 10*time.Millisecond)

	popped, ok := sess.statusText.tryPop()
	require.True(t, ok)
	assert.Equal(t, "hello", popped.Text)
}

func TestEventRouterStopsOnSessionClose(t *testing.T) {
	sess := newSession(1, 1, &fakeEndpoint{}, nil)
	router := NewEventRouter(sess)

	done := make(chan struct{})
	go func() {
		router.Run(context.Background())
		close(done)
	}()

	sess.close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after session close")
	}
}
