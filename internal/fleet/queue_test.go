package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedQueuePushPop(t *testing.T) {
	q := newBoundedQueue[int](3, nil)

	q.push(1)
	q.push(2)
	q.push(3)
	assert.Equal(t, 3, q.length())

	v, ok := q.tryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, q.length())
}

func TestBoundedQueueTryPopEmpty(t *testing.T) {
	q := newBoundedQueue[int](3, nil)

	_, ok := q.tryPop()
	assert.False(t, ok)
}

func TestBoundedQueueDropsOldestOnOverflow(t *testing.T) {
	drops := 0
	q := newBoundedQueue[int](2, func() { drops++ })

	q.push(1)
	q.push(2)
	q.push(3) // drops 1

	assert.Equal(t, 1, drops)
	assert.Equal(t, 2, q.length())

	v, _ := q.tryPop()
	assert.Equal(t, 2, v)
	v, _ = q.tryPop()
	assert.Equal(t, 3, v)
}

func TestBoundedQueueNeverExceedsCapacity(t *testing.T) {
	q := newBoundedQueue[int](4, nil)
	for i := 0; i < 100; i++ {
		q.push(i)
		assert.LessOrEqual(t, q.length(), 4)
	}
}
