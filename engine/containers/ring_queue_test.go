package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue_EnqueueDequeue(t *testing.T) {
	rq := NewRingQueue[string](2)
	require.NoError(t, rq.Enqueue("Wave"))
	require.NoError(t, rq.Enqueue("Idle"))
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue("TPose"), ErrQueueFull)

	front, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, "Wave", front)

	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "Wave", v)
	v, err = rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "Idle", v)

	_, err = rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueue_PushDropsOldest(t *testing.T) {
	rq := NewRingQueue[int](3)
	for i := 1; i <= 5; i++ {
		rq.Push(i)
	}
	assert.Equal(t, 3, rq.Len())
	assert.Equal(t, []int{3, 4, 5}, rq.Items())
}

func TestRingQueue_MinimumSize(t *testing.T) {
	rq := NewRingQueue[int](0)
	rq.Push(1)
	rq.Push(2)
	assert.Equal(t, []int{2}, rq.Items())
}
