package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	assert.True(t, rq.IsEmpty())

	for i := 1; i <= 3; i++ {
		require.NoError(t, rq.Enqueue(i))
	}
	assert.True(t, rq.IsFull())
	assert.ErrorIs(t, rq.Enqueue(4), ErrQueueFull)

	v, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, _ = rq.Dequeue()
	assert.Equal(t, 1, v)
	// Wrap around.
	require.NoError(t, rq.Enqueue(4))
	assert.Equal(t, 3, rq.Len())

	for _, want := range []int{2, 3, 4} {
		v, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err = rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueFuncs(t *testing.T) {
	rq := NewRingQueue[func() int](2)
	require.NoError(t, rq.Enqueue(func() int { return 7 }))
	f, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 7, f())
}
