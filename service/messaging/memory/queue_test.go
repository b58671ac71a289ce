package memory

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/primecount/service/messaging"
)

type TestPayload struct {
	ID      string
	Message string
	Count   int
}

func TestQueue(t *testing.T) {
	queue := NewQueue[TestPayload](DefaultConfig())

	payload := TestPayload{
		ID:      "test-1",
		Message: "Hello, world!",
		Count:   1,
	}

	err := queue.Enqueue(payload)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, queue.Size())

	msg, ok := queue.Dequeue()
	assert.True(t, ok)
	assert.EqualValues(t, 0, queue.Size())
	assert.Equal(t, payload, msg)

	_, ok = queue.Dequeue()
	assert.False(t, ok)

	stats := queue.Stats()
	assert.EqualValues(t, 1, stats.Enqueued)
	assert.EqualValues(t, 1, stats.Dequeued)
}

func TestQueueFull(t *testing.T) {
	queue := NewQueue[int](Config{QueueBuffer: 2})
	assert.Equal(t, 2, queue.Capacity())
	assert.NoError(t, queue.Enqueue(1))
	assert.NoError(t, queue.Enqueue(2))
	assert.ErrorIs(t, queue.Enqueue(3), messaging.ErrQueueFull)

	v, ok := queue.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.NoError(t, queue.Enqueue(3))
	assert.EqualValues(t, 1, queue.Stats().EnqueueRetries)
}

func TestQueueDefaultBuffer(t *testing.T) {
	queue := NewQueue[int](Config{})
	assert.Equal(t, DefaultConfig().QueueBuffer, queue.Capacity())
}

func TestQueueConcurrency(t *testing.T) {
	const (
		N         = 10_000
		consumers = 4
	)
	queue := NewQueue[int](Config{QueueBuffer: 64})
	seen := make([]int32, N)

	var received atomic.Int64
	var wg sync.WaitGroup
	wg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer wg.Done()
			for received.Load() < N {
				v, ok := queue.Dequeue()
				if !ok {
					runtime.Gosched()
					continue
				}
				atomic.AddInt32(&seen[v], 1)
				received.Add(1)
			}
		}()
	}

	for i := 0; i < N; i++ {
		for queue.Enqueue(i) != nil {
			runtime.Gosched()
		}
	}
	wg.Wait()

	for i := 0; i < N; i++ {
		assert.EqualValues(t, 1, seen[i], "value %d", i)
	}
}
