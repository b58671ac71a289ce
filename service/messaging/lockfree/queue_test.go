package lockfree

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/primecount/service/allocator"
)

func newQueue[T any](t testing.TB, capacity int) *Queue[T] {
	arena, err := allocator.New[T](capacity)
	require.NoError(t, err)
	return New[T](arena)
}

// Basic sanity: sequential enqueue/dequeue keeps FIFO order.
func TestQueueSequential(t *testing.T) {
	const N = 10_000
	q := newQueue[int](t, N)

	v, ok := q.Dequeue()
	assert.False(t, ok)
	assert.Equal(t, 0, v)
	assert.True(t, q.Empty())

	for i := 0; i < N; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	assert.EqualValues(t, N, q.Size())
	assert.False(t, q.Empty())

	for i := 0; i < N; i++ {
		v, ok := q.Dequeue()
		if !ok {
			t.Fatalf("dequeue failed at %d (queue unexpectedly empty)", i)
		}
		if v != i {
			t.Fatalf("expected %d, got %d (FIFO violated)", i, v)
		}
	}

	_, ok = q.Dequeue()
	assert.False(t, ok)
	assert.EqualValues(t, 0, q.Size())
	assert.True(t, q.Empty())

	stats := q.Stats()
	assert.EqualValues(t, N, stats.Enqueued)
	assert.EqualValues(t, N, stats.Dequeued)
}

func TestQueueInterleaved(t *testing.T) {
	q := newQueue[string](t, 8)
	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	v, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	require.NoError(t, q.Enqueue("c"))
	for _, expected := range []string{"b", "c"} {
		v, ok = q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, expected, v)
	}
	_, ok = q.Dequeue()
	assert.False(t, ok)
}

func TestQueueArenaExhausted(t *testing.T) {
	const capacity = 4
	q := newQueue[int](t, capacity)
	for i := 0; i < capacity; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	err := q.Enqueue(capacity)
	assert.ErrorIs(t, err, allocator.ErrArenaExhausted)
	assert.EqualValues(t, capacity, q.Size())

	// dequeuing does not give slots back
	_, ok := q.Dequeue()
	assert.True(t, ok)
	assert.ErrorIs(t, q.Enqueue(capacity), allocator.ErrArenaExhausted)
}

// Concurrent test: many producers, many consumers.
// Checks that all values [0..N) appear exactly once.
func TestQueueConcurrentConservation(t *testing.T) {
	const (
		N           = 200_000
		producers   = 8
		consumers   = 4
		perProducer = N / producers
	)
	q := newQueue[int](t, N)
	seen := make([]int32, N)

	var received atomic.Int64
	var cg sync.WaitGroup
	cg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer cg.Done()
			for received.Load() < N {
				v, ok := q.Dequeue()
				if !ok {
					runtime.Gosched()
					continue
				}
				if v < 0 || v >= N {
					t.Errorf("consumer: out-of-range value %d", v)
					continue
				}
				atomic.AddInt32(&seen[v], 1)
				received.Add(1)
			}
		}()
	}

	var pg sync.WaitGroup
	pg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(from, to int) {
			defer pg.Done()
			for i := from; i < to; i++ {
				if err := q.Enqueue(i); err != nil {
					t.Errorf("enqueue %d: %v", i, err)
					return
				}
			}
		}(p*perProducer, (p+1)*perProducer)
	}
	pg.Wait()
	cg.Wait()

	for i := 0; i < N; i++ {
		if seen[i] != 1 {
			t.Fatalf("value %d seen %d times (expected 1)", i, seen[i])
		}
	}
	assert.EqualValues(t, 0, q.Size())
	assert.True(t, q.Empty())
}

// With a single producer of increasing values every consumer must observe an
// increasing sequence: a later dequeue never returns an earlier node.
func TestQueueFIFOPerConsumer(t *testing.T) {
	const (
		N         = 100_000
		consumers = 4
	)
	q := newQueue[int](t, N)

	var received atomic.Int64
	var wg sync.WaitGroup
	wg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func(c int) {
			defer wg.Done()
			last := -1
			for received.Load() < N {
				v, ok := q.Dequeue()
				if !ok {
					runtime.Gosched()
					continue
				}
				if v <= last {
					t.Errorf("consumer %d: got %d after %d (FIFO violated)", c, v, last)
				}
				last = v
				received.Add(1)
			}
		}(c)
	}

	for i := 0; i < N; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	wg.Wait()
	assert.EqualValues(t, N, received.Load())
}

// Benchmark: single producer, single consumer.
func BenchmarkQueue_1P1C(b *testing.B) {
	q := newQueue[int](b, b.N+1)
	done := make(chan struct{})
	go func() {
		for i := 0; i < b.N; i++ {
			for {
				if _, ok := q.Dequeue(); ok {
					break
				}
				runtime.Gosched()
			}
		}
		close(done)
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := q.Enqueue(i); err != nil {
			b.Fatal(err)
		}
	}
	<-done
	b.StopTimer()
}

// Benchmark: single producer, many consumers (the worker pool shape).
func BenchmarkQueue_1PNC(b *testing.B) {
	consumers := runtime.GOMAXPROCS(0)
	q := newQueue[int](b, b.N+1)

	var received atomic.Int64
	var wg sync.WaitGroup
	wg.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer wg.Done()
			for received.Load() < int64(b.N) {
				if _, ok := q.Dequeue(); ok {
					received.Add(1)
					continue
				}
				runtime.Gosched()
			}
		}()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := q.Enqueue(i); err != nil {
			b.Fatal(err)
		}
	}
	wg.Wait()
	b.StopTimer()
}
