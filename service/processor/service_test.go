package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/primecount/predicate"
	"github.com/viant/primecount/service/allocator"
	"github.com/viant/primecount/service/input"
	"github.com/viant/primecount/service/messaging/lockfree"
	"github.com/viant/primecount/service/messaging/memory"
	"github.com/viant/primecount/service/producer"
)

func newState(t *testing.T, capacity int) *State {
	arena, err := allocator.New[int](capacity)
	require.NoError(t, err)
	return NewState(lockfree.New(arena))
}

func TestService_Count(t *testing.T) {
	const n = 20000
	expect := int64(predicate.Count(predicate.IsPrime, sequence(1, n)...))

	var useCases = []struct {
		description string
		workers     int
	}{
		{description: "single worker", workers: 1},
		{description: "two workers", workers: 2},
		{description: "four workers", workers: 4},
		{description: "eight workers", workers: 8},
	}
	for _, useCase := range useCases {
		t.Run(useCase.description, func(t *testing.T) {
			state := newState(t, n)
			srv, err := New(WithWorkers(useCase.workers), WithIdleSleep(time.Microsecond))
			require.NoError(t, err)
			require.NoError(t, srv.Start(context.Background(), state))

			for _, v := range sequence(1, n) {
				require.NoError(t, state.Queue().Enqueue(v))
			}
			state.MarkDone()
			require.NoError(t, srv.Wait())

			assert.Equal(t, expect, state.Total())
			assert.EqualValues(t, n, state.Processed())
			assert.EqualValues(t, 0, state.Queue().Size())
		})
	}
}

func TestService_SmallInput(t *testing.T) {
	for _, workers := range []int{1, 4} {
		state := newState(t, 16)
		for v := 1; v <= 10; v++ {
			require.NoError(t, state.Queue().Enqueue(v))
		}
		state.MarkDone()
		srv, err := New(WithWorkers(workers))
		require.NoError(t, err)
		require.NoError(t, srv.Start(context.Background(), state))
		require.NoError(t, srv.Wait())
		assert.EqualValues(t, 4, state.Total(), "workers %d", workers)
	}
}

func TestService_EmptyTerminates(t *testing.T) {
	state := newState(t, 1)
	srv, err := New(WithWorkers(3))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background(), state))
	state.MarkDone()

	done := make(chan error, 1)
	go func() { done <- srv.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not terminate")
	}
	assert.EqualValues(t, 0, state.Total())
	assert.NoError(t, srv.Wait())
}

func TestService_ChannelQueue(t *testing.T) {
	state := NewState(memory.NewQueue[int](memory.Config{QueueBuffer: 64}))
	srv, err := New(WithWorkers(2))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background(), state))
	for v := 1; v <= 10; v++ {
		require.NoError(t, state.Queue().Enqueue(v))
	}
	state.MarkDone()
	require.NoError(t, srv.Wait())
	assert.EqualValues(t, 4, state.Total())
}

func TestService_StartFailure(t *testing.T) {
	state := newState(t, 8)
	var started atomic.Int32
	hookErr := errors.New("no thread")
	srv, err := New(WithWorkers(4), WithStartHook(func(worker int) error {
		if worker == 2 {
			return hookErr
		}
		started.Add(1)
		return nil
	}))
	require.NoError(t, err)

	err = srv.Start(context.Background(), state)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkerStart)
	assert.ErrorIs(t, err, hookErr)
	assert.True(t, state.Done())
	assert.EqualValues(t, 3, started.Load())
	assert.NoError(t, srv.Wait())
}

func TestService_PredicatePanic(t *testing.T) {
	state := newState(t, 4)
	require.NoError(t, state.Queue().Enqueue(7))
	state.MarkDone()
	srv, err := New(WithWorkers(2), WithPredicate(func(int) bool { panic("bad predicate") }))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background(), state))
	err = srv.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad predicate")
}

func TestService_DoneStopsProducer(t *testing.T) {
	state := newState(t, 100000)
	srv, err := New(WithWorkers(2), WithPredicate(func(n int) bool {
		if n == 1 {
			panic("bad predicate")
		}
		return false
	}))
	require.NoError(t, err)
	assert.Nil(t, srv.Done())
	publisher, err := producer.New(state.Queue(), producer.Config{MaxQueueSize: 4, IdleSleep: time.Microsecond}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, srv.Start(ctx, state))
	go func() {
		<-srv.Done()
		cancel()
	}()

	published := make(chan error, 1)
	go func() {
		_, err := publisher.Publish(ctx, input.Values(sequence(1, 100000)...))
		published <- err
	}()
	select {
	case err := <-published:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("producer still blocked after the pool failed")
	}
	state.MarkDone()
	err = srv.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad predicate")
}

func TestService_Cancel(t *testing.T) {
	state := newState(t, 4)
	ctx, cancel := context.WithCancel(context.Background())
	srv, err := New(WithWorkers(2))
	require.NoError(t, err)
	require.NoError(t, srv.Start(ctx, state))
	cancel()
	assert.ErrorIs(t, srv.Wait(), context.Canceled)
}

func TestService_StartTwice(t *testing.T) {
	state := newState(t, 1)
	state.MarkDone()
	srv, err := New(WithWorkers(1))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background(), state))
	assert.Error(t, srv.Start(context.Background(), state))
	assert.NoError(t, srv.Wait())
}

func TestNew_Defaults(t *testing.T) {
	srv, err := New(WithWorkers(0))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, srv.Workers(), 1)

	_, err = New(WithIdleSleep(-time.Second))
	assert.Error(t, err)
}

func sequence(from, to int) []int {
	result := make([]int, 0, to-from+1)
	for v := from; v <= to; v++ {
		result = append(result, v)
	}
	return result
}
