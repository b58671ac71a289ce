package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Update(t *testing.T) {
	var changes []Progress
	p := New("run-1", func(s Progress) { changes = append(changes, s) })
	p.Update(Delta{Enqueued: 3})
	p.Update(Delta{Processed: 2, Primes: 1})

	snapshot := p.Snapshot()
	assert.EqualValues(t, 3, snapshot.Enqueued)
	assert.EqualValues(t, 2, snapshot.Processed)
	assert.EqualValues(t, 1, snapshot.Primes)
	require.Len(t, changes, 2)
	assert.EqualValues(t, 3, changes[0].Enqueued)
	assert.EqualValues(t, 0, changes[0].Processed)
}

func TestProgress_Concurrent(t *testing.T) {
	p := New("run", nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				p.Update(Delta{Processed: 1})
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 8000, p.Snapshot().Processed)
}

func TestProgress_Nil(t *testing.T) {
	var p *Progress
	p.Update(Delta{Processed: 1})
	p.OnChange(nil)
	assert.Equal(t, Progress{}, p.Snapshot())
}

func TestContext(t *testing.T) {
	_, ok := GetSnapshot(context.Background())
	assert.False(t, ok)

	p := New("ctx", nil)
	ctx := WithTracker(context.Background(), p)
	UpdateCtx(ctx, Delta{Primes: 4})
	snapshot, ok := GetSnapshot(ctx)
	require.True(t, ok)
	assert.EqualValues(t, 4, snapshot.Primes)
	assert.Equal(t, "ctx", snapshot.RunID)
}

func TestDelta_IsZero(t *testing.T) {
	assert.True(t, Delta{}.IsZero())
	assert.False(t, Delta{Primes: -1}.IsZero())
}
