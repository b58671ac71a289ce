package primecount

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/primecount/internal/clock"
	"github.com/viant/primecount/internal/idgen"
	"github.com/viant/primecount/predicate"
	"github.com/viant/primecount/progress"
	"github.com/viant/primecount/service/allocator"
	"github.com/viant/primecount/service/input"
	"github.com/viant/primecount/service/messaging"
	"github.com/viant/primecount/service/messaging/lockfree"
	"github.com/viant/primecount/service/messaging/memory"
	"github.com/viant/primecount/service/processor"
	"github.com/viant/primecount/service/producer"
	"github.com/viant/primecount/tracing"
)

// Runtime executes counting runs.  Every run gets its own arena, queue and
// worker pool; nothing is shared between runs, so a Runtime may execute
// several runs concurrently.
type Runtime struct {
	config     Config
	predicate  predicate.Func
	logger     logrus.FieldLogger
	fs         afs.Service
	fsOptions  []storage.Option
	onProgress func(progress.Progress)
}

// Count opens the input at URL (input.Stdin for standard input) and runs
// it.
func (r *Runtime) Count(ctx context.Context, URL string) (*Report, error) {
	src, err := input.Open(ctx, r.fs, URL, r.fsOptions...)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, src)
}

// Run publishes every value of src to a fresh queue, waits for the workers
// to drain it and returns the report.  Any error aborts the run; partial
// counts are never reported.
func (r *Runtime) Run(ctx context.Context, src input.Source) (report *Report, err error) {
	runID := idgen.New()
	logger := r.logger.WithField("run", idgen.Short(runID))
	ctx, span := tracing.StartSpan(ctx, "primecount.run", tracing.KindInternal)
	span.WithAttributes(map[string]string{"run.id": runID, "queue": string(r.config.Queue)})
	defer func() {
		if report != nil {
			span.SetInt("primes", report.Primes).SetInt("processed", report.Processed)
		}
		tracing.EndSpan(span, err)
	}()
	started := clock.Now()

	queue, arena, err := r.newQueue()
	if err != nil {
		return nil, err
	}
	state := processor.NewState(queue)
	pool, err := processor.New(
		processor.WithConfig(processor.Config{
			WorkerCount: r.config.WorkerCount,
			IdleSleep:   r.config.IdleSleep,
			Pin:         r.config.PinWorkers,
		}),
		processor.WithPredicate(r.predicate),
		processor.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	publisher, err := producer.New(queue, producer.Config{
		MaxQueueSize: r.config.MaxQueueSize,
		IdleSleep:    r.config.IdleSleep,
	}, logger)
	if err != nil {
		return nil, err
	}
	tracker := progress.New(runID, r.onProgress)
	monitor := progress.NewMonitor(tracker, func() progress.Delta {
		return progress.Delta{
			Enqueued:  publisher.Stats().Published,
			Processed: state.Processed(),
			Primes:    state.Total(),
		}
	}, r.config.ProgressInterval, progress.DefaultWindow, logger)

	runCtx, cancel := context.WithCancel(progress.WithTracker(ctx, tracker))
	defer cancel()
	logger.WithFields(logrus.Fields{
		"workers": pool.Workers(),
		"queue":   r.config.Queue,
	}).Debug("run started")
	if err = pool.Start(runCtx, state); err != nil {
		return nil, fmt.Errorf("run %v: %w", runID, err)
	}
	monitor.Start(runCtx)
	// a failed pool leaves nobody to drain the queue; stop the producer
	go func(done <-chan struct{}) {
		select {
		case <-done:
			cancel()
		case <-runCtx.Done():
		}
	}(pool.Done())

	published, publishErr := publisher.Publish(runCtx, src)
	state.MarkDone()
	if publishErr != nil {
		cancel()
	}
	waitErr := pool.Wait()
	final := monitor.Stop()

	switch {
	case waitErr != nil && !errors.Is(waitErr, context.Canceled):
		return nil, fmt.Errorf("run %v: %w", runID, waitErr)
	case publishErr != nil:
		return nil, fmt.Errorf("run %v: %w", runID, publishErr)
	case waitErr != nil:
		return nil, fmt.Errorf("run %v: %w", runID, waitErr)
	}
	if processed := state.Processed(); processed != published {
		return nil, fmt.Errorf("run %v: processed %d of %d values", runID, processed, published)
	}

	report = &Report{
		RunID:     runID,
		Primes:    state.Total(),
		Processed: state.Processed(),
		Enqueued:  published,
		Workers:   pool.Workers(),
		Queue:     r.config.Queue,
		Duration:  clock.Since(started),
		Rate:      final.Rate,
		Producer:  publisher.Stats(),
	}
	if stats, ok := queue.(interface{ Stats() messaging.Stats }); ok {
		report.QueueStats = stats.Stats()
	}
	if arena != nil {
		arenaStats := arena.Stats()
		report.Arena = &arenaStats
	}
	logger.WithFields(logrus.Fields{
		"primes":    report.Primes,
		"processed": report.Processed,
		"duration":  report.Duration,
	}).Info("run completed")
	return report, nil
}

func (r *Runtime) newQueue() (messaging.Queue[int], *allocator.Arena[int], error) {
	switch r.config.Queue {
	case messaging.KindChannel:
		return memory.NewQueue[int](memory.Config{QueueBuffer: int(r.config.MaxQueueSize)}), nil, nil
	case messaging.KindLockFree, "":
		arena, err := allocator.New[int](r.config.ArenaCapacity)
		if err != nil {
			return nil, nil, err
		}
		return lockfree.New(arena), arena, nil
	}
	return nil, nil, errors.New("unsupported queue: " + string(r.config.Queue))
}
