package scan

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dbsmedya/gosweep/internal/logger"
)

// Executor dispatches one scan task to one target. An error return means the
// target could not be executed at all (transport failure); per-path problems
// belong inside the returned Result instead.
type Executor interface {
	Execute(ctx context.Context, target string, filters *PathFilterSet) (*Result, error)
}

// DefaultConcurrency bounds in-flight tasks when no limit is configured.
const DefaultConcurrency = 4

// FanOut dispatches the same scan task to every target concurrently, bounded
// by a weighted semaphore, and joins before returning. An individual task
// failure never fails the batch: the target is dropped from the results and
// recorded as a Failure.
type FanOut struct {
	executor    Executor
	concurrency int64
	logger      *logger.Logger
}

// NewFanOut creates a FanOut using the given transport executor. concurrency
// must be at least 1; 1 serializes the targets, higher values run that many
// tasks in flight at once.
func NewFanOut(executor Executor, concurrency int, log *logger.Logger) (*FanOut, error) {
	if executor == nil {
		return nil, fmt.Errorf("executor is nil")
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &FanOut{
		executor:    executor,
		concurrency: int64(concurrency),
		logger:      log,
	}, nil
}

// Run dispatches one task per target and waits for all of them. Results come
// back in dispatch order; targets that failed at the transport level are
// absent from results and listed in failures instead. An empty target list
// returns immediately without invoking the executor.
//
// Each in-flight task writes only its own slot, so no locking is needed on
// the accumulation path.
func (f *FanOut) Run(ctx context.Context, targets []string, filters *PathFilterSet) ([]*Result, []Failure, error) {
	if len(targets) == 0 {
		return []*Result{}, nil, nil
	}

	slots := make([]*Result, len(targets))
	errs := make([]error, len(targets))

	sem := semaphore.NewWeighted(f.concurrency)
	var wg sync.WaitGroup

	var dispatchErr error
	for i, target := range targets {
		// Acquire may succeed without blocking on a done context, so the
		// cancellation check has to be explicit.
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			dispatchErr = err
			break
		}

		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			defer sem.Release(1)

			result, err := f.executor.Execute(ctx, target, filters)
			if err != nil {
				errs[i] = err
				return
			}
			slots[i] = result
		}(i, target)
	}

	wg.Wait()

	if dispatchErr != nil {
		return nil, nil, fmt.Errorf("fan-out interrupted: %w", dispatchErr)
	}

	results := make([]*Result, 0, len(targets))
	var failures []Failure
	for i, target := range targets {
		if errs[i] != nil {
			failures = append(failures, Failure{Target: target, Err: errs[i]})
			f.logger.Errorw("Target unreachable",
				"target", target,
				"error", errs[i],
			)
			continue
		}
		if slots[i] != nil {
			results = append(results, slots[i])
		}
	}

	f.logger.Infow("Fan-out complete",
		"targets", len(targets),
		"results", len(results),
		"transport_failures", len(failures),
	)

	return results, failures, nil
}
