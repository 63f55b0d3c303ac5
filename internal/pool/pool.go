package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/pixelflow/internal/ctxlog"
)

// Unbounded disables the concurrency ceiling: all tasks start immediately.
const Unbounded = 0

// Task is one zero-argument asynchronous operation.
type Task[T any] func(ctx context.Context) (T, error)

// Run executes the given tasks with at most limit in flight and returns
// their results positionally: results[i] always holds tasks[i]'s value,
// regardless of completion order. limit must be Unbounded or positive.
//
// The implementation is a worker pool over a shared cursor: min(limit,
// len(tasks)) workers each claim the next unstarted index, run it, store
// the result at that index and loop. This keeps exactly limit tasks in
// flight even when task durations vary, unlike fixed-size batching.
//
// Run does not cancel siblings when a task fails; every started task is
// allowed to settle, and the first failure in input order (not completion
// order) is returned alongside the partially filled results. Cancelling ctx
// stops workers from claiming new tasks; already claimed tasks observe the
// cancellation through their own ctx handling.
func Run[T any](ctx context.Context, tasks []Task[T], limit int) ([]T, error) {
	if limit < 0 {
		return nil, fmt.Errorf("concurrency limit must be positive or Unbounded, got %d", limit)
	}
	if len(tasks) == 0 {
		return []T{}, nil
	}

	workers := len(tasks)
	if limit != Unbounded && limit < workers {
		workers = limit
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting bounded task pool.", "tasks", len(tasks), "workers", workers)

	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	var cursor atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := int(cursor.Add(1)) - 1
				if i >= len(tasks) {
					return
				}
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = tasks[i](ctx)
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
