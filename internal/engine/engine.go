package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/pixelflow/internal/ctxlog"
	"github.com/vk/pixelflow/internal/dispatch"
	"github.com/vk/pixelflow/internal/graph"
	"github.com/vk/pixelflow/internal/pool"
	"github.com/vk/pixelflow/internal/schedule"
	"github.com/vk/pixelflow/internal/step"
	"github.com/vk/pixelflow/internal/varstore"
)

// ErrUsage marks configuration errors that are rejected before planning
// begins; no step has executed when it is returned.
var ErrUsage = errors.New("invalid engine configuration")

// Options configures one Engine instance.
type Options struct {
	// Concurrency bounds the number of step invocations in flight per wave.
	// pool.Unbounded (zero) removes the ceiling; negative values are a
	// usage error.
	Concurrency int
}

// Engine runs pipelines: it plans a step list into execution waves and
// drives each wave through the bounded task pool against a dispatcher.
type Engine struct {
	dispatcher  dispatch.Dispatcher
	concurrency int
}

// New creates an Engine. Usage errors (nil dispatcher, negative ceiling)
// are rejected here, before any planning or execution can happen.
func New(d dispatch.Dispatcher, opts Options) (*Engine, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: dispatcher must not be nil", ErrUsage)
	}
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("%w: concurrency must be positive or pool.Unbounded, got %d", ErrUsage, opts.Concurrency)
	}
	return &Engine{dispatcher: d, concurrency: opts.Concurrency}, nil
}

// Result describes a run. On failure it is still returned alongside the
// error: Values then holds everything produced by completed waves (and by
// the failing wave's successful members), which callers may inspect for
// diagnostics.
type Result struct {
	// RunID uniquely identifies this run in logs and error reports.
	RunID uuid.UUID

	// Values is the run's variable store: pre-satisfied inputs plus every
	// output written so far.
	Values *varstore.Store

	// Waves counts fully completed waves; Steps counts steps that
	// finished successfully.
	Waves int
	Steps int
}

// Run plans and executes a pipeline. preSatisfied supplies externally
// provided values available before wave 0; it may be nil.
//
// Planning failures abort before any step executes and return a nil Result.
// Execution failures stop the launch of further waves, let the failing
// wave's in-flight siblings settle, and return the partial Result together
// with an error that wraps a *StepError identifying the failed step.
func (e *Engine) Run(ctx context.Context, steps []*step.Step, preSatisfied map[string]any) (*Result, error) {
	runID := uuid.New()
	logger := ctxlog.FromContext(ctx).With("run_id", runID.String())
	ctx = ctxlog.WithLogger(ctx, logger)

	nodes := graph.Build(ctx, steps)

	pre := make(map[string]struct{}, len(preSatisfied))
	for name := range preSatisfied {
		pre[name] = struct{}{}
	}

	waves, err := schedule.Compute(ctx, nodes, pre)
	if err != nil {
		return nil, fmt.Errorf("planning failed: %w", err)
	}
	logger.Debug("Execution plan computed.", "waves", len(waves), "steps", len(steps))

	store := varstore.New()
	if err := store.Seed(preSatisfied); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	result := &Result{RunID: runID, Values: store}
	for wi, wave := range waves {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("run canceled before wave %d: %w", wi, err)
		}

		logger.Debug("Starting wave.", "wave", wi, "members", len(wave))
		tasks := make([]pool.Task[*outcome], len(wave))
		for ti, node := range wave {
			tasks[ti] = e.taskFor(node, store)
		}

		outcomes, waveErr := pool.Run(ctx, tasks, e.concurrency)

		// Outputs merge into the store at the wave boundary, including the
		// successful siblings of a failed wave, so callers see everything
		// that was actually produced.
		for _, oc := range outcomes {
			if oc == nil {
				continue
			}
			for _, name := range oc.node.Outputs {
				if err := store.Put(name, oc.value); err != nil {
					return result, fmt.Errorf("wave %d: %w", wi, err)
				}
			}
			result.Steps++
		}

		if waveErr != nil {
			logger.Error("Wave failed; remaining waves will not start.", "wave", wi, "error", waveErr)
			return result, fmt.Errorf("wave %d: %w", wi, waveErr)
		}
		result.Waves++
		logger.Debug("Wave completed.", "wave", wi)
	}

	logger.Info("Pipeline run finished.", "waves", result.Waves, "steps", result.Steps, "variables", store.Len())
	return result, nil
}
