package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/pixelflow/internal/ctxlog"
	"github.com/vk/pixelflow/internal/dispatch"
	"github.com/vk/pixelflow/internal/engine"
	"github.com/vk/pixelflow/internal/graph"
	"github.com/vk/pixelflow/internal/hclpipeline"
	"github.com/vk/pixelflow/internal/schedule"
	"github.com/vk/pixelflow/modules/genimage"
	"github.com/vk/pixelflow/modules/store"
	"github.com/vk/pixelflow/modules/transform"
)

// App bundles the configured collaborators for one invocation: the output
// writer, the logger, and the handler registry with all builtin modules.
type App struct {
	out      io.Writer
	logger   *slog.Logger
	config   *Config
	registry *dispatch.Registry
}

// NewApp creates an App from a validated Config.
func NewApp(outW io.Writer, config *Config) *App {
	return &App{
		out:    outW,
		logger: newLogger(config.LogLevel, config.LogFormat, os.Stderr),
		config: config,
		registry: dispatch.NewRegistry(
			&genimage.Module{},
			&transform.Module{},
			&store.Module{},
		),
	}
}

// Run executes the main application logic: load the pipeline, validate it
// against the registry catalog, then either print the plan (dry run) or
// hand the steps to the engine.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	pipeline, err := hclpipeline.LoadFile(ctx, a.config.PipelinePath)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}
	if err := hclpipeline.Validate(pipeline, a.registry); err != nil {
		return fmt.Errorf("invalid pipeline: %w", err)
	}
	a.logger.Info("Pipeline loaded.",
		"path", a.config.PipelinePath, "steps", len(pipeline.Steps), "inputs", len(pipeline.Inputs))

	if a.config.DryRun {
		nodes := graph.Build(ctx, pipeline.Steps)
		pre := make(map[string]struct{}, len(pipeline.Inputs))
		for name := range pipeline.Inputs {
			pre[name] = struct{}{}
		}
		waves, err := schedule.Compute(ctx, nodes, pre)
		if err != nil {
			return fmt.Errorf("planning failed: %w", err)
		}
		fmt.Fprint(a.out, schedule.Describe(waves))
		return nil
	}

	preSatisfied, err := loadInputs(ctx, pipeline.Inputs)
	if err != nil {
		return err
	}

	eng, err := engine.New(a.registry, engine.Options{Concurrency: a.config.Concurrency})
	if err != nil {
		return err
	}

	result, err := eng.Run(ctx, pipeline.Steps, preSatisfied)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	fmt.Fprintf(a.out, "run %s: %d steps in %d waves\n", result.RunID, result.Steps, result.Waves)
	a.logger.Debug("App.Run method finished.")
	return nil
}
