// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator runs a swarm request end to end: it builds the plan,
// decides between the assistant CLI and the basic executor, and reports the
// result.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/noldarim/hive/internal/config"
	"github.com/noldarim/hive/internal/executor"
	"github.com/noldarim/hive/internal/launcher"
	"github.com/noldarim/hive/internal/logger"
	"github.com/noldarim/hive/internal/swarm"
	"github.com/noldarim/hive/internal/telemetry"
	"github.com/noldarim/hive/internal/tui/status"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	log     *zerolog.Logger
	logOnce sync.Once
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		l := logger.GetOrchestratorLogger()
		log = &l
	})
	return log
}

// ToolProbe looks up the assistant binary. It returns an error when the
// binary cannot be found.
type ToolProbe func(binary string) (string, error)

// Executor plans a swarm without the assistant CLI.
type Executor interface {
	Execute(ctx context.Context, plan *swarm.Plan) (*executor.Report, error)
}

// Orchestrator handles a single swarm invocation.
type Orchestrator struct {
	binary   string
	defaults swarm.Defaults
	probe    ToolProbe
	launcher launcher.Launcher
	executor Executor
	reporter *status.Reporter
	env      swarm.Environment
	spinner  bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProbe replaces the binary lookup.
func WithProbe(p ToolProbe) Option {
	return func(o *Orchestrator) { o.probe = p }
}

// WithLauncher replaces the process launcher.
func WithLauncher(l launcher.Launcher) Option {
	return func(o *Orchestrator) { o.launcher = l }
}

// WithExecutor replaces the fallback executor. A nil executor disables the
// fallback.
func WithExecutor(e Executor) Option {
	return func(o *Orchestrator) { o.executor = e }
}

// WithReporter replaces the status reporter.
func WithReporter(r *status.Reporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithEnvironment replaces the environment used for headless detection.
func WithEnvironment(env swarm.Environment) Option {
	return func(o *Orchestrator) { o.env = env }
}

// WithoutSpinner disables the interactive spinner around the executor.
func WithoutSpinner() Option {
	return func(o *Orchestrator) { o.spinner = false }
}

// New creates an orchestrator from the swarm section of cfg.
func New(cfg *config.AppConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		binary: cfg.Swarm.ClaudeBinary,
		defaults: swarm.Defaults{
			Strategy:    cfg.Swarm.DefaultStrategy,
			Mode:        cfg.Swarm.DefaultMode,
			MaxAgents:   cfg.Swarm.DefaultMaxAgents,
			ExtraCIVars: cfg.Swarm.ExtraCIVars,
		},
		probe:    exec.LookPath,
		launcher: launcher.New(),
		reporter: status.Stdio(false),
		env:      swarm.OSEnvironment{},
		spinner:  true,
	}
	if cfg.Swarm.FallbackEnabled {
		o.executor = executor.New()
	}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one swarm request.
func (o *Orchestrator) Run(ctx context.Context, req swarm.Request) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "swarm.run")
	result := "usage_error"
	defer func() {
		span.SetAttributes(attribute.String("swarm.outcome", result))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	plan, err := swarm.Build(req, o.env, o.defaults)
	if err != nil {
		return err
	}

	cfg := plan.Config
	span.SetAttributes(
		attribute.String("swarm.strategy", cfg.Strategy),
		attribute.String("swarm.mode", cfg.Mode),
		attribute.Int("swarm.max_agents", cfg.MaxAgents),
		attribute.Bool("swarm.headless", cfg.Headless),
		attribute.Bool("swarm.analysis", cfg.AnalysisMode),
		attribute.String("swarm.output_format", cfg.OutputFormat),
	)

	getLog().Info().
		Str("objective", plan.Objective).
		Str("strategy", cfg.Strategy).
		Str("mode", cfg.Mode).
		Int("maxAgents", cfg.MaxAgents).
		Bool("headless", cfg.Headless).
		Strs("headlessReasons", cfg.HeadlessReasons).
		Str("outputFormat", cfg.OutputFormat).
		Msg("Starting swarm")

	// Keep stdout clean for machine-readable output.
	rep := o.reporter
	if cfg.NonInteractive() || cfg.OutputFormat == swarm.OutputJSON {
		rep = o.reporter.Stderr()
	}

	if cfg.UseExecutor || (cfg.OutputFormat == swarm.OutputJSON && !cfg.ForceExternalTool) {
		result = "fallback"
		return o.runFallback(ctx, plan, rep)
	}

	if _, probeErr := o.probe(o.binary); probeErr != nil {
		if !cfg.ForceExternalTool {
			getLog().Debug().Err(probeErr).Str("binary", o.binary).Msg("Assistant CLI not found, using fallback")
			rep.Warn("%s CLI not found, falling back to basic swarm executor", o.binary)
			result = "fallback"
			return o.runFallback(ctx, plan, rep)
		}
		getLog().Warn().Err(probeErr).Str("binary", o.binary).Msg("Assistant CLI not found, launching anyway")
	}

	result, err = o.launch(ctx, plan, rep)
	return err
}

func (o *Orchestrator) runFallback(ctx context.Context, plan *swarm.Plan, rep *status.Reporter) error {
	cfg := plan.Config

	if o.executor == nil {
		rep.Warn("Compiled swarm executor is not available")
		rep.Info("Basic swarm execution is disabled; install the %s CLI or set swarm.fallback_enabled=true", o.binary)
		return nil
	}

	interactive := o.spinner && !cfg.NonInteractive() && o.env.StdoutIsTerminal()

	var report *executor.Report
	err := status.RunWithSpinner(ctx, o.reporter.Writer(), interactive, "Planning swarm", func(ctx context.Context) error {
		r, execErr := o.executor.Execute(ctx, plan)
		report = r
		return execErr
	})
	if err != nil {
		if errors.Is(err, status.ErrInterrupted) {
			rep.Warn("Swarm planning interrupted")
			return err
		}
		rep.Error("Basic swarm execution failed: %v", err)
		return fmt.Errorf("%w: %w", ErrExecutorFailed, err)
	}

	if err := executor.Render(o.reporter.Writer(), report, cfg.OutputFormat, o.reporter.NoColor()); err != nil {
		return fmt.Errorf("failed to write swarm report: %w", err)
	}
	rep.Success("Basic swarm %s planned with %d agents", report.SwarmID, len(report.Agents))
	return nil
}

// launch runs the assistant CLI and returns the outcome kind for tracing.
func (o *Orchestrator) launch(ctx context.Context, plan *swarm.Plan, rep *status.Reporter) (string, error) {
	cfg := plan.Config

	rep.Heading("Launching %s swarm", o.binary)
	rep.Field("Strategy", cfg.Strategy)
	rep.Field("Mode", cfg.Mode)
	rep.Field("Max Agents", cfg.MaxAgents)
	rep.Field("Headless", cfg.Headless)
	if cfg.AnalysisMode {
		rep.Field("Analysis", "read-only")
	}

	getLog().Debug().
		Str("command", launcher.FormatCommandForLogging(append([]string{o.binary}, plan.Flags()...))).
		Int("promptLength", len(plan.Prompt)).
		Msg("Launching assistant CLI")

	outcome, ok := <-o.launcher.Launch(ctx, o.binary, plan.Args)
	if !ok {
		err := &LaunchError{Binary: o.binary, Err: errors.New("launcher closed without an outcome")}
		rep.Error("%v", err)
		return string(launcher.SpawnError), err
	}
	kind := string(outcome.Kind)

	switch outcome.Kind {
	case launcher.Succeeded:
		rep.Success("%s completed successfully", o.binary)
		return kind, nil

	case launcher.Failed:
		err := &ExitError{Binary: o.binary, Code: outcome.ExitCode}
		rep.Error("%v", err)
		return kind, err

	case launcher.NotFound:
		if cfg.ForceExternalTool {
			rep.Error("%s CLI not found. Install it or run without --claude to use the basic executor", o.binary)
			getLog().Error().Err(outcome.Err).Str("binary", o.binary).Msg("Forced assistant CLI not found")
			return kind, fmt.Errorf("%w: %s", ErrToolNotFound, o.binary)
		}
		fallthrough

	default:
		err := &LaunchError{Binary: o.binary, Err: outcome.Err}
		rep.Error("%v", err)
		return kind, err
	}
}
