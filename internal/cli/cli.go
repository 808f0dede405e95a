// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the hive command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/noldarim/hive/internal/config"
	"github.com/noldarim/hive/internal/logger"
	"github.com/noldarim/hive/internal/orchestrator"
	"github.com/noldarim/hive/internal/swarm"
	"github.com/noldarim/hive/internal/telemetry"
	"github.com/noldarim/hive/internal/tui/status"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const appName = "hive"

// Runner executes a swarm request.
type Runner interface {
	Run(ctx context.Context, req swarm.Request) error
}

// RunnerFactory builds the runner for one invocation.
type RunnerFactory func(cfg *config.AppConfig, rep *status.Reporter) Runner

func defaultRunnerFactory(cfg *config.AppConfig, rep *status.Reporter) Runner {
	return orchestrator.New(cfg, orchestrator.WithReporter(rep))
}

type app struct {
	version   string
	out       io.Writer
	errOut    io.Writer
	newRunner RunnerFactory

	configPath string
	noColor    bool
	logLevels  map[string]string
}

// Option configures the command tree.
type Option func(*app)

// WithOutput redirects command output.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *app) {
		a.out = out
		a.errOut = errOut
	}
}

// WithRunnerFactory replaces the orchestrator used by the swarm command.
func WithRunnerFactory(f RunnerFactory) Option {
	return func(a *app) { a.newRunner = f }
}

// NewRootCommand builds the hive command tree.
func NewRootCommand(version string, opts ...Option) *cobra.Command {
	a := &app{
		version:   version,
		out:       os.Stdout,
		errOut:    os.Stderr,
		newRunner: defaultRunnerFactory,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   appName,
		Short: "Launch coordinated AI agent swarms",
		Long: `hive builds a swarm prompt for the claude CLI and launches it, or plans
the swarm with the built-in basic executor when claude is not available.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default: ./config.yaml or ~/.hive/config.yaml)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable coloured output")
	root.PersistentFlags().StringToStringVar(&a.logLevels, "log-level", nil, "per-package log levels, e.g. swarm=debug,launcher=trace")

	root.AddCommand(a.swarmCommand(), a.versionCommand())
	return root
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, a.version)
		},
	}
}

func (a *app) swarmCommand() *cobra.Command {
	var swarmFile string

	cmd := &cobra.Command{
		Use:   "swarm <objective>",
		Short: "Launch a swarm of agents on an objective",
		Example: `  hive swarm "Build a REST API"
  hive swarm "Audit the auth module" --analysis --mode mesh
  hive swarm "Increase test coverage" --headless --output-format stream-json
  hive swarm --file api.swarm.yaml --max-agents 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSwarm(cmd, args, swarmFile)
		},
	}

	f := cmd.Flags()
	f.String("strategy", "", "swarm strategy: auto, research, development, analysis, testing, optimization, maintenance")
	f.String("mode", "", "coordination mode: centralized, distributed, hierarchical, mesh, hybrid")
	f.String("max-agents", "", "maximum number of agents")
	f.Bool("executor", false, "use the built-in basic executor instead of claude")
	f.Bool("claude", false, "require the claude CLI even when it is not found on PATH")
	f.Bool("headless", false, "run non-interactively")
	f.String("output-format", "", "output format: text, json, stream-json")
	f.Bool("no-auto-permissions", false, "do not pass --dangerously-skip-permissions to claude")
	f.Bool("analysis", false, "analysis mode: agents must not modify anything")
	f.Bool("read-only", false, "alias for --analysis")
	f.StringVarP(&swarmFile, "file", "f", "", "swarm YAML file with an objective and options")

	return cmd
}

func (a *app) runSwarm(cmd *cobra.Command, args []string, swarmFile string) error {
	objective := args
	fileOpts := map[string]any{}
	if swarmFile != "" {
		sf, err := LoadSwarmFile(swarmFile)
		if err != nil {
			return err
		}
		if len(objective) == 0 {
			objective = sf.ObjectiveParts()
		}
		if sf.Options != nil {
			fileOpts = sf.Options
		}
	}

	opts, err := swarm.DecodeOptions(swarm.Merge(fileOpts, CollectOptions(cmd.Flags())))
	if err != nil {
		return a.usage(cmd, err)
	}

	cfg, err := config.NewConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Initialize(&cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.CloseGlobal()
	for pkg, level := range a.logLevels {
		logger.SetPackageLevel(pkg, level)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, a.version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log := logger.GetTelemetryLogger()
			log.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	log := logger.GetCLILogger()
	log.Debug().Strs("objective", objective).Str("file", swarmFile).Msg("Running swarm command")

	rep := status.NewReporter(a.out, a.errOut, a.noColor)
	err = a.newRunner(cfg, rep).Run(ctx, swarm.Request{Objective: objective, Options: opts})
	if errors.Is(err, swarm.ErrUsage) {
		return a.usage(cmd, err)
	}
	if err != nil && alreadyReported(err) {
		return &reportedError{err: err}
	}
	return err
}

// usage prints the usage line and returns nil; a usage problem is not a
// failed run.
func (a *app) usage(cmd *cobra.Command, err error) error {
	var usageErr *swarm.UsageError
	if errors.As(err, &usageErr) && usageErr.Reason != "" {
		fmt.Fprintf(a.errOut, "%s\n\n", usageErr.Reason)
	}
	fmt.Fprintln(a.out, swarm.UsageLine)
	fmt.Fprintf(a.out, "\nFlags:\n%s", cmd.LocalFlags().FlagUsages())
	return nil
}

// CollectOptions returns only the swarm options the user set on the
// command line, keyed by flag name.
func CollectOptions(flags *pflag.FlagSet) map[string]any {
	opts := map[string]any{}
	flags.Visit(func(f *pflag.Flag) {
		if !lo.Contains(swarm.OptionKeys, f.Name) {
			return
		}
		if f.Value.Type() == "bool" {
			v, err := strconv.ParseBool(f.Value.String())
			if err == nil {
				opts[f.Name] = v
				return
			}
		}
		opts[f.Name] = f.Value.String()
	})
	return opts
}

// reportedError marks errors the status reporter has already shown.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func alreadyReported(err error) bool {
	var launchErr *orchestrator.LaunchError
	var exitErr *orchestrator.ExitError
	return errors.As(err, &launchErr) ||
		errors.As(err, &exitErr) ||
		errors.Is(err, orchestrator.ErrToolNotFound) ||
		errors.Is(err, orchestrator.ErrExecutorFailed) ||
		errors.Is(err, status.ErrInterrupted)
}

// Execute runs the command tree with args and returns the process exit
// code.
func Execute(ctx context.Context, version string, args []string, opts ...Option) int {
	root := NewRootCommand(version, opts...)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}

	var exitErr *orchestrator.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code
	}
	return 1
}
