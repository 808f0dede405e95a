// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package swarm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noldarim/hive/internal/logger"
	"github.com/samber/lo"
)

const (
	DefaultStrategy  = "auto"
	DefaultMode      = "hierarchical"
	DefaultMaxAgents = 5

	OutputText       = "text"
	OutputJSON       = "json"
	OutputStreamJSON = "stream-json"
)

// Strategies accepted by --strategy.
var Strategies = []string{"auto", "research", "development", "analysis", "testing", "optimization", "maintenance"}

// Modes accepted by --mode.
var Modes = []string{"centralized", "distributed", "hierarchical", "mesh", "hybrid"}

// OutputFormats accepted by --output-format.
var OutputFormats = []string{OutputText, OutputJSON, OutputStreamJSON}

// Defaults fill in options the caller left out.
type Defaults struct {
	Strategy    string
	Mode        string
	MaxAgents   int
	ExtraCIVars []string
}

// BuiltinDefaults returns the defaults used when no config overrides them.
func BuiltinDefaults() Defaults {
	return Defaults{
		Strategy:  DefaultStrategy,
		Mode:      DefaultMode,
		MaxAgents: DefaultMaxAgents,
	}
}

// Config is the resolved, read-only view of a request.
type Config struct {
	Strategy          string
	Mode              string
	MaxAgents         int
	OutputFormat      string
	Headless          bool
	HeadlessReasons   []string
	AnalysisMode      bool
	AutoPermissions   bool
	ForceExternalTool bool
	UseExecutor       bool
}

// NonInteractive reports whether the external tool must run in print mode.
func (c Config) NonInteractive() bool {
	return c.Headless || c.OutputFormat == OutputStreamJSON
}

// warnUnknown logs labels outside the known set. They are passed through
// verbatim; the assistant CLI decides what to make of them.
func warnUnknown(option, value string, known []string) {
	if lo.Contains(known, value) {
		return
	}
	log := logger.GetSwarmLogger()
	log.Warn().Str("option", option).Str("value", value).Strs("known", known).Msg("Passing through unrecognised swarm option value")
}

// Resolve derives a Config from options, environment signals and defaults.
func Resolve(opts Options, env Environment, defaults Defaults) (Config, error) {
	strategy := lo.CoalesceOrEmpty(strings.TrimSpace(opts.Strategy), defaults.Strategy, DefaultStrategy)
	warnUnknown("strategy", strategy, Strategies)

	mode := lo.CoalesceOrEmpty(strings.TrimSpace(opts.Mode), defaults.Mode, DefaultMode)
	warnUnknown("mode", mode, Modes)

	maxAgents := lo.Ternary(defaults.MaxAgents > 0, defaults.MaxAgents, DefaultMaxAgents)
	if raw := strings.TrimSpace(opts.MaxAgents); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, usageErrorf(fmt.Sprintf("max-agents must be a positive integer, got %q", opts.MaxAgents))
		}
		maxAgents = n
	}

	reasons := HeadlessSignals(env, defaults.ExtraCIVars)
	if opts.Headless {
		reasons = append([]string{"flag:headless"}, reasons...)
	}
	headless := len(reasons) > 0

	outputFormat := strings.TrimSpace(opts.OutputFormat)
	if outputFormat != "" {
		warnUnknown("output-format", outputFormat, OutputFormats)
	} else {
		outputFormat = lo.Ternary(headless, OutputStreamJSON, OutputText)
	}

	return Config{
		Strategy:          strategy,
		Mode:              mode,
		MaxAgents:         maxAgents,
		OutputFormat:      outputFormat,
		Headless:          headless,
		HeadlessReasons:   reasons,
		AnalysisMode:      opts.Analysis || opts.ReadOnly,
		AutoPermissions:   !opts.NoAutoPermissions,
		ForceExternalTool: opts.Claude,
		UseExecutor:       opts.Executor,
	}, nil
}
