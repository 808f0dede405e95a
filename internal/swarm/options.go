// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package swarm

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/noldarim/hive/internal/logger"
)

// Options are the recognised swarm flags. Keys match the CLI flag names.
type Options struct {
	Strategy          string `mapstructure:"strategy"`
	Mode              string `mapstructure:"mode"`
	MaxAgents         string `mapstructure:"max-agents"` // numeric-as-text, validated in Resolve
	Executor          bool   `mapstructure:"executor"`
	Claude            bool   `mapstructure:"claude"`
	Headless          bool   `mapstructure:"headless"`
	OutputFormat      string `mapstructure:"output-format"`
	NoAutoPermissions bool   `mapstructure:"no-auto-permissions"`
	Analysis          bool   `mapstructure:"analysis"`
	ReadOnly          bool   `mapstructure:"read-only"`
}

// Request is one invocation of the swarm command.
type Request struct {
	Objective []string
	Options   Options
}

// OptionKeys lists the recognised option names in flag order.
var OptionKeys = []string{
	"strategy", "mode", "max-agents", "executor", "claude", "headless",
	"output-format", "no-auto-permissions", "analysis", "read-only",
}

// DecodeOptions converts a flag-name → value mapping into Options.
// Values may be strings, booleans or numbers; "true" and 8 are accepted
// where a bool or a numeric string is expected. Unknown keys are ignored.
func DecodeOptions(raw map[string]any) (Options, error) {
	var opts Options
	var md mapstructure.Metadata

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		Metadata:         &md,
	})
	if err != nil {
		return Options{}, fmt.Errorf("failed to create options decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return Options{}, usageErrorf(fmt.Sprintf("invalid swarm options: %v", err))
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		log := logger.GetSwarmLogger()
		log.Debug().Strs("keys", md.Unused).Msg("Ignoring unrecognised swarm options")
	}

	return opts, nil
}

// Merge returns a mapping where keys in over replace keys in base.
func Merge(base, over map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}
