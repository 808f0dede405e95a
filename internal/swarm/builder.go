// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package swarm turns a swarm request into the prompt and argument vector
// handed to the external assistant CLI. Everything here is pure: nothing
// is spawned and no global state is read except through Environment.
package swarm

import (
	"strings"
)

// Flag tokens understood by the external assistant CLI.
const (
	FlagSkipPermissions = "--dangerously-skip-permissions"
	FlagPrint           = "-p"
	FlagOutputFormat    = "--output-format"
	FlagVerbose         = "--verbose"
)

// Plan is the result of Build.
type Plan struct {
	Objective string
	Prompt    string
	// Args[0] is always Prompt; flag tokens follow in a fixed order.
	Args   []string
	Config Config
}

// Flags returns the flag tokens after the prompt.
func (p *Plan) Flags() []string {
	return p.Args[1:]
}

// Build validates the request, resolves its configuration and assembles
// the prompt and argument vector.
func Build(req Request, env Environment, defaults Defaults) (*Plan, error) {
	if len(req.Objective) == 0 {
		return nil, &UsageError{}
	}
	objective := strings.TrimSpace(strings.Join(req.Objective, " "))
	if objective == "" {
		return nil, &UsageError{}
	}

	cfg, err := Resolve(req.Options, env, defaults)
	if err != nil {
		return nil, err
	}

	promptText, err := RenderPrompt(objective, cfg)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Objective: objective,
		Prompt:    promptText,
		Args:      BuildArgs(promptText, cfg),
		Config:    cfg,
	}, nil
}

// BuildArgs assembles the argument vector for a rendered prompt.
func BuildArgs(promptText string, cfg Config) []string {
	args := []string{promptText}

	if cfg.AutoPermissions {
		args = append(args, FlagSkipPermissions)
	}

	if cfg.NonInteractive() {
		args = append(args, FlagPrint, FlagOutputFormat, cfg.OutputFormat, FlagVerbose)
	}

	return args
}
