// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package swarm

import (
	"bytes"
	"fmt"
	"text/template"
)

const (
	AnalysisMarker = "ANALYSIS MODE CONSTRAINTS"
	ReadOnlyMarker = "READ-ONLY MODE ACTIVE"
)

const promptTemplate = `You are the coordinator of a Hive swarm.

OBJECTIVE: {{.Objective}}

SWARM CONFIGURATION:
- Strategy: {{.Strategy}}
- Mode: {{.Mode}}
- Max Agents: {{.MaxAgents}}
{{- if .Analysis}}

` + AnalysisMarker + `:
` + ReadOnlyMarker + ` - DO NOT CREATE, MODIFY OR DELETE ANY FILES.
- Only read, search and analyze existing code, configuration and documentation.
- Do not run commands that change state (package installs, commits, migrations, file writes).
- Report findings, risks and recommendations instead of applying them.
{{- end}}

STRATEGY ({{.Strategy}}):
{{.StrategyGuidance}}

COORDINATION ({{.Mode}}):
{{.ModeGuidance}}

EXECUTION:
1. Break the objective into tasks that at most {{.MaxAgents}} agents can work on in parallel.
2. Spawn one agent per task with the Task tool and give each a clear, self-contained brief.
3. Track every task in a todo list and keep it current as agents report back.
4. Finish with a summary of what each agent delivered{{if .Analysis}} and a consolidated findings report{{end}}.
`

var strategyGuidance = map[string]string{
	"auto":         "Pick the approach that best fits the objective: research unknowns first, then build, then verify.",
	"research":     "Gather information before acting. Survey the codebase and documentation, compare options and cite sources.",
	"development":  "Design, implement and integrate. Keep changes small, reviewed and covered by tests.",
	"analysis":     "Study the existing system. Map structure, data flow and hotspots, and quantify what you can.",
	"testing":      "Raise confidence. Find untested paths, write focused tests and report failures with reproductions.",
	"optimization": "Measure first, then improve the slowest or most expensive paths and measure again.",
	"maintenance":  "Reduce risk. Update dependencies, remove dead code and fix small defects without changing behavior.",
}

var modeGuidance = map[string]string{
	"centralized":  "A single coordinator assigns every task and collects every result.",
	"distributed":  "Agents claim tasks independently and share progress with their neighbours.",
	"hierarchical": "The coordinator delegates to team leads, who split work across their own agents.",
	"mesh":         "Agents talk to each other directly and negotiate task ownership as peers.",
	"hybrid":       "A coordinator sets direction while workers collaborate peer-to-peer on shared tasks.",
}

const (
	genericStrategyGuidance = "Apply this strategy as its name suggests, adapting the plan to the objective."
	genericModeGuidance     = "Coordinate agents in the way this mode describes and keep the coordinator informed."
)

var prompt = template.Must(template.New("swarm-prompt").Parse(promptTemplate))

type promptData struct {
	Objective        string
	Strategy         string
	Mode             string
	MaxAgents        int
	Analysis         bool
	StrategyGuidance string
	ModeGuidance     string
}

// RenderPrompt renders the coordinator prompt for an objective.
func RenderPrompt(objective string, cfg Config) (string, error) {
	var buf bytes.Buffer
	err := prompt.Execute(&buf, promptData{
		Objective:        objective,
		Strategy:         cfg.Strategy,
		Mode:             cfg.Mode,
		MaxAgents:        cfg.MaxAgents,
		Analysis:         cfg.AnalysisMode,
		StrategyGuidance: guidance(strategyGuidance, cfg.Strategy, genericStrategyGuidance),
		ModeGuidance:     guidance(modeGuidance, cfg.Mode, genericModeGuidance),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

func guidance(table map[string]string, key, fallback string) string {
	if text, ok := table[key]; ok {
		return text
	}
	return fallback
}
