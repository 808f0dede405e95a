// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package executor implements the basic swarm executor used when the
// external assistant CLI is unavailable. It plans the swarm locally: agent
// roster, coordination links and one task per agent. It does not call any
// model.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/noldarim/hive/internal/logger"
	"github.com/noldarim/hive/internal/swarm"
	"github.com/samber/lo"
)

const StatusPlanned = "planned"

// Agent is one member of the planned swarm.
type Agent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	ReportsTo string `json:"reports_to,omitempty"`
	ReadOnly  bool   `json:"read_only"`
}

// Link is a coordination channel between two agents.
type Link struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Task is the work item assigned to an agent.
type Task struct {
	ID          string `json:"id"`
	AgentID     string `json:"agent_id"`
	Description string `json:"description"`
}

// Report describes a planned swarm.
type Report struct {
	SwarmID      string    `json:"swarm_id"`
	Objective    string    `json:"objective"`
	Strategy     string    `json:"strategy"`
	Mode         string    `json:"mode"`
	MaxAgents    int       `json:"max_agents"`
	AnalysisMode bool      `json:"analysis_mode"`
	Status       string    `json:"status"`
	Agents       []Agent   `json:"agents"`
	Links        []Link    `json:"links"`
	Tasks        []Task    `json:"tasks"`
	CreatedAt    time.Time `json:"created_at"`
}

// BasicExecutor plans swarms without an external tool.
type BasicExecutor struct {
	now   func() time.Time
	newID func() string
}

// New creates a BasicExecutor.
func New() *BasicExecutor {
	return &BasicExecutor{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

var roleCycles = map[string][]string{
	"research":     {"researcher", "analyst", "documenter"},
	"development":  {"architect", "coder", "coder", "tester", "reviewer"},
	"analysis":     {"analyst", "researcher", "reviewer"},
	"testing":      {"tester", "tester", "reviewer"},
	"optimization": {"optimizer", "analyst", "tester"},
	"maintenance":  {"coder", "reviewer", "documenter"},
}

// strategy keywords, checked in order
var autoKeywords = []struct {
	strategy string
	words    []string
}{
	{"testing", []string{"test", "coverage", "qa"}},
	{"research", []string{"research", "investigate", "explore", "compare"}},
	{"analysis", []string{"analy", "audit", "review", "assess"}},
	{"optimization", []string{"optimi", "perf", "speed", "latency", "memory"}},
	{"maintenance", []string{"refactor", "upgrade", "cleanup", "clean up", "deprecat", "fix"}},
}

// EffectiveStrategy resolves "auto" to a concrete strategy from the objective.
func EffectiveStrategy(strategy, objective string) string {
	if strategy != "auto" {
		return strategy
	}
	lower := strings.ToLower(objective)
	for _, kw := range autoKeywords {
		if lo.SomeBy(kw.words, func(w string) bool { return strings.Contains(lower, w) }) {
			return kw.strategy
		}
	}
	return "development"
}

// Execute plans the swarm described by plan.
func (e *BasicExecutor) Execute(ctx context.Context, plan *swarm.Plan) (*Report, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := logger.GetExecutorLogger()
	cfg := plan.Config
	strategy := EffectiveStrategy(cfg.Strategy, plan.Objective)

	report := &Report{
		SwarmID:      "swarm_" + e.newID(),
		Objective:    plan.Objective,
		Strategy:     strategy,
		Mode:         cfg.Mode,
		MaxAgents:    cfg.MaxAgents,
		AnalysisMode: cfg.AnalysisMode,
		Status:       StatusPlanned,
		CreatedAt:    e.now().UTC(),
	}

	// Unrecognised modes are planned with the default topology.
	topology := lo.Ternary(lo.Contains(swarm.Modes, cfg.Mode), cfg.Mode, swarm.DefaultMode)

	report.Agents = buildRoster(cfg.MaxAgents, topology, strategy, cfg.AnalysisMode)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Links = buildLinks(report.Agents, topology)
	report.Tasks = lo.Map(report.Agents, func(a Agent, i int) Task {
		return Task{
			ID:          fmt.Sprintf("task-%d", i+1),
			AgentID:     a.ID,
			Description: taskDescription(a.Role, plan.Objective, cfg.AnalysisMode),
		}
	})

	log.Info().
		Str("swarmId", report.SwarmID).
		Str("strategy", strategy).
		Str("mode", cfg.Mode).
		Int("agents", len(report.Agents)).
		Int("links", len(report.Links)).
		Msg("Planned swarm with basic executor")

	return report, nil
}

func hasCoordinator(mode string) bool {
	return mode == "centralized" || mode == "hierarchical" || mode == "hybrid"
}

func buildRoster(n int, mode, strategy string, readOnly bool) []Agent {
	cycle := roleCycles[strategy]
	if len(cycle) == 0 {
		cycle = roleCycles["development"]
	}

	agents := make([]Agent, n)
	workerIdx := 0
	for i := range agents {
		role := ""
		if i == 0 && hasCoordinator(mode) {
			role = "coordinator"
		} else {
			role = cycle[workerIdx%len(cycle)]
			workerIdx++
		}
		agents[i] = Agent{
			ID:       fmt.Sprintf("agent-%d", i+1),
			Name:     fmt.Sprintf("%s-%d", role, i+1),
			Role:     role,
			ReadOnly: readOnly,
		}
	}

	if mode == "hierarchical" && n > 1 {
		assignTeams(agents)
	} else if hasCoordinator(mode) {
		for i := 1; i < n; i++ {
			agents[i].ReportsTo = agents[0].ID
		}
	}

	return agents
}

// assignTeams splits workers into teams of up to three. The first worker
// of each team is its lead and reports to the coordinator.
func assignTeams(agents []Agent) {
	workers := len(agents) - 1
	leads := (workers + 2) / 3
	for i := 1; i <= leads; i++ {
		agents[i].ReportsTo = agents[0].ID
	}
	for i := leads + 1; i < len(agents); i++ {
		lead := 1 + (i-leads-1)%leads
		agents[i].ReportsTo = agents[lead].ID
	}
}

func buildLinks(agents []Agent, mode string) []Link {
	n := len(agents)
	var links []Link

	switch mode {
	case "mesh":
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				links = append(links, Link{From: agents[i].ID, To: agents[j].ID})
			}
		}
	case "distributed":
		if n == 2 {
			links = append(links, Link{From: agents[0].ID, To: agents[1].ID})
		} else if n > 2 {
			for i := 0; i < n; i++ {
				links = append(links, Link{From: agents[i].ID, To: agents[(i+1)%n].ID})
			}
		}
	case "hybrid":
		for i := 1; i < n; i++ {
			links = append(links, Link{From: agents[0].ID, To: agents[i].ID})
		}
		for i := 1; i < n; i++ {
			for j := i + 1; j < n; j++ {
				links = append(links, Link{From: agents[i].ID, To: agents[j].ID})
			}
		}
	default: // centralized, hierarchical
		for _, a := range agents {
			if a.ReportsTo != "" {
				links = append(links, Link{From: a.ReportsTo, To: a.ID})
			}
		}
	}

	return links
}

var roleVerbs = map[string]string{
	"coordinator": "Coordinate the swarm and integrate results for",
	"researcher":  "Gather background and prior art for",
	"analyst":     "Analyze the current state relevant to",
	"documenter":  "Document decisions and outcomes for",
	"architect":   "Design the approach for",
	"coder":       "Implement changes for",
	"tester":      "Write and run tests for",
	"reviewer":    "Review the work produced for",
	"optimizer":   "Profile and optimize the hot paths for",
}

func taskDescription(role, objective string, readOnly bool) string {
	desc := fmt.Sprintf("%s: %s", roleVerbs[role], objective)
	if readOnly {
		desc += " (read-only)"
	}
	return desc
}
