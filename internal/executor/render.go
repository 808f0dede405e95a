// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package executor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/noldarim/hive/internal/swarm"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	roleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// streamEvent is one line of stream-json output.
type streamEvent struct {
	Type    string  `json:"type"`
	SwarmID string  `json:"swarm_id"`
	Agent   *Agent  `json:"agent,omitempty"`
	Task    *Task   `json:"task,omitempty"`
	Report  *Report `json:"report,omitempty"`
}

// Render writes report to w in the given output format. Unknown formats
// get the text summary, which is plain when noColor is set.
func Render(w io.Writer, report *Report, format string, noColor bool) error {
	switch format {
	case swarm.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	case swarm.OutputStreamJSON:
		return renderStream(w, report)
	default:
		_, err := io.WriteString(w, renderText(report, noColor))
		return err
	}
}

func renderStream(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	events := []streamEvent{{Type: "swarm_started", SwarmID: report.SwarmID}}
	for i := range report.Agents {
		events = append(events, streamEvent{Type: "agent_planned", SwarmID: report.SwarmID, Agent: &report.Agents[i]})
	}
	for i := range report.Tasks {
		events = append(events, streamEvent{Type: "task_planned", SwarmID: report.SwarmID, Task: &report.Tasks[i]})
	}
	events = append(events, streamEvent{Type: "swarm_planned", SwarmID: report.SwarmID, Report: report})

	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("failed to encode %s event: %w", ev.Type, err)
		}
	}
	return nil
}

func renderText(report *Report, noColor bool) string {
	paint := func(style lipgloss.Style, text string) string {
		if noColor {
			return text
		}
		return style.Render(text)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", paint(titleStyle, "Basic swarm plan "+report.SwarmID))
	fmt.Fprintf(&b, "  Objective: %s\n", report.Objective)
	fmt.Fprintf(&b, "  Strategy: %s  Mode: %s  Agents: %d\n", report.Strategy, report.Mode, len(report.Agents))
	if report.AnalysisMode {
		fmt.Fprintf(&b, "  %s\n", swarm.ReadOnlyMarker)
	}

	b.WriteString("\n")
	for _, a := range report.Agents {
		line := fmt.Sprintf("  %s %s", paint(roleStyle, fmt.Sprintf("%-12s", a.Role)), a.Name)
		if a.ReportsTo != "" {
			line += paint(dimStyle, " → "+a.ReportsTo)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	for _, t := range report.Tasks {
		fmt.Fprintf(&b, "  %s %s\n", paint(dimStyle, "["+t.AgentID+"]"), t.Description)
	}

	return b.String()
}
