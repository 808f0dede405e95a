// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status renders user-facing progress lines for CLI commands.
package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level selects the icon and colour of a status line.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Reporter writes status lines. Errors and warnings go to errOut.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	noColor bool
}

// NewReporter creates a reporter on the given writers.
func NewReporter(out, errOut io.Writer, noColor bool) *Reporter {
	return &Reporter{out: out, errOut: errOut, noColor: noColor}
}

// Stdio returns a reporter on the process streams.
func Stdio(noColor bool) *Reporter {
	return NewReporter(os.Stdout, os.Stderr, noColor)
}

func (r *Reporter) Info(format string, args ...any)    { r.line(LevelInfo, format, args...) }
func (r *Reporter) Success(format string, args ...any) { r.line(LevelSuccess, format, args...) }
func (r *Reporter) Warn(format string, args ...any)    { r.line(LevelWarn, format, args...) }
func (r *Reporter) Error(format string, args ...any)   { r.line(LevelError, format, args...) }

// Stderr returns a reporter that writes every line to the error stream.
// Used when stdout carries machine-readable output.
func (r *Reporter) Stderr() *Reporter {
	return NewReporter(r.errOut, r.errOut, r.noColor)
}

// Heading prints a bold title line.
func (r *Reporter) Heading(format string, args ...any) {
	r.write(r.out, r.render(headingStyle, "▸ "+fmt.Sprintf(format, args...)))
}

// Field prints an indented "label: value" line.
func (r *Reporter) Field(label string, value any) {
	r.write(r.out, "  "+r.render(labelStyle, label+":")+" "+r.render(valueStyle, fmt.Sprint(value)))
}

// Plain prints text as-is.
func (r *Reporter) Plain(text string) {
	r.write(r.out, strings.TrimRight(text, "\n"))
}

// NoColor reports whether styling is disabled.
func (r *Reporter) NoColor() bool {
	return r.noColor
}

// Writer returns the main output stream.
func (r *Reporter) Writer() io.Writer {
	return r.out
}

func (r *Reporter) line(level Level, format string, args ...any) {
	icon, style := Icon(level), styleFor(level)
	w := r.out
	if level == LevelWarn || level == LevelError {
		w = r.errOut
	}
	r.write(w, r.render(style, icon)+" "+fmt.Sprintf(format, args...))
}

func (r *Reporter) render(style lipgloss.Style, s string) string {
	if r.noColor {
		return s
	}
	return style.Render(s)
}

func (r *Reporter) write(w io.Writer, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(w, s)
}

// Icon returns the glyph for a level.
func Icon(level Level) string {
	switch level {
	case LevelSuccess:
		return "✓"
	case LevelWarn:
		return "!"
	case LevelError:
		return "✗"
	default:
		return "○"
	}
}

func styleFor(level Level) lipgloss.Style {
	switch level {
	case LevelSuccess:
		return successStyle
	case LevelWarn:
		return warnStyle
	case LevelError:
		return errorStyle
	default:
		return infoStyle
	}
}
