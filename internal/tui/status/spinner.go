// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package status

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned when a spinner run is aborted by SIGINT or by
// cancelling its context. The program reads no keyboard input.
var ErrInterrupted = errors.New("interrupted")

type jobDoneMsg struct{ err error }

// SpinnerModel shows a spinner until its job finishes.
type SpinnerModel struct {
	spinner spinner.Model
	title   string
	job     func() error
	done    bool
	err     error
}

// NewSpinner creates a spinner model that runs job when started.
func NewSpinner(title string, job func() error) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SpinnerModel{spinner: s, title: title, job: job}
}

func (m SpinnerModel) Init() tea.Cmd {
	job := m.job
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return jobDoneMsg{err: job()}
	})
}

func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case jobDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// Done reports whether the job has finished and its error.
func (m SpinnerModel) Done() (bool, error) {
	return m.done, m.err
}

// RunWithSpinner runs job, showing a spinner on out when interactive is
// true. Headless runs call job directly so nothing but its own output is
// written.
func RunWithSpinner(ctx context.Context, out io.Writer, interactive bool, title string, job func(ctx context.Context) error) error {
	if !interactive {
		return job(ctx)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewSpinner(title, func() error { return job(jobCtx) })
	p := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))

	final, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) || errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
		return ErrInterrupted
	}
	if err != nil {
		return err
	}

	if m, ok := final.(SpinnerModel); ok {
		_, jobErr := m.Done()
		return jobErr
	}
	return nil
}
