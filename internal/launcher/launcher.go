// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/noldarim/hive/internal/logger"
)

// OutcomeKind classifies how a launch ended.
type OutcomeKind string

const (
	Succeeded  OutcomeKind = "succeeded"
	Failed     OutcomeKind = "failed"
	SpawnError OutcomeKind = "spawn_error"
	NotFound   OutcomeKind = "not_found"
)

// Outcome is the single result of a launch.
type Outcome struct {
	Kind     OutcomeKind
	ExitCode int // valid for Succeeded and Failed; -1 when killed by a signal
	Err      error
	Duration time.Duration
}

// Stdio holds the streams handed to the child. Nil fields inherit ours.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Launcher starts a child process and reports how it ended.
type Launcher interface {
	Launch(ctx context.Context, binary string, args []string) <-chan Outcome
}

// DefaultStopGrace is how long a cancelled child gets to exit after
// SIGTERM before it is killed.
const DefaultStopGrace = 5 * time.Second

// ProcessLauncher runs the child with os/exec. Cancelling the launch
// context sends the child SIGTERM; it is killed if still running after
// StopGrace.
type ProcessLauncher struct {
	Stdio Stdio
	Dir   string
	Env   []string // nil inherits the parent environment

	StopGrace time.Duration // zero means DefaultStopGrace
}

// New returns a ProcessLauncher wired to the current process streams.
func New() *ProcessLauncher {
	return &ProcessLauncher{}
}

// Launch starts binary with args and returns a channel that receives
// exactly one Outcome and is then closed.
func (l *ProcessLauncher) Launch(ctx context.Context, binary string, args []string) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		done <- l.run(ctx, binary, args)
	}()
	return done
}

func (l *ProcessLauncher) run(ctx context.Context, binary string, args []string) Outcome {
	log := logger.GetLauncherLogger()

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if l.Stdio.In != nil {
		cmd.Stdin = l.Stdio.In
	}
	if l.Stdio.Out != nil {
		cmd.Stdout = l.Stdio.Out
	}
	if l.Stdio.Err != nil {
		cmd.Stderr = l.Stdio.Err
	}
	cmd.Dir = l.Dir
	cmd.Env = l.Env
	cmd.Cancel = func() error {
		log.Info().Int("pid", cmd.Process.Pid).Msg("Forwarding SIGTERM to child process")
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = l.StopGrace
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultStopGrace
	}

	log.Info().
		Str("binary", binary).
		Str("commandPreview", FormatCommandForLogging(append([]string{binary}, args...))).
		Int("argCount", len(args)).
		Msg("Launching child process")

	start := time.Now()
	if err := cmd.Start(); err != nil {
		kind := SpawnError
		if isNotFound(err) {
			kind = NotFound
		}
		log.Error().Err(err).Str("binary", binary).Str("kind", string(kind)).Msg("Failed to start child process")
		return Outcome{Kind: kind, ExitCode: -1, Err: err, Duration: time.Since(start)}
	}

	log.Info().Int("pid", cmd.Process.Pid).Msg("Child process started")

	waitErr := cmd.Wait()
	duration := time.Since(start)

	// After a forwarded signal Wait reports the context error even when
	// the child exited cleanly.
	if waitErr == nil || (cmd.ProcessState != nil && cmd.ProcessState.Success()) {
		log.Info().Dur("duration", duration).Msg("Child process exited successfully")
		return Outcome{Kind: Succeeded, ExitCode: 0, Duration: duration}
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			code = -1
		}
		log.Warn().Int("exitCode", code).Dur("duration", duration).Msg("Child process exited with failure")
		return Outcome{
			Kind:     Failed,
			ExitCode: code,
			Err:      fmt.Errorf("%s exited with code %d", binary, code),
			Duration: duration,
		}
	}

	log.Error().Err(waitErr).Msg("Waiting for child process failed")
	return Outcome{Kind: SpawnError, ExitCode: -1, Err: waitErr, Duration: duration}
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// FormatCommandForLogging creates a short preview of the command for logging
func FormatCommandForLogging(command []string) string {
	if len(command) == 0 {
		return "<empty>"
	}

	preview := command[0]
	for i := 1; i < len(command) && i < 4; i++ {
		preview += " " + truncateString(command[i], 50)
	}
	if len(command) > 4 {
		preview += fmt.Sprintf(" [+%d more args]", len(command)-4)
	}

	return truncateString(preview, 200)
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
