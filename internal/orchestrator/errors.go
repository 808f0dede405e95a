// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"errors"
	"fmt"
)

// ErrToolNotFound is returned when the assistant CLI was forced but could
// not be started because the binary does not exist.
var ErrToolNotFound = errors.New("assistant CLI not found")

// ErrExecutorFailed wraps errors from the basic executor.
var ErrExecutorFailed = errors.New("basic swarm execution failed")

// LaunchError reports that the child process could not be started.
type LaunchError struct {
	Binary string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Binary, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitError reports that the child process ran and exited non-zero.
type ExitError struct {
	Binary string
	Code   int
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("%s was terminated by a signal", e.Binary)
	}
	return fmt.Sprintf("%s exited with code %d", e.Binary, e.Code)
}
