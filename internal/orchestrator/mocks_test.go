// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"

	"github.com/noldarim/hive/internal/executor"
	"github.com/noldarim/hive/internal/launcher"
	"github.com/noldarim/hive/internal/swarm"
	"github.com/stretchr/testify/mock"
)

// MockLauncher is a shared mock implementation of launcher.Launcher.
type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) Launch(ctx context.Context, binary string, args []string) <-chan launcher.Outcome {
	callArgs := m.Called(ctx, binary, args)
	done := make(chan launcher.Outcome, 1)
	done <- callArgs.Get(0).(launcher.Outcome)
	close(done)
	return done
}

// MockExecutor is a shared mock implementation of Executor.
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, plan *swarm.Plan) (*executor.Report, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*executor.Report), args.Error(1)
}

// probeFound and probeMissing are ToolProbe fakes.
func probeFound(binary string) (string, error) {
	return "/usr/local/bin/" + binary, nil
}

func probeMissing(binary string) (string, error) {
	return "", &notFoundError{binary: binary}
}

type notFoundError struct{ binary string }

func (e *notFoundError) Error() string { return e.binary + ": executable file not found in $PATH" }
