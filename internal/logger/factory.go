// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to config.yaml log.levels
// These ensure consistent logger names across the codebase

// GetCLILogger returns a logger for command parsing
func GetCLILogger() zerolog.Logger {
	return GetLogger("cli")
}

// GetSwarmLogger returns a logger for option resolution and argv building
func GetSwarmLogger() zerolog.Logger {
	return GetLogger("swarm")
}

// GetLauncherLogger returns a logger for child process launches
func GetLauncherLogger() zerolog.Logger {
	return GetLogger("launcher")
}

// GetOrchestratorLogger returns a logger for the swarm run flow
func GetOrchestratorLogger() zerolog.Logger {
	return GetLogger("orchestrator")
}

// GetExecutorLogger returns a logger for the basic swarm executor
func GetExecutorLogger() zerolog.Logger {
	return GetLogger("executor")
}

// GetTelemetryLogger returns a logger for tracing setup
func GetTelemetryLogger() zerolog.Logger {
	return GetLogger("telemetry")
}
