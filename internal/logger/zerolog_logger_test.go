// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/noldarim/hive/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.LogConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "minimal_config",
			config: &config.LogConfig{
				Level:  "info",
				Format: "json",
				Output: []config.LogOutputConfig{
					{Type: "console", Enabled: true},
				},
				Context: config.LogContextConfig{IncludeTimestamp: true},
			},
		},
		{
			name: "file_output_config",
			config: &config.LogConfig{
				Level:  "debug",
				Format: "json",
				Output: []config.LogOutputConfig{
					{Type: "file", Enabled: true, Path: filepath.Join(t.TempDir(), "test.log")},
				},
				Context: config.LogContextConfig{IncludeTimestamp: true, IncludeCaller: true},
			},
		},
		{
			name: "console_formatted_file",
			config: &config.LogConfig{
				Level:  "warn",
				Format: "console",
				Output: []config.LogOutputConfig{
					{Type: "file", Enabled: true, Path: filepath.Join(t.TempDir(), "console.log")},
				},
			},
		},
		{
			name: "rotating_file_config",
			config: &config.LogConfig{
				Level:  "error",
				Format: "json",
				Output: []config.LogOutputConfig{
					{
						Type:    "file",
						Enabled: true,
						Path:    filepath.Join(t.TempDir(), "rotating.log"),
						Rotate:  config.LogRotateConfig{MaxSizeMB: 1, MaxBackups: 3, MaxAgeDays: 7},
					},
				},
			},
		},
		{
			name: "invalid_output_type",
			config: &config.LogConfig{
				Level:  "info",
				Format: "json",
				Output: []config.LogOutputConfig{{Type: "syslog", Enabled: true}},
			},
			expectError: true,
			errorMsg:    "unsupported output type: syslog",
		},
		{
			name: "file_without_path",
			config: &config.LogConfig{
				Level:  "info",
				Format: "json",
				Output: []config.LogOutputConfig{{Type: "file", Enabled: true}},
			},
			expectError: true,
			errorMsg:    "file output requires a path",
		},
		{
			name: "sampling_config",
			config: &config.LogConfig{
				Level:  "info",
				Format: "json",
				Output: []config.LogOutputConfig{{Type: "console", Enabled: true}},
				Sampling: config.LogSamplingConfig{
					Enabled:    true,
					Initial:    100,
					Thereafter: 10,
					Tick:       time.Second,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewManager(tt.config)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, manager)
			defer manager.Close()

			assert.Same(t, tt.config, manager.config)
			assert.NotNil(t, manager.packageLoggers)
		})
	}
}

func TestManager_FileOutputWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hive.log")
	manager, err := NewManager(&config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "file", Enabled: true, Path: path}},
	})
	require.NoError(t, err)

	log := manager.GetLogger("launcher")
	log.Info().Str("binary", "claude").Msg("launching")
	require.NoError(t, manager.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "launcher", entry["pkg"])
	assert.Equal(t, "claude", entry["binary"])
	assert.Equal(t, "launching", entry["message"])
}

func TestManager_FallbackWhenNoOutputs(t *testing.T) {
	manager, err := NewManager(&config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	defer manager.Close()

	_, statErr := os.Stat(FallbackPath())
	assert.NoError(t, statErr)
	assert.Len(t, manager.writers, 1)
}

func TestManager_GetLogger(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	manager, err := NewManager(&config.LogConfig{
		Level:  "trace",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "console", Enabled: true}},
		Levels: map[string]string{
			"orchestrator": "debug",
			"executor":     "warn",
		},
	})
	require.NoError(t, err)

	tests := []struct {
		pkg           string
		expectedLevel zerolog.Level
	}{
		{pkg: "newpackage", expectedLevel: zerolog.TraceLevel},
		{pkg: "orchestrator", expectedLevel: zerolog.DebugLevel},
		{pkg: "executor", expectedLevel: zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.pkg, func(t *testing.T) {
			logger := manager.GetLogger(tt.pkg)
			assert.Equal(t, tt.expectedLevel, logger.GetLevel())

			var buf bytes.Buffer
			out := logger.Output(&buf)
			out.WithLevel(tt.expectedLevel).Msg("test message")

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.pkg, entry["pkg"])
		})
	}
}

func TestManager_SetPackageLevel(t *testing.T) {
	manager, err := NewManager(&config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "console", Enabled: true}},
	})
	require.NoError(t, err)

	manager.SetPackageLevel("swarm", "debug")
	assert.Equal(t, "debug", manager.config.Levels["swarm"])

	_ = manager.GetLogger("swarm")
	manager.SetPackageLevel("swarm", "error")

	var buf bytes.Buffer
	logger := manager.GetLogger("swarm").Output(&buf)
	logger.Warn().Msg("warn message")
	assert.Zero(t, buf.Len(), "warn should be filtered at error level")

	logger.Error().Msg("error message")
	assert.NotZero(t, buf.Len())
}

func TestManager_PackageLevelBelowGlobal(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)

	manager, err := NewManager(&config.LogConfig{
		Level:  "warn",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "console", Enabled: true}},
		Levels: map[string]string{"launcher": "info"},
	})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	var launcherBuf bytes.Buffer
	launcher := manager.GetLogger("launcher").Output(&launcherBuf)
	launcher.Info().Msg("launch")
	assert.NotZero(t, launcherBuf.Len(), "package level below the global level must still log")

	manager.SetPackageLevel("swarm", "debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	var swarmBuf, cliBuf bytes.Buffer
	swarmLog := manager.GetLogger("swarm").Output(&swarmBuf)
	swarmLog.Debug().Msg("resolved")
	cliLog := manager.GetLogger("cli").Output(&cliBuf)
	cliLog.Info().Msg("parsed")

	assert.NotZero(t, swarmBuf.Len())
	assert.Zero(t, cliBuf.Len(), "other packages keep the configured level")
}

func TestSetPackageLevel_Global(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(originalLevel)
	require.NoError(t, CloseGlobal())

	assert.NotPanics(t, func() { SetPackageLevel("swarm", "debug") })

	require.NoError(t, Initialize(&config.LogConfig{
		Level:  "error",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "console", Enabled: true}},
	}))
	defer CloseGlobal()

	SetPackageLevel("executor", "debug")
	assert.Equal(t, zerolog.DebugLevel, GetExecutorLogger().GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, GetCLILogger().GetLevel())
}

func TestManager_ThreadSafety(t *testing.T) {
	manager, err := NewManager(&config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "file", Enabled: true, Path: filepath.Join(t.TempDir(), "c.log")}},
	})
	require.NoError(t, err)
	defer manager.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pkg := []string{"cli", "swarm", "launcher", "executor"}[i%4]
			l := manager.GetLogger(pkg)
			l.Info().Int("i", i).Msg("concurrent")
		}(i)
	}
	wg.Wait()

	assert.Len(t, manager.packageLoggers, 4)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("Error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}

func TestStaticLoggerGetters(t *testing.T) {
	require.NoError(t, CloseGlobal())
	require.NoError(t, Initialize(&config.LogConfig{
		Level:  "info",
		Format: "json",
		Output: []config.LogOutputConfig{{Type: "file", Enabled: true, Path: filepath.Join(t.TempDir(), "g.log")}},
		Levels: map[string]string{
			"cli":       "debug",
			"telemetry": "error",
		},
	}))
	defer CloseGlobal()

	tests := []struct {
		name          string
		getterFunc    func() zerolog.Logger
		expectedLevel zerolog.Level
	}{
		{"cli", GetCLILogger, zerolog.DebugLevel},
		{"swarm", GetSwarmLogger, zerolog.InfoLevel},
		{"launcher", GetLauncherLogger, zerolog.InfoLevel},
		{"orchestrator", GetOrchestratorLogger, zerolog.InfoLevel},
		{"executor", GetExecutorLogger, zerolog.InfoLevel},
		{"telemetry", GetTelemetryLogger, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedLevel, tt.getterFunc().GetLevel())
		})
	}
}

func TestGetLogger_Uninitialized(t *testing.T) {
	require.NoError(t, CloseGlobal())

	assert.NotPanics(t, func() {
		l := GetOrchestratorLogger()
		l.Info().Msg("nobody hears this")
	})
}
