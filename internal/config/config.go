// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration.
// It is instantiated by NewConfig() and passed to components that need it (dependency injection).
type AppConfig struct {
	Log       LogConfig       `mapstructure:"log"`
	Swarm     SwarmConfig     `mapstructure:"swarm"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds comprehensive logging configuration
type LogConfig struct {
	Level    string            `mapstructure:"level"`
	Format   string            `mapstructure:"format"`
	Output   []LogOutputConfig `mapstructure:"output"`
	Levels   map[string]string `mapstructure:"levels"`
	Context  LogContextConfig  `mapstructure:"context"`
	Sampling LogSamplingConfig `mapstructure:"sampling"`
}

// LogOutputConfig defines where logs are written
type LogOutputConfig struct {
	Type    string          `mapstructure:"type"` // "file", "console"
	Enabled bool            `mapstructure:"enabled"`
	Path    string          `mapstructure:"path"`   // For file output
	Rotate  LogRotateConfig `mapstructure:"rotate"` // For file output
}

// LogRotateConfig defines log rotation settings
type LogRotateConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// LogContextConfig defines what context to include in logs
type LogContextConfig struct {
	IncludeCaller     bool   `mapstructure:"include_caller"`
	IncludeTimestamp  bool   `mapstructure:"include_timestamp"`
	IncludeLevel      bool   `mapstructure:"include_level"`
	IncludeStackTrace string `mapstructure:"include_stack_trace"` // Level at which to include stack trace
}

// LogSamplingConfig defines log sampling settings
type LogSamplingConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Initial    uint32        `mapstructure:"initial"`
	Thereafter uint32        `mapstructure:"thereafter"`
	Tick       time.Duration `mapstructure:"tick"`
}

// SwarmConfig holds defaults for the swarm subcommand.
type SwarmConfig struct {
	ClaudeBinary     string   `mapstructure:"claude_binary"`      // External assistant CLI looked up on PATH
	DefaultStrategy  string   `mapstructure:"default_strategy"`   // Used when --strategy is not given
	DefaultMode      string   `mapstructure:"default_mode"`       // Used when --mode is not given
	DefaultMaxAgents int      `mapstructure:"default_max_agents"` // Used when --max-agents is not given
	FallbackEnabled  bool     `mapstructure:"fallback_enabled"`   // Whether the basic executor is available
	ExtraCIVars      []string `mapstructure:"extra_ci_vars"`      // Additional env vars treated as CI indicators
}

// TelemetryConfig holds OpenTelemetry tracing configuration.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"` // host:port of an OTLP/HTTP collector
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// NewConfig creates a new AppConfig by reading from a file, environment variables,
// and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	cfg := defaultConfig()

	v := viper.New()

	// Set config file if provided, otherwise search in standard locations
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.hive")
	}

	v.SetEnvPrefix("HIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about, so register
	// every key of the default struct before unmarshalling.
	bindEnvKeys(v)

	// Read the config file. It's okay if it doesn't exist.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

var envKeys = []string{
	"log.level",
	"log.format",
	"swarm.claude_binary",
	"swarm.default_strategy",
	"swarm.default_mode",
	"swarm.default_max_agents",
	"swarm.fallback_enabled",
	"swarm.extra_ci_vars",
	"telemetry.enabled",
	"telemetry.endpoint",
	"telemetry.service_name",
	"telemetry.insecure",
}

func bindEnvKeys(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
}

// Default returns the built-in configuration without reading files or env.
func Default() *AppConfig {
	cfg := defaultConfig()
	cfg.expandPaths()
	return &cfg
}

// defaultConfig returns an AppConfig with default values.
// This is more type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:  "INFO",
			Format: "json",
			Output: []LogOutputConfig{
				{
					Type:    "file",
					Enabled: true,
					Path:    "~/.hive/logs/hive.log",
					Rotate: LogRotateConfig{
						MaxSizeMB:  20,
						MaxBackups: 5,
						MaxAgeDays: 14,
						Compress:   true,
					},
				},
				{
					Type:    "console",
					Enabled: false, // keep the terminal for the child process
				},
			},
			Levels: map[string]string{
				"cli":          "INFO",
				"swarm":        "INFO",
				"launcher":     "INFO",
				"orchestrator": "INFO",
				"executor":     "INFO",
				"telemetry":    "WARN",
			},
			Context: LogContextConfig{
				IncludeCaller:     false,
				IncludeTimestamp:  true,
				IncludeLevel:      true,
				IncludeStackTrace: "",
			},
			Sampling: LogSamplingConfig{
				Enabled:    false,
				Initial:    100,
				Thereafter: 100,
				Tick:       time.Second,
			},
		},
		Swarm: SwarmConfig{
			ClaudeBinary:     "claude",
			DefaultStrategy:  "auto",
			DefaultMode:      "hierarchical",
			DefaultMaxAgents: 5,
			FallbackEnabled:  true,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "localhost:4318",
			ServiceName: "hive",
			Insecure:    true,
		},
	}
}

// expandPaths expands ~ and environment variables in path configuration values
func (c *AppConfig) expandPaths() {
	for i := range c.Log.Output {
		if c.Log.Output[i].Path != "" {
			c.Log.Output[i].Path = expandPath(c.Log.Output[i].Path)
		}
	}
}

// expandPath expands ~ to home directory and environment variables
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	return os.ExpandEnv(path)
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	validLogLevels := map[string]bool{
		"TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true, "PANIC": true,
	}
	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Swarm.ClaudeBinary == "" {
		return errors.New("swarm.claude_binary is required")
	}
	if c.Swarm.DefaultMaxAgents <= 0 {
		return fmt.Errorf("swarm.default_max_agents must be positive, got: %d", c.Swarm.DefaultMaxAgents)
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return errors.New("telemetry.endpoint is required when telemetry is enabled")
	}

	return nil
}
