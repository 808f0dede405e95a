// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/noldarim/hive/internal/swarm"
	"github.com/samber/lo"

	"gopkg.in/yaml.v3"
)

// SwarmFileConfig represents a swarm YAML file.
//
//	name: api-build
//	objective: Build a REST API for the todo service
//	options:
//	  strategy: development
//	  max-agents: 8
//	  analysis: false
type SwarmFileConfig struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Objective   string         `yaml:"objective"`
	Options     map[string]any `yaml:"options"`
}

// LoadSwarmFile loads and validates a swarm YAML file
func LoadSwarmFile(path string) (*SwarmFileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read swarm file: %w", err)
	}

	var cfg SwarmFileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse swarm YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid swarm file: %w", err)
	}

	return &cfg, nil
}

// Validate checks the swarm file for unknown options.
func (s *SwarmFileConfig) Validate() error {
	unknown := lo.Filter(lo.Keys(s.Options), func(k string, _ int) bool {
		return !lo.Contains(swarm.OptionKeys, k)
	})
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown options: %s", strings.Join(unknown, ", "))
	}

	if s.Objective == "" && len(s.Options) == 0 {
		return errors.New("swarm file must set an objective or options")
	}

	return nil
}

// ObjectiveParts returns the objective as request parts, or nil when unset.
func (s *SwarmFileConfig) ObjectiveParts() []string {
	if strings.TrimSpace(s.Objective) == "" {
		return nil
	}
	return []string{s.Objective}
}
