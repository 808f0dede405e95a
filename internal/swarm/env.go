// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package swarm

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
)

// CIIndicators are env vars whose presence means we run under CI.
var CIIndicators = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"CIRCLECI",
	"TRAVIS",
	"BUILDKITE",
	"DRONE",
}

const (
	// ContainerIndicator is set by our container images.
	ContainerIndicator = "DOCKER_CONTAINER"
	// ContainerMarkerFile is created by the Docker runtime.
	ContainerMarkerFile = "/.dockerenv"
)

// Environment provides the process signals used to detect headless runs.
type Environment interface {
	Getenv(key string) string
	StdinIsTerminal() bool
	StdoutIsTerminal() bool
	FileExists(path string) bool
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

func (OSEnvironment) Getenv(key string) string { return os.Getenv(key) }

func (OSEnvironment) StdinIsTerminal() bool { return isTerminal(os.Stdin.Fd()) }

func (OSEnvironment) StdoutIsTerminal() bool { return isTerminal(os.Stdout.Fd()) }

func (OSEnvironment) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StaticEnvironment is a fixed set of signals, used in tests and dry runs.
type StaticEnvironment struct {
	Vars      map[string]string
	StdinTTY  bool
	StdoutTTY bool
	Files     []string
}

// InteractiveEnvironment returns a StaticEnvironment that looks like a
// developer terminal: both streams are TTYs and no CI vars are set.
func InteractiveEnvironment() StaticEnvironment {
	return StaticEnvironment{StdinTTY: true, StdoutTTY: true}
}

func (e StaticEnvironment) Getenv(key string) string { return e.Vars[key] }

func (e StaticEnvironment) StdinIsTerminal() bool { return e.StdinTTY }

func (e StaticEnvironment) StdoutIsTerminal() bool { return e.StdoutTTY }

func (e StaticEnvironment) FileExists(path string) bool { return lo.Contains(e.Files, path) }

// HeadlessSignals lists every reason the environment counts as headless.
// An empty result means the session is interactive.
func HeadlessSignals(env Environment, extraCIVars []string) []string {
	var reasons []string

	ciVars := lo.Uniq(append(append([]string{}, CIIndicators...), extraCIVars...))
	present := lo.Filter(ciVars, func(key string, _ int) bool {
		return env.Getenv(key) != ""
	})
	for _, key := range present {
		reasons = append(reasons, "env:"+key)
	}

	if !env.StdinIsTerminal() && !env.StdoutIsTerminal() {
		reasons = append(reasons, "no-tty")
	}

	if env.Getenv(ContainerIndicator) != "" || env.FileExists(ContainerMarkerFile) {
		reasons = append(reasons, "container")
	}

	return reasons
}
