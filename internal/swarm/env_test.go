// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package swarm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadlessSignals(t *testing.T) {
	env := StaticEnvironment{
		Vars: map[string]string{
			"CI":               "1",
			"BUILDKITE":        "true",
			ContainerIndicator: "yes",
		},
	}

	reasons := HeadlessSignals(env, []string{"CI", "TEAMCITY_VERSION"})
	assert.Equal(t, []string{"env:CI", "env:BUILDKITE", "no-tty", "container"}, reasons)
}

func TestHeadlessSignals_Interactive(t *testing.T) {
	assert.Empty(t, HeadlessSignals(InteractiveEnvironment(), nil))
}

func TestOSEnvironment(t *testing.T) {
	t.Setenv("HIVE_ENV_PROBE", "value")

	env := OSEnvironment{}
	assert.Equal(t, "value", env.Getenv("HIVE_ENV_PROBE"))

	file := filepath.Join(t.TempDir(), "marker")
	assert.False(t, env.FileExists(file))
	assert.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.True(t, env.FileExists(file))

	// go test runs with stdin/stdout redirected; only check the calls do not panic.
	assert.NotPanics(t, func() {
		_ = env.StdinIsTerminal()
		_ = env.StdoutIsTerminal()
	})
}
