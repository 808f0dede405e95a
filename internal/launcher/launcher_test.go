// Copyright (C) 2025-2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package launcher

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out, ok := <-ch:
		require.True(t, ok, "channel closed without an outcome")
		_, open := <-ch
		assert.False(t, open, "channel must be closed after the outcome")
		return out
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

func TestLaunch_Succeeded(t *testing.T) {
	var stdout bytes.Buffer
	l := &ProcessLauncher{Stdio: Stdio{In: strings.NewReader(""), Out: &stdout}}

	out := waitOutcome(t, l.Launch(context.Background(), "sh", []string{"-c", "echo \"$1\"", "sh", "prompt text"}))

	assert.Equal(t, Succeeded, out.Kind)
	assert.Equal(t, 0, out.ExitCode)
	assert.NoError(t, out.Err)
	assert.Equal(t, "prompt text\n", stdout.String())
}

func TestLaunch_Failed(t *testing.T) {
	l := &ProcessLauncher{Stdio: Stdio{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}}}

	out := waitOutcome(t, l.Launch(context.Background(), "sh", []string{"-c", "exit 3"}))

	assert.Equal(t, Failed, out.Kind)
	assert.Equal(t, 3, out.ExitCode)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "exited with code 3")
}

func TestLaunch_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		binary string
	}{
		{name: "missing from PATH", binary: "hive-test-binary-that-does-not-exist"},
		{name: "missing absolute path", binary: filepath.Join(t.TempDir(), "claude")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := waitOutcome(t, New().Launch(context.Background(), tt.binary, []string{"prompt"}))
			assert.Equal(t, NotFound, out.Kind)
			assert.Equal(t, -1, out.ExitCode)
			assert.Error(t, out.Err)
		})
	}
}

func TestLaunch_StderrAndDir(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	l := &ProcessLauncher{
		Stdio: Stdio{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &stderr},
		Dir:   dir,
		Env:   []string{"HIVE_LAUNCH_TEST=ok"},
	}

	out := waitOutcome(t, l.Launch(context.Background(), "/bin/sh", []string{"-c", "pwd >&2; echo $HIVE_LAUNCH_TEST >&2"}))
	require.Equal(t, Succeeded, out.Kind)

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved+"\nok\n", stderr.String())
}

func TestLaunch_ContextCancelForwardsSIGTERM(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var stdout bytes.Buffer
	l := &ProcessLauncher{Stdio: Stdio{In: strings.NewReader(""), Out: &stdout, Err: &bytes.Buffer{}}}

	script := `trap 'kill $! 2>/dev/null; echo got-term; exit 0' TERM INT; echo ready; sleep 5 >/dev/null 2>&1 & wait`
	ch := l.Launch(ctx, "sh", []string{"-c", script})
	time.AfterFunc(200*time.Millisecond, cancel)

	out := waitOutcome(t, ch)
	assert.Equal(t, Succeeded, out.Kind)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, "ready\ngot-term\n", stdout.String())
	assert.Less(t, out.Duration, 4*time.Second)
}

func TestLaunch_ContextCancelKillsAfterGrace(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := &ProcessLauncher{
		Stdio:     Stdio{In: strings.NewReader(""), Out: &bytes.Buffer{}, Err: &bytes.Buffer{}},
		StopGrace: 200 * time.Millisecond,
	}

	ch := l.Launch(ctx, "sh", []string{"-c", `trap '' TERM; sleep 30 >/dev/null 2>&1 & wait; wait`})
	time.AfterFunc(100*time.Millisecond, cancel)

	out := waitOutcome(t, ch)
	assert.Equal(t, Failed, out.Kind)
	assert.Equal(t, -1, out.ExitCode)
	assert.Less(t, out.Duration, 10*time.Second)
}

func TestFormatCommandForLogging(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		want    string
	}{
		{name: "empty", command: nil, want: "<empty>"},
		{name: "binary only", command: []string{"claude"}, want: "claude"},
		{
			name:    "long prompt is truncated",
			command: []string{"claude", strings.Repeat("x", 80), "--verbose"},
			want:    "claude " + strings.Repeat("x", 47) + "... --verbose",
		},
		{
			name:    "extra args are counted",
			command: []string{"claude", "p", "--dangerously-skip-permissions", "-p", "--output-format", "stream-json"},
			want:    "claude p --dangerously-skip-permissions -p [+2 more args]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCommandForLogging(tt.command))
		})
	}
}

func TestTruncateString_MultiByte(t *testing.T) {
	s := strings.Repeat("é", 60)

	got := truncateString(s, 50)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 47)+"...", got)
	assert.Equal(t, "éé", truncateString("ééé", 2))
	assert.Equal(t, "日本語", truncateString("日本語", 3))

	preview := FormatCommandForLogging([]string{"claude", strings.Repeat("目標", 40)})
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, "claude "+strings.Repeat("目標", 23)+"目...", preview)
}
