package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// A syntax error makes the plan loader fail inside app.NewApp, which panics.
	invalidHCL := `
		step "executor" "e1" {
			task = "fill"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600))

	out := &bytes.Buffer{}
	runErr := run(context.Background(), out, []string{"--dry-run", filePath})

	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	plan := `
step "coupler" "c1" {
  task = "agree on a grid"
  next = ["e1"]
}

step "executor" "e1" {
  task      = "fill"
  layout_id = "col1"
}
`
	filePath := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(plan), 0o600))

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), out, []string{"--dry-run", "--log-level", "warn", filePath}))
	require.Contains(t, out.String(), "Wave 1: c1\nWave 2: e1\n")
}
