package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertStepRan checks captured log output to confirm that a step
// completed. It looks for the completion line carrying the step's id.
func AssertStepRan(t *testing.T, logOutput, stepID string) {
	t.Helper()
	require.True(t, logLineContains(logOutput, "Step completed.", fmt.Sprintf("stepID=%s ", stepID)),
		"expected completion log for step '%s' was not found", stepID)
}

// AssertStepFailed checks captured log output for a step failure line.
func AssertStepFailed(t *testing.T, logOutput, stepID string) {
	t.Helper()
	require.True(t, logLineContains(logOutput, "Step failed.", fmt.Sprintf("stepID=%s ", stepID)),
		"expected failure log for step '%s' was not found", stepID)
}

func logLineContains(logOutput string, parts ...string) bool {
	for _, line := range strings.Split(logOutput, "\n") {
		line += " "
		matched := true
		for _, p := range parts {
			if !strings.Contains(line, p) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
