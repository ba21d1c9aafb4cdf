package integration_tests

import (
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/slidegridgo/internal/app"
	"github.com/specialistvlad/slidegridgo/internal/hcl_adapter"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/testutil"
	"github.com/stretchr/testify/require"
)

const processID = "scenario"

// runResult holds the outcome of one application run.
type runResult struct {
	Logs string
	Err  error
}

// runApp runs the full application against a workspace with the given
// handler modules. tune may adjust the configuration before validation.
func runApp(t *testing.T, w *testutil.Workspace, tune func(*app.Config), modules ...registry.Module) runResult {
	t.Helper()

	cfg := app.Config{
		PlanPaths:     []string{w.PlanPath},
		DatamodelPath: w.DatamodelPath,
		LayoutPath:    w.LayoutPath,
		OutputDir:     w.OutputDir,
		ProcessID:     processID,
		LogLevel:      "debug",
	}
	if tune != nil {
		tune(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	a := app.NewApp(logBuffer, appConfig, hcl_adapter.NewLoader(), modules...)
	runErr := a.Run(context.Background())

	if os.Getenv("SGGO_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}
	return runResult{Logs: logBuffer.String(), Err: runErr}
}
