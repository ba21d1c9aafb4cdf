package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/engine"
	"github.com/specialistvlad/slidegridgo/internal/hcl_adapter"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
	"github.com/specialistvlad/slidegridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fanOutPlan = `
step "relayouter" "r1" {
  task                = "keep the two columns"
  next                = ["e1", "e2"]
  expected_layout_ids = ["col1", "col2"]
}

step "executor" "e1" {
  task      = "uppercase"
  layout_id = "col1"
}

step "executor" "e2" {
  task      = "uppercase"
  layout_id = "col2"
}
`

// setupAppTest creates a new app instance with debug logging captured in a buffer.
func setupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)
	appConfig.LogLevel = "debug"

	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(logBuffer, appConfig, hcl_adapter.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("SGGO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}

func editingModule() *testutil.SimpleModule {
	return &testutil.SimpleModule{
		Relayouter: func(_ context.Context, in registry.RelayoutInput) (*document.Layout, error) {
			return in.Layout, nil
		},
		Executor: func(_ context.Context, in registry.ExecutorInput) (*document.Changeset, error) {
			cs := &document.Changeset{}
			for _, s := range in.Shapes {
				s.Text += " (edited)"
				cs.Modified = append(cs.Modified, s)
			}
			return cs, nil
		},
	}
}

func workspaceConfig(w *testutil.Workspace) Config {
	return Config{
		PlanPaths:     []string{w.PlanPath},
		DatamodelPath: w.DatamodelPath,
		LayoutPath:    w.LayoutPath,
		OutputDir:     w.OutputDir,
		ProcessID:     "proc-1",
	}
}

func TestApp_Run(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, fanOutPlan, nil)

	a, logs := setupAppTest(t, workspaceConfig(w), editingModule())
	require.NoError(t, a.Run(context.Background()))

	out := logs.String()
	for _, id := range []string{"r1", "e1", "e2"} {
		testutil.AssertStepRan(t, out, id)
	}

	var final document.Datamodel
	w.ReadArtifact(t, "proc-1", sink.FinalDatamodel, &final)
	s1, ok := final.Shape("s1")
	require.True(t, ok)
	assert.Equal(t, "Q1 (edited)", s1.Text)
	s2, _ := final.Shape("s2")
	assert.Equal(t, "Q2 (edited)", s2.Text)
	title, _ := final.Shape("title")
	assert.Equal(t, "Roadmap", title.Text, "shapes outside the executor regions are untouched")

	var cs document.Changeset
	w.ReadArtifact(t, "proc-1", sink.Changeset, &cs)
	assert.Empty(t, cs.Added)
	assert.Empty(t, cs.Deleted)
	assert.Len(t, cs.Modified, 2)

	for _, name := range []string{sink.OriginalDatamodel, sink.CurrentDatamodel, sink.Checkpoints, sink.Graph} {
		assert.True(t, w.HasArtifact("proc-1", name), "artifact %s", name)
	}
}

func TestApp_RunReportsFailedSteps(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, fanOutPlan, nil)

	mod := editingModule()
	mod.Executor = func(_ context.Context, in registry.ExecutorInput) (*document.Changeset, error) {
		if in.StepID == "e2" {
			return nil, errors.New("model refused")
		}
		return &document.Changeset{}, nil
	}

	a, logs := setupAppTest(t, workspaceConfig(w), mod)
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 failed step(s)")
	assert.Contains(t, err.Error(), "model refused")

	testutil.AssertStepRan(t, logs.String(), "e1")
	testutil.AssertStepFailed(t, logs.String(), "e2")
	assert.True(t, w.HasArtifact("proc-1", sink.FinalDatamodel), "artifacts are written despite failures")
}

func TestApp_RunMissingHandler(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, fanOutPlan, nil)

	mod := editingModule()
	mod.Executor = nil

	a, _ := setupAppTest(t, workspaceConfig(w), mod)
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no executor handler registered (needed by e1, e2)")
	assert.False(t, w.HasArtifact("proc-1", sink.FinalDatamodel))
}

func TestApp_RunInvalidLayoutFile(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, fanOutPlan, map[string]string{"layout.json": `{"id": `})

	a, _ := setupAppTest(t, workspaceConfig(w), editingModule())
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load layout")
}

func TestApp_DryRun(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, fanOutPlan, nil)

	cfg := Config{PlanPaths: []string{w.PlanPath}, DryRun: true, OutputDir: w.OutputDir}
	a, logs := setupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))

	out := logs.String()
	assert.Contains(t, out, "Roots: r1\n")
	assert.Contains(t, out, "Wave 1: r1\n")
	assert.Contains(t, out, "Wave 2: e1, e2\n")
	assert.NotContains(t, out, "Unreached")
	assert.Empty(t, a.Registry().Registrants(), "dry runs build no agents")
}

func TestApp_DryRunCeiling(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, fanOutPlan, nil)

	cfg := Config{PlanPaths: []string{w.PlanPath}, DryRun: true, MaxIterations: 1}
	a, logs := setupAppTest(t, cfg)
	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, logs.String(), "Unreached: 2 of 3 steps")
}

func TestApp_InvalidPlanGraph(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, `
step "executor" "e1" {
  task = "fill"
  next = ["ghost"]
}
`, nil)

	a, _ := setupAppTest(t, workspaceConfig(w), editingModule())
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, step.ErrInvalidGraph)
}

func TestNewApp_PanicsOnBadPlan(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, `step "executor" {`, nil)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected NewApp to panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.Contains(t, err.Error(), "failed to load plan")
	}()
	setupAppTest(t, workspaceConfig(w))
}

func TestApp_StatusEndpoint(t *testing.T) {
	t.Parallel()
	w := testutil.NewWorkspace(t, fanOutPlan, nil)
	a, _ := setupAppTest(t, workspaceConfig(w), editingModule())

	srv := httptest.NewServer(a.healthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var idle statusResponse
	getJSON(t, srv.URL+"/status", &idle)
	assert.Equal(t, "idle", idle.State)
	assert.Empty(t, idle.Steps)

	require.NoError(t, a.Run(context.Background()))

	var after statusResponse
	getJSON(t, srv.URL+"/status", &after)
	assert.Equal(t, "proc-1", after.ProcessID)
	assert.Equal(t, "finished", after.State)
	require.Len(t, after.Steps, 3)
	for _, rec := range after.Steps {
		assert.Equal(t, step.StatusCompleted, rec.Status, rec.ID)
	}
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestEngineDefaultsMatchConfig(t *testing.T) {
	t.Parallel()
	cfg, err := NewConfig(Config{PlanPaths: []string{"p.hcl"}, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultMaxIterations, cfg.MaxIterations)
}

func TestApp_RunUploadsArtifacts(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := testutil.NewWorkspace(t, fanOutPlan, nil)
	cfg := workspaceConfig(w)
	cfg.ArtifactsURL = srv.URL + "/slides"

	a, _ := setupAppTest(t, cfg, editingModule())
	require.NoError(t, a.Run(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, paths, "/slides/proc-1/final-datamodel.json")
	assert.Contains(t, paths, "/slides/proc-1/checkpoints.json")
	assert.Len(t, paths, 6)
	assert.True(t, w.HasArtifact("proc-1", sink.FinalDatamodel), "local files are still written")
}
