package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Workspace is a temporary directory holding everything one run reads and
// writes: the plan, the starting documents and the artifact directory.
type Workspace struct {
	Dir           string
	PlanPath      string
	DatamodelPath string
	LayoutPath    string
	OutputDir     string
}

// NewWorkspace writes plan as plan.hcl next to datamodel.json and
// layout.json built from the Datamodel and Layout fixtures. Extra files are
// written relative to the workspace root and may replace the defaults.
func NewWorkspace(t *testing.T, plan string, extra map[string]string) *Workspace {
	t.Helper()

	dir := t.TempDir()
	w := &Workspace{
		Dir:           dir,
		PlanPath:      filepath.Join(dir, "plan.hcl"),
		DatamodelPath: filepath.Join(dir, "datamodel.json"),
		LayoutPath:    filepath.Join(dir, "layout.json"),
		OutputDir:     filepath.Join(dir, "out"),
	}

	writeFile(t, w.PlanPath, []byte(plan))
	writeFile(t, w.DatamodelPath, mustMarshal(t, Datamodel()))
	writeFile(t, w.LayoutPath, mustMarshal(t, Layout()))
	for name, content := range extra {
		writeFile(t, filepath.Join(dir, name), []byte(content))
	}
	return w
}

// ReadArtifact decodes <OutputDir>/<processID>/<name>.json into out.
func (w *Workspace) ReadArtifact(t *testing.T, processID, name string, out any) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(w.OutputDir, processID, name+".json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

// HasArtifact reports whether an artifact file exists.
func (w *Workspace) HasArtifact(processID, name string) bool {
	_, err := os.Stat(filepath.Join(w.OutputDir, processID, name+".json"))
	return err == nil
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	return data
}
