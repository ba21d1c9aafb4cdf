package integration_tests

import (
	"errors"
	"testing"

	"github.com/specialistvlad/slidegridgo/internal/app"
	"github.com/specialistvlad/slidegridgo/internal/dispatch"
	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An executor deleting a shape that does not exist fails its merge; its
// sibling in the same wave still lands.
func TestScenario_BadChangesetIsIsolated(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t, `
step "executor" "e1" {
  task      = "remove the ghost"
  layout_id = "col1"
}

step "executor" "e2" {
  task      = "rename the second column"
  layout_id = "col2"
}
`, nil)

	mod := testutil.NewRecordingModule(0)
	mod.Changesets["e1"] = &document.Changeset{Deleted: []document.ID{"ghost"}}
	renamed := testutil.Shape("s2", "Q2 renamed")
	mod.Changesets["e2"] = &document.Changeset{Modified: []document.Shape{renamed}}

	res := runApp(t, w, nil, mod)
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, document.ErrUnknownShape)

	testutil.AssertStepFailed(t, res.Logs, "e1")
	testutil.AssertStepRan(t, res.Logs, "e2")

	var final document.Datamodel
	w.ReadArtifact(t, processID, sink.FinalDatamodel, &final)
	s2, ok := final.Shape("s2")
	require.True(t, ok)
	assert.Equal(t, "Q2 renamed", s2.Text)
	assert.Len(t, final.Shapes, 4, "the failed delete removed nothing")

	var cs document.Changeset
	w.ReadArtifact(t, processID, sink.Changeset, &cs)
	require.Len(t, cs.Modified, 1)
	assert.EqualValues(t, "s2", cs.Modified[0].ID)
}

func TestScenario_FailurePolicies(t *testing.T) {
	t.Parallel()

	plan := `
step "relayouter" "r1" {
  task                = "rebuild the columns"
  next                = ["e1"]
  expected_layout_ids = ["col1"]
}

step "executor" "e1" {
  task      = "fill"
  layout_id = "col1"
}
`

	t.Run("continue runs dependents of a failed step", func(t *testing.T) {
		t.Parallel()
		w := testutil.NewWorkspace(t, plan, nil)
		mod := testutil.NewRecordingModule(0)
		mod.Errors["r1"] = errors.New("model timed out")

		res := runApp(t, w, nil, mod)
		require.Error(t, res.Err)
		testutil.AssertStepFailed(t, res.Logs, "r1")
		testutil.AssertStepRan(t, res.Logs, "e1")
		assert.Equal(t, []string{"r1", "e1"}, mod.Started())
	})

	t.Run("skip-dependents cuts the branch", func(t *testing.T) {
		t.Parallel()
		w := testutil.NewWorkspace(t, plan, nil)
		mod := testutil.NewRecordingModule(0)
		mod.Errors["r1"] = errors.New("model timed out")

		res := runApp(t, w, func(c *app.Config) { c.FailurePolicy = "skip-dependents" }, mod)
		require.Error(t, res.Err)
		testutil.AssertStepFailed(t, res.Logs, "r1")
		assert.Contains(t, res.Logs, "Skipping step.")
		assert.Contains(t, res.Logs, "upstream failure of 'r1'")
		assert.Equal(t, []string{"r1"}, mod.Started())
	})
}

func TestScenario_RelayoutMustKeepExpectedRegions(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t, `
step "relayouter" "r1" {
  task                = "merge the columns"
  expected_layout_ids = ["col1", "col3"]
}
`, nil)

	res := runApp(t, w, nil, testutil.NewRecordingModule(0))
	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, dispatch.ErrMissingLayoutIDs)
	assert.Contains(t, res.Err.Error(), "col3")
	testutil.AssertStepFailed(t, res.Logs, "r1")
}
