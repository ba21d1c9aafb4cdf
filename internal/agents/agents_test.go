package agents

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
	"github.com/specialistvlad/slidegridgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replies with the next canned answer on every call.
type scripted struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]*schema.Message
}

func (s *scripted) Generate(_ context.Context, msgs []*schema.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, msgs)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func executorInput() registry.ExecutorInput {
	dm := testutil.Datamodel()
	scope, _ := document.FindLayout(testutil.Layout(), "col1")
	return registry.ExecutorInput{
		ProcessID:   "p",
		StepID:      "e1",
		Task:        "shorten the first column",
		LayoutID:    "col1",
		Layout:      scope,
		Shapes:      dm.Filter(document.ShapeIDs(scope)),
		Datamodel:   dm,
		Constraints: "use 14pt",
	}
}

func TestExecutor_RetriesWithFeedback(t *testing.T) {
	t.Parallel()

	gen := &scripted{replies: []string{
		"```json\n{\"shapes\": [], \"deleteShapes\": [\"ghost\"]}\n```",
		`Sure: {"shapes": [{"id": "s1", "type": "text", "pos": {"topLeft": [20, 120], "bottomRight": [300, 200]}, "text": "Q1"}], "deleteShapes": []}`,
	}}
	memory := sink.NewMemorySink()
	h := &executor{agent: &Agent{Generator: gen, MaxRetries: DefaultMaxRetries}, sink: memory}

	cs, err := h.Execute(context.Background(), executorInput())
	require.NoError(t, err)

	require.Len(t, gen.calls, 2)
	assert.Len(t, gen.calls[0], 2)
	require.Len(t, gen.calls[1], 4, "the retry carries the rejected answer and the feedback")
	assert.Contains(t, gen.calls[1][3].Content, "deleteShapes.0: shape 'ghost' does not exist")
	assert.Contains(t, gen.calls[0][1].Content, "use 14pt")
	assert.Contains(t, gen.calls[0][1].Content, "# Your Task")

	require.Len(t, cs.Modified, 1)
	assert.Equal(t, document.ID("s1"), cs.Modified[0].ID)
	assert.Empty(t, cs.Added)
	assert.Empty(t, cs.Deleted)

	var saved LayoutUpdate
	require.NoError(t, memory.Get("p", "executor-result-e1", &saved))
	assert.Len(t, saved.Shapes, 1)
}

func TestExecutor_GivesUp(t *testing.T) {
	t.Parallel()

	gen := &scripted{replies: []string{"no json here", `{"unexpected": true}`}}
	h := &executor{agent: &Agent{Generator: gen, MaxRetries: 1}, sink: sink.Nop{}}

	_, err := h.Execute(context.Background(), executorInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected executor answer after 2 attempts")
	assert.Contains(t, err.Error(), "unknown field")
	assert.Len(t, gen.calls, 2)
}

func TestExecutor_GeneratorErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	gen := &scripted{err: boom}
	h := &executor{agent: &Agent{Generator: gen, MaxRetries: 2}, sink: sink.Nop{}}

	_, err := h.Execute(context.Background(), executorInput())
	require.ErrorIs(t, err, boom)
	assert.Len(t, gen.calls, 1)
}

func TestApplyUpdate(t *testing.T) {
	t.Parallel()

	in := executorInput()
	added := testutil.Shape("s1b", "Q1 detail")
	edited := testutil.Shape("s1", "Q1!")

	t.Run("orders updated, untouched scoped, then other shapes", func(t *testing.T) {
		next, err := ApplyUpdate(in.Datamodel, in.Shapes, LayoutUpdate{Shapes: []document.Shape{added}})
		require.NoError(t, err)
		assert.Equal(t, []document.ID{"s1b", "s1", "title", "s2", "logo"}, next.IDs())
		assert.Equal(t, in.Datamodel.ID, next.ID)

		cs := document.Diff(in.Datamodel, next)
		require.Len(t, cs.Added, 1)
		assert.Empty(t, cs.Modified)
	})

	t.Run("delete and modify", func(t *testing.T) {
		next, err := ApplyUpdate(in.Datamodel, in.Shapes, LayoutUpdate{
			Shapes:       []document.Shape{edited},
			DeleteShapes: []document.ID{"logo"},
		})
		require.NoError(t, err)
		assert.Equal(t, []document.ID{"s1", "title", "s2"}, next.IDs())

		cs := document.Diff(in.Datamodel, next)
		assert.Equal(t, []document.ID{"logo"}, cs.Deleted)
		require.Len(t, cs.Modified, 1)
	})

	t.Run("rejects inconsistent updates", func(t *testing.T) {
		bad := testutil.Shape("s2", "x")
		bad.Pos.TopLeft = document.Point{500, 500}
		_, err := ApplyUpdate(in.Datamodel, in.Shapes, LayoutUpdate{
			Shapes:       []document.Shape{bad, bad},
			DeleteShapes: []document.ID{"s2"},
		})
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "appears more than once")
		assert.Contains(t, msg, "topLeft must be above and left of bottomRight")
		assert.Contains(t, msg, "also listed in shapes")
	})
}

func TestRelayouter(t *testing.T) {
	t.Parallel()

	answer := `{"layout": {"id": "root", "type": "column", "b": [[0, 0], [960, 540]], "sl": [
		{"id": "grid", "type": "grid", "multi": true, "b": [["g1", [0, 100], [480, 540], ["s1"]], ["g2", [480, 100], [960, 540], ["s2"]]]}
	]}}`

	t.Run("accepts a valid layout", func(t *testing.T) {
		gen := &scripted{replies: []string{answer}}
		h := &relayouter{agent: &Agent{Generator: gen}, sink: sink.Nop{}}

		layout, err := h.Relayout(context.Background(), registry.RelayoutInput{
			StepID:            "r",
			Task:              "make a grid",
			ExpectedLayoutIDs: []string{"g1", "g2"},
			Layout:            testutil.Layout(),
			Datamodel:         testutil.Datamodel(),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"root", "grid", "g1", "g2"}, document.LayoutIDs(layout))
		assert.Contains(t, gen.calls[0][1].Content, "g1, g2")
		assert.Contains(t, gen.calls[0][1].Content, "tl: [")
	})

	t.Run("missing planned ids are fed back", func(t *testing.T) {
		gen := &scripted{replies: []string{answer, answer}}
		h := &relayouter{agent: &Agent{Generator: gen, MaxRetries: 1}, sink: sink.Nop{}}

		_, err := h.Relayout(context.Background(), registry.RelayoutInput{
			StepID:            "r",
			ExpectedLayoutIDs: []string{"g1", "g3"},
			Layout:            testutil.Layout(),
			Datamodel:         testutil.Datamodel(),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing planned ids: g3")
		require.Len(t, gen.calls, 2)
		assert.Contains(t, gen.calls[1][3].Content, "g3")
	})
}

func TestCoupler(t *testing.T) {
	t.Parallel()

	in := registry.CouplerInput{
		ProcessID:  "p",
		StepID:     "c",
		Task:       "align",
		Next:       []string{"e1", "e2"},
		Layout:     document.RelativeLayout(testutil.Layout(), testutil.Datamodel().Shapes),
		GoalLayout: testutil.Layout(),
	}

	t.Run("plain text answer", func(t *testing.T) {
		gen := &scripted{replies: []string{"  Use 14pt body text.\n"}}
		memory := sink.NewMemorySink()
		h := &coupler{agent: &Agent{Generator: gen}, sink: memory}

		text, err := h.Couple(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "Use 14pt body text.", text)

		prompt := gen.calls[0][1].Content
		assert.Contains(t, prompt, `["e1","e2"]`)
		assert.Contains(t, prompt, "# Previous Layout with Relative Shapes")

		var saved string
		require.NoError(t, memory.Get("p", "coupler-result-c", &saved))
		assert.Equal(t, "Use 14pt body text.", saved)
	})

	t.Run("json answer", func(t *testing.T) {
		gen := &scripted{replies: []string{"```json\n[\"rule one\", \"rule two\"]\n```"}}
		h := &coupler{agent: &Agent{Generator: gen}, sink: sink.Nop{}}

		text, err := h.Couple(context.Background(), in)
		require.NoError(t, err)
		assert.JSONEq(t, `["rule one", "rule two"]`, text)
	})

	t.Run("empty answer is retried", func(t *testing.T) {
		gen := &scripted{replies: []string{"   ", "Keep margins at 20pt."}}
		h := &coupler{agent: &Agent{Generator: gen, MaxRetries: 1}, sink: sink.Nop{}}

		text, err := h.Couple(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "Keep margins at 20pt.", text)
	})
}

func TestModule_Register(t *testing.T) {
	t.Parallel()

	r := registry.New(&Module{Coupler: &Agent{Generator: &scripted{}}})
	_, ok := r.Coupler()
	assert.True(t, ok)
	_, ok = r.Executor()
	assert.False(t, ok)
}

func TestPromptsAndSchemas(t *testing.T) {
	t.Parallel()

	for _, kind := range step.Kinds {
		p, err := SystemPrompt(kind)
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(p))
	}

	assert.Contains(t, LayoutUpdateSchema(), "deleteShapes")
	assert.Contains(t, RelayoutSchema(), "\"layout\"")
}
