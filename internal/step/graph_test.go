package step

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diamond() *Graph {
	return NewGraph([]*Step{
		{ID: "a", Kind: KindRelayouter, Next: []string{"b", "c"}},
		{ID: "b", Kind: KindCoupler, Next: []string{"d"}},
		{ID: "c", Kind: KindCoupler, Next: []string{"d"}},
		{ID: "d", Kind: KindExecutor, DependsOn: []string{"b", "c"}, LayoutID: "col1"},
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("painter")
	assert.ErrorContains(t, err, "unknown step kind")
}

func TestGraph_Lookup(t *testing.T) {
	g := diamond()

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"a", "b", "c", "d"}, g.IDs())

	s, ok := g.Get("c")
	require.True(t, ok)
	assert.Equal(t, KindCoupler, s.Kind)

	_, ok = g.Get("zzz")
	assert.False(t, ok)
}

func TestGraph_SetResult(t *testing.T) {
	g := diamond()

	require.NoError(t, g.SetResult("b", "keep equal gutters"))
	s, _ := g.Get("b")
	assert.Equal(t, "keep equal gutters", s.Result)

	assert.ErrorContains(t, g.SetResult("nope", 1), "not found")
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g := diamond()
	c := g.Clone()

	s, _ := c.Get("a")
	s.Next[0] = "changed"
	require.NoError(t, c.SetResult("a", "x"))

	orig, _ := g.Get("a")
	assert.Equal(t, []string{"b", "c"}, orig.Next)
	assert.Nil(t, orig.Result)
}

func TestGraph_JSONRoundTripKeepsWireNames(t *testing.T) {
	g := diamond()

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dependsOn":["b","c"]`)
	assert.Contains(t, string(data), `"layoutId":"col1"`)
	assert.Contains(t, string(data), `"type":"relayouter"`)

	var back Graph
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, g.IDs(), back.IDs())
}

func TestGraph_Validate(t *testing.T) {
	t.Run("valid graph", func(t *testing.T) {
		assert.NoError(t, diamond().Validate())
	})

	testCases := []struct {
		name    string
		steps   []*Step
		wantMsg string
	}{
		{
			name:    "dangling next",
			steps:   []*Step{{ID: "a", Kind: KindCoupler, Next: []string{"ghost"}}},
			wantMsg: "unknown step 'ghost' in next",
		},
		{
			name: "dangling dependsOn",
			steps: []*Step{
				{ID: "a", Kind: KindCoupler, Next: []string{"b"}},
				{ID: "b", Kind: KindExecutor, DependsOn: []string{"ghost"}},
			},
			wantMsg: "unknown step 'ghost' in dependsOn",
		},
		{
			name:    "self reference",
			steps:   []*Step{{ID: "a", Kind: KindCoupler, Next: []string{"a"}}},
			wantMsg: "lists itself in next",
		},
		{
			name: "duplicate id",
			steps: []*Step{
				{ID: "a", Kind: KindCoupler},
				{ID: "a", Kind: KindExecutor},
			},
			wantMsg: "duplicate step id 'a'",
		},
		{
			name:    "unknown kind",
			steps:   []*Step{{ID: "a", Kind: "painter"}},
			wantMsg: "unknown kind",
		},
		{
			name:    "empty id",
			steps:   []*Step{{Kind: KindCoupler}},
			wantMsg: "empty id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewGraph(tc.steps).Validate()
			require.ErrorIs(t, err, ErrInvalidGraph)
			assert.ErrorContains(t, err, tc.wantMsg)
		})
	}
}

func TestIndex(t *testing.T) {
	t.Run("parents and ancestors", func(t *testing.T) {
		idx, err := NewIndex(diamond())
		require.NoError(t, err)

		assert.Equal(t, []string{"b", "c"}, idx.Parents("d"))
		assert.Equal(t, []string{"b", "c"}, idx.Children("a"))
		assert.Equal(t, []string{"d", "b", "c", "a"}, idx.Ancestors("d"))
		assert.NoError(t, idx.Cycle())
		assert.Nil(t, idx.Parents("unknown"))
		assert.Equal(t, []string{"d"}, idx.Dependents("b"))
		assert.Empty(t, idx.Dependents("a"))
	})

	t.Run("rejects invalid graph", func(t *testing.T) {
		_, err := NewIndex(NewGraph([]*Step{{ID: "a", Kind: KindCoupler, Next: []string{"x"}}}))
		assert.ErrorIs(t, err, ErrInvalidGraph)
	})

	t.Run("reports cycles", func(t *testing.T) {
		idx, err := NewIndex(NewGraph([]*Step{
			{ID: "a", Kind: KindCoupler, Next: []string{"b"}},
			{ID: "b", Kind: KindCoupler, Next: []string{"a"}},
		}))
		require.NoError(t, err)
		assert.ErrorContains(t, idx.Cycle(), "cycle detected")
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "skipped", StatusSkipped.String())
	text, err := StatusFailed.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "failed", string(text))
}
