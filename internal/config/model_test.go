package config

import (
	"testing"

	"github.com/specialistvlad/slidegridgo/internal/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_Validate(t *testing.T) {
	t.Parallel()

	m := NewModel()
	m.Models["local"] = &ModelDef{Name: "local", Type: "ollama", ModelName: "llama3"}
	m.Agents[step.KindExecutor] = &Agent{Kind: step.KindExecutor, Model: "local", MaxRetries: 2}
	require.NoError(t, m.Validate())

	m.Agents[step.KindCoupler] = &Agent{Kind: step.KindCoupler, Model: "remote", MaxRetries: -1}
	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent 'coupler' references unknown model 'remote'")
	assert.Contains(t, err.Error(), "negative max_retries -1")
}

func TestModel_GraphIsIndependent(t *testing.T) {
	t.Parallel()

	m := NewModel()
	m.Steps = []*step.Step{
		{ID: "c1", Kind: step.KindCoupler, Task: "align", Next: []string{"e1"}},
		{ID: "e1", Kind: step.KindExecutor, Task: "fill", LayoutID: "col1"},
	}

	g := m.Graph()
	require.NoError(t, g.SetResult("c1", "done"))

	assert.Nil(t, m.Steps[0].Result, "results on the graph must not leak into the plan")
	assert.Equal(t, []step.Kind{step.KindCoupler, step.KindExecutor}, m.UsedKinds())
}
