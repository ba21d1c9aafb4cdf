package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Model is the unified, format-agnostic representation of a plan.
type Model struct {
	// Variables holds the resolved value of every declared variable,
	// rendered as a string.
	Variables map[string]string
	Models    map[string]*ModelDef
	Agents    map[step.Kind]*Agent
	Steps     []*step.Step
}

// NewModel returns an empty model ready to be filled by a loader.
func NewModel() *Model {
	return &Model{
		Variables: make(map[string]string),
		Models:    make(map[string]*ModelDef),
		Agents:    make(map[step.Kind]*Agent),
	}
}

// ModelDef is the format-agnostic representation of a `model` block.
type ModelDef struct {
	Name        string
	Type        string
	ModelName   string
	BaseURL     string
	APIKey      string
	Temperature *float32
	MaxTokens   int
	Timeout     time.Duration
}

// Agent binds a step kind to a model.
type Agent struct {
	Kind       step.Kind
	Model      string
	MaxRetries int
}

// Graph returns a fresh step graph built from the plan's steps.
func (m *Model) Graph() *step.Graph {
	steps := make([]*step.Step, len(m.Steps))
	for i, s := range m.Steps {
		steps[i] = s.Clone()
	}
	return step.NewGraph(steps)
}

// UsedKinds returns the distinct step kinds in plan order.
func (m *Model) UsedKinds() []step.Kind {
	var kinds []step.Kind
	for _, s := range m.Steps {
		if !slices.Contains(kinds, s.Kind) {
			kinds = append(kinds, s.Kind)
		}
	}
	return kinds
}

// Validate checks the cross references between agents and models. Step
// graph problems are reported separately by step.Graph.Validate.
func (m *Model) Validate() error {
	var problems []error
	for _, kind := range step.Kinds {
		a, ok := m.Agents[kind]
		if !ok {
			continue
		}
		if _, ok := m.Models[a.Model]; !ok {
			problems = append(problems, fmt.Errorf("agent '%s' references unknown model '%s'", kind, a.Model))
		}
		if a.MaxRetries < 0 {
			problems = append(problems, fmt.Errorf("agent '%s' has negative max_retries %d", kind, a.MaxRetries))
		}
	}
	return errors.Join(problems...)
}
