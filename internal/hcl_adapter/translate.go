// This file translates decoded HCL blocks into the format-agnostic model
// defined in the config package.

package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/specialistvlad/slidegridgo/internal/config"
	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/step"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// defaultMaxRetries applies when an agent block omits max_retries.
const defaultMaxRetries = 2

// resolveVariables evaluates every declared default and applies overrides.
// An override is converted to the type of the default when there is one.
func resolveVariables(declared []*Variable, overrides map[string]string) (map[string]cty.Value, error) {
	values := make(map[string]cty.Value, len(declared))
	var problems []error

	for _, v := range declared {
		if _, dup := values[v.Name]; dup {
			problems = append(problems, fmt.Errorf("%s: variable '%s' is declared more than once", v.DeclRange, v.Name))
			continue
		}

		def := cty.NullVal(cty.DynamicPseudoType)
		if v.Default != nil {
			val, diags := v.Default.Value(nil)
			if diags.HasErrors() {
				problems = append(problems, fmt.Errorf("variable '%s' default: %w", v.Name, diags))
				continue
			}
			def = val
		}

		raw, overridden := overrides[v.Name]
		switch {
		case overridden && def.IsNull():
			values[v.Name] = cty.StringVal(raw)
		case overridden:
			val, err := convert.Convert(cty.StringVal(raw), def.Type())
			if err != nil {
				problems = append(problems, fmt.Errorf("variable '%s': cannot use %q as %s: %w", v.Name, raw, def.Type().FriendlyName(), err))
				continue
			}
			values[v.Name] = val
		case def.IsNull():
			problems = append(problems, fmt.Errorf("%s: variable '%s' has no default and no value was given", v.DeclRange, v.Name))
		default:
			values[v.Name] = def
		}
	}

	var unknown []string
	for name := range overrides {
		if !slices.ContainsFunc(declared, func(v *Variable) bool { return v.Name == name }) {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	for _, name := range unknown {
		problems = append(problems, fmt.Errorf("value given for undeclared variable '%s'", name))
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return values, nil
}

// renderValue turns a variable value into the string shown in logs and
// kept on the model. Collections fall back to their JSON form.
func renderValue(v cty.Value) string {
	if s, err := convert.Convert(v, cty.String); err == nil && s.IsKnown() && !s.IsNull() {
		return s.AsString()
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return v.GoString()
	}
	return string(b)
}

func translateModel(m *Model) (*config.ModelDef, error) {
	def := &config.ModelDef{
		Name:      m.Name,
		Type:      m.Type,
		ModelName: m.ModelName,
		BaseURL:   m.BaseURL,
		APIKey:    m.APIKey,
		MaxTokens: m.MaxTokens,
	}
	if m.Temperature != nil {
		t := float32(*m.Temperature)
		def.Temperature = &t
	}
	if m.Timeout != "" {
		d, err := time.ParseDuration(m.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%s: model '%s' has invalid timeout: %w", m.DeclRange, m.Name, err)
		}
		def.Timeout = d
	}
	return def, nil
}

func translateAgent(a *Agent) (*config.Agent, error) {
	kind, err := step.ParseKind(a.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: agent block: %w", a.DeclRange, err)
	}
	agent := &config.Agent{Kind: kind, Model: a.Model, MaxRetries: defaultMaxRetries}
	if a.MaxRetries != nil {
		agent.MaxRetries = *a.MaxRetries
	}
	return agent, nil
}

// translateStep converts the HCL step block into a graph step.
func (l *Loader) translateStep(ctx context.Context, s *Step) (*step.Step, error) {
	logger := ctxlog.FromContext(ctx).With("step_kind", s.Kind, "step_id", s.ID)
	logger.Debug("Translating HCL step to internal config model.")

	kind, err := step.ParseKind(s.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: step '%s': %w", s.DeclRange, s.ID, err)
	}
	if kind != step.KindRelayouter && len(s.ExpectedLayoutIDs) > 0 {
		logger.Warn("expected_layout_ids is only used by relayouter steps; ignoring.")
	}
	if kind != step.KindExecutor && s.LayoutID != "" {
		logger.Warn("layout_id is only used by executor steps; ignoring.")
	}

	return &step.Step{
		ID:                s.ID,
		Kind:              kind,
		Task:              s.Task,
		Next:              s.Next,
		DependsOn:         s.DependsOn,
		AddContext:        s.AddContext,
		ExpectedLayoutIDs: s.ExpectedLayoutIDs,
		LayoutID:          s.LayoutID,
	}, nil
}
