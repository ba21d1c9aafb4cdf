package agents

import (
	"context"
	"errors"
	"strings"

	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/llm"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

type coupler struct {
	agent *Agent
	sink  sink.Sink
}

// Couple implements registry.CouplerHandler. The constraint text is the
// JSON value found in the answer, or the whole trimmed answer when it holds
// none.
func (h *coupler) Couple(ctx context.Context, in registry.CouplerInput) (string, error) {
	system, err := SystemPrompt(step.KindCoupler)
	if err != nil {
		return "", err
	}
	previous, err := document.RegionYAML(in.Layout)
	if err != nil {
		return "", err
	}

	var dependents string
	if len(in.Next) > 0 {
		dependents = mustJSON(in.Next)
	}
	user := renderPrompt(
		section{"Task", in.Task},
		section{"Additional Context", in.AddContext},
		section{"Goal Layout", mustJSON(in.GoalLayout)},
		section{"Executor-Agents depending on your output", dependents},
		section{"Previous Layout with Relative Shapes", previous},
	)

	text, raw, err := converse(ctx, h.agent, step.KindCoupler, in.StepID, system, user, func(reply string) (string, error) {
		if extracted, err := llm.ExtractJSON(reply); err == nil {
			return string(extracted), nil
		}
		text := strings.TrimSpace(reply)
		if text == "" {
			return "", errors.New("answer is empty; list the constraints")
		}
		return text, nil
	})
	if raw != "" {
		persist(ctx, h.sink, in.ProcessID, step.KindCoupler, in.StepID, rawOrText(raw))
	}
	if err != nil {
		return "", err
	}
	return text, nil
}
