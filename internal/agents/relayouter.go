package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

type relayouter struct {
	agent *Agent
	sink  sink.Sink
}

// Relayout implements registry.RelayoutHandler.
func (h *relayouter) Relayout(ctx context.Context, in registry.RelayoutInput) (*document.Layout, error) {
	system, err := SystemPrompt(step.KindRelayouter)
	if err != nil {
		return nil, err
	}
	shapes, err := document.CoordinateYAML(in.Datamodel.Shapes)
	if err != nil {
		return nil, err
	}

	user := renderPrompt(
		section{"Task", in.Task},
		section{"Additional Context", in.AddContext},
		section{"Layout", mustJSON(in.Layout)},
		section{"Planned Layout IDs", strings.Join(in.ExpectedLayoutIDs, ", ")},
		section{"Datamodel", shapes},
		section{"Output Schema", RelayoutSchema()},
	)

	layout, raw, err := converse(ctx, h.agent, step.KindRelayouter, in.StepID, system, user, func(reply string) (*document.Layout, error) {
		var answer relayoutAnswer
		if _, err := decodeStrict(reply, &answer); err != nil {
			return nil, err
		}
		if answer.Layout == nil {
			return nil, errors.New("answer has no \"layout\" object")
		}
		if err := document.ValidateLayout(answer.Layout); err != nil {
			return nil, err
		}
		if missing := document.MissingLayoutIDs(answer.Layout, in.ExpectedLayoutIDs); len(missing) > 0 {
			return nil, fmt.Errorf("layout is missing planned ids: %s", strings.Join(missing, ", "))
		}
		return answer.Layout, nil
	})
	if raw != "" {
		persist(ctx, h.sink, in.ProcessID, step.KindRelayouter, in.StepID, rawOrText(raw))
	}
	if err != nil {
		return nil, err
	}
	return layout, nil
}
