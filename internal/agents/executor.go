package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/slidegridgo/internal/document"
	"github.com/specialistvlad/slidegridgo/internal/registry"
	"github.com/specialistvlad/slidegridgo/internal/sink"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

type executor struct {
	agent *Agent
	sink  sink.Sink
}

// Execute implements registry.ExecutorHandler.
func (h *executor) Execute(ctx context.Context, in registry.ExecutorInput) (*document.Changeset, error) {
	system, err := SystemPrompt(step.KindExecutor)
	if err != nil {
		return nil, err
	}
	if in.Layout == nil || in.Datamodel == nil {
		return nil, errors.New("executor input needs a layout and a datamodel")
	}
	shapes, err := document.CoordinateYAML(in.Shapes)
	if err != nil {
		return nil, err
	}

	user := renderPrompt(
		section{"Your Task", in.Task},
		section{"Additional Context", in.AddContext},
		section{"Your Target Layout/Boundaries", mustJSON(in.Layout)},
		section{"Shapes in original layouts", "If the list is empty, you likely have to create new shapes.\n\n" + shapes},
		section{"Coupler-Agent Rules/Constraints", in.Constraints},
		section{"Output Schema", LayoutUpdateSchema()},
	)

	cs, raw, err := converse(ctx, h.agent, step.KindExecutor, in.StepID, system, user, func(reply string) (*document.Changeset, error) {
		var update LayoutUpdate
		if _, err := decodeStrict(reply, &update); err != nil {
			return nil, err
		}
		next, err := ApplyUpdate(in.Datamodel, in.Shapes, update)
		if err != nil {
			return nil, err
		}
		return document.Diff(in.Datamodel, next), nil
	})
	if raw != "" {
		persist(ctx, h.sink, in.ProcessID, step.KindExecutor, in.StepID, rawOrText(raw))
	}
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// ApplyUpdate builds the datamodel an executor answer describes. The
// result lists the updated shapes first, then the scoped shapes the answer
// did not mention, then every other shape of dm. Deleted ids are dropped.
func ApplyUpdate(dm *document.Datamodel, scoped []document.Shape, update LayoutUpdate) (*document.Datamodel, error) {
	if err := validateUpdate(dm, update); err != nil {
		return nil, err
	}

	included := make(map[document.ID]struct{}, len(update.Shapes)+len(update.DeleteShapes))
	for _, s := range update.Shapes {
		included[s.ID] = struct{}{}
	}
	for _, id := range update.DeleteShapes {
		included[id] = struct{}{}
	}

	shapes := make([]document.Shape, 0, len(dm.Shapes)+len(update.Shapes))
	for _, s := range update.Shapes {
		shapes = append(shapes, s.Clone())
	}
	for _, s := range scoped {
		if _, ok := included[s.ID]; ok {
			continue
		}
		included[s.ID] = struct{}{}
		shapes = append(shapes, s.Clone())
	}
	for _, s := range dm.Shapes {
		if _, ok := included[s.ID]; ok {
			continue
		}
		shapes = append(shapes, s.Clone())
	}

	return &document.Datamodel{ID: dm.ID, Index: dm.Index, Shapes: shapes}, nil
}

func validateUpdate(dm *document.Datamodel, update LayoutUpdate) error {
	var problems []error
	seen := make(map[document.ID]struct{}, len(update.Shapes))
	for i, s := range update.Shapes {
		if s.ID == "" {
			problems = append(problems, fmt.Errorf("shapes.%d.id: must not be empty", i))
			continue
		}
		if _, dup := seen[s.ID]; dup {
			problems = append(problems, fmt.Errorf("shapes.%d.id: '%s' appears more than once", i, s.ID))
		}
		seen[s.ID] = struct{}{}
		tl, br := s.Pos.TopLeft, s.Pos.BottomRight
		if tl[0] > br[0] || tl[1] > br[1] {
			problems = append(problems, fmt.Errorf("shapes.%d.pos: topLeft must be above and left of bottomRight", i))
		}
	}
	for i, id := range update.DeleteShapes {
		if _, ok := dm.Shape(id); !ok {
			problems = append(problems, fmt.Errorf("deleteShapes.%d: shape '%s' does not exist", i, id))
		}
		if _, both := seen[id]; both {
			problems = append(problems, fmt.Errorf("deleteShapes.%d: shape '%s' is also listed in shapes", i, id))
		}
	}
	return errors.Join(problems...)
}
