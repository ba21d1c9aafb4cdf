package registry

import (
	"context"

	"github.com/specialistvlad/slidegridgo/internal/document"
)

// RelayoutInput is what a relayouter handler sees.
type RelayoutInput struct {
	ProcessID         string
	StepID            string
	Task              string
	AddContext        string
	ExpectedLayoutIDs []string
	Layout            *document.Layout
	Datamodel         *document.Datamodel
}

// CouplerInput is what a coupler handler sees. Layout is the original layout
// with every shape positioned relative to the region holding it; GoalLayout
// is the current layout tree. Next lists the steps that consume the output.
type CouplerInput struct {
	ProcessID  string
	StepID     string
	Task       string
	AddContext string
	Next       []string
	Layout     *document.RelativeRegion
	GoalLayout *document.Layout
}

// ExecutorInput is what an executor handler sees. Layout is the region named
// by LayoutID and Shapes are the shapes inside it. Constraints is the joined
// output of every upstream coupler.
type ExecutorInput struct {
	ProcessID   string
	StepID      string
	Task        string
	AddContext  string
	LayoutID    string
	Layout      *document.Layout
	Shapes      []document.Shape
	Datamodel   *document.Datamodel
	Constraints string
}

// RelayoutHandler produces a replacement layout tree.
type RelayoutHandler interface {
	Relayout(ctx context.Context, in RelayoutInput) (*document.Layout, error)
}

// CouplerHandler produces free-form constraint text.
type CouplerHandler interface {
	Couple(ctx context.Context, in CouplerInput) (string, error)
}

// ExecutorHandler produces a changeset for the current datamodel.
type ExecutorHandler interface {
	Execute(ctx context.Context, in ExecutorInput) (*document.Changeset, error)
}

// RelayoutFunc adapts a function to RelayoutHandler.
type RelayoutFunc func(ctx context.Context, in RelayoutInput) (*document.Layout, error)

// Relayout implements RelayoutHandler.
func (f RelayoutFunc) Relayout(ctx context.Context, in RelayoutInput) (*document.Layout, error) {
	return f(ctx, in)
}

// CouplerFunc adapts a function to CouplerHandler.
type CouplerFunc func(ctx context.Context, in CouplerInput) (string, error)

// Couple implements CouplerHandler.
func (f CouplerFunc) Couple(ctx context.Context, in CouplerInput) (string, error) {
	return f(ctx, in)
}

// ExecutorFunc adapts a function to ExecutorHandler.
type ExecutorFunc func(ctx context.Context, in ExecutorInput) (*document.Changeset, error)

// Execute implements ExecutorHandler.
func (f ExecutorFunc) Execute(ctx context.Context, in ExecutorInput) (*document.Changeset, error) {
	return f(ctx, in)
}
