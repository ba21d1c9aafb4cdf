package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
	"github.com/specialistvlad/slidegridgo/internal/step"
)

// Validate checks that every step kind used by g has a registered handler.
func (r *Registry) Validate(ctx context.Context, g *step.Graph) error {
	logger := ctxlog.FromContext(ctx)
	registrants := r.Registrants()

	used := make(map[step.Kind][]string)
	for _, s := range g.Steps() {
		used[s.Kind] = append(used[s.Kind], s.ID)
	}

	var errs []string
	for _, kind := range step.Kinds {
		ids, needed := used[kind]
		if !needed {
			continue
		}
		name, ok := registrants[kind]
		if !ok {
			errs = append(errs, fmt.Sprintf("no %s handler registered (needed by %s)", kind, strings.Join(ids, ", ")))
			continue
		}
		logger.Debug("Handler resolved.", "kind", kind, "module", name, "steps", len(ids))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
