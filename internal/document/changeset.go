package document

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	// ErrUnknownShape is returned when a changeset modifies or deletes a
	// shape the datamodel does not contain.
	ErrUnknownShape = errors.New("changeset references unknown shape")
	// ErrDuplicateShape is returned when a changeset adds a shape whose id
	// is already taken, or names one id twice.
	ErrDuplicateShape = errors.New("changeset adds duplicate shape")
)

// Changeset describes an edit to a datamodel.
type Changeset struct {
	Added    []Shape `json:"added"`
	Modified []Shape `json:"modified"`
	Deleted  []ID    `json:"deleted"`
}

// IsEmpty reports whether the changeset has no effect.
func (c *Changeset) IsEmpty() bool {
	return c == nil || (len(c.Added) == 0 && len(c.Modified) == 0 && len(c.Deleted) == 0)
}

// Size returns the number of touched shapes.
func (c *Changeset) Size() int {
	if c == nil {
		return 0
	}
	return len(c.Added) + len(c.Modified) + len(c.Deleted)
}

// Merge applies cs to dm and returns the resulting datamodel. dm itself is
// never modified, so a failed merge leaves the caller's datamodel intact.
//
// Modified shapes replace the shape with the same id in place. Deleted ids
// are removed. Added shapes are appended in changeset order.
func Merge(dm *Datamodel, cs *Changeset) (*Datamodel, error) {
	if dm == nil {
		return nil, errors.New("cannot merge into a nil datamodel")
	}
	if cs.IsEmpty() {
		return dm.Clone(), nil
	}

	existing := shapeIndex(dm.Shapes)
	touched := make(map[ID]struct{}, cs.Size())
	claim := func(id ID) error {
		if _, dup := touched[id]; dup {
			return fmt.Errorf("%w: '%s' appears more than once", ErrDuplicateShape, id)
		}
		touched[id] = struct{}{}
		return nil
	}

	var problems []error
	for _, s := range cs.Modified {
		if _, ok := existing[s.ID]; !ok {
			problems = append(problems, fmt.Errorf("%w: cannot modify '%s'", ErrUnknownShape, s.ID))
		}
		if err := claim(s.ID); err != nil {
			problems = append(problems, err)
		}
	}
	for _, id := range cs.Deleted {
		if _, ok := existing[id]; !ok {
			problems = append(problems, fmt.Errorf("%w: cannot delete '%s'", ErrUnknownShape, id))
		}
		if err := claim(id); err != nil {
			problems = append(problems, err)
		}
	}
	for _, s := range cs.Added {
		if _, ok := existing[s.ID]; ok {
			problems = append(problems, fmt.Errorf("%w: '%s' already exists", ErrDuplicateShape, s.ID))
		}
		if err := claim(s.ID); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	modified := make(map[ID]Shape, len(cs.Modified))
	for _, s := range cs.Modified {
		modified[s.ID] = s
	}
	deleted := make(map[ID]struct{}, len(cs.Deleted))
	for _, id := range cs.Deleted {
		deleted[id] = struct{}{}
	}

	out := &Datamodel{ID: dm.ID, Index: dm.Index, Shapes: make([]Shape, 0, len(dm.Shapes)+len(cs.Added))}
	for _, s := range dm.Shapes {
		if _, gone := deleted[s.ID]; gone {
			continue
		}
		if m, ok := modified[s.ID]; ok {
			out.Shapes = append(out.Shapes, m.Clone())
			continue
		}
		out.Shapes = append(out.Shapes, s.Clone())
	}
	for _, s := range cs.Added {
		out.Shapes = append(out.Shapes, s.Clone())
	}
	return out, nil
}

// Diff computes the changeset that turns orig into cur. Added and modified
// shapes follow cur's order; deleted ids follow orig's order.
func Diff(orig, cur *Datamodel) *Changeset {
	cs := &Changeset{Added: []Shape{}, Modified: []Shape{}, Deleted: []ID{}}
	if orig == nil {
		orig = &Datamodel{}
	}
	if cur == nil {
		cur = &Datamodel{}
	}

	before := shapeIndex(orig.Shapes)
	after := shapeIndex(cur.Shapes)

	for _, s := range cur.Shapes {
		i, ok := before[s.ID]
		if !ok {
			cs.Added = append(cs.Added, s.Clone())
			continue
		}
		if !ShapesEqual(orig.Shapes[i], s) {
			cs.Modified = append(cs.Modified, s.Clone())
		}
	}
	for _, s := range orig.Shapes {
		if _, ok := after[s.ID]; !ok {
			cs.Deleted = append(cs.Deleted, s.ID)
		}
	}
	return cs
}

// ShapesEqual compares two shapes by content. A nil and an empty Props map
// are considered equal.
func ShapesEqual(a, b Shape) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}
