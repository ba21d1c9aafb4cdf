package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrLayoutNotFound is returned when a layout id is absent from a tree.
	ErrLayoutNotFound = errors.New("layout not found")
	// ErrInvalidLayout is returned when a layout tree is structurally broken.
	ErrInvalidLayout = errors.New("invalid layout")
)

// LayoutType describes how a layout arranges its children.
type LayoutType string

const (
	LayoutRow    LayoutType = "row"
	LayoutColumn LayoutType = "column"
	LayoutGrid   LayoutType = "grid"
	LayoutGroup  LayoutType = "group"
)

// Valid reports whether t is a known layout type.
func (t LayoutType) Valid() bool {
	switch t {
	case LayoutRow, LayoutColumn, LayoutGrid, LayoutGroup:
		return true
	}
	return false
}

// Boundary is a rectangle given by its corners.
type Boundary struct {
	TopLeft     Point
	BottomRight Point
}

// Region is one repetition of a multi layout: its own id, boundary and the
// shapes it holds.
type Region struct {
	ID     string
	Bounds Boundary
	Shapes []ID
}

// Layout is a node of the layout tree. A single layout has one boundary in
// Bounds; a multi layout describes repeated regions in Regions instead.
//
// On the wire both forms share the "b" key: [[x1,y1],[x2,y2]] for a single
// layout and [[id,[x1,y1],[x2,y2],[shapeIds...]], ...] for a multi layout.
type Layout struct {
	ID         string
	Name       string
	Type       LayoutType
	Multi      bool
	Bounds     Boundary
	Regions    []Region
	Sublayouts []*Layout
	Shapes     []ID
}

type layoutWire struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  LayoutType      `json:"type"`
	Multi bool            `json:"multi"`
	B     json.RawMessage `json:"b"`
	SL    []*Layout       `json:"sl,omitempty"`
	S     []ID            `json:"s,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (l Layout) MarshalJSON() ([]byte, error) {
	var b any
	if l.Multi {
		entries := make([][4]any, len(l.Regions))
		for i, r := range l.Regions {
			shapes := r.Shapes
			if shapes == nil {
				shapes = []ID{}
			}
			entries[i] = [4]any{r.ID, r.Bounds.TopLeft, r.Bounds.BottomRight, shapes}
		}
		b = entries
	} else {
		b = [2]Point{l.Bounds.TopLeft, l.Bounds.BottomRight}
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return json.Marshal(layoutWire{
		ID:    l.ID,
		Name:  l.Name,
		Type:  l.Type,
		Multi: l.Multi,
		B:     raw,
		SL:    l.Sublayouts,
		S:     l.Shapes,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var w layoutWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Layout{
		ID:         w.ID,
		Name:       w.Name,
		Type:       w.Type,
		Multi:      w.Multi,
		Sublayouts: w.SL,
		Shapes:     w.S,
	}

	if len(w.B) > 0 && string(w.B) != "null" {
		if w.Multi {
			var entries [][]json.RawMessage
			if err := json.Unmarshal(w.B, &entries); err != nil {
				return fmt.Errorf("layout '%s': multi boundary: %w", w.ID, err)
			}
			for i, e := range entries {
				r, err := decodeRegion(e)
				if err != nil {
					return fmt.Errorf("layout '%s': region #%d: %w", w.ID, i, err)
				}
				out.Regions = append(out.Regions, r)
			}
		} else {
			var corners [2]Point
			if err := json.Unmarshal(w.B, &corners); err != nil {
				return fmt.Errorf("layout '%s': boundary: %w", w.ID, err)
			}
			out.Bounds = Boundary{TopLeft: corners[0], BottomRight: corners[1]}
		}
	}

	*l = out
	return nil
}

func decodeRegion(parts []json.RawMessage) (Region, error) {
	var r Region
	if len(parts) != 4 {
		return r, fmt.Errorf("expected [id, topLeft, bottomRight, shapes], got %d elements", len(parts))
	}
	var id ID
	if err := json.Unmarshal(parts[0], &id); err != nil {
		return r, err
	}
	r.ID = string(id)
	if err := json.Unmarshal(parts[1], &r.Bounds.TopLeft); err != nil {
		return r, err
	}
	if err := json.Unmarshal(parts[2], &r.Bounds.BottomRight); err != nil {
		return r, err
	}
	if err := json.Unmarshal(parts[3], &r.Shapes); err != nil {
		return r, err
	}
	return r, nil
}

// Clone returns a deep copy of the layout tree.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	c := *l
	c.Shapes = slices.Clone(l.Shapes)
	if l.Regions != nil {
		c.Regions = make([]Region, len(l.Regions))
		for i, r := range l.Regions {
			r.Shapes = slices.Clone(r.Shapes)
			c.Regions[i] = r
		}
	}
	if l.Sublayouts != nil {
		c.Sublayouts = make([]*Layout, len(l.Sublayouts))
		for i, sl := range l.Sublayouts {
			c.Sublayouts[i] = sl.Clone()
		}
	}
	return &c
}

// FindLayout searches the tree breadth-first for the layout with the given
// id. A matching region of a multi layout is returned as a single layout
// that inherits the parent's name, type and sublayouts. An empty id returns
// root itself.
func FindLayout(root *Layout, id string) (*Layout, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: '%s' (empty tree)", ErrLayoutNotFound, id)
	}
	if id == "" {
		return root, nil
	}

	queue := []*Layout{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.ID == id {
			return current, nil
		}
		if current.Multi {
			for _, r := range current.Regions {
				if r.ID == id {
					return &Layout{
						ID:         r.ID,
						Name:       current.Name,
						Type:       current.Type,
						Bounds:     r.Bounds,
						Sublayouts: current.Sublayouts,
						Shapes:     r.Shapes,
					}, nil
				}
			}
		}
		queue = append(queue, current.Sublayouts...)
	}
	return nil, fmt.Errorf("%w: '%s'", ErrLayoutNotFound, id)
}

// ShapeIDs collects every shape id held by the layout or its descendants,
// breadth-first, without duplicates.
func ShapeIDs(root *Layout) []ID {
	var out []ID
	seen := make(map[ID]struct{})
	add := func(ids []ID) {
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}

	queue := []*Layout{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		add(current.Shapes)
		if current.Multi {
			for _, r := range current.Regions {
				add(r.Shapes)
			}
		}
		queue = append(queue, current.Sublayouts...)
	}
	return out
}

// LayoutIDs collects every layout and region id in the tree, breadth-first.
func LayoutIDs(root *Layout) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	queue := []*Layout{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		add(current.ID)
		queue = append(queue, current.Sublayouts...)
		if current.Multi {
			for _, r := range current.Regions {
				add(r.ID)
			}
		}
	}
	return out
}

// MissingLayoutIDs returns the ids from want that the tree does not contain.
func MissingLayoutIDs(root *Layout, want []string) []string {
	have := make(map[string]struct{})
	for _, id := range LayoutIDs(root) {
		have[id] = struct{}{}
	}
	var missing []string
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// ValidateLayout checks the tree for unknown types, empty or duplicate ids,
// and inverted boundaries.
func ValidateLayout(root *Layout) error {
	if root == nil {
		return fmt.Errorf("%w: layout is empty", ErrInvalidLayout)
	}

	var problems []error
	seen := make(map[string]struct{})
	checkID := func(id, where string) {
		if id == "" {
			problems = append(problems, fmt.Errorf("%s has an empty id", where))
			return
		}
		if _, dup := seen[id]; dup {
			problems = append(problems, fmt.Errorf("duplicate layout id '%s'", id))
		}
		seen[id] = struct{}{}
	}
	checkBounds := func(b Boundary, where string) {
		if b.TopLeft[0] > b.BottomRight[0] || b.TopLeft[1] > b.BottomRight[1] {
			problems = append(problems, fmt.Errorf("%s has an inverted boundary", where))
		}
	}

	var walk func(l *Layout)
	walk = func(l *Layout) {
		if l == nil {
			problems = append(problems, errors.New("nil sublayout"))
			return
		}
		where := fmt.Sprintf("layout '%s'", l.ID)
		checkID(l.ID, where)
		if !l.Type.Valid() {
			problems = append(problems, fmt.Errorf("%s has unknown type %q", where, l.Type))
		}
		if l.Multi {
			if len(l.Regions) == 0 {
				problems = append(problems, fmt.Errorf("%s is multi but has no regions", where))
			}
			for _, r := range l.Regions {
				rw := fmt.Sprintf("region '%s' of %s", r.ID, where)
				checkID(r.ID, rw)
				checkBounds(r.Bounds, rw)
			}
		} else {
			checkBounds(l.Bounds, where)
		}
		for _, sl := range l.Sublayouts {
			walk(sl)
		}
	}
	walk(root)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, errors.Join(problems...))
	}
	return nil
}
