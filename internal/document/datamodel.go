package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a shape or a slide. Producers emit either strings or
// numbers; both decode to the same decimal string.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Point is an [x, y] coordinate in slide units.
type Point [2]float64

// Position is the bounding box of a shape.
type Position struct {
	TopLeft     Point `json:"topLeft"`
	BottomRight Point `json:"bottomRight"`
}

// Translate returns the position shifted so origin becomes [0, 0].
func (p Position) Translate(origin Point) Position {
	return Position{
		TopLeft:     Point{p.TopLeft[0] - origin[0], p.TopLeft[1] - origin[1]},
		BottomRight: Point{p.BottomRight[0] - origin[0], p.BottomRight[1] - origin[1]},
	}
}

// Shape is one element on the slide.
type Shape struct {
	ID    ID             `json:"id"`
	Name  string         `json:"name,omitempty"`
	Type  string         `json:"type"`
	Pos   Position       `json:"pos"`
	Text  string         `json:"text,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	s.Props = cloneProps(s.Props)
	return s
}

func cloneProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneProps(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Datamodel is the shape tree of one slide.
type Datamodel struct {
	ID     ID      `json:"id"`
	Index  int     `json:"index"`
	Shapes []Shape `json:"shapes"`
}

// Clone returns a deep copy of the datamodel.
func (d *Datamodel) Clone() *Datamodel {
	if d == nil {
		return nil
	}
	c := &Datamodel{ID: d.ID, Index: d.Index, Shapes: make([]Shape, len(d.Shapes))}
	for i, s := range d.Shapes {
		c.Shapes[i] = s.Clone()
	}
	return c
}

// Shape looks a shape up by id.
func (d *Datamodel) Shape(id ID) (Shape, bool) {
	for _, s := range d.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return Shape{}, false
}

// Filter returns clones of the shapes whose id is in ids, in datamodel order.
func (d *Datamodel) Filter(ids []ID) []Shape {
	want := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]Shape, 0, len(ids))
	for _, s := range d.Shapes {
		if _, ok := want[s.ID]; ok {
			out = append(out, s.Clone())
		}
	}
	return out
}

// IDs returns every shape id in datamodel order.
func (d *Datamodel) IDs() []ID {
	ids := make([]ID, len(d.Shapes))
	for i, s := range d.Shapes {
		ids[i] = s.ID
	}
	return ids
}

func shapeIndex(shapes []Shape) map[ID]int {
	idx := make(map[ID]int, len(shapes))
	for i, s := range shapes {
		if _, dup := idx[s.ID]; !dup {
			idx[s.ID] = i
		}
	}
	return idx
}
