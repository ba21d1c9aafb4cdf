package document

// RelativeRegion is a layout node annotated with the shapes it owns. Shape
// positions are expressed relative to the top-left corner of the region.
type RelativeRegion struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Type       LayoutType        `json:"type"`
	Multi      bool              `json:"multi,omitempty"`
	Corners    *[2]Point         `json:"b,omitempty"`
	Shapes     []Shape           `json:"shapes,omitempty"`
	Regions    []*RelativeRegion `json:"regions,omitempty"`
	Sublayouts []*RelativeRegion `json:"sl,omitempty"`
}

// RelativeLayout re-expresses shapes relative to the layout regions that
// hold them. Each shape is claimed by the first region that lists it; for a
// single layout its own shapes are claimed before its sublayouts, for a multi
// layout the sublayouts come before the regions. Shapes not listed anywhere
// are left out.
func RelativeLayout(root *Layout, shapes []Shape) *RelativeRegion {
	if root == nil {
		return nil
	}
	pool := make(map[ID]Shape, len(shapes))
	for _, s := range shapes {
		pool[s.ID] = s
	}

	claim := func(ids []ID, origin Point) []Shape {
		var out []Shape
		for _, id := range ids {
			s, ok := pool[id]
			if !ok {
				continue
			}
			delete(pool, id)
			c := s.Clone()
			c.Pos = c.Pos.Translate(origin)
			out = append(out, c)
		}
		return out
	}

	var walk func(l *Layout) *RelativeRegion
	walk = func(l *Layout) *RelativeRegion {
		node := &RelativeRegion{ID: l.ID, Name: l.Name, Type: l.Type, Multi: l.Multi}
		if !l.Multi {
			b := l.Bounds
			node.Corners = &[2]Point{b.TopLeft, b.BottomRight}
			node.Shapes = claim(l.Shapes, b.TopLeft)
			for _, sl := range l.Sublayouts {
				node.Sublayouts = append(node.Sublayouts, walk(sl))
			}
			return node
		}

		for _, sl := range l.Sublayouts {
			node.Sublayouts = append(node.Sublayouts, walk(sl))
		}
		for _, r := range l.Regions {
			b := r.Bounds
			node.Regions = append(node.Regions, &RelativeRegion{
				ID:      r.ID,
				Type:    l.Type,
				Corners: &[2]Point{b.TopLeft, b.BottomRight},
				Shapes:  claim(r.Shapes, b.TopLeft),
			})
		}
		return node
	}
	return walk(root)
}
