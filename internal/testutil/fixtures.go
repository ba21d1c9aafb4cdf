package testutil

import "github.com/specialistvlad/slidegridgo/internal/document"

// Datamodel returns a small two-column slide: a title, one body per column
// and a logo in the corner.
func Datamodel() *document.Datamodel {
	return &document.Datamodel{
		ID:    "slide-1",
		Index: 0,
		Shapes: []document.Shape{
			{ID: "title", Type: "text", Pos: document.Position{TopLeft: document.Point{10, 10}, BottomRight: document.Point{900, 80}}, Text: "Roadmap"},
			{ID: "s1", Type: "text", Pos: document.Position{TopLeft: document.Point{20, 120}, BottomRight: document.Point{300, 400}}, Text: "Q1"},
			{ID: "s2", Type: "text", Pos: document.Position{TopLeft: document.Point{320, 120}, BottomRight: document.Point{600, 400}}, Text: "Q2"},
			{ID: "logo", Type: "image", Pos: document.Position{TopLeft: document.Point{850, 500}, BottomRight: document.Point{900, 540}}},
		},
	}
}

// Layout returns the layout tree matching Datamodel. The "columns" layout
// is multi with regions "col1" and "col2".
func Layout() *document.Layout {
	return &document.Layout{
		ID:     "root",
		Name:   "slide",
		Type:   document.LayoutColumn,
		Bounds: document.Boundary{TopLeft: document.Point{0, 0}, BottomRight: document.Point{960, 540}},
		Shapes: []document.ID{"logo"},
		Sublayouts: []*document.Layout{
			{
				ID:     "header",
				Name:   "title row",
				Type:   document.LayoutRow,
				Bounds: document.Boundary{TopLeft: document.Point{0, 0}, BottomRight: document.Point{960, 100}},
				Shapes: []document.ID{"title"},
			},
			{
				ID:    "columns",
				Name:  "content columns",
				Type:  document.LayoutRow,
				Multi: true,
				Regions: []document.Region{
					{ID: "col1", Bounds: document.Boundary{TopLeft: document.Point{10, 110}, BottomRight: document.Point{310, 420}}, Shapes: []document.ID{"s1"}},
					{ID: "col2", Bounds: document.Boundary{TopLeft: document.Point{310, 110}, BottomRight: document.Point{610, 420}}, Shapes: []document.ID{"s2"}},
				},
			},
		},
	}
}

// Shape returns a text shape with the given id and text at a fixed position.
func Shape(id document.ID, text string) document.Shape {
	return document.Shape{
		ID:   id,
		Type: "text",
		Pos:  document.Position{TopLeft: document.Point{0, 0}, BottomRight: document.Point{100, 40}},
		Text: text,
	}
}
