package document

func sampleDatamodel() *Datamodel {
	return &Datamodel{
		ID:    "256",
		Index: 2,
		Shapes: []Shape{
			{ID: "title", Type: "text", Pos: Position{TopLeft: Point{10, 10}, BottomRight: Point{900, 80}}, Text: "Roadmap"},
			{ID: "c1-body", Type: "text", Pos: Position{TopLeft: Point{20, 120}, BottomRight: Point{300, 400}}},
			{ID: "c2-body", Type: "text", Pos: Position{TopLeft: Point{320, 120}, BottomRight: Point{600, 400}}},
			{ID: "logo", Type: "image", Pos: Position{TopLeft: Point{850, 500}, BottomRight: Point{900, 540}}, Props: map[string]any{"alt": "logo"}},
		},
	}
}

func sampleLayout() *Layout {
	return &Layout{
		ID:     "root",
		Name:   "slide",
		Type:   LayoutColumn,
		Bounds: Boundary{TopLeft: Point{0, 0}, BottomRight: Point{960, 540}},
		Shapes: []ID{"logo"},
		Sublayouts: []*Layout{
			{
				ID:     "header",
				Name:   "title row",
				Type:   LayoutRow,
				Bounds: Boundary{TopLeft: Point{0, 0}, BottomRight: Point{960, 100}},
				Shapes: []ID{"title"},
			},
			{
				ID:    "columns",
				Name:  "content columns",
				Type:  LayoutRow,
				Multi: true,
				Regions: []Region{
					{ID: "col1", Bounds: Boundary{TopLeft: Point{10, 110}, BottomRight: Point{310, 420}}, Shapes: []ID{"c1-body"}},
					{ID: "col2", Bounds: Boundary{TopLeft: Point{310, 110}, BottomRight: Point{610, 420}}, Shapes: []ID{"c2-body"}},
				},
			},
		},
	}
}
