package document

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlShape struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name,omitempty"`
	Type        string         `yaml:"type"`
	TopLeft     []float64      `yaml:"tl,flow"`
	BottomRight []float64      `yaml:"br,flow"`
	Text        string         `yaml:"text,omitempty"`
	Props       map[string]any `yaml:"props,omitempty"`
}

type yamlRegion struct {
	ID         string       `yaml:"id"`
	Name       string       `yaml:"name,omitempty"`
	Type       string       `yaml:"type"`
	Multi      bool         `yaml:"multi,omitempty"`
	Corners    [][]float64  `yaml:"b,omitempty,flow"`
	Shapes     []yamlShape  `yaml:"shapes,omitempty"`
	Regions    []yamlRegion `yaml:"regions,omitempty"`
	Sublayouts []yamlRegion `yaml:"sl,omitempty"`
}

func toYAMLShapes(shapes []Shape) []yamlShape {
	if len(shapes) == 0 {
		return nil
	}
	rows := make([]yamlShape, len(shapes))
	for i, s := range shapes {
		rows[i] = yamlShape{
			ID:          string(s.ID),
			Name:        s.Name,
			Type:        s.Type,
			TopLeft:     []float64{s.Pos.TopLeft[0], s.Pos.TopLeft[1]},
			BottomRight: []float64{s.Pos.BottomRight[0], s.Pos.BottomRight[1]},
			Text:        s.Text,
			Props:       s.Props,
		}
	}
	return rows
}

func toYAMLRegion(r *RelativeRegion) yamlRegion {
	out := yamlRegion{
		ID:     r.ID,
		Name:   r.Name,
		Type:   string(r.Type),
		Multi:  r.Multi,
		Shapes: toYAMLShapes(r.Shapes),
	}
	if r.Corners != nil {
		out.Corners = [][]float64{
			{r.Corners[0][0], r.Corners[0][1]},
			{r.Corners[1][0], r.Corners[1][1]},
		}
	}
	for _, c := range r.Regions {
		out.Regions = append(out.Regions, toYAMLRegion(c))
	}
	for _, c := range r.Sublayouts {
		out.Sublayouts = append(out.Sublayouts, toYAMLRegion(c))
	}
	return out
}

// RegionYAML renders a relative layout tree in the same compact style as
// CoordinateYAML.
func RegionYAML(r *RelativeRegion) (string, error) {
	if r == nil {
		return "", nil
	}
	out, err := yaml.Marshal(toYAMLRegion(r))
	if err != nil {
		return "", fmt.Errorf("failed to render region yaml: %w", err)
	}
	return string(out), nil
}

// CoordinateYAML renders shapes as a compact YAML list with flow-style
// coordinates. Models read it more reliably than the full JSON datamodel.
func CoordinateYAML(shapes []Shape) (string, error) {
	rows := toYAMLShapes(shapes)
	if rows == nil {
		rows = []yamlShape{}
	}
	out, err := yaml.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to render coordinate yaml: %w", err)
	}
	return string(out), nil
}

// ParseCoordinateYAML is the inverse of CoordinateYAML.
func ParseCoordinateYAML(src string) ([]Shape, error) {
	var rows []yamlShape
	if err := yaml.Unmarshal([]byte(src), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse coordinate yaml: %w", err)
	}
	shapes := make([]Shape, len(rows))
	for i, r := range rows {
		if len(r.TopLeft) != 2 || len(r.BottomRight) != 2 {
			return nil, fmt.Errorf("shape '%s': tl and br must have two coordinates", r.ID)
		}
		shapes[i] = Shape{
			ID:    ID(r.ID),
			Name:  r.Name,
			Type:  r.Type,
			Pos:   Position{TopLeft: Point{r.TopLeft[0], r.TopLeft[1]}, BottomRight: Point{r.BottomRight[0], r.BottomRight[1]}},
			Text:  r.Text,
			Props: r.Props,
		}
	}
	return shapes, nil
}
