package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeLayout(t *testing.T) {
	rel := RelativeLayout(sampleLayout(), sampleDatamodel().Shapes)
	require.NotNil(t, rel)

	require.Len(t, rel.Shapes, 1)
	assert.Equal(t, ID("logo"), rel.Shapes[0].ID)
	assert.Equal(t, Point{850, 500}, rel.Shapes[0].Pos.TopLeft)

	header := rel.Sublayouts[0]
	require.Len(t, header.Shapes, 1)
	assert.Equal(t, Point{10, 10}, header.Shapes[0].Pos.TopLeft)

	cols := rel.Sublayouts[1]
	require.Len(t, cols.Regions, 2)
	col2 := cols.Regions[1]
	assert.Equal(t, "col2", col2.ID)
	require.Len(t, col2.Shapes, 1)
	assert.Equal(t, Point{10, 10}, col2.Shapes[0].Pos.TopLeft)
	assert.Equal(t, Point{290, 290}, col2.Shapes[0].Pos.BottomRight)
}

func TestRelativeLayout_ShapeClaimedOnce(t *testing.T) {
	l := sampleLayout()
	l.Sublayouts[0].Shapes = append(l.Sublayouts[0].Shapes, "logo")

	rel := RelativeLayout(l, sampleDatamodel().Shapes)
	assert.Len(t, rel.Shapes, 1)
	assert.Len(t, rel.Sublayouts[0].Shapes, 1)
}

func TestCoordinateYAML(t *testing.T) {
	shapes := sampleDatamodel().Shapes[:2]

	out, err := CoordinateYAML(shapes)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "tl: [10, 10]"), out)
	assert.Contains(t, out, "text: Roadmap")

	back, err := ParseCoordinateYAML(out)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, shapes[1].Pos, back[1].Pos)
	assert.Equal(t, ID("title"), back[0].ID)

	_, err = ParseCoordinateYAML("- id: x\n  tl: [1]\n  br: [2, 3]\n")
	assert.ErrorContains(t, err, "two coordinates")
}

func TestRegionYAML(t *testing.T) {
	out, err := RegionYAML(RelativeLayout(sampleLayout(), sampleDatamodel().Shapes))
	require.NoError(t, err)

	assert.Contains(t, out, "id: root")
	assert.Contains(t, out, "b: [[0, 0], [960, 540]]")
	assert.Contains(t, out, "id: col2")
	assert.Contains(t, out, "tl: [10, 10]")

	empty, err := RegionYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
