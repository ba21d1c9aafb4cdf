package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Run("applies modify, delete and add", func(t *testing.T) {
		dm := sampleDatamodel()
		moved := dm.Shapes[1].Clone()
		moved.Pos.TopLeft = Point{25, 130}

		cs := &Changeset{
			Added:    []Shape{{ID: "c3-body", Type: "text"}},
			Modified: []Shape{moved},
			Deleted:  []ID{"logo"},
		}
		got, err := Merge(dm, cs)
		require.NoError(t, err)

		assert.Equal(t, []ID{"title", "c1-body", "c2-body", "c3-body"}, got.IDs())
		s, ok := got.Shape("c1-body")
		require.True(t, ok)
		assert.Equal(t, Point{25, 130}, s.Pos.TopLeft)

		// the input is untouched
		assert.Equal(t, []ID{"title", "c1-body", "c2-body", "logo"}, dm.IDs())
		assert.Equal(t, Point{20, 120}, dm.Shapes[1].Pos.TopLeft)
	})

	t.Run("deleting an unknown shape fails without side effects", func(t *testing.T) {
		dm := sampleDatamodel()
		got, err := Merge(dm, &Changeset{Deleted: []ID{"ghost"}})
		require.ErrorIs(t, err, ErrUnknownShape)
		assert.Nil(t, got)
		assert.Len(t, dm.Shapes, 4)
	})

	t.Run("modifying an unknown shape fails", func(t *testing.T) {
		_, err := Merge(sampleDatamodel(), &Changeset{Modified: []Shape{{ID: "ghost"}}})
		assert.ErrorIs(t, err, ErrUnknownShape)
	})

	t.Run("adding an existing id fails", func(t *testing.T) {
		_, err := Merge(sampleDatamodel(), &Changeset{Added: []Shape{{ID: "title"}}})
		assert.ErrorIs(t, err, ErrDuplicateShape)
	})

	t.Run("the same id twice fails", func(t *testing.T) {
		_, err := Merge(sampleDatamodel(), &Changeset{
			Modified: []Shape{{ID: "title"}},
			Deleted:  []ID{"title"},
		})
		assert.ErrorIs(t, err, ErrDuplicateShape)
	})

	t.Run("empty changeset returns a copy", func(t *testing.T) {
		dm := sampleDatamodel()
		got, err := Merge(dm, nil)
		require.NoError(t, err)
		assert.Equal(t, dm, got)
		assert.NotSame(t, dm, got)
	})

	t.Run("nil datamodel", func(t *testing.T) {
		_, err := Merge(nil, &Changeset{})
		assert.Error(t, err)
	})
}

func TestDiff(t *testing.T) {
	orig := sampleDatamodel()
	cur := orig.Clone()
	cur.Shapes[0].Text = "Roadmap 2027"
	cur.Shapes = append(cur.Shapes[:3], Shape{ID: "footer", Type: "text"})

	cs := Diff(orig, cur)
	require.Len(t, cs.Modified, 1)
	assert.Equal(t, ID("title"), cs.Modified[0].ID)
	require.Len(t, cs.Added, 1)
	assert.Equal(t, ID("footer"), cs.Added[0].ID)
	assert.Equal(t, []ID{"logo"}, cs.Deleted)

	t.Run("merging the diff reproduces the current datamodel", func(t *testing.T) {
		got, err := Merge(orig, cs)
		require.NoError(t, err)
		assert.ElementsMatch(t, cur.Shapes, got.Shapes)
	})

	t.Run("identical datamodels give an empty changeset", func(t *testing.T) {
		same := Diff(orig, orig.Clone())
		assert.True(t, same.IsEmpty())
		assert.NotNil(t, same.Added)
	})

	t.Run("empty and nil props are equal", func(t *testing.T) {
		a := Shape{ID: "x", Props: map[string]any{}}
		b := Shape{ID: "x"}
		assert.True(t, ShapesEqual(a, b))
	})
}
