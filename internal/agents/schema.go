package agents

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/specialistvlad/slidegridgo/internal/document"
)

// LayoutUpdate is what the executor agent answers with.
type LayoutUpdate struct {
	Shapes       []document.Shape `json:"shapes" jsonschema:"description=new or modified shapes of the target region"`
	DeleteShapes []document.ID    `json:"deleteShapes" jsonschema:"description=ids of existing shapes to remove"`
}

// relayoutAnswer is what the relayouter agent answers with.
type relayoutAnswer struct {
	Layout *document.Layout `json:"layout"`
}

// layoutDoc mirrors the JSON form of document.Layout so the schema can be
// reflected; document.Layout itself uses custom marshalling for "b".
type layoutDoc struct {
	ID    string              `json:"id" jsonschema:"description=unique layout id"`
	Name  string              `json:"name,omitempty"`
	Type  document.LayoutType `json:"type" jsonschema:"enum=row,enum=column,enum=grid,enum=group"`
	Multi bool                `json:"multi,omitempty" jsonschema:"description=true when b lists several regions"`
	B     any                 `json:"b" jsonschema:"description=[[x1,y1],[x2,y2]] for a single layout or a list of [id,[x1,y1],[x2,y2],[shapeIds]] regions when multi is true"`
	SL    []layoutDoc         `json:"sl,omitempty" jsonschema:"description=sublayouts"`
	S     []string            `json:"s,omitempty" jsonschema:"description=ids of shapes owned directly by this layout"`
}

type relayoutDoc struct {
	Layout layoutDoc `json:"layout"`
}

var (
	schemaOnce     sync.Once
	updateSchema   string
	relayoutSchema string
)

func reflectSchema(v any) string {
	r := &jsonschema.Reflector{AllowAdditionalProperties: false}
	s := r.Reflect(v)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// LayoutUpdateSchema returns the JSON schema of LayoutUpdate.
func LayoutUpdateSchema() string {
	schemaOnce.Do(initSchemas)
	return updateSchema
}

// RelayoutSchema returns the JSON schema of the relayouter answer.
func RelayoutSchema() string {
	schemaOnce.Do(initSchemas)
	return relayoutSchema
}

func initSchemas() {
	updateSchema = reflectSchema(&LayoutUpdate{})
	relayoutSchema = reflectSchema(&relayoutDoc{})
}
