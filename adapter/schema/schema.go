package schema

import (
	_ "embed"
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"
)

// Schema validates raw invocation payloads.
type Schema struct {
	schema *gojsonschema.Schema
}

//go:embed invocation.json
var invocation json.RawMessage

var invocationLoader = gojsonschema.NewBytesLoader(invocation)

// NewInvocationSchema compiles the embedded invocation payload schema.
func NewInvocationSchema() (*Schema, error) {
	s, err := gojsonschema.NewSchema(invocationLoader)
	if err != nil {
		return nil, err
	}

	return &Schema{schema: s}, nil
}

// Validate validates a raw JSON payload against the schema.
func (s *Schema) Validate(data []byte) (*gojsonschema.Result, error) {
	return s.schema.Validate(gojsonschema.NewBytesLoader(data))
}
