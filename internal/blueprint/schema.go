package blueprint

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"factoriobp.io/internal/protocol"
)

const schemaURL = "https://factoriobp.io/schemas/blueprint.schema.json"

//go:embed blueprint.schema.json
var schemaSource []byte

var compiledSchema = sync.OnceValues(compileSchema)

// SchemaJSON returns the document schema with the enum lists filled in from
// the wire tables.
func SchemaJSON() ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(schemaSource, &doc); err != nil {
		return nil, fmt.Errorf("blueprint.schema.json: %w", err)
	}
	defs, ok := doc["$defs"].(map[string]any)
	if !ok {
		return nil, errors.New("blueprint.schema.json: missing $defs")
	}
	for name, values := range schemaEnums {
		def, ok := defs[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("blueprint.schema.json: missing $defs/%s", name)
		}
		def["enum"] = values
	}
	return json.MarshalIndent(doc, "", "  ")
}

func compileSchema() (*jsonschema.Schema, error) {
	src, err := SchemaJSON()
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(src)); err != nil {
		return nil, fmt.Errorf("blueprint.schema.json: %w", err)
	}
	return c.Compile(schemaURL)
}

// validateSchema checks raw against the document schema. Failures come back
// as a SchemaError pointing at the offending value.
func validateSchema(raw []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return &protocol.FormatError{Stage: "json", Err: err}
	}
	err = s.Validate(v)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &protocol.SchemaError{Msg: err.Error(), Err: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	path := leaf.InstanceLocation
	if path == "" {
		path = "/"
	}
	return &protocol.SchemaError{Path: path, Msg: leaf.Message, Err: err}
}
