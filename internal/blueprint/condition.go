package blueprint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Condition is a circuit condition of a train wait condition. Its shape is
// not documented, so it is kept as the original fields in wire order and
// rendered back unchanged.
type Condition struct {
	Fields []Field
}

// Field is one named member of a Condition or Extra. Value is compact JSON.
type Field struct {
	Name  string
	Value json.RawMessage
}

// Get returns the first field called name.
func (c Condition) Get(name string) (json.RawMessage, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (c Condition) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeFields(&buf, c.Fields); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Condition) UnmarshalJSON(b []byte) error {
	fields, err := readFields(b, nil)
	if err != nil {
		return fmt.Errorf("condition: %w", err)
	}
	c.Fields = fields
	return nil
}

// readFields returns the members of the JSON object b in wire order, values
// compacted. Members for which skip reports true are left out.
func readFields(b []byte, skip func(name string) bool) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("must be an object")
	}
	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		if skip != nil && skip(name) {
			continue
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		fields = append(fields, Field{Name: name, Value: json.RawMessage(compact.Bytes())})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

// writeFields writes fields as comma separated object members.
func writeFields(buf *bytes.Buffer, fields []Field) error {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := marshal(f.Name, "")
		if err != nil {
			return err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if len(f.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		if !json.Valid(f.Value) {
			return fmt.Errorf("field %q holds invalid JSON", f.Name)
		}
		buf.Write(f.Value)
	}
	return nil
}
