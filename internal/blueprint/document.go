package blueprint

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"factoriobp.io/internal/protocol"
)

// Document is a decoded exchange payload: exactly one of Blueprint and Book
// is set. Extra keeps any other root members.
type Document struct {
	Blueprint *Blueprint
	Book      *BlueprintBook
	Extra     Extra
}

// Kind returns the root key of the document.
func (d *Document) Kind() string {
	switch {
	case d == nil:
		return ""
	case d.Book != nil:
		return protocol.KeyBlueprintBook
	case d.Blueprint != nil:
		return protocol.KeyBlueprint
	}
	return ""
}

func (d *Document) Label() string {
	switch {
	case d == nil:
		return ""
	case d.Book != nil:
		return deref(d.Book.Label)
	case d.Blueprint != nil:
		return deref(d.Blueprint.Label)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (d *Document) Version() Version {
	switch {
	case d == nil:
		return Version{}
	case d.Book != nil:
		return d.Book.Version
	case d.Blueprint != nil:
		return d.Blueprint.Version
	}
	return Version{}
}

// Blueprints returns every blueprint in the document, depth first.
func (d *Document) Blueprints() []*Blueprint {
	if d == nil {
		return nil
	}
	if d.Blueprint != nil {
		return []*Blueprint{d.Blueprint}
	}
	var out []*Blueprint
	var walk func(b *BlueprintBook)
	walk = func(b *BlueprintBook) {
		for _, e := range b.Blueprints {
			switch {
			case e.Blueprint != nil:
				out = append(out, e.Blueprint)
			case e.Book != nil:
				walk(e.Book)
			}
		}
	}
	if d.Book != nil {
		walk(d.Book)
	}
	return out
}

// Parse maps raw JSON text onto a Document. It fails with a FormatError for
// malformed JSON, a DataError when the root is neither a blueprint nor a
// blueprint book, and a SchemaError when the content does not match the
// schema.
func Parse(raw []byte) (*Document, error) {
	root, err := protocol.DecodeRoot(raw)
	if err != nil {
		return nil, err
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	extra, err := readFields(raw, func(name string) bool {
		return name == protocol.KeyBlueprint || name == protocol.KeyBlueprintBook
	})
	if err != nil {
		return nil, schemaError("", err)
	}
	doc := &Document{Extra: extra}
	base := "/" + root.Key
	switch root.Key {
	case protocol.KeyBlueprint:
		var bp Blueprint
		if err := json.Unmarshal(root.Value, &bp); err != nil {
			return nil, schemaError(base, err)
		}
		doc.Blueprint = &bp
	case protocol.KeyBlueprintBook:
		var book BlueprintBook
		if err := json.Unmarshal(root.Value, &book); err != nil {
			return nil, schemaError(base, err)
		}
		doc.Book = &book
	}
	return doc, nil
}

func (d *Document) UnmarshalJSON(b []byte) error {
	parsed, err := Parse(b)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	var (
		key   string
		value any
	)
	switch {
	case d.Blueprint != nil && d.Book != nil:
		return nil, &protocol.DataError{Msg: "document holds both a blueprint and a blueprint book"}
	case d.Blueprint != nil:
		key, value = protocol.KeyBlueprint, d.Blueprint
	case d.Book != nil:
		key, value = protocol.KeyBlueprintBook, d.Book
	default:
		return nil, &protocol.DataError{Msg: "document holds neither a blueprint nor a blueprint book"}
	}
	body, err := marshal(value, "")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"`)
	buf.WriteString(key)
	buf.WriteString(`":`)
	buf.Write(body)
	if len(d.Extra) > 0 {
		buf.WriteByte(',')
		if err := writeFields(&buf, d.Extra); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Render maps a Document back to compact JSON text.
func Render(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, &protocol.DataError{Msg: "nil document"}
	}
	return marshal(doc, "")
}

// RenderIndent is Render with indentation.
func RenderIndent(doc *Document, indent string) ([]byte, error) {
	if doc == nil {
		return nil, &protocol.DataError{Msg: "nil document"}
	}
	return marshal(doc, indent)
}

// marshal encodes without HTML escaping so that condition payloads such as
// comparators keep their original text.
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		var de *protocol.DataError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func schemaError(base string, err error) error {
	var se *protocol.SchemaError
	if errors.As(err, &se) {
		return se
	}
	path := base
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		path = base + "/" + strings.ReplaceAll(te.Field, ".", "/")
	}
	return &protocol.SchemaError{Path: path, Msg: err.Error(), Err: err}
}
