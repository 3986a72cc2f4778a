package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"factoriobp.io/internal/blueprint"
	"factoriobp.io/internal/protocol"
)

// Format names an output rendering of a decoded exchange string.
type Format string

const (
	// JSON is the decompressed payload exactly as stored in the string.
	JSON Format = "json"
	// JSONPretty re-serializes the typed document with indentation.
	JSONPretty Format = "json-pretty"
	// Debug dumps the typed document structure.
	Debug Format = "debug"
	// YAML re-serializes the typed document as block YAML, keeping key order.
	YAML Format = "yaml"
)

var formats = []Format{JSON, JSONPretty, Debug, YAML}

func Formats() []Format { return append([]Format(nil), formats...) }

func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(names, ", "))
}

// NeedsDocument reports whether the format renders the typed document
// rather than the raw payload.
func (f Format) NeedsDocument() bool { return f != JSON }

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Render produces the output bytes for f. raw is the decompressed payload;
// doc must be set for formats that need the typed document.
func Render(f Format, raw []byte, doc *blueprint.Document) ([]byte, error) {
	if f.NeedsDocument() && doc == nil {
		return nil, &protocol.DataError{Msg: fmt.Sprintf("format %s needs a parsed document", f)}
	}
	switch f {
	case JSON:
		return raw, nil
	case JSONPretty:
		out, err := blueprint.RenderIndent(doc, "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case Debug:
		return []byte(dumper.Sdump(doc)), nil
	case YAML:
		return renderYAML(doc)
	}
	return nil, fmt.Errorf("unknown output format %q", f)
}

// renderYAML goes through the canonical JSON rendering so that YAML keys
// keep the wire names and order.
func renderYAML(doc *blueprint.Document) ([]byte, error) {
	js, err := blueprint.Render(doc)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(js, &node); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	resetStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// resetStyle drops the flow and quoting styles picked up from JSON input.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}
