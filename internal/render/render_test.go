package render

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"factoriobp.io/internal/blueprint"
)

const sample = `{"blueprint":{"entities":[{"entity_number":1,"name":"constant-combinator","position":{"x":0.5,"y":0.5},"direction":4,"connections":{"1":{"red":[{"entity_id":2,"circuit_id":"Lamp"}]}}},{"entity_number":2,"name":"small-lamp","position":{"x":1.5,"y":0.5}}],"schedules":[{"schedule":[{"station":"A","wait_conditions":[{"type":"circuit","compare_type":"or","condition":{"comparator":"<","constant":1,"first_signal":{"type":"virtual","name":"signal-A"}}}]}],"locomotives":[1]}],"item":"blueprint","label":"Lamp","version":281479275675648}}`

func parseSample(t *testing.T) *blueprint.Document {
	t.Helper()
	doc, err := blueprint.Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Fatalf("ParseFormat(%s)=%s,%v", f, got, err)
		}
	}
	if _, err := ParseFormat("toml"); err == nil || !strings.Contains(err.Error(), "json-pretty") {
		t.Fatalf("expected error listing formats, got %v", err)
	}
}

func TestRender_JSONIsRawPayload(t *testing.T) {
	raw := []byte(` {"blueprint": {"item":"blueprint","version":0}} `)
	out, err := Render(JSON, raw, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("json output changed the payload: %q", out)
	}
}

func TestRender_NeedsDocument(t *testing.T) {
	for _, f := range []Format{JSONPretty, Debug, YAML} {
		if _, err := Render(f, []byte(sample), nil); err == nil {
			t.Fatalf("%s without document should fail", f)
		}
	}
}

func TestRender_JSONPrettyIsEquivalent(t *testing.T) {
	doc := parseSample(t)
	out, err := Render(JSONPretty, []byte(sample), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(out, []byte("\n  \"blueprint\": {")) {
		t.Fatalf("not indented:\n%s", out)
	}
	var a, b any
	if err := json.Unmarshal([]byte(sample), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(out, &b); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("pretty output is not equivalent:\n%s", out)
	}
}

func TestRender_Debug(t *testing.T) {
	doc := parseSample(t)
	out, err := Render(Debug, []byte(sample), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	for _, want := range []string{"constant-combinator", "Lamp", "signal-A", "Label: (*string)((len=4) \"Lamp\")"} {
		if !strings.Contains(s, want) {
			t.Fatalf("debug output missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "0xc0") {
		t.Fatalf("debug output leaks pointer addresses:\n%s", s)
	}
}

func TestRender_YAMLKeepsOrderAndValues(t *testing.T) {
	doc := parseSample(t)
	out, err := Render(YAML, []byte(sample), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "{") || strings.Contains(s, "[") {
		t.Fatalf("expected block style:\n%s", s)
	}
	if i, j := strings.Index(s, "entities:"), strings.Index(s, "item: blueprint"); i < 0 || j < 0 || i > j {
		t.Fatalf("key order not kept:\n%s", s)
	}
	if !strings.Contains(s, `"1":`) {
		t.Fatalf("connector key should stay a string:\n%s", s)
	}

	var fromYAML any
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	var js bytes.Buffer
	enc := json.NewEncoder(&js)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fromYAML); err != nil {
		t.Fatalf("marshal yaml value: %v", err)
	}
	again, err := blueprint.Parse(js.Bytes())
	if err != nil {
		t.Fatalf("Parse(yaml->json): %v\n%s", err, js.String())
	}
	if !reflect.DeepEqual(doc, again) {
		t.Fatal("yaml output does not carry the same document")
	}
}
