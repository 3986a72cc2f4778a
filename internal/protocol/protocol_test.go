package protocol

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeRoot(t *testing.T) {
	r, err := DecodeRoot([]byte(`{"blueprint":{"item":"blueprint"}}`))
	if err != nil {
		t.Fatalf("DecodeRoot: %v", err)
	}
	if r.Key != KeyBlueprint || r.IsBook() {
		t.Fatalf("unexpected root: %+v", r)
	}

	r, err = DecodeRoot([]byte(`{"blueprint_book":{"item":"blueprint-book"}}`))
	if err != nil {
		t.Fatalf("DecodeRoot: %v", err)
	}
	if !r.IsBook() || string(r.Value) != `{"item":"blueprint-book"}` {
		t.Fatalf("unexpected root: %+v", r)
	}
}

func TestDecodeRoot_DataErrors(t *testing.T) {
	cases := []string{
		`{}`,
		`{"upgrade_planner":{}}`,
		`{"blueprint":{},"blueprint_book":{}}`,
		`[1,2,3]`,
		`"blueprint"`,
		`null`,
	}
	for _, in := range cases {
		_, err := DecodeRoot([]byte(in))
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("%s: expected DataError, got %v", in, err)
		}
		if !strings.Contains(de.Error(), KeyBlueprint) || !strings.Contains(de.Error(), KeyBlueprintBook) {
			t.Fatalf("%s: message should name both keys: %q", in, de.Error())
		}
	}
}

func TestDecodeRoot_SyntaxIsFormatError(t *testing.T) {
	_, err := DecodeRoot([]byte(`{"blueprint":`))
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Stage != "json" {
		t.Fatalf("expected json FormatError, got %v", err)
	}
}
