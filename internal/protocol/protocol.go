package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMarker is the version marker the game writes in front of every
// exchange string it exports.
const DefaultMarker = "0"

// Root keys.
const (
	KeyBlueprint     = "blueprint"
	KeyBlueprintBook = "blueprint_book"
)

// Root lets us route a decoded document by which top-level key is present.
type Root struct {
	Key   string
	Value json.RawMessage
}

func (r Root) IsBook() bool { return r.Key == KeyBlueprintBook }

// DecodeRoot checks that b is a JSON object holding exactly one of the
// "blueprint" or "blueprint_book" keys.
func DecodeRoot(b []byte) (Root, error) {
	if !json.Valid(b) {
		var v any
		err := json.Unmarshal(b, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return Root{}, &FormatError{Stage: "json", Err: err}
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		return Root{}, &DataError{Msg: fmt.Sprintf("root is not an object: expected %q or %q", KeyBlueprint, KeyBlueprintBook)}
	}
	bp, hasBP := m[KeyBlueprint]
	book, hasBook := m[KeyBlueprintBook]
	switch {
	case hasBP && hasBook:
		return Root{}, &DataError{Msg: fmt.Sprintf("document has both %q and %q", KeyBlueprint, KeyBlueprintBook)}
	case hasBP:
		return Root{Key: KeyBlueprint, Value: bp}, nil
	case hasBook:
		return Root{Key: KeyBlueprintBook, Value: book}, nil
	}
	return Root{}, &DataError{Msg: fmt.Sprintf("given data is not a blueprint or blueprint book: expected %q or %q", KeyBlueprint, KeyBlueprintBook)}
}
