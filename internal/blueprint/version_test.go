package blueprint

import (
	"encoding/json"
	"testing"
)

func TestVersion_JSON(t *testing.T) {
	var v Version
	if err := json.Unmarshal([]byte("281479275675648"), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v != (Version{Major: 256, Minor: 256, Patch: 15616}) {
		t.Fatalf("v=%+v", v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != "281479275675648" {
		t.Fatalf("marshal=%s", b)
	}
}

func TestVersion_RejectsNonInteger(t *testing.T) {
	for _, in := range []string{`-1`, `1.5`, `"1"`, `18446744073709551616`} {
		var v Version
		if err := json.Unmarshal([]byte(in), &v); err == nil {
			t.Fatalf("%s: expected error", in)
		}
	}
}

func TestVersion_Uint64RoundTrip(t *testing.T) {
	for _, v := range []Version{{}, {1, 1, 61, 0}, {0xffff, 0xffff, 0xffff, 0xffff}, {2, 0, 7, 1}} {
		if got := VersionFromUint64(v.Uint64()); got != v {
			t.Fatalf("round trip %v -> %v", v, got)
		}
	}
	if got := (Version{1, 1, 61, 0}).String(); got != "1.1.61.0" {
		t.Fatalf("String=%s", got)
	}
}
