package encoding

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"

	"factoriobp.io/internal/protocol"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(b)
}

func TestDecode_Fixture(t *testing.T) {
	in := readFixture(t, "belt.txt")
	want := readFixture(t, "belt.json")

	got, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("decoded JSON mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestDecode_IgnoresLineBreaks(t *testing.T) {
	in := readFixture(t, "belt.txt")
	want := readFixture(t, "belt.json")

	var wrapped strings.Builder
	for i, r := range in {
		if i > 0 && i%40 == 0 {
			if i%80 == 0 {
				wrapped.WriteString("\r\n")
			} else {
				wrapped.WriteString("\n")
			}
		}
		wrapped.WriteRune(r)
	}
	wrapped.WriteString("\n")

	got, err := Decode(wrapped.String())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != want {
		t.Fatalf("decoded JSON mismatch after wrapping")
	}
}

func TestOpen_ReportsMarkerAndSizes(t *testing.T) {
	env, err := Open(readFixture(t, "belt.txt"), DecodeOptions{ExpectMarker: protocol.DefaultMarker})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if env.Marker != "0" {
		t.Fatalf("marker=%q want 0", env.Marker)
	}
	if env.Compressed <= 0 || env.Compressed >= len(env.JSON) {
		t.Fatalf("unexpected compressed size %d for %d bytes of JSON", env.Compressed, len(env.JSON))
	}
}

func TestOpen_TextSizeIgnoresLineBreaks(t *testing.T) {
	in := strings.TrimRight(readFixture(t, "belt.txt"), "\r\n")
	wrapped := in[:30] + "\r\n" + in[30:60] + "\n" + in[60:] + "\n"

	for _, text := range []string{in, wrapped} {
		env, err := Open(text, DecodeOptions{})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if env.TextSize != len(in) {
			t.Fatalf("TextSize=%d want %d", env.TextSize, len(in))
		}
	}
}

func TestDecode_FormatErrors(t *testing.T) {
	notZlib := "0" + base64.StdEncoding.EncodeToString([]byte("definitely not a zlib stream"))

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write([]byte{0xff, 0xfe, 0x00, 0x80})
	_ = zw.Close()
	notUTF8 := "0" + base64.StdEncoding.EncodeToString(buf.Bytes())

	valid := readFixture(t, "belt.txt")
	truncated := valid[:len(valid)-12]
	for len(truncated)%4 != 1 {
		truncated = truncated[:len(truncated)-1]
	}

	cases := []struct {
		name  string
		in    string
		stage string
	}{
		{"empty", "", "marker"},
		{"only line breaks", "\r\n\n", "marker"},
		{"bad alphabet", "0eN*q!!", "base64"},
		{"bad padding", "0eNqN=", "base64"},
		{"not zlib", notZlib, "zlib"},
		{"truncated zlib", truncated, "zlib"},
		{"not utf8", notUTF8, "utf8"},
	}
	for _, tc := range cases {
		_, err := Decode(tc.in)
		var fe *protocol.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("%s: expected FormatError, got %v", tc.name, err)
		}
		if fe.Stage != tc.stage {
			t.Fatalf("%s: stage=%q want %q (%v)", tc.name, fe.Stage, tc.stage, err)
		}
	}
}

func TestDecode_MarkerCheck(t *testing.T) {
	in := "1" + readFixture(t, "belt.txt")[1:]

	if _, err := Decode(in); err != nil {
		t.Fatalf("unchecked decode should accept any marker: %v", err)
	}
	_, err := DecodeWith(in, DecodeOptions{ExpectMarker: "0"})
	var fe *protocol.FormatError
	if !errors.As(err, &fe) || fe.Stage != "marker" {
		t.Fatalf("expected marker FormatError, got %v", err)
	}
}

func TestDecode_SizeLimit(t *testing.T) {
	_, err := DecodeWith(readFixture(t, "belt.txt"), DecodeOptions{MaxJSONBytes: 16})
	var fe *protocol.FormatError
	if !errors.As(err, &fe) || fe.Stage != "zlib" {
		t.Fatalf("expected zlib FormatError for oversized payload, got %v", err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	docs := []string{
		readFixture(t, "belt.json"),
		`{"blueprint_book":{"item":"blueprint-book","blueprints":[],"active_index":0,"version":0}}`,
		`{"blueprint":{"item":"blueprint","label":"ünïcödé ✓","version":1}}`,
		``,
	}
	for _, j := range docs {
		s, err := Encode(j)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !strings.HasPrefix(s, protocol.DefaultMarker) {
			t.Fatalf("missing marker: %q", s[:1])
		}
		got, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(Encode): %v", err)
		}
		if got != j {
			t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, j)
		}
	}
}

func TestEncode_ReencodeIsEquivalent(t *testing.T) {
	in := readFixture(t, "belt.txt")
	j, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := Encode(j)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	again, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if again != j {
		t.Fatalf("re-encoded string decodes to different JSON")
	}
}

func TestEncode_Options(t *testing.T) {
	j := readFixture(t, "belt.json")

	s, err := EncodeWith(j, EncodeOptions{Marker: "1", LineWidth: 32, Level: zlib.BestSpeed})
	if err != nil {
		t.Fatalf("EncodeWith: %v", err)
	}
	if s[0] != '1' {
		t.Fatalf("marker=%q want 1", s[:1])
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got one line")
	}
	for i, l := range lines {
		if len(l) > 32 || (i < len(lines)-1 && len(l) != 32) {
			t.Fatalf("line %d has width %d", i, len(l))
		}
	}
	got, err := DecodeWith(s, DecodeOptions{ExpectMarker: "1"})
	if err != nil {
		t.Fatalf("DecodeWith: %v", err)
	}
	if got != j {
		t.Fatalf("wrapped round trip mismatch")
	}

	for _, bad := range []string{"01", "\n"} {
		if _, err := EncodeWith(j, EncodeOptions{Marker: bad}); err == nil {
			t.Fatalf("expected error for marker %q", bad)
		}
	}
	if _, err := EncodeWith(j, EncodeOptions{Level: 42}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}
