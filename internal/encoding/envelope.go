package encoding

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"

	"factoriobp.io/internal/protocol"
)

// DefaultMaxJSONBytes caps the inflated payload. Exchange strings are small
// documents; anything larger is treated as a malformed envelope.
const DefaultMaxJSONBytes = 64 << 20

type DecodeOptions struct {
	// ExpectMarker, when set, must equal the leading version marker.
	ExpectMarker string
	// MaxJSONBytes limits the inflated payload (0 = DefaultMaxJSONBytes).
	MaxJSONBytes int64
}

type EncodeOptions struct {
	// Marker is prepended to the encoded payload (empty = protocol.DefaultMarker).
	Marker string
	// Level is the zlib level (0 = zlib.BestCompression, as the game writes).
	Level int
	// LineWidth wraps the output every LineWidth characters (0 = single line).
	LineWidth int
}

// Envelope is an opened exchange string.
type Envelope struct {
	Marker string
	JSON   string
	// Compressed is the size of the zlib stream after base64 decoding.
	Compressed int
	// TextSize is the length of the exchange string without line breaks.
	TextSize int
}

// Decode turns an exchange string into its JSON text.
func Decode(text string) (string, error) {
	return DecodeWith(text, DecodeOptions{})
}

func DecodeWith(text string, opts DecodeOptions) (string, error) {
	env, err := Open(text, opts)
	if err != nil {
		return "", err
	}
	return env.JSON, nil
}

// Open strips line breaks, splits off the version marker, then base64
// decodes and inflates the rest.
func Open(text string, opts DecodeOptions) (Envelope, error) {
	var env Envelope

	text = stripLineBreaks(text)
	env.TextSize = len(text)
	if text == "" {
		return env, &protocol.FormatError{Stage: "marker", Err: errors.New("empty exchange string")}
	}
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError && size <= 1 {
		return env, &protocol.FormatError{Stage: "marker", Err: errors.New("version marker is not valid UTF-8")}
	}
	env.Marker = text[:size]
	if opts.ExpectMarker != "" && env.Marker != opts.ExpectMarker {
		return env, &protocol.FormatError{Stage: "marker", Err: fmt.Errorf("unexpected version marker %q (want %q)", env.Marker, opts.ExpectMarker)}
	}

	raw, err := base64.StdEncoding.DecodeString(text[size:])
	if err != nil {
		return env, &protocol.FormatError{Stage: "base64", Err: err}
	}
	env.Compressed = len(raw)

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return env, &protocol.FormatError{Stage: "zlib", Err: err}
	}
	defer zr.Close()

	limit := opts.MaxJSONBytes
	if limit <= 0 {
		limit = DefaultMaxJSONBytes
	}
	out, err := io.ReadAll(io.LimitReader(zr, limit+1))
	if err != nil {
		return env, &protocol.FormatError{Stage: "zlib", Err: err}
	}
	if int64(len(out)) > limit {
		return env, &protocol.FormatError{Stage: "zlib", Err: fmt.Errorf("payload exceeds %d bytes", limit)}
	}
	if !utf8.Valid(out) {
		return env, &protocol.FormatError{Stage: "utf8", Err: errors.New("payload is not valid UTF-8")}
	}
	env.JSON = string(out)
	return env, nil
}

// Encode turns JSON text into an exchange string using the default marker
// and compression level.
func Encode(json string) (string, error) {
	return EncodeWith(json, EncodeOptions{})
}

func EncodeWith(json string, opts EncodeOptions) (string, error) {
	marker := opts.Marker
	if marker == "" {
		marker = protocol.DefaultMarker
	}
	if utf8.RuneCountInString(marker) != 1 || strings.ContainsAny(marker, "\r\n") {
		return "", fmt.Errorf("version marker must be a single character, got %q", marker)
	}
	level := opts.Level
	if level == 0 {
		level = zlib.BestCompression
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return "", fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := io.WriteString(zw, json); err != nil {
		_ = zw.Close()
		return "", fmt.Errorf("zlib write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("zlib close: %w", err)
	}

	out := marker + base64.StdEncoding.EncodeToString(buf.Bytes())
	if opts.LineWidth > 0 {
		out = wrapLines(out, opts.LineWidth)
	}
	return out, nil
}

func stripLineBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, s)
}

// wrapLines cuts s into lines of at most width runes.
func wrapLines(s string, width int) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/width + 1)
	n := 0
	for _, r := range s {
		if n == width {
			b.WriteByte('\n')
			n = 0
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
