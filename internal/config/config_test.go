package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"factoriobp.io/internal/encoding"
	"factoriobp.io/internal/protocol"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bpx.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Envelope.Marker != protocol.DefaultMarker || !cfg.Envelope.CheckMarker {
		t.Fatalf("envelope=%+v", cfg.Envelope)
	}
	if !cfg.Checks.ActiveIndex || !cfg.Checks.UniqueEntities || !cfg.Checks.References {
		t.Fatalf("checks=%+v", cfg.Checks)
	}
	if cfg.Library.Path != DefaultLibraryPath || cfg.Log.Level != "info" {
		t.Fatalf("library=%+v log=%+v", cfg.Library, cfg.Log)
	}
	if got := cfg.DecodeOptions(); got.ExpectMarker != "0" || got.MaxJSONBytes != encoding.DefaultMaxJSONBytes {
		t.Fatalf("decode options=%+v", got)
	}
}

func TestLoad_FileKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, `
envelope:
  line_width: 120
  check_marker: false
validate:
  references: false
log:
  level: " DEBUG "
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Envelope.LineWidth != 120 || cfg.Envelope.CheckMarker {
		t.Fatalf("envelope=%+v", cfg.Envelope)
	}
	if cfg.Envelope.Marker != "0" {
		t.Fatalf("marker default lost: %q", cfg.Envelope.Marker)
	}
	if cfg.Checks.References || !cfg.Checks.ActiveIndex {
		t.Fatalf("checks=%+v", cfg.Checks)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level=%q", cfg.Log.Level)
	}
	if cfg.DecodeOptions().ExpectMarker != "" {
		t.Fatal("marker check disabled but ExpectMarker set")
	}
	if opts := cfg.ValidateOptions(); opts.References || !opts.UniqueEntities {
		t.Fatalf("validate options=%+v", opts)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "envelope:\n  level: 3\n")
	t.Setenv("BPX_ENVELOPE_LEVEL", "6")
	t.Setenv("BPX_ENVELOPE_MARKER", "1")
	t.Setenv("BPX_LIBRARY_PATH", "/tmp/lib.db")
	t.Setenv("BPX_VALIDATE_ACTIVE_INDEX", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Envelope.Level != 6 || cfg.Envelope.Marker != "1" {
		t.Fatalf("envelope=%+v", cfg.Envelope)
	}
	if cfg.Library.Path != "/tmp/lib.db" || cfg.Checks.ActiveIndex {
		t.Fatalf("library=%+v checks=%+v", cfg.Library, cfg.Checks)
	}
	if eo := cfg.EncodeOptions(); eo.Marker != "1" || eo.Level != 6 {
		t.Fatalf("encode options=%+v", eo)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"marker":    "envelope:\n  marker: ab\n",
		"level":     "envelope:\n  level: 12\n",
		"log_level": "log:\n  level: chatty\n",
		"yaml":      "envelope: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("error should name the file: %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if protocol.Code(err) != protocol.ErrIO {
		t.Fatalf("err=%v", err)
	}
}
