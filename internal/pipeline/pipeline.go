package pipeline

import (
	"bytes"
	"io"
	"os"

	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"factoriobp.io/internal/blueprint"
	"factoriobp.io/internal/encoding"
	"factoriobp.io/internal/persistence/output"
	"factoriobp.io/internal/protocol"
	"factoriobp.io/internal/render"
)

// Stdio is the path that selects stdin for inputs and stdout for outputs.
const Stdio = "-"

// Pipeline runs the decode and encode flows. Every stage fails fast and no
// output is written unless all stages succeed.
type Pipeline struct {
	Log    *zap.Logger
	Decode encoding.DecodeOptions
	Encode encoding.EncodeOptions
	Checks blueprint.ValidateOptions

	Stdin  io.Reader
	Stdout io.Writer
}

func New(log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		Log:    log,
		Checks: blueprint.DefaultValidateOptions(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}

// Result is an opened exchange string. Doc is nil when parsing was not
// requested.
type Result struct {
	Envelope encoding.Envelope
	Doc      *blueprint.Document
}

// Open decodes an exchange string and, when parse is set, maps the payload
// onto the typed model.
func (p *Pipeline) Open(text string, parse bool) (*Result, error) {
	env, err := encoding.Open(text, p.Decode)
	if err != nil {
		p.Log.Debug("envelope rejected", zap.Error(err))
		return nil, err
	}
	res := &Result{Envelope: env}
	p.Log.Debug("envelope decoded",
		zap.String("marker", env.Marker),
		zap.Int("compressed_bytes", env.Compressed),
		zap.Int("json_bytes", len(env.JSON)))
	if !parse {
		return res, nil
	}
	doc, err := blueprint.Parse([]byte(env.JSON))
	if err != nil {
		p.Log.Debug("document rejected", zap.Error(err))
		return nil, err
	}
	res.Doc = doc
	p.Log.Debug("document parsed", zap.String("kind", doc.Kind()), zap.String("label", doc.Label()))
	return res, nil
}

// Check runs the configured semantic checks.
func (p *Pipeline) Check(doc *blueprint.Document) error {
	err := blueprint.Validate(doc, p.Checks)
	if err != nil {
		p.Log.Debug("document failed checks", zap.Error(err))
	}
	return err
}

// DecodeFile reads the exchange string at in, renders it as format and
// writes the result to out.
func (p *Pipeline) DecodeFile(in, out string, format render.Format, check bool) error {
	text, err := p.ReadInput(in)
	if err != nil {
		return err
	}
	res, err := p.Open(string(text), format.NeedsDocument() || check)
	if err != nil {
		return err
	}
	if check {
		if err := p.Check(res.Doc); err != nil {
			return err
		}
	}
	b, err := render.Render(format, []byte(res.Envelope.JSON), res.Doc)
	if err != nil {
		return err
	}
	p.Log.Debug("rendered", zap.String("format", string(format)), zap.Int("bytes", len(b)))
	return p.WriteOutput(out, b)
}

// EncodeFile reads a JSON (or JSONC) document from in, checks that it is a
// conforming blueprint or book and writes its exchange string to out.
func (p *Pipeline) EncodeFile(in, out string, check bool) error {
	src, err := p.ReadInput(in)
	if err != nil {
		return err
	}
	text, err := p.EncodeJSON(src, check)
	if err != nil {
		return err
	}
	return p.WriteOutput(out, []byte(text+"\n"))
}

// EncodeJSON parses src, which may carry comments and trailing commas, and
// encodes its canonical rendering.
func (p *Pipeline) EncodeJSON(src []byte, check bool) (string, error) {
	doc, err := blueprint.Parse(jsonc.ToJSON(src))
	if err != nil {
		return "", err
	}
	if check {
		if err := p.Check(doc); err != nil {
			return "", err
		}
	}
	return p.EncodeDocument(doc)
}

func (p *Pipeline) EncodeDocument(doc *blueprint.Document) (string, error) {
	js, err := blueprint.Render(doc)
	if err != nil {
		return "", err
	}
	text, err := encoding.EncodeWith(string(js), p.Encode)
	if err != nil {
		return "", err
	}
	p.Log.Debug("encoded", zap.String("kind", doc.Kind()), zap.Int("json_bytes", len(js)), zap.Int("text_bytes", len(text)))
	return text, nil
}

// ReadInput reads path, or stdin for Stdio.
func (p *Pipeline) ReadInput(path string) ([]byte, error) {
	if path == Stdio {
		b, err := io.ReadAll(p.Stdin)
		if err != nil {
			return nil, &protocol.IOError{Op: "read", Path: "stdin", Err: err}
		}
		return b, nil
	}
	return output.ReadFile(path)
}

// WriteOutput writes b atomically to path, or to stdout for Stdio.
func (p *Pipeline) WriteOutput(path string, b []byte) error {
	if path == Stdio {
		if _, err := io.Copy(p.Stdout, bytes.NewReader(b)); err != nil {
			return &protocol.IOError{Op: "write", Path: "stdout", Err: err}
		}
		return nil
	}
	if err := output.WriteFileAtomic(path, b); err != nil {
		return err
	}
	p.Log.Debug("wrote output", zap.String("path", path), zap.Int("bytes", len(b)))
	return nil
}
