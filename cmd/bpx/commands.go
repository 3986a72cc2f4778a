package main

import (
	"errors"
	"fmt"

	"factoriobp.io/internal/protocol"
	"factoriobp.io/internal/render"
)

type DecodeCmd struct {
	Input    string `short:"i" required:"" help:"Exchange string file (- for stdin)." placeholder:"IN"`
	Output   string `short:"o" default:"-" help:"Output file (- for stdout)." placeholder:"OUT"`
	Outform  string `default:"json" enum:"json,json-pretty,debug,yaml" help:"Output format: ${enum}."`
	Validate bool   `help:"Also run the reference checks before writing output."`
}

func (c *DecodeCmd) Run(app *App) error {
	format, err := render.ParseFormat(c.Outform)
	if err != nil {
		return err
	}
	return app.Pipeline.DecodeFile(c.Input, c.Output, format, c.Validate)
}

type EncodeCmd struct {
	Input    string `short:"i" required:"" help:"JSON or JSONC document (- for stdin)." placeholder:"IN"`
	Output   string `short:"o" default:"-" help:"Output file (- for stdout)." placeholder:"OUT"`
	Width    int    `default:"-1" help:"Wrap the string every N characters (0 = one line, -1 = from config)." placeholder:"N"`
	Level    int    `default:"-3" help:"zlib compression level -2..9 (0 = best, -3 = from config)." placeholder:"N"`
	Marker   string `help:"Version marker to prepend." placeholder:"C"`
	Validate bool   `help:"Run the reference checks before encoding."`
}

func (c *EncodeCmd) Run(app *App) error {
	p := app.Pipeline
	if c.Width >= 0 {
		p.Encode.LineWidth = c.Width
	}
	if c.Level >= -2 {
		p.Encode.Level = c.Level
	}
	if c.Marker != "" {
		p.Encode.Marker = c.Marker
	}
	return p.EncodeFile(c.Input, c.Output, c.Validate)
}

type ValidateCmd struct {
	Input string `short:"i" required:"" help:"Exchange string file (- for stdin)." placeholder:"IN"`
}

func (c *ValidateCmd) Run(app *App) error {
	text, err := app.Pipeline.ReadInput(c.Input)
	if err != nil {
		return err
	}
	res, err := app.Pipeline.Open(string(text), true)
	if err != nil {
		return err
	}
	err = app.Pipeline.Check(res.Doc)
	var ve *protocol.ValidationError
	if errors.As(err, &ve) {
		for _, p := range ve.Problems {
			fmt.Fprintln(app.Stdout, p.String())
		}
		return fmt.Errorf("%d problem(s) found: %w", len(ve.Problems), err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Stdout, "ok: %s %q\n", res.Doc.Kind(), res.Doc.Label())
	return nil
}

type InfoCmd struct {
	Input string `short:"i" required:"" help:"Exchange string file (- for stdin)." placeholder:"IN"`
}

func (c *InfoCmd) Run(app *App) error {
	text, err := app.Pipeline.ReadInput(c.Input)
	if err != nil {
		return err
	}
	info, err := app.Pipeline.Info(string(text))
	if err != nil {
		return err
	}
	return info.Write(app.Stdout)
}
