package pipeline

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"factoriobp.io/internal/blueprint"
)

// Info summarizes an exchange string.
type Info struct {
	Marker     string
	Kind       string
	Label      string
	Version    blueprint.Version
	Blueprints int
	Entities   int
	Tiles      int
	Schedules  int

	TextSize       int
	CompressedSize int
	JSONSize       int
}

func (p *Pipeline) Info(text string) (Info, error) {
	res, err := p.Open(text, true)
	if err != nil {
		return Info{}, err
	}
	return Summarize(res), nil
}

func Summarize(res *Result) Info {
	info := Info{
		Marker:         res.Envelope.Marker,
		TextSize:       res.Envelope.TextSize,
		CompressedSize: res.Envelope.Compressed,
		JSONSize:       len(res.Envelope.JSON),
	}
	if res.Doc == nil {
		return info
	}
	info.Kind = res.Doc.Kind()
	info.Label = res.Doc.Label()
	info.Version = res.Doc.Version()
	bps := res.Doc.Blueprints()
	info.Blueprints = len(bps)
	for _, bp := range bps {
		info.Entities += len(bp.Entities)
		info.Tiles += len(bp.Tiles)
		info.Schedules += len(bp.Schedules)
	}
	return info
}

func (i Info) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"marker", i.Marker},
		{"kind", i.Kind},
		{"label", i.Label},
		{"version", i.Version.String()},
		{"blueprints", humanize.Comma(int64(i.Blueprints))},
		{"entities", humanize.Comma(int64(i.Entities))},
		{"tiles", humanize.Comma(int64(i.Tiles))},
		{"schedules", humanize.Comma(int64(i.Schedules))},
		{"string", humanize.Bytes(uint64(i.TextSize))},
		{"compressed", humanize.Bytes(uint64(i.CompressedSize))},
		{"json", humanize.Bytes(uint64(i.JSONSize))},
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
