// Package cliutil holds small helpers shared by the cmd/ subcommands:
// color gating for human-facing terminal output and diff rendering.
package cliutil

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether w should receive ANSI color codes. Color is
// suppressed when w is not backed by a TTY (piped output, CI logs) and when
// the NO_COLOR environment variable is set, per https://no-color.org.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Palette bundles the color functions a renderer needs, pre-gated for a
// single writer so callers never have to check ColorEnabled themselves.
type Palette struct {
	Bold   *color.Color
	Green  *color.Color
	Yellow *color.Color
	Red    *color.Color
	Dim    *color.Color
}

// NewPalette builds a Palette for w. When color is disabled every entry is a
// no-op *color.Color (DisableColor'd), so callers can always call .Fprintf
// on them without branching on whether output is a TTY.
func NewPalette(w io.Writer) *Palette {
	enabled := ColorEnabled(w)
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if !enabled {
			c.DisableColor()
		}
		return c
	}
	return &Palette{
		Bold:   mk(color.Bold),
		Green:  mk(color.FgGreen),
		Yellow: mk(color.FgYellow),
		Red:    mk(color.FgRed),
		Dim:    mk(color.FgHiBlack),
	}
}

// DiffColor returns the color a unified-diff line should render in: green
// for additions, red for removals, no color for context or hunk headers.
func (p *Palette) DiffColor(line string) *color.Color {
	switch {
	case len(line) > 0 && line[0] == '+':
		return p.Green
	case len(line) > 0 && line[0] == '-':
		return p.Red
	default:
		return nil
	}
}
