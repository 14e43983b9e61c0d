package cliutil

import (
	"bytes"
	"os"
	"testing"
)

func TestColorEnabledFalseForNonTTY(t *testing.T) {
	var buf bytes.Buffer
	if ColorEnabled(&buf) {
		t.Error("ColorEnabled(bytes.Buffer) = true, want false")
	}
}

func TestColorEnabledFalseWhenNoColorSet(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ColorEnabled(os.Stdout) {
		t.Error("ColorEnabled() = true with NO_COLOR set, want false")
	}
}

func TestNewPaletteDisablesColorForBuffer(t *testing.T) {
	var buf bytes.Buffer
	p := NewPalette(&buf)
	p.Green.Fprint(&buf, "ok")
	if buf.String() != "ok" {
		t.Errorf("Palette output = %q, want plain %q (no ANSI codes)", buf.String(), "ok")
	}
}

func TestDiffColorPicksAdditionAndRemoval(t *testing.T) {
	var buf bytes.Buffer
	p := NewPalette(&buf)
	if c := p.DiffColor("+added"); c != p.Green {
		t.Error("DiffColor(+line) did not return Green")
	}
	if c := p.DiffColor("-removed"); c != p.Red {
		t.Error("DiffColor(-line) did not return Red")
	}
	if c := p.DiffColor(" context"); c != nil {
		t.Error("DiffColor(context line) should be nil")
	}
}
