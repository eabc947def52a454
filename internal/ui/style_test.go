package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestOp_StableColor(t *testing.T) {
	if opColorIndex("cx") != opColorIndex("cx") {
		t.Error("same name should map to the same color")
	}
	for _, name := range []string{"h", "cx", "measure", "delay", ""} {
		if i := opColorIndex(name); i < 0 || i >= len(opColors) {
			t.Errorf("index %d out of palette for %q", i, name)
		}
	}
}

func TestPlainOutput(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if got := WirePrefix("q0", false); got != "[q0]" {
		t.Errorf("expected [q0], got %q", got)
	}
	if got := CheckIcon(false); got != "✗" {
		t.Errorf("expected ✗, got %q", got)
	}
	if got := Utilization(0.5); got != " 50%" {
		t.Errorf("expected ' 50%%', got %q", got)
	}
	if got := SlotIcon(true, true, true); got != "◌" {
		t.Errorf("idle wins over other marks, got %q", got)
	}

	var buf bytes.Buffer
	PrintLogo(&buf)
	if !strings.Contains(buf.String(), "T I M E L O O M") {
		t.Error("logo should contain the brand line")
	}
}
