package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored timeloom logo to w.
func PrintLogo(w io.Writer) {
	frame := color.New(color.FgCyan)
	pulses := color.New(color.FgYellow)
	wires := color.New(color.FgCyan, color.Faint)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +--------------------------+")
	wires.Fprintln(w, "   | q0 --[#]----[##]-------- |")
	pulses.Fprintln(w, "   | q1 ----[###]......[#]--- |")
	brand.Fprintln(w, "   |  T I M E L O O M         |")
	wires.Fprintln(w, "   | c0 ========[=]========== |")
	frame.Fprintln(w, "   +--------------------------+")
	tag.Fprintf(w, "   %s Circuit scheduling and padding\n", Dim("⏱"))
	fmt.Fprintln(w)
}

// opColors is a palette of distinct bold colors for differentiating operations.
var opColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// opColorIndex hashes an operation name to a palette index.
func opColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(opColors)))
}

// Op colors an operation name. The same name always gets the same color.
func Op(name string) string {
	return opColors[opColorIndex(name)](name)
}

// WirePrefix returns a colored [wire] prefix string. Classical wires are
// dimmed.
func WirePrefix(wire string, clbit bool) string {
	if clbit {
		return Dim("[" + wire + "]")
	}
	return Dim("[") + BoldWhite(wire) + Dim("]")
}

// CheckIcon returns a colored pass or fail mark.
func CheckIcon(ok bool) string {
	if ok {
		return Green("✓")
	}
	return Red("✗")
}

// SlotIcon returns a colored glyph for a timeline slot.
func SlotIcon(idle, conditional, critical bool) string {
	switch {
	case idle:
		return Dim("◌")
	case critical:
		return BoldYellow("⚡")
	case conditional:
		return Cyan("?")
	default:
		return Green("●")
	}
}

// Utilization colors a busy fraction: green when mostly busy, red when
// mostly idle.
func Utilization(f float64) string {
	s := fmt.Sprintf("%3.0f%%", f*100)
	switch {
	case f >= 0.75:
		return Green(s)
	case f >= 0.25:
		return Yellow(s)
	default:
		return Red(s)
	}
}
