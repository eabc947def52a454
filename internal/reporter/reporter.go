package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/joshharrison/timeloom/internal/timeline"
	"github.com/joshharrison/timeloom/internal/ui"
)

// Reporter renders a timeline report for the terminal.
type Reporter struct {
	Report *timeline.Report
}

// New creates a new Reporter.
func New(r *timeline.Report) *Reporter {
	return &Reporter{Report: r}
}

// span formats a dt count, with seconds when the sample time is known.
func (r *Reporter) span(dt int) string {
	s := humanize.Comma(int64(dt)) + " dt"
	if r.Report.DT > 0 {
		s += " (" + humanize.SIWithDigits(r.Report.Seconds(dt), 2, "s") + ")"
	}
	return s
}

// PrintTimeline writes a terminal-friendly per-wire table.
func (r *Reporter) PrintTimeline(w io.Writer) {
	rep := r.Report
	fmt.Fprintf(w, "%s %s  %s %s  %s %s",
		ui.BoldCyan("⏱ Timeloom"),
		ui.BoldMagenta(rep.Circuit),
		ui.Bold("Method"), rep.Method,
		ui.Bold("Span"), r.span(rep.Duration))
	if rep.Padded {
		fmt.Fprintf(w, " %s", ui.Dim(fmt.Sprintf("[padded, %d delays]", rep.Delays)))
	}
	fmt.Fprint(w, "\n\n")

	for _, wire := range rep.Wires {
		fmt.Fprintf(w, "  %s busy %s  %s\n",
			ui.WirePrefix(wire.Wire, wire.Clbit),
			ui.Utilization(wire.Utilization(rep.Duration)),
			ui.Dim(fmt.Sprintf("[idle %s]", humanize.Comma(int64(wire.Idle)))))
		for _, slot := range wire.Slots {
			printSlot(w, slot)
		}
		fmt.Fprintln(w)
	}
}

func printSlot(w io.Writer, slot timeline.Slot) {
	icon := ui.SlotIcon(slot.Idle, slot.Conditional, slot.Critical)

	label := truncate(slot.Label, 40)
	if !slot.Idle {
		label = ui.Op(slot.Name) + strings.TrimPrefix(label, slot.Name)
	} else {
		label = ui.Dim(label)
	}

	interval := fmt.Sprintf("[%d, %d)", slot.Start, slot.Stop)
	fmt.Fprintf(w, "    %s %-18s %s\n", icon, interval, label)
}

// PrintGantt writes one ASCII bar per wire, width columns wide. Gates
// are drawn with the first letter of their name, delays with '.', and
// unoccupied time with ' '.
func (r *Reporter) PrintGantt(w io.Writer, width int) {
	rep := r.Report
	if width <= 0 {
		width = 60
	}
	fmt.Fprintf(w, "%s %s\n", ui.BoldMagenta(rep.Circuit), ui.Dim(r.span(rep.Duration)))
	for _, wire := range rep.Wires {
		bar := []rune(strings.Repeat(" ", width))
		for _, slot := range wire.Slots {
			from, to := column(slot.Start, rep.Duration, width), column(slot.Stop, rep.Duration, width)
			if to == from && from < width {
				to = from + 1
			}
			ch := '.'
			if !slot.Idle {
				ch = glyph(slot.Name)
			}
			for i := from; i < to && i < width; i++ {
				bar[i] = ch
			}
		}
		fmt.Fprintf(w, "%-4s|%s|\n", wire.Wire, string(bar))
	}
	fmt.Fprintf(w, "    0%s%s\n", strings.Repeat(" ", max(0, width-len(strconv.Itoa(rep.Duration)))), strconv.Itoa(rep.Duration))
}

func column(t, span, width int) int {
	if span == 0 {
		return 0
	}
	return t * width / span
}

func glyph(name string) rune {
	if name == "" {
		return '#'
	}
	switch name {
	case "barrier":
		return '|'
	case "measure":
		return 'M'
	}
	return []rune(name)[0]
}

// JSON returns the report in machine-readable form.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Report, "", "  ")
}

// Summary returns a short closing summary.
func (r *Reporter) Summary() string {
	rep := r.Report
	var b strings.Builder

	busiest, idlest := -1, -1
	for i, wire := range rep.Wires {
		if wire.Clbit {
			continue
		}
		if busiest < 0 || wire.Busy > rep.Wires[busiest].Busy {
			busiest = i
		}
		if idlest < 0 || wire.Idle > rep.Wires[idlest].Idle {
			idlest = i
		}
	}

	fmt.Fprintf(&b, "\n%s %s\n", ui.BoldGreen("✓"), ui.BoldCyan("Schedule complete"))
	fmt.Fprintf(&b, "%s\n", ui.Cyan("══════════════════════════"))
	fmt.Fprintf(&b, "Circuit:   %s\n", ui.Dim(rep.Circuit))
	fmt.Fprintf(&b, "Method:    %s\n", rep.Method)
	fmt.Fprintf(&b, "Span:      %s\n", ui.Bold(r.span(rep.Duration)))
	fmt.Fprintf(&b, "Ops:       %d total, %d delays\n", rep.Instructions, rep.Delays)
	if busiest >= 0 {
		fmt.Fprintf(&b, "Busiest:   %s %s\n", rep.Wires[busiest].Wire, ui.Utilization(rep.Wires[busiest].Utilization(rep.Duration)))
		fmt.Fprintf(&b, "Idlest:    %s %s\n", rep.Wires[idlest].Wire, ui.Utilization(rep.Wires[idlest].Utilization(rep.Duration)))
	}
	if len(rep.CriticalPath) > 0 {
		parts := make([]string, len(rep.CriticalPath))
		for i, n := range rep.CriticalPath {
			parts[i] = "#" + strconv.Itoa(n)
		}
		fmt.Fprintf(&b, "Critical:  %s\n", ui.BoldYellow("⚡ "+strings.Join(parts, " → ")))
	}
	return b.String()
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
