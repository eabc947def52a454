package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/timing"
)

// WriteDOT writes the timing graph of c as a Graphviz digraph. Nodes are
// labelled with their instruction and, when c carries timing, their
// interval. Edges carry the extra gap when it is not zero.
func WriteDOT(w io.Writer, c *circuit.Circuit, g *timing.Graph) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", c.Name)
	b.WriteString("  rankdir=LR;\n  node [shape=box, fontname=\"monospace\"];\n")

	timed := c.Timing.Valid(len(c.Instructions))
	for i := range c.Instructions {
		inst := &c.Instructions[i]
		label := fmt.Sprintf("#%d %s", i, inst.String())
		if timed {
			label += fmt.Sprintf("\\n[%d, %d)", c.Timing.Start[i], c.Timing.Stop[i])
		} else if i < g.Len() {
			label += fmt.Sprintf("\\nd=%d", g.Durations[i])
		}
		attrs := ""
		switch {
		case inst.Kind.Structural():
			attrs = ", style=dashed"
		case inst.Kind == circuit.KindDelay:
			attrs = ", style=dotted"
		case inst.Conditional():
			attrs = ", color=blue"
		}
		fmt.Fprintf(&b, "  n%d [label=\"%s\"%s];\n", i, escape(label), attrs)
	}

	for _, out := range g.Out {
		for _, e := range out {
			if e.Gap != 0 {
				fmt.Fprintf(&b, "  n%d -> n%d [label=\"%+d\"];\n", e.From, e.To, e.Gap)
			} else {
				fmt.Fprintf(&b, "  n%d -> n%d;\n", e.From, e.To)
			}
		}
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
