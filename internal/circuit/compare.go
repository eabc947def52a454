package circuit

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// WireOps returns, for every wire touched by at least one instruction,
// the indices of the instructions on it in program order.
func (c *Circuit) WireOps() map[Wire][]int {
	ops := make(map[Wire][]int)
	for i := range c.Instructions {
		for _, w := range c.Instructions[i].Wires() {
			ops[w] = append(ops[w], i)
		}
	}
	return ops
}

// Equal reports whether a and b are the same program: identical metadata
// and, on every wire, the same instructions in the same order. Two
// instruction lists that differ only in the interleaving of independent
// instructions are equal.
func Equal(a, b *Circuit) bool {
	if a.NumQubits != b.NumQubits || a.NumClbits != b.NumClbits || a.GlobalPhase != b.GlobalPhase {
		return false
	}
	if a.reversed != b.reversed || len(a.Instructions) != len(b.Instructions) {
		return false
	}
	if !slices.EqualFunc(a.Calibrations, b.Calibrations, func(x, y Calibration) bool {
		return x.Name == y.Name && x.Duration == y.Duration && slices.Equal(x.Qubits, y.Qubits)
	}) {
		return false
	}
	return a.describeWires() == b.describeWires()
}

// Describe renders the circuit one wire per line, for diffs and logs.
func (c *Circuit) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d qubits, %d clbits", c.Name, c.NumQubits, c.NumClbits)
	if c.reversed {
		sb.WriteString(" (reversed)")
	}
	sb.WriteString("\n")
	sb.WriteString(c.describeWires())
	return sb.String()
}

func (c *Circuit) describeWires() string {
	ops := c.WireOps()
	wires := make([]Wire, 0, len(ops))
	for w := range ops {
		wires = append(wires, w)
	}
	sort.Slice(wires, func(i, j int) bool {
		if wires[i].Clbit != wires[j].Clbit {
			return !wires[i].Clbit
		}
		return wires[i].Index < wires[j].Index
	})

	var sb strings.Builder
	for _, w := range wires {
		names := make([]string, len(ops[w]))
		for k, idx := range ops[w] {
			names[k] = c.Instructions[idx].String()
		}
		fmt.Fprintf(&sb, "  %s: %s\n", w, strings.Join(names, ", "))
	}
	return sb.String()
}
