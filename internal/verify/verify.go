// Package verify re-checks the guarantees of a schedule on concrete
// circuits: wires are used in program order, barriers join their wires,
// padded qubits have no holes, and ASAP and ALAP mirror each other.
package verify

import (
	"fmt"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/padding"
	"github.com/joshharrison/timeloom/internal/schedule"
	"github.com/joshharrison/timeloom/internal/timing"
)

// Violation is one broken guarantee.
type Violation struct {
	Check  string `json:"check"`
	Wire   string `json:"wire,omitempty"`
	Index  int    `json:"index"` // instruction, or -1 when the whole wire is at fault
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	if v.Wire != "" {
		return fmt.Sprintf("%s: %s: %s", v.Check, v.Wire, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Check, v.Detail)
}

func timed(c *circuit.Circuit) error {
	if !c.Timing.Valid(len(c.Instructions)) {
		return fmt.Errorf("verify %s: %w", c.Name, padding.ErrMissingSchedule)
	}
	return nil
}

// ResourceOrder checks that consecutive users of every wire hold it in
// program order without overlap. g must be the forward timing graph of c.
func ResourceOrder(c *circuit.Circuit, g *timing.Graph) ([]Violation, error) {
	if err := timed(c); err != nil {
		return nil, err
	}
	if g.Len() != len(c.Instructions) {
		return nil, fmt.Errorf("verify %s: timing graph has %d nodes, circuit has %d instructions", c.Name, g.Len(), len(c.Instructions))
	}
	start, stop, span := c.Timing.Start, c.Timing.Stop, c.Timing.Duration

	var out []Violation
	add := func(w circuit.Wire, i int, format string, args ...any) {
		out = append(out, Violation{Check: "order", Wire: w.String(), Index: i, Detail: fmt.Sprintf(format, args...)})
	}
	for w, ops := range c.WireOps() {
		for k := 1; k < len(ops); k++ {
			a, b := ops[k-1], ops[k]
			wa, wb := g.Windows[a][w], g.Windows[b][w]
			switch {
			case start[a]+wa.Release > start[b]+wb.Acquire:
				add(w, b, "#%d holds until %d, #%d acquires at %d", a, start[a]+wa.Release, b, start[b]+wb.Acquire)
			case start[a]+wa.Acquire > start[b]+wb.Acquire:
				add(w, b, "#%d locks after #%d", a, b)
			case !w.Clbit && stop[a] > start[b]:
				add(w, b, "#%d [%d, %d) overlaps #%d at %d", a, start[a], stop[a], b, start[b])
			}
		}
	}
	for i := range start {
		if start[i] < 0 || stop[i] > span {
			out = append(out, Violation{Check: "order", Index: i, Detail: fmt.Sprintf("#%d [%d, %d) outside [0, %d)", i, start[i], stop[i], span)})
		}
	}
	sortViolations(out)
	return out, nil
}

// BarrierJoin checks that nothing crosses a barrier on the barrier's wires.
func BarrierJoin(c *circuit.Circuit) ([]Violation, error) {
	if err := timed(c); err != nil {
		return nil, err
	}
	start, stop := c.Timing.Start, c.Timing.Stop
	ops := c.WireOps()

	var out []Violation
	for bi := range c.Instructions {
		barrier := &c.Instructions[bi]
		if barrier.Kind != circuit.KindBarrier {
			continue
		}
		for _, w := range barrier.Wires() {
			for _, i := range ops[w] {
				if i < bi && stop[i] > start[bi] {
					out = append(out, Violation{Check: "barrier", Wire: w.String(), Index: i,
						Detail: fmt.Sprintf("#%d ends at %d after barrier #%d at %d", i, stop[i], bi, start[bi])})
				}
				if i > bi && start[i] < stop[bi] {
					out = append(out, Violation{Check: "barrier", Wire: w.String(), Index: i,
						Detail: fmt.Sprintf("#%d starts at %d before barrier #%d ends at %d", i, start[i], bi, stop[bi])})
				}
			}
		}
	}
	sortViolations(out)
	return out, nil
}

// GapFree checks that every qubit accepted by f is covered from time 0
// up to its last instruction, and to the end of the schedule when
// trailing is set.
func GapFree(c *circuit.Circuit, f padding.IdleFilter, trailing bool) ([]Violation, error) {
	if err := timed(c); err != nil {
		return nil, err
	}
	if f == nil {
		f = padding.AllQubits
	}
	ops := c.WireOps()

	var out []Violation
	for q := 0; q < c.NumQubits; q++ {
		if !f.SupportsIdle(q) {
			continue
		}
		w := circuit.Qubit(q)
		cursor := 0
		for _, i := range ops[w] {
			if c.Timing.Start[i] != cursor {
				out = append(out, Violation{Check: "gap", Wire: w.String(), Index: i,
					Detail: fmt.Sprintf("hole [%d, %d) before #%d", cursor, c.Timing.Start[i], i)})
			}
			cursor = c.Timing.Stop[i]
		}
		if trailing && cursor != c.Timing.Duration {
			out = append(out, Violation{Check: "gap", Wire: w.String(), Index: -1,
				Detail: fmt.Sprintf("ends at %d, span %d", cursor, c.Timing.Duration)})
		}
	}
	return out, nil
}

// Duality checks that scheduling c as late as possible is the mirror
// image of scheduling its reverse as soon as possible.
func Duality(a *schedule.Analyzer, c *circuit.Circuit) ([]Violation, error) {
	alap, err := a.Schedule(c, timing.Backward)
	if err != nil {
		return nil, err
	}
	rev, err := a.Schedule(c.Reverse(), timing.Forward)
	if err != nil {
		return nil, err
	}

	var out []Violation
	if alap.Span != rev.Span {
		out = append(out, Violation{Check: "duality", Index: -1,
			Detail: fmt.Sprintf("alap span %d, reversed asap span %d", alap.Span, rev.Span)})
		return out, nil
	}
	n := len(alap.Start)
	for i := 0; i < n; i++ {
		mirrored := rev.Span - rev.Stop[n-1-i]
		if alap.Start[i] != mirrored {
			out = append(out, Violation{Check: "duality", Index: i,
				Detail: fmt.Sprintf("#%d alap start %d, mirrored asap start %d", i, alap.Start[i], mirrored)})
		}
	}
	return out, nil
}
