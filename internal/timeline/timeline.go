// Package timeline turns a scheduled circuit into a per-wire report.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/padding"
)

// Generate builds a Report from a circuit that carries timing.
func Generate(c *circuit.Circuit, opts Options) (*Report, error) {
	if !c.Timing.Valid(len(c.Instructions)) {
		return nil, fmt.Errorf("timeline %s: %w", c.Name, padding.ErrMissingSchedule)
	}
	if opts.Method == "" {
		opts.Method = "asap"
	}

	r := &Report{
		ID:           fmt.Sprintf("timeloom-%s", time.Now().Format("2006-01-02-150405")),
		CreatedAt:    time.Now(),
		Circuit:      c.Name,
		Method:       opts.Method,
		Padded:       opts.Padded,
		Duration:     c.Timing.Duration,
		DT:           opts.DT,
		Instructions: len(c.Instructions),
	}

	slots := make(map[circuit.Wire][]Slot)
	for i := range c.Instructions {
		inst := &c.Instructions[i]
		if inst.Kind == circuit.KindDelay {
			r.Delays++
		}
		s := Slot{
			Index:       i,
			Name:        inst.Name,
			Label:       inst.String(),
			Start:       c.Timing.Start[i],
			Stop:        c.Timing.Stop[i],
			Idle:        inst.Kind == circuit.KindDelay,
			Conditional: inst.Conditional(),
		}
		if opts.Critical != nil {
			s.Critical = opts.Critical(i)
		}
		for _, w := range inst.Wires() {
			slots[w] = append(slots[w], s)
		}
	}

	for q := 0; q < c.NumQubits; q++ {
		r.Wires = append(r.Wires, wireTimeline(circuit.Qubit(q), slots[circuit.Qubit(q)], r.Duration))
	}
	for cl := 0; cl < c.NumClbits; cl++ {
		w := circuit.Clbit(cl)
		if len(slots[w]) == 0 {
			continue
		}
		r.Wires = append(r.Wires, wireTimeline(w, slots[w], r.Duration))
	}

	if opts.Critical != nil {
		for i := range c.Instructions {
			if opts.Critical(i) && c.Instructions[i].Kind != circuit.KindDelay {
				r.CriticalPath = append(r.CriticalPath, i)
			}
		}
	}
	return r, nil
}

func wireTimeline(w circuit.Wire, slots []Slot, span int) WireTimeline {
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	wt := WireTimeline{Wire: w.String(), Clbit: w.Clbit, Slots: slots}
	if wt.Slots == nil {
		wt.Slots = []Slot{}
	}
	wt.Busy = busy(slots)
	wt.Idle = span - wt.Busy
	return wt
}

// busy is the length of the union of non-delay slots. Slots on a clbit
// may overlap, so intervals are merged rather than summed.
func busy(slots []Slot) int {
	total, end := 0, -1
	for _, s := range slots {
		if s.Idle || s.Stop <= s.Start {
			continue
		}
		start := s.Start
		if start < end {
			start = end
		}
		if s.Stop > start {
			total += s.Stop - start
		}
		if s.Stop > end {
			end = s.Stop
		}
	}
	return total
}
