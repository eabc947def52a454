// Package schedule assigns start times to the instructions of a circuit.
package schedule

import (
	"fmt"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/timing"
)

// Run schedules a timing graph. Every node starts as early as its floor
// and incoming edges allow, walking the graph's order; for a backward
// graph those times count from the end and are flipped at the end.
func Run(g *timing.Graph) *Schedule {
	n := g.Len()
	t := make([]int, n)

	span := 0
	for _, v := range g.Order {
		start := g.Floor(v)
		for _, e := range g.In[v] {
			if s := t[e.From] + g.Durations[e.From] + e.Gap; s > start {
				start = s
			}
		}
		t[v] = start
		if end := start + g.Extent(v); end > span {
			span = end
		}
	}

	s := &Schedule{
		Direction: g.Direction,
		Start:     make([]int, n),
		Stop:      make([]int, n),
		Span:      span,
	}
	for v := 0; v < n; v++ {
		if g.Direction == timing.Backward {
			s.Start[v] = span - t[v] - g.Durations[v]
		} else {
			s.Start[v] = t[v]
		}
		s.Stop[v] = s.Start[v] + g.Durations[v]
	}
	return s
}

// Apply returns a copy of c carrying s as its timing.
func Apply(c *circuit.Circuit, s *Schedule) (*circuit.Circuit, error) {
	if len(s.Start) != len(c.Instructions) {
		return nil, fmt.Errorf("schedule covers %d nodes, circuit has %d instructions", len(s.Start), len(c.Instructions))
	}
	out := c.Copy()
	out.Timing = &circuit.Timing{
		Start:    append([]int(nil), s.Start...),
		Stop:     append([]int(nil), s.Stop...),
		Duration: s.Span,
	}
	return out, nil
}
