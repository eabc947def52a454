package timing

import "github.com/joshharrison/timeloom/internal/circuit"

// Direction selects which way the scheduler walks the graph.
type Direction int

const (
	Forward  Direction = iota // as soon as possible
	Backward                  // as late as possible
)

func (d Direction) String() string {
	if d == Backward {
		return "alap"
	}
	return "asap"
}

// Window is the part of a node's interval, relative to its start, during
// which it holds a wire. Quantum wires are held for [0, duration].
type Window struct {
	Acquire int
	Release int
}

func (w Window) mirror(d int) Window {
	return Window{Acquire: d - w.Release, Release: d - w.Acquire}
}

// Edge requires To to start at least Gap after From finishes. Gap may be
// negative for classical hazards.
type Edge struct {
	From int
	To   int
	Gap  int
}

// Graph is a weighted dependency graph ready for scheduling. In a
// backward graph edges, order and windows are already reversed, so the
// scheduler walks every graph the same way.
type Graph struct {
	Direction Direction
	Durations []int
	Windows   []map[circuit.Wire]Window
	In        [][]Edge
	Out       [][]Edge
	Order     []int
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Durations) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, out := range g.Out {
		n += len(out)
	}
	return n
}

// Floor is the earliest start of node n: no window may open before time 0.
func (g *Graph) Floor(n int) int {
	floor := 0
	for _, w := range g.Windows[n] {
		if -w.Acquire > floor {
			floor = -w.Acquire
		}
	}
	return floor
}

// Extent is how far past its start node n holds any wire.
func (g *Graph) Extent(n int) int {
	ext := g.Durations[n]
	for _, w := range g.Windows[n] {
		if w.Release > ext {
			ext = w.Release
		}
	}
	return ext
}
