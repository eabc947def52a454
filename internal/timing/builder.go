// Package timing turns a program dependency graph into a weighted graph
// whose edges carry the minimum finish-to-start gap between instructions.
package timing

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/durations"
	"github.com/joshharrison/timeloom/internal/graph"
)

// Builder derives timing graphs. It is safe for concurrent use.
type Builder struct {
	durations durations.Provider
	latency   IOLatency
	logger    zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLatency sets the classical IO latencies.
func WithLatency(l IOLatency) Option {
	return func(b *Builder) { b.latency = l }
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder returns a builder resolving durations through p, which may
// be nil when every timed instruction is a delay or calibrated.
func NewBuilder(p durations.Provider, opts ...Option) *Builder {
	b := &Builder{
		durations: p,
		latency:   DefaultIOLatency(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Latency returns the configured IO latencies.
func (b *Builder) Latency() IOLatency { return b.latency }

// Build weights the program graph d for scheduling in direction dir.
func (b *Builder) Build(d *graph.DAG, dir Direction) (*Graph, error) {
	if err := b.latency.Validate(); err != nil {
		return nil, err
	}
	c := d.Circuit
	n := d.NodeCount()

	order, err := d.TopoSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCyclicDependency, err)
	}

	p := durations.Overlay(b.durations, c)
	durs := make([]int, n)
	for i := 0; i < n; i++ {
		if durs[i], err = duration(p, c, i); err != nil {
			return nil, err
		}
	}

	// Windows in program orientation drive the gaps; the graph keeps them
	// in scheduling orientation for floors and extents.
	program := make([]map[circuit.Wire]Window, n)
	oriented := make([]map[circuit.Wire]Window, n)
	for i := 0; i < n; i++ {
		program[i] = b.windows(&c.Instructions[i], durs[i], c.Reversed())
		oriented[i] = program[i]
		if dir == Backward {
			oriented[i] = mirrorAll(program[i], durs[i])
		}
	}

	gaps := make(map[[2]int]int)
	setGap := func(from, to, gap int) {
		key := [2]int{from, to}
		if cur, ok := gaps[key]; !ok || gap > cur {
			gaps[key] = gap
		}
	}

	for v := 0; v < n; v++ {
		for _, arc := range d.RevAdj[v] {
			u := arc.Node
			setGap(u, v, program[u][arc.Wire].Release-program[v][arc.Wire].Acquire-durs[u])
		}
	}
	b.barrierEdges(d, setGap)

	g := &Graph{
		Direction: dir,
		Durations: durs,
		Windows:   oriented,
		In:        make([][]Edge, n),
		Out:       make([][]Edge, n),
		Order:     order,
	}
	for key, gap := range gaps {
		e := Edge{From: key[0], To: key[1], Gap: gap}
		if dir == Backward {
			e.From, e.To = e.To, e.From
		}
		g.Out[e.From] = append(g.Out[e.From], e)
		g.In[e.To] = append(g.In[e.To], e)
	}
	for i := 0; i < n; i++ {
		sortEdges(g.In[i], func(e Edge) int { return e.From })
		sortEdges(g.Out[i], func(e Edge) int { return e.To })
	}
	if dir == Backward {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	b.logger.Debug().
		Str("circuit", c.Name).
		Str("direction", dir.String()).
		Int("nodes", n).
		Int("edges", len(gaps)).
		Ints("roots", d.Roots).
		Ints("leaves", d.Leaves).
		Msg("built timing graph")
	return g, nil
}

// duration resolves node i. Delays carry their own length; everything
// else goes through p, which answers calibrations first.
func duration(p durations.Provider, c *circuit.Circuit, i int) (int, error) {
	inst := &c.Instructions[i]
	if inst.Kind == circuit.KindDelay {
		return inst.Duration, nil
	}
	if d, ok := p.Lookup(inst.Name, inst.Qubits); ok {
		return d, nil
	}
	if inst.Kind.Structural() {
		return 0, nil
	}
	return 0, &UnresolvedDurationError{Node: i, Name: inst.Name, Qubits: inst.Qubits}
}

// windows computes how inst holds each of its wires. Condition bits are
// held from Conditional before the start until the start; written bits
// from ClbitWrite after the start until the end.
func (b *Builder) windows(inst *circuit.Instruction, d int, mirrored bool) map[circuit.Wire]Window {
	out := make(map[circuit.Wire]Window)
	for _, w := range inst.Wires() {
		if !w.Clbit || inst.Kind.Structural() {
			out[w] = Window{Acquire: 0, Release: d}
			continue
		}
		var win Window
		written, read := inst.Writes(w.Index), inst.Reads(w.Index)
		switch {
		case written && read:
			win = Window{Acquire: -b.latency.Conditional, Release: d}
		case written:
			win = Window{Acquire: min(b.latency.ClbitWrite, d), Release: d}
		default:
			win = Window{Acquire: -b.latency.Conditional, Release: 0}
		}
		out[w] = win
	}
	if mirrored {
		return mirrorAll(out, d)
	}
	return out
}

func mirrorAll(ws map[circuit.Wire]Window, d int) map[circuit.Wire]Window {
	out := make(map[circuit.Wire]Window, len(ws))
	for w, win := range ws {
		out[w] = win.mirror(d)
	}
	return out
}

// barrierEdges joins each barrier with every earlier and later user of
// its wires, up to the neighbouring barrier on that wire, with a
// non-negative gap.
func (b *Builder) barrierEdges(d *graph.DAG, setGap func(from, to, gap int)) {
	c := d.Circuit
	for bi := range c.Instructions {
		if c.Instructions[bi].Kind != circuit.KindBarrier {
			continue
		}
		for _, w := range c.Instructions[bi].Wires() {
			for u, ok := wireNeighbour(d.RevAdj, bi, w); ok; u, ok = wireNeighbour(d.RevAdj, u, w) {
				setGap(u, bi, 0)
				if c.Instructions[u].Kind == circuit.KindBarrier {
					break
				}
			}
			for v, ok := wireNeighbour(d.Adj, bi, w); ok; v, ok = wireNeighbour(d.Adj, v, w) {
				setGap(bi, v, 0)
				if c.Instructions[v].Kind == circuit.KindBarrier {
					break
				}
			}
		}
	}
}

func wireNeighbour(adj [][]graph.Arc, n int, w circuit.Wire) (int, bool) {
	for _, arc := range adj[n] {
		if arc.Wire == w {
			return arc.Node, true
		}
	}
	return 0, false
}

func sortEdges(edges []Edge, by func(Edge) int) {
	sort.Slice(edges, func(i, j int) bool { return by(edges[i]) < by(edges[j]) })
}
