// Package padding makes every qubit's timeline explicit by filling the
// idle time between scheduled instructions with delays.
package padding

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/joshharrison/timeloom/internal/circuit"
)

// ErrMissingSchedule is returned when the circuit carries no timing, or
// timing that no longer matches its instructions.
var ErrMissingSchedule = errors.New("circuit has not been scheduled")

// IdleFilter reports whether a qubit can hold an explicit idle.
type IdleFilter interface {
	SupportsIdle(qubit int) bool
}

// IdleFilterFunc adapts a function to IdleFilter.
type IdleFilterFunc func(qubit int) bool

// SupportsIdle implements IdleFilter.
func (f IdleFilterFunc) SupportsIdle(qubit int) bool { return f(qubit) }

// AllQubits accepts idles everywhere.
var AllQubits IdleFilter = IdleFilterFunc(func(int) bool { return true })

// Padder inserts delays into scheduled circuits.
type Padder struct {
	fillTrailing bool
	merge        bool
	filter       IdleFilter
	logger       zerolog.Logger
}

// Option configures a Padder.
type Option func(*Padder)

// WithTrailingGap controls whether idle time between a qubit's last
// instruction and the end of the schedule is filled. Defaults to true.
func WithTrailingGap(fill bool) Option {
	return func(p *Padder) { p.fillTrailing = fill }
}

// WithMerge controls whether gaps are folded into neighbouring delays
// instead of adding new ones. Defaults to true.
func WithMerge(merge bool) Option {
	return func(p *Padder) { p.merge = merge }
}

// WithIdleFilter restricts which qubits receive delays.
func WithIdleFilter(f IdleFilter) Option {
	return func(p *Padder) {
		if f == nil {
			f = AllQubits
		}
		p.filter = f
	}
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Padder) { p.logger = l }
}

// New returns a Padder.
func New(opts ...Option) *Padder {
	p := &Padder{
		fillTrailing: true,
		merge:        true,
		filter:       AllQubits,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run carries the output under construction.
type run struct {
	out     *circuit.Circuit
	start   []int
	stop    []int
	cursor  []int
	tail    []int // output index of a delay ending at cursor, or -1
	added   int
	absorbs int
}

func (r *run) emit(inst circuit.Instruction, start, stop int) int {
	r.out.Instructions = append(r.out.Instructions, inst)
	r.start = append(r.start, start)
	r.stop = append(r.stop, stop)
	return len(r.out.Instructions) - 1
}

func (r *run) extend(idx, by int) {
	r.out.Instructions[idx].Duration += by
	r.stop[idx] += by
	r.absorbs++
}

// Run returns a padded copy of c, which must carry timing.
func (p *Padder) Run(c *circuit.Circuit) (*circuit.Circuit, error) {
	if !c.Timing.Valid(len(c.Instructions)) {
		return nil, fmt.Errorf("pad %s: %w", c.Name, ErrMissingSchedule)
	}
	span := c.Timing.Duration

	r := &run{
		out:    c.CopyEmpty(),
		cursor: make([]int, c.NumQubits),
		tail:   make([]int, c.NumQubits),
	}
	for q := range r.tail {
		r.tail[q] = -1
	}

	for i, inst := range c.Instructions {
		start, stop := c.Timing.Start[i], c.Timing.Stop[i]
		mergeable := p.merge && isPlainDelay(inst)
		absorbed := false

		for _, q := range inst.Qubits {
			gap := start - r.cursor[q]
			if gap < 0 {
				return nil, fmt.Errorf("pad %s: instruction %d (%s) starts at %d before qubit %d is free at %d",
					c.Name, i, inst.Name, start, q, r.cursor[q])
			}
			if gap == 0 || !p.filter.SupportsIdle(q) {
				continue
			}
			switch {
			case p.merge && r.tail[q] >= 0:
				r.extend(r.tail[q], gap)
				if mergeable {
					r.extend(r.tail[q], inst.Duration)
					absorbed = true
				}
			case mergeable:
				inst = inst.Clone()
				inst.Duration += gap
				start = r.cursor[q]
				r.absorbs++
			default:
				r.emit(idle(q, gap), r.cursor[q], start)
				r.added++
			}
		}

		if !absorbed {
			idx := r.emit(inst.Clone(), start, stop)
			for _, q := range inst.Qubits {
				r.tail[q] = -1
				if mergeable {
					r.tail[q] = idx
				}
			}
		}
		for _, q := range inst.Qubits {
			r.cursor[q] = stop
		}
	}

	if p.fillTrailing {
		for q := 0; q < c.NumQubits; q++ {
			gap := span - r.cursor[q]
			if gap <= 0 || !p.filter.SupportsIdle(q) {
				continue
			}
			if p.merge && r.tail[q] >= 0 {
				r.extend(r.tail[q], gap)
			} else {
				r.emit(idle(q, gap), r.cursor[q], span)
				r.added++
			}
			r.cursor[q] = span
		}
	}

	r.out.Timing = &circuit.Timing{Start: r.start, Stop: r.stop, Duration: span}
	p.logger.Debug().
		Str("circuit", c.Name).
		Int("span", span).
		Int("delays_added", r.added).
		Int("gaps_merged", r.absorbs).
		Msg("padded")
	return r.out, nil
}

// isPlainDelay reports whether inst is a delay that a gap on its qubit
// can be folded into.
func isPlainDelay(inst circuit.Instruction) bool {
	return inst.Kind == circuit.KindDelay && len(inst.Qubits) == 1 && !inst.Conditional()
}

func idle(q, duration int) circuit.Instruction {
	return circuit.Instruction{Name: "delay", Kind: circuit.KindDelay, Qubits: []int{q}, Duration: duration}
}
