// Package durations resolves how long each instruction takes on hardware.
package durations

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joshharrison/timeloom/internal/circuit"
)

// Provider looks up the duration, in dt, of an operation on specific qubits.
type Provider interface {
	Lookup(name string, qubits []int) (int, bool)
}

// Entry is one row of a duration table. Nil Qubits matches any qubits.
type Entry struct {
	Name   string
	Qubits []int
	Value  float64
	Unit   string // dt, s, ms, us or ns; empty means dt
}

// Table is a duration provider backed by exact and wildcard entries.
// Exact (name, qubits) entries win over wildcard ones.
type Table struct {
	dt       float64
	exact    map[string]int
	wildcard map[string]int
}

// NewTable builds a table. dt is the sample time in seconds and may be
// zero when every entry is already in dt.
func NewTable(dt float64, entries ...Entry) (*Table, error) {
	t := &Table{
		dt:       dt,
		exact:    make(map[string]int),
		wildcard: make(map[string]int),
	}
	if err := t.Update(entries...); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTable is NewTable for static tables that cannot fail.
func MustTable(dt float64, entries ...Entry) *Table {
	t, err := NewTable(dt, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Update adds or replaces entries.
func (t *Table) Update(entries ...Entry) error {
	for _, e := range entries {
		d, err := ToDT(e.Value, e.Unit, t.dt)
		if err != nil {
			return fmt.Errorf("duration of %s%v: %w", e.Name, e.Qubits, err)
		}
		if e.Qubits == nil {
			t.wildcard[e.Name] = d
		} else {
			t.exact[key(e.Name, e.Qubits)] = d
		}
	}
	return nil
}

// DT returns the sample time in seconds, or zero if unknown.
func (t *Table) DT() float64 { return t.dt }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.exact) + len(t.wildcard) }

// Lookup implements Provider.
func (t *Table) Lookup(name string, qubits []int) (int, bool) {
	if d, ok := t.exact[key(name, qubits)]; ok {
		return d, true
	}
	d, ok := t.wildcard[name]
	return d, ok
}

func key(name string, qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = strconv.Itoa(q)
	}
	return name + "/" + strings.Join(parts, ",")
}

var unitScale = map[string]float64{
	"s":  1,
	"ms": 1e-3,
	"us": 1e-6,
	"µs": 1e-6,
	"ns": 1e-9,
}

// ToDT converts value in unit to whole samples of dt seconds, rounding to
// the nearest sample.
func ToDT(value float64, unit string, dt float64) (int, error) {
	if value < 0 {
		return 0, fmt.Errorf("negative duration %g", value)
	}
	if unit == "" || unit == "dt" {
		return int(math.Round(value)), nil
	}
	scale, ok := unitScale[unit]
	if !ok {
		return 0, fmt.Errorf("unknown time unit %q", unit)
	}
	if dt <= 0 {
		return 0, fmt.Errorf("cannot convert %g%s to dt: dt is not set", value, unit)
	}
	return int(math.Round(value * scale / dt)), nil
}

// overlay layers a circuit's calibrations over a provider.
type overlay struct {
	base Provider
	c    *circuit.Circuit
}

// Overlay returns a provider that answers from the calibrations of c
// first and falls back to base. Either may be nil.
func Overlay(base Provider, c *circuit.Circuit) Provider {
	return &overlay{base: base, c: c}
}

func (o *overlay) Lookup(name string, qubits []int) (int, bool) {
	if o.c != nil {
		if d, ok := o.c.Calibration(name, qubits); ok {
			return d, true
		}
	}
	if o.base == nil {
		return 0, false
	}
	return o.base.Lookup(name, qubits)
}

type chain []Provider

// Chain returns a provider that asks each of ps in turn. Nil providers
// are skipped.
func Chain(ps ...Provider) Provider {
	var c chain
	for _, p := range ps {
		if p != nil {
			c = append(c, p)
		}
	}
	return c
}

func (c chain) Lookup(name string, qubits []int) (int, bool) {
	for _, p := range c {
		if d, ok := p.Lookup(name, qubits); ok {
			return d, true
		}
	}
	return 0, false
}
