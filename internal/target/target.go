// Package target describes what a device can run: which instructions are
// available on which qubits, and how long they take.
package target

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Properties of one instruction on one set of qubits.
type Properties struct {
	// Duration in dt. Negative means the duration is not reported.
	Duration int
}

// Timed returns properties with a known duration.
func Timed(d int) *Properties { return &Properties{Duration: d} }

// Untimed returns properties without a reported duration.
func Untimed() *Properties { return &Properties{Duration: -1} }

// Target is a device description. It serves both as a duration provider
// and as an idle filter: a qubit supports idling when "delay" is
// available on it.
type Target struct {
	NumQubits int
	DT        float64 // seconds per sample, informational

	// instruction name -> qargs key -> properties. A nil inner map means
	// the instruction is available on every qubit.
	instructions map[string]map[string]*Properties
}

// New creates an empty target.
func New(numQubits int, dt float64) *Target {
	return &Target{
		NumQubits:    numQubits,
		DT:           dt,
		instructions: make(map[string]map[string]*Properties),
	}
}

// Qargs is a comparable form of an ordered qubit list.
type Qargs string

// On returns the Qargs for qubits.
func On(qubits ...int) Qargs {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = strconv.Itoa(q)
	}
	return Qargs(strings.Join(parts, ","))
}

// Qubits parses the qargs back into qubit indices.
func (q Qargs) Qubits() []int {
	if q == "" {
		return nil
	}
	parts := strings.Split(string(q), ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i], _ = strconv.Atoi(p)
	}
	return out
}

// AddInstruction makes name available on the given qargs. A nil props
// map makes it available everywhere with no reported duration.
func (t *Target) AddInstruction(name string, props map[Qargs]*Properties) error {
	if _, ok := t.instructions[name]; ok {
		return fmt.Errorf("instruction %q already in target", name)
	}
	for qa := range props {
		for _, q := range qa.Qubits() {
			if q < 0 || q >= t.NumQubits {
				return fmt.Errorf("instruction %q: qubit %d out of range [0, %d)", name, q, t.NumQubits)
			}
		}
	}
	var inner map[string]*Properties
	if props != nil {
		inner = make(map[string]*Properties, len(props))
		for qa, p := range props {
			inner[string(qa)] = p
		}
	}
	t.instructions[name] = inner
	return nil
}

// Instructions returns the instruction names in the target, sorted.
func (t *Target) Instructions() []string {
	names := make([]string, 0, len(t.instructions))
	for name := range t.instructions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supports reports whether name is available on qubits.
func (t *Target) Supports(name string, qubits []int) bool {
	inner, ok := t.instructions[name]
	if !ok {
		return false
	}
	if inner == nil {
		return true
	}
	_, ok = inner[string(On(qubits...))]
	return ok
}

// Lookup implements durations.Provider.
func (t *Target) Lookup(name string, qubits []int) (int, bool) {
	inner := t.instructions[name]
	if inner == nil {
		return 0, false
	}
	p := inner[string(On(qubits...))]
	if p == nil || p.Duration < 0 {
		return 0, false
	}
	return p.Duration, true
}

// SupportsIdle implements padding.IdleFilter.
func (t *Target) SupportsIdle(qubit int) bool {
	return t.Supports("delay", []int{qubit})
}
