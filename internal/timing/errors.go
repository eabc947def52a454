package timing

import (
	"errors"
	"fmt"
)

// Sentinel errors for timing graph construction.
var (
	// ErrUnresolvedDuration is returned when an instruction that takes
	// time has no duration in the provider or the circuit's calibrations.
	ErrUnresolvedDuration = errors.New("unresolved duration")

	// ErrCyclicDependency is returned when the program graph has a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrInvalidLatency is returned for negative IO latencies.
	ErrInvalidLatency = errors.New("invalid IO latency")
)

// UnresolvedDurationError names the instruction whose duration is missing.
type UnresolvedDurationError struct {
	Node   int
	Name   string
	Qubits []int
}

func (e *UnresolvedDurationError) Error() string {
	return fmt.Sprintf("%s: %s on qubits %v (instruction %d)", ErrUnresolvedDuration, e.Name, e.Qubits, e.Node)
}

func (e *UnresolvedDurationError) Unwrap() error { return ErrUnresolvedDuration }
