package circuit

import "fmt"

// Kind classifies an instruction for scheduling purposes.
type Kind int

const (
	KindGate      Kind = iota // timed operation
	KindDelay                 // explicit idle, carries its own duration
	KindMeasure               // timed, writes its clbits
	KindBarrier               // zero-duration join across its wires
	KindDirective             // zero-duration structural marker
)

func (k Kind) String() string {
	switch k {
	case KindGate:
		return "gate"
	case KindDelay:
		return "delay"
	case KindMeasure:
		return "measure"
	case KindBarrier:
		return "barrier"
	case KindDirective:
		return "directive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Structural reports whether instructions of this kind take no time of their own.
func (k Kind) Structural() bool {
	return k == KindBarrier || k == KindDirective
}

// KindOf maps a conventional instruction name to its kind.
func KindOf(name string) Kind {
	switch name {
	case "delay":
		return KindDelay
	case "measure":
		return KindMeasure
	case "barrier":
		return KindBarrier
	case "snapshot", "directive":
		return KindDirective
	default:
		return KindGate
	}
}

// Condition gates execution of an instruction on the value of classical bits.
type Condition struct {
	Clbits []int  `json:"clbits"`
	Value  uint64 `json:"value"`
}

// Instruction is one operation in program order.
type Instruction struct {
	Name      string     `json:"name"`
	Kind      Kind       `json:"kind"`
	Qubits    []int      `json:"qubits,omitempty"`
	Clbits    []int      `json:"clbits,omitempty"` // bits written
	Params    []float64  `json:"params,omitempty"`
	Duration  int        `json:"duration,omitempty"` // delays only, in dt
	Condition *Condition `json:"condition,omitempty"`
}

// Calibration overrides the duration of one instruction on specific qubits.
type Calibration struct {
	Name     string `json:"name"`
	Qubits   []int  `json:"qubits"`
	Duration int    `json:"duration"`
}

// Timing is the schedule attached to a circuit: one half-open
// [Start, Stop) interval per instruction and the overall span, all in dt.
type Timing struct {
	Start    []int `json:"start"`
	Stop     []int `json:"stop"`
	Duration int   `json:"duration"`
}

// Valid reports whether t covers exactly n instructions.
func (t *Timing) Valid(n int) bool {
	return t != nil && len(t.Start) == n && len(t.Stop) == n
}

// Circuit is a quantum program: instructions in program order over
// NumQubits quantum wires and NumClbits classical wires.
type Circuit struct {
	Name         string        `json:"name"`
	NumQubits    int           `json:"num_qubits"`
	NumClbits    int           `json:"num_clbits"`
	GlobalPhase  float64       `json:"global_phase,omitempty"`
	Calibrations []Calibration `json:"calibrations,omitempty"`
	Instructions []Instruction `json:"instructions"`
	Timing       *Timing       `json:"timing,omitempty"`

	reversed bool
}

// Wire identifies a quantum or classical wire.
type Wire struct {
	Clbit bool
	Index int
}

// Qubit returns the wire of quantum bit i.
func Qubit(i int) Wire { return Wire{Index: i} }

// Clbit returns the wire of classical bit i.
func Clbit(i int) Wire { return Wire{Clbit: true, Index: i} }

func (w Wire) String() string {
	if w.Clbit {
		return fmt.Sprintf("c%d", w.Index)
	}
	return fmt.Sprintf("q%d", w.Index)
}
