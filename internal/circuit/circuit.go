package circuit

import (
	"fmt"
	"slices"
)

// New creates an empty circuit.
func New(name string, numQubits, numClbits int) *Circuit {
	return &Circuit{Name: name, NumQubits: numQubits, NumClbits: numClbits}
}

// Append adds inst and returns a pointer to the stored copy so a
// condition can be attached. The pointer is invalidated by the next append.
func (c *Circuit) Append(inst Instruction) *Instruction {
	c.Instructions = append(c.Instructions, inst)
	c.Timing = nil
	return &c.Instructions[len(c.Instructions)-1]
}

// Gate appends a timed operation named name on qubits.
func (c *Circuit) Gate(name string, qubits ...int) *Instruction {
	return c.Append(Instruction{Name: name, Kind: KindGate, Qubits: qubits})
}

func (c *Circuit) H(q int) *Instruction         { return c.Gate("h", q) }
func (c *Circuit) X(q int) *Instruction         { return c.Gate("x", q) }
func (c *Circuit) CX(ctl, tgt int) *Instruction { return c.Gate("cx", ctl, tgt) }

// Delay appends an explicit idle of duration dt on qubit q.
func (c *Circuit) Delay(duration, q int) *Instruction {
	return c.Append(Instruction{Name: "delay", Kind: KindDelay, Qubits: []int{q}, Duration: duration})
}

// Measure appends a measurement of qubit q into clbit cl.
func (c *Circuit) Measure(q, cl int) *Instruction {
	return c.Append(Instruction{Name: "measure", Kind: KindMeasure, Qubits: []int{q}, Clbits: []int{cl}})
}

// Barrier appends a barrier across qubits, or across every qubit when none are given.
func (c *Circuit) Barrier(qubits ...int) *Instruction {
	if len(qubits) == 0 {
		qubits = make([]int, c.NumQubits)
		for i := range qubits {
			qubits[i] = i
		}
	}
	return c.Append(Instruction{Name: "barrier", Kind: KindBarrier, Qubits: qubits})
}

// MeasureAll adds one fresh clbit per qubit, a barrier over all qubits,
// and a measurement of each qubit into its new clbit.
func (c *Circuit) MeasureAll() {
	base := c.NumClbits
	c.NumClbits += c.NumQubits
	c.Barrier()
	for q := 0; q < c.NumQubits; q++ {
		c.Measure(q, base+q)
	}
}

// AddCalibration registers a duration override for name on qubits.
func (c *Circuit) AddCalibration(name string, qubits []int, duration int) {
	c.Calibrations = append(c.Calibrations, Calibration{Name: name, Qubits: slices.Clone(qubits), Duration: duration})
}

// Calibration returns the override for name on qubits, if any.
func (c *Circuit) Calibration(name string, qubits []int) (int, bool) {
	for _, cal := range c.Calibrations {
		if cal.Name == name && slices.Equal(cal.Qubits, qubits) {
			return cal.Duration, true
		}
	}
	return 0, false
}

// CIf conditions the instruction on clbit holding value.
func (inst *Instruction) CIf(clbit int, value uint64) *Instruction {
	inst.Condition = &Condition{Clbits: []int{clbit}, Value: value}
	return inst
}

// Conditional reports whether the instruction carries a condition.
func (inst *Instruction) Conditional() bool {
	return inst.Condition != nil && len(inst.Condition.Clbits) > 0
}

// Wires returns every wire the instruction touches: its qubits, written
// clbits and condition clbits, without duplicates.
func (inst *Instruction) Wires() []Wire {
	wires := make([]Wire, 0, len(inst.Qubits)+len(inst.Clbits))
	for _, q := range inst.Qubits {
		wires = appendWire(wires, Qubit(q))
	}
	for _, cl := range inst.Clbits {
		wires = appendWire(wires, Clbit(cl))
	}
	if inst.Condition != nil {
		for _, cl := range inst.Condition.Clbits {
			wires = appendWire(wires, Clbit(cl))
		}
	}
	return wires
}

func appendWire(wires []Wire, w Wire) []Wire {
	if slices.Contains(wires, w) {
		return wires
	}
	return append(wires, w)
}

// Writes reports whether the instruction writes clbit cl.
func (inst *Instruction) Writes(cl int) bool {
	return slices.Contains(inst.Clbits, cl)
}

// Reads reports whether the instruction's condition reads clbit cl.
func (inst *Instruction) Reads(cl int) bool {
	return inst.Condition != nil && slices.Contains(inst.Condition.Clbits, cl)
}

// Clone returns a deep copy of the instruction.
func (inst Instruction) Clone() Instruction {
	out := inst
	out.Qubits = slices.Clone(inst.Qubits)
	out.Clbits = slices.Clone(inst.Clbits)
	out.Params = slices.Clone(inst.Params)
	if inst.Condition != nil {
		cond := *inst.Condition
		cond.Clbits = slices.Clone(inst.Condition.Clbits)
		out.Condition = &cond
	}
	return out
}

// Equal reports whether two instructions describe the same operation.
func (inst Instruction) Equal(o Instruction) bool {
	if inst.Name != o.Name || inst.Kind != o.Kind || inst.Duration != o.Duration {
		return false
	}
	if !slices.Equal(inst.Qubits, o.Qubits) || !slices.Equal(inst.Clbits, o.Clbits) || !slices.Equal(inst.Params, o.Params) {
		return false
	}
	if inst.Conditional() != o.Conditional() {
		return false
	}
	if inst.Conditional() {
		return inst.Condition.Value == o.Condition.Value && slices.Equal(inst.Condition.Clbits, o.Condition.Clbits)
	}
	return true
}

func (inst Instruction) String() string {
	s := inst.Name
	if inst.Kind == KindDelay {
		s = fmt.Sprintf("delay(%d)", inst.Duration)
	}
	s += fmt.Sprintf(" q%v", inst.Qubits)
	if len(inst.Clbits) > 0 {
		s += fmt.Sprintf(" -> c%v", inst.Clbits)
	}
	if inst.Conditional() {
		s += fmt.Sprintf(" if c%v==%d", inst.Condition.Clbits, inst.Condition.Value)
	}
	return s
}

// Copy returns a deep copy of the circuit, timing included.
func (c *Circuit) Copy() *Circuit {
	out := c.CopyEmpty()
	out.Instructions = make([]Instruction, len(c.Instructions))
	for i, inst := range c.Instructions {
		out.Instructions[i] = inst.Clone()
	}
	if c.Timing != nil {
		out.Timing = &Timing{
			Start:    slices.Clone(c.Timing.Start),
			Stop:     slices.Clone(c.Timing.Stop),
			Duration: c.Timing.Duration,
		}
	}
	return out
}

// CopyEmpty returns a circuit with the same metadata and no instructions.
func (c *Circuit) CopyEmpty() *Circuit {
	out := &Circuit{
		Name:         c.Name,
		NumQubits:    c.NumQubits,
		NumClbits:    c.NumClbits,
		GlobalPhase:  c.GlobalPhase,
		Calibrations: make([]Calibration, len(c.Calibrations)),
		reversed:     c.reversed,
	}
	for i, cal := range c.Calibrations {
		out.Calibrations[i] = Calibration{Name: cal.Name, Qubits: slices.Clone(cal.Qubits), Duration: cal.Duration}
	}
	return out
}

// Reversed reports whether the circuit runs backward in time relative to
// the program it was derived from.
func (c *Circuit) Reversed() bool { return c.reversed }

// Reverse returns the circuit with instructions in the opposite order.
// The result is marked as time-reversed so classical lock windows are
// mirrored when it is scheduled; reversing twice restores the original.
// Timing, if present, is mirrored around the span.
func (c *Circuit) Reverse() *Circuit {
	out := c.CopyEmpty()
	out.reversed = !c.reversed
	n := len(c.Instructions)
	out.Instructions = make([]Instruction, n)
	for i, inst := range c.Instructions {
		out.Instructions[n-1-i] = inst.Clone()
	}
	if c.Timing.Valid(n) {
		t := &Timing{Start: make([]int, n), Stop: make([]int, n), Duration: c.Timing.Duration}
		for i := range c.Instructions {
			t.Start[n-1-i] = c.Timing.Duration - c.Timing.Stop[i]
			t.Stop[n-1-i] = c.Timing.Duration - c.Timing.Start[i]
		}
		out.Timing = t
	}
	return out
}
