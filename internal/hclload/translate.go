package hclload

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/durations"
	"github.com/joshharrison/timeloom/internal/target"
)

type circuitBlock struct {
	Name         string              `hcl:"name,label"`
	Qubits       int                 `hcl:"qubits"`
	Clbits       int                 `hcl:"clbits,optional"`
	GlobalPhase  float64             `hcl:"global_phase,optional"`
	Ops          []*opBlock          `hcl:"op,block"`
	Calibrations []*calibrationBlock `hcl:"calibration,block"`
}

type opBlock struct {
	Name      string          `hcl:"name,label"`
	Qubits    []int           `hcl:"qubits,optional"`
	Clbits    []int           `hcl:"clbits,optional"`
	Duration  *int            `hcl:"duration,optional"`
	Params    hcl.Expression  `hcl:"params,optional"`
	Condition *conditionBlock `hcl:"condition,block"`
}

type conditionBlock struct {
	Clbits []int `hcl:"clbits"`
	Value  int   `hcl:"value"`
}

type calibrationBlock struct {
	Name     string `hcl:"name,label"`
	Qubits   []int  `hcl:"qubits"`
	Duration int    `hcl:"duration"`
}

type durationBlock struct {
	DT      float64       `hcl:"dt,optional"`
	Entries []*entryBlock `hcl:"entry,block"`
}

type entryBlock struct {
	Name   string  `hcl:"name,label"`
	Qubits []int   `hcl:"qubits,optional"`
	Value  float64 `hcl:"value"`
	Unit   string  `hcl:"unit,optional"`
}

type targetBlock struct {
	NumQubits    int                 `hcl:"num_qubits"`
	DT           float64             `hcl:"dt,optional"`
	Instructions []*instructionBlock `hcl:"instruction,block"`
}

type instructionBlock struct {
	Name string     `hcl:"name,label"`
	On   []*onBlock `hcl:"on,block"`
}

type onBlock struct {
	Qubits   []int    `hcl:"qubits"`
	Duration *float64 `hcl:"duration,optional"`
	Unit     string   `hcl:"unit,optional"`
}

func translateCircuit(ctx *hcl.EvalContext, cb *circuitBlock) (*circuit.Circuit, error) {
	if cb.Qubits < 0 || cb.Clbits < 0 {
		return nil, fmt.Errorf("circuit %q: negative register size", cb.Name)
	}
	c := circuit.New(cb.Name, cb.Qubits, cb.Clbits)
	c.GlobalPhase = cb.GlobalPhase

	for i, op := range cb.Ops {
		inst, err := translateOp(ctx, c, op)
		if err != nil {
			return nil, fmt.Errorf("circuit %q op %d (%s): %w", cb.Name, i, op.Name, err)
		}
		c.Append(inst)
	}
	for _, cal := range cb.Calibrations {
		if err := checkBits(cal.Qubits, c.NumQubits, "qubit"); err != nil {
			return nil, fmt.Errorf("circuit %q calibration %s: %w", cb.Name, cal.Name, err)
		}
		if cal.Duration < 0 {
			return nil, fmt.Errorf("circuit %q calibration %s: negative duration", cb.Name, cal.Name)
		}
		c.AddCalibration(cal.Name, cal.Qubits, cal.Duration)
	}
	return c, nil
}

func translateOp(ctx *hcl.EvalContext, c *circuit.Circuit, op *opBlock) (circuit.Instruction, error) {
	inst := circuit.Instruction{
		Name:   op.Name,
		Kind:   circuit.KindOf(op.Name),
		Qubits: op.Qubits,
		Clbits: op.Clbits,
	}
	if inst.Kind == circuit.KindBarrier && len(inst.Qubits) == 0 {
		for q := 0; q < c.NumQubits; q++ {
			inst.Qubits = append(inst.Qubits, q)
		}
	}
	if err := checkBits(inst.Qubits, c.NumQubits, "qubit"); err != nil {
		return inst, err
	}
	if err := checkBits(inst.Clbits, c.NumClbits, "clbit"); err != nil {
		return inst, err
	}

	switch inst.Kind {
	case circuit.KindDelay:
		if op.Duration == nil {
			return inst, fmt.Errorf("delay needs a duration")
		}
		if *op.Duration < 0 {
			return inst, fmt.Errorf("negative delay %d", *op.Duration)
		}
		if len(inst.Qubits) != 1 {
			return inst, fmt.Errorf("delay acts on exactly one qubit, got %d", len(inst.Qubits))
		}
		inst.Duration = *op.Duration
	case circuit.KindMeasure:
		if len(inst.Clbits) != len(inst.Qubits) || len(inst.Qubits) == 0 {
			return inst, fmt.Errorf("measure needs one clbit per qubit")
		}
	}
	if op.Duration != nil && inst.Kind != circuit.KindDelay {
		return inst, fmt.Errorf("duration is only allowed on delays, use a calibration block")
	}

	params, err := evalParams(ctx, op.Params)
	if err != nil {
		return inst, err
	}
	inst.Params = params

	if op.Condition != nil {
		if len(op.Condition.Clbits) == 0 {
			return inst, fmt.Errorf("condition needs at least one clbit")
		}
		if err := checkBits(op.Condition.Clbits, c.NumClbits, "clbit"); err != nil {
			return inst, fmt.Errorf("condition: %w", err)
		}
		if op.Condition.Value < 0 {
			return inst, fmt.Errorf("condition: negative value %d", op.Condition.Value)
		}
		inst.Condition = &circuit.Condition{
			Clbits: op.Condition.Clbits,
			Value:  uint64(op.Condition.Value),
		}
	}
	return inst, nil
}

// evalParams accepts a single number or a list of numbers.
func evalParams(ctx *hcl.EvalContext, expr hcl.Expression) ([]float64, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(ctx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("params: %w", diags)
	}
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("params: value is not known")
	}
	if v.Type() == cty.Number {
		v = cty.ListVal([]cty.Value{v})
	}
	list, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("params: want a number or a list of numbers: %w", err)
	}
	var out []float64
	if err := gocty.FromCtyValue(list, &out); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	return out, nil
}

func checkBits(bits []int, n int, what string) error {
	seen := make(map[int]bool, len(bits))
	for _, b := range bits {
		if b < 0 || b >= n {
			return fmt.Errorf("%s %d out of range [0, %d)", what, b, n)
		}
		if seen[b] {
			return fmt.Errorf("%s %d used twice", what, b)
		}
		seen[b] = true
	}
	return nil
}

func translateDurations(db *durationBlock) (*durations.Table, error) {
	entries := make([]durations.Entry, 0, len(db.Entries))
	for _, e := range db.Entries {
		entries = append(entries, durations.Entry{
			Name:   e.Name,
			Qubits: e.Qubits,
			Value:  e.Value,
			Unit:   e.Unit,
		})
	}
	t, err := durations.NewTable(db.DT, entries...)
	if err != nil {
		return nil, fmt.Errorf("durations: %w", err)
	}
	return t, nil
}

func translateTarget(tb *targetBlock) (*target.Target, error) {
	if tb.NumQubits < 0 {
		return nil, fmt.Errorf("target: negative num_qubits")
	}
	t := target.New(tb.NumQubits, tb.DT)
	for _, ib := range tb.Instructions {
		var props map[target.Qargs]*target.Properties
		if len(ib.On) > 0 {
			props = make(map[target.Qargs]*target.Properties, len(ib.On))
		}
		for _, on := range ib.On {
			qa := target.On(on.Qubits...)
			if _, dup := props[qa]; dup {
				return nil, fmt.Errorf("target: instruction %q listed twice on qubits %v", ib.Name, on.Qubits)
			}
			p := target.Untimed()
			if on.Duration != nil {
				d, err := durations.ToDT(*on.Duration, on.Unit, tb.DT)
				if err != nil {
					return nil, fmt.Errorf("target: instruction %q on %v: %w", ib.Name, on.Qubits, err)
				}
				p = target.Timed(d)
			}
			props[qa] = p
		}
		if err := t.AddInstruction(ib.Name, props); err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
	}
	return t, nil
}
