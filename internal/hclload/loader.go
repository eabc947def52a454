// Package hclload reads circuits, duration tables and device targets
// from HCL files.
//
// A single file may hold any mix of blocks:
//
//	circuit "bell" {
//	  qubits = 2
//	  clbits = 2
//
//	  op "h" { qubits = [0] }
//	  op "cx" { qubits = [0, 1] }
//	  op "rz" {
//	    qubits = [1]
//	    params = pi / 2
//	  }
//	  op "delay" {
//	    qubits   = [0]
//	    duration = 100
//	  }
//	  op "measure" {
//	    qubits = [0]
//	    clbits = [0]
//	  }
//	  op "x" {
//	    qubits = [1]
//	    condition {
//	      clbits = [0]
//	      value  = 1
//	    }
//	  }
//	  calibration "cx" {
//	    qubits   = [0, 1]
//	    duration = 640
//	  }
//	}
//
//	durations {
//	  dt = 2.2222e-10
//	  entry "h" { value = 160 }
//	  entry "cx" {
//	    qubits = [0, 1]
//	    value  = 800
//	  }
//	  entry "measure" {
//	    value = 1
//	    unit  = "us"
//	  }
//	}
//
//	target {
//	  num_qubits = 2
//	  instruction "delay" {}
//	  instruction "cx" {
//	    on {
//	      qubits   = [0, 1]
//	      duration = 800
//	    }
//	  }
//	}
package hclload

import (
	"fmt"
	"math"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/durations"
	"github.com/joshharrison/timeloom/internal/target"
)

// File is everything decoded from one HCL file.
type File struct {
	Circuits  []*circuit.Circuit
	Durations *durations.Table
	Target    *target.Target
}

type fileRoot struct {
	Circuits  []*circuitBlock  `hcl:"circuit,block"`
	Durations []*durationBlock `hcl:"durations,block"`
	Targets   []*targetBlock   `hcl:"target,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

// evalContext exposes pi and a few numeric functions to expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"pi": cty.NumberFloatVal(math.Pi),
		},
		Functions: map[string]function.Function{
			"abs":   stdlib.AbsoluteFunc,
			"ceil":  stdlib.CeilFunc,
			"floor": stdlib.FloorFunc,
			"max":   stdlib.MaxFunc,
			"min":   stdlib.MinFunc,
			"pow":   stdlib.PowFunc,
		},
	}
}

// Load parses and decodes path.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	ctx := evalContext()
	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, ctx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if len(root.Durations) > 1 {
		return nil, fmt.Errorf("%s: at most one durations block is allowed", filename)
	}
	if len(root.Targets) > 1 {
		return nil, fmt.Errorf("%s: at most one target block is allowed", filename)
	}

	out := &File{}
	seen := make(map[string]bool)
	for _, cb := range root.Circuits {
		if seen[cb.Name] {
			return nil, fmt.Errorf("%s: duplicate circuit %q", filename, cb.Name)
		}
		seen[cb.Name] = true
		c, err := translateCircuit(ctx, cb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		out.Circuits = append(out.Circuits, c)
	}
	if len(root.Durations) == 1 {
		t, err := translateDurations(root.Durations[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		out.Durations = t
	}
	if len(root.Targets) == 1 {
		t, err := translateTarget(root.Targets[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		out.Target = t
	}
	return out, nil
}

// LoadCircuit returns the circuit called name from path. An empty name
// selects the file's only circuit.
func LoadCircuit(path, name string) (*circuit.Circuit, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return f.Circuit(name)
}

// Circuit returns the circuit called name. An empty name selects the
// only circuit in the file.
func (f *File) Circuit(name string) (*circuit.Circuit, error) {
	if name == "" {
		switch len(f.Circuits) {
		case 0:
			return nil, fmt.Errorf("no circuit block found")
		case 1:
			return f.Circuits[0], nil
		default:
			return nil, fmt.Errorf("%d circuits found, pick one by name", len(f.Circuits))
		}
	}
	for _, c := range f.Circuits {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("circuit %q not found", name)
}

// LoadDurations returns the durations block of path.
func LoadDurations(path string) (*durations.Table, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	if f.Durations == nil {
		return nil, fmt.Errorf("%s: no durations block found", path)
	}
	return f.Durations, nil
}

// LoadTarget returns the target block of path.
func LoadTarget(path string) (*target.Target, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	if f.Target == nil {
		return nil, fmt.Errorf("%s: no target block found", path)
	}
	return f.Target, nil
}
