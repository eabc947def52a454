package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/config"
	"github.com/joshharrison/timeloom/internal/durations"
	"github.com/joshharrison/timeloom/internal/hclload"
	"github.com/joshharrison/timeloom/internal/padding"
	"github.com/joshharrison/timeloom/internal/target"
)

// inputs is everything a command needs to schedule one circuit.
type inputs struct {
	circuit   *circuit.Circuit
	durations durations.Provider
	filter    padding.IdleFilter
	dt        float64
	files     []string // watched for changes
}

// loadInputs reads the circuit file and the duration and target sources
// named by cfg. Durations and target blocks inside the circuit file are
// used when cfg names none.
func loadInputs(cfg *config.Config, path string, log zerolog.Logger) (*inputs, error) {
	f, err := hclload.Load(path)
	if err != nil {
		return nil, err
	}
	c, err := f.Circuit(flagCircuit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in := &inputs{circuit: c, files: []string{path}}

	table := f.Durations
	if cfg.Durations != "" {
		if table, err = loadDurations(cfg.Durations); err != nil {
			return nil, err
		}
		in.files = append(in.files, cfg.Durations)
	}
	tgt := f.Target
	if cfg.Target != "" {
		if tgt, err = hclload.LoadTarget(cfg.Target); err != nil {
			return nil, err
		}
		in.files = append(in.files, cfg.Target)
	}

	// An explicit table beats durations reported by the target.
	var providers []durations.Provider
	in.filter = padding.AllQubits
	if table != nil {
		providers = append(providers, table)
		in.dt = table.DT()
	}
	if tgt != nil {
		if tgt.NumQubits < c.NumQubits {
			return nil, fmt.Errorf("circuit %s uses %d qubits, target has %d", c.Name, c.NumQubits, tgt.NumQubits)
		}
		providers = append(providers, tgt)
		in.filter = tgt
		if in.dt == 0 {
			in.dt = tgt.DT
		}
	}
	in.durations = durations.Chain(providers...)

	log.Debug().
		Str("circuit", c.Name).
		Int("instructions", len(c.Instructions)).
		Bool("table", table != nil).
		Bool("target", tgt != nil).
		Float64("dt", in.dt).
		Msg("loaded inputs")
	return in, nil
}

func loadDurations(path string) (*durations.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		t, err := durations.FromProperties(data, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return t, nil
	}
	return hclload.LoadDurations(path)
}

// idleFilterName describes the filter for log lines.
func idleFilterName(f padding.IdleFilter) string {
	if _, ok := f.(*target.Target); ok {
		return "target"
	}
	return "all"
}
