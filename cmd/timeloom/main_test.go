package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/timeloom/internal/target"
	"github.com/joshharrison/timeloom/internal/timing"
)

const bell = `
circuit "bell" {
  qubits = 2
  clbits = 1

  op "h" { qubits = [0] }
  op "cx" { qubits = [0, 1] }
  op "measure" {
    qubits = [0]
    clbits = [0]
  }
}

durations {
  dt = 1e-9
  entry "h" { value = 160 }
  entry "cx" { value = 800 }
  entry "measure" { value = 1000 }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func resetFlags() {
	flagConfig, flagCircuit, flagDurations, flagTarget = "", "", "", ""
}

func TestLoadSettings_FlagsOverrideConfig(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	flagConfig = writeFile(t, dir, "timeloom.yaml", `
method: alap
io_latency:
  conditional: 50
padding:
  merge: false
`)

	cmd := scheduleCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--conditional-latency", "300", "--no-fill-end"}))

	cfg, _, err := loadSettings(cmd)
	require.NoError(t, err)
	assert.Equal(t, "alap", cfg.Method, "file value kept when the flag is not set")
	assert.Equal(t, timing.IOLatency{Conditional: 300}, cfg.Latency)
	assert.False(t, cfg.Padding.FillTrailingGap)
	assert.False(t, cfg.Padding.Merge)
}

func TestLoadSettings_RejectsBadMethod(t *testing.T) {
	resetFlags()
	cmd := scheduleCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--method", "greedy"}))
	_, _, err := loadSettings(cmd)
	assert.Error(t, err)
}

func TestRunEngine_InlineDurations(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	path := writeFile(t, dir, "bell.hcl", bell)

	cmd := scheduleCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, _, err := loadSettings(cmd)
	require.NoError(t, err)

	s, err := runEngine(cfg, path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1e-9, s.in.dt)
	assert.Equal(t, 1960, s.final.Timing.Duration)
	assert.Equal(t, []int{0, 160, 960}, s.timed.Timing.Start)
	// q1 idles for 160 before the cx and 1000 after it
	assert.Len(t, s.final.Instructions, 5)
}

func TestRunEngine_TargetFiltersIdle(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	path := writeFile(t, dir, "bell.hcl", bell)
	devicePath := writeFile(t, dir, "device.hcl", `
target {
  num_qubits = 2
  instruction "delay" {
    on { qubits = [0] }
  }
}
`)

	cmd := scheduleCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--target", devicePath}))
	cfg, _, err := loadSettings(cmd)
	require.NoError(t, err)

	s, err := runEngine(cfg, path, zerolog.Nop())
	require.NoError(t, err)
	_, isTarget := s.in.filter.(*target.Target)
	assert.True(t, isTarget)
	assert.Len(t, s.final.Instructions, 3, "q1 does not support delays")
	assert.Contains(t, s.in.files, devicePath)
}

func TestRunEngine_PropertiesJSON(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	path := writeFile(t, dir, "bell.hcl", `
circuit "bell" {
  qubits = 1
  op "x" { qubits = [0] }
}
`)
	props := writeFile(t, dir, "props.json", `{
  "dt": 1e-9,
  "gates": [
    {"gate": "x", "name": "x0", "qubits": [0], "parameters": [{"name": "gate_length", "value": 35.0, "unit": "ns"}]}
  ],
  "qubits": [[{"name": "readout_length", "value": 1.0, "unit": "us"}]]
}`)

	cmd := scheduleCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--durations", props}))
	cfg, _, err := loadSettings(cmd)
	require.NoError(t, err)

	s, err := runEngine(cfg, path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 35, s.final.Timing.Duration)
}

func TestRunEngine_MissingDuration(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	path := writeFile(t, dir, "bare.hcl", `
circuit "bare" {
  qubits = 1
  op "x" { qubits = [0] }
}
`)
	cmd := scheduleCmd()
	require.NoError(t, cmd.ParseFlags(nil))
	cfg, _, err := loadSettings(cmd)
	require.NoError(t, err)

	_, err = runEngine(cfg, path, zerolog.Nop())
	assert.ErrorIs(t, err, timing.ErrUnresolvedDuration)
}
