package durations

import (
	"testing"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_ExactBeatsWildcard(t *testing.T) {
	tbl := MustTable(0,
		Entry{Name: "x", Value: 160},
		Entry{Name: "x", Qubits: []int{0}, Value: 300},
		Entry{Name: "cx", Qubits: []int{0, 1}, Value: 700},
	)

	d, ok := tbl.Lookup("x", []int{0})
	require.True(t, ok)
	assert.Equal(t, 300, d)

	d, ok = tbl.Lookup("x", []int{3})
	require.True(t, ok)
	assert.Equal(t, 160, d)

	_, ok = tbl.Lookup("cx", []int{1, 0})
	assert.False(t, ok, "qubit order matters")

	_, ok = tbl.Lookup("h", []int{0})
	assert.False(t, ok)
	assert.Equal(t, 3, tbl.Len())
}

func TestToDT(t *testing.T) {
	cases := []struct {
		value float64
		unit  string
		dt    float64
		want  int
	}{
		{200, "", 0, 200},
		{200, "dt", 0, 200},
		{1e-6, "s", 1e-9, 1000},
		{35.5, "ns", 2.2222222222222221e-10, 160},
		{1, "us", 1e-9, 1000},
		{2, "ms", 1e-6, 2000},
	}
	for _, tc := range cases {
		got, err := ToDT(tc.value, tc.unit, tc.dt)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%g%s", tc.value, tc.unit)
	}
}

func TestToDT_Errors(t *testing.T) {
	_, err := ToDT(10, "ns", 0)
	assert.Error(t, err, "no dt")
	_, err = ToDT(10, "fortnight", 1)
	assert.Error(t, err)
	_, err = ToDT(-1, "dt", 1)
	assert.Error(t, err)

	_, err = NewTable(0, Entry{Name: "x", Value: 20, Unit: "ns"})
	assert.ErrorContains(t, err, "x")
}

func TestOverlay(t *testing.T) {
	base := MustTable(0, Entry{Name: "x", Value: 160})
	c := circuit.New("cal", 2, 0)
	c.AddCalibration("x", []int{0}, 300)
	p := Overlay(base, c)

	d, _ := p.Lookup("x", []int{0})
	assert.Equal(t, 300, d)
	d, _ = p.Lookup("x", []int{1})
	assert.Equal(t, 160, d)

	bare := Overlay(nil, nil)
	_, ok := bare.Lookup("x", []int{0})
	assert.False(t, ok)
}

const propsJSON = `{
  "backend_name": "fake",
  "dt": 1e-9,
  "gates": [
    {"gate": "sx", "qubits": [0], "parameters": [
      {"name": "gate_error", "unit": "", "value": 0.0002},
      {"name": "gate_length", "unit": "ns", "value": 35}
    ]},
    {"gate": "cx", "qubits": [0, 1], "parameters": [
      {"name": "gate_length", "unit": "us", "value": 0.4}
    ]},
    {"gate": "reset", "qubits": [1], "parameters": []}
  ],
  "qubits": [
    [{"name": "T1", "unit": "us", "value": 100}, {"name": "readout_length", "unit": "ns", "value": 5000}],
    [{"name": "T1", "unit": "us", "value": 90}]
  ]
}`

func TestFromProperties(t *testing.T) {
	tbl, err := FromProperties([]byte(propsJSON), 0)
	require.NoError(t, err)
	assert.Equal(t, 1e-9, tbl.DT())

	d, ok := tbl.Lookup("sx", []int{0})
	require.True(t, ok)
	assert.Equal(t, 35, d)

	d, ok = tbl.Lookup("cx", []int{0, 1})
	require.True(t, ok)
	assert.Equal(t, 400, d)

	d, ok = tbl.Lookup("measure", []int{0})
	require.True(t, ok)
	assert.Equal(t, 5000, d)

	_, ok = tbl.Lookup("measure", []int{1})
	assert.False(t, ok)
	_, ok = tbl.Lookup("reset", []int{1})
	assert.False(t, ok)
}

func TestFromProperties_Invalid(t *testing.T) {
	_, err := FromProperties([]byte("{not json"), 1)
	assert.Error(t, err)

	_, err = FromProperties([]byte(`{"gates":[{"qubits":[0]}]}`), 1)
	assert.ErrorContains(t, err, "without name")

	_, err = FromProperties([]byte(`{"gates":[{"gate":"x","qubits":[0],"parameters":[{"name":"gate_length","unit":"ns","value":35}]}]}`), 0)
	assert.ErrorContains(t, err, "dt is not set")
}

func TestChain(t *testing.T) {
	first := MustTable(0, Entry{Name: "x", Value: 10})
	second := MustTable(0, Entry{Name: "x", Value: 99}, Entry{Name: "cx", Value: 200})

	p := Chain(nil, first, second)
	d, ok := p.Lookup("x", []int{0})
	assert.True(t, ok)
	assert.Equal(t, 10, d, "earlier providers win")

	d, ok = p.Lookup("cx", []int{0, 1})
	assert.True(t, ok)
	assert.Equal(t, 200, d)

	_, ok = p.Lookup("measure", []int{0})
	assert.False(t, ok)

	_, ok = Chain().Lookup("x", nil)
	assert.False(t, ok)
}
