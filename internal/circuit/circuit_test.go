package circuit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cases := map[string]Kind{
		"delay":    KindDelay,
		"measure":  KindMeasure,
		"barrier":  KindBarrier,
		"snapshot": KindDirective,
		"cx":       KindGate,
		"sx":       KindGate,
	}
	for name, want := range cases {
		assert.Equal(t, want, KindOf(name), name)
	}
	assert.True(t, KindBarrier.Structural())
	assert.False(t, KindMeasure.Structural())
}

func TestInstruction_Wires(t *testing.T) {
	c := New("w", 2, 2)
	c.CX(0, 1).CIf(1, 1)
	c.Measure(1, 1)

	got := c.Instructions[0].Wires()
	want := []Wire{Qubit(0), Qubit(1), Clbit(1)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wires mismatch (-want +got):\n%s", diff)
	}

	meas := c.Instructions[1]
	assert.True(t, meas.Writes(1))
	assert.False(t, meas.Reads(1))
	assert.True(t, c.Instructions[0].Reads(1))
}

func TestMeasureAll(t *testing.T) {
	c := New("m", 2, 0)
	c.H(0)
	c.MeasureAll()

	require.Equal(t, 2, c.NumClbits)
	require.Len(t, c.Instructions, 4)
	assert.Equal(t, KindBarrier, c.Instructions[1].Kind)
	assert.Equal(t, []int{0, 1}, c.Instructions[1].Qubits)
	assert.Equal(t, []int{1}, c.Instructions[3].Clbits)
}

func TestReverse_RoundTrip(t *testing.T) {
	c := New("r", 2, 1)
	c.H(0)
	c.Measure(0, 0)
	c.X(1).CIf(0, 1)

	rev := c.Reverse()
	assert.True(t, rev.Reversed())
	assert.Equal(t, "x", rev.Instructions[0].Name)
	assert.False(t, Equal(c, rev))

	back := rev.Reverse()
	assert.False(t, back.Reversed())
	assert.True(t, Equal(c, back), "double reverse should restore:\n%s\n%s", c.Describe(), back.Describe())
}

func TestReverse_MirrorsTiming(t *testing.T) {
	c := New("t", 1, 0)
	c.X(0)
	c.Delay(50, 0)
	c.Timing = &Timing{Start: []int{0, 100}, Stop: []int{100, 150}, Duration: 200}

	rev := c.Reverse()
	require.NotNil(t, rev.Timing)
	assert.Equal(t, []int{50, 100}, rev.Timing.Start)
	assert.Equal(t, []int{100, 200}, rev.Timing.Stop)
}

func TestEqual_IgnoresIndependentInterleaving(t *testing.T) {
	a := New("a", 2, 0)
	a.X(0)
	a.X(1)

	b := New("b", 2, 0)
	b.X(1)
	b.X(0)

	assert.True(t, Equal(a, b))

	b.Delay(10, 1)
	assert.False(t, Equal(a, b))
}

func TestEqual_ComparesConditionsAndCalibrations(t *testing.T) {
	a := New("a", 1, 1)
	a.X(0).CIf(0, 1)
	b := New("b", 1, 1)
	b.X(0).CIf(0, 0)
	assert.False(t, Equal(a, b))

	c := a.Copy()
	assert.True(t, Equal(a, c))
	c.AddCalibration("x", []int{0}, 300)
	assert.False(t, Equal(a, c))

	d, ok := c.Calibration("x", []int{0})
	assert.True(t, ok)
	assert.Equal(t, 300, d)
	_, ok = c.Calibration("x", []int{1})
	assert.False(t, ok)
}

func TestCopy_IsDeep(t *testing.T) {
	a := New("a", 1, 1)
	a.X(0).CIf(0, 1)
	b := a.Copy()
	b.Instructions[0].Condition.Value = 0
	b.Instructions[0].Qubits[0] = 5
	assert.Equal(t, uint64(1), a.Instructions[0].Condition.Value)
	assert.Equal(t, 0, a.Instructions[0].Qubits[0])
}
