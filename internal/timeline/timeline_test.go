package timeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/padding"
)

// feedback: measure q0 into c0, then flip q1 on the result.
func feedback() *circuit.Circuit {
	c := circuit.New("feedback", 2, 1)
	c.H(0)
	c.Measure(0, 0)
	c.Delay(1160, 1)
	c.X(1).CIf(0, 1)
	c.Timing = &circuit.Timing{
		Start:    []int{0, 160, 0, 1160},
		Stop:     []int{160, 1160, 1160, 1320},
		Duration: 1320,
	}
	return c
}

func TestGenerate_Wires(t *testing.T) {
	r, err := Generate(feedback(), Options{Method: "alap", Padded: true, DT: 1e-9})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if r.Circuit != "feedback" || r.Method != "alap" || !r.Padded {
		t.Errorf("unexpected header: %+v", r)
	}
	if r.Duration != 1320 {
		t.Errorf("expected duration 1320, got %d", r.Duration)
	}
	if r.Delays != 1 {
		t.Errorf("expected 1 delay, got %d", r.Delays)
	}
	if len(r.Wires) != 3 {
		t.Fatalf("expected q0, q1 and c0, got %d wires", len(r.Wires))
	}

	type summary struct {
		Wire       string
		Busy, Idle int
		Slots      []int
	}
	var got []summary
	for _, w := range r.Wires {
		s := summary{Wire: w.Wire, Busy: w.Busy, Idle: w.Idle}
		for _, slot := range w.Slots {
			s.Slots = append(s.Slots, slot.Index)
		}
		got = append(got, s)
	}
	want := []summary{
		{Wire: "q0", Busy: 1160, Idle: 160, Slots: []int{0, 1}},
		{Wire: "q1", Busy: 160, Idle: 1160, Slots: []int{2, 3}},
		{Wire: "c0", Busy: 1160, Idle: 160, Slots: []int{1, 3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wires mismatch (-want +got):\n%s", diff)
	}

	x := r.Wires[1].Slots[1]
	if !x.Conditional || x.Idle {
		t.Errorf("expected conditional non-idle slot, got %+v", x)
	}
	if !r.Wires[1].Slots[0].Idle {
		t.Error("delay slot should be idle")
	}
	if got := r.Seconds(r.Duration); got < 1.319e-6 || got > 1.321e-6 {
		t.Errorf("expected ~1.32us, got %g", got)
	}
}

func TestGenerate_Critical(t *testing.T) {
	critical := map[int]bool{0: true, 1: true, 2: true, 3: true}
	r, err := Generate(feedback(), Options{Critical: func(i int) bool { return critical[i] }})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if r.Method != "asap" {
		t.Errorf("expected default method asap, got %s", r.Method)
	}
	if diff := cmp.Diff([]int{0, 1, 3}, r.CriticalPath); diff != "" {
		t.Errorf("critical path mismatch (-want +got):\n%s", diff)
	}
	if !r.Wires[0].Slots[0].Critical {
		t.Error("expected h to be marked critical")
	}
}

func TestGenerate_Unscheduled(t *testing.T) {
	c := circuit.New("bare", 1, 0)
	c.H(0)
	_, err := Generate(c, Options{})
	if !errors.Is(err, padding.ErrMissingSchedule) {
		t.Fatalf("expected ErrMissingSchedule, got %v", err)
	}
}

func TestGenerate_IdleQubit(t *testing.T) {
	c := circuit.New("idle", 2, 0)
	c.H(0)
	c.Timing = &circuit.Timing{Start: []int{0}, Stop: []int{160}, Duration: 160}

	r, err := Generate(c, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	q1 := r.Wires[1]
	if q1.Busy != 0 || q1.Idle != 160 || len(q1.Slots) != 0 {
		t.Errorf("expected fully idle q1, got %+v", q1)
	}
	if u := r.Wires[0].Utilization(r.Duration); u != 1 {
		t.Errorf("expected q0 fully used, got %g", u)
	}
}

func TestBusy_MergesOverlaps(t *testing.T) {
	slots := []Slot{
		{Start: 0, Stop: 100},
		{Start: 50, Stop: 120},
		{Start: 120, Stop: 200, Idle: true},
		{Start: 300, Stop: 310},
	}
	if got := busy(slots); got != 130 {
		t.Errorf("expected 130, got %d", got)
	}
}

func TestRender_Default(t *testing.T) {
	r, err := Generate(feedback(), Options{Padded: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, err := Render(r, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"feedback (asap, padded): 1320 dt over 4 instructions",
		"q1: busy 160 idle 1160",
		"[1160, 1320) x q[1] if c[0]==1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRender_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "span.tmpl")
	if err := os.WriteFile(path, []byte("{{.Circuit}}={{.Duration}}"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Generate(feedback(), Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	out, err := Render(r, path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "feedback=1320" {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := Render(r, filepath.Join(t.TempDir(), "missing.tmpl")); err == nil {
		t.Error("expected error for missing template")
	}
}
