package timeline

import "time"

// Slot is one instruction's occupancy of one wire.
type Slot struct {
	Index       int    `json:"index"` // position in the circuit
	Name        string `json:"name"`
	Label       string `json:"label"`
	Start       int    `json:"start"`
	Stop        int    `json:"stop"`
	Idle        bool   `json:"idle,omitempty"` // a delay
	Conditional bool   `json:"conditional,omitempty"`
	Critical    bool   `json:"critical,omitempty"`
}

// WireTimeline lists the slots of one wire in start order.
type WireTimeline struct {
	Wire  string `json:"wire"`
	Clbit bool   `json:"clbit,omitempty"`
	Slots []Slot `json:"slots"`
	Busy  int    `json:"busy"` // dt covered by non-delay slots
	Idle  int    `json:"idle"` // Duration - Busy
}

// Report is the per-wire view of a scheduled circuit.
type Report struct {
	ID           string         `json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	Circuit      string         `json:"circuit"`
	Method       string         `json:"method"`
	Padded       bool           `json:"padded"`
	Duration     int            `json:"duration"`
	DT           float64        `json:"dt,omitempty"`
	Instructions int            `json:"instructions"`
	Delays       int            `json:"delays"`
	Wires        []WireTimeline `json:"wires"`
	CriticalPath []int          `json:"critical_path,omitempty"`
}

// Options selects what Generate records besides the timing itself.
type Options struct {
	Method string
	Padded bool
	DT     float64 // seconds per dt, zero when unknown
	// Critical marks instructions with zero slack. Nil leaves Slot.Critical unset.
	Critical func(index int) bool
}

// Seconds converts a dt count to seconds, or zero when DT is unknown.
func (r *Report) Seconds(dt int) float64 {
	return float64(dt) * r.DT
}

// Utilization returns the busy fraction of a wire over the report's span.
func (w WireTimeline) Utilization(span int) float64 {
	if span == 0 {
		return 0
	}
	return float64(w.Busy) / float64(span)
}
