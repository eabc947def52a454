package timing

import "fmt"

// IOLatency holds the classical IO latencies of a device, in dt.
//
// Conditional is how long before a conditional operation starts that its
// condition bits must be stable. ClbitWrite is how long after a
// measurement starts its result is committed to the clbit; setting it to
// the measurement's duration locks the bit until the measurement ends.
type IOLatency struct {
	Conditional int `json:"conditional_latency" yaml:"conditional"`
	ClbitWrite  int `json:"clbit_write_latency" yaml:"clbit_write"`
}

// DefaultIOLatency returns zero latencies.
func DefaultIOLatency() IOLatency {
	return IOLatency{}
}

// Validate rejects negative latencies.
func (l IOLatency) Validate() error {
	if l.Conditional < 0 {
		return fmt.Errorf("%w: conditional latency %d", ErrInvalidLatency, l.Conditional)
	}
	if l.ClbitWrite < 0 {
		return fmt.Errorf("%w: clbit write latency %d", ErrInvalidLatency, l.ClbitWrite)
	}
	return nil
}
