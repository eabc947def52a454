package schedule

import "github.com/joshharrison/timeloom/internal/timing"

// Schedule assigns every node a half-open [Start, Stop) interval in dt.
type Schedule struct {
	Direction timing.Direction
	Start     []int
	Stop      []int
	Span      int
}

// Slack compares the ASAP and ALAP schedules of the same program.
type Slack struct {
	Span         int
	ASAP         *Schedule
	ALAP         *Schedule
	Slack        []int // ALAP start - ASAP start per node
	CriticalPath []int // nodes with zero slack, in program order
}

// IsCritical reports whether node n cannot move without stretching the span.
func (s *Slack) IsCritical(n int) bool {
	return s.Slack[n] == 0
}
