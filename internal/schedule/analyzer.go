package schedule

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/durations"
	"github.com/joshharrison/timeloom/internal/graph"
	"github.com/joshharrison/timeloom/internal/timing"
)

// Analyzer schedules circuits against one duration provider and one set
// of IO latencies. Inputs are never modified, so an Analyzer may be
// shared between goroutines.
type Analyzer struct {
	builder *timing.Builder
	logger  zerolog.Logger
}

// Option configures an Analyzer.
type Option func(*analyzerConfig)

type analyzerConfig struct {
	latency timing.IOLatency
	logger  zerolog.Logger
}

// WithLatency sets the classical IO latencies.
func WithLatency(l timing.IOLatency) Option {
	return func(c *analyzerConfig) { c.latency = l }
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *analyzerConfig) { c.logger = l }
}

// NewAnalyzer returns an analyzer resolving durations through p.
func NewAnalyzer(p durations.Provider, opts ...Option) *Analyzer {
	cfg := analyzerConfig{latency: timing.DefaultIOLatency(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Analyzer{
		builder: timing.NewBuilder(p, timing.WithLatency(cfg.latency), timing.WithLogger(cfg.logger)),
		logger:  cfg.logger,
	}
}

// Schedule computes the schedule of c in direction dir.
func (a *Analyzer) Schedule(c *circuit.Circuit, dir timing.Direction) (*Schedule, error) {
	g, err := a.builder.Build(graph.FromCircuit(c), dir)
	if err != nil {
		return nil, fmt.Errorf("schedule %s %s: %w", c.Name, dir, err)
	}
	s := Run(g)
	a.logger.Debug().
		Str("circuit", c.Name).
		Str("method", dir.String()).
		Int("span", s.Span).
		Msg("scheduled")
	return s, nil
}

// Analyze returns a copy of c annotated with its schedule in direction dir.
func (a *Analyzer) Analyze(c *circuit.Circuit, dir timing.Direction) (*circuit.Circuit, error) {
	s, err := a.Schedule(c, dir)
	if err != nil {
		return nil, err
	}
	return Apply(c, s)
}

// ASAP schedules every instruction as early as possible.
func (a *Analyzer) ASAP(c *circuit.Circuit) (*circuit.Circuit, error) {
	return a.Analyze(c, timing.Forward)
}

// ALAP schedules every instruction as late as possible.
func (a *Analyzer) ALAP(c *circuit.Circuit) (*circuit.Circuit, error) {
	return a.Analyze(c, timing.Backward)
}

// Slack schedules c both ways and reports how far each instruction can
// move. Zero-slack instructions form the critical path.
func (a *Analyzer) Slack(c *circuit.Circuit) (*Slack, error) {
	asap, err := a.Schedule(c, timing.Forward)
	if err != nil {
		return nil, err
	}
	alap, err := a.Schedule(c, timing.Backward)
	if err != nil {
		return nil, err
	}

	res := &Slack{
		Span:  asap.Span,
		ASAP:  asap,
		ALAP:  alap,
		Slack: make([]int, len(asap.Start)),
	}
	for i := range asap.Start {
		res.Slack[i] = alap.Start[i] - asap.Start[i]
		if res.Slack[i] == 0 {
			res.CriticalPath = append(res.CriticalPath, i)
		}
	}
	return res, nil
}

// Method parses "asap" or "alap".
func Method(name string) (timing.Direction, error) {
	switch name {
	case "asap", "ASAP":
		return timing.Forward, nil
	case "alap", "ALAP":
		return timing.Backward, nil
	default:
		return 0, fmt.Errorf("unknown scheduling method %q (want asap or alap)", name)
	}
}
