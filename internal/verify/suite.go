package verify

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/durations"
	"github.com/joshharrison/timeloom/internal/graph"
	"github.com/joshharrison/timeloom/internal/padding"
	"github.com/joshharrison/timeloom/internal/schedule"
	"github.com/joshharrison/timeloom/internal/timing"
)

// Result groups the violations of one named check.
type Result struct {
	Name       string      `json:"name"`
	Violations []Violation `json:"violations,omitempty"`
}

// OK reports whether the check passed.
func (r Result) OK() bool { return len(r.Violations) == 0 }

// Config selects how circuits are scheduled and padded before checking.
type Config struct {
	Durations durations.Provider
	Latency   timing.IOLatency
	Filter    padding.IdleFilter
	Trailing  bool
	Merge     bool
	Logger    zerolog.Logger
}

// DefaultConfig returns the engine defaults for p.
func DefaultConfig(p durations.Provider) Config {
	return Config{
		Durations: p,
		Latency:   timing.DefaultIOLatency(),
		Filter:    padding.AllQubits,
		Trailing:  true,
		Merge:     true,
		Logger:    zerolog.Nop(),
	}
}

// Run schedules c both ways, pads each result, and runs every check.
func Run(c *circuit.Circuit, cfg Config) ([]Result, error) {
	if cfg.Filter == nil {
		cfg.Filter = padding.AllQubits
	}
	a := schedule.NewAnalyzer(cfg.Durations, schedule.WithLatency(cfg.Latency), schedule.WithLogger(cfg.Logger))
	g, err := timing.NewBuilder(cfg.Durations, timing.WithLatency(cfg.Latency), timing.WithLogger(cfg.Logger)).
		Build(graph.FromCircuit(c), timing.Forward)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", c.Name, err)
	}
	p := padding.New(
		padding.WithIdleFilter(cfg.Filter),
		padding.WithTrailingGap(cfg.Trailing),
		padding.WithMerge(cfg.Merge),
		padding.WithLogger(cfg.Logger),
	)

	var results []Result
	for _, dir := range []timing.Direction{timing.Forward, timing.Backward} {
		scheduled, err := a.Analyze(c, dir)
		if err != nil {
			return nil, err
		}

		order, err := ResourceOrder(scheduled, g)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Name: dir.String() + " order", Violations: order})

		join, err := BarrierJoin(scheduled)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Name: dir.String() + " barriers", Violations: join})

		padded, err := p.Run(scheduled)
		if err != nil {
			return nil, err
		}
		gaps, err := GapFree(padded, cfg.Filter, cfg.Trailing)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Name: dir.String() + " gap-free", Violations: gaps})

		again, err := p.Run(padded)
		if err != nil {
			return nil, err
		}
		var idem []Violation
		if !circuit.Equal(padded, again) || padded.Timing.Duration != again.Timing.Duration {
			idem = append(idem, Violation{Check: "idempotent", Index: -1, Detail: "padding a padded circuit changed it"})
		}
		results = append(results, Result{Name: dir.String() + " idempotent", Violations: idem})
	}

	dual, err := Duality(a, c)
	if err != nil {
		return nil, err
	}
	results = append(results, Result{Name: "duality", Violations: dual})

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	cfg.Logger.Debug().Str("circuit", c.Name).Int("checks", len(results)).Int("failed", failed).Msg("verified")
	return results, nil
}

func sortViolations(vs []Violation) {
	slices.SortStableFunc(vs, func(a, b Violation) int {
		if c := cmp.Compare(a.Wire, b.Wire); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
}
