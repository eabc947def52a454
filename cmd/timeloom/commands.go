package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joshharrison/timeloom/internal/circuit"
	"github.com/joshharrison/timeloom/internal/config"
	"github.com/joshharrison/timeloom/internal/graph"
	"github.com/joshharrison/timeloom/internal/padding"
	"github.com/joshharrison/timeloom/internal/reporter"
	"github.com/joshharrison/timeloom/internal/schedule"
	"github.com/joshharrison/timeloom/internal/timeline"
	"github.com/joshharrison/timeloom/internal/timing"
	"github.com/joshharrison/timeloom/internal/ui"
	"github.com/joshharrison/timeloom/internal/verify"
	"github.com/joshharrison/timeloom/internal/watch"
)

// scheduled is the outcome of one scheduling pass.
type scheduled struct {
	in       *inputs
	timed    *circuit.Circuit // scheduled, not padded
	final    *circuit.Circuit // padded unless padding is disabled
	analyzer *schedule.Analyzer
}

// runEngine schedules and pads the circuit at path.
func runEngine(cfg *config.Config, path string, log zerolog.Logger) (*scheduled, error) {
	in, err := loadInputs(cfg, path, log)
	if err != nil {
		return nil, err
	}
	dir, err := schedule.Method(cfg.Method)
	if err != nil {
		return nil, err
	}

	a := schedule.NewAnalyzer(in.durations, schedule.WithLatency(cfg.Latency), schedule.WithLogger(log))
	timed, err := a.Analyze(in.circuit, dir)
	if err != nil {
		return nil, err
	}

	out := &scheduled{in: in, timed: timed, final: timed, analyzer: a}
	if cfg.Padding.Disabled {
		return out, nil
	}
	p := padding.New(
		padding.WithIdleFilter(in.filter),
		padding.WithTrailingGap(cfg.Padding.FillTrailingGap),
		padding.WithMerge(cfg.Padding.Merge),
		padding.WithLogger(log),
	)
	if out.final, err = p.Run(timed); err != nil {
		return nil, err
	}
	log.Debug().
		Str("filter", idleFilterName(in.filter)).
		Int("instructions", len(out.final.Instructions)).
		Msg("padding applied")
	return out, nil
}

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <circuit.hcl>",
		Short: "Schedule a circuit and print its padded timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			once := func() ([]string, error) {
				s, err := runEngine(cfg, args[0], log)
				if err != nil {
					return nil, err
				}
				return s.in.files, printSchedule(cfg, s)
			}

			files, err := once()
			if !flagWatch {
				return err
			}
			if err != nil {
				// keep watching so the next save can fix it
				log.Error().Err(err).Msg("schedule failed")
				files = watchList(cfg, args[0])
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			log.Info().Strs("files", files).Msg("watching for changes")
			return watch.Files(ctx, files, watch.DefaultDebounce, log, func() {
				if _, err := once(); err != nil {
					log.Error().Err(err).Msg("schedule failed")
				}
			})
		},
	}

	addEngineFlags(cmd)
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write output to file")
	cmd.Flags().StringVar(&flagTemplate, "template", "", "Render the report with a text/template file")
	cmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-run whenever an input file changes")

	return cmd
}

// watchList names the files to watch when the first run failed before
// all inputs were resolved.
func watchList(cfg *config.Config, path string) []string {
	files := []string{path}
	if cfg.Durations != "" {
		files = append(files, cfg.Durations)
	}
	if cfg.Target != "" {
		files = append(files, cfg.Target)
	}
	return files
}

func printSchedule(cfg *config.Config, s *scheduled) error {
	slack, err := s.analyzer.Slack(s.final)
	if err != nil {
		return err
	}
	report, err := timeline.Generate(s.final, timeline.Options{
		Method:   cfg.Method,
		Padded:   !cfg.Padding.Disabled,
		DT:       s.in.dt,
		Critical: slack.IsCritical,
	})
	if err != nil {
		return err
	}
	rpt := reporter.New(report)

	switch {
	case flagJSON:
		data, err := rpt.JSON()
		if err != nil {
			return err
		}
		return writeOutput(data)
	case flagTemplate != "":
		out, err := timeline.Render(report, flagTemplate)
		if err != nil {
			return fmt.Errorf("render template: %w", err)
		}
		return writeOutput([]byte(out))
	case flagOutput != "":
		return outputJSON(s.final)
	}

	rpt.PrintTimeline(os.Stdout)
	fmt.Print(rpt.Summary())
	return nil
}

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz <circuit.hcl>",
		Short: "Draw the schedule as an ASCII chart or a Graphviz graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			s, err := runEngine(cfg, args[0], log)
			if err != nil {
				return err
			}

			switch flagFormat {
			case "dot":
				g, err := timing.NewBuilder(s.in.durations, timing.WithLatency(cfg.Latency), timing.WithLogger(log)).
					Build(graph.FromCircuit(s.timed), timing.Forward)
				if err != nil {
					return err
				}
				return reporter.WriteDOT(os.Stdout, s.timed, g)
			case "ascii", "":
				report, err := timeline.Generate(s.final, timeline.Options{
					Method: cfg.Method,
					Padded: !cfg.Padding.Disabled,
					DT:     s.in.dt,
				})
				if err != nil {
					return err
				}
				reporter.New(report).PrintGantt(os.Stdout, flagWidth)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want ascii or dot)", flagFormat)
			}
		},
	}

	addEngineFlags(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")
	cmd.Flags().IntVar(&flagWidth, "width", 60, "Chart width in columns")

	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <circuit.hcl>",
		Short: "Schedule both ways and verify ordering, barriers, padding and duality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			in, err := loadInputs(cfg, args[0], log)
			if err != nil {
				return err
			}

			results, err := verify.Run(in.circuit, verify.Config{
				Durations: in.durations,
				Latency:   cfg.Latency,
				Filter:    in.filter,
				Trailing:  cfg.Padding.FillTrailingGap,
				Merge:     cfg.Padding.Merge,
				Logger:    log,
			})
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if !r.OK() {
					failed++
				}
			}
			if flagJSON {
				if err := outputJSON(results); err != nil {
					return err
				}
			} else {
				fmt.Printf("🔍 %s %s\n", ui.BoldCyan("Checking"), ui.BoldMagenta(in.circuit.Name))
				for _, r := range results {
					fmt.Printf("  %s %s\n", ui.CheckIcon(r.OK()), r.Name)
					for _, v := range r.Violations {
						fmt.Printf("      %s %s\n", ui.Dim("└──"), ui.Red(v.String()))
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}

	addEngineFlags(cmd)
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	return cmd
}
