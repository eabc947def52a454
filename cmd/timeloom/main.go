package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joshharrison/timeloom/internal/config"
	"github.com/joshharrison/timeloom/internal/logx"
	"github.com/joshharrison/timeloom/internal/ui"
)

var (
	flagConfig       string
	flagLogLevel     string
	flagLogFormat    string
	flagDurations    string
	flagTarget       string
	flagMethod       string
	flagCondLatency  int
	flagWriteLatency int
	flagNoFillEnd    bool
	flagNoMerge      bool
	flagNoPad        bool
	flagCircuit      string
	flagJSON         bool
	flagOutput       string
	flagTemplate     string
	flagWatch        bool
	flagFormat       string
	flagWidth        int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "timeloom",
		Short: "Schedule quantum circuits and pad idle time with delays",
		Long: `Timeloom assigns every instruction of a quantum circuit a start time,
as soon or as late as possible, honoring classical IO latencies, then fills
each qubit's idle time with explicit delays so the timeline is gap-free.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			ui.PrintLogo(os.Stderr)
			_ = cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(checkCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addEngineFlags registers the flags shared by every command that
// schedules a circuit.
func addEngineFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringVar(&flagDurations, "durations", "", "Duration table (.hcl, or backend properties .json)")
	cmd.Flags().StringVar(&flagTarget, "target", "", "Target description (.hcl)")
	cmd.Flags().StringVar(&flagMethod, "method", d.Method, "Scheduling method (asap, alap)")
	cmd.Flags().IntVar(&flagCondLatency, "conditional-latency", d.Latency.Conditional, "Classical read latency before a conditional, in dt")
	cmd.Flags().IntVar(&flagWriteLatency, "clbit-write-latency", d.Latency.ClbitWrite, "Delay from measure start to clbit write, in dt")
	cmd.Flags().BoolVar(&flagNoFillEnd, "no-fill-end", false, "Leave idle time after each qubit's last instruction")
	cmd.Flags().BoolVar(&flagNoMerge, "no-merge", false, "Insert new delays instead of growing existing ones")
	cmd.Flags().BoolVar(&flagNoPad, "no-pad", false, "Schedule only, do not insert delays")
	cmd.Flags().StringVar(&flagCircuit, "name", "", "Circuit to use when the file holds several")
}

// loadSettings layers defaults, the config file and explicitly set flags,
// and builds the logger.
func loadSettings(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, zerolog.Nop(), err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
	if changed("durations") {
		cfg.Durations = flagDurations
	}
	if changed("target") {
		cfg.Target = flagTarget
	}
	if changed("method") {
		cfg.Method = flagMethod
	}
	if changed("conditional-latency") {
		cfg.Latency.Conditional = flagCondLatency
	}
	if changed("clbit-write-latency") {
		cfg.Latency.ClbitWrite = flagWriteLatency
	}
	if changed("no-fill-end") {
		cfg.Padding.FillTrailingGap = !flagNoFillEnd
	}
	if changed("no-merge") {
		cfg.Padding.Merge = !flagNoMerge
	}
	if changed("no-pad") {
		cfg.Padding.Disabled = flagNoPad
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	log, err := logx.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

// --- Output helpers ---

func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(data)
}

func writeOutput(data []byte) error {
	if flagOutput != "" {
		return os.WriteFile(flagOutput, data, 0644)
	}
	_, err := fmt.Fprintln(os.Stdout, string(data))
	return err
}
