package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/perfstamp/clock"
	"github.com/wesleyorama2/perfstamp/internal/bench"
	"github.com/wesleyorama2/perfstamp/internal/config"
	"github.com/wesleyorama2/perfstamp/internal/diag"
	"github.com/wesleyorama2/perfstamp/internal/output"
	"github.com/wesleyorama2/perfstamp/pmu"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the fill-bandwidth benchmark",
	Long: `Run every selected workload over a geometric sweep of buffer sizes and report
one row per measured trial.

Config file mode:
  perfstamp run --config run.yaml

Flags override values from the config file:
  perfstamp run --algos fill0,fill1 --perf-cols instructions,uncR \
    --min-size 4096 --max-size 1000000 --format csv

Arbitrary events are added with --perf-extra, as a name, a pmu/term=value/
literal, or name=spec:
  perfstamp run --size 65536 --perf-extra 'l1d=L1D.REPLACEMENT,cpu/event=0x3c/'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmark(cmd)
	},
}

// runBenchmark loads the configuration, runs the harness and writes the
// report to stdout.
func runBenchmark(cmd *cobra.Command) error {
	rc, err := buildRunConfig(cmd)
	if err != nil {
		return err
	}

	if dump, _ := cmd.Flags().GetBool("dump-config"); dump {
		data, err := rc.ToYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	format, err := output.ParseFormat(rc.Output.Format)
	if err != nil {
		return err
	}
	log := newLogger(cmd, rc.Verbose)
	if rc.Output.NoColor {
		log.NoColor = true
	}

	clk, err := newClock(rc.Clock, rc.ForceCalibrate, log)
	if err != nil {
		return err
	}
	events, err := newManagerConfig(rc.EventTable, rc.NoRDPMC, log)
	if err != nil {
		return err
	}

	h, err := bench.New(rc, bench.Options{
		Clock:  clk,
		Events: &events,
		Log:    log,
	})
	if err != nil {
		return err
	}

	// only the report goes to stdout for machine-readable formats
	var info io.Writer = cmd.OutOrStdout()
	if format.MachineReadable() {
		info = cmd.ErrOrStderr()
	}
	if format == output.FormatTable || format == output.FormatCSV {
		noColor := rc.Output.NoColor || !output.ColorEnabled(info, false)
		if err := output.WriteInfo(info, h.Info(), output.SchemeFor(noColor)); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := h.Run(ctx)
	tbl := renderResults(h, results, cmd)
	if err := h.Close(); err != nil {
		log.Warnf("failed to release counters: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	noColor := rc.Output.NoColor || !output.ColorEnabled(cmd.OutOrStdout(), false)
	if err := output.GetFormatter(format, noColor).Format(cmd.OutOrStdout(), tbl); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("interrupted after %d of %d specs: %w", len(results), len(h.Specs()), runErr)
	}
	return nil
}

// renderResults builds the report table. It runs before the harness is
// closed, while the counters behind the results are still open.
func renderResults(h *bench.Harness, results []bench.Result, cmd *cobra.Command) *output.Table {
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		return h.SummaryTable(results)
	}
	return h.Table(results)
}

// buildRunConfig merges the config file, the environment and the flags, in
// increasing priority, then applies defaults and validates.
func buildRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	flags := cmd.Flags()

	rc := &config.RunConfig{}
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		rc = loaded
	}
	if rc.EventTable == "" {
		rc.EventTable = os.Getenv(config.EventTableEnv)
	}

	if flags.Changed("clock") {
		rc.Clock, _ = flags.GetString("clock")
	}
	if flags.Changed("force-tsc-calibrate") {
		rc.ForceCalibrate, _ = flags.GetBool("force-tsc-calibrate")
	}
	if flags.Changed("warmup") {
		d, _ := flags.GetDuration("warmup")
		rc.Warmup = config.Duration(d)
	}
	if flags.Changed("no-rdpmc") {
		rc.NoRDPMC, _ = flags.GetBool("no-rdpmc")
	}
	if flags.Changed("event-table") {
		rc.EventTable, _ = flags.GetString("event-table")
	}
	if flags.Changed("no-pin") {
		rc.NoPin, _ = flags.GetBool("no-pin")
	}
	if flags.Changed("size") {
		rc.Sizes.Fixed, _ = flags.GetInt64("size")
	}
	if flags.Changed("min-size") {
		rc.Sizes.Min, _ = flags.GetInt64("min-size")
	}
	if flags.Changed("max-size") {
		rc.Sizes.Max, _ = flags.GetInt64("max-size")
	}
	if flags.Changed("step") {
		rc.Sizes.Step, _ = flags.GetFloat64("step")
	}
	if flags.Changed("trial-size") {
		rc.TrialSize, _ = flags.GetInt64("trial-size")
	}
	if flags.Changed("min-iters") {
		rc.MinIters, _ = flags.GetInt64("min-iters")
	}
	if flags.Changed("warmup-trials") {
		rc.Trials.Warmup, _ = flags.GetInt("warmup-trials")
	}
	if flags.Changed("trials") {
		rc.Trials.Measured, _ = flags.GetInt("trials")
	}
	if flags.Changed("algos") {
		rc.Algos, _ = flags.GetStringSlice("algos")
	}
	if flags.Changed("perf-cols") {
		rc.PerfCols, _ = flags.GetStringSlice("perf-cols")
	}
	if flags.Changed("perf-extra") {
		// pmu groups contain commas, so the list is split here
		s, _ := flags.GetString("perf-extra")
		events, err := pmu.ParseEventList(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --perf-extra: %w", err)
		}
		rc.PerfExtra = nil
		for _, e := range events {
			item := e.Name
			if e.HasSpec() {
				item += "=" + e.Spec
			}
			rc.PerfExtra = append(rc.PerfExtra, item)
		}
	}
	if flags.Changed("msr") {
		rc.MSRs, _ = flags.GetStringSlice("msr")
	}
	if flags.Changed("format") {
		rc.Output.Format, _ = flags.GetString("format")
	}
	if csv, _ := flags.GetBool("csv"); csv {
		rc.Output.Format = string(output.FormatCSV)
	}
	if flags.Changed("no-color") {
		rc.Output.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("verbose") {
		rc.Verbose, _ = flags.GetBool("verbose")
	}

	rc.Output.Format = strings.ToLower(rc.Output.Format)
	rc.ApplyDefaults()
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// newClock creates the configured clock backend.
func newClock(name string, force bool, log *diag.Logger) (clock.Clock, error) {
	kind, err := clock.ParseKind(name)
	if err != nil {
		return nil, err
	}
	clk, err := clock.New(kind, clock.CalibrationOptions{Force: force, Log: log})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s clock: %w", kind, err)
	}
	return clk, nil
}

// newManagerConfig returns the host event configuration, extended with the
// symbolic event table when one is given.
func newManagerConfig(eventTable string, noRDPMC bool, log *diag.Logger) (pmu.ManagerConfig, error) {
	cfg := pmu.DefaultManagerConfig()
	cfg.DisableFastPath = cfg.DisableFastPath || noRDPMC
	cfg.Log = log
	if eventTable != "" {
		table, err := pmu.LoadTableResolver(eventTable, pmu.SysFS())
		if err != nil {
			return cfg, fmt.Errorf("error loading event table: %w", err)
		}
		cfg.Resolver = pmu.NewResolver(pmu.SysFS(), table)
		log.Verbosef("loaded event table %s", eventTable)
	}
	return cfg, nil
}

// addRunFlags registers the run flags on cmd.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	cmd.Flags().Bool("dump-config", false, "Print the effective configuration as YAML and exit")

	// Clock flags
	cmd.Flags().String("clock", "", "Clock backend: tsc or portable (default: tsc where supported)")
	cmd.Flags().Bool("force-tsc-calibrate", false, "Force manual TSC calibration loop, even if the hardware reports the TSC frequency")
	cmd.Flags().Duration("warmup", config.DefaultWarmup, "Busy-wait before each spec")

	// Counter flags
	cmd.Flags().Bool("no-rdpmc", false, "Read counters with read(2) only, never from user space")
	cmd.Flags().String("event-table", "", "perfmon JSON event file for symbolic event names (env: "+config.EventTableEnv+")")
	cmd.Flags().StringSlice("perf-cols", nil, "Include the additional perf-event based columns: "+strings.Join(bench.PerfColumnNames(), ","))
	cmd.Flags().String("perf-extra", "", "Include the additional arbitrary perf events, comma separated")
	cmd.Flags().StringSlice("msr", nil, "Report the change of a model specific register, e.g. 0xe8")
	cmd.Flags().Bool("no-pin", false, "Don't pin the measuring thread to a CPU")

	// Sweep flags
	cmd.Flags().StringSlice("algos", nil, "Run only the algorithms in the comma separated list")
	cmd.Flags().Int64("size", 0, "Buffer size in bytes (overrides min and max)")
	cmd.Flags().Int64("min-size", config.DefaultMinSize, "Minimum buffer size in bytes")
	cmd.Flags().Int64("max-size", config.DefaultMaxSize, "Maximum buffer size in bytes")
	cmd.Flags().Float64("step", config.DefaultStep, "Possibly fractional ratio between successive sizes")
	cmd.Flags().Int64("trial-size", config.DefaultTrialSize, "Target size in bytes for each trial, used to calculate internal iters")
	cmd.Flags().Int64("min-iters", config.DefaultMinIters, "Minimum number of internal iterations for each trial")
	cmd.Flags().Int("warmup-trials", config.DefaultWarmupTrials, "Trials run before measuring")
	cmd.Flags().Int("trials", config.DefaultMeasuredTrials, "Measured trials per spec")

	// Reporting flags
	cmd.Flags().String("format", "", "Report format (table, csv, json, yaml)")
	cmd.Flags().Bool("csv", false, "Output a csv table instead of the default")
	cmd.Flags().Bool("summary", false, "Report one row per spec with the timing distribution")
}

func init() {
	addRunFlags(runCmd)
}
