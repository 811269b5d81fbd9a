package celero

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	osexec "os/exec"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirbyfan64/Celero/internal/config"
	"github.com/kirbyfan64/Celero/internal/exec"
	"github.com/kirbyfan64/Celero/internal/history"
	"github.com/kirbyfan64/Celero/internal/report"
	"github.com/kirbyfan64/Celero/internal/stats"
	"github.com/kirbyfan64/Celero/internal/telemetry"
	"github.com/kirbyfan64/Celero/internal/timer"
	"github.com/kirbyfan64/Celero/internal/ui"
	"github.com/kirbyfan64/Celero/pkg/bench"
)

// execCommand allows mocking git invocations in tests.
var execCommand = osexec.Command

// liveReporter is the surface of the dashboard the run loop depends on.
type liveReporter interface {
	Report(bench.Result)
	Wait()
}

// newTimer and newLive allow substituting the clock and the dashboard in
// tests.
var (
	newTimer = func() timer.Timer { return timer.Monotonic{} }
	newLive  = func(total int) liveReporter { return ui.NewLive(total) }
)

type runOptions struct {
	cfgFile     string
	groups      []string
	output      string
	jsonFile    string
	live        bool
	save        bool
	compare     bool
	threshold   float64
	archiveKind string
	archiveFile string
	archiveDSN  string
	metricsAddr string
	verbose     bool
}

// Run executes the registered benchmarks. args is the process argv without
// the program name; flags narrow which benchmarks run and select output,
// archiving and comparison behavior. It returns a non-nil error when any
// benchmark failed, missed its target, or regressed beyond the threshold, so
// callers can exit non-zero.
func Run(args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "celero",
		Short: "Run the registered benchmarks",
		Long: `Runs every registered benchmark group in registration order, the group
baseline first, and streams a result per benchmark as it completes. Results
can be archived and compared against previous runs to catch regressions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default ./celero.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.Flags().StringSliceVarP(&opts.groups, "group", "g", nil, "only run the named groups (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table or json")
	cmd.Flags().StringVar(&opts.jsonFile, "json-file", "", "also write results as JSON to a file")
	cmd.Flags().BoolVar(&opts.live, "live", false, "show a live dashboard while running")
	cmd.Flags().BoolVar(&opts.save, "save", false, "archive this run's results")
	cmd.Flags().BoolVar(&opts.compare, "compare", false, "compare against the latest archived run")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "regression threshold in percent (default from config)")
	cmd.Flags().StringVar(&opts.archiveKind, "archive-backend", "", "archive backend: file, sqlite or postgres")
	cmd.Flags().StringVar(&opts.archiveFile, "archive-file", "", "archive file path (file/sqlite backends)")
	cmd.Flags().StringVar(&opts.archiveDSN, "archive-dsn", "", "archive DSN (postgres backend)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "expose prometheus metrics on this address")

	cmd.AddCommand(newDistCmd(opts), newListCmd())
	return cmd
}

func runBenchmarks(cmd *cobra.Command, opts *runOptions) error {
	settings := config.Load(opts.cfgFile)
	applyFlagOverrides(cmd, opts, &settings)

	telemetry.InitLogger(settings.Verbose, settings.LogFile)

	if settings.MetricsAddr != "" {
		go func() {
			if err := telemetry.StartMetricsServer(settings.MetricsAddr); err != nil {
				slog.Error("metrics server stopped", "addr", settings.MetricsAddr, "error", err)
			}
		}()
	}

	reg := bench.Default()
	if reg.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No benchmarks registered.")
		return nil
	}

	var reporters report.Multi
	var jsonOut *report.JSONWriter
	switch strings.ToLower(opts.output) {
	case "table", "":
		reporters = append(reporters, report.NewConsole(cmd.OutOrStdout()))
	case "json":
		jsonOut = report.NewJSONWriter(cmd.OutOrStdout())
		reporters = append(reporters, jsonOut)
	default:
		return fmt.Errorf("unknown output format: %s", opts.output)
	}

	var jsonFile *os.File
	var jsonFileOut *report.JSONWriter
	if opts.jsonFile != "" {
		f, err := os.Create(opts.jsonFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.jsonFile, err)
		}
		jsonFile = f
		jsonFileOut = report.NewJSONWriter(f)
		reporters = append(reporters, jsonFileOut)
	}

	var live liveReporter
	if opts.live {
		live = newLive(registered(reg, opts.groups))
		reporters = append(reporters, live)
	}

	executor := exec.New(newTimer(), reporters, exec.Config{Adaptive: settings.Adaptive()})
	results, runErr := executor.Run(reg, opts.groups)

	// The dashboard owns the terminal, so it must shut down on every exit
	// path, fatal timer errors included.
	if live != nil {
		live.Wait()
	}
	if runErr != nil && !errors.Is(runErr, exec.ErrRunFailed) {
		// Timer breakage: nothing was measured, so skip the JSON output.
		if jsonFile != nil {
			jsonFile.Close()
		}
		return runErr
	}
	if jsonOut != nil {
		if err := jsonOut.Close(); err != nil {
			return err
		}
	}
	if jsonFileOut != nil {
		if err := jsonFileOut.Close(); err != nil {
			return err
		}
		if err := jsonFile.Close(); err != nil {
			return err
		}
	}

	archiveErr := archiveAndCompare(cmd, opts, settings, results)
	if runErr != nil {
		return runErr
	}
	return archiveErr
}

// applyFlagOverrides lets explicit flags win over file/env configuration.
func applyFlagOverrides(cmd *cobra.Command, opts *runOptions, settings *config.Settings) {
	if opts.verbose {
		settings.Verbose = true
	}
	if cmd.Flags().Changed("threshold") {
		settings.RegressionThreshold = opts.threshold
	}
	if opts.archiveKind != "" {
		settings.ArchiveBackend = opts.archiveKind
	}
	if opts.archiveFile != "" {
		settings.ArchiveFile = opts.archiveFile
	}
	if opts.archiveDSN != "" {
		settings.ArchiveDSN = opts.archiveDSN
	}
	if opts.metricsAddr != "" {
		settings.MetricsAddr = opts.metricsAddr
	}
}

func archiveAndCompare(cmd *cobra.Command, opts *runOptions, settings config.Settings, results []bench.Result) error {
	if !opts.save && !opts.compare {
		return nil
	}

	store, err := history.NewStore(history.StoreConfig{
		Backend: settings.ArchiveBackend,
		Path:    settings.ArchiveFile,
		DSN:     settings.ArchiveDSN,
	})
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer store.Close()

	var regressed []history.Comparison
	if opts.compare {
		prev, err := store.LoadLatest()
		if err != nil {
			return fmt.Errorf("failed to load archive: %w", err)
		}
		if prev == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No archived run to compare against.")
		} else {
			comparisons := history.Compare(*prev, results)
			regressed = history.Regressions(comparisons, settings.RegressionThreshold)
			printComparison(cmd, comparisons, settings.RegressionThreshold)
		}
	}

	if opts.save {
		run := history.Run{Timestamp: time.Now(), Results: results}
		if commit, err := gitCommit(); err == nil {
			run.Commit = commit
		}
		if err := store.Save(run); err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun archived.")
	}

	if len(regressed) > 0 {
		return fmt.Errorf("%d benchmark(s) regressed beyond %.1f%%", len(regressed), settings.RegressionThreshold)
	}
	return nil
}

func printComparison(cmd *cobra.Command, comparisons []history.Comparison, threshold float64) {
	if len(comparisons) == 0 {
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "\nBENCHMARK\tPREV MEAN\tCURR MEAN\tDIFF %\tSTATUS")
	for _, c := range comparisons {
		status := "ok"
		if c.Regressed(threshold) {
			status = "REGRESSED"
		}
		fmt.Fprintf(w, "%s/%s\t%v\t%v\t%+.2f%%\t%s\n",
			c.Group, c.Name, c.Prev.Mean, c.Curr.Mean, c.MeanDiffPct, status)
	}
	w.Flush()
}

func gitCommit() (string, error) {
	out, err := execCommand("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func registered(reg *bench.Registry, groups []string) int {
	if len(groups) == 0 {
		return reg.Len()
	}
	n := 0
	for _, g := range groups {
		n += len(reg.Group(g))
	}
	return n
}

func newDistCmd(parent *runOptions) *cobra.Command {
	var samples, iterations int

	cmd := &cobra.Command{
		Use:   "dist",
		Short: "Characterize the measurement noise floor",
		Long: `Runs workload-free samples through the same measurement loop ordinary
benchmarks use and prints every raw elapsed time, so the spread introduced by
the measurement apparatus itself can be inspected.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Load(parent.cfgFile)
			telemetry.InitLogger(settings.Verbose || parent.verbose, settings.LogFile)

			durations, err := BuildDistribution(samples, iterations)
			if err != nil {
				return err
			}
			for _, d := range durations {
				fmt.Fprintln(cmd.OutOrStdout(), d.Nanoseconds())
			}

			sum := stats.Summarize(durations, iterations)
			fmt.Fprintf(cmd.ErrOrStderr(), "samples=%d mean=%v min=%v max=%v stddev=%v\n",
				sum.Count, sum.Mean, sum.Min, sum.Max, sum.StdDev)
			return nil
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "s", 256, "number of workload-free samples")
	cmd.Flags().IntVarP(&iterations, "iterations", "i", 16, "empty-body iterations per sample")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered benchmarks without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := bench.Default()
			if reg.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No benchmarks registered.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "GROUP\tBENCHMARK\tROLE\tSAMPLES\tITERATIONS\tTARGET")
			for _, group := range reg.Groups() {
				for _, b := range reg.Group(group) {
					samples := fmt.Sprintf("%d", b.Samples)
					if b.Samples == 0 {
						samples = "adaptive"
					}
					target := "-"
					if b.Target > 0 {
						target = fmt.Sprintf("%.0f ops/sec", b.Target)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
						b.Group, b.Name, b.Role, samples, b.Iterations, target)
				}
			}
			return w.Flush()
		},
	}
}
