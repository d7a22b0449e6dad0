// Package main provides the CLI entrypoint for hublog.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/hublog/internal/analysis"
	"github.com/verte-zerg/hublog/internal/config"
	"github.com/verte-zerg/hublog/internal/dashui"
	"github.com/verte-zerg/hublog/internal/logparse"
	"github.com/verte-zerg/hublog/internal/model"
	"github.com/verte-zerg/hublog/internal/report"
	"github.com/verte-zerg/hublog/internal/store"
)

// Validator exit codes.
const (
	exitOK          = 0
	exitCheckFailed = 1
	exitUsage       = 2
	exitMissingFile = 3
	exitReadError   = 4
)

var (
	checkTempRate  int64
	checkHumRate   int64
	checkPressRate int64
	checkWindow    int
	checkNoRecord  bool

	reportOutdir   string
	reportWindow   int
	reportBins     int
	reportNoRecord bool

	dashDuration float64
	dashWindow   int

	historyLogfile string
	historyLast    int
)

// exitError carries a process exit code through cobra's RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitErrf(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// exitError paths have already written their message.
		var xerr *exitError
		if errors.As(err, &xerr) {
			os.Exit(xerr.code)
		}
		logErrf("Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hublog",
		Short:         "Sensor-hub log validation and analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newDashCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <logfile> <duration_seconds>",
		Short: "Validate a hub log against sampling and alert expectations",
		Args:  cobra.ArbitraryArgs,
		RunE:  runCheckCmd,
	}
	cmd.Flags().Int64Var(&checkTempRate, "temp-rate-ms", 0, "TEMP sampling interval in ms (default from config or 500)")
	cmd.Flags().Int64Var(&checkHumRate, "hum-rate-ms", 0, "HUM sampling interval in ms (default from config or 700)")
	cmd.Flags().Int64Var(&checkPressRate, "press-rate-ms", 0, "PRESS sampling interval in ms (default from config or 1200)")
	cmd.Flags().IntVar(&checkWindow, "window", 0, "moving-average window (default from config or 5)")
	cmd.Flags().BoolVar(&checkNoRecord, "no-record", false, "skip recording the run in the history database")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		logErrln("Usage: hublog check <logfile> <duration_seconds>")
		return exitErrf(exitUsage, "expected 2 arguments, got %d", len(args))
	}
	logfile := args[0]
	durationS, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		logErrln("Invalid duration_seconds")
		return exitErrf(exitUsage, "invalid duration_seconds %q", args[1])
	}

	cfg, record, err := resolveCheckConfig(cmd)
	if err != nil {
		return err
	}
	cfg.DurationMs = int64(durationS * 1000)

	parsed, err := logparse.ParseFile(logfile)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("Log file not found: %s\n", logfile)
			return exitErrf(exitMissingFile, "log file not found: %s", logfile)
		}
		logErrf("Error reading log: %v\n", err)
		return exitErrf(exitReadError, "failed to read log: %w", err)
	}

	result := analysis.CheckLog(parsed, cfg)
	if err := report.WriteCheckReport(cmd.OutOrStdout(), logfile, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := report.WriteCheckFailures(cmd.ErrOrStderr(), result); err != nil {
		return fmt.Errorf("failed to write failures: %w", err)
	}

	if record && !checkNoRecord {
		recordRun(logfile, parsed, result)
	}

	if !result.Passed() {
		return &exitError{code: exitCheckFailed}
	}
	return nil
}

func resolveCheckConfig(cmd *cobra.Command) (model.CheckConfig, bool, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.CheckConfig{}, false, fmt.Errorf("failed to load config: %w", err)
	}
	rates := ratesFromConfig(fileCfg)
	applyRate(cmd, "temp-rate-ms", &checkTempRate, rates, model.SensorTemp)
	applyRate(cmd, "hum-rate-ms", &checkHumRate, rates, model.SensorHum)
	applyRate(cmd, "press-rate-ms", &checkPressRate, rates, model.SensorPress)

	window := model.DefaultWindow
	if fileCfg.Analysis.Window != nil && !cmd.Flags().Changed("window") {
		window = *fileCfg.Analysis.Window
	}
	if cmd.Flags().Changed("window") {
		window = checkWindow
	}
	if window < 1 {
		return model.CheckConfig{}, false, fmt.Errorf("--window must be >= 1")
	}
	for sensor, rate := range rates {
		if rate <= 0 {
			return model.CheckConfig{}, false, fmt.Errorf("%s rate must be > 0", sensor)
		}
	}

	record := true
	if fileCfg.Analysis.Record != nil {
		record = *fileCfg.Analysis.Record
	}
	return model.CheckConfig{Rates: rates, Window: window}, record, nil
}

// ratesFromConfig applies config-file rate overrides on top of the
// hub defaults.
func ratesFromConfig(fileCfg config.FileConfig) model.Rates {
	rates := model.DefaultRates()
	if fileCfg.Sensors.TempRateMs != nil {
		rates[model.SensorTemp] = *fileCfg.Sensors.TempRateMs
	}
	if fileCfg.Sensors.HumRateMs != nil {
		rates[model.SensorHum] = *fileCfg.Sensors.HumRateMs
	}
	if fileCfg.Sensors.PressRateMs != nil {
		rates[model.SensorPress] = *fileCfg.Sensors.PressRateMs
	}
	return rates
}

func applyRate(cmd *cobra.Command, name string, flagValue *int64, rates model.Rates, sensor model.SensorType) {
	if cmd.Flags().Changed(name) {
		rates[sensor] = *flagValue
	}
}

// recordRun persists a run in the history database. History is a
// convenience; failures are reported but never fail the check itself.
func recordRun(logfile string, parsed logparse.Result, result analysis.CheckResult) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open history db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()
	run := model.RunRecord{
		CheckedAt:  time.Now(),
		LogFile:    logfile,
		DurationMs: result.DurationMs,
		TotalLines: result.TotalLines,
		Passed:     result.Passed(),
	}
	rows := analysis.Summarize(parsed.Samples, parsed.Alerts)
	if _, err := st.InsertRun(context.Background(), run, rows); err != nil {
		logErrf("failed to record run: %v\n", err)
	}
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <logfile>",
		Short: "Write summary CSV and text charts for a hub log",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportOutdir, "outdir", "outputs", "directory to write outputs")
	cmd.Flags().IntVar(&reportWindow, "window", 0, "moving-average window (default from config or 5)")
	cmd.Flags().IntVar(&reportBins, "bins", 0, "histogram bin count (default from config or 30)")
	cmd.Flags().BoolVar(&reportNoRecord, "no-record", false, "skip recording the run in the history database")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	logfile := args[0]
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	window := model.DefaultWindow
	applyIntConfig(cmd, "window", &reportWindow, fileCfg.Analysis.Window, &window)
	bins := model.DefaultBins
	applyIntConfig(cmd, "bins", &reportBins, fileCfg.Analysis.Bins, &bins)
	if window < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if bins < 1 {
		return fmt.Errorf("--bins must be >= 1")
	}

	parsed, err := logparse.ParseFile(logfile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("logfile not found: %s", logfile)
		}
		return fmt.Errorf("failed to read log: %w", err)
	}
	if len(parsed.Samples) == 0 {
		return fmt.Errorf("no SAMPLE lines parsed from logfile")
	}

	if err := os.MkdirAll(reportOutdir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rows := analysis.Summarize(parsed.Samples, parsed.Alerts)
	csvPath := filepath.Join(reportOutdir, "summary.csv")
	if err := writeArtifact(csvPath, func(f *os.File) error {
		return report.WriteSummaryCSV(f, rows)
	}); err != nil {
		return err
	}
	logOutf(cmd, "Saved summary CSV: %s\n", csvPath)

	tablePath := filepath.Join(reportOutdir, "summary_table.txt")
	if err := writeArtifact(tablePath, func(f *os.File) error {
		return report.WriteSummaryTable(f, "Sensor Summary", rows)
	}); err != nil {
		return err
	}
	logOutf(cmd, "Saved summary table: %s\n", tablePath)

	grouped := analysis.BySensor(parsed.Samples)
	for _, sensor := range model.Sensors {
		samples := grouped[sensor]
		if len(samples) == 0 {
			logErrf("[warn] no samples for %s, skipping charts\n", sensor)
			continue
		}
		points := analysis.MovingAverageSeries(samples, window)
		tsPath := filepath.Join(reportOutdir, strings.ToLower(string(sensor))+"_timeseries.txt")
		if err := writeArtifact(tsPath, func(f *os.File) error {
			return report.WriteTimeseries(f, sensor, points, window, 0)
		}); err != nil {
			return err
		}
		logOutf(cmd, "Saved timeseries: %s\n", tsPath)

		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = s.Value
		}
		histPath := filepath.Join(reportOutdir, strings.ToLower(string(sensor))+"_hist.txt")
		if err := writeArtifact(histPath, func(f *os.File) error {
			return report.WriteHistogram(f, sensor, analysis.BinValues(values, bins), 0)
		}); err != nil {
			return err
		}
		logOutf(cmd, "Saved histogram: %s\n", histPath)
	}

	if len(parsed.Alerts) == 0 {
		logErrln("[warn] no ALERT lines found, skipping alerts_timeline")
	} else {
		timelinePath := filepath.Join(reportOutdir, "alerts_timeline.txt")
		if err := writeArtifact(timelinePath, func(f *os.File) error {
			return report.WriteAlertsTimeline(f, parsed.Alerts, 0)
		}); err != nil {
			return err
		}
		logOutf(cmd, "Saved alerts timeline: %s\n", timelinePath)
	}

	record := true
	if fileCfg.Analysis.Record != nil {
		record = *fileCfg.Analysis.Record
	}
	if record && !reportNoRecord {
		result := analysis.CheckLog(parsed, model.CheckConfig{
			Rates:      ratesFromConfig(fileCfg),
			Window:     window,
			DurationMs: sampleSpanMs(parsed.Samples),
		})
		recordRun(logfile, parsed, result)
	}

	logOutf(cmd, "Files written to: %s\n", reportOutdir)
	return nil
}

// sampleSpanMs is the observed run span, used when no duration argument
// is available.
func sampleSpanMs(samples []model.Sample) int64 {
	if len(samples) == 0 {
		return 0
	}
	minTs := samples[0].TimestampMs
	maxTs := samples[0].TimestampMs
	for _, s := range samples[1:] {
		if s.TimestampMs < minTs {
			minTs = s.TimestampMs
		}
		if s.TimestampMs > maxTs {
			maxTs = s.TimestampMs
		}
	}
	return maxTs - minTs
}

func writeArtifact(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func newDashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dash <logfile>",
		Short: "Interactive dashboard over a hub log",
		Args:  cobra.ExactArgs(1),
		RunE:  runDashCmd,
	}
	cmd.Flags().Float64Var(&dashDuration, "duration", 0, "run duration in seconds (default: observed sample span)")
	cmd.Flags().IntVar(&dashWindow, "window", 0, "moving-average window (default from config or 5)")
	return cmd
}

func runDashCmd(cmd *cobra.Command, args []string) error {
	logfile := args[0]
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	window := model.DefaultWindow
	applyIntConfig(cmd, "window", &dashWindow, fileCfg.Analysis.Window, &window)
	if window < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	parsed, err := logparse.ParseFile(logfile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("logfile not found: %s", logfile)
		}
		return fmt.Errorf("failed to read log: %w", err)
	}
	if len(parsed.Samples) == 0 {
		return fmt.Errorf("no SAMPLE lines parsed from logfile")
	}

	durationMs := sampleSpanMs(parsed.Samples)
	if cmd.Flags().Changed("duration") {
		durationMs = int64(dashDuration * 1000)
	}

	dashModel := dashui.NewModel(logfile, parsed, model.CheckConfig{
		Rates:      ratesFromConfig(fileCfg),
		Window:     window,
		DurationMs: durationMs,
	})
	program := tea.NewProgram(dashModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded analysis runs and per-sensor trends",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLogfile, "logfile", "", "filter runs by log file path")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	runs, err := st.ListRuns(ctx, model.HistoryFilter{LogFile: historyLogfile, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No runs recorded.")
		return err
	}

	for _, run := range runs {
		status := "PASS"
		if !run.Passed {
			status = "FAIL"
		}
		if _, err := fmt.Fprintf(out, "#%d  %s  %s  %dms  %d lines  %s\n",
			run.RunID, run.CheckedAt.Format(time.RFC3339), run.LogFile, run.DurationMs, run.TotalLines, status); err != nil {
			return err
		}
	}

	runIDs := make([]int64, len(runs))
	for i, run := range runs {
		runIDs[i] = run.RunID
	}
	for _, sensor := range model.Sensors {
		trend, err := st.SensorMeanTrend(ctx, runIDs, sensor)
		if err != nil {
			return fmt.Errorf("failed to load %s trend: %w", sensor, err)
		}
		if len(trend) < 2 {
			continue
		}
		if _, err := fmt.Fprintln(out, ""); err != nil {
			return err
		}
		if err := report.PlotSeries(out, fmt.Sprintf("%s mean across runs", sensor), []report.Series{
			{Name: "mean", Values: trend},
		}, 0, 0); err != nil {
			return fmt.Errorf("failed to plot %s trend: %w", sensor, err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	rates := model.DefaultRates()
	return fmt.Sprintf(`# hublog configuration
# Uncomment a value to enable it. CLI flags override config values.

[sensors]
# temp-rate-ms = %d       # TEMP sampling interval (ms)
# hum-rate-ms = %d        # HUM sampling interval (ms)
# press-rate-ms = %d     # PRESS sampling interval (ms)

[analysis]
# window = %d              # Moving-average window (samples)
# bins = %d               # Histogram bin count
# record = true           # Record runs in the history database
`,
		rates[model.SensorTemp],
		rates[model.SensorHum],
		rates[model.SensorPress],
		model.DefaultWindow,
		model.DefaultBins,
	)
}

func applyIntConfig(cmd *cobra.Command, name string, flagValue *int, fileValue *int, target *int) {
	if cmd.Flags().Changed(name) {
		*target = *flagValue
		return
	}
	if fileValue != nil {
		*target = *fileValue
	}
}

func logOutf(cmd *cobra.Command, format string, args ...any) {
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), format, args...); err != nil {
		// Best-effort progress output.
		_ = err
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
