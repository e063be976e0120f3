package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"check-smartmon/internal/check"
	"check-smartmon/internal/collector"
	"check-smartmon/internal/config"
	"check-smartmon/internal/disk"
	"check-smartmon/internal/disk/tools"
	"check-smartmon/internal/logging"
	"check-smartmon/internal/metrics"
	"check-smartmon/internal/report"
	"check-smartmon/internal/system"
	"check-smartmon/internal/utils"
	"check-smartmon/pkg/types"
)

// Build-time variables (set via -ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// execute runs the plugin and returns its exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// --help and --version leave the exit code at OK
	exitCode := types.SeverityOK.ExitCode()
	cmd := newRootCmd(stdout, stderr, &exitCode)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		// flag and configuration errors never reach the check
		fmt.Fprintf(stdout, "UNKNOWN: %v\n", err)
		return types.SeverityUnknown.ExitCode()
	}
	return exitCode
}

func newRootCmd(stdout, stderr io.Writer, exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "check-smartmon [flags] [device...]",
		Short:         "Nagios plugin checking the SMART health of disks",
		Long:          "Checks the SMART health self-assessment and the temperature, reallocated sector, spin retry and pending sector attributes of one or more disks using smartctl.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("check-smartmon {{.Version}}\n")

	flags := config.AddFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.Load(cmd.Flags(), args)
		if err != nil {
			return err
		}
		severity := runCheck(cmd.Context(), cfg, stdout, stderr)
		*exitCode = severity.ExitCode()
		return nil
	}

	return cmd
}

// runCheck checks all configured devices, writes the report and returns the plugin status
func runCheck(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) types.Severity {
	logger := logging.New(stderr, cfg.Verbosity)
	writer := report.NewWriter(stdout, report.Format(cfg.Output))

	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
	}

	start := time.Now()
	run, err := checkDevices(ctx, cfg, m, logger)

	if m != nil {
		m.ObserveRun(err == nil, time.Since(start))
		if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.WithError(werr).Error("Failed to write metrics")
		}
	}

	if err != nil {
		logger.WithError(err).Debug("Check could not determine device health")
		if werr := writer.WriteUnknown(run, err); werr != nil {
			logger.WithError(werr).Error("Failed to write report")
		}
		return types.SeverityUnknown
	}

	if err := writer.Write(run); err != nil {
		logger.WithError(err).Error("Failed to write report")
		return types.SeverityUnknown
	}
	return run.Severity
}

func checkDevices(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger log.FieldLogger) (report.Run, error) {
	executor := tools.NewExecutor(logger)
	tool := tools.NewSmartCtlTool(utils.ResolveCommand(cfg.SmartctlPath), cfg.Timeout, executor, logger)

	run := report.Run{
		Thresholds: cfg.Thresholds,
		Smartctl:   types.SmartctlInfo{Path: tool.Path()},
		Version:    version,
	}

	info := system.New(tool, tool.Path(), logger).Detect()
	if !info.CanMonitorSMART() {
		// report why smartctl cannot be used
		return run, tool.Check()
	}
	run.Smartctl.Version = info.SmartctlVersion
	logger.Infof("Path to smartctl: %s", info.SmartctlPath)

	manager, err := disk.New(tool, cfg.Devices, cfg.IgnorePatterns, logger)
	if err != nil {
		return run, err
	}
	devices, err := manager.Devices(ctx)
	if err != nil {
		return run, unwrapScanError(err)
	}
	if len(devices) == 0 {
		return run, check.ErrNoDevices
	}

	policy, err := cfg.ExceededWarning()
	if err != nil {
		return run, err
	}

	c := collector.New(tool, m, collector.Options{
		Thresholds: cfg.Thresholds,
		Policy:     check.Policy{ExceededWarning: policy},
		Parallel:   cfg.Parallel,
	}, logger)

	results, err := c.Collect(ctx, devices)
	if err != nil {
		return run, err
	}
	run.Results = results

	verdicts := make([]types.Verdict, len(results))
	for i, result := range results {
		verdicts[i] = result.Verdict
	}
	run.Severity, run.Message, err = check.Aggregate(verdicts)
	return run, err
}

// unwrapScanError reports a failed scan the same way as any other failed smartctl call
func unwrapScanError(err error) error {
	var toolErr *tools.ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}
	return err
}
