// Package report renders the result of a check run for Nagios or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"check-smartmon/pkg/types"
)

const serviceName = "check-smartmon"

// Format is an output format
type Format string

const (
	FormatNagios Format = "nagios"
	FormatJSON   Format = "json"
)

// Run is everything a report is built from
type Run struct {
	Severity   types.Severity
	Message    string
	Results    []types.DeviceResult
	Thresholds types.ThresholdProfile
	Smartctl   types.SmartctlInfo
	Version    string
}

// Writer writes reports to an output stream
type Writer struct {
	w      io.Writer
	format Format
	now    func() time.Time
}

// NewWriter creates a writer for the given format
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{
		w:      w,
		format: format,
		now:    time.Now,
	}
}

// Write renders a completed run
func (w *Writer) Write(run Run) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSON(BuildReport(run, w.now()))
	default:
		// the aggregate message already ends each device with a newline
		_, err := fmt.Fprintln(w.w, run.Message)
		return err
	}
}

// WriteUnknown renders a run that could not determine the device state
func (w *Writer) WriteUnknown(run Run, cause error) error {
	run.Severity = types.SeverityUnknown
	run.Message = "UNKNOWN: " + cause.Error()

	switch w.format {
	case FormatJSON:
		return w.writeJSON(BuildReport(run, w.now()))
	default:
		_, err := fmt.Fprintln(w.w, run.Message)
		return err
	}
}

// BuildReport converts a run into its JSON representation
func BuildReport(run Run, now time.Time) *types.Report {
	disks := make([]types.DiskHealth, len(run.Results))
	summary := types.DiskSummary{TotalDisks: len(run.Results)}

	for i, result := range run.Results {
		verdict := result.Verdict

		disks[i] = types.DiskHealth{
			Device:       result.Device,
			HealthStatus: result.Snapshot.HealthStatus,
			Status:       verdict.Severity.String(),
			StatusCode:   verdict.Severity.ExitCode(),
			Message:      verdict.Message,
			Attributes:   attributeHealth(verdict.Findings),
		}

		// Count health statuses
		switch verdict.Severity {
		case types.SeverityOK:
			summary.HealthyDisks++
		case types.SeverityWarning:
			summary.WarningDisks++
		default:
			summary.CriticalDisks++
		}
	}

	return &types.Report{
		Status:      run.Severity.String(),
		StatusCode:  run.Severity.ExitCode(),
		Service:     serviceName,
		Version:     run.Version,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Message:     run.Message,
		Smartctl:    run.Smartctl,
		DiskSummary: summary,
		Disks:       disks,
		Thresholds:  run.Thresholds,
	}
}

func attributeHealth(findings []types.Finding) []types.AttributeHealth {
	if len(findings) == 0 {
		return nil
	}
	out := make([]types.AttributeHealth, len(findings))
	for i, f := range findings {
		out[i] = types.AttributeHealth{
			ID:       int(f.Attribute),
			Name:     f.Name,
			Value:    f.Value,
			Warning:  f.Limits.Warning,
			Critical: f.Limits.Critical,
			Status:   f.Severity.String(),
		}
	}
	return out
}

func (w *Writer) writeJSON(report *types.Report) error {
	encoder := json.NewEncoder(w.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
