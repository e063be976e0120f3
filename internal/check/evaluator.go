// Package check evaluates device snapshots against thresholds and merges the verdicts.
package check

import (
	"fmt"
	"strings"

	"check-smartmon/pkg/types"
)

// HealthFailedMessage replaces the per-attribute message of a device that fails its self-assessment
const HealthFailedMessage = "CRITICAL: device does not pass health status"

// Policy controls how a metric between its warning and critical limit is graded
type Policy struct {
	// ExceededWarning is the severity of a value above warning but not above critical.
	ExceededWarning types.Severity
}

// DefaultPolicy grades an exceeded warning limit as CRITICAL
func DefaultPolicy() Policy {
	return Policy{ExceededWarning: types.SeverityCritical}
}

// Evaluate grades a snapshot. A failed health self-assessment overrides every attribute.
func Evaluate(snapshot types.DeviceSnapshot, profile types.ThresholdProfile, policy Policy) types.Verdict {
	verdict := types.Verdict{
		Device:   snapshot.Device,
		Severity: types.SeverityOK,
		Findings: make([]types.Finding, 0, len(types.KnownAttributes)),
	}

	fragments := make([]string, 0, len(types.KnownAttributes))
	for _, id := range types.KnownAttributes {
		finding, fragment := compareStat(id, snapshot.Value(id), profile.For(id), policy)
		verdict.Findings = append(verdict.Findings, finding)
		verdict.Severity = types.Merge(verdict.Severity, finding.Severity)
		fragments = append(fragments, fragment)
	}
	verdict.Message = snapshot.Device + "(" + strings.Join(fragments, ", ") + ")"

	if !snapshot.HealthPassed() {
		verdict.Severity = types.SeverityCritical
		verdict.Message = HealthFailedMessage
	}

	return verdict
}

// compareStat grades one metric. A missing value exceeds every limit.
func compareStat(id types.AttributeID, value *int64, limits types.Limits, policy Policy) (types.Finding, string) {
	name := id.MetricName()
	finding := types.Finding{
		Attribute: id,
		Name:      name,
		Value:     value,
		Limits:    limits,
		Severity:  types.SeverityOK,
	}

	shown := "missing"
	if value != nil {
		shown = fmt.Sprintf("%d", *value)
	}

	label := name
	switch {
	case value == nil || *value > limits.Critical:
		finding.Severity = types.SeverityCritical
		label = "CRITICAL-" + strings.ToUpper(name)
	case *value > limits.Warning:
		finding.Severity = policy.ExceededWarning
		label = "WARNING-" + strings.ToUpper(name)
	}

	return finding, fmt.Sprintf("%s:%s of (%d,%d)", label, shown, limits.Warning, limits.Critical)
}
