package types

import (
	"fmt"
	"strings"
)

// Severity is a Nagios plugin status. The ordinal doubles as the process exit code.
type Severity int

const (
	SeverityOK       Severity = 0
	SeverityWarning  Severity = 1
	SeverityCritical Severity = 2
	// SeverityUnknown is only produced by the CLI (tool missing, parse failure, ...).
	SeverityUnknown Severity = 3
)

// String returns the Nagios name of the severity
func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the plugin exit code for the severity
func (s Severity) ExitCode() int {
	return int(s)
}

// Merge returns the worse of two severities (literal integer max)
func Merge(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// ParseSeverity converts a case-insensitive name to a Severity
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "OK":
		return SeverityOK, nil
	case "WARNING":
		return SeverityWarning, nil
	case "CRITICAL":
		return SeverityCritical, nil
	case "UNKNOWN":
		return SeverityUnknown, nil
	default:
		return SeverityUnknown, fmt.Errorf("unknown severity %q", name)
	}
}
