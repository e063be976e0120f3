package check

import (
	"errors"
	"strings"

	"check-smartmon/pkg/types"
)

// ErrNoDevices is returned when there is nothing to aggregate
var ErrNoDevices = errors.New("no devices to check, specify at least one device")

// Aggregate merges per-device verdicts into the plugin result.
// The message keeps input order, one verdict message per line.
func Aggregate(verdicts []types.Verdict) (types.Severity, string, error) {
	if len(verdicts) == 0 {
		return types.SeverityUnknown, "", ErrNoDevices
	}

	severity := types.SeverityOK
	var sb strings.Builder
	for _, v := range verdicts {
		severity = types.Merge(severity, v.Severity)
		sb.WriteString(v.Message)
		sb.WriteString("\n")
	}

	return severity, sb.String(), nil
}
