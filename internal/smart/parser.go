// Package smart turns the text reports of `smartctl -H` and `smartctl -A` into device snapshots.
package smart

import (
	"strings"

	"check-smartmon/pkg/types"
)

// DataSectionHeader precedes the overall-health line in `smartctl -H` output
const DataSectionHeader = "=== START OF READ SMART DATA SECTION ==="

// Attributes holds the evaluated attribute values found in an attribute report
type Attributes map[types.AttributeID]int64

// Parse builds a snapshot for device from its health and attribute reports
func Parse(device, healthBlock, attributeBlock string) (types.DeviceSnapshot, error) {
	snapshot := types.DeviceSnapshot{Device: device}

	status, err := ParseHealthStatus(healthBlock)
	if err != nil {
		return snapshot, err
	}
	snapshot.HealthStatus = status

	attrs, err := ParseAttributes(attributeBlock)
	if err != nil {
		return snapshot, err
	}
	snapshot.Temperature = attrs.value(types.AttrTemperature)
	snapshot.ReallocatedSectors = attrs.value(types.AttrReallocatedSectors)
	snapshot.SpinRetryCount = attrs.value(types.AttrSpinRetryCount)
	snapshot.ReadFailureSectors = attrs.value(types.AttrReadFailureSectors)

	return snapshot, nil
}

// ParseHealthStatus returns the last token of the line following DataSectionHeader,
// e.g. "PASSED" for "SMART overall-health self-assessment test result: PASSED".
func ParseHealthStatus(healthBlock string) (string, error) {
	lines := splitLines(healthBlock)

	statusLine := ""
	found := false
	for i, line := range lines {
		if line == DataSectionHeader {
			found = true
			if i+1 < len(lines) {
				statusLine = lines[i+1]
			}
			break
		}
	}

	parts := strings.Fields(statusLine)
	if len(parts) == 0 {
		detail := "data section header not found"
		if found {
			detail = "no status line after data section header"
		}
		return "", &ParseError{Reason: ErrEmptyStatusLine, Detail: detail}
	}

	return parts[len(parts)-1], nil
}

// ParseAttributes extracts the known attributes from `smartctl -A` output.
// Unknown ids, headers and blank lines are skipped; a malformed known line is a *FormatError.
func ParseAttributes(attributeBlock string) (Attributes, error) {
	attrs := make(Attributes)

	for i, text := range splitLines(attributeBlock) {
		line := NewAttributeLine(text, i+1)
		if line.Blank() {
			continue
		}

		id, ok := line.ID()
		if !ok || !isKnown(id) {
			continue
		}

		raw, err := line.RawValue()
		if err != nil {
			return nil, err
		}
		attrs[id] = raw
	}

	return attrs, nil
}

func (a Attributes) value(id types.AttributeID) *int64 {
	v, ok := a[id]
	if !ok {
		return nil
	}
	return types.Int64(v)
}

func isKnown(id types.AttributeID) bool {
	for _, known := range types.KnownAttributes {
		if id == known {
			return true
		}
	}
	return false
}

func splitLines(block string) []string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
