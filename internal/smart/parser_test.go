package smart

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"check-smartmon/pkg/types"
)

const healthPassed = `smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.10.0-21-amd64] (local build)
Copyright (C) 2002-20, Bruce Allen, Christian Franke, www.smartmontools.org

=== START OF READ SMART DATA SECTION ===
SMART overall-health self-assessment test result: PASSED

`

const healthFailed = `smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.10.0-21-amd64] (local build)
Copyright (C) 2002-20, Bruce Allen, Christian Franke, www.smartmontools.org

=== START OF READ SMART DATA SECTION ===
SMART overall-health self-assessment test result: FAILED!
Drive failure expected in less than 24 hours. SAVE ALL DATA.
`

const attributesNominal = `smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.10.0-21-amd64] (local build)
Copyright (C) 2002-20, Bruce Allen, Christian Franke, www.smartmontools.org

=== START OF READ SMART DATA SECTION ===
SMART Attributes Data Structure revision number: 16
Vendor Specific SMART Attributes with Thresholds:
ID# ATTRIBUTE_NAME          FLAG     VALUE WORST THRESH TYPE      UPDATED  WHEN_FAILED RAW_VALUE
  1 Raw_Read_Error_Rate     0x000f   200   200   051    Pre-fail  Always       -       0
  3 Spin_Up_Time            0x0027   178   175   021    Pre-fail  Always       -       6066
  5 Reallocated_Sector_Ct   0x0033   200   200   140    Pre-fail  Always       -       0
  9 Power_On_Hours          0x0032   065   065   000    Old_age   Always       -       25983
 10 Spin_Retry_Count        0x0032   100   100   000    Old_age   Always       -       0
194 Temperature_Celsius     0x0022   110   099   000    Old_age   Always       -       40 (Min/Max 18/51)
197 Current_Pending_Sector  0x0032   200   200   000    Old_age   Always       -       0
198 Offline_Uncorrectable   0x0030   200   200   000    Old_age   Offline      -       0

`

func TestParseHealthStatus(t *testing.T) {
	status, err := ParseHealthStatus(healthPassed)
	require.NoError(t, err)
	assert.Equal(t, "PASSED", status)

	status, err = ParseHealthStatus(healthFailed)
	require.NoError(t, err)
	assert.Equal(t, "FAILED!", status)
}

func TestParseHealthStatusCRLF(t *testing.T) {
	block := strings.ReplaceAll(healthPassed, "\n", "\r\n")

	status, err := ParseHealthStatus(block)
	require.NoError(t, err)
	assert.Equal(t, "PASSED", status)
}

func TestParseHealthStatusEmptyStatusLine(t *testing.T) {
	testCases := []struct {
		name  string
		block string
	}{
		{"empty output", ""},
		{"no data section", "smartctl 7.2\nSMART support is: Unavailable - device lacks SMART capability.\n"},
		{"header is last line", "smartctl 7.2\n" + DataSectionHeader},
		{"blank status line", DataSectionHeader + "\n   \nSMART overall-health self-assessment test result: PASSED\n"},
		{"header must match exactly", "  " + DataSectionHeader + "\nresult: PASSED\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHealthStatus(tc.block)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyStatusLine), "expected ErrEmptyStatusLine, got %v", err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestParseAttributes(t *testing.T) {
	attrs, err := ParseAttributes(attributesNominal)
	require.NoError(t, err)

	assert.Equal(t, Attributes{
		types.AttrTemperature:        40,
		types.AttrReallocatedSectors: 0,
		types.AttrSpinRetryCount:     0,
		types.AttrReadFailureSectors: 0,
	}, attrs)
}

func TestParseAttributesIgnoresUnknownAndBlankLines(t *testing.T) {
	block := "\n\n  9 Power_On_Hours 0x0032 065 065 000 Old_age Always - 25983\n199 UDMA_CRC_Error_Count 0x003e\n\t\n"

	attrs, err := ParseAttributes(block)
	require.NoError(t, err)
	assert.Empty(t, attrs)
}

func TestParseAttributesLastValueWins(t *testing.T) {
	block := "194 Temperature_Celsius 0x0022 110 099 000 Old_age Always - 40\n" +
		"194 Temperature_Celsius 0x0022 110 099 000 Old_age Always - 47\n"

	attrs, err := ParseAttributes(block)
	require.NoError(t, err)
	assert.Equal(t, int64(47), attrs[types.AttrTemperature])
}

func TestParseAttributesTruncatedLine(t *testing.T) {
	block := "ID# ATTRIBUTE_NAME FLAG VALUE WORST THRESH TYPE UPDATED WHEN_FAILED RAW_VALUE\n" +
		"  5 Reallocated_Sector_Ct   0x0033   200   200   140    Pre-fail  Always\n"

	_, err := ParseAttributes(block)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncatedAttributeLine))

	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.LineNo)
	assert.Equal(t, 8, formatErr.Fields)
}

func TestParseAttributesInvalidRawValue(t *testing.T) {
	block := "197 Current_Pending_Sector 0x0032 200 200 000 Old_age Always - n/a\n"

	_, err := ParseAttributes(block)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRawValue))
}

func TestParseRoundTrip(t *testing.T) {
	block := "194 Temperature_Celsius 0x0022 110 099 000 Old_age Always - 40\n" +
		"5 Reallocated_Sector_Ct 0x0033 200 200 140 Pre-fail Always - 0\n" +
		"10 Spin_Retry_Count 0x0032 100 100 000 Old_age Always - 0\n" +
		"197 Current_Pending_Sector 0x0032 200 200 000 Old_age Always - 0\n"

	snapshot, err := Parse("/dev/sda", healthPassed, block)
	require.NoError(t, err)

	assert.Equal(t, "/dev/sda", snapshot.Device)
	assert.Equal(t, "PASSED", snapshot.HealthStatus)
	require.NotNil(t, snapshot.Temperature)
	require.NotNil(t, snapshot.ReallocatedSectors)
	require.NotNil(t, snapshot.SpinRetryCount)
	require.NotNil(t, snapshot.ReadFailureSectors)
	assert.Equal(t, int64(40), *snapshot.Temperature)
	assert.Equal(t, int64(0), *snapshot.ReallocatedSectors)
	assert.Equal(t, int64(0), *snapshot.SpinRetryCount)
	assert.Equal(t, int64(0), *snapshot.ReadFailureSectors)
}

func TestParseMissingAttributeStaysUnset(t *testing.T) {
	block := strings.Replace(attributesNominal,
		"  5 Reallocated_Sector_Ct   0x0033   200   200   140    Pre-fail  Always       -       0\n", "", 1)

	snapshot, err := Parse("/dev/sdb", healthPassed, block)
	require.NoError(t, err)
	assert.Nil(t, snapshot.ReallocatedSectors)
	assert.NotNil(t, snapshot.Temperature)
}

func TestParsePropagatesHealthError(t *testing.T) {
	_, err := Parse("/dev/sdc", "", attributesNominal)
	assert.ErrorIs(t, err, ErrEmptyStatusLine)
}

func TestAttributeLine(t *testing.T) {
	line := NewAttributeLine("194 Temperature_Celsius 0x0022 110 099 000 Old_age Always - 36 (0 23 0 0 0)", 7)

	id, ok := line.ID()
	require.True(t, ok)
	assert.Equal(t, types.AttrTemperature, id)

	raw, err := line.RawValue()
	require.NoError(t, err)
	assert.Equal(t, int64(36), raw)

	for _, text := range []string{"ID# ATTRIBUTE_NAME", "05 Reallocated_Sector_Ct", "+5 x", ""} {
		_, ok := NewAttributeLine(text, 1).ID()
		assert.False(t, ok, "expected %q to have no attribute id", text)
	}
}
