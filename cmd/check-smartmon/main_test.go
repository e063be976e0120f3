package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"check-smartmon/pkg/types"
)

const healthReport = `smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.10.0-21-amd64] (local build)
Copyright (C) 2002-20, Bruce Allen, Christian Franke, www.smartmontools.org

=== START OF READ SMART DATA SECTION ===
SMART overall-health self-assessment test result: %s

`

const attributeReport = `smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.10.0-21-amd64] (local build)
Copyright (C) 2002-20, Bruce Allen, Christian Franke, www.smartmontools.org

=== START OF READ SMART DATA SECTION ===
SMART Attributes Data Structure revision number: 16
Vendor Specific SMART Attributes with Thresholds:
ID# ATTRIBUTE_NAME          FLAG     VALUE WORST THRESH TYPE      UPDATED  WHEN_FAILED RAW_VALUE
  1 Raw_Read_Error_Rate     0x000f   200   200   051    Pre-fail  Always       -       0
  5 Reallocated_Sector_Ct   0x0033   200   200   140    Pre-fail  Always       -       0
  9 Power_On_Hours          0x0032   065   065   000    Old_age   Always       -       25983
 10 Spin_Retry_Count        0x0032   100   100   000    Old_age   Always       -       0
194 Temperature_Celsius     0x0022   110   099   000    Old_age   Always       -       %d
197 Current_Pending_Sector  0x0032   200   200   000    Old_age   Always       -       0

`

// fakeSmartctl answers like smartctl from files next to each device node
const fakeSmartctl = `#!/bin/sh
case "$1" in
--version)
	echo "smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.10.0-21-amd64] (local build)"
	;;
--scan)
	cat "%[1]s/scan"
	;;
-H|-A)
	if [ -f "$2.stderr" ]; then
		cat "$2.stderr" >&2
		exit 2
	fi
	if [ "$1" = "-H" ]; then cat "$2.health"; else cat "$2.attrs"; fi
	;;
esac
`

type fixture struct {
	t        *testing.T
	dir      string
	smartctl string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	for _, key := range []string{"SMARTMON_CONFIG", "SMARTMON_SMARTCTL_PATH", "SMARTMON_TIMEOUT", "SMARTMON_METRICS_FILE"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	smartctl := filepath.Join(dir, "smartctl")
	require.NoError(t, os.WriteFile(smartctl, []byte(fmt.Sprintf(fakeSmartctl, dir)), 0o755))
	return &fixture{t: t, dir: dir, smartctl: smartctl}
}

// addDevice creates a readable device node with the given health status and temperature
func (f *fixture) addDevice(name, health string, temperature int) string {
	f.t.Helper()
	device := filepath.Join(f.dir, name)
	f.write(device, "")
	f.write(device+".health", fmt.Sprintf(healthReport, health))
	f.write(device+".attrs", fmt.Sprintf(attributeReport, temperature))
	return device
}

func (f *fixture) write(path, content string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o600))
}

func (f *fixture) run(args ...string) (int, string, string) {
	f.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--smartctl-path", f.smartctl}, args...)
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func okMessage(device string, temperature int) string {
	return fmt.Sprintf("%s(temperature:%d of (55,60), write-failures:0 of (0,0), spin-retry:0 of (0,0), read-failures:0 of (0,0))", device, temperature)
}

func TestCheckHealthyDevice(t *testing.T) {
	f := newFixture(t)
	sda := f.addDevice("sda", "PASSED", 40)

	code, stdout, stderr := f.run("-d", sda)

	assert.Equal(t, 0, code)
	assert.Equal(t, okMessage(sda, 40)+"\n\n", stdout)
	assert.Empty(t, stderr)
}

func TestCheckScannedDevices(t *testing.T) {
	f := newFixture(t)
	sda := f.addDevice("sda", "PASSED", 40)
	sdb := f.addDevice("sdb", "PASSED", 65)
	f.addDevice("sdx", "FAILED!", 40)
	f.write(filepath.Join(f.dir, "scan"), fmt.Sprintf(
		"%s -d sat # %s, ATA device\n%s -d sat # %s, ATA device\n%s/sdx -d sat # ignored\n",
		sda, sda, sdb, sdb, f.dir))

	code, stdout, _ := f.run("--ignore", f.dir+"/sdx", "--parallel", "2")

	assert.Equal(t, 2, code)
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, okMessage(sda, 40), lines[0])
	assert.Contains(t, lines[1], "CRITICAL-TEMPERATURE:65 of (55,60)")
}

func TestCheckFailedHealth(t *testing.T) {
	f := newFixture(t)
	sda := f.addDevice("sda", "FAILED!", 20)

	code, stdout, _ := f.run(sda)

	assert.Equal(t, 2, code)
	assert.Equal(t, "CRITICAL: device does not pass health status\n\n", stdout)
}

func TestCheckWarningPolicy(t *testing.T) {
	f := newFixture(t)
	sda := f.addDevice("sda", "PASSED", 48)

	code, _, _ := f.run("-d", sda, "-w", "45", "-c", "50")
	assert.Equal(t, 2, code)

	code, stdout, _ := f.run("-d", sda, "-w", "45", "-c", "50", "--exceeded-warning-severity", "warning")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "WARNING-TEMPERATURE:48 of (45,50)")
}

func TestCheckUnknown(t *testing.T) {
	f := newFixture(t)
	sda := f.addDevice("sda", "PASSED", 40)
	sdc := f.addDevice("sdc", "PASSED", 40)
	f.write(sdc+".stderr", "Smartctl open device: "+sdc+" failed: No such device\n")
	missing := filepath.Join(f.dir, "sdz")
	noExec := filepath.Join(f.dir, "smartctl.noexec")
	f.write(noExec, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing device", []string{"-d", missing}, fmt.Sprintf("UNKNOWN: no such device found %q\n", missing)},
		{"smartctl stderr", []string{"-d", sdc}, "UNKNOWN: call exits unexpectedly (Smartctl open device: " + sdc + " failed: No such device)\n"},
		{"missing smartctl", []string{"--smartctl-path", filepath.Join(f.dir, "nope"), "-d", sda}, "UNKNOWN: cannot find " + filepath.Join(f.dir, "nope") + "\n"},
		{"smartctl not executable", []string{"--smartctl-path", noExec, "-d", sda}, "UNKNOWN: cannot execute " + noExec + "\n"},
		{"unknown flag", []string{"--bogus"}, "UNKNOWN: unknown flag: --bogus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := f.run(tt.args...)
			assert.Equal(t, 3, code)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestCheckNoDevicesFound(t *testing.T) {
	f := newFixture(t)
	f.write(filepath.Join(f.dir, "scan"), "# no devices\n")

	code, stdout, _ := f.run()

	assert.Equal(t, 3, code)
	assert.Equal(t, "UNKNOWN: no devices to check, specify at least one device\n", stdout)
}

func TestCheckJSONAndMetrics(t *testing.T) {
	f := newFixture(t)
	sda := f.addDevice("sda", "PASSED", 40)
	metricsFile := filepath.Join(f.dir, "smartmon.prom")

	code, stdout, _ := f.run("-d", sda, "-o", "json", "--metrics-file", metricsFile)
	require.Equal(t, 0, code)

	var got types.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "OK", got.Status)
	assert.Equal(t, f.smartctl, got.Smartctl.Path)
	assert.Contains(t, got.Smartctl.Version, "smartctl 7.2")
	require.Len(t, got.Disks, 1)
	assert.Equal(t, sda, got.Disks[0].Device)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), fmt.Sprintf("smartmon_device_severity{device=%q} 0", sda))
	assert.Contains(t, string(data), "smartmon_check_up 1")
}

func TestVerbosityLogsToStderr(t *testing.T) {
	f := newFixture(t)
	sda := f.addDevice("sda", "PASSED", 40)

	code, stdout, stderr := f.run("-d", sda, "-v", "3")

	assert.Equal(t, 0, code)
	assert.Equal(t, okMessage(sda, 40)+"\n\n", stdout)
	assert.Contains(t, stderr, "Path to smartctl: "+f.smartctl)
	assert.Contains(t, stderr, "Call smartctl")
	assert.Contains(t, stderr, "Health status: PASSED")
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), []string{"--version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "check-smartmon dev (commit unknown, built unknown)\n", stdout.String())
}
