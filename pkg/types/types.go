package types

import "fmt"

// AttributeID is the numeric SMART attribute identifier (first column of `smartctl -A`)
type AttributeID int

const (
	AttrReallocatedSectors AttributeID = 5   // Reallocated_Sector_Ct
	AttrSpinRetryCount     AttributeID = 10  // Spin_Retry_Count
	AttrTemperature        AttributeID = 194 // Temperature_Celsius
	AttrReadFailureSectors AttributeID = 197 // Current_Pending_Sector
)

// KnownAttributes lists the attributes the probe evaluates, in report order
var KnownAttributes = []AttributeID{
	AttrTemperature,
	AttrReallocatedSectors,
	AttrSpinRetryCount,
	AttrReadFailureSectors,
}

// MetricName returns the short name used in plugin output
func (id AttributeID) MetricName() string {
	switch id {
	case AttrTemperature:
		return "temperature"
	case AttrReallocatedSectors:
		return "write-failures"
	case AttrSpinRetryCount:
		return "spin-retry"
	case AttrReadFailureSectors:
		return "read-failures"
	default:
		return fmt.Sprintf("attribute-%d", int(id))
	}
}

// Limits is a (warning, critical) pair. Values above a limit exceed it.
type Limits struct {
	Warning  int64 `yaml:"warning" json:"warning"`
	Critical int64 `yaml:"critical" json:"critical"`
}

// ThresholdProfile holds the limits for every evaluated metric
type ThresholdProfile struct {
	Temperature        Limits `yaml:"temperature" json:"temperature"`
	ReallocatedSectors Limits `yaml:"reallocated_sectors" json:"reallocated_sectors"`
	SpinRetryCount     Limits `yaml:"spin_retry_count" json:"spin_retry_count"`
	ReadFailureSectors Limits `yaml:"read_failure_sectors" json:"read_failure_sectors"`
}

// DefaultThresholdProfile returns the stock limits: 55/60 degrees, zero tolerance elsewhere
func DefaultThresholdProfile() ThresholdProfile {
	return ThresholdProfile{
		Temperature:        Limits{Warning: 55, Critical: 60},
		ReallocatedSectors: Limits{Warning: 0, Critical: 0},
		SpinRetryCount:     Limits{Warning: 0, Critical: 0},
		ReadFailureSectors: Limits{Warning: 0, Critical: 0},
	}
}

// For returns the limits configured for the given attribute
func (p ThresholdProfile) For(id AttributeID) Limits {
	switch id {
	case AttrTemperature:
		return p.Temperature
	case AttrReallocatedSectors:
		return p.ReallocatedSectors
	case AttrSpinRetryCount:
		return p.SpinRetryCount
	case AttrReadFailureSectors:
		return p.ReadFailureSectors
	default:
		return Limits{}
	}
}

// Validate checks that no warning limit is above its critical limit
func (p ThresholdProfile) Validate() error {
	for _, id := range KnownAttributes {
		l := p.For(id)
		if l.Warning > l.Critical {
			return fmt.Errorf("%s: warning threshold %d is above critical threshold %d",
				id.MetricName(), l.Warning, l.Critical)
		}
	}
	return nil
}

// DeviceSnapshot is one device's SMART state as parsed from smartctl output.
// A nil metric means the attribute was absent from the report.
type DeviceSnapshot struct {
	Device             string
	HealthStatus       string
	Temperature        *int64
	ReallocatedSectors *int64
	SpinRetryCount     *int64
	ReadFailureSectors *int64
}

// Value returns the measured value for an attribute, or nil if it was not reported
func (s DeviceSnapshot) Value(id AttributeID) *int64 {
	switch id {
	case AttrTemperature:
		return s.Temperature
	case AttrReallocatedSectors:
		return s.ReallocatedSectors
	case AttrSpinRetryCount:
		return s.SpinRetryCount
	case AttrReadFailureSectors:
		return s.ReadFailureSectors
	default:
		return nil
	}
}

// HealthPassed reports whether the overall self-assessment reads PASSED
func (s DeviceSnapshot) HealthPassed() bool {
	return s.HealthStatus == HealthStatusPassed
}

// HealthStatusPassed is the self-assessment token of a healthy device
const HealthStatusPassed = "PASSED"

// Finding is the outcome of comparing one metric against its limits
type Finding struct {
	Attribute AttributeID
	Name      string
	Value     *int64
	Limits    Limits
	Severity  Severity
}

// Missing reports whether the metric was absent from the report
func (f Finding) Missing() bool {
	return f.Value == nil
}

// Verdict is the evaluated state of one device
type Verdict struct {
	Device   string
	Severity Severity
	Message  string
	Findings []Finding
}

// DeviceResult carries everything known about one checked device
type DeviceResult struct {
	Device   string
	Snapshot DeviceSnapshot
	Verdict  Verdict
}

// Int64 returns a pointer to v
func Int64(v int64) *int64 {
	return &v
}
