package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"check-smartmon/pkg/types"
)

// Metrics holds all Prometheus metrics of one check run
type Metrics struct {
	registry *prometheus.Registry

	DeviceSeverity     *prometheus.GaugeVec
	DeviceHealthPassed *prometheus.GaugeVec
	AttributeRawValue  *prometheus.GaugeVec
	AttributeMissing   *prometheus.GaugeVec
	CheckUp            prometheus.Gauge
	CheckDuration      prometheus.Gauge
}

// New creates all metrics on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DeviceSeverity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smartmon_device_severity",
				Help: "Device check status (0=ok, 1=warning, 2=critical)",
			},
			[]string{"device"},
		),
		DeviceHealthPassed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smartmon_device_health_passed",
				Help: "Whether the SMART overall-health self-assessment passed",
			},
			[]string{"device"},
		),
		AttributeRawValue: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smartmon_attribute_raw_value",
				Help: "Raw value of an evaluated SMART attribute",
			},
			[]string{"device", "attribute"},
		),
		AttributeMissing: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smartmon_attribute_missing",
				Help: "Whether an evaluated SMART attribute was absent from the report",
			},
			[]string{"device", "attribute"},
		),
		CheckUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartmon_check_up",
				Help: "Whether the last check run completed without an UNKNOWN result",
			},
		),
		CheckDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "smartmon_check_duration_seconds",
				Help: "Duration of the last check run",
			},
		),
	}

	m.registry.MustRegister(
		m.DeviceSeverity,
		m.DeviceHealthPassed,
		m.AttributeRawValue,
		m.AttributeMissing,
		m.CheckUp,
		m.CheckDuration,
	)

	return m
}

// ObserveDevice records the snapshot and verdict of one device
func (m *Metrics) ObserveDevice(result types.DeviceResult) {
	device := result.Device

	m.DeviceSeverity.WithLabelValues(device).Set(float64(result.Verdict.Severity))
	m.DeviceHealthPassed.WithLabelValues(device).Set(boolToFloat(result.Snapshot.HealthPassed()))

	for _, id := range types.KnownAttributes {
		name := id.MetricName()
		value := result.Snapshot.Value(id)
		if value == nil {
			m.AttributeMissing.WithLabelValues(device, name).Set(1)
			continue
		}
		m.AttributeMissing.WithLabelValues(device, name).Set(0)
		m.AttributeRawValue.WithLabelValues(device, name).Set(float64(*value))
	}
}

// ObserveRun records the outcome of the whole run
func (m *Metrics) ObserveRun(up bool, duration time.Duration) {
	m.CheckUp.Set(boolToFloat(up))
	m.CheckDuration.Set(duration.Seconds())
}

// WriteTextfile writes all metrics to path in the node_exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Reset clears all per-device metrics
func (m *Metrics) Reset() {
	m.DeviceSeverity.Reset()
	m.DeviceHealthPassed.Reset()
	m.AttributeRawValue.Reset()
	m.AttributeMissing.Reset()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
