package collector

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"check-smartmon/internal/check"
	"check-smartmon/internal/disk/tools"
	"check-smartmon/internal/metrics"
	"check-smartmon/internal/smart"
	"check-smartmon/internal/system"
	"check-smartmon/pkg/types"
)

// Options controls how devices are evaluated
type Options struct {
	Thresholds types.ThresholdProfile
	Policy     check.Policy
	// Parallel bounds the number of devices queried at once
	Parallel int
}

// Collector queries smartctl for each device and evaluates the result
type Collector struct {
	tool        tools.SmartToolInterface
	metrics     *metrics.Metrics
	opts        Options
	logger      log.FieldLogger
	checkDevice func(device string) error
}

// New creates a new collector. m may be nil when no metrics are wanted.
func New(tool tools.SmartToolInterface, m *metrics.Metrics, opts Options, logger log.FieldLogger) *Collector {
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	return &Collector{
		tool:        tool,
		metrics:     m,
		opts:        opts,
		logger:      logger,
		checkDevice: system.CheckDevice,
	}
}

// Collect checks all devices and returns their results in the given order.
// The first device that cannot be checked aborts the run and its error is returned.
func (c *Collector) Collect(ctx context.Context, devices []string) ([]types.DeviceResult, error) {
	start := time.Now()
	results := make([]types.DeviceResult, len(devices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Parallel)

	for i, device := range devices {
		g.Go(func() error {
			result, err := c.collectDevice(ctx, device)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.Reset()
		for _, result := range results {
			c.metrics.ObserveDevice(result)
		}
	}

	c.logger.WithFields(log.Fields{
		"devices":  len(results),
		"duration": time.Since(start).String(),
	}).Debug("Collected device health")

	return results, nil
}

// collectDevice runs the full check for a single device
func (c *Collector) collectDevice(ctx context.Context, device string) (types.DeviceResult, error) {
	logger := c.logger.WithField("device", device)

	logger.Debug("Check device")
	if err := c.checkDevice(device); err != nil {
		return types.DeviceResult{}, err
	}

	logger.Debug("Call smartctl")
	health, err := c.tool.Health(ctx, device)
	if err != nil {
		return types.DeviceResult{}, err
	}
	attributes, err := c.tool.Attributes(ctx, device)
	if err != nil {
		return types.DeviceResult{}, err
	}

	logger.Debug("Parse smartctl output")
	snapshot, err := smart.Parse(device, health, attributes)
	if err != nil {
		return types.DeviceResult{}, err
	}
	logger.Tracef("Health status: %s", snapshot.HealthStatus)

	logger.Debug("Generate return information")
	verdict := check.Evaluate(snapshot, c.opts.Thresholds, c.opts.Policy)
	logger.Infof("%d, %s", verdict.Severity, verdict.Message)

	return types.DeviceResult{
		Device:   device,
		Snapshot: snapshot,
		Verdict:  verdict,
	}, nil
}
