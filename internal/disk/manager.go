package disk

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	log "github.com/sirupsen/logrus"

	"check-smartmon/internal/disk/tools"
)

// DeviceScanner lists devices known to the diagnostic tool
type DeviceScanner interface {
	Scan(ctx context.Context) ([]string, error)
}

var _ DeviceScanner = (*tools.SmartCtlTool)(nil)

// Manager decides which devices a run checks
type Manager struct {
	targetDisks    []string    // Specific disks to check (empty = scan)
	ignorePatterns []glob.Glob // Patterns to ignore for scanned disks
	scanner        DeviceScanner
	logger         log.FieldLogger
}

// New creates a disk manager. Ignore patterns are shell globs such as "/dev/sd[x-z]" or "/dev/bus/*".
func New(scanner DeviceScanner, targetDisks []string, ignorePatterns []string, logger log.FieldLogger) (*Manager, error) {
	m := &Manager{
		scanner: scanner,
		logger:  logger,
	}

	for _, disk := range targetDisks {
		if disk = strings.TrimSpace(disk); disk != "" {
			m.targetDisks = append(m.targetDisks, disk)
		}
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		m.ignorePatterns = append(m.ignorePatterns, g)
	}

	return m, nil
}

// Devices returns the devices to check in the order they were given or discovered.
// Explicit targets are always checked; scanned devices are filtered and de-duplicated.
func (m *Manager) Devices(ctx context.Context) ([]string, error) {
	if len(m.targetDisks) > 0 {
		return dedupe(m.targetDisks), nil
	}

	scanned, err := m.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan devices: %w", err)
	}

	var devices []string
	for _, device := range dedupe(scanned) {
		if m.shouldIncludeDisk(device) {
			devices = append(devices, device)
		}
	}
	return devices, nil
}

// shouldIncludeDisk determines if a scanned disk should be checked
func (m *Manager) shouldIncludeDisk(device string) bool {
	for _, pattern := range m.ignorePatterns {
		if pattern.Match(device) {
			m.logger.WithField("device", device).Debug("Ignoring disk (matches ignore pattern)")
			return false
		}
	}
	return true
}

func dedupe(devices []string) []string {
	seen := make(map[string]bool, len(devices))
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
