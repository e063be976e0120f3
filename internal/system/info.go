package system

import (
	"runtime"

	log "github.com/sirupsen/logrus"

	"check-smartmon/internal/disk/tools"
)

// SystemInfo holds detected system information
type SystemInfo struct {
	HasSmartctl     bool
	SmartctlPath    string
	SmartctlVersion string
}

// Detector handles system detection
type Detector struct {
	tool   tools.ToolInterface
	path   string
	logger log.FieldLogger
	info   *SystemInfo
}

// New creates a new system detector for the given smartctl tool
func New(tool tools.ToolInterface, path string, logger log.FieldLogger) *Detector {
	return &Detector{tool: tool, path: path, logger: logger}
}

// Detect performs one-time system detection
func (d *Detector) Detect() *SystemInfo {
	if d.info != nil {
		return d.info
	}

	info := &SystemInfo{SmartctlPath: d.path}

	info.HasSmartctl = d.tool.IsAvailable()
	if info.HasSmartctl {
		info.SmartctlVersion = d.tool.GetVersion()
	}

	d.logger.WithFields(log.Fields{
		"os":       runtime.GOOS,
		"smartctl": info.SmartctlPath,
		"version":  info.SmartctlVersion,
	}).Debug("System detection finished")

	d.info = info
	return info
}

// CanMonitorSMART returns true if SMART monitoring is available
func (info *SystemInfo) CanMonitorSMART() bool {
	return info.HasSmartctl
}
