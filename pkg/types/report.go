package types

// Report represents the JSON output of a check run
type Report struct {
	Status      string           `json:"status"`
	StatusCode  int              `json:"status_code"`
	Service     string           `json:"service"`
	Version     string           `json:"version"`
	Timestamp   string           `json:"timestamp"`
	Message     string           `json:"message"`
	Smartctl    SmartctlInfo     `json:"smartctl"`
	DiskSummary DiskSummary      `json:"disk_summary"`
	Disks       []DiskHealth     `json:"disks"`
	Thresholds  ThresholdProfile `json:"thresholds"`
}

// SmartctlInfo describes the smartctl binary used for the run
type SmartctlInfo struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
}

// DiskSummary provides a summary of disk health
type DiskSummary struct {
	TotalDisks    int `json:"total_disks"`
	HealthyDisks  int `json:"healthy_disks"`
	WarningDisks  int `json:"warning_disks"`
	CriticalDisks int `json:"critical_disks"`
}

// DiskHealth represents individual disk health in JSON
type DiskHealth struct {
	Device       string            `json:"device"`
	HealthStatus string            `json:"health_status"`
	Status       string            `json:"status"`
	StatusCode   int               `json:"status_code"`
	Message      string            `json:"message"`
	Attributes   []AttributeHealth `json:"attributes,omitempty"`
}

// AttributeHealth represents a single evaluated SMART attribute in JSON
type AttributeHealth struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Value    *int64 `json:"value"`
	Warning  int64  `json:"warning"`
	Critical int64  `json:"critical"`
	Status   string `json:"status"`
}
