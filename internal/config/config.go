package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"check-smartmon/internal/disk/tools"
	"check-smartmon/pkg/types"
)

// Output formats
const (
	OutputNagios = "nagios"
	OutputJSON   = "json"
)

// MaxVerbosity is the highest supported verbosity level
const MaxVerbosity = 3

// Config holds the application configuration
type Config struct {
	SmartctlPath            string                 `yaml:"smartctl_path"`
	Devices                 []string               `yaml:"devices"`
	IgnorePatterns          []string               `yaml:"ignore"`
	Thresholds              types.ThresholdProfile `yaml:"thresholds"`
	ExceededWarningSeverity string                 `yaml:"exceeded_warning_severity"`
	Timeout                 time.Duration          `yaml:"timeout"`
	Parallel                int                    `yaml:"parallel"`
	Verbosity               int                    `yaml:"verbosity"`
	Output                  string                 `yaml:"output"`
	MetricsFile             string                 `yaml:"metrics_file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		SmartctlPath:            tools.DefaultSmartctlPath,
		Thresholds:              types.DefaultThresholdProfile(),
		ExceededWarningSeverity: "critical",
		Timeout:                 30 * time.Second,
		Parallel:                1,
		Output:                  OutputNagios,
	}
}

// New creates a configuration from defaults and the environment
func New() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// LoadFile overlays the YAML file at path on c. Keys absent from the file keep their value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.SmartctlPath = getEnv("SMARTMON_SMARTCTL_PATH", c.SmartctlPath)
	c.Timeout = getEnvDuration("SMARTMON_TIMEOUT", c.Timeout)
	c.MetricsFile = getEnv("SMARTMON_METRICS_FILE", c.MetricsFile)
}

// Validate checks the configuration for values the check cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.SmartctlPath == "" {
		errs = append(errs, errors.New("smartctl path must not be empty"))
	}
	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ExceededWarning(); err != nil {
		errs = append(errs, err)
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Parallel < 1 {
		errs = append(errs, fmt.Errorf("parallel must be at least 1, got %d", c.Parallel))
	}
	if c.Verbosity < 0 || c.Verbosity > MaxVerbosity {
		errs = append(errs, fmt.Errorf("verbosity must be between 0 and %d, got %d", MaxVerbosity, c.Verbosity))
	}
	switch c.Output {
	case OutputNagios, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q (want %s or %s)", c.Output, OutputNagios, OutputJSON))
	}

	return errors.Join(errs...)
}

// ExceededWarning returns the severity for a metric above its warning but not its critical limit
func (c *Config) ExceededWarning() (types.Severity, error) {
	s, err := types.ParseSeverity(c.ExceededWarningSeverity)
	if err != nil {
		return types.SeverityUnknown, fmt.Errorf("exceeded_warning_severity: %w", err)
	}
	if s != types.SeverityWarning && s != types.SeverityCritical {
		return types.SeverityUnknown, fmt.Errorf("exceeded_warning_severity must be warning or critical, got %q", c.ExceededWarningSeverity)
	}
	return s, nil
}

// Flags binds command line flags. Only flags the user sets override the file and environment.
type Flags struct {
	configFile string
	values     Config
}

// AddFlags registers all configuration flags on fs
func AddFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{values: *Default()}
	v := &f.values

	fs.StringVar(&f.configFile, "config", "", "Path to a YAML config file (env SMARTMON_CONFIG)")
	fs.StringArrayVarP(&v.Devices, "device", "d", nil, "Device to check, may be repeated (default: all devices from smartctl --scan)")
	fs.StringArrayVar(&v.IgnorePatterns, "ignore", nil, "Glob of scanned devices to skip, may be repeated")
	fs.IntVarP(&v.Verbosity, "verbosity", "v", 0, "Set verbosity level, 0 (quiet) up to 3")
	fs.Int64VarP(&v.Thresholds.Temperature.Warning, "warning-threshold", "w", v.Thresholds.Temperature.Warning, "Temperature warning threshold")
	fs.Int64VarP(&v.Thresholds.Temperature.Critical, "critical-threshold", "c", v.Thresholds.Temperature.Critical, "Temperature critical threshold")
	fs.Int64Var(&v.Thresholds.ReallocatedSectors.Warning, "reallocated-warning", v.Thresholds.ReallocatedSectors.Warning, "Reallocated sector count warning threshold")
	fs.Int64Var(&v.Thresholds.ReallocatedSectors.Critical, "reallocated-critical", v.Thresholds.ReallocatedSectors.Critical, "Reallocated sector count critical threshold")
	fs.Int64Var(&v.Thresholds.SpinRetryCount.Warning, "spin-retry-warning", v.Thresholds.SpinRetryCount.Warning, "Spin retry count warning threshold")
	fs.Int64Var(&v.Thresholds.SpinRetryCount.Critical, "spin-retry-critical", v.Thresholds.SpinRetryCount.Critical, "Spin retry count critical threshold")
	fs.Int64Var(&v.Thresholds.ReadFailureSectors.Warning, "read-failures-warning", v.Thresholds.ReadFailureSectors.Warning, "Current pending sector warning threshold")
	fs.Int64Var(&v.Thresholds.ReadFailureSectors.Critical, "read-failures-critical", v.Thresholds.ReadFailureSectors.Critical, "Current pending sector critical threshold")
	fs.StringVar(&v.ExceededWarningSeverity, "exceeded-warning-severity", v.ExceededWarningSeverity, "Status for a value above the warning threshold: warning or critical")
	fs.StringVar(&v.SmartctlPath, "smartctl-path", v.SmartctlPath, "Path to smartctl (env SMARTMON_SMARTCTL_PATH)")
	fs.DurationVar(&v.Timeout, "timeout", v.Timeout, "Timeout for each smartctl call (env SMARTMON_TIMEOUT)")
	fs.IntVar(&v.Parallel, "parallel", v.Parallel, "Number of devices checked concurrently")
	fs.StringVarP(&v.Output, "output", "o", v.Output, "Output format: nagios, json")
	fs.StringVar(&v.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile (env SMARTMON_METRICS_FILE)")

	return f
}

// Load builds the configuration: defaults, then the YAML file, then the environment,
// then flags set on fs. Positional devices are appended to --device.
func (f *Flags) Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	path := getEnv("SMARTMON_CONFIG", "")
	if fs.Changed("config") {
		path = f.configFile
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	v := &f.values
	overrides := map[string]func(){
		"device":                    func() { cfg.Devices = v.Devices },
		"ignore":                    func() { cfg.IgnorePatterns = v.IgnorePatterns },
		"verbosity":                 func() { cfg.Verbosity = v.Verbosity },
		"warning-threshold":         func() { cfg.Thresholds.Temperature.Warning = v.Thresholds.Temperature.Warning },
		"critical-threshold":        func() { cfg.Thresholds.Temperature.Critical = v.Thresholds.Temperature.Critical },
		"reallocated-warning":       func() { cfg.Thresholds.ReallocatedSectors.Warning = v.Thresholds.ReallocatedSectors.Warning },
		"reallocated-critical":      func() { cfg.Thresholds.ReallocatedSectors.Critical = v.Thresholds.ReallocatedSectors.Critical },
		"spin-retry-warning":        func() { cfg.Thresholds.SpinRetryCount.Warning = v.Thresholds.SpinRetryCount.Warning },
		"spin-retry-critical":       func() { cfg.Thresholds.SpinRetryCount.Critical = v.Thresholds.SpinRetryCount.Critical },
		"read-failures-warning":     func() { cfg.Thresholds.ReadFailureSectors.Warning = v.Thresholds.ReadFailureSectors.Warning },
		"read-failures-critical":    func() { cfg.Thresholds.ReadFailureSectors.Critical = v.Thresholds.ReadFailureSectors.Critical },
		"exceeded-warning-severity": func() { cfg.ExceededWarningSeverity = v.ExceededWarningSeverity },
		"smartctl-path":             func() { cfg.SmartctlPath = v.SmartctlPath },
		"timeout":                   func() { cfg.Timeout = v.Timeout },
		"parallel":                  func() { cfg.Parallel = v.Parallel },
		"output":                    func() { cfg.Output = v.Output },
		"metrics-file":              func() { cfg.MetricsFile = v.MetricsFile },
	}
	fs.Visit(func(fl *pflag.Flag) {
		if apply, ok := overrides[fl.Name]; ok {
			apply()
		}
	})

	cfg.Devices = append(cfg.Devices, args...)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
