package tools

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// DefaultSmartctlPath is where smartmontools installs smartctl on most distributions
const DefaultSmartctlPath = "/usr/sbin/smartctl"

// smartctl exit status bits that mean the report is not usable
const (
	smartctlExitBadCommandLine = 1 << 0
	smartctlExitOpenFailed     = 1 << 1
)

// SmartCtlTool represents the smartctl CLI tool
type SmartCtlTool struct {
	path     string
	timeout  time.Duration
	executor Executor
	logger   log.FieldLogger
}

// NewSmartCtlTool creates a new SmartCtlTool instance
func NewSmartCtlTool(path string, timeout time.Duration, executor Executor, logger log.FieldLogger) *SmartCtlTool {
	if path == "" {
		path = DefaultSmartctlPath
	}
	return &SmartCtlTool{
		path:     path,
		timeout:  timeout,
		executor: executor,
		logger:   logger,
	}
}

// Path returns the smartctl binary path
func (s *SmartCtlTool) Path() string {
	return s.path
}

// IsAvailable checks if smartctl is available on the system
func (s *SmartCtlTool) IsAvailable() bool {
	return s.Check() == nil
}

// GetVersion returns the smartctl version
func (s *SmartCtlTool) GetVersion() string {
	if !s.IsAvailable() {
		return ""
	}

	res := s.executor.RunCommand(context.Background(), ExecParams{
		CmdName: s.path,
		CmdArgs: []string{"--version"},
		Timeout: s.timeout,
	})
	if res.Error != nil {
		return "unknown"
	}
	return firstLine(res.Stdout)
}

// GetName returns the tool name
func (s *SmartCtlTool) GetName() string {
	return "smartctl"
}

// Check verifies the smartctl binary exists and this process may execute it
func (s *SmartCtlTool) Check() error {
	s.logger.WithField("path", s.path).Tracef("Check if %s does exist and can be executed", s.path)

	info, err := os.Stat(s.path)
	if err != nil {
		return &ToolError{Kind: ErrToolNotFound, Path: s.path, Detail: err.Error()}
	}
	if info.IsDir() || unix.Access(s.path, unix.X_OK) != nil {
		return &ToolError{Kind: ErrToolNotExecutable, Path: s.path}
	}
	return nil
}

// Scan returns the first column of every `smartctl --scan` line
func (s *SmartCtlTool) Scan(ctx context.Context) ([]string, error) {
	output, err := s.run(ctx, "--scan")
	if err != nil {
		return nil, err
	}

	var devices []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 1 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		devices = append(devices, fields[0])
	}

	s.logger.Debugf("Found %d devices using smartctl --scan", len(devices))
	return devices, nil
}

// Health returns the health self-assessment report of a device
func (s *SmartCtlTool) Health(ctx context.Context, device string) (string, error) {
	s.logger.WithField("device", device).Tracef("Get device health status: %s -H %s", s.path, device)
	return s.run(ctx, "-H", device)
}

// Attributes returns the SMART attribute table of a device
func (s *SmartCtlTool) Attributes(ctx context.Context, device string) (string, error) {
	s.logger.WithField("device", device).Tracef("Read device SMART attributes: %s -A %s", s.path, device)
	return s.run(ctx, "-A", device)
}

// run executes smartctl. Anything on stderr is a failed call. A non-zero exit
// status alone is not, smartctl encodes disk problems in its exit bits.
func (s *SmartCtlTool) run(ctx context.Context, args ...string) (string, error) {
	res := s.executor.RunCommand(ctx, ExecParams{
		CmdName: s.path,
		CmdArgs: args,
		Timeout: s.timeout,
	})

	switch {
	case errors.Is(res.Error, context.Canceled):
		return "", res.Error
	case strings.TrimSpace(res.Stderr) != "":
		return "", &ToolError{Kind: ErrUnexpectedExit, Path: s.path, Detail: firstLine(res.Stderr)}
	case !res.Started && res.Error != nil:
		return "", &ToolError{Kind: ErrUnexpectedExit, Path: s.path, Detail: res.Error.Error()}
	case errors.As(res.Error, new(*TimeoutError)):
		return "", &ToolError{Kind: ErrUnexpectedExit, Path: s.path, Detail: res.Error.Error()}
	case res.ExitCode&(smartctlExitBadCommandLine|smartctlExitOpenFailed) != 0:
		return "", &ToolError{Kind: ErrUnexpectedExit, Path: s.path, Detail: lastLine(res.Stdout)}
	}

	if res.ExitCode != exitCodeSuccess {
		s.logger.WithFields(log.Fields{"args": args, "exit_code": res.ExitCode}).Debug("smartctl reported disk problems in its exit status")
	}
	return res.Stdout, nil
}

func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func lastLine(output string) string {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
