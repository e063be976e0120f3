package tools

import "context"

// ToolInterface defines the common interface for all CLI tools
type ToolInterface interface {
	// IsAvailable checks if the tool is available on the system
	IsAvailable() bool

	// GetVersion returns the tool version
	GetVersion() string

	// GetName returns the tool name
	GetName() string
}

// SmartToolInterface defines the smartctl operations the probe needs
type SmartToolInterface interface {
	ToolInterface

	// Check verifies the tool exists and is executable
	Check() error

	// Scan lists the devices smartctl knows about, in discovery order
	Scan(ctx context.Context) ([]string, error)

	// Health returns the raw `smartctl -H` report of a device
	Health(ctx context.Context, device string) (string, error)

	// Attributes returns the raw `smartctl -A` report of a device
	Attributes(ctx context.Context, device string) (string, error)
}
