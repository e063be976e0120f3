package system

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var (
	// ErrNoSuchDevice is returned when the device node does not exist
	ErrNoSuchDevice = errors.New("no such device")
	// ErrNoReadPermission is returned when the device node cannot be opened for reading
	ErrNoReadPermission = errors.New("no read permission")
)

// DeviceError describes a device that cannot be checked
type DeviceError struct {
	Kind   error
	Device string
}

func (e *DeviceError) Error() string {
	if e.Kind == ErrNoSuchDevice {
		return fmt.Sprintf("no such device found \"%s\"", e.Device)
	}
	return "no read permission given"
}

func (e *DeviceError) Unwrap() error {
	return e.Kind
}

// CheckDevice verifies that device exists and this process may read it
func CheckDevice(device string) error {
	if _, err := os.Stat(device); err != nil {
		return &DeviceError{Kind: ErrNoSuchDevice, Device: device}
	}
	if err := unix.Access(device, unix.R_OK); err != nil {
		return &DeviceError{Kind: ErrNoReadPermission, Device: device}
	}
	return nil
}
