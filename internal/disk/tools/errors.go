package tools

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrToolNotFound is returned when the smartctl binary does not exist
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolNotExecutable is returned when the smartctl binary cannot be executed
	ErrToolNotExecutable = errors.New("tool not executable")
	// ErrUnexpectedExit is returned when smartctl reports a problem on stderr or fails to run
	ErrUnexpectedExit = errors.New("call exits unexpectedly")
)

// ToolError describes a failure to use an external tool
type ToolError struct {
	Kind   error
	Path   string
	Detail string
}

func (e *ToolError) Error() string {
	switch e.Kind {
	case ErrToolNotFound:
		return fmt.Sprintf("cannot find %s", e.Path)
	case ErrToolNotExecutable:
		return fmt.Sprintf("cannot execute %s", e.Path)
	default:
		return fmt.Sprintf("%v (%s)", e.Kind, e.Detail)
	}
}

func (e *ToolError) Unwrap() error {
	return e.Kind
}

// TimeoutError is returned when a command ran longer than allowed
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %s timed out after %s", e.Command, e.Timeout)
}
