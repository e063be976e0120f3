package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultExecTimeout = 30 * time.Second

	exitCodeTimeout    = 124
	exitCodeErrDefault = 1
	exitCodeSuccess    = 0
)

// ExecParams parameters to execute a command
type ExecParams struct {
	CmdName string
	CmdArgs []string
	Timeout time.Duration
}

// ExecResult result of executing a command
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Error is set when the command could not be started, timed out or exited non-zero
	Error error
	// Started is false when the command never ran (not found, permission denied, ...)
	Started bool
}

// Executor is the interface for executing commands
type Executor interface {
	RunCommand(ctx context.Context, params ExecParams) ExecResult
}

type basicExecutor struct {
	logger log.FieldLogger
}

// NewExecutor creates an Executor backed by os/exec
func NewExecutor(logger log.FieldLogger) Executor {
	return &basicExecutor{logger: logger}
}

// RunCommand runs a command and collects its output and exit code
func (e *basicExecutor) RunCommand(ctx context.Context, params ExecParams) ExecResult {
	if params.Timeout == 0 {
		params.Timeout = defaultExecTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, params.Timeout)
	defer cancel()

	e.logger.WithFields(log.Fields{"command": params.CmdName, "args": params.CmdArgs}).Debug("Running command")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, params.CmdName, params.CmdArgs...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	result := ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCodeSuccess,
		Error:    err,
		Started:  cmd.ProcessState != nil,
	}

	if ctxErr := ctx.Err(); ctxErr == context.DeadlineExceeded {
		result.ExitCode = exitCodeTimeout
		result.Error = &TimeoutError{Command: params.CmdName, Timeout: params.Timeout}
	} else if ctxErr != nil {
		result.ExitCode = exitCodeErrDefault
		result.Error = ctxErr
	} else if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = exitCodeErrDefault
		}
	}

	e.logger.WithFields(log.Fields{
		"command":   params.CmdName,
		"args":      params.CmdArgs,
		"exit_code": result.ExitCode,
		"stderr":    result.Stderr,
		"error":     result.Error,
	}).Trace("Finished running command")

	return result
}
