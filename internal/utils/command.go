package utils

import (
	"os/exec"
	"strings"
)

// ResolveCommand turns a bare command name into its PATH location.
// Paths containing a separator and names not found in PATH are returned unchanged.
func ResolveCommand(cmd string) string {
	if cmd == "" || strings.ContainsRune(cmd, '/') {
		return cmd
	}
	if path, err := exec.LookPath(cmd); err == nil {
		return path
	}
	return cmd
}
