// Package logging builds the logrus logger used for diagnostics on stderr.
package logging

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
)

// LevelForVerbosity maps the -v level to a logrus level. Level 0 only reports errors.
func LevelForVerbosity(verbosity int) log.Level {
	switch {
	case verbosity <= 0:
		return log.ErrorLevel
	case verbosity == 1:
		return log.InfoLevel
	case verbosity == 2:
		return log.DebugLevel
	default:
		return log.TraceLevel
	}
}

// New returns a logger writing to w. At the trace level log lines carry the calling function.
func New(w io.Writer, verbosity int) *log.Logger {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetLevel(LevelForVerbosity(verbosity))
	logger.SetFormatter(&log.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		// eg: func=run file="smartctl.go:124"
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			s := strings.Split(f.Function, ".")
			funcname := s[len(s)-1]
			filename := path.Base(f.File)
			return funcname, fmt.Sprintf("%s:%d", filename, f.Line)
		},
	})
	logger.SetReportCaller(verbosity >= 3)
	return logger
}
