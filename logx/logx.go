// Package logx wires up the planner's debug-gated logger, adapted from
// the teacher's cmd/vi-fighter/main.go setupLogging: logging is
// discarded unless a debug flag is set, in which case output is
// directed to a rotating file rather than stdout/stderr. The planner
// itself never writes to those streams.
package logx

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Options controls logger construction.
type Options struct {
	Debug bool
	Dir   string // defaults to "logs" if empty
}

// New builds a *log.Logger. With Debug unset, output is discarded
// entirely. With Debug set, a new timestamped file is created under
// Dir and used as the sink.
func New(opts Options) (*log.Logger, error) {
	if !opts.Debug {
		return log.NewWithOptions(io.Discard, log.Options{}), nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	name := filepath.Join(dir, "gridflow-"+time.Now().Format("20060102-150405")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
		Level:           log.DebugLevel,
	})
	return logger, nil
}
