package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"colselect-go/config"
)

// New builds the process logger from the log section of cfg, writing to
// stderr.
func New(cfg *config.Config) (log.Logger, error) {
	return NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

func NewWithWriter(w io.Writer, lvl, format string) (log.Logger, error) {
	allow, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}
	var logger log.Logger
	switch strings.ToLower(format) {
	case "", "logfmt":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	case "json":
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	default:
		return nil, fmt.Errorf("invalid log format: %q", format)
	}
	logger = level.NewFilter(logger, allow)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.Caller(3))
	return logger, nil
}

func levelOption(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}
	return nil, fmt.Errorf("invalid log level: %q", lvl)
}

// Nop is the logger used when callers pass none.
func Nop() log.Logger { return log.NewNopLogger() }

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l log.Logger) log.Logger {
	if l == nil {
		return log.NewNopLogger()
	}
	return l
}
