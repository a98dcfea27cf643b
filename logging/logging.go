// Package logging provides the logger used by the dump reformatter,
// writing either to the console (stderr) or to systemd-journald.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	CONSOLE = "console"
	JOURNAL = "systemd-journald"
)

// identifier names the logger and serves as the journald SYSLOG_IDENTIFIER.
const identifier = "mysqldump-reformat"

// NewLogger creates a logger for the configured output and level.
func NewLogger(c Config) (*zap.SugaredLogger, error) {
	var core zapcore.Core

	switch c.Output {
	case CONSOLE:
		enc := zapcore.NewConsoleEncoder(newConsoleEncoderConfig())
		core = zapcore.NewCore(enc, zapcore.Lock(os.Stderr), c.Level)
	case JOURNAL:
		core = NewJournaldCore(identifier, c.Level)
	default:
		return nil, invalidOutput(c.Output)
	}

	return zap.New(core).Named(identifier).Sugar(), nil
}

func newConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	return cfg
}
