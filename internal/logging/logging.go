// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config mirrors the log.* keys of the config file.
type Config struct {
	Level   string
	File    string
	Verbose bool

	MaxSizeMB  int
	MaxBackups int
}

// DefaultFile returns ~/.squiggles/squiggles.log.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "squiggles.log"
	}
	return filepath.Join(home, ".squiggles", "squiggles.log")
}

// ParseLevel accepts the zap level names. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// New returns a JSON logger writing to a size-rotated file. File "-" logs to
// stderr instead, which is what the session command uses in the foreground.
func New(cfg Config) (*zap.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		lvl = zapcore.DebugLevel
	}

	var sink zapcore.WriteSyncer
	switch cfg.File {
	case "-":
		sink = zapcore.Lock(os.Stderr)
	default:
		path := cfg.File
		if path == "" {
			path = DefaultFile()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		size := cfg.MaxSizeMB
		if size <= 0 {
			size = 5
		}
		backups := cfg.MaxBackups
		if backups <= 0 {
			backups = 3
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    size,
			MaxBackups: backups,
		})
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller()), nil
}
