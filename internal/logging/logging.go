// Package logging builds zap loggers for the mcp-datasource server.
package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Style selects the log line format.
type Style string

const (
	StyleNoop     Style = "noop"
	StyleJSON     Style = "json"
	StyleTerminal Style = "terminal"
	StyleLogfmt   Style = "logfmt"
)

// Config configures logger construction.
type Config struct {
	Style Style
	Level string
}

// New builds a zap.Logger from cfg. A nil or zero-value Config yields a
// logfmt-style, info-level logger.
func New(cfg *Config) *zap.Logger {
	style := StyleLogfmt
	level := zapcore.InfoLevel

	if cfg != nil {
		if cfg.Style != "" {
			style = cfg.Style
		}
		if cfg.Level != "" {
			if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
				level = lvl
			}
		}
	}

	var logger *zap.Logger
	var err error

	switch style {
	case StyleNoop:
		logger = zap.NewNop()
	case StyleJSON:
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build(zap.AddCaller())
	case StyleTerminal:
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build(zap.AddCaller())
	case StyleLogfmt:
		encCfg := zapcore.EncoderConfig{
			TimeKey:    "ts",
			LevelKey:   "lvl",
			NameKey:    "logger",
			CallerKey:  "caller",
			MessageKey: "msg",
			LineEnding: zapcore.DefaultLineEnding,
		}
		core := zapcore.NewCore(newLogfmtEncoder(encCfg), zapcore.AddSync(os.Stderr), level)
		logger = zap.New(core, zap.AddCaller())
	default:
		log.Fatalf("logging: unknown style %q (want noop, json, terminal, or logfmt)", style)
	}

	if err != nil {
		log.Fatalf("logging: failed to build zap logger: %v", err)
	}
	return logger
}
