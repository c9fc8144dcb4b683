// Package logging provides the categorized diagnostic log for leadcap.
// Every component asks for a named zap logger by category; until Initialize is
// called all categories discard their output.
package logging

import (
	"fmt"
	"sync"

	"leadcap/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot Category = "boot" // Startup, config resolution
	CategoryAPI  Category = "api"  // Lead API requests and responses
	CategoryPage Category = "page" // Page controller: loads, submits, status messages
	CategoryWeb  Category = "web"  // Web page server
	CategoryCLI  Category = "cli"  // Console commands
)

var (
	rootMu sync.RWMutex
	root   = zap.NewNop()
)

// Build creates a zap logger from config. An interactive session without a log
// file gets a no-op logger so nothing is written over the terminal page.
func Build(cfg config.LoggingConfig, verbose, interactive bool) (*zap.Logger, error) {
	if interactive && cfg.File == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Initialize builds the root logger and installs it for all categories.
func Initialize(cfg config.LoggingConfig, verbose, interactive bool) error {
	logger, err := Build(cfg, verbose, interactive)
	if err != nil {
		return err
	}
	SetRoot(logger)

	Get(CategoryBoot).Debug("logging initialized",
		zap.String("level", cfg.Level),
		zap.String("format", cfg.Format),
		zap.String("file", cfg.File))
	return nil
}

// SetRoot replaces the root logger. Passing nil restores the no-op logger.
func SetRoot(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootMu.Lock()
	root = logger
	rootMu.Unlock()
}

// Root returns the current root logger.
func Root() *zap.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root
}

// Get returns the logger for a category.
func Get(category Category) *zap.Logger {
	return Root().Named(string(category))
}

// Sync flushes buffered entries.
func Sync() {
	_ = Root().Sync()
}
