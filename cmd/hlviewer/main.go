// Package main is the entry point for the level viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/hlviewer/internal/config"
	"github.com/Faultbox/hlviewer/internal/logger"
	"github.com/Faultbox/hlviewer/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== hlviewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	v, err := viewer.New(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	if err := v.Load(cfg.Level.Path); err != nil {
		return fmt.Errorf("loading %s: %w", cfg.Level.Path, err)
	}

	if cfg.Debug.Screenshot != "" {
		_, err := v.Screenshot()
		return err
	}
	return v.Run()
}
