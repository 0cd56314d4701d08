package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/normanking/cortexgesture/internal/app"
	"github.com/normanking/cortexgesture/internal/config"
	"github.com/normanking/cortexgesture/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(&logging.Config{
		LogDir:  cfg.Log.Dir,
		Level:   logging.LogLevel(cfg.Log.Level),
		Console: cfg.Log.Console,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	a := app.New(cfg, logger)

	if configDir, err := config.GetConfigDir(); err == nil {
		configPath := filepath.Join(configDir, "config.yaml")
		watcher, err := config.NewWatcher(configPath, a.ApplyConfig, logger.Z())
		if err != nil {
			zl := logger.Z()
			zl.Warn().Err(err).Msg("Config hot reload unavailable")
		} else {
			defer watcher.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		zl := logger.Z()
		zl.Error().Err(err).Msg("Engine exited with error")
		os.Exit(1)
	}
}
