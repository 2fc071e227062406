package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/Zyko0/go-sdl3/bin/binimg"
	"github.com/Zyko0/go-sdl3/bin/binsdl"
	"github.com/Zyko0/go-sdl3/bin/binttf"
	"go.uber.org/zap"

	"github.com/Desmondgtx/Effort-Task/engine"
	"github.com/Desmondgtx/Effort-Task/protocol"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	defer binsdl.Load().Unload()
	defer binimg.Load().Unload()
	defer binttf.Load().Unload()

	cfg := engine.DefaultConfig()
	cfg.LoadCache()

	if _, err := os.Stat(cfg.MediaDir); err != nil {
		if _, err := os.Stat("assets"); err == nil {
			cfg.MediaDir = "assets"
		}
	}

	if err := engine.RunGuiSetup(cfg, logger); err != nil {
		if errors.Is(err, engine.ErrSetupCancelled) {
			return nil
		}
		return err
	}

	err = engine.Run(context.Background(), cfg, logger)
	if errors.Is(err, protocol.ErrAborted) {
		logger.Info("session aborted by operator")
		return nil
	}
	return err
}
