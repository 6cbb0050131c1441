package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "festmatch",
		Usage:    "Match your artists against festival lineups",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
