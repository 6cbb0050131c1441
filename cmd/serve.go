package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/server"
	"github.com/desertthunder/festmatch/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the festival match web server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	if port := cmd.Int("port"); port > 0 {
		config.Server.Port = port
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	// First boot: seed the catalog so the demo endpoints have festivals.
	if _, err := os.Stat(config.Catalog.Path); os.IsNotExist(err) {
		r.logger.Info("catalog file not found, writing seed", "path", config.Catalog.Path)
		if err := catalog.WriteSeed(config.Catalog.Path); err != nil {
			return fmt.Errorf("failed to write seed catalog: %w", err)
		}
	}

	app := server.NewApp(config, db, r.logger)
	app.Static(web.NewStaticHandler(config.Server.StaticDir))

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Start(runCtx)
}
