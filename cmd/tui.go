package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/desertthunder/festmatch/internal/tasks"
	"github.com/desertthunder/festmatch/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for suggestion review.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/festmatch-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	curator := tasks.NewCurator(
		repositories.NewSuggestionRepository(db),
		catalog.NewStore(config.Catalog.Path),
		fileLogger)

	model := ui.NewModel(curator)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
