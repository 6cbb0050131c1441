package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/desertthunder/festmatch/internal/tasks"
	"github.com/urfave/cli/v3"
)

// suggestionRow is the CLI's JSON projection of a suggestion.
type suggestionRow struct {
	ID           string `json:"id"`
	FestivalName string `json:"festival_name"`
	Country      string `json:"country"`
	City         string `json:"city"`
	DatesInfo    string `json:"dates_info,omitempty"`
	Website      string `json:"website,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// SuggestionsList lists festival suggestions, optionally filtered by status.
func (r *Runner) SuggestionsList(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	status := cmd.String("status")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if status != "" {
		criteria["status"] = status
	}

	suggestions, err := repositories.NewSuggestionRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list suggestions: %w", err)
	}

	if useJSON {
		rows := make([]suggestionRow, 0, len(suggestions))
		for _, s := range suggestions {
			rows = append(rows, suggestionRow{
				ID:           s.ID(),
				FestivalName: s.FestivalName(),
				Country:      s.Country(),
				City:         s.City(),
				DatesInfo:    s.DatesInfo(),
				Website:      s.Website(),
				Status:       s.Status(),
				CreatedAt:    s.CreatedAt().Format("2006-01-02"),
			})
		}
		return r.writeJSON(rows, pretty)
	}

	title := "Suggestions"
	if status != "" {
		title = fmt.Sprintf("Suggestions: %s", status)
	}
	r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(suggestions)))

	for _, s := range suggestions {
		r.writePlain("%s  %-10s %s - %s, %s\n", s.ID(), s.Status(), s.FestivalName(), s.City(), s.Country())
	}

	return nil
}

// SuggestionsApprove approves a pending suggestion and appends the festival
// to the live catalog. A name collision resolves as duplicate instead.
func (r *Runner) SuggestionsApprove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: suggestion id", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	curator := tasks.NewCurator(
		repositories.NewSuggestionRepository(db),
		catalog.NewStore(config.Catalog.Path),
		r.logger)

	status, err := curator.Approve(id)
	if err != nil {
		return err
	}

	if status == models.SuggestionDuplicate {
		return r.writePlain("⚠ Festival already in catalog, suggestion marked duplicate\n")
	}
	return r.writePlain("✓ Suggestion approved and appended to the catalog\n")
}

// SuggestionsReject rejects a pending suggestion.
func (r *Runner) SuggestionsReject(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: suggestion id", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd)
	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	curator := tasks.NewCurator(
		repositories.NewSuggestionRepository(db),
		catalog.NewStore(config.Catalog.Path),
		r.logger)

	if err := curator.Reject(id); err != nil {
		return err
	}
	return r.writePlain("✓ Suggestion rejected\n")
}
