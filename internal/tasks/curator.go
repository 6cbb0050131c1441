package tasks

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// SuggestionStore is the slice of the suggestion repository the Curator needs.
type SuggestionStore interface {
	Get(id string) (*models.FestivalSuggestion, error)
	Update(suggestion *models.FestivalSuggestion) error
	List(criteria map[string]any) ([]*models.FestivalSuggestion, error)
}

// CatalogStore reads and appends to the live festival catalog.
type CatalogStore interface {
	Load() ([]catalog.Festival, error)
	Append(festival catalog.Festival) error
}

// Curator drives the festival suggestion review workflow shared by the HTTP
// admin handlers, the CLI and the TUI.
type Curator struct {
	suggestions SuggestionStore
	catalog     CatalogStore
	logger      *log.Logger
}

// NewCurator creates a Curator over the given stores.
func NewCurator(suggestions SuggestionStore, store CatalogStore, logger *log.Logger) *Curator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Curator{suggestions: suggestions, catalog: store, logger: logger}
}

// Pending lists suggestions still awaiting review, newest first.
func (c *Curator) Pending() ([]*models.FestivalSuggestion, error) {
	return c.suggestions.List(map[string]any{"status": models.SuggestionPending})
}

// Approve resolves a pending suggestion and returns its final status.
//
// If the live catalog already has a festival with the same name (compared
// case- and accent-insensitively) the suggestion is marked duplicate and
// nothing is appended. Otherwise a new catalog entry is synthesized with a
// slug ID, an unannounced lineup status and an empty lineup, appended to the
// catalog file, and the suggestion is marked approved. Either outcome is
// terminal.
func (c *Curator) Approve(id string) (string, error) {
	suggestion, err := c.suggestions.Get(id)
	if err != nil {
		return "", err
	}
	if suggestion.Resolved() {
		return "", fmt.Errorf("%w: suggestion %s is %s", shared.ErrSuggestionClosed, id, suggestion.Status())
	}

	festivals, err := c.catalog.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}

	if existing, ok := catalog.FindByName(festivals, suggestion.FestivalName()); ok {
		if err := suggestion.Resolve(models.SuggestionDuplicate); err != nil {
			return "", err
		}
		if err := c.suggestions.Update(suggestion); err != nil {
			return "", err
		}
		c.logger.Info("suggestion marked duplicate", "id", id, "existing", existing.ID)
		return models.SuggestionDuplicate, nil
	}

	dates := suggestion.DatesInfo()
	if dates == "" {
		dates = "TBA"
	}

	festival := catalog.Festival{
		ID:           catalog.Slug(suggestion.FestivalName()),
		Name:         suggestion.FestivalName(),
		Country:      suggestion.Country(),
		Location:     suggestion.City(),
		Dates:        dates,
		Website:      suggestion.Website(),
		LineupStatus: catalog.LineupUnannounced,
		Lineup:       []string{},
	}

	if err := c.catalog.Append(festival); err != nil {
		return "", fmt.Errorf("failed to append festival: %w", err)
	}

	if err := suggestion.Resolve(models.SuggestionApproved); err != nil {
		return "", err
	}
	if err := c.suggestions.Update(suggestion); err != nil {
		return "", err
	}

	c.logger.Info("suggestion approved", "id", id, "festival", festival.ID)
	return models.SuggestionApproved, nil
}

// Reject resolves a pending suggestion as rejected. The catalog is untouched.
func (c *Curator) Reject(id string) error {
	suggestion, err := c.suggestions.Get(id)
	if err != nil {
		return err
	}
	if suggestion.Resolved() {
		return fmt.Errorf("%w: suggestion %s is %s", shared.ErrSuggestionClosed, id, suggestion.Status())
	}

	if err := suggestion.Resolve(models.SuggestionRejected); err != nil {
		return err
	}
	if err := c.suggestions.Update(suggestion); err != nil {
		return err
	}

	c.logger.Info("suggestion rejected", "id", id)
	return nil
}
