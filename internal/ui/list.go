package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/festmatch/internal/models"
)

var _ list.Item = suggestionItem{}

// suggestionItem wraps [models.FestivalSuggestion] to implement [list.Item].
type suggestionItem struct {
	suggestion *models.FestivalSuggestion
}

func (i suggestionItem) FilterValue() string { return i.suggestion.FestivalName() }
func (i suggestionItem) Title() string       { return i.suggestion.FestivalName() }
func (i suggestionItem) Description() string {
	desc := fmt.Sprintf("%s, %s", i.suggestion.City(), i.suggestion.Country())
	if i.suggestion.DatesInfo() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.suggestion.DatesInfo())
	}
	return desc
}
