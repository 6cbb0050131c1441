package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/tasks"
)

// SuggestionHandler serves the community suggestion inbox and its admin
// review routes.
type SuggestionHandler struct {
	suggestions *repositories.SuggestionRepository
	curator     *tasks.Curator
	logger      *log.Logger
}

// NewSuggestionHandler creates a SuggestionHandler over the given stores.
func NewSuggestionHandler(suggestions *repositories.SuggestionRepository, curator *tasks.Curator, logger *log.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, curator: curator, logger: logger}
}

// Submit files a new festival suggestion. Login is optional; suggestions
// from logged-in users keep the attribution.
func (h *SuggestionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FestivalName string `json:"festivalName"`
		Country      string `json:"country"`
		City         string `json:"city"`
		DatesInfo    string `json:"datesInfo"`
		Website      string `json:"website"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de peticion invalido")
		return
	}

	if strings.TrimSpace(body.FestivalName) == "" ||
		strings.TrimSpace(body.Country) == "" ||
		strings.TrimSpace(body.City) == "" {
		writeError(w, http.StatusBadRequest, "Nombre, pais y ciudad son requeridos")
		return
	}

	userID := ""
	if user := UserFrom(r.Context()); user != nil {
		userID = user.ID()
	}

	suggestion := models.NewFestivalSuggestion(0, userID,
		strings.TrimSpace(body.FestivalName), strings.TrimSpace(body.Country), strings.TrimSpace(body.City))
	suggestion.SetDatesInfo(body.DatesInfo)
	suggestion.SetWebsite(body.Website)

	if err := h.suggestions.Create(suggestion); err != nil {
		h.logger.Error("failed to create suggestion", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"suggestion": viewSuggestion(suggestion)})
}

// AdminList lists suggestions, optionally filtered by status.
func (h *SuggestionHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	criteria := map[string]any{}
	if status := r.URL.Query().Get("status"); status != "" {
		criteria["status"] = status
	}

	suggestions, err := h.suggestions.List(criteria)
	if err != nil {
		h.logger.Error("failed to list suggestions", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"suggestions": viewSuggestions(suggestions)})
}

// Approve resolves a pending suggestion. The response status field reports
// the actual outcome, since a name collision resolves as duplicate instead.
func (h *SuggestionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	status, err := h.curator.Approve(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

// Reject resolves a pending suggestion as rejected.
func (h *SuggestionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.curator.Reject(r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": models.SuggestionRejected})
}

// AdminDelete removes a suggestion outright, whatever its status.
func (h *SuggestionHandler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.suggestions.Delete(r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
