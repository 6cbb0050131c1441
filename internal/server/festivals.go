package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/dates"
	"github.com/desertthunder/festmatch/internal/services"
	"github.com/desertthunder/festmatch/internal/tasks"
)

// MatchHandler serves the festival ranking, demo, search, tour-date and
// calendar endpoints.
type MatchHandler struct {
	engine      *tasks.Engine
	events      tasks.EventCache
	catalog     tasks.CatalogLoader
	musicbrainz *services.MusicBrainzService
	year        func() int
	logger      *log.Logger
}

// NewMatchHandler creates a MatchHandler. The year func reports the season
// year, which the App refreshes from the network at startup.
func NewMatchHandler(engine *tasks.Engine, events tasks.EventCache, loader tasks.CatalogLoader, musicbrainz *services.MusicBrainzService, year func() int, logger *log.Logger) *MatchHandler {
	return &MatchHandler{
		engine:      engine,
		events:      events,
		catalog:     loader,
		musicbrainz: musicbrainz,
		year:        year,
		logger:      logger,
	}
}

func regionParam(r *http.Request) string {
	if region := r.URL.Query().Get("region"); region != "" {
		return region
	}
	return "europe"
}

// UserFestivals ranks the region's festivals against the user's artists.
func (h *MatchHandler) UserFestivals(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	result, err := h.engine.RankForUser(user.ID(), regionParam(r))
	if err != nil {
		h.logger.Error("failed to rank festivals", "err", err, "user", user.ID())
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// DemoArtists returns the fixed demo lineup for logged-out visitors.
func (h *MatchHandler) DemoArtists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"artists": tasks.DemoArtists, "isDemo": true})
}

// DemoFestivals ranks the region's festivals against the demo lineup.
func (h *MatchHandler) DemoFestivals(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.RankForArtists(tasks.DemoArtistNames(), regionParam(r))
	if err != nil {
		h.logger.Error("failed to rank demo festivals", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"festivals": result.Festivals, "isDemo": true})
}

// SearchArtists proxies an artist name search to MusicBrainz. Queries
// shorter than two characters return an empty list rather than an error.
func (h *MatchHandler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if len(query) < 2 {
		writeJSON(w, http.StatusOK, map[string]any{"artists": []services.MusicBrainzArtist{}})
		return
	}

	artists, err := h.musicbrainz.SearchArtists(r.Context(), query)
	if err != nil {
		h.logger.Error("artist search failed", "err", err, "query", query)
		writeError(w, http.StatusInternalServerError, "Error al buscar artistas")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"artists": artists})
}

// ArtistEvents returns upcoming tour dates for an artist in a region,
// served from the two-tier cache. Upstream failures come back as a degraded
// payload with apiError set, still with HTTP 200, so the front end can
// render the festival appearances it does have.
func (h *MatchHandler) ArtistEvents(w http.ResponseWriter, r *http.Request) {
	artist := r.PathValue("artistName")
	if artist == "" {
		writeError(w, http.StatusBadRequest, "Nombre de artista requerido")
		return
	}

	tourDates, err := h.events.ArtistEvents(r.Context(), artist, regionParam(r))
	if err != nil {
		h.logger.Error("failed to load artist events", "err", err, "artist", artist)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tourDates)
}

// calendarEntry is a catalog festival with its dates parsed into concrete
// ranges.
type calendarEntry struct {
	catalog.Festival
	Ranges []dates.Range `json:"ranges"`
}

// Calendar lists the region's festivals whose parsed dates fall in the
// requested year (and month, when given). Festivals with unparseable dates
// ("TBA") are left out; they have nothing to put on a calendar.
func (h *MatchHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	year := h.year()
	if param := r.URL.Query().Get("year"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Ano invalido")
			return
		}
		year = parsed
	}

	month := 0
	if param := r.URL.Query().Get("month"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed < 1 || parsed > 12 {
			writeError(w, http.StatusBadRequest, "Mes invalido")
			return
		}
		month = parsed
	}

	festivals, err := h.catalog.Load()
	if err != nil {
		h.logger.Error("failed to load catalog", "err", err)
		writeDomainError(w, err)
		return
	}

	region := catalog.LookupRegion(regionParam(r))
	entries := []calendarEntry{}
	for _, festival := range catalog.FilterRegion(festivals, region) {
		ranges := filterRanges(dates.Parse(festival.Dates), year, month)
		if len(ranges) == 0 {
			continue
		}
		entries = append(entries, calendarEntry{Festival: festival, Ranges: ranges})
	}

	writeJSON(w, http.StatusOK, map[string]any{"year": year, "festivals": entries})
}

// filterRanges keeps ranges touching the given year, and month if non-zero.
func filterRanges(ranges []dates.Range, year, month int) []dates.Range {
	var kept []dates.Range
	for _, span := range ranges {
		if span.Start.Year() != year && span.End.Year() != year {
			continue
		}
		if month != 0 && !touchesMonth(span, year, time.Month(month)) {
			continue
		}
		kept = append(kept, span)
	}
	return kept
}

func touchesMonth(span dates.Range, year int, month time.Month) bool {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return !span.End.Before(first) && !span.Start.After(last)
}

// CurrentYear reports the season year.
func (h *MatchHandler) CurrentYear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"year": h.year()})
}
