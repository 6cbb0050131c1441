package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/services"
	"github.com/desertthunder/festmatch/internal/shared"
)

// ProfileHandler serves the per-user lists: followed artists, preferred
// genres, favorite festivals and the Last.fm account link.
type ProfileHandler struct {
	users     *repositories.UserRepository
	artists   *repositories.ArtistRepository
	genres    *repositories.GenreRepository
	favorites *repositories.FavoriteRepository
	lastfm    *services.LastfmService
	logger    *log.Logger
}

// NewProfileHandler creates a ProfileHandler over the given stores.
func NewProfileHandler(users *repositories.UserRepository, artists *repositories.ArtistRepository, genres *repositories.GenreRepository, favorites *repositories.FavoriteRepository, lastfm *services.LastfmService, logger *log.Logger) *ProfileHandler {
	return &ProfileHandler{
		users:     users,
		artists:   artists,
		genres:    genres,
		favorites: favorites,
		lastfm:    lastfm,
		logger:    logger,
	}
}

// ListArtists returns the user's followed artists in the order they were added.
func (h *ProfileHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	artists, err := h.artists.ListByUser(user.ID())
	if err != nil {
		h.logger.Error("failed to list artists", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"artists": viewArtists(artists)})
}

// AddArtist follows a new artist. Duplicate names (case- and accent-blind)
// are rejected with 409.
func (h *ProfileHandler) AddArtist(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	var body struct {
		ArtistName    string `json:"artistName"`
		MusicbrainzID string `json:"musicbrainzId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de peticion invalido")
		return
	}
	if strings.TrimSpace(body.ArtistName) == "" {
		writeError(w, http.StatusBadRequest, "Nombre de artista requerido")
		return
	}

	artist := models.NewUserArtist(0, user.ID(), strings.TrimSpace(body.ArtistName), body.MusicbrainzID)
	if err := h.artists.Create(artist); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Artista ya existe")
			return
		}
		h.logger.Error("failed to add artist", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"artist": viewArtist(artist)})
}

// RemoveArtist unfollows one of the user's artists by row ID.
func (h *ProfileHandler) RemoveArtist(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	if err := h.artists.DeleteForUser(user.ID(), r.PathValue("id")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Artista no encontrado")
			return
		}
		h.logger.Error("failed to remove artist", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AvailableGenres returns the fixed genre vocabulary. Public.
func (h *ProfileHandler) AvailableGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"genres": models.AvailableGenres})
}

// ListGenres returns the user's preferred genres.
func (h *ProfileHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	genres, err := h.genres.ListByUser(user.ID())
	if err != nil {
		h.logger.Error("failed to list genres", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"genres": viewGenres(genres)})
}

// AddGenre adds a genre to the user's preferences.
func (h *ProfileHandler) AddGenre(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	var body struct {
		Genre string `json:"genre"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de peticion invalido")
		return
	}
	if strings.TrimSpace(body.Genre) == "" {
		writeError(w, http.StatusBadRequest, "Genero requerido")
		return
	}

	genre := models.NewUserGenre(0, user.ID(), strings.TrimSpace(body.Genre))
	if err := h.genres.Create(genre); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Genero ya existe")
			return
		}
		h.logger.Error("failed to add genre", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"genre": viewGenre(genre)})
}

// RemoveGenre removes one of the user's genres by row ID.
func (h *ProfileHandler) RemoveGenre(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	if err := h.genres.DeleteForUser(user.ID(), r.PathValue("id")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Genero no encontrado")
			return
		}
		h.logger.Error("failed to remove genre", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListFavorites returns the user's favorite festivals.
func (h *ProfileHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	favorites, err := h.favorites.ListByUser(user.ID())
	if err != nil {
		h.logger.Error("failed to list favorites", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"festivals": viewFavorites(favorites)})
}

// AddFavorite marks a festival as a favorite by its catalog slug.
func (h *ProfileHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	var body struct {
		FestivalID string `json:"festivalId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de peticion invalido")
		return
	}
	if strings.TrimSpace(body.FestivalID) == "" {
		writeError(w, http.StatusBadRequest, "ID de festival requerido")
		return
	}

	favorite := models.NewFavoriteFestival(0, user.ID(), strings.TrimSpace(body.FestivalID))
	if err := h.favorites.Create(favorite); err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Festival ya esta en favoritos")
			return
		}
		h.logger.Error("failed to add favorite", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"festival": viewFavorite(favorite)})
}

// RemoveFavorite unmarks a festival by its catalog slug.
func (h *ProfileHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	if err := h.favorites.DeleteForUser(user.ID(), r.PathValue("festivalId")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Festival no encontrado en favoritos")
			return
		}
		h.logger.Error("failed to remove favorite", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// TopArtists imports the user's top artists from their linked Last.fm
// account. The list is returned for review, not written to the profile.
func (h *ProfileHandler) TopArtists(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	if user.LastfmUsername() == "" {
		writeError(w, http.StatusBadRequest, "Cuenta de Last.fm no configurada")
		return
	}

	artists, err := h.lastfm.TopArtists(r.Context(), user.LastfmUsername(), 50)
	if err != nil {
		h.logger.Error("failed to fetch last.fm top artists", "err", err, "user", user.ID())
		writeError(w, http.StatusBadGateway, "Error al obtener artistas")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"artists": artists})
}

// SetLastfm links (or with an empty username, unlinks) a Last.fm account.
func (h *ProfileHandler) SetLastfm(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())

	var body struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de peticion invalido")
		return
	}

	user.SetLastfmUsername(strings.TrimSpace(body.Username))
	if err := h.users.Update(user); err != nil {
		h.logger.Error("failed to update lastfm username", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "username": user.LastfmUsername()})
}
