package server

import (
	"time"

	"github.com/desertthunder/festmatch/internal/models"
)

// JSON projections of the domain models. Field names match what the front
// end has always consumed.

type userView struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
}

func viewUser(u *models.User) userView {
	return userView{ID: u.ID(), Email: u.Email(), Name: u.Name(), Picture: u.Picture()}
}

type artistView struct {
	ID            string    `json:"id"`
	ArtistName    string    `json:"artist_name"`
	MusicbrainzID string    `json:"musicbrainz_id,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

func viewArtist(a *models.UserArtist) artistView {
	return artistView{
		ID:            a.ID(),
		ArtistName:    a.ArtistName(),
		MusicbrainzID: a.MusicbrainzID(),
		AddedAt:       a.AddedAt(),
	}
}

func viewArtists(artists []*models.UserArtist) []artistView {
	views := make([]artistView, 0, len(artists))
	for _, a := range artists {
		views = append(views, viewArtist(a))
	}
	return views
}

type genreView struct {
	ID      string    `json:"id"`
	Genre   string    `json:"genre"`
	AddedAt time.Time `json:"added_at"`
}

func viewGenre(g *models.UserGenre) genreView {
	return genreView{ID: g.ID(), Genre: g.Genre(), AddedAt: g.AddedAt()}
}

func viewGenres(genres []*models.UserGenre) []genreView {
	views := make([]genreView, 0, len(genres))
	for _, g := range genres {
		views = append(views, viewGenre(g))
	}
	return views
}

type favoriteView struct {
	ID         string    `json:"id"`
	FestivalID string    `json:"festival_id"`
	AddedAt    time.Time `json:"added_at"`
}

func viewFavorite(f *models.FavoriteFestival) favoriteView {
	return favoriteView{ID: f.ID(), FestivalID: f.FestivalID(), AddedAt: f.AddedAt()}
}

func viewFavorites(favorites []*models.FavoriteFestival) []favoriteView {
	views := make([]favoriteView, 0, len(favorites))
	for _, f := range favorites {
		views = append(views, viewFavorite(f))
	}
	return views
}

type suggestionView struct {
	ID           string    `json:"id"`
	FestivalName string    `json:"festival_name"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	DatesInfo    string    `json:"dates_info,omitempty"`
	Website      string    `json:"website,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func viewSuggestion(s *models.FestivalSuggestion) suggestionView {
	return suggestionView{
		ID:           s.ID(),
		FestivalName: s.FestivalName(),
		Country:      s.Country(),
		City:         s.City(),
		DatesInfo:    s.DatesInfo(),
		Website:      s.Website(),
		Status:       s.Status(),
		CreatedAt:    s.CreatedAt(),
	}
}

func viewSuggestions(suggestions []*models.FestivalSuggestion) []suggestionView {
	views := make([]suggestionView, 0, len(suggestions))
	for _, s := range suggestions {
		views = append(views, viewSuggestion(s))
	}
	return views
}
