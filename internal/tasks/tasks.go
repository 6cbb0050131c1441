// package tasks implements the operations behind the HTTP handlers and CLI.
//
// The Engine ranks festivals for a user, the Curator drives the suggestion
// review workflow, the Sweeper runs the periodic cleanup loops and the Warmer
// primes the tour-date cache. Long-running operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"fmt"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/match"
)

// EmptyProfileMessage is returned alongside zero-scored festivals when the
// user has no artists yet.
const EmptyProfileMessage = "Anade artistas a tu perfil para ver tu compatibilidad"

// ArtistSource lists the artist display names a user follows.
type ArtistSource interface {
	Names(userID string) ([]string, error)
}

// FavoriteSource reports which festival slugs a user has favorited.
type FavoriteSource interface {
	FestivalIDs(userID string) (map[string]bool, error)
}

// CatalogLoader reads the live festival catalog.
type CatalogLoader interface {
	Load() ([]catalog.Festival, error)
}

// RankResult is a ranked festival list, optionally with a hint message for
// users whose profiles are still empty.
type RankResult struct {
	Festivals []match.FestivalMatch `json:"festivals"`
	Message   string                `json:"message,omitempty"`
}

// Engine ranks catalog festivals against artist sets.
type Engine struct {
	artists   ArtistSource
	favorites FavoriteSource
	catalog   CatalogLoader
}

// NewEngine creates an Engine over the given stores.
func NewEngine(artists ArtistSource, favorites FavoriteSource, loader CatalogLoader) *Engine {
	return &Engine{artists: artists, favorites: favorites, catalog: loader}
}

// RankForUser scores every festival in the region against the user's artists
// and flags the user's favorites.
//
// With an empty artist list every festival scores zero and the result carries
// EmptyProfileMessage; favorites are still flagged so the front end can render
// the list either way.
func (e *Engine) RankForUser(userID, region string) (*RankResult, error) {
	regionFestivals, err := e.regionFestivals(region)
	if err != nil {
		return nil, err
	}

	favoriteIDs, err := e.favorites.FestivalIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	names, err := e.artists.Names(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artists: %w", err)
	}

	ranked := match.Rank(regionFestivals, match.NewArtistSet(names))
	for i := range ranked {
		ranked[i].IsFavorite = favoriteIDs[ranked[i].ID]
	}

	result := &RankResult{Festivals: ranked}
	if len(names) == 0 {
		result.Message = EmptyProfileMessage
	}
	return result, nil
}

// RankForArtists scores the region's festivals against an ad-hoc artist list.
// Used by the demo endpoints and the CLI, where there is no user.
func (e *Engine) RankForArtists(names []string, region string) (*RankResult, error) {
	regionFestivals, err := e.regionFestivals(region)
	if err != nil {
		return nil, err
	}

	return &RankResult{Festivals: match.Rank(regionFestivals, match.NewArtistSet(names))}, nil
}

func (e *Engine) regionFestivals(region string) ([]catalog.Festival, error) {
	festivals, err := e.catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return catalog.FilterRegion(festivals, catalog.LookupRegion(region)), nil
}

// DemoArtist is one entry of the fixed demo lineup shown to logged-out users.
type DemoArtist struct {
	Name   string   `json:"name"`
	Image  string   `json:"image"`
	Genres []string `json:"genres"`
}

// DemoArtists backs the no-auth demo mode.
var DemoArtists = []DemoArtist{
	{Name: "Charli XCX", Image: "https://i.scdn.co/image/ab6761610000e5eb9e35c40cec4c80095f1a3ef9", Genres: []string{"art pop", "dance pop"}},
	{Name: "Dua Lipa", Image: "https://i.scdn.co/image/ab6761610000e5eb1bbee4a02f85ecc58d385c3e", Genres: []string{"dance pop", "pop"}},
	{Name: "Fred Again..", Image: "https://i.scdn.co/image/ab6761610000e5eb5c0f95e7c4be4a9c0b9c5c48", Genres: []string{"uk electronic"}},
	{Name: "Bicep", Image: "https://i.scdn.co/image/ab6761610000e5ebd969cf117d0b0d4424bebdc5", Genres: []string{"electronica", "uk dance"}},
	{Name: "The 1975", Image: "https://i.scdn.co/image/ab6761610000e5eb3c6c7c3a4e1c8c1e0e8c3b3e", Genres: []string{"modern rock", "pop"}},
	{Name: "Arctic Monkeys", Image: "https://i.scdn.co/image/ab6761610000e5eb7da39dea0a72f581535fb11f", Genres: []string{"garage rock", "modern rock"}},
	{Name: "LCD Soundsystem", Image: "https://i.scdn.co/image/ab6761610000e5eb4c3f8c1c5c3c5c3c5c3c5c3c", Genres: []string{"dance-punk", "indietronica"}},
	{Name: "Disclosure", Image: "https://i.scdn.co/image/ab6761610000e5eb8c9c9c9c9c9c9c9c9c9c9c9c", Genres: []string{"uk garage", "house"}},
	{Name: "Fontaines D.C.", Image: "https://i.scdn.co/image/ab6761610000e5eb1c1c1c1c1c1c1c1c1c1c1c1c", Genres: []string{"post-punk", "art punk"}},
	{Name: "Jamie xx", Image: "https://i.scdn.co/image/ab6761610000e5eb2c2c2c2c2c2c2c2c2c2c2c2c", Genres: []string{"uk electronic", "indietronica"}},
	{Name: "Four Tet", Image: "https://i.scdn.co/image/ab6761610000e5eb3c3c3c3c3c3c3c3c3c3c3c3c", Genres: []string{"electronica", "folktronica"}},
	{Name: "Peggy Gou", Image: "https://i.scdn.co/image/ab6761610000e5eb4c4c4c4c4c4c4c4c4c4c4c4c", Genres: []string{"house", "tech house"}},
	{Name: "Clairo", Image: "https://i.scdn.co/image/ab6761610000e5eb5c5c5c5c5c5c5c5c5c5c5c5c", Genres: []string{"bedroom pop", "indie pop"}},
	{Name: "Tame Impala", Image: "https://i.scdn.co/image/ab6761610000e5eb6c6c6c6c6c6c6c6c6c6c6c6c", Genres: []string{"psychedelic rock", "neo-psychedelia"}},
	{Name: "The Killers", Image: "https://i.scdn.co/image/ab6761610000e5eb7c7c7c7c7c7c7c7c7c7c7c7c", Genres: []string{"alternative rock", "new wave"}},
	{Name: "Gorillaz", Image: "https://i.scdn.co/image/ab6761610000e5eb8c8c8c8c8c8c8c8c8c8c8c8c", Genres: []string{"alternative rock", "trip hop"}},
	{Name: "Glass Animals", Image: "https://i.scdn.co/image/ab6761610000e5eb9c9c9c9c9c9c9c9c9c9c9c9c", Genres: []string{"indietronica", "psychedelic pop"}},
	{Name: "Jungle", Image: "https://i.scdn.co/image/ab6761610000e5ebacacacacacacacacacacacac", Genres: []string{"funk", "neo soul"}},
	{Name: "JPEGMAFIA", Image: "https://i.scdn.co/image/ab6761610000e5ebbcbcbcbcbcbcbcbcbcbcbcbc", Genres: []string{"experimental hip hop", "industrial hip hop"}},
	{Name: "Little Simz", Image: "https://i.scdn.co/image/ab6761610000e5ebcccccccccccccccccccccccc", Genres: []string{"uk hip hop", "conscious hip hop"}},
}

// DemoArtistNames returns just the names, for ranking.
func DemoArtistNames() []string {
	names := make([]string, 0, len(DemoArtists))
	for _, artist := range DemoArtists {
		names = append(names, artist.Name)
	}
	return names
}
