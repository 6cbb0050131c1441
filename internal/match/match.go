// Package match scores festival lineups against a user's artist set.
//
// All comparisons run on normalized names: lowercase, Unicode NFD with
// combining marks stripped, trimmed. Equality is exact after normalization;
// there is no fuzzy or partial-name matching.
package match

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/desertthunder/festmatch/internal/catalog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical comparison form of an artist name.
func Normalize(name string) string {
	s := strings.ToLower(name)
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}
	return strings.TrimSpace(s)
}

// ArtistSet is a set of normalized artist names.
type ArtistSet map[string]struct{}

// NewArtistSet normalizes the given display names into a set.
func NewArtistSet(names []string) ArtistSet {
	set := make(ArtistSet, len(names))
	for _, name := range names {
		if n := Normalize(name); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the normalized form of name is in the set.
func (s ArtistSet) Contains(name string) bool {
	_, ok := s[Normalize(name)]
	return ok
}

// FestivalMatch is a catalog festival augmented with its score for one user.
type FestivalMatch struct {
	catalog.Festival
	MatchPercentage  int      `json:"matchPercentage"`
	MatchedArtists   int      `json:"matchedArtists"`
	TotalUserArtists int      `json:"totalUserArtists"`
	ArtistsInCommon  []string `json:"artistsInCommon"`
	IsFavorite       bool     `json:"isFavorite"`
}

// Score computes the match between one festival's lineup and the user's set.
//
// The percentage is round(100 * |intersection| / |user artists|): the share
// of the user's artists playing the festival, not the share of the lineup
// the user knows. ArtistsInCommon keeps the festival's original display
// names in lineup order. An empty set scores 0 across the board.
func Score(f catalog.Festival, artists ArtistSet) FestivalMatch {
	m := FestivalMatch{
		Festival:         f,
		TotalUserArtists: len(artists),
		ArtistsInCommon:  []string{},
	}
	if len(artists) == 0 {
		return m
	}

	matched := make(map[string]struct{})
	for _, name := range f.Lineup {
		n := Normalize(name)
		if _, ok := artists[n]; ok {
			m.ArtistsInCommon = append(m.ArtistsInCommon, name)
			matched[n] = struct{}{}
		}
	}

	// Count distinct user artists, not lineup entries, so duplicate lineup
	// spellings can't push the percentage past 100.
	m.MatchedArtists = len(matched)
	m.MatchPercentage = int(math.Round(float64(m.MatchedArtists) / float64(len(artists)) * 100))
	return m
}

// Rank scores every festival and sorts descending by percentage.
//
// The sort is stable: ties keep the catalog's original relative order.
func Rank(festivals []catalog.Festival, artists ArtistSet) []FestivalMatch {
	matches := make([]FestivalMatch, 0, len(festivals))
	for _, f := range festivals {
		matches = append(matches, Score(f, artists))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})

	return matches
}
