// Package tourdates aggregates upcoming tour dates behind a two-tier cache.
//
// Tier 1 is an in-process map keyed by lower(artist)+"_"+region, tier 2 is the
// tour_cache sqlite table; both hold the same serialized payload for 24 hours.
// A miss on both tiers triggers one Bandsintown fetch; a failed fetch degrades
// to an empty payload flagged APIError and is never cached, so the next
// request retries. Festival appearances come from a fresh catalog read on
// every call and are never part of the cached payload.
package tourdates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/match"
	"github.com/desertthunder/festmatch/internal/services"
	"github.com/desertthunder/festmatch/internal/shared"
)

// DefaultTTL is how long a cached payload stays fresh in both tiers.
const DefaultTTL = 24 * time.Hour

// maxEvents caps the events returned per region; the full list still counts
// toward TotalRegionEvents.
const maxEvents = 10

// Event is one upcoming show, trimmed to what the front end renders.
type Event struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Venue   string   `json:"venue"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	URL     string   `json:"url,omitempty"`
	Lineup  []string `json:"lineup"`
}

// FestivalAppearance is a catalog festival whose announced lineup includes the artist.
type FestivalAppearance struct {
	Name     string `json:"name"`
	Dates    string `json:"dates"`
	Location string `json:"location"`
	Country  string `json:"country"`
	Website  string `json:"website,omitempty"`
}

// TourDates is the full payload for one artist and region.
//
// Everything except FestivalAppearances is cacheable; appearances reflect the
// live catalog and are recomputed per request.
type TourDates struct {
	Artist                 string               `json:"artist"`
	Region                 string               `json:"region"`
	Events                 []Event              `json:"events"`
	TotalRegionEvents      int                  `json:"totalRegionEvents"`
	FestivalAppearances    []FestivalAppearance `json:"festivalAppearances"`
	OtherRegionsWithEvents []string             `json:"otherRegionsWithEvents"`
	BandsintownURL         string               `json:"bandsintownUrl"`
	APIError               bool                 `json:"apiError,omitempty"`
}

// EventSource fetches raw upcoming events for an artist.
type EventSource interface {
	UpcomingEvents(ctx context.Context, artist string) ([]services.BandsintownEvent, error)
}

// Repository is the persistent cache tier.
type Repository interface {
	Get(artist, region string) (string, time.Time, error)
	Set(artist, region, data string, fetchedAt time.Time) error
	DeleteExpired(cutoff time.Time) (int64, error)
}

// CatalogLoader reads the live festival catalog.
type CatalogLoader interface {
	Load() ([]catalog.Festival, error)
}

type memoryEntry struct {
	data      TourDates
	fetchedAt time.Time
}

// Cache is the two-tier tour-date cache.
type Cache struct {
	source  EventSource
	repo    Repository
	catalog CatalogLoader
	ttl     time.Duration
	now     func() time.Time
	logger  *log.Logger

	mu     sync.Mutex
	memory map[string]memoryEntry
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the 24 hour default.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects the time source. Tests use this to age entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger attaches a logger; the default writes to stderr.
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// NewCache creates a tour-date cache over the given source, persistent tier
// and catalog.
func NewCache(source EventSource, repo Repository, loader CatalogLoader, opts ...Option) *Cache {
	c := &Cache{
		source:  source,
		repo:    repo,
		catalog: loader,
		ttl:     DefaultTTL,
		now:     time.Now,
		logger:  shared.NewLogger(nil),
		memory:  make(map[string]memoryEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(artist, region string) string {
	return strings.ToLower(artist) + "_" + region
}

// ArtistEvents returns tour dates for an artist in a region.
//
// Lookup order is memory, sqlite, Bandsintown. Both cache tiers are refreshed
// on the way out, and FestivalAppearances is always recomputed fresh. The
// error return is reserved for catalog failures; upstream API failures come
// back as a degraded payload with APIError set.
func (c *Cache) ArtistEvents(ctx context.Context, artist, region string) (TourDates, error) {
	regionConfig := catalog.LookupRegion(region)
	region = regionConfig.Key

	appearances, err := c.festivalAppearances(artist, regionConfig)
	if err != nil {
		return TourDates{}, err
	}

	key := cacheKey(artist, region)
	now := c.now()

	if cached, ok := c.fromMemory(key, now); ok {
		c.logger.Debug("tour cache hit (memory)", "artist", artist, "region", region)
		cached.FestivalAppearances = appearances
		return cached, nil
	}

	if cached, ok := c.fromRepo(artist, region, now); ok {
		c.logger.Debug("tour cache hit (db)", "artist", artist, "region", region)
		c.toMemory(key, cached, now)
		cached.FestivalAppearances = appearances
		return cached, nil
	}

	c.logger.Info("fetching tour dates", "artist", artist, "region", region)

	result, err := c.fetch(ctx, artist, regionConfig)
	if err != nil {
		c.logger.Warn("tour date fetch failed", "artist", artist, "err", err)
		degraded := TourDates{
			Artist:                 artist,
			Region:                 region,
			Events:                 []Event{},
			FestivalAppearances:    appearances,
			OtherRegionsWithEvents: []string{},
			BandsintownURL:         services.ArtistPageURL(artist),
			APIError:               true,
		}
		return degraded, nil
	}

	c.toMemory(key, result, now)
	if data, err := json.Marshal(result); err == nil {
		if err := c.repo.Set(artist, region, string(data), now); err != nil {
			c.logger.Warn("failed to persist tour cache", "artist", artist, "err", err)
		}
	}

	result.FestivalAppearances = appearances
	return result, nil
}

// Sweep removes expired rows from the persistent tier. The memory tier needs
// no sweeping; entries are checked against the TTL on every read.
func (c *Cache) Sweep() (int64, error) {
	cutoff := c.now().Add(-c.ttl)
	deleted, err := c.repo.DeleteExpired(cutoff)
	if err != nil {
		return 0, fmt.Errorf("tour cache sweep: %w", err)
	}
	if deleted > 0 {
		c.logger.Info("swept tour cache", "deleted", deleted)
	}
	return deleted, nil
}

func (c *Cache) fromMemory(key string, now time.Time) (TourDates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.memory[key]
	if !ok || now.Sub(entry.fetchedAt) >= c.ttl {
		return TourDates{}, false
	}
	return entry.data, true
}

func (c *Cache) toMemory(key string, data TourDates, now time.Time) {
	// Appearances never live in the cache; strip before storing.
	data.FestivalAppearances = nil

	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory[key] = memoryEntry{data: data, fetchedAt: now}
}

func (c *Cache) fromRepo(artist, region string, now time.Time) (TourDates, bool) {
	data, fetchedAt, err := c.repo.Get(artist, region)
	if err != nil {
		return TourDates{}, false
	}
	if now.Sub(fetchedAt) >= c.ttl {
		return TourDates{}, false
	}

	var result TourDates
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Warn("corrupt tour cache row", "artist", artist, "region", region, "err", err)
		return TourDates{}, false
	}
	return result, true
}

func (c *Cache) fetch(ctx context.Context, artist string, region catalog.Region) (TourDates, error) {
	all, err := c.source.UpcomingEvents(ctx, artist)
	if err != nil {
		return TourDates{}, err
	}

	inRegion := make([]services.BandsintownEvent, 0, len(all))
	for _, event := range all {
		if region.HasCountryName(event.Venue.Country) {
			inRegion = append(inRegion, event)
		}
	}

	events := make([]Event, 0, maxEvents)
	for _, event := range inRegion {
		if len(events) == maxEvents {
			break
		}
		venue := event.Venue.Name
		if venue == "" {
			venue = "Venue TBA"
		}
		lineup := event.Lineup
		if lineup == nil {
			lineup = []string{}
		}
		events = append(events, Event{
			ID:      event.ID,
			Date:    event.Datetime,
			Venue:   venue,
			City:    event.Venue.City,
			Country: event.Venue.Country,
			URL:     event.TicketURL(),
			Lineup:  lineup,
		})
	}

	otherRegions := []string{}
	for _, key := range catalog.RegionKeys() {
		if key == region.Key {
			continue
		}
		other := catalog.LookupRegion(key)
		for _, event := range all {
			if other.HasCountryName(event.Venue.Country) {
				otherRegions = append(otherRegions, key)
				break
			}
		}
	}

	return TourDates{
		Artist:                 artist,
		Region:                 region.Key,
		Events:                 events,
		TotalRegionEvents:      len(inRegion),
		OtherRegionsWithEvents: otherRegions,
		BandsintownURL:         services.ArtistPageURL(artist),
	}, nil
}

// festivalAppearances scans the live catalog for festivals in the region
// whose lineup names the artist.
func (c *Cache) festivalAppearances(artist string, region catalog.Region) ([]FestivalAppearance, error) {
	festivals, err := c.catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	target := match.Normalize(artist)
	appearances := []FestivalAppearance{}
	for _, festival := range festivals {
		if !region.HasCountryCode(festival.Country) {
			continue
		}
		for _, name := range festival.Lineup {
			if match.Normalize(name) == target {
				appearances = append(appearances, FestivalAppearance{
					Name:     festival.Name,
					Dates:    festival.Dates,
					Location: festival.Location,
					Country:  festival.Country,
					Website:  festival.Website,
				})
				break
			}
		}
	}

	return appearances, nil
}
