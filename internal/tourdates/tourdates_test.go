package tourdates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/services"
)

// stubSource returns canned events and counts calls.
type stubSource struct {
	events []services.BandsintownEvent
	err    error
	calls  int
}

func (s *stubSource) UpcomingEvents(ctx context.Context, artist string) ([]services.BandsintownEvent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

// memRepo is an in-memory stand-in for the sqlite tier.
type memRepo struct {
	rows map[string]struct {
		data      string
		fetchedAt time.Time
	}
	setCalls int
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[string]struct {
		data      string
		fetchedAt time.Time
	})}
}

func (m *memRepo) key(artist, region string) string { return artist + "|" + region }

func (m *memRepo) Get(artist, region string) (string, time.Time, error) {
	row, ok := m.rows[m.key(artist, region)]
	if !ok {
		return "", time.Time{}, errors.New("not found")
	}
	return row.data, row.fetchedAt, nil
}

func (m *memRepo) Set(artist, region, data string, fetchedAt time.Time) error {
	m.setCalls++
	m.rows[m.key(artist, region)] = struct {
		data      string
		fetchedAt time.Time
	}{data, fetchedAt}
	return nil
}

func (m *memRepo) DeleteExpired(cutoff time.Time) (int64, error) {
	var deleted int64
	for key, row := range m.rows {
		if !row.fetchedAt.After(cutoff) {
			delete(m.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

type stubCatalog struct {
	festivals []catalog.Festival
	loads     int
}

func (s *stubCatalog) Load() ([]catalog.Festival, error) {
	s.loads++
	return s.festivals, nil
}

// fakeClock is a movable time source.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func spainEvent(id string) services.BandsintownEvent {
	return services.BandsintownEvent{
		ID:       id,
		Datetime: "2026-06-05T20:00:00",
		URL:      "https://bit.example/" + id,
		Venue:    services.BandsintownVenue{Name: "Sala Apolo", City: "Barcelona", Country: "Spain"},
	}
}

func usEvent(id string) services.BandsintownEvent {
	return services.BandsintownEvent{
		ID:       id,
		Datetime: "2026-07-10T20:00:00",
		Venue:    services.BandsintownVenue{Name: "Grant Park", City: "Chicago", Country: "United States"},
	}
}

func newTestCache(source *stubSource, repo *memRepo, cat *stubCatalog, clock *fakeClock) *Cache {
	return NewCache(source, repo, cat, WithClock(clock.Now))
}

func TestArtistEvents(t *testing.T) {
	t.Run("Fetch Partitions And Caches", func(t *testing.T) {
		source := &stubSource{events: []services.BandsintownEvent{spainEvent("1"), usEvent("2"), spainEvent("3")}}
		repo := newMemRepo()
		cat := &stubCatalog{}
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(source, repo, cat, clock)

		result, err := cache.ArtistEvents(context.Background(), "Bicep", "europe")
		if err != nil {
			t.Fatalf("failed to get artist events: %v", err)
		}

		if len(result.Events) != 2 {
			t.Fatalf("expected 2 european events, got %d", len(result.Events))
		}
		if result.TotalRegionEvents != 2 {
			t.Errorf("expected totalRegionEvents 2, got %d", result.TotalRegionEvents)
		}
		if len(result.OtherRegionsWithEvents) != 1 || result.OtherRegionsWithEvents[0] != "usa" {
			t.Errorf("expected usa in other regions, got %v", result.OtherRegionsWithEvents)
		}
		if repo.setCalls != 1 {
			t.Errorf("expected 1 persistent write, got %d", repo.setCalls)
		}
	})

	t.Run("Memory Hit Skips Source", func(t *testing.T) {
		source := &stubSource{events: []services.BandsintownEvent{spainEvent("1")}}
		repo := newMemRepo()
		cat := &stubCatalog{}
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(source, repo, cat, clock)

		ctx := context.Background()
		if _, err := cache.ArtistEvents(ctx, "Bicep", "europe"); err != nil {
			t.Fatalf("failed on first call: %v", err)
		}
		if _, err := cache.ArtistEvents(ctx, "BICEP", "europe"); err != nil {
			t.Fatalf("failed on second call: %v", err)
		}

		// key lowercases the artist, so BICEP hits Bicep's entry
		if source.calls != 1 {
			t.Errorf("expected 1 source call, got %d", source.calls)
		}
	})

	t.Run("Expired Memory Falls Through To Repo", func(t *testing.T) {
		source := &stubSource{events: []services.BandsintownEvent{spainEvent("1")}}
		repo := newMemRepo()
		cat := &stubCatalog{}
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(source, repo, cat, clock)

		ctx := context.Background()
		if _, err := cache.ArtistEvents(ctx, "Bicep", "europe"); err != nil {
			t.Fatalf("failed on first call: %v", err)
		}

		clock.Advance(25 * time.Hour)

		if _, err := cache.ArtistEvents(ctx, "Bicep", "europe"); err != nil {
			t.Fatalf("failed after expiry: %v", err)
		}
		// both tiers expired together, so the source is hit again
		if source.calls != 2 {
			t.Errorf("expected refetch after TTL, got %d source calls", source.calls)
		}
	})

	t.Run("Repo Hit Backfills Memory", func(t *testing.T) {
		source := &stubSource{events: []services.BandsintownEvent{spainEvent("1")}}
		repo := newMemRepo()
		cat := &stubCatalog{}
		clock := &fakeClock{t: time.Now()}

		// warm the persistent tier with a first cache
		first := newTestCache(source, repo, cat, clock)
		ctx := context.Background()
		if _, err := first.ArtistEvents(ctx, "Bicep", "europe"); err != nil {
			t.Fatalf("failed to warm repo: %v", err)
		}

		// a fresh cache simulates a process restart: empty memory, warm sqlite
		second := newTestCache(source, repo, cat, clock)
		if _, err := second.ArtistEvents(ctx, "Bicep", "europe"); err != nil {
			t.Fatalf("failed after restart: %v", err)
		}
		if source.calls != 1 {
			t.Errorf("expected repo hit to avoid refetch, got %d source calls", source.calls)
		}
		if _, err := second.ArtistEvents(ctx, "Bicep", "europe"); err != nil {
			t.Fatalf("failed on backfilled memory: %v", err)
		}
		if source.calls != 1 {
			t.Errorf("expected memory backfill, got %d source calls", source.calls)
		}
	})

	t.Run("Truncates To Ten Events", func(t *testing.T) {
		var events []services.BandsintownEvent
		for i := 0; i < 14; i++ {
			events = append(events, spainEvent(string(rune('a'+i))))
		}
		source := &stubSource{events: events}
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(source, newMemRepo(), &stubCatalog{}, clock)

		result, err := cache.ArtistEvents(context.Background(), "Bicep", "europe")
		if err != nil {
			t.Fatalf("failed to get artist events: %v", err)
		}
		if len(result.Events) != 10 {
			t.Errorf("expected 10 events, got %d", len(result.Events))
		}
		if result.TotalRegionEvents != 14 {
			t.Errorf("expected totalRegionEvents to count pre-truncation, got %d", result.TotalRegionEvents)
		}
	})

	t.Run("Fresh Festival Appearances On Cache Hit", func(t *testing.T) {
		source := &stubSource{events: []services.BandsintownEvent{spainEvent("1")}}
		cat := &stubCatalog{}
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(source, newMemRepo(), cat, clock)

		ctx := context.Background()
		result, err := cache.ArtistEvents(ctx, "Bicep", "europe")
		if err != nil {
			t.Fatalf("failed to get artist events: %v", err)
		}
		if len(result.FestivalAppearances) != 0 {
			t.Fatalf("expected no appearances yet, got %v", result.FestivalAppearances)
		}

		// a festival announces the artist between requests
		cat.festivals = []catalog.Festival{{
			Name: "Sónar", Country: "ES", Location: "Barcelona",
			Dates: "18-20 Junio 2026", Lineup: []string{"BICEP"},
		}}

		result, err = cache.ArtistEvents(ctx, "Bicep", "europe")
		if err != nil {
			t.Fatalf("failed on second call: %v", err)
		}
		if source.calls != 1 {
			t.Fatalf("expected cache hit, got %d source calls", source.calls)
		}
		if len(result.FestivalAppearances) != 1 || result.FestivalAppearances[0].Name != "Sónar" {
			t.Errorf("expected fresh appearance from updated catalog, got %v", result.FestivalAppearances)
		}
	})

	t.Run("Appearances Filtered By Region", func(t *testing.T) {
		cat := &stubCatalog{festivals: []catalog.Festival{
			{Name: "Sónar", Country: "ES", Lineup: []string{"Bicep"}},
			{Name: "Coachella", Country: "US", Lineup: []string{"Bicep"}},
		}}
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(&stubSource{}, newMemRepo(), cat, clock)

		result, err := cache.ArtistEvents(context.Background(), "Bicep", "usa")
		if err != nil {
			t.Fatalf("failed to get artist events: %v", err)
		}
		if len(result.FestivalAppearances) != 1 || result.FestivalAppearances[0].Name != "Coachella" {
			t.Errorf("expected only the usa appearance, got %v", result.FestivalAppearances)
		}
	})

	t.Run("API Failure Degrades Uncached", func(t *testing.T) {
		source := &stubSource{err: errors.New("upstream down")}
		repo := newMemRepo()
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(source, repo, &stubCatalog{}, clock)

		ctx := context.Background()
		result, err := cache.ArtistEvents(ctx, "Bicep", "europe")
		if err != nil {
			t.Fatalf("expected degraded payload, got error: %v", err)
		}
		if !result.APIError {
			t.Error("expected apiError flag")
		}
		if len(result.Events) != 0 {
			t.Errorf("expected empty events, got %v", result.Events)
		}
		if repo.setCalls != 0 {
			t.Errorf("failed fetch must not be cached, got %d writes", repo.setCalls)
		}

		// recovery: next request retries and succeeds
		source.err = nil
		source.events = []services.BandsintownEvent{spainEvent("1")}
		result, err = cache.ArtistEvents(ctx, "Bicep", "europe")
		if err != nil {
			t.Fatalf("failed after recovery: %v", err)
		}
		if result.APIError || len(result.Events) != 1 {
			t.Errorf("expected successful retry, got %+v", result)
		}
	})

	t.Run("Unknown Region Falls Back To Europe", func(t *testing.T) {
		source := &stubSource{events: []services.BandsintownEvent{spainEvent("1")}}
		clock := &fakeClock{t: time.Now()}
		cache := newTestCache(source, newMemRepo(), &stubCatalog{}, clock)

		result, err := cache.ArtistEvents(context.Background(), "Bicep", "antarctica")
		if err != nil {
			t.Fatalf("failed to get artist events: %v", err)
		}
		if result.Region != "europe" {
			t.Errorf("expected europe fallback, got %s", result.Region)
		}
		if len(result.Events) != 1 {
			t.Errorf("expected european event under fallback, got %v", result.Events)
		}
	})
}

func TestSweep(t *testing.T) {
	repo := newMemRepo()
	clock := &fakeClock{t: time.Now()}
	cache := newTestCache(&stubSource{}, repo, &stubCatalog{}, clock)

	repo.Set("Stale", "europe", "{}", clock.t.Add(-25*time.Hour))
	repo.Set("Fresh", "europe", "{}", clock.t)

	deleted, err := cache.Sweep()
	if err != nil {
		t.Fatalf("failed to sweep: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 swept row, got %d", deleted)
	}
}
