package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore(t *testing.T) {
	writeCatalog := func(t *testing.T, content string) *Store {
		t.Helper()
		path := filepath.Join(t.TempDir(), "festivals.json")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write catalog: %v", err)
		}
		return NewStore(path)
	}

	t.Run("Load", func(t *testing.T) {
		store := writeCatalog(t, `[
			{"id": "mad-cool", "name": "Mad Cool", "country": "ES", "location": "Madrid",
			 "dates": "8-11 Julio 2026", "lineupStatus": "partial", "lineup": ["Dua Lipa"]}
		]`)

		festivals, err := store.Load()
		if err != nil {
			t.Fatalf("failed to load catalog: %v", err)
		}

		if len(festivals) != 1 {
			t.Fatalf("expected 1 festival, got %d", len(festivals))
		}
		if festivals[0].ID != "mad-cool" {
			t.Errorf("expected id mad-cool, got %s", festivals[0].ID)
		}
		if festivals[0].LineupStatus != LineupPartial {
			t.Errorf("expected partial lineup status, got %s", festivals[0].LineupStatus)
		}
	})

	t.Run("Load Missing File", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
		if _, err := store.Load(); err == nil {
			t.Error("expected error for missing catalog file")
		}
	})

	t.Run("Load Invalid JSON", func(t *testing.T) {
		store := writeCatalog(t, "{not json")
		if _, err := store.Load(); err == nil {
			t.Error("expected error for invalid catalog JSON")
		}
	})

	t.Run("Append Visible To Fresh Load", func(t *testing.T) {
		store := writeCatalog(t, "[]")

		f := Festival{
			ID:           Slug("Nuevo Festival"),
			Name:         "Nuevo Festival",
			Country:      "ES",
			Location:     "Valencia",
			Dates:        "TBA",
			LineupStatus: LineupUnannounced,
			Lineup:       []string{},
		}
		if err := store.Append(f); err != nil {
			t.Fatalf("failed to append festival: %v", err)
		}

		festivals, err := store.Load()
		if err != nil {
			t.Fatalf("failed to reload catalog: %v", err)
		}
		if len(festivals) != 1 {
			t.Fatalf("expected 1 festival after append, got %d", len(festivals))
		}
		if festivals[0].ID != "nuevo-festival" {
			t.Errorf("expected slug id nuevo-festival, got %s", festivals[0].ID)
		}
	})

	t.Run("FindByName Case Insensitive", func(t *testing.T) {
		festivals := []Festival{
			{ID: "sonar", Name: "Sónar"},
			{ID: "mad-cool", Name: "Mad Cool"},
		}

		if _, ok := FindByName(festivals, "MAD COOL"); !ok {
			t.Error("expected to find Mad Cool case-insensitively")
		}
		if _, ok := FindByName(festivals, "sonar"); !ok {
			t.Error("expected diacritic-insensitive name match")
		}
		if _, ok := FindByName(festivals, "Download"); ok {
			t.Error("did not expect a match for Download")
		}
	})

	t.Run("WriteSeed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "festivals.json")
		if err := WriteSeed(path); err != nil {
			t.Fatalf("failed to write seed: %v", err)
		}

		festivals, err := NewStore(path).Load()
		if err != nil {
			t.Fatalf("failed to load seeded catalog: %v", err)
		}
		if len(festivals) == 0 {
			t.Fatal("expected seeded catalog to contain festivals")
		}

		if err := WriteSeed(path); err == nil {
			t.Error("expected error when seeding over an existing catalog")
		}
	})
}

func TestRegions(t *testing.T) {
	t.Run("LookupRegion Fallback", func(t *testing.T) {
		if got := LookupRegion("antarctica").Key; got != RegionEurope {
			t.Errorf("expected fallback to europe, got %s", got)
		}
		if got := LookupRegion("").Key; got != RegionEurope {
			t.Errorf("expected empty region to fall back to europe, got %s", got)
		}
		if got := LookupRegion("latam").Key; got != RegionLatam {
			t.Errorf("expected latam, got %s", got)
		}
	})

	t.Run("FilterRegion", func(t *testing.T) {
		festivals := []Festival{
			{ID: "a", Country: "ES"},
			{ID: "b", Country: "US"},
			{ID: "c", Country: "MX"},
			{ID: "d", Country: "GB"},
		}

		europe := FilterRegion(festivals, LookupRegion(RegionEurope))
		if len(europe) != 2 {
			t.Errorf("expected 2 european festivals, got %d", len(europe))
		}

		latam := FilterRegion(festivals, LookupRegion(RegionLatam))
		if len(latam) != 1 || latam[0].ID != "c" {
			t.Errorf("expected only festival c in latam, got %v", latam)
		}
	})

	t.Run("Country Membership", func(t *testing.T) {
		europe := LookupRegion(RegionEurope)
		if !europe.HasCountryName("Czechia") {
			t.Error("expected Czechia in europe country names")
		}
		if europe.HasCountryName("Brazil") {
			t.Error("did not expect Brazil in europe country names")
		}
		if !europe.HasCountryCode("UK") {
			t.Error("expected UK alias in europe country codes")
		}
	})
}

func TestSlug(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Mad Cool", "mad-cool"},
		{"Sónar", "sonar"},
		{"FIB Benicàssim", "fib-benicassim"},
		{"  Rock en Seine  ", "rock-en-seine"},
		{"AC/DC Fest 2026", "ac-dc-fest-2026"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.name); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
