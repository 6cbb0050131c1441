package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	user := models.NewUser(0, "google-123", "test@example.com", "Test User")
	if err := NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}
		if user.Role() != "user" {
			t.Errorf("expected default role user, got %s", user.Role())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db)

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Email() != "test@example.com" || got.GoogleID() != "google-123" {
			t.Errorf("unexpected user: %s %s", got.Email(), got.GoogleID())
		}
	})

	t.Run("GetByGoogleID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db)

		got, err := repo.GetByGoogleID("google-123")
		if err != nil {
			t.Fatalf("failed to get user by google id: %v", err)
		}
		if got.ID() != user.ID() {
			t.Errorf("expected user %s, got %s", user.ID(), got.ID())
		}

		if _, err := repo.GetByGoogleID("google-999"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db)

		user.SetLastfmUsername("listener")
		user.SetRole("user,admin")
		if err := repo.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.LastfmUsername() != "listener" {
			t.Errorf("expected lastfm username listener, got %s", got.LastfmUsername())
		}
		if !got.IsAdmin() {
			t.Error("expected updated user to be admin")
		}
	})

	t.Run("Soft Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db)

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.Get(user.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after soft delete, got %v", err)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewSessionRepository(db)

		session := models.NewSession(user.ID())
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if len(session.ID()) != 64 {
			t.Errorf("expected 64-char session id, got %d chars", len(session.ID()))
		}

		got, err := repo.Get(session.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if got.UserID() != user.ID() {
			t.Errorf("expected user %s, got %s", user.ID(), got.UserID())
		}
	})

	t.Run("GetUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewSessionRepository(db)

		session := models.NewSession(user.ID())
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := repo.GetUser(session.ID(), time.Now())
		if err != nil {
			t.Fatalf("failed to resolve session user: %v", err)
		}
		if got.Email() != user.Email() {
			t.Errorf("expected %s, got %s", user.Email(), got.Email())
		}
	})

	t.Run("Expired Session", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewSessionRepository(db)

		session := models.NewSession(user.ID())
		session.SetExpiresAt(time.Now().Add(-time.Hour))
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if _, err := repo.GetUser(session.ID(), time.Now()); !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}

		// expired sessions are reaped on access
		if _, err := repo.Get(session.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected session row to be deleted, got %v", err)
		}
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewSessionRepository(db)

		live := models.NewSession(user.ID())
		if err := repo.Create(live); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		stale := models.NewSession(user.ID())
		stale.SetExpiresAt(time.Now().Add(-time.Minute))
		if err := repo.Create(stale); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		deleted, err := repo.DeleteExpired(time.Now())
		if err != nil {
			t.Fatalf("failed to delete expired sessions: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 deleted session, got %d", deleted)
		}

		if _, err := repo.Get(live.ID()); err != nil {
			t.Errorf("live session should survive the sweep: %v", err)
		}
	})
}

func TestArtistRepository(t *testing.T) {
	t.Run("Create And List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewArtistRepository(db)

		for _, name := range []string{"Bicep", "Four Tet"} {
			if err := repo.Create(models.NewUserArtist(0, user.ID(), name, "")); err != nil {
				t.Fatalf("failed to create artist %s: %v", name, err)
			}
		}

		artists, err := repo.ListByUser(user.ID())
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].ArtistName() != "Bicep" {
			t.Errorf("expected insertion order, got %s first", artists[0].ArtistName())
		}
	})

	t.Run("Case Insensitive Duplicate", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewArtistRepository(db)

		if err := repo.Create(models.NewUserArtist(0, user.ID(), "Bicep", "")); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		err := repo.Create(models.NewUserArtist(0, user.ID(), "BICEP", ""))
		if !errors.Is(err, shared.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate for case-insensitive collision, got %v", err)
		}
	})

	t.Run("DistinctNames", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		userRepo := NewUserRepository(db)
		alice := models.NewUser(0, "google-a", "a@example.com", "Alice")
		bob := models.NewUser(0, "google-b", "b@example.com", "Bob")
		for _, u := range []*models.User{alice, bob} {
			if err := userRepo.Create(u); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		repo := NewArtistRepository(db)
		for _, pair := range []struct{ userID, name string }{
			{alice.ID(), "Bicep"}, {alice.ID(), "Clairo"}, {bob.ID(), "bicep"},
		} {
			if err := repo.Create(models.NewUserArtist(0, pair.userID, pair.name, "")); err != nil {
				t.Fatalf("failed to create artist: %v", err)
			}
		}

		names, err := repo.DistinctNames()
		if err != nil {
			t.Fatalf("failed to list distinct names: %v", err)
		}
		if len(names) != 2 {
			t.Errorf("expected 2 distinct names, got %v", names)
		}
	})

	t.Run("DeleteForUser Scoping", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewArtistRepository(db)

		artist := models.NewUserArtist(0, user.ID(), "Bicep", "")
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		if err := repo.DeleteForUser("someone-else", artist.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for foreign user, got %v", err)
		}
		if err := repo.DeleteForUser(user.ID(), artist.ID()); err != nil {
			t.Errorf("failed to delete own artist: %v", err)
		}
	})
}

func TestGenreRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db)
	repo := NewGenreRepository(db)

	if err := repo.Create(models.NewUserGenre(0, user.ID(), "Techno")); err != nil {
		t.Fatalf("failed to create genre: %v", err)
	}

	if err := repo.Create(models.NewUserGenre(0, user.ID(), "techno")); !errors.Is(err, shared.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	genres, err := repo.ListByUser(user.ID())
	if err != nil {
		t.Fatalf("failed to list genres: %v", err)
	}
	if len(genres) != 1 || genres[0].Genre() != "Techno" {
		t.Errorf("unexpected genres: %v", genres)
	}

	if err := repo.DeleteForUser(user.ID(), genres[0].ID()); err != nil {
		t.Errorf("failed to delete genre: %v", err)
	}
}

func TestFavoriteRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db)
	repo := NewFavoriteRepository(db)

	if err := repo.Create(models.NewFavoriteFestival(0, user.ID(), "primavera-sound")); err != nil {
		t.Fatalf("failed to create favorite: %v", err)
	}

	if err := repo.Create(models.NewFavoriteFestival(0, user.ID(), "primavera-sound")); !errors.Is(err, shared.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	ids, err := repo.FestivalIDs(user.ID())
	if err != nil {
		t.Fatalf("failed to get favorite ids: %v", err)
	}
	if !ids["primavera-sound"] {
		t.Error("expected primavera-sound in favorite set")
	}

	if err := repo.DeleteForUser(user.ID(), "primavera-sound"); err != nil {
		t.Errorf("failed to delete favorite by slug: %v", err)
	}
	if err := repo.DeleteForUser(user.ID(), "primavera-sound"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTourCacheRepository(t *testing.T) {
	t.Run("Set And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTourCacheRepository(db)
		fetchedAt := time.Now().Truncate(time.Second)

		if err := repo.Set("Bicep", "europe", `{"events":[]}`, fetchedAt); err != nil {
			t.Fatalf("failed to set tour cache: %v", err)
		}

		data, got, err := repo.Get("bicep", "europe")
		if err != nil {
			t.Fatalf("failed to get tour cache case-insensitively: %v", err)
		}
		if data != `{"events":[]}` {
			t.Errorf("unexpected payload: %s", data)
		}
		if !got.Equal(fetchedAt) {
			t.Errorf("expected fetched_at %v, got %v", fetchedAt, got)
		}

		if _, _, err := repo.Get("Bicep", "usa"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected region to match exactly, got %v", err)
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTourCacheRepository(db)

		if err := repo.Set("Bicep", "europe", "old", time.Now().Add(-time.Hour)); err != nil {
			t.Fatalf("failed to set tour cache: %v", err)
		}
		if err := repo.Set("Bicep", "europe", "new", time.Now()); err != nil {
			t.Fatalf("failed to overwrite tour cache: %v", err)
		}

		data, _, err := repo.Get("Bicep", "europe")
		if err != nil {
			t.Fatalf("failed to get tour cache: %v", err)
		}
		if data != "new" {
			t.Errorf("expected upsert to replace payload, got %s", data)
		}
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTourCacheRepository(db)
		now := time.Now()

		if err := repo.Set("Stale", "europe", "{}", now.Add(-25*time.Hour)); err != nil {
			t.Fatalf("failed to set tour cache: %v", err)
		}
		if err := repo.Set("Fresh", "europe", "{}", now); err != nil {
			t.Fatalf("failed to set tour cache: %v", err)
		}

		deleted, err := repo.DeleteExpired(now.Add(-24 * time.Hour))
		if err != nil {
			t.Fatalf("failed to delete expired rows: %v", err)
		}
		if deleted != 1 {
			t.Errorf("expected 1 expired row deleted, got %d", deleted)
		}

		if _, _, err := repo.Get("Fresh", "europe"); err != nil {
			t.Errorf("fresh row should survive the sweep: %v", err)
		}
	})
}

func TestSuggestionRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSuggestionRepository(db)
		suggestion := models.NewFestivalSuggestion(0, "", "Nuevo Fest", "ES", "Valencia")
		suggestion.SetWebsite("https://nuevofest.example")

		if err := repo.Create(suggestion); err != nil {
			t.Fatalf("failed to create suggestion: %v", err)
		}

		got, err := repo.Get(suggestion.ID())
		if err != nil {
			t.Fatalf("failed to get suggestion: %v", err)
		}
		if got.Status() != models.SuggestionPending {
			t.Errorf("expected pending status, got %s", got.Status())
		}
		if got.Website() != "https://nuevofest.example" {
			t.Errorf("unexpected website: %s", got.Website())
		}
	})

	t.Run("Resolve And Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSuggestionRepository(db)
		suggestion := models.NewFestivalSuggestion(0, "", "Nuevo Fest", "ES", "Valencia")
		if err := repo.Create(suggestion); err != nil {
			t.Fatalf("failed to create suggestion: %v", err)
		}

		if err := suggestion.Resolve(models.SuggestionApproved); err != nil {
			t.Fatalf("failed to resolve suggestion: %v", err)
		}
		if err := repo.Update(suggestion); err != nil {
			t.Fatalf("failed to update suggestion: %v", err)
		}

		got, err := repo.Get(suggestion.ID())
		if err != nil {
			t.Fatalf("failed to get suggestion: %v", err)
		}
		if got.Status() != models.SuggestionApproved {
			t.Errorf("expected approved status, got %s", got.Status())
		}
	})

	t.Run("List By Status", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSuggestionRepository(db)

		pending := models.NewFestivalSuggestion(0, "", "Pending Fest", "ES", "Madrid")
		if err := repo.Create(pending); err != nil {
			t.Fatalf("failed to create suggestion: %v", err)
		}

		rejected := models.NewFestivalSuggestion(0, "", "Rejected Fest", "FR", "Paris")
		if err := repo.Create(rejected); err != nil {
			t.Fatalf("failed to create suggestion: %v", err)
		}
		if err := rejected.Resolve(models.SuggestionRejected); err != nil {
			t.Fatalf("failed to resolve suggestion: %v", err)
		}
		if err := repo.Update(rejected); err != nil {
			t.Fatalf("failed to update suggestion: %v", err)
		}

		got, err := repo.List(map[string]any{"status": models.SuggestionPending})
		if err != nil {
			t.Fatalf("failed to list suggestions: %v", err)
		}
		if len(got) != 1 || got[0].FestivalName() != "Pending Fest" {
			t.Errorf("unexpected pending list: %v", got)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list all suggestions: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 suggestions, got %d", len(all))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSuggestionRepository(db)
		suggestion := models.NewFestivalSuggestion(0, "", "Nuevo Fest", "ES", "Valencia")
		if err := repo.Create(suggestion); err != nil {
			t.Fatalf("failed to create suggestion: %v", err)
		}

		if err := repo.Delete(suggestion.ID()); err != nil {
			t.Fatalf("failed to delete suggestion: %v", err)
		}
		if _, err := repo.Get(suggestion.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}
