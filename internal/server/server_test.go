package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/shared"
)

func testCatalog() []catalog.Festival {
	return []catalog.Festival{
		{ID: "sonar", Name: "Sónar", Country: "ES", Location: "Barcelona", Dates: "12-14 Junio 2026", LineupStatus: catalog.LineupConfirmed, Lineup: []string{"Bicep", "Jamie xx"}},
		{ID: "coachella", Name: "Coachella", Country: "US", Location: "Indio", Dates: "Abril 2026", LineupStatus: catalog.LineupConfirmed, Lineup: []string{"Dua Lipa"}},
		{ID: "mad-cool", Name: "Mad Cool", Country: "ES", Location: "Madrid", Dates: "TBA", LineupStatus: catalog.LineupUnannounced, Lineup: []string{}},
	}
}

func setupApp(t *testing.T) (*App, *sql.DB) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	catalogPath := filepath.Join(t.TempDir(), "festivals.json")
	data, err := json.Marshal(testCatalog())
	if err != nil {
		t.Fatalf("failed to marshal catalog: %v", err)
	}
	if err := os.WriteFile(catalogPath, data, 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	config := shared.DefaultConfig()
	config.Catalog.Path = catalogPath

	return NewApp(config, db, shared.NewLogger(io.Discard)), db
}

// loginUser creates a user with the given role and an active session,
// returning the session cookie.
func loginUser(t *testing.T, db *sql.DB, email, role string) (*models.User, *http.Cookie) {
	t.Helper()

	user := models.NewUser(0, "google-"+email, email, "Test User")
	if role != "" {
		user.SetRole(role)
	}
	if err := repositories.NewUserRepository(db).Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	session := models.NewSession(user.ID())
	if err := repositories.NewSessionRepository(db).Create(session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	return user, &http.Cookie{Name: SessionCookie, Value: session.ID()}
}

func doRequest(app *App, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	app.Router().ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return body
}

func TestAuthEndpoints(t *testing.T) {
	app, db := setupApp(t)

	t.Run("Me Anonymous", func(t *testing.T) {
		recorder := doRequest(app, "GET", "/auth/me", "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if body := decode(t, recorder); body["user"] != nil {
			t.Errorf("expected null user, got %v", body["user"])
		}
	})

	t.Run("Me With Session", func(t *testing.T) {
		user, cookie := loginUser(t, db, "me@example.com", "")

		body := decode(t, doRequest(app, "GET", "/auth/me", "", cookie))
		profile, ok := body["user"].(map[string]any)
		if !ok {
			t.Fatalf("expected user object, got %v", body["user"])
		}
		if profile["email"] != user.Email() {
			t.Errorf("expected %s, got %v", user.Email(), profile["email"])
		}
	})

	t.Run("Protected Route Requires Session", func(t *testing.T) {
		recorder := doRequest(app, "GET", "/api/user/artists", "", nil)
		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("Logout Invalidates Session", func(t *testing.T) {
		_, cookie := loginUser(t, db, "logout@example.com", "")

		recorder := doRequest(app, "POST", "/auth/logout", "", cookie)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		body := decode(t, doRequest(app, "GET", "/auth/me", "", cookie))
		if body["user"] != nil {
			t.Errorf("expected null user after logout, got %v", body["user"])
		}
	})
}

func TestArtistEndpoints(t *testing.T) {
	app, db := setupApp(t)
	_, cookie := loginUser(t, db, "artists@example.com", "")

	t.Run("Add And List", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/user/artists",
			`{"artistName": "Bicep", "musicbrainzId": "mb-1"}`, cookie)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}

		body := decode(t, doRequest(app, "GET", "/api/user/artists", "", cookie))
		artists, ok := body["artists"].([]any)
		if !ok || len(artists) != 1 {
			t.Fatalf("expected 1 artist, got %v", body["artists"])
		}
		artist := artists[0].(map[string]any)
		if artist["artist_name"] != "Bicep" {
			t.Errorf("expected Bicep, got %v", artist["artist_name"])
		}
	})

	t.Run("Duplicate Rejected", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/user/artists",
			`{"artistName": "BICEP"}`, cookie)
		if recorder.Code != http.StatusConflict {
			t.Errorf("expected 409 for case-insensitive duplicate, got %d", recorder.Code)
		}
	})

	t.Run("Empty Name Rejected", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/user/artists", `{"artistName": "  "}`, cookie)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/user/artists", "", cookie))
		artist := body["artists"].([]any)[0].(map[string]any)

		recorder := doRequest(app, "DELETE", "/api/user/artists/"+artist["id"].(string), "", cookie)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		recorder = doRequest(app, "DELETE", "/api/user/artists/"+artist["id"].(string), "", cookie)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("expected 404 for missing artist, got %d", recorder.Code)
		}
	})
}

func TestGenreEndpoints(t *testing.T) {
	app, db := setupApp(t)
	_, cookie := loginUser(t, db, "genres@example.com", "")

	t.Run("Available Genres Are Public", func(t *testing.T) {
		recorder := doRequest(app, "GET", "/api/genres", "", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		body := decode(t, recorder)
		genres, ok := body["genres"].([]any)
		if !ok || len(genres) != len(models.AvailableGenres) {
			t.Errorf("expected %d genres, got %v", len(models.AvailableGenres), body["genres"])
		}
	})

	t.Run("Add List Remove", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/user/genres", `{"genre": "techno"}`, cookie)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}

		body := decode(t, doRequest(app, "GET", "/api/user/genres", "", cookie))
		genres := body["genres"].([]any)
		if len(genres) != 1 {
			t.Fatalf("expected 1 genre, got %d", len(genres))
		}

		id := genres[0].(map[string]any)["id"].(string)
		if recorder := doRequest(app, "DELETE", "/api/user/genres/"+id, "", cookie); recorder.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", recorder.Code)
		}
	})
}

func TestFavoriteEndpoints(t *testing.T) {
	app, db := setupApp(t)
	_, cookie := loginUser(t, db, "favorites@example.com", "")

	t.Run("Add List Remove", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/user/favorite-festivals",
			`{"festivalId": "sonar"}`, cookie)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}

		body := decode(t, doRequest(app, "GET", "/api/user/favorite-festivals", "", cookie))
		festivals := body["festivals"].([]any)
		if len(festivals) != 1 || festivals[0].(map[string]any)["festival_id"] != "sonar" {
			t.Fatalf("expected sonar favorite, got %v", body["festivals"])
		}

		if recorder := doRequest(app, "DELETE", "/api/user/favorite-festivals/sonar", "", cookie); recorder.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", recorder.Code)
		}
	})

	t.Run("Missing ID Rejected", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/user/favorite-festivals", `{}`, cookie)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})
}

func TestFestivalEndpoints(t *testing.T) {
	app, db := setupApp(t)
	_, cookie := loginUser(t, db, "fan@example.com", "")

	doRequest(app, "POST", "/api/user/artists", `{"artistName": "Bicep"}`, cookie)
	doRequest(app, "POST", "/api/user/favorite-festivals", `{"festivalId": "mad-cool"}`, cookie)

	t.Run("Ranked For User", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/user/festivals?region=europe", "", cookie))
		festivals := body["festivals"].([]any)
		// coachella filtered out by region
		if len(festivals) != 2 {
			t.Fatalf("expected 2 festivals, got %d", len(festivals))
		}

		first := festivals[0].(map[string]any)
		if first["id"] != "sonar" || first["matchPercentage"] != float64(100) {
			t.Errorf("expected sonar at 100%%, got %v at %v", first["id"], first["matchPercentage"])
		}

		second := festivals[1].(map[string]any)
		if second["id"] != "mad-cool" || second["isFavorite"] != true {
			t.Errorf("expected mad-cool flagged favorite, got %v", second)
		}
	})

	t.Run("Demo Artists", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/demo/artists", "", nil))
		if body["isDemo"] != true {
			t.Error("expected isDemo flag")
		}
		if artists := body["artists"].([]any); len(artists) != 20 {
			t.Errorf("expected 20 demo artists, got %d", len(artists))
		}
	})

	t.Run("Demo Festivals", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/demo/festivals?region=usa", "", nil))
		festivals := body["festivals"].([]any)
		if len(festivals) != 1 {
			t.Fatalf("expected 1 usa festival, got %d", len(festivals))
		}
		first := festivals[0].(map[string]any)
		// Dua Lipa is 1 of the 20 demo artists
		if first["id"] != "coachella" || first["matchPercentage"] != float64(5) {
			t.Errorf("expected coachella at 5%%, got %v at %v", first["id"], first["matchPercentage"])
		}
	})

	t.Run("Current Year", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/current-year", "", nil))
		if year, ok := body["year"].(float64); !ok || year < 2020 {
			t.Errorf("expected a plausible year, got %v", body["year"])
		}
	})

	t.Run("Calendar", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/festivals/calendar?region=europe&year=2026", "", nil))
		festivals := body["festivals"].([]any)
		// mad-cool's TBA dates keep it off the calendar
		if len(festivals) != 1 {
			t.Fatalf("expected 1 festival with parseable dates, got %d", len(festivals))
		}
		entry := festivals[0].(map[string]any)
		if entry["id"] != "sonar" {
			t.Errorf("expected sonar, got %v", entry["id"])
		}

		body = decode(t, doRequest(app, "GET", "/api/festivals/calendar?region=europe&year=2026&month=7", "", nil))
		if festivals := body["festivals"].([]any); len(festivals) != 0 {
			t.Errorf("expected no july festivals, got %d", len(festivals))
		}
	})

	t.Run("Short Search Query", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/search/artists?q=b", "", nil))
		if artists := body["artists"].([]any); len(artists) != 0 {
			t.Errorf("expected empty result for short query, got %v", artists)
		}
	})

	t.Run("Lastfm Not Linked", func(t *testing.T) {
		recorder := doRequest(app, "GET", "/api/user/top-artists", "", cookie)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without a linked account, got %d", recorder.Code)
		}
	})
}

func TestSuggestionEndpoints(t *testing.T) {
	app, db := setupApp(t)
	_, userCookie := loginUser(t, db, "user@example.com", "")
	_, adminCookie := loginUser(t, db, "admin@example.com", "admin")

	var suggestionID string

	t.Run("Submit Anonymous", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/festival-suggestions",
			`{"festivalName": "Nuevo Festival", "country": "ES", "city": "Valencia"}`, nil)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}

		suggestion := decode(t, recorder)["suggestion"].(map[string]any)
		if suggestion["status"] != models.SuggestionPending {
			t.Errorf("expected pending, got %v", suggestion["status"])
		}
		suggestionID = suggestion["id"].(string)
	})

	t.Run("Missing Fields Rejected", func(t *testing.T) {
		recorder := doRequest(app, "POST", "/api/festival-suggestions",
			`{"festivalName": "Sin Pais"}`, nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("Admin Routes Are Guarded", func(t *testing.T) {
		if recorder := doRequest(app, "GET", "/api/admin/suggestions", "", nil); recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 anonymous, got %d", recorder.Code)
		}
		if recorder := doRequest(app, "GET", "/api/admin/suggestions", "", userCookie); recorder.Code != http.StatusForbidden {
			t.Errorf("expected 403 for non-admin, got %d", recorder.Code)
		}
	})

	t.Run("Admin List", func(t *testing.T) {
		body := decode(t, doRequest(app, "GET", "/api/admin/suggestions?status=pending", "", adminCookie))
		suggestions := body["suggestions"].([]any)
		if len(suggestions) != 1 {
			t.Fatalf("expected 1 pending suggestion, got %d", len(suggestions))
		}
	})

	t.Run("Approve Appends To Catalog", func(t *testing.T) {
		path := fmt.Sprintf("/api/admin/suggestions/%s/approve", suggestionID)
		recorder := doRequest(app, "POST", path, "", adminCookie)
		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if body := decode(t, recorder); body["status"] != models.SuggestionApproved {
			t.Errorf("expected approved, got %v", body["status"])
		}

		// the new festival now ranks in its region
		body := decode(t, doRequest(app, "GET", "/api/demo/festivals?region=europe", "", nil))
		found := false
		for _, entry := range body["festivals"].([]any) {
			if entry.(map[string]any)["id"] == "nuevo-festival" {
				found = true
			}
		}
		if !found {
			t.Error("expected nuevo-festival in the europe ranking after approval")
		}
	})

	t.Run("Approve Is Terminal", func(t *testing.T) {
		path := fmt.Sprintf("/api/admin/suggestions/%s/approve", suggestionID)
		if recorder := doRequest(app, "POST", path, "", adminCookie); recorder.Code != http.StatusConflict {
			t.Errorf("expected 409 for resolved suggestion, got %d", recorder.Code)
		}
	})
}
