package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/catalog"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/services"
	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/desertthunder/festmatch/internal/tasks"
	"github.com/desertthunder/festmatch/internal/tourdates"
)

// App wires the repositories, services and handlers into one HTTP service
// and owns its lifecycle, including the background sweeper.
type App struct {
	config *shared.Config
	logger *log.Logger
	router *BasicRouter

	sessions  *repositories.SessionRepository
	events    *tourdates.Cache
	sweeper   *tasks.Sweeper
	worldtime *services.WorldTimeService

	auth        *AuthHandler
	profile     *ProfileHandler
	matches     *MatchHandler
	suggestions *SuggestionHandler

	mu   sync.RWMutex
	year int
}

// NewApp builds the full service over an open database handle.
func NewApp(config *shared.Config, db *sql.DB, logger *log.Logger) *App {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)
	artists := repositories.NewArtistRepository(db)
	genres := repositories.NewGenreRepository(db)
	favorites := repositories.NewFavoriteRepository(db)
	suggestions := repositories.NewSuggestionRepository(db)
	tourcache := repositories.NewTourCacheRepository(db)

	store := catalog.NewStore(config.Catalog.Path)

	bandsintown := services.NewBandsintownService(nil)
	musicbrainz := services.NewMusicBrainzService(nil)
	lastfm := services.NewLastfmService(config.Credentials.Lastfm.APIKey, nil)
	worldtime := services.NewWorldTimeService(nil)

	cacheOpts := []tourdates.Option{tourdates.WithLogger(logger)}
	if config.Cache.TTLHours > 0 {
		cacheOpts = append(cacheOpts, tourdates.WithTTL(time.Duration(config.Cache.TTLHours)*time.Hour))
	}
	events := tourdates.NewCache(bandsintown, tourcache, store, cacheOpts...)

	engine := tasks.NewEngine(artists, favorites, store)
	curator := tasks.NewCurator(suggestions, store, logger)
	sweeper := tasks.NewSweeper(sessions, events,
		time.Duration(config.Cache.SessionSweepMin)*time.Minute,
		time.Duration(config.Cache.SweepHours)*time.Hour,
		logger)

	app := &App{
		config:    config,
		logger:    logger,
		router:    NewBasicRouter(),
		sessions:  sessions,
		events:    events,
		sweeper:   sweeper,
		worldtime: worldtime,
		year:      time.Now().Year(),
	}

	app.auth = NewAuthHandler(config, users, sessions, logger)
	app.profile = NewProfileHandler(users, artists, genres, favorites, lastfm, logger)
	app.matches = NewMatchHandler(engine, events, store, musicbrainz, app.Year, logger)
	app.suggestions = NewSuggestionHandler(suggestions, curator, logger)

	app.routes()
	return app
}

// Year reports the season year, refreshed from the network at startup.
func (a *App) Year() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.year
}

// routes registers every endpoint on the router.
func (a *App) routes() {
	r := a.router
	r.Use(Logging(a.logger), CORS, WithSession(a.sessions))

	r.Handle("GET", "/auth/google", http.HandlerFunc(a.auth.Login))
	r.Handle("GET", "/auth/google/callback", http.HandlerFunc(a.auth.Callback))
	r.Handle("GET", "/auth/me", http.HandlerFunc(a.auth.Me))
	r.Handle("POST", "/auth/logout", http.HandlerFunc(a.auth.Logout))

	r.Handle("GET", "/api/user/artists", RequireAuth(http.HandlerFunc(a.profile.ListArtists)))
	r.Handle("POST", "/api/user/artists", RequireAuth(http.HandlerFunc(a.profile.AddArtist)))
	r.Handle("DELETE", "/api/user/artists/{id}", RequireAuth(http.HandlerFunc(a.profile.RemoveArtist)))

	r.Handle("GET", "/api/genres", http.HandlerFunc(a.profile.AvailableGenres))
	r.Handle("GET", "/api/user/genres", RequireAuth(http.HandlerFunc(a.profile.ListGenres)))
	r.Handle("POST", "/api/user/genres", RequireAuth(http.HandlerFunc(a.profile.AddGenre)))
	r.Handle("DELETE", "/api/user/genres/{id}", RequireAuth(http.HandlerFunc(a.profile.RemoveGenre)))

	r.Handle("GET", "/api/user/favorite-festivals", RequireAuth(http.HandlerFunc(a.profile.ListFavorites)))
	r.Handle("POST", "/api/user/favorite-festivals", RequireAuth(http.HandlerFunc(a.profile.AddFavorite)))
	r.Handle("DELETE", "/api/user/favorite-festivals/{festivalId}", RequireAuth(http.HandlerFunc(a.profile.RemoveFavorite)))

	r.Handle("GET", "/api/user/top-artists", RequireAuth(http.HandlerFunc(a.profile.TopArtists)))
	r.Handle("PUT", "/api/user/lastfm", RequireAuth(http.HandlerFunc(a.profile.SetLastfm)))

	r.Handle("GET", "/api/user/festivals", RequireAuth(http.HandlerFunc(a.matches.UserFestivals)))
	r.Handle("GET", "/api/demo/artists", http.HandlerFunc(a.matches.DemoArtists))
	r.Handle("GET", "/api/demo/festivals", http.HandlerFunc(a.matches.DemoFestivals))
	r.Handle("GET", "/api/search/artists", http.HandlerFunc(a.matches.SearchArtists))
	r.Handle("GET", "/api/artist-events/{artistName}", http.HandlerFunc(a.matches.ArtistEvents))
	r.Handle("GET", "/api/festivals/calendar", http.HandlerFunc(a.matches.Calendar))
	r.Handle("GET", "/api/current-year", http.HandlerFunc(a.matches.CurrentYear))

	r.Handle("POST", "/api/festival-suggestions", http.HandlerFunc(a.suggestions.Submit))
	r.Handle("GET", "/api/admin/suggestions", RequireAdmin(http.HandlerFunc(a.suggestions.AdminList)))
	r.Handle("POST", "/api/admin/suggestions/{id}/approve", RequireAdmin(http.HandlerFunc(a.suggestions.Approve)))
	r.Handle("POST", "/api/admin/suggestions/{id}/reject", RequireAdmin(http.HandlerFunc(a.suggestions.Reject)))
	r.Handle("DELETE", "/api/admin/suggestions/{id}", RequireAdmin(http.HandlerFunc(a.suggestions.AdminDelete)))
}

// Static mounts a handler for everything the API routes don't claim,
// normally the front-end file server.
func (a *App) Static(handler Handler) {
	a.router.Handler(handler)
}

// Router exposes the wired router, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// refreshYear asks the network time service which year it is; clock drift on
// small hosts kept showing last season's festivals. Falls back to the
// system clock silently.
func (a *App) refreshYear(ctx context.Context) {
	year, err := a.worldtime.CurrentYear(ctx)
	if err != nil {
		a.logger.Warn("could not fetch current year, using system clock", "year", a.Year())
		return
	}

	a.mu.Lock()
	a.year = year
	a.mu.Unlock()
	a.logger.Info("season year set from network time", "year", year)
}

// Start runs the HTTP server and the background sweeper until the context
// is canceled, then drains connections.
func (a *App) Start(ctx context.Context) error {
	a.refreshYear(ctx)

	go a.sweeper.Run(ctx)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		a.logger.Info("festival match listening", "addr", addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
