package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/server"
	"github.com/desertthunder/festmatch/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthLogin performs the Google OAuth2 flow from the terminal and prints a
// session ID usable as the X-Session-Id header against the API.
//
// Starts a local HTTP server, opens the browser for authorization, and
// exchanges the auth code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	if config.Credentials.Google.ClientID == "" || config.Credentials.Google.ClientSecret == "" {
		return fmt.Errorf("%w: Google client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)

	authHandler := server.NewAuthHandler(config, users, sessions, r.logger)

	// The CLI callback server replaces the web redirect URI.
	googleConfig := *authHandler.GoogleConfig()
	googleConfig.RedirectURL = fmt.Sprintf("http://%s:%d/callback", config.Server.Host, config.Server.Port)

	token, err := r.doOAuth(config, &googleConfig)
	if err != nil {
		return err
	}

	profile, err := fetchGoogleProfile(ctx, &googleConfig, token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	user, err := upsertUser(users, profile)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	session := models.NewSession(user.ID())
	if err := sessions.Create(session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Info("logged in", "user", user.ID(), "email", user.Email())

	r.writePlainln("✓ Logged in as %s", user.Email())
	r.writePlain("Session ID: %s\n\n", session.ID())
	r.writePlain("Send it as the X-Session-Id header, e.g.:\n")
	r.writePlain("  curl -H 'X-Session-Id: %s' %s/api/user/artists\n", session.ID(), config.Server.PublicURL)

	return nil
}

// doOAuth runs the browser authorization round trip against a throwaway
// localhost callback server.
func (r *Runner) doOAuth(config *shared.Config, googleConfig *oauth2.Config) (*oauth2.Token, error) {
	state := shared.GenerateSessionID()

	authURL := googleConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	oauthHandler := server.NewOAuthHandler(googleConfig, state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Google login...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func fetchGoogleProfile(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*googleProfile, error) {
	response, err := config.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", response.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(response.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("incomplete google profile")
	}
	return &profile, nil
}

// upsertUser mirrors the web callback: existing accounts are synced with the
// Google profile, new ones are registered.
func upsertUser(users *repositories.UserRepository, profile *googleProfile) (*models.User, error) {
	user, err := users.GetByGoogleID(profile.ID)
	if err == nil {
		user.SetEmail(profile.Email)
		user.SetName(profile.Name)
		user.SetPicture(profile.Picture)
		if err := users.Update(user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user = models.NewUser(0, profile.ID, profile.Email, profile.Name)
	user.SetPicture(profile.Picture)
	if err := users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
