package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/repositories"
	"github.com/desertthunder/festmatch/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateCookie       = "oauth_state"
)

// googleProfile is the subset of the Google userinfo payload we store.
type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthHandler owns the web Google login flow and the session endpoints.
type AuthHandler struct {
	users    *repositories.UserRepository
	sessions *repositories.SessionRepository
	google   *oauth2.Config
	logger   *log.Logger
	secure   bool
}

// NewAuthHandler creates an AuthHandler from the configured Google
// credentials. Cookies are marked Secure when the public URL is https.
func NewAuthHandler(config *shared.Config, users *repositories.UserRepository, sessions *repositories.SessionRepository, logger *log.Logger) *AuthHandler {
	creds := config.Credentials.Google
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		google: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		logger: logger,
		secure: strings.HasPrefix(config.Server.PublicURL, "https://"),
	}
}

// GoogleConfig returns the OAuth2 config, for the CLI login flow.
func (h *AuthHandler) GoogleConfig() *oauth2.Config {
	return h.google
}

// Login redirects the browser to Google's consent screen. The state token
// rides along in a short-lived cookie for the callback to verify.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateSessionID()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	authURL := h.google.AuthCodeURL(state,
		oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback finishes the Google login: it verifies the state token, exchanges
// the code, upserts the user and sets the session cookie. Failures bounce
// back to the front page with an error query parameter rather than a JSON
// body, since the browser is mid-redirect.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		http.Redirect(w, r, "/?error="+url.QueryEscape(errParam), http.StatusFound)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		h.logger.Warn("oauth callback with bad state")
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	token, err := h.google.Exchange(r.Context(), query.Get("code"))
	if err != nil {
		h.logger.Error("oauth code exchange failed", "err", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	profile, err := h.fetchProfile(r, token)
	if err != nil {
		h.logger.Error("failed to fetch google profile", "err", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	user, err := h.findOrCreateUser(profile)
	if err != nil {
		h.logger.Error("failed to upsert user", "err", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	session := models.NewSession(user.ID())
	if err := h.sessions.Create(session); err != nil {
		h.logger.Error("failed to create session", "err", err)
		http.Redirect(w, r, "/?error=auth_failed", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID(),
		Path:     "/",
		MaxAge:   int(models.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("user logged in", "user", user.ID(), "email", user.Email())
	http.Redirect(w, r, "/?auth=success", http.StatusFound)
}

func (h *AuthHandler) fetchProfile(r *http.Request, token *oauth2.Token) (*googleProfile, error) {
	response, err := h.google.Client(r.Context(), token).Get(googleUserinfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo request: %v", shared.ErrAPIRequest, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", shared.ErrAPIRequest, response.StatusCode)
	}

	var profile googleProfile
	if err := decodeBody(response.Body, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: incomplete google profile", shared.ErrInvalidInput)
	}

	return &profile, nil
}

// findOrCreateUser keeps the local account in sync with the Google profile.
func (h *AuthHandler) findOrCreateUser(profile *googleProfile) (*models.User, error) {
	user, err := h.users.GetByGoogleID(profile.ID)
	if err == nil {
		user.SetEmail(profile.Email)
		user.SetName(profile.Name)
		user.SetPicture(profile.Picture)
		if err := h.users.Update(user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user = models.NewUser(0, profile.ID, profile.Email, profile.Name)
	user.SetPicture(profile.Picture)
	if err := h.users.Create(user); err != nil {
		return nil, err
	}

	h.logger.Info("new user registered", "user", user.ID(), "email", user.Email())
	return user, nil
}

// Me reports the logged-in user, or {"user": null} for anonymous visitors.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": viewUser(user)})
}

// Logout deletes the session and clears the cookie. Always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := sessionID(r); id != "" {
		_ = h.sessions.Delete(id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
