package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festmatch/internal/models"
	"github.com/desertthunder/festmatch/internal/repositories"
)

// SessionCookie is the cookie carrying the session ID.
const SessionCookie = "session"

// SessionHeader is the header fallback for clients without cookies.
const SessionHeader = "X-Session-Id"

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session_id"
)

// UserFrom returns the authenticated user attached to the request context,
// or nil when the request carries no valid session.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// SessionIDFrom returns the session ID attached to the request context.
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}

// sessionID extracts the session ID from the cookie or header, if any.
func sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.Header.Get(SessionHeader)
}

// WithSession resolves the request's session to a user and attaches both to
// the request context. Requests without a session (or with an expired one)
// pass through unauthenticated; handlers decide whether that matters.
func WithSession(sessions *repositories.SessionRepository) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.GetUser(id, time.Now())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, sessionContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "No autenticado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose user lacks the admin role. Implies
// RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "No autenticado")
			return
		}
		if !user.IsAdmin() {
			writeError(w, http.StatusForbidden, "Acceso restringido")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logging logs each request's method, path, status and duration.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start))
		})
	}
}

// CORS reflects the request origin and allows credentialed requests, so the
// session cookie survives cross-origin front-end development setups.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
