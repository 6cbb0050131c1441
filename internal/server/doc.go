// Package server provides the HTTP surface of the festival match service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method-qualified patterns.
//
// # Handlers
//
// Request handlers are grouped by concern: [AuthHandler] owns the Google
// login flow and session cookies, [ProfileHandler] the per-user artist,
// genre and favorite lists, [MatchHandler] the festival ranking, demo and
// calendar endpoints, and [SuggestionHandler] the community suggestion
// inbox plus its admin review routes.
//
// [App] wires the handlers, repositories and services together and owns the
// [http.Server] lifecycle, including the background sweeper.
//
// # Sessions
//
// [WithSession] resolves the session cookie (or X-Session-Id header) to a
// user on every request and stashes it in the request context. Handlers
// needing a login wrap themselves in [RequireAuth]; admin routes add
// [RequireAdmin] on top. Resolution is optional by design so public
// endpoints can still personalize when a session happens to be present.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow for
// the CLI login command. The handler validates the state parameter (CSRF
// protection), exchanges the authorization code for tokens, and sends the
// result through a channel. It only processes one callback to prevent
// replay attacks.
package server
