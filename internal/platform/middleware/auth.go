package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"carins/internal/auth/models"
	dErrors "carins/pkg/domainerrors"
	"carins/pkg/httputil"
	"carins/pkg/requestcontext"
)

// CookieName is the cookie carrying the JWT between client and server.
const CookieName = "jwt-token"

// TokenVerifier validates tokens without ever returning errors; malformed
// input is simply invalid.
type TokenVerifier interface {
	Validate(tokenString string) bool
	ValidateForUser(tokenString string, user models.User) bool
	ExtractUsername(tokenString string) string
}

// UserLoader resolves a token subject to the current principal record.
type UserLoader interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// Authenticate is the per-request authentication gate. It has exactly two
// terminal outcomes, authenticated and anonymous, and it never blocks the
// request itself: authorization is enforced downstream by RequirePrincipal.
//
// Steps per request: bypass the allow-list, read the token cookie, validate
// the token, load the subject's user record (one store lookup), and
// re-validate the token against the loaded user so stale tokens issued
// before a username change are rejected. Failures at any step degrade to
// anonymous and are logged, never surfaced to the client.
func Authenticate(tokens TokenVerifier, users UserLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypassesAuthentication(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(establishPrincipal(r, tokens, users, logger)))
		})
	}
}

// establishPrincipal runs the gate's validation steps and returns either the
// request context enriched with a principal or the original context for an
// anonymous request. A panic anywhere inside is logged and degrades to
// anonymous: authentication failure must never abort the request pipeline.
func establishPrincipal(r *http.Request, tokens TokenVerifier, users UserLoader, logger *slog.Logger) (out context.Context) {
	ctx := r.Context()
	out = ctx

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorContext(ctx, "cannot establish authentication",
				"request_id", requestcontext.RequestID(ctx),
				"panic", rec,
			)
			out = ctx
		}
	}()

	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return ctx
	}

	tokenString := cookie.Value
	if !tokens.Validate(tokenString) {
		return ctx
	}

	username := tokens.ExtractUsername(tokenString)
	if username == "" {
		return ctx
	}

	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		logger.WarnContext(ctx, "cannot establish authentication",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return ctx
	}

	if !tokens.ValidateForUser(tokenString, user) {
		return ctx
	}

	logger.DebugContext(ctx, "authenticated request",
		"request_id", requestcontext.RequestID(ctx),
		"username", user.Username,
	)
	return requestcontext.WithPrincipal(ctx, requestcontext.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// RequirePrincipal rejects anonymous requests on protected routes. The gate
// itself never blocks; this is the downstream authorization layer.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestcontext.PrincipalFrom(r.Context()); !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bypassesAuthentication is the fixed allow-list of paths exempt from the
// gate: login, registration, API docs, and diagnostics.
func bypassesAuthentication(path string) bool {
	return path == "/api/auth/login" ||
		path == "/api/auth/register" ||
		strings.HasPrefix(path, "/swagger-ui") ||
		strings.HasPrefix(path, "/v3/api-docs") ||
		path == "/healthz" ||
		path == "/metrics"
}
