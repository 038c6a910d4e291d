// Package httpapi assembles the full HTTP surface: authentication endpoints,
// the insurance API, and diagnostics.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "carins/internal/auth/handler"
	inshandler "carins/internal/insurance/handler"
	"carins/internal/platform/middleware"
	"carins/pkg/httputil"
)

// NewRouter wires middleware and endpoints. The authentication gate runs on
// every request but never blocks; only the insurance routes demand an
// authenticated principal.
func NewRouter(
	auth *authhandler.Handler,
	insurance *inshandler.Handler,
	tokens middleware.TokenVerifier,
	users middleware.UserLoader,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Authenticate(tokens, users, logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	auth.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePrincipal)
		insurance.Register(r)
	})

	return r
}
