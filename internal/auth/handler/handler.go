package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carins/internal/auth/models"
	"carins/internal/platform/middleware"
	"carins/pkg/httputil"
	"carins/pkg/requestcontext"
)

// Service defines the auth operations the handler depends on.
type Service interface {
	Register(ctx context.Context, username, password, email string) (models.User, error)
	Login(ctx context.Context, username, password string) (models.User, error)
}

// TokenIssuer issues signed identity tokens for authenticated users.
type TokenIssuer interface {
	Generate(user models.User) (string, error)
}

// Handler wires the auth endpoints: register, login, logout, verify. The
// token travels in an HTTP-only cookie, set on login and cleared on logout.
type Handler struct {
	service   Service
	tokens    TokenIssuer
	cookieTTL time.Duration
	logger    *slog.Logger
}

func New(service Service, tokens TokenIssuer, cookieTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		tokens:    tokens,
		cookieTTL: cookieTTL,
		logger:    logger,
	}
}

// Register mounts the auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/auth/register", h.HandleRegister)
	r.Post("/api/auth/login", h.HandleLogin)
	r.Post("/api/auth/logout", h.HandleLogout)
	r.Get("/api/auth/verify", h.HandleVerify)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Register(ctx, req.Username, req.Password, req.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestID,
			"username", req.Username,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		"request_id", requestID,
		"username", user.Username,
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "User registered successfully",
		"userId":   user.ID,
		"username": user.Username,
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "failed login attempt",
			"request_id", requestID,
			"username", req.Username,
		)
		httputil.WriteError(w, err)
		return
	}

	tokenString, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.setTokenCookie(w, tokenString)

	h.logger.InfoContext(ctx, "user logged in",
		"request_id", requestID,
		"username", user.Username,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Login successful",
		"userId":   user.ID,
		"username": user.Username,
		"role":     string(user.Role),
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearTokenCookie(w)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

// HandleVerify reports whether the current request carries an authenticated
// principal. It never fails; anonymous requests get authenticated=false.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	principal, ok := requestcontext.PrincipalFrom(r.Context())
	if !ok {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"userId":        principal.UserID,
		"username":      principal.Username,
		"role":          principal.Role,
	})
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, tokenString string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
	})
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	// MaxAge -1 serializes as Max-Age=0, instructing the client to drop the
	// cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
