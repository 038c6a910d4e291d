package testutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"carins/pkg/requestcontext"
)

// WithPrincipal attaches an authenticated principal to the request context.
// This simulates what the authentication gate does for valid tokens.
func WithPrincipal(req *http.Request, userID uuid.UUID, username, role string) *http.Request {
	ctx := requestcontext.WithPrincipal(req.Context(), requestcontext.Principal{
		UserID:   userID,
		Username: username,
		Role:     role,
	})
	return req.WithContext(ctx)
}

// WithRequestID attaches a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithRequestTime pins the request-scoped clock, making server-assigned
// timestamps deterministic in tests.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
