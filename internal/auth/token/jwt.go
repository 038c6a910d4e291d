// Package token issues and verifies the signed, expiring identity tokens
// carried in the auth cookie. Tokens are stateless: nothing is persisted and
// every request re-verifies the signature and embedded claims.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"carins/internal/auth/models"
)

// Claims are the JWT claims embedded in issued tokens. The subject carries
// the username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation with a process-wide HMAC key.
type Service struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// New constructs a token service. ttl bounds the lifetime of issued tokens.
func New(signingKey string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate issues a signed token asserting the user's identity, expiring
// after the configured TTL.
func (s *Service) Generate(user models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Validate reports whether the token's signature verifies, the token has not
// expired, and the required claims are present. Malformed input is reported
// as false, never as an error: the authentication gate's fast path must not
// deal in exceptions.
func (s *Service) Validate(tokenString string) bool {
	claims := s.parse(tokenString)
	return claims != nil
}

// ValidateForUser reports whether the token is valid and its subject matches
// the user's current username. A token issued before a username change fails
// here even though its signature still verifies.
func (s *Service) ValidateForUser(tokenString string, user models.User) bool {
	claims := s.parse(tokenString)
	return claims != nil && claims.Subject == user.Username
}

// ExtractUsername returns the subject embedded in the token, or "" if the
// token cannot be parsed and verified.
func (s *Service) ExtractUsername(tokenString string) string {
	claims := s.parse(tokenString)
	if claims == nil {
		return ""
	}
	return claims.Subject
}

// parse verifies signature, expiry, and claim shape. Returns nil on any
// failure.
func (s *Service) parse(tokenString string) *Claims {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return nil
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil
	}
	return claims
}
