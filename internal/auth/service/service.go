// Package service implements registration and credential verification. Login
// failures are deliberately opaque: unknown usernames and wrong passwords
// produce the identical error so callers cannot probe for accounts.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	authmetrics "carins/internal/auth/metrics"
	"carins/internal/auth/models"
	"carins/internal/auth/store"
	dErrors "carins/pkg/domainerrors"
	"carins/pkg/requestcontext"
)

// PasswordHasher abstracts the hash/verify primitive so the service never
// touches bcrypt directly.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Service orchestrates the principal lifecycle.
type Service struct {
	users   store.UserStore
	hasher  PasswordHasher
	metrics *authmetrics.Metrics
}

func New(users store.UserStore, hasher PasswordHasher, metrics *authmetrics.Metrics) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		metrics: metrics,
	}
}

// Register creates a new principal with the default role. Username is
// checked before email so the conflict message is deterministic.
func (s *Service) Register(ctx context.Context, username, password, email string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check username")
	}
	if taken {
		return models.User{}, dErrors.Newf(dErrors.CodeConflict, "Username already exists: %s", username)
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
	}
	if taken {
		return models.User{}, dErrors.Newf(dErrors.CodeConflict, "Email already exists: %s", email)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         models.RoleUser,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Save(ctx, user); err != nil {
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}

	if s.metrics != nil {
		s.metrics.UsersRegistered.Inc()
	}
	return user, nil
}

// Login verifies a username/password pair. Any failure is normalized to one
// opaque unauthorized error.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil || !s.hasher.Verify(user.PasswordHash, password) {
		if s.metrics != nil {
			s.metrics.LoginFailure.Inc()
		}
		return models.User{}, dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")
	}

	if s.metrics != nil {
		s.metrics.LoginSuccess.Inc()
	}
	return user, nil
}
