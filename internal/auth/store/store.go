package store

import (
	"context"

	"carins/internal/auth/models"
	dErrors "carins/pkg/domainerrors"
)

// ErrNotFound keeps storage-specific lookup misses consistent across the
// in-memory and postgres implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "user not found")

// UserStore persists authentication principals. Stores are interface-driven
// so domain logic stays testable against the in-memory implementation.
type UserStore interface {
	Save(ctx context.Context, user models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
