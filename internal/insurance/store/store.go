package store

import (
	"context"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
)

// Lookup-miss sentinels keep storage-specific 404s consistent across the
// in-memory and postgres implementations.
var (
	ErrOwnerNotFound  = dErrors.New(dErrors.CodeNotFound, "owner not found")
	ErrCarNotFound    = dErrors.New(dErrors.CodeNotFound, "car not found")
	ErrPolicyNotFound = dErrors.New(dErrors.CodeNotFound, "insurance policy not found")
)

// Stores are interface-driven so domain logic stays testable against the
// in-memory implementations and the postgres ones remain pure I/O.

type OwnerStore interface {
	Save(ctx context.Context, owner models.Owner) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Owner, error)
	FindAll(ctx context.Context) ([]models.Owner, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CarStore interface {
	Save(ctx context.Context, car models.Car) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Car, error)
	FindAll(ctx context.Context) ([]models.Car, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]models.Car, error)
	FindByVIN(ctx context.Context, vin string) (models.Car, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PolicyStore interface {
	Save(ctx context.Context, policy models.Policy) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Policy, error)
	FindAll(ctx context.Context) ([]models.Policy, error)
	FindByCarID(ctx context.Context, carID uuid.UUID) ([]models.Policy, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByCarID removes every policy of the car, returning how many were
	// deleted.
	DeleteByCarID(ctx context.Context, carID uuid.UUID) (int, error)
	// ExistsActiveOnDate reports whether any policy of the car covers the
	// date, bounds inclusive.
	ExistsActiveOnDate(ctx context.Context, carID uuid.UUID, date dates.Date) (bool, error)
	// FindExpiringOn returns policies whose end date equals the given date.
	FindExpiringOn(ctx context.Context, date dates.Date) ([]models.Policy, error)
	// FindOpenEnded returns policies with a null end date.
	FindOpenEnded(ctx context.Context) ([]models.Policy, error)
}

type ClaimStore interface {
	Save(ctx context.Context, claim models.Claim) error
	// FindByCarID returns the car's claims ordered by claim date descending.
	FindByCarID(ctx context.Context, carID uuid.UUID) ([]models.Claim, error)
	// DeleteByCarID removes every claim of the car, returning how many were
	// deleted.
	DeleteByCarID(ctx context.Context, carID uuid.UUID) (int, error)
}

// Tx runs a function inside one atomic unit. The postgres implementation
// opens a database transaction and threads it through context; the in-memory
// implementation simply runs the function.
type Tx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
