// Package service implements the insurance domain rules: ownership and
// uniqueness constraints, coverage validity, the car history narrative, and
// the cascade semantics between owners, cars, policies, and claims.
package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	insmetrics "carins/internal/insurance/metrics"
	"carins/internal/insurance/store"
	dErrors "carins/pkg/domainerrors"
)

// Service coordinates the four stores. Multi-step writes run inside tx so the
// cascades stay atomic.
type Service struct {
	owners   store.OwnerStore
	cars     store.CarStore
	policies store.PolicyStore
	claims   store.ClaimStore
	tx       store.Tx
	metrics  *insmetrics.Metrics
	logger   *slog.Logger
}

func New(
	owners store.OwnerStore,
	cars store.CarStore,
	policies store.PolicyStore,
	claims store.ClaimStore,
	tx store.Tx,
	metrics *insmetrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		owners:   owners,
		cars:     cars,
		policies: policies,
		claims:   claims,
		tx:       tx,
		metrics:  metrics,
		logger:   logger,
	}
}

func ownerNotFound(id uuid.UUID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "Owner not found with id: %s", id)
}

func carNotFound(id uuid.UUID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "Car not found with id: %s", id)
}

func policyNotFound(id uuid.UUID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "Insurance policy not found with id: %s", id)
}

// translateNotFound swaps a store lookup-miss sentinel for an error naming the
// missing id; other errors are wrapped as internal.
func translateNotFound(err error, sentinel error, notFound error, op string) error {
	if errors.Is(err, sentinel) {
		return notFound
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to %s", op))
}
