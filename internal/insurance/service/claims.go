package service

import (
	"context"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/internal/insurance/store"
	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
	"carins/pkg/requestcontext"
)

type CreateClaimInput struct {
	ClaimDate   dates.Date
	Description string
	Amount      float64
}

// CreateClaim files a claim against the car. CreatedAt is assigned here and
// never changes afterwards.
func (s *Service) CreateClaim(ctx context.Context, carID uuid.UUID, in CreateClaimInput) (models.Claim, error) {
	if _, err := s.cars.FindByID(ctx, carID); err != nil {
		return models.Claim{}, translateNotFound(err, store.ErrCarNotFound, carNotFound(carID), "find car")
	}

	claim := models.Claim{
		ID:          uuid.New(),
		CarID:       carID,
		ClaimDate:   in.ClaimDate,
		Description: in.Description,
		Amount:      in.Amount,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := s.claims.Save(ctx, claim); err != nil {
		return models.Claim{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save claim")
	}

	if s.metrics != nil {
		s.metrics.ClaimsFiled.Inc()
	}
	s.logger.InfoContext(ctx, "claim created", "claim_id", claim.ID, "car_id", carID)
	return claim, nil
}

// ListClaimsByCar returns the car's claims, most recent claim date first.
func (s *Service) ListClaimsByCar(ctx context.Context, carID uuid.UUID) ([]models.Claim, error) {
	exists, err := s.cars.ExistsByID(ctx, carID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check car")
	}
	if !exists {
		return nil, carNotFound(carID)
	}

	claims, err := s.claims.FindByCarID(ctx, carID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list claims")
	}
	return claims, nil
}
