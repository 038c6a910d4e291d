package service

import (
	"context"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/internal/insurance/store"
	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
)

type CreatePolicyInput struct {
	CarID     uuid.UUID
	Provider  string
	StartDate dates.Date
	EndDate   dates.Date
}

// UpdatePolicyInput carries a partial update; nil fields are left unchanged.
type UpdatePolicyInput struct {
	CarID     *uuid.UUID
	Provider  *string
	StartDate *dates.Date
	EndDate   *dates.Date
}

func (s *Service) ListPolicies(ctx context.Context) ([]models.Policy, error) {
	policies, err := s.policies.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list policies")
	}
	return policies, nil
}

func (s *Service) GetPolicy(ctx context.Context, id uuid.UUID) (models.Policy, error) {
	policy, err := s.policies.FindByID(ctx, id)
	if err != nil {
		return models.Policy{}, translateNotFound(err, store.ErrPolicyNotFound, policyNotFound(id), "find policy")
	}
	return policy, nil
}

func (s *Service) ListPoliciesByCar(ctx context.Context, carID uuid.UUID) ([]models.Policy, error) {
	if _, err := s.cars.FindByID(ctx, carID); err != nil {
		return nil, translateNotFound(err, store.ErrCarNotFound, carNotFound(carID), "find car")
	}
	policies, err := s.policies.FindByCarID(ctx, carID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list car policies")
	}
	return policies, nil
}

func (s *Service) CreatePolicy(ctx context.Context, in CreatePolicyInput) (models.Policy, error) {
	if _, err := s.cars.FindByID(ctx, in.CarID); err != nil {
		return models.Policy{}, translateNotFound(err, store.ErrCarNotFound, carNotFound(in.CarID), "find car")
	}

	end := in.EndDate
	policy := models.Policy{
		ID:        uuid.New(),
		CarID:     in.CarID,
		Provider:  in.Provider,
		StartDate: in.StartDate,
		EndDate:   &end,
	}
	if err := s.policies.Save(ctx, policy); err != nil {
		return models.Policy{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save policy")
	}

	s.logger.InfoContext(ctx, "policy created", "policy_id", policy.ID, "car_id", policy.CarID)
	return policy, nil
}

func (s *Service) UpdatePolicy(ctx context.Context, id uuid.UUID, in UpdatePolicyInput) (models.Policy, error) {
	policy, err := s.policies.FindByID(ctx, id)
	if err != nil {
		return models.Policy{}, translateNotFound(err, store.ErrPolicyNotFound, policyNotFound(id), "find policy")
	}

	if in.CarID != nil {
		if _, err := s.cars.FindByID(ctx, *in.CarID); err != nil {
			return models.Policy{}, translateNotFound(err, store.ErrCarNotFound, carNotFound(*in.CarID), "find car")
		}
		policy.CarID = *in.CarID
	}
	if in.Provider != nil {
		policy.Provider = *in.Provider
	}
	if in.StartDate != nil {
		policy.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		end := *in.EndDate
		policy.EndDate = &end
	}

	if err := s.policies.Save(ctx, policy); err != nil {
		return models.Policy{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save policy")
	}

	s.logger.InfoContext(ctx, "policy updated", "policy_id", policy.ID)
	return policy, nil
}

func (s *Service) DeletePolicy(ctx context.Context, id uuid.UUID) error {
	exists, err := s.policies.ExistsByID(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check policy")
	}
	if !exists {
		return policyNotFound(id)
	}

	if err := s.policies.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete policy")
	}

	s.logger.InfoContext(ctx, "policy deleted", "policy_id", id)
	return nil
}

// FixOpenEndedPolicies repairs legacy rows with a null end date by closing
// each interval one year after its start. Returns the repaired policies.
func (s *Service) FixOpenEndedPolicies(ctx context.Context) ([]models.Policy, error) {
	openEnded, err := s.policies.FindOpenEnded(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list open-ended policies")
	}

	fixed := make([]models.Policy, 0, len(openEnded))
	for _, policy := range openEnded {
		end := policy.StartDate.AddYears(1)
		policy.EndDate = &end
		if err := s.policies.Save(ctx, policy); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save policy")
		}
		s.logger.InfoContext(ctx, "open-ended policy fixed", "policy_id", policy.ID, "end_date", end.String())
		fixed = append(fixed, policy)
	}

	s.logger.InfoContext(ctx, "open-ended policies fixed", "count", len(fixed))
	return fixed, nil
}
