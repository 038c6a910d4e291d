package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/internal/insurance/store"
	dErrors "carins/pkg/domainerrors"
)

type CreateOwnerInput struct {
	Name  string
	Email string
}

// UpdateOwnerInput carries a partial update; nil fields are left unchanged.
type UpdateOwnerInput struct {
	Name  *string
	Email *string
}

func (s *Service) ListOwners(ctx context.Context) ([]models.Owner, error) {
	owners, err := s.owners.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list owners")
	}
	return owners, nil
}

func (s *Service) GetOwner(ctx context.Context, id uuid.UUID) (models.Owner, error) {
	owner, err := s.owners.FindByID(ctx, id)
	if err != nil {
		return models.Owner{}, translateNotFound(err, store.ErrOwnerNotFound, ownerNotFound(id), "find owner")
	}
	return owner, nil
}

func (s *Service) CreateOwner(ctx context.Context, in CreateOwnerInput) (models.Owner, error) {
	email := strings.TrimSpace(in.Email)

	taken, err := s.owners.ExistsByEmail(ctx, email)
	if err != nil {
		return models.Owner{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check owner email")
	}
	if taken {
		return models.Owner{}, dErrors.Newf(dErrors.CodeConflict, "Owner with email %s already exists", email)
	}

	owner := models.Owner{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(in.Name),
		Email: email,
	}
	if err := s.owners.Save(ctx, owner); err != nil {
		return models.Owner{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save owner")
	}

	s.logger.InfoContext(ctx, "owner created", "owner_id", owner.ID)
	return owner, nil
}

func (s *Service) UpdateOwner(ctx context.Context, id uuid.UUID, in UpdateOwnerInput) (models.Owner, error) {
	owner, err := s.owners.FindByID(ctx, id)
	if err != nil {
		return models.Owner{}, translateNotFound(err, store.ErrOwnerNotFound, ownerNotFound(id), "find owner")
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != owner.Email {
			taken, err := s.owners.ExistsByEmail(ctx, email)
			if err != nil {
				return models.Owner{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check owner email")
			}
			if taken {
				return models.Owner{}, dErrors.Newf(dErrors.CodeConflict, "Owner with email %s already exists", email)
			}
		}
		owner.Email = email
	}
	if in.Name != nil {
		owner.Name = strings.TrimSpace(*in.Name)
	}

	if err := s.owners.Save(ctx, owner); err != nil {
		return models.Owner{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save owner")
	}

	s.logger.InfoContext(ctx, "owner updated", "owner_id", owner.ID)
	return owner, nil
}

// DeleteOwner refuses to delete an owner who still owns cars; the cars must
// be reassigned or deleted first.
func (s *Service) DeleteOwner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.owners.FindByID(ctx, id); err != nil {
		return translateNotFound(err, store.ErrOwnerNotFound, ownerNotFound(id), "find owner")
	}

	cars, err := s.cars.FindByOwnerID(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list owner cars")
	}
	if len(cars) > 0 {
		return dErrors.Newf(dErrors.CodeValidation,
			"Cannot delete owner with id %s because they own %d car(s). Please reassign or delete the cars first.",
			id, len(cars))
	}

	if err := s.owners.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete owner")
	}

	s.logger.InfoContext(ctx, "owner deleted", "owner_id", id)
	return nil
}
