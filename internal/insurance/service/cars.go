package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/internal/insurance/store"
	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
)

// Validity checks accept dates in this window only; anything outside is a
// caller mistake, not a coverage gap.
var (
	minValidityDate = dates.New(1900, 1, 1)
	maxValidityDate = dates.New(2100, 12, 31)
)

type CreateCarInput struct {
	VIN               string
	Make              string
	Model             string
	YearOfManufacture int
	OwnerID           uuid.UUID
}

// UpdateCarInput carries a partial update; nil fields are left unchanged.
type UpdateCarInput struct {
	VIN               *string
	Make              *string
	Model             *string
	YearOfManufacture *int
	OwnerID           *uuid.UUID
}

func (s *Service) ListCars(ctx context.Context) ([]models.Car, error) {
	cars, err := s.cars.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cars")
	}
	return cars, nil
}

func (s *Service) GetCar(ctx context.Context, id uuid.UUID) (models.Car, error) {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return models.Car{}, translateNotFound(err, store.ErrCarNotFound, carNotFound(id), "find car")
	}
	return car, nil
}

func (s *Service) ListCarsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Car, error) {
	if _, err := s.owners.FindByID(ctx, ownerID); err != nil {
		return nil, translateNotFound(err, store.ErrOwnerNotFound, ownerNotFound(ownerID), "find owner")
	}
	cars, err := s.cars.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list owner cars")
	}
	return cars, nil
}

func (s *Service) CreateCar(ctx context.Context, in CreateCarInput) (models.Car, error) {
	vin := strings.TrimSpace(in.VIN)

	if _, err := s.cars.FindByVIN(ctx, vin); err == nil {
		return models.Car{}, dErrors.Newf(dErrors.CodeConflict, "Car with VIN %s already exists", vin)
	} else if !errors.Is(err, store.ErrCarNotFound) {
		return models.Car{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check vin")
	}

	if _, err := s.owners.FindByID(ctx, in.OwnerID); err != nil {
		return models.Car{}, translateNotFound(err, store.ErrOwnerNotFound, ownerNotFound(in.OwnerID), "find owner")
	}

	car := models.Car{
		ID:                uuid.New(),
		VIN:               vin,
		Make:              in.Make,
		Model:             in.Model,
		YearOfManufacture: in.YearOfManufacture,
		OwnerID:           in.OwnerID,
	}
	if err := s.cars.Save(ctx, car); err != nil {
		return models.Car{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save car")
	}

	s.logger.InfoContext(ctx, "car created", "car_id", car.ID, "vin", car.VIN)
	return car, nil
}

// UpdateCar applies a partial update. Every successful update also drops the
// car's policies: a changed car description invalidates prior coverage terms
// and the policies must be re-issued.
func (s *Service) UpdateCar(ctx context.Context, id uuid.UUID, in UpdateCarInput) (models.Car, error) {
	car, err := s.cars.FindByID(ctx, id)
	if err != nil {
		return models.Car{}, translateNotFound(err, store.ErrCarNotFound, carNotFound(id), "find car")
	}

	if in.VIN != nil {
		vin := strings.TrimSpace(*in.VIN)
		if vin != car.VIN {
			if _, err := s.cars.FindByVIN(ctx, vin); err == nil {
				return models.Car{}, dErrors.Newf(dErrors.CodeConflict, "Car with VIN %s already exists", vin)
			} else if !errors.Is(err, store.ErrCarNotFound) {
				return models.Car{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check vin")
			}
		}
		car.VIN = vin
	}
	if in.Make != nil {
		car.Make = *in.Make
	}
	if in.Model != nil {
		car.Model = *in.Model
	}
	if in.YearOfManufacture != nil {
		car.YearOfManufacture = *in.YearOfManufacture
	}
	if in.OwnerID != nil {
		if _, err := s.owners.FindByID(ctx, *in.OwnerID); err != nil {
			return models.Car{}, translateNotFound(err, store.ErrOwnerNotFound, ownerNotFound(*in.OwnerID), "find owner")
		}
		car.OwnerID = *in.OwnerID
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.cars.Save(ctx, car); err != nil {
			return fmt.Errorf("save car: %w", err)
		}
		dropped, err := s.policies.DeleteByCarID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete policies: %w", err)
		}
		if dropped > 0 {
			s.logger.InfoContext(ctx, "policies dropped on car update", "car_id", id, "count", dropped)
			if s.metrics != nil {
				s.metrics.PoliciesDropped.Add(float64(dropped))
			}
		}
		return nil
	})
	if err != nil {
		return models.Car{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update car")
	}

	s.logger.InfoContext(ctx, "car updated", "car_id", car.ID)
	return car, nil
}

// DeleteCar removes the car and everything hanging off it: policies first,
// then claims, then the car itself, in one transaction.
func (s *Service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.cars.FindByID(ctx, id); err != nil {
		return translateNotFound(err, store.ErrCarNotFound, carNotFound(id), "find car")
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		policies, err := s.policies.DeleteByCarID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete policies: %w", err)
		}
		claims, err := s.claims.DeleteByCarID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete claims: %w", err)
		}
		if err := s.cars.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete car: %w", err)
		}
		s.logger.InfoContext(ctx, "car deleted", "car_id", id, "policies", policies, "claims", claims)
		if s.metrics != nil {
			s.metrics.PoliciesDropped.Add(float64(policies))
		}
		return nil
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete car")
	}

	if s.metrics != nil {
		s.metrics.CarsDeleted.Inc()
	}
	return nil
}

// IsInsuranceValid reports whether any policy of the car covers the given
// date, bounds inclusive. The parsed date is returned for echoing back to the
// caller.
func (s *Service) IsInsuranceValid(ctx context.Context, carID uuid.UUID, dateStr string) (dates.Date, bool, error) {
	exists, err := s.cars.ExistsByID(ctx, carID)
	if err != nil {
		return dates.Date{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check car")
	}
	if !exists {
		return dates.Date{}, false, carNotFound(carID)
	}

	date, err := dates.Parse(dateStr)
	if err != nil {
		return dates.Date{}, false, dErrors.New(dErrors.CodeValidation, "Invalid date format. Expected format: YYYY-MM-DD")
	}
	if date.Before(minValidityDate) || date.After(maxValidityDate) {
		return dates.Date{}, false, dErrors.Newf(dErrors.CodeValidation,
			"Date must be between %s and %s", minValidityDate, maxValidityDate)
	}

	valid, err := s.policies.ExistsActiveOnDate(ctx, carID, date)
	if err != nil {
		return dates.Date{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check policies")
	}

	if s.metrics != nil {
		s.metrics.ValidityChecks.Inc()
	}
	s.logger.InfoContext(ctx, "insurance validity checked", "car_id", carID, "date", date.String(), "valid", valid)
	return date, valid, nil
}

// GetCarHistory merges policy lifecycle events and claims into one
// chronological narrative for the car.
func (s *Service) GetCarHistory(ctx context.Context, carID uuid.UUID) (models.CarHistory, error) {
	car, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return models.CarHistory{}, translateNotFound(err, store.ErrCarNotFound, carNotFound(carID), "find car")
	}

	policies, err := s.policies.FindByCarID(ctx, carID)
	if err != nil {
		return models.CarHistory{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list policies")
	}
	claims, err := s.claims.FindByCarID(ctx, carID)
	if err != nil {
		return models.CarHistory{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list claims")
	}

	events := make([]models.HistoryEvent, 0, 2*len(policies)+len(claims))
	for _, policy := range policies {
		provider := policy.Provider
		if provider == "" {
			provider = models.UnknownProvider
		}
		events = append(events, models.HistoryEvent{
			Type:        models.EventTypePolicy,
			Date:        policy.StartDate,
			Description: fmt.Sprintf("Insurance policy started with %s (valid until %s)", provider, endDateString(policy.EndDate)),
			Timestamp:   policy.StartDate.Time(),
		})
		if policy.EndDate != nil {
			events = append(events, models.HistoryEvent{
				Type:        models.EventTypePolicy,
				Date:        *policy.EndDate,
				Description: fmt.Sprintf("Insurance policy with %s expired", provider),
				Timestamp:   policy.EndDate.Time(),
			})
		}
	}
	for _, claim := range claims {
		events = append(events, models.HistoryEvent{
			Type:        models.EventTypeClaim,
			Date:        claim.ClaimDate,
			Description: fmt.Sprintf("Claim filed: %s (Amount: $%.2f)", claim.Description, claim.Amount),
			Timestamp:   claim.CreatedAt,
		})
	}

	// Stable so same-day, same-timestamp events keep insertion order.
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	if s.metrics != nil {
		s.metrics.HistoryRequests.Inc()
	}
	return models.CarHistory{
		CarID:             car.ID,
		VIN:               car.VIN,
		Make:              car.Make,
		Model:             car.Model,
		YearOfManufacture: car.YearOfManufacture,
		Events:            events,
	}, nil
}

func endDateString(d *dates.Date) string {
	if d == nil {
		return "null"
	}
	return d.String()
}
