package handler

import (
	"time"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/pkg/dates"
)

type OwnerResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func toOwnerResponse(owner models.Owner) OwnerResponse {
	return OwnerResponse{ID: owner.ID, Name: owner.Name, Email: owner.Email}
}

// CarResponse embeds the owner so callers do not need a second lookup.
type CarResponse struct {
	ID                uuid.UUID     `json:"id"`
	VIN               string        `json:"vin"`
	Make              string        `json:"make"`
	Model             string        `json:"model"`
	YearOfManufacture int           `json:"yearOfManufacture"`
	Owner             OwnerResponse `json:"owner"`
}

func toCarResponse(car models.Car, owner models.Owner) CarResponse {
	return CarResponse{
		ID:                car.ID,
		VIN:               car.VIN,
		Make:              car.Make,
		Model:             car.Model,
		YearOfManufacture: car.YearOfManufacture,
		Owner:             toOwnerResponse(owner),
	}
}

type PolicyResponse struct {
	ID        uuid.UUID   `json:"id"`
	CarID     uuid.UUID   `json:"carId"`
	Provider  string      `json:"provider"`
	StartDate dates.Date  `json:"startDate"`
	EndDate   *dates.Date `json:"endDate"`
}

func toPolicyResponse(policy models.Policy) PolicyResponse {
	return PolicyResponse{
		ID:        policy.ID,
		CarID:     policy.CarID,
		Provider:  policy.Provider,
		StartDate: policy.StartDate,
		EndDate:   policy.EndDate,
	}
}

func toPolicyResponses(policies []models.Policy) []PolicyResponse {
	out := make([]PolicyResponse, 0, len(policies))
	for _, policy := range policies {
		out = append(out, toPolicyResponse(policy))
	}
	return out
}

type ClaimResponse struct {
	ID          uuid.UUID  `json:"id"`
	CarID       uuid.UUID  `json:"carId"`
	ClaimDate   dates.Date `json:"claimDate"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toClaimResponse(claim models.Claim) ClaimResponse {
	return ClaimResponse{
		ID:          claim.ID,
		CarID:       claim.CarID,
		ClaimDate:   claim.ClaimDate,
		Description: claim.Description,
		Amount:      claim.Amount,
		CreatedAt:   claim.CreatedAt,
	}
}

type HistoryEventResponse struct {
	Type        string     `json:"type"`
	Date        dates.Date `json:"date"`
	Description string     `json:"description"`
	Timestamp   time.Time  `json:"timestamp"`
}

type CarHistoryResponse struct {
	CarID             uuid.UUID              `json:"carId"`
	VIN               string                 `json:"vin"`
	Make              string                 `json:"make"`
	Model             string                 `json:"model"`
	YearOfManufacture int                    `json:"yearOfManufacture"`
	Events            []HistoryEventResponse `json:"events"`
}

func toHistoryResponse(history models.CarHistory) CarHistoryResponse {
	events := make([]HistoryEventResponse, 0, len(history.Events))
	for _, event := range history.Events {
		events = append(events, HistoryEventResponse{
			Type:        event.Type,
			Date:        event.Date,
			Description: event.Description,
			Timestamp:   event.Timestamp,
		})
	}
	return CarHistoryResponse{
		CarID:             history.CarID,
		VIN:               history.VIN,
		Make:              history.Make,
		Model:             history.Model,
		YearOfManufacture: history.YearOfManufacture,
		Events:            events,
	}
}

type InsuranceValidityResponse struct {
	CarID uuid.UUID `json:"carId"`
	Date  string    `json:"date"`
	Valid bool      `json:"valid"`
}
