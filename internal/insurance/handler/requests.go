package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
)

// CreateOwnerRequest is the HTTP request body for POST /api/owners.
type CreateOwnerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *CreateOwnerRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)

	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "Name is required")
	}
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "Email is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Email must be valid")
	}
	return nil
}

// UpdateOwnerRequest is a partial update; absent fields are left unchanged.
type UpdateOwnerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (r *UpdateOwnerRequest) Validate() error {
	if r.Email != nil && !govalidator.IsEmail(strings.TrimSpace(*r.Email)) {
		return dErrors.New(dErrors.CodeValidation, "Email must be valid")
	}
	return nil
}

// CreateCarRequest is the HTTP request body for POST /api/cars.
type CreateCarRequest struct {
	VIN               string    `json:"vin"`
	Make              string    `json:"make"`
	Model             string    `json:"model"`
	YearOfManufacture int       `json:"yearOfManufacture"`
	OwnerID           uuid.UUID `json:"ownerId"`
}

func (r *CreateCarRequest) Validate() error {
	r.VIN = strings.TrimSpace(r.VIN)

	if r.VIN == "" {
		return dErrors.New(dErrors.CodeValidation, "VIN is required")
	}
	if len(r.VIN) < 5 || len(r.VIN) > 32 {
		return dErrors.New(dErrors.CodeValidation, "VIN must be between 5 and 32 characters")
	}
	if strings.TrimSpace(r.Make) == "" {
		return dErrors.New(dErrors.CodeValidation, "Make is required")
	}
	if strings.TrimSpace(r.Model) == "" {
		return dErrors.New(dErrors.CodeValidation, "Model is required")
	}
	if err := validateYear(r.YearOfManufacture); err != nil {
		return err
	}
	if r.OwnerID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "Owner ID is required")
	}
	return nil
}

// UpdateCarRequest is a partial update; absent fields are left unchanged.
type UpdateCarRequest struct {
	VIN               *string    `json:"vin"`
	Make              *string    `json:"make"`
	Model             *string    `json:"model"`
	YearOfManufacture *int       `json:"yearOfManufacture"`
	OwnerID           *uuid.UUID `json:"ownerId"`
}

func (r *UpdateCarRequest) Validate() error {
	if r.VIN != nil {
		vin := strings.TrimSpace(*r.VIN)
		if len(vin) < 5 || len(vin) > 32 {
			return dErrors.New(dErrors.CodeValidation, "VIN must be between 5 and 32 characters")
		}
	}
	if r.YearOfManufacture != nil {
		if err := validateYear(*r.YearOfManufacture); err != nil {
			return err
		}
	}
	return nil
}

func validateYear(year int) error {
	if year < 1900 {
		return dErrors.New(dErrors.CodeValidation, "Year of manufacture must be 1900 or later")
	}
	if year > 2030 {
		return dErrors.New(dErrors.CodeValidation, "Year of manufacture must be 2030 or earlier")
	}
	return nil
}

// CreatePolicyRequest is the HTTP request body for POST /api/policies. Both
// interval bounds are required; open-ended policies cannot be created.
type CreatePolicyRequest struct {
	CarID     uuid.UUID  `json:"carId"`
	Provider  string     `json:"provider"`
	StartDate dates.Date `json:"startDate"`
	EndDate   dates.Date `json:"endDate"`
}

func (r *CreatePolicyRequest) Validate() error {
	if r.CarID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "Car ID is required")
	}
	if r.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "Start date is required")
	}
	if r.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "End date is required")
	}
	return nil
}

// UpdatePolicyRequest updates a policy. Car and provider are optional; the
// interval bounds must always be supplied.
type UpdatePolicyRequest struct {
	CarID     *uuid.UUID `json:"carId"`
	Provider  *string    `json:"provider"`
	StartDate dates.Date `json:"startDate"`
	EndDate   dates.Date `json:"endDate"`
}

func (r *UpdatePolicyRequest) Validate() error {
	if r.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "Start date is required")
	}
	if r.EndDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "End date is required")
	}
	return nil
}

// CreateClaimRequest is the HTTP request body for POST /api/cars/{carID}/claims.
type CreateClaimRequest struct {
	ClaimDate   dates.Date `json:"claimDate"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
}

func (r *CreateClaimRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)

	if r.ClaimDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "Claim date is required")
	}
	if r.Description == "" {
		return dErrors.New(dErrors.CodeValidation, "Description is required")
	}
	if len(r.Description) > 1000 {
		return dErrors.New(dErrors.CodeValidation, "Description must be at most 1000 characters")
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "Amount must be greater than 0")
	}
	return nil
}
