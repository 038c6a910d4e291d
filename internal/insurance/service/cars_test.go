package service_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/internal/insurance/service"
	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
)

func (s *ServiceSuite) TestCreateCar() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)

	fetched, err := s.service.GetCar(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Equal("VIN123456789", fetched.VIN)
	s.Equal(owner.ID, fetched.OwnerID)
}

func (s *ServiceSuite) TestCreateCarVINConflict() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	s.createCar("VIN123456789", owner.ID)

	_, err := s.service.CreateCar(context.Background(), service.CreateCarInput{
		VIN:               "VIN123456789",
		Make:              "Ford",
		Model:             "Focus",
		YearOfManufacture: 2021,
		OwnerID:           owner.ID,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "Car with VIN VIN123456789 already exists")
}

func (s *ServiceSuite) TestCreateCarUnknownOwner() {
	_, err := s.service.CreateCar(context.Background(), service.CreateCarInput{
		VIN:               "VIN123456789",
		Make:              "Ford",
		Model:             "Focus",
		YearOfManufacture: 2021,
		OwnerID:           uuid.New(),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdateCarDropsPolicies() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")
	s.createPolicy(car.ID, "Allianz", "2025-01-01", "2025-12-31")

	newMake := "Toyota"
	updated, err := s.service.UpdateCar(context.Background(), car.ID, service.UpdateCarInput{
		Make: &newMake,
	})
	s.Require().NoError(err)
	s.Equal("Toyota", updated.Make)
	s.Equal("VIN123456789", updated.VIN, "unset fields stay unchanged")

	policies, err := s.service.ListPoliciesByCar(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Empty(policies, "a successful car update drops every policy")
}

func (s *ServiceSuite) TestUpdateCarVINConflict() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	s.createCar("VIN123456789", owner.ID)
	other := s.createCar("VIN987654321", owner.ID)
	s.createPolicy(other.ID, "GEICO", "2024-01-01", "2024-12-31")

	takenVIN := "VIN123456789"
	_, err := s.service.UpdateCar(context.Background(), other.ID, service.UpdateCarInput{
		VIN: &takenVIN,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	policies, err := s.service.ListPoliciesByCar(context.Background(), other.ID)
	s.Require().NoError(err)
	s.Len(policies, 1, "a failed update must not drop policies")
}

func (s *ServiceSuite) TestUpdateCarRepointsOwner() {
	ana := s.createOwner("Ana Pop", "ana.pop@example.com")
	bogdan := s.createOwner("Bogdan Ionescu", "bogdan@example.com")
	car := s.createCar("VIN123456789", ana.ID)

	updated, err := s.service.UpdateCar(context.Background(), car.ID, service.UpdateCarInput{
		OwnerID: &bogdan.ID,
	})
	s.Require().NoError(err)
	s.Equal(bogdan.ID, updated.OwnerID)

	ghost := uuid.New()
	_, err = s.service.UpdateCar(context.Background(), car.ID, service.UpdateCarInput{
		OwnerID: &ghost,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteCarCascades() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")
	_, err := s.service.CreateClaim(context.Background(), car.ID, service.CreateClaimInput{
		ClaimDate:   dates.MustParse("2024-06-01"),
		Description: "Rear bumper damage",
		Amount:      1250.50,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteCar(context.Background(), car.ID))

	_, err = s.service.GetCar(context.Background(), car.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	orphanPolicies, err := s.policies.FindByCarID(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Empty(orphanPolicies, "cascade delete must leave no policies behind")

	orphanClaims, err := s.claims.FindByCarID(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Empty(orphanClaims, "cascade delete must leave no claims behind")
}

func (s *ServiceSuite) TestIsInsuranceValid() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")

	cases := []struct {
		date  string
		valid bool
	}{
		{"2024-01-01", true},  // first covered day
		{"2024-06-15", true},  // mid-interval
		{"2024-12-31", true},  // last covered day, inclusive bound
		{"2023-12-31", false}, // day before coverage
		{"2025-01-01", false}, // day after coverage
	}
	for _, tc := range cases {
		_, valid, err := s.service.IsInsuranceValid(context.Background(), car.ID, tc.date)
		s.Require().NoError(err, "date %s", tc.date)
		s.Equal(tc.valid, valid, "date %s", tc.date)
	}
}

func (s *ServiceSuite) TestIsInsuranceValidOverlappingPolicies() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-06-30")
	s.createPolicy(car.ID, "Allianz", "2024-06-01", "2024-12-31")

	// Any covering policy suffices, overlap included.
	_, valid, err := s.service.IsInsuranceValid(context.Background(), car.ID, "2024-06-15")
	s.Require().NoError(err)
	s.True(valid)
}

func (s *ServiceSuite) TestIsInsuranceValidCarNotFound() {
	_, _, err := s.service.IsInsuranceValid(context.Background(), uuid.New(), "2024-06-15")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestIsInsuranceValidBadDates() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)

	for _, date := range []string{"not-a-date", "15-06-2024", ""} {
		_, _, err := s.service.IsInsuranceValid(context.Background(), car.ID, date)
		s.Require().Error(err, "date %q", date)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "Invalid date format. Expected format: YYYY-MM-DD")
	}

	for _, date := range []string{"1899-12-31", "2101-01-01"} {
		_, _, err := s.service.IsInsuranceValid(context.Background(), car.ID, date)
		s.Require().Error(err, "date %q", date)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "Date must be between")
	}

	// Window boundaries themselves are accepted.
	for _, date := range []string{"1900-01-01", "2100-12-31"} {
		_, _, err := s.service.IsInsuranceValid(context.Background(), car.ID, date)
		s.Require().NoError(err, "date %q", date)
	}
}

func (s *ServiceSuite) TestCarHistory() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")
	claim, err := s.service.CreateClaim(context.Background(), car.ID, service.CreateClaimInput{
		ClaimDate:   dates.MustParse("2024-06-01"),
		Description: "Rear bumper damage",
		Amount:      1250.50,
	})
	s.Require().NoError(err)

	history, err := s.service.GetCarHistory(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Equal(car.ID, history.CarID)
	s.Equal("VIN123456789", history.VIN)
	s.Require().Len(history.Events, 3, "policy start + claim + policy expiry")

	start, mid, end := history.Events[0], history.Events[1], history.Events[2]

	s.Equal(models.EventTypePolicy, start.Type)
	s.Equal("2024-01-01", start.Date.String())
	s.Equal("Insurance policy started with GEICO (valid until 2024-12-31)", start.Description)

	s.Equal(models.EventTypeClaim, mid.Type)
	s.Equal("2024-06-01", mid.Date.String())
	s.Equal("Claim filed: Rear bumper damage (Amount: $1250.50)", mid.Description)
	s.Equal(claim.CreatedAt, mid.Timestamp)

	s.Equal(models.EventTypePolicy, end.Type)
	s.Equal("2024-12-31", end.Date.String())
	s.Equal("Insurance policy with GEICO expired", end.Description)
}

func (s *ServiceSuite) TestCarHistoryUnknownProvider() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	s.createPolicy(car.ID, "", "2024-01-01", "2024-12-31")

	history, err := s.service.GetCarHistory(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Require().Len(history.Events, 2)
	s.Equal(
		fmt.Sprintf("Insurance policy started with %s (valid until 2024-12-31)", models.UnknownProvider),
		history.Events[0].Description,
	)
}

func (s *ServiceSuite) TestCarHistoryEmpty() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)

	history, err := s.service.GetCarHistory(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Empty(history.Events)
}

func (s *ServiceSuite) TestCarHistoryOrdering() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	s.createPolicy(car.ID, "Allianz", "2025-01-01", "2025-12-31")
	s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")

	history, err := s.service.GetCarHistory(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Require().Len(history.Events, 4)

	for i := 1; i < len(history.Events); i++ {
		prev, cur := history.Events[i-1], history.Events[i]
		s.False(cur.Date.Before(prev.Date), "events must be in chronological order")
	}
	s.Equal("2024-01-01", history.Events[0].Date.String())
	s.Equal("2025-12-31", history.Events[3].Date.String())
}
