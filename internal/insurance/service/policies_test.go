package service_test

import (
	"context"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/internal/insurance/service"
	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
)

func (s *ServiceSuite) TestCreatePolicy() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)

	policy := s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")

	fetched, err := s.service.GetPolicy(context.Background(), policy.ID)
	s.Require().NoError(err)
	s.Equal("GEICO", fetched.Provider)
	s.Equal("2024-01-01", fetched.StartDate.String())
	s.Require().NotNil(fetched.EndDate)
	s.Equal("2024-12-31", fetched.EndDate.String())
}

func (s *ServiceSuite) TestCreatePolicyUnknownCar() {
	_, err := s.service.CreatePolicy(context.Background(), service.CreatePolicyInput{
		CarID:     uuid.New(),
		Provider:  "GEICO",
		StartDate: dates.MustParse("2024-01-01"),
		EndDate:   dates.MustParse("2024-12-31"),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdatePolicy() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	policy := s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")

	provider := "Allianz"
	start := dates.MustParse("2024-02-01")
	end := dates.MustParse("2025-02-01")
	updated, err := s.service.UpdatePolicy(context.Background(), policy.ID, service.UpdatePolicyInput{
		Provider:  &provider,
		StartDate: &start,
		EndDate:   &end,
	})
	s.Require().NoError(err)
	s.Equal("Allianz", updated.Provider)
	s.Equal("2024-02-01", updated.StartDate.String())
	s.Equal(car.ID, updated.CarID, "unset car stays unchanged")
}

func (s *ServiceSuite) TestUpdatePolicyRepointsCar() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	other := s.createCar("VIN987654321", owner.ID)
	policy := s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")

	updated, err := s.service.UpdatePolicy(context.Background(), policy.ID, service.UpdatePolicyInput{
		CarID: &other.ID,
	})
	s.Require().NoError(err)
	s.Equal(other.ID, updated.CarID)

	ghost := uuid.New()
	_, err = s.service.UpdatePolicy(context.Background(), policy.ID, service.UpdatePolicyInput{
		CarID: &ghost,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeletePolicy() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)
	policy := s.createPolicy(car.ID, "GEICO", "2024-01-01", "2024-12-31")

	s.Require().NoError(s.service.DeletePolicy(context.Background(), policy.ID))

	_, err := s.service.GetPolicy(context.Background(), policy.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.service.DeletePolicy(context.Background(), policy.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestFixOpenEndedPolicies() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)

	// Open-ended rows predate the strict creation rules; seed one directly.
	openEnded := models.Policy{
		ID:        uuid.New(),
		CarID:     car.ID,
		Provider:  "GEICO",
		StartDate: dates.MustParse("2024-03-15"),
	}
	s.Require().NoError(s.policies.Save(context.Background(), openEnded))
	s.createPolicy(car.ID, "Allianz", "2024-01-01", "2024-12-31")

	fixed, err := s.service.FixOpenEndedPolicies(context.Background())
	s.Require().NoError(err)
	s.Require().Len(fixed, 1, "only the open-ended policy is touched")
	s.Require().NotNil(fixed[0].EndDate)
	s.Equal("2025-03-15", fixed[0].EndDate.String(), "end date lands one year after start")

	remaining, err := s.policies.FindOpenEnded(context.Background())
	s.Require().NoError(err)
	s.Empty(remaining)
}

func (s *ServiceSuite) TestOpenEndedPolicyNeverMatchesValidity() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)

	openEnded := models.Policy{
		ID:        uuid.New(),
		CarID:     car.ID,
		Provider:  "GEICO",
		StartDate: dates.MustParse("2024-01-01"),
	}
	s.Require().NoError(s.policies.Save(context.Background(), openEnded))

	_, valid, err := s.service.IsInsuranceValid(context.Background(), car.ID, "2024-06-15")
	s.Require().NoError(err)
	s.False(valid, "a policy without an end date is a data defect, not open coverage")
}

func (s *ServiceSuite) TestCreateClaimAndList() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	car := s.createCar("VIN123456789", owner.ID)

	older, err := s.service.CreateClaim(context.Background(), car.ID, service.CreateClaimInput{
		ClaimDate:   dates.MustParse("2024-03-01"),
		Description: "Windshield chip",
		Amount:      300,
	})
	s.Require().NoError(err)
	newer, err := s.service.CreateClaim(context.Background(), car.ID, service.CreateClaimInput{
		ClaimDate:   dates.MustParse("2024-09-01"),
		Description: "Rear bumper damage",
		Amount:      1250.50,
	})
	s.Require().NoError(err)
	s.False(newer.CreatedAt.IsZero(), "created at is server-assigned")

	claims, err := s.service.ListClaimsByCar(context.Background(), car.ID)
	s.Require().NoError(err)
	s.Require().Len(claims, 2)
	s.Equal(newer.ID, claims[0].ID, "claims are listed most recent first")
	s.Equal(older.ID, claims[1].ID)
}

func (s *ServiceSuite) TestCreateClaimUnknownCar() {
	_, err := s.service.CreateClaim(context.Background(), uuid.New(), service.CreateClaimInput{
		ClaimDate:   dates.MustParse("2024-03-01"),
		Description: "Windshield chip",
		Amount:      300,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListClaimsUnknownCar() {
	_, err := s.service.ListClaimsByCar(context.Background(), uuid.New())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
