package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	insmetrics "carins/internal/insurance/metrics"
	"carins/internal/insurance/models"
	"carins/internal/insurance/service"
	"carins/internal/insurance/store"
	"carins/pkg/dates"
	dErrors "carins/pkg/domainerrors"
)

// Prometheus counters register globally, so the whole package shares one
// instance.
var sharedMetrics = insmetrics.New()

type ServiceSuite struct {
	suite.Suite
	owners   *store.InMemoryOwnerStore
	cars     *store.InMemoryCarStore
	policies *store.InMemoryPolicyStore
	claims   *store.InMemoryClaimStore
	service  *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.owners = store.NewInMemoryOwnerStore()
	s.cars = store.NewInMemoryCarStore()
	s.policies = store.NewInMemoryPolicyStore()
	s.claims = store.NewInMemoryClaimStore()
	s.service = service.New(
		s.owners, s.cars, s.policies, s.claims,
		store.NewInMemoryTx(),
		sharedMetrics,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func (s *ServiceSuite) createOwner(name, email string) models.Owner {
	owner, err := s.service.CreateOwner(context.Background(), service.CreateOwnerInput{
		Name:  name,
		Email: email,
	})
	s.Require().NoError(err)
	return owner
}

func (s *ServiceSuite) createCar(vin string, ownerID uuid.UUID) models.Car {
	car, err := s.service.CreateCar(context.Background(), service.CreateCarInput{
		VIN:               vin,
		Make:              "Dacia",
		Model:             "Logan",
		YearOfManufacture: 2020,
		OwnerID:           ownerID,
	})
	s.Require().NoError(err)
	return car
}

func (s *ServiceSuite) createPolicy(carID uuid.UUID, provider, start, end string) models.Policy {
	policy, err := s.service.CreatePolicy(context.Background(), service.CreatePolicyInput{
		CarID:     carID,
		Provider:  provider,
		StartDate: dates.MustParse(start),
		EndDate:   dates.MustParse(end),
	})
	s.Require().NoError(err)
	return policy
}

func (s *ServiceSuite) TestOwnerLifecycle() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")

	fetched, err := s.service.GetOwner(context.Background(), owner.ID)
	s.Require().NoError(err)
	s.Equal("Ana Pop", fetched.Name)

	all, err := s.service.ListOwners(context.Background())
	s.Require().NoError(err)
	s.Len(all, 1)

	s.Require().NoError(s.service.DeleteOwner(context.Background(), owner.ID))

	_, err = s.service.GetOwner(context.Background(), owner.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCreateOwnerEmailConflict() {
	s.createOwner("Ana Pop", "ana.pop@example.com")

	_, err := s.service.CreateOwner(context.Background(), service.CreateOwnerInput{
		Name:  "Another Ana",
		Email: "ana.pop@example.com",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Contains(err.Error(), "Owner with email ana.pop@example.com already exists")
}

func (s *ServiceSuite) TestUpdateOwnerPartial() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")

	newName := "Ana Popescu"
	updated, err := s.service.UpdateOwner(context.Background(), owner.ID, service.UpdateOwnerInput{
		Name: &newName,
	})
	s.Require().NoError(err)
	s.Equal("Ana Popescu", updated.Name)
	s.Equal("ana.pop@example.com", updated.Email, "unset fields stay unchanged")
}

func (s *ServiceSuite) TestUpdateOwnerEmailConflict() {
	s.createOwner("Ana Pop", "ana.pop@example.com")
	bogdan := s.createOwner("Bogdan Ionescu", "bogdan@example.com")

	takenEmail := "ana.pop@example.com"
	_, err := s.service.UpdateOwner(context.Background(), bogdan.ID, service.UpdateOwnerInput{
		Email: &takenEmail,
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestUpdateOwnerSameEmailIsNotAConflict() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")

	sameEmail := "ana.pop@example.com"
	_, err := s.service.UpdateOwner(context.Background(), owner.ID, service.UpdateOwnerInput{
		Email: &sameEmail,
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestDeleteOwnerBlockedByCars() {
	owner := s.createOwner("Ana Pop", "ana.pop@example.com")
	s.createCar("VIN123456789", owner.ID)
	s.createCar("VIN987654321", owner.ID)

	err := s.service.DeleteOwner(context.Background(), owner.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "they own 2 car(s)")
	s.Contains(err.Error(), "Please reassign or delete the cars first")

	// The owner must still exist.
	_, err = s.service.GetOwner(context.Background(), owner.ID)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestDeleteMissingOwner() {
	err := s.service.DeleteOwner(context.Background(), uuid.New())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
