package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/pkg/dates"
)

// In-memory stores keep unit tests fast and self-contained. They
// intentionally favor clarity over performance.

type InMemoryOwnerStore struct {
	mu     sync.RWMutex
	owners map[uuid.UUID]models.Owner
}

func NewInMemoryOwnerStore() *InMemoryOwnerStore {
	return &InMemoryOwnerStore{owners: make(map[uuid.UUID]models.Owner)}
}

func (s *InMemoryOwnerStore) Save(_ context.Context, owner models.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[owner.ID] = owner
	return nil
}

func (s *InMemoryOwnerStore) FindByID(_ context.Context, id uuid.UUID) (models.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if owner, ok := s.owners[id]; ok {
		return owner, nil
	}
	return models.Owner{}, ErrOwnerNotFound
}

func (s *InMemoryOwnerStore) FindAll(_ context.Context) ([]models.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make([]models.Owner, 0, len(s.owners))
	for _, owner := range s.owners {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Email < owners[j].Email })
	return owners, nil
}

func (s *InMemoryOwnerStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, owner := range s.owners {
		if owner.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryOwnerStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, id)
	return nil
}

type InMemoryCarStore struct {
	mu   sync.RWMutex
	cars map[uuid.UUID]models.Car
}

func NewInMemoryCarStore() *InMemoryCarStore {
	return &InMemoryCarStore{cars: make(map[uuid.UUID]models.Car)}
}

func (s *InMemoryCarStore) Save(_ context.Context, car models.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cars[car.ID] = car
	return nil
}

func (s *InMemoryCarStore) FindByID(_ context.Context, id uuid.UUID) (models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if car, ok := s.cars[id]; ok {
		return car, nil
	}
	return models.Car{}, ErrCarNotFound
}

func (s *InMemoryCarStore) FindAll(_ context.Context) ([]models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cars := make([]models.Car, 0, len(s.cars))
	for _, car := range s.cars {
		cars = append(cars, car)
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].VIN < cars[j].VIN })
	return cars, nil
}

func (s *InMemoryCarStore) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cars []models.Car
	for _, car := range s.cars {
		if car.OwnerID == ownerID {
			cars = append(cars, car)
		}
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].VIN < cars[j].VIN })
	return cars, nil
}

func (s *InMemoryCarStore) FindByVIN(_ context.Context, vin string) (models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, car := range s.cars {
		if car.VIN == vin {
			return car, nil
		}
	}
	return models.Car{}, ErrCarNotFound
}

func (s *InMemoryCarStore) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cars[id]
	return ok, nil
}

func (s *InMemoryCarStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cars, id)
	return nil
}

type InMemoryPolicyStore struct {
	mu       sync.RWMutex
	policies map[uuid.UUID]models.Policy
}

func NewInMemoryPolicyStore() *InMemoryPolicyStore {
	return &InMemoryPolicyStore{policies: make(map[uuid.UUID]models.Policy)}
}

func (s *InMemoryPolicyStore) Save(_ context.Context, policy models.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policy.ID] = policy
	return nil
}

func (s *InMemoryPolicyStore) FindByID(_ context.Context, id uuid.UUID) (models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if policy, ok := s.policies[id]; ok {
		return policy, nil
	}
	return models.Policy{}, ErrPolicyNotFound
}

func (s *InMemoryPolicyStore) FindAll(_ context.Context) ([]models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	policies := make([]models.Policy, 0, len(s.policies))
	for _, policy := range s.policies {
		policies = append(policies, policy)
	}
	sortPolicies(policies)
	return policies, nil
}

func (s *InMemoryPolicyStore) FindByCarID(_ context.Context, carID uuid.UUID) ([]models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var policies []models.Policy
	for _, policy := range s.policies {
		if policy.CarID == carID {
			policies = append(policies, policy)
		}
	}
	sortPolicies(policies)
	return policies, nil
}

func (s *InMemoryPolicyStore) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.policies[id]
	return ok, nil
}

func (s *InMemoryPolicyStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.policies, id)
	return nil
}

func (s *InMemoryPolicyStore) DeleteByCarID(_ context.Context, carID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, policy := range s.policies {
		if policy.CarID == carID {
			delete(s.policies, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryPolicyStore) ExistsActiveOnDate(_ context.Context, carID uuid.UUID, date dates.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, policy := range s.policies {
		if policy.CarID == carID && policy.ActiveOn(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryPolicyStore) FindExpiringOn(_ context.Context, date dates.Date) ([]models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var policies []models.Policy
	for _, policy := range s.policies {
		if policy.EndDate != nil && policy.EndDate.Equal(date) {
			policies = append(policies, policy)
		}
	}
	sortPolicies(policies)
	return policies, nil
}

func (s *InMemoryPolicyStore) FindOpenEnded(_ context.Context) ([]models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var policies []models.Policy
	for _, policy := range s.policies {
		if policy.EndDate == nil {
			policies = append(policies, policy)
		}
	}
	sortPolicies(policies)
	return policies, nil
}

// sortPolicies keeps map iteration from leaking into results.
func sortPolicies(policies []models.Policy) {
	sort.Slice(policies, func(i, j int) bool {
		if !policies[i].StartDate.Equal(policies[j].StartDate) {
			return policies[i].StartDate.Before(policies[j].StartDate)
		}
		return policies[i].ID.String() < policies[j].ID.String()
	})
}

type InMemoryClaimStore struct {
	mu     sync.RWMutex
	claims map[uuid.UUID]models.Claim
}

func NewInMemoryClaimStore() *InMemoryClaimStore {
	return &InMemoryClaimStore{claims: make(map[uuid.UUID]models.Claim)}
}

func (s *InMemoryClaimStore) Save(_ context.Context, claim models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[claim.ID] = claim
	return nil
}

func (s *InMemoryClaimStore) FindByCarID(_ context.Context, carID uuid.UUID) ([]models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var claims []models.Claim
	for _, claim := range s.claims {
		if claim.CarID == carID {
			claims = append(claims, claim)
		}
	}
	sort.Slice(claims, func(i, j int) bool {
		if !claims[i].ClaimDate.Equal(claims[j].ClaimDate) {
			return claims[i].ClaimDate.After(claims[j].ClaimDate)
		}
		return claims[i].CreatedAt.After(claims[j].CreatedAt)
	})
	return claims, nil
}

func (s *InMemoryClaimStore) DeleteByCarID(_ context.Context, carID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, claim := range s.claims {
		if claim.CarID == carID {
			delete(s.claims, id)
			deleted++
		}
	}
	return deleted, nil
}

// InMemoryTx satisfies Tx for the in-memory stores, which have no
// cross-store atomicity to offer; each store serializes with its own mutex.
type InMemoryTx struct{}

func NewInMemoryTx() *InMemoryTx {
	return &InMemoryTx{}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
