package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carins/internal/insurance/models"
	"carins/internal/insurance/store"
	"carins/pkg/dates"
)

func policy(carID uuid.UUID, start string, end *string) models.Policy {
	p := models.Policy{
		ID:        uuid.New(),
		CarID:     carID,
		Provider:  "GEICO",
		StartDate: dates.MustParse(start),
	}
	if end != nil {
		d := dates.MustParse(*end)
		p.EndDate = &d
	}
	return p
}

func strptr(s string) *string { return &s }

func TestOwnerStore(t *testing.T) {
	ctx := context.Background()
	owners := store.NewInMemoryOwnerStore()

	owner := models.Owner{ID: uuid.New(), Name: "Ana Pop", Email: "ana@example.com"}
	require.NoError(t, owners.Save(ctx, owner))

	found, err := owners.FindByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Pop", found.Name)

	_, err = owners.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrOwnerNotFound)

	exists, err := owners.ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = owners.ExistsByEmail(ctx, "other@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, owners.Delete(ctx, owner.ID))
	_, err = owners.FindByID(ctx, owner.ID)
	assert.ErrorIs(t, err, store.ErrOwnerNotFound)
}

func TestCarStoreFindByVIN(t *testing.T) {
	ctx := context.Background()
	cars := store.NewInMemoryCarStore()

	car := models.Car{ID: uuid.New(), VIN: "VIN123456789", Make: "Dacia", Model: "Logan", YearOfManufacture: 2020, OwnerID: uuid.New()}
	require.NoError(t, cars.Save(ctx, car))

	found, err := cars.FindByVIN(ctx, "VIN123456789")
	require.NoError(t, err)
	assert.Equal(t, car.ID, found.ID)

	_, err = cars.FindByVIN(ctx, "VIN000000000")
	assert.ErrorIs(t, err, store.ErrCarNotFound)
}

func TestPolicyStoreActiveOnDate(t *testing.T) {
	ctx := context.Background()
	policies := store.NewInMemoryPolicyStore()
	carID := uuid.New()

	require.NoError(t, policies.Save(ctx, policy(carID, "2024-01-01", strptr("2024-12-31"))))

	cases := []struct {
		date   string
		active bool
	}{
		{"2024-01-01", true},
		{"2024-12-31", true},
		{"2023-12-31", false},
		{"2025-01-01", false},
	}
	for _, tc := range cases {
		active, err := policies.ExistsActiveOnDate(ctx, carID, dates.MustParse(tc.date))
		require.NoError(t, err, tc.date)
		assert.Equal(t, tc.active, active, tc.date)
	}

	// Another car's coverage never counts.
	active, err := policies.ExistsActiveOnDate(ctx, uuid.New(), dates.MustParse("2024-06-15"))
	require.NoError(t, err)
	assert.False(t, active)
}

func TestPolicyStoreOpenEndedNeverActive(t *testing.T) {
	ctx := context.Background()
	policies := store.NewInMemoryPolicyStore()
	carID := uuid.New()

	require.NoError(t, policies.Save(ctx, policy(carID, "2024-01-01", nil)))

	active, err := policies.ExistsActiveOnDate(ctx, carID, dates.MustParse("2024-06-15"))
	require.NoError(t, err)
	assert.False(t, active)

	openEnded, err := policies.FindOpenEnded(ctx)
	require.NoError(t, err)
	assert.Len(t, openEnded, 1)
}

func TestPolicyStoreFindExpiringOn(t *testing.T) {
	ctx := context.Background()
	policies := store.NewInMemoryPolicyStore()

	require.NoError(t, policies.Save(ctx, policy(uuid.New(), "2024-01-01", strptr("2024-12-31"))))
	require.NoError(t, policies.Save(ctx, policy(uuid.New(), "2024-02-01", strptr("2024-12-31"))))
	require.NoError(t, policies.Save(ctx, policy(uuid.New(), "2024-03-01", strptr("2025-06-30"))))

	expiring, err := policies.FindExpiringOn(ctx, dates.MustParse("2024-12-31"))
	require.NoError(t, err)
	assert.Len(t, expiring, 2)
}

func TestPolicyStoreDeleteByCarID(t *testing.T) {
	ctx := context.Background()
	policies := store.NewInMemoryPolicyStore()
	carID := uuid.New()

	require.NoError(t, policies.Save(ctx, policy(carID, "2024-01-01", strptr("2024-12-31"))))
	require.NoError(t, policies.Save(ctx, policy(carID, "2025-01-01", strptr("2025-12-31"))))
	require.NoError(t, policies.Save(ctx, policy(uuid.New(), "2024-01-01", strptr("2024-12-31"))))

	deleted, err := policies.DeleteByCarID(ctx, carID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	remaining, err := policies.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestClaimStoreOrdering(t *testing.T) {
	ctx := context.Background()
	claims := store.NewInMemoryClaimStore()
	carID := uuid.New()
	now := time.Now()

	older := models.Claim{ID: uuid.New(), CarID: carID, ClaimDate: dates.MustParse("2024-03-01"), Description: "chip", Amount: 300, CreatedAt: now}
	newer := models.Claim{ID: uuid.New(), CarID: carID, ClaimDate: dates.MustParse("2024-09-01"), Description: "bumper", Amount: 1250, CreatedAt: now.Add(time.Minute)}
	require.NoError(t, claims.Save(ctx, older))
	require.NoError(t, claims.Save(ctx, newer))

	found, err := claims.FindByCarID(ctx, carID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, newer.ID, found[0].ID, "most recent claim date first")

	deleted, err := claims.DeleteByCarID(ctx, carID)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
}
