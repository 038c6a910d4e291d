package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carins/internal/insurance/models"
	"carins/pkg/dates"
	"carins/pkg/tx"
)

// querier is satisfied by both *sql.DB and *sql.Tx so stores transparently
// join a transaction carried in context.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func q(ctx context.Context, db *sql.DB) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return db
}

// PostgresTx opens a database transaction and threads it through context so
// every store call inside fn shares one atomic unit.
type PostgresTx struct {
	db *sql.DB
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db}
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// PostgresOwnerStore persists owners in PostgreSQL. Pure I/O; business rules
// live in the service layer.
type PostgresOwnerStore struct {
	db *sql.DB
}

func NewPostgresOwnerStore(db *sql.DB) *PostgresOwnerStore {
	return &PostgresOwnerStore{db: db}
}

func (s *PostgresOwnerStore) Save(ctx context.Context, owner models.Owner) error {
	query := `
		INSERT INTO owners (id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email
	`
	if _, err := q(ctx, s.db).ExecContext(ctx, query, owner.ID, owner.Name, owner.Email); err != nil {
		return fmt.Errorf("save owner: %w", err)
	}
	return nil
}

func (s *PostgresOwnerStore) FindByID(ctx context.Context, id uuid.UUID) (models.Owner, error) {
	var owner models.Owner
	err := q(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, name, email FROM owners WHERE id = $1`, id,
	).Scan(&owner.ID, &owner.Name, &owner.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Owner{}, ErrOwnerNotFound
		}
		return models.Owner{}, fmt.Errorf("find owner by id: %w", err)
	}
	return owner, nil
}

func (s *PostgresOwnerStore) FindAll(ctx context.Context) ([]models.Owner, error) {
	rows, err := q(ctx, s.db).QueryContext(ctx,
		`SELECT id, name, email FROM owners ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("find all owners: %w", err)
	}
	defer rows.Close()

	var owners []models.Owner
	for rows.Next() {
		var owner models.Owner
		if err := rows.Scan(&owner.ID, &owner.Name, &owner.Email); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

func (s *PostgresOwnerStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM owners WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("owner exists by email: %w", err)
	}
	return exists, nil
}

func (s *PostgresOwnerStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := q(ctx, s.db).ExecContext(ctx, `DELETE FROM owners WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete owner: %w", err)
	}
	return nil
}

// PostgresCarStore persists cars in PostgreSQL.
type PostgresCarStore struct {
	db *sql.DB
}

func NewPostgresCarStore(db *sql.DB) *PostgresCarStore {
	return &PostgresCarStore{db: db}
}

func (s *PostgresCarStore) Save(ctx context.Context, car models.Car) error {
	query := `
		INSERT INTO cars (id, vin, make, model, year_of_manufacture, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			vin = EXCLUDED.vin,
			make = EXCLUDED.make,
			model = EXCLUDED.model,
			year_of_manufacture = EXCLUDED.year_of_manufacture,
			owner_id = EXCLUDED.owner_id
	`
	_, err := q(ctx, s.db).ExecContext(ctx, query,
		car.ID, car.VIN, car.Make, car.Model, car.YearOfManufacture, car.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("save car: %w", err)
	}
	return nil
}

func (s *PostgresCarStore) FindByID(ctx context.Context, id uuid.UUID) (models.Car, error) {
	car, err := scanCar(q(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, vin, make, model, year_of_manufacture, owner_id FROM cars WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Car{}, ErrCarNotFound
		}
		return models.Car{}, fmt.Errorf("find car by id: %w", err)
	}
	return car, nil
}

func (s *PostgresCarStore) FindAll(ctx context.Context) ([]models.Car, error) {
	return s.queryCars(ctx,
		`SELECT id, vin, make, model, year_of_manufacture, owner_id FROM cars ORDER BY vin`)
}

func (s *PostgresCarStore) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]models.Car, error) {
	return s.queryCars(ctx,
		`SELECT id, vin, make, model, year_of_manufacture, owner_id FROM cars WHERE owner_id = $1 ORDER BY vin`,
		ownerID)
}

func (s *PostgresCarStore) FindByVIN(ctx context.Context, vin string) (models.Car, error) {
	car, err := scanCar(q(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, vin, make, model, year_of_manufacture, owner_id FROM cars WHERE vin = $1`, vin))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Car{}, ErrCarNotFound
		}
		return models.Car{}, fmt.Errorf("find car by vin: %w", err)
	}
	return car, nil
}

func (s *PostgresCarStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cars WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("car exists by id: %w", err)
	}
	return exists, nil
}

func (s *PostgresCarStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := q(ctx, s.db).ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete car: %w", err)
	}
	return nil
}

func (s *PostgresCarStore) queryCars(ctx context.Context, query string, args ...any) ([]models.Car, error) {
	rows, err := q(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cars: %w", err)
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var car models.Car
		if err := rows.Scan(&car.ID, &car.VIN, &car.Make, &car.Model, &car.YearOfManufacture, &car.OwnerID); err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

func scanCar(row *sql.Row) (models.Car, error) {
	var car models.Car
	err := row.Scan(&car.ID, &car.VIN, &car.Make, &car.Model, &car.YearOfManufacture, &car.OwnerID)
	return car, err
}

// PostgresPolicyStore persists insurance policies in PostgreSQL.
type PostgresPolicyStore struct {
	db *sql.DB
}

func NewPostgresPolicyStore(db *sql.DB) *PostgresPolicyStore {
	return &PostgresPolicyStore{db: db}
}

const policyColumns = `id, car_id, provider, start_date, end_date`

func (s *PostgresPolicyStore) Save(ctx context.Context, policy models.Policy) error {
	query := `
		INSERT INTO policies (id, car_id, provider, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			car_id = EXCLUDED.car_id,
			provider = EXCLUDED.provider,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date
	`
	var endDate any
	if policy.EndDate != nil {
		endDate = policy.EndDate.Time()
	}
	_, err := q(ctx, s.db).ExecContext(ctx, query,
		policy.ID, policy.CarID, policy.Provider, policy.StartDate.Time(), endDate,
	)
	if err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	return nil
}

func (s *PostgresPolicyStore) FindByID(ctx context.Context, id uuid.UUID) (models.Policy, error) {
	policy, err := scanPolicy(q(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Policy{}, ErrPolicyNotFound
		}
		return models.Policy{}, fmt.Errorf("find policy by id: %w", err)
	}
	return policy, nil
}

func (s *PostgresPolicyStore) FindAll(ctx context.Context) ([]models.Policy, error) {
	return s.queryPolicies(ctx,
		`SELECT `+policyColumns+` FROM policies ORDER BY start_date, id`)
}

func (s *PostgresPolicyStore) FindByCarID(ctx context.Context, carID uuid.UUID) ([]models.Policy, error) {
	return s.queryPolicies(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE car_id = $1 ORDER BY start_date, id`, carID)
}

func (s *PostgresPolicyStore) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM policies WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("policy exists by id: %w", err)
	}
	return exists, nil
}

func (s *PostgresPolicyStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := q(ctx, s.db).ExecContext(ctx, `DELETE FROM policies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}
	return nil
}

func (s *PostgresPolicyStore) DeleteByCarID(ctx context.Context, carID uuid.UUID) (int, error) {
	result, err := q(ctx, s.db).ExecContext(ctx, `DELETE FROM policies WHERE car_id = $1`, carID)
	if err != nil {
		return 0, fmt.Errorf("delete policies by car: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete policies rows affected: %w", err)
	}
	return int(deleted), nil
}

func (s *PostgresPolicyStore) ExistsActiveOnDate(ctx context.Context, carID uuid.UUID, date dates.Date) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM policies
			WHERE car_id = $1
			  AND start_date <= $2
			  AND end_date >= $2
		)
	`
	var exists bool
	if err := q(ctx, s.db).QueryRowContext(ctx, query, carID, date.Time()).Scan(&exists); err != nil {
		return false, fmt.Errorf("policy active on date: %w", err)
	}
	return exists, nil
}

func (s *PostgresPolicyStore) FindExpiringOn(ctx context.Context, date dates.Date) ([]models.Policy, error) {
	return s.queryPolicies(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE end_date = $1 ORDER BY start_date, id`, date.Time())
}

func (s *PostgresPolicyStore) FindOpenEnded(ctx context.Context) ([]models.Policy, error) {
	return s.queryPolicies(ctx,
		`SELECT `+policyColumns+` FROM policies WHERE end_date IS NULL ORDER BY start_date, id`)
}

func (s *PostgresPolicyStore) queryPolicies(ctx context.Context, query string, args ...any) ([]models.Policy, error) {
	rows, err := q(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	var policies []models.Policy
	for rows.Next() {
		var policy models.Policy
		var provider sql.NullString
		var start time.Time
		var end sql.NullTime
		if err := rows.Scan(&policy.ID, &policy.CarID, &provider, &start, &end); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policy.Provider = provider.String
		policy.StartDate = dates.FromTime(start)
		if end.Valid {
			d := dates.FromTime(end.Time)
			policy.EndDate = &d
		}
		policies = append(policies, policy)
	}
	return policies, rows.Err()
}

func scanPolicy(row *sql.Row) (models.Policy, error) {
	var policy models.Policy
	var provider sql.NullString
	var start time.Time
	var end sql.NullTime
	if err := row.Scan(&policy.ID, &policy.CarID, &provider, &start, &end); err != nil {
		return models.Policy{}, err
	}
	policy.Provider = provider.String
	policy.StartDate = dates.FromTime(start)
	if end.Valid {
		d := dates.FromTime(end.Time)
		policy.EndDate = &d
	}
	return policy, nil
}

// PostgresClaimStore persists claims in PostgreSQL.
type PostgresClaimStore struct {
	db *sql.DB
}

func NewPostgresClaimStore(db *sql.DB) *PostgresClaimStore {
	return &PostgresClaimStore{db: db}
}

func (s *PostgresClaimStore) Save(ctx context.Context, claim models.Claim) error {
	query := `
		INSERT INTO claims (id, car_id, claim_date, description, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			claim_date = EXCLUDED.claim_date,
			description = EXCLUDED.description,
			amount = EXCLUDED.amount
	`
	_, err := q(ctx, s.db).ExecContext(ctx, query,
		claim.ID, claim.CarID, claim.ClaimDate.Time(), claim.Description, claim.Amount, claim.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save claim: %w", err)
	}
	return nil
}

func (s *PostgresClaimStore) FindByCarID(ctx context.Context, carID uuid.UUID) ([]models.Claim, error) {
	query := `
		SELECT id, car_id, claim_date, description, amount, created_at
		FROM claims
		WHERE car_id = $1
		ORDER BY claim_date DESC, created_at DESC
	`
	rows, err := q(ctx, s.db).QueryContext(ctx, query, carID)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var claims []models.Claim
	for rows.Next() {
		var claim models.Claim
		var claimDate time.Time
		if err := rows.Scan(&claim.ID, &claim.CarID, &claimDate, &claim.Description, &claim.Amount, &claim.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claim.ClaimDate = dates.FromTime(claimDate)
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

func (s *PostgresClaimStore) DeleteByCarID(ctx context.Context, carID uuid.UUID) (int, error) {
	result, err := q(ctx, s.db).ExecContext(ctx, `DELETE FROM claims WHERE car_id = $1`, carID)
	if err != nil {
		return 0, fmt.Errorf("delete claims by car: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete claims rows affected: %w", err)
	}
	return int(deleted), nil
}
