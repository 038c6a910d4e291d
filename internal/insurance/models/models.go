// Package models holds the insurance domain records: owners, cars, policies,
// and claims. Referential rules between them (cascades, delete blocking) are
// enforced by the service layer, not by schema constraints.
package models

import (
	"time"

	"github.com/google/uuid"

	"carins/pkg/dates"
)

// Owner owns zero or more cars. Email is globally unique. An owner with at
// least one car cannot be deleted.
type Owner struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Car belongs to exactly one owner. VIN is globally unique. Deleting a car
// cascades to its policies and claims.
type Car struct {
	ID                uuid.UUID
	VIN               string
	Make              string
	Model             string
	YearOfManufacture int
	OwnerID           uuid.UUID
}

// Policy represents a continuous coverage interval [StartDate, EndDate],
// inclusive on both ends. EndDate is nullable in storage; a nil end date is
// treated as a data defect repaired by the open-ended policy fix, not as
// open-ended coverage.
type Policy struct {
	ID        uuid.UUID
	CarID     uuid.UUID
	Provider  string
	StartDate dates.Date
	EndDate   *dates.Date
}

// ActiveOn reports whether the policy covers the given calendar date. A nil
// end date never matches.
func (p Policy) ActiveOn(d dates.Date) bool {
	if p.EndDate == nil {
		return false
	}
	return !d.Before(p.StartDate) && !d.After(*p.EndDate)
}

// Claim is a claim filed against a car. CreatedAt is server-assigned and
// immutable once set.
type Claim struct {
	ID          uuid.UUID
	CarID       uuid.UUID
	ClaimDate   dates.Date
	Description string
	Amount      float64
	CreatedAt   time.Time
}

// History event types.
const (
	EventTypePolicy = "INSURANCE_POLICY"
	EventTypeClaim  = "CLAIM"
)

// UnknownProvider labels policies whose provider was never recorded.
const UnknownProvider = "Unknown Provider"

// HistoryEvent is one entry in a car's chronological narrative. Date orders
// events at day granularity; Timestamp breaks ties.
type HistoryEvent struct {
	Type        string
	Date        dates.Date
	Description string
	Timestamp   time.Time
}

// CarHistory is the merged, time-ordered event narrative for one car.
type CarHistory struct {
	CarID             uuid.UUID
	VIN               string
	Make              string
	Model             string
	YearOfManufacture int
	Events            []HistoryEvent
}
