package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the insurance module.
type Metrics struct {
	ValidityChecks   prometheus.Counter
	HistoryRequests  prometheus.Counter
	CarsDeleted      prometheus.Counter
	PoliciesDropped  prometheus.Counter
	ClaimsFiled      prometheus.Counter
	ExpiriesNotified prometheus.Counter
}

// New creates a Metrics instance with all insurance module metrics registered.
func New() *Metrics {
	return &Metrics{
		ValidityChecks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_insurance_validity_checks_total",
			Help: "Total number of insurance validity checks",
		}),
		HistoryRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_car_history_requests_total",
			Help: "Total number of car history requests",
		}),
		CarsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_cars_deleted_total",
			Help: "Total number of cars deleted",
		}),
		PoliciesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_policies_dropped_total",
			Help: "Total number of policies removed by car updates and deletes",
		}),
		ClaimsFiled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_claims_filed_total",
			Help: "Total number of claims filed",
		}),
		ExpiriesNotified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_policy_expiries_notified_total",
			Help: "Total number of policy expiry notifications logged",
		}),
	}
}
