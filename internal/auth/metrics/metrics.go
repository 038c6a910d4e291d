package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the auth module.
type Metrics struct {
	UsersRegistered prometheus.Counter
	LoginSuccess    prometheus.Counter
	LoginFailure    prometheus.Counter
}

// New creates a Metrics instance with all auth module metrics registered.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_users_registered_total",
			Help: "Total number of registered users",
		}),
		LoginSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_logins_success_total",
			Help: "Total number of successful logins",
		}),
		LoginFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carins_logins_failure_total",
			Help: "Total number of failed login attempts",
		}),
	}
}
