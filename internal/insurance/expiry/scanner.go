// Package expiry runs the background sweep that logs policies reaching their
// end date. Each policy is announced once per process; Reset clears the
// memory of what was announced.
package expiry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	insmetrics "carins/internal/insurance/metrics"
	"carins/internal/insurance/store"
	"carins/pkg/dates"
)

// Scanner sweeps for policies whose end date is today. Sweeps run serially on
// one goroutine, so a slow sweep delays the next rather than overlapping it.
type Scanner struct {
	policies store.PolicyStore
	interval time.Duration
	metrics  *insmetrics.Metrics
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	notified map[uuid.UUID]struct{}
}

func New(policies store.PolicyStore, interval time.Duration, metrics *insmetrics.Metrics, logger *slog.Logger) *Scanner {
	return &Scanner{
		policies: policies,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		notified: make(map[uuid.UUID]struct{}),
	}
}

// WithClock overrides the time source. Test hook.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Run sweeps immediately, then on every tick until the context is canceled.
func (s *Scanner) Run(ctx context.Context) error {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep logs every policy expiring today that has not been announced yet.
func (s *Scanner) Sweep(ctx context.Context) {
	s.logger.DebugContext(ctx, "checking for expired policies")

	today := dates.FromTime(s.now())
	expiring, err := s.policies.FindExpiringOn(ctx, today)
	if err != nil {
		s.logger.WarnContext(ctx, "expiry sweep failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, policy := range expiring {
		if _, seen := s.notified[policy.ID]; seen {
			continue
		}
		s.logger.InfoContext(ctx, "policy expired",
			"policy_id", policy.ID,
			"car_id", policy.CarID,
			"end_date", policy.EndDate.String(),
		)
		s.notified[policy.ID] = struct{}{}
		if s.metrics != nil {
			s.metrics.ExpiriesNotified.Inc()
		}
	}

	if len(expiring) > 0 {
		s.logger.InfoContext(ctx, "expired policies found", "count", len(expiring), "date", today.String())
	}
}

// Reset forgets which policies were already announced.
func (s *Scanner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = make(map[uuid.UUID]struct{})
}
