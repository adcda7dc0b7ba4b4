// Package eligibility evaluates whether a donor's cooldown interval has ended.
package eligibility

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/infrastructure/metrics"
)

type intervalStore interface {
	Latest(ctx context.Context, donorID domain.DonorID) (*domain.EligibilityInterval, error)
}

// Service always returns a populated envelope. The error, when non-nil, wraps
// ErrBadRequest for malformed ids or ErrUpstream for store failures so the
// transport can pick a status code; the envelope is never eligible in either case.
type Service interface {
	Evaluate(ctx context.Context, rawDonorID string) (domain.EligibilityStatus, error)
}

type ServiceDeps struct {
	Intervals intervalStore
	Policy    domain.Policy
	Location  *time.Location
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

type service struct {
	intervals intervalStore
	policy    domain.Policy
	loc       *time.Location
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		intervals: deps.Intervals,
		policy:    deps.Policy,
		loc:       deps.Location,
		metrics:   deps.Metrics,
		now:       deps.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Evaluate(ctx context.Context, rawDonorID string) (domain.EligibilityStatus, error) {
	donorID, err := domain.ParseDonorID(rawDonorID)
	if err != nil {
		s.metrics.Eligibility("invalid")
		return domain.EligibilityStatus{StatusMessage: "Invalid donor ID"}, err
	}

	start := time.Now()
	iv, err := s.intervals.Latest(ctx, donorID)
	s.metrics.ObserveStore("eligibility_latest", start)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		slog.Error("eligibility lookup failed", "donor_id", donorID, "err", err)
		s.metrics.Eligibility("error")
		return domain.EligibilityStatus{
			StatusMessage: "Error checking eligibility: " + err.Error(),
		}, fmt.Errorf("eligibility for donor %s: %w: %w", donorID, domain.ErrUpstream, err)
	}

	if err != nil {
		iv = nil
	}
	status := decide(iv, s.now(), s.loc, s.policy)
	if status.IsEligible {
		s.metrics.Eligibility("eligible")
	} else {
		s.metrics.Eligibility("ineligible")
	}
	return status, nil
}
