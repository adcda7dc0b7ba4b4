// Package review moves screening forms into the needs-review state.
// The transition is one-way; nothing in this service clears the flag.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/infrastructure/metrics"
)

type screeningStore interface {
	MarkNeedsReview(ctx context.Context, ownerID domain.ScreeningOwnerID, at time.Time) error
}

type Service interface {
	// FlagForReview sets needs_review on the form and returns the server-side
	// timestamp written with it. Repeating the call only refreshes the timestamp.
	FlagForReview(ctx context.Context, actor *domain.Actor, rawOwnerID string) (time.Time, error)
}

type service struct {
	forms   screeningStore
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(forms screeningStore, m *metrics.Metrics, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{forms: forms, metrics: m, now: now}
}

func (s *service) FlagForReview(ctx context.Context, actor *domain.Actor, rawOwnerID string) (time.Time, error) {
	if actor == nil {
		s.metrics.ReviewFlag("unauthorized")
		return time.Time{}, fmt.Errorf("flag for review: %w", domain.ErrUnauthorized)
	}
	ownerID, err := domain.ParseScreeningOwnerID(rawOwnerID)
	if err != nil {
		s.metrics.ReviewFlag("invalid")
		return time.Time{}, err
	}

	at := s.now().UTC().Truncate(time.Second)
	start := time.Now()
	err = s.forms.MarkNeedsReview(ctx, ownerID, at)
	s.metrics.ObserveStore("screening_mark_review", start)
	if err != nil {
		slog.Error("flag for review failed", "screening_owner_id", ownerID, "user_id", actor.UserID, "err", err)
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.ReviewFlag("not_found")
			return time.Time{}, err
		}
		s.metrics.ReviewFlag("error")
		return time.Time{}, fmt.Errorf("flag for review: %w: %w", domain.ErrUpstream, err)
	}
	slog.Info("screening form flagged for review", "screening_owner_id", ownerID, "user_id", actor.UserID)
	s.metrics.ReviewFlag("ok")
	return at, nil
}
