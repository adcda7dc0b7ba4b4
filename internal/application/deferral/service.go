// Package deferral classifies a donor's latest physical examination remark.
package deferral

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/infrastructure/metrics"
)

type examStore interface {
	Latest(ctx context.Context, donorID domain.DonorID) (*domain.PhysicalExam, error)
}

// Service has no error path: store failures are logged and reported as not deferred.
type Service interface {
	IsDeferred(ctx context.Context, donorID domain.DonorID) domain.DeferralStatus
}

type service struct {
	exams   examStore
	policy  domain.Policy
	metrics *metrics.Metrics
}

func NewService(exams examStore, policy domain.Policy, m *metrics.Metrics) Service {
	return &service{exams: exams, policy: policy, metrics: m}
}

func (s *service) IsDeferred(ctx context.Context, donorID domain.DonorID) domain.DeferralStatus {
	status := domain.DeferralStatus{DonorID: donorID, CheckedBy: domain.CheckedByRemarks}

	start := time.Now()
	exam, err := s.exams.Latest(ctx, donorID)
	s.metrics.ObserveStore("exam_latest", start)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status.IsDeferred = s.policy.DeferredWithoutExam
		s.metrics.Deferral("no_record")
		return status
	case err != nil:
		slog.Error("deferral lookup failed", "donor_id", donorID, "err", err)
		s.metrics.Deferral("error")
		return status
	}

	remarks := exam.Remarks
	status.Remarks = &remarks
	if !exam.CreatedAt.IsZero() {
		examDate := exam.CreatedAt
		status.ExamDate = &examDate
	}
	if kind, ok := domain.DeferralFromRemarks(exam.Remarks); ok {
		status.IsDeferred = true
		status.DeferralType = kind
		s.metrics.Deferral("deferred")
		return status
	}
	s.metrics.Deferral("clear")
	return status
}
