package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/donor-intake-api/internal/application/session"
	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
)

type mockEligibility struct{ mock.Mock }

func (m *mockEligibility) Evaluate(ctx context.Context, rawDonorID string) (domain.EligibilityStatus, error) {
	args := m.Called(ctx, rawDonorID)
	return args.Get(0).(domain.EligibilityStatus), args.Error(1)
}

type mockDeferral struct{ mock.Mock }

func (m *mockDeferral) IsDeferred(ctx context.Context, donorID domain.DonorID) domain.DeferralStatus {
	args := m.Called(ctx, donorID)
	return args.Get(0).(domain.DeferralStatus)
}

type mockReview struct{ mock.Mock }

func (m *mockReview) FlagForReview(ctx context.Context, actor *domain.Actor, rawOwnerID string) (time.Time, error) {
	args := m.Called(ctx, actor, rawOwnerID)
	return args.Get(0).(time.Time), args.Error(1)
}

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) Tokenize(ctx context.Context, actor *domain.Actor, rawDonorID string) (string, error) {
	args := m.Called(ctx, actor, rawDonorID)
	return args.String(0), args.Error(1)
}

func (m *mockIdentity) IssueToken(ctx context.Context, actor *domain.Actor, rawDonorID string) (string, time.Time, error) {
	args := m.Called(ctx, actor, rawDonorID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockIdentity) Resolve(ctx context.Context, actor *domain.Actor, tok string) (domain.DonorID, error) {
	args := m.Called(ctx, actor, tok)
	return args.Get(0).(domain.DonorID), args.Error(1)
}

func (m *mockIdentity) EndSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockSession struct{ mock.Mock }

func (m *mockSession) Login(ctx context.Context, req session.LoginRequest) (*session.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.LoginResult), args.Error(1)
}

func (m *mockSession) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockSession) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, actor *domain.Actor, req domain.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var staffActor = &domain.Actor{UserID: "u1", Role: domain.RoleStaff, SessionID: "s1"}

// newRequest builds a request carrying chi URL params and, when actor is
// non-nil, an authenticated caller.
func newRequest(method, target, body string, actor *domain.Actor, params map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if actor != nil {
		ctx = middleware.WithActor(ctx, actor)
	}
	return r.WithContext(ctx)
}
