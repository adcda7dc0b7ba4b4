package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Disable(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, role, sessionID string, expiresAt time.Time) (string, error) {
	args := m.Called(userID, role, sessionID, expiresAt)
	return args.String(0), args.Error(1)
}

type mockTokenTables struct{ mock.Mock }

func (m *mockTokenTables) EndSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

// --- helpers ---

var now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	users    *mockUserStore
	sessions *mockSessionStore
	jwt      *mockJWTSigner
	tokens   *mockTokenTables
	svc      Service
}

func newFixture() *fixture {
	f := &fixture{
		users:    new(mockUserStore),
		sessions: new(mockSessionStore),
		jwt:      new(mockJWTSigner),
		tokens:   new(mockTokenTables),
	}
	f.svc = NewService(ServiceDeps{
		UserRepo:    f.users,
		SessionRepo: f.sessions,
		JWTProvider: f.jwt,
		TokenTables: f.tokens,
		SessionTTL:  12 * time.Hour,
		Now:         func() time.Time { return now },
	})
	return f
}

func staffUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		UserID:       "u1",
		Email:        "nurse@redcross.example",
		PasswordHash: string(hash),
		RoleCode:     3,
		StaffRole:    domain.StaffPhysician,
		Enable:       true,
	}
}

// --- tests ---

func TestLogin_HappyPath(t *testing.T) {
	f := newFixture()
	u := staffUser(t, "correct horse")
	f.users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)
	f.sessions.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		return s.UserID == "u1" && s.Enable && s.ExpiresAt.Equal(now.Add(12*time.Hour))
	})).Return(nil)
	f.jwt.On("Sign", "u1", "staff", mock.Anything, now.Add(12*time.Hour)).Return("signed.jwt", nil)

	res, err := f.svc.Login(context.Background(), LoginRequest{Email: u.Email, Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt", res.Bearer)
	assert.NotEmpty(t, res.Session.SessionID)
	assert.Equal(t, u, res.Session.User)
	f.sessions.AssertExpectations(t)
	f.jwt.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture()
	u := staffUser(t, "correct horse")
	f.users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: u.Email, Password: "battery staple"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	f.sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	f := newFixture()
	f.users.On("GetByEmail", mock.Anything, "ghost@redcross.example").Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "ghost@redcross.example", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newFixture()
	u := staffUser(t, "pw-long-enough")
	u.Enable = false
	f.users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: u.Email, Password: "pw-long-enough"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_UnknownRoleCode(t *testing.T) {
	f := newFixture()
	u := staffUser(t, "pw-long-enough")
	u.RoleCode = 9
	f.users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: u.Email, Password: "pw-long-enough"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLogin_InvalidRequest(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	f.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLogout_DisablesAndDiscardsTokens(t *testing.T) {
	f := newFixture()
	f.sessions.On("Disable", mock.Anything, "s1").Return(nil)
	f.tokens.On("EndSession", mock.Anything, "s1").Return(nil)

	require.NoError(t, f.svc.Logout(context.Background(), "s1"))
	f.sessions.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
}

func TestLogout_StoreFailureKeepsTokens(t *testing.T) {
	f := newFixture()
	f.sessions.On("Disable", mock.Anything, "s1").Return(errors.New("throttled"))

	err := f.svc.Logout(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrUpstream)
	f.tokens.AssertNotCalled(t, "EndSession", mock.Anything, mock.Anything)
}

func TestCurrent(t *testing.T) {
	cases := []struct {
		name    string
		sess    *domain.Session
		err     error
		wantErr error
	}{
		{"active", &domain.Session{SessionID: "s1", Enable: true, ExpiresAt: now.Add(time.Hour)}, nil, nil},
		{"disabled", &domain.Session{SessionID: "s1", Enable: false, ExpiresAt: now.Add(time.Hour)}, nil, domain.ErrUnauthorized},
		{"expired", &domain.Session{SessionID: "s1", Enable: true, ExpiresAt: now}, nil, domain.ErrUnauthorized},
		{"missing", nil, fmt.Errorf("session not found: %w", domain.ErrNotFound), domain.ErrUnauthorized},
		{"store down", nil, errors.New("boom"), domain.ErrUpstream},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.sessions.On("Get", mock.Anything, "s1").Return(tc.sess, tc.err)

			got, err := f.svc.Current(context.Background(), "s1")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s1", got.SessionID)
		})
	}
}
