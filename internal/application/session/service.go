package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/pkg/id"
	"github.com/donor-intake-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Bearer  string
	Session *domain.Session
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// Logout disables the session and discards its donor token table.
	Logout(ctx context.Context, sessionID string) error
	// Current returns the session when it is enabled and unexpired.
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

type jwtSigner interface {
	Sign(userID, role, sessionID string, expiresAt time.Time) (string, error)
}

// tokenTables ends the per-session donor token table.
type tokenTables interface {
	EndSession(ctx context.Context, sessionID string) error
}

type ServiceDeps struct {
	UserRepo    userStore
	SessionRepo sessionStore
	JWTProvider jwtSigner
	TokenTables tokenTables
	SessionTTL  time.Duration
	Now         func() time.Time
}

type service struct {
	userRepo    userStore
	sessionRepo sessionStore
	jwtProvider jwtSigner
	tokens      tokenTables
	ttl         time.Duration
	now         func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		userRepo:    deps.UserRepo,
		sessionRepo: deps.SessionRepo,
		jwtProvider: deps.JWTProvider,
		tokens:      deps.TokenTables,
		ttl:         deps.SessionTTL,
		now:         deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w: %w", domain.ErrUpstream, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	role, err := u.Role()
	if err != nil {
		slog.Error("user has unknown role code", "user_id", u.UserID, "role_id", u.RoleCode)
		return nil, fmt.Errorf("account role: %w", domain.ErrForbidden)
	}

	now := s.now().UTC()
	sess := &domain.Session{
		SessionID: id.NewAt(now),
		UserID:    u.UserID,
		Enable:    true,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w: %w", domain.ErrUpstream, err)
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, string(role), sess.SessionID, sess.ExpiresAt)
	if err != nil {
		return nil, err
	}
	slog.Info("session started", "user_id", u.UserID, "session_id", sess.SessionID, "role", role)
	sess.User = u
	return &LoginResult{Bearer: bearer, Session: sess}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Disable(ctx, sessionID); err != nil {
		return fmt.Errorf("disable session: %w: %w", domain.ErrUpstream, err)
	}
	if err := s.tokens.EndSession(ctx, sessionID); err != nil {
		slog.Warn("donor token table not discarded", "session_id", sessionID, "err", err)
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	slog.Info("session ended", "session_id", sessionID)
	return nil
}

func (s *service) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("session not found: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w: %w", domain.ErrUpstream, err)
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session ended: %w", domain.ErrUnauthorized)
	}
	if !s.now().Before(sess.ExpiresAt) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	return sess, nil
}
