package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/pkg/id"
	"github.com/donor-intake-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Create provisions a staff, hospital or admin account. Only admins may call it.
	Create(ctx context.Context, actor *domain.Actor, req domain.CreateUserRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type service struct {
	repo userStore
	now  func() time.Time
}

func NewService(repo userStore, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}
}

func (s *service) Create(ctx context.Context, actor *domain.Actor, req domain.CreateUserRequest) (*domain.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("create user: %w", domain.ErrUnauthorized)
	}
	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("create user requires admin: %w", domain.ErrForbidden)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	staffRole, err := domain.ParseStaffRole(req.StaffRole)
	if err != nil {
		return nil, err
	}
	if staffRole != domain.StaffNone && req.Role != domain.RoleStaff {
		return nil, fmt.Errorf("staff_role is only valid for staff accounts: %w", domain.ErrBadRequest)
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w: %w", domain.ErrUpstream, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.NewAt(now),
		Email:        req.Email,
		PasswordHash: string(hash),
		RoleCode:     req.Role.Code(),
		StaffRole:    staffRole,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w: %w", domain.ErrUpstream, err)
	}
	slog.Info("user provisioned", "user_id", u.UserID, "role", req.Role, "by", actor.UserID)
	return u, nil
}
