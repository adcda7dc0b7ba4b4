package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/donor-intake-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SafeUser is the user projection returned to clients; it never carries the password hash.
type SafeUser struct {
	UserID    string           `json:"id"`
	Email     string           `json:"email"`
	Role      domain.Role      `json:"role"`
	StaffRole domain.StaffRole `json:"staff_role,omitempty"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Enable    bool             `json:"enable"`
	CreatedAt time.Time        `json:"created"`
}

type SafeSession struct {
	SessionID string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Bearer  string       `json:"Bearer,omitempty"`
	Session *SafeSession `json:"session,omitempty"`
	User    *SafeUser    `json:"user,omitempty"`
}

// ReviewEnvelope is the needs-review response. UpdatedAt is null on failure.
type ReviewEnvelope struct {
	Success   bool    `json:"success"`
	UpdatedAt *string `json:"updated_at"`
	Message   string  `json:"message,omitempty"`
}

// DeferralEnvelope adds an error field to the classifier output for rejected requests.
type DeferralEnvelope struct {
	domain.DeferralStatus
	Error string `json:"error,omitempty"`
}

// TokenEnvelope carries a donor token. ExpiresAt is set for random tokens only.
type TokenEnvelope struct {
	Success   bool       `json:"success"`
	Hash      string     `json:"hash,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// ResolveEnvelope carries the donor behind a token.
type ResolveEnvelope struct {
	Success bool            `json:"success"`
	DonorID *domain.DonorID `json:"donor_id"`
	Message string          `json:"message,omitempty"`
}

// IntakeStatusEnvelope reports both signals side by side. They are not merged.
type IntakeStatusEnvelope struct {
	DonorID     domain.DonorID           `json:"donor_id"`
	Eligibility domain.EligibilityStatus `json:"eligibility"`
	Deferral    domain.DeferralStatus    `json:"deferral"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	role, _ := u.Role()
	return &SafeUser{
		UserID:    u.UserID,
		Email:     u.Email,
		Role:      role,
		StaffRole: u.StaffRole,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Enable:    u.Enable,
		CreatedAt: u.CreatedAt,
	}
}

func toSafeSession(s *domain.Session) *SafeSession {
	if s == nil {
		return nil
	}
	return &SafeSession{SessionID: s.SessionID, UserID: s.UserID, ExpiresAt: s.ExpiresAt}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// httpError writes err with the status its sentinel maps to.
func httpError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// statusFor maps domain sentinels to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func formatTime(t time.Time) *string {
	s := t.UTC().Format(time.RFC3339)
	return &s
}
