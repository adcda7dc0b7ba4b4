// Package identity maps donor ids to tokens that can be handed to a browser
// and resolved back within the same session.
//
// Hash tokens are sha256(donor_id || secret). They are deterministic and
// derivable from the donor id by anyone holding the secret, so they only
// obfuscate ids; they do not anonymize donors. Random tokens carry no
// relation to the donor id but expire.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/infrastructure/metrics"
	"github.com/donor-intake-api/internal/pkg/token"
)

// Vault holds the per-session donor token tables.
type Vault interface {
	Put(ctx context.Context, sessionID string, entry domain.TokenEntry, sessionExpiry time.Time) error
	Get(ctx context.Context, sessionID, token string) (domain.TokenEntry, error)
	Discard(ctx context.Context, sessionID string) error
}

type Service interface {
	// Tokenize returns the deterministic hash token for the donor and records
	// it in the actor's session table.
	Tokenize(ctx context.Context, actor *domain.Actor, rawDonorID string) (string, error)
	// IssueToken returns a random token for the donor valid for the configured TTL.
	IssueToken(ctx context.Context, actor *domain.Actor, rawDonorID string) (string, time.Time, error)
	// Resolve maps a token back to its donor within the actor's session.
	Resolve(ctx context.Context, actor *domain.Actor, tok string) (domain.DonorID, error)
	// EndSession discards the session's table.
	EndSession(ctx context.Context, sessionID string) error
}

type ServiceDeps struct {
	Vault    Vault
	Secret   string
	TokenTTL time.Duration
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

type service struct {
	vault   Vault
	secret  string
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
	random  func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		vault:   deps.Vault,
		secret:  deps.Secret,
		ttl:     deps.TokenTTL,
		metrics: deps.Metrics,
		now:     deps.Now,
		random:  token.Random,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Tokenize(ctx context.Context, actor *domain.Actor, rawDonorID string) (string, error) {
	donorID, err := s.authorize(actor, rawDonorID)
	if err != nil {
		s.metrics.DonorToken("hash", "rejected")
		return "", err
	}
	tok := token.DonorHash(donorID.String(), s.secret)
	if err := s.store(ctx, actor, domain.TokenEntry{Token: tok, DonorID: donorID}); err != nil {
		s.metrics.DonorToken("hash", "error")
		return "", err
	}
	s.metrics.DonorToken("hash", "ok")
	return tok, nil
}

func (s *service) IssueToken(ctx context.Context, actor *domain.Actor, rawDonorID string) (string, time.Time, error) {
	donorID, err := s.authorize(actor, rawDonorID)
	if err != nil {
		s.metrics.DonorToken("random", "rejected")
		return "", time.Time{}, err
	}
	tok, err := s.random()
	if err != nil {
		slog.Error("donor token generation failed", "session_id", actor.SessionID, "err", err)
		s.metrics.DonorToken("random", "error")
		return "", time.Time{}, err
	}
	expiresAt := s.now().Add(s.ttl).UTC()
	if !actor.ExpiresAt.IsZero() && actor.ExpiresAt.Before(expiresAt) {
		expiresAt = actor.ExpiresAt.UTC()
	}
	if err := s.store(ctx, actor, domain.TokenEntry{Token: tok, DonorID: donorID, ExpiresAt: &expiresAt}); err != nil {
		s.metrics.DonorToken("random", "error")
		return "", time.Time{}, err
	}
	s.metrics.DonorToken("random", "ok")
	return tok, expiresAt, nil
}

func (s *service) Resolve(ctx context.Context, actor *domain.Actor, tok string) (domain.DonorID, error) {
	if actor == nil || actor.SessionID == "" {
		s.metrics.DonorToken("resolve", "rejected")
		return 0, fmt.Errorf("resolve donor token: %w", domain.ErrUnauthorized)
	}
	if tok == "" {
		s.metrics.DonorToken("resolve", "rejected")
		return 0, fmt.Errorf("donor token is required: %w", domain.ErrBadRequest)
	}
	e, err := s.vault.Get(ctx, actor.SessionID, tok)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.DonorToken("resolve", "not_found")
		return 0, err
	}
	if err != nil {
		slog.Error("donor token lookup failed", "session_id", actor.SessionID, "err", err)
		s.metrics.DonorToken("resolve", "error")
		return 0, fmt.Errorf("resolve donor token: %w: %w", domain.ErrUpstream, err)
	}
	s.metrics.DonorToken("resolve", "ok")
	return e.DonorID, nil
}

func (s *service) EndSession(ctx context.Context, sessionID string) error {
	if err := s.vault.Discard(ctx, sessionID); err != nil {
		return fmt.Errorf("discard donor tokens: %w", err)
	}
	return nil
}

func (s *service) authorize(actor *domain.Actor, rawDonorID string) (domain.DonorID, error) {
	if actor == nil || actor.SessionID == "" {
		return 0, fmt.Errorf("donor token: %w", domain.ErrUnauthorized)
	}
	return domain.ParseDonorID(rawDonorID)
}

func (s *service) store(ctx context.Context, actor *domain.Actor, e domain.TokenEntry) error {
	sessionExpiry := actor.ExpiresAt
	if sessionExpiry.IsZero() {
		sessionExpiry = s.now().Add(s.ttl)
	}
	if err := s.vault.Put(ctx, actor.SessionID, e, sessionExpiry); err != nil {
		slog.Error("donor token store failed", "session_id", actor.SessionID, "err", err)
		return fmt.Errorf("store donor token: %w: %w", domain.ErrUpstream, err)
	}
	return nil
}
