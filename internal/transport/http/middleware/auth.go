package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/donor-intake-api/internal/domain"
	jwtinfra "github.com/donor-intake-api/internal/infrastructure/jwt"
)

type contextKey string

const (
	ClaimsKey contextKey = "claims"
	ActorKey  contextKey = "actor"
)

type tokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// sessionChecker confirms the session named in a token is still live.
type sessionChecker interface {
	Current(ctx context.Context, sessionID string) (*domain.Session, error)
}

// Auth returns middleware that validates the Bearer JWT, confirms its session
// has not been ended, and injects the claims and the resolved Actor into context.
func Auth(provider tokenVerifier, sessions sessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			role, err := domain.ParseRole(claims.Role)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			sess, err := sessions.Current(r.Context(), claims.SessionID)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					writeJSONError(w, http.StatusUnauthorized, "session ended")
					return
				}
				slog.Error("session check failed", "session_id", claims.SessionID, "err", err)
				writeJSONError(w, http.StatusServiceUnavailable, "session check unavailable")
				return
			}
			actor := &domain.Actor{
				UserID:    claims.UserID,
				Role:      role,
				SessionID: sess.SessionID,
				ExpiresAt: sess.ExpiresAt,
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

// ActorFromContext returns the authenticated caller, or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *domain.Actor {
	a, _ := ctx.Value(ActorKey).(*domain.Actor)
	return a
}

// WithActor returns ctx carrying actor. Intended for tests and internal callers.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}
