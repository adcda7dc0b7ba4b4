package http

import (
	"github.com/donor-intake-api/internal/application/deferral"
	"github.com/donor-intake-api/internal/application/eligibility"
	"github.com/donor-intake-api/internal/application/identity"
	"github.com/donor-intake-api/internal/application/review"
	"github.com/donor-intake-api/internal/application/session"
	"github.com/donor-intake-api/internal/application/user"
	jwtinfra "github.com/donor-intake-api/internal/infrastructure/jwt"
	"github.com/donor-intake-api/internal/transport/http/handler"
	"github.com/prometheus/client_golang/prometheus"
)

// TokenVerifier is the minimal interface the router requires to authenticate bearers.
type TokenVerifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// Deps holds the application services and infrastructure the router serves.
type Deps struct {
	Sessions    session.Service
	Users       user.Service
	Eligibility eligibility.Service
	Deferral    deferral.Service
	Review      review.Service
	Identity    identity.Service

	Tokens TokenVerifier
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer     prometheus.Gatherer
	HealthChecks map[string]handler.HealthCheck
}
