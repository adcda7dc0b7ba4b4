package http

import (
	"context"
	"net/http"

	"github.com/donor-intake-api/internal/config"
	"github.com/donor-intake-api/internal/domain"
	"github.com/donor-intake-api/internal/transport/http/handler"
	appmiddleware "github.com/donor-intake-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// background sweeps of the rate limiters.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.Tokens, deps.Sessions)

	// Login: 5 requests/second, burst of 10.
	loginRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)
	// Donor reads are unauthenticated, so they get their own per-IP bucket.
	donorRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(20), 40)

	healthH := handler.NewHealthHandler(deps.HealthChecks)
	sessionH := handler.NewSessionHandler(deps.Sessions)
	userH := handler.NewUserHandler(deps.Users)
	donorH := handler.NewDonorHandler(deps.Eligibility, deps.Deferral)
	screeningH := handler.NewScreeningHandler(deps.Review)
	identityH := handler.NewIdentityHandler(deps.Identity)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(loginRL.Limit).Post("/sessions/login", sessionH.Login)

		r.Group(func(r chi.Router) {
			r.Use(donorRL.Limit)
			r.Get("/donors/{id}/eligibility", donorH.Eligibility)
			r.Get("/donors/{id}/deferral", donorH.Deferral)
			r.Get("/donors/{id}/intake-status", donorH.IntakeStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/sessions/logout", sessionH.Logout)
			r.Post("/screening-forms/{id}/needs-review", screeningH.FlagForReview)
			r.Post("/donors/{id}/hash", identityH.Hash)
			r.Post("/donors/{id}/token", identityH.Issue)
			r.Get("/donor-tokens/{token}", identityH.Resolve)

			r.With(appmiddleware.RequireRole(domain.RoleAdmin)).Post("/users", userH.Create)
		})
	})

	return r
}
