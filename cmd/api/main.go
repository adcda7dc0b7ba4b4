package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donor-intake-api/internal/application/deferral"
	"github.com/donor-intake-api/internal/application/eligibility"
	"github.com/donor-intake-api/internal/application/identity"
	"github.com/donor-intake-api/internal/application/review"
	"github.com/donor-intake-api/internal/application/session"
	"github.com/donor-intake-api/internal/application/user"
	"github.com/donor-intake-api/internal/config"
	"github.com/donor-intake-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/donor-intake-api/internal/infrastructure/jwt"
	"github.com/donor-intake-api/internal/infrastructure/metrics"
	redisinfra "github.com/donor-intake-api/internal/infrastructure/redis"
	"github.com/donor-intake-api/internal/infrastructure/vault"
	transporthttp "github.com/donor-intake-api/internal/transport/http"
	"github.com/donor-intake-api/internal/transport/http/handler"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

const devHashSecret = "dev-only-donor-hash-secret"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()
	if cfg.IsProduction() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	secret := cfg.DonorHashSecret
	if secret == "" {
		if cfg.IsProduction() {
			return errors.New("DONOR_HASH_SECRET is required in production")
		}
		slog.Warn("DONOR_HASH_SECRET not set, using a development secret")
		secret = devHashSecret
	}

	loc, err := time.LoadLocation(cfg.EligibilityTZ)
	if err != nil {
		return fmt.Errorf("ELIGIBILITY_TIMEZONE: %w", err)
	}

	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}

	checks := map[string]handler.HealthCheck{}
	var tokens identity.Vault
	rdb, err := redisinfra.New(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		tokens = vault.NewRedis(rdb.Client)
		checks["redis"] = rdb.Health
		slog.Info("donor token tables stored in redis")
	} else {
		tokens = vault.NewMemory(ctx, time.Minute)
		slog.Info("donor token tables kept in process memory")
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	identitySvc := identity.NewService(identity.ServiceDeps{
		Vault:    tokens,
		Secret:   secret,
		TokenTTL: cfg.DonorTokenTTL,
		Metrics:  m,
	})
	deps := &transporthttp.Deps{
		Sessions: session.NewService(session.ServiceDeps{
			UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
			SessionRepo: dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
			JWTProvider: jwtProvider,
			TokenTables: identitySvc,
			SessionTTL:  jwtProvider.Expiry(),
		}),
		Users: user.NewService(dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users), nil),
		Eligibility: eligibility.NewService(eligibility.ServiceDeps{
			Intervals: dynamo.NewEligibilityRepo(dynamoClient, cfg.DynamoTables.EligibilityIntervals),
			Policy:    cfg.Policy,
			Location:  loc,
			Metrics:   m,
		}),
		Deferral:     deferral.NewService(dynamo.NewExamRepo(dynamoClient, cfg.DynamoTables.PhysicalExams), cfg.Policy, m),
		Review:       review.NewService(dynamo.NewScreeningRepo(dynamoClient, cfg.DynamoTables.ScreeningForms), m, nil),
		Identity:     identitySvc,
		Tokens:       jwtProvider,
		Gatherer:     prometheus.DefaultGatherer,
		HealthChecks: checks,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "eligibility_tz", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
