// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"privacy-governor/internal/config"
	"privacy-governor/internal/domain"
	"privacy-governor/internal/domain/model"
	"privacy-governor/internal/domain/ports/repository"
	pg "privacy-governor/internal/infra/db/postgres"
	"privacy-governor/internal/infra/logging"
	"privacy-governor/internal/infra/metrics"
	red "privacy-governor/internal/infra/redis"
	"privacy-governor/internal/infra/sched"
	"privacy-governor/internal/infra/tokens"
	"privacy-governor/internal/infra/web"
	"privacy-governor/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	settingsRepo := pg.NewSettingsRepoCacheDecorator(pg.NewPostgresSettingsRepo(pool), redisClient)
	policyRepo := pg.NewPostgresPolicyRepo(pool)
	usageRepo := pg.NewPostgresUsageRepo(pool)

	if err := seedDefaults(ctx, settingsRepo, policyRepo); err != nil {
		logger.Fatal().Err(err).Msg("seed defaults")
	}

	// ---- Use cases ----
	estimator := tokens.NewEstimator()
	governanceUC := usecase.NewGovernanceUseCase(settingsRepo, policyRepo, usageRepo, txManager, estimator, logger)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, policyRepo, txManager, logger)
	dashboardUC := usecase.NewDashboardUseCase(settingsRepo, usageRepo, logger)
	retentionUC := usecase.NewRetentionUseCase(usageRepo, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Security.JWTSecret, cfg.Security.SecureCookie, cfg.Security.CookieDomain, cfg.Security.SessionTTL)
	srv := web.NewServer(governanceUC, settingsUC, dashboardUC, retentionUC, auth, cfg.Security.APIKey, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Purge worker ----
	worker := sched.NewPurgeWorker(cfg.Scheduler.PurgeInterval, retentionUC, locker, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

// seedDefaults writes the default settings document and one policy per
// known provider on first boot. Existing rows are left untouched.
func seedDefaults(ctx context.Context, settings repository.SettingsRepository, policies repository.ProviderPolicyRepository) error {
	if _, err := settings.Load(ctx, repository.NoTX); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := settings.Save(ctx, repository.NoTX, model.NewDefaultSettings()); err != nil {
			return err
		}
	}
	for _, p := range model.AllProviders() {
		if _, err := policies.Find(ctx, repository.NoTX, p); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := policies.Save(ctx, repository.NoTX, model.NewProviderPolicy(p)); err != nil {
			return err
		}
	}
	return nil
}
