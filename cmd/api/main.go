package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/jwt-demo/internal/api/http"
	"github.com/spec-kit/jwt-demo/internal/api/http/handlers"
	"github.com/spec-kit/jwt-demo/internal/auth"
	"github.com/spec-kit/jwt-demo/internal/config"
	"github.com/spec-kit/jwt-demo/internal/events"
	"github.com/spec-kit/jwt-demo/internal/observability"
	"github.com/spec-kit/jwt-demo/internal/persistence"
	"github.com/spec-kit/jwt-demo/internal/repository"
	"github.com/spec-kit/jwt-demo/internal/service"
	"github.com/spec-kit/jwt-demo/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	identities, closeStore, err := buildIdentityRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init identity store", zap.String("store", cfg.Identity.Store), zap.Error(err))
	}
	defer closeStore()

	if err := service.SeedIdentity(ctx, identities, cfg.Identity, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("failed to seed identity", zap.Error(err))
	}

	credentials, err := auth.NewCredentialVerifier(identities, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to init credential verifier", zap.Error(err))
	}
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		TTL:      cfg.Auth.AccessTokenTTL(),
		Leeway:   cfg.Auth.Leeway(),
	})
	if err != nil {
		logger.Fatal("failed to init token service", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger, metrics).RegisterHandlers()
	reporterDone := worker.StartMetricsReporter(ctx, metrics, logger, cfg.App.MetricsReportInterval())

	authService := service.NewAuthService(service.AuthDependencies{
		Credentials: credentials,
		Tokens:      tokens,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := httptransport.NewApp(cfg.App.Name, logger)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:       logger,
		Metrics:      metrics,
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.CORS.AllowOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{"identities": identities}),
		Auth:           handlers.NewAuthHandler(authService),
		Secret:         handlers.NewSecretHandler(),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenService(), dispatcher),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("issuer", cfg.Auth.Issuer), zap.String("audience", cfg.Auth.Audience))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	<-reporterDone
}

func buildIdentityRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.IdentityRepository, func(), error) {
	switch cfg.Identity.Store {
	case config.IdentityStorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return repository.NewIdentityRepository(pg.PoolHandle()), pg.Close, nil
	case config.IdentityStoreRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisIdentityRepository(rdb.Client), rdb.Close, nil
	default:
		return repository.NewMemoryIdentityRepository(), func() {}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
