package cmd

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/placement-hub/portal/internal/api/http"
	"github.com/placement-hub/portal/internal/api/http/handlers"
	"github.com/placement-hub/portal/internal/auth"
	"github.com/placement-hub/portal/internal/events"
	"github.com/placement-hub/portal/internal/guard"
	"github.com/placement-hub/portal/internal/observability"
	"github.com/placement-hub/portal/internal/persistence"
	"github.com/placement-hub/portal/internal/provider"
	"github.com/placement-hub/portal/internal/repository"
	"github.com/placement-hub/portal/internal/service"
	"github.com/placement-hub/portal/internal/session"
	"github.com/placement-hub/portal/internal/worker"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portal HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "override APP_PORT")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	if servePort != "" {
		cfg.App.Port = servePort
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect postgres", zap.Error(err))
		return err
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	tables := provider.Tables{
		Profiles: repository.NewProfileRepository(pool),
		Students: repository.NewStudentRepository(pool),
		Colleges: repository.NewCollegeRepository(pool),
	}

	bus := events.NewRedisBus(redis.Client, redis.Key("auth", "events"), logger)
	hosted := provider.NewHosted(provider.HostedDependencies{
		Accounts:   repository.NewAccountRepository(pool),
		Tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.Auth.RefreshTokenTTLMinutes),
		Storage:    provider.NewRedisStorage(redis),
		Bus:        bus,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})

	registry := session.NewRegistry(
		func(clientID string) provider.AuthProvider { return hosted.Client(clientID) },
		session.RegistryOptions{InitTimeout: cfg.Session.InitTimeout(), IdleTimeout: cfg.Session.ClientIdle()},
		logger, metrics,
	)
	defer registry.Close()

	relayDone := worker.StartEventRelay(ctx, bus, time.Second, logger.Named("relay"))
	janitorDone := worker.StartClientJanitor(ctx, registry, time.Minute, logger.Named("janitor"))

	sessionHandler := handlers.NewSessionHandler(logger, 15*time.Second)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version,
			handlers.Dependency{Name: "postgres", Ping: pg.Ping},
			handlers.Dependency{Name: "redis", Ping: redis.Ping},
		),
		Session:  sessionHandler,
		Auth:     handlers.NewAuthHandler(service.NewAuthService(tables, logger)),
		Students: handlers.NewStudentHandler(service.NewStudentService(tables.Students)),
		Colleges: handlers.NewCollegeHandler(service.NewCollegeService(tables.Colleges, tables.Students)),
		Guard:    guard.New(tables.Profiles, logger, metrics, cfg.Session.RoleLookupTimeout()),
		Client: httptransport.ClientMiddleware(registry, httptransport.ClientCookie{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.CookieDomain,
			Secure: cfg.App.SecureCookies(),
			MaxAge: cfg.Session.ClientIdle(),
		}, cfg.Session.InitTimeout()),
		Metrics: metrics,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("portal listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-listenErr:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			cancel()
			return err
		}
	}

	sessionHandler.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	<-relayDone
	<-janitorDone
	return nil
}
