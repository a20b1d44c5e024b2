package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	cataloghandler "github.com/pelicanmedia/pelican/internal/catalog/handler"
	catalogrepo "github.com/pelicanmedia/pelican/internal/catalog/repository"
	catalogservice "github.com/pelicanmedia/pelican/internal/catalog/service"
	"github.com/pelicanmedia/pelican/internal/config"
	natsbus "github.com/pelicanmedia/pelican/internal/events/nats"
	"github.com/pelicanmedia/pelican/internal/middleware"
	"github.com/pelicanmedia/pelican/internal/server"
	"github.com/pelicanmedia/pelican/internal/storage"
	userhandler "github.com/pelicanmedia/pelican/internal/user/handler"
	userrepo "github.com/pelicanmedia/pelican/internal/user/repository"
	userservice "github.com/pelicanmedia/pelican/internal/user/service"
	viewinghandler "github.com/pelicanmedia/pelican/internal/viewing/handler"
	viewingrepo "github.com/pelicanmedia/pelican/internal/viewing/repository"
	viewingservice "github.com/pelicanmedia/pelican/internal/viewing/service"
	"github.com/pelicanmedia/pelican/pkg/auth"
	"github.com/pelicanmedia/pelican/pkg/database"
	"github.com/pelicanmedia/pelican/pkg/events"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
	"github.com/pelicanmedia/pelican/pkg/logger"
)

const sessionCleanupInterval = time.Hour

func main() {
	// A missing .env file is fine; the environment may be set elsewhere.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zl, err := logger.NewZapLogger(!cfg.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = zl.Sync() }()
	log := interfaces.Logger(zl)

	log.Info("pelican starting",
		interfaces.String("environment", cfg.Server.Environment),
		interfaces.Int("port", cfg.Server.Port))

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		secret = auth.GenerateSecret()
		log.Warn("JWT_SECRET not set, generated an ephemeral secret")
	}

	dbCfg := database.DefaultPostgresConfig()
	dbCfg.Host = cfg.Database.Host
	dbCfg.Port = cfg.Database.Port
	dbCfg.User = cfg.Database.User
	dbCfg.Password = cfg.Database.Password
	dbCfg.Database = cfg.Database.Database
	dbCfg.SSLMode = cfg.Database.SSLMode
	dbCfg.MaxConnections = cfg.Database.MaxOpenConns
	dbCfg.MinConnections = cfg.Database.MaxIdleConns
	dbCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	db, err := database.NewGormDB(dbCfg)
	if err != nil {
		log.Fatal("failed to connect to database", interfaces.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to run migrations", interfaces.Error(err))
	}

	store, err := newObjectStorage(cfg, zl)
	if err != nil {
		log.Fatal("failed to initialize object storage", interfaces.Error(err))
	}

	eventBus, err := newEventBus(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize event bus", interfaces.Error(err))
	}
	defer func() { _ = eventBus.Stop() }()

	jwtManager := auth.NewJWTManager(secret, cfg.Auth.Issuer, cfg.Auth.AccessTTL)

	catalogRepo := catalogrepo.NewGormRepository(db)
	viewingRepo := viewingrepo.NewGormRepository(db)
	userRepo := userrepo.NewGormRepository(db)

	catalogSvc := catalogservice.NewCatalogService(catalogRepo, store, eventBus, log)
	viewingSvc := viewingservice.NewViewingService(viewingRepo, catalogRepo, eventBus, log)
	catalogSvc.SetAccessRecorder(viewingSvc)
	authSvc := userservice.NewAuthService(userRepo, jwtManager, cfg.Auth.RefreshTTL, eventBus, log)

	router := server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Logger:        log,
		Authenticator: middleware.NewAuthenticator(jwtManager),
		Auth:          userhandler.NewAuthHandler(authSvc, log),
		Catalog:       cataloghandler.NewCatalogHandler(catalogSvc, log),
		Viewing:       viewinghandler.NewViewingHandler(viewingSvc, log),
	})

	srv := server.New(cfg, router, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go cleanupSessions(ctx, authSvc, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed", interfaces.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", interfaces.Error(err))
	}
}

func newObjectStorage(cfg *config.Config, zl *logger.ZapLogger) (storage.ObjectStorage, error) {
	switch cfg.Storage.Type {
	case config.StorageTypeS3:
		return storage.NewS3Storage(context.Background(),
			cfg.Storage.S3.Bucket, cfg.Storage.S3.Prefix, cfg.Storage.S3.Region, zl.Zap())
	default:
		return storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.PublicURL, zl.Zap())
	}
}

func newEventBus(cfg *config.Config, log interfaces.Logger) (interfaces.EventBus, error) {
	if cfg.NATS.URL == "" {
		return events.NewLocalEventBus(log), nil
	}
	return natsbus.NewEventBus(cfg.NATS, log)
}

// cleanupSessions prunes expired sessions on an interval so the sessions
// table does not accumulate dead rows.
func cleanupSessions(ctx context.Context, authSvc *userservice.AuthService, log interfaces.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := authSvc.CleanupExpiredSessions(ctx)
			if err != nil {
				log.Warn("session cleanup failed", interfaces.Error(err))
				continue
			}
			if deleted > 0 {
				log.Info("pruned expired sessions", interfaces.Int64("deleted", deleted))
			}
		}
	}
}
