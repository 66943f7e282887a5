package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawhub/pet-platform/internal/api"
	"github.com/pawhub/pet-platform/internal/core/domain"
	"github.com/pawhub/pet-platform/internal/infrastructure/config"
	mongodb "github.com/pawhub/pet-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/pawhub/pet-platform/internal/infrastructure/db/redis"
	"github.com/pawhub/pet-platform/internal/infrastructure/queue"
	"github.com/pawhub/pet-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") == "development",
	})

	cfg := config.Load(log)
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Activity dispatcher ---
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, mongodb.NewActivityRepository(db), log)
	dispatcher.Start(ctx)

	// --- Bootstrap platform owner ---
	if cfg.BootstrapOwnerID != "" {
		if err := bootstrapOwner(ctx, db, cfg.BootstrapOwnerID); err != nil {
			log.Fatal().Err(err).Msg("platform owner bootstrap failed")
		}
		log.Info().Str("user_id", cfg.BootstrapOwnerID).Msg("platform owner bootstrapped")
	}

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, dispatcher, api.RouterConfig{
		JWTSecret:       cfg.JWTSecret,
		TokenTTL:        cfg.TokenTTL,
		ProfileCacheTTL: cfg.ProfileCacheTTL,
	}, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

// ensureIndexes creates every collection index the repositories rely on,
// including the unique slug index the allocator's race handling depends on.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexed := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		mongodb.NewPetRepository(db),
		mongodb.NewMembershipRepository(db),
		mongodb.NewPlatformOwnerRepository(db),
		mongodb.NewVaccineRepository(db),
		mongodb.NewAttachmentRepository(db),
		mongodb.NewActivityRepository(db),
		mongodb.NewAuthRepository(db),
	}
	for _, repo := range indexed {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// bootstrapOwner grants the configured user platform-owner privilege. The
// grant is idempotent, so restarts are harmless.
func bootstrapOwner(ctx context.Context, db *mongo.Database, userID string) error {
	return mongodb.NewPlatformOwnerRepository(db).Grant(ctx, &domain.PlatformOwner{
		UserID:    userID,
		GrantedBy: "bootstrap",
		GrantedAt: time.Now().UTC(),
	})
}
