package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-menu-api/config"
	"restaurant-menu-api/handlers"
	"restaurant-menu-api/logger"
	"restaurant-menu-api/middleware"
	"restaurant-menu-api/routes"
	"restaurant-menu-api/seed"
	"restaurant-menu-api/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger not built yet
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := store.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()
	if err := db.Sync(ctx, store.SyncOptions{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	if cfg.Seed {
		if err := seedIfEmpty(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	auth := middleware.NewAuth(cfg.Auth)
	h := handlers.New(db, auth, log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log), middleware.CORS())
	routes.SetupRoutes(r, h, auth)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Env).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedIfEmpty loads the fixtures into a catalog that has no restaurants yet.
func seedIfEmpty(ctx context.Context, db *store.Store, log zerolog.Logger) error {
	n, err := db.Restaurants.Count(ctx, nil)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int64("restaurants", n).Msg("catalog not empty, skipping seed")
		return nil
	}
	fx, err := seed.Load(ctx, db)
	if err != nil {
		return err
	}
	log.Info().
		Int("restaurants", len(fx.Restaurants)).
		Int("menus", len(fx.Menus)).
		Int("items", len(fx.Items)).
		Msg("catalog seeded")
	return nil
}
