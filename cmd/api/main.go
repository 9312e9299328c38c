package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/scythe504/charades-backend/internal/config"
	"github.com/scythe504/charades-backend/internal/database"
	"github.com/scythe504/charades-backend/internal/events"
	"github.com/scythe504/charades-backend/internal/game"
	"github.com/scythe504/charades-backend/internal/logger"
	"github.com/scythe504/charades-backend/internal/phrases"
	"github.com/scythe504/charades-backend/internal/server"
	"github.com/scythe504/charades-backend/internal/websocket"
)

func gracefulShutdown(apiServer *http.Server, registry *game.Registry, done chan<- struct{}) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	zap.L().Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	registry.Shutdown()

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		zap.L().Error("server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- struct{}{}
}

// seedIfEmpty fills the phrase table of a fresh database from the embedded
// dataset so PHRASES_SOURCE=postgres works out of the box.
func seedIfEmpty(ctx context.Context, db database.Service, category string, log *zap.Logger) error {
	existing, err := db.LoadPhrases(ctx, category)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	catalog, err := phrases.Embedded()
	if err != nil {
		return err
	}
	list, err := catalog.Phrases(category)
	if err != nil {
		return err
	}
	added, err := db.SeedPhrases(ctx, category, list)
	if err != nil {
		return err
	}
	log.Info("seeded phrases", zap.String("category", category), zap.Int("added", added))
	return nil
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()

	var db database.Service
	if cfg.Database.Enabled() {
		db, err = database.New(ctx, cfg.Database.DSN(), log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		if cfg.Phrases.Source == config.PhrasesPostgres {
			if err := seedIfEmpty(ctx, db, cfg.Phrases.Category, log); err != nil {
				return fmt.Errorf("seed phrases: %w", err)
			}
		}
	}

	var store phrases.Store
	if db != nil {
		store = db
	}
	list, err := phrases.Load(ctx, cfg.Phrases, store)
	if err != nil {
		return fmt.Errorf("phrases: %w", err)
	}
	log.Info("phrases loaded",
		zap.String("source", cfg.Phrases.Source),
		zap.String("category", cfg.Phrases.Category),
		zap.Int("count", len(list)))

	publishers := events.Multi{events.NewLogPublisher(log)}
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka.BrokerList(), cfg.Kafka.Topic, log)
		defer kp.Close()
		publishers = append(publishers, kp)
	}
	var archiver *database.Archiver
	if db != nil {
		archiver = database.NewArchiver(db, log)
		publishers = append(publishers, archiver)
	}

	hub := websocket.NewHub(log)
	registry := game.NewRegistry(cfg.MaxRooms, game.Options{
		Phrases:  list,
		Notifier: hub,
		Events:   publishers,
		Logger:   log,
	})
	wsHandler := websocket.NewHandler(registry, hub, websocket.Config{
		RateLimit:      cfg.RateLimit,
		RateBurst:      cfg.RateBurst,
		AllowedOrigins: []string{cfg.CORSOrigin},
	}, log)

	apiServer := server.NewServer(server.Options{
		Port:       cfg.Port,
		PublicURL:  cfg.PublicURL,
		CORSOrigin: cfg.CORSOrigin,
		Registry:   registry,
		Hub:        hub,
		WebSocket:  wsHandler,
		DB:         db,
		Logger:     log,
	})

	// Create a done channel to signal when the shutdown is complete
	done := make(chan struct{}, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, registry, done)

	log.Info("server listening", zap.Int("port", cfg.Port), zap.String("cors_origin", cfg.CORSOrigin))
	if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	if archiver != nil {
		archiver.Wait()
	}
	log.Info("graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
