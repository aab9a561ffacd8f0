// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"marketplace/internal/adapter/events"
	"marketplace/internal/adapter/storage"
	"marketplace/internal/config"
	"marketplace/internal/logger"
	"marketplace/internal/server"
	"marketplace/internal/service/gazetteer"
	searchService "marketplace/internal/service/search"
	"marketplace/internal/service/synonym"
)

func main() {
	// A missing .env file is fine outside local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("marketplace search stopped", zap.Error(err))
		zapLogger.Sync()
		os.Exit(1)
	}

	zapLogger.Sync()
}

func run(cfg config.Config, log *zap.Logger) error {
	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	natsConn, err := initNATS(cfg.NATS, log)
	if err != nil {
		return fmt.Errorf("error connecting to NATS: %w", err)
	}
	defer natsConn.Close()

	// Load expansion tables
	synonyms, err := synonym.NewDefault()
	if err != nil {
		return fmt.Errorf("error loading synonym table: %w", err)
	}

	places, err := gazetteer.NewDefault()
	if err != nil {
		return fmt.Errorf("error loading gazetteer: %w", err)
	}

	log.Info("expansion tables loaded",
		zap.Int("synonym_groups", synonyms.Len()),
		zap.Int("places", places.Len()),
	)

	// Initialize storage adapters
	manpowerStore := storage.NewManpowerStore(db)
	jobStore := storage.NewJobStore(db)
	equipmentStore := storage.NewEquipmentStore(db)

	// Initialize services
	service := searchService.NewService(
		synonyms,
		places,
		manpowerStore,
		jobStore,
		equipmentStore,
		searchService.Config{
			CandidateLimit:      cfg.Search.CandidateLimit,
			ResultLimit:         cfg.Search.ResultLimit,
			RecommendationLimit: cfg.Search.RecommendationLimit,
		},
		log,
	)

	categories := searchService.NewCategoryCache(
		manpowerStore,
		searchService.CategoryCacheConfig{
			TTL:     cfg.Search.CategoryTTL,
			Cleanup: cfg.Search.CategoryCleanup,
			Limit:   cfg.Search.CategoryLimit,
		},
		log,
	)

	// Invalidate the title rollup when manpower profiles change
	subscriber := events.NewSubscriber(natsConn, cfg.Search.ListingEventsTopic, categories, log)
	if err := subscriber.Start(); err != nil {
		return err
	}

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, server.Dependencies{
		Search:      service,
		Categories:  categories,
		Synonyms:    synonyms,
		Places:      places,
		DB:          db,
		NATS:        natsConn,
		EventsTopic: cfg.Search.ListingEventsTopic,
	}, log)

	// Start HTTP server
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("host", cfg.Server.Host), zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case <-shutdown:
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("HTTP server error", zap.Error(err))
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	log.Info("shutting down services")

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := subscriber.Stop(); err != nil {
		log.Error("listing subscriber shutdown error", zap.Error(err))
	}

	log.Info("shutdown complete")
	return nil
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, log *zap.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("marketplace-search"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
