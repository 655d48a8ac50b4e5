package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aethelgard/game-backend/internal/analytics"
	"github.com/aethelgard/game-backend/internal/bootstrap"
	"github.com/aethelgard/game-backend/internal/cache"
	"github.com/aethelgard/game-backend/internal/config"
	"github.com/aethelgard/game-backend/internal/database"
	mongodb "github.com/aethelgard/game-backend/internal/database/mongo"
	"github.com/aethelgard/game-backend/internal/database/postgres"
	"github.com/aethelgard/game-backend/internal/handler"
	"github.com/aethelgard/game-backend/internal/item"
	"github.com/aethelgard/game-backend/internal/logger"
	"github.com/aethelgard/game-backend/internal/player"
	"github.com/aethelgard/game-backend/internal/queue"
	"github.com/aethelgard/game-backend/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Setup(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "game-api",
		Environment: cfg.Environment,
	})

	ctx := context.Background()

	// Relational store: migrations first, then the pool
	connString := cfg.GetDBConnString()
	if err := database.Migrate(connString); err != nil {
		return err
	}

	dbPool, err := database.NewPool(connString, 25, 5*time.Minute, 30*time.Minute)
	if err != nil {
		return err
	}

	// Document store
	mongoClient, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.MongoDBName)
	if err != nil {
		return err
	}

	// Cache is optional: the API serves from the stores without it
	playerCache, redisClient, err := cache.New(cfg.RedisURL)
	if err != nil {
		slog.Warn("Redis unavailable, running without player cache", "error", err)
		playerCache = cache.NewDisabled()
		redisClient = nil
	}

	// Queue is optional: events are dropped with a log when it is down
	var queueConn *queue.Connection
	publisher := queue.NewPublisher(nil)
	queueConn, err = queue.Connect(cfg.RabbitMQURL)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, events will be dropped", "error", err)
		queueConn = nil
	} else {
		publisher = queue.NewPublisher(queueConn.Channel())
	}

	// Repositories
	accountRepo := postgres.NewAccountRepository(dbPool)
	itemRepo := postgres.NewItemRepository(dbPool)
	characterRepo := mongodb.NewCharacterRepository(mongoClient)
	analyticsRepo := mongodb.NewAnalyticsRepository(mongoClient)

	// Item catalog, seeded from config
	catalog := item.NewCatalog(itemRepo)
	if err := bootstrap.SyncItems(ctx, catalog); err != nil {
		return err
	}

	// Player service
	playerSvc := player.NewService(accountRepo, characterRepo, playerCache, analyticsRepo, catalog, publisher)

	// Event consumer feeds the analytics sink
	consumerCtx, cancelConsumer := context.WithCancel(ctx)
	defer cancelConsumer()
	if queueConn != nil {
		consumer := queue.NewConsumer(queueConn.Channel(), analytics.NewSink(analyticsRepo))
		go func() {
			if err := consumer.Start(consumerCtx); err != nil {
				slog.Error("Event consumer stopped", "error", err)
			}
		}()
	}

	stores := map[string]handler.Pinger{
		"postgres": dbPool,
		"mongodb":  mongoClient,
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, playerSvc, catalog, publisher, stores)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// Wait for a term signal or a server failure
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-sc:
		slog.Info("Signal received", "signal", sig.String())
	}

	cancelConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server: srv,
		Queue:  queueConn,
		Mongo:  mongoClient,
		Redis:  redisClient,
		DBPool: dbPool,
	})

	return nil
}
