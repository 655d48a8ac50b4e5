package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aethelgard/game-backend/internal/database"
	mongodb "github.com/aethelgard/game-backend/internal/database/mongo"
	"github.com/aethelgard/game-backend/internal/queue"
	"github.com/aethelgard/game-backend/internal/server"
)

// ShutdownComponents holds everything that needs graceful shutdown.
// Optional components (queue, redis) may be nil when their backing
// service was unavailable at startup.
type ShutdownComponents struct {
	Server *server.Server
	Queue  *queue.Connection
	Mongo  *mongodb.Client
	Redis  *redis.Client
	DBPool database.Pool
}

// GracefulShutdown stops components in dependency order: the HTTP server
// first so no new requests arrive, then the queue connection so in-flight
// deliveries settle, then the stores. Errors are logged, never fatal.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Queue != nil {
		if err := components.Queue.Close(); err != nil {
			slog.Error("Queue connection close failed", "error", err)
		}
	}

	if components.Redis != nil {
		if err := components.Redis.Close(); err != nil {
			slog.Error("Redis close failed", "error", err)
		}
	}

	if components.Mongo != nil {
		if err := components.Mongo.Close(ctx); err != nil {
			slog.Error("MongoDB disconnect failed", "error", err)
		}
	}

	if components.DBPool != nil {
		components.DBPool.Close()
	}

	slog.Info(LogMsgShutdownComplete)
}
