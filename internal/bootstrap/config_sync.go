package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aethelgard/game-backend/internal/item"
)

// SyncItems loads, validates, and syncs the item definition config to the
// database. Startup fails on an invalid config rather than serving a
// half-seeded catalog.
func SyncItems(ctx context.Context, catalog *item.Catalog) error {
	slog.Info(LogMsgSyncingItems)
	loader := item.NewLoader()

	config, err := loader.Load(item.ItemsConfigPath, item.ItemsSchemaPath)
	if err != nil {
		return fmt.Errorf("failed to load items config: %w", err)
	}

	if err := loader.Validate(config); err != nil {
		return fmt.Errorf("invalid items config: %w", err)
	}

	result, err := loader.SyncToDatabase(ctx, config, catalog)
	if err != nil {
		return fmt.Errorf("failed to sync items to database: %w", err)
	}

	slog.Info("Items synced successfully", "count", result.ItemsSynced)
	return nil
}
