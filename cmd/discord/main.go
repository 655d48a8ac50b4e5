package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/aethelgard/game-backend/internal/discord"
	"github.com/aethelgard/game-backend/internal/logger"
)

// DefaultAPIURL is used when API_URL is not set
const DefaultAPIURL = "http://localhost:8080"

func main() {
	_ = godotenv.Load()

	logger.Setup(logger.Config{
		Level:       envOr("LOG_LEVEL", "info"),
		Format:      envOr("LOG_FORMAT", "text"),
		ServiceName: "game-bot",
		Environment: envOr("ENVIRONMENT", "dev"),
	})

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	bot, err := discord.New(cfg)
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	discord.RegisterAllCommands(bot.Registry)

	forceUpdate := os.Getenv("DISCORD_FORCE_COMMAND_UPDATE") == "true"
	if forceUpdate {
		slog.Info("Force command update enabled via environment variable")
	}

	if err := bot.RegisterCommands(bot.Registry, forceUpdate); err != nil {
		slog.Error("Failed to register commands", "error", err)
		// The bot can still run if commands are already registered
	}

	if err := bot.Run(); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates bot configuration from environment variables
func loadConfig() (discord.Config, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return discord.Config{}, errors.New("DISCORD_TOKEN is required")
	}

	appID := os.Getenv("DISCORD_APP_ID")
	if appID == "" {
		return discord.Config{}, errors.New("DISCORD_APP_ID is required")
	}

	apiURL := envOr("API_URL", DefaultAPIURL)
	slog.Info("Configured API URL", "url", apiURL)

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		slog.Warn("API_KEY not set, bot requests may be rejected")
	}

	// Guild-scoped registration propagates instantly; leave unset in prod
	// for global commands.
	guildID := os.Getenv("DISCORD_GUILD_ID")
	if envOr("ENVIRONMENT", "dev") == "prod" {
		guildID = ""
	}

	return discord.Config{
		Token:   token,
		AppID:   appID,
		GuildID: guildID,
		APIURL:  apiURL,
		APIKey:  apiKey,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
