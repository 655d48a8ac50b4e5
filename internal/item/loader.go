package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aethelgard/game-backend/internal/domain"
	"github.com/aethelgard/game-backend/internal/logger"
	"github.com/aethelgard/game-backend/internal/validation"
)

// Sentinel errors for the item config loader.
var (
	ErrDuplicateItemID = errors.New("duplicate item id")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Default config locations relative to the repo root.
const (
	ItemsConfigPath = "configs/items/items.json"
	ItemsSchemaPath = "configs/schemas/items.schema.json"
)

// Config is the JSON configuration for item definitions.
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []Def `json:"items"`
}

// Def is a single item definition in the JSON config.
type Def struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Rarity      string         `json:"rarity"`
	IconURL     string         `json:"iconUrl,omitempty"`
	Stackable   bool           `json:"stackable"`
	MaxStack    int            `json:"maxStack"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// SyncResult reports what a config sync changed.
type SyncResult struct {
	ItemsSynced int
}

// Loader loads, validates and syncs the item definition config.
type Loader interface {
	Load(dataPath, schemaPath string) (*Config, error)
	Validate(config *Config) error
	SyncToDatabase(ctx context.Context, config *Config, catalog *Catalog) (*SyncResult, error)
}

type itemLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a config loader.
func NewLoader() Loader {
	return &itemLoader{schemaValidator: validation.NewSchemaValidator()}
}

// Load reads and parses an items JSON file, validating it against the
// schema file first.
func (l *itemLoader) Load(dataPath, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	schemaJSON, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	if err := l.schemaValidator.ValidateBytes(data, schemaPath, schemaJSON); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", dataPath, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// Validate checks the item configuration for semantic errors the schema
// cannot express.
func (l *itemLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if len(config.Items) == 0 {
		return fmt.Errorf("%w: no items defined", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(config.Items))
	for i := range config.Items {
		if err := validateItemDef(i, &config.Items[i], seen); err != nil {
			return err
		}
	}

	return nil
}

func validateItemDef(index int, def *Def, seen map[string]bool) error {
	if def.ID == "" {
		return fmt.Errorf("%w: item at index %d has empty id", ErrInvalidConfig, index)
	}
	if seen[def.ID] {
		return fmt.Errorf("%w: '%s'", ErrDuplicateItemID, def.ID)
	}
	seen[def.ID] = true

	if def.Name == "" {
		return fmt.Errorf("%w: item '%s' has empty name", ErrInvalidConfig, def.ID)
	}
	if !domain.ValidItemTypes[domain.ItemType(def.Type)] {
		return fmt.Errorf("%w: item '%s' has unknown type '%s'", ErrInvalidConfig, def.ID, def.Type)
	}
	if !domain.ValidRarities[domain.Rarity(def.Rarity)] {
		return fmt.Errorf("%w: item '%s' has unknown rarity '%s'", ErrInvalidConfig, def.ID, def.Rarity)
	}
	if def.MaxStack < 1 {
		return fmt.Errorf("%w: item '%s' has maxStack below 1", ErrInvalidConfig, def.ID)
	}
	if !def.Stackable && def.MaxStack != 1 {
		return fmt.Errorf("%w: non-stackable item '%s' must have maxStack 1", ErrInvalidConfig, def.ID)
	}

	return nil
}

// SyncToDatabase upserts every definition from the config. The upsert is
// idempotent, so repeated startups with an unchanged config are harmless.
func (l *itemLoader) SyncToDatabase(ctx context.Context, config *Config, catalog *Catalog) (*SyncResult, error) {
	log := logger.FromContext(ctx)

	result := &SyncResult{}
	for _, def := range config.Items {
		if err := catalog.Upsert(ctx, definitionFromDef(def)); err != nil {
			return nil, err
		}
		result.ItemsSynced++
	}

	log.Info("Item definitions synced", "count", result.ItemsSynced, "version", config.Version)
	return result, nil
}

func definitionFromDef(def Def) *domain.ItemDefinition {
	return &domain.ItemDefinition{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Type:        domain.ItemType(def.Type),
		Rarity:      domain.Rarity(def.Rarity),
		IconURL:     def.IconURL,
		Stackable:   def.Stackable,
		MaxStack:    def.MaxStack,
		Properties:  domain.Props(def.Properties),
	}
}
