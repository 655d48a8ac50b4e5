package domain

import "fmt"

// ItemType categorizes an item definition.
type ItemType string

const (
	ItemTypeWeapon     ItemType = "WEAPON"
	ItemTypeConsumable ItemType = "CONSUMABLE"
	ItemTypeMaterial   ItemType = "MATERIAL"
	ItemTypeArmor      ItemType = "ARMOR"
	ItemTypeContainer  ItemType = "CONTAINER"
)

// ValidItemTypes is the closed set of accepted item types.
var ValidItemTypes = map[ItemType]bool{
	ItemTypeWeapon:     true,
	ItemTypeConsumable: true,
	ItemTypeMaterial:   true,
	ItemTypeArmor:      true,
	ItemTypeContainer:  true,
}

// Rarity represents the visual rarity of an item definition.
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// ValidRarities is the closed set of accepted rarities.
var ValidRarities = map[Rarity]bool{
	RarityCommon:    true,
	RarityUncommon:  true,
	RarityRare:      true,
	RarityEpic:      true,
	RarityLegendary: true,
}

// ItemDefinition is a global, admin-seeded item template. Read-only from
// the gameplay path; owned by the startup seeder.
type ItemDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        ItemType `json:"type"`
	Rarity      Rarity   `json:"rarity"`
	IconURL     string   `json:"iconUrl"`
	Stackable   bool     `json:"stackable"`
	MaxStack    int      `json:"maxStack"`
	Properties  Props    `json:"properties"`
}

// InventoryItem is one specific copy of an item definition held by a player.
// Instances are always appended to the inventory; same-definition instances
// are never merged.
type InventoryItem struct {
	InstanceID   string `json:"instanceId" bson:"instanceId"`
	DefinitionID string `json:"definitionId" bson:"definitionId"`
	Quantity     int    `json:"quantity" bson:"quantity"`
	DynamicProps Props  `json:"dynamicProps" bson:"dynamicProps"`
}

// Location is a world position attached to collect events.
type Location struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	MapID string  `json:"mapId"`
}

// Props is an open property map restricted to a closed set of value kinds:
// string, number, bool, and nested Props-shaped maps. Keeping the kinds
// closed keeps serialization deterministic across both stores.
type Props map[string]any

// Validate rejects values outside the permitted kinds.
func (p Props) Validate() error {
	for key, value := range p {
		if err := validatePropValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

func validatePropValue(key string, value any) error {
	switch v := value.(type) {
	case string, bool, float64, int, int64:
		return nil
	case map[string]any:
		return Props(v).Validate()
	case Props:
		return v.Validate()
	default:
		return fmt.Errorf("%w: property %q has unsupported kind %T", ErrInvalidInput, key, v)
	}
}
