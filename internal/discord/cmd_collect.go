package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/aethelgard/game-backend/internal/domain"
)

// CollectCommand returns the collect command definition and handler
func CollectCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minQuantity := 1.0

	cmd := &discordgo.ApplicationCommand{
		Name:        "collect",
		Description: "Collect an item from the world",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "item",
				Description: "The item definition id, e.g. ITEM_IRON_SWORD",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "quantity",
				Description: "How many to collect (stackable items only)",
				Required:    false,
				MinValue:    &minQuantity,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		user := interactionUser(i)

		itemID := ""
		quantity := 1
		for _, opt := range i.ApplicationCommandData().Options {
			switch opt.Name {
			case "item":
				itemID = opt.StringValue()
			case "quantity":
				quantity = int(opt.IntValue())
			}
		}

		// The bot has no world simulation; collections happen at the origin
		// of the starter map.
		location := domain.Location{MapID: "aethelgard-fields"}

		result, err := client.CollectItem(user.ID, itemID, quantity, location)
		if err != nil {
			slog.Error("Failed to collect item",
				"discord_id", user.ID, "item_id", itemID, "error", err)
			switch {
			case strings.Contains(err.Error(), "Player not found"):
				editResponseText(s, i, MsgNoCharacter)
			case strings.Contains(err.Error(), "Item not found"):
				editResponseText(s, i, MsgUnknownItem)
			default:
				editResponseText(s, i, MsgCollectFailed)
			}
			return
		}

		name := displayName(strings.TrimPrefix(result.Item.DefinitionID, "ITEM_"))
		embed := &discordgo.MessageEmbed{
			Title:       "Item Collected",
			Description: fmt.Sprintf("You picked up **%s** x%d.", name, result.Item.Quantity),
			Color:       0xf1c40f,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Aethelgard Online",
			},
		}

		editResponseEmbed(s, i, embed)
	}

	return cmd, handler
}
