package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// WalkCommand returns the walk command definition and handler
func WalkCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "walk",
		Description: "Take a walk through Aethelgard",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		user := interactionUser(i)

		outcome, err := client.Walk(user.ID)
		if err != nil {
			slog.Error("Failed to walk", "discord_id", user.ID, "error", err)
			if strings.Contains(err.Error(), "not found") {
				editResponseText(s, i, MsgNoCharacter)
			} else {
				editResponseText(s, i, MsgWalkFailed)
			}
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       "A Walk Through Aethelgard",
			Description: outcome.Message,
			Color:       0x95a5a6,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Aethelgard Online",
			},
		}

		if outcome.GrantedItem != nil {
			name := displayName(strings.TrimPrefix(outcome.GrantedItem.DefinitionID, "ITEM_"))
			embed.Color = 0xf1c40f
			embed.Fields = []*discordgo.MessageEmbedField{
				{
					Name:  "Found",
					Value: fmt.Sprintf("**%s** x%d", name, outcome.GrantedItem.Quantity),
				},
			}
		}

		editResponseEmbed(s, i, embed)
	}

	return cmd, handler
}
