package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// StartCommand returns the start command definition and handler
func StartCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minNameLength := 3
	cmd := &discordgo.ApplicationCommand{
		Name:        "start",
		Description: "Create your character and begin your adventure",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Your character's name (3 to 20 characters)",
				Required:    true,
				MinLength:   &minNameLength,
				MaxLength:   20,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		user := interactionUser(i)
		characterName := i.ApplicationCommandData().Options[0].StringValue()

		summary, err := client.CreatePlayer(user.ID, characterName)
		if err != nil {
			slog.Error("Failed to create player", "discord_id", user.ID, "error", err)
			if strings.Contains(err.Error(), "already exists") {
				editResponseText(s, i, MsgAlreadyStarted)
			} else {
				editResponseText(s, i, MsgCreateFailed)
			}
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("Welcome to Aethelgard, %s!", summary.CharacterName),
			Description: "Your adventure begins. Use /walk to take your first steps.",
			Color:       0x2ecc71,
			Fields:      statsFields(summary),
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Aethelgard Online",
			},
		}

		editResponseEmbed(s, i, embed)
	}

	return cmd, handler
}
