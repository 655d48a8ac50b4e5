package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ProfileCommand returns the profile command definition and handler
func ProfileCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "profile",
		Description: "View your character profile",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		user := interactionUser(i)

		summary, err := client.GetPlayer(user.ID)
		if err != nil {
			slog.Error("Failed to get player", "discord_id", user.ID, "error", err)
			if strings.Contains(err.Error(), "not found") {
				editResponseText(s, i, MsgNoCharacter)
			} else {
				editResponseText(s, i, MsgProfileFailed)
			}
			return
		}

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("%s's Profile", summary.CharacterName),
			Color: 0x3498db,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: user.AvatarURL(""),
			},
			Fields: statsFields(summary),
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Aethelgard Online",
			},
		}

		editResponseEmbed(s, i, embed)
	}

	return cmd, handler
}
