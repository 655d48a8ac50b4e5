package discord

import (
	"github.com/bwmarrin/discordgo"
)

// HelpCommand returns the help command definition and handler
func HelpCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "help",
		Description: "Show available commands",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		embed := &discordgo.MessageEmbed{
			Title:       "Aethelgard Online",
			Description: "Commands for your adventure:",
			Color:       0x3498db,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "/start", Value: "Create your character"},
				{Name: "/profile", Value: "View your character profile"},
				{Name: "/walk", Value: "Take a walk through the world"},
				{Name: "/collect", Value: "Collect an item from the world"},
				{Name: "/help", Value: "Show this message"},
			},
		}

		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		}); err != nil {
			editResponseText(s, i, "Failed to show help.")
		}
	}

	return cmd, handler
}

// RegisterAllCommands registers every game command on the registry
func RegisterAllCommands(registry *CommandRegistry) {
	registry.Register(StartCommand())
	registry.Register(ProfileCommand())
	registry.Register(WalkCommand())
	registry.Register(CollectCommand())
	registry.Register(HelpCommand())
}
