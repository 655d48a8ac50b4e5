package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aethelgard/game-backend/internal/domain"
)

// User-facing messages for command failures
const (
	MsgProfileFailed   = "Failed to retrieve your profile. Please try again later."
	MsgCreateFailed    = "Failed to create your character. Please try again later."
	MsgCollectFailed   = "Failed to collect the item. Please try again later."
	MsgWalkFailed      = "Your legs refuse to move. Please try again later."
	MsgNoCharacter     = "You don't have a character yet. Use /start to create one."
	MsgAlreadyStarted  = "You already have a character in Aethelgard."
	MsgUnknownItem     = "No such item exists in Aethelgard."
)

// Embed colors by rarity
var rarityColors = map[domain.Rarity]int{
	domain.RarityCommon:    0x9d9d9d,
	domain.RarityUncommon:  0x1eff00,
	domain.RarityRare:      0x0070dd,
	domain.RarityEpic:      0xa335ee,
	domain.RarityLegendary: 0xff8000,
}

var titleCaser = cases.Title(language.English)

// displayName renders an enum-style constant ("IRON_SWORD", "COMMON") as a
// human-readable title ("Iron Sword", "Common").
func displayName(raw string) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(raw, "_", " ")))
}

// rarityColor picks the embed accent color for a rarity, defaulting to common
func rarityColor(r domain.Rarity) int {
	if color, ok := rarityColors[r]; ok {
		return color
	}
	return rarityColors[domain.RarityCommon]
}

// interactionUser returns the invoking user for both guild and DM interactions
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// deferResponse acknowledges the interaction so slow API calls don't time out
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		slog.Error("Failed to send deferred response", "error", err)
		return false
	}
	return true
}

// editResponseText replaces the deferred response with plain text
func editResponseText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		slog.Error("Failed to edit interaction response", "error", err)
	}
}

// editResponseEmbed replaces the deferred response with an embed
func editResponseEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error("Failed to send embed", "error", err)
	}
}

// statsFields renders character stats as inline embed fields
func statsFields(summary *domain.PlayerSummary) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "Level", Value: fmt.Sprintf("%d", summary.Level), Inline: true},
		{Name: "Experience", Value: fmt.Sprintf("%d", summary.Experience), Inline: true},
		{Name: "Gold", Value: fmt.Sprintf("%d", summary.Gold), Inline: true},
	}
}
