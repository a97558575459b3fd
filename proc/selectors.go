package proc

import (
	"strings"

	"github.com/disgoorg/disgo/discord"
)

const (
	CustomIDRolePrefix  = "role:"
	CustomIDSelectGames = "select_games"

	maxButtonsPerRow = 5
)

// RoleKeyFromCustomID extracts K from a "role:K" button id.
func RoleKeyFromCustomID(customID string) (string, bool) {
	key, ok := strings.CutPrefix(customID, CustomIDRolePrefix)
	return key, ok && key != ""
}

// TimezoneSelector renders one button per timezone role.
func TimezoneSelector(defs []RoleDefinition, content string) discord.MessageCreate {
	msg := discord.NewMessageCreate().WithContent(content)

	var row []discord.InteractiveComponent
	for _, d := range defs {
		row = append(row, discord.NewPrimaryButton(d.Name, CustomIDRolePrefix+d.Key))
		if len(row) == maxButtonsPerRow {
			msg = msg.AddActionRow(row...)
			row = nil
		}
	}
	if len(row) > 0 {
		msg = msg.AddActionRow(row...)
	}
	return msg
}

// GameSelector renders a multi-select menu over the game roles.
func GameSelector(defs []RoleDefinition, content, placeholder string) discord.MessageCreate {
	opts := make([]discord.StringSelectMenuOption, 0, len(defs))
	for _, d := range defs {
		opts = append(opts, discord.NewStringSelectMenuOption(d.Name, d.Key))
	}

	menu := discord.NewStringSelectMenu(CustomIDSelectGames, placeholder, opts...).
		WithMinValues(1).
		WithMaxValues(len(opts))

	return discord.NewMessageCreate().
		WithContent(content).
		AddActionRow(menu)
}

// Ephemeral marks a message as visible to the invoking user only.
func Ephemeral(msg discord.MessageCreate) discord.MessageCreate {
	msg.Flags = msg.Flags.Add(discord.MessageFlagEphemeral)
	return msg
}

func isTimezoneSelector(customIDs []string) bool {
	for _, id := range customIDs {
		if strings.HasPrefix(id, CustomIDRolePrefix) {
			return true
		}
	}
	return false
}

func isGameSelector(customIDs []string) bool {
	for _, id := range customIDs {
		if id == CustomIDSelectGames {
			return true
		}
	}
	return false
}
