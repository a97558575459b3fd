package proc

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleKeyFromCustomID(t *testing.T) {
	key, ok := RoleKeyFromCustomID("role:EST")
	assert.True(t, ok)
	assert.Equal(t, "EST", key)

	_, ok = RoleKeyFromCustomID("role:")
	assert.False(t, ok)
	_, ok = RoleKeyFromCustomID(CustomIDSelectGames)
	assert.False(t, ok)
}

func TestSelectors(t *testing.T) {
	catalog := NewRoleCatalog(newFakePlatform(), nil)

	tz := TimezoneSelector(catalog.Definitions(GroupTimezone), "pick")
	assert.Equal(t, "pick", tz.Content)
	assert.Equal(t, []string{"role:EST", "role:PST", "role:CST", "role:MST"}, componentCustomIDs(tz.Components))
	assert.True(t, isTimezoneSelector(componentCustomIDs(tz.Components)))
	assert.False(t, isGameSelector(componentCustomIDs(tz.Components)))

	games := GameSelector(catalog.Definitions(GroupGame), "games", "choose")
	require.Len(t, games.Components, 1)
	row, ok := games.Components[0].(discord.ActionRowComponent)
	require.True(t, ok)
	menu, ok := row.Components[0].(discord.StringSelectMenuComponent)
	require.True(t, ok)
	assert.Len(t, menu.Options, 3)
	assert.True(t, isGameSelector(componentCustomIDs(games.Components)))

	eph := Ephemeral(games)
	assert.True(t, eph.Flags.Has(discord.MessageFlagEphemeral))
	assert.False(t, games.Flags.Has(discord.MessageFlagEphemeral))
}
