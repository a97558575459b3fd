package sys

import (
	"context"
	"testing"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentHandlerRouting(t *testing.T) {
	var hit string
	RegisterComponentHandler("test_exact", func(*events.ComponentInteractionCreate) { hit = "exact" })
	RegisterComponentHandler("test_prefix:", func(*events.ComponentInteractionCreate) { hit = "prefix" })

	h, ok := componentHandler("test_exact")
	require.True(t, ok)
	h(nil)
	assert.Equal(t, "exact", hit)

	h, ok = componentHandler("test_prefix:EST")
	require.True(t, ok)
	h(nil)
	assert.Equal(t, "prefix", hit)

	_, ok = componentHandler("test_exact_more")
	assert.False(t, ok, "exact ids do not match as prefixes")
	_, ok = componentHandler("unknown")
	assert.False(t, ok)
}

func TestCommandHandlerRegistry(t *testing.T) {
	var called bool
	RegisterCommand(discord.SlashCommandCreate{Name: "test_cmd", Description: "test"}, func(*events.ApplicationCommandInteractionCreate) {
		called = true
	})

	h, ok := commandHandler("test_cmd")
	require.True(t, ok)
	h(nil)
	assert.True(t, called)

	_, ok = commandHandler("test_missing")
	assert.False(t, ok)
}

func TestCalculateCommandHash(t *testing.T) {
	a := []discord.ApplicationCommandCreate{discord.SlashCommandCreate{Name: "roles", Description: "one"}}
	b := []discord.ApplicationCommandCreate{discord.SlashCommandCreate{Name: "roles", Description: "two"}}

	ha := calculateCommandHash(a)
	assert.Len(t, ha, 64)
	assert.Equal(t, ha, calculateCommandHash(a))
	assert.NotEqual(t, ha, calculateCommandHash(b))
}

func TestTriggerClientReady(t *testing.T) {
	var order []int
	OnClientReady(func(context.Context, *bot.Client) { order = append(order, 1) })
	OnClientReady(func(context.Context, *bot.Client) { order = append(order, 2) })

	TriggerClientReady(context.Background(), nil)
	assert.Equal(t, []int{1, 2}, order)
}
