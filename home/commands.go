package home

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"
	"github.com/leeineian/rolekeeper/proc"
	"github.com/leeineian/rolekeeper/sys"
)

const interactionTimeout = 30 * time.Second

// Register binds the slash commands and selector components to router.
func Register(router *Router) {
	adminPerm := discord.PermissionAdministrator

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        CommandRoles,
		Description: "Pick your timezone and game roles",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        OptionCustomGame,
				Description: "Request a role for a game that is not listed",
				Required:    false,
			},
		},
	}, func(event *events.ApplicationCommandInteractionCreate) {
		handleCommand(router, event)
	})

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        CommandVoiceCall,
		Description: "Tell the server which voice channel you are in",
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        OptionGame,
				Description: "The game you want to play",
				Required:    false,
			},
		},
	}, func(event *events.ApplicationCommandInteractionCreate) {
		handleCommand(router, event)
	})

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     CommandChannel,
		Description:              "Set the channel that hosts the role selectors (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionChannel{
				Name:         OptionChannel,
				Description:  "The text channel for the selectors",
				Required:     true,
				ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText},
			},
		},
	}, func(event *events.ApplicationCommandInteractionCreate) {
		handleCommand(router, event)
	})

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     CommandGameMessage,
		Description:              "Republish the game selector (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
	}, func(event *events.ApplicationCommandInteractionCreate) {
		handleCommand(router, event)
	})

	onComponent := func(event *events.ComponentInteractionCreate) {
		handleComponent(router, event)
	}
	sys.RegisterComponentHandler(proc.CustomIDRolePrefix, onComponent)
	sys.RegisterComponentHandler(proc.CustomIDSelectGames, onComponent)
}

func handleCommand(router *Router, event *events.ApplicationCommandInteractionCreate) {
	ctx, cancel := context.WithTimeout(sys.AppContext, interactionTimeout)
	defer cancel()
	router.Handle(ctx, commandInteraction(event), newCommandResponder(event))
}

func handleComponent(router *Router, event *events.ComponentInteractionCreate) {
	ctx, cancel := context.WithTimeout(sys.AppContext, interactionTimeout)
	defer cancel()
	router.Handle(ctx, componentInteraction(event), newComponentResponder(event))
}
