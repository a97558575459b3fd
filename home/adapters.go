package home

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/rolekeeper/proc"
)

func commandInteraction(event *events.ApplicationCommandInteractionCreate) Interaction {
	data := event.SlashCommandInteractionData()
	in := Interaction{
		Kind: KindCommand,
		Name: data.CommandName(),
	}
	var roles proc.MemberRoles
	if m := event.Member(); m != nil {
		roles = m.RoleIDs
	}
	in.GuildID, in.Member = actingMember(event.GuildID(), event.User().ID, roles)

	if name, ok := data.OptString(OptionCustomGame); ok {
		in.CustomName = name
		in.HasCustomName = true
	}
	if ch, ok := data.OptChannel(OptionChannel); ok {
		in.ChannelID = ch.ID
	}

	if in.Name == CommandVoiceCall {
		user := event.User()
		in.UserName = user.Username
		in.AvatarURL = user.EffectiveAvatarURL()
		in.Game, _ = data.OptString(OptionGame)
		if in.GuildID != 0 {
			in.VoiceChannel = voiceChannelName(event.Client(), in.GuildID, user.ID)
		}
	}
	return in
}

// voiceChannelName looks up the caller's voice channel in the gateway cache.
func voiceChannelName(client *bot.Client, guildID, userID snowflake.ID) string {
	vs, ok := client.Caches.VoiceState(guildID, userID)
	if !ok || vs.ChannelID == nil {
		return ""
	}
	if ch, ok := client.Caches.Channel(*vs.ChannelID); ok {
		return ch.Name()
	}
	return ""
}

func componentInteraction(event *events.ComponentInteractionCreate) Interaction {
	in := Interaction{
		Kind: KindButton,
		Name: event.Data.CustomID(),
	}
	if menu, ok := event.Data.(discord.StringSelectMenuInteractionData); ok {
		in.Kind = KindSelect
		in.Values = menu.Values
	}
	var roles proc.MemberRoles
	if m := event.Member(); m != nil {
		roles = m.RoleIDs
	}
	in.GuildID, in.Member = actingMember(event.GuildID(), event.User().ID, roles)
	return in
}

func actingMember(guildID *snowflake.ID, userID snowflake.ID, roles proc.MemberRoles) (snowflake.ID, proc.Member) {
	var guild snowflake.ID
	if guildID != nil {
		guild = *guildID
	}
	return guild, proc.Member{GuildID: guild, UserID: userID, Roles: roles}
}

// eventResponder answers through the interaction callback first and the webhook afterwards.
type eventResponder struct {
	create   func(discord.MessageCreate) error
	deferFn  func() error
	update   func(discord.MessageUpdate) error
	followUp func(discord.MessageCreate) error

	deferred bool
}

func newCommandResponder(event *events.ApplicationCommandInteractionCreate) *eventResponder {
	return &eventResponder{
		create:  func(msg discord.MessageCreate) error { return event.CreateMessage(msg) },
		deferFn: func() error { return event.DeferCreateMessage(true) },
		update: func(msg discord.MessageUpdate) error {
			_, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), msg)
			return err
		},
		followUp: func(msg discord.MessageCreate) error {
			_, err := event.Client().Rest.CreateFollowupMessage(event.ApplicationID(), event.Token(), msg)
			return err
		},
	}
}

func newComponentResponder(event *events.ComponentInteractionCreate) *eventResponder {
	return &eventResponder{
		create:  func(msg discord.MessageCreate) error { return event.CreateMessage(msg) },
		deferFn: func() error { return event.DeferCreateMessage(true) },
		update: func(msg discord.MessageUpdate) error {
			_, err := event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), msg)
			return err
		},
		followUp: func(msg discord.MessageCreate) error {
			_, err := event.Client().Rest.CreateFollowupMessage(event.ApplicationID(), event.Token(), msg)
			return err
		},
	}
}

func (r *eventResponder) Defer() error {
	if r.deferred {
		return nil
	}
	r.deferred = true
	return r.deferFn()
}

// Reply edits the deferred response in place, or creates the response when nothing was deferred.
func (r *eventResponder) Reply(msg discord.MessageCreate) error {
	if !r.deferred {
		return r.create(msg)
	}
	update := discord.NewMessageUpdate().WithContent(msg.Content).WithComponents(msg.Components...)
	if len(msg.Embeds) > 0 {
		update = update.WithEmbeds(msg.Embeds...)
	}
	return r.update(update)
}

func (r *eventResponder) FollowUp(msg discord.MessageCreate) error {
	return r.followUp(msg)
}
