package home

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/rolekeeper/proc"
	"github.com/leeineian/rolekeeper/sys"
)

const (
	CommandRoles       = "roles"
	CommandChannel     = "channel"
	CommandGameMessage = "gamemessage"
	CommandVoiceCall   = "vc"

	OptionCustomGame = "custom_game"
	OptionChannel    = "channel"
	OptionGame       = "game"
)

// Kind is the shape of an inbound interaction.
type Kind int

const (
	KindCommand Kind = iota
	KindButton
	KindSelect
)

// Interaction is everything the router needs from one inbound event.
type Interaction struct {
	Kind    Kind
	Name    string // command name or component custom id
	GuildID snowflake.ID
	Member  proc.Member

	CustomName    string
	HasCustomName bool
	ChannelID     snowflake.ID
	Values        []string

	// Set for /vc only.
	UserName     string
	AvatarURL    string
	VoiceChannel string // name of the caller's voice channel, empty when not connected
	Game         string
}

// Responder sends the answers to one interaction.
type Responder interface {
	// Defer acknowledges the interaction when the answer will take a while.
	Defer() error
	Reply(msg discord.MessageCreate) error
	FollowUp(msg discord.MessageCreate) error
}

// Router decides, per event, what to reply and which roles to hand out. It keeps no per-user state:
// every decision is made from the member's current roles and the catalog.
type Router struct {
	catalog *proc.RoleCatalog
	roles   *proc.CustomRoleProvisioner
	anchors *proc.AnchorMessageManager
	guildID snowflake.ID
}

// NewRouter builds a router. A non-zero guildID restricts the admin commands to that guild.
func NewRouter(catalog *proc.RoleCatalog, roles *proc.CustomRoleProvisioner, anchors *proc.AnchorMessageManager, guildID snowflake.ID) *Router {
	return &Router{catalog: catalog, roles: roles, anchors: anchors, guildID: guildID}
}

// Handle dispatches one interaction. Unknown names are ignored without a reply.
func (r *Router) Handle(ctx context.Context, in Interaction, resp Responder) {
	switch in.Kind {
	case KindCommand:
		switch in.Name {
		case CommandRoles:
			r.HandleRolesCommand(ctx, in, resp)
		case CommandChannel:
			r.HandleSetChannel(ctx, in, resp)
		case CommandGameMessage:
			r.HandleGameMessage(ctx, in, resp)
		case CommandVoiceCall:
			r.HandleVoiceCall(ctx, in, resp)
		default:
			sys.LogDebug(sys.MsgRouterUnknownCommand, in.Name)
		}
	case KindButton:
		if key, ok := proc.RoleKeyFromCustomID(in.Name); ok {
			r.HandleRoleButton(ctx, in, key, resp)
		}
	case KindSelect:
		if in.Name == proc.CustomIDSelectGames {
			r.HandleGameSelection(ctx, in, resp)
		}
	}
}

// HandleRolesCommand shows the timezone prompt and, when a custom name is given, reports the
// custom role outcome in a single follow-up. Neither effect blocks the other.
func (r *Router) HandleRolesCommand(ctx context.Context, in Interaction, resp Responder) {
	if in.GuildID == 0 {
		r.reply(resp, sys.ErrGuildOnly)
		return
	}

	var (
		name string
		verr error
	)
	if in.HasCustomName {
		name, verr = r.roles.Validate(in.CustomName)
	}

	prompt := proc.TimezoneSelector(r.catalog.Definitions(proc.GroupTimezone), sys.MsgTimezonePrompt)
	if err := resp.Reply(proc.Ephemeral(prompt)); err != nil {
		sys.LogRouter(sys.MsgRouterRespondError, err)
	}

	if !in.HasCustomName {
		return
	}
	if verr != nil {
		sys.LogDebug(sys.MsgCustomRoleRejected, in.CustomName, in.Member.UserID, verr)
		r.followUp(resp, validationMessage(verr))
		return
	}
	r.followUp(resp, r.provisionCustom(ctx, in.Member, name))
}

func (r *Router) provisionCustom(ctx context.Context, member proc.Member, name string) string {
	if err := r.roles.Allow(member.UserID); err != nil {
		return sys.ErrCustomRoleRateLimited
	}

	roleID, err := r.roles.Provision(ctx, member.GuildID, name)
	if err != nil {
		if proc.ValidationReasonOf(err) != 0 {
			sys.LogDebug(sys.MsgCustomRoleRejected, name, member.UserID, err)
			return validationMessage(err)
		}
		sys.LogWarn(sys.MsgProvisioningFailLog, member.UserID, err)
		return sys.ErrRoleProvisioningFailed
	}

	res, err := r.roles.Assign(ctx, member, roleID)
	if err != nil {
		sys.LogWarn(sys.MsgAssignFail, roleID, member.UserID, err)
		return sys.ErrRoleProvisioningFailed
	}
	if res == proc.AlreadyHasRole {
		return fmt.Sprintf(sys.MsgCustomRoleAlreadyHas, name)
	}
	return fmt.Sprintf(sys.MsgCustomRoleAssigned, name)
}

// HandleRoleButton assigns the fixed role behind a "role:K" button and, for timezone roles,
// follows up with the game selector.
func (r *Router) HandleRoleButton(ctx context.Context, in Interaction, key string, resp Responder) {
	def, ok := r.catalog.Definition(key)
	if !ok {
		return
	}
	if in.GuildID == 0 {
		r.reply(resp, sys.ErrGuildOnly)
		return
	}

	res, err := r.assignFixed(ctx, in.Member, key)
	if err != nil {
		sys.LogWarn(sys.MsgAssignFail, def.Name, in.Member.UserID, err)
		r.reply(resp, sys.ErrRoleProvisioningFailed)
		return
	}
	if res == proc.AlreadyHasRole {
		r.reply(resp, fmt.Sprintf(sys.MsgRoleAlreadyHave, def.Name))
		return
	}

	r.reply(resp, fmt.Sprintf(sys.MsgRoleAssigned, def.Name))
	if def.Group == proc.GroupTimezone {
		games := proc.GameSelector(r.catalog.Definitions(proc.GroupGame), sys.MsgGamePrompt, sys.MsgGamePlaceholder)
		if err := resp.FollowUp(proc.Ephemeral(games)); err != nil {
			sys.LogRouter(sys.MsgRouterFollowUpError, err)
		}
	}
}

// HandleGameSelection assigns every selected game role in order. Failures are logged and skipped;
// the member always gets one aggregate reply.
func (r *Router) HandleGameSelection(ctx context.Context, in Interaction, resp Responder) {
	if in.GuildID == 0 {
		r.reply(resp, sys.ErrGuildOnly)
		return
	}

	added, failed := 0, 0
	for _, key := range in.Values {
		def, ok := r.catalog.Definition(key)
		if !ok || def.Group != proc.GroupGame {
			continue
		}
		res, err := r.assignFixed(ctx, in.Member, key)
		if err != nil {
			failed++
			sys.LogRouter(sys.MsgAssignFail, def.Name, in.Member.UserID, err)
			continue
		}
		if res == proc.Assigned {
			added++
		}
	}
	if failed > 0 {
		sys.LogRouter(sys.MsgAssignBatchPartial, in.Member.UserID, added, failed)
	}

	r.reply(resp, fmt.Sprintf(sys.MsgGamesAssigned, added))
}

// HandleSetChannel makes the chosen channel the home of the selectors.
func (r *Router) HandleSetChannel(ctx context.Context, in Interaction, resp Responder) {
	if !r.adminGuild(in, resp) {
		return
	}
	if in.ChannelID == 0 {
		r.reply(resp, sys.ErrChannelInvalid)
		return
	}
	if err := resp.Defer(); err != nil {
		sys.LogRouter(sys.MsgRouterRespondError, err)
	}

	state, err := r.anchors.SetChannel(ctx, in.ChannelID)
	switch {
	case err != nil && state.ChannelID != in.ChannelID:
		sys.LogError(sys.MsgGenericError, err)
		r.reply(resp, sys.ErrChannelSaveFailed)
	case err != nil:
		r.reply(resp, sys.ErrChannelPublishFailed)
	default:
		r.reply(resp, fmt.Sprintf(sys.MsgChannelSet, state.ChannelID))
	}
}

// HandleGameMessage force-republishes the game selector.
func (r *Router) HandleGameMessage(ctx context.Context, in Interaction, resp Responder) {
	if !r.adminGuild(in, resp) {
		return
	}
	if err := resp.Defer(); err != nil {
		sys.LogRouter(sys.MsgRouterRespondError, err)
	}

	state, err := r.anchors.RepublishGame(ctx)
	switch {
	case errors.Is(err, proc.ErrChannelNotConfigured):
		r.reply(resp, sys.ErrChannelNotConfigured)
	case err != nil:
		sys.LogWarn(sys.MsgGenericError, err)
		r.reply(resp, sys.ErrGameMessageFailed)
	default:
		r.reply(resp, fmt.Sprintf(sys.MsgGameMessageSent, state.ChannelID))
	}
}

// assignFixed resolves key and assigns it. A role deleted behind the cache's back is invalidated,
// re-provisioned and tried once more.
func (r *Router) assignFixed(ctx context.Context, member proc.Member, key string) (proc.AssignResult, error) {
	for attempt := 0; ; attempt++ {
		roleID, err := r.fixedRole(ctx, member.GuildID, key)
		if err != nil {
			return proc.Assigned, err
		}
		res, err := r.roles.Assign(ctx, member, roleID)
		if errors.Is(err, proc.ErrRoleNotFound) && attempt == 0 {
			r.catalog.Invalidate(member.GuildID, key)
			continue
		}
		return res, err
	}
}

func (r *Router) fixedRole(ctx context.Context, guildID snowflake.ID, key string) (snowflake.ID, error) {
	if id, err := r.catalog.Resolve(guildID, key); err == nil {
		return id, nil
	}
	mapping, err := r.catalog.EnsureFixedRoles(ctx, guildID)
	if err != nil {
		return 0, err
	}
	if id, ok := mapping[key]; ok {
		return id, nil
	}
	return 0, proc.ErrRoleNotFound
}

func (r *Router) adminGuild(in Interaction, resp Responder) bool {
	if in.GuildID == 0 {
		r.reply(resp, sys.ErrGuildOnly)
		return false
	}
	if r.guildID != 0 && in.GuildID != r.guildID {
		r.reply(resp, sys.ErrWrongGuild)
		return false
	}
	return true
}

func (r *Router) reply(resp Responder, content string) {
	msg := discord.NewMessageCreate().WithContent(content).WithEphemeral(true)
	if err := resp.Reply(msg); err != nil {
		sys.LogRouter(sys.MsgRouterRespondError, err)
	}
}

func (r *Router) followUp(resp Responder, content string) {
	msg := discord.NewMessageCreate().WithContent(content).WithEphemeral(true)
	if err := resp.FollowUp(msg); err != nil {
		sys.LogRouter(sys.MsgRouterFollowUpError, err)
	}
}

func validationMessage(err error) string {
	switch proc.ValidationReasonOf(err) {
	case proc.TooLong:
		return fmt.Sprintf(sys.ErrCustomRoleTooLong, proc.MaxCustomRoleLength)
	case proc.TooManyDigits:
		return fmt.Sprintf(sys.ErrCustomRoleTooManyDigits, proc.MaxCustomRoleDigits)
	case proc.Profane:
		return sys.ErrCustomRoleProfane
	case proc.Reserved:
		return sys.ErrCustomRoleReserved
	case proc.Empty:
		return sys.ErrCustomRoleEmpty
	default:
		return sys.ErrRoleProvisioningFailed
	}
}
