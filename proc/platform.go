package proc

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// RoleInfo is the part of a remote role the catalog cares about.
type RoleInfo struct {
	ID    snowflake.ID
	Name  string
	Color int
}

// MessageInfo is the part of a channel message used to recognise selectors.
type MessageInfo struct {
	ID        snowflake.ID
	AuthorID  snowflake.ID
	CustomIDs []string
}

// RolePlatform is the role side of the platform.
type RolePlatform interface {
	ListRoles(ctx context.Context, guildID snowflake.ID) ([]RoleInfo, error)
	CreateRole(ctx context.Context, guildID snowflake.ID, name string, color int) (RoleInfo, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error
}

// MessagePlatform is the channel side of the platform.
type MessagePlatform interface {
	SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error)
	// FetchMessage returns ErrMessageNotFound when the message is gone.
	FetchMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	ListMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]MessageInfo, error)
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error
}

// RoleHolder answers whether a member already holds a role.
type RoleHolder interface {
	HasRole(roleID snowflake.ID) bool
}

// MemberRoles is a RoleHolder backed by the role ids delivered with an interaction.
type MemberRoles []snowflake.ID

func (m MemberRoles) HasRole(roleID snowflake.ID) bool {
	return slices.Contains(m, roleID)
}

// DiscordPlatform implements RolePlatform and MessagePlatform over the disgo REST client.
type DiscordPlatform struct {
	client *bot.Client
}

func NewDiscordPlatform(client *bot.Client) *DiscordPlatform {
	return &DiscordPlatform{client: client}
}

// SelfID is the bot user, used to recognise our own messages.
func (p *DiscordPlatform) SelfID() snowflake.ID {
	if self, ok := p.client.Caches.SelfUser(); ok {
		return self.ID
	}
	return p.client.ApplicationID
}

func (p *DiscordPlatform) ListRoles(ctx context.Context, guildID snowflake.ID) ([]RoleInfo, error) {
	roles, err := p.client.Rest.GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	infos := make([]RoleInfo, 0, len(roles))
	for _, r := range roles {
		infos = append(infos, RoleInfo{ID: r.ID, Name: r.Name, Color: r.Color})
	}
	return infos, nil
}

func (p *DiscordPlatform) CreateRole(ctx context.Context, guildID snowflake.ID, name string, color int) (RoleInfo, error) {
	role, err := p.client.Rest.CreateRole(guildID, discord.RoleCreate{
		Name:  name,
		Color: color,
	}, rest.WithCtx(ctx), rest.WithReason("Created "+name+" role as it was not found."))
	if err != nil {
		return RoleInfo{}, err
	}
	return RoleInfo{ID: role.ID, Name: role.Name, Color: role.Color}, nil
}

func (p *DiscordPlatform) AddMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error {
	err := p.client.Rest.AddMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
	if isNotFound(err) {
		return ErrRoleNotFound
	}
	return err
}

func (p *DiscordPlatform) SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error) {
	sent, err := p.client.Rest.CreateMessage(channelID, msg, rest.WithCtx(ctx))
	if err != nil {
		return 0, err
	}
	return sent.ID, nil
}

func (p *DiscordPlatform) FetchMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	_, err := p.client.Rest.GetMessage(channelID, messageID, rest.WithCtx(ctx))
	if isNotFound(err) {
		return ErrMessageNotFound
	}
	return err
}

func (p *DiscordPlatform) ListMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]MessageInfo, error) {
	messages, err := p.client.Rest.GetMessages(channelID, 0, 0, 0, limit, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	infos := make([]MessageInfo, 0, len(messages))
	for _, m := range messages {
		infos = append(infos, MessageInfo{
			ID:        m.ID,
			AuthorID:  m.Author.ID,
			CustomIDs: componentCustomIDs(m.Components),
		})
	}
	return infos, nil
}

func (p *DiscordPlatform) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	err := p.client.Rest.DeleteMessage(channelID, messageID, rest.WithCtx(ctx))
	if isNotFound(err) {
		return nil
	}
	return err
}

func componentCustomIDs(components []discord.LayoutComponent) []string {
	var ids []string
	for _, c := range components {
		switch comp := c.(type) {
		case discord.ActionRowComponent:
			ids = append(ids, rowCustomIDs(comp)...)
		case discord.ContainerComponent:
			for _, sub := range comp.Components {
				if row, ok := sub.(discord.ActionRowComponent); ok {
					ids = append(ids, rowCustomIDs(row)...)
				}
			}
		}
	}
	return ids
}

func rowCustomIDs(row discord.ActionRowComponent) []string {
	var ids []string
	for _, inter := range row.Components {
		switch i := inter.(type) {
		case discord.ButtonComponent:
			if i.CustomID != "" {
				ids = append(ids, i.CustomID)
			}
		case discord.StringSelectMenuComponent:
			ids = append(ids, i.CustomID)
		}
	}
	return ids
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
