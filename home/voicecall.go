package home

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/leeineian/rolekeeper/proc"
	"github.com/leeineian/rolekeeper/sys"
)

const colorVoiceCall = 0x3498DB

// HandleVoiceCall posts a public card saying which voice channel the caller is in and, optionally,
// what they want to play.
func (r *Router) HandleVoiceCall(ctx context.Context, in Interaction, resp Responder) {
	if in.GuildID == 0 {
		r.reply(resp, sys.ErrGuildOnly)
		return
	}
	if in.VoiceChannel == "" {
		r.reply(resp, sys.ErrNotInVoice)
		return
	}

	game := proc.NormalizeName(in.Game)
	if game != "" && r.roles.IsProfane(game) {
		r.reply(resp, sys.ErrCustomRoleProfane)
		return
	}

	if err := resp.Reply(voiceCallMessage(in, game, time.Now())); err != nil {
		sys.LogRouter(sys.MsgRouterRespondError, err)
		return
	}
	sys.LogRouter(sys.MsgVoiceCallPosted, in.Member.UserID, in.VoiceChannel)
}

func voiceCallMessage(in Interaction, game string, now time.Time) discord.MessageCreate {
	description := fmt.Sprintf(sys.MsgVoiceCallDescription, in.VoiceChannel)
	if game != "" {
		description += fmt.Sprintf(sys.MsgVoiceCallGame, game)
	}

	embed := discord.NewEmbedBuilder().
		SetColor(colorVoiceCall).
		SetTitlef(sys.MsgVoiceCallTitle, in.UserName, in.VoiceChannel).
		SetDescription(description).
		SetThumbnail(in.AvatarURL).
		SetTimestamp(now).
		SetFooter(fmt.Sprintf(sys.MsgVoiceCallFooter, in.UserName), in.AvatarURL).
		Build()

	return discord.NewMessageCreate().WithEmbeds(embed)
}
