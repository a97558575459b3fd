package proc

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/leeineian/rolekeeper/sys"
)

const configKeyStatus = "status_visible"

// StatusSource produces one candidate presence text. An empty string means nothing to show.
type StatusSource func(ctx context.Context) string

// StatusRotator cycles the bot presence through the non-empty sources.
type StatusRotator struct {
	client   *bot.Client
	sources  []StatusSource
	interval time.Duration

	mu   sync.Mutex
	last string
}

func NewStatusRotator(client *bot.Client, interval time.Duration, sources ...StatusSource) *StatusRotator {
	return &StatusRotator{client: client, sources: sources, interval: interval}
}

// RegisterStatusDaemon wires the rotator into the daemon system.
func RegisterStatusDaemon(r *StatusRotator) {
	sys.RegisterDaemon(sys.LogPresence, r.Start)
}

func (r *StatusRotator) Start(ctx context.Context) (bool, func(), func()) {
	if r.client == nil || r.interval <= 0 || len(r.sources) == 0 {
		return false, nil, nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	run := func() {
		for {
			r.update(loopCtx)
			select {
			case <-time.After(r.interval):
			case <-loopCtx.Done():
				return
			}
		}
	}
	return true, run, cancel
}

func (r *StatusRotator) update(ctx context.Context) {
	if visible, err := sys.GetBotConfig(ctx, configKeyStatus); err != nil || visible == "false" {
		_ = r.client.SetPresence(ctx, gateway.WithOnlineStatus(discord.OnlineStatusOnline))
		return
	}

	text := r.next(ctx)
	if text == "" {
		return
	}

	err := r.client.SetPresence(ctx,
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
		gateway.WithWatchingActivity(text),
	)
	if err != nil {
		sys.LogPresence(sys.MsgPresenceUpdateFail, err)
		return
	}
	sys.LogPresence(sys.MsgPresenceRotated, text, r.interval)
}

// next picks a random non-empty status, avoiding an immediate repeat when there is a choice.
func (r *StatusRotator) next(ctx context.Context) string {
	var available []string
	for _, src := range r.sources {
		if text := src(ctx); text != "" {
			available = append(available, text)
		}
	}
	if len(available) == 0 {
		return ""
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var choices []string
	for _, s := range available {
		if s != r.last {
			choices = append(choices, s)
		}
	}
	if len(choices) == 0 {
		choices = available
	}
	r.last = choices[rand.Intn(len(choices))]
	return r.last
}

// --- Sources ---

func RolesStatus(catalog *RoleCatalog) StatusSource {
	return func(ctx context.Context) string {
		n := catalog.Count()
		if n == 0 {
			return ""
		}
		return fmt.Sprintf("%d roles", n)
	}
}

func SelectorStatus(anchors *AnchorMessageManager) StatusSource {
	return func(ctx context.Context) string {
		st := anchors.State()
		if st.ChannelID == 0 {
			return ""
		}
		live := 0
		if st.TimezoneMessageID != 0 {
			live++
		}
		if st.GameMessageID != 0 {
			live++
		}
		return fmt.Sprintf("Selectors: %d/2", live)
	}
}

func UptimeStatus(since time.Time) StatusSource {
	return func(ctx context.Context) string {
		uptime := time.Since(since)
		return fmt.Sprintf("Uptime: %dh %dm", int(uptime.Hours()), int(uptime.Minutes())%60)
	}
}

func LatencyStatus(client *bot.Client) StatusSource {
	return func(ctx context.Context) string {
		if client == nil || client.Gateway == nil {
			return ""
		}
		ping := client.Gateway.Latency()
		if ping == 0 {
			return ""
		}
		return fmt.Sprintf("Ping: %dms", ping.Milliseconds())
	}
}
