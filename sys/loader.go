package sys

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"
)

// SafeGo runs a function in a new goroutine with panic recovery
func SafeGo(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				LogError(MsgLoaderPanicRecovered, r)
				fmt.Printf("%s\n", debug.Stack())
			}
		}()
		f()
	}()
}

// --- Global State & Setup ---

var AppContext = context.Background()
var StartupTime = time.Now()
var daemonsOnce sync.Once

var (
	registryMu             sync.RWMutex
	commands               = []discord.ApplicationCommandCreate{}
	commandHandlers        = map[string]func(event *events.ApplicationCommandInteractionCreate){}
	componentHandlers      = map[string]func(event *events.ComponentInteractionCreate){}
	onClientReadyCallbacks []func(ctx context.Context, client *bot.Client)
)

func SetAppContext(ctx context.Context) {
	AppContext = ctx
}

// --- Bot Initialization ---

// CreateClient creates and configures a disgo client
func CreateClient(ctx context.Context, cfg *Config) (*bot.Client, error) {
	return disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentGuildVoiceStates,
			),
			gateway.WithPresenceOpts(
				gateway.WithPlayingActivity("Loading..."),
				gateway.WithOnlineStatus(discord.OnlineStatusOnline),
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagRoles, cache.FlagChannels, cache.FlagVoiceStates),
		),
		bot.WithEventListenerFunc(onApplicationCommandInteraction),
		bot.WithEventListenerFunc(onComponentInteraction),
		bot.WithEventListenerFunc(onReady),
		bot.WithLogger(slog.Default()),
		bot.WithRestClientConfigOpts(
			rest.WithHTTPClient(&http.Client{
				Timeout: 30 * time.Second,
			}),
		),
	)
}

// --- Command & Handler Registration ---

func RegisterCommand(cmd discord.ApplicationCommandCreate, handler func(event *events.ApplicationCommandInteractionCreate)) {
	registryMu.Lock()
	defer registryMu.Unlock()

	commands = append(commands, cmd)
	switch c := cmd.(type) {
	case discord.SlashCommandCreate:
		commandHandlers[c.CommandName()] = handler
	case discord.UserCommandCreate:
		commandHandlers[c.CommandName()] = handler
	case discord.MessageCommandCreate:
		commandHandlers[c.CommandName()] = handler
	}
}

// RegisterComponentHandler binds a custom ID. IDs ending in ":" match as prefixes.
func RegisterComponentHandler(customID string, handler func(event *events.ComponentInteractionCreate)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	componentHandlers[customID] = handler
}

func OnClientReady(cb func(ctx context.Context, client *bot.Client)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	onClientReadyCallbacks = append(onClientReadyCallbacks, cb)
}

func commandHandler(name string) (func(event *events.ApplicationCommandInteractionCreate), bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	h, ok := commandHandlers[name]
	return h, ok
}

func componentHandler(customID string) (func(event *events.ComponentInteractionCreate), bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	// 1. Try exact match
	if h, ok := componentHandlers[customID]; ok {
		return h, true
	}

	// 2. Try prefix match
	for prefix, h := range componentHandlers {
		if strings.HasSuffix(prefix, ":") && strings.HasPrefix(customID, prefix) {
			return h, true
		}
	}
	return nil, false
}

// --- Command Syncing Logic ---

// calculateCommandHash generates a SHA256 hash of the commands slice
func calculateCommandHash(cmds []discord.ApplicationCommandCreate) string {
	data, err := json.Marshal(cmds)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func RegisterCommands(ctx context.Context, client *bot.Client, guildIDStr string, forceScan bool) error {
	registryMu.RLock()
	cmds := append([]discord.ApplicationCommandCreate(nil), commands...)
	registryMu.RUnlock()

	lastGuildID, _ := GetBotConfig(ctx, "last_guild_id")
	lastMode, _ := GetBotConfig(ctx, "last_reg_mode")
	lastHash, _ := GetBotConfig(ctx, "last_cmd_hash")

	isProduction := guildIDStr == ""
	currentMode := "guild"
	if isProduction {
		currentMode = "global"
	}

	LogLoader(MsgLoaderSyncCommands, strings.ToUpper(currentMode))

	currentHash := calculateCommandHash(cmds)
	shouldRegister := true
	if currentHash != "" && currentHash == lastHash && currentMode == lastMode && lastGuildID == guildIDStr && !forceScan {
		shouldRegister = false
		LogLoader(MsgLoaderUpToDate, currentHash[:8])
	}

	var guildID snowflake.ID
	if isProduction {
		// 1. Production Mode (Global)
		if shouldRegister {
			LogLoader(MsgLoaderProdStarting)
			created, err := client.Rest.SetGlobalCommands(client.ApplicationID, cmds)
			if err != nil {
				return fmt.Errorf(MsgLoaderProdFail, err)
			}
			for _, cmd := range created {
				LogLoader(MsgLoaderProdRegistered, cmd.Name())
			}
		}
	} else {
		// 2. Development Mode (Guild)
		var err error
		guildID, err = snowflake.Parse(guildIDStr)
		if err != nil {
			return fmt.Errorf("invalid GUILD_ID: %w", err)
		}

		if shouldRegister {
			LogLoader(MsgLoaderDevStarting, guildIDStr)
			created, err := client.Rest.SetGuildCommands(client.ApplicationID, guildID, cmds)
			if err != nil {
				LogWarn(MsgLoaderDevFail, err)
			} else {
				for _, cmd := range created {
					LogLoader(MsgLoaderDevRegistered, cmd.Name())
				}
			}
		}

		if lastMode != currentMode || forceScan {
			if existing, err := client.Rest.GetGlobalCommands(client.ApplicationID, false); err == nil && len(existing) > 0 {
				LogLoader(MsgLoaderDevGlobalClear)
				if _, err := client.Rest.SetGlobalCommands(client.ApplicationID, []discord.ApplicationCommandCreate{}); err != nil {
					LogWarn(MsgLoaderDevGlobalClearFail, err)
				}
			}
		}
	}

	// 3. Remove commands left in a previous dev guild
	if lastGuildID != "" && lastGuildID != guildIDStr {
		if oldID, err := snowflake.Parse(lastGuildID); err == nil {
			if existing, err := client.Rest.GetGuildCommands(client.ApplicationID, oldID, false); err == nil && len(existing) > 0 {
				LogLoader(MsgLoaderCleanup, lastGuildID)
				_, _ = client.Rest.SetGuildCommands(client.ApplicationID, oldID, []discord.ApplicationCommandCreate{})
			}
		}
	}

	if forceScan || (isProduction && lastMode != currentMode) {
		scanGhostCommands(ctx, client, guildID)
	}

	// 4. Update State
	_ = SetBotConfig(ctx, "last_reg_mode", currentMode)
	_ = SetBotConfig(ctx, "last_guild_id", guildIDStr)
	if currentHash != "" {
		_ = SetBotConfig(ctx, "last_cmd_hash", currentHash)
	}

	return nil
}

// scanGhostCommands clears guild commands everywhere except keep.
func scanGhostCommands(ctx context.Context, client *bot.Client, keep snowflake.ID) {
	LogLoader(MsgLoaderScanStarting)
	guilds, err := client.Rest.GetCurrentUserGuilds("", 0, 0, 100, false)
	if err != nil {
		return
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(5)
	for _, guild := range guilds {
		if guild.ID == keep {
			continue
		}
		g.Go(func() error {
			if existing, err := client.Rest.GetGuildCommands(client.ApplicationID, guild.ID, false); err == nil && len(existing) > 0 {
				LogLoader(MsgLoaderScanCleared, guild.Name, guild.ID.String())
				_, _ = client.Rest.SetGuildCommands(client.ApplicationID, guild.ID, []discord.ApplicationCommandCreate{})
			}
			return nil
		})
	}
	_ = g.Wait()
}

// --- Event Handlers ---

func onReady(event *events.Ready) {
	client := event.Client()
	botUser := event.User

	duration := time.Since(StartupTime)
	LogInfo(MsgBotReady, botUser.Username, botUser.ID.String(), os.Getpid(), duration.Milliseconds())

	TriggerClientReady(AppContext, client)
	StartDaemons(AppContext)
}

func TriggerClientReady(ctx context.Context, client *bot.Client) {
	registryMu.RLock()
	callbacks := append([]func(context.Context, *bot.Client){}, onClientReadyCallbacks...)
	registryMu.RUnlock()

	for _, cb := range callbacks {
		cb(ctx, client)
	}
}

func onApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	if h, ok := commandHandler(event.Data.CommandName()); ok {
		SafeGo(func() { h(event) })
	}
}

func onComponentInteraction(event *events.ComponentInteractionCreate) {
	if h, ok := componentHandler(event.Data.CustomID()); ok {
		SafeGo(func() { h(event) })
	}
}

// --- Daemon System ---

type daemonEntry struct {
	starter func(ctx context.Context) (bool, func(), func())
	logger  func(format string, v ...any)
}

var registeredDaemons []daemonEntry
var activeShutdownHooks []func()
var activeShutdownMu sync.Mutex

// RegisterDaemon registers a background daemon with a logger and start function.
// The starter reports whether the daemon should run and returns its loop and shutdown hook.
func RegisterDaemon(logger func(format string, v ...any), starter func(ctx context.Context) (bool, func(), func())) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registeredDaemons = append(registeredDaemons, daemonEntry{starter: starter, logger: logger})
}

// StartDaemons starts all registered daemons with their individual colored logging
func StartDaemons(ctx context.Context) {
	daemonsOnce.Do(func() {
		type activeDaemon struct {
			entry daemonEntry
			run   func()
		}
		var active []activeDaemon

		registryMu.RLock()
		daemons := append([]daemonEntry(nil), registeredDaemons...)
		registryMu.RUnlock()

		// 1. Evaluate starters sequentially to determine active daemons
		for _, daemon := range daemons {
			if ok, run, shutdown := daemon.starter(ctx); ok && run != nil {
				if shutdown != nil {
					activeShutdownMu.Lock()
					activeShutdownHooks = append(activeShutdownHooks, shutdown)
					activeShutdownMu.Unlock()
				}
				active = append(active, activeDaemon{daemon, run})
			}
		}

		// 2. Log all "Starting..." messages sequentially
		for _, ad := range active {
			ad.entry.logger(MsgDaemonStarting)
		}

		// 3. Launch the actual daemon loops in parallel
		for _, ad := range active {
			SafeGo(ad.run)
		}
	})
}

// ShutdownDaemons gracefully stops all active daemons
func ShutdownDaemons(ctx context.Context) {
	activeShutdownMu.Lock()
	defer activeShutdownMu.Unlock()

	var wg sync.WaitGroup
	for _, shutdown := range activeShutdownHooks {
		if shutdown != nil {
			wg.Add(1)
			go func(s func()) {
				defer wg.Done()
				s()
			}(shutdown)
		}
	}
	wg.Wait()
}
