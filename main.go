package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/leeineian/rolekeeper/home"
	"github.com/leeineian/rolekeeper/proc"
	"github.com/leeineian/rolekeeper/sys"
)

const pidFile = ".bot.pid"

func main() {
	// LogFatal panics so that deferred cleanup runs first
	defer func() {
		if r := recover(); r != nil {
			if msg, ok := r.(string); ok {
				fmt.Fprintf(os.Stderr, "\n[FATAL] %s\n", msg)
				os.Exit(1)
			}
			panic(r)
		}
	}()

	silent := flag.Bool("silent", false, "Disable all log output")
	skipReg := flag.Bool("skip-reg", false, "Skip command registration")
	clearAll := flag.Bool("clear-all", false, "Force clear guild commands (scan all guilds)")
	flag.Parse()

	sys.InitLogger(*silent, true)

	cfg, err := sys.LoadConfig()
	if err != nil {
		sys.LogFatal(sys.MsgConfigFailedToLoad, err)
	}
	if *silent {
		cfg.Silent = true
	}

	if err := sys.InitDatabase(context.Background(), cfg.DatabasePath); err != nil {
		sys.LogFatal("Failed to initialize database: %v", err)
	}
	defer sys.CloseDatabase()

	sys.LogInfo(sys.MsgBotStarting, sys.GetProjectName())
	if path := sys.GetLogPath(); path != "" {
		sys.LogDebug(sys.MsgLogFile, path)
	}

	release := acquirePIDLock()
	defer release()

	if err := run(cfg, *skipReg, *clearAll); err != nil {
		sys.LogFatal(sys.MsgGenericError, err)
	}
}

// acquirePIDLock takes an exclusive lock on the PID file, terminating any instance that holds it.
func acquirePIDLock() func() {
	f, err := os.OpenFile(pidFile, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		sys.LogFatal("Failed to open PID file: %v", err)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		err = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			break
		}
		if err != syscall.EWOULDBLOCK {
			sys.LogFatal("Failed to lock PID file: %v", err)
		}

		var oldPid int
		_, _ = f.Seek(0, 0)
		if _, scanErr := fmt.Fscanf(f, "%d", &oldPid); scanErr != nil {
			_ = f.Close()
			<-ticker.C
			f, _ = os.OpenFile(pidFile, os.O_RDWR|os.O_CREATE, 0644)
			continue
		}
		if oldPid == os.Getpid() {
			break
		}

		process, procErr := os.FindProcess(oldPid)
		if procErr != nil {
			<-ticker.C
			continue
		}

		sys.LogInfo(sys.MsgBotKillingOld, oldPid)
		_ = process.Signal(syscall.SIGTERM)
		if !waitForExit(process, 5*time.Second) {
			sys.LogWarn("Old process %d is stubborn. Sending SIGKILL...", oldPid)
			_ = process.Signal(syscall.SIGKILL)
			if !waitForExit(process, 2*time.Second) {
				sys.LogWarn("Process %d still exists after SIGKILL", oldPid)
			}
		}
		sys.LogInfo(sys.MsgBotOldTerminated)
	}

	_ = f.Truncate(0)
	_, _ = f.Seek(0, 0)
	_, _ = fmt.Fprintf(f, "%d", os.Getpid())
	_ = f.Sync()

	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
		_ = os.Remove(pidFile)
	}
}

func waitForExit(process *os.Process, timeout time.Duration) bool {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)
	for {
		select {
		case <-ticker.C:
			if err := process.Signal(syscall.Signal(0)); err != nil {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func run(cfg *sys.Config, skipReg bool, clearAll bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sys.SetAppContext(ctx)

	client, err := sys.CreateClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create Discord client: %w", err)
	}
	defer client.Close(context.Background())

	guildID := cfg.Guild()
	platform := proc.NewDiscordPlatform(client)
	catalog := proc.NewRoleCatalog(platform, nil)
	provisioner := proc.NewCustomRoleProvisioner(platform, proc.NewGoAwayChecker(), catalog, cfg.CustomRoleCooldown)
	anchors := proc.NewAnchorMessageManager(platform, sys.GuildSettingsStore{GuildID: guildID}, catalog, platform.SelfID)

	home.Register(home.NewRouter(catalog, provisioner, anchors, guildID))

	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		if guildID == 0 {
			sys.LogCatalog(sys.MsgCatalogStartupSkip)
		} else if _, err := catalog.EnsureFixedRoles(ctx, guildID); err != nil {
			sys.LogError(sys.MsgCatalogEnsureFail, guildID, err)
		}
		if err := anchors.Load(ctx, cfg.AnchorChannel()); err != nil {
			sys.LogAnchor(sys.MsgAnchorScanFail, anchors.State().ChannelID, err)
		}
	})
	proc.RegisterAnchorDaemon(anchors, cfg.ReconcileInterval)
	proc.RegisterStatusDaemon(proc.NewStatusRotator(client, cfg.PresenceInterval,
		proc.RolesStatus(catalog),
		proc.SelectorStatus(anchors),
		proc.UptimeStatus(sys.StartupTime),
		proc.LatencyStatus(client),
	))

	if !skipReg {
		if err := sys.RegisterCommands(ctx, client, cfg.GuildID, clearAll); err != nil {
			sys.LogError(sys.MsgBotRegisterFail, err)
		}
	} else {
		sys.LogInfo("Skipping command registration as requested.")
	}

	if err := client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	<-ctx.Done()
	if !cfg.Silent {
		fmt.Println()
	}

	sys.LogInfo("Shutting down all daemons...")
	sys.ShutdownDaemons(context.Background())

	if botUser, ok := client.Caches.SelfUser(); ok {
		sys.LogInfo(sys.MsgBotShutdown, botUser.Username)
	} else {
		sys.LogInfo(sys.MsgBotShutdown, sys.GetProjectName())
	}
	return nil
}
