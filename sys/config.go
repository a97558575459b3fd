package sys

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

const (
	DefaultReconcileInterval  = 10 * time.Hour
	DefaultCustomRoleCooldown = 30 * time.Second
	DefaultPresenceInterval   = time.Minute
)

type Config struct {
	Token              string
	GuildID            string
	DatabasePath       string
	AnchorChannelID    string
	ReconcileInterval  time.Duration
	CustomRoleCooldown time.Duration
	PresenceInterval   time.Duration
	Silent             bool
}

var GlobalConfig *Config

// LoadConfig initializes the configuration from environment variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		folder := "."
		if info, err := os.Stat("data"); err == nil && info.IsDir() {
			folder = "./data"
		}
		dbPath = filepath.Join(folder, GetProjectName()+".db")
	}

	silent, _ := strconv.ParseBool(os.Getenv("SILENT"))

	cfg := &Config{
		Token:           strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		GuildID:         strings.TrimSpace(os.Getenv("GUILD_ID")),
		DatabasePath:    dbPath,
		AnchorChannelID: strings.TrimSpace(os.Getenv("ANCHOR_CHANNEL_ID")),
		Silent:          silent,
	}

	var err error
	if cfg.ReconcileInterval, err = durationEnv("RECONCILE_INTERVAL", DefaultReconcileInterval); err != nil {
		return nil, err
	}
	if cfg.CustomRoleCooldown, err = durationEnv("CUSTOM_ROLE_COOLDOWN", DefaultCustomRoleCooldown); err != nil {
		return nil, err
	}
	if cfg.PresenceInterval, err = durationEnv("PRESENCE_INTERVAL", DefaultPresenceInterval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	GlobalConfig = cfg
	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Validate ensures the configuration is valid and meets requirements.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}
	if c.GuildID != "" {
		if _, err := snowflake.Parse(c.GuildID); err != nil || len(c.GuildID) < 17 || len(c.GuildID) > 20 {
			return fmt.Errorf(MsgConfigInvalidGuild)
		}
	}
	if c.AnchorChannelID != "" {
		if _, err := snowflake.Parse(c.AnchorChannelID); err != nil {
			return fmt.Errorf(MsgConfigInvalidChannel)
		}
	}
	if c.ReconcileInterval <= 0 {
		return fmt.Errorf(MsgConfigInvalidInterval, "RECONCILE_INTERVAL")
	}
	if c.CustomRoleCooldown <= 0 {
		return fmt.Errorf(MsgConfigInvalidInterval, "CUSTOM_ROLE_COOLDOWN")
	}
	if c.PresenceInterval <= 0 {
		return fmt.Errorf(MsgConfigInvalidInterval, "PRESENCE_INTERVAL")
	}
	return nil
}

// Guild returns the managed guild, or 0 when running globally.
func (c *Config) Guild() snowflake.ID {
	id, _ := snowflake.Parse(c.GuildID)
	return id
}

// AnchorChannel returns the channel configured through the environment, or 0.
func (c *Config) AnchorChannel() snowflake.ID {
	id, _ := snowflake.Parse(c.AnchorChannelID)
	return id
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "bot"
	if err == nil {
		projectName = filepath.Base(exePath)
		projectName = strings.TrimSuffix(projectName, ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") {
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
