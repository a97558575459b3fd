package sys

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mattn/go-sqlite3"
)

// --- Connection & Lifecycle ---

var DB *sql.DB

func InitDatabase(ctx context.Context, dataSourceName string) error {
	// Explicitly reference sqlite3 driver to avoid blank identifier
	// The driver registers itself via its init() function
	_ = sqlite3.SQLiteDriver{}

	var err error
	DB, err = sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, p := range pragmas {
		if _, err := DB.ExecContext(initCtx, p); err != nil {
			return fmt.Errorf(MsgDatabasePragmaError, p, err)
		}
	}

	tx, err := DB.BeginTx(initCtx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tableQueries := []string{
		`CREATE TABLE IF NOT EXISTS bot_config (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS guild_settings (
			guild_id TEXT PRIMARY KEY,
			anchor_channel_id TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range tableQueries {
		if _, err := tx.ExecContext(initCtx, q); err != nil {
			return fmt.Errorf(MsgDatabaseTableError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	LogDatabase(MsgDatabaseInitSuccess)
	return nil
}

func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}

// --- Bot Persistence ---

// BotConfig helpers are used by the loader for mode tracking and state.
func GetBotConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := DB.QueryRowContext(ctx, "SELECT value FROM bot_config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func SetBotConfig(ctx context.Context, key, value string) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO bot_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// --- Guild Settings ---

func SetAnchorChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO guild_settings (guild_id, anchor_channel_id) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET anchor_channel_id = excluded.anchor_channel_id, updated_at = CURRENT_TIMESTAMP
	`, guildID.String(), channelID.String())
	return err
}

// GetAnchorChannel returns 0 when no channel has been stored for the guild.
func GetAnchorChannel(ctx context.Context, guildID snowflake.ID) (snowflake.ID, error) {
	var channelIDStr sql.NullString
	err := DB.QueryRowContext(ctx, "SELECT anchor_channel_id FROM guild_settings WHERE guild_id = ?", guildID.String()).Scan(&channelIDStr)
	if err == sql.ErrNoRows || (err == nil && (!channelIDStr.Valid || channelIDStr.String == "" || channelIDStr.String == "0")) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	channelID, err := snowflake.Parse(channelIDStr.String)
	if err != nil {
		return 0, fmt.Errorf("failed to parse channel ID '%s': %w", channelIDStr.String, err)
	}
	return channelID, nil
}

// GuildSettingsStore persists the anchor channel of one guild.
type GuildSettingsStore struct {
	GuildID snowflake.ID
}

func (s GuildSettingsStore) LoadAnchorChannel(ctx context.Context) (snowflake.ID, error) {
	return GetAnchorChannel(ctx, s.GuildID)
}

func (s GuildSettingsStore) SaveAnchorChannel(ctx context.Context, channelID snowflake.ID) error {
	return SetAnchorChannel(ctx, s.GuildID, channelID)
}
