package sys

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "")
	t.Setenv("ANCHOR_CHANNEL_ID", "")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "bot.db"))
	t.Setenv("RECONCILE_INTERVAL", "")
	t.Setenv("CUSTOM_ROLE_COOLDOWN", "")
	t.Setenv("PRESENCE_INTERVAL", "")
	t.Setenv("SILENT", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Token)
	assert.Equal(t, DefaultReconcileInterval, cfg.ReconcileInterval)
	assert.Equal(t, 10*time.Hour, cfg.ReconcileInterval)
	assert.Equal(t, DefaultCustomRoleCooldown, cfg.CustomRoleCooldown)
	assert.Equal(t, DefaultPresenceInterval, cfg.PresenceInterval)
	assert.Zero(t, cfg.Guild())
	assert.Zero(t, cfg.AnchorChannel())
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GUILD_ID", "123456789012345678")
	t.Setenv("ANCHOR_CHANNEL_ID", "223456789012345678")
	t.Setenv("RECONCILE_INTERVAL", "90m")
	t.Setenv("CUSTOM_ROLE_COOLDOWN", "5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, snowflake.ID(123456789012345678), cfg.Guild())
	assert.Equal(t, snowflake.ID(223456789012345678), cfg.AnchorChannel())
	assert.Equal(t, 90*time.Minute, cfg.ReconcileInterval)
	assert.Equal(t, 5*time.Second, cfg.CustomRoleCooldown)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"missing token", "DISCORD_TOKEN", ""},
		{"bad guild", "GUILD_ID", "not-a-snowflake"},
		{"short guild", "GUILD_ID", "12345"},
		{"bad channel", "ANCHOR_CHANNEL_ID", "channel"},
		{"unparsable interval", "RECONCILE_INTERVAL", "soon"},
		{"zero interval", "RECONCILE_INTERVAL", "0s"},
		{"negative cooldown", "CUSTOM_ROLE_COOLDOWN", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
