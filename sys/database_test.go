package sys

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) context.Context {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, InitDatabase(ctx, filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(CloseDatabase)
	return ctx
}

func TestBotConfig(t *testing.T) {
	ctx := openTestDB(t)

	v, err := GetBotConfig(ctx, "last_cmd_hash")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, SetBotConfig(ctx, "last_cmd_hash", "abc"))
	require.NoError(t, SetBotConfig(ctx, "last_cmd_hash", "def"))

	v, err = GetBotConfig(ctx, "last_cmd_hash")
	require.NoError(t, err)
	assert.Equal(t, "def", v)
}

func TestAnchorChannelPersistence(t *testing.T) {
	ctx := openTestDB(t)
	guild := snowflake.ID(1000)

	id, err := GetAnchorChannel(ctx, guild)
	require.NoError(t, err)
	assert.Zero(t, id)

	store := GuildSettingsStore{GuildID: guild}
	require.NoError(t, store.SaveAnchorChannel(ctx, 2000))
	require.NoError(t, store.SaveAnchorChannel(ctx, 3000))

	id, err = store.LoadAnchorChannel(ctx)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(3000), id)

	other, err := GetAnchorChannel(ctx, guild+1)
	require.NoError(t, err)
	assert.Zero(t, other, "settings are per guild")
}
