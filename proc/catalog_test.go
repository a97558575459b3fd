package proc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFixedRoles_Idempotent(t *testing.T) {
	platform := newFakePlatform()
	catalog := NewRoleCatalog(platform, nil)
	ctx := context.Background()

	first, err := catalog.EnsureFixedRoles(ctx, testGuild)
	require.NoError(t, err)
	require.Len(t, first, len(DefaultDefinitions))
	assert.Equal(t, len(DefaultDefinitions), platform.createCount())

	second, err := catalog.EnsureFixedRoles(ctx, testGuild)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, len(DefaultDefinitions), platform.createCount(), "second pass must not create anything")
}

func TestEnsureFixedRoles_AdoptsExistingByName(t *testing.T) {
	platform := newFakePlatform()
	estID := platform.seedRole("EST", 0)
	catalog := NewRoleCatalog(platform, nil)

	mapping, err := catalog.EnsureFixedRoles(context.Background(), testGuild)
	require.NoError(t, err)

	assert.Equal(t, estID, mapping["EST"])
	assert.Equal(t, len(DefaultDefinitions)-1, platform.createCount())
	assert.NotContains(t, platform.creates, "EST")
}

func TestEnsureFixedRoles_RecreatesDeletedRole(t *testing.T) {
	platform := newFakePlatform()
	catalog := NewRoleCatalog(platform, nil)
	ctx := context.Background()

	first, err := catalog.EnsureFixedRoles(ctx, testGuild)
	require.NoError(t, err)

	platform.removeRole(first["PST"])

	second, err := catalog.EnsureFixedRoles(ctx, testGuild)
	require.NoError(t, err)
	assert.NotEqual(t, first["PST"], second["PST"])
	assert.Equal(t, first["EST"], second["EST"])
	assert.Equal(t, len(DefaultDefinitions)+1, platform.createCount())
}

func TestEnsureFixedRoles_Concurrent(t *testing.T) {
	platform := newFakePlatform()
	catalog := NewRoleCatalog(platform, nil)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := catalog.EnsureFixedRoles(context.Background(), testGuild)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, len(DefaultDefinitions), platform.createCount())
}

func TestEnsureFixedRoles_CreateFailure(t *testing.T) {
	platform := newFakePlatform()
	estID := platform.seedRole("EST", ColorTimezone)
	platform.createErr = errRemote
	catalog := NewRoleCatalog(platform, nil)

	_, err := catalog.EnsureFixedRoles(context.Background(), testGuild)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProvisioningFailed))
	assert.True(t, errors.Is(err, errRemote))

	// what was found before the failure stays usable
	id, err := catalog.Resolve(testGuild, "EST")
	require.NoError(t, err)
	assert.Equal(t, estID, id)
}

func TestResolveAndInvalidate(t *testing.T) {
	platform := newFakePlatform()
	catalog := NewRoleCatalog(platform, nil)

	_, err := catalog.Resolve(testGuild, "EST")
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.Zero(t, platform.lists, "resolve must not call the platform")

	mapping, err := catalog.EnsureFixedRoles(context.Background(), testGuild)
	require.NoError(t, err)

	id, err := catalog.Resolve(testGuild, "EST")
	require.NoError(t, err)
	assert.Equal(t, mapping["EST"], id)
	assert.Equal(t, len(DefaultDefinitions), catalog.Count())

	catalog.InvalidateRole(testGuild, id)
	_, err = catalog.Resolve(testGuild, "EST")
	assert.ErrorIs(t, err, ErrRoleNotFound)
	assert.Equal(t, len(DefaultDefinitions)-1, catalog.Count())
}

func TestCatalogDefinitions(t *testing.T) {
	catalog := NewRoleCatalog(newFakePlatform(), nil)

	tz := catalog.Definitions(GroupTimezone)
	require.Len(t, tz, 4)
	assert.Equal(t, "EST", tz[0].Key)

	games := catalog.Definitions(GroupGame)
	require.Len(t, games, 3)
	assert.Equal(t, "League of Legends", games[1].Name)

	def, ok := catalog.Definition("valorant")
	require.True(t, ok)
	assert.Equal(t, ColorGame, def.Color)

	assert.True(t, catalog.IsFixedName("est"))
	assert.True(t, catalog.IsFixedName("minecraft"))
	assert.False(t, catalog.IsFixedName("Terraria"))
}
