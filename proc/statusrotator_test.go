package proc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticStatus(text string) StatusSource {
	return func(context.Context) string { return text }
}

func TestStatusRotator_NoImmediateRepeat(t *testing.T) {
	r := NewStatusRotator(nil, time.Minute, staticStatus("a"), staticStatus(""), staticStatus("b"))
	ctx := context.Background()

	prev := r.next(ctx)
	for range 20 {
		cur := r.next(ctx)
		assert.NotEqual(t, prev, cur)
		assert.Contains(t, []string{"a", "b"}, cur)
		prev = cur
	}
}

func TestStatusRotator_SingleOrNone(t *testing.T) {
	ctx := context.Background()

	single := NewStatusRotator(nil, time.Minute, staticStatus("only"))
	assert.Equal(t, "only", single.next(ctx))
	assert.Equal(t, "only", single.next(ctx))

	empty := NewStatusRotator(nil, time.Minute, staticStatus(""))
	assert.Empty(t, empty.next(ctx))

	ok, _, _ := empty.Start(ctx)
	assert.False(t, ok, "a rotator without a client does not start")
}

func TestStatusSources(t *testing.T) {
	platform := newFakePlatform()
	catalog := NewRoleCatalog(platform, nil)
	anchors := NewAnchorMessageManager(platform, &memStore{}, catalog, nil)
	ctx := context.Background()

	assert.Empty(t, RolesStatus(catalog)(ctx))
	assert.Empty(t, SelectorStatus(anchors)(ctx))

	_, err := catalog.EnsureFixedRoles(ctx, testGuild)
	require.NoError(t, err)
	assert.Equal(t, "7 roles", RolesStatus(catalog)(ctx))

	_, err = anchors.SetChannel(ctx, testChannel)
	require.NoError(t, err)
	assert.Equal(t, "Selectors: 2/2", SelectorStatus(anchors)(ctx))

	assert.Equal(t, "Uptime: 1h 30m", UptimeStatus(time.Now().Add(-90*time.Minute-time.Second))(ctx))
	assert.Empty(t, LatencyStatus(nil)(ctx))
}
