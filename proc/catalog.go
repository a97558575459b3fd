package proc

import (
	"context"
	"strings"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/rolekeeper/sys"
	"golang.org/x/sync/singleflight"
)

const (
	ColorTimezone = 0x3498DB // blue
	ColorGame     = 0x2ECC71 // green
	ColorCustom   = 0x9B59B6 // purple
)

// RoleGroup groups fixed roles by the selector that offers them.
type RoleGroup int

const (
	GroupTimezone RoleGroup = iota
	GroupGame
)

// RoleDefinition is one fixed role. The remote role is found by Name.
type RoleDefinition struct {
	Key   string
	Name  string
	Color int
	Group RoleGroup
}

var DefaultDefinitions = []RoleDefinition{
	{Key: "EST", Name: "EST", Color: ColorTimezone, Group: GroupTimezone},
	{Key: "PST", Name: "PST", Color: ColorTimezone, Group: GroupTimezone},
	{Key: "CST", Name: "CST", Color: ColorTimezone, Group: GroupTimezone},
	{Key: "MST", Name: "MST", Color: ColorTimezone, Group: GroupTimezone},
	{Key: "minecraft", Name: "Minecraft", Color: ColorGame, Group: GroupGame},
	{Key: "league", Name: "League of Legends", Color: ColorGame, Group: GroupGame},
	{Key: "valorant", Name: "Valorant", Color: ColorGame, Group: GroupGame},
}

// RoleCatalog maps fixed keys to remote role ids, per guild.
//
// Duplicate creation is avoided by re-listing roles right before creating one and by
// joining concurrent EnsureFixedRoles calls for the same guild. An external actor creating
// the same name at the same moment can still race us.
type RoleCatalog struct {
	platform RolePlatform
	defs     []RoleDefinition

	mu    sync.RWMutex
	cache map[snowflake.ID]map[string]snowflake.ID

	flight singleflight.Group
}

func NewRoleCatalog(platform RolePlatform, defs []RoleDefinition) *RoleCatalog {
	if defs == nil {
		defs = DefaultDefinitions
	}
	return &RoleCatalog{
		platform: platform,
		defs:     defs,
		cache:    make(map[snowflake.ID]map[string]snowflake.ID),
	}
}

// Definitions returns the fixed roles of a group, in display order.
func (c *RoleCatalog) Definitions(group RoleGroup) []RoleDefinition {
	var out []RoleDefinition
	for _, d := range c.defs {
		if d.Group == group {
			out = append(out, d)
		}
	}
	return out
}

// Definition looks up a fixed role by key.
func (c *RoleCatalog) Definition(key string) (RoleDefinition, bool) {
	for _, d := range c.defs {
		if d.Key == key {
			return d, true
		}
	}
	return RoleDefinition{}, false
}

// IsFixedName reports whether name is used by a fixed role, ignoring case.
func (c *RoleCatalog) IsFixedName(name string) bool {
	for _, d := range c.defs {
		if strings.EqualFold(d.Name, name) || strings.EqualFold(d.Key, name) {
			return true
		}
	}
	return false
}

// Resolve is a pure cache lookup.
func (c *RoleCatalog) Resolve(guildID snowflake.ID, key string) (snowflake.ID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id, ok := c.cache[guildID][key]; ok && id != 0 {
		return id, nil
	}
	return 0, ErrRoleNotFound
}

// Invalidate drops a cached id after its remote role was found to be gone.
func (c *RoleCatalog) Invalidate(guildID snowflake.ID, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache[guildID][key]; ok {
		delete(c.cache[guildID], key)
		sys.LogCatalog(sys.MsgCatalogInvalidated, key, guildID)
	}
}

// InvalidateRole drops whichever key currently maps to roleID.
func (c *RoleCatalog) InvalidateRole(guildID, roleID snowflake.ID) {
	c.mu.RLock()
	var key string
	for k, id := range c.cache[guildID] {
		if id == roleID {
			key = k
			break
		}
	}
	c.mu.RUnlock()
	if key != "" {
		c.Invalidate(guildID, key)
	}
}

// EnsureFixedRoles makes every fixed role exist in the guild and returns key to role id.
func (c *RoleCatalog) EnsureFixedRoles(ctx context.Context, guildID snowflake.ID) (map[string]snowflake.ID, error) {
	v, err, _ := c.flight.Do(guildID.String(), func() (any, error) {
		return c.ensure(ctx, guildID)
	})
	if err != nil {
		return nil, err
	}
	return copyMapping(v.(map[string]snowflake.ID)), nil
}

func (c *RoleCatalog) ensure(ctx context.Context, guildID snowflake.ID) (map[string]snowflake.ID, error) {
	roles, err := c.platform.ListRoles(ctx, guildID)
	if err != nil {
		return nil, provisioningFailed(err)
	}

	c.mu.RLock()
	mapping := copyMapping(c.cache[guildID])
	c.mu.RUnlock()

	existing := make(map[snowflake.ID]bool, len(roles))
	for _, r := range roles {
		existing[r.ID] = true
	}

	var missing []RoleDefinition
	for _, def := range c.defs {
		if id, ok := mapping[def.Key]; ok {
			if existing[id] {
				continue
			}
			sys.LogCatalog(sys.MsgCatalogStale, def.Name, id, guildID)
			delete(mapping, def.Key)
		}
		if r, ok := findRoleByName(roles, def.Name); ok {
			mapping[def.Key] = r.ID
			sys.LogCatalog(sys.MsgCatalogAdopted, def.Name, r.ID, guildID)
			continue
		}
		missing = append(missing, def)
	}

	created := 0
	if len(missing) > 0 {
		// Re-check right before creating, another actor may have just made the role.
		roles, err = c.platform.ListRoles(ctx, guildID)
		if err != nil {
			c.store(guildID, mapping)
			return nil, provisioningFailed(err)
		}
		for _, def := range missing {
			if r, ok := findRoleByName(roles, def.Name); ok {
				mapping[def.Key] = r.ID
				continue
			}
			r, err := c.platform.CreateRole(ctx, guildID, def.Name, def.Color)
			if err != nil {
				c.store(guildID, mapping)
				return nil, provisioningFailed(err)
			}
			mapping[def.Key] = r.ID
			created++
			sys.LogCatalog(sys.MsgCatalogCreated, def.Name, r.ID, guildID)
		}
	}

	c.store(guildID, mapping)
	sys.LogDebug(sys.MsgCatalogEnsured, guildID, len(mapping), created)
	return mapping, nil
}

func (c *RoleCatalog) store(guildID snowflake.ID, mapping map[string]snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[guildID] = copyMapping(mapping)
}

// Count returns how many fixed roles are cached across guilds.
func (c *RoleCatalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, m := range c.cache {
		n += len(m)
	}
	return n
}

func findRoleByName(roles []RoleInfo, name string) (RoleInfo, bool) {
	for _, r := range roles {
		if r.Name == name {
			return r, true
		}
	}
	return RoleInfo{}, false
}

func copyMapping(m map[string]snowflake.ID) map[string]snowflake.ID {
	out := make(map[string]snowflake.ID, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
