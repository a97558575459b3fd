package proc

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const (
	testGuild   snowflake.ID = 1000
	testChannel snowflake.ID = 2000
	testUser    snowflake.ID = 3000
	testSelf    snowflake.ID = 4000
)

var errRemote = errors.New("remote unavailable")

type addCall struct {
	guildID, userID, roleID snowflake.ID
}

// fakePlatform is an in-memory guild with roles and one or more channels.
type fakePlatform struct {
	mu     sync.Mutex
	nextID snowflake.ID

	roles     []RoleInfo
	lists     int
	creates   []string
	adds      []addCall
	createErr error
	listErr   error
	addErr    map[snowflake.ID]error

	channels map[snowflake.ID][]MessageInfo
	sent     []snowflake.ID
	deleted  []snowflake.ID
	sendErr  error
	readErr  error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		nextID:   10000,
		addErr:   map[snowflake.ID]error{},
		channels: map[snowflake.ID][]MessageInfo{},
	}
}

func (f *fakePlatform) id() snowflake.ID {
	f.nextID++
	return f.nextID
}

func (f *fakePlatform) seedRole(name string, color int) snowflake.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := RoleInfo{ID: f.id(), Name: name, Color: color}
	f.roles = append(f.roles, r)
	return r.ID
}

func (f *fakePlatform) removeRole(id snowflake.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = slices.DeleteFunc(f.roles, func(r RoleInfo) bool { return r.ID == id })
}

func (f *fakePlatform) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func (f *fakePlatform) addCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.adds)
}

func (f *fakePlatform) ListRoles(ctx context.Context, guildID snowflake.ID) ([]RoleInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.roles), nil
}

func (f *fakePlatform) CreateRole(ctx context.Context, guildID snowflake.ID, name string, color int) (RoleInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return RoleInfo{}, f.createErr
	}
	r := RoleInfo{ID: f.id(), Name: name, Color: color}
	f.roles = append(f.roles, r)
	f.creates = append(f.creates, name)
	return r, nil
}

func (f *fakePlatform) AddMemberRole(ctx context.Context, guildID, userID, roleID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.addErr[roleID]; err != nil {
		return err
	}
	if !slices.ContainsFunc(f.roles, func(r RoleInfo) bool { return r.ID == roleID }) {
		return ErrRoleNotFound
	}
	f.adds = append(f.adds, addCall{guildID, userID, roleID})
	return nil
}

func (f *fakePlatform) SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	id := f.id()
	f.channels[channelID] = append(f.channels[channelID], MessageInfo{
		ID:        id,
		AuthorID:  testSelf,
		CustomIDs: componentCustomIDs(msg.Components),
	})
	f.sent = append(f.sent, id)
	return id, nil
}

func (f *fakePlatform) FetchMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return f.readErr
	}
	for _, m := range f.channels[channelID] {
		if m.ID == messageID {
			return nil
		}
	}
	return ErrMessageNotFound
}

// ListMessages returns the newest messages first.
func (f *fakePlatform) ListMessages(ctx context.Context, channelID snowflake.ID, limit int) ([]MessageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	msgs := slices.Clone(f.channels[channelID])
	slices.Reverse(msgs)
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (f *fakePlatform) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[channelID] = slices.DeleteFunc(f.channels[channelID], func(m MessageInfo) bool { return m.ID == messageID })
	f.deleted = append(f.deleted, messageID)
	return nil
}

// outage makes every send and channel read fail with err, or restores them when err is nil.
func (f *fakePlatform) outage(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendErr = err
	f.readErr = err
}

func (f *fakePlatform) selectorsIn(channelID snowflake.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.channels[channelID] {
		if isTimezoneSelector(m.CustomIDs) || isGameSelector(m.CustomIDs) {
			n++
		}
	}
	return n
}

func (f *fakePlatform) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// profanityList flags any text containing one of its words.
type profanityList []string

func (p profanityList) IsProfane(text string) bool {
	for _, w := range p {
		if w != "" && strings.Contains(strings.ToLower(text), strings.ToLower(w)) {
			return true
		}
	}
	return false
}

type memStore struct {
	mu      sync.Mutex
	channel snowflake.ID
	saves   int
	err     error
}

func (s *memStore) LoadAnchorChannel(ctx context.Context) (snowflake.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel, s.err
}

func (s *memStore) SaveAnchorChannel(ctx context.Context, channelID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.channel = channelID
	s.saves++
	return nil
}
