package proc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/rolekeeper/sys"
)

// adoptScanLimit is how far back the channel is searched for selectors we posted before a restart.
const adoptScanLimit = 50

// AnchorKind names one of the two persistent selector messages.
type AnchorKind int

const (
	AnchorTimezone AnchorKind = iota
	AnchorGame
)

func (k AnchorKind) String() string {
	if k == AnchorGame {
		return "game"
	}
	return "timezone"
}

// AnchorChannelState is the channel holding the selectors and their message ids. A zero id means unknown.
type AnchorChannelState struct {
	ChannelID         snowflake.ID
	TimezoneMessageID snowflake.ID
	GameMessageID     snowflake.ID
}

func (s AnchorChannelState) messageID(kind AnchorKind) snowflake.ID {
	if kind == AnchorGame {
		return s.GameMessageID
	}
	return s.TimezoneMessageID
}

func (s *AnchorChannelState) setMessageID(kind AnchorKind, id snowflake.ID) {
	if kind == AnchorGame {
		s.GameMessageID = id
	} else {
		s.TimezoneMessageID = id
	}
}

// ChannelStore persists the anchor channel. Message ids are never stored, they are rediscovered.
type ChannelStore interface {
	LoadAnchorChannel(ctx context.Context) (snowflake.ID, error)
	SaveAnchorChannel(ctx context.Context, channelID snowflake.ID) error
}

// AnchorMessageManager keeps exactly one timezone and one game selector alive in the anchor channel.
type AnchorMessageManager struct {
	platform MessagePlatform
	store    ChannelStore
	catalog  *RoleCatalog
	selfID   func() snowflake.ID

	// ops serializes the remote work of Load, SetChannel, Publish, Reconcile and RepublishGame.
	// mu only guards state and is never held across a REST call.
	ops   sync.Mutex
	mu    sync.RWMutex
	state AnchorChannelState

	inflight atomic.Bool
}

func NewAnchorMessageManager(platform MessagePlatform, store ChannelStore, catalog *RoleCatalog, selfID func() snowflake.ID) *AnchorMessageManager {
	return &AnchorMessageManager{
		platform: platform,
		store:    store,
		catalog:  catalog,
		selfID:   selfID,
	}
}

// State returns a snapshot of the current anchor state.
func (m *AnchorMessageManager) State() AnchorChannelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *AnchorMessageManager) commit(st AnchorChannelState) AnchorChannelState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	return st
}

// Load restores the channel from the store, falling back to fallback, and adopts surviving selectors.
func (m *AnchorMessageManager) Load(ctx context.Context, fallback snowflake.ID) error {
	channelID := fallback
	if m.store != nil {
		stored, err := m.store.LoadAnchorChannel(ctx)
		if err != nil {
			sys.LogAnchor(sys.MsgAnchorChannelLoadErr, err)
		} else if stored != 0 {
			channelID = stored
		}
	}

	m.ops.Lock()
	defer m.ops.Unlock()
	st := AnchorChannelState{ChannelID: channelID}
	var err error
	if channelID != 0 {
		err = m.adopt(ctx, &st)
	}
	m.commit(st)
	return err
}

// SetChannel moves the selectors to channelID, persisting the choice and posting whatever is missing there.
func (m *AnchorMessageManager) SetChannel(ctx context.Context, channelID snowflake.ID) (AnchorChannelState, error) {
	if m.store != nil {
		if err := m.store.SaveAnchorChannel(ctx, channelID); err != nil {
			return m.State(), err
		}
	}
	sys.LogAnchor(sys.MsgAnchorChannelSaved, channelID)

	m.ops.Lock()
	defer m.ops.Unlock()
	st := m.commit(AnchorChannelState{ChannelID: channelID})
	err := m.reconcile(ctx, &st)
	return m.commit(st), err
}

// Publish posts both selectors unconditionally and records their ids.
func (m *AnchorMessageManager) Publish(ctx context.Context) (AnchorChannelState, error) {
	m.ops.Lock()
	defer m.ops.Unlock()
	st := m.State()
	if st.ChannelID == 0 {
		return st, ErrChannelNotConfigured
	}

	var errs []error
	for _, kind := range []AnchorKind{AnchorTimezone, AnchorGame} {
		if err := m.publish(ctx, &st, kind); err != nil {
			errs = append(errs, err)
		}
	}
	return m.commit(st), errors.Join(errs...)
}

// Reconcile republishes only the selectors that are unknown or gone. Overlapping calls are skipped with
// ErrReconcileInFlight. Without a reachable channel the tick does nothing.
func (m *AnchorMessageManager) Reconcile(ctx context.Context) (AnchorChannelState, error) {
	if !m.inflight.CompareAndSwap(false, true) {
		return m.State(), ErrReconcileInFlight
	}
	defer m.inflight.Store(false)

	m.ops.Lock()
	defer m.ops.Unlock()
	st := m.State()
	if st.ChannelID == 0 {
		sys.LogDebug(sys.MsgAnchorNoChannel)
		return st, nil
	}
	err := m.reconcile(ctx, &st)
	return m.commit(st), err
}

// RepublishGame posts a fresh game selector and removes the previous one.
func (m *AnchorMessageManager) RepublishGame(ctx context.Context) (AnchorChannelState, error) {
	m.ops.Lock()
	defer m.ops.Unlock()
	st := m.State()
	if st.ChannelID == 0 {
		return st, ErrChannelNotConfigured
	}

	old := st.GameMessageID
	if err := m.publish(ctx, &st, AnchorGame); err != nil {
		return st, err
	}
	if old != 0 {
		if err := m.platform.DeleteMessage(ctx, st.ChannelID, old); err != nil {
			sys.LogAnchor(sys.MsgAnchorDeleteFail, AnchorGame, old, err)
		}
	}
	return m.commit(st), nil
}

// reconcile checks both selectors in st.ChannelID and republishes the missing ones. Only a confirmed
// ErrMessageNotFound counts as missing; any other read failure leaves st untouched and skips the pass.
func (m *AnchorMessageManager) reconcile(ctx context.Context, st *AnchorChannelState) error {
	var missing []AnchorKind
	for _, kind := range []AnchorKind{AnchorTimezone, AnchorGame} {
		id := st.messageID(kind)
		if id == 0 {
			missing = append(missing, kind)
			continue
		}
		err := m.platform.FetchMessage(ctx, st.ChannelID, id)
		switch {
		case err == nil:
		case errors.Is(err, ErrMessageNotFound):
			sys.LogAnchor(sys.MsgAnchorDrift, kind, id, st.ChannelID)
			missing = append(missing, kind)
		default:
			sys.LogAnchor(sys.MsgAnchorUnreachable, st.ChannelID, err)
			return err
		}
	}
	if len(missing) == 0 {
		sys.LogDebug(sys.MsgAnchorInSync, st.ChannelID)
		return nil
	}

	// A selector may already be there under an id we lost, e.g. a send that timed out after posting.
	prev := *st
	for _, kind := range missing {
		st.setMessageID(kind, 0)
	}
	if err := m.adopt(ctx, st); err != nil {
		*st = prev
		sys.LogAnchor(sys.MsgAnchorScanFail, st.ChannelID, err)
		return err
	}

	var errs []error
	for _, kind := range missing {
		if st.messageID(kind) != 0 {
			continue
		}
		if err := m.publish(ctx, st, kind); err != nil {
			st.setMessageID(kind, prev.messageID(kind))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// publish sends a selector and records its id. On failure the previous id is left in place.
func (m *AnchorMessageManager) publish(ctx context.Context, st *AnchorChannelState, kind AnchorKind) error {
	id, err := m.platform.SendMessage(ctx, st.ChannelID, m.render(kind))
	if err != nil {
		sys.LogAnchor(sys.MsgAnchorPublishFail, kind, st.ChannelID, err)
		return err
	}
	st.setMessageID(kind, id)
	sys.LogAnchor(sys.MsgAnchorPublished, kind, st.ChannelID, id)
	return nil
}

// adopt fills unknown ids in st from our own recent messages, newest first.
func (m *AnchorMessageManager) adopt(ctx context.Context, st *AnchorChannelState) error {
	if m.selfID == nil {
		return nil
	}
	self := m.selfID()
	messages, err := m.platform.ListMessages(ctx, st.ChannelID, adoptScanLimit)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		if msg.AuthorID != self {
			continue
		}
		if st.TimezoneMessageID == 0 && isTimezoneSelector(msg.CustomIDs) {
			st.TimezoneMessageID = msg.ID
			sys.LogAnchor(sys.MsgAnchorAdopted, AnchorTimezone, st.ChannelID, msg.ID)
		} else if st.GameMessageID == 0 && isGameSelector(msg.CustomIDs) {
			st.GameMessageID = msg.ID
			sys.LogAnchor(sys.MsgAnchorAdopted, AnchorGame, st.ChannelID, msg.ID)
		}
	}
	return nil
}

func (m *AnchorMessageManager) render(kind AnchorKind) discord.MessageCreate {
	if kind == AnchorGame {
		return GameSelector(m.catalog.Definitions(GroupGame), sys.MsgGameAnchor, sys.MsgGamePlaceholder)
	}
	return TimezoneSelector(m.catalog.Definitions(GroupTimezone), sys.MsgTimezoneAnchor)
}

// --- Reconciler Daemon ---

// RegisterAnchorDaemon schedules periodic reconciliation once the client is ready.
func RegisterAnchorDaemon(m *AnchorMessageManager, interval time.Duration) {
	sys.RegisterDaemon(sys.LogAnchor, func(ctx context.Context) (bool, func(), func()) {
		return m.StartReconciler(ctx, interval)
	})
}

// StartReconciler returns the reconcile loop and its shutdown hook.
func (m *AnchorMessageManager) StartReconciler(ctx context.Context, interval time.Duration) (bool, func(), func()) {
	if interval <= 0 {
		return false, nil, nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	run := func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.tick(loopCtx, interval)
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				m.tick(loopCtx, interval)
			}
		}
	}

	shutdown := func() {
		sys.LogAnchor(sys.MsgAnchorShutdown)
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}

	return true, run, shutdown
}

func (m *AnchorMessageManager) tick(ctx context.Context, interval time.Duration) {
	_, err := m.Reconcile(ctx)
	switch {
	case errors.Is(err, ErrReconcileInFlight):
		sys.LogAnchor(sys.MsgAnchorSkipInFlight)
		return
	case err != nil && ctx.Err() == nil:
		sys.LogWarn(sys.MsgGenericError, err)
	}
	sys.LogDebug(sys.MsgAnchorNextCheck, interval)
}
