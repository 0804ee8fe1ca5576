package service

import (
	"context"
	"encoding/json"
	"fmt"
	"pedtriage/internal/engine"
	"pedtriage/internal/model"
	"pedtriage/internal/protocol"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStateCache is an in-memory stand-in for the Redis cache. States cross
// its boundary as JSON, like they do in production, so shared references
// cannot leak between service instances.
type fakeStateCache struct {
	mu     sync.Mutex
	states map[string][]byte
	down   bool
}

func newFakeStateCache() *fakeStateCache {
	return &fakeStateCache{states: make(map[string][]byte)}
}

func (c *fakeStateCache) Save(_ context.Context, state *model.SessionState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down {
		return fmt.Errorf("cache unavailable")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	c.states[state.Session.ID] = data
	return nil
}

func (c *fakeStateCache) Load(_ context.Context, sessionID string) (*model.SessionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.states[sessionID]
	if !ok {
		return nil, nil
	}
	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *fakeStateCache) Delete(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, sessionID)
	return nil
}

func (c *fakeStateCache) Exists(_ context.Context, sessionID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.states[sessionID]
	return ok, nil
}

// fakeEncounterRepo is an in-memory stand-in for the Mongo event and record
// collections. failAppend makes the next n AppendEvent calls fail, which
// exercises the archive worker's retry path.
type fakeEncounterRepo struct {
	mu         sync.Mutex
	events     []*model.SessionEvent
	records    map[string][]byte
	failAppend int
}

func newFakeEncounterRepo() *fakeEncounterRepo {
	return &fakeEncounterRepo{records: make(map[string][]byte)}
}

func (r *fakeEncounterRepo) AppendEvent(_ context.Context, event *model.SessionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAppend > 0 {
		r.failAppend--
		return fmt.Errorf("event store unavailable")
	}
	r.events = append(r.events, event)
	return nil
}

func (r *fakeEncounterRepo) EventsBySession(_ context.Context, sessionID string) ([]*model.SessionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.SessionEvent
	for _, e := range r.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeEncounterRepo) CountEvents(_ context.Context, sessionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func (r *fakeEncounterRepo) SaveRecord(_ context.Context, state *model.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.records[state.Session.ID] = data
	return nil
}

func (r *fakeEncounterRepo) GetRecord(_ context.Context, sessionID string) (*model.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.records[sessionID]
	if !ok {
		return nil, nil
	}
	var state model.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// fakeOverrideRepo is an in-memory stand-in for the override audit collection.
type fakeOverrideRepo struct {
	mu        sync.Mutex
	overrides []model.Override
}

func (r *fakeOverrideRepo) Append(_ context.Context, override *model.Override) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = append(r.overrides, *override)
	return nil
}

func (r *fakeOverrideRepo) BySession(_ context.Context, sessionID string) ([]*model.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Override
	for i := range r.overrides {
		if r.overrides[i].SessionID == sessionID {
			o := r.overrides[i]
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeOverrideRepo) Flagged(_ context.Context, limit int64) ([]*model.Override, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Override
	for i := range r.overrides {
		if r.overrides[i].AuditFlag {
			o := r.overrides[i]
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type streamMessage struct {
	SessionID   string
	ClinicianID string
	Type        string
}

// fakeBroadcaster records what the services push to the socket hub.
type fakeBroadcaster struct {
	mu           sync.Mutex
	messages     []streamMessage
	disconnected []string
}

func (b *fakeBroadcaster) BroadcastToSession(sessionID string, msgType string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, streamMessage{SessionID: sessionID, Type: msgType})
}

func (b *fakeBroadcaster) BroadcastToClinician(sessionID, clinicianID string, msgType string, _ interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, streamMessage{SessionID: sessionID, ClinicianID: clinicianID, Type: msgType})
}

func (b *fakeBroadcaster) DisconnectSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnected = append(b.disconnected, sessionID)
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

func (b *fakeBroadcaster) disconnectedSessions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.disconnected...)
}

// fixture wires the full service layer against in-memory fakes.
type fixture struct {
	pack      *protocol.Pack
	clock     *engine.ManagedClock
	cache     *fakeStateCache
	repo      *fakeEncounterRepo
	overrides *fakeOverrideRepo
	stream    *fakeBroadcaster
	tokens    *TokenService
	archive   *ArchiveService
	sessions  *SessionService
	triage    *TriageService

	drainOnce sync.Once
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pack, err := protocol.Default()
	require.NoError(t, err)
	f := &fixture{
		pack:      pack,
		clock:     engine.NewManagedClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)),
		cache:     newFakeStateCache(),
		repo:      newFakeEncounterRepo(),
		overrides: &fakeOverrideRepo{},
		stream:    &fakeBroadcaster{},
	}
	f.tokens = NewTokenService("unit-test-secret", time.Hour)
	f.archive = NewArchiveService(f.repo, zap.NewNop())
	f.sessions = NewSessionService(pack, f.cache, f.archive, f.tokens, f.clock, zap.NewNop())
	f.triage = NewTriageService(f.sessions, f.archive, f.overrides, zap.NewNop())
	f.sessions.SetBroadcaster(f.stream)
	f.triage.SetBroadcaster(f.stream)
	t.Cleanup(f.drain)
	return f
}

// drain stops the archive worker, flushing every queued event to the fake
// repo. Call it before asserting on archived events. No Record calls may
// follow.
func (f *fixture) drain() {
	f.drainOnce.Do(f.archive.Close)
}

func (f *fixture) create(t *testing.T) *model.SessionState {
	t.Helper()
	state, _, err := f.sessions.Create(context.Background(), model.PatientContext{
		AgeCategory: model.AgeChild,
		WeightKg:    10,
	})
	require.NoError(t, err)
	return state
}

func (f *fixture) eventKinds(t *testing.T, sessionID string) []model.EventKind {
	t.Helper()
	f.drain()
	events, err := f.archive.Events(context.Background(), sessionID)
	require.NoError(t, err)
	kinds := make([]model.EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

func boolAns(b bool) model.AnswerValue {
	return model.AnswerValue{Bool: &b}
}

func numAns(n float64) model.AnswerValue {
	return model.AnswerValue{Number: &n}
}

func optAns(o string) model.AnswerValue {
	return model.AnswerValue{Option: o}
}
