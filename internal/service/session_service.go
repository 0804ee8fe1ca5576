package service

import (
	"context"
	"errors"
	"fmt"
	"pedtriage/internal/cache"
	"pedtriage/internal/engine"
	"pedtriage/internal/model"
	"pedtriage/internal/protocol"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionService owns the lifecycle of encounters. Each open session has
// exactly one engine on this instance, guarded by a per-session lock; the
// Redis cache carries the state across restarts and the archive keeps the
// permanent record.
type SessionService struct {
	pack    *protocol.Pack
	states  cache.StateCache
	archive *ArchiveService
	tokens  *TokenService
	clock   engine.Clock
	logger  *zap.Logger

	broadcaster Broadcaster

	mu   sync.Mutex
	live map[string]*liveSession
}

type liveSession struct {
	mu     sync.Mutex
	engine *engine.Engine
}

func NewSessionService(
	pack *protocol.Pack,
	states cache.StateCache,
	archive *ArchiveService,
	tokens *TokenService,
	clock engine.Clock,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		pack:    pack,
		states:  states,
		archive: archive,
		tokens:  tokens,
		clock:   clock,
		logger:  logger,
		live:    make(map[string]*liveSession),
	}
}

// SetBroadcaster sets the WebSocket broadcaster (called after hub creation)
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create opens a new encounter for the given patient and issues the lead
// clinician token.
func (s *SessionService) Create(ctx context.Context, patient model.PatientContext) (*model.SessionState, *model.TokenResponse, error) {
	if !patient.Valid() {
		return nil, nil, engine.ErrInvalidPatient
	}

	id := uuid.NewString()
	token, err := s.tokens.Issue(id, "", model.RoleLead)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue lead token: %w", err)
	}

	session := model.Session{
		ID:        id,
		Status:    model.SessionActive,
		Patient:   patient,
		LeadID:    token.ClinicianID,
		CreatedAt: s.clock.Now(),
	}
	eng, err := engine.New(s.pack, session, s.clock)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.live[id] = &liveSession{engine: eng}
	s.mu.Unlock()

	state := eng.State()
	if err := s.states.Save(ctx, state); err != nil {
		s.logger.Warn("session state cache save failed",
			zap.String("sessionId", id), zap.Error(err))
	}
	s.archive.Record(state, model.EventSessionStarted, map[string]any{
		"leadId": token.ClinicianID,
	})
	return state, token, nil
}

// Join issues an observer token for an open session. Observers receive the
// live stream and read endpoints but may not mutate anything.
func (s *SessionService) Join(ctx context.Context, sessionID, clinicianID string) (*model.TokenResponse, error) {
	ls, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	open := ls.engine.State().Session.Status == model.SessionActive
	ls.mu.Unlock()
	if !open {
		return nil, engine.ErrSessionClosed
	}
	return s.tokens.Issue(sessionID, clinicianID, model.RoleObserver)
}

// Get returns the current session state for read-only use.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*model.SessionState, error) {
	var state *model.SessionState
	err := s.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		state = eng.State()
		return nil
	})
	return state, err
}

// UpdatePatient applies a logged correction to the patient context, usually
// a weight fix once a measured weight replaces the estimate.
func (s *SessionService) UpdatePatient(ctx context.Context, sessionID string, after model.PatientContext, reason, by string) (*model.SessionState, error) {
	var state *model.SessionState
	err := s.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		if err := eng.UpdatePatient(after, reason, by); err != nil {
			return err
		}
		state = eng.State()
		s.archive.Record(state, model.EventPatientUpdated, map[string]any{
			"reason":   reason,
			"editedBy": by,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "patient_updated", state.Session.Patient)
	}
	return state, nil
}

// Close ends the encounter, archives the final record and disconnects the
// stream. Safe to retry if the archive write failed.
func (s *SessionService) Close(ctx context.Context, sessionID, by string) (*model.SessionState, error) {
	ls, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	wasClosed := ls.engine.State().Session.Status == model.SessionClosed
	ls.engine.Close()
	state := ls.engine.State()
	if !wasClosed {
		s.archive.Record(state, model.EventSessionClosed, map[string]any{
			"closedBy": by,
		})
	}
	saveErr := s.archive.SaveRecord(ctx, state)
	ls.mu.Unlock()
	if saveErr != nil {
		return nil, fmt.Errorf("failed to archive session record: %w", saveErr)
	}

	if err := s.states.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("session state cache delete failed",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
	s.mu.Lock()
	delete(s.live, sessionID)
	s.mu.Unlock()

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "session_closed", state.Session)
		s.broadcaster.DisconnectSession(sessionID)
	}
	return state, nil
}

// Events returns the archived event log of a session in sequence order.
func (s *SessionService) Events(ctx context.Context, sessionID string) ([]*model.SessionEvent, error) {
	return s.archive.Events(ctx, sessionID)
}

// WithSession runs fn with exclusive access to the session engine and, when
// fn succeeds, refreshes the cached state. A cache failure is logged but
// does not fail the operation; the in-memory engine stays authoritative.
func (s *SessionService) WithSession(ctx context.Context, sessionID string, fn func(*engine.Engine) error) error {
	ls, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err := fn(ls.engine); err != nil {
		return err
	}
	if err := s.states.Save(ctx, ls.engine.State()); err != nil {
		s.logger.Warn("session state cache save failed",
			zap.String("sessionId", sessionID), zap.Error(err))
	}
	return nil
}

// ReadSession runs fn with the engine locked but persists nothing.
func (s *SessionService) ReadSession(ctx context.Context, sessionID string, fn func(*engine.Engine) error) error {
	ls, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return fn(ls.engine)
}

// session returns the live session, restoring it from the cache or, failing
// that, from the archived record when this instance has not seen it yet.
func (s *SessionService) session(ctx context.Context, sessionID string) (*liveSession, error) {
	s.mu.Lock()
	if ls, ok := s.live[sessionID]; ok {
		s.mu.Unlock()
		return ls, nil
	}
	s.mu.Unlock()

	state, err := s.states.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}
	if state == nil {
		state, err = s.archive.GetRecord(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session record: %w", err)
		}
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ls, ok := s.live[sessionID]; ok {
		// another request restored it first
		return ls, nil
	}
	ls := &liveSession{engine: engine.Restore(s.pack, state, s.clock)}
	s.live[sessionID] = ls
	s.logger.Info("session restored", zap.String("sessionId", sessionID))
	return ls, nil
}
