package service

import (
	"context"
	"pedtriage/internal/model"
	"pedtriage/internal/repository"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArchiveService writes the append-only encounter archive. Events are
// queued and persisted by a background worker so clinical operations never
// wait on MongoDB; the in-memory engine state stays the source of truth.
type ArchiveService struct {
	encounters repository.EncounterRepo
	logger     *zap.Logger

	queue chan *model.SessionEvent
	wg    sync.WaitGroup

	mu  sync.Mutex
	seq map[string]int64
}

// NewArchiveService creates the archive writer and starts its worker.
func NewArchiveService(encounters repository.EncounterRepo, logger *zap.Logger) *ArchiveService {
	s := &ArchiveService{
		encounters: encounters,
		logger:     logger,
		queue:      make(chan *model.SessionEvent, 1024),
		seq:        make(map[string]int64),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Record captures an archive event from the session state. Must be called
// under the session lock; the snapshot is deep-copied so the worker can
// marshal it while the engine keeps mutating.
func (s *ArchiveService) Record(state *model.SessionState, kind model.EventKind, detail map[string]any) {
	event := &model.SessionEvent{
		ID:            uuid.NewString(),
		SessionID:     state.Session.ID,
		Seq:           s.nextSeq(state.Session.ID),
		Kind:          kind,
		Timestamp:     time.Now(),
		Patient:       state.Session.Patient,
		Assessment:    state.Assessment.Clone(),
		Interventions: state.Active(),
		Detail:        detail,
	}
	s.queue <- event
}

// Events returns the archived event log of a session in sequence order.
func (s *ArchiveService) Events(ctx context.Context, sessionID string) ([]*model.SessionEvent, error) {
	return s.encounters.EventsBySession(ctx, sessionID)
}

// SaveRecord persists the final replayable state record synchronously.
func (s *ArchiveService) SaveRecord(ctx context.Context, state *model.SessionState) error {
	return s.encounters.SaveRecord(ctx, state)
}

// GetRecord loads the archived state record of a session, or nil.
func (s *ArchiveService) GetRecord(ctx context.Context, sessionID string) (*model.SessionState, error) {
	return s.encounters.GetRecord(ctx, sessionID)
}

// Close drains the queue and stops the worker. Callers must have stopped
// recording before closing.
func (s *ArchiveService) Close() {
	close(s.queue)
	s.wg.Wait()
}

// nextSeq hands out the per-session event sequence. After a restart the
// counter is re-seeded from the store so ordering survives the process.
func (s *ArchiveService) nextSeq(sessionID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.seq[sessionID]
	if !ok {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		count, err := s.encounters.CountEvents(ctx, sessionID)
		cancel()
		if err != nil {
			s.logger.Warn("archive seq seed failed, starting at zero",
				zap.String("sessionId", sessionID), zap.Error(err))
			count = 0
		}
		n = count
	}
	n++
	s.seq[sessionID] = n
	return n
}

func (s *ArchiveService) run() {
	defer s.wg.Done()
	for event := range s.queue {
		s.persist(event)
	}
}

// persist writes one event with a short retry. A dropped event is logged
// with its full identity so it can be reconstructed from the state record.
func (s *ArchiveService) persist(event *model.SessionEvent) {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = s.encounters.AppendEvent(ctx, event)
		cancel()
		if err == nil {
			return
		}
	}
	s.logger.Error("archive event dropped",
		zap.String("sessionId", event.SessionID),
		zap.Int64("seq", event.Seq),
		zap.String("kind", string(event.Kind)),
		zap.Error(err))
}
