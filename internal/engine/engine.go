// Package engine implements the deterministic core of an encounter: the
// sequential triage flow with critical-trigger interrupts, the phased
// ABCDE validator, weight-based dose computation, differential scoring
// and the escalation policy for failed interventions and fluid volumes.
//
// An Engine owns the state of exactly one session and is not safe for
// concurrent use. The session service serializes access per session.
package engine

import (
	"pedtriage/internal/model"
	"pedtriage/internal/protocol"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Engine struct {
	pack  *protocol.Pack
	state *model.SessionState
	clock Clock
}

// New starts an engine for a fresh session. The session must carry a valid
// patient context; triage begins at the critical check stage and the
// assessment at the airway phase.
func New(pack *protocol.Pack, session model.Session, clock Clock) (*Engine, error) {
	if !session.Patient.Valid() {
		return nil, ErrInvalidPatient
	}
	now := clock.Now()
	snapshot := model.NewSnapshot()
	if rec := snapshot.Record(model.PhaseAirway); rec != nil {
		rec.EnteredAt = &now
	}
	state := &model.SessionState{
		Session:    session,
		Stage:      model.StageCriticalCheck,
		Assessment: snapshot,
		UpdatedAt:  now,
	}
	return &Engine{pack: pack, state: state, clock: clock}, nil
}

// Restore resumes an engine from a previously saved state snapshot.
func Restore(pack *protocol.Pack, state *model.SessionState, clock Clock) *Engine {
	return &Engine{pack: pack, state: state, clock: clock}
}

// State exposes the session state for persistence and read-only views.
// Callers must not mutate it.
func (e *Engine) State() *model.SessionState {
	return e.state
}

// Close marks the session closed. Every later mutation is rejected with
// ErrSessionClosed; reads keep working.
func (e *Engine) Close() {
	if e.state.Session.Status == model.SessionClosed {
		return
	}
	now := e.now()
	e.state.Session.Status = model.SessionClosed
	e.state.Session.ClosedAt = &now
	e.touch()
}

// UpdatePatient replaces the patient context and logs the edit. Weight or
// age corrections change every later dose and vital check, so the edit
// trail keeps both values and the stated reason.
func (e *Engine) UpdatePatient(after model.PatientContext, reason, by string) error {
	if err := e.ensureOpen(); err != nil {
		return err
	}
	if !after.Valid() {
		return ErrInvalidPatient
	}
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	edit := model.PatientEdit{
		Before:   e.state.Session.Patient,
		After:    after,
		Reason:   strings.TrimSpace(reason),
		EditedBy: by,
		EditedAt: e.now(),
	}
	e.state.Session.Patient = after
	e.state.Session.Edits = append(e.state.Session.Edits, edit)
	e.touch()
	return nil
}

func (e *Engine) ensureOpen() error {
	if e.state.Session.Status != model.SessionActive {
		return ErrSessionClosed
	}
	return nil
}

func (e *Engine) now() time.Time {
	return e.clock.Now()
}

func (e *Engine) touch() {
	e.state.UpdatedAt = e.now()
}

// raiseFinding adds an active finding unless one with the same code is
// already active, in which case the existing one is returned. A code that
// was resolved or overridden earlier raises a fresh instance.
func (e *Engine) raiseFinding(spec model.FindingSpec, src model.FindingSource, questionID string, phase model.Phase, field string) *model.Finding {
	for i := range e.state.Findings {
		f := &e.state.Findings[i]
		if f.Code == spec.Code && f.Status == model.FindingActive {
			return f
		}
	}
	finding := model.Finding{
		FindingSpec: spec,
		ID:          uuid.NewString(),
		SessionID:   e.state.Session.ID,
		Source:      src,
		QuestionID:  questionID,
		Phase:       phase,
		Field:       field,
		RaisedAt:    e.now(),
		Status:      model.FindingActive,
	}
	if spec.Evidence != "" {
		e.state.AddEvidence(spec.Evidence)
	}
	e.state.Findings = append(e.state.Findings, finding)
	return &e.state.Findings[len(e.state.Findings)-1]
}
