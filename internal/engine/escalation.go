package engine

import (
	"pedtriage/internal/model"
	"strings"
	"time"
)

// RecordAttempt logs one intervention attempt against an active finding
// and applies the escalation policy: the first failure escalates the
// finding's severity one level, a second failure forces the emergency
// level regardless of anything recorded afterwards. The returned bool
// reports whether the escalation level changed.
func (e *Engine) RecordAttempt(findingID string, success bool, note, by string) (model.InterventionState, bool, error) {
	if err := e.ensureOpen(); err != nil {
		return model.InterventionState{}, false, err
	}
	f := e.state.Finding(findingID)
	if f == nil {
		return model.InterventionState{}, false, ErrUnknownFinding
	}
	if f.Status != model.FindingActive {
		return model.InterventionState{}, false, ErrFindingSettled
	}
	before := e.interventionState(f).Level
	e.state.Attempts = append(e.state.Attempts, model.Attempt{
		FindingID:  f.ID,
		Success:    success,
		Note:       strings.TrimSpace(note),
		RecordedBy: by,
		RecordedAt: e.now(),
	})
	after := e.interventionState(f)
	if !success && after.Failures == 1 && f.Severity == model.SeverityUrgent {
		f.Severity = model.SeverityCritical
	}
	e.touch()
	return after, after.Level != before, nil
}

// interventionState derives the policy view of one finding from the
// attempt log. Nothing is cached; the log is the source of truth.
func (e *Engine) interventionState(f *model.Finding) model.InterventionState {
	st := model.InterventionState{
		FindingID: f.ID,
		Code:      f.Code,
		Level:     model.EscalationNone,
		StartedAt: f.RaisedAt,
	}
	for _, a := range e.state.Attempts {
		if a.FindingID != f.ID {
			continue
		}
		st.Attempts++
		if !a.Success {
			st.Failures++
		}
	}
	switch {
	case st.Failures >= 2:
		st.Level = model.EscalationEmergency
	case st.Failures == 1:
		st.Level = model.EscalationElevated
	}
	if f.CountdownSec > 0 && f.Status == model.FindingActive {
		deadline := f.RaisedAt.Add(time.Duration(f.CountdownSec) * time.Second)
		st.Deadline = &deadline
	}
	return st
}

// RecordBolus logs an administered fluid bolus. Once cumulative volume
// reaches the weight-derived cap, further boluses are refused until a
// reassessment is logged.
func (e *Engine) RecordBolus(volumeML float64, by string) (model.BolusState, error) {
	if err := e.ensureOpen(); err != nil {
		return model.BolusState{}, err
	}
	if volumeML <= 0 {
		return model.BolusState{}, ErrInvalidVolume
	}
	if st := e.BolusState(); st.Blocked {
		return st, ErrBolusBlocked
	}
	e.state.Boluses = append(e.state.Boluses, model.Bolus{
		VolumeML:   volumeML,
		RecordedBy: by,
		RecordedAt: e.now(),
	})
	e.touch()
	return e.BolusState(), nil
}

// BolusState derives cumulative fluid state. Blocked means the cap is
// reached and no reassessment has been logged since the last bolus; every
// bolus past the cap needs a fresh reassessment before it.
func (e *Engine) BolusState() model.BolusState {
	st := model.BolusState{
		CapML: e.pack.Bolus.CapPerKg * e.state.Session.Patient.WeightKg,
	}
	var lastBolus, lastReassessment time.Time
	for _, b := range e.state.Boluses {
		st.TotalML += b.VolumeML
		if b.RecordedAt.After(lastBolus) {
			lastBolus = b.RecordedAt
		}
	}
	for _, r := range e.state.Reassessments {
		if r.RecordedAt.After(lastReassessment) {
			lastReassessment = r.RecordedAt
		}
	}
	if st.TotalML >= st.CapML && !lastReassessment.After(lastBolus) {
		st.Blocked = true
	}
	return st
}

// RecordReassessment logs a reassessment checkpoint. It lifts an active
// bolus block.
func (e *Engine) RecordReassessment(note, by string) (model.Reassessment, error) {
	if err := e.ensureOpen(); err != nil {
		return model.Reassessment{}, err
	}
	r := model.Reassessment{
		Note:       strings.TrimSpace(note),
		RecordedBy: by,
		RecordedAt: e.now(),
	}
	e.state.Reassessments = append(e.state.Reassessments, r)
	e.touch()
	return r, nil
}

// EscalationState aggregates the per-finding intervention states and the
// fluid state. The session level is the worst individual level.
func (e *Engine) EscalationState() model.EscalationState {
	st := model.EscalationState{
		Level:         model.EscalationNone,
		Interventions: []model.InterventionState{},
		Bolus:         e.BolusState(),
	}
	for i := range e.state.Findings {
		f := &e.state.Findings[i]
		if f.Status != model.FindingActive {
			continue
		}
		iv := e.interventionState(f)
		st.Interventions = append(st.Interventions, iv)
		if levelRank(iv.Level) > levelRank(st.Level) {
			st.Level = iv.Level
		}
	}
	return st
}

func levelRank(l model.EscalationLevel) int {
	switch l {
	case model.EscalationEmergency:
		return 2
	case model.EscalationElevated:
		return 1
	}
	return 0
}

// Timers returns the advisory countdowns of active findings that declared
// one. Expired timers report zero remaining seconds and stay listed until
// their finding settles.
func (e *Engine) Timers() []model.TimerState {
	now := e.now()
	timers := []model.TimerState{}
	for i := range e.state.Findings {
		f := &e.state.Findings[i]
		if f.Status != model.FindingActive || f.CountdownSec <= 0 {
			continue
		}
		deadline := f.RaisedAt.Add(time.Duration(f.CountdownSec) * time.Second)
		remaining := int(deadline.Sub(now) / time.Second)
		if remaining < 0 {
			remaining = 0
		}
		timers = append(timers, model.TimerState{
			FindingID:    f.ID,
			Code:         f.Code,
			Title:        f.Title,
			Deadline:     deadline,
			RemainingSec: remaining,
		})
	}
	return timers
}
