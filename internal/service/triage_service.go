package service

import (
	"context"
	"pedtriage/internal/engine"
	"pedtriage/internal/model"
	"pedtriage/internal/repository"

	"go.uber.org/zap"
)

// TriageService runs the clinical operations of a session: the question
// flow, the phased assessment, findings and overrides, dosing and the
// escalation policy. Every mutation goes through the session service lock;
// broadcasts and archive events fan out after the engine has accepted it.
type TriageService struct {
	sessions  *SessionService
	archive   *ArchiveService
	overrides repository.OverrideRepo
	logger    *zap.Logger

	broadcaster Broadcaster
}

// PhaseView is the read model for the current assessment phase.
type PhaseView struct {
	Spec       model.PhaseSpec             `json:"spec"`
	Record     model.PhaseRecord           `json:"record"`
	Validation model.PhaseValidationResult `json:"validation"`
}

// ObservationResult reports what one recorded observation changed.
type ObservationResult struct {
	Raised     []model.Finding             `json:"raised"`
	Resolved   []model.Finding             `json:"resolved"`
	Validation model.PhaseValidationResult `json:"validation"`
}

func NewTriageService(
	sessions *SessionService,
	archive *ArchiveService,
	overrides repository.OverrideRepo,
	logger *zap.Logger,
) *TriageService {
	return &TriageService{
		sessions:  sessions,
		archive:   archive,
		overrides: overrides,
		logger:    logger,
	}
}

// SetBroadcaster sets the WebSocket broadcaster (called after hub creation)
func (s *TriageService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CurrentQuestion returns the question to ask next, or nil when the flow
// is complete.
func (s *TriageService) CurrentQuestion(ctx context.Context, sessionID string) (*model.Question, error) {
	var q *model.Question
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		q = eng.CurrentQuestion()
		return nil
	})
	return q, err
}

// SubmitAnswer records an answer to the current question. A matched
// critical trigger comes back as a raised finding; the result also carries
// the next question so the lead display can move on immediately.
func (s *TriageService) SubmitAnswer(ctx context.Context, sessionID, questionID string, value model.AnswerValue, by string) (model.AnswerResult, error) {
	var result model.AnswerResult
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		result, err = eng.SubmitAnswer(questionID, value, by)
		if err != nil {
			return err
		}
		state := eng.State()
		s.archive.Record(state, model.EventQuestionAnswered, map[string]any{
			"questionId": questionID,
			"answeredBy": by,
		})
		if result.Finding != nil {
			s.archive.Record(state, model.EventFindingRaised, map[string]any{
				"findingId": result.Finding.ID,
				"code":      result.Finding.Code,
				"severity":  result.Finding.Severity,
			})
		}
		return nil
	})
	if err != nil {
		return model.AnswerResult{}, err
	}

	if s.broadcaster != nil {
		if result.Finding != nil {
			s.broadcaster.BroadcastToSession(sessionID, "finding_raised", result.Finding)
		}
		s.broadcaster.BroadcastToSession(sessionID, "question_presented", map[string]any{
			"question": result.Next,
			"done":     result.Done,
		})
	}
	return result, nil
}

// Phase returns the current phase with its observations and live validation.
func (s *TriageService) Phase(ctx context.Context, sessionID string) (PhaseView, error) {
	var view PhaseView
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		view.Spec = *eng.CurrentPhase()
		if rec := eng.State().Assessment.Record(view.Spec.Phase); rec != nil {
			view.Record = *rec
		}
		view.Validation = eng.Validate()
		return nil
	})
	return view, err
}

// RecordObservation stores one observed value. Phase checks run right away,
// so a failing value raises its finding here and a passing re-observation
// settles it.
func (s *TriageService) RecordObservation(ctx context.Context, sessionID, field string, value model.AnswerValue, by string) (ObservationResult, error) {
	var result ObservationResult
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		activeBefore := make(map[string]bool)
		for _, f := range eng.State().Active() {
			activeBefore[f.ID] = true
		}

		raised, err := eng.RecordObservation(field, value, by)
		if err != nil {
			return err
		}
		state := eng.State()
		s.archive.Record(state, model.EventObservationRecorded, map[string]any{
			"field":      field,
			"recordedBy": by,
		})
		for i := range raised {
			s.archive.Record(state, model.EventFindingRaised, map[string]any{
				"findingId": raised[i].ID,
				"code":      raised[i].Code,
				"severity":  raised[i].Severity,
			})
		}
		// findings auto-resolved by this observation
		var resolved []model.Finding
		for i := range state.Findings {
			f := state.Findings[i]
			if activeBefore[f.ID] && f.Status == model.FindingResolved {
				resolved = append(resolved, f)
				s.archive.Record(state, model.EventFindingResolved, map[string]any{
					"findingId": f.ID,
					"code":      f.Code,
				})
			}
		}
		result = ObservationResult{
			Raised:     raised,
			Resolved:   resolved,
			Validation: eng.Validate(),
		}
		return nil
	})
	if err != nil {
		return ObservationResult{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "observation_recorded", map[string]any{
			"field":      field,
			"validation": result.Validation,
		})
		for i := range result.Raised {
			s.broadcaster.BroadcastToSession(sessionID, "finding_raised", result.Raised[i])
		}
		for i := range result.Resolved {
			s.broadcaster.BroadcastToSession(sessionID, "finding_resolved", result.Resolved[i])
		}
	}
	return result, nil
}

// AdvancePhase completes the current phase when its gate is clear. On
// ErrPhaseBlocked the returned validation lists what is in the way.
func (s *TriageService) AdvancePhase(ctx context.Context, sessionID, by string) (model.PhaseValidationResult, error) {
	var result model.PhaseValidationResult
	var entered model.Phase
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		result, err = eng.Advance()
		if err != nil {
			return err
		}
		state := eng.State()
		entered = state.Assessment.Current
		s.archive.Record(state, model.EventPhaseAdvanced, map[string]any{
			"completed":  result.Phase,
			"entered":    entered,
			"advancedBy": by,
		})
		return nil
	})
	if err != nil {
		return result, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "phase_advanced", map[string]any{
			"completed": result.Phase,
			"entered":   entered,
		})
	}
	return result, nil
}

// Findings returns every finding of the session, settled ones included.
func (s *TriageService) Findings(ctx context.Context, sessionID string) ([]model.Finding, error) {
	var findings []model.Finding
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		state := eng.State()
		findings = make([]model.Finding, len(state.Findings))
		copy(findings, state.Findings)
		return nil
	})
	return findings, err
}

// ResolveFinding closes an active finding with a resolution note.
func (s *TriageService) ResolveFinding(ctx context.Context, sessionID, findingID, note, by string) (model.Finding, error) {
	var finding model.Finding
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		f, err := eng.ResolveFinding(findingID, note, by)
		if err != nil {
			return err
		}
		finding = *f
		s.archive.Record(eng.State(), model.EventFindingResolved, map[string]any{
			"findingId":  finding.ID,
			"code":       finding.Code,
			"resolvedBy": by,
		})
		return nil
	})
	if err != nil {
		return model.Finding{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "finding_resolved", finding)
	}
	return finding, nil
}

// OverrideFinding bypasses an active finding on clinician authority. The
// override is archived and written to the durable audit log.
func (s *TriageService) OverrideFinding(ctx context.Context, sessionID, findingID, reason, by string) (model.Override, error) {
	var override model.Override
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		override, err = eng.OverrideFinding(findingID, reason, by)
		if err != nil {
			return err
		}
		s.appendOverride(ctx, eng, override)
		return nil
	})
	if err != nil {
		return model.Override{}, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "override_logged", override)
	}
	return override, nil
}

// OverridePhaseGate forces the phase advance past a closed gate. Blocking
// findings stay active; only this one gate is bypassed.
func (s *TriageService) OverridePhaseGate(ctx context.Context, sessionID, reason, by string) (model.Override, model.PhaseValidationResult, error) {
	var override model.Override
	var result model.PhaseValidationResult
	var entered model.Phase
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		override, result, err = eng.OverridePhaseGate(reason, by)
		if err != nil {
			return err
		}
		s.appendOverride(ctx, eng, override)
		entered = eng.State().Assessment.Current
		s.archive.Record(eng.State(), model.EventPhaseAdvanced, map[string]any{
			"completed":  result.Phase,
			"entered":    entered,
			"overrideId": override.ID,
		})
		return nil
	})
	if err != nil {
		return model.Override{}, result, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "override_logged", override)
		s.broadcaster.BroadcastToSession(sessionID, "phase_advanced", map[string]any{
			"completed":  result.Phase,
			"entered":    entered,
			"overridden": true,
		})
	}
	return override, result, nil
}

// Overrides returns the override log of a session in sequence order.
func (s *TriageService) Overrides(ctx context.Context, sessionID string) ([]model.Override, error) {
	var overrides []model.Override
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		overrides = eng.Overrides()
		return nil
	})
	return overrides, err
}

// FlaggedOverrides returns recent critical overrides across all sessions
// for the audit review surface.
func (s *TriageService) FlaggedOverrides(ctx context.Context, limit int64) ([]*model.Override, error) {
	return s.overrides.Flagged(ctx, limit)
}

// Differentials scores the differential diagnoses against the accumulated
// evidence and proposes the most discriminating next question.
func (s *TriageService) Differentials(ctx context.Context, sessionID string) (model.RankedDifferentials, error) {
	var ranked model.RankedDifferentials
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		ranked = eng.Differentials()
		return nil
	})
	return ranked, err
}

// Dose computes a drug dose for the session patient and archives it.
func (s *TriageService) Dose(ctx context.Context, sessionID, drugID, optionKey, by string) (model.Dose, error) {
	var dose model.Dose
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		dose, err = eng.Dose(drugID, optionKey)
		if err != nil {
			return err
		}
		s.archive.Record(eng.State(), model.EventDoseComputed, map[string]any{
			"drugId":     drugID,
			"option":     optionKey,
			"amount":     dose.Amount,
			"unit":       dose.Unit,
			"computedBy": by,
		})
		return nil
	})
	return dose, err
}

// RecordAttempt logs an intervention attempt. Failures walk the escalation
// ladder, so a changed level goes straight to the team display.
func (s *TriageService) RecordAttempt(ctx context.Context, sessionID, findingID string, success bool, note, by string) (model.InterventionState, error) {
	var intervention model.InterventionState
	var escalated bool
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		intervention, escalated, err = eng.RecordAttempt(findingID, success, note, by)
		if err != nil {
			return err
		}
		state := eng.State()
		s.archive.Record(state, model.EventAttemptRecorded, map[string]any{
			"findingId":  findingID,
			"success":    success,
			"recordedBy": by,
		})
		if escalated {
			s.archive.Record(state, model.EventEscalationRaised, map[string]any{
				"findingId": findingID,
				"level":     intervention.Level,
			})
		}
		return nil
	})
	if err != nil {
		return model.InterventionState{}, err
	}

	if s.broadcaster != nil && escalated {
		s.broadcaster.BroadcastToSession(sessionID, "escalation_raised", intervention)
	}
	return intervention, nil
}

// RecordBolus adds a fluid bolus to the cumulative volume. Past the
// weight-based cap the engine refuses until a reassessment is logged; the
// refusal itself is archived and pushed to the team.
func (s *TriageService) RecordBolus(ctx context.Context, sessionID string, volumeML float64, by string) (model.BolusState, error) {
	var bolus model.BolusState
	var blocked bool
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		bolus, err = eng.RecordBolus(volumeML, by)
		state := eng.State()
		if err == engine.ErrBolusBlocked {
			blocked = true
			s.archive.Record(state, model.EventBolusBlocked, map[string]any{
				"volumeMl":   volumeML,
				"totalMl":    bolus.TotalML,
				"capMl":      bolus.CapML,
				"recordedBy": by,
			})
			return err
		}
		if err != nil {
			return err
		}
		s.archive.Record(state, model.EventBolusRecorded, map[string]any{
			"volumeMl":   volumeML,
			"totalMl":    bolus.TotalML,
			"recordedBy": by,
		})
		return nil
	})

	if blocked && s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, "bolus_blocked", bolus)
	}
	return bolus, err
}

// RecordReassessment logs a patient reassessment, which re-opens the fluid
// pathway when the cumulative cap had closed it.
func (s *TriageService) RecordReassessment(ctx context.Context, sessionID, note, by string) (model.Reassessment, error) {
	var reassessment model.Reassessment
	err := s.sessions.WithSession(ctx, sessionID, func(eng *engine.Engine) error {
		var err error
		reassessment, err = eng.RecordReassessment(note, by)
		if err != nil {
			return err
		}
		s.archive.Record(eng.State(), model.EventReassessmentLogged, map[string]any{
			"recordedBy": by,
		})
		return nil
	})
	return reassessment, err
}

// Escalation returns the combined escalation picture: per-intervention
// levels and the fluid volume state.
func (s *TriageService) Escalation(ctx context.Context, sessionID string) (model.EscalationState, error) {
	var state model.EscalationState
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		state = eng.EscalationState()
		return nil
	})
	return state, err
}

// Timers returns the countdowns attached to active critical findings.
func (s *TriageService) Timers(ctx context.Context, sessionID string) ([]model.TimerState, error) {
	var timers []model.TimerState
	err := s.sessions.ReadSession(ctx, sessionID, func(eng *engine.Engine) error {
		timers = eng.Timers()
		return nil
	})
	return timers, err
}

// appendOverride archives the override and writes it to the audit
// collection. Called under the session lock so the sequence order in the
// store matches the order the engine assigned.
func (s *TriageService) appendOverride(ctx context.Context, eng *engine.Engine, override model.Override) {
	s.archive.Record(eng.State(), model.EventOverrideLogged, map[string]any{
		"overrideId": override.ID,
		"seq":        override.Seq,
		"target":     override.Target,
		"severity":   override.Severity,
	})
	if err := s.overrides.Append(ctx, &override); err != nil {
		s.logger.Error("override audit append failed",
			zap.String("sessionId", override.SessionID),
			zap.Int64("seq", override.Seq),
			zap.Error(err))
	}
}
