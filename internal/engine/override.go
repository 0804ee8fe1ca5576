package engine

import (
	"pedtriage/internal/model"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// criticalReasonMinChars is the minimum number of non-space characters a
// reason must carry to bypass a critical target.
const criticalReasonMinChars = 20

// OverrideFinding bypasses one active finding and logs the override.
// Critical targets demand a substantive reason and are flagged for audit;
// the finding stops blocking but keeps its override reference.
func (e *Engine) OverrideFinding(findingID, reason, by string) (model.Override, error) {
	if err := e.ensureOpen(); err != nil {
		return model.Override{}, err
	}
	f := e.state.Finding(findingID)
	if f == nil {
		return model.Override{}, ErrUnknownFinding
	}
	if f.Status != model.FindingActive {
		return model.Override{}, ErrFindingSettled
	}
	if !reasonAdequate(f.Severity, reason) {
		return model.Override{}, ErrReasonRequired
	}
	ov := e.appendOverride(model.Override{
		ClinicianID: by,
		Target:      model.TargetFinding,
		FindingID:   f.ID,
		Severity:    f.Severity,
		Reason:      strings.TrimSpace(reason),
		AuditFlag:   f.Severity == model.SeverityCritical,
	})
	now := e.now()
	f.Status = model.FindingOverridden
	f.ResolvedAt = &now
	f.OverrideID = ov.ID
	e.touch()
	return ov, nil
}

// OverridePhaseGate bypasses the current phase gate and advances despite
// missing fields or unresolved findings. Blocking findings stay active;
// the bypass covers this one gate only, and each later gate they block
// needs its own override. Severity follows the worst blocker.
func (e *Engine) OverridePhaseGate(reason, by string) (model.Override, model.PhaseValidationResult, error) {
	if err := e.ensureOpen(); err != nil {
		return model.Override{}, model.PhaseValidationResult{}, err
	}
	rec := e.state.Assessment.Record(e.state.Assessment.Current)
	if rec.CompletedAt != nil {
		return model.Override{}, model.PhaseValidationResult{}, ErrAssessmentDone
	}
	result := e.Validate()
	if result.CanAdvance {
		return model.Override{}, result, ErrGateClear
	}
	severity := model.SeverityUrgent
	if len(result.Unresolved) > 0 {
		severity = model.SeverityCritical
	}
	if !reasonAdequate(severity, reason) {
		return model.Override{}, result, ErrReasonRequired
	}
	ov := e.appendOverride(model.Override{
		ClinicianID: by,
		Target:      model.TargetPhaseGate,
		Phase:       result.Phase,
		Severity:    severity,
		Reason:      strings.TrimSpace(reason),
		AuditFlag:   severity == model.SeverityCritical,
	})
	now := e.now()
	rec.CompletedAt = &now
	if next, ok := model.NextPhase(result.Phase); ok {
		e.state.Assessment.Current = next
		if nr := e.state.Assessment.Record(next); nr.EnteredAt == nil {
			nr.EnteredAt = &now
		}
	}
	e.state.Assessment.UpdatedAt = now
	e.touch()
	return ov, result, nil
}

// Overrides returns the append-only override log in sequence order.
func (e *Engine) Overrides() []model.Override {
	out := make([]model.Override, len(e.state.Overrides))
	copy(out, e.state.Overrides)
	return out
}

func (e *Engine) appendOverride(ov model.Override) model.Override {
	ov.ID = uuid.NewString()
	ov.SessionID = e.state.Session.ID
	ov.Seq = int64(len(e.state.Overrides) + 1)
	ov.CreatedAt = e.now()
	e.state.Overrides = append(e.state.Overrides, ov)
	return ov
}

// reasonAdequate enforces the severity-gated reason rule: any bypass needs
// a non-empty reason, a critical bypass at least criticalReasonMinChars
// non-space characters.
func reasonAdequate(severity model.Severity, reason string) bool {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return false
	}
	if severity != model.SeverityCritical {
		return true
	}
	n := 0
	for _, r := range trimmed {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n >= criticalReasonMinChars
}
