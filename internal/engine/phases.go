package engine

import (
	"fmt"
	"pedtriage/internal/model"
	"strings"
)

// CurrentPhase returns the spec of the phase the assessment is in.
func (e *Engine) CurrentPhase() *model.PhaseSpec {
	return e.pack.Phase(e.state.Assessment.Current)
}

// AssessmentComplete reports whether every phase has been completed.
func (e *Engine) AssessmentComplete() bool {
	rec := e.state.Assessment.Record(model.PhaseExposure)
	return rec != nil && rec.CompletedAt != nil
}

// RecordObservation appends a timestamped value for a declared field and
// immediately evaluates the clinical checks bound to that field. The field
// may belong to any phase, not just the current one; monitoring data often
// arrives ahead of the phase that requires it, and re-validation after an
// intervention happens behind it. Returns the findings the value raised.
func (e *Engine) RecordObservation(field string, v model.AnswerValue, by string) ([]model.Finding, error) {
	if err := e.ensureOpen(); err != nil {
		return nil, err
	}
	spec, fieldSpec := e.findField(field)
	if spec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if err := checkFieldValue(fieldSpec, v); err != nil {
		return nil, err
	}

	now := e.now()
	obs := model.Observation{
		Field:      field,
		Bool:       v.Bool,
		Number:     v.Number,
		Option:     v.Option,
		RecordedBy: by,
		RecordedAt: now,
	}
	rec := e.state.Assessment.Record(spec.Phase)
	rec.Entries = append(rec.Entries, obs)
	if rec.EnteredAt == nil {
		rec.EnteredAt = &now
	}

	if fieldSpec.Kind == model.FieldOption {
		for i := range fieldSpec.Options {
			if fieldSpec.Options[i].Value == v.Option && fieldSpec.Options[i].Evidence != "" {
				e.state.AddEvidence(fieldSpec.Options[i].Evidence)
			}
		}
	}

	var raised []model.Finding
	for i := range spec.Checks {
		check := &spec.Checks[i]
		if check.Field != field {
			continue
		}
		if predicateHolds(&check.TriggerSpec, v) {
			f := e.raiseFinding(check.Finding, model.SourcePhase, "", spec.Phase, field)
			raised = append(raised, *f)
		}
	}
	e.settleFieldFindings(spec.Phase, field)

	e.state.Assessment.UpdatedAt = now
	e.touch()
	return raised, nil
}

// findField locates the phase that declares field.
func (e *Engine) findField(field string) (*model.PhaseSpec, *model.PhaseField) {
	for i := range e.pack.Phases {
		spec := &e.pack.Phases[i]
		for j := range spec.Fields {
			if spec.Fields[j].Name == field {
				return spec, &spec.Fields[j]
			}
		}
	}
	return nil, nil
}

func checkFieldValue(f *model.PhaseField, v model.AnswerValue) error {
	switch f.Kind {
	case model.FieldBool:
		if v.Bool == nil {
			return &FieldTypeError{Field: f.Name, Want: f.Kind}
		}
	case model.FieldNumber:
		if v.Number == nil {
			return &FieldTypeError{Field: f.Name, Want: f.Kind}
		}
	case model.FieldOption:
		if v.Option == "" {
			return &FieldTypeError{Field: f.Name, Want: f.Kind}
		}
		known := false
		for i := range f.Options {
			if f.Options[i].Value == v.Option {
				known = true
				break
			}
		}
		if !known {
			return &UnknownOptionError{Scope: f.Name, Option: v.Option}
		}
	}
	return nil
}

// settleFieldFindings auto-resolves active findings raised by checks on
// field whose latest observation now passes. A finding raised by a
// threshold can only clear through a fresh value that satisfies it.
func (e *Engine) settleFieldFindings(phase model.Phase, field string) {
	for i := range e.state.Findings {
		f := &e.state.Findings[i]
		if f.Status != model.FindingActive || f.Source != model.SourcePhase {
			continue
		}
		if f.Phase != phase || f.Field != field {
			continue
		}
		if e.checkStillFails(f) {
			continue
		}
		now := e.now()
		f.Status = model.FindingResolved
		f.ResolvedAt = &now
		f.Resolution = "re-validated by a new observation"
	}
}

// checkStillFails re-evaluates the check that raised f against the latest
// observation of its field. With no observation at all the check is
// treated as still failing.
func (e *Engine) checkStillFails(f *model.Finding) bool {
	spec := e.pack.Phase(f.Phase)
	if spec == nil {
		return false
	}
	obs := e.state.Assessment.Latest(f.Phase, f.Field)
	if obs == nil {
		return true
	}
	v := model.AnswerValue{Bool: obs.Bool, Number: obs.Number, Option: obs.Option}
	for i := range spec.Checks {
		check := &spec.Checks[i]
		if check.Field != f.Field || check.Finding.Code != f.Code {
			continue
		}
		if predicateHolds(&check.TriggerSpec, v) {
			return true
		}
	}
	return false
}

// Validate computes the gate decision for the current phase: which
// required fields are still missing, which critical findings block, and
// advisory vital flags. CanAdvance is true exactly when the first two
// lists are empty; warnings never gate.
func (e *Engine) Validate() model.PhaseValidationResult {
	spec := e.CurrentPhase()
	result := model.PhaseValidationResult{
		Phase:      spec.Phase,
		Missing:    []model.FieldError{},
		Unresolved: []model.Finding{},
	}
	rec := e.state.Assessment.Record(spec.Phase)
	for i := range spec.Fields {
		if rec.Latest(spec.Fields[i].Name) == nil {
			result.Missing = append(result.Missing, model.FieldError{
				Field:  spec.Fields[i].Name,
				Reason: "no observation recorded",
			})
		}
	}
	result.Unresolved = append(result.Unresolved, e.state.Blocking()...)
	result.Warnings = e.vitalWarnings(spec, rec)
	result.CanAdvance = len(result.Missing) == 0 && len(result.Unresolved) == 0
	return result
}

// vitalWarnings compares latest numeric observations against the
// age-banded reference ranges.
func (e *Engine) vitalWarnings(spec *model.PhaseSpec, rec *model.PhaseRecord) []model.VitalFlag {
	if len(spec.Vitals) == 0 {
		return nil
	}
	rng, ok := e.pack.VitalRange(e.state.Session.Patient.AgeCategory)
	if !ok {
		return nil
	}
	age := string(e.state.Session.Patient.AgeCategory)
	var flags []model.VitalFlag
	for _, vc := range spec.Vitals {
		obs := rec.Latest(vc.Field)
		if obs == nil || obs.Number == nil {
			continue
		}
		value := *obs.Number
		var message string
		switch vc.Vital {
		case "hr":
			if value < rng.HRMin {
				message = fmt.Sprintf("heart rate %g below the %s reference minimum %g", value, age, rng.HRMin)
			} else if value > rng.HRMax {
				message = fmt.Sprintf("heart rate %g above the %s reference maximum %g", value, age, rng.HRMax)
			}
		case "rr":
			if value < rng.RRMin {
				message = fmt.Sprintf("respiratory rate %g below the %s reference minimum %g", value, age, rng.RRMin)
			} else if value > rng.RRMax {
				message = fmt.Sprintf("respiratory rate %g above the %s reference maximum %g", value, age, rng.RRMax)
			}
		case "sbp":
			if value < rng.SBPMin {
				message = fmt.Sprintf("systolic pressure %g below the %s hypotension threshold %g", value, age, rng.SBPMin)
			}
		}
		if message != "" {
			flags = append(flags, model.VitalFlag{Field: vc.Field, Value: value, Message: message})
		}
	}
	return flags
}

// Advance completes the current phase and enters the next one. It refuses
// with ErrPhaseBlocked while the gate is closed, returning the validation
// result so the caller can show what is missing.
func (e *Engine) Advance() (model.PhaseValidationResult, error) {
	if err := e.ensureOpen(); err != nil {
		return model.PhaseValidationResult{}, err
	}
	rec := e.state.Assessment.Record(e.state.Assessment.Current)
	if rec.CompletedAt != nil {
		return model.PhaseValidationResult{}, ErrAssessmentDone
	}
	result := e.Validate()
	if !result.CanAdvance {
		return result, ErrPhaseBlocked
	}
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
	return result, nil
}

// ResolveFinding closes an active finding with a note. A finding raised by
// a phase check refuses to resolve while the latest observation of its
// field still fails that check; the caller must record a passing value
// first.
func (e *Engine) ResolveFinding(findingID, note, by string) (*model.Finding, error) {
	if err := e.ensureOpen(); err != nil {
		return nil, err
	}
	f := e.state.Finding(findingID)
	if f == nil {
		return nil, ErrUnknownFinding
	}
	if f.Status != model.FindingActive {
		return nil, ErrFindingSettled
	}
	if f.Source == model.SourcePhase && f.Field != "" && e.checkStillFails(f) {
		return nil, ErrNotResolvable
	}
	now := e.now()
	f.Status = model.FindingResolved
	f.ResolvedAt = &now
	f.Resolution = strings.TrimSpace(note)
	if f.Resolution == "" {
		f.Resolution = "resolved by " + by
	}
	e.touch()
	return f, nil
}
