package engine

import (
	"errors"
	"fmt"
	"pedtriage/internal/model"
)

var (
	ErrSessionClosed  = errors.New("session is closed")
	ErrFlowComplete   = errors.New("triage flow is already complete")
	ErrAssessmentDone = errors.New("assessment is already complete")
	ErrPhaseBlocked   = errors.New("phase requirements are not met")
	ErrGateClear      = errors.New("phase gate is already clear")
	ErrUnknownDrug    = errors.New("unknown drug")
	ErrUnknownDoseKey = errors.New("unknown dose option")
	ErrInvalidWeight  = errors.New("weight must be a positive number of kilograms")
	ErrInvalidVolume  = errors.New("bolus volume must be positive")
	ErrUnknownField   = errors.New("field is not declared by any phase")
	ErrUnknownFinding = errors.New("finding not found")
	ErrFindingSettled = errors.New("finding is not active")
	ErrNotResolvable  = errors.New("latest observation still fails the check that raised this finding")
	ErrBolusBlocked   = errors.New("cumulative fluid cap reached, log a reassessment before the next bolus")
	ErrReasonRequired = errors.New("a substantive reason is required")
	ErrInvalidPatient = errors.New("invalid patient context")
)

// QuestionMismatchError reports an answer submitted for a question that is
// not the one currently presented.
type QuestionMismatchError struct {
	Want string
	Got  string
}

func (e *QuestionMismatchError) Error() string {
	return fmt.Sprintf("answer targets question %q, current question is %q", e.Got, e.Want)
}

// AnswerTypeError reports a value whose shape does not match the question
// type, for example a number submitted for a boolean question.
type AnswerTypeError struct {
	QuestionID string
	Want       model.QuestionType
}

func (e *AnswerTypeError) Error() string {
	return fmt.Sprintf("question %q expects a %s answer", e.QuestionID, e.Want)
}

// FieldTypeError reports an observation whose value does not match the
// declared kind of the phase field.
type FieldTypeError struct {
	Field string
	Want  model.FieldKind
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q expects a %s value", e.Field, e.Want)
}

// UnknownOptionError reports an option value outside the declared set of a
// question or phase field.
type UnknownOptionError struct {
	Scope  string
	Option string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%q is not an option of %q", e.Option, e.Scope)
}

// RangeError rejects a numeric answer outside the declared bounds of its
// question. Out-of-range input never reaches trigger evaluation.
type RangeError struct {
	Scope string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %g is outside the plausible range [%g, %g]", e.Scope, e.Value, e.Min, e.Max)
}
