package model

import "time"

// Phase is one step of the ABCDE primary assessment
type Phase string

const (
	PhaseAirway      Phase = "airway"
	PhaseBreathing   Phase = "breathing"
	PhaseCirculation Phase = "circulation"
	PhaseDisability  Phase = "disability"
	PhaseExposure    Phase = "exposure"
)

// PhaseOrder returns the fixed assessment order.
func PhaseOrder() []Phase {
	return []Phase{PhaseAirway, PhaseBreathing, PhaseCirculation, PhaseDisability, PhaseExposure}
}

// NextPhase returns the phase after p, or false at exposure.
func NextPhase(p Phase) (Phase, bool) {
	order := PhaseOrder()
	for i, ph := range order {
		if ph == p && i+1 < len(order) {
			return order[i+1], true
		}
	}
	return "", false
}

// FieldKind defines the value shape of an observation field
type FieldKind string

const (
	FieldBool   FieldKind = "bool"
	FieldNumber FieldKind = "number"
	FieldOption FieldKind = "option"
)

// PhaseField is a required observation of a phase, defined by the content pack
type PhaseField struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Unit    string    `json:"unit,omitempty"`
	Options []Option  `json:"options,omitempty"`
}

// PhaseCheck is a clinical-threshold rule applied to a recorded observation.
// Unlike question triggers, all checks of a phase are evaluated; a phase can
// raise several findings at once.
type PhaseCheck struct {
	TriggerSpec

	Field string `json:"field"`
}

// VitalCheck binds an observation field to an age-banded reference range
type VitalCheck struct {
	Field string `json:"field"`
	Vital string `json:"vital"`
}

// PhaseSpec is the content-pack definition of one assessment phase.
type PhaseSpec struct {
	Phase  Phase        `json:"phase"`
	Fields []PhaseField `json:"fields"`
	Checks []PhaseCheck `json:"checks,omitempty"`
	Vitals []VitalCheck `json:"vitals,omitempty"`
}

// Observation is a single recorded value. Values are never updated in
// place; a revision appends a new timestamped entry.
type Observation struct {
	Field      string    `json:"field" bson:"field"`
	Bool       *bool     `json:"bool,omitempty" bson:"bool,omitempty"`
	Number     *float64  `json:"number,omitempty" bson:"number,omitempty"`
	Option     string    `json:"option,omitempty" bson:"option,omitempty"`
	RecordedBy string    `json:"recordedBy" bson:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}

// PhaseRecord holds the append-only observation history of one phase.
type PhaseRecord struct {
	Phase       Phase         `json:"phase" bson:"phase"`
	Entries     []Observation `json:"entries,omitempty" bson:"entries,omitempty"`
	EnteredAt   *time.Time    `json:"enteredAt,omitempty" bson:"enteredAt,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// Latest returns the most recent entry for field, or nil.
func (r *PhaseRecord) Latest(field string) *Observation {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Field == field {
			return &r.Entries[i]
		}
	}
	return nil
}

// Snapshot is the assessment state of a session across all phases.
type Snapshot struct {
	Current   Phase         `json:"current" bson:"current"`
	Records   []PhaseRecord `json:"records" bson:"records"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// NewSnapshot returns a snapshot positioned at airway with empty records.
func NewSnapshot() Snapshot {
	s := Snapshot{Current: PhaseAirway}
	for _, p := range PhaseOrder() {
		s.Records = append(s.Records, PhaseRecord{Phase: p})
	}
	return s
}

// Clone returns a deep copy safe to hand to another goroutine while the
// original keeps being mutated under the session lock.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Records = make([]PhaseRecord, len(s.Records))
	for i, r := range s.Records {
		cr := r
		if r.Entries != nil {
			cr.Entries = make([]Observation, len(r.Entries))
			copy(cr.Entries, r.Entries)
		}
		out.Records[i] = cr
	}
	return out
}

// Record returns the record for phase p, or nil for an unknown phase.
func (s *Snapshot) Record(p Phase) *PhaseRecord {
	for i := range s.Records {
		if s.Records[i].Phase == p {
			return &s.Records[i]
		}
	}
	return nil
}

// Latest returns the most recent observation of field within phase p.
func (s *Snapshot) Latest(p Phase, field string) *Observation {
	if r := s.Record(p); r != nil {
		return r.Latest(field)
	}
	return nil
}

// FieldError is a missing or malformed observation blocking a phase
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// VitalFlag is an advisory out-of-range vital. It never gates.
type VitalFlag struct {
	Field   string  `json:"field"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// PhaseValidationResult is the gate decision for the current phase.
// CanAdvance is true exactly when Missing and Unresolved are both empty.
type PhaseValidationResult struct {
	Phase      Phase        `json:"phase"`
	Missing    []FieldError `json:"missing"`
	Unresolved []Finding    `json:"unresolved"`
	Warnings   []VitalFlag  `json:"warnings,omitempty"`
	CanAdvance bool         `json:"canAdvance"`
}
