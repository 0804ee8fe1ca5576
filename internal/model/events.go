package model

import "time"

// EventKind tags an archive record
type EventKind string

const (
	EventSessionStarted      EventKind = "session_started"
	EventQuestionAnswered    EventKind = "question_answered"
	EventObservationRecorded EventKind = "observation_recorded"
	EventFindingRaised       EventKind = "finding_raised"
	EventFindingResolved     EventKind = "finding_resolved"
	EventPhaseAdvanced       EventKind = "phase_advanced"
	EventOverrideLogged      EventKind = "override_logged"
	EventAttemptRecorded     EventKind = "attempt_recorded"
	EventEscalationRaised    EventKind = "escalation_raised"
	EventDoseComputed        EventKind = "dose_computed"
	EventBolusRecorded       EventKind = "bolus_recorded"
	EventBolusBlocked        EventKind = "bolus_blocked"
	EventReassessmentLogged  EventKind = "reassessment_logged"
	EventPatientUpdated      EventKind = "patient_updated"
	EventSessionClosed       EventKind = "session_closed"
)

// SessionEvent is one record of the append-only encounter archive: the
// patient context and assessment data as of the event, plus the active
// intervention list.
type SessionEvent struct {
	ID            string         `json:"id" bson:"_id,omitempty"`
	SessionID     string         `json:"sessionId" bson:"sessionId"`
	Seq           int64          `json:"seq" bson:"seq"`
	Kind          EventKind      `json:"kind" bson:"kind"`
	Timestamp     time.Time      `json:"timestamp" bson:"timestamp"`
	Patient       PatientContext `json:"patient" bson:"patient"`
	Assessment    Snapshot       `json:"assessment" bson:"assessment"`
	Interventions []Finding      `json:"interventions,omitempty" bson:"interventions,omitempty"`
	Detail        map[string]any `json:"detail,omitempty" bson:"detail,omitempty"`
}
