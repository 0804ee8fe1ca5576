package model

import "time"

// EscalationLevel tracks how far an intervention has been escalated
type EscalationLevel string

const (
	EscalationNone      EscalationLevel = "none"
	EscalationElevated  EscalationLevel = "elevated"
	EscalationEmergency EscalationLevel = "emergency"
)

// Attempt is a recorded intervention attempt outcome.
type Attempt struct {
	FindingID  string    `json:"findingId" bson:"findingId"`
	Success    bool      `json:"success" bson:"success"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`
	RecordedBy string    `json:"recordedBy" bson:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}

// InterventionState is the escalation-policy view of one active finding.
type InterventionState struct {
	FindingID string          `json:"findingId" bson:"findingId"`
	Code      string          `json:"code" bson:"code"`
	Attempts  int             `json:"attempts" bson:"attempts"`
	Failures  int             `json:"failures" bson:"failures"`
	Level     EscalationLevel `json:"level" bson:"level"`
	StartedAt time.Time       `json:"startedAt" bson:"startedAt"`
	Deadline  *time.Time      `json:"deadline,omitempty" bson:"deadline,omitempty"`
}

// TimerState is an advisory countdown exposed for polling. The engine
// never fires anything when it expires.
type TimerState struct {
	FindingID    string    `json:"findingId"`
	Code         string    `json:"code"`
	Title        string    `json:"title"`
	Deadline     time.Time `json:"deadline"`
	RemainingSec int       `json:"remainingSec"`
}

// Bolus is one administered fluid bolus.
type Bolus struct {
	VolumeML   float64   `json:"volumeMl" bson:"volumeMl"`
	RecordedBy string    `json:"recordedBy" bson:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}

// BolusState tracks cumulative fluid volume against the weight-derived cap.
type BolusState struct {
	TotalML float64 `json:"totalMl"`
	CapML   float64 `json:"capMl"`
	Blocked bool    `json:"blocked"`
}

// Reassessment is a logged reassessment checkpoint. Logging one unblocks
// bolus suggestions after the cap was crossed.
type Reassessment struct {
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`
	RecordedBy string    `json:"recordedBy" bson:"recordedBy"`
	RecordedAt time.Time `json:"recordedAt" bson:"recordedAt"`
}

// EscalationState is the whole-session escalation view.
type EscalationState struct {
	Level         EscalationLevel     `json:"level"`
	Interventions []InterventionState `json:"interventions"`
	Bolus         BolusState          `json:"bolus"`
}
