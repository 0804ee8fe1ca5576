package model

import "time"

// OverrideTarget says what kind of gate was bypassed
type OverrideTarget string

const (
	TargetFinding   OverrideTarget = "finding"
	TargetPhaseGate OverrideTarget = "phase_gate"
)

// Override is one entry of the append-only override log. Seq is assigned
// under the session lock and is strictly monotonic per session.
type Override struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	SessionID   string         `json:"sessionId" bson:"sessionId"`
	Seq         int64          `json:"seq" bson:"seq"`
	ClinicianID string         `json:"clinicianId" bson:"clinicianId"`
	Target      OverrideTarget `json:"target" bson:"target"`
	FindingID   string         `json:"findingId,omitempty" bson:"findingId,omitempty"`
	Phase       Phase          `json:"phase,omitempty" bson:"phase,omitempty"`
	Severity    Severity       `json:"severity" bson:"severity"`
	Reason      string         `json:"reason" bson:"reason"`
	AuditFlag   bool           `json:"auditFlag" bson:"auditFlag"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
}
