package model

import "time"

// Severity of a finding. Critical findings block phase advancement;
// urgent ones surface to the sidebar without gating.
type Severity string

const (
	SeverityUrgent   Severity = "urgent"
	SeverityCritical Severity = "critical"
)

// FindingSpec is the content-pack template of an intervention finding.
type FindingSpec struct {
	Code         string   `json:"code"`
	Severity     Severity `json:"severity"`
	Title        string   `json:"title"`
	Instruction  string   `json:"instruction"`
	Rationale    string   `json:"rationale,omitempty"`
	CountdownSec int      `json:"countdownSec,omitempty"`
	Reassess     string   `json:"reassess,omitempty"`
	DoseRef      string   `json:"doseRef,omitempty"`
	ProtocolRef  string   `json:"protocolRef,omitempty"`
	Evidence     string   `json:"evidence,omitempty"`
}

type FindingStatus string

const (
	FindingActive     FindingStatus = "active"
	FindingResolved   FindingStatus = "resolved"
	FindingOverridden FindingStatus = "overridden"
)

// FindingSource says which validator raised the finding
type FindingSource string

const (
	SourceQuestion FindingSource = "question"
	SourcePhase    FindingSource = "phase"
)

// Finding is a raised intervention instruction within a session.
type Finding struct {
	FindingSpec `bson:",inline"`

	ID         string        `json:"id" bson:"_id,omitempty"`
	SessionID  string        `json:"sessionId" bson:"sessionId"`
	Source     FindingSource `json:"source" bson:"source"`
	QuestionID string        `json:"questionId,omitempty" bson:"questionId,omitempty"`
	Phase      Phase         `json:"phase,omitempty" bson:"phase,omitempty"`
	Field      string        `json:"field,omitempty" bson:"field,omitempty"`
	RaisedAt   time.Time     `json:"raisedAt" bson:"raisedAt"`
	Status     FindingStatus `json:"status" bson:"status"`
	ResolvedAt *time.Time    `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	Resolution string        `json:"resolution,omitempty" bson:"resolution,omitempty"`
	OverrideID string        `json:"overrideId,omitempty" bson:"overrideId,omitempty"`
}

// Blocking reports whether the finding currently gates phase advancement.
func (f *Finding) Blocking() bool {
	return f.Status == FindingActive && f.Severity == SeverityCritical
}
