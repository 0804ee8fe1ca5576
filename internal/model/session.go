package model

import "time"

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// TriageStage tracks where the question flow currently is
type TriageStage string

const (
	StageCriticalCheck TriageStage = "critical_check"
	StageMainProblem   TriageStage = "main_problem"
	StagePathway       TriageStage = "pathway"
	StageComplete      TriageStage = "complete"
)

// Session is one emergency encounter.
type Session struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	Status    SessionStatus  `json:"status" bson:"status"`
	Patient   PatientContext `json:"patient" bson:"patient"`
	Pathway   Pathway        `json:"pathway,omitempty" bson:"pathway,omitempty"`
	LeadID    string         `json:"leadId" bson:"leadId"`
	Edits     []PatientEdit  `json:"edits,omitempty" bson:"edits,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	ClosedAt  *time.Time     `json:"closedAt,omitempty" bson:"closedAt,omitempty"`
}

// SessionState is the complete restorable state of an encounter. The cache
// stores it verbatim; GET handlers expose it read-only.
type SessionState struct {
	Session       Session        `json:"session" bson:"session"`
	Stage         TriageStage    `json:"stage" bson:"stage"`
	Answers       []AnswerRecord `json:"answers,omitempty" bson:"answers,omitempty"`
	Assessment    Snapshot       `json:"assessment" bson:"assessment"`
	Findings      []Finding      `json:"findings,omitempty" bson:"findings,omitempty"`
	Attempts      []Attempt      `json:"attempts,omitempty" bson:"attempts,omitempty"`
	Boluses       []Bolus        `json:"boluses,omitempty" bson:"boluses,omitempty"`
	Reassessments []Reassessment `json:"reassessments,omitempty" bson:"reassessments,omitempty"`
	Overrides     []Override     `json:"overrides,omitempty" bson:"overrides,omitempty"`
	Evidence      []string       `json:"evidence,omitempty" bson:"evidence,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Finding returns the finding with the given id, or nil.
func (s *SessionState) Finding(id string) *Finding {
	for i := range s.Findings {
		if s.Findings[i].ID == id {
			return &s.Findings[i]
		}
	}
	return nil
}

// Active returns copies of the findings still active.
func (s *SessionState) Active() []Finding {
	var out []Finding
	for i := range s.Findings {
		if s.Findings[i].Status == FindingActive {
			out = append(out, s.Findings[i])
		}
	}
	return out
}

// Blocking returns the active critical findings gating the current phase.
func (s *SessionState) Blocking() []Finding {
	var out []Finding
	for i := range s.Findings {
		if s.Findings[i].Blocking() {
			out = append(out, s.Findings[i])
		}
	}
	return out
}

// HasEvidence reports whether key was already accumulated.
func (s *SessionState) HasEvidence(key string) bool {
	for _, e := range s.Evidence {
		if e == key {
			return true
		}
	}
	return false
}

// AddEvidence appends key if it is new. Order of first appearance is kept.
func (s *SessionState) AddEvidence(key string) {
	if key == "" || s.HasEvidence(key) {
		return
	}
	s.Evidence = append(s.Evidence, key)
}
