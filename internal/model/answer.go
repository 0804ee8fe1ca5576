package model

import "time"

// AnswerValue is the submitted value of a triage answer. Exactly one field
// is set, matching the question's type.
type AnswerValue struct {
	Bool    *bool    `json:"bool,omitempty"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
	Number  *float64 `json:"number,omitempty"`
}

// IsEmpty reports whether no value was supplied at all.
func (v AnswerValue) IsEmpty() bool {
	return v.Bool == nil && v.Option == "" && len(v.Options) == 0 && v.Number == nil
}

// AnswerRecord is a stored answer with what it produced.
type AnswerRecord struct {
	QuestionID string      `json:"questionId" bson:"questionId"`
	Value      AnswerValue `json:"value" bson:"value"`
	Evidence   []string    `json:"evidence,omitempty" bson:"evidence,omitempty"`
	FindingID  string      `json:"findingId,omitempty" bson:"findingId,omitempty"`
	AnsweredBy string      `json:"answeredBy" bson:"answeredBy"`
	AnsweredAt time.Time   `json:"answeredAt" bson:"answeredAt"`
}

// AnswerResult is what a submit returns: at most one finding, plus the next
// question unless the flow is done.
type AnswerResult struct {
	Finding *Finding  `json:"finding,omitempty"`
	Next    *Question `json:"next,omitempty"`
	Done    bool      `json:"done"`
}
