package model

// QuestionType defines the answer shape of a triage question
type QuestionType string

const (
	QuestionBool    QuestionType = "boolean"
	QuestionSingle  QuestionType = "single_select"
	QuestionMulti   QuestionType = "multi_select"
	QuestionNumeric QuestionType = "numeric"
)

// Pathway identifies the main-problem branch entered after the critical prefix
type Pathway string

const (
	PathwayBreathing Pathway = "breathing"
	PathwayShock     Pathway = "shock"
	PathwayNeuro     Pathway = "neuro"
	PathwayTrauma    Pathway = "trauma"
	PathwayPoisoning Pathway = "poisoning"
	PathwayAllergic  Pathway = "allergic"
)

// OptionSeverity tags an answer option for UI display and evidence weight
type OptionSeverity string

const (
	OptionNormal   OptionSeverity = "normal"
	OptionAbnormal OptionSeverity = "abnormal"
	OptionCritical OptionSeverity = "critical"
)

// Option is one selectable answer of a single- or multi-select question
type Option struct {
	Value    string         `json:"value"`
	Label    string         `json:"label"`
	Severity OptionSeverity `json:"severity"`
	// Evidence is the differential-scorer key this option contributes when
	// selected. Empty means the option carries no evidence.
	Evidence string `json:"evidence,omitempty"`
}

// TriggerOp discriminates which TriggerSpec fields are meaningful. Triggers
// are plain data; the engine owns evaluation.
type TriggerOp string

const (
	TriggerAnswerIs      TriggerOp = "answer_is"      // boolean answer equals Value
	TriggerOptionIs      TriggerOp = "option_is"      // selected option equals Option
	TriggerOptionAny     TriggerOp = "option_any"     // any selected option in Options
	TriggerNumberBelow   TriggerOp = "number_below"   // answer < Threshold
	TriggerNumberAbove   TriggerOp = "number_above"   // answer > Threshold
	TriggerNumberOutside TriggerOp = "number_outside" // answer outside [Lo, Hi]
)

// TriggerSpec raises a finding when its predicate matches the submitted
// answer. Priority orders evaluation within a question; the lowest matching
// value wins and suppresses the rest for that answer.
type TriggerSpec struct {
	Op        TriggerOp   `json:"op"`
	Priority  int         `json:"priority"`
	Value     *bool       `json:"value,omitempty"`
	Option    string      `json:"option,omitempty"`
	Options   []string    `json:"options,omitempty"`
	Threshold float64     `json:"threshold,omitempty"`
	Lo        float64     `json:"lo,omitempty"`
	Hi        float64     `json:"hi,omitempty"`
	Finding   FindingSpec `json:"finding"`
}

// EvidenceBand maps a numeric answer interval onto an evidence key. Min is
// inclusive, Max exclusive.
type EvidenceBand struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Evidence string  `json:"evidence"`
}

// Question is one step of the triage flow. The engine presents exactly one
// at a time; order inside a stage is fixed by the content pack.
type Question struct {
	ID       string         `json:"id"`
	Prompt   string         `json:"prompt"`
	Type     QuestionType   `json:"type"`
	Pathway  Pathway        `json:"pathway,omitempty"`
	Unit     string         `json:"unit,omitempty"`
	Min      float64        `json:"min,omitempty"`
	Max      float64        `json:"max,omitempty"`
	Options  []Option       `json:"options,omitempty"`
	Bands    []EvidenceBand `json:"bands,omitempty"`
	Triggers []TriggerSpec  `json:"triggers,omitempty"`
}

// HasOption reports whether value names one of the question's options.
func (q *Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionByValue returns the option named by value, or nil.
func (q *Question) OptionByValue(value string) *Option {
	for i := range q.Options {
		if q.Options[i].Value == value {
			return &q.Options[i]
		}
	}
	return nil
}
