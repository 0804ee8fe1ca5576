package model

// DifferentialCategory orders candidate differentials by how dangerous a
// miss would be. It breaks score ties.
type DifferentialCategory string

const (
	CategoryImmediateThreat DifferentialCategory = "immediate_threat"
	CategoryCritical        DifferentialCategory = "critical"
	CategoryUrgent          DifferentialCategory = "urgent"
	CategoryNonUrgent       DifferentialCategory = "non_urgent"
)

// Rank maps the category onto a comparable weight; higher is more dangerous.
func (c DifferentialCategory) Rank() int {
	switch c {
	case CategoryImmediateThreat:
		return 3
	case CategoryCritical:
		return 2
	case CategoryUrgent:
		return 1
	}
	return 0
}

// DifferentialSpec is a content-pack candidate diagnosis with the evidence
// keys that support it.
type DifferentialSpec struct {
	ID       string               `json:"id"`
	Label    string               `json:"label"`
	Category DifferentialCategory `json:"category"`
	Evidence []string             `json:"evidence"`
}

// DifferentialScore is one scored candidate.
type DifferentialScore struct {
	ID       string               `json:"id"`
	Label    string               `json:"label"`
	Category DifferentialCategory `json:"category"`
	Score    float64              `json:"score"`
	Matched  []string             `json:"matched"`
	Missing  []string             `json:"missing"`
}

// RankedDifferentials is the scorer output: candidates in rank order plus
// the question that would best separate the current leaders.
type RankedDifferentials struct {
	Scores         []DifferentialScore `json:"scores"`
	NextQuestionID string              `json:"nextQuestionId,omitempty"`
}
