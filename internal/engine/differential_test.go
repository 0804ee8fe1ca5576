package engine

import (
	"pedtriage/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreDifferentialsFraction(t *testing.T) {
	specs := []model.DifferentialSpec{
		{ID: "a", Category: model.CategoryUrgent, Evidence: []string{"x", "y"}},
		{ID: "b", Category: model.CategoryUrgent, Evidence: []string{"x", "y", "z", "w"}},
		{ID: "c", Category: model.CategoryUrgent, Evidence: []string{"q"}},
	}

	scores := ScoreDifferentials(specs, []string{"x", "y", "z"})
	require.Len(t, scores, 3)

	assert.Equal(t, "a", scores[0].ID)
	assert.Equal(t, 1.0, scores[0].Score)
	assert.Equal(t, []string{"x", "y"}, scores[0].Matched)
	assert.Empty(t, scores[0].Missing)

	assert.Equal(t, "b", scores[1].ID)
	assert.Equal(t, 0.75, scores[1].Score)
	assert.Equal(t, []string{"w"}, scores[1].Missing)

	assert.Equal(t, "c", scores[2].ID)
	assert.Equal(t, 0.0, scores[2].Score)
	assert.Equal(t, []string{"q"}, scores[2].Missing)
}

func TestScoreDifferentialsTieBreaksByCategoryThenOrder(t *testing.T) {
	specs := []model.DifferentialSpec{
		{ID: "first_urgent", Category: model.CategoryUrgent, Evidence: []string{"x"}},
		{ID: "threat", Category: model.CategoryImmediateThreat, Evidence: []string{"y"}},
		{ID: "second_urgent", Category: model.CategoryUrgent, Evidence: []string{"z"}},
		{ID: "crit", Category: model.CategoryCritical, Evidence: []string{"w"}},
	}

	// Equal scores: the more dangerous category ranks first, declared
	// order decides within a category.
	scores := ScoreDifferentials(specs, []string{"x", "y", "z", "w"})
	ids := make([]string, len(scores))
	for i, s := range scores {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"threat", "crit", "first_urgent", "second_urgent"}, ids)
}

func TestScoreDifferentialsEmptyEvidence(t *testing.T) {
	pack := testPack(t)

	scores := ScoreDifferentials(pack.Differentials, nil)
	require.Len(t, scores, 14)
	for _, s := range scores {
		assert.Equal(t, 0.0, s.Score)
		assert.Empty(t, s.Matched)
	}
	// Category rank carries the whole ordering.
	assert.Equal(t, "anaphylaxis", scores[0].ID)
	assert.Equal(t, model.CategoryImmediateThreat, scores[3].Category)
	assert.Equal(t, model.CategoryCritical, scores[4].Category)
	assert.Equal(t, "croup", scores[10].ID)
	assert.Equal(t, "simple_urticaria", scores[13].ID)
}

func TestDifferentialsProposeDiscriminatingQuestion(t *testing.T) {
	eng, _ := newTestEngine(t)
	passTriage(t, eng, "breathing")

	// Croup leads alone on the respiratory distress evidence; every
	// runner-up joins the leader group, and the auscultation question can
	// produce missing evidence for more of them than any other.
	ranked := eng.Differentials()
	require.NotEmpty(t, ranked.Scores)
	assert.Equal(t, "croup", ranked.Scores[0].ID)
	assert.Equal(t, 0.5, ranked.Scores[0].Score)
	assert.Equal(t, "breath_sounds", ranked.NextQuestionID)

	// Wheeze narrows the leaders to croup and status asthmaticus. The
	// oxygen saturation and work of breathing questions each cover one
	// leader; flow order breaks the tie.
	answer(t, eng, "breath_sounds", multiVal("wheezing"))
	ranked = eng.Differentials()
	assert.Equal(t, "croup", ranked.Scores[0].ID)
	assert.Equal(t, "status_asthmaticus", ranked.Scores[1].ID)
	assert.Equal(t, 0.25, ranked.Scores[1].Score)
	assert.Equal(t, "spo2", ranked.NextQuestionID)
}

func TestDifferentialsRerankOnPhaseObservations(t *testing.T) {
	eng, _ := newTestEngine(t)
	passTriage(t, eng, "breathing")
	answer(t, eng, "breath_sounds", multiVal("wheezing"))

	// Observations feed the same evidence pool as triage answers.
	observe(t, eng, "spo2", numVal(85))

	ranked := eng.Differentials()
	assert.Equal(t, "status_asthmaticus", ranked.Scores[0].ID)
	assert.Equal(t, 0.5, ranked.Scores[0].Score)
	assert.Contains(t, ranked.Scores[0].Matched, "hypoxia")

	// Croup ties the score but ranks below the critical category.
	assert.Equal(t, "croup", ranked.Scores[1].ID)
	assert.Equal(t, 0.5, ranked.Scores[1].Score)
}
