package engine

import (
	"pedtriage/internal/model"
	"sort"
)

// Differentials scores every candidate against the accumulated evidence
// and proposes the unanswered question that would best separate the
// current leaders. Scoring is a pure function of the evidence set; the
// proposal additionally depends on where the flow stands.
func (e *Engine) Differentials() model.RankedDifferentials {
	scores := ScoreDifferentials(e.pack.Differentials, e.state.Evidence)
	return model.RankedDifferentials{
		Scores:         scores,
		NextQuestionID: e.proposeNext(scores),
	}
}

// ScoreDifferentials ranks candidates by the fraction of their evidence
// keys present, breaking ties by category danger and then by declared
// order.
func ScoreDifferentials(specs []model.DifferentialSpec, evidence []string) []model.DifferentialScore {
	have := make(map[string]bool, len(evidence))
	for _, key := range evidence {
		have[key] = true
	}
	scores := make([]model.DifferentialScore, 0, len(specs))
	for _, d := range specs {
		s := model.DifferentialScore{
			ID:       d.ID,
			Label:    d.Label,
			Category: d.Category,
			Matched:  []string{},
			Missing:  []string{},
		}
		for _, key := range d.Evidence {
			if have[key] {
				s.Matched = append(s.Matched, key)
			} else {
				s.Missing = append(s.Missing, key)
			}
		}
		if len(d.Evidence) > 0 {
			s.Score = float64(len(s.Matched)) / float64(len(d.Evidence))
		}
		scores = append(scores, s)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Category.Rank() > scores[j].Category.Rank()
	})
	return scores
}

// proposeNext picks the unanswered question able to confirm or exclude
// the most leaders through the evidence it can still produce. Leaders are
// the top score group, widened to the runner-up group when the leader is
// alone. Flow order breaks ties.
func (e *Engine) proposeNext(scores []model.DifferentialScore) string {
	if len(scores) < 2 {
		return ""
	}
	leaders := []model.DifferentialScore{scores[0]}
	for _, s := range scores[1:] {
		if s.Score == scores[0].Score {
			leaders = append(leaders, s)
		}
	}
	if len(leaders) == 1 {
		second := scores[1].Score
		for _, s := range scores[1:] {
			if s.Score == second {
				leaders = append(leaders, s)
			}
		}
	}

	answered := make(map[string]bool, len(e.state.Answers))
	for _, a := range e.state.Answers {
		answered[a.QuestionID] = true
	}

	bestID := ""
	bestCount := 0
	for _, q := range e.remainingQuestions(answered) {
		producible := questionEvidence(&q)
		count := 0
		for _, leader := range leaders {
			for _, missing := range leader.Missing {
				if producible[missing] {
					count++
					break
				}
			}
		}
		if count > bestCount {
			bestCount = count
			bestID = q.ID
		}
	}
	return bestID
}

// remainingQuestions lists the unanswered questions still reachable. Once
// a pathway is chosen the other pathways are no longer reachable.
func (e *Engine) remainingQuestions(answered map[string]bool) []model.Question {
	var pool []model.Question
	if pw := e.state.Session.Pathway; pw != "" {
		pool = append(pool, e.pack.Critical...)
		pool = append(pool, e.pack.Selector)
		pool = append(pool, e.pack.PathwayQuestions(pw)...)
	} else {
		pool = e.pack.AllQuestions()
	}
	var out []model.Question
	for _, q := range pool {
		if !answered[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

// questionEvidence collects every evidence key a question can produce
// through its options, numeric bands or triggered findings.
func questionEvidence(q *model.Question) map[string]bool {
	keys := make(map[string]bool)
	for i := range q.Options {
		if q.Options[i].Evidence != "" {
			keys[q.Options[i].Evidence] = true
		}
	}
	for i := range q.Bands {
		if q.Bands[i].Evidence != "" {
			keys[q.Bands[i].Evidence] = true
		}
	}
	for i := range q.Triggers {
		if q.Triggers[i].Finding.Evidence != "" {
			keys[q.Triggers[i].Finding.Evidence] = true
		}
	}
	return keys
}
