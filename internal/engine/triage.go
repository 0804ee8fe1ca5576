package engine

import "pedtriage/internal/model"

// CurrentQuestion returns the question awaiting an answer, or nil once the
// flow is complete. Position is derived from the answer count, so a
// restored session resumes exactly where it stopped.
func (e *Engine) CurrentQuestion() *model.Question {
	st := e.state
	switch st.Stage {
	case model.StageCriticalCheck:
		if i := len(st.Answers); i < len(e.pack.Critical) {
			return &e.pack.Critical[i]
		}
	case model.StageMainProblem:
		return &e.pack.Selector
	case model.StagePathway:
		questions := e.pack.PathwayQuestions(st.Session.Pathway)
		i := len(st.Answers) - len(e.pack.Critical) - 1
		if i >= 0 && i < len(questions) {
			return &questions[i]
		}
	}
	return nil
}

// SubmitAnswer validates the answer against the current question, records
// it, collects evidence and evaluates the question's triggers in declared
// priority order. At most one finding is raised per answer; the first
// matching trigger suppresses the rest. A rejected answer leaves the
// state untouched.
func (e *Engine) SubmitAnswer(questionID string, value model.AnswerValue, by string) (model.AnswerResult, error) {
	var result model.AnswerResult
	if err := e.ensureOpen(); err != nil {
		return result, err
	}
	q := e.CurrentQuestion()
	if q == nil {
		return result, ErrFlowComplete
	}
	if q.ID != questionID {
		return result, &QuestionMismatchError{Want: q.ID, Got: questionID}
	}
	if err := checkAnswer(q, value); err != nil {
		return result, err
	}

	record := model.AnswerRecord{
		QuestionID: q.ID,
		Value:      value,
		AnsweredBy: by,
		AnsweredAt: e.now(),
	}
	e.collectEvidence(q, value, &record)

	if trigger := matchTrigger(q, value); trigger != nil {
		f := e.raiseFinding(trigger.Finding, model.SourceQuestion, q.ID, "", "")
		record.FindingID = f.ID
		result.Finding = f
	}

	e.state.Answers = append(e.state.Answers, record)
	e.advanceStage(value)
	e.touch()

	result.Next = e.CurrentQuestion()
	result.Done = result.Next == nil
	return result, nil
}

// checkAnswer enforces the value shape and, for numeric questions, the
// plausible range. Out-of-range numbers are rejected before any trigger
// is evaluated.
func checkAnswer(q *model.Question, v model.AnswerValue) error {
	switch q.Type {
	case model.QuestionBool:
		if v.Bool == nil {
			return &AnswerTypeError{QuestionID: q.ID, Want: q.Type}
		}
	case model.QuestionSingle:
		if v.Option == "" {
			return &AnswerTypeError{QuestionID: q.ID, Want: q.Type}
		}
		if !q.HasOption(v.Option) {
			return &UnknownOptionError{Scope: q.ID, Option: v.Option}
		}
	case model.QuestionMulti:
		if len(v.Options) == 0 {
			return &AnswerTypeError{QuestionID: q.ID, Want: q.Type}
		}
		for _, o := range v.Options {
			if !q.HasOption(o) {
				return &UnknownOptionError{Scope: q.ID, Option: o}
			}
		}
	case model.QuestionNumeric:
		if v.Number == nil {
			return &AnswerTypeError{QuestionID: q.ID, Want: q.Type}
		}
		if *v.Number < q.Min || *v.Number > q.Max {
			return &RangeError{Scope: q.ID, Value: *v.Number, Min: q.Min, Max: q.Max}
		}
	}
	return nil
}

// matchTrigger returns the matching trigger with the lowest priority
// value, or nil.
func matchTrigger(q *model.Question, v model.AnswerValue) *model.TriggerSpec {
	var best *model.TriggerSpec
	for i := range q.Triggers {
		t := &q.Triggers[i]
		if best != nil && t.Priority >= best.Priority {
			continue
		}
		if predicateHolds(t, v) {
			best = t
		}
	}
	return best
}

// predicateHolds evaluates one trigger predicate against a value. Shared
// by question triggers and phase checks.
func predicateHolds(t *model.TriggerSpec, v model.AnswerValue) bool {
	switch t.Op {
	case model.TriggerAnswerIs:
		return v.Bool != nil && t.Value != nil && *v.Bool == *t.Value
	case model.TriggerOptionIs:
		return v.Option != "" && v.Option == t.Option
	case model.TriggerOptionAny:
		for _, want := range t.Options {
			if v.Option == want {
				return true
			}
			for _, got := range v.Options {
				if got == want {
					return true
				}
			}
		}
	case model.TriggerNumberBelow:
		return v.Number != nil && *v.Number < t.Threshold
	case model.TriggerNumberAbove:
		return v.Number != nil && *v.Number > t.Threshold
	case model.TriggerNumberOutside:
		return v.Number != nil && (*v.Number < t.Lo || *v.Number > t.Hi)
	}
	return false
}

// collectEvidence records the evidence keys the answer contributes, from
// selected options and from numeric bands.
func (e *Engine) collectEvidence(q *model.Question, v model.AnswerValue, record *model.AnswerRecord) {
	add := func(key string) {
		if key == "" {
			return
		}
		record.Evidence = append(record.Evidence, key)
		e.state.AddEvidence(key)
	}
	switch q.Type {
	case model.QuestionSingle:
		if o := q.OptionByValue(v.Option); o != nil {
			add(o.Evidence)
		}
	case model.QuestionMulti:
		for _, value := range v.Options {
			if o := q.OptionByValue(value); o != nil {
				add(o.Evidence)
			}
		}
	case model.QuestionNumeric:
		for _, band := range q.Bands {
			if *v.Number >= band.Min && *v.Number < band.Max {
				add(band.Evidence)
			}
		}
	}
}

// advanceStage moves the flow forward after an answer was appended.
func (e *Engine) advanceStage(v model.AnswerValue) {
	st := e.state
	switch st.Stage {
	case model.StageCriticalCheck:
		if len(st.Answers) >= len(e.pack.Critical) {
			st.Stage = model.StageMainProblem
		}
	case model.StageMainProblem:
		st.Session.Pathway = model.Pathway(v.Option)
		st.Stage = model.StagePathway
	case model.StagePathway:
		total := len(e.pack.Critical) + 1 + len(e.pack.PathwayQuestions(st.Session.Pathway))
		if len(st.Answers) >= total {
			st.Stage = model.StageComplete
		}
	}
}
