package protocol

import "pedtriage/internal/model"

// BolusRule caps cumulative fluid volume per kilogram of body weight.
type BolusRule struct {
	DrugID   string  `json:"drugId"`
	CapPerKg float64 `json:"capPerKg"`
}

// Pack is a loaded clinical content pack: the triage question flow, phase
// rules, drug table and differential candidates. A pack is immutable after
// Parse; the engine only reads it.
type Pack struct {
	Name          string                             `json:"name"`
	Version       string                             `json:"version"`
	Critical      []model.Question                   `json:"critical"`
	Selector      model.Question                     `json:"selector"`
	Pathways      map[model.Pathway][]model.Question `json:"pathways"`
	Phases        []model.PhaseSpec                  `json:"phases"`
	Vitals        []model.VitalRange                 `json:"vitals"`
	Drugs         []model.DoseSpec                   `json:"drugs"`
	Differentials []model.DifferentialSpec           `json:"differentials"`
	Bolus         BolusRule                          `json:"bolus"`

	questions map[string]*model.Question
	drugs     map[string]*model.DoseSpec
	phases    map[model.Phase]*model.PhaseSpec
	vitals    map[model.AgeCategory]model.VitalRange
}

// Question returns the question with the given id from any stage, or nil.
func (p *Pack) Question(id string) *model.Question {
	return p.questions[id]
}

// Drug returns the dose spec with the given id, or nil.
func (p *Pack) Drug(id string) *model.DoseSpec {
	return p.drugs[id]
}

// Phase returns the spec of the given assessment phase, or nil.
func (p *Pack) Phase(ph model.Phase) *model.PhaseSpec {
	return p.phases[ph]
}

// VitalRange returns the reference range for an age category.
func (p *Pack) VitalRange(age model.AgeCategory) (model.VitalRange, bool) {
	r, ok := p.vitals[age]
	return r, ok
}

// PathwayQuestions returns the ordered questions of one pathway.
func (p *Pack) PathwayQuestions(pw model.Pathway) []model.Question {
	return p.Pathways[pw]
}

// AllQuestions returns every question of the flow in presentation order:
// the critical prefix, the selector, then each pathway's questions.
func (p *Pack) AllQuestions() []model.Question {
	out := make([]model.Question, 0, len(p.Critical)+1)
	out = append(out, p.Critical...)
	out = append(out, p.Selector)
	for _, o := range p.Selector.Options {
		out = append(out, p.Pathways[model.Pathway(o.Value)]...)
	}
	return out
}

// buildIndex fills the lookup maps. Called once by Parse after validation.
func (p *Pack) buildIndex() {
	p.questions = make(map[string]*model.Question)
	for i := range p.Critical {
		p.questions[p.Critical[i].ID] = &p.Critical[i]
	}
	p.questions[p.Selector.ID] = &p.Selector
	for pw := range p.Pathways {
		qs := p.Pathways[pw]
		for i := range qs {
			p.questions[qs[i].ID] = &qs[i]
		}
	}

	p.drugs = make(map[string]*model.DoseSpec, len(p.Drugs))
	for i := range p.Drugs {
		p.drugs[p.Drugs[i].ID] = &p.Drugs[i]
	}

	p.phases = make(map[model.Phase]*model.PhaseSpec, len(p.Phases))
	for i := range p.Phases {
		p.phases[p.Phases[i].Phase] = &p.Phases[i]
	}

	p.vitals = make(map[model.AgeCategory]model.VitalRange, len(p.Vitals))
	for _, v := range p.Vitals {
		p.vitals[v.AgeCategory] = v
	}
}
