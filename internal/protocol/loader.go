package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"pedtriage/internal/model"
	"strings"
)

// ValidationError lists every issue found in a content pack, each prefixed
// with the JSON path of the offending element.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid content pack: %s", strings.Join(e.Issues, "; "))
}

type addFunc func(path, format string, args ...any)

// Parse decodes and validates a content pack. A pack with any validation
// issue is rejected whole; the engine never sees partial content.
func Parse(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode content pack: %w", err)
	}
	for pw := range p.Pathways {
		qs := p.Pathways[pw]
		for i := range qs {
			qs[i].Pathway = pw
		}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	p.buildIndex()
	return &p, nil
}

func (p *Pack) validate() error {
	var issues []string
	add := func(path, format string, args ...any) {
		issues = append(issues, path+": "+fmt.Sprintf(format, args...))
	}

	if p.Name == "" {
		add("name", "must not be empty")
	}
	if p.Version == "" {
		add("version", "must not be empty")
	}

	drugIDs := make(map[string]bool, len(p.Drugs))
	for i := range p.Drugs {
		path := fmt.Sprintf("drugs[%d]", i)
		d := &p.Drugs[i]
		if d.ID == "" {
			add(path, "id must not be empty")
		} else if drugIDs[d.ID] {
			add(path, "duplicate drug id %q", d.ID)
		}
		drugIDs[d.ID] = true
		validateDrug(add, path, d)
	}

	// evidence collects every key the pack can produce; differentials may
	// only reference keys from this set.
	evidence := make(map[string]bool)
	severities := make(map[string]model.Severity)
	questionIDs := make(map[string]bool)

	if len(p.Critical) != 3 {
		add("critical", "must contain exactly 3 questions, got %d", len(p.Critical))
	}
	for i := range p.Critical {
		validateQuestion(add, fmt.Sprintf("critical[%d]", i), &p.Critical[i], questionIDs, drugIDs, evidence, severities)
	}

	validateQuestion(add, "selector", &p.Selector, questionIDs, drugIDs, evidence, severities)
	if p.Selector.Type != model.QuestionSingle {
		add("selector", "must be single_select")
	}
	reachable := make(map[model.Pathway]bool)
	for _, o := range p.Selector.Options {
		pw := model.Pathway(o.Value)
		if _, ok := p.Pathways[pw]; !ok {
			add("selector", "option %q does not name a pathway", o.Value)
			continue
		}
		reachable[pw] = true
	}
	for pw := range p.Pathways {
		path := fmt.Sprintf("pathways[%s]", pw)
		if !reachable[pw] {
			add(path, "not reachable from the selector")
		}
		qs := p.Pathways[pw]
		if len(qs) < 2 || len(qs) > 3 {
			add(path, "must hold 2 or 3 questions, got %d", len(qs))
		}
		for i := range qs {
			validateQuestion(add, fmt.Sprintf("%s[%d]", path, i), &qs[i], questionIDs, drugIDs, evidence, severities)
		}
	}

	order := model.PhaseOrder()
	if len(p.Phases) != len(order) {
		add("phases", "must define all %d phases, got %d", len(order), len(p.Phases))
	} else {
		for i := range p.Phases {
			if p.Phases[i].Phase != order[i] {
				add(fmt.Sprintf("phases[%d]", i), "expected %s, got %s", order[i], p.Phases[i].Phase)
			}
		}
	}
	for i := range p.Phases {
		validatePhase(add, fmt.Sprintf("phases[%d]", i), &p.Phases[i], drugIDs, evidence, severities)
	}

	validateVitals(add, p.Vitals)
	validateDifferentials(add, p.Differentials, evidence)

	if p.Bolus.CapPerKg <= 0 {
		add("bolus", "capPerKg must be positive")
	}
	if !drugIDs[p.Bolus.DrugID] {
		add("bolus", "drugId %q does not name a drug", p.Bolus.DrugID)
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func validateOptions(add addFunc, path string, opts []model.Option, evidence map[string]bool) map[string]bool {
	vals := make(map[string]bool, len(opts))
	for j := range opts {
		o := &opts[j]
		opath := fmt.Sprintf("%s.options[%d]", path, j)
		if o.Value == "" {
			add(opath, "value must not be empty")
		} else if vals[o.Value] {
			add(opath, "duplicate option value %q", o.Value)
		}
		vals[o.Value] = true
		if o.Label == "" {
			add(opath, "label must not be empty")
		}
		switch o.Severity {
		case model.OptionNormal, model.OptionAbnormal, model.OptionCritical:
		default:
			add(opath, "unknown option severity %q", o.Severity)
		}
		if o.Evidence != "" {
			evidence[o.Evidence] = true
		}
	}
	return vals
}

func validateQuestion(add addFunc, path string, q *model.Question, ids, drugs, evidence map[string]bool, severities map[string]model.Severity) {
	if q.ID == "" {
		add(path, "id must not be empty")
	} else if ids[q.ID] {
		add(path, "duplicate question id %q", q.ID)
	}
	ids[q.ID] = true
	if q.Prompt == "" {
		add(path, "prompt must not be empty")
	}

	switch q.Type {
	case model.QuestionBool:
		if len(q.Options) > 0 {
			add(path, "boolean question cannot carry options")
		}
	case model.QuestionSingle, model.QuestionMulti:
		if len(q.Options) < 2 {
			add(path, "select question needs at least 2 options")
		}
		validateOptions(add, path, q.Options, evidence)
	case model.QuestionNumeric:
		if len(q.Options) > 0 {
			add(path, "numeric question cannot carry options")
		}
		if q.Min >= q.Max {
			add(path, "numeric bounds need min < max")
		}
		if q.Unit == "" {
			add(path, "numeric question needs a unit")
		}
		for j, b := range q.Bands {
			bpath := fmt.Sprintf("%s.bands[%d]", path, j)
			if b.Min >= b.Max {
				add(bpath, "band needs min < max")
			}
			if b.Min < q.Min || b.Max > q.Max {
				add(bpath, "band exceeds question bounds")
			}
			if b.Evidence == "" {
				add(bpath, "evidence must not be empty")
			} else {
				evidence[b.Evidence] = true
			}
		}
	default:
		add(path, "unknown question type %q", q.Type)
	}
	if q.Type != model.QuestionNumeric && len(q.Bands) > 0 {
		add(path, "bands are for numeric questions only")
	}

	prios := make(map[int]bool, len(q.Triggers))
	for j := range q.Triggers {
		t := &q.Triggers[j]
		tpath := fmt.Sprintf("%s.triggers[%d]", path, j)
		if prios[t.Priority] {
			add(tpath, "duplicate priority %d", t.Priority)
		}
		prios[t.Priority] = true
		validateTrigger(add, tpath, t, q, drugs, evidence, severities)
	}
}

func validateTrigger(add addFunc, path string, t *model.TriggerSpec, q *model.Question, drugs, evidence map[string]bool, severities map[string]model.Severity) {
	switch t.Op {
	case model.TriggerAnswerIs:
		if q.Type != model.QuestionBool {
			add(path, "answer_is applies to boolean questions")
		}
		if t.Value == nil {
			add(path, "answer_is needs a value")
		}
	case model.TriggerOptionIs:
		if q.Type != model.QuestionSingle {
			add(path, "option_is applies to single_select questions")
		}
		if !q.HasOption(t.Option) {
			add(path, "option %q is not declared on the question", t.Option)
		}
	case model.TriggerOptionAny:
		if q.Type != model.QuestionSingle && q.Type != model.QuestionMulti {
			add(path, "option_any applies to select questions")
		}
		if len(t.Options) == 0 {
			add(path, "option_any needs options")
		}
		for _, v := range t.Options {
			if !q.HasOption(v) {
				add(path, "option %q is not declared on the question", v)
			}
		}
	case model.TriggerNumberBelow, model.TriggerNumberAbove:
		if q.Type != model.QuestionNumeric {
			add(path, "%s applies to numeric questions", t.Op)
		}
	case model.TriggerNumberOutside:
		if q.Type != model.QuestionNumeric {
			add(path, "number_outside applies to numeric questions")
		}
		if t.Lo >= t.Hi {
			add(path, "number_outside needs lo < hi")
		}
	default:
		add(path, "unknown trigger op %q", t.Op)
	}
	validateFinding(add, path+".finding", &t.Finding, drugs, evidence, severities)
}

func validateFinding(add addFunc, path string, f *model.FindingSpec, drugs, evidence map[string]bool, severities map[string]model.Severity) {
	if f.Code == "" {
		add(path, "code must not be empty")
	}
	if f.Title == "" {
		add(path, "title must not be empty")
	}
	if f.Instruction == "" {
		add(path, "instruction must not be empty")
	}
	switch f.Severity {
	case model.SeverityUrgent, model.SeverityCritical:
	default:
		add(path, "unknown severity %q", f.Severity)
	}
	if f.CountdownSec < 0 {
		add(path, "countdownSec cannot be negative")
	}
	if f.DoseRef != "" && !drugs[f.DoseRef] {
		add(path, "doseRef %q does not name a drug", f.DoseRef)
	}
	if f.Code != "" {
		if prev, ok := severities[f.Code]; ok && prev != f.Severity {
			add(path, "finding code %q declared with conflicting severities", f.Code)
		}
		severities[f.Code] = f.Severity
	}
	if f.Evidence != "" {
		evidence[f.Evidence] = true
	}
}

func validateDrug(add addFunc, path string, d *model.DoseSpec) {
	if d.Name == "" {
		add(path, "name must not be empty")
	}
	if d.Indication == "" {
		add(path, "indication must not be empty")
	}
	if d.Route == "" {
		add(path, "route must not be empty")
	}
	if d.ConcLabel == "" {
		add(path, "concLabel must not be empty")
	}
	if d.PerKg <= 0 {
		add(path, "perKg must be positive")
	}
	if d.MaxDose <= 0 {
		add(path, "maxDose must be positive")
	}
	if d.MinDose < 0 {
		add(path, "minDose cannot be negative")
	}
	if d.MinDose > 0 && d.MinDose >= d.MaxDose {
		add(path, "minDose must stay below maxDose")
	}
	if d.Concentration <= 0 {
		add(path, "concentration must be positive")
	}
	if d.Precision < 1 || d.Precision > 2 {
		add(path, "precision must be 1 or 2")
	} else {
		// Clamp bounds must survive rounding unchanged, otherwise a
		// clamped dose could round past its own limit.
		if !representable(d.MaxDose, d.Precision) {
			add(path, "maxDose %g not representable at precision %d", d.MaxDose, d.Precision)
		}
		if d.MinDose > 0 && !representable(d.MinDose, d.Precision) {
			add(path, "minDose %g not representable at precision %d", d.MinDose, d.Precision)
		}
		for i := range d.Options {
			o := &d.Options[i]
			if o.MaxDose > 0 && !representable(o.MaxDose, d.Precision) {
				add(fmt.Sprintf("%s.options[%d]", path, i), "maxDose %g not representable at precision %d", o.MaxDose, d.Precision)
			}
			if o.MinDose > 0 && !representable(o.MinDose, d.Precision) {
				add(fmt.Sprintf("%s.options[%d]", path, i), "minDose %g not representable at precision %d", o.MinDose, d.Precision)
			}
		}
	}
	if len(d.Monitoring) == 0 {
		add(path, "monitoring must not be empty")
	}
	for i, m := range d.Monitoring {
		if strings.TrimSpace(m) == "" {
			add(fmt.Sprintf("%s.monitoring[%d]", path, i), "must not be blank")
		}
	}
	if d.ReassessAfterSec <= 0 {
		add(path, "reassessAfterSec must be positive")
	}
	keys := make(map[string]bool, len(d.Options))
	for i := range d.Options {
		o := &d.Options[i]
		opath := fmt.Sprintf("%s.options[%d]", path, i)
		if o.Key == "" {
			add(opath, "key must not be empty")
		} else if keys[o.Key] {
			add(opath, "duplicate option key %q", o.Key)
		}
		keys[o.Key] = true
		if o.PerKg <= 0 {
			add(opath, "perKg must be positive")
		}
		if o.MaxDose <= 0 {
			add(opath, "maxDose must be positive")
		}
		if o.MinDose < 0 || (o.MinDose > 0 && o.MinDose >= o.MaxDose) {
			add(opath, "minDose must stay below maxDose")
		}
	}
}

func representable(v float64, decimals int) bool {
	p := math.Pow10(decimals)
	return math.Round(v*p)/p == v
}

func validatePhase(add addFunc, path string, spec *model.PhaseSpec, drugs, evidence map[string]bool, severities map[string]model.Severity) {
	if len(spec.Fields) == 0 {
		add(path, "phase needs at least one required field")
	}
	fields := make(map[string]model.FieldKind, len(spec.Fields))
	fieldOpts := make(map[string]map[string]bool)
	for i := range spec.Fields {
		f := &spec.Fields[i]
		fpath := fmt.Sprintf("%s.fields[%d]", path, i)
		if f.Name == "" {
			add(fpath, "name must not be empty")
		} else if _, dup := fields[f.Name]; dup {
			add(fpath, "duplicate field %q", f.Name)
		}
		if f.Label == "" {
			add(fpath, "label must not be empty")
		}
		switch f.Kind {
		case model.FieldBool, model.FieldNumber:
			if len(f.Options) > 0 {
				add(fpath, "%s field cannot carry options", f.Kind)
			}
		case model.FieldOption:
			if len(f.Options) < 2 {
				add(fpath, "option field needs at least 2 options")
			}
			fieldOpts[f.Name] = validateOptions(add, fpath, f.Options, evidence)
		default:
			add(fpath, "unknown field kind %q", f.Kind)
		}
		fields[f.Name] = f.Kind
	}

	for i := range spec.Checks {
		c := &spec.Checks[i]
		cpath := fmt.Sprintf("%s.checks[%d]", path, i)
		kind, ok := fields[c.Field]
		if !ok {
			add(cpath, "field %q is not declared on the phase", c.Field)
		} else {
			switch c.Op {
			case model.TriggerAnswerIs:
				if kind != model.FieldBool {
					add(cpath, "answer_is applies to bool fields")
				}
				if c.Value == nil {
					add(cpath, "answer_is needs a value")
				}
			case model.TriggerOptionIs:
				if kind != model.FieldOption {
					add(cpath, "option_is applies to option fields")
				} else if !fieldOpts[c.Field][c.Option] {
					add(cpath, "option %q is not declared on field %q", c.Option, c.Field)
				}
			case model.TriggerOptionAny:
				if kind != model.FieldOption {
					add(cpath, "option_any applies to option fields")
				} else {
					if len(c.Options) == 0 {
						add(cpath, "option_any needs options")
					}
					for _, v := range c.Options {
						if !fieldOpts[c.Field][v] {
							add(cpath, "option %q is not declared on field %q", v, c.Field)
						}
					}
				}
			case model.TriggerNumberBelow, model.TriggerNumberAbove:
				if kind != model.FieldNumber {
					add(cpath, "%s applies to number fields", c.Op)
				}
			case model.TriggerNumberOutside:
				if kind != model.FieldNumber {
					add(cpath, "number_outside applies to number fields")
				}
				if c.Lo >= c.Hi {
					add(cpath, "number_outside needs lo < hi")
				}
			default:
				add(cpath, "unknown check op %q", c.Op)
			}
		}
		validateFinding(add, cpath+".finding", &c.Finding, drugs, evidence, severities)
	}

	for i, v := range spec.Vitals {
		vpath := fmt.Sprintf("%s.vitals[%d]", path, i)
		if kind, ok := fields[v.Field]; !ok {
			add(vpath, "field %q is not declared on the phase", v.Field)
		} else if kind != model.FieldNumber {
			add(vpath, "vital checks apply to number fields")
		}
		switch v.Vital {
		case "hr", "rr", "sbp":
		default:
			add(vpath, "unknown vital %q", v.Vital)
		}
	}
}

func validateVitals(add addFunc, ranges []model.VitalRange) {
	seen := make(map[model.AgeCategory]bool, len(ranges))
	for i, v := range ranges {
		path := fmt.Sprintf("vitals[%d]", i)
		switch v.AgeCategory {
		case model.AgeNeonate, model.AgeChild, model.AgeAdult:
		default:
			add(path, "unknown age category %q", v.AgeCategory)
		}
		if seen[v.AgeCategory] {
			add(path, "duplicate age category %q", v.AgeCategory)
		}
		seen[v.AgeCategory] = true
		if v.HRMin >= v.HRMax {
			add(path, "hr range needs min < max")
		}
		if v.RRMin >= v.RRMax {
			add(path, "rr range needs min < max")
		}
		if v.SBPMin <= 0 {
			add(path, "sbpMin must be positive")
		}
	}
	for _, age := range []model.AgeCategory{model.AgeNeonate, model.AgeChild, model.AgeAdult} {
		if !seen[age] {
			add("vitals", "missing age category %q", age)
		}
	}
}

func validateDifferentials(add addFunc, specs []model.DifferentialSpec, evidence map[string]bool) {
	ids := make(map[string]bool, len(specs))
	for i, d := range specs {
		path := fmt.Sprintf("differentials[%d]", i)
		if d.ID == "" {
			add(path, "id must not be empty")
		} else if ids[d.ID] {
			add(path, "duplicate differential id %q", d.ID)
		}
		ids[d.ID] = true
		if d.Label == "" {
			add(path, "label must not be empty")
		}
		switch d.Category {
		case model.CategoryImmediateThreat, model.CategoryCritical, model.CategoryUrgent, model.CategoryNonUrgent:
		default:
			add(path, "unknown category %q", d.Category)
		}
		if len(d.Evidence) == 0 {
			add(path, "evidence must not be empty")
		}
		for _, k := range d.Evidence {
			if !evidence[k] {
				add(path, "evidence key %q is never produced by the pack", k)
			}
		}
	}
}
