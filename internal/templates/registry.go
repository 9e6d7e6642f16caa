package templates

import (
	"fmt"
	"sort"
)

// Evaluation types (section names).
const (
	EvalTypeAthletic  = "athletic"
	EvalTypeHitting   = "hitting"
	EvalTypeThrowing  = "throwing"
	EvalTypeCatching  = "catching"
	EvalTypeFielding  = "fielding"
	EvalTypePitching  = "pitching"
	EvalTypeCatcher   = "catcher"
	EvalTypeFirstBase = "first_base"
	EvalTypeInfield   = "infield"
	EvalTypeOutfield  = "outfield"
)

// Age groups partition into youth and advanced; the partition decides which
// section list a full assessment runs.
var youthAgeGroups = []string{"6u", "8u", "10u", "12u"}
var advancedAgeGroups = []string{"13u", "14u", "16u", "18u", "college", "pro"}

var youthSections = []string{EvalTypeAthletic, EvalTypeHitting, EvalTypeThrowing, EvalTypeCatching, EvalTypeFielding}
var advancedSections = []string{EvalTypeAthletic, EvalTypeHitting, EvalTypePitching, EvalTypeCatcher, EvalTypeFirstBase, EvalTypeInfield, EvalTypeOutfield}

// NotFoundError identifies the exact unmapped pair so operators can extend
// the registry instead of chasing a generic failure.
type NotFoundError struct {
	AgeGroup       string
	EvaluationType string
}

func (e *NotFoundError) Error() string {
	if e.EvaluationType == "" {
		return fmt.Sprintf("no test templates configured for age group %q", e.AgeGroup)
	}
	return fmt.Sprintf("no test template configured for age group %q and evaluation type %q", e.AgeGroup, e.EvaluationType)
}

// Registry is the single owner of template-id resolution. IDs are opaque to
// callers; nothing outside this package derives them.
type Registry struct {
	byPair map[pairKey]*Template
	byID   map[int]*Template
}

type pairKey struct {
	ageGroup       string
	evaluationType string
}

func NewRegistry() *Registry {
	r := &Registry{
		byPair: make(map[pairKey]*Template),
		byID:   make(map[int]*Template),
	}
	for ageIdx, age := range youthAgeGroups {
		for _, section := range youthSections {
			r.add(buildTemplate(age, ageIdx+1, section, youthSectionMetrics[section]))
		}
	}
	for ageIdx, age := range advancedAgeGroups {
		for _, section := range advancedSections {
			r.add(buildTemplate(age, len(youthAgeGroups)+ageIdx+1, section, advancedSectionMetrics[section]))
		}
	}
	return r
}

func (r *Registry) add(t *Template) {
	r.byPair[pairKey{t.AgeGroup, t.EvaluationType}] = t
	r.byID[t.ID] = t
}

// Resolve returns the template for one (age group, evaluation type) pair.
func (r *Registry) Resolve(ageGroup, evaluationType string) (*Template, error) {
	t, ok := r.byPair[pairKey{ageGroup, evaluationType}]
	if !ok {
		return nil, &NotFoundError{AgeGroup: ageGroup, EvaluationType: evaluationType}
	}
	return t, nil
}

// ResolveFullSections returns the ordered section templates a full assessment
// of the age group runs.
func (r *Registry) ResolveFullSections(ageGroup string) ([]*Template, error) {
	sections, ok := sectionsFor(ageGroup)
	if !ok {
		return nil, &NotFoundError{AgeGroup: ageGroup}
	}
	out := make([]*Template, 0, len(sections))
	for _, section := range sections {
		t, err := r.Resolve(ageGroup, section)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// TemplateByID resolves an opaque template id stored on a session.
func (r *Registry) TemplateByID(id int) (*Template, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown template id %d", id)
	}
	return t, nil
}

// TemplatesByIDs resolves a session's section list, preserving order.
func (r *Registry) TemplatesByIDs(ids []int) ([]*Template, error) {
	out := make([]*Template, 0, len(ids))
	for _, id := range ids {
		t, err := r.TemplateByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// MetricByID resolves a metric id back to its definition and owning
// template. Metric ids embed the template id, so a finalized assessment's
// values can be re-scored without the originating session.
func (r *Registry) MetricByID(metricID int) (Metric, *Template, error) {
	t, ok := r.byID[metricID/100]
	if !ok {
		return Metric{}, nil, fmt.Errorf("unknown metric id %d", metricID)
	}
	for _, m := range t.Metrics {
		if m.ID == metricID {
			return m, t, nil
		}
	}
	return Metric{}, nil, fmt.Errorf("unknown metric id %d", metricID)
}

// AgeGroups lists every configured age group, youth first.
func (r *Registry) AgeGroups() []string {
	out := make([]string, 0, len(youthAgeGroups)+len(advancedAgeGroups))
	out = append(out, youthAgeGroups...)
	out = append(out, advancedAgeGroups...)
	return out
}

func sectionsFor(ageGroup string) ([]string, bool) {
	for _, a := range youthAgeGroups {
		if a == ageGroup {
			return youthSections, true
		}
	}
	for _, a := range advancedAgeGroups {
		if a == ageGroup {
			return advancedSections, true
		}
	}
	return nil, false
}

// Template ids encode (age group ordinal, section ordinal); metric ids hang
// off the template id. Deterministic so persisted ids stay stable across
// releases as long as catalog order is append-only.
func buildTemplate(ageGroup string, ageOrdinal int, section string, specs []metricSpec) *Template {
	sectionOrdinal := sectionOrdinals[section]
	templateID := ageOrdinal*100 + sectionOrdinal
	t := &Template{
		ID:             templateID,
		AgeGroup:       ageGroup,
		EvaluationType: section,
		Metrics:        make([]Metric, 0, len(specs)),
	}
	for i, spec := range specs {
		m := Metric{
			ID:            templateID*100 + i + 1,
			Key:           spec.key,
			Label:         spec.label,
			Unit:          spec.unit,
			ValueKind:     spec.valueKind,
			Min:           spec.min,
			Max:           spec.max,
			Category:      spec.category,
			LowerIsBetter: spec.lowerIsBetter,
		}
		if spec.valueKind == ValueKindEnum {
			m.Options = gradeOptions
		}
		t.Metrics = append(t.Metrics, m)
	}
	return t
}

var sectionOrdinals = buildSectionOrdinals()

func buildSectionOrdinals() map[string]int {
	all := map[string]struct{}{}
	for _, s := range youthSections {
		all[s] = struct{}{}
	}
	for _, s := range advancedSections {
		all[s] = struct{}{}
	}
	names := make([]string, 0, len(all))
	for s := range all {
		names = append(names, s)
	}
	sort.Strings(names)
	out := make(map[string]int, len(names))
	for i, s := range names {
		out[s] = i + 1
	}
	return out
}
