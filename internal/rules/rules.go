package rules

// Provider supplies the pluggable scoring configuration: category weights for
// the composite rating and point values for enum (grade) metrics. Treated as
// versioned data, not code; the scoring engine never hardcodes weights.
type Provider interface {
	Version() int
	// WeightsFor returns category weights for a composite score, most
	// specific match first: (age group, evaluation type), then evaluation
	// type, then the default table.
	WeightsFor(evaluationType, ageGroup string) map[string]float64
	// EnumPoints maps an enum metric's recorded option to points on the
	// 0-100 scale.
	EnumPoints(metricKey string) map[string]float64
}

type weightMap map[string]float64

type categoryWeights struct {
	Default          weightMap                       `yaml:"default"`
	ByEvaluationType map[string]weightMap            `yaml:"by_evaluation_type"`
	ByAgeGroup       map[string]map[string]weightMap `yaml:"by_age_group"`
}

type enumPoints struct {
	Default     map[string]float64            `yaml:"default"`
	ByMetricKey map[string]map[string]float64 `yaml:"by_metric_key"`
}

// Table is one parsed rule table.
type Table struct {
	TableVersion    int             `yaml:"version"`
	CategoryWeights categoryWeights `yaml:"category_weights"`
	Enum            enumPoints      `yaml:"enum_points"`
}

func (t *Table) Version() int { return t.TableVersion }

func (t *Table) WeightsFor(evaluationType, ageGroup string) map[string]float64 {
	if byType, ok := t.CategoryWeights.ByAgeGroup[ageGroup]; ok {
		if w, ok := byType[evaluationType]; ok {
			return copyWeights(w)
		}
	}
	if w, ok := t.CategoryWeights.ByEvaluationType[evaluationType]; ok {
		return copyWeights(w)
	}
	return copyWeights(t.CategoryWeights.Default)
}

func (t *Table) EnumPoints(metricKey string) map[string]float64 {
	if pts, ok := t.Enum.ByMetricKey[metricKey]; ok {
		return copyWeights(pts)
	}
	return copyWeights(t.Enum.Default)
}

func copyWeights(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
