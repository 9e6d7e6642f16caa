package templates

// Scoring categories. Medal/trophy definitions reference these through their
// metric_code column, plus the pseudo-category "composite" for the overall
// rating.
const (
	CategoryContact     = "contact"
	CategoryPower       = "power"
	CategorySpeed       = "speed"
	CategoryAgility     = "agility"
	CategoryStrength    = "strength"
	CategoryArmStrength = "arm_strength"
	CategoryAccuracy    = "accuracy"
	CategoryCommand     = "command"
	CategoryReceiving   = "receiving"
	CategoryGlove       = "glove"

	CategoryComposite = "composite"
)

const (
	ValueKindNumeric = "numeric"
	ValueKindEnum    = "enum"
)

// Units. "percent" values are recorded on a 0-100 scale, "fraction" values on
// a 0-1 scale; normalization always follows the declared unit, never the
// magnitude of the entered value.
const (
	UnitMPH      = "mph"
	UnitSeconds  = "seconds"
	UnitCount    = "count"
	UnitPercent  = "percent"
	UnitFraction = "fraction"
	UnitInches   = "inches"
	UnitRPM      = "rpm"
	UnitGrade    = "grade"
)

// Metric is a single measurable test. Immutable reference data; IDs are
// stable across process restarts because the catalog below is deterministic.
type Metric struct {
	ID            int      `json:"id"`
	Key           string   `json:"key"`
	Label         string   `json:"label"`
	Unit          string   `json:"unit"`
	ValueKind     string   `json:"value_kind"`
	Min           float64  `json:"min,omitempty"`
	Max           float64  `json:"max,omitempty"`
	Options       []string `json:"options,omitempty"`
	Category      string   `json:"category"`
	LowerIsBetter bool     `json:"lower_is_better,omitempty"`
}

// Template is one ordered evaluation section for an age group.
type Template struct {
	ID             int      `json:"id"`
	AgeGroup       string   `json:"age_group"`
	EvaluationType string   `json:"evaluation_type"`
	Metrics        []Metric `json:"metrics"`
}

// MetricsByID indexes the template's metrics for projection during finalize.
func (t *Template) MetricsByID() map[int]Metric {
	out := make(map[int]Metric, len(t.Metrics))
	for _, m := range t.Metrics {
		out[m.ID] = m
	}
	return out
}

var gradeOptions = []string{"A", "B", "C", "D"}

// metricSpec is a catalog row before ID assignment.
type metricSpec struct {
	key           string
	label         string
	unit          string
	valueKind     string
	min, max      float64
	category      string
	lowerIsBetter bool
}

func numericSpec(key, label, unit string, min, max float64, category string) metricSpec {
	return metricSpec{key: key, label: label, unit: unit, valueKind: ValueKindNumeric, min: min, max: max, category: category}
}

func timedSpec(key, label string, min, max float64, category string) metricSpec {
	return metricSpec{key: key, label: label, unit: UnitSeconds, valueKind: ValueKindNumeric, min: min, max: max, category: category, lowerIsBetter: true}
}

func gradeSpec(key, label, category string) metricSpec {
	return metricSpec{key: key, label: label, unit: UnitGrade, valueKind: ValueKindEnum, category: category}
}

// Section catalogs. Youth and advanced age groups share section names for
// athletic and hitting but run different tests, so each partition carries its
// own list.
var youthSectionMetrics = map[string][]metricSpec{
	EvalTypeAthletic: {
		timedSpec("sprint_30yd", "30-Yard Sprint", 3.5, 10, CategorySpeed),
		timedSpec("pro_agility", "Pro-Agility Shuttle", 4, 15, CategoryAgility),
		numericSpec("pushups_60s", "60-Second Push-Ups", UnitCount, 0, 75, CategoryStrength),
		numericSpec("vertical_jump", "Vertical Jump", UnitInches, 0, 36, CategoryPower),
	},
	EvalTypeHitting: {
		numericSpec("tee_exit_velo", "Tee Exit Velocity", UnitMPH, 20, 90, CategoryPower),
		numericSpec("contact_pct", "Contact Percentage", UnitPercent, 0, 100, CategoryContact),
		numericSpec("line_drive_rate", "Line Drive Rate", UnitFraction, 0, 1, CategoryContact),
		gradeSpec("swing_grade", "Swing Mechanics Grade", CategoryContact),
	},
	EvalTypeThrowing: {
		numericSpec("throw_velo", "Throwing Velocity", UnitMPH, 20, 80, CategoryArmStrength),
		numericSpec("target_hits", "Targets Hit (of 10)", UnitCount, 0, 10, CategoryAccuracy),
	},
	EvalTypeCatching: {
		numericSpec("catch_pct", "Catch Percentage", UnitPercent, 0, 100, CategoryReceiving),
		gradeSpec("blocking_grade", "Blocking Grade", CategoryReceiving),
	},
	EvalTypeFielding: {
		numericSpec("gb_clean_pct", "Ground Balls Fielded Clean", UnitPercent, 0, 100, CategoryGlove),
		gradeSpec("first_step_grade", "First Step Grade", CategoryAgility),
	},
}

var advancedSectionMetrics = map[string][]metricSpec{
	EvalTypeAthletic: {
		timedSpec("sprint_60yd", "60-Yard Sprint", 6, 12, CategorySpeed),
		timedSpec("pro_agility", "Pro-Agility Shuttle", 3.8, 8, CategoryAgility),
		numericSpec("vertical_jump", "Vertical Jump", UnitInches, 10, 45, CategoryPower),
		numericSpec("broad_jump", "Broad Jump", UnitInches, 50, 140, CategoryPower),
	},
	EvalTypeHitting: {
		numericSpec("exit_velo", "Exit Velocity", UnitMPH, 50, 120, CategoryPower),
		numericSpec("bat_speed", "Bat Speed", UnitMPH, 40, 90, CategoryPower),
		numericSpec("contact_pct", "Contact Percentage", UnitPercent, 0, 100, CategoryContact),
		numericSpec("hard_hit_rate", "Hard Hit Rate", UnitFraction, 0, 1, CategoryContact),
		gradeSpec("swing_decision_grade", "Swing Decision Grade", CategoryContact),
	},
	EvalTypePitching: {
		numericSpec("fastball_velo", "Fastball Velocity", UnitMPH, 50, 105, CategoryArmStrength),
		numericSpec("strike_chance", "Strike Chance", UnitFraction, 0, 1, CategoryCommand),
		numericSpec("spin_rate", "Fastball Spin Rate", UnitRPM, 1000, 3200, CategoryCommand),
		gradeSpec("offspeed_grade", "Offspeed Grade", CategoryCommand),
	},
	EvalTypeCatcher: {
		timedSpec("pop_time", "Pop Time", 1.7, 3.2, CategoryReceiving),
		numericSpec("blocking_pct", "Blocks Made", UnitPercent, 0, 100, CategoryReceiving),
		gradeSpec("framing_grade", "Framing Grade", CategoryReceiving),
	},
	EvalTypeFirstBase: {
		numericSpec("scoop_pct", "Scoops Made", UnitPercent, 0, 100, CategoryGlove),
		gradeSpec("stretch_grade", "Stretch & Footwork Grade", CategoryGlove),
	},
	EvalTypeInfield: {
		numericSpec("gb_clean_pct", "Ground Balls Fielded Clean", UnitPercent, 0, 100, CategoryGlove),
		timedSpec("exchange_time", "Glove-to-Hand Exchange", 0.5, 2, CategoryGlove),
		numericSpec("throw_on_target", "Throws On Target (of 10)", UnitCount, 0, 10, CategoryAccuracy),
	},
	EvalTypeOutfield: {
		numericSpec("arm_velo", "Outfield Arm Velocity", UnitMPH, 50, 100, CategoryArmStrength),
		numericSpec("fly_ball_pct", "Fly Balls Caught", UnitPercent, 0, 100, CategoryGlove),
		gradeSpec("route_grade", "Route Efficiency Grade", CategoryGlove),
	},
}
