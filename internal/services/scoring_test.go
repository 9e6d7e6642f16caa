package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/fivetoolhq/fivetool-backend/internal/rules"
	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

type scoringFixture struct {
	svc         ScoringService
	registry    *templates.Registry
	assessments *fakeAssessmentRepo
	definitions *fakeDefinitionRepo
	grants      *fakeGrantRepo
}

func newScoringFixture(t *testing.T, definitions *fakeDefinitionRepo) *scoringFixture {
	t.Helper()
	if definitions == nil {
		definitions = &fakeDefinitionRepo{}
	}
	registry := templates.NewRegistry()
	assessments := newFakeAssessmentRepo()
	grants := newFakeGrantRepo()
	svc := NewScoringService(nil, testLogger(t), registry, rules.LoadDefault(), assessments, definitions, grants, nil)
	return &scoringFixture{
		svc:         svc,
		registry:    registry,
		assessments: assessments,
		definitions: definitions,
		grants:      grants,
	}
}

func metricByKey(t *testing.T, tpl *templates.Template, key string) templates.Metric {
	t.Helper()
	for _, m := range tpl.Metrics {
		if m.Key == key {
			return m
		}
	}
	t.Fatalf("metric %s not in template %d", key, tpl.ID)
	return templates.Metric{}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNormalizeNumeric_ClampsAndInverts(t *testing.T) {
	registry := templates.NewRegistry()
	catcher, err := registry.Resolve("16u", templates.EvalTypeCatcher)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	popTime := metricByKey(t, catcher, "pop_time")

	cases := []struct {
		name string
		raw  float64
		want float64
	}{
		{"best time scores 100", 1.7, 100},
		{"worst time scores 0", 3.2, 0},
		{"below range clamps high", 1.2, 100},
		{"above range clamps low", 5.0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeNumeric(popTime, tc.raw)
			if !approx(got, tc.want) {
				t.Fatalf("normalizeNumeric(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestScore_FractionAndPercentFollowDeclaredUnit(t *testing.T) {
	fx := newScoringFixture(t, nil)
	hitting, err := fx.registry.Resolve("16u", templates.EvalTypeHitting)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	hardHit := metricByKey(t, hitting, "hard_hit_rate")
	contactPct := metricByKey(t, hitting, "contact_pct")

	assessment := &types.Assessment{
		ID:         uuid.New(),
		PlayerID:   uuid.New(),
		TemplateID: hitting.ID,
		Kind:       types.AssessmentKindPractice,
		Values: datatypes.NewJSONSlice([]types.AssessmentValue{
			{MetricID: hardHit.ID, ValueNumeric: fptr(0.8)},
			{MetricID: contactPct.ID, ValueNumeric: fptr(80)},
		}),
	}

	breakdown, err := fx.svc.Score(context.Background(), assessment)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// Both entries mean 80% and land in the contact category; a 0.8 fraction
	// and an 80 percent must score identically.
	if !approx(breakdown.CategoryScores[templates.CategoryContact], 80) {
		t.Fatalf("expected contact 80, got %v", breakdown.CategoryScores[templates.CategoryContact])
	}
}

func TestScore_CompositeUsesRuleTableWeights(t *testing.T) {
	fx := newScoringFixture(t, nil)
	hitting, err := fx.registry.Resolve("16u", templates.EvalTypeHitting)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	exitVelo := metricByKey(t, hitting, "exit_velo")   // power, 50-120
	contactPct := metricByKey(t, hitting, "contact_pct") // contact, 0-100

	assessment := &types.Assessment{
		ID:         uuid.New(),
		PlayerID:   uuid.New(),
		TemplateID: hitting.ID,
		Kind:       types.AssessmentKindPractice,
		Values: datatypes.NewJSONSlice([]types.AssessmentValue{
			{MetricID: exitVelo.ID, ValueNumeric: fptr(85)}, // (85-50)/70 -> 50
			{MetricID: contactPct.ID, ValueNumeric: fptr(80)},
		}),
	}

	breakdown, err := fx.svc.Score(context.Background(), assessment)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// hitting weights: contact 0.6, power 0.4.
	want := 0.6*80 + 0.4*50
	if !approx(breakdown.CompositeScore, want) {
		t.Fatalf("expected composite %v, got %v", want, breakdown.CompositeScore)
	}
}

func TestScore_FullSessionCompositeSpansAllSections(t *testing.T) {
	fx := newScoringFixture(t, nil)
	athletic, err := fx.registry.Resolve("10u", templates.EvalTypeAthletic)
	if err != nil {
		t.Fatalf("resolve athletic: %v", err)
	}
	hitting, err := fx.registry.Resolve("10u", templates.EvalTypeHitting)
	if err != nil {
		t.Fatalf("resolve hitting: %v", err)
	}
	sprint := metricByKey(t, athletic, "sprint_30yd")
	contactPct := metricByKey(t, hitting, "contact_pct")

	// A full-session assessment carries the first section's template id but
	// holds values from every section.
	composite := func(contact float64) float64 {
		assessment := &types.Assessment{
			ID:         uuid.New(),
			PlayerID:   uuid.New(),
			TemplateID: athletic.ID,
			Kind:       types.AssessmentKindPractice,
			Values: datatypes.NewJSONSlice([]types.AssessmentValue{
				{MetricID: sprint.ID, ValueNumeric: fptr(5.0)},
				{MetricID: contactPct.ID, ValueNumeric: fptr(contact)},
			}),
		}
		breakdown, err := fx.svc.Score(context.Background(), assessment)
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		return breakdown.CompositeScore
	}

	low := composite(0)
	high := composite(100)
	if approx(low, high) {
		t.Fatalf("hitting values ignored by composite: %v", low)
	}
	// Multi-section composites use the default weight table (all 1.0), so the
	// rating is the mean of the speed and contact categories.
	speed := normalizeNumeric(sprint, 5.0)
	if !approx(low, speed/2) || !approx(high, (speed+100)/2) {
		t.Fatalf("composite did not cover all sections: low=%v high=%v speed=%v", low, high, speed)
	}
}

func TestScore_EnumPointsHonorMetricOverride(t *testing.T) {
	fx := newScoringFixture(t, nil)
	catcher, err := fx.registry.Resolve("16u", templates.EvalTypeCatcher)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	framing := metricByKey(t, catcher, "framing_grade")

	assessment := &types.Assessment{
		ID:         uuid.New(),
		PlayerID:   uuid.New(),
		TemplateID: catcher.ID,
		Kind:       types.AssessmentKindPractice,
		Values: datatypes.NewJSONSlice([]types.AssessmentValue{
			{MetricID: framing.ID, ValueText: sptr("B")},
		}),
	}

	breakdown, err := fx.svc.Score(context.Background(), assessment)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !approx(breakdown.CategoryScores[templates.CategoryReceiving], 80) {
		t.Fatalf("expected framing B -> 80, got %v", breakdown.CategoryScores[templates.CategoryReceiving])
	}
}

func TestScore_UnknownMetricIDSkipped(t *testing.T) {
	fx := newScoringFixture(t, nil)
	hitting, err := fx.registry.Resolve("16u", templates.EvalTypeHitting)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	contactPct := metricByKey(t, hitting, "contact_pct")

	assessment := &types.Assessment{
		ID:         uuid.New(),
		PlayerID:   uuid.New(),
		TemplateID: hitting.ID,
		Kind:       types.AssessmentKindPractice,
		Values: datatypes.NewJSONSlice([]types.AssessmentValue{
			{MetricID: contactPct.ID, ValueNumeric: fptr(70)},
			{MetricID: 999999, ValueNumeric: fptr(70)},
		}),
	}

	breakdown, err := fx.svc.Score(context.Background(), assessment)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(breakdown.CategoryScores) != 1 {
		t.Fatalf("unknown metric leaked into categories: %v", breakdown.CategoryScores)
	}
}

func awardDefinitions() *fakeDefinitionRepo {
	return &fakeDefinitionRepo{
		medals: []*types.MedalDefinition{
			{ID: 1, AgeGroupLabel: "16u", MetricCode: templates.CategoryComposite, Tier: types.TierBronze, MinScore: 60},
			{ID: 2, AgeGroupLabel: "16u", MetricCode: templates.CategoryContact, Tier: types.TierGold, MinScore: 85},
		},
		trophies: []*types.TrophyDefinition{
			{ID: 1, AgeGroupLabel: "16u", MetricCode: templates.CategoryComposite, Tier: types.TierBronze, MinScore: 60},
		},
	}
}

func highContactAssessment(t *testing.T, registry *templates.Registry, kind string, teamID *uuid.UUID) *types.Assessment {
	t.Helper()
	hitting, err := registry.Resolve("16u", templates.EvalTypeHitting)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	contactPct := metricByKey(t, hitting, "contact_pct")
	return &types.Assessment{
		ID:         uuid.New(),
		PlayerID:   uuid.New(),
		TeamID:     teamID,
		TemplateID: hitting.ID,
		Kind:       kind,
		Values: datatypes.NewJSONSlice([]types.AssessmentValue{
			{MetricID: contactPct.ID, ValueNumeric: fptr(90)},
		}),
	}
}

func TestScore_OfficialAssessmentPersistsGrants(t *testing.T) {
	fx := newScoringFixture(t, awardDefinitions())
	teamID := uuid.New()
	assessment := highContactAssessment(t, fx.registry, types.AssessmentKindOfficial, &teamID)

	breakdown, err := fx.svc.Score(context.Background(), assessment)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// contact 90 -> composite 90: both medal thresholds and the trophy hit.
	if len(breakdown.MedalsAwarded) != 2 {
		t.Fatalf("expected 2 medals awarded, got %+v", breakdown.MedalsAwarded)
	}
	if len(breakdown.TrophiesAwarded) != 1 {
		t.Fatalf("expected 1 trophy awarded, got %+v", breakdown.TrophiesAwarded)
	}

	medals, err := fx.grants.ListMedalsByPlayer(context.Background(), nil, assessment.PlayerID)
	if err != nil {
		t.Fatalf("list medals: %v", err)
	}
	if len(medals) != 2 {
		t.Fatalf("expected 2 persisted medals, got %d", len(medals))
	}
}

func TestScore_PracticeAssessmentOnlyPreviews(t *testing.T) {
	fx := newScoringFixture(t, awardDefinitions())
	teamID := uuid.New()
	assessment := highContactAssessment(t, fx.registry, types.AssessmentKindPractice, &teamID)

	breakdown, err := fx.svc.Score(context.Background(), assessment)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(breakdown.MedalsPotential) != 2 || len(breakdown.TrophiesPotential) != 1 {
		t.Fatalf("expected potential awards, got medals=%d trophies=%d",
			len(breakdown.MedalsPotential), len(breakdown.TrophiesPotential))
	}
	if len(breakdown.MedalsAwarded) != 0 || len(breakdown.TrophiesAwarded) != 0 {
		t.Fatalf("practice run must not award: %+v", breakdown)
	}

	medals, err := fx.grants.ListMedalsByPlayer(context.Background(), nil, assessment.PlayerID)
	if err != nil {
		t.Fatalf("list medals: %v", err)
	}
	if len(medals) != 0 {
		t.Fatalf("practice run persisted %d medals", len(medals))
	}
}

func TestScore_RescoringNeverDuplicatesGrants(t *testing.T) {
	fx := newScoringFixture(t, awardDefinitions())
	assessment := highContactAssessment(t, fx.registry, types.AssessmentKindOfficial, nil)

	if _, err := fx.svc.Score(context.Background(), assessment); err != nil {
		t.Fatalf("first score: %v", err)
	}
	if _, err := fx.svc.Score(context.Background(), assessment); err != nil {
		t.Fatalf("second score: %v", err)
	}

	medals, err := fx.grants.ListMedalsByPlayer(context.Background(), nil, assessment.PlayerID)
	if err != nil {
		t.Fatalf("list medals: %v", err)
	}
	if len(medals) != 2 {
		t.Fatalf("re-scoring duplicated grants: %d", len(medals))
	}
}

func TestScore_NoTeamMeansNoTrophies(t *testing.T) {
	fx := newScoringFixture(t, awardDefinitions())
	assessment := highContactAssessment(t, fx.registry, types.AssessmentKindOfficial, nil)

	breakdown, err := fx.svc.Score(context.Background(), assessment)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(breakdown.TrophiesPotential) != 0 || len(breakdown.TrophiesAwarded) != 0 {
		t.Fatalf("trophies evaluated without a team: %+v", breakdown)
	}
}

func TestScoreByID_ReadsThroughToRepo(t *testing.T) {
	fx := newScoringFixture(t, nil)
	assessment := highContactAssessment(t, fx.registry, types.AssessmentKindPractice, nil)
	if _, err := fx.assessments.Create(context.Background(), nil, assessment); err != nil {
		t.Fatalf("seed assessment: %v", err)
	}

	breakdown, err := fx.svc.ScoreByID(context.Background(), assessment.ID)
	if err != nil {
		t.Fatalf("score by id: %v", err)
	}
	if breakdown.AssessmentID != assessment.ID {
		t.Fatalf("wrong assessment scored: %s", breakdown.AssessmentID)
	}
}

func TestScoreByID_UnknownAssessment(t *testing.T) {
	fx := newScoringFixture(t, nil)

	if _, err := fx.svc.ScoreByID(context.Background(), uuid.New()); err == nil {
		t.Fatalf("expected error for unknown assessment")
	}
}
