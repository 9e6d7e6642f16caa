package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/platform/apierr"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/rules"
	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

const CodeAssessmentNotFound = "assessment_not_found"

// AwardGrant is one earned (or previewable) medal/trophy tier.
type AwardGrant struct {
	DefinitionID       int       `json:"definition_id"`
	MetricCode         string    `json:"metric_code"`
	Tier               string    `json:"tier"`
	SubjectID          uuid.UUID `json:"subject_id"`
	SourceAssessmentID uuid.UUID `json:"source_assessment_id"`
}

// ScoreBreakdown is derived, never stored as input: the same assessment and
// rule table always produce the same breakdown, so it can be cached or
// regenerated at will. Potential lists what any kind of assessment earned on
// the thresholds; Awarded only fills for official assessments.
type ScoreBreakdown struct {
	AssessmentID      uuid.UUID          `json:"assessment_id"`
	RuleVersion       int                `json:"rule_version"`
	CategoryScores    map[string]float64 `json:"category_scores"`
	CompositeScore    float64            `json:"composite_score"`
	MedalsPotential   []AwardGrant       `json:"medals_potential"`
	MedalsAwarded     []AwardGrant       `json:"medals_awarded"`
	TrophiesPotential []AwardGrant       `json:"trophies_potential"`
	TrophiesAwarded   []AwardGrant       `json:"trophies_awarded"`
}

type ScoringService interface {
	// Score computes the breakdown and, for official assessments, persists
	// any newly earned grants. Safe to call repeatedly for the same
	// assessment; grants never duplicate.
	Score(ctx context.Context, assessment *types.Assessment) (*ScoreBreakdown, error)
	// ScoreByID is the cache-aside read path.
	ScoreByID(ctx context.Context, assessmentID uuid.UUID) (*ScoreBreakdown, error)
}

type scoringService struct {
	db             *gorm.DB
	log            *logger.Logger
	registry       *templates.Registry
	ruleTable      rules.Provider
	assessmentRepo repos.AssessmentRepo
	definitionRepo repos.DefinitionRepo
	grantRepo      repos.GrantRepo
	cache          ScoreCache
}

func NewScoringService(
	db *gorm.DB,
	baseLog *logger.Logger,
	registry *templates.Registry,
	ruleTable rules.Provider,
	assessmentRepo repos.AssessmentRepo,
	definitionRepo repos.DefinitionRepo,
	grantRepo repos.GrantRepo,
	cache ScoreCache,
) ScoringService {
	serviceLog := baseLog.With("service", "ScoringService")
	if cache == nil {
		cache = NewNoopScoreCache()
	}
	return &scoringService{
		db:             db,
		log:            serviceLog,
		registry:       registry,
		ruleTable:      ruleTable,
		assessmentRepo: assessmentRepo,
		definitionRepo: definitionRepo,
		grantRepo:      grantRepo,
		cache:          cache,
	}
}

func (s *scoringService) ScoreByID(ctx context.Context, assessmentID uuid.UUID) (*ScoreBreakdown, error) {
	if cached, err := s.cache.Get(ctx, assessmentID); err != nil {
		s.log.Warn("Score cache read failed", "assessment_id", assessmentID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, nil, assessmentID)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, CodeAssessmentNotFound, err)
	}
	return s.Score(ctx, assessment)
}

func (s *scoringService) Score(ctx context.Context, assessment *types.Assessment) (*ScoreBreakdown, error) {
	primary, err := s.registry.TemplateByID(assessment.TemplateID)
	if err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, CodeTemplateNotFound, err)
	}

	categoryScores, spannedTypes := s.categoryScores(assessment)
	breakdown := &ScoreBreakdown{
		AssessmentID:   assessment.ID,
		RuleVersion:    s.ruleTable.Version(),
		CategoryScores: categoryScores,
	}
	breakdown.CompositeScore = s.compositeScore(categoryScores, spannedTypes, primary.AgeGroup)

	if err := s.evaluateAwards(ctx, assessment, primary.AgeGroup, breakdown); err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, breakdown); err != nil {
		s.log.Warn("Score cache write failed", "assessment_id", assessment.ID, "error", err)
	}
	return breakdown, nil
}

// categoryScores averages per-metric scores within each scoring category and
// reports which evaluation types the values span (metric ids resolve to their
// owning section, so a full assessment spans several). Unknown metric ids
// (registry drift) are skipped rather than failing the whole breakdown.
func (s *scoringService) categoryScores(assessment *types.Assessment) (map[string]float64, []string) {
	sums := map[string]float64{}
	counts := map[string]int{}
	typeSet := map[string]bool{}
	for _, value := range assessment.Values {
		metric, owner, err := s.registry.MetricByID(value.MetricID)
		if err != nil {
			s.log.Warn("Skipping value for unknown metric",
				"assessment_id", assessment.ID,
				"metric_id", value.MetricID,
			)
			continue
		}
		typeSet[owner.EvaluationType] = true
		score, ok := s.metricScore(metric, value)
		if !ok {
			continue
		}
		sums[metric.Category] += score
		counts[metric.Category]++
	}

	out := make(map[string]float64, len(sums))
	for category, sum := range sums {
		out[category] = sum / float64(counts[category])
	}
	spanned := make([]string, 0, len(typeSet))
	for evaluationType := range typeSet {
		spanned = append(spanned, evaluationType)
	}
	sort.Strings(spanned)
	return out, spanned
}

// metricScore maps one raw value onto the 0-100 scale. Numeric values
// normalize against the metric's declared bounds and unit: "fraction" bounds
// run 0-1, "percent" 0-100, so interpretation follows the unit tag and never
// the magnitude of the entered value. Out-of-range entries are stored as-is
// upstream and clamped here.
func (s *scoringService) metricScore(metric templates.Metric, value types.AssessmentValue) (float64, bool) {
	switch metric.ValueKind {
	case templates.ValueKindNumeric:
		if value.ValueNumeric == nil {
			return 0, false
		}
		return normalizeNumeric(metric, *value.ValueNumeric), true
	case templates.ValueKindEnum:
		if value.ValueText == nil {
			return 0, false
		}
		points := s.ruleTable.EnumPoints(metric.Key)
		pts, ok := points[*value.ValueText]
		if !ok {
			return 0, false
		}
		return pts, true
	}
	return 0, false
}

func normalizeNumeric(metric templates.Metric, raw float64) float64 {
	span := metric.Max - metric.Min
	if span <= 0 {
		return 0
	}
	score := (raw - metric.Min) / span
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	if metric.LowerIsBetter {
		score = 1 - score
	}
	return score * 100
}

// compositeScore is a weighted mean over the categories present in the
// assessment; weights come from the rule table, renormalized over present
// categories so missing sections do not drag the rating down.
//
// A single-section assessment scores against that section's weight map. An
// assessment spanning several sections scores against the default table:
// any one section's map would carry no weight for the other sections'
// categories and silently drop their values from the rating.
func (s *scoringService) compositeScore(categoryScores map[string]float64, spannedTypes []string, ageGroup string) float64 {
	if len(categoryScores) == 0 {
		return 0
	}
	var weights map[string]float64
	if len(spannedTypes) == 1 {
		weights = s.ruleTable.WeightsFor(spannedTypes[0], ageGroup)
	} else {
		weights = s.ruleTable.WeightsFor("", ageGroup)
	}

	var weightedSum, weightTotal float64
	categories := make([]string, 0, len(categoryScores))
	for category := range categoryScores {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		w, ok := weights[category]
		if !ok || w <= 0 {
			continue
		}
		weightedSum += categoryScores[category] * w
		weightTotal += w
	}
	if weightTotal == 0 {
		// No weight overlap; fall back to a plain mean.
		for _, category := range categories {
			weightedSum += categoryScores[category]
		}
		return weightedSum / float64(len(categories))
	}
	return weightedSum / weightTotal
}

func (s *scoringService) evaluateAwards(ctx context.Context, assessment *types.Assessment, ageGroup string, breakdown *ScoreBreakdown) error {
	official := assessment.Kind == types.AssessmentKindOfficial

	medalDefs, err := s.definitionRepo.ListMedalDefinitions(ctx, nil, ageGroup)
	if err != nil {
		return fmt.Errorf("load medal definitions for %s: %w", ageGroup, err)
	}
	for _, def := range medalDefs {
		score, ok := scoreForCode(breakdown, def.MetricCode)
		if !ok || score < def.MinScore {
			continue
		}
		grant := AwardGrant{
			DefinitionID:       def.ID,
			MetricCode:         def.MetricCode,
			Tier:               def.Tier,
			SubjectID:          assessment.PlayerID,
			SourceAssessmentID: assessment.ID,
		}
		breakdown.MedalsPotential = append(breakdown.MedalsPotential, grant)
		if !official {
			continue
		}
		if _, err := s.grantRepo.CreateMedalIfAbsent(ctx, nil, &types.MedalGrant{
			DefinitionID:       def.ID,
			PlayerID:           assessment.PlayerID,
			SourceAssessmentID: assessment.ID,
		}); err != nil {
			return fmt.Errorf("persist medal grant (definition %d): %w", def.ID, err)
		}
		breakdown.MedalsAwarded = append(breakdown.MedalsAwarded, grant)
	}

	if assessment.TeamID != nil && *assessment.TeamID != uuid.Nil {
		trophyDefs, err := s.definitionRepo.ListTrophyDefinitions(ctx, nil, ageGroup)
		if err != nil {
			return fmt.Errorf("load trophy definitions for %s: %w", ageGroup, err)
		}
		for _, def := range trophyDefs {
			score, ok := scoreForCode(breakdown, def.MetricCode)
			if !ok || score < def.MinScore {
				continue
			}
			grant := AwardGrant{
				DefinitionID:       def.ID,
				MetricCode:         def.MetricCode,
				Tier:               def.Tier,
				SubjectID:          *assessment.TeamID,
				SourceAssessmentID: assessment.ID,
			}
			breakdown.TrophiesPotential = append(breakdown.TrophiesPotential, grant)
			if !official {
				continue
			}
			if _, err := s.grantRepo.CreateTrophyIfAbsent(ctx, nil, &types.TrophyGrant{
				DefinitionID:       def.ID,
				TeamID:             *assessment.TeamID,
				SourceAssessmentID: assessment.ID,
			}); err != nil {
				return fmt.Errorf("persist trophy grant (definition %d): %w", def.ID, err)
			}
			breakdown.TrophiesAwarded = append(breakdown.TrophiesAwarded, grant)
		}
	}

	sortGrants(breakdown.MedalsPotential)
	sortGrants(breakdown.MedalsAwarded)
	sortGrants(breakdown.TrophiesPotential)
	sortGrants(breakdown.TrophiesAwarded)
	return nil
}

func scoreForCode(breakdown *ScoreBreakdown, metricCode string) (float64, bool) {
	if metricCode == templates.CategoryComposite {
		return breakdown.CompositeScore, true
	}
	score, ok := breakdown.CategoryScores[metricCode]
	return score, ok
}

func sortGrants(grants []AwardGrant) {
	sort.Slice(grants, func(i, j int) bool {
		return grants[i].DefinitionID < grants[j].DefinitionID
	})
}
