package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/platform/apierr"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

// Finalize outcomes. AlreadyFinalized is the idempotent replay of an earlier
// result; NothingToFinalize means no participant had a single value and the
// session stayed editable.
const (
	OutcomeFinalized         = "finalized"
	OutcomeAlreadyFinalized  = "already_finalized"
	OutcomeNothingToFinalize = "nothing_to_finalize"
)

type PlayerFailure struct {
	PlayerID uuid.UUID `json:"player_id"`
	Reason   string    `json:"reason"`
}

// FinalizationResult reports one finalize pass. CreatedAssessmentIDs maps
// player id to the assessment created (or previously created) for them;
// Failures lists players whose record could not be written.
type FinalizationResult struct {
	Outcome              string                  `json:"outcome"`
	SessionID            uuid.UUID               `json:"session_id"`
	CreatedAssessmentIDs map[uuid.UUID]uuid.UUID `json:"created_assessment_ids"`
	Failures             []PlayerFailure         `json:"failures,omitempty"`
}

type FinalizeService interface {
	// Finalize freezes the session's values into per-player Assessments.
	// Safe to call repeatedly: a finalized session replays its stored
	// result instead of creating anything.
	Finalize(ctx context.Context, sessionID uuid.UUID) (*FinalizationResult, error)
}

type finalizeService struct {
	db             *gorm.DB
	log            *logger.Logger
	sessionRepo    repos.SessionRepo
	assessmentRepo repos.AssessmentRepo
	registry       *templates.Registry
	scoringService ScoringService
}

func NewFinalizeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessionRepo repos.SessionRepo,
	assessmentRepo repos.AssessmentRepo,
	registry *templates.Registry,
	scoringService ScoringService,
) FinalizeService {
	serviceLog := baseLog.With("service", "FinalizeService")
	return &finalizeService{
		db:             db,
		log:            serviceLog,
		sessionRepo:    sessionRepo,
		assessmentRepo: assessmentRepo,
		registry:       registry,
		scoringService: scoringService,
	}
}

// errAlreadyFinalized aborts the mutation without treating the replay as a
// failure; the caller re-reads the stored result.
var errAlreadyFinalized = errors.New("session already finalized")

func (fs *finalizeService) Finalize(ctx context.Context, sessionID uuid.UUID) (*FinalizationResult, error) {
	session, err := fs.sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, CodeSessionNotFound, err)
	}
	if session.IsFinalized() {
		return replayResult(session), nil
	}

	sectionTemplates, err := fs.registry.TemplatesByIDs(session.TemplateSectionIDs)
	if err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, CodeTemplateNotFound, err)
	}

	result := &FinalizationResult{
		Outcome:              OutcomeFinalized,
		SessionID:            sessionID,
		CreatedAssessmentIDs: map[uuid.UUID]uuid.UUID{},
	}
	var created []*types.Assessment

	_, err = fs.sessionRepo.Mutate(ctx, sessionID, func(tx *gorm.DB, locked *types.AssessmentSession) error {
		if locked.IsFinalized() {
			return errAlreadyFinalized
		}

		rows := buildAssessmentRows(locked, sectionTemplates)
		if len(rows) == 0 {
			result.Outcome = OutcomeNothingToFinalize
			// Leave the session editable; nothing was produced.
			return errNothingToFinalize
		}

		for _, row := range rows {
			// Per-player savepoint: one stale foreign key must not take
			// down the siblings.
			perr := tx.Transaction(func(ptx *gorm.DB) error {
				_, cerr := fs.assessmentRepo.Create(ctx, ptx, row)
				return cerr
			})
			if perr != nil {
				fs.log.Warn("Assessment creation failed for player",
					"session_id", sessionID,
					"player_id", row.PlayerID,
					"error", perr,
				)
				result.Failures = append(result.Failures, PlayerFailure{PlayerID: row.PlayerID, Reason: perr.Error()})
				continue
			}
			result.CreatedAssessmentIDs[row.PlayerID] = row.ID
			created = append(created, row)
		}

		if len(result.CreatedAssessmentIDs) == 0 {
			// Every player failed; report the failures but do not mark the
			// session finalized with no output.
			return errNothingToFinalize
		}

		now := time.Now()
		locked.Status = types.SessionStatusFinalized
		locked.FinalizedAt = &now
		locked.ResultMap = datatypes.NewJSONType(result.CreatedAssessmentIDs)
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, errAlreadyFinalized):
		// Lost a race with a concurrent finalize; replay its result.
		refreshed, gerr := fs.sessionRepo.GetByID(ctx, nil, sessionID)
		if gerr != nil {
			return nil, fmt.Errorf("reload finalized session: %w", gerr)
		}
		return replayResult(refreshed), nil
	case errors.Is(err, errNothingToFinalize):
		result.Outcome = OutcomeNothingToFinalize
		result.CreatedAssessmentIDs = map[uuid.UUID]uuid.UUID{}
		return result, nil
	default:
		return nil, fmt.Errorf("finalize session %s: %w", sessionID, err)
	}

	fs.log.Info("Finalized assessment session",
		"session_id", sessionID,
		"created", len(result.CreatedAssessmentIDs),
		"failed", len(result.Failures),
	)

	// Scoring runs after the terminal transition commits. Recomputation is
	// pure and grant insertion is idempotent, so a scoring failure here is
	// logged and recoverable on demand rather than undoing the finalize.
	for _, row := range created {
		if fs.scoringService == nil {
			break
		}
		if _, serr := fs.scoringService.Score(ctx, row); serr != nil {
			fs.log.Warn("Scoring failed for assessment",
				"assessment_id", row.ID,
				"player_id", row.PlayerID,
				"error", serr,
			)
		}
	}

	return result, nil
}

var errNothingToFinalize = errors.New("no assessments to finalize")

func replayResult(session *types.AssessmentSession) *FinalizationResult {
	ids := session.ResultMap.Data()
	if ids == nil {
		ids = map[uuid.UUID]uuid.UUID{}
	}
	return &FinalizationResult{
		Outcome:              OutcomeAlreadyFinalized,
		SessionID:            session.ID,
		CreatedAssessmentIDs: ids,
	}
}

// buildAssessmentRows projects the value matrix onto the session's template
// metrics, one row per effective participant with at least one non-empty
// value. Players are processed in a stable order so retries behave the same.
func buildAssessmentRows(session *types.AssessmentSession, sectionTemplates []*templates.Template) []*types.Assessment {
	matrix := session.ValueMatrix()
	participants := session.Participants()
	if len(participants) == 0 {
		participants = matrix.PlayersWithValues()
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].String() < participants[j].String()
	})

	primaryTemplateID := 0
	if len(session.TemplateSectionIDs) > 0 {
		primaryTemplateID = session.TemplateSectionIDs[0]
	}

	var rows []*types.Assessment
	for _, playerID := range participants {
		playerRow, ok := matrix[playerID]
		if !ok {
			continue
		}
		var values []types.AssessmentValue
		for _, t := range sectionTemplates {
			for _, metric := range t.Metrics {
				val, ok := playerRow[metric.ID]
				if !ok || val.IsEmpty() {
					continue
				}
				values = append(values, types.AssessmentValue{
					MetricID:     metric.ID,
					ValueNumeric: val.ValueNumeric,
					ValueText:    val.ValueText,
				})
			}
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, &types.Assessment{
			ID:         uuid.New(),
			PlayerID:   playerID,
			TeamID:     session.TeamID,
			SessionID:  session.ID,
			TemplateID: primaryTemplateID,
			Kind:       session.Mode,
			Values:     datatypes.NewJSONSlice(values),
			CreatedBy:  session.CreatedBy,
		})
	}
	return rows
}
