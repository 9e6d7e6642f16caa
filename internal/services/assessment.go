package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/platform/apierr"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

// AssessmentService is the read surface over finalized assessments. There is
// deliberately no update or delete: corrections create new assessments.
type AssessmentService interface {
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error)
	ListByPlayer(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.Assessment, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Assessment, error)
}

type assessmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
}

func NewAssessmentService(db *gorm.DB, baseLog *logger.Logger, assessmentRepo repos.AssessmentRepo) AssessmentService {
	serviceLog := baseLog.With("service", "AssessmentService")
	return &assessmentService{
		db:             db,
		log:            serviceLog,
		assessmentRepo: assessmentRepo,
	}
}

func (as *assessmentService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	row, err := as.assessmentRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, CodeAssessmentNotFound, err)
	}
	return row, nil
}

func (as *assessmentService) ListByPlayer(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.Assessment, error) {
	rows, err := as.assessmentRepo.GetByPlayerID(ctx, tx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list assessments for player: %w", err)
	}
	return rows, nil
}

func (as *assessmentService) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Assessment, error) {
	rows, err := as.assessmentRepo.GetBySessionID(ctx, tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list assessments for session: %w", err)
	}
	return rows, nil
}
