package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Assessment) (*types.Assessment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error)
	GetByPlayerID(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.Assessment, error)
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Assessment, error)
	// GetByPlayerIDs returns assessments for the given players, newest
	// first, so callers can take the most recent per player.
	GetByPlayerIDs(ctx context.Context, tx *gorm.DB, playerIDs []uuid.UUID) ([]*types.Assessment, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (r *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Assessment) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *assessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var row types.Assessment
	if err := transaction.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
		}
		return nil, err
	}
	return &row, nil
}

func (r *assessmentRepo) GetByPlayerID(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assessment
	if playerID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assessment
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentRepo) GetByPlayerIDs(ctx context.Context, tx *gorm.DB, playerIDs []uuid.UUID) ([]*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Assessment
	if len(playerIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("player_id IN ?", playerIDs).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
