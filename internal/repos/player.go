package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

// PlayerRepo is read-only: roster rows belong to the external roster system.
type PlayerRepo interface {
	GetByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Player, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Player, error)
}

type playerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlayerRepo(db *gorm.DB, baseLog *logger.Logger) PlayerRepo {
	repoLog := baseLog.With("repo", "PlayerRepo")
	return &playerRepo{db: db, log: repoLog}
}

func (r *playerRepo) GetByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Player, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Player
	if teamID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("jersey_number").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *playerRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Player, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Player
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
