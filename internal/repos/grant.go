package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

type GrantRepo interface {
	// CreateMedalIfAbsent inserts the grant unless one already exists for
	// the same (definition, player, source assessment). Returns whether a
	// row was created, so re-scoring an assessment never doubles grants.
	CreateMedalIfAbsent(ctx context.Context, tx *gorm.DB, grant *types.MedalGrant) (bool, error)
	CreateTrophyIfAbsent(ctx context.Context, tx *gorm.DB, grant *types.TrophyGrant) (bool, error)
	ListMedalsByPlayer(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.MedalGrant, error)
	ListMedalsByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.MedalGrant, error)
	ListTrophiesByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TrophyGrant, error)
}

type grantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGrantRepo(db *gorm.DB, baseLog *logger.Logger) GrantRepo {
	repoLog := baseLog.With("repo", "GrantRepo")
	return &grantRepo{db: db, log: repoLog}
}

func (r *grantRepo) CreateMedalIfAbsent(ctx context.Context, tx *gorm.DB, grant *types.MedalGrant) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "definition_id"}, {Name: "player_id"}, {Name: "source_assessment_id"}},
			DoNothing: true,
		}).
		Create(grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *grantRepo) CreateTrophyIfAbsent(ctx context.Context, tx *gorm.DB, grant *types.TrophyGrant) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "definition_id"}, {Name: "team_id"}, {Name: "source_assessment_id"}},
			DoNothing: true,
		}).
		Create(grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *grantRepo) ListMedalsByPlayer(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.MedalGrant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MedalGrant
	if playerID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("awarded_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *grantRepo) ListMedalsByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.MedalGrant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MedalGrant
	if err := transaction.WithContext(ctx).
		Where("source_assessment_id = ?", assessmentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *grantRepo) ListTrophiesByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TrophyGrant, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TrophyGrant
	if teamID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("awarded_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
