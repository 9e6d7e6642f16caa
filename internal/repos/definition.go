package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

// DefinitionRepo reads the medal/trophy threshold tables. Definitions are
// operator-maintained configuration rows, written outside this core.
type DefinitionRepo interface {
	ListMedalDefinitions(ctx context.Context, tx *gorm.DB, ageGroupLabel string) ([]*types.MedalDefinition, error)
	ListTrophyDefinitions(ctx context.Context, tx *gorm.DB, ageGroupLabel string) ([]*types.TrophyDefinition, error)
	CountMedalDefinitions(ctx context.Context, tx *gorm.DB) (int64, error)
	SeedMedalDefinitions(ctx context.Context, tx *gorm.DB, rows []*types.MedalDefinition) error
	SeedTrophyDefinitions(ctx context.Context, tx *gorm.DB, rows []*types.TrophyDefinition) error
}

type definitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) DefinitionRepo {
	repoLog := baseLog.With("repo", "DefinitionRepo")
	return &definitionRepo{db: db, log: repoLog}
}

func (r *definitionRepo) ListMedalDefinitions(ctx context.Context, tx *gorm.DB, ageGroupLabel string) ([]*types.MedalDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.MedalDefinition
	if err := transaction.WithContext(ctx).
		Where("age_group_label = ?", ageGroupLabel).
		Order("metric_code, min_score").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *definitionRepo) ListTrophyDefinitions(ctx context.Context, tx *gorm.DB, ageGroupLabel string) ([]*types.TrophyDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TrophyDefinition
	if err := transaction.WithContext(ctx).
		Where("age_group_label = ?", ageGroupLabel).
		Order("metric_code, min_score").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *definitionRepo) CountMedalDefinitions(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).Model(&types.MedalDefinition{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *definitionRepo) SeedMedalDefinitions(ctx context.Context, tx *gorm.DB, rows []*types.MedalDefinition) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *definitionRepo) SeedTrophyDefinitions(ctx context.Context, tx *gorm.DB, rows []*types.TrophyDefinition) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}
