package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

type AwardService interface {
	ListPlayerMedals(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.MedalGrant, error)
	ListTeamTrophies(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TrophyGrant, error)
}

type awardService struct {
	db        *gorm.DB
	log       *logger.Logger
	grantRepo repos.GrantRepo
}

func NewAwardService(db *gorm.DB, baseLog *logger.Logger, grantRepo repos.GrantRepo) AwardService {
	serviceLog := baseLog.With("service", "AwardService")
	return &awardService{
		db:        db,
		log:       serviceLog,
		grantRepo: grantRepo,
	}
}

func (aw *awardService) ListPlayerMedals(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.MedalGrant, error) {
	grants, err := aw.grantRepo.ListMedalsByPlayer(ctx, tx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list medals for player: %w", err)
	}
	return grants, nil
}

func (aw *awardService) ListTeamTrophies(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TrophyGrant, error) {
	grants, err := aw.grantRepo.ListTrophiesByTeam(ctx, tx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list trophies for team: %w", err)
	}
	return grants, nil
}
