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

// RosterService is the roster provider boundary. Default participant
// resolution only sees active players; explicit participant lists on a
// session are taken as-is and never filtered here.
type RosterService interface {
	GetTeamPlayers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Player, error)
	GetActiveTeamPlayers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Player, error)
}

type rosterService struct {
	db         *gorm.DB
	log        *logger.Logger
	playerRepo repos.PlayerRepo
}

func NewRosterService(db *gorm.DB, baseLog *logger.Logger, playerRepo repos.PlayerRepo) RosterService {
	serviceLog := baseLog.With("service", "RosterService")
	return &rosterService{
		db:         db,
		log:        serviceLog,
		playerRepo: playerRepo,
	}
}

func (rs *rosterService) GetTeamPlayers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Player, error) {
	players, err := rs.playerRepo.GetByTeamID(ctx, tx, teamID)
	if err != nil {
		return nil, fmt.Errorf("load team players: %w", err)
	}
	return players, nil
}

func (rs *rosterService) GetActiveTeamPlayers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Player, error) {
	players, err := rs.GetTeamPlayers(ctx, tx, teamID)
	if err != nil {
		return nil, err
	}
	active := make([]*types.Player, 0, len(players))
	for _, p := range players {
		if p.Status == types.PlayerStatusActive {
			active = append(active, p)
		}
	}
	return active, nil
}
