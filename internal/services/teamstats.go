package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

const teamStatsConcurrency = 4

type PlayerRating struct {
	PlayerID       uuid.UUID `json:"player_id"`
	AssessmentID   uuid.UUID `json:"assessment_id"`
	CompositeScore float64   `json:"composite_score"`
}

// TeamStats aggregates each active player's most recent assessment into team
// averages. Players who have never been assessed count toward PlayerCount
// only.
type TeamStats struct {
	TeamID              uuid.UUID          `json:"team_id"`
	PlayerCount         int                `json:"player_count"`
	AssessedPlayerCount int                `json:"assessed_player_count"`
	AverageComposite    float64            `json:"average_composite"`
	CategoryAverages    map[string]float64 `json:"category_averages"`
	PlayerRatings       []PlayerRating     `json:"player_ratings"`
}

type TeamStatsService interface {
	GetTeamStats(ctx context.Context, teamID uuid.UUID) (*TeamStats, error)
}

type teamStatsService struct {
	db             *gorm.DB
	log            *logger.Logger
	rosterService  RosterService
	assessmentRepo repos.AssessmentRepo
	scoringService ScoringService
}

func NewTeamStatsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	rosterService RosterService,
	assessmentRepo repos.AssessmentRepo,
	scoringService ScoringService,
) TeamStatsService {
	serviceLog := baseLog.With("service", "TeamStatsService")
	return &teamStatsService{
		db:             db,
		log:            serviceLog,
		rosterService:  rosterService,
		assessmentRepo: assessmentRepo,
		scoringService: scoringService,
	}
}

func (ts *teamStatsService) GetTeamStats(ctx context.Context, teamID uuid.UUID) (*TeamStats, error) {
	players, err := ts.rosterService.GetActiveTeamPlayers(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}

	playerIDs := make([]uuid.UUID, 0, len(players))
	for _, p := range players {
		playerIDs = append(playerIDs, p.ID)
	}
	assessments, err := ts.assessmentRepo.GetByPlayerIDs(ctx, nil, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("load team assessments: %w", err)
	}

	// Rows come back newest first; keep the first seen per player.
	latest := make(map[uuid.UUID]*types.Assessment, len(playerIDs))
	for _, a := range assessments {
		if _, seen := latest[a.PlayerID]; !seen {
			latest[a.PlayerID] = a
		}
	}

	stats := &TeamStats{
		TeamID:           teamID,
		PlayerCount:      len(players),
		CategoryAverages: map[string]float64{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(teamStatsConcurrency)
	categorySums := map[string]float64{}
	categoryCounts := map[string]int{}

	for _, assessment := range latest {
		g.Go(func() error {
			breakdown, serr := ts.scoringService.ScoreByID(gctx, assessment.ID)
			if serr != nil {
				return fmt.Errorf("score assessment %s: %w", assessment.ID, serr)
			}
			mu.Lock()
			defer mu.Unlock()
			stats.AssessedPlayerCount++
			stats.AverageComposite += breakdown.CompositeScore
			stats.PlayerRatings = append(stats.PlayerRatings, PlayerRating{
				PlayerID:       assessment.PlayerID,
				AssessmentID:   assessment.ID,
				CompositeScore: breakdown.CompositeScore,
			})
			for category, score := range breakdown.CategoryScores {
				categorySums[category] += score
				categoryCounts[category]++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stats.AssessedPlayerCount > 0 {
		stats.AverageComposite /= float64(stats.AssessedPlayerCount)
	}
	for category, sum := range categorySums {
		stats.CategoryAverages[category] = sum / float64(categoryCounts[category])
	}
	sort.Slice(stats.PlayerRatings, func(i, j int) bool {
		if stats.PlayerRatings[i].CompositeScore != stats.PlayerRatings[j].CompositeScore {
			return stats.PlayerRatings[i].CompositeScore > stats.PlayerRatings[j].CompositeScore
		}
		return stats.PlayerRatings[i].PlayerID.String() < stats.PlayerRatings[j].PlayerID.String()
	})
	return stats, nil
}
