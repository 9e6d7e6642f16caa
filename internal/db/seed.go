package db

import (
	"context"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

// Tier floors on the 0-100 score scale. Operators overwrite these rows with
// their own tables; the seed only exists so a fresh database can award.
var tierFloors = []struct {
	tier     string
	minScore float64
}{
	{types.TierBronze, 60},
	{types.TierSilver, 75},
	{types.TierGold, 85},
	{types.TierPlatinum, 95},
}

var medalCategories = []string{
	templates.CategoryContact,
	templates.CategoryPower,
	templates.CategorySpeed,
	templates.CategoryArmStrength,
	templates.CategoryCommand,
	templates.CategoryReceiving,
	templates.CategoryGlove,
	templates.CategoryComposite,
}

// SeedAwardDefinitions inserts a default medal/trophy threshold table when
// the definitions tables are empty. Never touches existing rows.
func SeedAwardDefinitions(ctx context.Context, defRepo repos.DefinitionRepo, registry *templates.Registry, log *logger.Logger) error {
	count, err := defRepo.CountMedalDefinitions(ctx, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Debug("Award definitions already present, skipping seed", "count", count)
		return nil
	}

	var medals []*types.MedalDefinition
	var trophies []*types.TrophyDefinition
	for _, age := range registry.AgeGroups() {
		for _, category := range medalCategories {
			for _, floor := range tierFloors {
				medals = append(medals, &types.MedalDefinition{
					AgeGroupLabel: age,
					MetricCode:    category,
					Tier:          floor.tier,
					MinScore:      floor.minScore,
				})
			}
		}
		// Trophies are team-level and only track the overall rating.
		for _, floor := range tierFloors {
			trophies = append(trophies, &types.TrophyDefinition{
				AgeGroupLabel: age,
				MetricCode:    templates.CategoryComposite,
				Tier:          floor.tier,
				MinScore:      floor.minScore,
			})
		}
	}

	if err := defRepo.SeedMedalDefinitions(ctx, nil, medals); err != nil {
		return err
	}
	if err := defRepo.SeedTrophyDefinitions(ctx, nil, trophies); err != nil {
		return err
	}
	log.Info("Seeded default award definitions", "medals", len(medals), "trophies", len(trophies))
	return nil
}
