package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// MedalDefinition is versioned configuration: one row per
// (age group, scoring category, tier) with the minimum score that earns it.
// MetricCode is a scoring category key, or "composite" for the overall rating.
type MedalDefinition struct {
	ID            int            `gorm:"primaryKey;autoIncrement" json:"id"`
	AgeGroupLabel string         `gorm:"column:age_group_label;not null;index:idx_medal_def_lookup" json:"age_group_label"`
	MetricCode    string         `gorm:"column:metric_code;not null;index:idx_medal_def_lookup" json:"metric_code"`
	Tier          string         `gorm:"column:tier;not null" json:"tier"`
	MinScore      float64        `gorm:"column:min_score;not null" json:"min_score"`
	ImageFilename string         `gorm:"column:image_filename" json:"image_filename"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MedalDefinition) TableName() string { return "medal_definitions" }

// MedalGrant records a medal earned by a player from one official assessment.
// The unique index makes re-scoring the same assessment a no-op.
type MedalGrant struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DefinitionID       int       `gorm:"column:definition_id;not null;uniqueIndex:idx_medal_grant_once" json:"definition_id"`
	PlayerID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_medal_grant_once;index" json:"player_id"`
	SourceAssessmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_medal_grant_once" json:"source_assessment_id"`
	AwardedAt          time.Time `gorm:"not null;default:now()" json:"awarded_at"`
}

func (MedalGrant) TableName() string { return "medal_grants" }
