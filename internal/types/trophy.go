package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrophyDefinition mirrors MedalDefinition but is awarded at team scope.
type TrophyDefinition struct {
	ID            int            `gorm:"primaryKey;autoIncrement" json:"id"`
	AgeGroupLabel string         `gorm:"column:age_group_label;not null;index:idx_trophy_def_lookup" json:"age_group_label"`
	MetricCode    string         `gorm:"column:metric_code;not null;index:idx_trophy_def_lookup" json:"metric_code"`
	Tier          string         `gorm:"column:tier;not null" json:"tier"`
	MinScore      float64        `gorm:"column:min_score;not null" json:"min_score"`
	ImageFilename string         `gorm:"column:image_filename" json:"image_filename"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TrophyDefinition) TableName() string { return "trophy_definitions" }

type TrophyGrant struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DefinitionID       int       `gorm:"column:definition_id;not null;uniqueIndex:idx_trophy_grant_once" json:"definition_id"`
	TeamID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trophy_grant_once;index" json:"team_id"`
	SourceAssessmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_trophy_grant_once" json:"source_assessment_id"`
	AwardedAt          time.Time `gorm:"not null;default:now()" json:"awarded_at"`
}

func (TrophyGrant) TableName() string { return "trophy_grants" }
