package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssessmentValue is one recorded metric entry on a finalized assessment.
type AssessmentValue struct {
	MetricID     int      `json:"metric_id"`
	ValueNumeric *float64 `json:"value_numeric"`
	ValueText    *string  `json:"value_text"`
}

// Assessment is the immutable per-player record produced by finalizing a
// session. A corrected re-evaluation creates a new Assessment; rows are never
// updated after creation.
type Assessment struct {
	ID         uuid.UUID                              `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlayerID   uuid.UUID                              `gorm:"type:uuid;not null;index" json:"player_id"`
	TeamID     *uuid.UUID                             `gorm:"type:uuid;index" json:"team_id,omitempty"`
	SessionID  uuid.UUID                              `gorm:"type:uuid;not null;index" json:"session_id"`
	TemplateID int                                    `gorm:"column:template_id;not null" json:"template_id"`
	Kind       string                                 `gorm:"column:kind;not null;default:'practice'" json:"kind"`
	Values     datatypes.JSONSlice[AssessmentValue]   `gorm:"type:jsonb" json:"values"`
	CreatedBy  uuid.UUID                              `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt  time.Time                              `gorm:"not null;default:now()" json:"created_at"`
}

func (Assessment) TableName() string { return "assessments" }
