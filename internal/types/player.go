package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const PlayerStatusActive = "active"

// Player is the roster boundary. Rows are owned by the external roster
// system; this core only reads them when resolving default participants.
type Player struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TeamID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"team_id"`
	FirstName    string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string         `gorm:"column:last_name;not null" json:"last_name"`
	JerseyNumber *int           `gorm:"column:jersey_number" json:"jersey_number,omitempty"`
	Status       string         `gorm:"column:status;not null;default:'active';index" json:"status"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Player) TableName() string { return "players" }
