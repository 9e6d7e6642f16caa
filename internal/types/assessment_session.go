package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SessionStatusDraft     = "draft"
	SessionStatusActive    = "active"
	SessionStatusFinalized = "finalized"

	SessionModeSingle       = "single"
	SessionModeMultiStation = "multi_station"

	AssessmentKindOfficial = "official"
	AssessmentKindPractice = "practice"
	AssessmentKindTryout   = "tryout"
)

// AssessmentSession is a mutable, in-progress evaluation event. Status only
// moves forward (draft -> active -> finalized); once finalized the value
// matrix and participant list are read-only and ResultMap holds the
// player -> assessment mapping produced by the finalize pass.
type AssessmentSession struct {
	ID                 uuid.UUID                                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TeamID             *uuid.UUID                                  `gorm:"type:uuid;index" json:"team_id,omitempty"`
	TemplateSectionIDs datatypes.JSONSlice[int]                    `gorm:"type:jsonb" json:"template_section_ids"`
	Mode               string                                      `gorm:"column:mode;not null;default:'practice'" json:"mode"`
	SessionMode        string                                      `gorm:"column:session_mode;not null;default:'single'" json:"session_mode"`
	Status             string                                      `gorm:"column:status;not null;default:'draft';index" json:"status"`
	ParticipantIDs     datatypes.JSONSlice[uuid.UUID]              `gorm:"type:jsonb" json:"participant_ids"`
	Values             datatypes.JSONType[ValueMatrix]             `gorm:"type:jsonb" json:"values"`
	ActiveSection      int                                         `gorm:"column:active_section;not null;default:0" json:"active_section"`
	ResultMap          datatypes.JSONType[map[uuid.UUID]uuid.UUID] `gorm:"type:jsonb" json:"result_map"`
	CreatedBy          uuid.UUID                                   `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt          time.Time                                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time                                   `gorm:"not null;default:now()" json:"updated_at"`
	FinalizedAt        *time.Time                                  `gorm:"column:finalized_at" json:"finalized_at,omitempty"`
	DeletedAt          gorm.DeletedAt                              `gorm:"index" json:"deleted_at,omitempty"`
}

func (AssessmentSession) TableName() string { return "assessment_sessions" }

func (s *AssessmentSession) IsFinalized() bool {
	return s.Status == SessionStatusFinalized
}

// ValueMatrix unwraps the jsonb column, never returning nil.
func (s *AssessmentSession) ValueMatrix() ValueMatrix {
	m := s.Values.Data()
	if m == nil {
		return ValueMatrix{}
	}
	return m
}

// Participants unwraps the explicit roster, which may be empty for tryouts.
func (s *AssessmentSession) Participants() []uuid.UUID {
	return []uuid.UUID(s.ParticipantIDs)
}
