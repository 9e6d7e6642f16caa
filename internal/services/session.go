package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/platform/apierr"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/requestdata"
	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

const (
	CodeSessionFinalized = "session_finalized"
	CodeSessionNotFound  = "session_not_found"
	CodeTemplateNotFound = "template_not_found"
	CodeInvalidSession   = "invalid_session"
)

// CreateSessionInput describes a new evaluation session. EvaluationType
// selects a single section; empty means the full section list for the age
// group. Participants are optional at creation (tryouts add them later).
type CreateSessionInput struct {
	TeamID         *uuid.UUID  `json:"team_id"`
	AgeGroup       string      `json:"age_group"`
	EvaluationType string      `json:"evaluation_type"`
	Mode           string      `json:"mode"`
	SessionMode    string      `json:"session_mode"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

// SessionPatch is a closed, versioned patch shape: known optional fields plus
// a forward-compatible extension map the reconciler ignores. A nil field
// leaves the session's value untouched (merge, not replace).
type SessionPatch struct {
	Values         types.ValueMatrix      `json:"values,omitempty"`
	ParticipantIDs *[]uuid.UUID           `json:"participant_ids,omitempty"`
	ActiveSection  *int                   `json:"active_section,omitempty"`
	Mode           *string                `json:"mode,omitempty"`
	SessionMode    *string                `json:"session_mode,omitempty"`
	EnterEditing   bool                   `json:"enter_editing,omitempty"`
	Extensions     map[string]interface{} `json:"extensions,omitempty"`
}

type SessionService interface {
	Create(ctx context.Context, tx *gorm.DB, input CreateSessionInput) (*types.AssessmentSession, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSession, error)
	// Patch applies a partial update as one atomic read-merge-write.
	// Rejected with CodeSessionFinalized once the session is finalized.
	Patch(ctx context.Context, id uuid.UUID, patch SessionPatch) (*types.AssessmentSession, error)
	Completeness(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Completeness, error)
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	registry    *templates.Registry
}

func NewSessionService(db *gorm.DB, baseLog *logger.Logger, sessionRepo repos.SessionRepo, registry *templates.Registry) SessionService {
	serviceLog := baseLog.With("service", "SessionService")
	return &sessionService{
		db:          db,
		log:         serviceLog,
		sessionRepo: sessionRepo,
		registry:    registry,
	}
}

func (ss *sessionService) Create(ctx context.Context, tx *gorm.DB, input CreateSessionInput) (*types.AssessmentSession, error) {
	if err := validateMode(input.Mode); err != nil {
		return nil, err
	}
	if err := validateSessionMode(input.SessionMode); err != nil {
		return nil, err
	}

	sectionIDs, err := ss.resolveSections(input.AgeGroup, input.EvaluationType)
	if err != nil {
		return nil, err
	}

	createdBy := uuid.Nil
	if rd := requestdata.GetRequestData(ctx); rd != nil {
		createdBy = rd.CoachID
	}

	session := &types.AssessmentSession{
		ID:                 uuid.New(),
		TeamID:             input.TeamID,
		TemplateSectionIDs: datatypes.NewJSONSlice(sectionIDs),
		Mode:               input.Mode,
		SessionMode:        input.SessionMode,
		Status:             types.SessionStatusDraft,
		ParticipantIDs:     datatypes.NewJSONSlice(input.ParticipantIDs),
		Values:             datatypes.NewJSONType(types.ValueMatrix{}),
		CreatedBy:          createdBy,
	}

	created, err := ss.sessionRepo.Create(ctx, tx, session)
	if err != nil {
		ss.log.Error("Create session failed", "error", err)
		return nil, fmt.Errorf("create session: %w", err)
	}
	ss.log.Info("Created assessment session",
		"session_id", created.ID,
		"age_group", input.AgeGroup,
		"mode", input.Mode,
		"sections", len(sectionIDs),
	)
	return created, nil
}

func (ss *sessionService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSession, error) {
	session, err := ss.sessionRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, CodeSessionNotFound, err)
	}
	return session, nil
}

func (ss *sessionService) Patch(ctx context.Context, id uuid.UUID, patch SessionPatch) (*types.AssessmentSession, error) {
	if patch.Mode != nil {
		if err := validateMode(*patch.Mode); err != nil {
			return nil, err
		}
	}
	if patch.SessionMode != nil {
		if err := validateSessionMode(*patch.SessionMode); err != nil {
			return nil, err
		}
	}

	updated, err := ss.sessionRepo.Mutate(ctx, id, func(tx *gorm.DB, session *types.AssessmentSession) error {
		if session.IsFinalized() {
			return apierr.New(http.StatusConflict, CodeSessionFinalized,
				fmt.Errorf("session %s is finalized and read-only", session.ID))
		}

		if len(patch.Values) > 0 {
			merged := MergeValues(session.ValueMatrix(), patch.Values)
			session.Values = datatypes.NewJSONType(merged)
		}
		if patch.ParticipantIDs != nil {
			session.ParticipantIDs = datatypes.NewJSONSlice(*patch.ParticipantIDs)
		}
		if patch.ActiveSection != nil {
			session.ActiveSection = *patch.ActiveSection
		}
		if patch.Mode != nil {
			session.Mode = *patch.Mode
		}
		if patch.SessionMode != nil {
			session.SessionMode = *patch.SessionMode
		}

		// draft -> active on first value write or explicit editing; never
		// backward.
		if session.Status == types.SessionStatusDraft && (len(patch.Values) > 0 || patch.EnterEditing) {
			session.Status = types.SessionStatusActive
		}
		return nil
	})
	if err != nil {
		if _, ok := apierr.From(err); ok {
			return nil, err
		}
		if HasNotFound(err) {
			return nil, apierr.New(http.StatusNotFound, CodeSessionNotFound, err)
		}
		ss.log.Error("Patch session failed", "error", err, "session_id", id)
		return nil, fmt.Errorf("patch session: %w", err)
	}
	return updated, nil
}

func (ss *sessionService) Completeness(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Completeness, error) {
	session, err := ss.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	sectionTemplates, err := ss.registry.TemplatesByIDs(session.TemplateSectionIDs)
	if err != nil {
		return nil, apierr.New(http.StatusUnprocessableEntity, CodeTemplateNotFound, err)
	}
	c := ComputeCompleteness(session, sectionTemplates)
	return &c, nil
}

func (ss *sessionService) resolveSections(ageGroup, evaluationType string) ([]int, error) {
	if evaluationType != "" {
		t, err := ss.registry.Resolve(ageGroup, evaluationType)
		if err != nil {
			return nil, apierr.New(http.StatusNotFound, CodeTemplateNotFound, err)
		}
		return []int{t.ID}, nil
	}
	sections, err := ss.registry.ResolveFullSections(ageGroup)
	if err != nil {
		return nil, apierr.New(http.StatusNotFound, CodeTemplateNotFound, err)
	}
	ids := make([]int, 0, len(sections))
	for _, t := range sections {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func validateMode(mode string) error {
	switch mode {
	case types.AssessmentKindOfficial, types.AssessmentKindPractice, types.AssessmentKindTryout:
		return nil
	}
	return apierr.New(http.StatusBadRequest, CodeInvalidSession, fmt.Errorf("unknown mode %q", mode))
}

func validateSessionMode(sessionMode string) error {
	switch sessionMode {
	case types.SessionModeSingle, types.SessionModeMultiStation:
		return nil
	}
	return apierr.New(http.StatusBadRequest, CodeInvalidSession, fmt.Errorf("unknown session mode %q", sessionMode))
}
