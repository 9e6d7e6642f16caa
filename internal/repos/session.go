package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

var ErrSessionNotFound = errors.New("assessment session not found")

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.AssessmentSession) (*types.AssessmentSession, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSession, error)
	GetByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.AssessmentSession, error)
	// Mutate runs fn against the session row under a transaction, holding a
	// row lock for the duration so concurrent patches apply as atomic
	// read-merge-write. fn receives the transaction handle for any writes
	// that must commit or roll back with the session update.
	Mutate(ctx context.Context, id uuid.UUID, fn func(tx *gorm.DB, session *types.AssessmentSession) error) (*types.AssessmentSession, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	repoLog := baseLog.With("repo", "SessionRepo")
	return &sessionRepo{db: db, log: repoLog}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.AssessmentSession) (*types.AssessmentSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var session types.AssessmentSession
	if err := transaction.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) GetByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.AssessmentSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AssessmentSession
	if teamID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(tx *gorm.DB, session *types.AssessmentSession) error) (*types.AssessmentSession, error) {
	var out *types.AssessmentSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		// sqlite (tests) has no FOR UPDATE; its writer lock covers us there.
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var session types.AssessmentSession
		if err := query.First(&session, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
			}
			return err
		}
		if err := fn(tx, &session); err != nil {
			return err
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}
		out = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
