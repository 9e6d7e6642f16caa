package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
	"github.com/fivetoolhq/fivetool-backend/internal/repos"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// testDB is a schemaless handle used only as a transaction carrier for
// repo fakes; nothing is ever persisted through it.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	db       *gorm.DB
	sessions map[uuid.UUID]*types.AssessmentSession
}

func newFakeSessionRepo(db *gorm.DB) *fakeSessionRepo {
	return &fakeSessionRepo{db: db, sessions: map[uuid.UUID]*types.AssessmentSession{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.AssessmentSession) (*types.AssessmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	stored := *session
	f.sessions[session.ID] = &stored
	return session, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repos.ErrSessionNotFound, id)
	}
	out := *stored
	return &out, nil
}

func (f *fakeSessionRepo) GetByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.AssessmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.AssessmentSession
	for _, s := range f.sessions {
		if s.TeamID != nil && *s.TeamID == teamID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Mutate(ctx context.Context, id uuid.UUID, fn func(tx *gorm.DB, session *types.AssessmentSession) error) (*types.AssessmentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repos.ErrSessionNotFound, id)
	}
	working := *stored
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, &working)
	})
	if err != nil {
		return nil, err
	}
	f.sessions[id] = &working
	out := working
	return &out, nil
}

type fakeAssessmentRepo struct {
	mu          sync.Mutex
	rows        []*types.Assessment
	failPlayers map[uuid.UUID]error
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{failPlayers: map[uuid.UUID]error{}}
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Assessment) (*types.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failPlayers[row.PlayerID]; ok {
		return nil, err
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	stored := *row
	f.rows = append(f.rows, &stored)
	return row, nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repos.ErrAssessmentNotFound, id)
}

func (f *fakeAssessmentRepo) GetByPlayerID(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Assessment
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].PlayerID == playerID {
			cp := *f.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Assessment
	for _, r := range f.rows {
		if r.SessionID == sessionID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) GetByPlayerIDs(ctx context.Context, tx *gorm.DB, playerIDs []uuid.UUID) ([]*types.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range playerIDs {
		want[id] = true
	}
	var out []*types.Assessment
	for i := len(f.rows) - 1; i >= 0; i-- {
		if want[f.rows[i].PlayerID] {
			cp := *f.rows[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeDefinitionRepo struct {
	medals   []*types.MedalDefinition
	trophies []*types.TrophyDefinition
}

func (f *fakeDefinitionRepo) ListMedalDefinitions(ctx context.Context, tx *gorm.DB, ageGroupLabel string) ([]*types.MedalDefinition, error) {
	var out []*types.MedalDefinition
	for _, d := range f.medals {
		if d.AgeGroupLabel == ageGroupLabel {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDefinitionRepo) ListTrophyDefinitions(ctx context.Context, tx *gorm.DB, ageGroupLabel string) ([]*types.TrophyDefinition, error) {
	var out []*types.TrophyDefinition
	for _, d := range f.trophies {
		if d.AgeGroupLabel == ageGroupLabel {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDefinitionRepo) CountMedalDefinitions(ctx context.Context, tx *gorm.DB) (int64, error) {
	return int64(len(f.medals)), nil
}

func (f *fakeDefinitionRepo) SeedMedalDefinitions(ctx context.Context, tx *gorm.DB, rows []*types.MedalDefinition) error {
	f.medals = append(f.medals, rows...)
	return nil
}

func (f *fakeDefinitionRepo) SeedTrophyDefinitions(ctx context.Context, tx *gorm.DB, rows []*types.TrophyDefinition) error {
	f.trophies = append(f.trophies, rows...)
	return nil
}

type medalGrantKey struct {
	definitionID int
	playerID     uuid.UUID
	assessmentID uuid.UUID
}

type trophyGrantKey struct {
	definitionID int
	teamID       uuid.UUID
	assessmentID uuid.UUID
}

type fakeGrantRepo struct {
	mu       sync.Mutex
	medals   map[medalGrantKey]*types.MedalGrant
	trophies map[trophyGrantKey]*types.TrophyGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{
		medals:   map[medalGrantKey]*types.MedalGrant{},
		trophies: map[trophyGrantKey]*types.TrophyGrant{},
	}
}

func (f *fakeGrantRepo) CreateMedalIfAbsent(ctx context.Context, tx *gorm.DB, grant *types.MedalGrant) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := medalGrantKey{grant.DefinitionID, grant.PlayerID, grant.SourceAssessmentID}
	if _, ok := f.medals[key]; ok {
		return false, nil
	}
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	stored := *grant
	f.medals[key] = &stored
	return true, nil
}

func (f *fakeGrantRepo) CreateTrophyIfAbsent(ctx context.Context, tx *gorm.DB, grant *types.TrophyGrant) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := trophyGrantKey{grant.DefinitionID, grant.TeamID, grant.SourceAssessmentID}
	if _, ok := f.trophies[key]; ok {
		return false, nil
	}
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}
	stored := *grant
	f.trophies[key] = &stored
	return true, nil
}

func (f *fakeGrantRepo) ListMedalsByPlayer(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.MedalGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.MedalGrant
	for _, g := range f.medals {
		if g.PlayerID == playerID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGrantRepo) ListMedalsByAssessment(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.MedalGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.MedalGrant
	for _, g := range f.medals {
		if g.SourceAssessmentID == assessmentID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeGrantRepo) ListTrophiesByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TrophyGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.TrophyGrant
	for _, g := range f.trophies {
		if g.TeamID == teamID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakePlayerRepo struct {
	players []*types.Player
}

func (f *fakePlayerRepo) GetByTeamID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Player, error) {
	var out []*types.Player
	for _, p := range f.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlayerRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Player, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*types.Player
	for _, p := range f.players {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
