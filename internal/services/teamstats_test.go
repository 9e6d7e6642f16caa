package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

func TestGetTeamStats_AggregatesLatestAssessments(t *testing.T) {
	fx := newScoringFixture(t, nil)
	teamID := uuid.New()

	hitting, err := fx.registry.Resolve("16u", templates.EvalTypeHitting)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	contactPct := metricByKey(t, hitting, "contact_pct")

	assessed := &types.Player{ID: uuid.New(), TeamID: teamID, Status: types.PlayerStatusActive}
	unassessed := &types.Player{ID: uuid.New(), TeamID: teamID, Status: types.PlayerStatusActive}
	benched := &types.Player{ID: uuid.New(), TeamID: teamID, Status: "inactive"}
	players := &fakePlayerRepo{players: []*types.Player{assessed, unassessed, benched}}

	seed := func(contact float64) *types.Assessment {
		a := highContactAssessment(t, fx.registry, types.AssessmentKindPractice, &teamID)
		a.PlayerID = assessed.ID
		a.Values[0] = types.AssessmentValue{MetricID: contactPct.ID, ValueNumeric: fptr(contact)}
		if _, err := fx.assessments.Create(context.Background(), nil, a); err != nil {
			t.Fatalf("seed assessment: %v", err)
		}
		return a
	}
	seed(60)
	latest := seed(90) // newer row wins

	log := testLogger(t)
	roster := NewRosterService(nil, log, players)
	stats, err := NewTeamStatsService(nil, log, roster, fx.assessments, fx.svc).
		GetTeamStats(context.Background(), teamID)
	if err != nil {
		t.Fatalf("team stats: %v", err)
	}

	if stats.PlayerCount != 2 {
		t.Fatalf("inactive player counted: %d", stats.PlayerCount)
	}
	if stats.AssessedPlayerCount != 1 {
		t.Fatalf("expected 1 assessed player, got %d", stats.AssessedPlayerCount)
	}
	if len(stats.PlayerRatings) != 1 || stats.PlayerRatings[0].AssessmentID != latest.ID {
		t.Fatalf("stale assessment used: %+v", stats.PlayerRatings)
	}
	if !approx(stats.AverageComposite, 90) {
		t.Fatalf("expected average 90, got %v", stats.AverageComposite)
	}
	if !approx(stats.CategoryAverages[templates.CategoryContact], 90) {
		t.Fatalf("expected contact average 90, got %v", stats.CategoryAverages)
	}
}

func TestGetTeamStats_EmptyRoster(t *testing.T) {
	fx := newScoringFixture(t, nil)
	log := testLogger(t)
	roster := NewRosterService(nil, log, &fakePlayerRepo{})

	stats, err := NewTeamStatsService(nil, log, roster, fx.assessments, fx.svc).
		GetTeamStats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("team stats: %v", err)
	}
	if stats.PlayerCount != 0 || stats.AssessedPlayerCount != 0 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
}
