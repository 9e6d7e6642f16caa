package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/fivetoolhq/fivetool-backend/internal/templates"
	"github.com/fivetoolhq/fivetool-backend/internal/types"
)

// Completeness reports how much of the session's template set has been
// entered. It never gates finalize; incomplete sessions may be finalized.
type Completeness struct {
	CompletedMetricIDs []int `json:"completed_metric_ids"`
	TotalMetricCount   int   `json:"total_metric_count"`
}

// MergeValues merges an incoming value snapshot into the current matrix and
// returns a new matrix; neither input is mutated. Keys absent from incoming
// are preserved. An explicitly present entry always wins, including an empty
// one, so a station can clear a mis-entered cell. Writes to different
// (player, metric) pairs commute; the same pair is resolved by whichever
// patch the store committed last.
func MergeValues(current, incoming types.ValueMatrix) types.ValueMatrix {
	out := current.Clone()
	for playerID, row := range incoming {
		dst, ok := out[playerID]
		if !ok {
			dst = make(map[int]types.RawValue, len(row))
			out[playerID] = dst
		}
		for metricID, val := range row {
			dst[metricID] = val
		}
	}
	return out
}

// ComputeCompleteness is a pure function over the current matrix. A metric
// counts as completed once every effective participant has a non-empty value
// for it; with no participants and no values nothing is complete.
func ComputeCompleteness(session *types.AssessmentSession, sectionTemplates []*templates.Template) Completeness {
	matrix := session.ValueMatrix()
	participants := session.Participants()
	if len(participants) == 0 {
		participants = matrix.PlayersWithValues()
	}

	total := 0
	var completed []int
	for _, t := range sectionTemplates {
		total += len(t.Metrics)
		for _, metric := range t.Metrics {
			if len(participants) == 0 {
				continue
			}
			if allEntered(matrix, participants, metric.ID) {
				completed = append(completed, metric.ID)
			}
		}
	}
	sort.Ints(completed)
	return Completeness{CompletedMetricIDs: completed, TotalMetricCount: total}
}

func allEntered(matrix types.ValueMatrix, participants []uuid.UUID, metricID int) bool {
	for _, playerID := range participants {
		row, ok := matrix[playerID]
		if !ok {
			return false
		}
		val, ok := row[metricID]
		if !ok || val.IsEmpty() {
			return false
		}
	}
	return true
}
