package types

import (
	"github.com/google/uuid"
)

// RawValue is a single recorded test entry. Exactly one of the two fields is
// meaningful depending on the metric's value kind; both nil means "not yet
// entered", which is distinct from a recorded zero.
type RawValue struct {
	ValueNumeric *float64 `json:"value_numeric"`
	ValueText    *string  `json:"value_text"`
}

// IsEmpty reports whether nothing has been entered for this cell.
func (v RawValue) IsEmpty() bool {
	return v.ValueNumeric == nil && (v.ValueText == nil || *v.ValueText == "")
}

// ValueMatrix is the in-progress value set of a session: player -> metric ->
// raw value. Stored as a jsonb column on the session row.
type ValueMatrix map[uuid.UUID]map[int]RawValue

// Clone returns a deep copy. Merging never mutates the source matrix.
func (m ValueMatrix) Clone() ValueMatrix {
	if m == nil {
		return ValueMatrix{}
	}
	out := make(ValueMatrix, len(m))
	for playerID, row := range m {
		rowCopy := make(map[int]RawValue, len(row))
		for metricID, val := range row {
			rowCopy[metricID] = val
		}
		out[playerID] = rowCopy
	}
	return out
}

// PlayersWithValues returns the ids of players that have at least one
// non-empty entry in the matrix.
func (m ValueMatrix) PlayersWithValues() []uuid.UUID {
	var out []uuid.UUID
	for playerID, row := range m {
		for _, val := range row {
			if !val.IsEmpty() {
				out = append(out, playerID)
				break
			}
		}
	}
	return out
}
