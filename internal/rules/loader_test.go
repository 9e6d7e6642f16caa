package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse_RejectsMissingVersion(t *testing.T) {
	_, err := Parse([]byte(`
category_weights:
  default:
    contact: 1.0
enum_points:
  default:
    A: 100
`))
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestParse_RejectsMissingDefaultWeights(t *testing.T) {
	_, err := Parse([]byte(`
version: 3
enum_points:
  default:
    A: 100
`))
	if err == nil || !strings.Contains(err.Error(), "category weights") {
		t.Fatalf("expected weights error, got %v", err)
	}
}

func TestParse_RejectsMissingDefaultEnumPoints(t *testing.T) {
	_, err := Parse([]byte(`
version: 3
category_weights:
  default:
    contact: 1.0
`))
	if err == nil || !strings.Contains(err.Error(), "enum points") {
		t.Fatalf("expected enum points error, got %v", err)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	raw := `
version: 7
category_weights:
  default:
    contact: 1.0
enum_points:
  default:
    A: 100
    B: 50
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write temp rules: %v", err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Version() != 7 {
		t.Fatalf("expected version 7, got %d", table.Version())
	}
	if pts := table.EnumPoints("anything"); pts["B"] != 50 {
		t.Fatalf("expected default enum points, got %v", pts)
	}
}

func TestLoadDefault_ParsesEmbeddedTable(t *testing.T) {
	table := LoadDefault()
	if table.Version() != 1 {
		t.Fatalf("expected embedded table version 1, got %d", table.Version())
	}
}

func TestWeightsFor_MostSpecificMatchWins(t *testing.T) {
	table := LoadDefault()

	byAge := table.WeightsFor("hitting", "6u")
	if byAge["contact"] != 0.8 {
		t.Fatalf("expected 6u hitting contact weight 0.8, got %v", byAge["contact"])
	}

	byType := table.WeightsFor("hitting", "10u")
	if byType["contact"] != 0.6 {
		t.Fatalf("expected hitting contact weight 0.6, got %v", byType["contact"])
	}

	fallback := table.WeightsFor("fielding", "10u")
	if fallback["glove"] != 1.0 {
		t.Fatalf("expected default glove weight 1.0, got %v", fallback["glove"])
	}
}

func TestEnumPoints_MetricOverride(t *testing.T) {
	table := LoadDefault()

	framing := table.EnumPoints("framing_grade")
	if framing["B"] != 80 {
		t.Fatalf("expected framing B override 80, got %v", framing["B"])
	}

	generic := table.EnumPoints("swing_grade")
	if generic["B"] != 75 {
		t.Fatalf("expected default B points 75, got %v", generic["B"])
	}
}

func TestWeightsFor_ReturnsCopy(t *testing.T) {
	table := LoadDefault()

	w := table.WeightsFor("hitting", "10u")
	w["contact"] = 0

	again := table.WeightsFor("hitting", "10u")
	if again["contact"] != 0.6 {
		t.Fatalf("caller mutation leaked into the table: %v", again["contact"])
	}
}
