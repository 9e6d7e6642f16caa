package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load parses a rule table from a YAML file.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule table %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses a rule table from YAML bytes.
func Parse(raw []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}
	if t.TableVersion == 0 {
		return nil, fmt.Errorf("rule table missing version")
	}
	if len(t.CategoryWeights.Default) == 0 {
		return nil, fmt.Errorf("rule table v%d has no default category weights", t.TableVersion)
	}
	if len(t.Enum.Default) == 0 {
		return nil, fmt.Errorf("rule table v%d has no default enum points", t.TableVersion)
	}
	return &t, nil
}

// LoadDefault returns the built-in table, used when RULES_PATH is unset.
func LoadDefault() *Table {
	t, err := Parse([]byte(defaultTableYAML))
	if err != nil {
		// The embedded table is part of the binary; failing to parse it is
		// a build defect, not a runtime condition.
		panic(err)
	}
	return t
}
