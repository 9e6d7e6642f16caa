// Command dump_templates prints the full test template catalog as JSON, one
// entry per age group. Used to hand the metric definitions (ids, units,
// bounds) to frontend and data teams without hitting a running server.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fivetoolhq/fivetool-backend/internal/rules"
	"github.com/fivetoolhq/fivetool-backend/internal/templates"
)

type catalogEntry struct {
	AgeGroup  string                `json:"age_group"`
	Templates []*templates.Template `json:"templates"`
}

type catalog struct {
	RuleTableVersion int            `json:"rule_table_version"`
	AgeGroups        []catalogEntry `json:"age_groups"`
}

func main() {
	registry := templates.NewRegistry()

	out := catalog{RuleTableVersion: rules.LoadDefault().Version()}
	for _, age := range registry.AgeGroups() {
		sections, err := registry.ResolveFullSections(age)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve %s: %v\n", age, err)
			os.Exit(1)
		}
		out.AgeGroups = append(out.AgeGroups, catalogEntry{AgeGroup: age, Templates: sections})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode catalog: %v\n", err)
		os.Exit(1)
	}
}
