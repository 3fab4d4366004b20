package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/Gtaray/sanctuary-randomizer/engine/state"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled store for referential integrity. Undefined
// connection targets are tolerated (the graph builder skips them — partially
// authored world graphs are a working state); unresolvable item names are not.
func validate(store *state.Store) error {
	ve := &ValidationError{}

	itemExists := func(name string) bool {
		if _, ok := store.Items[name]; ok {
			return true
		}
		_, ok := store.Monsters[name]
		return ok
	}

	for _, name := range store.RegionOrder {
		region := store.Regions[name]
		for _, conn := range region.Connections {
			if conn.Target == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"region %q has a connection without a target", name))
				continue
			}
			if _, ok := store.Regions[conn.Target]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"region %q connects to undefined region %q (skipped)", name, conn.Target))
			}
		}
	}

	for _, name := range store.LocationOrder {
		loc := store.Locations[name]
		if loc.DefaultItem != "" && !itemExists(loc.DefaultItem) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"location %q default item %q matches no item, monster or flag", name, loc.DefaultItem))
		}
	}

	for _, name := range store.EncounterOrder {
		enc := store.Encounters[name]
		if len(enc.Monsters) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"encounter %q declares no monster slots", name))
		}
		if len(enc.Monsters) > 3 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"encounter %q declares %d monster slots, max is 3", name, len(enc.Monsters)))
		}
		for _, species := range enc.Monsters {
			if _, ok := store.Monsters[species]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"encounter %q references undefined monster %q", name, species))
			}
		}
		for _, species := range enc.Excluded {
			if _, ok := store.Monsters[species]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"encounter %q excludes undefined monster %q", name, species))
			}
		}
	}

	for _, rule := range store.SeedRules {
		if rule.Group == "" {
			ve.Errors = append(ve.Errors, "seed rule without a group tag")
		}
		if len(rule.Areas) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"seed rule for group %q has an empty area whitelist", rule.Group))
		}
	}

	for _, hint := range store.Hints {
		if hint.Item != "" && !itemExists(hint.Item) {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"hint %q targets undefined item %q", hint.ID, hint.Item))
		}
		if hint.Location != "" {
			if _, ok := store.Locations[hint.Location]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"hint %q targets undefined location %q", hint.ID, hint.Location))
			}
		}
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
