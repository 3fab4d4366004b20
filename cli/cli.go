// Package cli renders generation results as plain-text output: a settings
// summary, the spoiler log grouped by area, and encounter assignments.
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Gtaray/sanctuary-randomizer/engine"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Writer emits spoiler output for generated worlds.
type Writer struct {
	Store   *state.Store
	Options *options.Options
	Out     io.Writer
}

// New creates a writer targeting stdout.
func New(store *state.Store, opts *options.Options) *Writer {
	return &Writer{Store: store, Options: opts, Out: os.Stdout}
}

// WriteSummary prints the generation settings header.
func (w *Writer) WriteSummary() {
	fmt.Fprintf(w.Out, "Seed:            %d\n", w.Options.Seed)
	fmt.Fprintf(w.Out, "Players:         %d\n", w.Options.Players)
	fmt.Fprintf(w.Out, "Goal:            %s\n", w.Options.Goal)
	fmt.Fprintf(w.Out, "Monster shuffle: %s\n", w.Options.Shuffle)
	fmt.Fprintf(w.Out, "Doors:           %s\n", w.Options.Doors)
	var extras []string
	if w.Options.RandomizeEggs {
		extras = append(extras, "randomize_eggs")
	}
	if w.Options.MonsterShift {
		extras = append(extras, "monster_shift")
	}
	if w.Options.SkipPlot {
		extras = append(extras, "skip_plot")
	}
	if w.Options.LocalAreaKeys {
		extras = append(extras, "local_area_keys")
	}
	if w.Options.LimitMobility {
		extras = append(extras, "limit_mobility")
	}
	if len(extras) > 0 {
		fmt.Fprintf(w.Out, "Extras:          %s\n", strings.Join(extras, ", "))
	}
	fmt.Fprintln(w.Out)
}

// WriteSpoiler prints one world's placements grouped by area. Event
// locations (locked monsters, champion ranks, plot flags) stay out of the
// spoiler; they are fixed by generation, not placed.
func (w *Writer) WriteSpoiler(world *engine.World) {
	fmt.Fprintf(w.Out, "=== Player %d ===\n\n", world.Player)

	byArea := make(map[string][]types.Placement)
	for _, p := range world.Placements {
		loc, ok := world.Graph.Location(p.Location)
		if !ok || loc.Event {
			continue
		}
		byArea[p.Area] = append(byArea[p.Area], p)
	}

	areas := make([]string, 0, len(byArea))
	for area := range byArea {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	for _, area := range areas {
		fmt.Fprintf(w.Out, "%s:\n", area)
		placements := byArea[area]
		sort.Slice(placements, func(i, j int) bool {
			return placements[i].Location < placements[j].Location
		})
		for _, p := range placements {
			name := p.Location
			if loc, ok := world.Graph.Location(p.Location); ok && loc.DisplayName != "" {
				name = loc.DisplayName
			}
			fmt.Fprintf(w.Out, "  %-40s %s\n", name, p.Item)
		}
		fmt.Fprintln(w.Out)
	}
}

// WriteEncounters prints the randomized encounter table, champions marked.
func (w *Writer) WriteEncounters(world *engine.World) {
	if w.Options.Shuffle == types.ShuffleOff {
		return
	}
	fmt.Fprintf(w.Out, "Encounters (player %d):\n", world.Player)

	names := make([]string, 0, len(world.Encounters))
	for name := range world.Encounters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		enc := world.Encounters[name]
		label := enc.Name
		if enc.Champion {
			label += " [champion]"
		}
		fmt.Fprintf(w.Out, "  %-40s %s\n", label, strings.Join(enc.Monsters, ", "))
	}
	fmt.Fprintln(w.Out)
}

// WriteHints prints resolved hints, suppressed ones marked.
func (w *Writer) WriteHints(world *engine.World) {
	if len(world.Hints) == 0 {
		return
	}
	fmt.Fprintf(w.Out, "Hints (player %d):\n", world.Player)
	for _, h := range world.Hints {
		marker := " "
		if h.Suppress {
			marker = "*"
		}
		fmt.Fprintf(w.Out, " %s %s\n", marker, h.Text)
	}
	fmt.Fprintln(w.Out)
}
