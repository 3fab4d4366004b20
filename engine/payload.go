package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Payload is the per-player slot data handed to the runtime client. It
// carries everything the client patch needs and nothing the host tracks
// itself.
type Payload struct {
	Player    int                       `json:"player"`
	Seed      int64                     `json:"seed"`
	Options   PayloadOptions            `json:"options"`
	Monsters  map[string]string         `json:"monsters"`
	Champions map[string]string         `json:"champions"`
	Locations map[string]map[string]int `json:"locations"`
	Hints     []PayloadHint             `json:"hints"`
}

// PayloadOptions echoes the generation settings the client must honor.
type PayloadOptions struct {
	Goal          string `json:"goal"`
	Shuffle       string `json:"monster_shuffle"`
	RandomizeEggs bool   `json:"randomize_eggs"`
	MonsterShift  bool   `json:"monster_shift"`
	SkipPlot      bool   `json:"skip_plot"`
	Doors         string `json:"doors"`
	LocalAreaKeys bool   `json:"local_area_keys"`
	LimitMobility bool   `json:"limit_mobility"`
}

// PayloadHint is one resolved hint plus its in-game delivery location.
type PayloadHint struct {
	Location string `json:"location"`
	Text     string `json:"text"`
	Suppress bool   `json:"suppress"`
}

// BuildPayload assembles the slot data for one generated world.
func (g *Generator) BuildPayload(w *World) *Payload {
	p := &Payload{
		Player: w.Player,
		Seed:   g.Options.Seed,
		Options: PayloadOptions{
			Goal:          g.Options.Goal.String(),
			Shuffle:       g.Options.Shuffle.String(),
			RandomizeEggs: g.Options.RandomizeEggs,
			MonsterShift:  g.Options.MonsterShift,
			SkipPlot:      g.Options.SkipPlot,
			Doors:         g.Options.Doors.String(),
			LocalAreaKeys: g.Options.LocalAreaKeys,
			LimitMobility: g.Options.LimitMobility,
		},
		Monsters:  make(map[string]string),
		Champions: make(map[string]string),
		Locations: make(map[string]map[string]int),
	}

	// Encounter slots by event location name, champions by area.
	for _, name := range sortedEncounterNames(w.Encounters) {
		enc := w.Encounters[name]
		for slot, species := range enc.Monsters {
			p.Monsters[fmt.Sprintf("%s_%d", enc.Name, slot)] = species
		}
		if enc.Champion && len(enc.Monsters) > 0 {
			p.Champions[enc.Area] = enc.Monsters[0]
		}
	}

	// Client-visible location addresses grouped by area. Event locations
	// have no client address.
	for _, loc := range w.Graph.Locations() {
		if loc.Event {
			continue
		}
		byArea, ok := p.Locations[loc.Area]
		if !ok {
			byArea = make(map[string]int)
			p.Locations[loc.Area] = byArea
		}
		byArea[loc.DisplayName] = loc.ID
	}

	for _, h := range w.Hints {
		p.Hints = append(p.Hints, PayloadHint{Location: h.Location, Text: h.Text, Suppress: h.Suppress})
	}
	return p
}

// WritePayload serializes one payload as indented JSON.
func WritePayload(path string, p *Payload) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing payload: %w", err)
	}
	return nil
}

func sortedEncounterNames(encs map[string]*types.EncounterData) []string {
	names := make([]string, 0, len(encs))
	for name := range encs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
