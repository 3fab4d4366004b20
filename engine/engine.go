// Package engine orchestrates one player's world generation: encounter
// randomization, graph construction, pool building, the reference fill, and
// hint resolution. One generation either completes deterministically or
// fails with a configuration error — there is no partial output.
package engine

import (
	"fmt"

	"github.com/Gtaray/sanctuary-randomizer/engine/encounters"
	"github.com/Gtaray/sanctuary-randomizer/engine/graph"
	"github.com/Gtaray/sanctuary-randomizer/engine/hints"
	"github.com/Gtaray/sanctuary-randomizer/engine/placement"
	"github.com/Gtaray/sanctuary-randomizer/engine/pool"
	"github.com/Gtaray/sanctuary-randomizer/engine/rng"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// World is one player's fully generated output.
type World struct {
	Player     int
	Graph      *graph.Graph
	Encounters map[string]*types.EncounterData
	Pool       []types.PoolItem
	Placements []types.Placement
	Hints      []types.Hint
	Victory    types.Predicate

	// Placement/shuffle draws and hint draws come from separate streams so
	// hint text stays decoupled from placement determinism.
	rng     *rng.RNG
	hintRNG *rng.RNG
}

// Generator produces worlds from a shared read-only store. Safe to reuse
// across players: all mutable state lives in the per-player World.
type Generator struct {
	Store   *state.Store
	Options *options.Options
}

// New creates a generator over a loaded store.
func New(store *state.Store, opts *options.Options) *Generator {
	return &Generator{Store: store, Options: opts}
}

// Generate builds one player's world: randomized encounters, the region
// graph with locked event items, the sized item pool, and the victory
// predicate. The host's fill runs afterwards (or Fill, for the reference
// harness).
func (g *Generator) Generate(player int) (*World, error) {
	w := &World{
		Player:  player,
		rng:     rng.New(playerSeed(g.Options.Seed, player)),
		hintRNG: rng.New(playerSeed(g.Options.Seed, player) ^ hintStreamSalt),
	}

	// 1. Per-player encounter copies, randomized.
	encs, err := encounters.Randomize(g.Store, g.Options, w.rng, player)
	if err != nil {
		return nil, fmt.Errorf("player %d: randomizing encounters: %w", player, err)
	}
	w.Encounters = encs

	// 2. Region/location graph with locked event items.
	gr, err := graph.Build(g.Store, g.Options, player, encs)
	if err != nil {
		return nil, fmt.Errorf("player %d: building graph: %w", player, err)
	}
	w.Graph = gr

	// 3. Gift-egg accounting: open monster-gift slots take eggs.
	var preload []string
	if g.Options.RandomizeEggs {
		for _, loc := range gr.Open() {
			data, ok := g.Store.Locations[loc.Name]
			if !ok || data.Category != types.LocationGift {
				continue
			}
			if monster, ok := g.Store.Monsters[data.DefaultItem]; ok {
				preload = append(preload, monster.EggName)
			}
		}
	}

	// 4. Item pool sized to exactly fill the open locations.
	items, err := pool.Build(g.Store, g.Options, w.rng, len(gr.Open()), preload)
	if err != nil {
		return nil, fmt.Errorf("player %d: building item pool: %w", player, err)
	}
	w.Pool = items

	// 5. Victory predicate for the host.
	w.Victory = g.victoryPredicate(encs, player)

	return w, nil
}

// CanPlace is the gatekeeper the host's fill consults. Pure function of
// static data plus configuration.
func (g *Generator) CanPlace(w *World, itemName string, itemPlayer int, locationName string) bool {
	loc, ok := w.Graph.Location(locationName)
	if !ok {
		return false
	}
	return placement.CanPlace(g.Store, g.Options, itemName, itemPlayer, loc)
}

// Fill is the reference single-world assignment used by the CLI and tests.
// A multiworld host supplies its own sweep-driven fill; this one only
// honors CanPlace and pool exhaustion.
func (g *Generator) Fill(w *World) error {
	// Shops carry the tightest placement rules, so they pick first while
	// the pool is still rich.
	var open []*graph.Location
	for _, loc := range w.Graph.Open() {
		if loc.Category == types.LocationKeeper {
			open = append(open, loc)
		}
	}
	for _, loc := range w.Graph.Open() {
		if loc.Category != types.LocationKeeper {
			open = append(open, loc)
		}
	}

	remaining := make([]string, len(w.Pool))
	for i, entry := range w.Pool {
		remaining[i] = entry.Name
	}
	w.rng.Shuffle(remaining)

	for _, loc := range open {
		assigned := -1
		for i, name := range remaining {
			if placement.CanPlace(g.Store, g.Options, name, w.Player, loc) {
				assigned = i
				break
			}
		}
		if assigned < 0 {
			return fmt.Errorf("player %d: no placeable item left for %s", w.Player, loc.Name)
		}
		loc.Item = remaining[assigned]
		remaining = append(remaining[:assigned], remaining[assigned+1:]...)
	}

	// Record placements, event locks included (hints may target them).
	for _, loc := range w.Graph.Locations() {
		item := loc.Item
		if loc.Event {
			item = loc.LockedItem
		}
		if item == "" {
			continue
		}
		w.Placements = append(w.Placements, types.Placement{
			Location: loc.Name,
			Area:     loc.Area,
			Item:     item,
			Player:   w.Player,
		})
	}
	return nil
}

// ResolveHints fills the hint templates from the world's placements using
// the dedicated hint stream.
func (g *Generator) ResolveHints(w *World) {
	w.Hints = hints.Resolve(g.Store, w.Placements, w.hintRNG, w.Player)
}

// victoryPredicate closes over the host's collected-state query surface.
func (g *Generator) victoryPredicate(encs map[string]*types.EncounterData, player int) types.Predicate {
	if g.Options.Goal == types.GoalFinalBoss {
		return func(s types.CollectedState, p int) bool {
			return s.Has(state.VictoryItem, p, 1)
		}
	}
	champions := 0
	for _, enc := range encs {
		if enc.Champion {
			champions++
		}
	}
	need := champions
	return func(s types.CollectedState, p int) bool {
		return s.Has(state.RankItem, p, need)
	}
}

const hintStreamSalt = 0x68696e74 // distinguishes the hint stream per player

// playerSeed spreads one session seed across players deterministically.
func playerSeed(seed int64, player int) int64 {
	return seed + int64(player)*1000003
}
