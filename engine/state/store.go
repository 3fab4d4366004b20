// Package state holds the immutable template data store produced by the
// loader, plus the reference collected-state used by tests and the CLI
// harness. The store is loaded once per process and shared read-only across
// all players; anything a generation mutates must be deep-copied first.
package state

import (
	"strings"

	"github.com/Gtaray/sanctuary-randomizer/types"
)

// RankItem is locked at every champion rank-up location. VictoryItem is
// locked at the goal location; the victory predicate checks for it.
const (
	RankItem    = "Champion Defeated"
	VictoryItem = "Victory"
)

// Store is the template data store. All maps are keyed by name; the *Order
// slices preserve load order so iteration stays deterministic across runs.
type Store struct {
	Items      map[string]*types.ItemData
	Monsters   map[string]*types.MonsterData
	Regions    map[string]*types.RegionData
	Locations  map[string]*types.LocationData
	Encounters map[string]*types.EncounterData
	Hints      []types.HintData

	// Plotless overrides substituted when skip-plot is active.
	PlotlessConnections map[string]*types.AccessCondition // keyed region + "->" + target
	PlotlessLocations   map[string]*types.AccessCondition // keyed by location name

	// World-level authored markers.
	EarlyAreas     []string // areas counted as early game
	SeedRules      []types.SeedRule
	FinalEncounter string // encounter whose defeat ends a final-boss run

	ItemOrder      []string
	MonsterOrder   []string
	RegionOrder    []string
	LocationOrder  []string
	EncounterOrder []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		Items:               map[string]*types.ItemData{},
		Monsters:            map[string]*types.MonsterData{},
		Regions:             map[string]*types.RegionData{},
		Locations:           map[string]*types.LocationData{},
		Encounters:          map[string]*types.EncounterData{},
		PlotlessConnections: map[string]*types.AccessCondition{},
		PlotlessLocations:   map[string]*types.AccessCondition{},
	}
}

// Area returns the top-level world subdivision of a structured name:
// the text before the first underscore.
func Area(name string) string {
	if i := strings.IndexByte(name, '_'); i >= 0 {
		return name[:i]
	}
	return name
}

// ItemsInCategory returns item names of one category in load order.
func (s *Store) ItemsInCategory(cat types.ItemCategory) []string {
	var names []string
	for _, name := range s.ItemOrder {
		if s.Items[name].Category == cat {
			names = append(names, name)
		}
	}
	return names
}

// IsEarlyArea reports whether the area is on the authored early-game list.
func (s *Store) IsEarlyArea(area string) bool {
	for _, a := range s.EarlyAreas {
		if a == area {
			return true
		}
	}
	return false
}

// MonstersWithGroup returns monster names carrying the group tag, in load order.
func (s *Store) MonstersWithGroup(group string) []string {
	var names []string
	for _, name := range s.MonsterOrder {
		for _, g := range s.Monsters[name].Groups {
			if g == group {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// MonsterByEgg resolves an egg item name back to its species.
func (s *Store) MonsterByEgg(eggName string) (*types.MonsterData, bool) {
	for _, name := range s.MonsterOrder {
		if s.Monsters[name].EggName == eggName {
			return s.Monsters[name], true
		}
	}
	return nil, false
}

// CloneEncounters deep-copies every encounter template. Randomization mutates
// only the copies; aliasing the template slices would corrupt the store for
// every subsequent player.
func (s *Store) CloneEncounters() map[string]*types.EncounterData {
	out := make(map[string]*types.EncounterData, len(s.Encounters))
	for name, enc := range s.Encounters {
		c := *enc
		c.Monsters = append([]string(nil), enc.Monsters...)
		c.Excluded = append([]string(nil), enc.Excluded...)
		out[name] = &c
	}
	return out
}

// PlotlessConnectionKey builds the lookup key for a connection override.
func PlotlessConnectionKey(region, target string) string {
	return region + "->" + target
}
