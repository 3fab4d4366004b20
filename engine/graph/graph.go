// Package graph instantiates the per-player region/location graph from the
// template store: one region per template, directed entrances gated by
// access conditions, item-holding locations, and locked event locations for
// flags, monsters and rank-ups.
package graph

import (
	"fmt"

	"github.com/Gtaray/sanctuary-randomizer/engine/rules"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Region is one per-player region instance.
type Region struct {
	Name      string
	Player    int
	Exits     []*Entrance
	Locations []*Location
}

// Entrance is a directed, condition-gated edge between two regions. Its
// condition is evaluated lazily against live state at reachability time,
// never precomputed.
type Entrance struct {
	Source    *Region
	Target    *Region
	Condition *types.AccessCondition
}

// Location is one per-player item-holding location. Event locations carry a
// locked item, never enter the open pool, and are excluded from spoilers.
type Location struct {
	ID          int
	Name        string
	DisplayName string
	Region      string
	Area        string
	Player      int
	Category    types.LocationCategory
	Condition   *types.AccessCondition
	EncounterID string
	MonsterSlot int
	Limited     bool
	Postgame    bool
	Event       bool
	LockedItem  string
	Item        string // assigned by the host's fill
}

// Graph is the per-player region/location container consumed by the host.
type Graph struct {
	Player int

	regions       map[string]*Region
	locations     map[string]*Location
	regionOrder   []string
	locationOrder []string
	root          string
}

// Build constructs the graph for one player. encounters must be the player's
// own randomized copies; their occupants become locked monster items.
func Build(store *state.Store, opts *options.Options, player int, encounters map[string]*types.EncounterData) (*Graph, error) {
	g := &Graph{
		Player:    player,
		regions:   map[string]*Region{},
		locations: map[string]*Location{},
	}
	if len(store.RegionOrder) == 0 {
		return nil, fmt.Errorf("store has no regions")
	}
	g.root = store.RegionOrder[0]

	// Step 1: one region instance per template.
	for _, name := range store.RegionOrder {
		g.regions[name] = &Region{Name: name, Player: player}
		g.regionOrder = append(g.regionOrder, name)
	}

	// Step 2: item-holding locations, minus the ones the options exclude.
	for _, name := range store.LocationOrder {
		data := store.Locations[name]
		if data.Postgame && opts.Goal == types.GoalFinalBoss {
			continue
		}
		if data.Shift && !opts.MonsterShift {
			continue
		}
		cond := data.Condition
		if opts.SkipPlot {
			if alt, ok := store.PlotlessLocations[name]; ok {
				cond = alt
			}
		}
		loc := &Location{
			ID:          data.ID,
			Name:        data.Name,
			DisplayName: data.DisplayName,
			Region:      data.Region,
			Area:        state.Area(data.Name),
			Player:      player,
			Category:    data.Category,
			Condition:   cond,
			MonsterSlot: data.MonsterSlot,
			Limited:     data.Limited,
			Postgame:    data.Postgame,
		}
		switch {
		case data.Category == types.LocationFlag:
			loc.Event = true
			loc.LockedItem = data.DefaultItem
		case data.Category == types.LocationGift && isMonsterGift(store, data):
			// Gift monsters stay put unless eggs are randomized, in which
			// case the slot opens up and an egg joins the pool instead.
			if !opts.RandomizeEggs {
				loc.Event = true
				loc.LockedItem = data.DefaultItem
			}
		}
		g.addLocation(loc)
	}

	// Step 3: directed entrances, with plotless substitution. A connection
	// whose target is not defined is skipped, not fatal.
	for _, name := range store.RegionOrder {
		source := g.regions[name]
		for _, conn := range store.Regions[name].Connections {
			target, ok := g.regions[conn.Target]
			if !ok {
				continue
			}
			cond := conn.Condition
			if opts.SkipPlot {
				if alt, ok := store.PlotlessConnections[state.PlotlessConnectionKey(conn.Region, conn.Target)]; ok {
					cond = alt
				}
			}
			source.Exits = append(source.Exits, &Entrance{
				Source:    source,
				Target:    target,
				Condition: cond,
			})
		}
	}

	// Step 4: event locations for encounters — one per monster slot, one
	// rank-up per champion. These never enter the general pool.
	for _, name := range store.EncounterOrder {
		enc, ok := encounters[name]
		if !ok {
			continue
		}
		cat := types.LocationMonster
		if enc.Champion {
			cat = types.LocationChampion
		}
		for slot, species := range enc.Monsters {
			g.addLocation(&Location{
				Name:        fmt.Sprintf("%s_%d", enc.Name, slot),
				DisplayName: fmt.Sprintf("%s (slot %d)", enc.Name, slot),
				Region:      enc.Region,
				Area:        enc.Area,
				Player:      player,
				Category:    cat,
				Condition:   enc.Condition,
				EncounterID: enc.Name,
				MonsterSlot: slot,
				Event:       true,
				LockedItem:  species,
			})
		}
		if enc.Champion {
			g.addLocation(&Location{
				Name:        enc.Name + "_Rank",
				DisplayName: enc.Name + " Rank Up",
				Region:      enc.Region,
				Area:        enc.Area,
				Player:      player,
				Category:    types.LocationRank,
				Condition:   enc.Condition,
				EncounterID: enc.Name,
				MonsterSlot: -1,
				Event:       true,
				LockedItem:  state.RankItem,
			})
		}
		if opts.Goal == types.GoalFinalBoss && enc.Name == store.FinalEncounter {
			g.addLocation(&Location{
				Name:        enc.Name + "_Victory",
				DisplayName: enc.Name + " Victory",
				Region:      enc.Region,
				Area:        enc.Area,
				Player:      player,
				Category:    types.LocationFlag,
				Condition:   enc.Condition,
				EncounterID: enc.Name,
				MonsterSlot: -1,
				Event:       true,
				LockedItem:  state.VictoryItem,
			})
		}
	}

	return g, nil
}

func isMonsterGift(store *state.Store, data *types.LocationData) bool {
	_, ok := store.Monsters[data.DefaultItem]
	return ok
}

func (g *Graph) addLocation(loc *Location) {
	region := g.regions[loc.Region]
	if region != nil {
		region.Locations = append(region.Locations, loc)
	}
	g.locations[loc.Name] = loc
	g.locationOrder = append(g.locationOrder, loc.Name)
}

// Region looks up a region by name.
func (g *Graph) Region(name string) (*Region, bool) {
	r, ok := g.regions[name]
	return r, ok
}

// Location looks up a location by name.
func (g *Graph) Location(name string) (*Location, bool) {
	l, ok := g.locations[name]
	return l, ok
}

// Locations returns every location in creation order.
func (g *Graph) Locations() []*Location {
	out := make([]*Location, 0, len(g.locationOrder))
	for _, name := range g.locationOrder {
		out = append(out, g.locations[name])
	}
	return out
}

// Open returns the non-event locations awaiting a pool item, in order.
func (g *Graph) Open() []*Location {
	var out []*Location
	for _, name := range g.locationOrder {
		loc := g.locations[name]
		if !loc.Event {
			out = append(out, loc)
		}
	}
	return out
}

// CanReach sweeps the entrance graph from the root region and reports
// whether the named region is reachable under the collected state.
func (g *Graph) CanReach(region string, s types.CollectedState) bool {
	reachable := g.sweep(s)
	return reachable[region]
}

// CanReachLocation reports whether the location's region is reachable and
// its own access condition passes.
func (g *Graph) CanReachLocation(name string, s types.CollectedState) bool {
	loc, ok := g.locations[name]
	if !ok {
		return false
	}
	if !g.CanReach(loc.Region, s) {
		return false
	}
	return rules.HasAccess(loc.Condition, s, g.Player)
}

func (g *Graph) sweep(s types.CollectedState) map[string]bool {
	reachable := map[string]bool{g.root: true}
	queue := []string{g.root}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		for _, exit := range g.regions[name].Exits {
			if reachable[exit.Target.Name] {
				continue
			}
			if rules.HasAccess(exit.Condition, s, g.Player) {
				reachable[exit.Target.Name] = true
				queue = append(queue, exit.Target.Name)
			}
		}
	}
	return reachable
}
