package graph

import (
	"testing"

	"github.com/Gtaray/sanctuary-randomizer/engine/rules"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

func graphStore(t *testing.T) *state.Store {
	t.Helper()
	s := state.NewStore()

	addItem := func(name string, cat types.ItemCategory) {
		s.Items[name] = &types.ItemData{Name: name, Category: cat, Classification: types.ClassProgression}
		s.ItemOrder = append(s.ItemOrder, name)
	}
	addItem("Harbor Key", types.CategoryAreaKey)
	addItem("Tide Charm", types.CategoryKeyItem)
	addItem("Bridge Repaired", types.CategoryFlag)
	addItem(state.RankItem, types.CategoryRank)
	addItem(state.VictoryItem, types.CategoryFlag)

	s.Monsters["Tidehopper"] = &types.MonsterData{Name: "Tidehopper", EggName: "Tidehopper Egg"}
	s.Monsters["Emberfox"] = &types.MonsterData{Name: "Emberfox"}
	s.Monsters["Sunwyrm"] = &types.MonsterData{Name: "Sunwyrm", Special: true}
	s.MonsterOrder = append(s.MonsterOrder, "Tidehopper", "Emberfox", "Sunwyrm")

	reg := rules.NewRegistry(s)
	parse := func(tokens ...any) *types.AccessCondition {
		cond, err := rules.Parse(tokens, reg)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return cond
	}

	s.Regions["Foothills_Gate"] = &types.RegionData{
		Name: "Foothills_Gate",
		Connections: []types.ConnectionData{
			{Region: "Foothills_Gate", Target: "Harbor_Town",
				Condition: parse("Bridge Repaired", "Harbor Key")},
		},
	}
	s.Regions["Harbor_Town"] = &types.RegionData{Name: "Harbor_Town"}
	s.RegionOrder = append(s.RegionOrder, "Foothills_Gate", "Harbor_Town")

	addLoc := func(id int, name, region string, cat types.LocationCategory, item string, postgame, shift bool) {
		s.Locations[name] = &types.LocationData{
			ID: id, Name: name, DisplayName: name, Region: region,
			Category: cat, DefaultItem: item, MonsterSlot: -1,
			Postgame: postgame, Shift: shift,
		}
		s.LocationOrder = append(s.LocationOrder, name)
	}
	addLoc(64000, "Foothills_Chest_Well", "Foothills_Gate", types.LocationChest, "", false, false)
	addLoc(64001, "Foothills_Flag_Bridge", "Foothills_Gate", types.LocationFlag, "Bridge Repaired", false, false)
	addLoc(64002, "Harbor_Chest_Wreck", "Harbor_Town", types.LocationChest, "", false, false)
	addLoc(64003, "Harbor_Gift_Ferryman", "Harbor_Town", types.LocationGift, "Tidehopper", false, false)
	addLoc(64004, "Harbor_Chest_Summit", "Harbor_Town", types.LocationChest, "", true, false)
	addLoc(64005, "Harbor_Chest_Shifted", "Harbor_Town", types.LocationChest, "", false, true)

	s.Encounters["Harbor_Champion"] = &types.EncounterData{
		Name: "Harbor_Champion", Region: "Harbor_Town", Area: "Harbor",
		Champion: true, Monsters: []string{"Emberfox"},
	}
	s.Encounters["Harbor_Showdown"] = &types.EncounterData{
		Name: "Harbor_Showdown", Region: "Harbor_Town", Area: "Harbor",
		Monsters: []string{"Sunwyrm", "Emberfox"},
	}
	s.EncounterOrder = append(s.EncounterOrder, "Harbor_Champion", "Harbor_Showdown")
	s.FinalEncounter = "Harbor_Showdown"

	s.PlotlessConnections[state.PlotlessConnectionKey("Foothills_Gate", "Harbor_Town")] = parse("Harbor Key")
	return s
}

func TestBuild_OptionFilters(t *testing.T) {
	s := graphStore(t)
	opts := options.Default()

	g, err := Build(s, opts, 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := g.Location("Harbor_Chest_Summit"); ok {
		t.Error("postgame location present under the final boss goal")
	}
	if _, ok := g.Location("Harbor_Chest_Shifted"); ok {
		t.Error("shift location present without monster_shift")
	}

	opts.Goal = types.GoalAllChampions
	opts.MonsterShift = true
	g, err = Build(s, opts, 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := g.Location("Harbor_Chest_Summit"); !ok {
		t.Error("postgame location missing under the all champions goal")
	}
	if _, ok := g.Location("Harbor_Chest_Shifted"); !ok {
		t.Error("shift location missing under monster_shift")
	}
}

func TestBuild_EventLocations(t *testing.T) {
	s := graphStore(t)
	g, err := Build(s, options.Default(), 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	flag, ok := g.Location("Foothills_Flag_Bridge")
	if !ok || !flag.Event || flag.LockedItem != "Bridge Repaired" {
		t.Errorf("flag location = %+v, want event locking Bridge Repaired", flag)
	}

	slot, ok := g.Location("Harbor_Champion_0")
	if !ok || !slot.Event || slot.LockedItem != "Emberfox" {
		t.Errorf("champion slot = %+v, want event locking Emberfox", slot)
	}
	if slot.Category != types.LocationChampion {
		t.Errorf("champion slot category = %v", slot.Category)
	}

	rank, ok := g.Location("Harbor_Champion_Rank")
	if !ok || rank.LockedItem != state.RankItem {
		t.Errorf("rank location = %+v, want locked %s", rank, state.RankItem)
	}

	victory, ok := g.Location("Harbor_Showdown_Victory")
	if !ok || victory.LockedItem != state.VictoryItem {
		t.Errorf("victory location = %+v, want locked %s", victory, state.VictoryItem)
	}
}

func TestBuild_NoVictoryLocationForChampionsGoal(t *testing.T) {
	s := graphStore(t)
	opts := options.Default()
	opts.Goal = types.GoalAllChampions

	g, err := Build(s, opts, 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, ok := g.Location("Harbor_Showdown_Victory"); ok {
		t.Error("victory event present under the all champions goal")
	}
}

func TestBuild_GiftMonsterLocking(t *testing.T) {
	s := graphStore(t)
	opts := options.Default()

	g, err := Build(s, opts, 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	gift, _ := g.Location("Harbor_Gift_Ferryman")
	if !gift.Event || gift.LockedItem != "Tidehopper" {
		t.Errorf("gift = %+v, want locked monster without randomize_eggs", gift)
	}

	opts.RandomizeEggs = true
	g, err = Build(s, opts, 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	gift, _ = g.Location("Harbor_Gift_Ferryman")
	if gift.Event {
		t.Error("gift still locked with randomize_eggs on")
	}
}

func TestBuild_OpenExcludesEvents(t *testing.T) {
	s := graphStore(t)
	g, err := Build(s, options.Default(), 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, loc := range g.Open() {
		if loc.Event {
			t.Errorf("Open() returned event location %s", loc.Name)
		}
	}
}

func TestCanReach(t *testing.T) {
	s := graphStore(t)
	g, err := Build(s, options.Default(), 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	inv := state.NewInventory(s)
	if !g.CanReach("Foothills_Gate", inv) {
		t.Error("root region unreachable")
	}
	if g.CanReach("Harbor_Town", inv) {
		t.Error("gated region reachable with nothing collected")
	}

	inv.Collect(1, "Harbor Key")
	if g.CanReach("Harbor_Town", inv) {
		t.Error("AND-gated region reachable with only one requirement")
	}
	inv.Collect(1, "Bridge Repaired")
	if !g.CanReach("Harbor_Town", inv) {
		t.Error("region unreachable with every requirement met")
	}
	if !g.CanReachLocation("Harbor_Chest_Wreck", inv) {
		t.Error("location in a reachable region not reachable")
	}
}

func TestBuild_PlotlessSubstitution(t *testing.T) {
	s := graphStore(t)
	opts := options.Default()
	opts.SkipPlot = true

	g, err := Build(s, opts, 1, s.CloneEncounters())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// With the plot skipped the story flag drops out of the gate.
	inv := state.NewInventory(s)
	inv.Collect(1, "Harbor Key")
	if !g.CanReach("Harbor_Town", inv) {
		t.Error("plotless connection still requires the story flag")
	}
}
