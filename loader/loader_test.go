package loader

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

func TestLoad_Minimal(t *testing.T) {
	store, nextID, err := Load("testdata/minimal", 100)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	item, ok := store.Items["Brass Key"]
	if !ok {
		t.Fatal("item 'Brass Key' not loaded")
	}
	if item.ID != 100 {
		t.Errorf("item id = %d, want 100", item.ID)
	}
	if item.Classification != types.ClassProgression {
		t.Errorf("classification = %v", item.Classification)
	}

	// Synthetic rank and victory markers always exist.
	if _, ok := store.Items[state.RankItem]; !ok {
		t.Errorf("synthetic %q missing", state.RankItem)
	}
	if _, ok := store.Items[state.VictoryItem]; !ok {
		t.Errorf("synthetic %q missing", state.VictoryItem)
	}
	if nextID != 103 {
		t.Errorf("next id = %d, want 103 (item + two synthetics)", nextID)
	}

	loc, ok := store.Locations["Hamlet_Chest_Fountain"]
	if !ok {
		t.Fatal("chest not loaded")
	}
	if loc.ID != LocationIDBase {
		t.Errorf("location id = %d, want %d", loc.ID, LocationIDBase)
	}
	if loc.Category != types.LocationChest {
		t.Errorf("category = %v", loc.Category)
	}
}

func TestLoad_Full(t *testing.T) {
	store, _, err := Load("testdata/full", 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Items and declared counts.
	if store.Items["Mountain Key"].Count != 2 {
		t.Errorf("Mountain Key count = %d, want 2", store.Items["Mountain Key"].Count)
	}
	if got := store.Items["Old Map"].IllegalPrefixes; len(got) != 1 || got[0] != "Sunken" {
		t.Errorf("illegal prefixes = %v", got)
	}

	// Monsters and their eggs. The default egg name derives from the
	// species; an egg= override replaces it.
	if _, ok := store.Items["Cliffwing Egg"]; !ok {
		t.Error("auto egg item missing")
	}
	if store.Monsters["Mudpup"].EggName != "Muddy Egg" {
		t.Errorf("egg override = %q", store.Monsters["Mudpup"].EggName)
	}
	if _, ok := store.Items["Muddy Egg"]; !ok {
		t.Error("overridden egg item missing")
	}
	if !store.Monsters["Oldwyrm"].Special {
		t.Error("special flag lost")
	}

	// Flags become progression items.
	flag, ok := store.Items["Rockslide Cleared"]
	if !ok || flag.Category != types.CategoryFlag {
		t.Errorf("flag item = %+v", flag)
	}

	// World structure.
	if len(store.RegionOrder) != 2 || store.RegionOrder[0] != "Mountain_Base" {
		t.Errorf("region order = %v", store.RegionOrder)
	}
	conn := store.Regions["Mountain_Base"].Connections[0]
	if conn.Target != "Mountain_Peak" || conn.Condition == nil {
		t.Errorf("connection = %+v", conn)
	}

	// Bare strings in record lists are comments, not records.
	if _, ok := store.Locations["base camp loot"]; ok {
		t.Error("comment string compiled as a location")
	}

	if !store.Locations["Mountain_Shop_Post"].Limited {
		t.Error("limited shop flag lost")
	}
	if !store.Locations["Mountain_Chest_Echo"].Shift {
		t.Error("shift flag lost")
	}
	if !store.Locations["Mountain_Chest_Peak"].Postgame {
		t.Error("postgame marker not applied")
	}

	// Encounters.
	champ := store.Encounters["Mountain_Champion"]
	if !champ.Champion || champ.Area != "Mountain" {
		t.Errorf("champion encounter = %+v", champ)
	}
	if store.FinalEncounter != "Mountain_Showdown" {
		t.Errorf("final encounter = %q", store.FinalEncounter)
	}

	// Stage tagging: every species first seen in the early area is early.
	if store.Monsters["Cliffwing"].Stage != types.StageEarly {
		t.Errorf("Cliffwing stage = %v", store.Monsters["Cliffwing"].Stage)
	}

	// Markers and rules.
	if !store.IsEarlyArea("Mountain") {
		t.Error("early area list not loaded")
	}
	if len(store.SeedRules) != 1 || store.SeedRules[0].Group != "Flying" {
		t.Errorf("seed rules = %+v", store.SeedRules)
	}

	// Plotless overrides.
	key := state.PlotlessConnectionKey("Mountain_Base", "Mountain_Peak")
	if _, ok := store.PlotlessConnections[key]; !ok {
		t.Error("plotless connection override missing")
	}
	if _, ok := store.PlotlessLocations["Mountain_Chest_Cave"]; !ok {
		t.Error("plotless location override missing")
	}

	// Hints.
	if len(store.Hints) != 2 {
		t.Fatalf("hints = %d, want 2", len(store.Hints))
	}
	if store.Hints[0].Item != "Rope" || store.Hints[1].Suppress != true {
		t.Errorf("hints = %+v", store.Hints)
	}
}

func TestLoad_IDsAreMonotonic(t *testing.T) {
	store, nextID, err := Load("testdata/full", 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	seen := map[int]string{}
	for _, name := range store.ItemOrder {
		id := store.Items[name].ID
		if other, dup := seen[id]; dup {
			t.Errorf("id %d assigned to both %q and %q", id, other, name)
		}
		seen[id] = name
		if id < 1 || id >= nextID {
			t.Errorf("item %q id %d outside [1, %d)", name, id, nextID)
		}
	}
	for _, name := range store.MonsterOrder {
		id := store.Monsters[name].ID
		if other, dup := seen[id]; dup {
			t.Errorf("id %d assigned to both %q and %q", id, other, name)
		}
		seen[id] = name
	}
}

func TestLoad_Idempotent(t *testing.T) {
	first, firstNext, err := Load("testdata/full", 1)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, secondNext, err := Load("testdata/full", 1)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	if firstNext != secondNext {
		t.Errorf("next id diverged: %d vs %d", firstNext, secondNext)
	}
	orders := []struct {
		name string
		a, b []string
	}{
		{"items", first.ItemOrder, second.ItemOrder},
		{"monsters", first.MonsterOrder, second.MonsterOrder},
		{"regions", first.RegionOrder, second.RegionOrder},
		{"locations", first.LocationOrder, second.LocationOrder},
		{"encounters", first.EncounterOrder, second.EncounterOrder},
	}
	for _, o := range orders {
		if !reflect.DeepEqual(o.a, o.b) {
			t.Errorf("%s load order diverged:\n%v\n%v", o.name, o.a, o.b)
		}
	}
	for _, name := range first.ItemOrder {
		if a, b := first.Items[name].ID, second.Items[name].ID; a != b {
			t.Errorf("item %q id diverged: %d vs %d", name, a, b)
		}
		if !reflect.DeepEqual(first.Items[name], second.Items[name]) {
			t.Errorf("item %q template diverged between loads", name)
		}
	}
	for _, name := range first.MonsterOrder {
		if a, b := first.Monsters[name].ID, second.Monsters[name].ID; a != b {
			t.Errorf("monster %q id diverged: %d vs %d", name, a, b)
		}
	}
	for _, name := range first.LocationOrder {
		if a, b := first.Locations[name].ID, second.Locations[name].ID; a != b {
			t.Errorf("location %q id diverged: %d vs %d", name, a, b)
		}
	}
	for _, name := range first.EncounterOrder {
		if !reflect.DeepEqual(first.Encounters[name].Monsters, second.Encounters[name].Monsters) {
			t.Errorf("encounter %q slots diverged between loads", name)
		}
	}
}

func TestLoad_BadLua(t *testing.T) {
	_, _, err := Load("testdata/bad_lua", 1)
	if err == nil {
		t.Fatal("expected error for malformed Lua")
	}
	if !strings.Contains(err.Error(), "items.lua") {
		t.Errorf("error %q does not name the failing file", err)
	}
}

func TestLoad_UndefinedDefaultItem(t *testing.T) {
	_, _, err := Load("testdata/undefined_item", 1)
	if err == nil {
		t.Fatal("expected validation error for undefined default item")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type %T, want *ValidationError", err)
	}
	if len(ve.Errors) == 0 || !strings.Contains(ve.Errors[0], "Jeweled Crown") {
		t.Errorf("validation errors = %v", ve.Errors)
	}
}

func TestLoad_DuplicateItem(t *testing.T) {
	_, _, err := Load("testdata/dup_item", 1)
	if err == nil {
		t.Fatal("expected error for duplicate item definition")
	}
	if !strings.Contains(err.Error(), "Brass Key") {
		t.Errorf("error %q does not name the duplicate", err)
	}
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, _, err := Load("testdata/no_world", 1)
	if err == nil {
		t.Fatal("expected error when world.lua is missing")
	}
	if !strings.Contains(err.Error(), "world.lua") {
		t.Errorf("error %q does not name the missing file", err)
	}
}

func TestLoad_SandboxBlocksIO(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "items.lua", `
if dofile ~= nil then error("dofile is reachable") end
if loadstring ~= nil then error("loadstring is reachable") end
if math.random ~= nil then error("math.random is reachable") end
Item "Brass Key" { classification = "progression", category = "key_item" }
`)
	writeTestFile(t, dir, "world.lua", `Region "Hamlet_Square" { connections = {} }`)

	if _, _, err := Load(dir, 1); err != nil {
		t.Fatalf("sandboxed load failed: %v", err)
	}
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}
