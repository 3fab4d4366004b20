package loader

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/Gtaray/sanctuary-randomizer/engine/rules"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

var itemCategories = map[string]types.ItemCategory{
	"key_item":          types.CategoryKeyItem,
	"area_key":          types.CategoryAreaKey,
	"crafting_material": types.CategoryCraftingMaterial,
	"consumable":        types.CategoryConsumable,
	"food":              types.CategoryFood,
	"catalyst":          types.CategoryCatalyst,
	"weapon":            types.CategoryWeapon,
	"accessory":         types.CategoryAccessory,
	"currency":          types.CategoryCurrency,
	"egg":               types.CategoryEgg,
	"monster":           types.CategoryMonster,
	"costume":           types.CategoryCostume,
	"flag":              types.CategoryFlag,
	"rank":              types.CategoryRank,
	"level_badge":       types.CategoryLevelBadge,
	"explore_item":      types.CategoryExploreItem,
	"trinket":           types.CategoryTrinket,
}

var classifications = map[string]types.Classification{
	"filler":      types.ClassFiller,
	"progression": types.ClassProgression,
	"useful":      types.ClassUseful,
	"trap":        types.ClassTrap,
}

// compile converts all collected Lua data into a Store. Ids are handed out
// monotonically from itemStartID, continuing across categories so every id
// in a session is globally unique.
func compile(coll *collector, itemStartID int) (*state.Store, int, error) {
	store := state.NewStore()
	nextID := itemStartID

	// Items first: world construction validates against their identities.
	for _, raw := range coll.items {
		item, err := compileItem(raw)
		if err != nil {
			return nil, 0, err
		}
		if _, dup := store.Items[item.Name]; dup {
			return nil, 0, fmt.Errorf("item %q defined twice", item.Name)
		}
		item.ID = nextID
		nextID++
		store.Items[item.Name] = item
		store.ItemOrder = append(store.ItemOrder, item.Name)
	}

	// Monsters share the item id space.
	for _, raw := range coll.monsters {
		monster := compileMonster(raw)
		if _, dup := store.Monsters[monster.Name]; dup {
			return nil, 0, fmt.Errorf("monster %q defined twice", monster.Name)
		}
		monster.ID = nextID
		nextID++
		store.Monsters[monster.Name] = monster
		store.MonsterOrder = append(store.MonsterOrder, monster.Name)

		// Every monster also has an egg item available to the pool.
		if _, exists := store.Items[monster.EggName]; !exists {
			egg := &types.ItemData{
				ID:             nextID,
				Name:           monster.EggName,
				Classification: types.ClassProgression,
				Category:       types.CategoryEgg,
				Groups:         []string{"Egg"},
			}
			nextID++
			store.Items[egg.Name] = egg
			store.ItemOrder = append(store.ItemOrder, egg.Name)
		}
	}

	// Flag items live in their own file; flag locations come with the world.
	for _, raw := range coll.flags {
		if _, dup := store.Items[raw.name]; dup {
			return nil, 0, fmt.Errorf("flag %q collides with an existing item", raw.name)
		}
		flag := &types.ItemData{
			ID:             nextID,
			Name:           raw.name,
			Classification: types.ClassProgression,
			Category:       types.CategoryFlag,
			Groups:         toStringList(getTable(raw.table, "groups")),
		}
		nextID++
		store.Items[flag.Name] = flag
		store.ItemOrder = append(store.ItemOrder, flag.Name)
	}

	// Synthetic progression markers for rank-ups and the goal.
	for _, synth := range []struct {
		name string
		cat  types.ItemCategory
	}{{state.RankItem, types.CategoryRank}, {state.VictoryItem, types.CategoryFlag}} {
		if _, exists := store.Items[synth.name]; !exists {
			it := &types.ItemData{
				ID:             nextID,
				Name:           synth.name,
				Classification: types.ClassProgression,
				Category:       synth.cat,
			}
			nextID++
			store.Items[it.Name] = it
			store.ItemOrder = append(store.ItemOrder, it.Name)
		}
	}

	store.EarlyAreas = coll.earlyAreas
	for _, tbl := range coll.seedRules {
		store.SeedRules = append(store.SeedRules, types.SeedRule{
			Group: getString(tbl, "group"),
			Areas: toStringList(getTable(tbl, "areas")),
		})
	}

	// The predicate namespace is now complete; world conditions parse
	// against it and unresolved names fail here, not at evaluation time.
	reg := rules.NewRegistry(store)

	locID := LocationIDBase
	encID := 1
	for _, raw := range coll.regions {
		if err := compileRegion(store, raw, reg, &locID, &encID); err != nil {
			return nil, 0, fmt.Errorf("region %s: %w", raw.name, err)
		}
	}

	tagMonsterStages(store)

	// Postgame markers flag already-loaded locations.
	for _, name := range coll.postgame {
		if loc, ok := store.Locations[name]; ok {
			loc.Postgame = true
		} else {
			fmt.Fprintf(os.Stderr, "warning: postgame marker %q matches no location\n", name)
		}
	}

	for _, tbl := range coll.plotless {
		if err := compilePlotless(store, tbl, reg); err != nil {
			return nil, 0, err
		}
	}

	for _, raw := range coll.hints {
		store.Hints = append(store.Hints, types.HintData{
			ID:       raw.name,
			Text:     getString(raw.table, "text"),
			Suppress: getBool(raw.table, "suppress", false),
			Item:     getString(raw.table, "item"),
			Location: getString(raw.table, "location"),
		})
	}

	return store, nextID, nil
}

func compileItem(raw rawNamed) (*types.ItemData, error) {
	tbl := raw.table
	cat, ok := itemCategories[getString(tbl, "category")]
	if !ok {
		return nil, fmt.Errorf("item %q has unknown category %q", raw.name, getString(tbl, "category"))
	}
	class, ok := classifications[getString(tbl, "classification")]
	if !ok && getString(tbl, "classification") != "" {
		return nil, fmt.Errorf("item %q has unknown classification %q", raw.name, getString(tbl, "classification"))
	}
	count := getInt(tbl, "count")
	if count == 0 {
		count = 1
	}
	return &types.ItemData{
		Name:            raw.name,
		Classification:  class,
		Category:        cat,
		Tier:            getInt(tbl, "tier"),
		Unique:          getBool(tbl, "unique", false),
		Groups:          toStringList(getTable(tbl, "groups")),
		Count:           count,
		IllegalPrefixes: toStringList(getTable(tbl, "illegal")),
	}, nil
}

func compileMonster(raw rawNamed) *types.MonsterData {
	tbl := raw.table
	egg := getString(tbl, "egg")
	if egg == "" {
		egg = raw.name + " Egg"
	}
	return &types.MonsterData{
		Name:         raw.name,
		Groups:       toStringList(getTable(tbl, "groups")),
		PreEvolution: getString(tbl, "pre_evolution"),
		EggName:      egg,
		Special:      getBool(tbl, "special", false),
	}
}

// compileRegion builds one region template with its connections, locations
// and encounters. A region must always declare its outbound connections,
// even if the list is empty.
func compileRegion(store *state.Store, raw rawNamed, reg rules.Registry, locID, encID *int) error {
	tbl := raw.table
	if _, dup := store.Regions[raw.name]; dup {
		return fmt.Errorf("defined twice")
	}

	connTbl := getTable(tbl, "connections")
	if connTbl == nil {
		return fmt.Errorf("missing connections declaration")
	}

	region := &types.RegionData{Name: raw.name}
	var err error
	forEachRecord(connTbl, func(rec *lua.LTable) {
		if err != nil {
			return
		}
		cond, perr := parseRequires(rec, reg)
		if perr != nil {
			err = perr
			return
		}
		region.Connections = append(region.Connections, types.ConnectionData{
			Region:    raw.name,
			Target:    getString(rec, "target"),
			Condition: cond,
		})
	})
	if err != nil {
		return err
	}
	store.Regions[raw.name] = region
	store.RegionOrder = append(store.RegionOrder, raw.name)

	addLocation := func(rec *lua.LTable, cat types.LocationCategory) {
		if err != nil {
			return
		}
		cond, perr := parseRequires(rec, reg)
		if perr != nil {
			err = perr
			return
		}
		name := getString(rec, "name")
		if name == "" {
			err = fmt.Errorf("location in %s missing name", raw.name)
			return
		}
		if _, dup := store.Locations[name]; dup {
			err = fmt.Errorf("location %q defined twice", name)
			return
		}
		loc := &types.LocationData{
			ID:          *locID,
			Name:        name,
			DisplayName: getString(rec, "display"),
			Region:      raw.name,
			Category:    cat,
			DefaultItem: getString(rec, "item"),
			Condition:   cond,
			MonsterSlot: -1,
			Limited:     getBool(rec, "limited", false),
			Shift:       getBool(rec, "shift", false),
		}
		if loc.DisplayName == "" {
			loc.DisplayName = name
		}
		*locID++
		store.Locations[name] = loc
		store.LocationOrder = append(store.LocationOrder, name)
	}

	forEachRecord(getTable(tbl, "chests"), func(rec *lua.LTable) { addLocation(rec, types.LocationChest) })
	forEachRecord(getTable(tbl, "gifts"), func(rec *lua.LTable) { addLocation(rec, types.LocationGift) })
	forEachRecord(getTable(tbl, "keepers"), func(rec *lua.LTable) { addLocation(rec, types.LocationKeeper) })
	forEachRecord(getTable(tbl, "flags"), func(rec *lua.LTable) { addLocation(rec, types.LocationFlag) })
	if err != nil {
		return err
	}

	forEachRecord(getTable(tbl, "encounters"), func(rec *lua.LTable) {
		if err != nil {
			return
		}
		cond, perr := parseRequires(rec, reg)
		if perr != nil {
			err = perr
			return
		}
		name := getString(rec, "name")
		if name == "" {
			err = fmt.Errorf("encounter in %s missing name", raw.name)
			return
		}
		if _, dup := store.Encounters[name]; dup {
			err = fmt.Errorf("encounter %q defined twice", name)
			return
		}
		enc := &types.EncounterData{
			ID:        *encID,
			Name:      name,
			Champion:  getBool(rec, "champion", false),
			Region:    raw.name,
			Area:      state.Area(raw.name),
			Condition: cond,
			Monsters:  toStringList(getTable(rec, "monsters")),
			Excluded:  toStringList(getTable(rec, "excluded")),
		}
		*encID++
		store.Encounters[name] = enc
		store.EncounterOrder = append(store.EncounterOrder, name)
		if getBool(rec, "final", false) {
			store.FinalEncounter = name
		}
	})
	return err
}

// tagMonsterStages assigns EARLY/LATE by scanning template encounters,
// taking the earliest stage when a species appears in several.
func tagMonsterStages(store *state.Store) {
	for _, name := range store.EncounterOrder {
		enc := store.Encounters[name]
		stage := types.StageLate
		if store.IsEarlyArea(enc.Area) {
			stage = types.StageEarly
		}
		for _, species := range enc.Monsters {
			m, ok := store.Monsters[species]
			if !ok {
				continue
			}
			if m.Stage == types.StageUnknown || stage < m.Stage {
				m.Stage = stage
			}
		}
	}
}

func compilePlotless(store *state.Store, tbl *lua.LTable, reg rules.Registry) error {
	var err error
	forEachRecord(getTable(tbl, "connections"), func(rec *lua.LTable) {
		if err != nil {
			return
		}
		cond, perr := parseRequires(rec, reg)
		if perr != nil {
			err = perr
			return
		}
		key := state.PlotlessConnectionKey(getString(rec, "region"), getString(rec, "target"))
		store.PlotlessConnections[key] = cond
	})
	forEachRecord(getTable(tbl, "locations"), func(rec *lua.LTable) {
		if err != nil {
			return
		}
		cond, perr := parseRequires(rec, reg)
		if perr != nil {
			err = perr
			return
		}
		store.PlotlessLocations[getString(rec, "name")] = cond
	})
	return err
}

// parseRequires compiles the requires field of a record into a condition
// tree. A missing field is an always-true condition.
func parseRequires(rec *lua.LTable, reg rules.Registry) (*types.AccessCondition, error) {
	reqTbl := getTable(rec, "requires")
	if reqTbl == nil {
		return rules.Parse(nil, reg)
	}
	tokens, ok := toGoValue(reqTbl).([]any)
	if !ok {
		tokens = nil
	}
	return rules.Parse(tokens, reg)
}

// forEachRecord visits every structured record in a data list. Bare string
// elements are human-readable comments and are skipped, so authored files
// stay self-documenting.
func forEachRecord(tbl *lua.LTable, fn func(rec *lua.LTable)) {
	if tbl == nil {
		return
	}
	tbl.ForEach(func(k, v lua.LValue) {
		if _, isIndex := k.(lua.LNumber); !isIndex {
			return
		}
		if rec, ok := v.(*lua.LTable); ok {
			fn(rec)
		}
	})
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively. Sequential
// tables become []any; requirement expressions rely on this.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(val)
	case *lua.LTable:
		maxN := val.MaxN()
		arr := make([]any, 0, maxN)
		for i := 1; i <= maxN; i++ {
			arr = append(arr, toGoValue(val.RawGetInt(i)))
		}
		return arr
	default:
		return nil
	}
}

// toStringList extracts the string elements of a sequential Lua table.
func toStringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	maxN := tbl.MaxN()
	for i := 1; i <= maxN; i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}
