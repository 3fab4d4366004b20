// Package loader loads Lua world-description files into the immutable data
// store. The Lua VM is discarded after loading — zero Lua at generation time.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/Gtaray/sanctuary-randomizer/engine/state"
)

// LocationIDBase is the first id assigned to an item-holding location.
// Location ids are handed out densely from here in load order.
const LocationIDBase = 64000

// Load order is fixed: items before the world graph (world construction needs
// item and monster identities to validate references), flags last among the
// item-producing files, postgame markers after the world (they flag loaded
// locations). plotless and hints files carry no identities and come last.
// items.lua and world.lua are required, the rest optional.
var dataFiles = []struct {
	name     string
	required bool
}{
	{"items.lua", true},
	{"monsters.lua", false},
	{"flags.lua", false},
	{"world.lua", true},
	{"postgame.lua", false},
	{"plotless.lua", false},
	{"hints.lua", false},
}

// collector accumulates raw Lua definitions during file execution.
type collector struct {
	items      []rawNamed
	monsters   []rawNamed
	flags      []rawNamed
	regions    []rawNamed
	hints      []rawNamed
	postgame   []string
	plotless   []*lua.LTable
	earlyAreas []string
	seedRules  []*lua.LTable
}

// Load reads the data directory, compiles it into an immutable Store and
// validates references. Item ids are assigned monotonically from itemStartID;
// the returned int is the next unused id.
func Load(dir string, itemStartID int) (*state.Store, int, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range dataFiles {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err != nil {
			if f.required {
				return nil, 0, fmt.Errorf("required data file %s missing in %s", f.name, dir)
			}
			continue
		}
		if err := L.DoFile(path); err != nil {
			return nil, 0, fmt.Errorf("executing %s: %w", f.name, err)
		}
	}

	store, nextID, err := compile(coll, itemStartID)
	if err != nil {
		return nil, 0, fmt.Errorf("compiling world data: %w", err)
	}

	if err := validate(store); err != nil {
		return nil, 0, err
	}

	return store, nextID, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that would let data files touch the filesystem
// or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}
