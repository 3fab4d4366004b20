package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// rawNamed holds a named definition table before compilation.
type rawNamed struct {
	name  string
	table *lua.LTable
}

// registerAPI registers the data-file constructors as Lua globals. Named
// constructors are curried the same way throughout: Item "name" { ... }.
func registerAPI(L *lua.LState, coll *collector) {
	named := func(sink *[]rawNamed) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			name := L.CheckString(1)
			L.Push(L.NewFunction(func(L *lua.LState) int {
				tbl := L.CheckTable(1)
				*sink = append(*sink, rawNamed{name: name, table: tbl})
				return 0
			}))
			return 1
		})
	}

	L.SetGlobal("Item", named(&coll.items))
	L.SetGlobal("Monster", named(&coll.monsters))
	L.SetGlobal("Flag", named(&coll.flags))
	L.SetGlobal("Region", named(&coll.regions))
	L.SetGlobal("Hint", named(&coll.hints))

	// Postgame { "Location_Name", ... }
	L.SetGlobal("Postgame", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.ForEach(func(_, v lua.LValue) {
			if s, ok := v.(lua.LString); ok {
				coll.postgame = append(coll.postgame, string(s))
			}
		})
		return 0
	}))

	// Plotless { connections = {...}, locations = {...} }
	L.SetGlobal("Plotless", L.NewFunction(func(L *lua.LState) int {
		coll.plotless = append(coll.plotless, L.CheckTable(1))
		return 0
	}))

	// EarlyAreas { "MountainPath", ... }
	L.SetGlobal("EarlyAreas", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.ForEach(func(_, v lua.LValue) {
			if s, ok := v.(lua.LString); ok {
				coll.earlyAreas = append(coll.earlyAreas, string(s))
			}
		})
		return 0
	}))

	// SeedRule { group = "Flying", areas = { "MountainPath" } }
	L.SetGlobal("SeedRule", L.NewFunction(func(L *lua.LState) int {
		coll.seedRules = append(coll.seedRules, L.CheckTable(1))
		return 0
	}))
}
