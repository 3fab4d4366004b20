package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Registry maps predicate names to requirement functions. The set of valid
// names is data built from the store, injected into the parser — never
// reflection over symbols.
type Registry map[string]types.Predicate

// NewRegistry builds the predicate namespace from a loaded store: one "has"
// predicate per item and monster name, one "has group" predicate per group
// tag appearing on any item or monster. Item names win on collision with a
// group tag.
func NewRegistry(store *state.Store) Registry {
	reg := Registry{}

	for _, name := range store.ItemOrder {
		n := name
		reg[n] = func(s types.CollectedState, player int) bool {
			return s.Has(n, player, 1)
		}
	}
	for _, name := range store.MonsterOrder {
		n := name
		if _, taken := reg[n]; taken {
			continue
		}
		reg[n] = func(s types.CollectedState, player int) bool {
			return s.Has(n, player, 1)
		}
	}

	groups := map[string]bool{}
	for _, name := range store.ItemOrder {
		for _, g := range store.Items[name].Groups {
			groups[g] = true
		}
	}
	for _, name := range store.MonsterOrder {
		for _, g := range store.Monsters[name].Groups {
			groups[g] = true
		}
	}
	for g := range groups {
		if _, taken := reg[g]; taken {
			continue
		}
		tag := g
		reg[tag] = func(s types.CollectedState, player int) bool {
			return s.HasGroup(tag, player)
		}
	}

	return reg
}

// Resolve looks up a predicate by name. Names of the form "<n>x <name>"
// resolve to a count-parameterized "has at least n copies" predicate.
// An unregistered name is a fatal configuration error.
func (r Registry) Resolve(name string) (types.Predicate, error) {
	if pred, ok := r[name]; ok {
		return pred, nil
	}
	if base, count, ok := splitCounted(name); ok {
		if _, known := r[base]; known {
			return func(s types.CollectedState, player int) bool {
				return s.Has(base, player, count)
			}, nil
		}
	}
	return nil, fmt.Errorf("unresolved predicate name %q in access expression", name)
}

// splitCounted parses "3x Mountain Key" into ("Mountain Key", 3).
func splitCounted(name string) (string, int, bool) {
	i := strings.Index(name, "x ")
	if i <= 0 {
		return "", 0, false
	}
	count, err := strconv.Atoi(name[:i])
	if err != nil || count < 1 {
		return "", 0, false
	}
	return name[i+2:], count, true
}
