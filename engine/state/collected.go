package state

// Inventory is a simple in-memory CollectedState implementation. The real
// multiworld host supplies its own collection bookkeeping; this one backs the
// reference fill harness and the tests.
type Inventory struct {
	store  *Store
	counts map[int]map[string]int
}

// NewInventory creates an empty inventory over the given store.
func NewInventory(store *Store) *Inventory {
	return &Inventory{
		store:  store,
		counts: map[int]map[string]int{},
	}
}

// Collect adds one copy of the named item for the player.
func (v *Inventory) Collect(player int, item string) {
	if v.counts[player] == nil {
		v.counts[player] = map[string]int{}
	}
	v.counts[player][item]++
}

// Has reports whether the player holds at least count copies of the item.
func (v *Inventory) Has(item string, player int, count int) bool {
	return v.counts[player][item] >= count
}

// HasGroup reports whether the player holds any item or monster carrying the
// group tag.
func (v *Inventory) HasGroup(group string, player int) bool {
	for name, n := range v.counts[player] {
		if n <= 0 {
			continue
		}
		if it, ok := v.store.Items[name]; ok {
			for _, g := range it.Groups {
				if g == group {
					return true
				}
			}
		}
		if m, ok := v.store.Monsters[name]; ok {
			for _, g := range m.Groups {
				if g == group {
					return true
				}
			}
		}
	}
	return false
}
