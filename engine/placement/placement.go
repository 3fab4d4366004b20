// Package placement implements the gatekeeper the host's fill algorithm
// consults before assigning an item to a location. CanPlace is a pure
// function of static item/location data plus configuration: the host calls
// it with pairs in undefined order, possibly repeatedly.
package placement

import (
	"strings"

	"github.com/Gtaray/sanctuary-randomizer/engine/graph"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Group tags consulted by placement rules.
const (
	GroupMultiple         = "Multiple"          // stacked consumable variants
	GroupShopRestricted   = "Shop Restricted"   // named rewards limited to limited shops
	GroupImprovedMobility = "Improved Mobility" // flight/mount/swim upgrades
)

// CanPlace reports whether the item may be assigned to the location. Rules
// apply in fixed precedence; the first applicable rule decides.
func CanPlace(store *state.Store, opts *options.Options, itemName string, itemPlayer int, loc *graph.Location) bool {
	// Another player's items are opaque to this game's rules.
	if itemPlayer != loc.Player {
		return true
	}

	item, ok := store.Items[itemName]
	if !ok {
		return true
	}

	// The mobility window applies to every location kind, shops included.
	if opts.LimitMobility && carriesGroup(item, GroupImprovedMobility) && store.IsEarlyArea(loc.Area) {
		return false
	}

	if loc.Category == types.LocationKeeper {
		return canPlaceInShop(store, opts, item, loc)
	}

	if matchesIllegalPrefix(item, loc) {
		return false
	}

	if opts.LocalAreaKeys && item.Category == types.CategoryAreaKey {
		return keyMatchesArea(item.Name, loc)
	}

	return true
}

// canPlaceInShop applies the shop rules: currency and stackable-multiple
// items never sell; area keys, limited-availability eggs, costumes and
// restricted named rewards appear only in limited-quantity shops, and area
// keys still honor the local-key rule there.
func canPlaceInShop(store *state.Store, opts *options.Options, item *types.ItemData, loc *graph.Location) bool {
	if item.Category == types.CategoryCurrency || carriesGroup(item, GroupMultiple) {
		return false
	}

	restricted := item.Category == types.CategoryCostume ||
		item.Category == types.CategoryAreaKey ||
		carriesGroup(item, GroupShopRestricted) ||
		isLimitedEgg(store, item)
	if restricted {
		if !loc.Limited {
			return false
		}
		if opts.LocalAreaKeys && item.Category == types.CategoryAreaKey {
			return keyMatchesArea(item.Name, loc)
		}
		return true
	}

	if matchesIllegalPrefix(item, loc) {
		return false
	}
	return true
}

// isLimitedEgg reports whether the item is the egg of a late-game species.
func isLimitedEgg(store *state.Store, item *types.ItemData) bool {
	if item.Category != types.CategoryEgg {
		return false
	}
	monster, ok := store.MonsterByEgg(item.Name)
	return ok && monster.Stage == types.StageLate
}

// keyMatchesArea checks the area-local-key rule: the key's name stripped of
// spaces must be prefixed by the location's area segment.
func keyMatchesArea(keyName string, loc *graph.Location) bool {
	stripped := strings.ReplaceAll(keyName, " ", "")
	return strings.HasPrefix(stripped, loc.Area)
}

func matchesIllegalPrefix(item *types.ItemData, loc *graph.Location) bool {
	for _, prefix := range item.IllegalPrefixes {
		if strings.HasPrefix(loc.DisplayName, prefix) {
			return true
		}
	}
	return false
}

func carriesGroup(item *types.ItemData, group string) bool {
	for _, g := range item.Groups {
		if g == group {
			return true
		}
	}
	return false
}
