// Package pool builds the category-weighted item pool: mandatory key items
// first, then weighted filler sampling until the pool exactly fills every
// open location.
package pool

import (
	"fmt"

	"github.com/Gtaray/sanctuary-randomizer/engine/rng"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// GroupUnobtainable marks items that never enter filler sampling.
const GroupUnobtainable = "Unobtainable"

// maxEmptyDraws bounds consecutive category draws that find no eligible
// item, so an exhausted distribution errors instead of spinning.
const maxEmptyDraws = 1000

// The seven weighted filler categories, in fixed order. Costume is not
// weighted by the player; it is forced to roughly 1% below.
var weightedCategories = []struct {
	key string
	cat types.ItemCategory
}{
	{"crafting_material", types.CategoryCraftingMaterial},
	{"consumable", types.CategoryConsumable},
	{"food", types.CategoryFood},
	{"catalyst", types.CategoryCatalyst},
	{"weapon", types.CategoryWeapon},
	{"accessory", types.CategoryAccessory},
	{"currency", types.CategoryCurrency},
}

// BuildWeightTable turns per-category integer weights into the flat sampling
// distribution: one entry per unit of weight. Weights summing below 100 are
// multiplied by 10 so a 1%-style minimum stays representable; the costume
// category is then forced to ceil(1% of total) regardless of input.
func BuildWeightTable(weights map[string]int) []types.ItemCategory {
	total := 0
	for _, wc := range weightedCategories {
		total += weights[wc.key]
	}
	multiplier := 1
	if total < 100 {
		multiplier = 10
		total *= 10
	}
	costume := (total + 99) / 100

	flat := make([]types.ItemCategory, 0, total+costume)
	for _, wc := range weightedCategories {
		for i := 0; i < weights[wc.key]*multiplier; i++ {
			flat = append(flat, wc.cat)
		}
	}
	for i := 0; i < costume; i++ {
		flat = append(flat, types.CategoryCostume)
	}
	return flat
}

// Build produces exactly open pool entries. preload items (gift eggs) are
// inserted before the mandatory key-item pass.
func Build(store *state.Store, opts *options.Options, r *rng.RNG, open int, preload []string) ([]types.PoolItem, error) {
	var pool []types.PoolItem
	add := func(name string) error {
		item, ok := store.Items[name]
		if !ok {
			return fmt.Errorf("pool references undefined item %q", name)
		}
		pool = append(pool, types.PoolItem{
			Name:           item.Name,
			ID:             item.ID,
			Classification: item.Classification,
		})
		return nil
	}

	for _, name := range preload {
		if err := add(name); err != nil {
			return nil, err
		}
	}

	// Mandatory pass: every progression item that is not locked at an event
	// location, count copies each. Area keys thin out with the door options.
	for _, name := range store.ItemOrder {
		item := store.Items[name]
		if item.Classification != types.ClassProgression {
			continue
		}
		switch item.Category {
		case types.CategoryFlag, types.CategoryRank, types.CategoryMonster, types.CategoryEgg:
			continue
		}
		count := item.Count
		if item.Category == types.CategoryAreaKey {
			switch opts.Doors {
			case types.DoorsOpen:
				continue
			case types.DoorsReduced:
				count = 1
			}
		}
		for i := 0; i < count; i++ {
			if err := add(name); err != nil {
				return nil, err
			}
		}
	}

	if len(pool) > open {
		return nil, fmt.Errorf("item pool overflow: %d mandatory items for %d open locations", len(pool), open)
	}

	// Filler pass: draw a category from the weighted distribution, then a
	// concrete base-tier item within it. A draw with no eligible item is
	// discarded and retried with a fresh draw.
	table := BuildWeightTable(opts.Weights)
	if len(table) == 0 && len(pool) < open {
		return nil, fmt.Errorf("all category weights are zero with %d locations to fill", open-len(pool))
	}
	placed := map[string]bool{}
	for _, entry := range pool {
		placed[entry.Name] = true
	}
	misses := 0
	for len(pool) < open {
		if misses >= maxEmptyDraws {
			return nil, fmt.Errorf("no eligible filler item after %d draws with %d locations unfilled", misses, open-len(pool))
		}
		cat := table[r.Intn(len(table))]
		candidates := fillerCandidates(store, cat, placed)
		if len(candidates) == 0 {
			misses++
			continue
		}
		misses = 0
		name := r.Choice(candidates)
		item := store.Items[name]

		switch cat {
		case types.CategoryWeapon, types.CategoryAccessory:
			name = rollTier(store, r, name)
		}
		name = rollQuantity(store, r, name)
		badged := false
		if item.Classification == types.ClassFiller && opts.BadgeChance > 0 {
			if r.Intn(100) < opts.BadgeChance {
				if badge, ok := levelBadge(store); ok {
					name = badge
					badged = true
				}
			}
		}

		if err := add(name); err != nil {
			return nil, err
		}
		// The drawn item entered the pool only if the badge roll did not
		// replace it. Tier and quantity variants still count as the draw.
		if !badged {
			placed[item.Name] = true
		}
	}

	return pool, nil
}

// fillerCandidates returns the base-tier items of a category eligible for a
// filler draw. Tier variants are reached only through the upgrade roll.
func fillerCandidates(store *state.Store, cat types.ItemCategory, placed map[string]bool) []string {
	var out []string
	for _, name := range store.ItemsInCategory(cat) {
		item := store.Items[name]
		if item.Tier != 0 {
			continue
		}
		if item.Unique && placed[name] {
			continue
		}
		if carriesGroup(item, GroupUnobtainable) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// rollTier upgrades equipment with a 1-100 roll: 95/85/70/50/25 thresholds
// reach +5/+4/+3/+2/+1. A missing tiered variant keeps the base item.
func rollTier(store *state.Store, r *rng.RNG, name string) string {
	roll := r.Roll(100)
	var tier int
	switch {
	case roll >= 95:
		tier = 5
	case roll >= 85:
		tier = 4
	case roll >= 70:
		tier = 3
	case roll >= 50:
		tier = 2
	case roll >= 25:
		tier = 1
	default:
		return name
	}
	for ; tier > 0; tier-- {
		variant := fmt.Sprintf("%s+%d", name, tier)
		if _, ok := store.Items[variant]; ok {
			return variant
		}
	}
	return name
}

// Stack thresholds for "Up to N" consumables: a d10 roll at or above the
// entry's floor substitutes the k-stacked variant.
var quantityThresholds = map[int][]struct {
	floor int
	k     int
}{
	2: {{9, 2}},
	3: {{9, 3}, {6, 2}},
	4: {{10, 4}, {8, 3}, {5, 2}},
	5: {{10, 5}, {9, 4}, {7, 3}, {4, 2}},
}

// rollQuantity substitutes a "kx <item>" stacked variant for items tagged
// "Up to N". A missing stacked variant keeps the single item.
func rollQuantity(store *state.Store, r *rng.RNG, name string) string {
	item, ok := store.Items[name]
	if !ok {
		return name
	}
	maxN := 0
	for _, g := range item.Groups {
		switch g {
		case "Up to 2":
			maxN = 2
		case "Up to 3":
			maxN = 3
		case "Up to 4":
			maxN = 4
		case "Up to 5":
			maxN = 5
		}
	}
	if maxN == 0 {
		return name
	}
	roll := r.Roll(10)
	for _, t := range quantityThresholds[maxN] {
		if roll >= t.floor {
			variant := fmt.Sprintf("%dx %s", t.k, name)
			if _, ok := store.Items[variant]; ok {
				return variant
			}
			return name
		}
	}
	return name
}

// levelBadge returns the badge item substituted for filler draws.
func levelBadge(store *state.Store) (string, bool) {
	badges := store.ItemsInCategory(types.CategoryLevelBadge)
	if len(badges) == 0 {
		return "", false
	}
	return badges[0], true
}

func carriesGroup(item *types.ItemData, group string) bool {
	for _, g := range item.Groups {
		if g == group {
			return true
		}
	}
	return false
}
