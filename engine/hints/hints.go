// Package hints resolves hint templates into per-player instances. Hint
// resolution draws from its own random stream so hint text never perturbs
// placement determinism.
package hints

import (
	"strings"

	"github.com/Gtaray/sanctuary-randomizer/engine/rng"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Resolve fills every hint template against the player's placements. When a
// hinted item was placed more than once, the revealed copy is chosen
// uniformly at random from all matching placements.
func Resolve(store *state.Store, placements []types.Placement, r *rng.RNG, player int) []types.Hint {
	var out []types.Hint
	for _, tmpl := range store.Hints {
		hint := types.Hint{
			ID:       tmpl.ID,
			Suppress: tmpl.Suppress,
		}

		var target *types.Placement
		switch {
		case tmpl.Item != "":
			matches := matchItem(placements, tmpl.Item, player)
			if len(matches) > 0 {
				target = &matches[r.Intn(len(matches))]
			}
		case tmpl.Location != "":
			for i := range placements {
				if placements[i].Player == player && placements[i].Location == tmpl.Location {
					target = &placements[i]
					break
				}
			}
		}

		text := tmpl.Text
		if target != nil {
			hint.Location = target.Location
			text = strings.ReplaceAll(text, "{area}", target.Area)
			text = strings.ReplaceAll(text, "{item}", target.Item)
			text = strings.ReplaceAll(text, "{category}", wording(store, target.Item))
		}
		hint.Text = text
		out = append(out, hint)
	}
	return out
}

func matchItem(placements []types.Placement, item string, player int) []types.Placement {
	var out []types.Placement
	for _, p := range placements {
		if p.Player == player && p.Item == item {
			out = append(out, p)
		}
	}
	return out
}

// wording renders an item's classification as hint flavor text.
func wording(store *state.Store, item string) string {
	data, ok := store.Items[item]
	if !ok {
		return "a curious prize"
	}
	switch data.Classification {
	case types.ClassProgression:
		return "a vital treasure"
	case types.ClassUseful:
		return "a helpful find"
	case types.ClassTrap:
		return "an unwelcome surprise"
	default:
		return "a common bauble"
	}
}
