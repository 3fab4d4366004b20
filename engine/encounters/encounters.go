// Package encounters randomizes monster occupants per player. Every mode
// works on deep copies of the encounter templates; the store is never
// touched, so a batch of players can generate from the same tables.
package encounters

import (
	"fmt"
	"io"
	"os"

	"github.com/Gtaray/sanctuary-randomizer/engine/rng"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Group tags with hardwired meaning during randomization.
const (
	GroupImprovedMobility = "Improved Mobility"
	GroupShifted          = "Shifted"
)

// warnw receives non-fatal shuffle warnings. Tests swap it out.
var warnw io.Writer = os.Stderr

// Randomize returns the player's encounter copies with occupants reassigned
// per the configured shuffle mode. The returned map is private to the player.
func Randomize(store *state.Store, opts *options.Options, r *rng.RNG, player int) (map[string]*types.EncounterData, error) {
	clones := store.CloneEncounters()
	applyExclusions(store, opts, clones)

	switch opts.Shuffle {
	case types.ShuffleOff:
		return clones, nil
	case types.ShuffleAny:
		if err := randomizeAny(store, clones, r); err != nil {
			return nil, err
		}
	case types.ShuffleBySpecies:
		if err := randomizeBySpecies(store, clones, r); err != nil {
			return nil, err
		}
	case types.ShuffleByEncounter:
		if err := randomizeByEncounter(store, clones, r); err != nil {
			return nil, err
		}
	}
	return clones, nil
}

// applyExclusions extends per-encounter exclusion lists from the active
// options before any randomization pass runs.
func applyExclusions(store *state.Store, opts *options.Options, clones map[string]*types.EncounterData) {
	if opts.Goal == types.GoalFinalBoss && store.FinalEncounter != "" {
		if final, ok := clones[store.FinalEncounter]; ok {
			for _, name := range store.MonsterOrder {
				m := store.Monsters[name]
				if m.Special {
					final.Excluded = append(final.Excluded, name)
				} else if opts.MonsterShift && hasGroup(m, GroupShifted) {
					final.Excluded = append(final.Excluded, name)
				}
			}
		}
	}
	if opts.LimitMobility {
		mobile := store.MonstersWithGroup(GroupImprovedMobility)
		for _, name := range clones {
			if store.IsEarlyArea(name.Area) {
				name.Excluded = append(name.Excluded, mobile...)
			}
		}
	}
}

// randomizeAny reassigns every slot independently. Seed passes run first so
// required traversal abilities land in reachable early areas; seeded
// encounters are removed from the randomization set.
func randomizeAny(store *state.Store, clones map[string]*types.EncounterData, r *rng.RNG) error {
	fixed, err := seedRequiredAbilities(store, clones, r)
	if err != nil {
		return err
	}

	pool := newSamplePool(store.MonsterOrder)
	for _, name := range store.EncounterOrder {
		enc := clones[name]
		if fixed[name] {
			continue
		}
		replaced := make([]string, len(enc.Monsters))
		for i := range enc.Monsters {
			replaced[i] = pool.draw(r, enc.Excluded)
		}
		if err := replaceMonsters(enc, replaced); err != nil {
			return err
		}
	}
	return nil
}

// randomizeByEncounter is like randomizeAny except duplicates of one species
// within an encounter all redirect to the same replacement, chosen once per
// distinct species per encounter.
func randomizeByEncounter(store *state.Store, clones map[string]*types.EncounterData, r *rng.RNG) error {
	fixed, err := seedRequiredAbilities(store, clones, r)
	if err != nil {
		return err
	}

	pool := newSamplePool(store.MonsterOrder)
	for _, name := range store.EncounterOrder {
		enc := clones[name]
		if fixed[name] {
			continue
		}
		swap := map[string]string{}
		replaced := make([]string, len(enc.Monsters))
		for i, species := range enc.Monsters {
			if _, done := swap[species]; !done {
				swap[species] = pool.draw(r, enc.Excluded)
			}
			replaced[i] = swap[species]
		}
		if err := replaceMonsters(enc, replaced); err != nil {
			return err
		}
	}
	return nil
}

// replaceMonsters swaps an encounter's occupants. A slot count change here
// means a shuffle pass corrupted its bookkeeping — fatal, not recoverable.
func replaceMonsters(enc *types.EncounterData, monsters []string) error {
	if len(monsters) != len(enc.Monsters) {
		return fmt.Errorf("encounter %s: replacing %d monsters with %d",
			enc.Name, len(enc.Monsters), len(monsters))
	}
	copy(enc.Monsters, monsters)
	return nil
}

// samplePool draws species with a reset-on-exhaustion scheme: names are
// consumed until the exclusion-filtered remainder runs dry, then the full
// pool is restored. Seeding therefore never stalls.
type samplePool struct {
	all       []string
	remaining []string
}

func newSamplePool(all []string) *samplePool {
	return &samplePool{
		all:       all,
		remaining: append([]string(nil), all...),
	}
}

func (p *samplePool) draw(r *rng.RNG, excluded []string) string {
	candidates := filterExcluded(p.remaining, excluded)
	if len(candidates) == 0 {
		p.remaining = append([]string(nil), p.all...)
		candidates = filterExcluded(p.remaining, excluded)
	}
	pick := r.Choice(candidates)
	for i, name := range p.remaining {
		if name == pick {
			p.remaining = append(p.remaining[:i], p.remaining[i+1:]...)
			break
		}
	}
	return pick
}

func filterExcluded(names, excluded []string) []string {
	if len(excluded) == 0 {
		return names
	}
	var out []string
	for _, n := range names {
		if !contains(excluded, n) {
			out = append(out, n)
		}
	}
	return out
}

// seedRequiredAbilities force-picks one encounter inside each seed rule's
// area whitelist and pins one of its slots to a monster carrying the rule's
// ability tag. Zero candidate encounters or zero candidate monsters is a
// hard stop: silently skipping a seed risks a soft-lock.
func seedRequiredAbilities(store *state.Store, clones map[string]*types.EncounterData, r *rng.RNG) (map[string]bool, error) {
	fixed := map[string]bool{}
	for _, rule := range store.SeedRules {
		carriers := store.MonstersWithGroup(rule.Group)
		if len(carriers) == 0 {
			return nil, fmt.Errorf("seed pass for %q: no monster carries the ability", rule.Group)
		}

		// Candidate encounters: inside the whitelist, not already seeded,
		// with at least one eligible carrier after local exclusions.
		type candidate struct {
			enc      *types.EncounterData
			eligible []string
		}
		var candidates []candidate
		for _, name := range store.EncounterOrder {
			enc := clones[name]
			if fixed[name] || !contains(rule.Areas, enc.Area) {
				continue
			}
			eligible := filterExcluded(carriers, enc.Excluded)
			if len(eligible) > 0 {
				candidates = append(candidates, candidate{enc, eligible})
			}
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("seed pass for %q: no candidate encounter in areas %v", rule.Group, rule.Areas)
		}

		c := candidates[r.Intn(len(candidates))]
		slot := r.Intn(len(c.enc.Monsters))
		c.enc.Monsters[slot] = r.Choice(c.eligible)
		fixed[c.enc.Name] = true
	}
	return fixed, nil
}

// randomizeBySpecies builds one global species-to-species bijection (never
// touching the special set) and applies it uniformly to every encounter.
// The mapping is assembled in three separated passes over an explicit
// remaining-available set: forced seeds, exclusion-constrained assignments
// per encounter, then uniform assignment of the remainder.
func randomizeBySpecies(store *state.Store, clones map[string]*types.EncounterData, r *rng.RNG) error {
	var species []string
	for _, name := range store.MonsterOrder {
		if !store.Monsters[name].Special {
			species = append(species, name)
		}
	}
	mapping := map[string]string{}
	used := map[string]bool{}

	available := func(excluded []string) []string {
		var out []string
		for _, s := range species {
			if !used[s] && !contains(excluded, s) {
				out = append(out, s)
			}
		}
		return out
	}

	// Pass 1: forced seeds. Pin the mapping of a species that occupies an
	// encounter inside the whitelist to an ability carrier, so the applied
	// mapping puts the ability where the seed rule wants it.
	for _, rule := range store.SeedRules {
		carriers := filterSpecial(store, store.MonstersWithGroup(rule.Group))
		if len(carriers) == 0 {
			return fmt.Errorf("seed pass for %q: no shuffleable monster carries the ability", rule.Group)
		}

		type candidate struct {
			source  string
			targets []string
		}
		var candidates []candidate
		for _, name := range store.EncounterOrder {
			enc := clones[name]
			if !contains(rule.Areas, enc.Area) {
				continue
			}
			for _, occupant := range enc.Monsters {
				if store.Monsters[occupant].Special {
					continue
				}
				if _, done := mapping[occupant]; done {
					continue
				}
				targets := filterUsed(filterExcluded(carriers, enc.Excluded), used)
				if len(targets) > 0 {
					candidates = append(candidates, candidate{occupant, targets})
				}
			}
		}
		if len(candidates) == 0 {
			return fmt.Errorf("seed pass for %q: no candidate encounter in areas %v", rule.Group, rule.Areas)
		}
		c := candidates[r.Intn(len(candidates))]
		target := r.Choice(c.targets)
		mapping[c.source] = target
		used[target] = true
	}

	// Pass 2: exclusion-constrained assignments. A species appearing in
	// encounters with exclusion lists maps to something every one of those
	// encounters tolerates.
	exclusions := map[string][]string{}
	for _, name := range store.EncounterOrder {
		enc := clones[name]
		if len(enc.Excluded) == 0 {
			continue
		}
		for _, occupant := range enc.Monsters {
			exclusions[occupant] = append(exclusions[occupant], enc.Excluded...)
		}
	}
	for _, source := range species {
		if _, done := mapping[source]; done {
			continue
		}
		excluded, constrained := exclusions[source]
		if !constrained {
			continue
		}
		targets := available(excluded)
		fallback := false
		if len(targets) == 0 {
			// Over-constrained; fall back to the unconstrained remainder
			// rather than deadlocking the bijection.
			targets = available(nil)
			fallback = true
		}
		if len(targets) == 0 {
			return fmt.Errorf("species shuffle: no target left for %q", source)
		}
		target := r.Choice(targets)
		if fallback {
			fmt.Fprintf(warnw, "warning: species shuffle maps %q to %q despite an encounter excluding it\n", source, target)
		}
		mapping[source] = target
		used[target] = true
	}

	// Pass 3: uniform assignment of the remainder.
	for _, source := range species {
		if _, done := mapping[source]; done {
			continue
		}
		targets := available(nil)
		if len(targets) == 0 {
			return fmt.Errorf("species shuffle: no target left for %q", source)
		}
		target := r.Choice(targets)
		mapping[source] = target
		used[target] = true
	}

	// Bijection check: every species receives exactly one inbound mapping.
	// A miss is reported, not raised — downstream it surfaces as a
	// missing-monster failure rather than a crash.
	inbound := map[string]int{}
	for _, target := range mapping {
		inbound[target]++
	}
	for _, s := range species {
		if inbound[s] != 1 {
			fmt.Fprintf(warnw, "warning: species shuffle left %q with %d inbound mappings\n", s, inbound[s])
		}
	}

	for _, name := range store.EncounterOrder {
		enc := clones[name]
		replaced := make([]string, len(enc.Monsters))
		for i, occupant := range enc.Monsters {
			if target, ok := mapping[occupant]; ok {
				replaced[i] = target
			} else {
				replaced[i] = occupant
			}
		}
		if err := replaceMonsters(enc, replaced); err != nil {
			return err
		}
	}
	return nil
}

// SpeciesMap rebuilds the species mapping implied by randomized encounter
// copies, for spoiler output. Off-mode copies produce an identity map.
func SpeciesMap(store *state.Store, clones map[string]*types.EncounterData) map[string]string {
	out := map[string]string{}
	for _, name := range store.EncounterOrder {
		template := store.Encounters[name]
		enc := clones[name]
		for i, occupant := range template.Monsters {
			if i < len(enc.Monsters) {
				out[occupant] = enc.Monsters[i]
			}
		}
	}
	return out
}

func filterSpecial(store *state.Store, names []string) []string {
	var out []string
	for _, n := range names {
		if !store.Monsters[n].Special {
			out = append(out, n)
		}
	}
	return out
}

func filterUsed(names []string, used map[string]bool) []string {
	var out []string
	for _, n := range names {
		if !used[n] {
			out = append(out, n)
		}
	}
	return out
}

func hasGroup(m *types.MonsterData, group string) bool {
	for _, g := range m.Groups {
		if g == group {
			return true
		}
	}
	return false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
