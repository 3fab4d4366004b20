// Package options loads and validates the generation options file.
package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Gtaray/sanctuary-randomizer/types"
)

// Options holds the resolved per-generation settings.
type Options struct {
	Seed          int64
	Players       int
	Goal          types.Goal
	Shuffle       types.ShuffleMode
	RandomizeEggs bool
	MonsterShift  bool
	SkipPlot      bool
	Doors         types.DoorMode
	LocalAreaKeys bool
	LimitMobility bool
	Weights       map[string]int
	BadgeChance   int // percent chance a filler draw becomes a level badge
}

// fileOptions is the YAML wire form; enum fields are strings there.
type fileOptions struct {
	Seed          int64          `yaml:"seed"`
	Players       int            `yaml:"players"`
	Goal          string         `yaml:"goal"`
	Shuffle       string         `yaml:"monster_shuffle"`
	RandomizeEggs bool           `yaml:"randomize_eggs"`
	MonsterShift  bool           `yaml:"monster_shift"`
	SkipPlot      bool           `yaml:"skip_plot"`
	Doors         string         `yaml:"doors"`
	LocalAreaKeys bool           `yaml:"local_area_keys"`
	LimitMobility bool           `yaml:"limit_mobility"`
	Weights       map[string]int `yaml:"category_weights"`
	BadgeChance   int            `yaml:"badge_chance"`
}

// Default returns the options used when no file is given.
func Default() *Options {
	return &Options{
		Seed:    1,
		Players: 1,
		Goal:    types.GoalFinalBoss,
		Shuffle: types.ShuffleOff,
		Doors:   types.DoorsVanilla,
		Weights: map[string]int{
			"crafting_material": 40,
			"consumable":        50,
			"food":              30,
			"catalyst":          10,
			"weapon":            30,
			"accessory":         30,
			"currency":          20,
		},
		BadgeChance: 0,
	}
}

// Load reads a YAML options file. Absent fields keep their defaults.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options file %s: %w", path, err)
	}
	var raw fileOptions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing options file %s: %w", path, err)
	}

	opts := Default()
	if raw.Seed != 0 {
		opts.Seed = raw.Seed
	}
	if raw.Players != 0 {
		opts.Players = raw.Players
	}
	opts.RandomizeEggs = raw.RandomizeEggs
	opts.MonsterShift = raw.MonsterShift
	opts.SkipPlot = raw.SkipPlot
	opts.LocalAreaKeys = raw.LocalAreaKeys
	opts.LimitMobility = raw.LimitMobility
	if raw.Weights != nil {
		opts.Weights = raw.Weights
	}
	opts.BadgeChance = raw.BadgeChance

	if raw.Goal != "" {
		goal, err := parseGoal(raw.Goal)
		if err != nil {
			return nil, err
		}
		opts.Goal = goal
	}
	if raw.Shuffle != "" {
		mode, err := parseShuffle(raw.Shuffle)
		if err != nil {
			return nil, err
		}
		opts.Shuffle = mode
	}
	if raw.Doors != "" {
		doors, err := parseDoors(raw.Doors)
		if err != nil {
			return nil, err
		}
		opts.Doors = doors
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks ranges that the YAML layer cannot.
func (o *Options) Validate() error {
	if o.Players < 1 {
		return fmt.Errorf("players must be >= 1, got %d", o.Players)
	}
	if o.BadgeChance < 0 || o.BadgeChance > 100 {
		return fmt.Errorf("badge_chance must be in [0, 100], got %d", o.BadgeChance)
	}
	for name, w := range o.Weights {
		if w < 0 {
			return fmt.Errorf("category weight %q must be >= 0, got %d", name, w)
		}
	}
	return nil
}

func parseGoal(s string) (types.Goal, error) {
	switch s {
	case "final_boss":
		return types.GoalFinalBoss, nil
	case "all_champions":
		return types.GoalAllChampions, nil
	}
	return 0, fmt.Errorf("unknown goal %q (want final_boss or all_champions)", s)
}

func parseShuffle(s string) (types.ShuffleMode, error) {
	switch s {
	case "off":
		return types.ShuffleOff, nil
	case "any":
		return types.ShuffleAny, nil
	case "by_species":
		return types.ShuffleBySpecies, nil
	case "by_encounter":
		return types.ShuffleByEncounter, nil
	}
	return 0, fmt.Errorf("unknown monster_shuffle %q (want off, any, by_species or by_encounter)", s)
}

func parseDoors(s string) (types.DoorMode, error) {
	switch s {
	case "vanilla":
		return types.DoorsVanilla, nil
	case "reduced":
		return types.DoorsReduced, nil
	case "open":
		return types.DoorsOpen, nil
	}
	return 0, fmt.Errorf("unknown doors %q (want vanilla, reduced or open)", s)
}
