// Package types defines the shared data structures for the randomizer core.
// This package contains only type definitions — no logic, no methods.
package types

// Operation is the boolean operator of an access-condition node.
type Operation int

const (
	OpNone Operation = iota
	OpAnd
	OpOr
)

// CollectedState is the host's collected-item query surface. The randomizer
// never stores collected items itself; it only asks the host.
type CollectedState interface {
	// Has reports whether the player holds at least count copies of the item.
	Has(item string, player int, count int) bool
	// HasGroup reports whether the player holds any item carrying the group tag.
	HasGroup(group string, player int) bool
}

// Predicate is a named requirement function resolved from an access expression.
type Predicate func(s CollectedState, player int) bool

// AccessCondition is one node of a boolean requirement tree. A node is a leaf
// iff Op == OpNone and Operands is empty; leaves carry exactly one resolved
// predicate. A node with no operands and no predicate grants access always.
type AccessCondition struct {
	Op            Operation
	Operands      []*AccessCondition
	PredicateName string
	Predicate     Predicate
}

// Classification drives pool balancing and hint wording.
type Classification int

const (
	ClassFiller Classification = iota
	ClassProgression
	ClassUseful
	ClassTrap
)

// ItemCategory is the 17-way category split used by weighting and placement.
type ItemCategory int

const (
	CategoryKeyItem ItemCategory = iota
	CategoryAreaKey
	CategoryCraftingMaterial
	CategoryConsumable
	CategoryFood
	CategoryCatalyst
	CategoryWeapon
	CategoryAccessory
	CategoryCurrency
	CategoryEgg
	CategoryMonster
	CategoryCostume
	CategoryFlag
	CategoryRank
	CategoryLevelBadge
	CategoryExploreItem
	CategoryTrinket
)

// LocationCategory classifies where an item can live in the world.
type LocationCategory int

const (
	LocationChest LocationCategory = iota
	LocationGift
	LocationMonster
	LocationChampion
	LocationKeeper
	LocationRank
	LocationFlag
)

// GameStage marks how early a monster species is first encountered.
type GameStage int

const (
	StageUnknown GameStage = iota
	StageEarly
	StageLate
)

// ShuffleMode selects the monster randomization strategy.
type ShuffleMode int

const (
	ShuffleOff ShuffleMode = iota
	ShuffleAny
	ShuffleBySpecies
	ShuffleByEncounter
)

func (m ShuffleMode) String() string {
	switch m {
	case ShuffleAny:
		return "any"
	case ShuffleBySpecies:
		return "by_species"
	case ShuffleByEncounter:
		return "by_encounter"
	default:
		return "off"
	}
}

// Goal selects the victory condition.
type Goal int

const (
	GoalFinalBoss Goal = iota
	GoalAllChampions
)

func (g Goal) String() string {
	if g == GoalAllChampions {
		return "all_champions"
	}
	return "final_boss"
}

// DoorMode controls how many area keys enter the pool.
type DoorMode int

const (
	DoorsVanilla DoorMode = iota
	DoorsReduced
	DoorsOpen
)

func (d DoorMode) String() string {
	switch d {
	case DoorsReduced:
		return "reduced"
	case DoorsOpen:
		return "open"
	default:
		return "vanilla"
	}
}

// ItemData is the immutable template record for one item (or monster-as-item).
type ItemData struct {
	ID              int
	Name            string
	Classification  Classification
	Category        ItemCategory
	Tier            int
	Unique          bool
	Groups          []string
	Count           int
	IllegalPrefixes []string
}

// MonsterData is the immutable template record for one monster species.
// Monsters share the item id space: a monster occupying a slot is modeled
// as a progression item.
type MonsterData struct {
	ID           int
	Name         string
	Groups       []string
	Stage        GameStage
	PreEvolution string
	EggName      string
	Special      bool // never touched by species shuffling
}

// SeedRule forces one monster carrying Group into a random encounter inside
// the Areas whitelist before general randomization, so required traversal
// abilities stay reachable.
type SeedRule struct {
	Group string
	Areas []string
}

// ConnectionData is one outbound entrance of a region template.
type ConnectionData struct {
	Region    string
	Target    string
	Condition *AccessCondition
}

// RegionData is a named region plus its ordered outbound connections.
type RegionData struct {
	Name        string
	Connections []ConnectionData
}

// LocationData is the immutable template record for one item-holding location.
// Postgame is the only field mutated after load (by the postgame marker pass).
type LocationData struct {
	ID          int
	Name        string // logical key; area segment before the first underscore
	DisplayName string
	Region      string
	Category    LocationCategory
	DefaultItem string
	Condition   *AccessCondition
	EncounterID string
	MonsterSlot int  // 0-2, or -1 when not a monster slot
	Limited     bool // keeper shops only: limited-quantity stock
	Shift       bool // only exists while monster shift is active
	Postgame    bool
}

// EncounterData is the immutable template record for one wild battle.
// Per-player copies are deep-cloned before any randomization.
type EncounterData struct {
	ID        int
	Name      string
	Champion  bool
	Region    string
	Area      string // first path segment of Region
	Condition *AccessCondition
	Monsters  []string // up to 3 slots
	Excluded  []string // species never assigned to this encounter
}

// HintData is the static per-hint template.
type HintData struct {
	ID       string
	Text     string // may contain {area}, {category}, {item} placeholders
	Suppress bool
	Item     string // optional target item name
	Location string // optional target location name
}

// Hint is the resolved, per-player hint instance.
type Hint struct {
	ID       string
	Text     string
	Suppress bool
	Location string
}

// PoolItem is one entry of the generated item pool handed to the host.
type PoolItem struct {
	Name           string
	ID             int
	Classification Classification
}

// Placement records one filled location in a finished world.
type Placement struct {
	Location string
	Area     string
	Item     string
	Player   int
}
