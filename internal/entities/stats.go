package entities

// StatType is an allocatable character attribute
type StatType string

// The six allocatable stats
const (
	StatStrength  StatType = "strength"
	StatWisdom    StatType = "wisdom"
	StatCharisma  StatType = "charisma"
	StatDexterity StatType = "dexterity"
	StatLuck      StatType = "luck"
	StatDefense   StatType = "defense"
)

// AllStatTypes lists every stat in a stable order
var AllStatTypes = []StatType{
	StatStrength,
	StatWisdom,
	StatCharisma,
	StatDexterity,
	StatLuck,
	StatDefense,
}

// Valid reports whether s is a known stat type
func (s StatType) Valid() bool {
	for _, stat := range AllStatTypes {
		if s == stat {
			return true
		}
	}
	return false
}

// CharacterClass identifies the avatar's class. Only the classes the
// core branches on are named; others pass through untouched.
type CharacterClass string

// Classes with core-relevant behavior
const (
	// ClassPaladin halves encounter failure damage
	ClassPaladin CharacterClass = "paladin"
)

// ClassPrimaryStats maps classes to the stat their gear naturally
// scales with, used for affix pool weighting.
var ClassPrimaryStats = map[CharacterClass]StatType{
	"warrior":      StatStrength,
	"mage":         StatWisdom,
	"bard":         StatCharisma,
	"rogue":        StatDexterity,
	"gambler":      StatLuck,
	ClassPaladin:   StatDefense,
}

// CharacterSnapshot is the read-only view of a character the core
// consumes. The surrounding application owns the character; the core
// only needs effective stats at roll time.
type CharacterSnapshot struct {
	ID    string
	Level int
	Class CharacterClass

	// Effective stats including class/zodiac/equipment bonuses
	Stats map[StatType]int
}

// Stat returns the effective value for a stat, zero when absent
func (c *CharacterSnapshot) Stat(s StatType) int {
	return c.Stats[s]
}

// Luck is shorthand for the luck stat, consulted by nearly every roll
func (c *CharacterSnapshot) Luck() int {
	return c.Stats[StatLuck]
}

// Tier is the coarse difficulty bracket derived from level
// (roughly level/10 + 1).
func (c *CharacterSnapshot) Tier() int {
	tier := c.Level/10 + 1
	if tier < 1 {
		tier = 1
	}
	return tier
}
