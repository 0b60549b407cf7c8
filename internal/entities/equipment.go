package entities

// EquipmentSlot is where an item is worn
type EquipmentSlot string

// Equipment slots
const (
	SlotWeapon    EquipmentSlot = "weapon"
	SlotArmor     EquipmentSlot = "armor"
	SlotAccessory EquipmentSlot = "accessory"
	SlotTrinket   EquipmentSlot = "trinket"
)

// AllEquipmentSlots lists every slot in a stable order
var AllEquipmentSlots = []EquipmentSlot{
	SlotWeapon,
	SlotArmor,
	SlotAccessory,
	SlotTrinket,
}

// Valid reports whether s is a known slot
func (s EquipmentSlot) Valid() bool {
	for _, slot := range AllEquipmentSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// AffixType distinguishes prefix from suffix modifiers
type AffixType string

// Affix positions
const (
	AffixPrefix AffixType = "prefix"
	AffixSuffix AffixType = "suffix"
)

// Affix is a rolled item modifier. Value is already scaled by item
// level and rarity, rounded to one decimal place. Greater marks the
// legendary-only 1.5x variant.
type Affix struct {
	Type     AffixType
	BonusKey string
	Value    float64
	Greater  bool
}

// MaxEnhancementLevel caps forge upgrades on a single item
const MaxEnhancementLevel = 10

// EquipmentItem is a fully-rolled piece of gear.
//
// Invariants: PrimaryBonus > 0 always; SecondaryBonus is 0 exactly
// when SecondaryStat is empty.
type EquipmentItem struct {
	ID               string
	Name             string
	Slot             EquipmentSlot
	Rarity           Rarity
	PrimaryStat      StatType
	PrimaryBonus     int
	SecondaryStat    StatType
	SecondaryBonus   int
	LevelRequirement int
	EnhancementLevel int
	Prefix           *Affix
	Suffix           *Affix
}

// HasSecondaryStat reports whether the item rolled a secondary stat
func (e *EquipmentItem) HasSecondaryStat() bool {
	return e.SecondaryStat != ""
}

// EffectivePrimaryBonus is the primary bonus including enhancement
// levels (+1 per level, capped at MaxEnhancementLevel)
func (e *EquipmentItem) EffectivePrimaryBonus() int {
	level := e.EnhancementLevel
	if level > MaxEnhancementLevel {
		level = MaxEnhancementLevel
	}
	if level < 0 {
		level = 0
	}
	return e.PrimaryBonus + level
}
