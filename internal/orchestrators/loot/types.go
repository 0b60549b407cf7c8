package loot

import (
	"github.com/questforge/progression-api/internal/entities"
)

// RollDropInput defines the input for a pity-protected drop roll
type RollDropInput struct {
	Character   *entities.CharacterSnapshot
	ContentType entities.ContentType

	// BaseChance is the content's configured drop chance before luck
	BaseChance float64

	// Slot pins the generated item's slot; empty picks one at random
	Slot entities.EquipmentSlot
}

// RollDropOutput defines the output for a pity-protected drop roll
type RollDropOutput struct {
	Dropped bool

	// Item is non-nil exactly when Dropped is true
	Item *entities.EquipmentItem

	// PityTriggered reports whether the threshold forced this drop
	PityTriggered bool

	// Counters is the persisted post-roll counter state
	Counters entities.PityCounters
}

// GenerateEquipmentInput defines the input for direct item generation
type GenerateEquipmentInput struct {
	Character    *entities.CharacterSnapshot
	Slot         entities.EquipmentSlot
	ForcedRarity *entities.Rarity
	MinRarity    *entities.Rarity
}

// GenerateEquipmentOutput defines the output for direct item generation
type GenerateEquipmentOutput struct {
	Item *entities.EquipmentItem
}

// GetPityCountersInput defines the input for reading pity counters
type GetPityCountersInput struct {
	CharacterID string
}

// GetPityCountersOutput defines the output for reading pity counters
type GetPityCountersOutput struct {
	Counters entities.PityCounters
}
