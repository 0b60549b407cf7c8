package dungeon

import (
	"github.com/questforge/progression-api/internal/entities"
)

// StartRunInput defines the input for starting a run
type StartRunInput struct {
	Character  *entities.CharacterSnapshot
	DungeonID  string
	Difficulty entities.Difficulty
	Rooms      []entities.DungeonRoom
	MaxHP      int
}

// StartRunOutput defines the output for starting a run
type StartRunOutput struct {
	Run *entities.DungeonRun
}

// GetRunInput defines the input for getting a run
type GetRunInput struct {
	RunID string
}

// GetRunOutput defines the output for getting a run
type GetRunOutput struct {
	Run *entities.DungeonRun
}

// ListRunsInput defines the input for listing a character's runs
type ListRunsInput struct {
	CharacterID string
}

// ListRunsOutput defines the output for listing a character's runs
type ListRunsOutput struct {
	Runs []*entities.DungeonRun
}

// ResolveRoomInput defines the input for resolving the current room
type ResolveRoomInput struct {
	RunID     string
	Character *entities.CharacterSnapshot
	Approach  entities.RoomApproach
}

// ResolveRoomOutput defines the output for resolving a room
type ResolveRoomOutput struct {
	Run    *entities.DungeonRun
	Result entities.RoomResult

	// Loot is non-nil when the room paid out an item
	Loot *entities.EquipmentItem

	// PityTriggered reports whether the pity threshold forced the loot
	PityTriggered bool

	// Card is non-nil when a card dropped; for a repeat find it is the
	// owned card after duplicate absorption
	Card *entities.MonsterCard

	// CardUpgraded reports whether absorbing the duplicate stepped the
	// card's rarity
	CardUpgraded bool
}

// AbandonRunInput defines the input for abandoning a run
type AbandonRunInput struct {
	RunID string
}

// AbandonRunOutput defines the output for abandoning a run
type AbandonRunOutput struct {
	Run *entities.DungeonRun
}
