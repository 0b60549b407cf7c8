package entities

// CardSource identifies which content loop produced a card drop
// opportunity. Each source carries its own fallback drop chance.
type CardSource string

// Card drop sources
const (
	CardSourceDungeon    CardSource = "dungeon"
	CardSourceArena      CardSource = "arena"
	CardSourceExpedition CardSource = "expedition"
	CardSourceRaid       CardSource = "raid"
)

// Valid reports whether s is a known card source
func (s CardSource) Valid() bool {
	switch s {
	case CardSourceDungeon, CardSourceArena, CardSourceExpedition, CardSourceRaid:
		return true
	}
	return false
}

// MonsterCard is an owned collectible card. Repeat finds of the same
// definition are absorbed into the existing card instead of creating a
// second copy: DuplicateCount grows the bonus smoothly while
// UpgradeLevel steps the rarity at fixed duplicate milestones.
//
// Invariant: BonusValue == BaseBonusValue * (1 + 0.25*DuplicateCount).
// UpgradeLevel only increases.
type MonsterCard struct {
	ID             string
	DefinitionID   string
	Name           string
	Rarity         Rarity
	BonusType      string
	BonusValue     float64
	BaseBonusValue float64
	DuplicateCount int
	UpgradeLevel   int
}
