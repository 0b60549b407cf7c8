// Package content provides the read-only content catalog the engines
// draw templates and definitions from: curated equipment, affix
// definitions, and card definitions.
//
// The catalog is explicitly allowed to be empty or partially loaded;
// every consumer carries a procedural or fallback path.
package content

import (
	"github.com/questforge/progression-api/internal/entities"
)

// EquipmentTemplate is a curated, pre-authored item the generator can
// hand out instead of rolling one procedurally.
type EquipmentTemplate struct {
	ID               string                 `yaml:"id"`
	Name             string                 `yaml:"name"`
	Slot             entities.EquipmentSlot `yaml:"slot"`
	Rarity           entities.Rarity        `yaml:"rarity"`
	PrimaryStat      entities.StatType      `yaml:"primary_stat"`
	PrimaryBonus     int                    `yaml:"primary_bonus"`
	SecondaryStat    entities.StatType      `yaml:"secondary_stat,omitempty"`
	SecondaryBonus   int                    `yaml:"secondary_bonus,omitempty"`
	LevelRequirement int                    `yaml:"level_requirement"`
}

// AffixDefinition bounds what an affix roll can produce. Category is
// the stat key the affix belongs to, used for class-weighted sampling.
type AffixDefinition struct {
	Key      string             `yaml:"key"`
	Type     entities.AffixType `yaml:"type"`
	Category string             `yaml:"category"`
	MinValue float64            `yaml:"min_value"`
	MaxValue float64            `yaml:"max_value"`
}

// CardDefinition describes a droppable monster card. DropChance is the
// optional server-configured per-card chance; zero means unset, in
// which case the per-source fallback chance applies.
type CardDefinition struct {
	ID             string                `yaml:"id"`
	Name           string                `yaml:"name"`
	Rarity         entities.Rarity       `yaml:"rarity"`
	BonusType      string                `yaml:"bonus_type"`
	BaseBonusValue float64               `yaml:"base_bonus_value"`
	Sources        []entities.CardSource `yaml:"sources"`
	DropChance     float64               `yaml:"drop_chance,omitempty"`
}

// DroppableFrom reports whether the card can drop from the given
// source. An empty source list means the card drops everywhere.
func (c *CardDefinition) DroppableFrom(source entities.CardSource) bool {
	if len(c.Sources) == 0 {
		return true
	}
	for _, s := range c.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Catalog is an in-memory snapshot of loaded content
type Catalog struct {
	Equipment []EquipmentTemplate `yaml:"equipment"`
	Affixes   []AffixDefinition   `yaml:"affixes"`
	Cards     []CardDefinition    `yaml:"cards"`
}

// Empty returns a usable catalog with no content
func Empty() *Catalog {
	return &Catalog{}
}

// MatchEquipment returns templates matching the slot and rarity with a
// level requirement at or below maxLevel. A maxLevel <= 0 disables the
// level filter.
func (c *Catalog) MatchEquipment(slot entities.EquipmentSlot, rarity entities.Rarity, maxLevel int) []EquipmentTemplate {
	var out []EquipmentTemplate
	for _, tmpl := range c.Equipment {
		if tmpl.Slot != slot || tmpl.Rarity != rarity {
			continue
		}
		if maxLevel > 0 && tmpl.LevelRequirement > maxLevel {
			continue
		}
		out = append(out, tmpl)
	}
	return out
}

// AffixesByType returns the affix pool for one position
func (c *Catalog) AffixesByType(affixType entities.AffixType) []AffixDefinition {
	var out []AffixDefinition
	for _, def := range c.Affixes {
		if def.Type == affixType {
			out = append(out, def)
		}
	}
	return out
}

// CardsForSource filters the card pool to one drop source
func (c *Catalog) CardsForSource(source entities.CardSource) []CardDefinition {
	var out []CardDefinition
	for _, def := range c.Cards {
		if def.DroppableFrom(source) {
			out = append(out, def)
		}
	}
	return out
}
