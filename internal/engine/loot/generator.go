package loot

import (
	"fmt"

	"github.com/questforge/progression-api/internal/content"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/idgen"
	"github.com/questforge/progression-api/internal/pkg/rng"
)

const (
	// Chance to hand out a curated template instead of rolling the
	// item procedurally, when a matching template exists
	templateChance = 0.80

	// Drops never require more than this many levels above the player
	levelRequirementHeadroom = 5
)

// Base names for procedurally generated items per slot
var slotBaseNames = map[entities.EquipmentSlot]string{
	entities.SlotWeapon:    "Blade",
	entities.SlotArmor:     "Aegis",
	entities.SlotAccessory: "Charm",
	entities.SlotTrinket:   "Totem",
}

// GeneratorConfig holds the generator's dependencies
type GeneratorConfig struct {
	RNG   rng.Source
	IDGen idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *GeneratorConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RNG == nil {
		vb.RequiredField("RNG")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
	}

	return vb.Build()
}

// Generator produces complete equipment items: rarity resolution,
// template-or-procedural base, stats, and affixes. It has no side
// effects; persistence and pity bookkeeping belong to the caller.
type Generator struct {
	roller *Roller
	rng    rng.Source
	idGen  idgen.Generator
}

// NewGenerator creates a generator with the provided dependencies
func NewGenerator(cfg *GeneratorConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller, err := NewRoller(cfg.RNG)
	if err != nil {
		return nil, err
	}

	return &Generator{
		roller: roller,
		rng:    cfg.RNG,
		idGen:  cfg.IDGen,
	}, nil
}

// Roller exposes the underlying roller for callers that need raw rolls
func (g *Generator) Roller() *Roller {
	return g.roller
}

// GenerateInput parameterizes one drop
type GenerateInput struct {
	Tier int
	Luck int

	// Slot pins the slot; empty picks one uniformly
	Slot entities.EquipmentSlot

	// ForcedRarity short-circuits the rarity roll entirely
	ForcedRarity *entities.Rarity

	// MinRarity raises a rolled rarity to at least this floor
	// (the pity tracker's forced minimum)
	MinRarity *entities.Rarity

	// Class biases affix selection; empty means no bias
	Class entities.CharacterClass

	// PlayerLevel caps the level requirement; 0 means unknown
	PlayerLevel int

	// Catalog supplies templates and affix pools; nil means empty
	Catalog *content.Catalog
}

// Generate produces a new equipment item
func (g *Generator) Generate(input *GenerateInput) (*entities.EquipmentItem, error) {
	if input.Tier < 1 {
		return nil, errors.InvalidArgumentf("tier must be at least 1, got %d", input.Tier)
	}
	if input.ForcedRarity != nil && !input.ForcedRarity.Valid() {
		return nil, errors.OutOfRangef("forced rarity %d out of range", int(*input.ForcedRarity))
	}
	if input.Slot != "" && !input.Slot.Valid() {
		return nil, errors.InvalidArgumentf("unknown slot %q", input.Slot)
	}

	catalog := input.Catalog
	if catalog == nil {
		catalog = content.Empty()
	}

	rarity, err := g.resolveRarity(input)
	if err != nil {
		return nil, err
	}

	slot := input.Slot
	if slot == "" {
		slot = entities.AllEquipmentSlots[g.rng.IntN(len(entities.AllEquipmentSlots))]
	}

	item, err := g.baseItem(input, catalog, slot, rarity)
	if err != nil {
		return nil, err
	}

	prefix, suffix, err := g.roller.RollAffixes(&AffixInput{
		Rarity:           rarity,
		ItemLevel:        item.LevelRequirement,
		ClassPrimaryStat: entities.ClassPrimaryStats[input.Class],
		Prefixes:         catalog.AffixesByType(entities.AffixPrefix),
		Suffixes:         catalog.AffixesByType(entities.AffixSuffix),
	})
	if err != nil {
		return nil, err
	}
	item.Prefix = prefix
	item.Suffix = suffix

	return item, nil
}

func (g *Generator) resolveRarity(input *GenerateInput) (entities.Rarity, error) {
	if input.ForcedRarity != nil {
		return *input.ForcedRarity, nil
	}

	rarity, err := g.roller.RollRarity(input.Tier, input.Luck)
	if err != nil {
		return entities.RarityCommon, err
	}
	if input.MinRarity != nil && rarity < *input.MinRarity {
		rarity = *input.MinRarity
	}
	return rarity, nil
}

// baseItem builds the un-affixed item: a curated template when the
// template branch hits and a match exists, procedural otherwise.
func (g *Generator) baseItem(input *GenerateInput, catalog *content.Catalog, slot entities.EquipmentSlot, rarity entities.Rarity) (*entities.EquipmentItem, error) {
	maxLevel := 0
	if input.PlayerLevel > 0 {
		maxLevel = input.PlayerLevel + levelRequirementHeadroom
	}

	if rng.Chance(g.rng, templateChance) {
		if templates := catalog.MatchEquipment(slot, rarity, maxLevel); len(templates) > 0 {
			return g.fromTemplate(templates[g.rng.IntN(len(templates))]), nil
		}
	}

	return g.procedural(input, slot, rarity, maxLevel)
}

func (g *Generator) fromTemplate(tmpl content.EquipmentTemplate) *entities.EquipmentItem {
	return &entities.EquipmentItem{
		ID:               g.idGen.Generate(),
		Name:             tmpl.Name,
		Slot:             tmpl.Slot,
		Rarity:           tmpl.Rarity,
		PrimaryStat:      tmpl.PrimaryStat,
		PrimaryBonus:     tmpl.PrimaryBonus,
		SecondaryStat:    tmpl.SecondaryStat,
		SecondaryBonus:   tmpl.SecondaryBonus,
		LevelRequirement: tmpl.LevelRequirement,
	}
}

func (g *Generator) procedural(input *GenerateInput, slot entities.EquipmentSlot, rarity entities.Rarity, maxLevel int) (*entities.EquipmentItem, error) {
	primaryStat := entities.AllStatTypes[g.rng.IntN(len(entities.AllStatTypes))]

	primaryBonus, err := g.roller.RollStatBonus(rarity)
	if err != nil {
		return nil, err
	}

	secondaryStat, secondaryBonus, hasSecondary, err := g.roller.RollSecondaryStat(rarity, primaryStat)
	if err != nil {
		return nil, err
	}
	if !hasSecondary {
		secondaryStat, secondaryBonus = "", 0
	}

	levelReq := (input.Tier-1)*10 + rng.IntBetween(g.rng, 1, 10)
	if maxLevel > 0 && levelReq > maxLevel {
		levelReq = maxLevel
	}

	return &entities.EquipmentItem{
		ID:               g.idGen.Generate(),
		Name:             fmt.Sprintf("%s %s", titleCase(rarity.String()), slotBaseNames[slot]),
		Slot:             slot,
		Rarity:           rarity,
		PrimaryStat:      primaryStat,
		PrimaryBonus:     primaryBonus,
		SecondaryStat:    secondaryStat,
		SecondaryBonus:   secondaryBonus,
		LevelRequirement: levelReq,
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
