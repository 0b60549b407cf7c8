package loot

import (
	"math"

	"github.com/questforge/progression-api/internal/content"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
)

// Affix presence gates per rarity
var prefixChances = map[entities.Rarity]float64{
	entities.RarityCommon:    0,
	entities.RarityUncommon:  0.20,
	entities.RarityRare:      0.50,
	entities.RarityEpic:      0.80,
	entities.RarityLegendary: 1.0,
}

var suffixChances = map[entities.Rarity]float64{
	entities.RarityCommon:    0,
	entities.RarityUncommon:  0,
	entities.RarityRare:      0.30,
	entities.RarityEpic:      0.60,
	entities.RarityLegendary: 0.80,
}

// Value scale per rarity
var affixRarityScales = map[entities.Rarity]float64{
	entities.RarityCommon:    0.5,
	entities.RarityUncommon:  0.75,
	entities.RarityRare:      1.0,
	entities.RarityEpic:      1.25,
	entities.RarityLegendary: 1.5,
}

const (
	affixLevelScalePerLevel = 0.02

	// Weight multiplier for affixes matching the class's primary stat
	classAffinityWeight = 1.1

	// Legendary-only greater affix roll
	greaterAffixChance = 0.10
	greaterAffixScale  = 1.5
)

// AffixInput carries everything an affix roll needs. Pools may be
// empty, in which case the corresponding affix simply does not roll.
type AffixInput struct {
	Rarity    entities.Rarity
	ItemLevel int

	// ClassPrimaryStat biases the pool toward definitions of the
	// class's natural category; empty means no bias
	ClassPrimaryStat entities.StatType

	Prefixes []content.AffixDefinition
	Suffixes []content.AffixDefinition
}

// RollAffixes rolls the optional prefix and suffix for an item. Each
// position passes its rarity gate independently before a weighted
// draw from its pool.
func (r *Roller) RollAffixes(input *AffixInput) (prefix, suffix *entities.Affix, err error) {
	if !input.Rarity.Valid() {
		return nil, nil, errors.OutOfRangef("unknown rarity %d", int(input.Rarity))
	}

	if rollAffixGate(r, prefixChances[input.Rarity], input.Prefixes) {
		prefix = r.rollAffix(entities.AffixPrefix, input, input.Prefixes)
	}
	if rollAffixGate(r, suffixChances[input.Rarity], input.Suffixes) {
		suffix = r.rollAffix(entities.AffixSuffix, input, input.Suffixes)
	}

	return prefix, suffix, nil
}

func rollAffixGate(r *Roller, chance float64, pool []content.AffixDefinition) bool {
	if len(pool) == 0 {
		return false
	}
	if chance <= 0 {
		return false
	}
	if chance >= 1 {
		return true
	}
	return r.rng.Float64() < chance
}

// rollAffix draws a definition by weight and scales its value by item
// level and rarity. Gate and pool emptiness are checked by the caller.
func (r *Roller) rollAffix(affixType entities.AffixType, input *AffixInput, pool []content.AffixDefinition) *entities.Affix {
	def := r.pickWeighted(pool, input.ClassPrimaryStat)

	value := def.MinValue + r.rng.Float64()*(def.MaxValue-def.MinValue)
	value *= 1 + float64(input.ItemLevel)*affixLevelScalePerLevel
	value *= affixRarityScales[input.Rarity]

	greater := false
	if input.Rarity == entities.RarityLegendary && r.rng.Float64() < greaterAffixChance {
		value *= greaterAffixScale
		greater = true
	}

	return &entities.Affix{
		Type:     affixType,
		BonusKey: def.Key,
		Value:    math.Round(value*10) / 10,
		Greater:  greater,
	}
}

// pickWeighted selects a definition via cumulative weights. Every
// definition weighs 1.0; definitions whose category matches the class
// primary stat weigh classAffinityWeight. An explicit weight table
// replaces the old duplicate-the-entries trick.
func (r *Roller) pickWeighted(pool []content.AffixDefinition, classStat entities.StatType) content.AffixDefinition {
	total := 0.0
	weights := make([]float64, len(pool))
	for i, def := range pool {
		w := 1.0
		if classStat != "" && def.Category == string(classStat) {
			w = classAffinityWeight
		}
		weights[i] = w
		total += w
	}

	target := r.rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return pool[i]
		}
	}
	return pool[len(pool)-1]
}
