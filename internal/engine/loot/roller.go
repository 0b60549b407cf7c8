// Package loot implements equipment drop rolling: rarity resolution
// with hard and soft caps, stat bonuses, affixes, and full item
// generation with catalog templates and procedural fallback.
package loot

import (
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/rng"
)

// Rarity roll thresholds over the luck/tier-adjusted d100
const (
	legendaryThreshold = 95.0
	epicThreshold      = 82.0
	rareThreshold      = 65.0
	uncommonThreshold  = 40.0

	luckRarityWeight = 0.5
	tierRarityWeight = 3.0

	// Legendary drops only exist at tier 4 and above
	legendaryMinTier = 4
)

type bonusRange struct {
	min, max int
}

// Primary stat bonus per rarity
var statBonusRanges = map[entities.Rarity]bonusRange{
	entities.RarityCommon:    {1, 3},
	entities.RarityUncommon:  {2, 5},
	entities.RarityRare:      {4, 8},
	entities.RarityEpic:      {7, 12},
	entities.RarityLegendary: {10, 18},
}

// Chance of rolling a secondary stat per rarity
var secondaryStatChances = map[entities.Rarity]float64{
	entities.RarityCommon:    0,
	entities.RarityUncommon:  0.30,
	entities.RarityRare:      0.60,
	entities.RarityEpic:      0.80,
	entities.RarityLegendary: 1.0,
}

// Secondary stat bonus per rarity
var secondaryBonusRanges = map[entities.Rarity]bonusRange{
	entities.RarityCommon:    {0, 0},
	entities.RarityUncommon:  {1, 3},
	entities.RarityRare:      {2, 4},
	entities.RarityEpic:      {3, 6},
	entities.RarityLegendary: {5, 9},
}

// Roller performs the individual rarity and stat rolls. It is pure
// apart from the injected randomness source.
type Roller struct {
	rng rng.Source
}

// NewRoller creates a roller with the given randomness source
func NewRoller(src rng.Source) (*Roller, error) {
	if src == nil {
		return nil, errors.InvalidArgument("rng source is required")
	}
	return &Roller{rng: src}, nil
}

// RollRarity maps a luck/tier-adjusted uniform draw to a rarity.
//
// Two caps apply after the threshold mapping: the hard cap downgrades
// Legendary to Epic below tier 4, and the soft cap puts Epic at tiers
// 1-2 through a second luck-scaled keep roll, downgrading to Uncommon
// (tier 1) or Rare (tier 2) on a miss.
func (r *Roller) RollRarity(tier, luck int) (entities.Rarity, error) {
	if tier < 1 {
		return entities.RarityCommon, errors.InvalidArgumentf("tier must be at least 1, got %d", tier)
	}

	adjusted := r.rng.Float64()*100 + float64(luck)*luckRarityWeight + float64(tier)*tierRarityWeight

	var rarity entities.Rarity
	switch {
	case adjusted >= legendaryThreshold:
		rarity = entities.RarityLegendary
	case adjusted >= epicThreshold:
		rarity = entities.RarityEpic
	case adjusted >= rareThreshold:
		rarity = entities.RarityRare
	case adjusted >= uncommonThreshold:
		rarity = entities.RarityUncommon
	default:
		rarity = entities.RarityCommon
	}

	if rarity == entities.RarityLegendary && tier < legendaryMinTier {
		rarity = entities.RarityEpic
	}

	if rarity == entities.RarityEpic && tier < 3 {
		rarity = r.applyEpicSoftCap(tier, luck)
	}

	return rarity, nil
}

// applyEpicSoftCap re-rolls whether a low-tier Epic is kept. The
// tier 1 downgrade lands on Uncommon rather than Rare; that asymmetry
// is a deliberate balance choice, not an oversight.
func (r *Roller) applyEpicSoftCap(tier, luck int) entities.Rarity {
	var keepChance float64
	var downgrade entities.Rarity

	switch tier {
	case 1:
		keepChance = 0.02 + float64(luck)*0.003
		downgrade = entities.RarityUncommon
	default:
		keepChance = 0.05 + float64(luck)*0.005
		downgrade = entities.RarityRare
	}

	if rng.Chance(r.rng, keepChance) {
		return entities.RarityEpic
	}
	return downgrade
}

// RollStatBonus draws a primary stat bonus from the rarity's range
func (r *Roller) RollStatBonus(rarity entities.Rarity) (int, error) {
	bounds, ok := statBonusRanges[rarity]
	if !ok {
		return 0, errors.OutOfRangef("unknown rarity %d", int(rarity))
	}
	return rng.IntBetween(r.rng, bounds.min, bounds.max), nil
}

// RollSecondaryStat rolls an optional secondary stat distinct from the
// primary. Returns ok=false when the rarity's presence gate misses.
func (r *Roller) RollSecondaryStat(rarity entities.Rarity, excluding entities.StatType) (entities.StatType, int, bool, error) {
	chance, known := secondaryStatChances[rarity]
	if !known {
		return "", 0, false, errors.OutOfRangef("unknown rarity %d", int(rarity))
	}

	if !rng.Chance(r.rng, chance) {
		return "", 0, false, nil
	}

	candidates := make([]entities.StatType, 0, len(entities.AllStatTypes)-1)
	for _, stat := range entities.AllStatTypes {
		if stat != excluding {
			candidates = append(candidates, stat)
		}
	}
	if len(candidates) == 0 {
		return "", 0, false, nil
	}

	stat := candidates[r.rng.IntN(len(candidates))]
	bounds := secondaryBonusRanges[rarity]
	bonus := rng.IntBetween(r.rng, bounds.min, bounds.max)

	return stat, bonus, true, nil
}
