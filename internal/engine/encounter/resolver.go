// Package encounter resolves single dungeon rooms: a weighted
// coin-flip of effective party power against a difficulty-scaled
// threshold, with damage, rewards, and loot eligibility derived from
// the outcome. A failed room is a first-class result, never an error.
package encounter

import (
	"math"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/rng"
)

const (
	// Success probability per point of power ratio
	ratioChanceWeight = 0.5

	// No roll is ever a sure thing
	successChanceCeiling = 0.95

	// Loot chance composition on success
	lootBaseChance    = 0.10
	lootTierWeight    = 0.03
	lootLuckWeight    = 0.003

	// Paladins shrug off half of all failure damage, applied after
	// every other multiplier
	paladinDamageScale = 0.5

	// Reward scaling per point of difficulty rating
	expPerRating  = 10.0
	goldPerRating = 6.0

	// Bosses pay out double
	bossRewardScale = 2

	// A failed room still teaches something
	failureExpPerRating = 2
)

// Resolver resolves rooms with an injected randomness source. Failure
// damage is rolled on physical dice (2d6 + rating) rather than the
// uniform source; tests assert bounds instead of exact values.
type Resolver struct {
	rng rng.Source
}

// NewResolver creates a resolver with the given randomness source
func NewResolver(src rng.Source) (*Resolver, error) {
	if src == nil {
		return nil, errors.InvalidArgument("rng source is required")
	}
	return &Resolver{rng: src}, nil
}

// ResolveInput parameterizes one room resolution
type ResolveInput struct {
	Room           entities.DungeonRoom
	Approach       entities.RoomApproach
	CharacterPower float64
	Difficulty     entities.Difficulty

	// Tier and Luck feed the loot eligibility roll
	Tier int
	Luck int

	// Class enables class-specific mitigation (Paladin)
	Class entities.CharacterClass
}

// Resolution is the structured outcome of one room
type Resolution struct {
	Result entities.RoomResult

	// LootEligible is whether the success loot roll passed; the caller
	// decides what (and whether, after pity) actually drops
	LootEligible bool

	// SuccessChance is the computed probability, exposed for
	// simulation and balance tooling
	SuccessChance float64
}

// Resolve computes the success probability, rolls the room, and
// derives damage and rewards. It never returns an error for a failed
// encounter; errors indicate caller-contract violations only.
func (r *Resolver) Resolve(input *ResolveInput) (*Resolution, error) {
	params, err := DifficultyParams(input.Difficulty)
	if err != nil {
		return nil, err
	}
	if input.Room.DifficultyRating < 1 {
		return nil, errors.InvalidArgumentf("room difficulty rating must be at least 1, got %d", input.Room.DifficultyRating)
	}
	if input.Approach.PowerModifier < 0 {
		return nil, errors.InvalidArgumentf("approach power modifier must be non-negative, got %f", input.Approach.PowerModifier)
	}
	if input.Tier < 1 {
		return nil, errors.InvalidArgumentf("tier must be at least 1, got %d", input.Tier)
	}

	requiredPower := float64(input.Room.DifficultyRating) * params.Scalar
	effectivePower := input.CharacterPower * input.Approach.PowerModifier

	chance := ratioChanceWeight * effectivePower / requiredPower
	chance = math.Max(chance, params.SuccessFloor)
	chance = math.Min(chance, successChanceCeiling)

	success := r.rng.Float64() < chance

	result := entities.RoomResult{
		EncounterType: input.Room.EncounterType,
		Success:       success,
		PlayerPower:   effectivePower,
		RequiredPower: requiredPower,
	}

	resolution := &Resolution{SuccessChance: chance}

	if success {
		result.ExpEarned, result.GoldEarned = successRewards(input.Room, params)
		resolution.LootEligible = r.rollLootEligibility(input, params)
	} else {
		result.ExpEarned = input.Room.DifficultyRating * failureExpPerRating
		result.HPLost, err = r.rollFailureDamage(input, params)
		if err != nil {
			return nil, err
		}
	}

	resolution.Result = result
	return resolution, nil
}

func successRewards(room entities.DungeonRoom, params Params) (exp, gold int) {
	exp = int(math.Round(float64(room.DifficultyRating) * expPerRating * params.Scalar))
	gold = int(math.Round(float64(room.DifficultyRating) * goldPerRating * params.Scalar))
	if room.Boss {
		exp *= bossRewardScale
		gold *= bossRewardScale
	}
	return exp, gold
}

// rollFailureDamage rolls 2d6 + rating and applies difficulty, risk,
// and class mitigation. Damage never drops below 1.
func (r *Resolver) rollFailureDamage(input *ResolveInput, params Params) (int, error) {
	roll, err := dice.NewRoll(2, 6)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll base damage")
	}

	base := float64(roll.GetValue() + input.Room.DifficultyRating)
	damage := base * params.DamageMultiplier * input.Approach.RiskModifier
	if input.Class == entities.ClassPaladin {
		damage *= paladinDamageScale
	}

	hp := int(math.Round(damage))
	if hp < 1 {
		hp = 1
	}
	return hp, nil
}

func (r *Resolver) rollLootEligibility(input *ResolveInput, params Params) bool {
	chance := lootBaseChance +
		float64(input.Tier)*lootTierWeight +
		float64(input.Luck)*lootLuckWeight +
		input.Room.BonusLootChance
	chance = math.Min(chance, params.LootCeiling)

	return rng.Chance(r.rng, chance)
}
