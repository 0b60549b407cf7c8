// Package cards implements the collectible monster-card engine: drop
// rolls per content source, rarity-weighted selection from the card
// pool, and duplicate absorption with its milestone upgrade ladder.
package cards

import (
	"github.com/questforge/progression-api/internal/content"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/idgen"
	"github.com/questforge/progression-api/internal/pkg/rng"
)

// Fallback drop chances per source, used when the pool carries no
// server-configured per-card chances
const (
	dungeonDropChance     = 0.10
	dungeonBossDropChance = 0.15
	arenaDropChance       = 0.20
	expeditionDropChance  = 0.15
	raidDropChance        = 1.0

	// Arena cards only drop on milestone waves
	arenaMilestoneInterval = 5
)

// Selection weights per rarity for the weighted pool pick
var rarityWeights = map[entities.Rarity]float64{
	entities.RarityCommon:    5.0,
	entities.RarityUncommon:  3.0,
	entities.RarityRare:      1.5,
	entities.RarityEpic:      0.5,
	entities.RarityLegendary: 0.1,
}

// Duplicate-count milestones; each crossing steps the card's rarity up
// one tier. A ladder rather than a formula: upgrades should feel like
// discrete events, not a smooth curve.
var upgradeLadder = [...]int{3, 7, 12, 18}

// Bonus growth per absorbed duplicate
const duplicateBonusScale = 0.25

// Config holds the engine's dependencies
type Config struct {
	RNG   rng.Source
	IDGen idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RNG == nil {
		vb.RequiredField("RNG")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
	}

	return vb.Build()
}

// Engine rolls card drops and absorbs duplicates
type Engine struct {
	rng   rng.Source
	idGen idgen.Generator
}

// NewEngine creates a card engine with the provided dependencies
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Engine{
		rng:   cfg.RNG,
		idGen: cfg.IDGen,
	}, nil
}

// RollDropInput parameterizes one card drop opportunity
type RollDropInput struct {
	Source entities.CardSource

	// Boss raises the dungeon fallback chance
	Boss bool

	// Wave gates arena drops to milestone waves
	Wave int

	// Pool is the already-filtered card pool for this source
	Pool []content.CardDefinition
}

// RollDrop decides whether a card drops and which one. A nil card with
// a nil error means no drop, which is a normal outcome.
//
// When any card in the pool carries a server-configured drop chance,
// the average of the configured chances overrides the source fallback.
func (e *Engine) RollDrop(input *RollDropInput) (*entities.MonsterCard, error) {
	if !input.Source.Valid() {
		return nil, errors.InvalidArgumentf("unknown card source %q", input.Source)
	}

	if len(input.Pool) == 0 {
		return nil, nil
	}
	if input.Source == entities.CardSourceArena && !arenaMilestoneWave(input.Wave) {
		return nil, nil
	}

	chance := e.dropChance(input)
	if !rng.Chance(e.rng, chance) {
		return nil, nil
	}

	def := e.weightedRandomCard(input.Pool)
	return &entities.MonsterCard{
		ID:             e.idGen.Generate(),
		DefinitionID:   def.ID,
		Name:           def.Name,
		Rarity:         def.Rarity,
		BonusType:      def.BonusType,
		BonusValue:     def.BaseBonusValue,
		BaseBonusValue: def.BaseBonusValue,
	}, nil
}

func arenaMilestoneWave(wave int) bool {
	return wave > 0 && wave%arenaMilestoneInterval == 0
}

// dropChance averages server-configured per-card chances when present,
// falling back to the source's fixed chance otherwise
func (e *Engine) dropChance(input *RollDropInput) float64 {
	configured := 0
	sum := 0.0
	for _, def := range input.Pool {
		if def.DropChance > 0 {
			configured++
			sum += def.DropChance
		}
	}
	if configured > 0 {
		return sum / float64(configured)
	}

	switch input.Source {
	case entities.CardSourceDungeon:
		if input.Boss {
			return dungeonBossDropChance
		}
		return dungeonDropChance
	case entities.CardSourceArena:
		return arenaDropChance
	case entities.CardSourceExpedition:
		return expeditionDropChance
	case entities.CardSourceRaid:
		return raidDropChance
	}
	return 0
}

// weightedRandomCard picks from the pool by cumulative rarity weight
func (e *Engine) weightedRandomCard(pool []content.CardDefinition) content.CardDefinition {
	total := 0.0
	for _, def := range pool {
		total += rarityWeights[def.Rarity]
	}

	target := e.rng.Float64() * total
	cumulative := 0.0
	for _, def := range pool {
		cumulative += rarityWeights[def.Rarity]
		if target < cumulative {
			return def
		}
	}
	return pool[len(pool)-1]
}

// AbsorbDuplicate folds a repeat find into an owned card: the bonus
// value grows with every duplicate, and the rarity steps up one tier
// each time the duplicate count crosses a ladder milestone. Returns
// whether a rarity upgrade occurred.
func (e *Engine) AbsorbDuplicate(card *entities.MonsterCard) (bool, error) {
	if card == nil {
		return false, errors.InvalidArgument("card is required")
	}
	if !card.Rarity.Valid() {
		return false, errors.OutOfRangef("card rarity %d out of range", int(card.Rarity))
	}

	card.DuplicateCount++
	card.BonusValue = card.BaseBonusValue * (1 + duplicateBonusScale*float64(card.DuplicateCount))

	crossed := crossedMilestones(card.DuplicateCount)
	if crossed <= card.UpgradeLevel {
		return false, nil
	}

	card.Rarity = card.Rarity.Next()
	card.UpgradeLevel = crossed
	return true, nil
}

// crossedMilestones counts ladder entries at or below the duplicate
// count
func crossedMilestones(duplicates int) int {
	crossed := 0
	for _, milestone := range upgradeLadder {
		if duplicates >= milestone {
			crossed++
		}
	}
	return crossed
}
