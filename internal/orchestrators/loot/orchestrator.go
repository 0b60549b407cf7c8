// Package loot implements the loot orchestrator: pity-protected drop
// rolls and equipment generation, tying the engines to persistence.
package loot

//go:generate mockgen -destination=mock/mock_service.go -package=lootmock github.com/questforge/progression-api/internal/orchestrators/loot Service

import (
	"context"
	"log/slog"

	"github.com/questforge/progression-api/internal/content"
	lootengine "github.com/questforge/progression-api/internal/engine/loot"
	pityengine "github.com/questforge/progression-api/internal/engine/pity"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	pityrepo "github.com/questforge/progression-api/internal/repositories/pity"
)

// Service defines the interface for loot operations
type Service interface {
	// RollDrop runs one pity-protected drop roll and, on a hit,
	// generates the dropped item
	RollDrop(ctx context.Context, input *RollDropInput) (*RollDropOutput, error)

	// GenerateEquipment generates an item directly, bypassing the drop
	// roll. Used for fixed rewards and content that always pays out.
	GenerateEquipment(ctx context.Context, input *GenerateEquipmentInput) (*GenerateEquipmentOutput, error)

	// GetPityCounters reads a character's current dry-run streaks
	GetPityCounters(ctx context.Context, input *GetPityCountersInput) (*GetPityCountersOutput, error)
}

// Config holds the dependencies for the loot orchestrator
type Config struct {
	PityRepo  pityrepo.Repository
	Generator *lootengine.Generator
	Tracker   *pityengine.Tracker
	Catalog   content.Source
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.PityRepo == nil {
		vb.RequiredField("PityRepo")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Tracker == nil {
		vb.RequiredField("Tracker")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

type orchestrator struct {
	pityRepo  pityrepo.Repository
	generator *lootengine.Generator
	tracker   *pityengine.Tracker
	catalog   content.Source
}

// NewOrchestrator creates a new loot orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		pityRepo:  cfg.PityRepo,
		generator: cfg.Generator,
		tracker:   cfg.Tracker,
		catalog:   cfg.Catalog,
	}, nil
}

func (o *orchestrator) RollDrop(ctx context.Context, input *RollDropInput) (*RollDropOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if !input.ContentType.Valid() {
		return nil, errors.InvalidArgumentf("unknown content type %q", input.ContentType)
	}
	if input.BaseChance < 0 || input.BaseChance > 1 {
		return nil, errors.InvalidArgumentf("base chance %f out of [0,1]", input.BaseChance)
	}

	counters, err := o.loadCounters(ctx, input.Character.ID)
	if err != nil {
		return nil, err
	}

	outcome, err := o.tracker.ShouldDrop(&pityengine.ShouldDropInput{
		BaseChance:  input.BaseChance,
		Luck:        input.Character.Luck(),
		Counters:    counters,
		ContentType: input.ContentType,
	})
	if err != nil {
		return nil, err
	}

	if _, err := o.pityRepo.Save(ctx, pityrepo.SaveInput{
		CharacterID: input.Character.ID,
		Counters:    outcome.Counters,
	}); err != nil {
		return nil, err
	}

	if !outcome.Dropped {
		return &RollDropOutput{Counters: outcome.Counters}, nil
	}

	catalog, err := o.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	item, err := o.generator.Generate(&lootengine.GenerateInput{
		Tier:        input.Character.Tier(),
		Luck:        input.Character.Luck(),
		Slot:        input.Slot,
		MinRarity:   outcome.ForcedMinRarity,
		Class:       input.Character.Class,
		PlayerLevel: input.Character.Level,
		Catalog:     catalog,
	})
	if err != nil {
		return nil, err
	}

	pityTriggered := outcome.ForcedMinRarity != nil
	if pityTriggered {
		slog.InfoContext(ctx, "pity threshold forced a drop",
			"character_id", input.Character.ID,
			"content_type", input.ContentType,
			"min_rarity", outcome.ForcedMinRarity.String())
	}

	return &RollDropOutput{
		Dropped:       true,
		Item:          item,
		PityTriggered: pityTriggered,
		Counters:      outcome.Counters,
	}, nil
}

func (o *orchestrator) GenerateEquipment(ctx context.Context, input *GenerateEquipmentInput) (*GenerateEquipmentOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	catalog, err := o.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}

	item, err := o.generator.Generate(&lootengine.GenerateInput{
		Tier:         input.Character.Tier(),
		Luck:         input.Character.Luck(),
		Slot:         input.Slot,
		ForcedRarity: input.ForcedRarity,
		MinRarity:    input.MinRarity,
		Class:        input.Character.Class,
		PlayerLevel:  input.Character.Level,
		Catalog:      catalog,
	})
	if err != nil {
		return nil, err
	}

	return &GenerateEquipmentOutput{Item: item}, nil
}

func (o *orchestrator) GetPityCounters(ctx context.Context, input *GetPityCountersInput) (*GetPityCountersOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	counters, err := o.loadCounters(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	return &GetPityCountersOutput{Counters: counters}, nil
}

// loadCounters treats a missing record as all-zero counters; a
// character's first roll ever starts from a clean slate
func (o *orchestrator) loadCounters(ctx context.Context, characterID string) (entities.PityCounters, error) {
	out, err := o.pityRepo.Get(ctx, pityrepo.GetInput{CharacterID: characterID})
	if err != nil {
		if errors.IsNotFound(err) {
			return entities.PityCounters{}, nil
		}
		return nil, err
	}
	return out.Counters, nil
}
