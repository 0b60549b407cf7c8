// Package dungeon implements the dungeon run orchestrator: the AFK run
// lifecycle from StartRun through timed room resolution to a terminal
// state, with loot, pity bookkeeping, and card drops folded in.
package dungeon

//go:generate mockgen -destination=mock/mock_service.go -package=dungeonmock github.com/questforge/progression-api/internal/orchestrators/dungeon Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/questforge/progression-api/internal/content"
	"github.com/questforge/progression-api/internal/engine/cards"
	"github.com/questforge/progression-api/internal/engine/encounter"
	lootengine "github.com/questforge/progression-api/internal/engine/loot"
	pityengine "github.com/questforge/progression-api/internal/engine/pity"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/clock"
	"github.com/questforge/progression-api/internal/pkg/idgen"
	"github.com/questforge/progression-api/internal/repositories/cardcollection"
	"github.com/questforge/progression-api/internal/repositories/dungeonrun"
	pityrepo "github.com/questforge/progression-api/internal/repositories/pity"
)

// Power bonus for clearing a room gated to the character's own class
const classGateBonus = 1.15

// Service defines the interface for dungeon run operations
type Service interface {
	// StartRun creates a new run and arms the first room's timer
	StartRun(ctx context.Context, input *StartRunInput) (*StartRunOutput, error)

	// GetRun retrieves a run by ID
	GetRun(ctx context.Context, input *GetRunInput) (*GetRunOutput, error)

	// ListRuns retrieves all of a character's runs
	ListRuns(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error)

	// ResolveRoom resolves the current room once its timer has elapsed,
	// applying rewards, loot, pity, and card drops, then advances the
	// run
	ResolveRoom(ctx context.Context, input *ResolveRoomInput) (*ResolveRoomOutput, error)

	// AbandonRun abandons an in-progress run
	AbandonRun(ctx context.Context, input *AbandonRunInput) (*AbandonRunOutput, error)
}

// Config holds the dependencies for the dungeon orchestrator
type Config struct {
	RunRepo    dungeonrun.Repository
	CardRepo   cardcollection.Repository
	PityRepo   pityrepo.Repository
	Resolver   *encounter.Resolver
	Generator  *lootengine.Generator
	CardEngine *cards.Engine
	Tracker    *pityengine.Tracker
	Catalog    content.Source
	Clock      clock.Clock
	IDGen      idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RunRepo == nil {
		vb.RequiredField("RunRepo")
	}
	if c.CardRepo == nil {
		vb.RequiredField("CardRepo")
	}
	if c.PityRepo == nil {
		vb.RequiredField("PityRepo")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.CardEngine == nil {
		vb.RequiredField("CardEngine")
	}
	if c.Tracker == nil {
		vb.RequiredField("Tracker")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.IDGen == nil {
		vb.RequiredField("IDGen")
	}

	return vb.Build()
}

type orchestrator struct {
	runRepo    dungeonrun.Repository
	cardRepo   cardcollection.Repository
	pityRepo   pityrepo.Repository
	resolver   *encounter.Resolver
	generator  *lootengine.Generator
	cardEngine *cards.Engine
	tracker    *pityengine.Tracker
	catalog    content.Source
	clock      clock.Clock
	idGen      idgen.Generator
}

// NewOrchestrator creates a new dungeon orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		runRepo:    cfg.RunRepo,
		cardRepo:   cfg.CardRepo,
		pityRepo:   cfg.PityRepo,
		resolver:   cfg.Resolver,
		generator:  cfg.Generator,
		cardEngine: cfg.CardEngine,
		tracker:    cfg.Tracker,
		catalog:    cfg.Catalog,
		clock:      c,
		idGen:      cfg.IDGen,
	}, nil
}

func (o *orchestrator) StartRun(ctx context.Context, input *StartRunInput) (*StartRunOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.DungeonID == "" {
		return nil, errors.InvalidArgument("dungeon ID is required")
	}
	if !input.Difficulty.Valid() {
		return nil, errors.InvalidArgumentf("unknown difficulty %q", input.Difficulty)
	}
	if len(input.Rooms) == 0 {
		return nil, errors.InvalidArgument("a dungeon needs at least one room")
	}
	if input.MaxHP <= 0 {
		return nil, errors.InvalidArgumentf("max HP must be positive, got %d", input.MaxHP)
	}
	for i, room := range input.Rooms {
		if room.DifficultyRating < 1 {
			return nil, errors.InvalidArgumentf("room %d difficulty rating must be at least 1", i)
		}
	}

	existing, err := o.runRepo.ListByCharacter(ctx, dungeonrun.ListByCharacterInput{
		CharacterID: input.Character.ID,
	})
	if err != nil {
		return nil, err
	}
	for _, run := range existing.Runs {
		if !run.Terminal() {
			return nil, errors.FailedPreconditionf("character %s already has run %s in progress",
				input.Character.ID, run.ID)
		}
	}

	firstDuration, err := encounter.RoomDuration(input.Rooms[0], input.Difficulty)
	if err != nil {
		return nil, err
	}

	run := &entities.DungeonRun{
		ID:              o.idGen.Generate(),
		CharacterID:     input.Character.ID,
		DungeonID:       input.DungeonID,
		Difficulty:      input.Difficulty,
		Rooms:           input.Rooms,
		CurrentHP:       input.MaxHP,
		MaxHP:           input.MaxHP,
		Status:          entities.RunInProgress,
		RoomCompletesAt: o.clock.Now().Add(firstDuration),
	}

	created, err := o.runRepo.Create(ctx, dungeonrun.CreateInput{Run: run})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "dungeon run started",
		"run_id", run.ID,
		"character_id", run.CharacterID,
		"dungeon_id", run.DungeonID,
		"difficulty", run.Difficulty,
		"rooms", len(run.Rooms))

	return &StartRunOutput{Run: created.Run}, nil
}

func (o *orchestrator) GetRun(ctx context.Context, input *GetRunInput) (*GetRunOutput, error) {
	out, err := o.runRepo.Get(ctx, dungeonrun.GetInput{ID: input.RunID})
	if err != nil {
		return nil, err
	}
	return &GetRunOutput{Run: out.Run}, nil
}

func (o *orchestrator) ListRuns(ctx context.Context, input *ListRunsInput) (*ListRunsOutput, error) {
	out, err := o.runRepo.ListByCharacter(ctx, dungeonrun.ListByCharacterInput{
		CharacterID: input.CharacterID,
	})
	if err != nil {
		return nil, err
	}
	return &ListRunsOutput{Runs: out.Runs}, nil
}

func (o *orchestrator) ResolveRoom(ctx context.Context, input *ResolveRoomInput) (*ResolveRoomOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	runOut, err := o.runRepo.Get(ctx, dungeonrun.GetInput{ID: input.RunID})
	if err != nil {
		return nil, err
	}
	run := runOut.Run

	if run.CharacterID != input.Character.ID {
		return nil, errors.InvalidArgumentf("run %s does not belong to character %s",
			run.ID, input.Character.ID)
	}

	room, err := run.CurrentRoom()
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if now.Before(run.RoomCompletesAt) {
		return nil, errors.FailedPreconditionf("room completes at %s, %s remaining",
			run.RoomCompletesAt.Format(time.RFC3339),
			run.RoomCompletesAt.Sub(now).Round(time.Second))
	}

	resolution, err := o.resolver.Resolve(&encounter.ResolveInput{
		Room:           room,
		Approach:       input.Approach,
		CharacterPower: o.characterPower(input.Character, room, input.Approach),
		Difficulty:     run.Difficulty,
		Tier:           input.Character.Tier(),
		Luck:           input.Character.Luck(),
		Class:          input.Character.Class,
	})
	if err != nil {
		return nil, err
	}
	result := resolution.Result

	output := &ResolveRoomOutput{}

	if result.Success {
		item, pityTriggered, err := o.rollRoomLoot(ctx, input.Character, resolution.LootEligible)
		if err != nil {
			return nil, err
		}
		output.Loot = item
		output.PityTriggered = pityTriggered
		result.LootDropped = item != nil

		card, upgraded, err := o.rollRoomCard(ctx, input.Character, room)
		if err != nil {
			return nil, err
		}
		output.Card = card
		output.CardUpgraded = upgraded
		result.CardDropped = card != nil
	}

	if err := run.RecordRoomResult(result); err != nil {
		return nil, err
	}

	if !run.Terminal() {
		next, err := run.CurrentRoom()
		if err != nil {
			return nil, err
		}
		duration, err := encounter.RoomDuration(next, run.Difficulty)
		if err != nil {
			return nil, err
		}
		run.RoomCompletesAt = now.Add(duration)
	}

	saved, err := o.runRepo.Save(ctx, dungeonrun.SaveInput{Run: run})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "dungeon room resolved",
		"run_id", run.ID,
		"room", run.CurrentRoomIndex-1,
		"success", result.Success,
		"hp_lost", result.HPLost,
		"status", run.Status)

	output.Run = saved.Run
	output.Result = result
	return output, nil
}

func (o *orchestrator) AbandonRun(ctx context.Context, input *AbandonRunInput) (*AbandonRunOutput, error) {
	runOut, err := o.runRepo.Get(ctx, dungeonrun.GetInput{ID: input.RunID})
	if err != nil {
		return nil, err
	}
	run := runOut.Run

	if err := run.Abandon(); err != nil {
		return nil, err
	}

	saved, err := o.runRepo.Save(ctx, dungeonrun.SaveInput{Run: run})
	if err != nil {
		return nil, err
	}

	return &AbandonRunOutput{Run: saved.Run}, nil
}

// characterPower is the effective power brought to a room: the stat
// the approach leads with, with a bonus when the room's class gate
// matches the character's class.
func (o *orchestrator) characterPower(character *entities.CharacterSnapshot, room entities.DungeonRoom, approach entities.RoomApproach) float64 {
	power := float64(character.Stat(approach.PrimaryStat))
	if room.ClassGate != "" && room.ClassGate == character.Class {
		power *= classGateBonus
	}
	return power
}

// rollRoomLoot layers pity over the room's natural loot roll: an
// eligible room always pays out and resets the counter; an ineligible
// one increments it, and a met threshold forces an upgraded drop
// anyway.
func (o *orchestrator) rollRoomLoot(ctx context.Context, character *entities.CharacterSnapshot, eligible bool) (*entities.EquipmentItem, bool, error) {
	counters, err := o.loadCounters(ctx, character.ID)
	if err != nil {
		return nil, false, err
	}

	baseChance := 0.0
	if eligible {
		baseChance = 1.0
	}

	outcome, err := o.tracker.ShouldDrop(&pityengine.ShouldDropInput{
		BaseChance:  baseChance,
		Counters:    counters,
		ContentType: entities.ContentDungeons,
	})
	if err != nil {
		return nil, false, err
	}

	if _, err := o.pityRepo.Save(ctx, pityrepo.SaveInput{
		CharacterID: character.ID,
		Counters:    outcome.Counters,
	}); err != nil {
		return nil, false, err
	}

	if !outcome.Dropped {
		return nil, false, nil
	}

	catalog, err := o.catalog.Load(ctx)
	if err != nil {
		return nil, false, err
	}

	item, err := o.generator.Generate(&lootengine.GenerateInput{
		Tier:        character.Tier(),
		Luck:        character.Luck(),
		MinRarity:   outcome.ForcedMinRarity,
		Class:       character.Class,
		PlayerLevel: character.Level,
		Catalog:     catalog,
	})
	if err != nil {
		return nil, false, err
	}

	return item, outcome.ForcedMinRarity != nil, nil
}

// rollRoomCard rolls a card drop for the room and folds a repeat find
// into the owned copy
func (o *orchestrator) rollRoomCard(ctx context.Context, character *entities.CharacterSnapshot, room entities.DungeonRoom) (*entities.MonsterCard, bool, error) {
	catalog, err := o.catalog.Load(ctx)
	if err != nil {
		return nil, false, err
	}

	dropped, err := o.cardEngine.RollDrop(&cards.RollDropInput{
		Source: entities.CardSourceDungeon,
		Boss:   room.Boss,
		Pool:   catalog.CardsForSource(entities.CardSourceDungeon),
	})
	if err != nil {
		return nil, false, err
	}
	if dropped == nil {
		return nil, false, nil
	}

	owned, err := o.cardRepo.Get(ctx, cardcollection.GetInput{
		CharacterID:  character.ID,
		DefinitionID: dropped.DefinitionID,
	})
	if err != nil && !errors.IsNotFound(err) {
		return nil, false, err
	}

	card := dropped
	upgraded := false
	if owned != nil {
		card = owned.Card
		upgraded, err = o.cardEngine.AbsorbDuplicate(card)
		if err != nil {
			return nil, false, err
		}
	}

	if _, err := o.cardRepo.Upsert(ctx, cardcollection.UpsertInput{
		CharacterID: character.ID,
		Card:        card,
	}); err != nil {
		return nil, false, err
	}

	return card, upgraded, nil
}

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
