package dungeon_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/questforge/progression-api/internal/content"
	"github.com/questforge/progression-api/internal/engine/cards"
	"github.com/questforge/progression-api/internal/engine/encounter"
	lootengine "github.com/questforge/progression-api/internal/engine/loot"
	pityengine "github.com/questforge/progression-api/internal/engine/pity"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/orchestrators/dungeon"
	"github.com/questforge/progression-api/internal/pkg/clock"
	"github.com/questforge/progression-api/internal/pkg/idgen"
	"github.com/questforge/progression-api/internal/pkg/rng"
	rngmock "github.com/questforge/progression-api/internal/pkg/rng/mock"
	"github.com/questforge/progression-api/internal/repositories/cardcollection"
	cardcollectionmock "github.com/questforge/progression-api/internal/repositories/cardcollection/mock"
	"github.com/questforge/progression-api/internal/repositories/dungeonrun"
	dungeonrunmock "github.com/questforge/progression-api/internal/repositories/dungeonrun/mock"
	pityrepo "github.com/questforge/progression-api/internal/repositories/pity"
	pitymock "github.com/questforge/progression-api/internal/repositories/pity/mock"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	runRepo     *dungeonrunmock.MockRepository
	cardRepo    *cardcollectionmock.MockRepository
	pityRepo    *pitymock.MockRepository
	resolverRNG *rngmock.MockSource
	cardRNG     *rngmock.MockSource
	clock       *clock.Fixed
	service     dungeon.Service
	ctx         context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.runRepo = dungeonrunmock.NewMockRepository(s.ctrl)
	s.cardRepo = cardcollectionmock.NewMockRepository(s.ctrl)
	s.pityRepo = pitymock.NewMockRepository(s.ctrl)
	s.resolverRNG = rngmock.NewMockSource(s.ctrl)
	s.cardRNG = rngmock.NewMockSource(s.ctrl)
	s.clock = clock.NewFixed(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	resolver, err := encounter.NewResolver(s.resolverRNG)
	s.Require().NoError(err)

	generator, err := lootengine.NewGenerator(&lootengine.GeneratorConfig{
		RNG:   rng.NewSeeded(42),
		IDGen: idgen.NewSequential("item"),
	})
	s.Require().NoError(err)

	cardEngine, err := cards.NewEngine(&cards.Config{
		RNG:   s.cardRNG,
		IDGen: idgen.NewSequential("card"),
	})
	s.Require().NoError(err)

	tracker, err := pityengine.NewTracker(rng.NewSeeded(7))
	s.Require().NoError(err)

	catalog, err := content.NewRemoteSource(func(_ context.Context) (*content.Catalog, error) {
		c := content.Empty()
		c.Cards = []content.CardDefinition{
			{ID: "cave_bat", Name: "Cave Bat", Rarity: entities.RarityCommon, BonusType: "exp_percent", BaseBonusValue: 1.0},
			{ID: "bone_golem", Name: "Bone Golem", Rarity: entities.RarityRare, BonusType: "gold_percent", BaseBonusValue: 2.0},
		}
		return c, nil
	})
	s.Require().NoError(err)

	s.service, err = dungeon.NewOrchestrator(&dungeon.Config{
		RunRepo:    s.runRepo,
		CardRepo:   s.cardRepo,
		PityRepo:   s.pityRepo,
		Resolver:   resolver,
		Generator:  generator,
		CardEngine: cardEngine,
		Tracker:    tracker,
		Catalog:    catalog,
		Clock:      s.clock,
		IDGen:      idgen.NewSequential("run"),
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) character() *entities.CharacterSnapshot {
	return &entities.CharacterSnapshot{
		ID:    "char-1",
		Level: 25,
		Class: "warrior",
		Stats: map[entities.StatType]int{
			entities.StatStrength: 30,
			entities.StatLuck:     10,
		},
	}
}

func (s *OrchestratorTestSuite) rooms(n int) []entities.DungeonRoom {
	rooms := make([]entities.DungeonRoom, n)
	for i := range rooms {
		rooms[i] = entities.DungeonRoom{
			EncounterType:    entities.EncounterCombat,
			PrimaryStat:      entities.StatStrength,
			DifficultyRating: 10,
		}
	}
	return rooms
}

func (s *OrchestratorTestSuite) inProgressRun(roomCount int) *entities.DungeonRun {
	return &entities.DungeonRun{
		ID:              "run-1",
		CharacterID:     "char-1",
		DungeonID:       "crypt",
		Difficulty:      entities.DifficultyNormal,
		Rooms:           s.rooms(roomCount),
		CurrentHP:       50,
		MaxHP:           50,
		Status:          entities.RunInProgress,
		RoomCompletesAt: s.clock.Now(),
	}
}

func (s *OrchestratorTestSuite) approach() entities.RoomApproach {
	return entities.RoomApproach{
		PrimaryStat:   entities.StatStrength,
		PowerModifier: 1.0,
		RiskModifier:  1.0,
	}
}

func (s *OrchestratorTestSuite) TestStartRunArmsFirstRoomTimer() {
	s.runRepo.EXPECT().
		ListByCharacter(gomock.Any(), dungeonrun.ListByCharacterInput{CharacterID: "char-1"}).
		Return(&dungeonrun.ListByCharacterOutput{}, nil)

	var created *entities.DungeonRun
	s.runRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.CreateInput) (*dungeonrun.CreateOutput, error) {
			created = input.Run
			return &dungeonrun.CreateOutput{Run: input.Run}, nil
		})

	out, err := s.service.StartRun(s.ctx, &dungeon.StartRunInput{
		Character:  s.character(),
		DungeonID:  "crypt",
		Difficulty: entities.DifficultyNormal,
		Rooms:      s.rooms(3),
		MaxHP:      50,
	})
	s.Require().NoError(err)

	s.Equal(entities.RunInProgress, out.Run.Status)
	s.Equal(50, created.CurrentHP)
	s.Equal(0, created.CurrentRoomIndex)
	s.Equal(s.clock.Now().Add(time.Minute), created.RoomCompletesAt)
}

func (s *OrchestratorTestSuite) TestStartRunRejectsConcurrentRun() {
	s.runRepo.EXPECT().
		ListByCharacter(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.ListByCharacterOutput{
			Runs: []*entities.DungeonRun{s.inProgressRun(2)},
		}, nil)

	_, err := s.service.StartRun(s.ctx, &dungeon.StartRunInput{
		Character:  s.character(),
		DungeonID:  "crypt",
		Difficulty: entities.DifficultyNormal,
		Rooms:      s.rooms(3),
		MaxHP:      50,
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestStartRunValidation() {
	_, err := s.service.StartRun(s.ctx, &dungeon.StartRunInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.StartRun(s.ctx, &dungeon.StartRunInput{
		Character:  s.character(),
		DungeonID:  "crypt",
		Difficulty: "brutal",
		Rooms:      s.rooms(3),
		MaxHP:      50,
	})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.service.StartRun(s.ctx, &dungeon.StartRunInput{
		Character:  s.character(),
		DungeonID:  "crypt",
		Difficulty: entities.DifficultyNormal,
		MaxHP:      50,
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestResolveRoomBeforeTimerIsRejected() {
	run := s.inProgressRun(2)
	run.RoomCompletesAt = s.clock.Now().Add(30 * time.Second)

	s.runRepo.EXPECT().
		Get(gomock.Any(), dungeonrun.GetInput{ID: "run-1"}).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	_, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: s.character(),
		Approach:  s.approach(),
	})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestResolveRoomWrongCharacter() {
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: s.inProgressRun(2)}, nil)

	other := s.character()
	other.ID = "char-2"
	_, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: other,
		Approach:  s.approach(),
	})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestResolveRoomSuccessAdvancesRun() {
	run := s.inProgressRun(2)
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	gomock.InOrder(
		s.resolverRNG.EXPECT().Float64().Return(0.0),  // success
		s.resolverRNG.EXPECT().Float64().Return(0.99), // loot roll misses 0.22
	)
	s.cardRNG.EXPECT().Float64().Return(0.99) // card roll misses 0.10

	s.pityRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("no counters"))
	s.pityRepo.EXPECT().
		Save(gomock.Any(), pityrepo.SaveInput{
			CharacterID: "char-1",
			Counters:    entities.PityCounters{entities.ContentDungeons: 1},
		}).
		Return(&pityrepo.SaveOutput{}, nil)

	var saved *entities.DungeonRun
	s.runRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.SaveInput) (*dungeonrun.SaveOutput, error) {
			saved = input.Run
			return &dungeonrun.SaveOutput{Run: input.Run}, nil
		})

	out, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: s.character(),
		Approach:  s.approach(),
	})
	s.Require().NoError(err)

	s.True(out.Result.Success)
	s.Nil(out.Loot)
	s.Nil(out.Card)
	s.Equal(1, saved.CurrentRoomIndex)
	s.Equal(entities.RunInProgress, saved.Status)
	s.Equal(s.clock.Now().Add(time.Minute), saved.RoomCompletesAt, "the next room's timer is armed")
	s.Equal(100, saved.TotalExp)
	s.Equal(60, saved.TotalGold)
}

func (s *OrchestratorTestSuite) TestResolveFinalRoomCompletesRun() {
	run := s.inProgressRun(1)
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	gomock.InOrder(
		s.resolverRNG.EXPECT().Float64().Return(0.0),
		s.resolverRNG.EXPECT().Float64().Return(0.99),
	)
	s.cardRNG.EXPECT().Float64().Return(0.99)

	s.pityRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.NotFound("no counters"))
	s.pityRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(&pityrepo.SaveOutput{}, nil)

	var saved *entities.DungeonRun
	s.runRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.SaveInput) (*dungeonrun.SaveOutput, error) {
			saved = input.Run
			return &dungeonrun.SaveOutput{Run: input.Run}, nil
		})

	out, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: s.character(),
		Approach:  s.approach(),
	})
	s.Require().NoError(err)

	s.Equal(entities.RunCompleted, saved.Status)
	s.Equal(entities.RunCompleted, out.Run.Status)
}

func (s *OrchestratorTestSuite) TestLethalRoomFailsRun() {
	run := s.inProgressRun(3)
	run.CurrentHP = 5
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	s.resolverRNG.EXPECT().Float64().Return(0.999) // fails vs 0.95 cap

	var saved *entities.DungeonRun
	s.runRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.SaveInput) (*dungeonrun.SaveOutput, error) {
			saved = input.Run
			return &dungeonrun.SaveOutput{Run: input.Run}, nil
		})

	out, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: s.character(),
		Approach:  s.approach(),
	})
	s.Require().NoError(err)

	s.False(out.Result.Success)
	s.Nil(out.Loot, "failed rooms never pay out")
	s.Equal(0, saved.CurrentHP)
	s.Equal(entities.RunFailed, saved.Status)
}

func (s *OrchestratorTestSuite) TestPityStreakForcesLootDespiteMissedRoll() {
	run := s.inProgressRun(2)
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	gomock.InOrder(
		s.resolverRNG.EXPECT().Float64().Return(0.0),  // success
		s.resolverRNG.EXPECT().Float64().Return(0.99), // natural loot roll misses
	)
	s.cardRNG.EXPECT().Float64().Return(0.99)

	s.pityRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&pityrepo.GetOutput{Counters: entities.PityCounters{
			entities.ContentDungeons: 12,
		}}, nil)

	var savedCounters entities.PityCounters
	s.pityRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input pityrepo.SaveInput) (*pityrepo.SaveOutput, error) {
			savedCounters = input.Counters
			return &pityrepo.SaveOutput{}, nil
		})

	s.runRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.SaveInput) (*dungeonrun.SaveOutput, error) {
			return &dungeonrun.SaveOutput{Run: input.Run}, nil
		})

	out, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: s.character(),
		Approach:  s.approach(),
	})
	s.Require().NoError(err)

	s.Require().NotNil(out.Loot)
	s.True(out.PityTriggered)
	s.GreaterOrEqual(int(out.Loot.Rarity), int(entities.RarityRare))
	s.Equal(0, savedCounters[entities.ContentDungeons])
	s.True(out.Result.LootDropped)
}

func (s *OrchestratorTestSuite) TestDuplicateCardIsAbsorbed() {
	run := s.inProgressRun(2)
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	gomock.InOrder(
		s.resolverRNG.EXPECT().Float64().Return(0.0),  // success
		s.resolverRNG.EXPECT().Float64().Return(0.99), // loot roll misses
	)
	gomock.InOrder(
		s.cardRNG.EXPECT().Float64().Return(0.05), // card drop hits 0.10
		s.cardRNG.EXPECT().Float64().Return(0.0),  // weighted pick: cave_bat
	)

	s.pityRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.NotFound("no counters"))
	s.pityRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(&pityrepo.SaveOutput{}, nil)

	s.cardRepo.EXPECT().
		Get(gomock.Any(), cardcollection.GetInput{CharacterID: "char-1", DefinitionID: "cave_bat"}).
		Return(&cardcollection.GetOutput{Card: &entities.MonsterCard{
			ID:             "card-1",
			DefinitionID:   "cave_bat",
			Rarity:         entities.RarityCommon,
			BaseBonusValue: 1.0,
			BonusValue:     1.5,
			DuplicateCount: 2,
		}}, nil)

	var upserted *entities.MonsterCard
	s.cardRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input cardcollection.UpsertInput) (*cardcollection.UpsertOutput, error) {
			upserted = input.Card
			return &cardcollection.UpsertOutput{Card: input.Card}, nil
		})

	s.runRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.SaveInput) (*dungeonrun.SaveOutput, error) {
			return &dungeonrun.SaveOutput{Run: input.Run}, nil
		})

	out, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: s.character(),
		Approach:  s.approach(),
	})
	s.Require().NoError(err)

	s.Require().NotNil(out.Card)
	s.True(out.CardUpgraded, "the third duplicate crosses the first milestone")
	s.Equal(3, upserted.DuplicateCount)
	s.Equal(entities.RarityUncommon, upserted.Rarity)
	s.Equal("card-1", upserted.ID, "a duplicate never creates a second card")
	s.True(out.Result.CardDropped)
}

func (s *OrchestratorTestSuite) TestNewCardIsAddedToCollection() {
	run := s.inProgressRun(2)
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	gomock.InOrder(
		s.resolverRNG.EXPECT().Float64().Return(0.0),
		s.resolverRNG.EXPECT().Float64().Return(0.99),
	)
	gomock.InOrder(
		s.cardRNG.EXPECT().Float64().Return(0.05),
		s.cardRNG.EXPECT().Float64().Return(0.0),
	)

	s.pityRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.NotFound("no counters"))
	s.pityRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(&pityrepo.SaveOutput{}, nil)

	s.cardRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("not owned"))

	var upserted *entities.MonsterCard
	s.cardRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input cardcollection.UpsertInput) (*cardcollection.UpsertOutput, error) {
			upserted = input.Card
			return &cardcollection.UpsertOutput{Card: input.Card}, nil
		})

	s.runRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.SaveInput) (*dungeonrun.SaveOutput, error) {
			return &dungeonrun.SaveOutput{Run: input.Run}, nil
		})

	out, err := s.service.ResolveRoom(s.ctx, &dungeon.ResolveRoomInput{
		RunID:     "run-1",
		Character: s.character(),
		Approach:  s.approach(),
	})
	s.Require().NoError(err)

	s.Require().NotNil(out.Card)
	s.False(out.CardUpgraded)
	s.Equal("cave_bat", upserted.DefinitionID)
	s.Zero(upserted.DuplicateCount)
}

func (s *OrchestratorTestSuite) TestAbandonRun() {
	run := s.inProgressRun(2)
	s.runRepo.EXPECT().
		Get(gomock.Any(), dungeonrun.GetInput{ID: "run-1"}).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	s.runRepo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input dungeonrun.SaveInput) (*dungeonrun.SaveOutput, error) {
			return &dungeonrun.SaveOutput{Run: input.Run}, nil
		})

	out, err := s.service.AbandonRun(s.ctx, &dungeon.AbandonRunInput{RunID: "run-1"})
	s.Require().NoError(err)
	s.Equal(entities.RunAbandoned, out.Run.Status)
}

func (s *OrchestratorTestSuite) TestAbandonTerminalRunIsRejected() {
	run := s.inProgressRun(2)
	run.Status = entities.RunCompleted
	s.runRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	_, err := s.service.AbandonRun(s.ctx, &dungeon.AbandonRunInput{RunID: "run-1"})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestGetRun() {
	run := s.inProgressRun(2)
	s.runRepo.EXPECT().
		Get(gomock.Any(), dungeonrun.GetInput{ID: "run-1"}).
		Return(&dungeonrun.GetOutput{Run: run}, nil)

	out, err := s.service.GetRun(s.ctx, &dungeon.GetRunInput{RunID: "run-1"})
	s.Require().NoError(err)
	s.Equal("run-1", out.Run.ID)
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
