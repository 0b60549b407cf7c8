package encounter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/questforge/progression-api/internal/engine/encounter"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/rng"
	rngmock "github.com/questforge/progression-api/internal/pkg/rng/mock"
)

func standardInput() *encounter.ResolveInput {
	return &encounter.ResolveInput{
		Room: entities.DungeonRoom{
			EncounterType:    entities.EncounterCombat,
			PrimaryStat:      entities.StatStrength,
			DifficultyRating: 10,
		},
		Approach: entities.RoomApproach{
			PrimaryStat:   entities.StatStrength,
			PowerModifier: 1.0,
			RiskModifier:  1.0,
		},
		CharacterPower: 10,
		Difficulty:     entities.DifficultyNormal,
		Tier:           2,
		Luck:           10,
	}
}

func TestResolveValidation(t *testing.T) {
	resolver, err := encounter.NewResolver(rng.NewSeeded(1))
	require.NoError(t, err)

	input := standardInput()
	input.Difficulty = "impossible"
	_, err = resolver.Resolve(input)
	assert.True(t, errors.IsInvalidArgument(err))

	input = standardInput()
	input.Room.DifficultyRating = 0
	_, err = resolver.Resolve(input)
	assert.True(t, errors.IsInvalidArgument(err))

	input = standardInput()
	input.Approach.PowerModifier = -0.5
	_, err = resolver.Resolve(input)
	assert.True(t, errors.IsInvalidArgument(err))

	input = standardInput()
	input.Tier = 0
	_, err = resolver.Resolve(input)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestEvenMatchIsACoinFlip(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := rngmock.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.49), // success roll vs 0.50
		src.EXPECT().Float64().Return(0.99), // loot roll misses
	)

	resolver, err := encounter.NewResolver(src)
	require.NoError(t, err)

	// power 10 vs required 10*1.0: chance = 0.5
	res, err := resolver.Resolve(standardInput())
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.SuccessChance, 1e-9)
	assert.True(t, res.Result.Success)
	assert.False(t, res.LootEligible)
	assert.Zero(t, res.Result.HPLost)
	assert.Equal(t, 100, res.Result.ExpEarned)
	assert.Equal(t, 60, res.Result.GoldEarned)
}

func TestUnderpoweredPartyKeepsTheFloor(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := rngmock.NewMockSource(ctrl)
	src.EXPECT().Float64().Return(0.5) // fails vs the 0.05 floor

	resolver, err := encounter.NewResolver(src)
	require.NoError(t, err)

	input := standardInput()
	input.Difficulty = entities.DifficultyMythic
	input.CharacterPower = 1 // ratio 1/40

	res, err := resolver.Resolve(input)
	require.NoError(t, err)

	assert.InDelta(t, 0.05, res.SuccessChance, 1e-9)
	assert.False(t, res.Result.Success)
}

func TestOverpoweredPartyIsCapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := rngmock.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.94), // success vs 0.95 cap
		src.EXPECT().Float64().Return(0.99), // loot roll misses
	)

	resolver, err := encounter.NewResolver(src)
	require.NoError(t, err)

	input := standardInput()
	input.CharacterPower = 1000

	res, err := resolver.Resolve(input)
	require.NoError(t, err)

	assert.InDelta(t, 0.95, res.SuccessChance, 1e-9)
	assert.True(t, res.Result.Success)
}

func TestFailureDamageBounds(t *testing.T) {
	resolver, err := encounter.NewResolver(rng.NewSeeded(77))
	require.NoError(t, err)

	input := standardInput()
	input.CharacterPower = 0 // floor chance only
	input.Approach.RiskModifier = 1.5
	input.Difficulty = entities.DifficultyHard

	sawFailure := false
	for i := 0; i < 300; i++ {
		res, rerr := resolver.Resolve(input)
		require.NoError(t, rerr)
		if res.Result.Success {
			continue
		}
		sawFailure = true

		// 2d6+10 in [12,22], x1.5 difficulty x1.5 risk = [27, 50]
		assert.GreaterOrEqual(t, res.Result.HPLost, 27)
		assert.LessOrEqual(t, res.Result.HPLost, 50)
		assert.Equal(t, 20, res.Result.ExpEarned, "failures still earn scraps of exp")
		assert.Zero(t, res.Result.GoldEarned)
	}
	require.True(t, sawFailure)
}

func TestPaladinHalvesDamage(t *testing.T) {
	resolver, err := encounter.NewResolver(rng.NewSeeded(78))
	require.NoError(t, err)

	input := standardInput()
	input.CharacterPower = 0
	input.Class = entities.ClassPaladin

	for i := 0; i < 300; i++ {
		res, rerr := resolver.Resolve(input)
		require.NoError(t, rerr)
		if res.Result.Success {
			continue
		}
		// 2d6+10 in [12,22], halved = [6,11]
		assert.GreaterOrEqual(t, res.Result.HPLost, 6)
		assert.LessOrEqual(t, res.Result.HPLost, 11)
	}
}

func TestBossRoomsPayDouble(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := rngmock.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.0),  // success
		src.EXPECT().Float64().Return(0.99), // loot roll misses
	)

	resolver, err := encounter.NewResolver(src)
	require.NoError(t, err)

	input := standardInput()
	input.Room.Boss = true

	res, err := resolver.Resolve(input)
	require.NoError(t, err)

	assert.Equal(t, 200, res.Result.ExpEarned)
	assert.Equal(t, 120, res.Result.GoldEarned)
}

func TestLootChanceIsCappedByDifficulty(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := rngmock.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.0),  // success
		src.EXPECT().Float64().Return(0.34), // loot roll vs capped 0.35
	)

	resolver, err := encounter.NewResolver(src)
	require.NoError(t, err)

	// raw chance 0.10 + 10*0.03 + 100*0.003 + 0.2 = 0.9, capped to 0.35
	input := standardInput()
	input.Tier = 10
	input.Luck = 100
	input.Room.BonusLootChance = 0.2

	res, err := resolver.Resolve(input)
	require.NoError(t, err)

	assert.True(t, res.Result.Success)
	assert.True(t, res.LootEligible)
}

func TestRoomDuration(t *testing.T) {
	room := entities.DungeonRoom{DifficultyRating: 5}

	d, err := encounter.RoomDuration(room, entities.DifficultyMythic)
	require.NoError(t, err)
	assert.Equal(t, "3m0s", d.String())

	room.Duration = 42 * time.Second
	d, err = encounter.RoomDuration(room, entities.DifficultyMythic)
	require.NoError(t, err)
	assert.Equal(t, "42s", d.String())

	_, err = encounter.RoomDuration(entities.DungeonRoom{}, "unknown")
	assert.Error(t, err)
}
