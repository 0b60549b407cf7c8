package encounter

import (
	"time"

	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
)

// Params are the per-difficulty scalars governing an entire run:
// threshold scaling, failure damage, the success-chance floor that
// keeps underpowered parties viable, the loot-chance ceiling, and the
// default AFK timer per room.
type Params struct {
	Scalar           float64
	DamageMultiplier float64
	SuccessFloor     float64
	LootCeiling      float64
	RoomDuration     time.Duration
}

var difficultyParams = map[entities.Difficulty]Params{
	entities.DifficultyNormal: {
		Scalar:           1.0,
		DamageMultiplier: 1.0,
		SuccessFloor:     0.25,
		LootCeiling:      0.35,
		RoomDuration:     60 * time.Second,
	},
	entities.DifficultyHard: {
		Scalar:           1.8,
		DamageMultiplier: 1.5,
		SuccessFloor:     0.15,
		LootCeiling:      0.45,
		RoomDuration:     90 * time.Second,
	},
	entities.DifficultyNightmare: {
		Scalar:           2.6,
		DamageMultiplier: 2.0,
		SuccessFloor:     0.10,
		LootCeiling:      0.55,
		RoomDuration:     120 * time.Second,
	},
	entities.DifficultyMythic: {
		Scalar:           4.0,
		DamageMultiplier: 3.0,
		SuccessFloor:     0.05,
		LootCeiling:      0.65,
		RoomDuration:     180 * time.Second,
	},
}

// DifficultyParams returns the scalars for a difficulty tier
func DifficultyParams(d entities.Difficulty) (Params, error) {
	params, ok := difficultyParams[d]
	if !ok {
		return Params{}, errors.InvalidArgumentf("unknown difficulty %q", d)
	}
	return params, nil
}

// RoomDuration returns the AFK timer for a room: its own duration when
// set, the difficulty default otherwise.
func RoomDuration(room entities.DungeonRoom, d entities.Difficulty) (time.Duration, error) {
	if room.Duration > 0 {
		return room.Duration, nil
	}
	params, err := DifficultyParams(d)
	if err != nil {
		return 0, err
	}
	return params.RoomDuration, nil
}
