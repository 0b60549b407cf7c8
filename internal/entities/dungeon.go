package entities

import (
	"time"

	"github.com/questforge/progression-api/internal/errors"
)

// EncounterType classifies what a room throws at the party
type EncounterType string

// Encounter types
const (
	EncounterCombat   EncounterType = "combat"
	EncounterPuzzle   EncounterType = "puzzle"
	EncounterTrap     EncounterType = "trap"
	EncounterTreasure EncounterType = "treasure"
	EncounterBoss     EncounterType = "boss"
)

// Difficulty is the dungeon-wide difficulty tier. The per-tier
// scalars live in the encounter engine; entities only carry the label.
type Difficulty string

// Difficulty tiers
const (
	DifficultyNormal    Difficulty = "normal"
	DifficultyHard      Difficulty = "hard"
	DifficultyNightmare Difficulty = "nightmare"
	DifficultyMythic    Difficulty = "mythic"
)

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyNormal, DifficultyHard, DifficultyNightmare, DifficultyMythic:
		return true
	}
	return false
}

// DungeonRoom is one encounter in a run
type DungeonRoom struct {
	EncounterType    EncounterType
	PrimaryStat      StatType
	DifficultyRating int
	Boss             bool
	BonusLootChance  float64

	// ClassGate, when set, names the class that gets the room's
	// favored-class power bonus
	ClassGate CharacterClass

	// Duration overrides the difficulty's default room timer when > 0
	Duration time.Duration
}

// RoomApproach is the strategic choice the player makes per room:
// which stat to lead with, trading power against risk.
type RoomApproach struct {
	PrimaryStat   StatType
	PowerModifier float64
	RiskModifier  float64
}

// RoomResult records one resolved room
type RoomResult struct {
	EncounterType EncounterType
	Success       bool
	PlayerPower   float64
	RequiredPower float64
	ExpEarned     int
	GoldEarned    int
	HPLost        int
	LootDropped   bool
	CardDropped   bool
}

// RunStatus is the dungeon run lifecycle state
type RunStatus string

// Run states; all but InProgress are terminal
const (
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
	RunAbandoned  RunStatus = "abandoned"
)

// DungeonRun is the mutable aggregate for one character's trip through
// a dungeon. Invariant: CurrentRoomIndex == len(RoomResults); status
// turns terminal exactly when the index reaches TotalRooms (Completed)
// or HP hits zero (Failed).
type DungeonRun struct {
	ID          string
	CharacterID string
	DungeonID   string
	Difficulty  Difficulty

	Rooms            []DungeonRoom
	CurrentRoomIndex int
	RoomResults      []RoomResult

	CurrentHP int
	MaxHP     int
	TotalExp  int
	TotalGold int

	Status RunStatus

	// RoomCompletesAt is when the current room's AFK timer elapses;
	// resolution before this instant is rejected. The run never
	// self-advances, an external driver polls.
	RoomCompletesAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalRooms is the number of rooms in the dungeon
func (r *DungeonRun) TotalRooms() int {
	return len(r.Rooms)
}

// Terminal reports whether the run has reached a final state
func (r *DungeonRun) Terminal() bool {
	return r.Status != RunInProgress
}

// CurrentRoom returns the room awaiting resolution
func (r *DungeonRun) CurrentRoom() (DungeonRoom, error) {
	if r.Terminal() {
		return DungeonRoom{}, errors.FailedPreconditionf("run %s is %s", r.ID, r.Status)
	}
	if r.CurrentRoomIndex >= len(r.Rooms) {
		return DungeonRoom{}, errors.Internalf("run %s index %d out of %d rooms", r.ID, r.CurrentRoomIndex, len(r.Rooms))
	}
	return r.Rooms[r.CurrentRoomIndex], nil
}

// RecordRoomResult appends a resolved room and advances the run,
// applying HP loss and reward accumulation. HP reaching zero fails the
// run immediately regardless of remaining rooms; otherwise recording
// the final room completes it.
func (r *DungeonRun) RecordRoomResult(result RoomResult) error {
	if r.Terminal() {
		return errors.FailedPreconditionf("run %s is %s", r.ID, r.Status)
	}
	if r.CurrentRoomIndex != len(r.RoomResults) {
		return errors.Internalf("run %s room index %d does not match %d recorded results",
			r.ID, r.CurrentRoomIndex, len(r.RoomResults))
	}

	r.RoomResults = append(r.RoomResults, result)
	r.CurrentRoomIndex++

	r.CurrentHP -= result.HPLost
	if r.CurrentHP < 0 {
		r.CurrentHP = 0
	}
	r.TotalExp += result.ExpEarned
	r.TotalGold += result.GoldEarned

	switch {
	case r.CurrentHP <= 0:
		r.Status = RunFailed
	case r.CurrentRoomIndex >= len(r.Rooms):
		r.Status = RunCompleted
	}

	return nil
}

// Abandon marks the run abandoned. Legal only from InProgress.
func (r *DungeonRun) Abandon() error {
	if r.Terminal() {
		return errors.FailedPreconditionf("run %s is already %s", r.ID, r.Status)
	}
	r.Status = RunAbandoned
	return nil
}
