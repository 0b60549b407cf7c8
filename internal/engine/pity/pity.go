// Package pity implements bad-luck protection: per-character,
// per-content-type dry-run counters that force an upgraded drop once a
// streak reaches the content type's threshold.
//
// State is explicit: callers pass counters in and persist the returned
// counters. There are no package-level singletons, so the guarantee is
// testable with a substituted randomness source.
package pity

import (
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/errors"
	"github.com/questforge/progression-api/internal/pkg/rng"
)

// Dry-run thresholds per content type
var thresholds = map[entities.ContentType]int{
	entities.ContentTasks:       20,
	entities.ContentDungeons:    12,
	entities.ContentMissions:    5,
	entities.ContentExpeditions: 3,
}

// Minimum rarity a threshold-forced drop carries
var forcedMinRarities = map[entities.ContentType]entities.Rarity{
	entities.ContentTasks:       entities.RarityUncommon,
	entities.ContentDungeons:    entities.RarityRare,
	entities.ContentMissions:    entities.RarityRare,
	entities.ContentExpeditions: entities.RarityEpic,
}

// Luck contribution to the drop chance per point
const luckDropWeight = 0.003

// Threshold returns the dry-run threshold for a content type
func Threshold(contentType entities.ContentType) (int, bool) {
	t, ok := thresholds[contentType]
	return t, ok
}

// ForcedMinRarity returns the rarity floor a pity-forced drop carries
func ForcedMinRarity(contentType entities.ContentType) (entities.Rarity, bool) {
	r, ok := forcedMinRarities[contentType]
	return r, ok
}

// Tracker evaluates drop rolls under pity protection
type Tracker struct {
	rng rng.Source
}

// NewTracker creates a tracker with the given randomness source
func NewTracker(src rng.Source) (*Tracker, error) {
	if src == nil {
		return nil, errors.InvalidArgument("rng source is required")
	}
	return &Tracker{rng: src}, nil
}

// ShouldDropInput parameterizes one protected drop roll
type ShouldDropInput struct {
	BaseChance  float64
	Luck        int
	Counters    entities.PityCounters
	ContentType entities.ContentType
}

// Outcome reports the roll result plus the updated counters the caller
// must persist.
type Outcome struct {
	Dropped bool

	// ForcedMinRarity is non-nil only when the threshold forced the
	// drop; the loot generator raises the rolled rarity to it.
	ForcedMinRarity *entities.Rarity

	// Counters is the post-roll counter state
	Counters entities.PityCounters
}

// ShouldDrop resolves one drop roll:
//
//  1. At or past the threshold the drop is forced, the counter resets,
//     and the content type's minimum rarity applies.
//  2. Otherwise a plain luck-adjusted probability roll; success resets
//     the counter.
//  3. A miss increments the counter by exactly one.
//
// A counter therefore never exceeds its threshold by more than one dry
// run: the call that reads a met threshold always resets it.
func (t *Tracker) ShouldDrop(input *ShouldDropInput) (*Outcome, error) {
	if !input.ContentType.Valid() {
		return nil, errors.InvalidArgumentf("unknown content type %q", input.ContentType)
	}

	counters := input.Counters.Clone()
	threshold := thresholds[input.ContentType]

	if counters[input.ContentType] >= threshold {
		counters[input.ContentType] = 0
		forced := forcedMinRarities[input.ContentType]
		return &Outcome{
			Dropped:         true,
			ForcedMinRarity: &forced,
			Counters:        counters,
		}, nil
	}

	chance := input.BaseChance + float64(input.Luck)*luckDropWeight
	if rng.Chance(t.rng, chance) {
		counters[input.ContentType] = 0
		return &Outcome{
			Dropped:  true,
			Counters: counters,
		}, nil
	}

	counters[input.ContentType]++
	return &Outcome{
		Dropped:  false,
		Counters: counters,
	}, nil
}
