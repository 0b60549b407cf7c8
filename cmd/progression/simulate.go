package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/questforge/progression-api/internal/engine/encounter"
	lootengine "github.com/questforge/progression-api/internal/engine/loot"
	pityengine "github.com/questforge/progression-api/internal/engine/pity"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/pkg/rng"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Monte-Carlo simulations of the drop and encounter math",
}

var (
	simSeed  uint64
	simRolls int

	rarityTier int
	rarityLuck int

	pityChance  float64
	pityLuck    int
	pityContent string

	dungeonDifficulty string
	dungeonRooms      int
	dungeonRating     int
	dungeonPower      float64
	dungeonRuns       int
)

var simulateRarityCmd = &cobra.Command{
	Use:   "rarity",
	Short: "Estimate the rarity distribution for a tier/luck combination",
	RunE:  runSimulateRarity,
}

var simulatePityCmd = &cobra.Command{
	Use:   "pity",
	Short: "Estimate drop rates and dry streaks under pity protection",
	RunE:  runSimulatePity,
}

var simulateDungeonCmd = &cobra.Command{
	Use:   "dungeon",
	Short: "Estimate run outcomes for a dungeon shape",
	RunE:  runSimulateDungeon,
}

func init() {
	simulateCmd.PersistentFlags().Uint64Var(&simSeed, "seed", 0, "RNG seed (0 uses crypto randomness)")
	simulateCmd.PersistentFlags().IntVar(&simRolls, "rolls", 100000, "number of rolls")

	simulateRarityCmd.Flags().IntVar(&rarityTier, "tier", 1, "character tier")
	simulateRarityCmd.Flags().IntVar(&rarityLuck, "luck", 0, "luck stat")

	simulatePityCmd.Flags().Float64Var(&pityChance, "chance", 0.10, "base drop chance")
	simulatePityCmd.Flags().IntVar(&pityLuck, "luck", 0, "luck stat")
	simulatePityCmd.Flags().StringVar(&pityContent, "content", "dungeons", "content type (tasks, dungeons, missions, expeditions)")

	simulateDungeonCmd.Flags().StringVar(&dungeonDifficulty, "difficulty", "normal", "difficulty tier")
	simulateDungeonCmd.Flags().IntVar(&dungeonRooms, "rooms", 5, "rooms per run")
	simulateDungeonCmd.Flags().IntVar(&dungeonRating, "rating", 10, "room difficulty rating")
	simulateDungeonCmd.Flags().Float64Var(&dungeonPower, "power", 10, "character power")
	simulateDungeonCmd.Flags().IntVar(&dungeonRuns, "runs", 10000, "number of simulated runs")

	simulateCmd.AddCommand(simulateRarityCmd)
	simulateCmd.AddCommand(simulatePityCmd)
	simulateCmd.AddCommand(simulateDungeonCmd)
}

func simSource() rng.Source {
	if simSeed == 0 {
		return rng.Default()
	}
	return rng.NewSeeded(simSeed)
}

func runSimulateRarity(cmd *cobra.Command, args []string) error {
	roller, err := lootengine.NewRoller(simSource())
	if err != nil {
		return err
	}

	counts := map[entities.Rarity]int{}
	for i := 0; i < simRolls; i++ {
		rarity, err := roller.RollRarity(rarityTier, rarityLuck)
		if err != nil {
			return err
		}
		counts[rarity]++
	}

	fmt.Printf("tier %d, luck %d, %d rolls\n", rarityTier, rarityLuck, simRolls)
	for _, r := range []entities.Rarity{
		entities.RarityCommon,
		entities.RarityUncommon,
		entities.RarityRare,
		entities.RarityEpic,
		entities.RarityLegendary,
	} {
		fmt.Printf("  %-10s %8.4f%%\n", r, 100*float64(counts[r])/float64(simRolls))
	}
	return nil
}

func runSimulatePity(cmd *cobra.Command, args []string) error {
	contentType := entities.ContentType(pityContent)
	threshold, ok := pityengine.Threshold(contentType)
	if !ok {
		return fmt.Errorf("unknown content type %q", pityContent)
	}

	tracker, err := pityengine.NewTracker(simSource())
	if err != nil {
		return err
	}

	counters := entities.PityCounters{}
	drops, forced, maxStreak, streak := 0, 0, 0, 0
	for i := 0; i < simRolls; i++ {
		outcome, err := tracker.ShouldDrop(&pityengine.ShouldDropInput{
			BaseChance:  pityChance,
			Luck:        pityLuck,
			Counters:    counters,
			ContentType: contentType,
		})
		if err != nil {
			return err
		}
		counters = outcome.Counters

		if outcome.Dropped {
			drops++
			if outcome.ForcedMinRarity != nil {
				forced++
			}
			streak = 0
			continue
		}
		streak++
		if streak > maxStreak {
			maxStreak = streak
		}
	}

	fmt.Printf("%s (threshold %d), base chance %.2f, luck %d, %d rolls\n",
		contentType, threshold, pityChance, pityLuck, simRolls)
	fmt.Printf("  drop rate     %.4f%%\n", 100*float64(drops)/float64(simRolls))
	fmt.Printf("  forced drops  %d\n", forced)
	fmt.Printf("  longest dry streak %d\n", maxStreak)
	return nil
}

func runSimulateDungeon(cmd *cobra.Command, args []string) error {
	difficulty := entities.Difficulty(dungeonDifficulty)
	if !difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", dungeonDifficulty)
	}

	resolver, err := encounter.NewResolver(simSource())
	if err != nil {
		return err
	}

	room := entities.DungeonRoom{
		EncounterType:    entities.EncounterCombat,
		PrimaryStat:      entities.StatStrength,
		DifficultyRating: dungeonRating,
	}
	approach := entities.RoomApproach{
		PrimaryStat:   entities.StatStrength,
		PowerModifier: 1.0,
		RiskModifier:  1.0,
	}

	completed, failed := 0, 0
	totalRoomsCleared, totalExp := 0, 0
	const maxHP = 100

	for i := 0; i < dungeonRuns; i++ {
		hp := maxHP
		cleared := 0
		for r := 0; r < dungeonRooms; r++ {
			res, err := resolver.Resolve(&encounter.ResolveInput{
				Room:           room,
				Approach:       approach,
				CharacterPower: dungeonPower,
				Difficulty:     difficulty,
				Tier:           1,
			})
			if err != nil {
				return err
			}
			totalExp += res.Result.ExpEarned
			hp -= res.Result.HPLost
			if hp <= 0 {
				break
			}
			if res.Result.Success {
				cleared++
			}
		}
		totalRoomsCleared += cleared
		if hp <= 0 {
			failed++
		} else {
			completed++
		}
	}

	fmt.Printf("%s, %d rooms at rating %d, power %.0f, %d runs\n",
		difficulty, dungeonRooms, dungeonRating, dungeonPower, dungeonRuns)
	fmt.Printf("  survived      %.2f%%\n", 100*float64(completed)/float64(dungeonRuns))
	fmt.Printf("  died          %.2f%%\n", 100*float64(failed)/float64(dungeonRuns))
	fmt.Printf("  avg rooms cleared %.2f\n", float64(totalRoomsCleared)/float64(dungeonRuns))
	fmt.Printf("  avg exp per run   %.1f\n", float64(totalExp)/float64(dungeonRuns))
	return nil
}
