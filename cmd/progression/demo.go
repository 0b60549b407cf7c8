package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/questforge/progression-api/internal/content"
	"github.com/questforge/progression-api/internal/engine/cards"
	"github.com/questforge/progression-api/internal/engine/encounter"
	lootengine "github.com/questforge/progression-api/internal/engine/loot"
	pityengine "github.com/questforge/progression-api/internal/engine/pity"
	"github.com/questforge/progression-api/internal/entities"
	"github.com/questforge/progression-api/internal/orchestrators/dungeon"
	lootorch "github.com/questforge/progression-api/internal/orchestrators/loot"
	"github.com/questforge/progression-api/internal/pkg/idgen"
	"github.com/questforge/progression-api/internal/pkg/rng"
	redisclient "github.com/questforge/progression-api/internal/redis"
	"github.com/questforge/progression-api/internal/repositories/cardcollection"
	"github.com/questforge/progression-api/internal/repositories/dungeonrun"
	pityrepo "github.com/questforge/progression-api/internal/repositories/pity"
)

var demoCharacterID string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Play one dungeon run end to end against Redis",
	Long:  `Wires the full stack (Redis repositories, engines, orchestrators) and plays a short dungeon run, printing each room's outcome.`,
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoCharacterID, "character", "demo-hero", "character ID to play as")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, err := redisclient.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	services, err := buildServices(client, cfg.ContentDir)
	if err != nil {
		return err
	}

	character := &entities.CharacterSnapshot{
		ID:    demoCharacterID,
		Level: 25,
		Class: "warrior",
		Stats: map[entities.StatType]int{
			entities.StatStrength:  28,
			entities.StatDexterity: 14,
			entities.StatLuck:      12,
		},
	}

	// Short timers so the demo plays in seconds
	rooms := []entities.DungeonRoom{
		{EncounterType: entities.EncounterCombat, PrimaryStat: entities.StatStrength, DifficultyRating: 8, Duration: time.Second},
		{EncounterType: entities.EncounterTrap, PrimaryStat: entities.StatDexterity, DifficultyRating: 10, Duration: time.Second},
		{EncounterType: entities.EncounterBoss, PrimaryStat: entities.StatStrength, DifficultyRating: 14, Boss: true, Duration: time.Second},
	}

	start, err := services.dungeons.StartRun(ctx, &dungeon.StartRunInput{
		Character:  character,
		DungeonID:  "demo-crypt",
		Difficulty: entities.DifficultyNormal,
		Rooms:      rooms,
		MaxHP:      60,
	})
	if err != nil {
		return err
	}
	run := start.Run
	fmt.Printf("run %s started: %d rooms, %d HP\n", run.ID, run.TotalRooms(), run.CurrentHP)

	for !run.Terminal() {
		time.Sleep(time.Until(run.RoomCompletesAt) + 50*time.Millisecond)

		room, err := run.CurrentRoom()
		if err != nil {
			return err
		}
		out, err := services.dungeons.ResolveRoom(ctx, &dungeon.ResolveRoomInput{
			RunID:     run.ID,
			Character: character,
			Approach: entities.RoomApproach{
				PrimaryStat:   room.PrimaryStat,
				PowerModifier: 1.0,
				RiskModifier:  1.0,
			},
		})
		if err != nil {
			return err
		}
		run = out.Run

		printRoom(out, room)
	}

	fmt.Printf("run %s: %s with %d/%d HP, %d exp, %d gold\n",
		run.ID, run.Status, run.CurrentHP, run.MaxHP, run.TotalExp, run.TotalGold)

	// One task-reward roll to show the pity counters moving
	drop, err := services.loot.RollDrop(ctx, &lootorch.RollDropInput{
		Character:   character,
		ContentType: entities.ContentTasks,
		BaseChance:  0.25,
	})
	if err != nil {
		return err
	}
	if drop.Dropped {
		fmt.Printf("task reward: %s (%s)\n", drop.Item.Name, drop.Item.Rarity)
	} else {
		fmt.Printf("task reward: nothing, %d dry tasks\n", drop.Counters[entities.ContentTasks])
	}
	return nil
}

func printRoom(out *dungeon.ResolveRoomOutput, room entities.DungeonRoom) {
	verdict := "failed"
	if out.Result.Success {
		verdict = "cleared"
	}
	fmt.Printf("  %s %s (lost %d HP, +%d exp, +%d gold)\n",
		verdict, room.EncounterType, out.Result.HPLost, out.Result.ExpEarned, out.Result.GoldEarned)

	if out.Loot != nil {
		note := ""
		if out.PityTriggered {
			note = " [pity]"
		}
		fmt.Printf("    loot: %s (%s)%s\n", out.Loot.Name, out.Loot.Rarity, note)
	}
	if out.Card != nil {
		note := ""
		if out.CardUpgraded {
			note = " [upgraded]"
		}
		fmt.Printf("    card: %s x%d (%s)%s\n",
			out.Card.Name, out.Card.DuplicateCount+1, out.Card.Rarity, note)
	}
}

type demoServices struct {
	loot     lootorch.Service
	dungeons dungeon.Service
}

// buildServices wires the production object graph: Redis repositories,
// engines on crypto randomness, and the two orchestrators.
func buildServices(client redisclient.Client, contentDir string) (*demoServices, error) {
	pityRepo, err := pityrepo.NewRedis(&pityrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	runRepo, err := dungeonrun.NewRedis(&dungeonrun.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	cardRepo, err := cardcollection.NewRedis(&cardcollection.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}

	catalog, err := content.NewStaticSource(contentDir)
	if err != nil {
		return nil, err
	}

	src := rng.Default()
	generator, err := lootengine.NewGenerator(&lootengine.GeneratorConfig{
		RNG:   src,
		IDGen: idgen.NewPrefixed("equip"),
	})
	if err != nil {
		return nil, err
	}
	tracker, err := pityengine.NewTracker(src)
	if err != nil {
		return nil, err
	}
	resolver, err := encounter.NewResolver(src)
	if err != nil {
		return nil, err
	}
	cardEngine, err := cards.NewEngine(&cards.Config{
		RNG:   src,
		IDGen: idgen.NewPrefixed("card"),
	})
	if err != nil {
		return nil, err
	}

	lootService, err := lootorch.NewOrchestrator(&lootorch.Config{
		PityRepo:  pityRepo,
		Generator: generator,
		Tracker:   tracker,
		Catalog:   catalog,
	})
	if err != nil {
		return nil, err
	}

	dungeonService, err := dungeon.NewOrchestrator(&dungeon.Config{
		RunRepo:    runRepo,
		CardRepo:   cardRepo,
		PityRepo:   pityRepo,
		Resolver:   resolver,
		Generator:  generator,
		CardEngine: cardEngine,
		Tracker:    tracker,
		Catalog:    catalog,
		IDGen:      idgen.NewPrefixed("run"),
	})
	if err != nil {
		return nil, err
	}

	return &demoServices{
		loot:     lootService,
		dungeons: dungeonService,
	}, nil
}
