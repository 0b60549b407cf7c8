package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/questforge/progression-api/internal/content"
	"github.com/questforge/progression-api/internal/entities"
)

var catalogDir string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Load and summarize a content catalog directory",
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogDir, "dir", "", "content directory (defaults to CONTENT_DIR)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := catalogDir
	if dir == "" {
		dir = cfg.ContentDir
	}

	source, err := content.NewStaticSource(dir)
	if err != nil {
		return err
	}

	catalog, err := source.Load(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("catalog from %s\n", dir)
	fmt.Printf("  equipment templates: %d\n", len(catalog.Equipment))
	fmt.Printf("  affix definitions:   %d (%d prefixes, %d suffixes)\n",
		len(catalog.Affixes),
		len(catalog.AffixesByType(entities.AffixPrefix)),
		len(catalog.AffixesByType(entities.AffixSuffix)))
	fmt.Printf("  card definitions:    %d\n", len(catalog.Cards))

	for _, source := range []entities.CardSource{
		entities.CardSourceDungeon,
		entities.CardSourceArena,
		entities.CardSourceExpedition,
		entities.CardSourceRaid,
	} {
		fmt.Printf("    droppable from %-11s %d\n", source, len(catalog.CardsForSource(source)))
	}
	return nil
}
