// Package main is the entry point for the progression CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "progression",
	Short: "RPG progression core tooling",
	Long:  `Tooling around the progression core: drop-rate simulation, catalog checks, and a Redis-backed demo loop.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(demoCmd)
}
