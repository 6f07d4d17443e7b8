package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Skirmish is a deterministic red/blue adversarial simulator",
	Long: `Skirmish runs configuration-driven adversarial episodes: Red and Blue
agents, each a finite-state machine declared in YAML, act over a shared set
of hosts whose compromise levels are themselves states in a small alphabet.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("scenario", "s", "scenario.yaml", "Path to the scenario file")
}

// scenarioPath resolves the scenario file from the flag or a positional arg.
func scenarioPath(cmd *cobra.Command, args []string) string {
	path, _ := cmd.Flags().GetString("scenario")
	if !cmd.Flags().Changed("scenario") && len(args) > 0 {
		path = args[0]
	}
	return path
}
