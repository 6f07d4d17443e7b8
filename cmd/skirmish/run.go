package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexlattice/skirmish/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Play one episode of the scenario",
	Long: `Loads the scenario and plays a full episode. On a terminal the episode
advances step by step on Enter; with --headless or --json it plays through
without prompting.`,
	Run: func(cmd *cobra.Command, args []string) {
		headless, _ := cmd.Flags().GetBool("headless")
		jsonMode, _ := cmd.Flags().GetBool("json")
		horizon, _ := cmd.Flags().GetInt("horizon")
		random, _ := cmd.Flags().GetStringSlice("random")
		seed, _ := cmd.Flags().GetInt64("seed")
		verbose, _ := cmd.Flags().GetBool("verbose")

		err := cli.RunSession(scenarioPath(cmd, args), cli.SessionOptions{
			Headless:     headless,
			JSON:         jsonMode,
			Horizon:      horizon,
			RandomAgents: random,
			Seed:         seed,
			Verbose:      verbose,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run without prompts (plays the episode straight through)")
	runCmd.Flags().Bool("json", false, "Emit NDJSON step summaries instead of the TUI")
	runCmd.Flags().Int("horizon", 0, "Override the scenario's episode length")
	runCmd.Flags().StringSlice("random", nil, "Agents to drive with a seeded random policy instead of their DFA")
	runCmd.Flags().Int64("seed", 1, "Seed for random policies")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
}
