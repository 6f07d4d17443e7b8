package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexlattice/skirmish/pkg/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scenario]",
	Short: "Check a scenario file for consistency",
	Long: `Parses the scenario and checks every structural rule: state alphabet
membership, topology sizing, action bindings and DFA closure. All
violations are reported at once.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := scenarioPath(cmd, args)
		if _, err := scenario.Load(path); err != nil {
			fmt.Printf("Validation failed:\n")
			if errs := scenario.ValidationErrors(err); errs != nil {
				for _, e := range errs {
					fmt.Printf("  - %s\n", e)
				}
			} else {
				fmt.Printf("  %v\n", err)
			}
			os.Exit(1)
		}
		fmt.Println("Scenario is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
