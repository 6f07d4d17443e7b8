package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hexlattice/skirmish/internal/cli"
	"github.com/hexlattice/skirmish/internal/presentation/tui"
	"github.com/hexlattice/skirmish/pkg/scenario"
)

var describeCmd = &cobra.Command{
	Use:   "describe [scenario]",
	Short: "Print a human-readable summary of a scenario",
	Long: `Renders the scenario as a markdown document: topology, host alphabet,
and each agent's actions, transition table and reactive rules. Output is
styled when stdout is a terminal, raw markdown otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		sc, err := scenario.Load(scenarioPath(cmd, args))
		if err != nil {
			fmt.Printf("Error loading scenario: %v\n", err)
			os.Exit(1)
		}

		md := cli.DescribeMarkdown(sc)
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print(md)
			return
		}

		render := tui.NewMarkdownRenderer()
		out, err := render(md)
		if err != nil {
			fmt.Print(md)
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
