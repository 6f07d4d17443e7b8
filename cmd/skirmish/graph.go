package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hexlattice/skirmish/internal/presentation/graph"
	"github.com/hexlattice/skirmish/pkg/scenario"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [scenario]",
	Short: "Export an agent's DFA as a Mermaid diagram",
	Long: `Loads the scenario and outputs a Mermaid diagram (graph TD) of one
agent's state machine, including its reactive interrupt edges.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := scenarioPath(cmd, args)
		agentName, _ := cmd.Flags().GetString("agent")

		sc, err := scenario.Load(path)
		if err != nil {
			fmt.Printf("Error loading scenario: %v\n", err)
			os.Exit(1)
		}

		if agentName == "" {
			// Default to the first declared agent.
			agentName = sc.Agents[0].Name
		}
		agent := sc.Agent(agentName)
		if agent == nil {
			fmt.Printf("Error: agent %q is not declared in the scenario\n", agentName)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(agent, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("agent", "a", "", "Agent whose DFA to render (default: first declared)")
}
