package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hexlattice/skirmish"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of skirmish",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skirmish version %s\n", skirmish.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
