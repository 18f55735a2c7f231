package main

import (
	"github.com/spf13/cobra"

	"github.com/ilaydaydemir/rei-prospect-finder/internal/icp"
)

var icpsCmd = &cobra.Command{
	Use:   "icps",
	Short: "List the built-in ICP profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(icp.Builtin().List())
	},
}

func init() {
	rootCmd.AddCommand(icpsCmd)
}
