package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ubounty/ubounty-cli/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of ubounty",
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Info.Println(config.GetVersionInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
