package cmd

import (
	"os"

	"github.com/dreamerjackson/mangacrawler/cmd/harvest"
	"github.com/dreamerjackson/mangacrawler/cmd/normalize"
	"github.com/dreamerjackson/mangacrawler/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer(cmd.OutOrStdout())
	},
}

func NewRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{Use: "crawler"}
	rootCmd.AddCommand(harvest.HarvestCmd, normalize.NormalizeCmd, versionCmd)

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
