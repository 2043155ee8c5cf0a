package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect projects",
	Long:  `Inspect projects directly in the database, bypassing ownership checks.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'project' requires a subcommand (show)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
}
