package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/feedback"
)

// projectShowCmd represents the project show command
var projectShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a project, including soft-deleted ones",
	Long: `Print a project as JSON.

Soft-deleted projects are shown too, with "isDeleted": true. Use it to
confirm that a deletion kept the row and its owner intact.

Example:
  feedboxctl project show 3fa85f64-5717-4562-b3fc-2c963f66afa6`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _, err := accountService(cmd)
		if err == nil {
			err = showProject(cmd.Context(), svc, args[0], os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show project: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	projectCmd.AddCommand(projectShowCmd)
}

func showProject(ctx context.Context, svc *feedback.Service, rawID string, w io.Writer) error {
	id, err := feedback.ParseID("id", rawID)
	if err != nil {
		return err
	}
	project, err := svc.FetchProjectRecord(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(project)
}
