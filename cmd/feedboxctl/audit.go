package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect persisted audit messages",
	Long: `Inspect the audit messages persisted in the database named by
AUDIT_DATABASE_URL.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'audit' requires a subcommand (recent)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

var auditRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the latest audit messages",
	Long: `Show the latest audit messages, newest first.

Example:
  feedboxctl audit recent
  feedboxctl audit recent --msgid authn --limit 50 --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		msgid, _ := cmd.Flags().GetString("msgid")
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")

		if err := showRecentAudit(cmd, msgid, limit, output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read audit messages: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditRecentCmd)
	auditRecentCmd.Flags().String("msgid", "", "only show messages with this id (authn, account, project, form, record)")
	auditRecentCmd.Flags().IntP("limit", "n", 20, "number of messages to show")
	auditRecentCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

func showRecentAudit(cmd *cobra.Command, msgid string, limit int, output string) error {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("AUDIT_DATABASE_URL environment variable is required")
	}
	if limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	store, err := audit.Open(dbURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	messages, err := store.Recent(cmd.Context(), msgid, limit)
	if err != nil {
		return err
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}
	for _, m := range messages {
		fmt.Printf("%s %-8s %s\n", m.Timestamp.Format("2006-01-02T15:04:05Z07:00"), m.Msgid, m.Message)
	}
	return nil
}
