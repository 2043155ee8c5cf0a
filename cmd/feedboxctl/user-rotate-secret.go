package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
)

// userRotateSecretCmd represents the user rotate-secret command
var userRotateSecretCmd = &cobra.Command{
	Use:   "rotate-secret [email]",
	Short: "Replace the client secret of a user",
	Long: `Replace the client secret of a user.

The previous secret stops working immediately. The new one is written to
STDOUT.

Example:
  feedboxctl user rotate-secret ada@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		secret, err := rotateSecret(cmd, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to rotate client secret: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(secret)
	},
}

func init() {
	userCmd.AddCommand(userRotateSecretCmd)
}

func rotateSecret(cmd *cobra.Command, email string) (string, error) {
	svc, users, err := accountService(cmd)
	if err != nil {
		return "", err
	}

	user, err := users.FetchUserByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("user %s: %w", email, err)
	}

	secret, err := svc.RotateClientSecret(cmd.Context(), user.ID)
	event := audit.AccountEvent{UserID: user.ID.String(), ClientIP: "cli", Operation: "rotate-secret", Success: err == nil}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
	return secret, err
}
