package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/audit"
	"github.com/doodlesbykumbi/feedbox/pkg/feedback"
	"github.com/doodlesbykumbi/feedbox/pkg/validation"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account, as sign-up does.

The password is read from --password or FEEDBOX_USER_PASSWORD. The client
secret of the new user is written to STDOUT.

Example:
  feedboxctl user create --email ada@example.com --name Ada --password s3cret!`,
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			password = os.Getenv("FEEDBOX_USER_PASSWORD")
		}

		if err := createUser(cmd, validation.SignUp{Email: email, Name: name, Password: password}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringP("email", "e", "", "email address of the user")
	userCreateCmd.Flags().StringP("name", "n", "", "display name of the user")
	userCreateCmd.Flags().String("password", "", "password of the user (default: $FEEDBOX_USER_PASSWORD)")
}

func createUser(cmd *cobra.Command, in validation.SignUp) error {
	svc, _, err := accountService(cmd)
	if err != nil {
		return err
	}

	user, err := svc.SignUp(cmd.Context(), in)
	event := audit.AccountEvent{Operation: "sign-up", Success: err == nil, ClientIP: "cli"}
	if user != nil {
		event.UserID = user.ID.String()
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)

	var verr *feedback.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", fe.Field, fe.Message)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created user '%s' (%s)\n", user.Email, user.ID)
	fmt.Printf("Client secret: %s\n", user.ClientSecret)
	return nil
}
