package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/feedbox/pkg/feedback"
	gormstore "github.com/doodlesbykumbi/feedbox/pkg/server/store/gorm"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long:  `Manage Feedbox user accounts.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'user' requires a subcommand (create, rotate-secret)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}

// accountService builds a service over the configured database. Commands
// using it never issue bearer tokens.
func accountService(cmd *cobra.Command) (*feedback.Service, *gormstore.UsersStore, error) {
	cipher, err := dataKeyCipher()
	if err != nil {
		return nil, nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	database, err := connect(debug)
	if err != nil {
		return nil, nil, err
	}

	users := gormstore.NewUsersStore(database, cipher)
	svc := feedback.NewService(feedback.Stores{
		Users:    users,
		Projects: gormstore.NewProjectsStore(database),
		Forms:    gormstore.NewFormsStore(database),
		Records:  gormstore.NewRecordsStore(database),
	}, nil, nil)
	return svc, users, nil
}
