package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"timetracker-sync/internal/storage"
	"timetracker-sync/internal/utils"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userEmail string

var userCreateCmd = &cobra.Command{
	Use:   "create [name] [password]",
	Short: "Create a new user account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		hash, err := utils.HashPassword(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
			os.Exit(1)
		}

		user := storage.User{
			Name:         args[0],
			Email:        userEmail,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		}

		id, err := provider.CreateUser(ctx, user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("User '%s' created with id %d.\n", user.Name, id)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address for re-authorization notices")
}
