package cmd

import (
	"context"
	"fmt"

	app "timetracker-sync/internal"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		fmt.Println("Starting timetracker-sync server...")
		app.ServerMain(ctx, provider)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
