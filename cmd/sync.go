package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"timetracker-sync/internal/jira"
	"timetracker-sync/internal/worklog"

	"github.com/spf13/cobra"
)

var (
	syncUserID    int64
	syncTrackerID int64
	syncLimit     int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push pending entries to a ticket system",
	Long:  `Synchronizes a user's unsynchronized entries to the given ticket system as worklogs.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		tracker, err := provider.GetTicketSystem(ctx, syncTrackerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading ticket system: %v\n", err)
			os.Exit(1)
		}
		if tracker == nil {
			fmt.Fprintf(os.Stderr, "Ticket system %d not found\n", syncTrackerID)
			os.Exit(1)
		}

		client, err := jira.NewClient(tracker, syncUserID, provider, time.Duration(cfg.TrackerTimeout)*time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating tracker client: %v\n", err)
			os.Exit(1)
		}
		handshake := jira.NewHandshake(client, cfg.OAuthCallbackURL())
		gateway := jira.NewGateway(client, handshake)
		synchronizer := worklog.NewSynchronizer(gateway, provider, provider, tracker, syncUserID)

		outcomes, err := synchronizer.SyncPending(ctx, syncLimit)

		printOutcomes(outcomes)

		var unauthorized *jira.UnauthorizedError
		if errors.As(err, &unauthorized) {
			fmt.Printf("\nAuthorization required. Visit:\n%s\n", unauthorized.AuthURL)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error synchronizing entries: %v\n", err)
			os.Exit(1)
		}
	},
}

func printOutcomes(outcomes []worklog.Outcome) {
	if len(outcomes) == 0 {
		fmt.Println("No pending entries.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENTRY\tTICKET\tWORKLOG\tRESULT")
	for _, o := range outcomes {
		worklogID := "-"
		if o.Entry.WorklogID.Valid {
			worklogID = fmt.Sprintf("%d", o.Entry.WorklogID.Int64)
		}
		result := "synced"
		if o.Err != nil {
			result = o.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.Entry.ID, o.Entry.Ticket, worklogID, result)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Int64Var(&syncUserID, "user", 0, "user id to synchronize")
	syncCmd.Flags().Int64Var(&syncTrackerID, "tracker", 0, "ticket system id to synchronize against")
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "maximum number of entries to push (0 = all)")
	syncCmd.MarkFlagRequired("user")
	syncCmd.MarkFlagRequired("tracker")
}
