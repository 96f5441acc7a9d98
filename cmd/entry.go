package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"timetracker-sync/internal/storage"

	"github.com/spf13/cobra"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage work entries",
	Long:  `Record and list work entries before pushing them to a ticket system.`,
}

var entryListUserID int64

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's entries",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		entries, err := provider.ListEntries(ctx, entryListUserID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing entries: %v\n", err)
			os.Exit(1)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDAY\tSTART\tEND\tTICKET\tWORKLOG\tSYNCED")
		for _, e := range entries {
			worklogID := "-"
			if e.WorklogID.Valid {
				worklogID = fmt.Sprintf("%d", e.WorklogID.Int64)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
				e.ID, e.Day, e.Start, e.End, e.Ticket, worklogID, e.Synced)
		}
		w.Flush()
	},
}

var (
	entryUserID      int64
	entryProjectID   int64
	entryTicket      string
	entryDescription string
	entryActivity    string
)

var entryAddCmd = &cobra.Command{
	Use:   "add [day] [start] [end]",
	Short: "Record a work entry",
	Long:  `Records a work entry, e.g.: entry add 2026-08-31 09:00 10:30 --user 1 --project 2 --ticket JIRA-42`,
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		entry := storage.Entry{
			UserID:      entryUserID,
			ProjectID:   entryProjectID,
			Ticket:      entryTicket,
			Day:         args[0],
			Start:       args[1],
			End:         args[2],
			Description: entryDescription,
			Activity:    entryActivity,
		}

		if entry.DurationMinutes() <= 0 {
			fmt.Fprintln(os.Stderr, "Invalid times: end must be after start")
			os.Exit(1)
		}

		id, err := provider.CreateEntry(ctx, entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating entry: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Entry %d recorded.\n", id)
	},
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryAddCmd)

	entryListCmd.Flags().Int64Var(&entryListUserID, "user", 0, "user id")
	entryListCmd.MarkFlagRequired("user")

	entryAddCmd.Flags().Int64Var(&entryUserID, "user", 0, "user id")
	entryAddCmd.Flags().Int64Var(&entryProjectID, "project", 0, "project id")
	entryAddCmd.Flags().StringVar(&entryTicket, "ticket", "", "ticket key, e.g. JIRA-42")
	entryAddCmd.Flags().StringVar(&entryDescription, "description", "", "what was done")
	entryAddCmd.Flags().StringVar(&entryActivity, "activity", "", "activity type, e.g. Development")
	entryAddCmd.MarkFlagRequired("user")
	entryAddCmd.MarkFlagRequired("project")
}
