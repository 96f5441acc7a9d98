package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"timetracker-sync/internal/storage"

	"github.com/spf13/cobra"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Manage ticket systems",
	Long:  `Create and list the ticket systems entries can be booked against.`,
}

var trackerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ticket systems",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		trackers, err := provider.ListTicketSystems(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ticket systems: %v\n", err)
			os.Exit(1)
		}

		if len(trackers) == 0 {
			fmt.Println("No ticket systems found.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tURL\tBOOK TIME")
		for _, ts := range trackers {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", ts.ID, ts.Name, ts.BaseURL, ts.BookTime)
		}
		w.Flush()
	},
}

var (
	trackerConsumerKey    string
	trackerConsumerSecret string
	trackerTicketURL      string
	trackerBookTime       bool
)

var trackerCreateCmd = &cobra.Command{
	Use:   "create [name] [base-url]",
	Short: "Create a new ticket system",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ts := storage.TicketSystem{
			Name:           args[0],
			BaseURL:        args[1],
			ConsumerKey:    trackerConsumerKey,
			ConsumerSecret: trackerConsumerSecret,
			BookTime:       trackerBookTime,
			TicketURL:      trackerTicketURL,
			CreatedAt:      time.Now(),
		}

		id, err := provider.CreateTicketSystem(ctx, ts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating ticket system: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Ticket system '%s' created with id %d.\n", ts.Name, id)
	},
}

func init() {
	rootCmd.AddCommand(trackerCmd)
	trackerCmd.AddCommand(trackerListCmd)
	trackerCmd.AddCommand(trackerCreateCmd)

	trackerCreateCmd.Flags().StringVar(&trackerConsumerKey, "consumer-key", "", "OAuth consumer key registered at the tracker")
	trackerCreateCmd.Flags().StringVar(&trackerConsumerSecret, "consumer-secret", "", "RSA private key, inline PEM or path to a PEM file")
	trackerCreateCmd.Flags().StringVar(&trackerTicketURL, "ticket-url", "", "ticket display URL template, e.g. https://jira.example.org/browse/%s")
	trackerCreateCmd.Flags().BoolVar(&trackerBookTime, "book-time", true, "enable time booking against this tracker")
}
