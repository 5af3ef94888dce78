package cmd

import (
	"fmt"
	"os"

	"binday-backend/lib/resultlog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <authority>",
	Short: "Show previously resolved collection dates for an authority.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := resultlog.Open(logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer store.Close()

		entries, err := store.History(cmd.Context(), args[0], historyLimit)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		t := newTable()
		t.AppendHeader(table.Row{"fetched", "address", "stream", "collection"})
		for _, e := range entries {
			t.AppendRow(table.Row{
				e.FetchedAt.Format("2 Jan 15:04"),
				e.Address,
				e.Stream,
				e.CollectionDate.Format("Mon, 2 Jan 2006"),
			})
		}
		t.Render()
	},
}
