package cli

import (
	"encoding/json"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently played tracks",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Clear the play history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	if historyClear {
		app.Session.ClearHistory()
		if !JSONOutput() {
			os.Stdout.WriteString("History cleared\n")
		}
		return nil
	}

	entries := app.Session.History()
	if len(entries) == 0 {
		os.Stdout.WriteString("No play history yet\n")
		return nil
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	table := NewTable("TITLE", "ARTIST", "PLAYED")
	for _, e := range entries {
		table.Row(
			TruncateString(e.Track.Title, 40),
			TruncateString(e.Track.Artist, 25),
			humanize.Time(e.PlayedAt),
		)
	}
	table.Flush()
	return nil
}
