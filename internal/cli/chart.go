package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var chartLimit int

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Show the catalog's top tracks",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().IntVar(&chartLimit, "limit", 20, "Maximum number of tracks")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	tracks := app.Catalog.Chart(context.Background(), chartLimit)
	if len(tracks) == 0 {
		return fmt.Errorf("chart is unavailable right now")
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(tracks)
	}

	table := NewTable("#", "TITLE", "ARTIST", "LENGTH")
	for i, t := range tracks {
		table.Row(
			fmt.Sprintf("%d", i+1),
			TruncateString(t.Title, 40),
			TruncateString(t.Artist, 25),
			FormatDuration(t.Duration),
		)
	}
	table.Flush()
	return nil
}
