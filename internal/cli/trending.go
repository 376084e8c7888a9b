package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lunamir/aria/internal/stream"
)

var trendingCmd = &cobra.Command{
	Use:   "trending [region]",
	Short: "Show trending music from the streaming catalogs",
	Long: `Show likely-music entries from the streaming catalogs' trending
feeds. The region defaults to the configured one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrending,
}

func init() {
	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	region := cfg.Stream.Region
	if len(args) > 0 {
		region = args[0]
	}

	items := fetchTrending(ctx, app, region)
	if len(items) == 0 {
		return fmt.Errorf("no trending music for region %s", region)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(items)
	}

	table := NewTable("TITLE", "UPLOADER", "LENGTH")
	for _, item := range items {
		table.Row(
			TruncateString(item.Title, 45),
			TruncateString(item.Uploader, 30),
			FormatDuration(item.Duration),
		)
	}
	table.Flush()
	return nil
}

// fetchTrending asks each streaming provider in turn, taking the first
// that answers.
func fetchTrending(ctx context.Context, app *App, region string) []stream.Item {
	for _, p := range app.Providers {
		items, err := p.Trending(ctx, region)
		if err != nil {
			app.Logger.WithError(err).WithField("provider", p.Name()).Warn("Trending fetch failed")
			continue
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}
