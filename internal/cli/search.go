package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	searchArtists bool
	searchAlbums  bool
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Long: `Search the catalog for tracks, artists, or albums.

Examples:
  aria search "daft punk"
  aria search --artists "daft"
  aria search --albums "discovery" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchArtists, "artists", false, "Search for artists")
	searchCmd.Flags().BoolVar(&searchAlbums, "albums", false, "Search for albums")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 15, "Maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.Join(args, " ")

	switch {
	case searchArtists:
		artists := app.Catalog.SearchArtists(ctx, query, searchLimit)
		if len(artists) == 0 {
			return fmt.Errorf("no artists found for '%s'", query)
		}
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(artists)
		}
		table := NewTable("NAME", "FANS", "ALBUMS")
		for _, a := range artists {
			table.Row(a.Name, humanize.Comma(int64(a.Fans)), fmt.Sprintf("%d", a.AlbumCount))
		}
		table.Flush()

	case searchAlbums:
		albums := app.Catalog.SearchAlbums(ctx, query, searchLimit)
		if len(albums) == 0 {
			return fmt.Errorf("no albums found for '%s'", query)
		}
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(albums)
		}
		table := NewTable("TITLE", "ARTIST", "TRACKS")
		for _, a := range albums {
			table.Row(TruncateString(a.Title, 40), a.Artist, fmt.Sprintf("%d", a.TrackCount))
		}
		table.Flush()

	default:
		tracks := app.Catalog.SearchTracks(ctx, query, searchLimit)
		if len(tracks) == 0 {
			return fmt.Errorf("no tracks found for '%s'", query)
		}
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(tracks)
		}
		table := NewTable("TITLE", "ARTIST", "ALBUM", "LENGTH")
		for _, t := range tracks {
			table.Row(
				TruncateString(t.Title, 40),
				TruncateString(t.Artist, 25),
				TruncateString(t.Album, 30),
				FormatDuration(t.Duration),
			)
		}
		table.Flush()
	}

	return nil
}
