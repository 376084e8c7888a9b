package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lunamir/aria/internal/lyrics"
)

var lyricsTimestamps bool

var lyricsCmd = &cobra.Command{
	Use:   "lyrics <query>",
	Short: "Show lyrics for a track",
	Long: `Look the track up in the catalog and fetch its lyrics, synced
when the lyrics service has them.

Examples:
  aria lyrics "hello adele"
  aria lyrics --timestamps "hello adele"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLyrics,
}

func init() {
	lyricsCmd.Flags().BoolVar(&lyricsTimestamps, "timestamps", false, "Prefix synced lines with their timestamps")
	rootCmd.AddCommand(lyricsCmd)
}

func runLyrics(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.Join(args, " ")
	track := app.Catalog.FindTrack(ctx, query, "")

	title, artist, album, duration := query, "", "", 0
	if track != nil {
		title, artist, album, duration = track.Title, track.Artist, track.Album, track.Duration
	}

	result := app.Lyrics.GetSynced(ctx, title, artist, album, duration)
	if result == nil || len(result.Lines) == 0 {
		return fmt.Errorf("no lyrics found for '%s'", query)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	if track != nil {
		fmt.Printf("%s - %s\n\n", track.Title, track.Artist)
	}
	for _, line := range result.Lines {
		if result.Synced && lyricsTimestamps {
			fmt.Printf("[%s] %s\n", lyrics.FormatLRCTime(line.Time), line.Text)
		} else {
			fmt.Println(line.Text)
		}
	}
	return nil
}
