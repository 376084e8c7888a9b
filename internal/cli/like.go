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

var likeList bool

var likeCmd = &cobra.Command{
	Use:   "like [query]",
	Short: "Like a track, or list liked tracks",
	Long: `Toggle the liked state of the best catalog match for the query.
With --list, show your liked tracks instead.`,
	RunE: runLike,
}

func init() {
	likeCmd.Flags().BoolVar(&likeList, "list", false, "List liked tracks")
	rootCmd.AddCommand(likeCmd)
}

func runLike(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	if likeList || len(args) == 0 {
		liked := app.Library.LikedTracks()
		if len(liked) == 0 {
			fmt.Println("No liked tracks yet")
			return nil
		}
		if JSONOutput() {
			return json.NewEncoder(os.Stdout).Encode(liked)
		}
		table := NewTable("TITLE", "ARTIST", "LIKED")
		for _, t := range liked {
			table.Row(
				TruncateString(t.Title, 40),
				TruncateString(t.Artist, 25),
				humanize.Time(t.LikedAt),
			)
		}
		table.Flush()
		return nil
	}

	query := strings.Join(args, " ")
	track := app.Catalog.FindTrack(context.Background(), query, "")
	if track == nil {
		return fmt.Errorf("no tracks found for '%s'", query)
	}

	if app.Library.ToggleLike(*track) {
		fmt.Printf("%s Liked %s - %s\n", StatusIcon(true), track.Title, track.Artist)
	} else {
		fmt.Printf("%s Unliked %s - %s\n", StatusIcon(false), track.Title, track.Artist)
	}
	return nil
}
