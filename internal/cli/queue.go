package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show and edit the play queue",
	Long:  `Show the persisted play queue from the most recent session.`,
	RunE:  runQueue,
}

var queueAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Search the catalog and append the best match to the queue",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQueueAdd,
}

var queueNextCmd = &cobra.Command{
	Use:   "next <query>",
	Short: "Search the catalog and insert the best match after the current track",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQueueNext,
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the play queue",
	RunE:  runQueueClear,
}

func init() {
	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueNextCmd)
	queueCmd.AddCommand(queueClearCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	q := app.Session.Queue()
	if q.IsEmpty() {
		fmt.Println("Queue is empty")
		return nil
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(q)
	}

	table := NewTable("", "#", "TITLE", "ARTIST", "LENGTH")
	for i, t := range q.Tracks {
		marker := " "
		if i == q.CurrentIndex {
			marker = "▶"
		}
		table.Row(
			marker,
			fmt.Sprintf("%d", i+1),
			TruncateString(t.Title, 40),
			TruncateString(t.Artist, 25),
			FormatDuration(t.Duration),
		)
	}
	table.Flush()
	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	return queueInsert(args, false)
}

func runQueueNext(cmd *cobra.Command, args []string) error {
	return queueInsert(args, true)
}

// queueInsert resolves the query to a track and appends it, or slots it
// in right after the current track when next is set.
func queueInsert(args []string, next bool) error {
	ctx := context.Background()
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.Join(args, " ")
	tracks := app.Catalog.SearchTracks(ctx, query, 1)
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks found for '%s'", query)
	}

	track := tracks[0]
	if next {
		app.Session.PlayNext(track)
		fmt.Printf("Playing next: %s - %s\n", track.Title, track.Artist)
	} else {
		app.Session.Enqueue(track)
		fmt.Printf("Added to queue: %s - %s\n", track.Title, track.Artist)
	}
	return nil
}

func runQueueClear(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	app.Session.ClearQueue()
	fmt.Println("Queue cleared")
	return nil
}
