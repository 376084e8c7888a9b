package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Manage your playlists",
}

var playlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your playlists",
	RunE:  runPlaylistList,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a playlist",
	Long:  `Create a playlist. Without arguments, prompts for a name and description.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlaylistCreate,
}

var playlistShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a playlist's tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistShow,
}

var playlistAddCmd = &cobra.Command{
	Use:   "add <name> <query>",
	Short: "Search the catalog and add the best match to a playlist",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPlaylistAdd,
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove <name> <track-id>",
	Short: "Remove a track from a playlist",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlaylistRemove,
}

var playlistDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistDelete,
}

var playlistPlayCmd = &cobra.Command{
	Use:   "play <name>",
	Short: "Play a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistPlay,
}

func init() {
	playlistCmd.AddCommand(playlistListCmd)
	playlistCmd.AddCommand(playlistCreateCmd)
	playlistCmd.AddCommand(playlistShowCmd)
	playlistCmd.AddCommand(playlistAddCmd)
	playlistCmd.AddCommand(playlistRemoveCmd)
	playlistCmd.AddCommand(playlistDeleteCmd)
	playlistCmd.AddCommand(playlistPlayCmd)
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	playlists := app.Library.Playlists()
	if len(playlists) == 0 {
		fmt.Println("No playlists yet. Create one with 'aria playlist create'")
		return nil
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(playlists)
	}

	table := NewTable("NAME", "TRACKS", "UPDATED")
	for _, p := range playlists {
		table.Row(p.Name, fmt.Sprintf("%d", len(p.Tracks)), humanize.Time(p.UpdatedAt))
	}
	table.Flush()
	return nil
}

func runPlaylistCreate(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	var name, description string
	if len(args) > 0 {
		name = args[0]
	} else {
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Playlist name").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description (optional)").
				Value(&description),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	p := app.Library.CreatePlaylist(name, description)
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(p)
	}
	fmt.Printf("Created playlist %s\n", p.Name)
	return nil
}

func runPlaylistShow(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Library.FindPlaylist(args[0])
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(p)
	}

	fmt.Printf("%s (%d tracks)\n", p.Name, len(p.Tracks))
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	if len(p.Tracks) == 0 {
		return nil
	}
	table := NewTable("ID", "TITLE", "ARTIST", "ADDED")
	for _, t := range p.Tracks {
		table.Row(
			t.ID,
			TruncateString(t.Title, 40),
			TruncateString(t.Artist, 25),
			humanize.Time(t.AddedAt),
		)
	}
	table.Flush()
	return nil
}

func runPlaylistAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Library.FindPlaylist(args[0])
	if err != nil {
		return err
	}

	query := strings.Join(args[1:], " ")
	tracks := app.Catalog.SearchTracks(ctx, query, 1)
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks found for '%s'", query)
	}

	added, err := app.Library.AddToPlaylist(p.ID, tracks[0])
	if err != nil {
		return err
	}
	if !added {
		fmt.Printf("%s is already in %s\n", tracks[0].Title, p.Name)
		return nil
	}
	fmt.Printf("Added %s - %s to %s\n", tracks[0].Title, tracks[0].Artist, p.Name)
	return nil
}

func runPlaylistRemove(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Library.FindPlaylist(args[0])
	if err != nil {
		return err
	}

	removed, err := app.Library.RemoveFromPlaylist(p.ID, args[1])
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("track %s is not in %s", args[1], p.Name)
	}
	fmt.Printf("Removed track from %s\n", p.Name)
	return nil
}

func runPlaylistDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Library.FindPlaylist(args[0])
	if err != nil {
		return err
	}
	if err := app.Library.DeletePlaylist(p.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted playlist %s\n", p.Name)
	return nil
}

func runPlaylistPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := newPlayNotifier()
	app, err := newApp(notifier)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Library.FindPlaylist(args[0])
	if err != nil {
		return err
	}
	if len(p.Tracks) == 0 {
		return fmt.Errorf("playlist '%s' is empty", p.Name)
	}

	if err := app.Session.PlayQueue(ctx, p.CatalogTracks(), 0); err != nil {
		return err
	}
	return playbackLoop(ctx, app, notifier)
}
