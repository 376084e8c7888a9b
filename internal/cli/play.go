package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/player"
	"github.com/lunamir/aria/internal/tail"
)

var (
	playPick     bool
	playAll      bool
	playShuffle  bool
	playAlbum    bool
	playPlaylist bool
	playLyrics   bool
	playKeep     bool
)

var playCmd = &cobra.Command{
	Use:   "play <query>",
	Short: "Search and play music",
	Long: `Search the catalog and play the best match, blocking until
playback finishes or you interrupt it.

Examples:
  aria play "bohemian rhapsody"       # Play the top track match
  aria play --pick "queen"            # Choose from the top matches
  aria play --all "queen"             # Queue every result
  aria play --album "abbey road"      # Play a whole album
  aria play --playlist "Road Trip"    # Play one of your playlists
  aria play --shuffle --all "queen"   # Shuffled queue`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playPick, "pick", false, "Pick the track from the top matches")
	playCmd.Flags().BoolVar(&playAll, "all", false, "Queue all search results")
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "Enable shuffle for this queue")
	playCmd.Flags().BoolVar(&playAlbum, "album", false, "Play an album instead of a track")
	playCmd.Flags().BoolVar(&playPlaylist, "playlist", false, "Play a saved playlist by name")
	playCmd.Flags().BoolVar(&playLyrics, "lyrics", false, "Print synced lyric lines while playing")
	playCmd.Flags().BoolVar(&playKeep, "queue", false, "Keep the current queue instead of replacing it")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := newPlayNotifier()
	app, err := newApp(notifier)
	if err != nil {
		return err
	}
	defer app.Close()

	query := strings.Join(args, " ")
	tracks, start, err := collectTracks(ctx, app, query)
	if err != nil {
		return err
	}

	if playShuffle && !app.Session.Snapshot().Shuffle {
		app.Session.ToggleShuffle()
	}

	if playAll || playAlbum || playPlaylist || len(tracks) > 1 {
		err = app.Session.PlayQueue(ctx, tracks, start)
	} else {
		err = app.Session.PlayTrack(ctx, tracks[0], playKeep)
	}
	if err != nil {
		return err
	}

	return playbackLoop(ctx, app, notifier)
}

// collectTracks resolves the query into the tracks to queue and the
// index to start at.
func collectTracks(ctx context.Context, app *App, query string) ([]core.Track, int, error) {
	switch {
	case playPlaylist:
		p, err := app.Library.FindPlaylist(query)
		if err != nil {
			return nil, 0, err
		}
		if len(p.Tracks) == 0 {
			return nil, 0, fmt.Errorf("playlist '%s' is empty", p.Name)
		}
		return p.CatalogTracks(), 0, nil

	case playAlbum:
		albums := app.Catalog.SearchAlbums(ctx, query, 1)
		if len(albums) == 0 {
			return nil, 0, fmt.Errorf("no albums found for '%s'", query)
		}
		album := app.Catalog.Album(ctx, albums[0].ID)
		if album == nil || len(album.Tracks) == 0 {
			return nil, 0, fmt.Errorf("could not load tracks for '%s'", albums[0].Title)
		}
		if !JSONOutput() {
			fmt.Printf("Playing album %s by %s\n", album.Title, album.Artist)
		}
		return album.Tracks, 0, nil

	default:
		limit := 1
		if playPick || playAll {
			limit = 10
		}
		tracks := app.Catalog.SearchTracks(ctx, query, limit)
		if len(tracks) == 0 {
			return nil, 0, fmt.Errorf("no tracks found for '%s'", query)
		}
		if playPick {
			start, err := pickTrack(tracks)
			if err != nil {
				return nil, 0, err
			}
			if !playAll {
				return []core.Track{tracks[start]}, 0, nil
			}
			return tracks, start, nil
		}
		if playAll {
			return tracks, 0, nil
		}
		return tracks[:1], 0, nil
	}
}

// pickTrack shows an interactive selector over the search results.
func pickTrack(tracks []core.Track) (int, error) {
	options := make([]huh.Option[int], len(tracks))
	for i, t := range tracks {
		label := fmt.Sprintf("%s - %s (%s)", t.Title, t.Artist, FormatDuration(t.Duration))
		options[i] = huh.NewOption(label, i)
	}

	var choice int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Pick a track").
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return 0, err
	}
	return choice, nil
}

// playNotifier routes session events to the terminal.
type playNotifier struct {
	messages chan string
	lyricIdx chan int
}

func newPlayNotifier() *playNotifier {
	return &playNotifier{
		messages: make(chan string, 8),
		lyricIdx: make(chan int, 8),
	}
}

func (n *playNotifier) Notify(message string) {
	select {
	case n.messages <- message:
	default:
	}
}

func (n *playNotifier) StateChanged(core.PlaybackState) {}

func (n *playNotifier) LyricHighlight(index int) {
	select {
	case n.lyricIdx <- index:
	default:
	}
}

// playbackLoop blocks until the queue runs out or the user interrupts,
// feeding transport events back into the session and rendering
// progress.
func playbackLoop(ctx context.Context, app *App, notifier *playNotifier) error {
	done := make(chan struct{}, 1)
	finish := func() {
		select {
		case done <- struct{}{}:
		default:
		}
	}
	settle := func(err error) {
		// Queue exhausted, or the next track failed to resolve.
		if err != nil || app.Session.CurrentState() != player.StatePlaying {
			finish()
		}
	}

	app.Transport.OnEnded = func() {
		settle(app.Session.HandleEnded(context.Background()))
	}
	app.Transport.OnError = func(err error) {
		settle(app.Session.HandleError(context.Background(), err))
	}
	app.Transport.OnTime = app.Session.HandleTimeUpdate

	if Verbose() {
		watcher := tail.NewWatcher(app.Session, time.Second)
		go func() { _ = watcher.Start(ctx) }()
		go func() {
			formatter := tail.NewFormatter(tail.WithTimestamp(true))
			for e := range watcher.Events() {
				fmt.Fprintf(os.Stderr, "\r\033[K%s\n", formatter.Format(e))
			}
		}()
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastTrack string
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return app.Session.Stop()
		case <-done:
			fmt.Println()
			return nil
		case msg := <-notifier.messages:
			fmt.Fprintf(os.Stderr, "\r\033[K%s\n", msg)
		case index := <-notifier.lyricIdx:
			if !playLyrics || index < 0 {
				continue
			}
			if set := app.Session.Lyrics(); set != nil && index < len(set.Lines) {
				fmt.Printf("\r\033[K♪ %s\n", set.Lines[index].Text)
			}
		case <-ticker.C:
			snap := app.Session.Snapshot()
			if !snap.HasTrack() {
				continue
			}
			if snap.Track.ID != lastTrack {
				lastTrack = snap.Track.ID
				fmt.Printf("\r\033[K▶ %s - %s\n", snap.Track.Title, snap.Track.Artist)
			}
			fmt.Printf("\r\033[K  %s/%s %s",
				core.FormatTime(snap.Position),
				core.FormatTime(snap.Duration),
				FormatProgress(int(snap.Position), int(snap.Duration), 24))
		}
	}
}
