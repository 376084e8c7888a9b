package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/lunamir/aria/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the full-screen terminal UI with now-playing, queue,
lyrics and history panels. Playback continues across tracks until
you quit.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	notifier := newPlayNotifier()
	app, err := newApp(notifier)
	if err != nil {
		return err
	}
	defer app.Close()

	// Track transitions are handled by the session; the UI only renders
	// snapshots, so errors surface through the notifier.
	app.Transport.OnEnded = func() {
		_ = app.Session.HandleEnded(context.Background())
	}
	app.Transport.OnError = func(err error) {
		_ = app.Session.HandleError(context.Background(), err)
	}
	app.Transport.OnTime = app.Session.HandleTimeUpdate

	return tui.Run(&tui.App{
		Session:  app.Session,
		Catalog:  app.Catalog,
		Library:  app.Library,
		Messages: notifier.messages,
		Refresh:  time.Duration(app.Config.TUI.RefreshInterval) * time.Millisecond,
	})
}
