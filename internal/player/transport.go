package player

import "github.com/lunamir/aria/internal/core"

// Transport plays one audio stream at a time. Implementations report
// playback progress and completion back into the session through the
// Session's Handle* methods; they never mutate session state directly.
type Transport interface {
	// Load starts playback of a stream URL at the given volume,
	// replacing whatever was playing before.
	Load(url string, volume float64) error

	// Pause suspends playback; Resume continues it.
	Pause() error
	Resume() error

	// Seek jumps to an absolute position in seconds.
	Seek(seconds float64) error

	// SetVolume adjusts the volume (0.0 - 1.0) of the active stream.
	SetVolume(volume float64) error

	// Stop tears down the active stream, if any.
	Stop() error
}

// Notifier receives session events. Implementations must be fast and
// must not call back into the session from the same goroutine; queue
// the event and return.
type Notifier interface {
	// Notify delivers a user-facing message, typically a playback
	// failure the user should know about.
	Notify(message string)

	// StateChanged delivers a snapshot after every session mutation.
	StateChanged(state core.PlaybackState)

	// LyricHighlight fires when the highlighted lyric line changes.
	// -1 means no line is active.
	LyricHighlight(index int)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}

func (NopNotifier) StateChanged(core.PlaybackState) {}

func (NopNotifier) LyricHighlight(int) {}
