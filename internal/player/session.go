package player

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/errors"
	"github.com/lunamir/aria/internal/lyrics"
	"github.com/lunamir/aria/internal/storage"
)

// State is the session's position in the playback lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateResolving State = "resolving"
	StatePlaying   State = "playing"
	StatePaused    State = "paused"
)

// Storage keys for persisted session state.
const (
	keyHistory = "player_history"
	keyQueue   = "player_queue"
	keyVolume  = "player_volume"
	keyShuffle = "player_shuffle"
	keyRepeat  = "player_repeat"
)

// historyLimit caps the persisted play history.
const historyLimit = 50

// previousThreshold is how far into a track "previous" restarts it
// instead of going back.
const previousThreshold = 3.0

// StreamResolver turns a catalog track into a playable stream.
type StreamResolver interface {
	Resolve(ctx context.Context, track core.Track) (string, *core.StreamInfo, error)
}

// LyricsSource resolves lyrics for a track.
type LyricsSource interface {
	GetSynced(ctx context.Context, track, artist, album string, duration int) *core.Lyrics
}

// Session owns the play queue, transport, and lyric synchronization.
// All exported methods are safe for concurrent use; a play request
// issued while another is resolving supersedes it, and the stale
// resolution is discarded when it eventually lands.
type Session struct {
	resolver StreamResolver
	lyrics   LyricsSource
	trans    Transport
	notifier Notifier
	store    *storage.Store
	logger   *logrus.Logger
	rng      *rand.Rand

	mu         sync.Mutex
	generation uint64
	state      State
	queue      core.Queue
	current    *core.ResolvedTrack
	shuffle    bool
	repeat     core.RepeatMode
	volume     float64
	position   float64
	duration   float64
	lyricSet   *core.Lyrics
	lyricIndex int
	history    []core.HistoryEntry

	restoredVolume  bool
	restoredShuffle bool
	restoredRepeat  bool
}

// NewSession creates a session and restores persisted history and
// settings. The store may be nil, in which case nothing persists.
func NewSession(resolver StreamResolver, ly LyricsSource, trans Transport, notifier Notifier, store *storage.Store, logger *logrus.Logger) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	s := &Session{
		resolver:   resolver,
		lyrics:     ly,
		trans:      trans,
		notifier:   notifier,
		store:      store,
		logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		state:      StateIdle,
		queue:      core.Queue{CurrentIndex: -1},
		repeat:     core.RepeatNone,
		volume:     0.8,
		lyricIndex: -1,
	}
	s.restore()
	return s
}

// restore loads persisted settings; a missing or unreadable value keeps
// the default.
func (s *Session) restore() {
	if s.store == nil {
		return
	}
	s.store.GetJSON(keyHistory, &s.history)
	if s.store.GetJSON(keyQueue, &s.queue) {
		if s.queue.CurrentIndex >= s.queue.Len() {
			s.queue.CurrentIndex = s.queue.Len() - 1
		}
		if s.queue.CurrentIndex < 0 {
			s.queue.CurrentIndex = -1
		}
	}
	var volume float64
	if s.store.GetJSON(keyVolume, &volume) {
		s.volume = clampVolume(volume)
		s.restoredVolume = true
	}
	s.restoredShuffle = s.store.GetJSON(keyShuffle, &s.shuffle)
	var repeat core.RepeatMode
	if s.store.GetJSON(keyRepeat, &repeat) {
		switch repeat {
		case core.RepeatNone, core.RepeatAll, core.RepeatOne:
			s.repeat = repeat
			s.restoredRepeat = true
		}
	}
}

// ApplyDefaults seeds settings from configuration. A value the user has
// already changed, and which therefore came back from storage, wins
// over the configured default.
func (s *Session) ApplyDefaults(volume float64, shuffle bool, repeat core.RepeatMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.restoredVolume && volume > 0 {
		s.volume = clampVolume(volume)
	}
	if !s.restoredShuffle {
		s.shuffle = shuffle
	}
	if !s.restoredRepeat {
		switch repeat {
		case core.RepeatNone, core.RepeatAll, core.RepeatOne:
			s.repeat = repeat
		}
	}
}

// PlayTrack resolves and plays a single track. Unless keepQueue is set,
// the queue becomes a singleton of this track, or the queue pointer
// moves to the track when it is already queued. On resolution failure
// the session returns to its prior state and the user is notified.
func (s *Session) PlayTrack(ctx context.Context, track core.Track, keepQueue bool) error {
	s.mu.Lock()
	gen := s.begin()
	prior := s.state
	s.state = StateResolving
	s.mu.Unlock()

	return s.resolveAndStart(ctx, gen, track, prior, func() {
		if keepQueue {
			return
		}
		if i := s.queue.IndexOf(track.ID); i >= 0 {
			s.queue.CurrentIndex = i
		} else {
			s.queue = core.Queue{Tracks: []core.Track{track}, CurrentIndex: 0}
		}
	})
}

// PlayQueue replaces the queue and starts playback at startIndex. With
// shuffle active the chosen track is pinned to the front and the rest
// of the queue is permuted.
func (s *Session) PlayQueue(ctx context.Context, tracks []core.Track, startIndex int) error {
	if len(tracks) == 0 {
		return errors.ErrEmptyQueue
	}
	if startIndex < 0 || startIndex >= len(tracks) {
		startIndex = 0
	}

	s.mu.Lock()
	gen := s.begin()
	prior := s.state
	s.state = StateResolving

	ordered := make([]core.Track, len(tracks))
	copy(ordered, tracks)
	if s.shuffle {
		ordered[0], ordered[startIndex] = ordered[startIndex], ordered[0]
		rest := ordered[1:]
		s.rng.Shuffle(len(rest), func(i, j int) {
			rest[i], rest[j] = rest[j], rest[i]
		})
		startIndex = 0
	}
	s.queue = core.Queue{Tracks: ordered, CurrentIndex: startIndex}
	s.persist(keyQueue, s.queue)
	track := ordered[startIndex]
	s.mu.Unlock()

	return s.resolveAndStart(ctx, gen, track, prior, nil)
}

// Enqueue appends a track to the end of the queue without touching
// playback.
func (s *Session) Enqueue(track core.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Tracks = append(s.queue.Tracks, track)
	s.persist(keyQueue, s.queue)
	s.notifier.Notify(fmt.Sprintf("Added to queue: %s", track.Title))
	s.emitState()
}

// PlayNext inserts a track directly after the current one so it plays
// when the current track finishes. With nothing selected it appends.
func (s *Session) PlayNext(track core.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.queue.CurrentIndex; i >= 0 {
		s.queue.Tracks = append(s.queue.Tracks, core.Track{})
		copy(s.queue.Tracks[i+2:], s.queue.Tracks[i+1:])
		s.queue.Tracks[i+1] = track
	} else {
		s.queue.Tracks = append(s.queue.Tracks, track)
	}
	s.persist(keyQueue, s.queue)
	s.notifier.Notify(fmt.Sprintf("Playing next: %s", track.Title))
	s.emitState()
}

// ClearQueue empties the queue. The current track keeps playing; when
// it ends the session goes idle.
func (s *Session) ClearQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = core.Queue{CurrentIndex: -1}
	s.persist(keyQueue, s.queue)
	s.emitState()
}

// Next advances the queue. Under repeat-one the current track restarts;
// past the end the queue wraps under repeat-all and otherwise stays on
// the last track and pauses.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.queue.IsEmpty() {
		s.mu.Unlock()
		return errors.ErrEmptyQueue
	}

	if s.repeat == core.RepeatOne {
		err := s.restartLocked()
		s.mu.Unlock()
		return err
	}

	index := s.queue.CurrentIndex + 1
	if index >= s.queue.Len() {
		if s.repeat == core.RepeatAll {
			index = 0
		} else {
			s.queue.CurrentIndex = s.queue.Len() - 1
			s.persist(keyQueue, s.queue)
			s.pauseLocked()
			s.mu.Unlock()
			return nil
		}
	}

	gen := s.begin()
	prior := s.state
	s.state = StateResolving
	s.queue.CurrentIndex = index
	s.persist(keyQueue, s.queue)
	track := s.queue.Tracks[index]
	s.mu.Unlock()

	return s.resolveAndStart(ctx, gen, track, prior, nil)
}

// Previous restarts the current track when more than a few seconds in,
// and otherwise steps back through the queue. Underflow wraps under
// repeat-all and otherwise restarts the first track.
func (s *Session) Previous(ctx context.Context) error {
	s.mu.Lock()
	if s.queue.IsEmpty() {
		s.mu.Unlock()
		return errors.ErrEmptyQueue
	}

	if s.position > previousThreshold {
		err := s.restartLocked()
		s.mu.Unlock()
		return err
	}

	index := s.queue.CurrentIndex - 1
	if index < 0 {
		if s.repeat == core.RepeatAll {
			index = s.queue.Len() - 1
		} else {
			s.queue.CurrentIndex = 0
			err := s.restartLocked()
			s.mu.Unlock()
			return err
		}
	}

	gen := s.begin()
	prior := s.state
	s.state = StateResolving
	s.queue.CurrentIndex = index
	s.persist(keyQueue, s.queue)
	track := s.queue.Tracks[index]
	s.mu.Unlock()

	return s.resolveAndStart(ctx, gen, track, prior, nil)
}

// Pause suspends playback.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return nil
	}
	s.pauseLocked()
	return nil
}

// Resume continues paused playback. When the underlying stream has
// already run out, such as after the queue exhausted, the current track
// is reloaded from the start instead.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused || s.current == nil {
		return nil
	}
	if err := s.trans.Resume(); err != nil {
		if stderrors.Is(err, errors.ErrTransportDead) {
			return s.restartLocked()
		}
		return err
	}
	s.state = StatePlaying
	s.emitState()
	return nil
}

// Seek jumps to an absolute position, clamped to the track bounds. It
// is a no-op when the duration is unknown.
func (s *Session) Seek(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.duration <= 0 {
		return nil
	}
	if seconds < 0 {
		seconds = 0
	}
	if seconds > s.duration {
		seconds = s.duration
	}
	if err := s.trans.Seek(seconds); err != nil {
		return err
	}
	s.position = seconds
	s.emitState()
	return nil
}

// SetVolume clamps and applies the volume, and persists it.
func (s *Session) SetVolume(volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = clampVolume(volume)
	if s.current != nil {
		if err := s.trans.SetVolume(s.volume); err != nil {
			return err
		}
	}
	s.persist(keyVolume, s.volume)
	s.emitState()
	return nil
}

// ToggleShuffle flips the shuffle flag. The already-playing queue keeps
// its order; shuffle takes effect on the next PlayQueue.
func (s *Session) ToggleShuffle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuffle = !s.shuffle
	s.persist(keyShuffle, s.shuffle)
	s.emitState()
	return s.shuffle
}

// CycleRepeat advances the repeat mode none -> all -> one.
func (s *Session) CycleRepeat() core.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeat = core.CycleRepeat(s.repeat)
	s.persist(keyRepeat, s.repeat)
	s.emitState()
	return s.repeat
}

// HandleEnded reacts to natural end of the current stream by advancing
// the queue. When the queue was cleared mid-play the session goes idle.
func (s *Session) HandleEnded(ctx context.Context) error {
	s.mu.Lock()
	if s.queue.IsEmpty() {
		s.begin()
		s.current = nil
		s.state = StateIdle
		s.position = 0
		s.duration = 0
		s.lyricSet = nil
		s.lyricIndex = -1
		s.emitState()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.Next(ctx)
}

// HandleError reacts to a transport failure mid-stream. A bad stream is
// treated like a finished one so the queue keeps moving.
func (s *Session) HandleError(ctx context.Context, err error) error {
	s.logger.WithError(err).Warn("Transport failed, skipping to next track")
	return s.Next(ctx)
}

// HandleTimeUpdate records playback progress and re-derives the
// highlighted lyric line. Recomputing the same index is a no-op.
func (s *Session) HandleTimeUpdate(position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = position
	if s.lyricSet == nil || !s.lyricSet.Synced {
		return
	}
	index := lyrics.HighlightIndex(s.lyricSet, position)
	if index != s.lyricIndex {
		s.lyricIndex = index
		s.notifier.LyricHighlight(index)
	}
}

// Stop tears down the transport and returns the session to Idle. The
// queue survives so playback can be resumed from it.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin()
	err := s.trans.Stop()
	s.current = nil
	s.state = StateIdle
	s.position = 0
	s.duration = 0
	s.lyricSet = nil
	s.lyricIndex = -1
	s.emitState()
	return err
}

// Snapshot returns the current playback state for rendering.
func (s *Session) Snapshot() core.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Queue returns a copy of the play queue.
func (s *Session) Queue() core.Queue {
	s.mu.Lock()
	defer s.mu.Unlock()
	tracks := make([]core.Track, len(s.queue.Tracks))
	copy(tracks, s.queue.Tracks)
	return core.Queue{Tracks: tracks, CurrentIndex: s.queue.CurrentIndex}
}

// History returns a copy of the play history, most recent first.
func (s *Session) History() []core.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]core.HistoryEntry, len(s.history))
	copy(entries, s.history)
	return entries
}

// ClearHistory drops the play history, in memory and in storage.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	if s.store != nil {
		s.store.Remove(keyHistory)
	}
}

// Lyrics returns the lyric set loaded for the current track, or nil.
func (s *Session) Lyrics() *core.Lyrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lyricSet
}

// CurrentState reports the session's lifecycle state.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin marks a new play attempt, invalidating in-flight resolutions.
// Caller must hold the lock.
func (s *Session) begin() uint64 {
	s.generation++
	return s.generation
}

// resolveAndStart runs the match resolver outside the lock and applies
// the result only if no newer attempt has superseded this one. apply,
// when set, mutates the queue under the lock once resolution succeeds;
// a failed resolution leaves the queue untouched.
func (s *Session) resolveAndStart(ctx context.Context, gen uint64, track core.Track, prior State, apply func()) error {
	videoID, info, err := s.resolver.Resolve(ctx, track)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}

	if err == nil {
		if loadErr := s.trans.Load(info.URL, s.volume); loadErr != nil {
			err = loadErr
		}
	}
	if err != nil {
		s.state = prior
		s.notifier.Notify(fmt.Sprintf("Could not play %s: %s", track.Title, err))
		s.logger.WithError(err).WithField("track", track.Title).Warn("Playback resolution failed")
		s.emitState()
		return err
	}

	if apply != nil {
		apply()
		s.persist(keyQueue, s.queue)
	}
	s.current = &core.ResolvedTrack{Track: track, VideoID: videoID, StreamURL: info.URL}
	s.state = StatePlaying
	s.position = 0
	s.duration = float64(track.Duration)
	if s.duration == 0 {
		s.duration = float64(info.Duration)
	}
	s.lyricSet = nil
	s.lyricIndex = -1
	s.pushHistory(track)
	s.emitState()

	go s.loadLyrics(ctx, gen, track)
	return nil
}

// loadLyrics fetches lyrics off the playback path; audio start never
// waits on it. A stale result for a superseded track is dropped.
func (s *Session) loadLyrics(ctx context.Context, gen uint64, track core.Track) {
	if s.lyrics == nil {
		return
	}
	set := s.lyrics.GetSynced(ctx, track.Title, track.Artist, track.Album, track.Duration)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.lyricSet = set
	s.lyricIndex = -1
	if set != nil {
		s.emitState()
	}
}

// restartLocked replays the current resolved stream from the start.
func (s *Session) restartLocked() error {
	if s.current == nil {
		return nil
	}
	if err := s.trans.Load(s.current.StreamURL, s.volume); err != nil {
		return err
	}
	s.position = 0
	s.lyricIndex = -1
	s.state = StatePlaying
	s.emitState()
	return nil
}

func (s *Session) pauseLocked() {
	if err := s.trans.Pause(); err != nil {
		s.logger.WithError(err).Debug("Transport pause failed")
	}
	s.state = StatePaused
	s.emitState()
}

// pushHistory prepends the track, deduplicated by id and capped.
func (s *Session) pushHistory(track core.Track) {
	entries := make([]core.HistoryEntry, 0, len(s.history)+1)
	entries = append(entries, core.HistoryEntry{Track: track, PlayedAt: time.Now()})
	for _, e := range s.history {
		if e.Track.ID == track.ID {
			continue
		}
		entries = append(entries, e)
		if len(entries) == historyLimit {
			break
		}
	}
	s.history = entries
	s.persist(keyHistory, s.history)
}

func (s *Session) persist(key string, v interface{}) {
	if s.store == nil {
		return
	}
	s.store.SetJSON(key, v)
}

func (s *Session) snapshotLocked() core.PlaybackState {
	return core.PlaybackState{
		Track:      s.current,
		IsPlaying:  s.state == StatePlaying,
		Shuffle:    s.shuffle,
		Repeat:     s.repeat,
		Volume:     s.volume,
		Position:   s.position,
		Duration:   s.duration,
		LyricIndex: s.lyricIndex,
	}
}

func (s *Session) emitState() {
	s.notifier.StateChanged(s.snapshotLocked())
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
