package player

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/errors"
	"github.com/lunamir/aria/internal/logging"
	"github.com/lunamir/aria/internal/storage"
)

type fakeResolver struct {
	mu      sync.Mutex
	fail    map[string]error
	blocked map[string]chan struct{}
	calls   []string
}

func (r *fakeResolver) Resolve(ctx context.Context, track core.Track) (string, *core.StreamInfo, error) {
	r.mu.Lock()
	r.calls = append(r.calls, track.ID)
	block := r.blocked[track.ID]
	err := r.fail[track.ID]
	r.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return "", nil, err
	}
	return "vid-" + track.ID, &core.StreamInfo{
		URL:      "https://stream.example/" + track.ID,
		Duration: track.Duration,
	}, nil
}

type fakeTransport struct {
	mu     sync.Mutex
	loads  []string
	paused bool
	dead   bool
}

func (t *fakeTransport) Load(url string, volume float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loads = append(t.loads, url)
	t.paused = false
	t.dead = false
	return nil
}

func (t *fakeTransport) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
	return nil
}

func (t *fakeTransport) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dead {
		return errors.ErrTransportDead
	}
	t.paused = false
	return nil
}

func (t *fakeTransport) Seek(float64) error      { return nil }
func (t *fakeTransport) SetVolume(float64) error { return nil }
func (t *fakeTransport) Stop() error             { return nil }

func (t *fakeTransport) loadCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.loads)
}

func (t *fakeTransport) lastLoad() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.loads) == 0 {
		return ""
	}
	return t.loads[len(t.loads)-1]
}

type fakeNotifier struct {
	mu         sync.Mutex
	messages   []string
	highlights []int
}

func (n *fakeNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *fakeNotifier) StateChanged(core.PlaybackState) {}

func (n *fakeNotifier) LyricHighlight(index int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.highlights = append(n.highlights, index)
}

type fakeLyrics struct {
	set *core.Lyrics
}

func (l *fakeLyrics) GetSynced(ctx context.Context, track, artist, album string, duration int) *core.Lyrics {
	return l.set
}

func track(id string) core.Track {
	return core.Track{ID: id, Title: "Track " + id, Artist: "Artist", Duration: 180, Kind: core.KindTrack}
}

func tracks(n int) []core.Track {
	ts := make([]core.Track, n)
	for i := range ts {
		ts[i] = track(fmt.Sprintf("t%d", i))
	}
	return ts
}

func newTestSession(t *testing.T) (*Session, *fakeResolver, *fakeTransport, *fakeNotifier) {
	t.Helper()
	resolver := &fakeResolver{fail: map[string]error{}, blocked: map[string]chan struct{}{}}
	trans := &fakeTransport{}
	notifier := &fakeNotifier{}
	s := NewSession(resolver, &fakeLyrics{}, trans, notifier, nil, logging.Discard())
	return s, resolver, trans, notifier
}

func TestPlayTrackReplacesQueue(t *testing.T) {
	s, _, trans, _ := newTestSession(t)

	if err := s.PlayTrack(context.Background(), track("a"), false); err != nil {
		t.Fatalf("PlayTrack() error = %v", err)
	}

	q := s.Queue()
	if q.Len() != 1 || q.CurrentIndex != 0 || q.Tracks[0].ID != "a" {
		t.Errorf("queue = %+v", q)
	}
	if s.CurrentState() != StatePlaying {
		t.Errorf("state = %v, want playing", s.CurrentState())
	}
	if trans.lastLoad() != "https://stream.example/a" {
		t.Errorf("loaded %q", trans.lastLoad())
	}
}

func TestPlayTrackSeeksExistingQueueEntry(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 0); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	if err := s.PlayTrack(context.Background(), track("t2"), false); err != nil {
		t.Fatalf("PlayTrack() error = %v", err)
	}

	q := s.Queue()
	if q.Len() != 3 {
		t.Errorf("queue len = %d, want 3 (no duplicate)", q.Len())
	}
	if q.CurrentIndex != 2 {
		t.Errorf("index = %d, want 2", q.CurrentIndex)
	}
}

func TestPlayTrackKeepQueue(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 1); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	if err := s.PlayTrack(context.Background(), track("x"), true); err != nil {
		t.Fatalf("PlayTrack() error = %v", err)
	}

	q := s.Queue()
	if q.Len() != 3 || q.CurrentIndex != 1 {
		t.Errorf("queue mutated: %+v", q)
	}
	if got := s.Snapshot().Track.ID; got != "x" {
		t.Errorf("current track = %s, want x", got)
	}
}

func TestPlayTrackResolutionFailureKeepsPriorState(t *testing.T) {
	s, resolver, _, notifier := newTestSession(t)
	resolver.fail["missing"] = errors.ErrTrackNotFound

	err := s.PlayTrack(context.Background(), track("missing"), false)
	if err == nil {
		t.Fatal("PlayTrack() error = nil, want not-found")
	}
	if s.CurrentState() != StateIdle {
		t.Errorf("state = %v, want idle", s.CurrentState())
	}
	snap := s.Snapshot()
	if snap.HasTrack() {
		t.Error("session has a track after failed resolution")
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.messages) != 1 {
		t.Errorf("notifications = %v, want one", notifier.messages)
	}
}

func TestPlayQueueShufflePinsStartTrack(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	s.ToggleShuffle()

	ts := tracks(10)
	if err := s.PlayQueue(context.Background(), ts, 4); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}

	q := s.Queue()
	if q.CurrentIndex != 0 {
		t.Errorf("index = %d, want 0", q.CurrentIndex)
	}
	if q.Tracks[0].ID != "t4" {
		t.Errorf("pinned track = %s, want t4", q.Tracks[0].ID)
	}

	// The rest must be a permutation of the input minus the pinned track.
	seen := map[string]int{}
	for _, tr := range q.Tracks {
		seen[tr.ID]++
	}
	for _, tr := range ts {
		if seen[tr.ID] != 1 {
			t.Errorf("track %s appears %d times", tr.ID, seen[tr.ID])
		}
	}
}

func TestNextRepeatAllWrapsAfterFullPass(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	s.CycleRepeat() // none -> all

	if err := s.PlayQueue(context.Background(), tracks(3), 0); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Next(context.Background()); err != nil {
			t.Fatalf("Next() #%d error = %v", i+1, err)
		}
	}

	if got := s.Queue().CurrentIndex; got != 0 {
		t.Errorf("index after len(Q) calls = %d, want 0", got)
	}
}

func TestNextRepeatNoneClampsAndPauses(t *testing.T) {
	s, _, trans, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(2), 1); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	if err := s.Next(context.Background()); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if got := s.Queue().CurrentIndex; got != 1 {
		t.Errorf("index = %d, want 1 (clamped)", got)
	}
	if s.CurrentState() != StatePaused {
		t.Errorf("state = %v, want paused", s.CurrentState())
	}
	trans.mu.Lock()
	defer trans.mu.Unlock()
	if !trans.paused {
		t.Error("transport not paused")
	}
}

func TestNextRepeatOneRestartsCurrent(t *testing.T) {
	s, _, trans, _ := newTestSession(t)
	s.CycleRepeat() // all
	s.CycleRepeat() // one

	if err := s.PlayQueue(context.Background(), tracks(3), 1); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	loads := trans.loadCount()
	if err := s.Next(context.Background()); err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if got := s.Queue().CurrentIndex; got != 1 {
		t.Errorf("index = %d, want 1 (unchanged)", got)
	}
	if trans.loadCount() != loads+1 {
		t.Error("current track was not restarted")
	}
	if trans.lastLoad() != "https://stream.example/t1" {
		t.Errorf("restarted %q", trans.lastLoad())
	}
}

func TestPreviousRestartsDeepIntoTrack(t *testing.T) {
	s, _, trans, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 2); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	s.HandleTimeUpdate(10)

	if err := s.Previous(context.Background()); err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if got := s.Queue().CurrentIndex; got != 2 {
		t.Errorf("index = %d, want 2 (restart in place)", got)
	}
	if trans.lastLoad() != "https://stream.example/t2" {
		t.Errorf("restarted %q", trans.lastLoad())
	}
}

func TestPreviousStepsBackNearStart(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 2); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	s.HandleTimeUpdate(2)

	if err := s.Previous(context.Background()); err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if got := s.Queue().CurrentIndex; got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
}

func TestPreviousAtStartClampsToZero(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 0); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	if err := s.Previous(context.Background()); err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if got := s.Queue().CurrentIndex; got != 0 {
		t.Errorf("index = %d, want 0", got)
	}
}

func TestTransportErrorAdvancesQueue(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 0); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	if err := s.HandleError(context.Background(), fmt.Errorf("decode failure")); err != nil {
		t.Fatalf("HandleError() error = %v", err)
	}
	if got := s.Queue().CurrentIndex; got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
	if s.CurrentState() != StatePlaying {
		t.Errorf("state = %v, want playing", s.CurrentState())
	}
}

func TestHistoryDedupAndPromote(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "a"} {
		if err := s.PlayTrack(ctx, track(id), false); err != nil {
			t.Fatalf("PlayTrack(%s) error = %v", id, err)
		}
	}

	h := s.History()
	if len(h) != 2 {
		t.Fatalf("history len = %d, want 2", len(h))
	}
	if h[0].Track.ID != "a" || h[1].Track.ID != "b" {
		t.Errorf("history = [%s, %s], want [a, b]", h[0].Track.ID, h[1].Track.ID)
	}
	if h[0].PlayedAt.Before(h[1].PlayedAt) {
		t.Error("promoted entry did not get a fresh timestamp")
	}
}

func TestHistoryCap(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	ctx := context.Background()

	for i := 0; i < historyLimit+10; i++ {
		if err := s.PlayTrack(ctx, track(fmt.Sprintf("h%d", i)), false); err != nil {
			t.Fatalf("PlayTrack() error = %v", err)
		}
	}
	if got := len(s.History()); got != historyLimit {
		t.Errorf("history len = %d, want %d", got, historyLimit)
	}
}

func TestStaleResolutionDiscarded(t *testing.T) {
	s, resolver, _, _ := newTestSession(t)
	release := make(chan struct{})
	resolver.blocked["slow"] = release

	done := make(chan error, 1)
	go func() {
		done <- s.PlayTrack(context.Background(), track("slow"), false)
	}()

	// Wait until the slow resolution is in flight.
	for {
		resolver.mu.Lock()
		n := len(resolver.calls)
		resolver.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := s.PlayTrack(context.Background(), track("fast"), false); err != nil {
		t.Fatalf("PlayTrack(fast) error = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("PlayTrack(slow) error = %v", err)
	}

	if got := s.Snapshot().Track.ID; got != "fast" {
		t.Errorf("current track = %s, want fast (stale resolution applied)", got)
	}
}

func TestSeekClamps(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayTrack(context.Background(), track("a"), false); err != nil {
		t.Fatalf("PlayTrack() error = %v", err)
	}

	if err := s.Seek(500); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if got := s.Snapshot().Position; got != 180 {
		t.Errorf("position = %v, want 180 (clamped to duration)", got)
	}

	if err := s.Seek(-5); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if got := s.Snapshot().Position; got != 0 {
		t.Errorf("position = %v, want 0", got)
	}
}

func TestLyricHighlightEmitsOnChangeOnly(t *testing.T) {
	s, _, _, notifier := newTestSession(t)
	s.lyrics = &fakeLyrics{set: &core.Lyrics{
		Synced: true,
		Lines: []core.LyricLine{
			{Time: 5, Text: "one"},
			{Time: 10, Text: "two"},
		},
	}}

	if err := s.PlayTrack(context.Background(), track("a"), false); err != nil {
		t.Fatalf("PlayTrack() error = %v", err)
	}

	// Lyric resolution is asynchronous; wait for it to land.
	deadline := time.After(time.Second)
	for s.Lyrics() == nil {
		select {
		case <-deadline:
			t.Fatal("lyrics never loaded")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	s.HandleTimeUpdate(6)
	s.HandleTimeUpdate(7) // same line, no new event
	s.HandleTimeUpdate(10)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	want := []int{0, 1}
	if len(notifier.highlights) != len(want) {
		t.Fatalf("highlights = %v, want %v", notifier.highlights, want)
	}
	for i := range want {
		if notifier.highlights[i] != want[i] {
			t.Errorf("highlights = %v, want %v", notifier.highlights, want)
		}
	}
}

func TestQueueSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.db")
	store, err := storage.Open(path, logging.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	resolver := &fakeResolver{fail: map[string]error{}, blocked: map[string]chan struct{}{}}
	s := NewSession(resolver, &fakeLyrics{}, &fakeTransport{}, nil, store, logging.Discard())
	if err := s.PlayQueue(context.Background(), tracks(3), 1); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}

	restored := NewSession(resolver, &fakeLyrics{}, &fakeTransport{}, nil, store, logging.Discard())
	q := restored.Queue()
	if q.Len() != 3 || q.CurrentIndex != 1 {
		t.Errorf("restored queue = %+v", q)
	}
}

func TestVolumeClampAndPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.db")
	store, err := storage.Open(path, logging.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	resolver := &fakeResolver{fail: map[string]error{}, blocked: map[string]chan struct{}{}}
	s := NewSession(resolver, &fakeLyrics{}, &fakeTransport{}, nil, store, logging.Discard())

	if err := s.SetVolume(1.7); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if got := s.Snapshot().Volume; got != 1.0 {
		t.Errorf("volume = %v, want 1.0", got)
	}
	s.ToggleShuffle()
	s.CycleRepeat()

	restored := NewSession(resolver, &fakeLyrics{}, &fakeTransport{}, nil, store, logging.Discard())
	snap := restored.Snapshot()
	if snap.Volume != 1.0 || !snap.Shuffle || snap.Repeat != core.RepeatAll {
		t.Errorf("restored state = %+v", snap)
	}
}

func TestEnqueueAppendsWithoutStartingPlayback(t *testing.T) {
	s, _, trans, _ := newTestSession(t)

	s.Enqueue(track("a"))
	s.Enqueue(track("b"))

	q := s.Queue()
	if q.Len() != 2 || q.Tracks[0].ID != "a" || q.Tracks[1].ID != "b" {
		t.Errorf("queue = %+v", q)
	}
	if q.CurrentIndex != -1 {
		t.Errorf("index = %d, want -1", q.CurrentIndex)
	}
	if s.CurrentState() != StateIdle {
		t.Errorf("state = %v, want idle", s.CurrentState())
	}
	if trans.loadCount() != 0 {
		t.Errorf("transport loaded %d streams, want 0", trans.loadCount())
	}
}

func TestPlayNextInsertsAfterCurrent(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 0); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	s.PlayNext(track("x"))

	q := s.Queue()
	want := []string{"t0", "x", "t1", "t2"}
	if q.Len() != len(want) {
		t.Fatalf("queue length = %d, want %d", q.Len(), len(want))
	}
	for i, id := range want {
		if q.Tracks[i].ID != id {
			t.Errorf("queue[%d] = %s, want %s", i, q.Tracks[i].ID, id)
		}
	}

	if err := s.Next(context.Background()); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got := s.Snapshot().Track.ID; got != "x" {
		t.Errorf("playing %s after Next(), want x", got)
	}
}

func TestPlayNextAppendsWhenNothingSelected(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	s.PlayNext(track("a"))

	q := s.Queue()
	if q.Len() != 1 || q.Tracks[0].ID != "a" || q.CurrentIndex != -1 {
		t.Errorf("queue = %+v", q)
	}
}

func TestClearQueueEmptiesAndGoesIdleOnEnd(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(3), 0); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	s.ClearQueue()

	q := s.Queue()
	if !q.IsEmpty() || q.CurrentIndex != -1 {
		t.Errorf("queue = %+v, want empty", q)
	}
	if s.CurrentState() != StatePlaying {
		t.Errorf("state = %v, want playing (current track keeps going)", s.CurrentState())
	}

	if err := s.HandleEnded(context.Background()); err != nil {
		t.Fatalf("HandleEnded() error = %v", err)
	}
	if s.CurrentState() != StateIdle {
		t.Errorf("state = %v, want idle", s.CurrentState())
	}
	if s.Snapshot().Track != nil {
		t.Error("track still set after queue drained")
	}
}

func TestEnqueuePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.db")
	store, err := storage.Open(path, logging.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	resolver := &fakeResolver{fail: map[string]error{}, blocked: map[string]chan struct{}{}}
	s := NewSession(resolver, &fakeLyrics{}, &fakeTransport{}, nil, store, logging.Discard())
	s.Enqueue(track("a"))
	s.PlayNext(track("b"))

	restored := NewSession(resolver, &fakeLyrics{}, &fakeTransport{}, nil, store, logging.Discard())
	q := restored.Queue()
	if q.Len() != 2 || q.Tracks[0].ID != "a" || q.Tracks[1].ID != "b" {
		t.Errorf("restored queue = %+v", q)
	}
}

func TestResumeReloadsDeadStream(t *testing.T) {
	s, _, trans, _ := newTestSession(t)

	if err := s.PlayQueue(context.Background(), tracks(2), 1); err != nil {
		t.Fatalf("PlayQueue() error = %v", err)
	}
	// Last track ends: the queue clamps and the session pauses while
	// the underlying process is gone.
	if err := s.HandleEnded(context.Background()); err != nil {
		t.Fatalf("HandleEnded() error = %v", err)
	}
	if s.CurrentState() != StatePaused {
		t.Fatalf("state = %v, want paused", s.CurrentState())
	}
	trans.mu.Lock()
	trans.dead = true
	loadsBefore := len(trans.loads)
	trans.mu.Unlock()

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if s.CurrentState() != StatePlaying {
		t.Errorf("state = %v, want playing", s.CurrentState())
	}
	if trans.loadCount() != loadsBefore+1 {
		t.Errorf("loads = %d, want %d (stream reloaded)", trans.loadCount(), loadsBefore+1)
	}
	if trans.lastLoad() != "https://stream.example/t1" {
		t.Errorf("reloaded %q", trans.lastLoad())
	}
}
