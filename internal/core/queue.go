package core

// RepeatMode controls what happens when the queue pointer runs off either
// end.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none"
	RepeatAll  RepeatMode = "all"
	RepeatOne  RepeatMode = "one"
)

// CycleRepeat returns the next mode in the none -> all -> one cycle.
func CycleRepeat(m RepeatMode) RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatNone
	}
}

// Queue represents a playback queue. CurrentIndex is -1 when nothing is
// selected; otherwise it is always a valid position in Tracks.
type Queue struct {
	Tracks       []Track `json:"tracks"`
	CurrentIndex int     `json:"current_index"`
}

// Current returns the currently selected track, or nil if the queue is
// empty or nothing is selected.
func (q *Queue) Current() *Track {
	if q == nil || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks) {
		return nil
	}
	return &q.Tracks[q.CurrentIndex]
}

// Upcoming returns tracks after the current position.
func (q *Queue) Upcoming() []Track {
	if q == nil || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks)-1 {
		return nil
	}
	return q.Tracks[q.CurrentIndex+1:]
}

// Len returns the total number of tracks in the queue.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// IndexOf returns the position of the track with the given id, or -1.
func (q *Queue) IndexOf(id string) int {
	if q == nil {
		return -1
	}
	for i, t := range q.Tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
