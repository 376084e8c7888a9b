package core

import "fmt"

// PlaybackState is a snapshot of the session for rendering. The session
// engine produces it; sinks (CLI output, TUI) only read it.
type PlaybackState struct {
	Track      *ResolvedTrack `json:"track"`
	IsPlaying  bool           `json:"is_playing"`
	Shuffle    bool           `json:"shuffle"`
	Repeat     RepeatMode     `json:"repeat"`
	Volume     float64        `json:"volume"`   // 0.0 - 1.0
	Position   float64        `json:"position"` // seconds
	Duration   float64        `json:"duration"` // seconds, 0 when unknown
	LyricIndex int            `json:"lyric_index"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent() float64 {
	if s == nil || s.Duration == 0 {
		return 0
	}
	return s.Position / s.Duration * 100
}

// FormatTime renders a second count as m:ss. Negative or unknown values
// render as 0:00.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
