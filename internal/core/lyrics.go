package core

// LyricLine is a single lyric line. Time is the line's start offset in
// seconds from the beginning of the track; it is 0 for unsynced lyrics.
type LyricLine struct {
	Time float64 `json:"time"`
	Text string  `json:"text"`
}

// Lyrics holds the lyric lines for a track. When Synced is false the lines
// carry no timing information and are rendered as a static block.
type Lyrics struct {
	Synced bool        `json:"synced"`
	Lines  []LyricLine `json:"lines"`
}
