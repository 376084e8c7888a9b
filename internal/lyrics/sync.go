package lyrics

import "github.com/lunamir/aria/internal/core"

// HighlightIndex returns the index of the lyric line active at the given
// playback position: the last line whose timestamp is at or before the
// position. It returns -1 when no line has started yet or the lyrics are
// unsynced.
func HighlightIndex(l *core.Lyrics, position float64) int {
	if l == nil || !l.Synced {
		return -1
	}
	for i := len(l.Lines) - 1; i >= 0; i-- {
		if l.Lines[i].Time <= position {
			return i
		}
	}
	return -1
}
