package lyrics

import (
	"testing"

	"github.com/lunamir/aria/internal/core"
)

func syncedLyrics() *core.Lyrics {
	return &core.Lyrics{
		Synced: true,
		Lines: []core.LyricLine{
			{Time: 5, Text: "one"},
			{Time: 12, Text: "two"},
			{Time: 62.5, Text: "three"},
		},
	}
}

func TestHighlightIndex(t *testing.T) {
	l := syncedLyrics()

	tests := []struct {
		position float64
		want     int
	}{
		{0, -1},
		{4.9, -1},
		{5, 0}, // boundary is inclusive
		{11.9, 0},
		{12, 1},
		{62.5, 2},
		{300, 2},
	}
	for _, tt := range tests {
		if got := HighlightIndex(l, tt.position); got != tt.want {
			t.Errorf("HighlightIndex(%v) = %d, want %d", tt.position, got, tt.want)
		}
	}
}

func TestHighlightIndexUnsynced(t *testing.T) {
	l := &core.Lyrics{Lines: []core.LyricLine{{Text: "static"}}}
	if got := HighlightIndex(l, 100); got != -1 {
		t.Errorf("HighlightIndex() = %d, want -1 for unsynced lyrics", got)
	}
	if got := HighlightIndex(nil, 100); got != -1 {
		t.Errorf("HighlightIndex(nil) = %d, want -1", got)
	}
}
