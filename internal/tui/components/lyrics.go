package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/tui/styles"
)

// Lyrics displays lyrics for the current track. For synced lyrics the view
// follows the highlighted line; otherwise it scrolls manually.
type Lyrics struct {
	offset int
}

// NewLyrics creates a new Lyrics component
func NewLyrics() *Lyrics {
	return &Lyrics{}
}

// ScrollDown scrolls the lyrics down
func (l *Lyrics) ScrollDown() {
	l.offset++
}

// ScrollUp scrolls the lyrics up
func (l *Lyrics) ScrollUp() {
	if l.offset > 0 {
		l.offset--
	}
}

// Render renders the lyrics panel
func (l *Lyrics) Render(lyrics *core.Lyrics, highlight, width, height int, focused bool) string {
	title := styles.PanelTitle("Lyrics", focused)

	var content string
	if lyrics == nil || len(lyrics.Lines) == 0 {
		content = styles.Muted.Render("No lyrics available")
	} else {
		content = l.renderLines(lyrics, highlight, width-4, height-4)
	}

	panel := styles.Panel("", focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (l *Lyrics) renderLines(lyrics *core.Lyrics, highlight, width, maxLines int) string {
	if maxLines < 1 {
		maxLines = 1
	}

	start := l.offset
	if lyrics.Synced && highlight >= 0 {
		// Keep the highlighted line vertically centered
		start = highlight - maxLines/2
	}
	if start > len(lyrics.Lines)-maxLines {
		start = len(lyrics.Lines) - maxLines
	}
	if start < 0 {
		start = 0
	}

	end := start + maxLines
	if end > len(lyrics.Lines) {
		end = len(lyrics.Lines)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := truncate(lyrics.Lines[i].Text, width)
		if text == "" {
			text = "♪"
		}

		switch {
		case i == highlight:
			lines = append(lines, styles.LyricCurrent.Render(text))
		case lyrics.Synced && highlight >= 0 && i < highlight:
			lines = append(lines, styles.Dim.Render(text))
		default:
			lines = append(lines, styles.Subtitle.Render(text))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
