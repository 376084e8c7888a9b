package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lunamir/aria/internal/catalog"
	"github.com/lunamir/aria/internal/core"
	"github.com/lunamir/aria/internal/library"
	"github.com/lunamir/aria/internal/player"
	"github.com/lunamir/aria/internal/tui/components"
	"github.com/lunamir/aria/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelQueue
	PanelLyrics
	PanelHistory
)

// SearchType represents the type of search to perform
type SearchType int

const (
	SearchTracks SearchType = iota
	SearchAlbums
)

// searchResult represents a search result item
type searchResult struct {
	Track    core.Track
	AlbumID  string
	Title    string
	Subtitle string
	Type     SearchType
}

const searchDebounce = 300 * time.Millisecond

// App holds the dependencies the TUI drives. The session runs in-process:
// every control key maps directly onto a session call and every frame is
// rendered from session snapshots.
type App struct {
	Session  *player.Session
	Catalog  *catalog.Client
	Library  *library.Library
	Messages <-chan string
	Refresh  time.Duration
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	// State
	state   core.PlaybackState
	queue   core.Queue
	history []core.HistoryEntry
	lyrics  *core.Lyrics

	// Components
	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	lyricsView  *components.Lyrics
	historyView *components.History

	// Overlays
	showHelp bool

	// Search state
	showSearch    bool
	searchInput   textinput.Model
	searchResults []searchResult
	searchCursor  int
	searchType    SearchType
	searching     bool
	lastQuery     string

	// Transient status line
	status       string
	statusExpiry time.Time

	// Quit flag
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tracks, albums..."
	ti.CharLimit = 100
	ti.Width = 50

	return Model{
		app:          app,
		focusedPanel: PanelNowPlaying,
		nowPlaying:   components.NewNowPlaying(),
		queueView:    components.NewQueue(),
		lyricsView:   components.NewLyrics(),
		historyView:  components.NewHistory(),
		searchInput:  ti,
	}
}

// Messages
type tickMsg time.Time
type snapshotMsg struct {
	state   core.PlaybackState
	queue   core.Queue
	history []core.HistoryEntry
	lyrics  *core.Lyrics
}
type statusMsg string
type refreshAfterActionMsg struct{}

// Search messages
type searchDebounceMsg struct{ query string }
type searchResultsMsg struct {
	results []searchResult
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{
			state:   m.app.Session.Snapshot(),
			queue:   m.app.Session.Queue(),
			history: m.app.Session.History(),
			lyrics:  m.app.Session.Lyrics(),
		}
	}
}

// drainMessages pulls any pending playback notifications without blocking.
func (m Model) drainMessages() tea.Cmd {
	if m.app.Messages == nil {
		return nil
	}
	select {
	case text := <-m.app.Messages:
		return func() tea.Msg { return statusMsg(text) }
	default:
		return nil
	}
}

func (m Model) doSearch(query string) tea.Cmd {
	searchType := m.searchType
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var results []searchResult
		switch searchType {
		case SearchAlbums:
			for _, album := range m.app.Catalog.SearchAlbums(ctx, query, 10) {
				results = append(results, searchResult{
					AlbumID:  album.ID,
					Title:    album.Title,
					Subtitle: album.Artist + " (Album)",
					Type:     SearchAlbums,
				})
			}
		default:
			for _, track := range m.app.Catalog.SearchTracks(ctx, query, 10) {
				results = append(results, searchResult{
					Track:    track,
					Title:    track.Title,
					Subtitle: track.Artist,
					Type:     SearchTracks,
				})
			}
		}

		return searchResultsMsg{results: results}
	}
}

func (m Model) playSearchResult(result searchResult) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		switch result.Type {
		case SearchAlbums:
			album := m.app.Catalog.Album(ctx, result.AlbumID)
			if album == nil || len(album.Tracks) == 0 {
				return statusMsg("Could not load album " + result.Title)
			}
			_ = m.app.Session.PlayQueue(ctx, album.Tracks, 0)
		default:
			_ = m.app.Session.PlayTrack(ctx, result.Track, false)
		}
		return refreshAfterActionMsg{}
	}
}

func (m Model) queueSearchResult(result searchResult) tea.Cmd {
	return func() tea.Msg {
		m.app.Session.Enqueue(result.Track)
		return refreshAfterActionMsg{}
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.refresh())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tick(), m.refresh(), m.drainMessages())

	case snapshotMsg:
		if time.Now().After(m.statusExpiry) {
			m.status = ""
		}
		m.state = msg.state
		m.queue = msg.queue
		m.history = msg.history
		m.lyrics = msg.lyrics
		return m, nil

	case statusMsg:
		m.status = string(msg)
		m.statusExpiry = time.Now().Add(5 * time.Second)
		return m, nil

	case refreshAfterActionMsg:
		return m, m.refresh()

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}

	case searchResultsMsg:
		m.searching = false
		m.searchResults = msg.results
		m.searchCursor = 0
		return m, nil
	}

	// Forward other messages to textinput when search is active
	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (always work)
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	// Search overlay
	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	// Normal mode
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		m.searchType = SearchTracks
		m.lastQuery = ""
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % 4
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + 3) % 4
		return m, nil
	}

	// Playback controls
	switch msg.String() {
	case " ":
		return m, m.togglePlayPause()
	case "n":
		return m, m.nextTrack()
	case "p":
		return m, m.prevTrack()
	case "s":
		m.app.Session.ToggleShuffle()
		return m, m.refresh()
	case "r":
		m.app.Session.CycleRepeat()
		return m, m.refresh()
	case "+", "=":
		return m, m.volumeUp()
	case "-":
		return m, m.volumeDown()
	case "left":
		return m, m.seekBy(-5)
	case "right":
		return m, m.seekBy(5)
	case "L":
		return m, m.toggleLike()
	}

	// Panel-specific keys
	switch m.focusedPanel {
	case PanelQueue:
		switch msg.String() {
		case "j", "down":
			m.queueView.ScrollDown()
		case "k", "up":
			m.queueView.ScrollUp()
		}
	case PanelLyrics:
		switch msg.String() {
		case "j", "down":
			m.lyricsView.ScrollDown()
		case "k", "up":
			m.lyricsView.ScrollUp()
		}
	}

	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if len(m.searchResults) > 0 && m.searchCursor < len(m.searchResults) {
			result := m.searchResults[m.searchCursor]
			m.showSearch = false
			m.searchInput.Blur()
			return m, m.playSearchResult(result)
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil

	case "ctrl+t":
		// Cycle through search types
		m.searchType = (m.searchType + 1) % 2
		if m.searchInput.Value() != "" {
			m.searching = true
			return m, m.doSearch(m.searchInput.Value())
		}
		return m, nil

	case "ctrl+q":
		// Add to queue (tracks only)
		if len(m.searchResults) > 0 && m.searchCursor < len(m.searchResults) {
			result := m.searchResults[m.searchCursor]
			if result.Type == SearchTracks {
				m.showSearch = false
				m.searchInput.Blur()
				return m, m.queueSearchResult(result)
			}
		}
		return m, nil
	}

	// Handle text input
	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds = append(cmds, inputCmd)

	// Debounce search
	if m.searchInput.Value() != m.lastQuery {
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: m.searchInput.Value()}
		}))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) togglePlayPause() tea.Cmd {
	return func() tea.Msg {
		if m.state.IsPlaying {
			_ = m.app.Session.Pause()
		} else {
			_ = m.app.Session.Resume()
		}
		return refreshAfterActionMsg{}
	}
}

func (m Model) nextTrack() tea.Cmd {
	return func() tea.Msg {
		_ = m.app.Session.Next(context.Background())
		return refreshAfterActionMsg{}
	}
}

func (m Model) prevTrack() tea.Cmd {
	return func() tea.Msg {
		_ = m.app.Session.Previous(context.Background())
		return refreshAfterActionMsg{}
	}
}

func (m Model) volumeUp() tea.Cmd {
	return func() tea.Msg {
		vol := m.state.Volume + 0.05
		if vol > 1 {
			vol = 1
		}
		_ = m.app.Session.SetVolume(vol)
		return refreshAfterActionMsg{}
	}
}

func (m Model) volumeDown() tea.Cmd {
	return func() tea.Msg {
		vol := m.state.Volume - 0.05
		if vol < 0 {
			vol = 0
		}
		_ = m.app.Session.SetVolume(vol)
		return refreshAfterActionMsg{}
	}
}

func (m Model) seekBy(delta float64) tea.Cmd {
	return func() tea.Msg {
		if !m.state.HasTrack() {
			return nil
		}
		pos := m.state.Position + delta
		if pos < 0 {
			pos = 0
		}
		_ = m.app.Session.Seek(pos)
		return refreshAfterActionMsg{}
	}
}

func (m Model) toggleLike() tea.Cmd {
	return func() tea.Msg {
		if !m.state.HasTrack() || m.app.Library == nil {
			return nil
		}
		track := m.state.Track.Track
		if m.app.Library.ToggleLike(track) {
			return statusMsg("Liked " + track.Title)
		}
		return statusMsg("Unliked " + track.Title)
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	// Show overlays if active
	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Main layout: two columns
	// Left: Now Playing (top), Queue (bottom)
	// Right: Lyrics (top), History (bottom)

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	state := m.state
	queue := m.queue

	// Render panels
	nowPlaying := m.nowPlaying.Render(&state, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	queueView := m.queueView.Render(&queue, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	lyricsView := m.lyricsView.Render(m.lyrics, state.LyricIndex, rightWidth-2, topHeight-2, m.focusedPanel == PanelLyrics)
	historyView := m.historyView.Render(m.history, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	// Compose layout
	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, queueView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, lyricsView, historyView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	// Status bar
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  space:play/pause  n:next  p:prev  s:shuffle  r:repeat  +/-:volume")

	if m.status != "" {
		status = styles.Paused.Render(m.status)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Aria - Keyboard Shortcuts"
	divider := styles.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  /            Search
  Tab          Next panel
  Shift+Tab    Previous panel

  Playback
  ────────
  Space        Play/Pause
  n            Next track
  p            Previous track
  s            Toggle shuffle
  r            Cycle repeat mode
  +/=          Volume up
  -            Volume down
  ←/→          Seek 5s
  L            Like/unlike track

  Queue & Lyrics Panels
  ─────────────────────
  j/↓          Scroll down
  k/↑          Scroll up

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	b.WriteString(titleStyle.Render("Search"))
	b.WriteString("\n\n")

	// Search input
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	// Type filter tabs
	tabs := []string{"Tracks", "Albums"}
	activeTabStyle := lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("205")).Foreground(lipgloss.Color("0"))
	tabStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("243"))
	for i, tab := range tabs {
		if SearchType(i) == m.searchType {
			b.WriteString(activeTabStyle.Render(tab))
		} else {
			b.WriteString(tabStyle.Render(tab))
		}
	}
	b.WriteString("\n\n")

	// Results
	subtitleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle := lipgloss.NewStyle().Background(lipgloss.Color("237"))

	if m.searching {
		b.WriteString(subtitleStyle.Render("Searching..."))
	} else if len(m.searchResults) == 0 && m.searchInput.Value() != "" && m.lastQuery != "" {
		b.WriteString(subtitleStyle.Render("No results found"))
	} else {
		maxResults := 10
		for i, result := range m.searchResults {
			if i >= maxResults {
				b.WriteString(subtitleStyle.Render("  ...and more"))
				break
			}

			line := result.Title
			if result.Subtitle != "" {
				line += " " + subtitleStyle.Render(result.Subtitle)
			}

			if i == m.searchCursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	// Help
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Ctrl+t:filter  ↑/↓:nav  Enter:play  Ctrl+q:queue  Esc:close"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the TUI application
func Run(app *App) error {
	model := NewModel(app)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err := p.Run()
	return err
}
