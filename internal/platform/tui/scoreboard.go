package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/videobydak/castle-pong/internal/registry"
	"github.com/videobydak/castle-pong/internal/storage"
)

// Scoreboard layout constants
const (
	maxScores = 100 // Max scores to load
	maxRuns   = 50  // Max simulation runs to load
)

// boardView is what the scoreboard table shows.
type boardView int

const (
	viewScores boardView = iota
	viewRuns
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Runs     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.Runs, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Runs, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Runs: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "scores/runs"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type boardStyles struct {
	title lipgloss.Style
	tab   lipgloss.Style
	act   lipgloss.Style
	frame lipgloss.Style
	empty lipgloss.Style
	help  lipgloss.Style
	table table.Styles
}

func newBoardStyles(r *lipgloss.Renderer) boardStyles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	ts := table.DefaultStyles()
	ts.Header = r.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	ts.Cell = r.NewStyle().Padding(0, 1)
	ts.Selected = r.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))

	return boardStyles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		tab:   r.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
		act:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1),
		frame: r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		empty: r.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
		help:  r.NewStyle().Foreground(lipgloss.Color("241")),
		table: ts,
	}
}

// ScoreboardModel is the Bubble Tea model for the high score and run
// history screen.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	view       boardView
	store      *storage.Store
	stats      *storage.GameStats
	rows       int // rows loaded into the table
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	styles     boardStyles
	width      int
	height     int
	quitting   bool
	goingBack  bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		styles: newBoardStyles(nil),
		width:  width,
		height: height,
	}
	m.reload()
	return m
}

// WithRenderer returns a copy of m styled for the output of r.
func (m ScoreboardModel) WithRenderer(r *lipgloss.Renderer) ScoreboardModel {
	m.styles = newBoardStyles(r)
	m.reload()
	return m
}

func (m *ScoreboardModel) currentGame() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.gameCursor].ID
}

// reload rebuilds the table for the current view and game.
func (m *ScoreboardModel) reload() {
	var (
		columns []table.Column
		rows    []table.Row
	)
	switch m.view {
	case viewRuns:
		columns, rows = m.runRows()
	default:
		columns, rows = m.scoreRows()
	}

	m.rows = len(rows)
	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // header, tabs, help and margins
		table.WithStyles(m.styles.table),
	)
}

func (m *ScoreboardModel) scoreRows() ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 10},
		{Title: "Wave", Width: 5},
		{Title: "When", Width: 16},
	}

	m.stats = nil
	if m.store == nil || len(m.games) == 0 {
		return columns, nil
	}
	gameID := m.currentGame()
	if stats, err := m.store.GetGameStats(gameID); err == nil {
		m.stats = stats
	}
	scores, err := m.store.TopScores(gameID, maxScores)
	if err != nil {
		return columns, nil
	}

	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			humanize.Comma(int64(s.Score)),
			fmt.Sprintf("%d", s.Wave),
			humanize.Time(s.CreatedAt),
		}
	}
	return columns, rows
}

func (m *ScoreboardModel) runRows() ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Run", Width: 8},
		{Title: "Mode", Width: 14},
		{Title: "Score", Width: 10},
		{Title: "Wave", Width: 5},
		{Title: "Result", Width: 8},
		{Title: "When", Width: 16},
	}

	if m.store == nil {
		return columns, nil
	}
	runs, err := m.store.RecentRuns(maxRuns)
	if err != nil {
		return columns, nil
	}

	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		result := "lost"
		if r.Won {
			result = "won"
		}
		rows[i] = table.Row{
			r.ID[:min(8, len(r.ID))],
			r.GameID,
			humanize.Comma(int64(r.Score)),
			fmt.Sprintf("%d", r.Wave),
			result,
			humanize.Time(r.CreatedAt),
		}
	}
	return columns, rows
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Runs):
			m.view = 1 - m.view
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 && m.view == viewScores {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 && m.view == viewScores {
				m.gameCursor = (m.gameCursor + len(m.games) - 1) % len(m.games)
				m.reload()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}
	st := m.styles

	var b strings.Builder
	b.WriteString("\n")

	title := "HIGH SCORES"
	if m.view == viewRuns {
		title = "SIMULATION RUNS"
	}
	b.WriteString(centerText(st.title.Render(title), m.width))
	b.WriteString("\n\n")

	if m.view == viewScores && len(m.games) > 0 {
		tabs := make([]string, len(m.games))
		for i, g := range m.games {
			if i == m.gameCursor {
				tabs[i] = st.act.Render(g.Title)
			} else {
				tabs[i] = st.tab.Render(g.Title)
			}
		}
		b.WriteString(centerText(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width))
		b.WriteString("\n")
		if line := m.statsLine(); line != "" {
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var body string
	switch {
	case m.rows > 0:
		body = m.table.View()
	case m.view == viewRuns:
		body = st.empty.Render("No runs recorded yet.\nTry 'castlepong simulate'.")
	default:
		body = st.empty.Render("No scores recorded yet.\nHold the wall to set a high score!")
	}
	b.WriteString(centerBlock(st.frame.Render(body), m.width))

	b.WriteString("\n\n")
	b.WriteString(centerText(st.help.Render(m.help.View(m.keys)), m.width))

	return b.String()
}

// statsLine summarises the selected mode's history.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("%s games  |  best wave %d  |  avg %s  |  last played %s",
		humanize.Comma(int64(m.stats.GamesCount)),
		m.stats.BestWave,
		humanize.CommafWithDigits(m.stats.AvgScore, 0),
		humanize.Time(m.stats.LastPlayed),
	)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
