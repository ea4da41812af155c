package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/videobydak/castle-pong/internal/core"
	"github.com/videobydak/castle-pong/internal/registry"
	"github.com/videobydak/castle-pong/internal/storage"
)

// MenuItem represents a selectable game mode in the menu.
type MenuItem struct {
	GameID   string
	Title    string
	Blurb    string
	Best     int // high score, 0 when none is stored
	BestWave int
	Played   int
}

// blurbs describe the registered modes.
var blurbs = map[string]string{
	"siege":         "Clear every wave of castles to win.",
	"siege_endless": "Castles keep coming until your wall falls.",
}

var controlsHelp = []string{
	"bottom  left/right     top    a/d",
	"left    w/s            right  up/down",
	"space   bump paddles   p      pause",
}

type menuStyles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	item     lipgloss.Style
	selected lipgloss.Style
	blurb    lipgloss.Style
	stats    lipgloss.Style
	controls lipgloss.Style
	footer   lipgloss.Style
}

func newMenuStyles(r *lipgloss.Renderer) menuStyles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return menuStyles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		subtitle: r.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		item:     r.NewStyle().Foreground(lipgloss.Color("252")),
		selected: r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		blurb:    r.NewStyle().Foreground(lipgloss.Color("245")),
		stats:    r.NewStyle().Foreground(lipgloss.Color("3")),
		controls: r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2),
		footer:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// MenuModel is the Bubble Tea model for the mode picker menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	styles         menuStyles
	quitting       bool
	selected       *MenuItem // Set when user selects a game
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. Stats come from store when it is
// not nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	var stats map[string]*storage.GameStats
	if store != nil {
		stats, _ = store.GetAllGamesStats()
	}

	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title, Blurb: blurbs[g.ID]}
		if st, ok := stats[g.ID]; ok {
			item.Best = st.HighScore
			item.BestWave = st.BestWave
			item.Played = st.GamesCount
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		styles:    newMenuStyles(nil),
	}
}

// WithRenderer returns a copy of m styled for the output of r.
func (m MenuModel) WithRenderer(r *lipgloss.Renderer) MenuModel {
	m.styles = newMenuStyles(r)
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = max(m.cursor-1, 0)

	case MenuActionDown:
		m.cursor = min(m.cursor+1, max(len(m.items)-1, 0))

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	st := m.styles

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(st.title.Render("C A S T L E   P O N G"), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(st.subtitle.Render("Hold the wall. Bring the castle down."), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title + "  "
		if i == m.cursor {
			line = st.selected.Render("> " + item.Title + "  ")
		} else {
			line = st.item.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")

		if i == m.cursor {
			if item.Blurb != "" {
				b.WriteString(centerText(st.blurb.Render(item.Blurb), m.width))
				b.WriteString("\n")
			}
			if item.Played > 0 {
				stats := fmt.Sprintf("best %s  |  wave %d  |  %s played",
					humanize.Comma(int64(item.Best)), item.BestWave, humanize.Comma(int64(item.Played)))
				b.WriteString(centerText(st.stats.Render(stats), m.width))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(centerBlock(st.controls.Render(strings.Join(controlsHelp, "\n")), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(st.footer.Render("Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers a single, possibly styled, line within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// centerBlock centers every line of a multi-line block by its widest line.
func centerBlock(block string, width int) string {
	w := lipgloss.Width(block)
	if w >= width {
		return block
	}
	pad := strings.Repeat(" ", (width-w)/2)
	lines := strings.Split(block, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result, nil
}
