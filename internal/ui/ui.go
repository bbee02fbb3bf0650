package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/structures"
	"github.com/mattn/go-runewidth"
)

func init() {
	runewidth.DefaultCondition.EastAsianWidth = false
}

// Player is the part of the player system the UI talks to
type Player interface {
	SendAction(action structures.SoundAction)
	GetState() structures.PlayerState
	Updates() <-chan structures.PlayerState
}

type Model struct {
	player       Player
	config       *structures.Config
	themeManager *ThemeManager
	shortcuts    *ShortcutFormatter

	width  int
	height int

	// playlist cursor, independent of the playing track
	cursor       int
	scrollOffset int

	playerState   structures.PlayerState
	marqueeOffset int
}

type tickMsg time.Time
type playerUpdateMsg structures.PlayerState

// NewModel builds the terminal UI model over a player
func NewModel(player Player, config *structures.Config) *Model {
	return &Model{
		player:       player,
		config:       config,
		themeManager: NewThemeManager(config.Theme),
		shortcuts:    NewShortcutFormatter(config),
		playerState:  player.GetState(),
	}
}

// Run starts the terminal UI and blocks until the user quits
func Run(player Player, config *structures.Config) error {
	m := NewModel(player, config)

	opts := []tea.ProgramOption{
		tea.WithMouseCellMotion(),
	}
	if !config.Client.DisableAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	// the playlist starts visible
	m.player.SendAction(structures.OpenSidebarAction{})
	return tea.Batch(
		m.tickCmd(),
		m.listenToPlayer(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.adjustScroll()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case tickMsg:
		m.marqueeOffset++
		return m, m.tickCmd()

	case playerUpdateMsg:
		m.applyState(structures.PlayerState(msg))
		return m, m.listenToPlayer()
	}

	return m, nil
}

// applyState follows the playing track with the cursor when it changes
func (m *Model) applyState(state structures.PlayerState) {
	previous := m.playerState.Current
	m.playerState = state

	if state.Current >= 0 && state.Current != previous {
		m.cursor = state.Current
	}
	if m.cursor >= len(state.List) {
		m.cursor = max(len(state.List)-1, 0)
	}
	m.adjustScroll()
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	var top string
	if l.sidebarOpen {
		top = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderSidebar(l),
			m.renderMain(l),
		)
	} else {
		top = m.renderMain(l)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		m.renderPlayer(l),
	)
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listenToPlayer waits for the next snapshot from the player system
func (m *Model) listenToPlayer() tea.Cmd {
	updates := m.player.Updates()
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return playerUpdateMsg(state)
	}
}

// layout holds the screen geometry shared by rendering and mouse hit tests
type layout struct {
	width       int
	height      int
	topHeight   int
	sidebarOpen bool
	sidebarW    int
	mainX       int
	mainW       int
	playerTop   int
	barX        int
	barWidth    int
}

func (m *Model) layout() layout {
	l := layout{
		width:       m.width,
		height:      m.height,
		sidebarOpen: m.playerState.SidebarOpen,
	}

	playerHeight := min(constants.DefaultPlayerHeight, m.height)
	l.topHeight = m.height - playerHeight
	l.playerTop = l.topHeight

	if l.sidebarOpen {
		l.sidebarW = min(constants.SidebarWidth, m.width/2)
	}
	l.mainX = l.sidebarW
	l.mainW = m.width - l.sidebarW

	// border and one cell of padding on each side
	l.barX = 2
	l.barWidth = max(m.width-4, 0)
	return l
}

// listRows is the number of playlist rows visible in the sidebar
func (l layout) listRows() int {
	return max(l.topHeight-3, 0)
}

func clampLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
