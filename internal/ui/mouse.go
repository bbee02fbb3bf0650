package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/haryoiro/tunebox/internal/structures"
	"github.com/mattn/go-runewidth"
)

func (m *Model) handleMouseEvent(mouse tea.MouseMsg) (tea.Model, tea.Cmd) {
	if mouse.Action != tea.MouseActionPress {
		return m, nil
	}

	switch mouse.Button {
	case tea.MouseButtonLeft:
		return m.handleMouseClick(mouse.X, mouse.Y)
	case tea.MouseButtonWheelUp:
		return m.moveUp()
	case tea.MouseButtonWheelDown:
		return m.moveDown()
	}
	return m, nil
}

func (m *Model) handleMouseClick(x, y int) (tea.Model, tea.Cmd) {
	l := m.layout()

	if y >= l.playerTop {
		return m.handlePlayerClick(l, x, y-l.playerTop)
	}
	if l.sidebarOpen && x < l.sidebarW {
		return m.handleSidebarClick(l, x, y)
	}
	return m.handleMainClick(l, x, y)
}

// handlePlayerClick handles the seek bar (row 2) and the buttons (row 3);
// row 0 is the top border.
func (m *Model) handlePlayerClick(l layout, x, row int) (tea.Model, tea.Cmd) {
	switch row {
	case 2:
		if x >= l.barX && x < l.barX+l.barWidth {
			m.player.SendAction(structures.SeekAction{
				X:     float64(x - l.barX),
				Width: float64(l.barWidth),
			})
		}
	case 3:
		switch m.controlAt(l, x) {
		case PrevLabel:
			m.player.SendAction(structures.PreviousAction{})
		case PlayLabel:
			m.player.SendAction(structures.PlayAction{})
		case PauseLabel:
			m.player.SendAction(structures.PauseAction{})
		case NextLabel:
			m.player.SendAction(structures.NextAction{})
		}
	}
	return m, nil
}

// handleSidebarClick handles the close button on the header row and the
// playlist rows below it.
func (m *Model) handleSidebarClick(l layout, x, y int) (tea.Model, tea.Cmd) {
	contentRight := l.sidebarW - 1
	switch {
	case y == 1:
		if x >= contentRight-runewidth.StringWidth(CloseLabel) && x < contentRight {
			m.player.SendAction(structures.CloseSidebarAction{})
		}
	case y >= 2 && y < 2+l.listRows():
		index := m.scrollOffset + y - 2
		if m.playerState.PlaylistMessage == "" && index < m.trackCount() {
			m.cursor = index
			m.player.SendAction(structures.SelectTrackAction{Index: index})
		}
	}
	return m, nil
}

func (m *Model) handleMainClick(l layout, x, y int) (tea.Model, tea.Cmd) {
	start := l.mainX + 1
	if !l.sidebarOpen && y == 1 && x >= start && x < start+runewidth.StringWidth(OpenSidebarLabel) {
		m.player.SendAction(structures.OpenSidebarAction{})
	}
	return m, nil
}
