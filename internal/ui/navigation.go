package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/structures"
)

func (m *Model) trackCount() int {
	return len(m.playerState.List)
}

func (m *Model) moveUp() (tea.Model, tea.Cmd) {
	if m.cursor > 0 {
		m.cursor--
		m.adjustScroll()
	}
	return m, nil
}

func (m *Model) moveDown() (tea.Model, tea.Cmd) {
	if m.cursor < m.trackCount()-1 {
		m.cursor++
		m.adjustScroll()
	}
	return m, nil
}

func (m *Model) jumpToTop() (tea.Model, tea.Cmd) {
	m.cursor = 0
	m.adjustScroll()
	return m, nil
}

func (m *Model) jumpToBottom() (tea.Model, tea.Cmd) {
	m.cursor = max(m.trackCount()-1, 0)
	m.adjustScroll()
	return m, nil
}

func (m *Model) pageUp() (tea.Model, tea.Cmd) {
	m.cursor = max(m.cursor-max(m.layout().listRows(), 1), 0)
	m.adjustScroll()
	return m, nil
}

func (m *Model) pageDown() (tea.Model, tea.Cmd) {
	m.cursor = min(m.cursor+max(m.layout().listRows(), 1), max(m.trackCount()-1, 0))
	m.adjustScroll()
	return m, nil
}

// playSelectedTrack plays the track under the cursor; with the sidebar
// closed it opens the sidebar instead.
func (m *Model) playSelectedTrack() (tea.Model, tea.Cmd) {
	if !m.playerState.SidebarOpen {
		m.player.SendAction(structures.OpenSidebarAction{})
		return m, nil
	}
	if m.cursor < m.trackCount() {
		m.player.SendAction(structures.SelectTrackAction{Index: m.cursor})
	}
	return m, nil
}

// adjustScroll keeps the cursor visible with a little padding
func (m *Model) adjustScroll() {
	rows := m.layout().listRows()
	if rows < 1 {
		m.scrollOffset = 0
		return
	}

	padding := min(constants.ScrollPadding, (rows-1)/2)
	if m.cursor-padding < m.scrollOffset {
		m.scrollOffset = m.cursor - padding
	}
	if m.cursor+padding >= m.scrollOffset+rows {
		m.scrollOffset = m.cursor + padding - rows + 1
	}

	maxOffset := max(m.trackCount()-rows, 0)
	m.scrollOffset = min(max(m.scrollOffset, 0), maxOffset)
}
