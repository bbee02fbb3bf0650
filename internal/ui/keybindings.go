package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/haryoiro/tunebox/internal/logger"
	"github.com/haryoiro/tunebox/internal/structures"
)

// isKey checks if the pressed key matches the configured keybinding
func isKey(msg tea.KeyMsg, key string) bool {
	if key == "" {
		return false
	}

	switch key {
	case "ctrl+c":
		return msg.Type == tea.KeyCtrlC
	case "ctrl+d":
		return msg.Type == tea.KeyCtrlD
	case "space":
		return msg.Type == tea.KeySpace
	case "enter":
		return msg.Type == tea.KeyEnter
	case "esc":
		return msg.Type == tea.KeyEsc
	case "tab":
		return msg.Type == tea.KeyTab
	case "up":
		return msg.Type == tea.KeyUp
	case "down":
		return msg.Type == tea.KeyDown
	case "left":
		return msg.Type == tea.KeyLeft
	case "right":
		return msg.Type == tea.KeyRight
	case "pgup":
		return msg.Type == tea.KeyPgUp
	case "pgdown":
		return msg.Type == tea.KeyPgDown
	default:
		return msg.Type == tea.KeyRunes && !msg.Alt && msg.String() == key
	}
}

// isKeyInList checks if the pressed key matches any of the bindings
func isKeyInList(msg tea.KeyMsg, bindings []string) bool {
	for _, binding := range bindings {
		if isKey(msg, binding) {
			return true
		}
	}
	return false
}

// handleKeyPress maps a key to a player action or a cursor move
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kb := m.config.KeyBindings
	logger.Debug("Key event: type=%d, string=%s", msg.Type, msg.String())

	if isKeyInList(msg, kb.Quit) {
		return m, tea.Quit
	}

	switch {
	case isKey(msg, kb.PlayPause):
		m.player.SendAction(structures.PlayPauseAction{})
	case isKeyInList(msg, kb.Next):
		m.player.SendAction(structures.NextAction{})
	case isKeyInList(msg, kb.Previous):
		m.player.SendAction(structures.PreviousAction{})
	case isKey(msg, kb.SeekForward):
		m.player.SendAction(structures.ForwardAction{})
	case isKey(msg, kb.SeekBackward):
		m.player.SendAction(structures.BackwardAction{})
	case isKeyInList(msg, kb.VolumeUp):
		m.player.SendAction(structures.VolumeUpAction{})
	case isKeyInList(msg, kb.VolumeDown):
		m.player.SendAction(structures.VolumeDownAction{})
	case isKey(msg, kb.ToggleSidebar):
		if m.playerState.SidebarOpen {
			m.player.SendAction(structures.CloseSidebarAction{})
		} else {
			m.player.SendAction(structures.OpenSidebarAction{})
		}
	case isKey(msg, kb.CloseSidebar):
		m.player.SendAction(structures.CloseSidebarAction{})
	case isKeyInList(msg, kb.MoveUp):
		return m.moveUp()
	case isKeyInList(msg, kb.MoveDown):
		return m.moveDown()
	case isKeyInList(msg, kb.Select):
		return m.playSelectedTrack()
	case msg.String() == "g":
		return m.jumpToTop()
	case msg.String() == "G":
		return m.jumpToBottom()
	case isKey(msg, "pgup"):
		return m.pageUp()
	case isKey(msg, "pgdown"):
		return m.pageDown()
	}
	return m, nil
}
