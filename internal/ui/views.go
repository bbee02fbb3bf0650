package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/haryoiro/tunebox/internal/version"
	"github.com/mattn/go-runewidth"
)

// renderSidebar draws the playlist: a header with the close button, then one
// row per track starting at scrollOffset.
func (m *Model) renderSidebar(l layout) string {
	tm := m.themeManager
	cw := max(l.sidebarW-2, 0)

	var content strings.Builder
	header := tm.TitleStyle().Render(padToWidth("Songs", cw-runewidth.StringWidth(CloseLabel)))
	content.WriteString(header + tm.SubtitleStyle().Render(CloseLabel))

	state := m.playerState
	switch {
	case state.PlaylistMessage != "":
		content.WriteString("\n" + m.playlistMessageStyle().Render(truncate(state.PlaylistMessage, cw)))

	default:
		end := min(m.scrollOffset+l.listRows(), len(state.List))
		for i := m.scrollOffset; i < end; i++ {
			marker := strings.Repeat(" ", MarkerWidth)
			if i == state.Current {
				marker = PlayingMarker
			}
			line := marker + truncate(state.List[i].Title, cw-MarkerWidth)

			style := tm.BaseStyle()
			switch {
			case i == m.cursor:
				style = tm.SelectedStyle()
			case i == state.Current:
				style = tm.PlayingStyle()
			}
			content.WriteString("\n" + style.Render(line))
		}
	}

	return tm.PaneStyle(l.sidebarW, l.topHeight).Render(clampLines(content.String(), max(l.topHeight-2, 0)))
}

func (m *Model) playlistMessageStyle() lipgloss.Style {
	if m.playerState.PlaylistError {
		return m.themeManager.ErrorStyle()
	}
	return m.themeManager.SubtitleStyle()
}

func (m *Model) renderMain(l layout) string {
	tm := m.themeManager
	cw := max(l.mainW-2, 0)
	state := m.playerState

	var content strings.Builder
	if l.sidebarOpen {
		content.WriteString(tm.TitleStyle().Render("tunebox"))
	} else {
		content.WriteString(tm.SelectedStyle().Render(OpenSidebarLabel))
	}
	content.WriteString(" " + tm.SubtitleStyle().Render(version.Version))
	content.WriteString("\n\n")

	if state.Title != "" {
		content.WriteString(tm.SubtitleStyle().Render("Now playing") + "\n")
		content.WriteString(tm.PlayingStyle().Render(truncate(state.Title, cw)) + "\n")
		content.WriteString(tm.BaseStyle().Render(fmt.Sprintf("%s  %s", state.Status, state.TimeText)) + "\n\n")
	} else {
		content.WriteString(tm.SubtitleStyle().Render(fmt.Sprintf("%d songs", len(state.List))) + "\n\n")
	}

	for _, line := range m.shortcuts.Lines() {
		content.WriteString(tm.HelpStyle().Render(truncate(line, cw)) + "\n")
	}

	return tm.PaneStyle(l.mainW, l.topHeight).Render(clampLines(content.String(), max(l.topHeight-2, 0)))
}

func (m *Model) applyMarquee(text string, maxLen int) string {
	if runewidth.StringWidth(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	padded := append(append([]rune{}, runes...), []rune("     ")...)
	padded = append(padded, runes...)

	// slower for longer titles
	divisor := 3
	if len(runes) > 60 {
		divisor = 5
	}
	offset := (m.marqueeOffset / divisor) % (len(runes) + 5)

	var result []rune
	width := 0
	for i := offset; i < len(padded); i++ {
		w := runewidth.RuneWidth(padded[i])
		if width+w > maxLen {
			break
		}
		result = append(result, padded[i])
		width += w
	}
	return padToWidth(string(result), maxLen)
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func padToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	current := runewidth.StringWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}
