package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/mattn/go-runewidth"
)

func (m *Model) renderPlayer(l layout) string {
	tm := m.themeManager
	contentWidth := l.barWidth

	var content strings.Builder

	// First line: song info and volume
	volume := fmt.Sprintf("vol %d%%", int(m.playerState.Volume*100+0.5))
	titleWidth := contentWidth - runewidth.StringWidth(volume) - 1
	title := m.playerState.Title
	if titleWidth > 0 && runewidth.StringWidth(title) > titleWidth {
		title = m.applyMarquee(title, titleWidth)
	}
	if m.playerState.Title == "" {
		title = "NO SONG PLAYING"
	}
	content.WriteString(m.titleStyle().Render(padToWidth(title, titleWidth)))
	content.WriteString(" ")
	content.WriteString(tm.SubtitleStyle().Render(volume))
	content.WriteString("\n")

	// Second line: seek bar
	content.WriteString(m.renderProgressBar(l.barWidth))
	content.WriteString("\n")

	// Third line: controls, time and hints
	content.WriteString(m.renderControls(contentWidth))

	style := tm.PaneStyle(l.width, constants.DefaultPlayerHeight).Padding(0, 1)
	return clampLines(style.Render(content.String()), l.height-l.topHeight)
}

func (m *Model) titleStyle() lipgloss.Style {
	switch {
	case m.playerState.Title == "":
		return m.themeManager.SubtitleStyle()
	case m.playerState.TitleError:
		return m.themeManager.ErrorStyle()
	}
	return m.themeManager.TitleStyle()
}

// renderProgressBar draws SeekPercent across width cells. Once a track is
// selected a knob marks the position.
func (m *Model) renderProgressBar(width int) string {
	if width <= 0 {
		return ""
	}

	filled := int(float64(width) * m.playerState.SeekPercent / 100)
	filled = min(max(filled, 0), width)
	knob := m.playerState.Current >= 0
	if knob {
		filled = min(filled, width-1)
	}
	empty := width - filled
	if knob {
		empty--
	}

	var bar strings.Builder
	if filled > 0 {
		bar.WriteString(m.themeManager.ProgressFillStyle().Render(strings.Repeat(ProgressFilledChar, filled)))
	}
	if knob {
		bar.WriteString(m.themeManager.ProgressFillStyle().Render(ProgressKnobChar))
	}
	if empty > 0 {
		bar.WriteString(m.themeManager.ProgressStyle().Render(strings.Repeat(ProgressEmptyChar, empty)))
	}
	return bar.String()
}

// playPauseLabel shows pause while playing, play otherwise
func (m *Model) playPauseLabel() string {
	if m.playerState.ShowPause {
		return PauseLabel
	}
	return PlayLabel
}

func (m *Model) renderControls(availableWidth int) string {
	tm := m.themeManager

	buttons := strings.Join([]string{PrevLabel, m.playPauseLabel(), NextLabel}, ControlGap)
	line := tm.SelectedStyle().Render(buttons) + "  " + tm.BaseStyle().Render(m.playerState.TimeText)
	used := runewidth.StringWidth(buttons) + 2 + runewidth.StringWidth(m.playerState.TimeText)

	hint := m.shortcuts.PlayerHint()
	remaining := availableWidth - used - 2
	if remaining > 10 {
		line += "  " + tm.HelpStyle().Render(truncate(hint, remaining))
	}
	return line
}

// controlAt returns the button label under column x of the controls row
func (m *Model) controlAt(l layout, x int) string {
	pos := l.barX
	for _, label := range []string{PrevLabel, m.playPauseLabel(), NextLabel} {
		w := runewidth.StringWidth(label)
		if x >= pos && x < pos+w {
			return label
		}
		pos += w + ControlGapWidth
	}
	return ""
}
