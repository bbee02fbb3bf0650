package ui

import (
	"fmt"
	"strings"

	"github.com/haryoiro/tunebox/internal/structures"
)

// ShortcutHint represents a single keyboard shortcut hint
type ShortcutHint struct {
	Key    string
	Action string
}

// ShortcutFormatter formats the configured key bindings for display
type ShortcutFormatter struct {
	config     *structures.Config
	styleCache map[string]string
}

// NewShortcutFormatter creates a new shortcut formatter with the given config
func NewShortcutFormatter(config *structures.Config) *ShortcutFormatter {
	return &ShortcutFormatter{
		config:     config,
		styleCache: make(map[string]string),
	}
}

// formatKey formats a key binding for display
func (sf *ShortcutFormatter) formatKey(key string) string {
	if formatted, ok := sf.styleCache[key]; ok {
		return formatted
	}

	formatted := key
	switch key {
	case "space":
		formatted = "Space"
	case "enter":
		formatted = "Enter"
	case "esc":
		formatted = "Esc"
	case "tab":
		formatted = "Tab"
	case "up":
		formatted = "↑"
	case "down":
		formatted = "↓"
	case "left":
		formatted = "←"
	case "right":
		formatted = "→"
	default:
		if strings.HasPrefix(key, "ctrl+") {
			formatted = "Ctrl+" + strings.ToUpper(strings.TrimPrefix(key, "ctrl+"))
		}
	}

	sf.styleCache[key] = formatted
	return formatted
}

// formatKeys formats multiple key bindings, e.g. ["down", "j"] -> "↓/j"
func (sf *ShortcutFormatter) formatKeys(keys []string) string {
	formatted := make([]string, 0, len(keys))
	for _, key := range keys {
		formatted = append(formatted, sf.formatKey(key))
	}
	return strings.Join(formatted, "/")
}

// Hints lists every binding in display order
func (sf *ShortcutFormatter) Hints() []ShortcutHint {
	kb := sf.config.KeyBindings
	return []ShortcutHint{
		{sf.formatKey(kb.PlayPause), "Play/Pause"},
		{sf.formatKeys(kb.Previous) + " " + sf.formatKeys(kb.Next), "Prev/Next"},
		{sf.formatKey(kb.SeekBackward) + "/" + sf.formatKey(kb.SeekForward), "Seek"},
		{sf.formatKeys(kb.VolumeDown) + " " + sf.formatKeys(kb.VolumeUp), "Volume"},
		{sf.formatKeys(kb.MoveUp) + " " + sf.formatKeys(kb.MoveDown), "Move"},
		{sf.formatKeys(kb.Select), "Play selected"},
		{sf.formatKey(kb.ToggleSidebar), "Songs"},
		{sf.formatKeys(kb.Quit), "Quit"},
	}
}

// Lines renders one hint per line for the main pane
func (sf *ShortcutFormatter) Lines() []string {
	hints := sf.Hints()
	lines := make([]string, 0, len(hints))
	for _, h := range hints {
		lines = append(lines, fmt.Sprintf("%-16s %s", h.Key, h.Action))
	}
	return lines
}

// PlayerHint is the compact hint shown in the player bar
func (sf *ShortcutFormatter) PlayerHint() string {
	kb := sf.config.KeyBindings
	return fmt.Sprintf("[%s: Play/Pause] [%s: Seek] [%s: Songs]",
		sf.formatKey(kb.PlayPause),
		sf.formatKey(kb.SeekBackward)+"/"+sf.formatKey(kb.SeekForward),
		sf.formatKey(kb.ToggleSidebar))
}
