package ui

import "github.com/mattn/go-runewidth"

// Clickable labels; the mouse handler hit-tests against their widths
const (
	PrevLabel        = "[prev]"
	PlayLabel        = "[play]"
	PauseLabel       = "[pause]"
	NextLabel        = "[next]"
	OpenSidebarLabel = "[songs]"
	CloseLabel       = "[x]"
	ControlGap       = " "
)

var (
	ControlGapWidth = runewidth.StringWidth(ControlGap)
	PlayingMarker   = "▶ "
	MarkerWidth     = runewidth.StringWidth(PlayingMarker)

	ProgressEmptyChar  = "─"
	ProgressFilledChar = "━"
	ProgressKnobChar   = "●"
)
