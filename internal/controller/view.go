package controller

import (
	"fmt"
	"math"

	"github.com/haryoiro/tunebox/internal/constants"
)

// Button is whichever of the play/pause affordances is visible. Keeping one
// value means exactly one of them is shown at any time.
type Button int

const (
	PlayButton Button = iota
	PauseButton
)

const zeroTimeText = "0:00 / 0:00"

// View is everything a front-end renders for the player
type View struct {
	Title           string
	TitleError      bool
	TimeText        string
	SeekPercent     float64
	Button          Button
	SidebarOpen     bool
	PlaylistMessage string
	PlaylistError   bool
}

func newView() View {
	return View{
		TimeText: zeroTimeText,
		Button:   PlayButton,
	}
}

// ShowsPause reports whether the pause affordance is the visible one
func (v View) ShowsPause() bool {
	return v.Button == PauseButton
}

// FormatTime renders seconds as M:SS with floored minutes and seconds.
// Negative and non-finite input renders as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/constants.SecondsPerMinute, total%constants.SecondsPerMinute)
}

// SeekPercent is current/duration as a percentage. ok is false for an
// unknown or zero duration.
func SeekPercent(current, duration float64) (percent float64, ok bool) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, false
	}
	return current / duration * 100, true
}
