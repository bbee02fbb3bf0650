// Package controller holds the playback state machine shared by the
// front-ends: one audio handle, the catalog and the current-track cursor.
//
// A Controller is not safe for concurrent use. Callers serialize UI events and
// media events onto it, see systems.PlayerSystem.
package controller

import (
	"context"
	"errors"
	"time"

	"github.com/haryoiro/tunebox/internal/logger"
	"github.com/haryoiro/tunebox/internal/structures"
)

// ErrNoSource is returned by handles asked to play before a source is set
var ErrNoSource = errors.New("no source assigned")

// AudioHandle is the single media resource the controller drives.
// Assigning a source stops whatever was playing and rewinds to zero.
type AudioHandle interface {
	SetSource(src string)
	Source() string
	Play() error
	Pause()
	Paused() bool
	CurrentTime() time.Duration
	// Duration is zero while unknown
	Duration() time.Duration
	SetCurrentTime(pos time.Duration) error
}

// CatalogSource fetches the track list
type CatalogSource interface {
	FetchSongs(ctx context.Context) ([]structures.Track, error)
}

// Outcome reports what a transition did
type Outcome int

const (
	// Applied means the transition ran
	Applied Outcome = iota
	// Ignored means the transition was a no-op in the current state
	Ignored
	// Failed means the transition ran and the failure is shown in the view
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Ignored:
		return "ignored"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Direction for Advance
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

const noIndex = -1

// Controller owns the playback state
type Controller struct {
	audio   AudioHandle
	catalog CatalogSource

	tracks        []structures.Track
	currentIndex  int
	catalogLoaded bool
	tracking      bool

	view View
}

// New creates a controller in the Empty state
func New(audio AudioHandle, catalog CatalogSource) *Controller {
	return &Controller{
		audio:        audio,
		catalog:      catalog,
		currentIndex: noIndex,
		view:         newView(),
	}
}

// Tracks returns a copy of the loaded catalog
func (c *Controller) Tracks() []structures.Track {
	out := make([]structures.Track, len(c.tracks))
	copy(out, c.tracks)
	return out
}

// CurrentIndex returns the cursor and whether a track was ever selected
func (c *Controller) CurrentIndex() (int, bool) {
	if c.currentIndex == noIndex || len(c.tracks) == 0 {
		return 0, false
	}
	return c.currentIndex, true
}

// View returns the current rendering state
func (c *Controller) View() View {
	return c.view
}

// IsPlaying is derived from the handle, never stored
func (c *Controller) IsPlaying() bool {
	return c.audio.Source() != "" && !c.audio.Paused()
}

// State derives the coarse playback state
func (c *Controller) State() structures.PlaybackStatus {
	switch {
	case len(c.tracks) == 0:
		return structures.StatusEmpty
	case c.currentIndex == noIndex || c.audio.Source() == "":
		return structures.StatusLoadedIdle
	case c.audio.Paused():
		return structures.StatusPaused
	default:
		return structures.StatusPlaying
	}
}

// LoadCatalog fetches the catalog once. Failures and empty catalogs leave the
// controller Empty with a message; there is no retry.
func (c *Controller) LoadCatalog(ctx context.Context) Outcome {
	if c.catalogLoaded {
		return Ignored
	}
	c.catalogLoaded = true

	logger.Debug("Fetching songs from catalog")
	tracks, err := c.catalog.FetchSongs(ctx)
	if err != nil {
		logger.Error("Error loading songs: %v", err)
		c.view.PlaylistMessage = "Error loading songs: " + err.Error()
		c.view.PlaylistError = true
		c.view.Title = "Error loading songs"
		c.view.TitleError = true
		return Failed
	}

	if len(tracks) == 0 {
		logger.Info("Catalog is empty")
		c.view.PlaylistMessage = "No songs found"
		c.view.Title = "No songs available"
		return Applied
	}

	c.tracks = tracks
	c.view.PlaylistMessage = ""
	c.view.PlaylistError = false
	logger.Info("Loaded %d songs", len(tracks))
	return Applied
}

// SelectTrack assigns track index to the handle and plays it from zero.
// On failure the cursor still moves and the title shows the error.
func (c *Controller) SelectTrack(index int) Outcome {
	if index < 0 || index >= len(c.tracks) {
		return Ignored
	}

	track := c.tracks[index]
	c.currentIndex = index
	logger.Debug("Playing song: %s", track.File)

	c.audio.SetSource(track.File)
	if err := c.audio.Play(); err != nil {
		logger.Error("Error playing song %s: %v", track.File, err)
		c.view.Title = "Error playing: " + track.Title
		c.view.TitleError = true
		return Failed
	}

	c.view.Title = track.Title
	c.view.TitleError = false
	c.view.Button = PauseButton
	c.tracking = true
	c.OnTimeUpdate()
	return Applied
}

// TogglePause pauses the handle; the play button becomes visible
func (c *Controller) TogglePause() Outcome {
	if c.audio.Source() == "" {
		return Ignored
	}
	c.audio.Pause()
	c.view.Button = PlayButton
	return Applied
}

// TogglePlay resumes the handle; the pause button becomes visible
func (c *Controller) TogglePlay() Outcome {
	if len(c.tracks) == 0 || c.audio.Source() == "" {
		return Ignored
	}
	if err := c.audio.Play(); err != nil {
		logger.Error("Error resuming playback: %v", err)
		if idx, ok := c.CurrentIndex(); ok {
			c.view.Title = "Error playing: " + c.tracks[idx].Title
			c.view.TitleError = true
		}
		c.view.Button = PlayButton
		return Failed
	}
	if idx, ok := c.CurrentIndex(); ok && c.view.TitleError {
		c.view.Title = c.tracks[idx].Title
		c.view.TitleError = false
	}
	c.view.Button = PauseButton
	return Applied
}

// Toggle picks TogglePlay or TogglePause from the handle state
func (c *Controller) Toggle() Outcome {
	if c.IsPlaying() {
		return c.TogglePause()
	}
	return c.TogglePlay()
}

// Advance moves the cursor by one. No wrap at the ends, and nothing happens
// before the first selection.
func (c *Controller) Advance(dir Direction) Outcome {
	idx, ok := c.CurrentIndex()
	if !ok {
		return Ignored
	}
	target := idx + int(dir)
	if target < 0 || target >= len(c.tracks) {
		return Ignored
	}
	return c.SelectTrack(target)
}

// OnTimeUpdate refreshes the time text and the seek indicator
func (c *Controller) OnTimeUpdate() Outcome {
	if !c.tracking {
		return Ignored
	}
	current := c.audio.CurrentTime().Seconds()
	duration := c.audio.Duration().Seconds()

	c.view.TimeText = FormatTime(current) + " / " + FormatTime(duration)
	if percent, ok := SeekPercent(current, duration); ok {
		c.view.SeekPercent = percent
	}
	return Applied
}

// OnEnded chains to the next track, or shows the stopped state at the end
// of the catalog while keeping the cursor on the last track.
func (c *Controller) OnEnded() Outcome {
	idx, ok := c.CurrentIndex()
	if !ok {
		return Ignored
	}
	logger.Debug("Song ended: %s", c.tracks[idx].Title)

	if idx < len(c.tracks)-1 {
		return c.SelectTrack(idx + 1)
	}

	c.view.Button = PlayButton
	c.view.SeekPercent = 0
	c.view.TimeText = zeroTimeText
	return Applied
}

// Seek scrubs to clickX/width of the duration. Ignored while the duration is
// unknown.
func (c *Controller) Seek(clickX, width float64) Outcome {
	duration := c.audio.Duration()
	if duration <= 0 || width <= 0 || c.audio.Source() == "" {
		return Ignored
	}

	return c.seekTo(time.Duration(clickX / width * float64(duration)))
}

// SeekBy moves the position relative to the current time
func (c *Controller) SeekBy(delta time.Duration) Outcome {
	if c.audio.Duration() <= 0 || c.audio.Source() == "" {
		return Ignored
	}
	return c.seekTo(c.audio.CurrentTime() + delta)
}

func (c *Controller) seekTo(target time.Duration) Outcome {
	duration := c.audio.Duration()
	if target < 0 {
		target = 0
	}
	if target > duration {
		target = duration
	}

	logger.Debug("Seeking to: %v", target)
	if err := c.audio.SetCurrentTime(target); err != nil {
		logger.Error("Seek failed: %v", err)
		return Failed
	}
	c.OnTimeUpdate()
	return Applied
}

// OpenSidebar sets the sidebar flag
func (c *Controller) OpenSidebar() Outcome {
	c.view.SidebarOpen = true
	return Applied
}

// CloseSidebar clears the sidebar flag
func (c *Controller) CloseSidebar() Outcome {
	c.view.SidebarOpen = false
	return Applied
}
