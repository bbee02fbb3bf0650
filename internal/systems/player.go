package systems

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/controller"
	"github.com/haryoiro/tunebox/internal/logger"
	"github.com/haryoiro/tunebox/internal/structures"
)

// Audio is the handle the player system drives: the controller contract plus
// end-of-stream notification and volume.
type Audio interface {
	controller.AudioHandle
	Ended() <-chan struct{}
	SetVolume(level float64)
	Volume() float64
	Close() error
}

// interrupter is implemented by audio handles that can abort an in-flight
// track fetch from another goroutine
type interrupter interface {
	Interrupt()
}

// PlayerSystem serializes UI actions, time updates and media events onto a
// single controller.
type PlayerSystem struct {
	mu         sync.Mutex
	config     *structures.Config
	audio      Audio
	controller *controller.Controller
	actionChan chan structures.SoundAction
	stopChan   chan struct{}
	stopOnce   sync.Once
	done       chan struct{}

	lifeMu  sync.Mutex
	started bool
	cancel  context.CancelFunc

	snapMu   sync.RWMutex
	snapshot structures.PlayerState
	updates  chan structures.PlayerState
}

// NewPlayerSystem creates a new player system
func NewPlayerSystem(cfg *structures.Config, audio Audio, catalog controller.CatalogSource) *PlayerSystem {
	ps := &PlayerSystem{
		config:     cfg,
		audio:      audio,
		controller: controller.New(audio, catalog),
		actionChan: make(chan structures.SoundAction, constants.DefaultQueueSize),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
		updates:    make(chan structures.PlayerState, 1),
	}
	ps.publish()
	return ps
}

// Start loads the catalog and starts the event loop. Stop cancels the
// context handed to the catalog source.
func (ps *PlayerSystem) Start(ctx context.Context) error {
	ps.lifeMu.Lock()
	defer ps.lifeMu.Unlock()

	if ps.started {
		return fmt.Errorf("player system already started")
	}
	ctx, ps.cancel = context.WithCancel(ctx)
	ps.started = true

	ps.audio.SetVolume(ps.config.Client.DefaultVolume)
	go ps.run(ctx)
	return nil
}

// Stop stops the event loop and releases the audio handle. It aborts a
// catalog or track fetch in progress and is safe to call without Start.
func (ps *PlayerSystem) Stop() {
	ps.stopOnce.Do(func() {
		close(ps.stopChan)

		ps.lifeMu.Lock()
		started, cancel := ps.started, ps.cancel
		ps.lifeMu.Unlock()

		if cancel != nil {
			cancel()
		}
		if i, ok := ps.audio.(interrupter); ok {
			i.Interrupt()
		}
		if started {
			<-ps.done
		}
		if err := ps.audio.Close(); err != nil {
			logger.Warn("Failed to close audio: %v", err)
		}
	})
}

// SendAction queues an action for the event loop
func (ps *PlayerSystem) SendAction(action structures.SoundAction) {
	select {
	case ps.actionChan <- action:
	default:
		logger.Warn("Player action queue full, dropping %T", action)
	}
}

// GetState returns the latest snapshot without waiting on the event loop
func (ps *PlayerSystem) GetState() structures.PlayerState {
	ps.snapMu.RLock()
	defer ps.snapMu.RUnlock()

	state := ps.snapshot
	state.List = append([]structures.Track(nil), ps.snapshot.List...)
	return state
}

// Updates delivers the latest snapshot after each change; older undelivered
// snapshots are replaced.
func (ps *PlayerSystem) Updates() <-chan structures.PlayerState {
	return ps.updates
}

func (ps *PlayerSystem) run(ctx context.Context) {
	defer close(ps.done)

	ps.mu.Lock()
	ps.controller.LoadCatalog(ctx)
	ps.mu.Unlock()
	ps.publish()

	ticker := time.NewTicker(constants.PlayerUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case action := <-ps.actionChan:
			ps.Dispatch(action)

		case <-ps.audio.Ended():
			ps.mu.Lock()
			ps.controller.OnEnded()
			ps.mu.Unlock()
			ps.publish()

		case <-ticker.C:
			ps.mu.Lock()
			playing := ps.controller.IsPlaying()
			if playing {
				ps.controller.OnTimeUpdate()
			}
			ps.mu.Unlock()
			if playing {
				ps.publish()
			}

		case <-ctx.Done():
			return

		case <-ps.stopChan:
			return
		}
	}
}

// Dispatch applies one action synchronously and publishes the result
func (ps *PlayerSystem) Dispatch(action structures.SoundAction) controller.Outcome {
	ps.mu.Lock()
	outcome := ps.handleAction(action)
	ps.mu.Unlock()

	if outcome == controller.Failed {
		logger.Warn("Action %T failed", action)
	}
	ps.publish()
	return outcome
}

// handleAction maps an action onto a controller transition; mu must be held
func (ps *PlayerSystem) handleAction(action structures.SoundAction) controller.Outcome {
	c := ps.controller
	seek := time.Duration(ps.config.Client.SeekSeconds) * time.Second

	switch a := action.(type) {
	case structures.PlayPauseAction:
		return c.Toggle()
	case structures.PlayAction:
		return c.TogglePlay()
	case structures.PauseAction:
		return c.TogglePause()
	case structures.NextAction:
		return c.Advance(controller.Next)
	case structures.PreviousAction:
		return c.Advance(controller.Prev)
	case structures.SelectTrackAction:
		return c.SelectTrack(a.Index)
	case structures.SeekAction:
		return c.Seek(a.X, a.Width)
	case structures.ForwardAction:
		return c.SeekBy(seek)
	case structures.BackwardAction:
		return c.SeekBy(-seek)
	case structures.VolumeUpAction:
		ps.audio.SetVolume(ps.audio.Volume() + constants.VolumeStep)
		return controller.Applied
	case structures.VolumeDownAction:
		ps.audio.SetVolume(ps.audio.Volume() - constants.VolumeStep)
		return controller.Applied
	case structures.OpenSidebarAction:
		return c.OpenSidebar()
	case structures.CloseSidebarAction:
		return c.CloseSidebar()
	default:
		logger.Warn("Unknown player action %T", action)
		return controller.Ignored
	}
}

// publish refreshes the snapshot from the controller
func (ps *PlayerSystem) publish() {
	ps.mu.Lock()
	c := ps.controller
	view := c.View()
	current, ok := c.CurrentIndex()
	if !ok {
		current = -1
	}
	state := structures.PlayerState{
		List:            c.Tracks(),
		Current:         current,
		Status:          c.State(),
		Title:           view.Title,
		TitleError:      view.TitleError,
		TimeText:        view.TimeText,
		SeekPercent:     view.SeekPercent,
		ShowPause:       view.ShowsPause(),
		SidebarOpen:     view.SidebarOpen,
		PlaylistMessage: view.PlaylistMessage,
		PlaylistError:   view.PlaylistError,
		Volume:          ps.audio.Volume(),
	}
	ps.mu.Unlock()

	ps.snapMu.Lock()
	ps.snapshot = state
	ps.snapMu.Unlock()

	// keep only the newest undelivered snapshot
	select {
	case <-ps.updates:
	default:
	}
	select {
	case ps.updates <- state:
	default:
	}
}
