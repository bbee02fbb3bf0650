package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/controller"
	"github.com/haryoiro/tunebox/internal/logger"
)

var _ controller.AudioHandle = (*Player)(nil)

// ErrEmptyStream is returned for sources that decode to zero samples
var ErrEmptyStream = errors.New("no audio frames in stream")

// decodeFunc turns a fetched file into a seekable stream
type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// Player is the audio handle: one source at a time, decoded with beep and
// played through the speaker.
type Player struct {
	mu                 sync.RWMutex
	fetcher            Fetcher
	out                output
	decode             decodeFunc
	source             string
	streamer           beep.StreamSeekCloser
	ctrl               *beep.Ctrl
	volume             *effects.Volume
	format             beep.Format
	duration           time.Duration
	level              float64
	ctx                context.Context
	cancel             context.CancelFunc
	speakerInitialized bool
	currentSampleRate  beep.SampleRate
	watch              *endWatch
}

// New creates a new audio player reading sources through fetcher
func New(fetcher Fetcher) *Player {
	return newPlayer(fetcher, speakerOutput{}, mp3.Decode)
}

func newPlayer(fetcher Fetcher, out output, decode decodeFunc) *Player {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Player{
		fetcher: fetcher,
		out:     out,
		decode:  decode,
		level:   1,
		ctx:     ctx,
		cancel:  cancel,
		watch:   newEndWatch(),
	}

	// Don't initialize speaker here - do it when we load the first file
	logger.Debug("Audio player created (speaker will be initialized on first play)")
	return p
}

// Ended is signalled when the current stream plays to its end
func (p *Player) Ended() <-chan struct{} {
	return p.watch.ch
}

// Interrupt aborts a fetch in progress. Later fetches fail, so it is only
// used on shutdown before Close.
func (p *Player) Interrupt() {
	p.cancel()
}

// SetSource drops the current stream and remembers src. Nothing is fetched
// until Play.
func (p *Player) SetSource(src string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.unload()
	p.source = src
	p.watch.next()
}

// Source returns the assigned source, empty when none
func (p *Player) Source() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source
}

// unload must be called with mu held
func (p *Player) unload() {
	if p.speakerInitialized {
		p.out.Clear()
	}
	if p.streamer != nil {
		if err := p.streamer.Close(); err != nil {
			logger.Warn("Failed to close stream: %v", err)
		}
	}
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.duration = 0
}

// Play starts playback, loading the source first when needed. A stream that
// already ended restarts from the beginning.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.source == "" {
		return controller.ErrNoSource
	}

	if p.streamer == nil {
		if err := p.load(); err != nil {
			return err
		}
		p.out.Play(p.watch.wrap(p.ctrl))
		logger.Debug("Playback started: %s", p.source)
		return nil
	}

	// the drained sequence is gone from the output, queue it again
	if p.watch.done() {
		p.out.Lock()
		err := p.streamer.Seek(0)
		p.ctrl.Paused = false
		p.out.Unlock()
		if err != nil {
			return fmt.Errorf("failed to rewind: %w", err)
		}
		p.watch.reset()
		p.out.Play(p.watch.wrap(p.ctrl))
		return nil
	}

	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()
	return nil
}

// load fetches and decodes the source; mu must be held
func (p *Player) load() error {
	ctx, cancel := context.WithTimeout(p.ctx, constants.FetchTimeout)
	defer cancel()

	file, err := readAll(ctx, p.fetcher, p.source)
	if err != nil {
		return err
	}

	streamer, format, err := p.decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode MP3: %w", err)
	}
	if streamer.Len() <= 0 {
		streamer.Close()
		return ErrEmptyStream
	}

	if err := p.initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		return err
	}

	p.streamer = streamer
	p.format = format
	p.duration = format.SampleRate.D(streamer.Len())
	p.volume = &effects.Volume{
		Streamer: streamer,
		Base:     2,
	}
	p.applyLevel()
	p.ctrl = &beep.Ctrl{Streamer: p.volume}
	p.watch.reset()

	logger.Debug("Loaded %s, duration: %v, format: %+v", p.source, p.duration, format)
	return nil
}

func (p *Player) initSpeaker(rate beep.SampleRate) error {
	if p.speakerInitialized && p.currentSampleRate == rate {
		return nil
	}
	if p.speakerInitialized {
		p.out.Close()
		time.Sleep(100 * time.Millisecond) // Give it time to close
	}

	if err := p.out.Init(rate, rate.N(constants.SpeakerBufferWindow)); err != nil {
		p.speakerInitialized = false
		return fmt.Errorf("failed to initialize speaker for sample rate %d: %w", rate, err)
	}
	p.speakerInitialized = true
	p.currentSampleRate = rate
	logger.Debug("Speaker initialized with sample rate: %d Hz", rate)
	return nil
}

// Pause suspends playback; no-op when nothing is loaded
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
}

// Paused reports whether playback is suspended. Unloaded and ended streams
// count as paused.
func (p *Player) Paused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.ctrl == nil || p.watch.done() {
		return true
	}
	p.out.Lock()
	defer p.out.Unlock()
	return p.ctrl.Paused
}

// CurrentTime returns the playback position
func (p *Player) CurrentTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.streamer == nil {
		return 0
	}
	p.out.Lock()
	pos := p.streamer.Position()
	p.out.Unlock()
	return p.format.SampleRate.D(pos)
}

// Duration returns the total duration, zero before the source is loaded
func (p *Player) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.duration
}

// SetCurrentTime moves the position; it is clamped to the stream
func (p *Player) SetCurrentTime(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return controller.ErrNoSource
	}

	if pos < 0 {
		pos = 0
	}
	if pos > p.duration {
		pos = p.duration
	}
	sample := p.format.SampleRate.N(pos)
	if last := p.streamer.Len() - 1; sample > last {
		sample = last
	}

	p.out.Lock()
	err := p.streamer.Seek(sample)
	p.out.Unlock()
	if err != nil {
		return fmt.Errorf("seek to %v failed: %w", pos, err)
	}

	// after the end the sequence is drained, re-queue it paused at the new spot
	if p.watch.done() {
		p.out.Lock()
		p.ctrl.Paused = true
		p.out.Unlock()
		p.watch.reset()
		p.out.Play(p.watch.wrap(p.ctrl))
	}

	logger.Debug("Seeked to %v", pos)
	return nil
}

// SetVolume sets the volume (0.0 to 1.0)
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	p.level = level
	if p.volume != nil {
		p.out.Lock()
		p.applyLevel()
		p.out.Unlock()
	}
}

// Volume returns the current volume (0.0 to 1.0)
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// applyLevel maps the linear level onto the volume effect; mu must be held
func (p *Player) applyLevel() {
	if p.level <= 0 {
		p.volume.Silent = true
		return
	}
	p.volume.Silent = false
	// Simplified approximation: 0.0 -> -4, 1.0 -> 0 (base 2)
	p.volume.Volume = 4 * (p.level - 1)
}

// Close releases the stream and the speaker
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancel()
	p.unload()
	p.source = ""

	if p.speakerInitialized {
		p.out.Close()
		p.speakerInitialized = false
	}
	return nil
}
