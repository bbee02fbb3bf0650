package player

import (
	"sync/atomic"

	"github.com/faiface/beep"
)

// endWatch tracks which loaded stream played to its end. The callback runs on
// the audio goroutine, so everything it touches is atomic.
type endWatch struct {
	gen   atomic.Int64
	ended atomic.Int64
	ch    chan struct{}
}

func newEndWatch() *endWatch {
	w := &endWatch{ch: make(chan struct{}, 1)}
	w.ended.Store(-1)
	return w
}

// next starts a new generation and discards a pending signal of the old one
func (w *endWatch) next() {
	w.gen.Add(1)
	w.reset()
	select {
	case <-w.ch:
	default:
	}
}

// reset forgets that the current generation ended
func (w *endWatch) reset() {
	w.ended.Store(-1)
}

func (w *endWatch) done() bool {
	return w.ended.Load() == w.gen.Load()
}

// wrap appends an end-of-stream callback bound to the current generation.
// Streams of an older generation end silently.
func (w *endWatch) wrap(s beep.Streamer) beep.Streamer {
	gen := w.gen.Load()
	return beep.Seq(s, beep.Callback(func() {
		if w.gen.Load() != gen {
			return
		}
		w.ended.Store(gen)
		select {
		case w.ch <- struct{}{}:
		default:
		}
	}))
}
