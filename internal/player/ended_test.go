package player

import (
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
)

// drainStreamer streams s until it reports the end
func drainStreamer(s beep.Streamer) {
	buf := make([][2]float64, 512)
	for {
		if _, ok := s.Stream(buf); !ok {
			return
		}
	}
}

func signalled(w *endWatch) bool {
	select {
	case <-w.ch:
		return true
	default:
		return false
	}
}

func TestEndWatchSignalsCurrentGeneration(t *testing.T) {
	w := newEndWatch()
	assert.False(t, w.done())

	drainStreamer(w.wrap(&fakeStream{n: 1000}))
	assert.True(t, w.done())
	assert.True(t, signalled(w))

	w.reset()
	assert.False(t, w.done())
}

func TestEndWatchNextDropsPendingSignal(t *testing.T) {
	w := newEndWatch()
	drainStreamer(w.wrap(&fakeStream{n: 10}))

	w.next()
	assert.False(t, w.done())
	assert.False(t, signalled(w))
}

func TestEndWatchIgnoresStaleStream(t *testing.T) {
	w := newEndWatch()
	old := w.wrap(&fakeStream{n: 10})
	w.next()

	drainStreamer(old)
	assert.False(t, w.done())
	assert.False(t, signalled(w))
}

func TestEndWatchSignalDoesNotBlock(t *testing.T) {
	w := newEndWatch()
	drainStreamer(w.wrap(&fakeStream{n: 10}))
	w.reset()
	drainStreamer(w.wrap(&fakeStream{n: 10}))

	assert.True(t, w.done())
	assert.True(t, signalled(w))
	assert.False(t, signalled(w))
}
