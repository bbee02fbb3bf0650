package player

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/haryoiro/tunebox/internal/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFetcher map[string]string

func (m mapFetcher) Open(ctx context.Context, file string) (io.ReadCloser, error) {
	data, ok := m[file]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

// fakeStream is n silent samples
type fakeStream struct {
	pos, n int
	closed bool
}

func (f *fakeStream) Stream(samples [][2]float64) (int, bool) {
	if f.pos >= f.n {
		return 0, false
	}
	k := min(len(samples), f.n-f.pos)
	for i := range samples[:k] {
		samples[i] = [2]float64{}
	}
	f.pos += k
	return k, true
}

func (f *fakeStream) Err() error    { return nil }
func (f *fakeStream) Len() int      { return f.n }
func (f *fakeStream) Position() int { return f.pos }
func (f *fakeStream) Close() error  { f.closed = true; return nil }

func (f *fakeStream) Seek(p int) error {
	if p < 0 || p > f.n {
		return errors.New("seek out of range")
	}
	f.pos = p
	return nil
}

// 1000 Hz keeps the sample arithmetic readable: one sample per millisecond
var testFormat = beep.Format{SampleRate: 1000, NumChannels: 2, Precision: 2}

// decodeCount reads files holding a sample count
func decodeCount(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return nil, beep.Format{}, err
	}
	return &fakeStream{n: n}, testFormat, nil
}

// fakeOutput queues streamers like the speaker and plays them on drain
type fakeOutput struct {
	audio sync.Mutex
	queue []beep.Streamer
	inits []beep.SampleRate
	close int
}

func (f *fakeOutput) Init(rate beep.SampleRate, bufferSize int) error {
	f.inits = append(f.inits, rate)
	return nil
}

func (f *fakeOutput) Play(s beep.Streamer) {
	f.audio.Lock()
	defer f.audio.Unlock()
	f.queue = append(f.queue, s)
}

func (f *fakeOutput) Clear() {
	f.audio.Lock()
	defer f.audio.Unlock()
	f.queue = nil
}

func (f *fakeOutput) Lock()   { f.audio.Lock() }
func (f *fakeOutput) Unlock() { f.audio.Unlock() }
func (f *fakeOutput) Close()  { f.close++ }

func (f *fakeOutput) queued() int {
	f.audio.Lock()
	defer f.audio.Unlock()
	return len(f.queue)
}

// drain plays up to samples of every queued streamer and drops the ones that
// finished
func (f *fakeOutput) drain(samples int) {
	f.audio.Lock()
	defer f.audio.Unlock()

	buf := make([][2]float64, 256)
	var live []beep.Streamer
	for _, s := range f.queue {
		played, ok := 0, true
		for ok && played < samples {
			var n int
			n, ok = s.Stream(buf[:min(len(buf), samples-played)])
			played += n
		}
		if ok {
			live = append(live, s)
		}
	}
	f.queue = live
}

func newTestPlayer(t *testing.T, files mapFetcher) (*Player, *fakeOutput) {
	t.Helper()
	out := &fakeOutput{}
	p := newPlayer(files, out, decodeCount)
	t.Cleanup(func() { p.Close() })
	return p, out
}

func waitEnded(t *testing.T, p *Player) {
	t.Helper()
	select {
	case <-p.Ended():
	case <-time.After(time.Second):
		t.Fatal("stream did not signal its end")
	}
}

func assertNotEnded(t *testing.T, p *Player) {
	t.Helper()
	select {
	case <-p.Ended():
		t.Fatal("unexpected end signal")
	default:
	}
}

func TestPlayLoadsAndQueuesStream(t *testing.T) {
	p, out := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000"})

	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())
	assert.Equal(t, 5*time.Second, p.Duration())
	assert.False(t, p.Paused())
	assert.Equal(t, []beep.SampleRate{1000}, out.inits)
	assert.Equal(t, 1, out.queued())

	out.drain(1500)
	assert.Equal(t, 1500*time.Millisecond, p.CurrentTime())
	assertNotEnded(t, p)

	p.Pause()
	assert.True(t, p.Paused())
	out.drain(10000)
	assert.Equal(t, 1500*time.Millisecond, p.CurrentTime(), "a paused stream holds its position")
	assertNotEnded(t, p)
}

func TestPlayEmptyStream(t *testing.T) {
	p, out := newTestPlayer(t, mapFetcher{"/songs/empty.mp3": "0"})

	p.SetSource("/songs/empty.mp3")
	assert.ErrorIs(t, p.Play(), ErrEmptyStream)
	assert.Equal(t, 0, out.queued())
}

func TestPlayToEndSignalsEnded(t *testing.T) {
	p, out := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000"})
	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())

	out.drain(10000)
	waitEnded(t, p)
	assert.True(t, p.Paused())
	assert.Equal(t, 5*time.Second, p.CurrentTime())
	assert.Equal(t, 0, out.queued())
}

func TestPlayAfterEndRewinds(t *testing.T) {
	p, out := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000"})
	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())
	out.drain(10000)
	waitEnded(t, p)

	require.NoError(t, p.Play())
	assert.Equal(t, time.Duration(0), p.CurrentTime())
	assert.False(t, p.Paused())
	assert.Equal(t, 1, out.queued())

	out.drain(10000)
	waitEnded(t, p)
}

func TestSeekAfterEndRequeuesPaused(t *testing.T) {
	p, out := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000"})
	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())
	out.drain(10000)
	waitEnded(t, p)

	require.NoError(t, p.SetCurrentTime(2*time.Second))
	assert.Equal(t, 2*time.Second, p.CurrentTime())
	assert.True(t, p.Paused())
	assert.Equal(t, 1, out.queued())

	out.drain(1000)
	assert.Equal(t, 2*time.Second, p.CurrentTime())
	assertNotEnded(t, p)

	require.NoError(t, p.Play())
	out.drain(10000)
	waitEnded(t, p)
}

func TestSeekClampsToStream(t *testing.T) {
	p, _ := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000"})
	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())

	require.NoError(t, p.SetCurrentTime(-time.Second))
	assert.Equal(t, time.Duration(0), p.CurrentTime())

	require.NoError(t, p.SetCurrentTime(time.Hour))
	assert.Equal(t, 4999*time.Millisecond, p.CurrentTime())
}

func TestSetSourceDropsEndOfPreviousStream(t *testing.T) {
	p, out := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000", "/songs/b.mp3": "3000"})

	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())
	out.drain(10000)

	p.SetSource("/songs/b.mp3")
	assertNotEnded(t, p)
	assert.Equal(t, 0, out.queued())

	require.NoError(t, p.Play())
	assert.Equal(t, 3*time.Second, p.Duration())
	assert.Equal(t, []beep.SampleRate{1000}, out.inits, "same rate keeps the output")
}

func TestStaleStreamEndIsIgnored(t *testing.T) {
	p, out := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000", "/songs/b.mp3": "3000"})

	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())
	out.audio.Lock()
	stale := out.queue[0]
	out.audio.Unlock()

	p.SetSource("/songs/b.mp3")
	require.NoError(t, p.Play())

	// the old sequence finishing late must not end the new track
	drainStreamer(stale)
	assertNotEnded(t, p)
	assert.False(t, p.Paused())
}

func TestVolumeAppliesToLoadedStream(t *testing.T) {
	p, _ := newTestPlayer(t, mapFetcher{"/songs/a.mp3": "5000"})
	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())

	p.SetVolume(0)
	assert.True(t, p.volume.Silent)

	p.SetVolume(0.5)
	assert.False(t, p.volume.Silent)
	assert.InDelta(t, -2.0, p.volume.Volume, 1e-9)
}

func TestCloseReleasesOutput(t *testing.T) {
	out := &fakeOutput{}
	p := newPlayer(mapFetcher{"/songs/a.mp3": "5000"}, out, decodeCount)
	p.SetSource("/songs/a.mp3")
	require.NoError(t, p.Play())

	require.NoError(t, p.Close())
	assert.Equal(t, 1, out.close)
	assert.Equal(t, "", p.Source())
	assert.True(t, p.Paused())
}

// blockingFetcher waits for the context before failing
type blockingFetcher struct {
	started chan struct{}
}

func (b blockingFetcher) Open(ctx context.Context, file string) (io.ReadCloser, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestInterruptAbortsFetch(t *testing.T) {
	fetcher := blockingFetcher{started: make(chan struct{})}
	p, _ := newTestPlayer(t, mapFetcher{})
	p.fetcher = fetcher
	p.SetSource("/songs/slow.mp3")

	errc := make(chan error, 1)
	go func() { errc <- p.Play() }()
	<-fetcher.started

	p.Interrupt()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Play did not return after Interrupt")
	}
}

func TestPlayWithoutSource(t *testing.T) {
	p := New(mapFetcher{})
	defer p.Close()

	assert.ErrorIs(t, p.Play(), controller.ErrNoSource)
	assert.True(t, p.Paused())
	assert.Equal(t, time.Duration(0), p.Duration())
	assert.Equal(t, time.Duration(0), p.CurrentTime())
	assert.ErrorIs(t, p.SetCurrentTime(time.Second), controller.ErrNoSource)
}

func TestPlayMissingSource(t *testing.T) {
	p := New(mapFetcher{})
	defer p.Close()

	p.SetSource("/songs/missing.mp3")
	assert.Equal(t, "/songs/missing.mp3", p.Source())

	err := p.Play()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, p.Paused())
}

func TestPlayUndecodableSource(t *testing.T) {
	p := New(mapFetcher{"/songs/bad.mp3": "this is not an mp3 stream"})
	defer p.Close()

	p.SetSource("/songs/bad.mp3")
	assert.Error(t, p.Play())
	assert.Equal(t, time.Duration(0), p.Duration())
}

func TestSetSourceReplacesSource(t *testing.T) {
	p := New(mapFetcher{})
	defer p.Close()

	p.SetSource("/songs/a.mp3")
	p.SetSource("/songs/b.mp3")
	assert.Equal(t, "/songs/b.mp3", p.Source())

	p.SetSource("")
	assert.ErrorIs(t, p.Play(), controller.ErrNoSource)
}

func TestVolumeClamp(t *testing.T) {
	p := New(mapFetcher{})
	defer p.Close()

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.Volume())
	p.SetVolume(-1)
	assert.Equal(t, 0.0, p.Volume())
	p.SetVolume(0.4)
	assert.InDelta(t, 0.4, p.Volume(), 1e-9)
}

func TestDirFetcher(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "my song.mp3"), []byte("data"), 0644))

	f := DirFetcher{Dir: dir, Prefix: "/songs/"}

	rc, err := f.Open(context.Background(), "/songs/my%20song.mp3")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "data", string(data))

	_, err = f.Open(context.Background(), "/songs/..%2Fetc%2Fpasswd")
	assert.Error(t, err)

	_, err = f.Open(context.Background(), "/songs/")
	assert.Error(t, err)

	_, err = f.Open(context.Background(), "/songs/absent.mp3")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
