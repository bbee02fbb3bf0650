package server

import (
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/haryoiro/tunebox/internal/structures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingFS struct{}

func (failingFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func newTestServer(t *testing.T, songs fs.FS) *httptest.Server {
	t.Helper()
	s, err := New(structures.ServerConfig{Port: 3000, SongsDir: "songs"}, songs)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestSongsEndpoint(t *testing.T) {
	testCases := []struct {
		name     string
		songs    fs.FS
		status   int
		expected []structures.Track
	}{
		{
			name: "lists mp3 files",
			songs: fstest.MapFS{
				"alpha.mp3": {Data: []byte("a")},
				"beta.mp3":  {Data: []byte("b")},
				"art.png":   {Data: []byte("c")},
			},
			status: http.StatusOK,
			expected: []structures.Track{
				{Title: "alpha", File: "/songs/alpha.mp3"},
				{Title: "beta", File: "/songs/beta.mp3"},
			},
		},
		{
			name:     "empty directory is not an error",
			songs:    fstest.MapFS{},
			status:   http.StatusOK,
			expected: []structures.Track{},
		},
		{
			name:     "non mp3 directory is not an error",
			songs:    fstest.MapFS{"a.wav": {Data: []byte("a")}},
			status:   http.StatusOK,
			expected: []structures.Track{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, tc.songs)

			resp, body := get(t, ts.URL+"/api/songs")
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

			var tracks []structures.Track
			require.NoError(t, json.Unmarshal(body, &tracks))
			assert.Equal(t, tc.expected, tracks)
		})
	}
}

func TestSongsEndpointEmptyBodyIsArray(t *testing.T) {
	ts := newTestServer(t, fstest.MapFS{})
	_, body := get(t, ts.URL+"/api/songs")
	assert.JSONEq(t, `[]`, string(body))
}

func TestSongsEndpointFilesystemFailure(t *testing.T) {
	ts := newTestServer(t, failingFS{})

	resp, body := get(t, ts.URL+"/api/songs")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Failed to fetch songs", payload["error"])
}

func TestSongsEndpointRelistsEveryCall(t *testing.T) {
	songs := fstest.MapFS{"one.mp3": {Data: []byte("1")}}
	ts := newTestServer(t, songs)

	_, body := get(t, ts.URL+"/api/songs")
	assert.JSONEq(t, `[{"title":"one","file":"/songs/one.mp3"}]`, string(body))

	songs["two.mp3"] = &fstest.MapFile{Data: []byte("2")}
	_, body = get(t, ts.URL+"/api/songs")
	assert.JSONEq(t, `[{"title":"one","file":"/songs/one.mp3"},{"title":"two","file":"/songs/two.mp3"}]`, string(body))
}

func TestStaticRoutes(t *testing.T) {
	ts := newTestServer(t, fstest.MapFS{"tune.mp3": {Data: []byte("ID3-bytes")}})

	resp, body := get(t, ts.URL+"/songs/tune.mp3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ID3-bytes", string(body))

	resp, _ = get(t, ts.URL+"/songs/missing.mp3")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, ts.URL+"/player.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "class PlayerController")

	resp, _ = get(t, ts.URL+"/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/nope.css")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSongsDirectoryIsNotListed(t *testing.T) {
	ts := newTestServer(t, fstest.MapFS{
		"tune.mp3":        {Data: []byte("ID3-bytes")},
		"live/encore.mp3": {Data: []byte("ID3-live")},
		"live/index.html": {Data: []byte("<html>live</html>")},
	})

	for _, path := range []string{"/songs/", "/songs", "/songs/live/", "/songs/live"} {
		resp, body := get(t, ts.URL+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.NotContains(t, string(body), "tune.mp3", path)
		assert.NotContains(t, string(body), "encore.mp3", path)
	}

	resp, body := get(t, ts.URL+"/songs/live/encore.mp3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ID3-live", string(body))
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t, fstest.MapFS{})

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `data-songs-api="/api/songs"`)
	assert.Contains(t, string(body), `id="play-button"`)
	assert.Contains(t, string(body), `id="pause-button"`)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, fstest.MapFS{"a.mp3": {Data: []byte("a")}})

	get(t, ts.URL+"/api/songs")
	resp, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tunebox_catalog_requests_total{result="ok"} 1`)
	assert.Contains(t, string(body), "tunebox_catalog_tracks 1")
}
