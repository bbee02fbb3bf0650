package catalog

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/haryoiro/tunebox/internal/structures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenFS struct{}

func (brokenFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func TestList(t *testing.T) {
	testCases := []struct {
		name     string
		files    fstest.MapFS
		expected []structures.Track
	}{
		{
			name: "only mp3 entries in listing order",
			files: fstest.MapFS{
				"b.mp3":      {Data: []byte("x")},
				"a.mp3":      {Data: []byte("x")},
				"cover.jpg":  {Data: []byte("x")},
				"notes.txt":  {Data: []byte("x")},
				"c.mp3.part": {Data: []byte("x")},
			},
			expected: []structures.Track{
				{Title: "a", File: "/songs/a.mp3"},
				{Title: "b", File: "/songs/b.mp3"},
			},
		},
		{
			name: "extension match is case sensitive",
			files: fstest.MapFS{
				"loud.MP3":  {Data: []byte("x")},
				"quiet.mp3": {Data: []byte("x")},
			},
			expected: []structures.Track{
				{Title: "quiet", File: "/songs/quiet.mp3"},
			},
		},
		{
			name: "title keeps everything but the suffix",
			files: fstest.MapFS{
				"01 - Intro.mp3.mp3": {Data: []byte("x")},
			},
			expected: []structures.Track{
				{Title: "01 - Intro.mp3", File: "/songs/01%20-%20Intro.mp3.mp3"},
			},
		},
		{
			name: "directories are skipped",
			files: fstest.MapFS{
				"album.mp3/track.mp3": {Data: []byte("x")},
				"single.mp3":          {Data: []byte("x")},
			},
			expected: []structures.Track{
				{Title: "single", File: "/songs/single.mp3"},
			},
		},
		{
			name:     "empty directory",
			files:    fstest.MapFS{},
			expected: []structures.Track{},
		},
		{
			name: "no mp3 files",
			files: fstest.MapFS{
				"readme.md": {Data: []byte("x")},
			},
			expected: []structures.Track{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tracks, err := List(tc.files)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tracks)
		})
	}
}

func TestListReadFailure(t *testing.T) {
	tracks, err := List(brokenFS{})
	require.Error(t, err)
	assert.Nil(t, tracks)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "song", Title("song.mp3"))
	assert.Equal(t, "song.MP3", Title("song.MP3"))
	assert.True(t, IsTrackFile(".mp3"))
	assert.False(t, IsTrackFile("song.mp4"))
}

func TestDirSourceFetchSongs(t *testing.T) {
	src := DirSource{FS: fstest.MapFS{
		"b.mp3": {Data: []byte("b")},
		"a.mp3": {Data: []byte("a")},
	}}

	tracks, err := src.FetchSongs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []structures.Track{
		{Title: "a", File: "/songs/a.mp3"},
		{Title: "b", File: "/songs/b.mp3"},
	}, tracks)
}

func TestDirSourceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirSource{FS: fstest.MapFS{}}.FetchSongs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
