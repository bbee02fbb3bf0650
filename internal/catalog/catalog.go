// Package catalog lists the playable tracks of a songs directory.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/structures"
)

// List reads the root of fsys and returns one Track per entry whose name ends
// with the case-sensitive ".mp3" suffix, in listing order. Any read failure
// yields an error and no tracks.
func List(fsys fs.FS) ([]structures.Track, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read songs directory: %w", err)
	}

	tracks := make([]structures.Track, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !IsTrackFile(name) {
			continue
		}
		tracks = append(tracks, structures.Track{
			Title: Title(name),
			File:  FileURL(name),
		})
	}

	return tracks, nil
}

// IsTrackFile reports whether name is cataloged. No content sniffing.
func IsTrackFile(name string) bool {
	return strings.HasSuffix(name, constants.TrackExtension)
}

// Title strips the extension and nothing else
func Title(name string) string {
	return strings.TrimSuffix(name, constants.TrackExtension)
}

// FileURL is the path under which the static songs server exposes name
func FileURL(name string) string {
	return constants.SongsURLPrefix + url.PathEscape(name)
}

// DirSource serves the catalog of a local tree without a server in between
type DirSource struct {
	FS fs.FS
}

// FetchSongs implements controller.CatalogSource
func (d DirSource) FetchSongs(ctx context.Context) ([]structures.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return List(d.FS)
}
