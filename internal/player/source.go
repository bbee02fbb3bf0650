package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher opens a track by its source path. api.Client implements it for
// server-relative URLs; DirFetcher reads from a local directory.
type Fetcher interface {
	Open(ctx context.Context, file string) (io.ReadCloser, error)
}

// DirFetcher serves /songs/<name> sources from a local directory
type DirFetcher struct {
	Dir    string
	Prefix string
}

// Open implements Fetcher
func (d DirFetcher) Open(ctx context.Context, file string) (io.ReadCloser, error) {
	name, err := url.PathUnescape(strings.TrimPrefix(file, d.Prefix))
	if err != nil {
		return nil, fmt.Errorf("invalid source %q: %w", file, err)
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid source %q", file)
	}
	return os.Open(filepath.Join(d.Dir, name))
}

// memFile keeps a whole track in memory so the decoder can seek in it
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func readAll(ctx context.Context, f Fetcher, src string) (memFile, error) {
	body, err := f.Open(ctx, src)
	if err != nil {
		return memFile{}, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return memFile{}, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return memFile{bytes.NewReader(data)}, nil
}
