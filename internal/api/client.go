package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/structures"
)

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 4096

// Client talks to a tunebox server
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL, e.g. http://localhost:3000
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: constants.FetchTimeout,
		},
	}, nil
}

// SetTimeout changes the per-request timeout
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// Resolve turns a server-relative path such as /songs/a.mp3 into an absolute URL
func (c *Client) Resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// FetchSongs gets the catalog
func (c *Client) FetchSongs(ctx context.Context) ([]structures.Track, error) {
	body, err := c.get(ctx, constants.SongsAPIPath)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var tracks []structures.Track
	if err := json.NewDecoder(body).Decode(&tracks); err != nil {
		return nil, fmt.Errorf("malformed catalog response: %w", err)
	}
	if tracks == nil {
		tracks = []structures.Track{}
	}
	return tracks, nil
}

// Open fetches a track body. The caller closes it.
func (c *Client) Open(ctx context.Context, file string) (io.ReadCloser, error) {
	return c.get(ctx, file)
}

func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	target, err := c.Resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s failed: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp.Body, nil
}

// StatusError is a non-2xx answer from the server
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error! Status: %d (%s)", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP error! Status: %d", e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

func statusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			se.Message = payload.Error
		}
	}
	return se
}
