package systems

import (
	"context"
	"net/http"
	"time"

	"github.com/haryoiro/tunebox/internal/api"
	"github.com/haryoiro/tunebox/internal/controller"
	"github.com/haryoiro/tunebox/internal/logger"
	"github.com/haryoiro/tunebox/internal/structures"
)

var _ controller.CatalogSource = (*APISystem)(nil)

// APISystem fronts the catalog source of the player, remote or local
type APISystem struct {
	source    controller.CatalogSource
	client    *api.Client
	serverURL string
}

// NewAPISystem connects to a tunebox server
func NewAPISystem(cfg *structures.Config) (*APISystem, error) {
	client, err := api.NewClient(cfg.Client.ServerURL)
	if err != nil {
		return nil, err
	}
	client.SetTimeout(time.Duration(cfg.Client.RequestTimeout) * time.Second)
	return &APISystem{source: client, client: client, serverURL: cfg.Client.ServerURL}, nil
}

// NewLocalAPISystem serves the catalog from a source without a server
func NewLocalAPISystem(source controller.CatalogSource) *APISystem {
	return &APISystem{source: source}
}

// Client returns the HTTP client, nil for local sources
func (as *APISystem) Client() *api.Client {
	return as.client
}

// FetchSongs implements controller.CatalogSource
func (as *APISystem) FetchSongs(ctx context.Context) ([]structures.Track, error) {
	start := time.Now()
	tracks, err := as.source.FetchSongs(ctx)
	if err != nil {
		logger.Error("Failed to fetch songs: %v", err)
		if api.IsStatus(err, http.StatusNotFound) {
			logger.Error("%s has no catalog endpoint, check that server_url points at a tunebox server", as.serverURL)
		}
		return nil, err
	}
	logger.Debug("Fetched %d songs in %v", len(tracks), time.Since(start))
	return tracks, nil
}
