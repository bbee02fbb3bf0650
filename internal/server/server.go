// Package server exposes the catalog endpoint, the page shell and the static
// file trees over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"strconv"

	"github.com/haryoiro/tunebox/internal/catalog"
	"github.com/haryoiro/tunebox/internal/constants"
	"github.com/haryoiro/tunebox/internal/logger"
	"github.com/haryoiro/tunebox/internal/structures"
	"github.com/haryoiro/tunebox/internal/version"
	"github.com/haryoiro/tunebox/internal/web"
)

// Server serves one songs directory
type Server struct {
	config    structures.ServerConfig
	songs     fs.FS
	assets    fs.FS
	templates *template.Template
	metrics   *metrics
	handler   http.Handler
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds a server over the songs tree. songs is usually os.DirFS of the
// configured directory.
func New(cfg structures.ServerConfig, songs fs.FS) (*Server, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		config:    cfg,
		songs:     songs,
		assets:    web.Static(),
		templates: templates,
		metrics:   newMetrics(),
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", s.instrument("index", http.HandlerFunc(s.handleIndex)))
	mux.Handle("GET "+constants.SongsAPIPath, s.instrument("songs_api", http.HandlerFunc(s.handleSongs)))
	mux.Handle("GET "+constants.SongsURLPrefix, s.instrument("songs",
		http.StripPrefix(constants.SongsURLPrefix, http.FileServer(http.FS(filesOnly{s.songs})))))
	mux.Handle("GET "+constants.MetricsPath, s.metrics.handler())
	mux.Handle("GET "+constants.StaticURLPrefix, s.instrument("static", http.FileServer(http.FS(filesOnly{s.assets}))))
	return mux
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on the configured port until ctx is done, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(s.config.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: constants.ReadTimeout,
	}
	if l := logger.GetLogger(); l != nil {
		srv.ErrorLog = l.StdLogger()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server is running on http://localhost:%d", s.config.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Serving index page")

	page := web.Page{
		Title:      "tunebox",
		SongsAPI:   constants.SongsAPIPath,
		StaticBase: constants.StaticURLPrefix,
		Version:    version.Version,
	}

	// render fully before writing so a template error can still become a 500
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		logger.Error("Error rendering index: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("Failed to write index page: %v", err)
	}
}

func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Reading songs directory: %s", s.config.SongsDir)

	tracks, err := catalog.List(s.songs)
	if err != nil {
		logger.Error("Error fetching songs: %v", err)
		s.metrics.catalogRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch songs"})
		return
	}

	s.metrics.catalogRequests.WithLabelValues("ok").Inc()
	s.metrics.catalogTracks.Set(float64(len(tracks)))
	if len(tracks) == 0 {
		logger.Info("No MP3 files found in songs directory")
	} else {
		logger.Debug("Songs found: %d", len(tracks))
	}

	writeJSON(w, http.StatusOK, tracks)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode JSON response: %v", err)
	}
}
