// Package v1 implements the HTTP API: media delivery, sync triggers and
// catalog browsing.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/internal/metrics"
	"github.com/vmunix/driveflix/internal/remote"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, log: logger.With("component", "api")}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Delivery
	mux.HandleFunc("GET /api/movies/{id}/stream-video", s.streamMovieVideo)
	mux.HandleFunc("GET /api/episodes/{id}/stream-video", s.streamEpisodeVideo)
	mux.HandleFunc("GET /api/movies/{id}/stream-subtitles", s.streamMovieSubtitles)
	mux.HandleFunc("GET /api/episodes/{id}/stream-subtitles", s.streamEpisodeSubtitles)
	mux.HandleFunc("GET /api/movies/{id}/subtitles", s.movieSubtitles)
	mux.HandleFunc("GET /api/episodes/{id}/subtitles", s.episodeSubtitles)
	for _, p := range []string{
		"/api/movies/{id}/stream-video",
		"/api/episodes/{id}/stream-video",
		"/api/movies/{id}/stream-subtitles",
		"/api/episodes/{id}/stream-subtitles",
	} {
		mux.HandleFunc("OPTIONS "+p, preflight)
	}

	// Sync
	mux.Handle("POST /api/sync/movies", s.syncGuard(s.syncMovies))
	mux.Handle("POST /api/sync/series", s.syncGuard(s.syncSeries))
	mux.Handle("POST /api/sync/all", s.syncGuard(s.syncAll))
	mux.HandleFunc("GET /api/sync/history", s.syncHistory)
	if s.deps.Events != nil {
		mux.HandleFunc("GET /api/events", s.streamEvents)
	}

	// Catalog
	mux.HandleFunc("GET /api/content", s.listContent)
	mux.HandleFunc("GET /api/content/{id}", s.getContent)
	mux.HandleFunc("GET /api/content/{id}/seasons", s.listSeasons)
	mux.HandleFunc("GET /api/seasons/{id}/episodes", s.listEpisodes)

	// System
	mux.HandleFunc("GET /api/health", s.health)
	mux.Handle("GET /metrics", metrics.Handler())
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Hint  string `json:"hint,omitempty"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

func writeErrorHint(w http.ResponseWriter, code int, errCode, message, hint string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode, Hint: hint})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeRecordError maps a record store lookup failure.
func writeRecordError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, library.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", what+" not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
}

// writeRemoteError maps a remote store failure: missing file 404,
// unsatisfiable range 416, anything else 502.
func writeRemoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, remote.ErrNotFound):
		writeError(w, http.StatusNotFound, "REMOTE_NOT_FOUND", "File not found in remote store")
	case errors.Is(err, remote.ErrRangeNotSatisfiable):
		writeError(w, http.StatusRequestedRangeNotSatisfiable, "RANGE_NOT_SATISFIABLE", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "REMOTE_UNAVAILABLE", err.Error())
	}
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}
