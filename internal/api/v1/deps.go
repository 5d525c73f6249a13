package v1

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/vmunix/driveflix/internal/catalog"
	"github.com/vmunix/driveflix/internal/events"
	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/internal/remote"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Library is the read side of the record store.
type Library interface {
	GetContent(id int64) (*library.Content, error)
	ListContent(f library.ContentFilter) ([]*library.Content, int, error)
	ListSeasons(contentID int64) ([]*library.Season, error)
	GetSeason(id int64) (*library.Season, error)
	GetEpisode(id int64) (*library.Episode, error)
	ListEpisodes(f library.EpisodeFilter) ([]*library.Episode, int, error)
	ListSyncLogs(f library.SyncLogFilter) ([]*library.SyncLog, error)
}

// Syncer runs catalog syncs.
type Syncer interface {
	SyncMovies(ctx context.Context, folderID string) (*catalog.Report, error)
	SyncSeries(ctx context.Context, folderID string) (*catalog.Report, error)
	SyncAll(ctx context.Context, f catalog.Folders) catalog.AllResult
}

// Transcoder remuxes a source stream for browser playback.
type Transcoder interface {
	Transcode(ctx context.Context, src io.Reader, dst io.Writer) error
	CheckAvailable(ctx context.Context) error
}

var (
	_ Library = (*library.Store)(nil)
	_ Syncer  = (*catalog.Syncer)(nil)
)

// ServerDeps contains all dependencies for the API server.
type ServerDeps struct {
	// Required dependencies
	Library    Library
	Remote     remote.Store
	Syncer     Syncer
	Transcoder Transcoder

	// Folders are the configured library roots. An empty ID disables
	// syncing that kind.
	Folders catalog.Folders

	// Events, when set, is streamed to clients on GET /api/events.
	Events *events.Bus

	// APIKey, when set, is required on sync endpoints via X-Api-Key.
	APIKey string
	// SyncRequestsPerMinute limits sync triggers per client IP. Zero
	// disables the limit.
	SyncRequestsPerMinute int

	Logger *slog.Logger
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	switch {
	case d.Library == nil:
		return errors.Join(ErrMissingDependency, errors.New("library store is required"))
	case d.Remote == nil:
		return errors.Join(ErrMissingDependency, errors.New("remote store is required"))
	case d.Syncer == nil:
		return errors.Join(ErrMissingDependency, errors.New("syncer is required"))
	case d.Transcoder == nil:
		return errors.Join(ErrMissingDependency, errors.New("transcoder is required"))
	}
	return nil
}
