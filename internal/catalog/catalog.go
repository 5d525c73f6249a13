// Package catalog reconciles the remote folder tree with the record store.
//
// A movies sync reads one folder of video files. A series sync walks
// series folders, then season folders, then episode files. Both are
// idempotent: re-running against an unchanged tree adds nothing and
// rewrites every known item once.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/driveflix/internal/events"
	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/internal/metrics"
	"github.com/vmunix/driveflix/internal/remote"
)

// ErrRecordStore marks record store failures. They abort the whole sync;
// any other per-item error only skips that item.
var ErrRecordStore = errors.New("record store")

// Records is the slice of the record store a sync reads and writes.
type Records interface {
	AddContent(c *library.Content) error
	UpdateContent(c *library.Content) error
	FindContentByRemoteID(typ library.ContentType, remoteID string) (*library.Content, error)
	FindLegacySeries(title string) (*library.Content, error)
	AddSeason(s *library.Season) error
	FindSeason(contentID int64, number int) (*library.Season, error)
	AddEpisode(e *library.Episode) error
	UpdateEpisode(e *library.Episode) error
	FindEpisodeByRemoteID(remoteFileID string) (*library.Episode, error)
	RecountSeries(contentID int64) (*library.Content, error)
	AddSyncLog(l *library.SyncLog) error
}

var _ Records = (*library.Store)(nil)

// Report is the outcome of one sync run.
type Report struct {
	Kind         library.SyncKind
	FolderID     string
	ItemsFound   int
	ItemsAdded   int
	ItemsUpdated int
	ItemsSkipped int
	Status       library.SyncStatus
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Syncer runs catalog syncs. Syncs are expected to run one at a time; the
// find-then-write sequence is not transactional.
type Syncer struct {
	remote  remote.Store
	records Records
	events  Publisher
	log     *slog.Logger
}

// Publisher receives sync lifecycle and content events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// New creates a Syncer.
func New(rs remote.Store, records Records, logger *slog.Logger) *Syncer {
	return &Syncer{
		remote:  rs,
		records: records,
		log:     logger.With("component", "catalog"),
	}
}

// WithEvents makes the Syncer publish to p. It returns s for chaining.
func (s *Syncer) WithEvents(p Publisher) *Syncer {
	s.events = p
	return s
}

func (s *Syncer) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

// SyncMovies reconciles the movies folder. On failure the returned report
// has status failed with the counts reached so far, and the error is
// returned alongside it.
func (s *Syncer) SyncMovies(ctx context.Context, folderID string) (*Report, error) {
	r := s.begin(ctx, library.SyncMovies, folderID)
	return s.finish(ctx, r, s.syncMovies(ctx, r))
}

// SyncSeries reconciles the series folder tree. Failure semantics match
// SyncMovies.
func (s *Syncer) SyncSeries(ctx context.Context, folderID string) (*Report, error) {
	r := s.begin(ctx, library.SyncSeries, folderID)
	return s.finish(ctx, r, s.syncSeries(ctx, r))
}

// Folders holds the root folder IDs. An empty ID disables that kind.
type Folders struct {
	Movies string
	Series string
}

// Result pairs a report with the error that ended it, if any.
type Result struct {
	Report *Report
	Err    error
}

// AllResult is the outcome of SyncAll. A nil field means the kind is not
// configured.
type AllResult struct {
	Movies *Result
	Series *Result
}

// SyncAll runs the movies sync, then the series sync. A failure of one
// kind is captured in its Result and does not prevent the other.
func (s *Syncer) SyncAll(ctx context.Context, f Folders) AllResult {
	var res AllResult
	if f.Movies != "" {
		report, err := s.SyncMovies(ctx, f.Movies)
		res.Movies = &Result{Report: report, Err: err}
	}
	if f.Series != "" {
		report, err := s.SyncSeries(ctx, f.Series)
		res.Series = &Result{Report: report, Err: err}
	}
	return res
}

func (s *Syncer) begin(ctx context.Context, kind library.SyncKind, folderID string) *Report {
	s.log.Info("sync started", "kind", kind, "folder_id", folderID)
	s.publish(ctx, &events.SyncStarted{
		BaseEvent: events.NewBaseEvent(events.TypeSyncStarted),
		Kind:      string(kind),
		FolderID:  folderID,
	})
	return &Report{Kind: kind, FolderID: folderID, StartedAt: time.Now()}
}

// finish stamps the outcome and writes the audit row. A failure to write
// the audit row is logged and does not change the outcome.
func (s *Syncer) finish(ctx context.Context, r *Report, err error) (*Report, error) {
	r.FinishedAt = time.Now()
	r.Status = library.SyncSuccess
	if err != nil {
		r.Status = library.SyncFailed
		r.ErrorMessage = err.Error()
	}

	entry := &library.SyncLog{
		FolderID:     r.FolderID,
		Kind:         r.Kind,
		ItemsFound:   r.ItemsFound,
		ItemsAdded:   r.ItemsAdded,
		ItemsUpdated: r.ItemsUpdated,
		Status:       r.Status,
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
	if err != nil {
		msg := r.ErrorMessage
		entry.ErrorMessage = &msg
	}
	if logErr := s.records.AddSyncLog(entry); logErr != nil {
		s.log.Error("failed to record sync log", "kind", r.Kind, "error", logErr)
	}

	kind := string(r.Kind)
	metrics.SyncRunsTotal.WithLabelValues(kind, string(r.Status)).Inc()
	metrics.SyncItemsTotal.WithLabelValues(kind, "added").Add(float64(r.ItemsAdded))
	metrics.SyncItemsTotal.WithLabelValues(kind, "updated").Add(float64(r.ItemsUpdated))
	metrics.SyncItemsTotal.WithLabelValues(kind, "skipped").Add(float64(r.ItemsSkipped))
	metrics.SyncDuration.WithLabelValues(kind).Observe(r.FinishedAt.Sub(r.StartedAt).Seconds())

	s.publish(context.WithoutCancel(ctx), &events.SyncFinished{
		BaseEvent:    events.NewBaseEvent(events.TypeSyncFinished),
		Kind:         kind,
		FolderID:     r.FolderID,
		Status:       string(r.Status),
		ItemsFound:   r.ItemsFound,
		ItemsAdded:   r.ItemsAdded,
		ItemsUpdated: r.ItemsUpdated,
		ItemsSkipped: r.ItemsSkipped,
		Error:        r.ErrorMessage,
	})

	attrs := []any{
		"kind", r.Kind,
		"found", r.ItemsFound,
		"added", r.ItemsAdded,
		"updated", r.ItemsUpdated,
		"skipped", r.ItemsSkipped,
		"duration_ms", r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
	}
	if err != nil {
		s.log.Error("sync failed", append(attrs, "error", err)...)
		return r, err
	}
	s.log.Info("sync finished", attrs...)
	return r, nil
}

func (s *Syncer) publishAdded(ctx context.Context, c *library.Content) {
	s.publish(ctx, &events.ContentAdded{
		BaseEvent:   events.NewBaseEvent(events.TypeContentAdded),
		ContentID:   c.ID,
		ContentType: string(c.Type),
		Title:       c.Title,
	})
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrRecordStore, err)
}

// fatal reports whether err must abort the sync rather than skip an item.
func fatal(ctx context.Context, err error) bool {
	return errors.Is(err, ErrRecordStore) || ctx.Err() != nil
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
