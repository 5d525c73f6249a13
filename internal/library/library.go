// Package library is the catalog's record store: content, seasons,
// episodes and the sync audit log, persisted in SQLite.
package library

import (
	"time"
)

// ContentType distinguishes movies from series.
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// Content is a catalog entry: a standalone movie or a series container.
// RemoteID is the movie's file ID or the series' folder ID; it is nil only
// for legacy rows created before remote IDs were tracked.
type Content struct {
	ID             int64
	Type           ContentType
	Title          string
	Year           *int
	RemoteID       *string
	SubtitleFileID *string
	TotalSeasons   int // derived, see RecountSeries
	TotalEpisodes  int // derived, see RecountSeries
	AddedAt        time.Time
	UpdatedAt      time.Time
}

// Season belongs to a series. Number is unique per series.
type Season struct {
	ID        int64
	ContentID int64
	Number    int
	Title     string
	AddedAt   time.Time
}

// Episode belongs to a season. RemoteFileID is unique across all episodes.
type Episode struct {
	ID             int64
	SeasonID       int64
	Number         int
	Title          string
	RemoteFileID   string
	SubtitleFileID *string
	AddedAt        time.Time
	UpdatedAt      time.Time
}

// SyncKind names what a sync walked.
type SyncKind string

const (
	SyncMovies SyncKind = "movies"
	SyncSeries SyncKind = "series"
)

// SyncStatus is the outcome of a sync run.
type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncFailed  SyncStatus = "failed"
)

// SyncLog is the audit record of one sync run. Rows are never updated.
type SyncLog struct {
	ID           int64
	FolderID     string
	Kind         SyncKind
	ItemsFound   int
	ItemsAdded   int
	ItemsUpdated int
	Status       SyncStatus
	ErrorMessage *string
	StartedAt    time.Time
	FinishedAt   time.Time
}
