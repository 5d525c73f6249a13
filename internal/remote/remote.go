// Package remote defines the client contract for the object store holding
// the media bytes. Implementations live in subpackages.
package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/vmunix/driveflix/internal/remote Store

// FolderMimeType marks folder entries, following the Google Drive convention.
const FolderMimeType = "application/vnd.google-apps.folder"

var (
	// ErrNotFound means the file or folder does not exist.
	ErrNotFound = errors.New("remote file not found")
	// ErrUnavailable means the store could not be reached or refused the call.
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrRangeNotSatisfiable means the requested byte range is outside the file.
	ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")
)

// Entry is one child of a remote folder. It is a snapshot taken at listing time.
type Entry struct {
	ID        string
	Name      string
	MimeType  string
	IsFolder  bool
	CreatedAt time.Time
}

// Metadata describes a single remote file.
type Metadata struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
}

// Stream is an open read of a remote file. Status is 200 for a full body
// and 206 when a range was honored. Header carries the remote's
// Content-Length, Content-Type, Content-Range and Accept-Ranges.
type Stream struct {
	Status int
	Header http.Header
	Body   io.ReadCloser
}

// Close releases the underlying body.
func (s *Stream) Close() error {
	if s == nil || s.Body == nil {
		return nil
	}
	return s.Body.Close()
}

// Store is the remote file store client.
type Store interface {
	// ListChildren returns the direct children of folderID ordered by name.
	ListChildren(ctx context.Context, folderID string) ([]Entry, error)
	// GetMetadata returns name, MIME type and size of fileID.
	GetMetadata(ctx context.Context, fileID string) (*Metadata, error)
	// OpenReadStream opens fileID for reading. A non-empty rangeHeader is
	// forwarded verbatim.
	OpenReadStream(ctx context.Context, fileID, rangeHeader string) (*Stream, error)
}

// Split partitions entries into folders and files, keeping order.
func Split(entries []Entry) (folders, files []Entry) {
	for _, e := range entries {
		if e.IsFolder {
			folders = append(folders, e)
		} else {
			files = append(files, e)
		}
	}
	return folders, files
}
