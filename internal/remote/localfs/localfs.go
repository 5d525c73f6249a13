// Package localfs serves a directory tree as a remote store. File and
// folder IDs are slash-separated paths relative to the root. It backs
// development setups and tests.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"github.com/vmunix/driveflix/internal/remote"
)

// Store reads media from an afero filesystem.
type Store struct {
	fs afero.Fs
}

// New returns a Store rooted at dir on the OS filesystem.
func New(dir string) *Store {
	return NewFromFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewFromFs wraps an existing filesystem, typically afero.NewMemMapFs in tests.
func NewFromFs(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

var _ remote.Store = (*Store)(nil)

func cleanID(id string) string {
	return path.Clean("/" + strings.TrimPrefix(id, "/"))
}

// ListChildren lists folderID, sorted by name.
func (s *Store) ListChildren(ctx context.Context, folderID string) ([]remote.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := cleanID(folderID)
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, mapError(folderID, err)
	}

	entries := make([]remote.Entry, 0, len(infos))
	for _, info := range infos {
		id := path.Join(dir, info.Name())
		e := remote.Entry{
			ID:        strings.TrimPrefix(id, "/"),
			Name:      info.Name(),
			IsFolder:  info.IsDir(),
			CreatedAt: info.ModTime(),
		}
		if e.IsFolder {
			e.MimeType = remote.FolderMimeType
		} else {
			e.MimeType = s.detect(id)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// GetMetadata stats fileID and sniffs its content type.
func (s *Store) GetMetadata(ctx context.Context, fileID string) (*remote.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := cleanID(fileID)
	info, err := s.fs.Stat(id)
	if err != nil {
		return nil, mapError(fileID, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a folder: %w", fileID, remote.ErrNotFound)
	}
	return &remote.Metadata{
		ID:       fileID,
		Name:     info.Name(),
		MimeType: s.detect(id),
		Size:     info.Size(),
	}, nil
}

// OpenReadStream opens fileID, honoring a single byte range.
func (s *Store) OpenReadStream(ctx context.Context, fileID, rangeHeader string) (*remote.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := cleanID(fileID)
	f, err := s.fs.Open(id)
	if err != nil {
		return nil, mapError(fileID, err)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		if err == nil {
			err = fs.ErrNotExist
		}
		return nil, mapError(fileID, err)
	}
	size := info.Size()

	h := http.Header{}
	h.Set("Content-Type", s.detect(id))
	h.Set("Accept-Ranges", "bytes")

	r, ok, err := remote.ParseRange(rangeHeader, size)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s %q: %w", fileID, rangeHeader, err)
	}
	if !ok {
		h.Set("Content-Length", strconv.FormatInt(size, 10))
		return &remote.Stream{Status: http.StatusOK, Header: h, Body: f}, nil
	}

	if _, err := f.Seek(r.Start, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek %s: %w", fileID, remote.ErrUnavailable)
	}
	h.Set("Content-Length", strconv.FormatInt(r.Length(), 10))
	h.Set("Content-Range", r.ContentRange(size))
	return &remote.Stream{
		Status: http.StatusPartialContent,
		Header: h,
		Body:   limitedFile{Reader: io.LimitReader(f, r.Length()), Closer: f},
	}, nil
}

type limitedFile struct {
	io.Reader
	io.Closer
}

// detect sniffs the first bytes of a file. Unknown content reports
// application/octet-stream and callers fall back to the extension.
func (s *Store) detect(id string) string {
	f, err := s.fs.Open(id)
	if err != nil {
		return "application/octet-stream"
	}
	defer func() { _ = f.Close() }()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}

func mapError(id string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", id, remote.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", id, remote.ErrUnavailable, err)
}
