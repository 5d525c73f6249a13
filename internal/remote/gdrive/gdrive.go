// Package gdrive implements remote.Store on top of the Google Drive v3 API.
package gdrive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/vmunix/driveflix/internal/remote"
)

const (
	listFields = "nextPageToken, files(id, name, mimeType, createdTime)"
	fileFields = "id, name, mimeType, size"
	pageSize   = 1000
)

// Config configures the Drive client.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// Endpoint overrides the API base URL. HTTPClient replaces OAuth2
	// entirely; both exist for tests.
	Endpoint   string
	HTTPClient *http.Client

	Attempts   uint          // per listing or metadata call, default 3
	RetryDelay time.Duration // initial backoff, default 500ms
}

// Store is a Google Drive backed remote.Store.
type Store struct {
	svc      *drive.Service
	attempts uint
	delay    time.Duration
	log      *slog.Logger
}

var _ remote.Store = (*Store)(nil)

// New builds a Drive client. ctx is kept by the token source for refreshes
// and should outlive the Store.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	var opts []option.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	} else {
		oc := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{drive.DriveReadonlyScope},
		}
		ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
		opts = append(opts, option.WithTokenSource(ts))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	s := &Store{
		svc:      svc,
		attempts: cfg.Attempts,
		delay:    cfg.RetryDelay,
		log:      logger.With("component", "gdrive"),
	}
	if s.attempts == 0 {
		s.attempts = 3
	}
	if s.delay == 0 {
		s.delay = 500 * time.Millisecond
	}
	return s, nil
}

func (s *Store) retryOpts(ctx context.Context, op string) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			s.log.Warn("drive call failed, retrying", "op", op, "attempt", n+1, "error", err)
		}),
	}
}

// ListChildren pages through the folder's non-trashed children, ordered by name.
func (s *Store) ListChildren(ctx context.Context, folderID string) ([]remote.Entry, error) {
	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))

	var entries []remote.Entry
	pageToken := ""
	for {
		list, err := retry.DoWithData(func() (*drive.FileList, error) {
			call := s.svc.Files.List().
				Q(q).
				Fields(listFields).
				OrderBy("name").
				PageSize(pageSize).
				SupportsAllDrives(true).
				IncludeItemsFromAllDrives(true).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			return call.Do()
		}, s.retryOpts(ctx, "list")...)
		if err != nil {
			return nil, mapError(folderID, err)
		}

		for _, f := range list.Files {
			entries = append(entries, toEntry(f))
		}
		if list.NextPageToken == "" {
			return entries, nil
		}
		pageToken = list.NextPageToken
	}
}

// GetMetadata fetches name, MIME type and size.
func (s *Store) GetMetadata(ctx context.Context, fileID string) (*remote.Metadata, error) {
	f, err := retry.DoWithData(func() (*drive.File, error) {
		return s.svc.Files.Get(fileID).
			Fields(fileFields).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
	}, s.retryOpts(ctx, "get")...)
	if err != nil {
		return nil, mapError(fileID, err)
	}
	return &remote.Metadata{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
	}, nil
}

// OpenReadStream downloads fileID with the Range header forwarded as is.
// Downloads are not retried; a partially consumed body cannot be replayed.
func (s *Store) OpenReadStream(ctx context.Context, fileID, rangeHeader string) (*remote.Stream, error) {
	call := s.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx)
	if rangeHeader != "" {
		call.Header().Set("Range", rangeHeader)
	}
	resp, err := call.Download()
	if err != nil {
		return nil, mapError(fileID, err)
	}

	h := http.Header{}
	for _, k := range []string{"Content-Length", "Content-Type", "Content-Range", "Accept-Ranges"} {
		if v := resp.Header.Get(k); v != "" {
			h.Set(k, v)
		}
	}
	return &remote.Stream{Status: resp.StatusCode, Header: h, Body: resp.Body}, nil
}

func toEntry(f *drive.File) remote.Entry {
	e := remote.Entry{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		IsFolder: f.MimeType == remote.FolderMimeType,
	}
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		e.CreatedAt = t
	}
	return e
}

func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}

func mapError(id string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", id, remote.ErrNotFound)
		case http.StatusRequestedRangeNotSatisfiable:
			return fmt.Errorf("%s: %w", id, remote.ErrRangeNotSatisfiable)
		}
	}
	return fmt.Errorf("%s: %w: %w", id, remote.ErrUnavailable, err)
}

// escapeQuery escapes a value for a Drive query string literal.
func escapeQuery(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
