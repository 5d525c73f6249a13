// Package s3store implements remote.Store over an S3 bucket. Folder IDs are
// key prefixes without the trailing slash; "" is the bucket root.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/vmunix/driveflix/internal/remote"
)

// Config configures the bucket connection.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // S3-compatible services (MinIO, R2)
	AccessKey string
	SecretKey string
}

// Store reads media objects from a bucket.
type Store struct {
	Client s3iface.S3API
	Bucket string
}

var _ remote.Store = (*Store)(nil)

// New creates a session from cfg. Empty credentials fall back to the
// SDK's default chain.
func New(cfg Config) (*Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return &Store{Client: s3.New(sess), Bucket: cfg.Bucket}, nil
}

func prefixFor(folderID string) string {
	p := strings.Trim(folderID, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// ListChildren lists one level below folderID. Object listings carry no
// content type, so files are returned with an empty MimeType.
func (s *Store) ListChildren(ctx context.Context, folderID string) ([]remote.Entry, error) {
	prefix := prefixFor(folderID)
	var entries []remote.Entry

	err := s.Client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}, func(out *s3.ListObjectsV2Output, _ bool) bool {
		for _, cp := range out.CommonPrefixes {
			id := strings.TrimSuffix(aws.StringValue(cp.Prefix), "/")
			entries = append(entries, remote.Entry{
				ID:       id,
				Name:     path.Base(id),
				MimeType: remote.FolderMimeType,
				IsFolder: true,
			})
		}
		for _, obj := range out.Contents {
			key := aws.StringValue(obj.Key)
			if key == prefix {
				continue
			}
			entries = append(entries, remote.Entry{
				ID:        key,
				Name:      path.Base(key),
				CreatedAt: aws.TimeValue(obj.LastModified),
			})
		}
		return true
	})
	if err != nil {
		return nil, mapError(folderID, err)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// GetMetadata issues a HEAD for fileID.
func (s *Store) GetMetadata(ctx context.Context, fileID string) (*remote.Metadata, error) {
	out, err := s.Client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return nil, mapError(fileID, err)
	}
	return &remote.Metadata{
		ID:       fileID,
		Name:     path.Base(fileID),
		MimeType: aws.StringValue(out.ContentType),
		Size:     aws.Int64Value(out.ContentLength),
	}, nil
}

// OpenReadStream issues a GET, passing the Range header through.
func (s *Store) OpenReadStream(ctx context.Context, fileID, rangeHeader string) (*remote.Stream, error) {
	in := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(fileID),
	}
	if rangeHeader != "" {
		in.Range = aws.String(rangeHeader)
	}
	out, err := s.Client.GetObjectWithContext(ctx, in)
	if err != nil {
		return nil, mapError(fileID, err)
	}

	h := http.Header{}
	status := http.StatusOK
	if out.ContentLength != nil {
		h.Set("Content-Length", strconv.FormatInt(*out.ContentLength, 10))
	}
	if out.ContentType != nil {
		h.Set("Content-Type", *out.ContentType)
	}
	if out.AcceptRanges != nil {
		h.Set("Accept-Ranges", *out.AcceptRanges)
	}
	if out.ContentRange != nil {
		h.Set("Content-Range", *out.ContentRange)
		status = http.StatusPartialContent
	}
	return &remote.Stream{Status: status, Header: h, Body: out.Body}, nil
}

func mapError(id string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		switch reqErr.StatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", id, remote.ErrNotFound)
		case http.StatusRequestedRangeNotSatisfiable:
			return fmt.Errorf("%s: %w", id, remote.ErrRangeNotSatisfiable)
		}
	}
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return fmt.Errorf("%s: %w", id, remote.ErrNotFound)
		case "InvalidRange":
			return fmt.Errorf("%s: %w", id, remote.ErrRangeNotSatisfiable)
		}
	}
	return fmt.Errorf("%s: %w: %w", id, remote.ErrUnavailable, err)
}
