package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/pkg/medianame"
)

func (s *Syncer) syncMovies(ctx context.Context, r *Report) error {
	entries, err := s.remote.ListChildren(ctx, r.FolderID)
	if err != nil {
		return fmt.Errorf("list movies folder: %w", err)
	}

	files := classifyFiles(entries)
	r.ItemsFound = len(files.videos)

	for _, f := range files.videos {
		if err := ctx.Err(); err != nil {
			return err
		}

		movie, err := medianame.ParseMovieTitle(f.Name)
		if errors.Is(err, medianame.ErrEmptyTitle) {
			s.log.Warn("no title left after stripping tags, using file name", "file", f.Name)
		}

		existing, err := s.records.FindContentByRemoteID(library.ContentTypeMovie, f.ID)
		if err != nil {
			return storeErr(err)
		}

		if existing != nil {
			existing.Title = movie.Title
			existing.Year = intPtr(movie.Year)
			existing.SubtitleFileID = files.subtitleFor(f)
			if err := s.records.UpdateContent(existing); err != nil {
				return storeErr(err)
			}
			r.ItemsUpdated++
			s.log.Debug("updated movie", "title", movie.Title, "id", existing.ID)
			continue
		}

		remoteID := f.ID
		c := &library.Content{
			Type:           library.ContentTypeMovie,
			Title:          movie.Title,
			Year:           intPtr(movie.Year),
			RemoteID:       &remoteID,
			SubtitleFileID: files.subtitleFor(f),
		}
		if err := s.records.AddContent(c); err != nil {
			return storeErr(err)
		}
		r.ItemsAdded++
		s.log.Info("added movie", "title", movie.Title, "year", movie.Year, "id", c.ID)
		s.publishAdded(ctx, c)
	}
	return nil
}
