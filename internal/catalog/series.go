package catalog

import (
	"context"
	"fmt"

	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/internal/remote"
	"github.com/vmunix/driveflix/pkg/medianame"
)

func (s *Syncer) syncSeries(ctx context.Context, r *Report) error {
	entries, err := s.remote.ListChildren(ctx, r.FolderID)
	if err != nil {
		return fmt.Errorf("list series folder: %w", err)
	}

	folders, _ := remote.Split(entries)
	for _, folder := range folders {
		if err := s.syncOneSeries(ctx, r, folder); err != nil {
			if fatal(ctx, err) {
				return err
			}
			s.log.Warn("skipping series", "series", folder.Name, "error", err)
		}
	}
	return nil
}

func (s *Syncer) syncOneSeries(ctx context.Context, r *Report, folder remote.Entry) error {
	log := s.log.With("series", folder.Name)

	series, err := s.resolveSeries(ctx, folder)
	if err != nil {
		return err
	}

	entries, err := s.remote.ListChildren(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("list series %q: %w", folder.Name, err)
	}

	seasonFolders, _ := remote.Split(entries)
	for _, sf := range seasonFolders {
		number, ok := medianame.ParseSeasonFolder(sf.Name)
		if !ok {
			log.Warn("could not parse season number", "folder", sf.Name)
			continue
		}
		if err := s.syncSeason(ctx, r, series, sf, number); err != nil {
			if fatal(ctx, err) {
				return err
			}
			log.Warn("skipping season", "folder", sf.Name, "error", err)
		}
	}

	updated, err := s.records.RecountSeries(series.ID)
	if err != nil {
		return storeErr(err)
	}
	log.Info("series totals", "seasons", updated.TotalSeasons, "episodes", updated.TotalEpisodes)
	return nil
}

// resolveSeries finds the series by folder ID, then by title among legacy
// rows without an ID (backfilling it), and creates it otherwise.
func (s *Syncer) resolveSeries(ctx context.Context, folder remote.Entry) (*library.Content, error) {
	c, err := s.records.FindContentByRemoteID(library.ContentTypeSeries, folder.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if c != nil {
		return c, nil
	}

	folderID := folder.ID
	legacy, err := s.records.FindLegacySeries(folder.Name)
	if err != nil {
		return nil, storeErr(err)
	}
	if legacy != nil {
		legacy.RemoteID = &folderID
		if err := s.records.UpdateContent(legacy); err != nil {
			return nil, storeErr(err)
		}
		s.log.Info("backfilled remote id on legacy series", "series", folder.Name, "id", legacy.ID)
		return legacy, nil
	}

	c = &library.Content{
		Type:     library.ContentTypeSeries,
		Title:    folder.Name,
		RemoteID: &folderID,
	}
	if err := s.records.AddContent(c); err != nil {
		return nil, storeErr(err)
	}
	s.log.Info("added series", "series", folder.Name, "id", c.ID)
	s.publishAdded(ctx, c)
	return c, nil
}

func (s *Syncer) syncSeason(ctx context.Context, r *Report, series *library.Content, folder remote.Entry, number int) error {
	entries, err := s.remote.ListChildren(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("list season %q: %w", folder.Name, err)
	}

	season, err := s.records.FindSeason(series.ID, number)
	if err != nil {
		return storeErr(err)
	}
	if season == nil {
		season = &library.Season{
			ContentID: series.ID,
			Number:    number,
			Title:     fmt.Sprintf("Season %d", number),
		}
		if err := s.records.AddSeason(season); err != nil {
			return storeErr(err)
		}
	}

	files := classifyFiles(entries)
	r.ItemsFound += len(files.videos)

	for i, f := range files.videos {
		if err := ctx.Err(); err != nil {
			return err
		}

		ep, ok := medianame.ParseEpisodeInSeason(f.Name, number, i+1)
		if !ok {
			s.log.Warn("could not parse episode", "file", f.Name)
			r.ItemsSkipped++
			continue
		}
		if ep.Rule == medianame.RuleFallback {
			s.log.Info("episode number taken from file order", "file", f.Name, "episode", ep.Number)
		}
		if ep.Season != number {
			s.log.Debug("file names another season, filing under its folder",
				"file", f.Name, "file_season", ep.Season, "folder_season", number)
		}

		existing, err := s.records.FindEpisodeByRemoteID(f.ID)
		if err != nil {
			return storeErr(err)
		}

		if existing != nil {
			existing.SeasonID = season.ID
			existing.Number = ep.Number
			existing.Title = ep.Title
			existing.SubtitleFileID = files.subtitleFor(f)
			if err := s.records.UpdateEpisode(existing); err != nil {
				return storeErr(err)
			}
			r.ItemsUpdated++
			continue
		}

		episode := &library.Episode{
			SeasonID:       season.ID,
			Number:         ep.Number,
			Title:          ep.Title,
			RemoteFileID:   f.ID,
			SubtitleFileID: files.subtitleFor(f),
		}
		if err := s.records.AddEpisode(episode); err != nil {
			return storeErr(err)
		}
		r.ItemsAdded++
		s.log.Debug("added episode", "season", number, "episode", ep.Number, "title", ep.Title)
	}
	return nil
}
