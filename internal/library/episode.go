package library

import (
	"errors"
	"fmt"
	"time"
)

const episodeColumns = "e.id, e.season_id, e.episode_number, e.title, e.remote_file_id, e.subtitle_file_id, e.added_at, e.updated_at"

func scanEpisode(row scanner) (*Episode, error) {
	e := &Episode{}
	err := row.Scan(&e.ID, &e.SeasonID, &e.Number, &e.Title, &e.RemoteFileID, &e.SubtitleFileID, &e.AddedAt, &e.UpdatedAt)
	return e, err
}

// AddEpisode inserts an episode. Returns ErrDuplicate if another episode
// already has the same RemoteFileID.
func (s *Store) AddEpisode(e *Episode) error {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO episodes (season_id, episode_number, title, remote_file_id, subtitle_file_id, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.SeasonID, e.Number, e.Title, e.RemoteFileID, e.SubtitleFileID, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	e.AddedAt = now
	e.UpdatedAt = now
	return nil
}

// GetEpisode retrieves an episode by ID.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisode(id int64) (*Episode, error) {
	e, err := scanEpisode(s.db.QueryRow("SELECT "+episodeColumns+" FROM episodes e WHERE e.id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	return e, nil
}

// FindEpisodeByRemoteID looks up an episode by its remote file ID,
// whichever season it is in. Returns nil, nil if there is none.
func (s *Store) FindEpisodeByRemoteID(remoteFileID string) (*Episode, error) {
	e, err := scanEpisode(s.db.QueryRow(
		"SELECT "+episodeColumns+" FROM episodes e WHERE e.remote_file_id = ?", remoteFileID))
	if err != nil {
		if err = mapSQLiteError(err); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find episode by remote id %q: %w", remoteFileID, err)
	}
	return e, nil
}

// UpdateEpisode rewrites an existing episode, including its season.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) UpdateEpisode(e *Episode) error {
	now := time.Now()
	result, err := s.db.Exec(`
		UPDATE episodes SET season_id = ?, episode_number = ?, title = ?, remote_file_id = ?,
			subtitle_file_id = ?, updated_at = ?
		WHERE id = ?`,
		e.SeasonID, e.Number, e.Title, e.RemoteFileID, e.SubtitleFileID, now, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update episode %d: %w", e.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update episode %d: %w", e.ID, ErrNotFound)
	}
	e.UpdatedAt = now
	return nil
}

// ListEpisodes returns episodes matching the filter, ordered by season
// and episode number. Returns (results, totalCount, error).
func (s *Store) ListEpisodes(f EpisodeFilter) ([]*Episode, int, error) {
	var conditions []string
	var args []any

	if f.SeasonID != nil {
		conditions = append(conditions, "e.season_id = ?")
		args = append(args, *f.SeasonID)
	}
	if f.ContentID != nil {
		conditions = append(conditions, "s.content_id = ?")
		args = append(args, *f.ContentID)
	}
	from := " FROM episodes e JOIN seasons s ON s.id = e.season_id" + whereClause(conditions)

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*)"+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count episodes: %w", err)
	}

	query := "SELECT " + episodeColumns + from + " ORDER BY s.season_number, e.episode_number, e.id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate episodes: %w", err)
	}
	return results, total, nil
}

func countEpisodes(q querier, contentID int64) (int, error) {
	var n int
	err := q.QueryRow(`
		SELECT COUNT(*) FROM episodes e
		JOIN seasons s ON s.id = e.season_id
		WHERE s.content_id = ?`, contentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count episodes of content %d: %w", contentID, err)
	}
	return n, nil
}

// CountEpisodes returns the number of episode rows across a series' seasons.
func (s *Store) CountEpisodes(contentID int64) (int, error) { return countEpisodes(s.db, contentID) }

// CountEpisodes returns the number of episode rows within a transaction.
func (t *Tx) CountEpisodes(contentID int64) (int, error) { return countEpisodes(t.tx, contentID) }
