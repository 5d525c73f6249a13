package library

import (
	"errors"
	"fmt"
	"time"
)

const seasonColumns = "id, content_id, season_number, title, added_at"

func scanSeason(row scanner) (*Season, error) {
	s := &Season{}
	err := row.Scan(&s.ID, &s.ContentID, &s.Number, &s.Title, &s.AddedAt)
	return s, err
}

// AddSeason inserts a season. Returns ErrDuplicate if the series already
// has a season with that number.
func (s *Store) AddSeason(season *Season) error {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO seasons (content_id, season_number, title, added_at)
		VALUES (?, ?, ?, ?)`,
		season.ContentID, season.Number, season.Title, now,
	)
	if err != nil {
		return fmt.Errorf("insert season: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	season.ID = id
	season.AddedAt = now
	return nil
}

// GetSeason retrieves a season by ID.
func (s *Store) GetSeason(id int64) (*Season, error) {
	season, err := scanSeason(s.db.QueryRow("SELECT "+seasonColumns+" FROM seasons WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get season %d: %w", id, mapSQLiteError(err))
	}
	return season, nil
}

// FindSeason looks up a series' season by number. Returns nil, nil if
// there is none.
func (s *Store) FindSeason(contentID int64, number int) (*Season, error) {
	season, err := scanSeason(s.db.QueryRow(
		"SELECT "+seasonColumns+" FROM seasons WHERE content_id = ? AND season_number = ?",
		contentID, number,
	))
	if err != nil {
		if err = mapSQLiteError(err); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find season %d of content %d: %w", number, contentID, err)
	}
	return season, nil
}

// ListSeasons returns a series' seasons ordered by number.
func (s *Store) ListSeasons(contentID int64) ([]*Season, error) {
	rows, err := s.db.Query(
		"SELECT "+seasonColumns+" FROM seasons WHERE content_id = ? ORDER BY season_number", contentID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Season
	for rows.Next() {
		season, err := scanSeason(rows)
		if err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		results = append(results, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}
	return results, nil
}

func countSeasons(q querier, contentID int64) (int, error) {
	var n int
	if err := q.QueryRow("SELECT COUNT(*) FROM seasons WHERE content_id = ?", contentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count seasons of content %d: %w", contentID, err)
	}
	return n, nil
}

// CountSeasons returns the number of season rows of a series.
func (s *Store) CountSeasons(contentID int64) (int, error) { return countSeasons(s.db, contentID) }

// CountSeasons returns the number of season rows within a transaction.
func (t *Tx) CountSeasons(contentID int64) (int, error) { return countSeasons(t.tx, contentID) }
