package library

import (
	"errors"
	"fmt"
	"time"
)

const contentColumns = "id, type, title, year, remote_id, subtitle_file_id, total_seasons, total_episodes, added_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanContent(row scanner) (*Content, error) {
	c := &Content{}
	err := row.Scan(&c.ID, &c.Type, &c.Title, &c.Year, &c.RemoteID, &c.SubtitleFileID,
		&c.TotalSeasons, &c.TotalEpisodes, &c.AddedAt, &c.UpdatedAt)
	return c, err
}

func addContent(q querier, c *Content) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO content (type, title, year, remote_id, subtitle_file_id, total_seasons, total_episodes, added_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Type, c.Title, c.Year, c.RemoteID, c.SubtitleFileID, c.TotalSeasons, c.TotalEpisodes, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert content: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	c.ID = id
	c.AddedAt = now
	c.UpdatedAt = now
	return nil
}

// AddContent inserts a new content item.
// Sets ID, AddedAt, and UpdatedAt on the struct.
func (s *Store) AddContent(c *Content) error { return addContent(s.db, c) }

func getContent(q querier, id int64) (*Content, error) {
	c, err := scanContent(q.QueryRow("SELECT "+contentColumns+" FROM content WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get content %d: %w", id, mapSQLiteError(err))
	}
	return c, nil
}

// GetContent retrieves a content item by ID.
// Returns ErrNotFound if the content does not exist.
func (s *Store) GetContent(id int64) (*Content, error) { return getContent(s.db, id) }

// GetContent retrieves a content item by ID within a transaction.
func (t *Tx) GetContent(id int64) (*Content, error) { return getContent(t.tx, id) }

// findContent returns nil, nil when the query matches nothing.
func findContent(q querier, query string, args ...any) (*Content, error) {
	c, err := scanContent(q.QueryRow("SELECT "+contentColumns+" FROM content WHERE "+query+" LIMIT 1", args...))
	if err != nil {
		err = mapSQLiteError(err)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// FindContentByRemoteID looks up content of the given type by its remote
// file or folder ID. Returns nil, nil if there is none.
func (s *Store) FindContentByRemoteID(typ ContentType, remoteID string) (*Content, error) {
	c, err := findContent(s.db, "type = ? AND remote_id = ?", typ, remoteID)
	if err != nil {
		return nil, fmt.Errorf("find %s by remote id %q: %w", typ, remoteID, err)
	}
	return c, nil
}

// FindLegacySeries looks up a series by exact title among rows that have no
// remote ID yet. Returns nil, nil if there is none.
func (s *Store) FindLegacySeries(title string) (*Content, error) {
	c, err := findContent(s.db, "type = ? AND title = ? AND remote_id IS NULL", ContentTypeSeries, title)
	if err != nil {
		return nil, fmt.Errorf("find legacy series %q: %w", title, err)
	}
	return c, nil
}

func listContent(q querier, f ContentFilter) ([]*Content, int, error) {
	var conditions []string
	var args []any

	if f.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *f.Type)
	}
	if f.Title != nil {
		conditions = append(conditions, "title = ?")
		args = append(args, *f.Title)
	}
	where := whereClause(conditions)

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM content"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	query := "SELECT " + contentColumns + " FROM content" + where + " ORDER BY title, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan content: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate content: %w", err)
	}

	return results, total, nil
}

// ListContent returns content items matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListContent(f ContentFilter) ([]*Content, int, error) { return listContent(s.db, f) }

func updateContent(q querier, c *Content) error {
	now := time.Now()
	result, err := q.Exec(`
		UPDATE content SET type = ?, title = ?, year = ?, remote_id = ?, subtitle_file_id = ?,
			total_seasons = ?, total_episodes = ?, updated_at = ?
		WHERE id = ?`,
		c.Type, c.Title, c.Year, c.RemoteID, c.SubtitleFileID, c.TotalSeasons, c.TotalEpisodes, now, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update content %d: %w", c.ID, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update content %d: %w", c.ID, ErrNotFound)
	}
	c.UpdatedAt = now
	return nil
}

// UpdateContent rewrites every column of an existing content item.
// Sets UpdatedAt on the struct.
// Returns ErrNotFound if the content does not exist.
func (s *Store) UpdateContent(c *Content) error { return updateContent(s.db, c) }

// UpdateContent rewrites an existing content item within a transaction.
func (t *Tx) UpdateContent(c *Content) error { return updateContent(t.tx, c) }

func deleteContent(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM content WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete content %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteContent removes a content item by ID together with its seasons and
// episodes. Deleting a missing item is not an error.
func (s *Store) DeleteContent(id int64) error { return deleteContent(s.db, id) }

// RecountSeries recomputes TotalSeasons and TotalEpisodes of a series from
// its live child rows and persists them in one transaction.
func (s *Store) RecountSeries(contentID int64) (*Content, error) {
	tx, err := s.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	c, err := tx.GetContent(contentID)
	if err != nil {
		return nil, err
	}
	if c.Type != ContentTypeSeries {
		return nil, fmt.Errorf("recount content %d: not a series: %w", contentID, ErrConstraint)
	}
	if c.TotalSeasons, err = tx.CountSeasons(contentID); err != nil {
		return nil, err
	}
	if c.TotalEpisodes, err = tx.CountEpisodes(contentID); err != nil {
		return nil, err
	}
	if err := tx.UpdateContent(c); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit recount: %w", err)
	}
	return c, nil
}
