package library

import (
	"fmt"
)

// AddSyncLog appends a sync audit record.
func (s *Store) AddSyncLog(l *SyncLog) error {
	result, err := s.db.Exec(`
		INSERT INTO sync_log (folder_id, sync_type, items_found, items_added, items_updated, status, error_message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.FolderID, l.Kind, l.ItemsFound, l.ItemsAdded, l.ItemsUpdated, l.Status, l.ErrorMessage, l.StartedAt, l.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync log: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	l.ID = id
	return nil
}

// ListSyncLogs returns sync runs matching the filter, newest first.
func (s *Store) ListSyncLogs(f SyncLogFilter) ([]*SyncLog, error) {
	var conditions []string
	var args []any

	if f.Kind != nil {
		conditions = append(conditions, "sync_type = ?")
		args = append(args, *f.Kind)
	}
	if f.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *f.Status)
	}

	query := `SELECT id, folder_id, sync_type, items_found, items_added, items_updated, status, error_message, started_at, finished_at
		FROM sync_log` + whereClause(conditions) + " ORDER BY id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sync logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*SyncLog
	for rows.Next() {
		l := &SyncLog{}
		if err := rows.Scan(&l.ID, &l.FolderID, &l.Kind, &l.ItemsFound, &l.ItemsAdded, &l.ItemsUpdated,
			&l.Status, &l.ErrorMessage, &l.StartedAt, &l.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan sync log: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync logs: %w", err)
	}
	return results, nil
}
