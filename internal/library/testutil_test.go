package library

import (
	"context"
	"database/sql"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func addSeries(t *testing.T, s *Store, title, remoteID string) *Content {
	t.Helper()
	c := &Content{Type: ContentTypeSeries, Title: title}
	if remoteID != "" {
		c.RemoteID = ptr(remoteID)
	}
	if err := s.AddContent(c); err != nil {
		t.Fatalf("add series: %v", err)
	}
	return c
}
