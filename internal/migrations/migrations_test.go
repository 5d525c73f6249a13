package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestUp(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	v, err := Up(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	for _, table := range []string{"content", "seasons", "episodes", "sync_log"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	// Second run is a no-op.
	v, err = Up(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	statuses, err := Status(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}
