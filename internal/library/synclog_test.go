package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SyncLogs(t *testing.T) {
	store := NewStore(setupTestDB(t))
	start := time.Now().Add(-time.Minute)

	ok := &SyncLog{
		FolderID: "movies-root", Kind: SyncMovies,
		ItemsFound: 3, ItemsAdded: 2, ItemsUpdated: 1,
		Status: SyncSuccess, StartedAt: start, FinishedAt: start.Add(time.Second),
	}
	require.NoError(t, store.AddSyncLog(ok))
	assert.NotZero(t, ok.ID)

	failed := &SyncLog{
		FolderID: "series-root", Kind: SyncSeries,
		ItemsFound: 5, ItemsAdded: 1,
		Status: SyncFailed, ErrorMessage: ptr("insert episode: disk full"),
		StartedAt: start, FinishedAt: start.Add(2 * time.Second),
	}
	require.NoError(t, store.AddSyncLog(failed))

	logs, err := store.ListSyncLogs(SyncLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, failed.ID, logs[0].ID, "newest first")
	assert.Equal(t, "insert episode: disk full", *logs[0].ErrorMessage)
	assert.Equal(t, 1, logs[0].ItemsAdded)

	logs, err = store.ListSyncLogs(SyncLogFilter{Kind: ptr(SyncMovies)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].ErrorMessage)

	logs, err = store.ListSyncLogs(SyncLogFilter{Status: ptr(SyncFailed), Limit: 10})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestStore_AddSyncLog_InvalidStatus(t *testing.T) {
	store := NewStore(setupTestDB(t))
	err := store.AddSyncLog(&SyncLog{FolderID: "x", Kind: SyncMovies, Status: "maybe", StartedAt: time.Now(), FinishedAt: time.Now()})
	assert.ErrorIs(t, err, ErrConstraint)
}
