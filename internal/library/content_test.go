package library

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AddGetContent(t *testing.T) {
	store := NewStore(setupTestDB(t))

	c := &Content{
		Type:     ContentTypeMovie,
		Title:    "Movie Title",
		Year:     ptr(2023),
		RemoteID: ptr("file-1"),
	}
	require.NoError(t, store.AddContent(c))
	assert.NotZero(t, c.ID)
	assert.False(t, c.AddedAt.IsZero())

	got, err := store.GetContent(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Movie Title", got.Title)
	require.NotNil(t, got.Year)
	assert.Equal(t, 2023, *got.Year)
	assert.Equal(t, "file-1", *got.RemoteID)
	assert.Nil(t, got.SubtitleFileID)
}

func TestStore_GetContent_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))
	_, err := store.GetContent(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AddContent_DuplicateRemoteID(t *testing.T) {
	store := NewStore(setupTestDB(t))
	require.NoError(t, store.AddContent(&Content{Type: ContentTypeMovie, Title: "A", RemoteID: ptr("same")}))

	err := store.AddContent(&Content{Type: ContentTypeMovie, Title: "B", RemoteID: ptr("same")})
	assert.ErrorIs(t, err, ErrDuplicate)

	// Legacy rows without a remote id do not collide.
	require.NoError(t, store.AddContent(&Content{Type: ContentTypeSeries, Title: "C"}))
	require.NoError(t, store.AddContent(&Content{Type: ContentTypeSeries, Title: "D"}))
}

func TestStore_FindContentByRemoteID(t *testing.T) {
	store := NewStore(setupTestDB(t))
	movie := &Content{Type: ContentTypeMovie, Title: "A", RemoteID: ptr("file-1")}
	require.NoError(t, store.AddContent(movie))

	got, err := store.FindContentByRemoteID(ContentTypeMovie, "file-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, movie.ID, got.ID)

	got, err = store.FindContentByRemoteID(ContentTypeSeries, "file-1")
	require.NoError(t, err)
	assert.Nil(t, got, "type must match")

	got, err = store.FindContentByRemoteID(ContentTypeMovie, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_FindLegacySeries(t *testing.T) {
	store := NewStore(setupTestDB(t))
	tracked := addSeries(t, store, "Tracked", "folder-1")
	legacy := addSeries(t, store, "Legacy", "")

	got, err := store.FindLegacySeries("Legacy")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, legacy.ID, got.ID)

	got, err = store.FindLegacySeries(tracked.Title)
	require.NoError(t, err)
	assert.Nil(t, got, "rows with a remote id are never legacy matches")

	got, err = store.FindLegacySeries("legacy")
	require.NoError(t, err)
	assert.Nil(t, got, "title match is exact")
}

func TestStore_UpdateContent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	c := addSeries(t, store, "Show", "")

	c.RemoteID = ptr("folder-9")
	c.SubtitleFileID = ptr("sub-1")
	require.NoError(t, store.UpdateContent(c))

	got, err := store.GetContent(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "folder-9", *got.RemoteID)
	assert.Equal(t, "sub-1", *got.SubtitleFileID)

	err = store.UpdateContent(&Content{ID: 4242, Type: ContentTypeMovie, Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListContent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	require.NoError(t, store.AddContent(&Content{Type: ContentTypeMovie, Title: "B Movie", RemoteID: ptr("m2")}))
	require.NoError(t, store.AddContent(&Content{Type: ContentTypeMovie, Title: "A Movie", RemoteID: ptr("m1")}))
	addSeries(t, store, "Show", "s1")

	all, total, err := store.ListContent(ContentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	movies, total, err := store.ListContent(ContentFilter{Type: ptr(ContentTypeMovie)})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "A Movie", movies[0].Title)

	page, total, err := store.ListContent(ContentFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

func TestStore_DeleteContent_Cascades(t *testing.T) {
	store := NewStore(setupTestDB(t))
	series := addSeries(t, store, "Show", "folder-1")
	season := &Season{ContentID: series.ID, Number: 1, Title: "Season 1"}
	require.NoError(t, store.AddSeason(season))
	require.NoError(t, store.AddEpisode(&Episode{SeasonID: season.ID, Number: 1, Title: "Pilot", RemoteFileID: "ep-1"}))

	require.NoError(t, store.DeleteContent(series.ID))

	_, err := store.GetSeason(season.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	ep, err := store.FindEpisodeByRemoteID("ep-1")
	require.NoError(t, err)
	assert.Nil(t, ep)

	// Idempotent.
	require.NoError(t, store.DeleteContent(series.ID))
}

func TestStore_RecountSeries(t *testing.T) {
	store := NewStore(setupTestDB(t))
	series := addSeries(t, store, "Show", "folder-1")

	for n := 1; n <= 2; n++ {
		season := &Season{ContentID: series.ID, Number: n, Title: "Season"}
		require.NoError(t, store.AddSeason(season))
		for e := 1; e <= 3; e++ {
			require.NoError(t, store.AddEpisode(&Episode{
				SeasonID:     season.ID,
				Number:       e,
				Title:        "Episode",
				RemoteFileID: "ep-" + string(rune('0'+n)) + string(rune('0'+e)),
			}))
		}
	}

	got, err := store.RecountSeries(series.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalSeasons)
	assert.Equal(t, 6, got.TotalEpisodes)

	stored, err := store.GetContent(series.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalSeasons)
	assert.Equal(t, 6, stored.TotalEpisodes)
}

func TestStore_RecountSeries_RejectsMovie(t *testing.T) {
	store := NewStore(setupTestDB(t))
	movie := &Content{Type: ContentTypeMovie, Title: "A", RemoteID: ptr("m")}
	require.NoError(t, store.AddContent(movie))

	_, err := store.RecountSeries(movie.ID)
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestMapSQLiteError(t *testing.T) {
	assert.Nil(t, mapSQLiteError(nil))
	assert.ErrorIs(t, mapSQLiteError(errors.New("UNIQUE constraint failed: content.remote_id")), ErrDuplicate)
	assert.ErrorIs(t, mapSQLiteError(errors.New("FOREIGN KEY constraint failed")), ErrConstraint)
	other := errors.New("disk I/O error")
	assert.Equal(t, other, mapSQLiteError(other))
}
