package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Seasons(t *testing.T) {
	store := NewStore(setupTestDB(t))
	series := addSeries(t, store, "Show", "folder-1")

	s2 := &Season{ContentID: series.ID, Number: 2, Title: "Season 2"}
	s1 := &Season{ContentID: series.ID, Number: 1, Title: "Season 1"}
	require.NoError(t, store.AddSeason(s2))
	require.NoError(t, store.AddSeason(s1))

	err := store.AddSeason(&Season{ContentID: series.ID, Number: 1, Title: "again"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := store.FindSeason(series.ID, 2)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, s2.ID, found.ID)

	found, err = store.FindSeason(series.ID, 7)
	require.NoError(t, err)
	assert.Nil(t, found)

	seasons, err := store.ListSeasons(series.ID)
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, 1, seasons[0].Number)

	n, err := store.CountSeasons(series.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_AddSeason_UnknownContent(t *testing.T) {
	store := NewStore(setupTestDB(t))
	err := store.AddSeason(&Season{ContentID: 999, Number: 1, Title: "Season 1"})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestStore_Episodes(t *testing.T) {
	store := NewStore(setupTestDB(t))
	series := addSeries(t, store, "Show", "folder-1")
	s1 := &Season{ContentID: series.ID, Number: 1, Title: "Season 1"}
	s2 := &Season{ContentID: series.ID, Number: 2, Title: "Season 2"}
	require.NoError(t, store.AddSeason(s1))
	require.NoError(t, store.AddSeason(s2))

	ep := &Episode{SeasonID: s1.ID, Number: 1, Title: "Pilot", RemoteFileID: "file-1", SubtitleFileID: ptr("sub-1")}
	require.NoError(t, store.AddEpisode(ep))
	assert.NotZero(t, ep.ID)

	err := store.AddEpisode(&Episode{SeasonID: s2.ID, Number: 1, Title: "Dup", RemoteFileID: "file-1"})
	assert.ErrorIs(t, err, ErrDuplicate)

	found, err := store.FindEpisodeByRemoteID("file-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "sub-1", *found.SubtitleFileID)

	// Moving the file to another season updates the row in place.
	found.SeasonID = s2.ID
	found.SubtitleFileID = nil
	require.NoError(t, store.UpdateEpisode(found))

	got, err := store.GetEpisode(ep.ID)
	require.NoError(t, err)
	assert.Equal(t, s2.ID, got.SeasonID)
	assert.Nil(t, got.SubtitleFileID)

	n, err := store.CountEpisodes(series.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_UpdateEpisode_NotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))
	err := store.UpdateEpisode(&Episode{ID: 77, SeasonID: 1, Number: 1, Title: "x", RemoteFileID: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListEpisodes(t *testing.T) {
	store := NewStore(setupTestDB(t))
	series := addSeries(t, store, "Show", "folder-1")
	other := addSeries(t, store, "Other", "folder-2")

	s1 := &Season{ContentID: series.ID, Number: 1, Title: "Season 1"}
	s2 := &Season{ContentID: series.ID, Number: 2, Title: "Season 2"}
	o1 := &Season{ContentID: other.ID, Number: 1, Title: "Season 1"}
	for _, s := range []*Season{s1, s2, o1} {
		require.NoError(t, store.AddSeason(s))
	}
	require.NoError(t, store.AddEpisode(&Episode{SeasonID: s2.ID, Number: 1, Title: "b", RemoteFileID: "f3"}))
	require.NoError(t, store.AddEpisode(&Episode{SeasonID: s1.ID, Number: 2, Title: "a2", RemoteFileID: "f2"}))
	require.NoError(t, store.AddEpisode(&Episode{SeasonID: s1.ID, Number: 1, Title: "a1", RemoteFileID: "f1"}))
	require.NoError(t, store.AddEpisode(&Episode{SeasonID: o1.ID, Number: 1, Title: "o", RemoteFileID: "f4"}))

	eps, total, err := store.ListEpisodes(EpisodeFilter{ContentID: ptr(series.ID)})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, eps, 3)
	assert.Equal(t, "f1", eps[0].RemoteFileID)
	assert.Equal(t, "f2", eps[1].RemoteFileID)
	assert.Equal(t, "f3", eps[2].RemoteFileID)

	eps, total, err = store.ListEpisodes(EpisodeFilter{SeasonID: ptr(s1.ID), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, eps, 1)
}
