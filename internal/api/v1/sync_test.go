package v1

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/driveflix/internal/catalog"
)

func TestSyncMovies(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "/movies/Heat (1995).mp4", "heat")
	env.writeFile(t, "/movies/Heat (1995).srt", "1\n00:00:01,000 --> 00:00:02,000\nHi\n")

	resp := do(t, http.MethodPost, env.url+"/api/sync/movies", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body syncResponse
	decodeJSON(t, resp, &body)
	require.NotNil(t, body.Report)
	assert.Equal(t, "success", body.Report.Status)
	assert.Equal(t, 1, body.Report.ItemsFound)
	assert.Equal(t, 1, body.Report.ItemsAdded)

	resp = do(t, http.MethodGet, env.url+"/api/sync/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []syncLogResponse
	decodeJSON(t, resp, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "movies", history[0].Kind)
	assert.Equal(t, "movies", history[0].FolderID)
}

func TestSyncSeries_ThenBrowse(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "/series/Show/Season 1/S01E01 - Pilot.mp4", "a")
	env.writeFile(t, "/series/Show/Season 1/S01E02.mp4", "b")

	resp := do(t, http.MethodPost, env.url+"/api/sync/series", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, env.url+"/api/content?type=series", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list listContentResponse
	decodeJSON(t, resp, &list)
	require.Len(t, list.Items, 1)
	show := list.Items[0]
	assert.Equal(t, "Show", show.Title)
	assert.Equal(t, 1, show.TotalSeasons)
	assert.Equal(t, 2, show.TotalEpisodes)

	resp = do(t, http.MethodGet, fmt.Sprintf("%s/api/content/%d/seasons", env.url, show.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var seasons []seasonResponse
	decodeJSON(t, resp, &seasons)
	require.Len(t, seasons, 1)
	assert.Equal(t, "Season 1", seasons[0].Title)

	resp = do(t, http.MethodGet, fmt.Sprintf("%s/api/seasons/%d/episodes", env.url, seasons[0].ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var episodes listEpisodesResponse
	decodeJSON(t, resp, &episodes)
	require.Len(t, episodes.Items, 2)
	assert.Equal(t, "Pilot", episodes.Items[0].Title)
	assert.Equal(t, "Episode 2", episodes.Items[1].Title)
}

func TestSync_FolderNotConfigured(t *testing.T) {
	env := newTestEnv(t, func(d *ServerDeps) { d.Folders = catalog.Folders{} })

	for _, path := range []string{"/api/sync/movies", "/api/sync/series", "/api/sync/all"} {
		resp := do(t, http.MethodPost, env.url+path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestSyncAll_CapturesPerKindFailure(t *testing.T) {
	env := newTestEnv(t, func(d *ServerDeps) {
		d.Folders = catalog.Folders{Movies: "missing", Series: "series"}
	})
	env.writeFile(t, "/series/Show/S1/1.mp4", "a")

	resp := do(t, http.MethodPost, env.url+"/api/sync/all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body syncAllResponse
	decodeJSON(t, resp, &body)
	require.NotNil(t, body.Movies)
	require.NotNil(t, body.Series)
	assert.NotEmpty(t, body.Movies.Error)
	assert.Equal(t, "failed", body.Movies.Report.Status)
	assert.Empty(t, body.Series.Error)
	assert.Equal(t, 1, body.Series.Report.ItemsAdded)
}

func TestSyncMovies_FailureReturns500(t *testing.T) {
	env := newTestEnv(t, func(d *ServerDeps) { d.Folders.Movies = "missing" })

	resp := do(t, http.MethodPost, env.url+"/api/sync/movies", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body syncResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Movies sync failed", body.Message)
	require.NotNil(t, body.Report)
	assert.Equal(t, "failed", body.Report.Status)
}

func TestSync_APIKey(t *testing.T) {
	env := newTestEnv(t, func(d *ServerDeps) { d.APIKey = "secret" })

	resp := do(t, http.MethodPost, env.url+"/api/sync/movies", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, env.url+"/api/sync/movies", map[string]string{"X-Api-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodPost, env.url+"/api/sync/movies", map[string]string{"X-Api-Key": "secret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSync_RateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *ServerDeps) { d.SyncRequestsPerMinute = 1 })

	resp := do(t, http.MethodPost, env.url+"/api/sync/movies", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, env.url+"/api/sync/movies", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}
