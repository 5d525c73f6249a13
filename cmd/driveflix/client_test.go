package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientHealth_Success(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/health").
		ExpectGET().
		RespondJSON(HealthResponse{Status: "ok", FFmpeg: "available"}).
		Build()

	h, err := NewClient(srv.URL, "").Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "available", h.FFmpeg)
}

func TestClient_ServerErrorJSON(t *testing.T) {
	srv := newMockServer(t).
		RespondStatusJSON(http.StatusServiceUnavailable, map[string]string{
			"error": "ffmpeg not found",
			"code":  "TRANSCODE_FAILED",
			"hint":  "install ffmpeg",
		}).
		Build()

	_, err := NewClient(srv.URL, "").Health()
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "TRANSCODE_FAILED", apiErr.Code)
	assert.Equal(t, "server error 503: ffmpeg not found (install ffmpeg)", err.Error())
}

func TestClient_ServerErrorPlain(t *testing.T) {
	srv := newMockServer(t).
		RespondError(http.StatusInternalServerError, "internal server error").
		Build()

	_, err := NewClient(srv.URL, "").GetContent(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal server error")
}

func TestClient_ConnectionError(t *testing.T) {
	srv := newMockServer(t).Build()
	srv.Close()

	_, err := NewClient(srv.URL, "").Health()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestClientContent_Query(t *testing.T) {
	year := 1999
	srv := newMockServer(t).
		ExpectPath("/api/content").
		ExpectQuery("limit=5&q=matrix&type=movie").
		RespondJSON(ListContentResponse{
			Items: []ContentResponse{{ID: 1, Type: "movie", Title: "The Matrix", Year: &year}},
			Total: 1,
			Limit: 5,
		}).
		Build()

	list, err := NewClient(srv.URL, "").Content(ContentFilter{Type: "movie", Query: "matrix", Limit: 5})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "The Matrix", list.Items[0].Title)
	assert.Equal(t, 1999, *list.Items[0].Year)
}

func TestClientSync_SendsAPIKey(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/sync/movies").
		ExpectPOST().
		ExpectAPIKey("secret").
		RespondJSON(SyncResponse{
			Message: "Movies sync completed",
			Report:  &ReportResponse{Kind: "movies", Status: "completed", ItemsFound: 3, ItemsAdded: 3},
		}).
		Build()

	resp, err := NewClient(srv.URL, "secret").Sync("movies")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Report.ItemsAdded)
}

func TestClientSync_FailureKeepsReport(t *testing.T) {
	srv := newMockServer(t).
		RespondStatusJSON(http.StatusInternalServerError, SyncResponse{
			Message: "Series sync failed",
			Error:   "list series folder: boom",
			Report:  &ReportResponse{Kind: "series", Status: "failed", Error: "list series folder: boom"},
		}).
		Build()

	resp, err := NewClient(srv.URL, "").Sync("series")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "failed", resp.Report.Status)
	assert.Contains(t, err.Error(), "list series folder: boom")
}

func TestClientHistory(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	srv := newMockServer(t).
		ExpectPath("/api/sync/history").
		ExpectQuery("limit=2&status=failed").
		RespondJSON([]SyncLogResponse{{ID: 7, Kind: "movies", Status: "failed", StartedAt: started, FinishedAt: started}}).
		Build()

	logs, err := NewClient(srv.URL, "").History("", "failed", 2)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(7), logs[0].ID)
}

func TestClientSeasonsAndEpisodes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/content/4/seasons", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":9,"season_number":1,"title":"Season 1"}]`))
	})
	mux.HandleFunc("GET /api/seasons/9/episodes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":20,"season_id":9,"episode_number":1,"title":"Pilot"}],"total":1}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "")
	seasons, err := client.Seasons(4)
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, 1, seasons[0].Number)

	eps, err := client.Episodes(9)
	require.NoError(t, err)
	require.Len(t, eps.Items, 1)
	assert.Equal(t, "Pilot", eps.Items[0].Title)
}
