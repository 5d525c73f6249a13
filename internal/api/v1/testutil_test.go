package v1

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/driveflix/internal/catalog"
	"github.com/vmunix/driveflix/internal/library"
	"github.com/vmunix/driveflix/internal/remote/localfs"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTranscoder stands in for ffmpeg. By default it prefixes the source
// bytes with "mp4:".
type fakeTranscoder struct {
	transcode func(ctx context.Context, src io.Reader, dst io.Writer) error
	available error
}

func (f *fakeTranscoder) Transcode(ctx context.Context, src io.Reader, dst io.Writer) error {
	if f.transcode != nil {
		return f.transcode(ctx, src, dst)
	}
	if _, err := io.WriteString(dst, "mp4:"); err != nil {
		return err
	}
	_, err := io.Copy(dst, src)
	return err
}

func (f *fakeTranscoder) CheckAvailable(context.Context) error {
	return f.available
}

type testEnv struct {
	store *library.Store
	fs    afero.Fs
	tr    *fakeTranscoder
	url   string
}

// newTestEnv serves the API over an in-memory database and an in-memory
// remote tree with "movies" and "series" roots.
func newTestEnv(t *testing.T, opts ...func(*ServerDeps)) *testEnv {
	t.Helper()
	db, err := library.OpenDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/movies", 0o755))
	require.NoError(t, fsys.MkdirAll("/series", 0o755))

	env := &testEnv{store: library.NewStore(db), fs: fsys, tr: &fakeTranscoder{}}
	rs := localfs.NewFromFs(fsys)
	deps := ServerDeps{
		Library:    env.store,
		Remote:     rs,
		Syncer:     catalog.New(rs, env.store, testLogger()),
		Transcoder: env.tr,
		Folders:    catalog.Folders{Movies: "movies", Series: "series"},
		Logger:     testLogger(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	srv, err := New(deps)
	require.NoError(t, err)
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	env.url = ts.URL
	return env
}

func (e *testEnv) writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, e.fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(e.fs, path, []byte(content), 0o644))
}

func (e *testEnv) addMovie(t *testing.T, title, remoteID string, subtitleID *string) *library.Content {
	t.Helper()
	c := &library.Content{
		Type:           library.ContentTypeMovie,
		Title:          title,
		RemoteID:       &remoteID,
		SubtitleFileID: subtitleID,
	}
	require.NoError(t, e.store.AddContent(c))
	return c
}

func (e *testEnv) addEpisode(t *testing.T, remoteFileID string, subtitleID *string) *library.Episode {
	t.Helper()
	series := &library.Content{Type: library.ContentTypeSeries, Title: "Show " + remoteFileID}
	require.NoError(t, e.store.AddContent(series))
	season := &library.Season{ContentID: series.ID, Number: 1, Title: "Season 1"}
	require.NoError(t, e.store.AddSeason(season))
	ep := &library.Episode{
		SeasonID:       season.ID,
		Number:         1,
		Title:          "Pilot",
		RemoteFileID:   remoteFileID,
		SubtitleFileID: subtitleID,
	}
	require.NoError(t, e.store.AddEpisode(ep))
	return ep
}

func do(t *testing.T, method, url string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func ptr[T any](v T) *T {
	return &v
}

