package server

import (
	"context"
	"encoding/json"
	"fftpeg/config"
	"fftpeg/database/model"
	"fftpeg/organize"
	"fftpeg/service"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*Server, *service.Context) {
	t.Helper()
	cfg := config.Default()
	cfg.DownloadPath = filepath.Join(t.TempDir(), "downloads")
	svc, err := service.Open(context.Background(), cfg, "", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return New("127.0.0.1:0", svc, organize.NewSweeper(svc.Organizer, time.Hour)), svc
}

func seed(t *testing.T, svc *service.Context, name string, source string, tags ...string) *model.Download {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(svc.Layout.Downloads, name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	d := &model.Download{
		Url:          model.StrPtr("https://example.com/" + name),
		Source:       source,
		Filepath:     path,
		Filename:     name,
		ContentHash:  name,
		DownloadDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := svc.Downloads.Insert(ctx, d)
	require.NoError(t, err)
	for _, tag := range tags {
		require.NoError(t, svc.Tags.Associate(ctx, d.Id, tag, false))
	}
	svc.Organizer.PlaceAll(path, source, tags, d.DownloadDate,
		organize.Options{IncludeSource: true, IncludeTags: true, IncludeDate: true})
	return d
}

func get(t *testing.T, s *Server, method string, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, svc := setupServer(t)

	rec := get(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	require.NoError(t, svc.DB.Close())
	rec = get(t, s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListings(t *testing.T) {
	s, svc := setupServer(t)
	a := seed(t, svc, "a.mp4", "youtube", "x", "y")
	seed(t, svc, "b.mp4", "vimeo", "x")

	rec := get(t, s, http.MethodGet, "/api/sources")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["vimeo","youtube"]`, rec.Body.String())

	rec = get(t, s, http.MethodGet, "/api/tags")
	assert.JSONEq(t, `["x","y"]`, rec.Body.String())

	rec = get(t, s, http.MethodGet, "/api/downloads?tag=y")
	var downloads []model.Download
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &downloads))
	require.Len(t, downloads, 1)
	assert.Equal(t, a.Id, downloads[0].Id)

	rec = get(t, s, http.MethodGet, "/api/downloads?source=vimeo")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &downloads))
	require.Len(t, downloads, 1)
	assert.Equal(t, "b.mp4", downloads[0].Filename)

	rec = get(t, s, http.MethodGet, "/api/downloads?source=vimeo&tag=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDownload(t *testing.T) {
	s, svc := setupServer(t)
	a := seed(t, svc, "a.mp4", "youtube", "x")

	rec := get(t, s, http.MethodGet, "/api/downloads/"+strconv.FormatInt(a.Id, 10))
	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Filename string `json:"filename"`
		Tags     []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "a.mp4", body.Filename)
	require.Len(t, body.Tags, 1)
	assert.Equal(t, "x", body.Tags[0].Name)

	assert.Equal(t, http.StatusNotFound, get(t, s, http.MethodGet, "/api/downloads/999").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, http.MethodGet, "/api/downloads/abc").Code)
}

func TestStatsAndSweep(t *testing.T) {
	s, svc := setupServer(t)
	seed(t, svc, "a.mp4", "youtube", "x")
	b := seed(t, svc, "b.mp4", "youtube", "x")

	rec := get(t, s, http.MethodGet, "/api/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"by_source":{"youtube":2},"by_tag":{"x":2},"by_date":{"2024-03":2}}`, rec.Body.String())

	require.NoError(t, os.Remove(b.Filepath))
	rec = get(t, s, http.MethodPost, "/api/sweep")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":3,"skipped":false}`, rec.Body.String())

	assert.Equal(t, http.StatusMethodNotAllowed, get(t, s, http.MethodGet, "/api/sweep").Code)
}

func TestMetrics(t *testing.T) {
	s, _ := setupServer(t)
	rec := get(t, s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fftpeg_sweep_runs_total")
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := setupServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
