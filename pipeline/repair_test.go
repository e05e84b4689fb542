package pipeline

import (
	"context"
	"fftpeg/database"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorganize(t *testing.T) {
	ctx := context.Background()
	fetcher := newFakeFetcher(map[string]string{ytURL: "x"})
	p, svc := setupPipeline(t, fetcher)
	outcome := p.Download(ctx, Request{URL: ytURL, Tags: []string{"demo"}})
	require.Equal(t, STATUS_SUCCESS, outcome.Status())
	id := outcome.(*Success).ID

	// an interrupted organize pass
	require.NoError(t, os.RemoveAll(svc.Layout.ByTag))
	require.NoError(t, os.RemoveAll(svc.Layout.ByDate))

	result, err := p.Reorganize(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, result.Failed())
	assert.Len(t, result.Tags, 2)

	for _, link := range []string{
		filepath.Join(svc.Layout.ByTag, "demo", "video.mp4"),
		filepath.Join(svc.Layout.ByTag, "youtube", "video.mp4"),
		filepath.Join(svc.Layout.ByDate, "2024-03", "video.mp4"),
	} {
		_, err := os.Stat(link)
		assert.NoError(t, err, link)
	}

	_, err = p.Reorganize(ctx, id+100)
	assert.ErrorIs(t, err, database.ErrDoesNotExist)
}

func TestReorganizeAll(t *testing.T) {
	ctx := context.Background()
	fetcher := newFakeFetcher(map[string]string{
		ytURL:                 "a",
		"https://vimeo.com/1": "b",
	})
	p, svc := setupPipeline(t, fetcher)
	a := p.Download(ctx, Request{URL: ytURL, Name: "a"})
	b := p.Download(ctx, Request{URL: "https://vimeo.com/1", Name: "b"})
	require.Equal(t, STATUS_SUCCESS, a.Status())
	require.Equal(t, STATUS_SUCCESS, b.Status())

	require.NoError(t, os.RemoveAll(svc.Layout.BySource))
	require.NoError(t, os.Remove(b.(*Success).Path))

	repairs, err := p.ReorganizeAll(ctx)
	require.NoError(t, err)
	require.Len(t, repairs, 2)
	assert.NoError(t, repairs[0].Err)
	assert.Error(t, repairs[1].Err)

	_, err = os.Stat(filepath.Join(svc.Layout.BySource, "youtube", "a.mp4"))
	assert.NoError(t, err)
}

func TestTagAndUntag(t *testing.T) {
	ctx := context.Background()
	fetcher := newFakeFetcher(map[string]string{ytURL: "x"})
	p, svc := setupPipeline(t, fetcher)
	outcome := p.Download(ctx, Request{URL: ytURL})
	require.Equal(t, STATUS_SUCCESS, outcome.Status())
	id := outcome.(*Success).ID
	link := filepath.Join(svc.Layout.ByTag, "later", "video.mp4")

	result, err := p.Tag(ctx, id, []string{"later", " "})
	require.NoError(t, err)
	assert.Len(t, result.Tags, 1)
	_, err = os.Stat(link)
	assert.NoError(t, err)

	tags, err := svc.Downloads.TagsFor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"later", "youtube"}, tags)

	removed, err := p.Untag(ctx, id, []string{"later", "never-set"})
	require.NoError(t, err)
	assert.Equal(t, []string{"later"}, removed)
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))

	tags, err = svc.Downloads.TagsFor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"youtube"}, tags)

	_, err = p.Tag(ctx, id+100, []string{"x"})
	assert.ErrorIs(t, err, database.ErrDoesNotExist)
}
