package repository

import (
	"context"
	"fftpeg/database"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertAndFind", func(t *testing.T) {
		repo := NewDownloadRepository(setupDB(t))
		d := newDownload("https://youtube.com/watch?v=abc", "youtube", "h1")

		id, err := repo.Insert(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, id, d.Id)

		byURL, err := repo.FindByURL(ctx, "https://youtube.com/watch?v=abc")
		require.NoError(t, err)
		require.NotNil(t, byURL)
		assert.Equal(t, id, byURL.Id)
		assert.Equal(t, "youtube", byURL.Source)
		assert.Equal(t, "title h1", *byURL.Title)
		assert.Equal(t, int64(1024), *byURL.Size)
		assert.Nil(t, byURL.Duration)
		assert.True(t, d.DownloadDate.Equal(byURL.DownloadDate))

		byHash, err := repo.FindByHash(ctx, "h1")
		require.NoError(t, err)
		require.NotNil(t, byHash)
		assert.Equal(t, id, byHash.Id)
	})

	t.Run("AbsentIsNil", func(t *testing.T) {
		repo := NewDownloadRepository(setupDB(t))

		d, err := repo.FindByURL(ctx, "https://nowhere")
		assert.NoError(t, err)
		assert.Nil(t, d)

		d, err = repo.FindByHash(ctx, "nothing")
		assert.NoError(t, err)
		assert.Nil(t, d)

		_, err = repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, database.ErrDoesNotExist)
	})

	t.Run("UniqueURLAndHash", func(t *testing.T) {
		repo := NewDownloadRepository(setupDB(t))
		_, err := repo.Insert(ctx, newDownload("https://a", "unknown", "h1"))
		require.NoError(t, err)

		sameHash := newDownload("https://b", "unknown", "h1")
		sameHash.Filepath = "/media/downloads/other.mp4"
		_, err = repo.Insert(ctx, sameHash)
		assert.ErrorIs(t, err, database.ErrConstraintViolation)
		var se *database.StorageError
		assert.ErrorAs(t, err, &se)

		_, err = repo.Insert(ctx, newDownload("https://a", "unknown", "h2"))
		assert.ErrorIs(t, err, database.ErrConstraintViolation)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("NullURLsDoNotCollide", func(t *testing.T) {
		repo := NewDownloadRepository(setupDB(t))
		a := newDownload("", "unknown", "h1")
		b := newDownload("", "unknown", "h2")
		_, err := repo.Insert(ctx, a)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, b)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, b.Id)
		require.NoError(t, err)
		assert.Nil(t, got.Url)
	})

	t.Run("QueriesBySourceAndTag", func(t *testing.T) {
		db := setupDB(t)
		repo := NewDownloadRepository(db)
		tags, err := NewTagRepository(db, 8)
		require.NoError(t, err)

		yt := newDownload("https://youtube.com/1", "youtube", "h1")
		vm := newDownload("https://vimeo.com/2", "vimeo", "h2")
		yt2 := newDownload("https://youtu.be/3", "youtube", "h3")
		_, err = repo.Insert(ctx, yt)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, vm)
		require.NoError(t, err)
		_, err = repo.Insert(ctx, yt2)
		require.NoError(t, err)

		require.NoError(t, tags.Associate(ctx, yt.Id, "music", false))
		require.NoError(t, tags.Associate(ctx, yt.Id, "demo", false))
		require.NoError(t, tags.Associate(ctx, vm.Id, "music", true))

		bySource, err := repo.FilesBySource(ctx, "youtube")
		require.NoError(t, err)
		require.Len(t, bySource, 2)
		assert.Equal(t, yt.Id, bySource[0].Id)
		assert.Equal(t, yt2.Id, bySource[1].Id)

		byTag, err := repo.FilesByTag(ctx, "music")
		require.NoError(t, err)
		require.Len(t, byTag, 2)
		assert.Equal(t, yt.Id, byTag[0].Id)
		assert.Equal(t, vm.Id, byTag[1].Id)

		fileTags, err := repo.TagsFor(ctx, yt.Id)
		require.NoError(t, err)
		assert.Equal(t, []string{"demo", "music"}, fileTags)

		allTags, err := repo.AllTags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"demo", "music"}, allTags)

		sources, err := repo.AllSources(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"vimeo", "youtube"}, sources)
	})

	t.Run("DeleteCascadesAssociations", func(t *testing.T) {
		db := setupDB(t)
		repo := NewDownloadRepository(db)
		tags, err := NewTagRepository(db, 8)
		require.NoError(t, err)

		d := newDownload("https://a", "unknown", "h1")
		_, err = repo.Insert(ctx, d)
		require.NoError(t, err)
		require.NoError(t, tags.Associate(ctx, d.Id, "x", false))

		require.NoError(t, repo.Delete(ctx, d.Id))
		assert.ErrorIs(t, repo.Delete(ctx, d.Id), database.ErrDoesNotExist)

		fileTags, err := tags.FileTags(ctx, d.Id)
		require.NoError(t, err)
		assert.Empty(t, fileTags)

		// the tag itself survives
		allTags, err := repo.AllTags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, allTags)
	})
}
