package repository

import (
	"context"
	"fftpeg/database"
	"fftpeg/database/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Init(context.Background()))
	t.Cleanup(func() { db.Close() })
	return db
}

func newDownload(url string, source string, hash string) *model.Download {
	size := int64(1024)
	return &model.Download{
		Url:          model.StrPtr(url),
		Source:       source,
		Filepath:     "/media/downloads/" + hash + ".mp4",
		Filename:     hash + ".mp4",
		ContentHash:  hash,
		Size:         &size,
		Title:        model.StrPtr("title " + hash),
		DownloadDate: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}
