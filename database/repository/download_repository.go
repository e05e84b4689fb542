package repository

import (
	"context"
	"database/sql"
	"errors"
	"fftpeg/database"
	"fftpeg/database/model"
	L "fftpeg/logger"
	"fmt"
)

// DownloadRepository is the content store: one row per downloaded file,
// unique by url and by content hash.
type DownloadRepository interface {
	// nil, nil when no record has this url
	FindByURL(ctx context.Context, url string) (*model.Download, error)
	// nil, nil when no record has this hash
	FindByHash(ctx context.Context, contentHash string) (*model.Download, error)
	// fails with database.ErrConstraintViolation when url, filepath or
	// content_hash is already present
	Insert(ctx context.Context, d *model.Download) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.Download, error)
	List(ctx context.Context) ([]model.Download, error)
	// removes the record and its tag associations, never the file
	Delete(ctx context.Context, id int64) error

	TagsFor(ctx context.Context, fileId int64) ([]string, error)
	FilesByTag(ctx context.Context, tag string) ([]model.Download, error)
	FilesBySource(ctx context.Context, source string) ([]model.Download, error)
	AllTags(ctx context.Context) ([]string, error)
	AllSources(ctx context.Context) ([]string, error)
}

type downloadRepository struct {
	db *database.DB
}

func NewDownloadRepository(db *database.DB) DownloadRepository {
	return &downloadRepository{db: db}
}

const downloadColumns = `
  d.id,
  d.url,
  d.source,
  d.filepath,
  d.filename,
  d.content_hash,
  d.size,
  d.duration,
  d.codec,
  d.resolution,
  d.title,
  d.description,
  d.thumbnail_url,
  d.uploader,
  d.download_date`

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDownload(row rowScanner) (*model.Download, error) {
	var d model.Download
	var downloadDateStr string
	err := row.Scan(
		&d.Id,
		&d.Url,
		&d.Source,
		&d.Filepath,
		&d.Filename,
		&d.ContentHash,
		&d.Size,
		&d.Duration,
		&d.Codec,
		&d.Resolution,
		&d.Title,
		&d.Description,
		&d.ThumbnailUrl,
		&d.Uploader,
		&downloadDateStr,
	)
	if err != nil {
		return nil, err
	}
	d.DownloadDate = database.FromTimeStr(downloadDateStr)
	return &d, nil
}

func (r *downloadRepository) findOne(ctx context.Context, op string, where string, arg any) (*model.Download, error) {
	row := r.db.D.QueryRowContext(ctx, "SELECT"+downloadColumns+" FROM downloads d WHERE "+where, arg)
	d, err := scanDownload(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Wrap(op, err)
	}
	return d, nil
}

func (r *downloadRepository) FindByURL(ctx context.Context, url string) (*model.Download, error) {
	return r.findOne(ctx, "find download by url", "d.url = ?", url)
}

func (r *downloadRepository) FindByHash(ctx context.Context, contentHash string) (*model.Download, error) {
	return r.findOne(ctx, "find download by hash", "d.content_hash = ?", contentHash)
}

func (r *downloadRepository) GetByID(ctx context.Context, id int64) (*model.Download, error) {
	d, err := r.findOne(ctx, "get download", "d.id = ?", id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("download %d: %w", id, database.ErrDoesNotExist)
	}
	return d, nil
}

// returns the new id
func (r *downloadRepository) Insert(ctx context.Context, d *model.Download) (int64, error) {
	result, err := r.db.D.ExecContext(ctx,
		`INSERT INTO downloads
  (url, source, filepath, filename, content_hash, size, duration, codec,
  resolution, title, description, thumbnail_url, uploader, download_date)
  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		nullable(d.Url),
		d.Source,
		d.Filepath,
		d.Filename,
		d.ContentHash,
		nullable(d.Size),
		nullable(d.Duration),
		nullable(d.Codec),
		nullable(d.Resolution),
		nullable(d.Title),
		nullable(d.Description),
		nullable(d.ThumbnailUrl),
		nullable(d.Uploader),
		database.ToTimeStr(d.DownloadDate),
	)
	if err != nil {
		return -1, database.Wrap(fmt.Sprintf("insert download %s", d.Filepath), err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, database.Wrap("insert download: last insert id", err)
	}
	d.Id = id
	L.Debug(fmt.Sprintf("db: inserted download %d (%s)", id, d.Filename))
	return id, nil
}

func (r *downloadRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.D.ExecContext(ctx, "DELETE FROM downloads WHERE id = ?", id)
	if err != nil {
		return database.Wrap(fmt.Sprintf("delete download %d", id), err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return database.Wrap(fmt.Sprintf("delete download %d", id), err)
	}
	if n == 0 {
		return fmt.Errorf("download %d: %w", id, database.ErrDoesNotExist)
	}
	return nil
}

func (r *downloadRepository) queryDownloads(ctx context.Context, op string, q string, args ...any) ([]model.Download, error) {
	rows, err := r.db.D.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, database.Wrap(op, err)
	}
	defer rows.Close()
	downloads := []model.Download{}
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, database.Wrap(op, err)
		}
		downloads = append(downloads, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap(op, err)
	}
	return downloads, nil
}

func (r *downloadRepository) List(ctx context.Context) ([]model.Download, error) {
	return r.queryDownloads(ctx, "list downloads",
		"SELECT"+downloadColumns+" FROM downloads d ORDER BY d.id")
}

func (r *downloadRepository) FilesByTag(ctx context.Context, tag string) ([]model.Download, error) {
	return r.queryDownloads(ctx, "files by tag",
		`SELECT`+downloadColumns+`
  FROM downloads d
  JOIN file_tags ft ON ft.file_id = d.id
  JOIN tags t ON t.id = ft.tag_id
  WHERE t.name = ?
  ORDER BY d.id`, tag)
}

func (r *downloadRepository) FilesBySource(ctx context.Context, source string) ([]model.Download, error) {
	return r.queryDownloads(ctx, "files by source",
		"SELECT"+downloadColumns+" FROM downloads d WHERE d.source = ? ORDER BY d.id", source)
}

func (r *downloadRepository) queryStrings(ctx context.Context, op string, q string, args ...any) ([]string, error) {
	rows, err := r.db.D.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, database.Wrap(op, err)
	}
	defer rows.Close()
	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, database.Wrap(op, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap(op, err)
	}
	return values, nil
}

func (r *downloadRepository) TagsFor(ctx context.Context, fileId int64) ([]string, error) {
	return r.queryStrings(ctx, "tags for file",
		`SELECT t.name FROM tags t
  JOIN file_tags ft ON ft.tag_id = t.id
  WHERE ft.file_id = ?
  ORDER BY t.name`, fileId)
}

func (r *downloadRepository) AllTags(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, "all tags", "SELECT name FROM tags ORDER BY name")
}

func (r *downloadRepository) AllSources(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, "all sources", "SELECT DISTINCT source FROM downloads ORDER BY source")
}
