package pipeline

import (
	"context"
	"errors"
	"fftpeg/database/model"
	L "fftpeg/logger"
	"fftpeg/organize"
	"fmt"
	"os"
)

// Reorganize recreates every placement of one stored file from its record.
// A persisted download whose organize step was cut short is repaired this
// way; SweepBroken only removes dangling links.
func (p *Pipeline) Reorganize(ctx context.Context, fileId int64) (organize.Result, error) {
	record, err := p.downloads.GetByID(ctx, fileId)
	if err != nil {
		return organize.Result{}, err
	}
	return p.reorganize(ctx, record)
}

func (p *Pipeline) reorganize(ctx context.Context, record *model.Download) (organize.Result, error) {
	if _, err := os.Stat(record.Filepath); err != nil {
		return organize.Result{}, fmt.Errorf("#%d: %w", record.Id, err)
	}
	tags, err := p.downloads.TagsFor(ctx, record.Id)
	if err != nil {
		return organize.Result{}, err
	}
	result := p.organizer.PlaceAll(record.Filepath, record.Source, tags, record.DownloadDate, organize.OptionsFromConfig(p.cfg))
	return result, nil
}

type Repair struct {
	FileId int64
	Result organize.Result
	Err    error
}

// ReorganizeAll runs Reorganize over every record. Per file failures are
// reported in the returned repairs; the error is for listing failures only.
func (p *Pipeline) ReorganizeAll(ctx context.Context) ([]Repair, error) {
	records, err := p.downloads.List(ctx)
	if err != nil {
		return nil, err
	}
	repairs := make([]Repair, 0, len(records))
	for i := range records {
		if err := ctx.Err(); err != nil {
			return repairs, err
		}
		result, err := p.reorganize(ctx, &records[i])
		if err != nil {
			L.Warn(fmt.Sprintf("reorganize: %v", err))
		}
		repairs = append(repairs, Repair{FileId: records[i].Id, Result: result, Err: err})
	}
	return repairs, nil
}

// Tag associates explicit tags with a stored file and places it under each
// of them when tag organization is enabled.
func (p *Pipeline) Tag(ctx context.Context, fileId int64, tags []string) (organize.Result, error) {
	record, err := p.downloads.GetByID(ctx, fileId)
	if err != nil {
		return organize.Result{}, err
	}
	tags = CleanTags(tags)
	for _, tag := range tags {
		err := p.tags.Associate(ctx, fileId, tag, false)
		if err != nil {
			return organize.Result{}, err
		}
	}
	if !p.cfg.OrganizeByTag {
		return organize.Result{}, nil
	}
	return p.organizer.PlaceAll(record.Filepath, record.Source, tags, record.DownloadDate, organize.Options{IncludeTags: true}), nil
}

// Untag removes tag associations and their by-tag links. Returns the tags
// that were associated.
func (p *Pipeline) Untag(ctx context.Context, fileId int64, tags []string) ([]string, error) {
	record, err := p.downloads.GetByID(ctx, fileId)
	if err != nil {
		return nil, err
	}
	var removed []string
	var errs []error
	for _, tag := range CleanTags(tags) {
		ok, err := p.tags.Dissociate(ctx, fileId, tag)
		if err != nil {
			return removed, err
		}
		if !ok {
			continue
		}
		removed = append(removed, tag)
		if _, err := p.organizer.Unplace(organize.BY_TAG, tag, record.Filepath); err != nil {
			errs = append(errs, err)
		}
	}
	return removed, errors.Join(errs...)
}
