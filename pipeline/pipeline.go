// Package pipeline runs one download end to end:
//
//	CHECK_URL -> FETCH -> HASH -> CHECK_HASH -> PERSIST -> TAG -> ORGANIZE
//
// and reports it as a single Outcome.
package pipeline

import (
	"context"
	"errors"
	"fftpeg/backend"
	"fftpeg/checksum"
	"fftpeg/config"
	"fftpeg/database"
	"fftpeg/database/model"
	"fftpeg/database/repository"
	"fftpeg/file_io"
	L "fftpeg/logger"
	"fftpeg/metrics"
	"fftpeg/organize"
	"fftpeg/service"
	"fftpeg/sources"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type Request struct {
	URL string
	// explicit tags, applied in addition to auto-tag rules
	Tags []string
	// output file name without extension
	Name       string
	OnProgress backend.ProgressFunc
}

type Pipeline struct {
	cfg       *config.Config
	layout    config.Layout
	downloads repository.DownloadRepository
	tags      repository.TagRepository
	organizer *organize.Engine
	fetcher   backend.Fetcher

	inflight singleflight.Group
	now      func() time.Time
}

func New(svc *service.Context, fetcher backend.Fetcher) *Pipeline {
	return &Pipeline{
		cfg:       svc.Config,
		layout:    svc.Layout,
		downloads: svc.Downloads,
		tags:      svc.Tags,
		organizer: svc.Organizer,
		fetcher:   fetcher,
		now:       time.Now,
	}
}

// Download runs the pipeline for req.URL. Concurrent calls for the same URL
// share one run and its outcome.
func (p *Pipeline) Download(ctx context.Context, req Request) Outcome {
	url := strings.TrimSpace(req.URL)
	v, _, _ := p.inflight.Do(url, func() (any, error) {
		req.URL = url
		outcome := p.download(ctx, req)
		metrics.DownloadOutcomes.WithLabelValues(string(outcome.Status())).Inc()
		return outcome, nil
	})
	return v.(Outcome)
}

func (p *Pipeline) download(ctx context.Context, req Request) Outcome {
	if req.URL == "" {
		return &Failed{Stage: STAGE_CHECK, Err: errors.New("empty url")}
	}

	// CHECK_URL
	existing, err := p.downloads.FindByURL(ctx, req.URL)
	if err != nil {
		return &Failed{Stage: STAGE_CHECK, URL: req.URL, Err: err}
	}
	if existing != nil {
		L.Debug(fmt.Sprintf("pipeline: %s already downloaded as #%d", req.URL, existing.Id))
		return &Exists{Record: existing}
	}

	source := sources.Detect(req.URL)
	policy := p.cfg.FormatFor(source)
	L.Debug(fmt.Sprintf("pipeline: %s detected as %s, format %q", req.URL, source, policy.Format))

	stagingDir := filepath.Join(p.layout.Staging, uuid.NewString())
	err = os.MkdirAll(stagingDir, os.ModePerm)
	if err != nil {
		return &Failed{Stage: STAGE_FETCH, URL: req.URL, Err: err}
	}
	defer os.RemoveAll(stagingDir)

	// FETCH
	started := time.Now()
	fetched, err := p.fetcher.Fetch(ctx, backend.FetchRequest{
		URL:        req.URL,
		Format:     policy,
		OutputDir:  stagingDir,
		Name:       req.Name,
		OnProgress: req.OnProgress,
	})
	metrics.FetchDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return &Failed{Stage: STAGE_FETCH, URL: req.URL, Err: err}
	}

	// HASH
	contentHash, err := checksum.FileSha256(ctx, fetched.Path)
	if err != nil {
		return &Failed{Stage: STAGE_HASH, URL: req.URL, Err: err}
	}

	// CHECK_HASH
	existing, err = p.downloads.FindByHash(ctx, contentHash)
	if err != nil {
		return &Failed{Stage: STAGE_CHECK, URL: req.URL, Err: err}
	}
	if existing != nil {
		removeQuietly(fetched.Path)
		L.Debug(fmt.Sprintf("pipeline: %s has the content of #%d", req.URL, existing.Id))
		return &Duplicate{Existing: existing}
	}

	// PERSIST
	record, outcome := p.persist(ctx, req.URL, source, contentHash, fetched)
	if outcome != nil {
		return outcome
	}

	// TAG
	applied, err := p.applyTags(ctx, record.Id, source, req.Tags)
	if err != nil {
		return &Failed{Stage: STAGE_TAG, URL: req.URL, Err: err, Record: record}
	}

	// ORGANIZE
	names := make([]string, 0, len(applied))
	for _, t := range applied {
		names = append(names, t.Name)
	}
	placements := p.organizer.PlaceAll(record.Filepath, source, names, record.DownloadDate, organize.OptionsFromConfig(p.cfg))

	return &Success{
		ID:         record.Id,
		Path:       record.Filepath,
		Source:     source,
		Tags:       applied,
		Metadata:   fetched.Info,
		Placements: placements,
	}
}

// persist moves the staged file into the downloads directory and inserts
// its record. A unique constraint failure means a concurrent run stored the
// same url or content first, which is reported as Exists or Duplicate.
func (p *Pipeline) persist(ctx context.Context, url string, source string, contentHash string, fetched *backend.FetchResult) (*model.Download, Outcome) {
	dst, err := file_io.MoveToUnique(fetched.Path, p.layout.Downloads)
	if err != nil {
		return nil, &Failed{Stage: STAGE_PERSIST, URL: url, Err: err}
	}

	record := newRecord(url, source, dst, contentHash, fetched.Info, p.now())
	if info, err := file_io.GetFileInfo(dst); err == nil {
		size := int64(info.Size)
		record.Size = &size
	}

	_, err = p.downloads.Insert(ctx, record)
	if err == nil {
		return record, nil
	}
	removeQuietly(dst)
	if !errors.Is(err, database.ErrConstraintViolation) {
		return nil, &Failed{Stage: STAGE_PERSIST, URL: url, Err: err}
	}

	if winner, lookupErr := p.downloads.FindByHash(ctx, contentHash); lookupErr == nil && winner != nil {
		return nil, &Duplicate{Existing: winner}
	}
	if winner, lookupErr := p.downloads.FindByURL(ctx, url); lookupErr == nil && winner != nil {
		return nil, &Exists{Record: winner}
	}
	return nil, &Failed{Stage: STAGE_PERSIST, URL: url, Err: err}
}

func newRecord(url string, source string, path string, contentHash string, info backend.RemoteInfo, now time.Time) *model.Download {
	record := &model.Download{
		Url:          model.StrPtr(url),
		Source:       source,
		Filepath:     path,
		Filename:     filepath.Base(path),
		ContentHash:  contentHash,
		Codec:        model.StrPtr(info.Codec),
		Resolution:   model.StrPtr(info.Resolution),
		Title:        model.StrPtr(info.Title),
		Description:  model.StrPtr(info.Description),
		ThumbnailUrl: model.StrPtr(info.Thumbnail),
		Uploader:     model.StrPtr(info.Uploader),
		DownloadDate: now.UTC(),
	}
	if info.Duration > 0 {
		duration := info.Duration
		record.Duration = &duration
	}
	return record
}

// applyTags associates the union of rule tags for source and explicit tags.
// A tag produced by a rule is recorded as auto-assigned even when it was
// also given explicitly.
func (p *Pipeline) applyTags(ctx context.Context, fileId int64, source string, explicit []string) ([]AppliedTag, error) {
	rules, err := p.tags.EnabledRules(ctx)
	if err != nil {
		return nil, err
	}
	var applied []AppliedTag
	seen := map[string]bool{}
	for _, rule := range rules {
		if rule.Source != source || seen[rule.Tag] {
			continue
		}
		seen[rule.Tag] = true
		applied = append(applied, AppliedTag{Name: rule.Tag, AutoAssigned: true})
	}
	for _, tag := range CleanTags(explicit) {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		applied = append(applied, AppliedTag{Name: tag})
	}

	for _, t := range applied {
		err := p.tags.Associate(ctx, fileId, t.Name, t.AutoAssigned)
		if err != nil {
			return applied, err
		}
	}
	return applied, nil
}

// CleanTags trims tags and drops empty ones, keeping first occurrences.
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		cleaned = append(cleaned, tag)
	}
	return cleaned
}

// Preview fetches remote metadata only. Nothing is downloaded or stored.
func (p *Pipeline) Preview(ctx context.Context, url string) (*backend.RemoteInfo, error) {
	return p.fetcher.Preview(ctx, strings.TrimSpace(url))
}

func removeQuietly(path string) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		L.Warn(fmt.Sprintf("pipeline: could not remove %s: %v", path, err))
	}
}
