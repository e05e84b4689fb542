// Package backend defines the contract with the external fetch tool.
package backend

import (
	"context"
	"fftpeg/config"
	"fmt"
	"strings"
)

const (
	STATUS_DOWNLOADING = "downloading"
	STATUS_FINISHED    = "finished"
)

type Progress struct {
	Status          string
	DownloadedBytes int64
	// 0 when the tool does not know the size
	TotalBytes int64
}

// Percent returns the completion in [0, 100] and false when the total is
// unknown.
func (p Progress) Percent() (float64, bool) {
	if p.TotalBytes <= 0 {
		return 0, false
	}
	pct := float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
	return min(max(pct, 0), 100), true
}

type ProgressFunc func(Progress)

type FetchRequest struct {
	URL    string
	Format config.FormatPolicy
	// directory the fetched file is written to
	OutputDir string
	// file name without extension, remote title when empty
	Name       string
	OnProgress ProgressFunc
}

type RemoteInfo struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Uploader    string  `json:"uploader,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
	Codec       string  `json:"codec,omitempty"`
	Resolution  string  `json:"resolution,omitempty"`
	ViewCount   int64   `json:"view_count,omitempty"`
	LikeCount   int64   `json:"like_count,omitempty"`
}

type FetchResult struct {
	Path string
	Info RemoteInfo
}

type Fetcher interface {
	// Fetch downloads req.URL into req.OutputDir and returns the written file.
	Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error)
	// Preview reads remote metadata without downloading.
	Preview(ctx context.Context, url string) (*RemoteInfo, error)
}

// FetchError carries the fetch tool's own diagnostic text.
type FetchError struct {
	URL        string
	Diagnostic string
	Err        error
}

func (e *FetchError) Error() string {
	diag := strings.TrimSpace(e.Diagnostic)
	if diag == "" && e.Err != nil {
		diag = e.Err.Error()
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, diag)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
