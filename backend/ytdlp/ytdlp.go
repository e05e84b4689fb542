// Package ytdlp implements backend.Fetcher on top of the yt-dlp binary.
package ytdlp

import (
	"context"
	"fftpeg/backend"
	L "fftpeg/logger"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

const progressInterval = 500 * time.Millisecond

type Fetcher struct {
	executable string
}

// New returns a fetcher using executable, or yt-dlp from PATH when empty.
func New(executable string) *Fetcher {
	return &Fetcher{executable: executable}
}

func (f *Fetcher) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if f.executable != "" {
		cmd.SetExecutable(f.executable)
	}
	return cmd
}

func (f *Fetcher) Fetch(ctx context.Context, req backend.FetchRequest) (*backend.FetchResult, error) {
	cmd := f.command().
		NoPlaylist().
		PrintJSON().
		Format(req.Format.Format).
		Output(filepath.Join(req.OutputDir, OutputTemplate(req.Name)))
	if req.Format.MergeOutputFormat != "" {
		cmd.MergeOutputFormat(req.Format.MergeOutputFormat)
	}
	if req.OnProgress != nil {
		cmd.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			req.OnProgress(backend.Progress{
				Status:          string(update.Status),
				DownloadedBytes: int64(update.DownloadedBytes),
				TotalBytes:      int64(update.TotalBytes),
			})
		})
	}

	L.Debug(fmt.Sprintf("ytdlp: fetching %s (format %q)", req.URL, req.Format.Format))
	result, err := cmd.Run(ctx, req.URL)
	if err != nil {
		return nil, fetchError(ctx, req.URL, result, err)
	}

	path, err := LocateOutput(req.OutputDir)
	if err != nil {
		return nil, &backend.FetchError{URL: req.URL, Diagnostic: err.Error(), Err: err}
	}
	info, err := ParseInfo(result.Stdout)
	if err != nil {
		// the file is there, metadata is optional
		L.Warn(fmt.Sprintf("ytdlp: %v", err))
	}
	return &backend.FetchResult{Path: path, Info: info}, nil
}

func (f *Fetcher) Preview(ctx context.Context, url string) (*backend.RemoteInfo, error) {
	result, err := f.command().
		NoPlaylist().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fetchError(ctx, url, result, err)
	}
	info, err := ParseInfo(result.Stdout)
	if err != nil {
		return nil, &backend.FetchError{URL: url, Diagnostic: err.Error(), Err: err}
	}
	return &info, nil
}

func fetchError(ctx context.Context, url string, result *ytdlp.Result, err error) error {
	if ctx.Err() != nil {
		return &backend.FetchError{URL: url, Diagnostic: ctx.Err().Error(), Err: ctx.Err()}
	}
	diagnostic := ""
	if result != nil {
		diagnostic = Diagnostic(result.Stderr)
	}
	return &backend.FetchError{URL: url, Diagnostic: diagnostic, Err: err}
}

// Diagnostic keeps the ERROR lines of yt-dlp's stderr, or all of it when
// there are none.
func Diagnostic(stderr string) string {
	var errorLines []string
	for line := range strings.SplitSeq(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			errorLines = append(errorLines, line)
		}
	}
	if len(errorLines) > 0 {
		return strings.Join(errorLines, "\n")
	}
	return strings.TrimSpace(stderr)
}
