package ytdlp

import (
	"encoding/json"
	"errors"
	"fftpeg/backend"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoOutput = errors.New("fetch tool produced no file")

// OutputTemplate is "<name>.%(ext)s", with name defaulting to the remote
// title. Template syntax and path separators in name are neutralised.
func OutputTemplate(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "%(title)s.%(ext)s"
	}
	name = strings.NewReplacer("%", "%%", "/", "_", "\\", "_").Replace(name)
	return name + ".%(ext)s"
}

// subset of yt-dlp's info json
type infoJSON struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Uploader    string  `json:"uploader"`
	Duration    float64 `json:"duration"`
	VCodec      string  `json:"vcodec"`
	ACodec      string  `json:"acodec"`
	Width       int64   `json:"width"`
	Height      int64   `json:"height"`
	Resolution  string  `json:"resolution"`
	ViewCount   int64   `json:"view_count"`
	LikeCount   int64   `json:"like_count"`
}

// ParseInfo reads the first info json object from yt-dlp's stdout.
func ParseInfo(stdout string) (backend.RemoteInfo, error) {
	for line := range strings.SplitSeq(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var raw infoJSON
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			continue
		}
		return raw.toRemoteInfo(), nil
	}
	return backend.RemoteInfo{}, fmt.Errorf("no info json in fetch tool output")
}

func (raw infoJSON) toRemoteInfo() backend.RemoteInfo {
	codec := raw.VCodec
	if codec == "" || codec == "none" {
		codec = raw.ACodec
	}
	if codec == "none" {
		codec = ""
	}
	resolution := ""
	if raw.Width > 0 && raw.Height > 0 {
		resolution = fmt.Sprintf("%dx%d", raw.Width, raw.Height)
	} else if raw.Resolution != "audio only" {
		resolution = raw.Resolution
	}
	return backend.RemoteInfo{
		Title:       raw.Title,
		Description: raw.Description,
		Thumbnail:   raw.Thumbnail,
		Uploader:    raw.Uploader,
		Duration:    raw.Duration,
		Codec:       codec,
		Resolution:  resolution,
		ViewCount:   raw.ViewCount,
		LikeCount:   raw.LikeCount,
	}
}

var partialSuffixes = []string{".part", ".ytdl", ".json", ".temp", ".tmp"}

// LocateOutput returns the largest finished file in dir. dir is expected
// to hold the output of a single fetch.
func LocateOutput(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", dir, err)
	}
	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isPartial(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", fmt.Errorf("%s: %w", dir, ErrNoOutput)
	}
	return best, nil
}

func isPartial(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
