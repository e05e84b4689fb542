package model

import (
	L "fftpeg/logger"
	"fmt"
	"time"
)

type Download struct {
	Id           int64     `json:"id"`
	Url          *string   `json:"url,omitempty"`
	Source       string    `json:"source"`
	Filepath     string    `json:"filepath"`
	Filename     string    `json:"filename"`
	ContentHash  string    `json:"content_hash"`
	Size         *int64    `json:"size,omitempty"`
	Duration     *float64  `json:"duration,omitempty"`
	Codec        *string   `json:"codec,omitempty"`
	Resolution   *string   `json:"resolution,omitempty"`
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	ThumbnailUrl *string   `json:"thumbnail_url,omitempty"`
	Uploader     *string   `json:"uploader,omitempty"`
	DownloadDate time.Time `json:"download_date"`
}

func (d *Download) String() string {
	title := d.Filename
	if d.Title != nil && *d.Title != "" {
		title = *d.Title
	}
	size := "?"
	if d.Size != nil {
		size = L.HumanReadableBytes(uint64(*d.Size), 1)
	}
	return fmt.Sprintf("%4d  %-10s %-9s %s", d.Id, d.Source, size, L.TruncateString(title, 60, L.TRUNC_RIGHT))
}

// nil for an empty string
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func DerefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
