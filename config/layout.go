package config

import (
	"fftpeg/file_io"
	"fmt"
	"path/filepath"
)

// Layout is the on-disk tree rooted at the parent of download_path.
//
//	<base>/downloads/          real files
//	<base>/downloads/.staging/ in-flight fetches
//	<base>/by-source/<source>/ links
//	<base>/by-tag/<tag>/       links
//	<base>/by-date/<YYYY-MM>/  links
type Layout struct {
	Base      string
	Downloads string
	BySource  string
	ByTag     string
	ByDate    string
	Staging   string
}

func (c *Config) Layout() (Layout, error) {
	downloads, err := file_io.ExpandHome(c.DownloadPath)
	if err != nil {
		return Layout{}, err
	}
	downloads, err = filepath.Abs(downloads)
	if err != nil {
		return Layout{}, fmt.Errorf("config: invalid download_path %s: %w", c.DownloadPath, err)
	}
	base := filepath.Dir(downloads)
	return Layout{
		Base:      base,
		Downloads: downloads,
		BySource:  filepath.Join(base, "by-source"),
		ByTag:     filepath.Join(base, "by-tag"),
		ByDate:    filepath.Join(base, "by-date"),
		Staging:   filepath.Join(downloads, ".staging"),
	}, nil
}
