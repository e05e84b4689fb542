package organize

import (
	"errors"
	L "fftpeg/logger"
	"fftpeg/metrics"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SweepBroken removes symlinks whose target no longer resolves, under the
// given namespaces or all three. Directories are left in place.
func (e *Engine) SweepBroken(nss ...Namespace) (int, error) {
	if len(nss) == 0 {
		nss = namespaces()
	}
	removed := 0
	var errs []error
	for _, ns := range nss {
		root, err := e.Root(ns)
		if err != nil {
			return removed, err
		}
		n, err := sweepDir(root)
		removed += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	metrics.LinksSwept.Add(float64(removed))
	return removed, errors.Join(errs...)
}

func sweepDir(root string) (int, error) {
	removed := 0
	var errs []error
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipDir
			}
			errs = append(errs, err)
			return nil
		}
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		// any stat failure means the link no longer resolves: missing
		// target, a file where a directory was, or a cycle
		if _, statErr := os.Stat(path); statErr == nil {
			return nil
		}
		if rmErr := os.Remove(path); rmErr != nil {
			errs = append(errs, fmt.Errorf("could not remove %s: %w", path, rmErr))
			return nil
		}
		removed++
		L.Debug(fmt.Sprintf("organize: removed broken link %s", path))
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return removed, errors.Join(errs...)
}

// per key link counts for each namespace
type Stats struct {
	BySource map[string]int `json:"by_source"`
	ByTag    map[string]int `json:"by_tag"`
	ByDate   map[string]int `json:"by_date"`
}

func (e *Engine) Stats() (*Stats, error) {
	stats := &Stats{}
	var err error
	if stats.BySource, err = countLinks(e.roots[BY_SOURCE]); err != nil {
		return nil, err
	}
	if stats.ByTag, err = countLinks(e.roots[BY_TAG]); err != nil {
		return nil, err
	}
	if stats.ByDate, err = countLinks(e.roots[BY_DATE]); err != nil {
		return nil, err
	}
	return stats, nil
}

func countLinks(root string) (map[string]int, error) {
	counts := map[string]int{}
	keys, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return counts, nil
		}
		return nil, err
	}
	for _, key := range keys {
		if !key.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, key.Name()))
		if err != nil {
			return nil, err
		}
		n := 0
		for _, entry := range entries {
			if entry.Type()&fs.ModeSymlink != 0 {
				n++
			}
		}
		counts[key.Name()] = n
	}
	return counts, nil
}

// Resolve returns the sorted real paths behind the live links of one key.
func (e *Engine) Resolve(ns Namespace, key string) ([]string, error) {
	root, err := e.Root(ns)
	if err != nil {
		return nil, err
	}
	k, err := SanitizeKey(key)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(root, k)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	targets := []string{}
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		target, err := filepath.EvalSymlinks(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets, nil
}
