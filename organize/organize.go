// Package organize projects downloaded files into symlink indexes under
// <base>/by-source, <base>/by-tag and <base>/by-date. A placement never
// replaces anything but a symlink.
package organize

import (
	"errors"
	"fftpeg/config"
	L "fftpeg/logger"
	"fftpeg/metrics"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Namespace string

const (
	BY_SOURCE Namespace = "by-source"
	BY_TAG    Namespace = "by-tag"
	BY_DATE   Namespace = "by-date"
)

const DateKeyFormat = "2006-01"

var (
	ErrPlacementConflict = errors.New("a file that is not a symlink occupies the placement path")
	ErrInvalidKey        = errors.New("invalid placement key")
	ErrUnknownNamespace  = errors.New("unknown namespace")
)

func ParseNamespace(s string) (Namespace, error) {
	switch Namespace(strings.ToLower(s)) {
	case BY_SOURCE, "source":
		return BY_SOURCE, nil
	case BY_TAG, "tag":
		return BY_TAG, nil
	case BY_DATE, "date":
		return BY_DATE, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownNamespace, s)
	}
}

type Engine struct {
	roots map[Namespace]string
}

func New(layout config.Layout) *Engine {
	return &Engine{
		roots: map[Namespace]string{
			BY_SOURCE: layout.BySource,
			BY_TAG:    layout.ByTag,
			BY_DATE:   layout.ByDate,
		},
	}
}

// Init creates the three namespace roots.
func (e *Engine) Init() error {
	for _, ns := range namespaces() {
		err := os.MkdirAll(e.roots[ns], os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", e.roots[ns], err)
		}
	}
	return nil
}

func namespaces() []Namespace {
	return []Namespace{BY_SOURCE, BY_TAG, BY_DATE}
}

func (e *Engine) Root(ns Namespace) (string, error) {
	root, ok := e.roots[ns]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownNamespace, ns)
	}
	return root, nil
}

// SanitizeKey turns a source, tag or date bucket into a single directory
// name. Path separators become "_".
func SanitizeKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	k = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(k)
	if k == "" || k == "." || k == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}

// LinkPath is <root>/<key>/<basename of target>.
func (e *Engine) LinkPath(ns Namespace, key string, target string) (string, error) {
	root, err := e.Root(ns)
	if err != nil {
		return "", err
	}
	k, err := SanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, k, filepath.Base(target)), nil
}

func (e *Engine) PlaceBySource(target string, source string) error {
	_, err := e.place(BY_SOURCE, source, target)
	return err
}

func (e *Engine) PlaceByTag(target string, tag string) error {
	_, err := e.place(BY_TAG, tag, target)
	return err
}

func (e *Engine) PlaceByDate(target string, date time.Time) error {
	_, err := e.place(BY_DATE, date.Format(DateKeyFormat), target)
	return err
}

func (e *Engine) place(ns Namespace, key string, target string) (string, error) {
	link, err := e.createLink(ns, key, target)
	switch {
	case err == nil:
		metrics.Placements.WithLabelValues(string(ns), "ok").Inc()
		L.Debug(fmt.Sprintf("organize: %s -> %s", link, target))
	case errors.Is(err, ErrPlacementConflict):
		metrics.Placements.WithLabelValues(string(ns), "conflict").Inc()
	default:
		metrics.Placements.WithLabelValues(string(ns), "error").Inc()
	}
	return link, err
}

func (e *Engine) createLink(ns Namespace, key string, target string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(absTarget)
	if err != nil {
		return "", fmt.Errorf("placement target %s: %w", absTarget, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("placement target %s is not a regular file", absTarget)
	}

	link, err := e.LinkPath(ns, key, absTarget)
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(filepath.Dir(link), os.ModePerm)
	if err != nil {
		return link, fmt.Errorf("could not create %s: %w", filepath.Dir(link), err)
	}

	existing, err := os.Lstat(link)
	switch {
	case err == nil && existing.Mode()&os.ModeSymlink != 0:
		err = os.Remove(link)
		if err != nil {
			return link, fmt.Errorf("could not replace link %s: %w", link, err)
		}
	case err == nil:
		return link, fmt.Errorf("%s: %w", link, ErrPlacementConflict)
	case !os.IsNotExist(err):
		return link, err
	}

	// relative so the tree survives moving <base>
	rel, err := filepath.Rel(filepath.Dir(link), absTarget)
	if err != nil {
		return link, err
	}
	err = os.Symlink(rel, link)
	if err != nil {
		return link, fmt.Errorf("could not link %s: %w", link, err)
	}
	return link, nil
}

type Options struct {
	IncludeSource bool
	IncludeTags   bool
	IncludeDate   bool
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		IncludeSource: cfg.OrganizeBySource,
		IncludeTags:   cfg.OrganizeByTag,
		IncludeDate:   cfg.OrganizeByDate,
	}
}

type Placement struct {
	Namespace Namespace `json:"namespace"`
	Key       string    `json:"key"`
	Link      string    `json:"link,omitempty"`
	Err       error     `json:"-"`
}

func (p Placement) Ok() bool {
	return p.Err == nil
}

func (p Placement) String() string {
	if p.Err != nil {
		return fmt.Sprintf("%s/%s: %v", p.Namespace, p.Key, p.Err)
	}
	return fmt.Sprintf("%s/%s", p.Namespace, p.Key)
}

// nil axes were not requested
type Result struct {
	Source *Placement
	Tags   []Placement
	Date   *Placement
}

func (r Result) All() []Placement {
	var all []Placement
	if r.Source != nil {
		all = append(all, *r.Source)
	}
	all = append(all, r.Tags...)
	if r.Date != nil {
		all = append(all, *r.Date)
	}
	return all
}

func (r Result) Failed() []Placement {
	var failed []Placement
	for _, p := range r.All() {
		if !p.Ok() {
			failed = append(failed, p)
		}
	}
	return failed
}

// PlaceAll places target on every requested axis. A failing axis does not
// stop the others.
func (e *Engine) PlaceAll(target string, source string, tags []string, date time.Time, opts Options) Result {
	var result Result
	if opts.IncludeSource {
		link, err := e.place(BY_SOURCE, source, target)
		result.Source = &Placement{Namespace: BY_SOURCE, Key: source, Link: link, Err: err}
	}
	if opts.IncludeTags {
		for _, tag := range tags {
			link, err := e.place(BY_TAG, tag, target)
			result.Tags = append(result.Tags, Placement{Namespace: BY_TAG, Key: tag, Link: link, Err: err})
		}
	}
	if opts.IncludeDate {
		key := date.Format(DateKeyFormat)
		link, err := e.place(BY_DATE, key, target)
		result.Date = &Placement{Namespace: BY_DATE, Key: key, Link: link, Err: err}
	}
	for _, p := range result.Failed() {
		L.Warn(fmt.Sprintf("organize: could not place %s under %s", filepath.Base(target), p))
	}
	return result
}

// Unplace removes target's link under key. Anything that is not a symlink
// is left alone and reported as not removed.
func (e *Engine) Unplace(ns Namespace, key string, target string) (bool, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, err
	}
	link, err := e.LinkPath(ns, key, absTarget)
	if err != nil {
		return false, err
	}
	info, err := os.Lstat(link)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false, nil
	}
	err = os.Remove(link)
	if err != nil {
		return false, fmt.Errorf("could not remove link %s: %w", link, err)
	}
	return true, nil
}
