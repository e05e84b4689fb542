package organize

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepBroken(t *testing.T) {
	engine, layout := setupEngine(t)
	keep := writeFile(t, layout.Downloads, "keep.mp4", "a")
	gone := writeFile(t, layout.Downloads, "gone.mp4", "b")
	opts := Options{IncludeSource: true, IncludeTags: true, IncludeDate: true}
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	engine.PlaceAll(keep, "youtube", []string{"x"}, date, opts)
	engine.PlaceAll(gone, "youtube", []string{"x", "y"}, date, opts)
	require.NoError(t, os.Remove(gone))

	removed, err := engine.SweepBroken()
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	for _, link := range []string{
		filepath.Join(layout.BySource, "youtube", "keep.mp4"),
		filepath.Join(layout.ByTag, "x", "keep.mp4"),
		filepath.Join(layout.ByDate, "2024-03", "keep.mp4"),
	} {
		resolvesTo(t, link, keep)
	}
	_, err = os.Lstat(filepath.Join(layout.ByTag, "y", "gone.mp4"))
	assert.True(t, os.IsNotExist(err))

	removed, err = engine.SweepBroken()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestSweepBrokenSingleNamespace(t *testing.T) {
	engine, layout := setupEngine(t)
	gone := writeFile(t, layout.Downloads, "gone.mp4", "b")
	engine.PlaceAll(gone, "vimeo", []string{"x"}, time.Now(), Options{IncludeSource: true, IncludeTags: true})
	require.NoError(t, os.Remove(gone))

	removed, err := engine.SweepBroken(BY_TAG)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Lstat(filepath.Join(layout.BySource, "vimeo", "gone.mp4"))
	assert.NoError(t, err, "other namespaces are not swept")
}

func TestSweepBrokenUnresolvableLinks(t *testing.T) {
	engine, layout := setupEngine(t)
	keep := writeFile(t, layout.Downloads, "keep.mp4", "a")
	require.NoError(t, engine.PlaceBySource(keep, "youtube"))
	dir := filepath.Join(layout.BySource, "youtube")

	t.Run("FileWhereDirectoryWas", func(t *testing.T) {
		season := filepath.Join(layout.Downloads, "season1")
		require.NoError(t, os.MkdirAll(season, 0755))
		ep := writeFile(t, season, "ep1.mp4", "b")
		require.NoError(t, engine.PlaceBySource(ep, "youtube"))
		require.NoError(t, os.RemoveAll(season))
		writeFile(t, layout.Downloads, "season1", "now a file")

		removed, err := engine.SweepBroken(BY_SOURCE)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		_, err = os.Lstat(filepath.Join(dir, "ep1.mp4"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Cycle", func(t *testing.T) {
		loop := filepath.Join(dir, "loop.mp4")
		require.NoError(t, os.Symlink("loop.mp4", loop))
		a := filepath.Join(dir, "a.mp4")
		b := filepath.Join(dir, "b.mp4")
		require.NoError(t, os.Symlink("b.mp4", a))
		require.NoError(t, os.Symlink("a.mp4", b))

		removed, err := engine.SweepBroken(BY_SOURCE)
		require.NoError(t, err)
		assert.Equal(t, 3, removed)
		for _, link := range []string{loop, a, b} {
			_, err = os.Lstat(link)
			assert.True(t, os.IsNotExist(err), link)
		}
	})

	resolvesTo(t, filepath.Join(dir, "keep.mp4"), keep)
}

func TestSweepLeavesRealFiles(t *testing.T) {
	engine, layout := setupEngine(t)
	require.NoError(t, os.MkdirAll(filepath.Join(layout.ByTag, "x"), 0755))
	notes := writeFile(t, filepath.Join(layout.ByTag, "x"), "notes.txt", "mine")

	removed, err := engine.SweepBroken()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	_, err = os.Stat(notes)
	assert.NoError(t, err)
}

func TestSweepMissingRoots(t *testing.T) {
	engine, layout := setupEngine(t)
	require.NoError(t, os.RemoveAll(layout.ByDate))

	removed, err := engine.SweepBroken()
	assert.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestStats(t *testing.T) {
	engine, layout := setupEngine(t)
	a := writeFile(t, layout.Downloads, "a.mp4", "a")
	b := writeFile(t, layout.Downloads, "b.mp4", "b")
	opts := Options{IncludeSource: true, IncludeTags: true, IncludeDate: true}
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	engine.PlaceAll(a, "youtube", []string{"x", "y"}, march, opts)
	engine.PlaceAll(b, "youtube", []string{"x"}, april, opts)

	stats, err := engine.Stats()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"youtube": 2}, stats.BySource)
	assert.Equal(t, map[string]int{"x": 2, "y": 1}, stats.ByTag)
	assert.Equal(t, map[string]int{"2024-03": 1, "2024-04": 1}, stats.ByDate)
}

func TestResolve(t *testing.T) {
	engine, layout := setupEngine(t)
	a := writeFile(t, layout.Downloads, "a.mp4", "a")
	b := writeFile(t, layout.Downloads, "b.mp4", "b")
	require.NoError(t, engine.PlaceByTag(a, "x"))
	require.NoError(t, engine.PlaceByTag(b, "x"))
	require.NoError(t, os.Remove(b))

	targets, err := engine.Resolve(BY_TAG, "x")
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(a)
	require.NoError(t, err)
	assert.Equal(t, []string{want}, targets)

	targets, err = engine.Resolve(BY_TAG, "none")
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestSweeper(t *testing.T) {
	engine, layout := setupEngine(t)
	gone := writeFile(t, layout.Downloads, "gone.mp4", "b")
	require.NoError(t, engine.PlaceBySource(gone, "youtube"))
	require.NoError(t, os.Remove(gone))

	sweeper := NewSweeper(engine, time.Hour)
	removed, skipped, err := sweeper.RunOnce()
	assert.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 1, removed)
	assert.False(t, sweeper.InProgress())

	sweeper.mu.Lock()
	sweeper.inProgress = true
	sweeper.mu.Unlock()
	_, skipped, _ = sweeper.RunOnce()
	assert.True(t, skipped)
}

func TestSweeperStartStop(t *testing.T) {
	engine, layout := setupEngine(t)
	gone := writeFile(t, layout.Downloads, "gone.mp4", "b")
	require.NoError(t, engine.PlaceBySource(gone, "youtube"))
	require.NoError(t, os.Remove(gone))
	link := filepath.Join(layout.BySource, "youtube", "gone.mp4")

	sweeper := NewSweeper(engine, 10*time.Millisecond)
	sweeper.Start(t.Context())
	assert.Eventually(t, func() bool {
		_, err := os.Lstat(link)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
	sweeper.Stop()
}

func TestSweeperDoubleStart(t *testing.T) {
	engine, _ := setupEngine(t)
	sweeper := NewSweeper(engine, 10*time.Millisecond)
	sweeper.Start(t.Context())
	sweeper.Start(t.Context())

	stopped := make(chan struct{})
	go func() {
		sweeper.Stop()
		sweeper.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after a repeated Start")
	}

	sweeper.mu.Lock()
	assert.Nil(t, sweeper.cancel)
	sweeper.mu.Unlock()

	// restartable after Stop
	sweeper.Start(t.Context())
	sweeper.Stop()
}
