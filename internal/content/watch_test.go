package content

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestHandleEventExpiresPost(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.write(t, "hello.md", post("Hello", "old body"), baseTime)
	_, err := f.cache.Refresh("hello")
	assert.NilError(t, err)

	f.write(t, "hello.md", post("Hello", "new body"), baseTime.Add(time.Minute))
	f.cache.handleEvent(fsnotify.Event{Name: filepath.Join(f.cache.PostsDir(), "hello.md"), Op: fsnotify.Write})

	got, err := f.cache.Refresh("hello")
	assert.NilError(t, err)
	assert.Assert(t, is.Contains(got.Body, "new body"))
}

func TestHandleEventCreateTriggersRescan(t *testing.T) {
	f := newFixture(t, time.Hour)
	_, err := f.cache.RefreshIndex(true)
	assert.NilError(t, err)

	f.write(t, "new.md", post("New", "n"), baseTime)
	_, err = f.cache.RefreshIndex(true)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(f.cache.Posts(), 0))

	f.cache.handleEvent(fsnotify.Event{Name: filepath.Join(f.cache.PostsDir(), "new.md"), Op: fsnotify.Create})
	_, err = f.cache.RefreshIndex(true)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(f.cache.Posts(), 1))
}

func TestHandleEventIgnoresUnrelatedFiles(t *testing.T) {
	f := newFixture(t, time.Hour)
	_, err := f.cache.RefreshIndex(true)
	assert.NilError(t, err)
	scanned := f.cache.lastScan

	dir := f.cache.PostsDir()
	for _, event := range []fsnotify.Event{
		{Name: filepath.Join(dir, ".draft.md"), Op: fsnotify.Create},
		{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Create},
		{Name: filepath.Join(dir, "hello.md"), Op: fsnotify.Chmod},
		{Name: filepath.Join(filepath.Dir(dir), "other.md"), Op: fsnotify.Create},
	} {
		f.cache.handleEvent(event)
	}
	assert.Assert(t, f.cache.lastScan.Equal(scanned))
	assert.Assert(t, !f.cache.entries[IndexID].LastChecked.IsZero())
}

func TestHandleEventExpiresIndex(t *testing.T) {
	f := newFixture(t, time.Hour)
	_, err := f.cache.RefreshIndex(false)
	assert.NilError(t, err)

	f.cache.handleEvent(fsnotify.Event{Name: filepath.Join(filepath.Dir(f.cache.PostsDir()), indexFile), Op: fsnotify.Write})
	assert.Assert(t, f.cache.entries[IndexID].LastChecked.IsZero())
}

func TestWatchStopsWithContext(t *testing.T) {
	f := newFixture(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.cache.Watch(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NilError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
