package content

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch expires cached entries as their source files change, until ctx is
// done. It never parses anything itself: the next request still does the
// refresh, it just skips the TTL wait.
func (c *Cache) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range []string{c.postsDir, filepath.Dir(c.postsDir)} {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	c.log.Info("watching for content changes", "dir", c.postsDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			c.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("file watcher error", "err", err)
		}
	}
}

func (c *Cache) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	dir, name := filepath.Split(event.Name)
	dir = filepath.Clean(dir)
	if strings.HasPrefix(name, ".") || filepath.Ext(name) != sourceExt {
		return
	}

	switch dir {
	case filepath.Dir(c.postsDir):
		if name == indexFile {
			c.log.Debug("index changed", "op", event.Op.String())
			c.Expire(IndexID)
		}
	case c.postsDir:
		id := strings.TrimSuffix(name, sourceExt)
		c.log.Debug("post changed", "id", id, "op", event.Op.String())
		if event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
			c.ExpireScan()
		}
		c.Expire(id)
	}
}
