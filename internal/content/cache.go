// Package content caches parsed markdown documents and refreshes them lazily
// against the filesystem.
package content

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ryukoposting/ustack/internal/markdown"
	"github.com/ryukoposting/ustack/internal/model"
	"github.com/ryukoposting/ustack/internal/rss"
)

// IndexID is the reserved id of the index document. Post ids can never start
// with ReservedPrefix.
const (
	ReservedPrefix = "/"
	IndexID        = ReservedPrefix + "index"
)

const indexFile = "index.md"

// Cache maps ids to parsed documents. A single RWMutex guards everything:
// reads share it, every refresh holds it exclusively for its whole duration,
// file I/O and parsing included.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	postsDir string
	ttl      time.Duration
	lastScan time.Time
	updated  time.Time
	site     model.SiteMetadata
	channel  rss.Channel

	renderer *markdown.Renderer
	log      *slog.Logger
	now      func() time.Time
}

// New returns an empty cache over postsDir. The index document is expected
// next to postsDir.
func New(postsDir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	abs, err := filepath.Abs(postsDir)
	if err != nil {
		return nil, fmt.Errorf("posts directory %s: %w", postsDir, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("posts directory %s: %w", postsDir, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("posts directory %s: %w", postsDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("posts directory %s is not a directory", postsDir)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries:  make(map[string]Entry),
		postsDir: canonical,
		ttl:      ttl,
		site:     model.DefaultSiteMetadata(),
		renderer: markdown.New(),
		log:      logger.With("component", "content"),
		now:      time.Now,
	}, nil
}

// PostsDir is the canonical posts directory.
func (c *Cache) PostsDir() string {
	return c.postsDir
}

// TTL is the interval after which entries are re-validated against disk.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Refresh brings the entry for id up to date and returns a copy of it.
//
// Within the TTL the cached entry is returned without touching the file.
// After it, the file is stat'ed and only re-parsed if its modification time
// changed. A missing file evicts the entry and yields ErrNotFound; a parse
// failure yields a *DataError and leaves the old entry in place.
func (c *Cache) Refresh(id string) (PostContent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path, err := c.postPath(id)
	if err != nil {
		return PostContent{}, err
	}
	return c.refreshLocked(id, path)
}

// RefreshIndex refreshes the index document. When allowScan is set and the
// last directory scan is older than the TTL, the posts directory is listed
// and every post not yet cached is loaded. Cached posts are left to their own
// Refresh calls.
func (c *Cache) RefreshIndex(allowScan bool) (PostContent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if allowScan && !c.lastScan.Add(c.ttl).After(c.now()) {
		if err := c.scanLocked(); err != nil {
			return PostContent{}, err
		}
	}

	path, err := filepath.EvalSymlinks(c.indexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.evict(IndexID)
			return PostContent{}, notFound(IndexID)
		}
		c.log.Error("resolving index path", "err", err)
		return PostContent{}, fmt.Errorf("resolving index: %w", err)
	}
	return c.refreshLocked(IndexID, path)
}

func (c *Cache) indexPath() string {
	return filepath.Join(filepath.Dir(c.postsDir), indexFile)
}

func (c *Cache) scanLocked() error {
	dirents, err := os.ReadDir(c.postsDir)
	if err != nil {
		c.log.Error("listing posts directory", "dir", c.postsDir, "err", err)
		return fmt.Errorf("listing %s: %w", c.postsDir, err)
	}

	discovered := 0
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != sourceExt {
			continue
		}
		id := strings.TrimSuffix(name, sourceExt)
		if _, cached := c.entries[id]; cached {
			continue
		}
		path, err := c.postPath(id)
		if err != nil {
			c.log.Warn("skipping post during scan", "file", name, "err", err)
			continue
		}
		if _, err := c.refreshLocked(id, path); err != nil {
			c.log.Warn("skipping post during scan", "file", name, "err", err)
			continue
		}
		discovered++
	}

	c.lastScan = c.now()
	c.log.Debug("scanned posts directory", "discovered", discovered)
	return nil
}

func (c *Cache) refreshLocked(id, path string) (PostContent, error) {
	now := c.now()
	entry, cached := c.entries[id]
	if cached && entry.LastChecked.Add(c.ttl).After(now) {
		c.log.Debug("cache hit", "id", id)
		return entry.content(id), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.evict(id)
			return PostContent{}, notFound(id)
		}
		c.log.Error("opening source file", "id", id, "path", path, "err", err)
		return PostContent{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.log.Error("reading source file info", "id", id, "path", path, "err", err)
		return PostContent{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if cached && info.ModTime().Equal(entry.LastModified) {
		entry.LastChecked = now
		c.entries[id] = entry
		c.log.Debug("source unchanged", "id", id)
		return entry.content(id), nil
	}

	src, err := io.ReadAll(f)
	if err != nil {
		c.log.Error("reading source file", "id", id, "path", path, "err", err)
		return PostContent{}, fmt.Errorf("reading %s: %w", path, err)
	}

	fresh, site, err := c.parse(id, src, info.ModTime(), now)
	if err != nil {
		c.log.Warn("keeping previous entry after parse failure", "id", id, "cached", cached, "err", err)
		return PostContent{}, err
	}

	c.entries[id] = fresh
	c.touch(fresh.LastModified)
	if site != nil {
		c.site = *site
		c.channel = c.buildChannel(now)
		c.log.Info("refreshed index and feed channel")
	} else {
		c.log.Info("refreshed post", "id", id)
	}
	return fresh.content(id), nil
}

func (c *Cache) parse(id string, src []byte, modified, now time.Time) (Entry, *model.SiteMetadata, error) {
	doc, err := c.renderer.Parse(src)
	if err != nil {
		return Entry{}, nil, newDataError(id, err)
	}
	entry := Entry{LastModified: modified, LastChecked: now, Body: doc.HTML}

	if id == IndexID {
		site, err := model.ParseSiteMetadata(doc.FrontMatter)
		if err != nil {
			return Entry{}, nil, newDataError(id, err)
		}
		entry.Metadata = site.PostMetadata()
		return entry, &site, nil
	}

	meta, err := model.ParsePostMetadata(doc.FrontMatter)
	if err != nil {
		return Entry{}, nil, newDataError(id, err)
	}
	entry.Metadata = meta
	return entry, nil, nil
}

func (c *Cache) evict(id string) {
	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	c.touch(c.now())
	c.log.Info("evicted missing document", "id", id)
}

func (c *Cache) touch(t time.Time) {
	if t.After(c.updated) {
		c.updated = t
	}
}

// Get returns a copy of the cached entry for id without refreshing it.
func (c *Cache) Get(id string) (PostContent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok {
		return PostContent{}, false
	}
	return entry.content(id), true
}

// Posts returns copies of every cached post, newest published first. Ties
// are broken by id.
func (c *Cache) Posts() []PostContent {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.postsLocked()
}

func (c *Cache) postsLocked() []PostContent {
	posts := make([]PostContent, 0, len(c.entries))
	for id, entry := range c.entries {
		if strings.HasPrefix(id, ReservedPrefix) {
			continue
		}
		posts = append(posts, entry.content(id))
	}
	sortByPublished(posts)
	return posts
}

func sortByPublished(posts []PostContent) {
	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i].Published(), posts[j].Published()
		if !a.Equal(b) {
			return a.After(b)
		}
		return posts[i].ID < posts[j].ID
	})
}

// RandomID picks a cached post id uniformly at random.
func (c *Cache) RandomID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		if !strings.HasPrefix(id, ReservedPrefix) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "", false
	}
	return ids[rand.Intn(len(ids))], true
}

// Site returns the most recently parsed site metadata.
func (c *Cache) Site() model.SiteMetadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.site.Clone()
}

// Updated is the latest modification time of any cached document, or the
// time of the latest eviction if that is later.
func (c *Cache) Updated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.updated
}

// Expire makes the next Refresh of id go back to disk.
func (c *Cache) Expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[id]; ok {
		entry.LastChecked = time.Time{}
		c.entries[id] = entry
	}
}

// ExpireScan makes the next RefreshIndex that allows it rescan the posts
// directory.
func (c *Cache) ExpireScan() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastScan = time.Time{}
}
