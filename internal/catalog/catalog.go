// Package catalog lists the decodable spectrum files under each configured
// root so the picker UI does not walk the filesystem on every request.
package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"spectraviewer/internal/logger"
	"spectraviewer/internal/spectrum"
)

type Catalog struct {
	roots spectrum.Roots

	mu    sync.RWMutex
	cache map[string][]string
}

func New(roots spectrum.Roots) *Catalog {
	return &Catalog{
		roots: roots,
		cache: make(map[string][]string),
	}
}

// List returns the relative paths of all decodable files under the named
// location, sorted. Results are cached until the watcher invalidates them.
func (c *Catalog) List(location string) ([]string, error) {
	c.mu.RLock()
	cached, ok := c.cache[location]
	c.mu.RUnlock()
	if ok {
		return append([]string(nil), cached...), nil
	}
	dir, err := c.roots.Dir(location)
	if err != nil {
		return nil, err
	}
	files, err := scanRoot(dir)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.cache[location] = files
	c.mu.Unlock()
	return append([]string(nil), files...), nil
}

func scanRoot(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if _, derr := spectrum.DetectFormat(d.Name()); derr != nil {
			return nil
		}
		rel, rerr := filepath.Rel(dir, path)
		if rerr != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Watch invalidates cached listings when files change under either root.
// It blocks until ctx is cancelled.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := map[string]string{
		c.roots.Filesystem: spectrum.LocationFilesystem,
		c.roots.Jobs:       spectrum.LocationJobs,
	}
	for dir := range watched {
		if err := watcher.Add(dir); err != nil {
			logger.Warnf("catalog watch skipped for %s: %v", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			c.invalidate(watched, event.Name)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("catalog watcher: %v", werr)
		}
	}
}

func (c *Catalog) invalidate(watched map[string]string, path string) {
	for dir, location := range watched {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) || path == dir {
			c.mu.Lock()
			delete(c.cache, location)
			c.mu.Unlock()
			logger.Debugf("catalog cache invalidated for %s", location)
			return
		}
	}
}
