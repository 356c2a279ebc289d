// =============================================================================
// AssetDesk - Font Resource Cache
// =============================================================================
//
// The PDF export needs a Unicode-capable TTF font, which is not shipped with
// the binary. This module fetches it once from a configured URL and persists
// it at a fixed local path, so later calls in this process and later process
// starts never touch the network again.
//
// LIFECYCLE:
//   - First request: disk hit, or one blocking HTTP fetch persisted to disk.
//   - Fetch failure: logged as a warning; the error re-surfaces only when a
//     PDF export actually needs the font. Nothing else is affected, and the
//     next request tries again.
//   - Success: cached in memory for the process lifetime.
//
// =============================================================================

package fontcache

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache is the process-wide font resource.
type Cache struct {
	url  string
	path string

	client *http.Client

	mu   sync.Mutex
	data []byte
}

// New creates a cache for the font at url, persisted at path.
func New(url, path string) *Cache {
	return &Cache{
		url:  url,
		path: path,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Font returns the font bytes, fetching and persisting them on first use.
// Failures are returned, not cached: a later call retries.
func (c *Cache) Font() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data != nil {
		return c.data, nil
	}

	if data, err := os.ReadFile(c.path); err == nil && len(data) > 0 {
		c.data = data
		return data, nil
	}

	data, err := c.fetch()
	if err != nil {
		return nil, err
	}

	c.data = data
	return data, nil
}

// Warm tries to populate the cache ahead of time, downgrading failure to a
// warning. Meant to be called once at startup so the first PDF export does
// not pay for the fetch.
func (c *Cache) Warm() {
	if _, err := c.Font(); err != nil {
		logrus.WithError(err).Warn("font resource unavailable; PDF export will fail until it can be fetched")
	}
}

// fetch performs the blocking HTTP fetch and persists the result.
func (c *Cache) fetch() ([]byte, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch font: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to fetch font: empty response")
	}

	if err := c.persist(data); err != nil {
		// A read-only disk should not take PDF export down with it.
		logrus.WithError(err).Warn("failed to persist font cache; refetching next process start")
	} else {
		logrus.WithFields(logrus.Fields{
			"url":  c.url,
			"path": c.path,
			"size": len(data),
		}).Info("fetched and cached font resource")
	}

	return data, nil
}

// persist writes the font file under its cache path.
func (c *Cache) persist(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create font cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write font cache: %w", err)
	}
	return nil
}
