package cache

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores chart blobs as files under a directory, usually the XDG
// cache dir. Entries are raw artifact bytes behind a fixed-size header
// carrying the expiry, so cached SVG/PNG output is written byte-for-byte.
type FileCache struct {
	dir string
}

// entryHeaderSize is the expiry timestamp prefix: big-endian Unix
// nanoseconds, zero meaning no expiry.
const entryHeaderSize = 8

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a chart blob. Expired and malformed entries are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if len(raw) < entryHeaderSize {
		_ = os.Remove(path)
		return nil, false, nil
	}
	expiresAt := int64(binary.BigEndian.Uint64(raw[:entryHeaderSize]))
	if expiresAt != 0 && time.Now().UnixNano() > expiresAt {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return raw[entryHeaderSize:], true, nil
}

// Set stores a chart blob. A zero ttl stores without expiry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}

	entry := make([]byte, entryHeaderSize+len(data))
	binary.BigEndian.PutUint64(entry[:entryHeaderSize], uint64(expiresAt))
	copy(entry[entryHeaderSize:], data)

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, entry, 0o644)
}

// Delete removes a chart blob. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; the file cache holds no open handles.
func (c *FileCache) Close() error { return nil }

// Clear removes every cached chart.
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Dir returns the cache root directory.
func (c *FileCache) Dir() string { return c.dir }

// path maps a cache key to a file, sharded into 256 subdirectories by the
// first hash byte so large benchmark corpora don't pile up in one dir.
func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".blob")
}

var _ Cache = (*FileCache)(nil)
