package cache

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// entryMagic starts every entry file. The header line is
// "hydronet-cache <expiry unix nanos>", 0 meaning no expiry; the payload
// follows unchanged.
const entryMagic = "hydronet-cache"

const entryExt = ".entry"

// FileCache stores entries as files under a directory, sharded by the
// first two hex digits of the hashed key. Writes go through a temporary
// file and a rename, so concurrent CLI runs never see half an entry.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache in dir, creating the directory if
// needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the payload stored under key. Expired or unreadable entries
// are removed and reported as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, payload, ok := parseEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return payload, true, nil
}

// Set stores data under key. ttl <= 0 stores without expiry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var expires int64
	if ttl > 0 {
		expires = time.Now().Add(ttl).UnixNano()
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op after rename

	if _, err := fmt.Fprintf(tmp, "%s %d\n", entryMagic, expires); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes key. A missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes every entry and returns how many were removed. Leftover
// temporary files are removed without being counted. Emptied shard
// directories are removed; the cache directory itself stays.
func (c *FileCache) Clear() (int, error) {
	shards, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		sub := filepath.Join(c.dir, shard.Name())
		files, err := os.ReadDir(sub)
		if err != nil {
			return count, err
		}
		for _, f := range files {
			ext := filepath.Ext(f.Name())
			if f.IsDir() || (ext != entryExt && ext != ".tmp") {
				continue
			}
			if err := os.Remove(filepath.Join(sub, f.Name())); err != nil {
				return count, err
			}
			if ext == entryExt {
				count++
			}
		}
		_ = os.Remove(sub) // fails while non-empty
	}
	return count, nil
}

// Close is a no-op.
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

// parseEntry splits an entry file into its expiry and payload.
func parseEntry(raw []byte) (expires time.Time, payload []byte, ok bool) {
	header, payload, found := bytes.Cut(raw, []byte("\n"))
	if !found {
		return time.Time{}, nil, false
	}
	magic, stamp, found := bytes.Cut(header, []byte(" "))
	if !found || string(magic) != entryMagic {
		return time.Time{}, nil, false
	}
	nanos, err := strconv.ParseInt(string(stamp), 10, 64)
	if err != nil {
		return time.Time{}, nil, false
	}
	if nanos != 0 {
		expires = time.Unix(0, nanos)
	}
	return expires, payload, true
}

var _ Cache = (*FileCache)(nil)
