package cache

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"time"
)

// FileCache is a directory-backed cache for CLI usage. Values are
// binary STL payloads that can run to many megabytes, so entries are
// stored as raw bytes behind a fixed-size expiry header rather than
// wrapped in an encoding that would inflate them.
//
// Entry layout: 8 bytes little-endian expiry (unix nanoseconds, zero
// means no expiry) followed by the payload.
type FileCache struct {
	dir string
}

const expiryHeaderSize = 8

// NewFileCache creates a file-based cache rooted at dir, creating the
// directory if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Get retrieves a value. Malformed or expired entries are removed and
// reported as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(data) < expiryHeaderSize {
		_ = os.Remove(path)
		return nil, false, nil
	}

	expiresAt := int64(binary.LittleEndian.Uint64(data[:expiryHeaderSize]))
	if expiresAt != 0 && time.Now().UnixNano() > expiresAt {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return data[expiryHeaderSize:], true, nil
}

// Set stores a value. The entry is written to a temp file and renamed
// so a concurrent Get never sees a partial payload.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var header [expiryHeaderSize]byte
	if ttl > 0 {
		binary.LittleEndian.PutUint64(header[:], uint64(time.Now().Add(ttl).UnixNano()))
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".sprout-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(header[:]); err != nil {
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

// Delete removes a value. Deleting a missing key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path converts a cache key to a file path. Entries fan out into
// two-character subdirectories to keep directory listings small.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".bin")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
