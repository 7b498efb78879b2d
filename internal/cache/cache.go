// Package cache stores query answers on disk so repeated runs over the same
// input skip the scan.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion must be bumped whenever Entry changes shape.
const schemaVersion uint16 = 1

// Digest identifies one query over one input.
type Digest [sha256.Size]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Key hashes the raw input together with the query name and its parameters.
func Key(input []byte, query string, params ...int64) Digest {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	var buf [8]byte
	for _, p := range params {
		binary.LittleEndian.PutUint64(buf[:], uint64(p))
		h.Write(buf[:])
	}
	h.Write(input)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Entry is one cached answer.
type Entry struct {
	Schema  uint16
	Query   string
	Count   uint64 // row query
	X, Y    int64  // gap query
	SavedAt time.Time
}

// DiskCache is safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open uses dir as the cache root, creating it if needed.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// DefaultDir returns $XDG_CACHE_HOME/app or ~/.cache/app.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "answers", key.String()+".mp")
}

// Put writes the entry atomically through a temp file and rename.
func (c *DiskCache) Put(key Digest, e *Entry) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	stored := *e
	stored.Schema = schemaVersion
	if stored.SavedAt.IsZero() {
		stored.SavedAt = time.Now().UTC()
	}
	if err = msgpack.NewEncoder(f).Encode(&stored); err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the entry for key. Missing entries and entries from another
// schema version report false without error.
func (c *DiskCache) Get(key Digest, out *Entry) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if e.Schema != schemaVersion {
		return false, nil
	}
	*out = e
	return true, nil
}

// Clean removes every stored answer and returns how many were deleted.
func (c *DiskCache) Clean() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Join(c.dir, "answers")
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, ent.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
