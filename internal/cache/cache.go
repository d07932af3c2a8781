// Package cache stores synthesized audio chunks on disk so regenerating a
// document only pays for the sentences that changed. Entries are keyed by
// engine, voice, and chunk text, compressed with zstd, and evicted least
// recently used when the cache outgrows its capacity.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrTooLarge is returned when a single chunk exceeds the cache capacity.
var ErrTooLarge = errors.New("cache: chunk larger than capacity")

const indexName = "index.gob"

// Stats holds cache counters.
type Stats struct {
	Capacity  int64
	Size      int64
	ItemCount int
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry struct {
	Key          string
	Size         int64
	OriginalSize int64
	LastAccess   time.Time
}

// Cache is a disk-backed audio chunk cache.
type Cache struct {
	dir      string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	index map[string]*entry
	stats Stats
}

// New opens (or creates) a cache directory with the given byte capacity.
func New(dir string, capacity int64) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	c := &Cache{
		dir:      dir,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*entry),
		stats:    Stats{Capacity: capacity},
	}

	// A missing or unreadable index just means starting cold.
	if err := c.loadIndex(); err != nil {
		c.index = make(map[string]*entry)
		c.size = 0
	}

	return c, nil
}

// Key derives the cache key for a synthesized chunk.
func Key(engine, voice, text string) string {
	sum := sha256.Sum256([]byte(engine + "|" + voice + "|" + text))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached audio for key, or false on a miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.index[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	compressed, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		// File vanished underneath us; drop the stale index row.
		c.dropLocked(e)
		c.stats.Misses++
		return nil, false
	}

	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		c.dropLocked(e)
		_ = os.Remove(c.entryPath(key))
		c.stats.Misses++
		return nil, false
	}

	e.LastAccess = time.Now()
	c.stats.Hits++
	return data, true
}

// Put stores audio bytes under key, evicting old entries to stay within
// capacity.
func (c *Cache) Put(key string, data []byte) error {
	compressed := c.encoder.EncodeAll(data, nil)
	size := int64(len(compressed))

	if c.capacity > 0 && size > c.capacity {
		return ErrTooLarge
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.index[key]; ok {
		c.dropLocked(old)
	}

	for c.capacity > 0 && c.size+size > c.capacity {
		if !c.evictOldestLocked() {
			break
		}
	}

	if err := os.WriteFile(c.entryPath(key), compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	c.index[key] = &entry{
		Key:          key,
		Size:         size,
		OriginalSize: int64(len(data)),
		LastAccess:   time.Now(),
	}
	c.size += size

	return c.saveIndexLocked()
}

// Contains reports whether key is cached without counting a hit or miss.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[key]
	return ok
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.index {
		_ = os.Remove(c.entryPath(key))
	}
	c.index = make(map[string]*entry)
	c.size = 0

	return c.saveIndexLocked()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.size
	s.ItemCount = len(c.index)
	return s
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".zst")
}

func (c *Cache) dropLocked(e *entry) {
	delete(c.index, e.Key)
	c.size -= e.Size
}

// evictOldestLocked removes the least recently used entry. Returns false
// when the cache is already empty.
func (c *Cache) evictOldestLocked() bool {
	var oldest *entry
	for _, e := range c.index {
		if oldest == nil || e.LastAccess.Before(oldest.LastAccess) {
			oldest = e
		}
	}
	if oldest == nil {
		return false
	}

	_ = os.Remove(c.entryPath(oldest.Key))
	c.dropLocked(oldest)
	c.stats.Evictions++
	return true
}

func (c *Cache) loadIndex() error {
	f, err := os.Open(filepath.Join(c.dir, indexName))
	if err != nil {
		return err
	}
	defer f.Close()

	var entries []entry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return err
	}

	for i := range entries {
		e := entries[i]
		// Skip rows whose backing file is gone.
		if _, err := os.Stat(c.entryPath(e.Key)); err != nil {
			continue
		}
		c.index[e.Key] = &e
		c.size += e.Size
	}
	return nil
}

func (c *Cache) saveIndexLocked() error {
	entries := make([]entry, 0, len(c.index))
	for _, e := range c.index {
		entries = append(entries, *e)
	}

	f, err := os.Create(filepath.Join(c.dir, indexName))
	if err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	defer f.Close()

	return gob.NewEncoder(f).Encode(entries)
}
