// Package library provides persistent storage for imported documents, their
// generated audio, and word-timing data. Each item lives in its own directory
// under the library root; a summary index speeds up listing and duplicate
// detection.
package library

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgnsrekt/readaloud/sentence"
	"github.com/dgnsrekt/readaloud/timing"
)

var (
	// ErrNotFound is returned when an item ID does not exist.
	ErrNotFound = errors.New("library: item not found")

	// ErrDuplicate is returned when content with the same hash is already
	// in the library.
	ErrDuplicate = errors.New("library: duplicate content")
)

const (
	documentFile = "document.md"
	metadataFile = "metadata.json"
	audioFile    = "audio.wav"
	timingFile   = "timing.json"
	indexFile    = "index.json"
	itemsDir     = "items"
)

// VoiceSettings records how audio was (or will be) generated for an item.
type VoiceSettings struct {
	Engine string  `json:"engine"`
	Voice  string  `json:"voice"`
	Speed  float64 `json:"speed"`
}

// Item is the full metadata stored alongside each document.
type Item struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Filename       string        `json:"filename"`
	CreatedAt      time.Time     `json:"created_at"`
	ContentHash    string        `json:"content_hash"`
	AudioGenerated bool          `json:"audio_generated"`
	AudioDuration  float64       `json:"audio_duration_seconds,omitempty"`
	WordCount      int           `json:"word_count"`
	Language       string        `json:"language"`
	Voice          VoiceSettings `json:"voice_settings"`
}

// IndexEntry is the summary row kept in the library index.
type IndexEntry struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Filename       string    `json:"filename"`
	CreatedAt      time.Time `json:"created_at"`
	ContentHash    string    `json:"content_hash"`
	AudioGenerated bool      `json:"audio_generated"`
	WordCount      int       `json:"word_count"`
}

type index struct {
	Items []IndexEntry `json:"items"`
}

// Store is a file-based library rooted at a single directory.
type Store struct {
	root string
	mu   sync.Mutex
}

// Open initializes the library directories and index under root.
func Open(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, itemsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}

	s := &Store{root: root}

	indexPath := s.indexPath()
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		if err := s.saveIndex(&index{Items: []IndexEntry{}}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Root returns the library root directory.
func (s *Store) Root() string { return s.root }

func (s *Store) indexPath() string { return filepath.Join(s.root, indexFile) }

func (s *Store) itemDir(id string) string { return filepath.Join(s.root, itemsDir, id) }

// DocumentPath returns the markdown path for an item. The file may not exist.
func (s *Store) DocumentPath(id string) string { return filepath.Join(s.itemDir(id), documentFile) }

// AudioPath returns the audio path for an item. The file may not exist.
func (s *Store) AudioPath(id string) string { return filepath.Join(s.itemDir(id), audioFile) }

// TimingPath returns the timing path for an item. The file may not exist.
func (s *Store) TimingPath(id string) string { return filepath.Join(s.itemDir(id), timingFile) }

// ContentHash computes the SHA-256 hex digest used for duplicate detection.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Create adds a markdown document to the library. When title is empty it is
// taken from the first heading, falling back to the filename stem. Content
// already in the library is rejected with ErrDuplicate.
func (s *Store) Create(markdown, filename, title string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := ContentHash(markdown)
	if existing := s.findByHashLocked(hash); existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicate, existing.Title)
	}

	if title == "" {
		title = titleFromContent(markdown, filename)
	}

	plain := sentence.ExtractText(markdown)

	item := &Item{
		ID:          uuid.NewString(),
		Title:       title,
		Filename:    filename,
		CreatedAt:   time.Now(),
		ContentHash: hash,
		WordCount:   sentence.CountWords(plain),
		Language:    "english",
		Voice: VoiceSettings{
			Engine: "piper",
			Voice:  "default",
			Speed:  1.0,
		},
	}

	dir := s.itemDir(item.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create item directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, documentFile), []byte(markdown), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	if err := writeJSON(filepath.Join(dir, metadataFile), item); err != nil {
		return nil, err
	}

	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	idx.Items = append(idx.Items, entryFor(item))
	if err := s.saveIndex(idx); err != nil {
		return nil, err
	}

	return item, nil
}

// Get loads an item's full metadata by ID.
func (s *Store) Get(id string) (*Item, error) {
	var item Item
	if err := readJSON(filepath.Join(s.itemDir(id), metadataFile), &item); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List returns the summary entries from the index, newest first.
func (s *Store) List() ([]IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	entries := idx.Items
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// FindByHash returns the index entry whose content hash matches, or nil.
func (s *Store) FindByHash(hash string) (*IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.findByHashLocked(hash); e != nil {
		return e, nil
	}
	return nil, nil
}

func (s *Store) findByHashLocked(hash string) *IndexEntry {
	idx, err := s.loadIndex()
	if err != nil {
		return nil
	}
	for i := range idx.Items {
		if idx.Items[i].ContentHash == hash {
			return &idx.Items[i]
		}
	}
	return nil
}

// Update applies fn to the item's metadata and persists the result, keeping
// the index row in sync.
func (s *Store) Update(id string, fn func(*Item)) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fn(item)
	item.ID = id // The callback must not reassign identity.

	if err := writeJSON(filepath.Join(s.itemDir(id), metadataFile), item); err != nil {
		return nil, err
	}

	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	for i := range idx.Items {
		if idx.Items[i].ID == id {
			idx.Items[i] = entryFor(item)
			break
		}
	}
	if err := s.saveIndex(idx); err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes an item and every file under it.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.itemDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ErrNotFound
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	idx, err := s.loadIndex()
	if err != nil {
		return err
	}
	kept := idx.Items[:0]
	for _, e := range idx.Items {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	idx.Items = kept
	return s.saveIndex(idx)
}

// Document returns the markdown content of an item.
func (s *Store) Document(id string) (string, error) {
	data, err := os.ReadFile(s.DocumentPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}

// SaveAudio stores generated audio bytes for an item and records its
// duration in the metadata and index.
func (s *Store) SaveAudio(id string, wav []byte, duration float64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := os.WriteFile(s.AudioPath(id), wav, 0o644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}

	_, err := s.Update(id, func(item *Item) {
		item.AudioGenerated = true
		item.AudioDuration = duration
	})
	return err
}

// SaveTiming persists a timing document for an item.
func (s *Store) SaveTiming(id string, doc *timing.Document) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return writeJSON(s.TimingPath(id), doc)
}

// Timing loads an item's timing document.
func (s *Store) Timing(id string) (*timing.Document, error) {
	var doc timing.Document
	if err := readJSON(s.TimingPath(id), &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// HasAudio reports whether generated audio exists for the item.
func (s *Store) HasAudio(id string) bool {
	_, err := os.Stat(s.AudioPath(id))
	return err == nil
}

// HasTiming reports whether timing data exists for the item.
func (s *Store) HasTiming(id string) bool {
	_, err := os.Stat(s.TimingPath(id))
	return err == nil
}

func (s *Store) loadIndex() (*index, error) {
	var idx index
	if err := readJSON(s.indexPath(), &idx); err != nil {
		if os.IsNotExist(err) {
			return &index{Items: []IndexEntry{}}, nil
		}
		return nil, fmt.Errorf("failed to load library index: %w", err)
	}
	return &idx, nil
}

func (s *Store) saveIndex(idx *index) error {
	return writeJSON(s.indexPath(), idx)
}

func entryFor(item *Item) IndexEntry {
	return IndexEntry{
		ID:             item.ID,
		Title:          item.Title,
		Filename:       item.Filename,
		CreatedAt:      item.CreatedAt,
		ContentHash:    item.ContentHash,
		AudioGenerated: item.AudioGenerated,
		WordCount:      item.WordCount,
	}
}

// titleFromContent takes the first markdown heading, falling back to the
// filename without its extension.
func titleFromContent(markdown, filename string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if t := strings.TrimSpace(strings.TrimLeft(line, "#")); t != "" {
				return t
			}
		}
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
