package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	defaultFilename   = "history.json"
	defaultMaxEntries = 500
)

type Entry struct {
	Time       time.Time `json:"time"`
	File       string    `json:"file"`
	Title      string    `json:"title"`
	Visibility string    `json:"visibility"`
	Succeeded  bool      `json:"succeeded"`
	ContentID  string    `json:"content_id,omitempty"`
	URL        string    `json:"url,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Store keeps the most recent upload outcomes in a JSON file. Once full,
// the oldest entries are dropped.
type Store struct {
	entries    []Entry
	mu         sync.RWMutex
	dataFile   string
	maxEntries int
}

func NewStore(dataDir string, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	s := &Store{
		dataFile:   filepath.Join(dataDir, defaultFilename),
		maxEntries: maxEntries,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.maxEntries; over > 0 {
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}
	return s.save()
}

// List returns entries newest first, at most limit of them (all if limit <= 0).
func (s *Store) List(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.entries[i])
	}
	return result
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return s.save()
}

func (s *Store) Path() string {
	return s.dataFile
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.dataFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse history %s: %w", s.dataFile, err)
	}

	s.entries = entries
	return nil
}

func (s *Store) save() error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.dataFile), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := os.WriteFile(s.dataFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
