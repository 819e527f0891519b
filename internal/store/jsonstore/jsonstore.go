package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/duely/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; fine for a local single-user tool. When two processes
// write at once the last writer wins.

const dataFileName = "todos.json"

// ParseError reports a data file that exists but cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store is a handle on one data file. Every operation does a full
// read-mutate-write of the file it points at, so tests can point a
// Store at a temp path and stay isolated.
type Store struct {
	path string
}

// New returns a Store bound to the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Open resolves path, falling back to todos.json in the working
// directory when path is empty.
func Open(path string) (*Store, error) {
	if path != "" {
		return New(path), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	return New(filepath.Join(wd, dataFileName)), nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the whole collection. A missing file is an empty
// collection; a file that exists but does not decode is a *ParseError.
func (s *Store) Load() ([]model.Item, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	if err := checkIDs(items); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	return items, nil
}

// Save overwrites the data file with the full collection.
func (s *Store) Save(items []model.Item) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// NextID returns the id for a new item: one past the highest id in the
// collection, or 1 when the collection is empty.
func NextID(items []model.Item) int {
	max := 0
	for _, it := range items {
		if it.ID > max {
			max = it.ID
		}
	}
	return max + 1
}

func checkIDs(items []model.Item) error {
	seen := make(map[int]bool, len(items))
	for _, it := range items {
		if it.ID < 1 {
			return fmt.Errorf("item %q has invalid id %d", it.Title, it.ID)
		}
		if seen[it.ID] {
			return fmt.Errorf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}
