package glossary

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// FileReadError is returned when a glossary file cannot be read or decoded
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to load glossary file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Load reads a glossary file and returns one entry per line in file order.
// Lines are trimmed but otherwise kept as-is, blank lines included.
func Load(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}

	if !utf8.Valid(content) {
		return nil, &FileReadError{Path: path, Err: fmt.Errorf("file is not valid UTF-8")}
	}

	return parseLines(string(content)), nil
}

// parseLines splits s into trimmed lines. A trailing newline does not
// start another entry.
func parseLines(s string) []string {
	if s == "" {
		return []string{}
	}

	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, strings.TrimSpace(line))
	}

	return entries
}

// Store holds the glossary of the current session. It is written by the
// interactive thread between requests and read by snapshot.
type Store struct {
	mu      sync.RWMutex
	entries []string
	path    string
}

// NewStore creates an empty glossary store
func NewStore() *Store {
	return &Store{entries: []string{}}
}

// Load replaces the held glossary with the contents of path. On failure the
// previous glossary is left untouched.
func (s *Store) Load(path string) (int, error) {
	entries, err := Load(path)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.path = path

	return len(entries), nil
}

// Entries returns a copy of the current glossary
func (s *Store) Entries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, len(s.entries))
	copy(result, s.entries)
	return result
}

// Len returns the number of loaded entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Path returns the file the current glossary was loaded from, or "" if
// nothing was loaded yet.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}
