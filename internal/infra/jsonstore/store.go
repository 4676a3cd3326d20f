// Package jsonstore provides a JSON file-based implementation of
// domain.DocumentStore.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"github.com/runoshun/loom/internal/domain"
)

// Store persists the orchestration document as a single JSON file.
// Mutations run under an in-process mutex plus an exclusive file lock, so
// concurrent read-mutate-write cycles from independent completions cannot
// lose updates.
type Store struct {
	path     string
	lockPath string
	mu       sync.Mutex
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Ensure Store implements DocumentStore.
var _ domain.DocumentStore = (*Store)(nil)

// Load returns a mutation-safe working copy of the document. Each call
// decodes fresh from disk, so callers never share entity pointers.
func (s *Store) Load() (*domain.Document, error) {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return nil, err
	}
	defer s.releaseLock(lock)

	return s.read()
}

// Save persists the document, replacing prior state.
func (s *Store) Save(doc *domain.Document) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	return s.write(doc)
}

// Mutate runs fn on the current document under the single-writer lock and
// persists the result. Returning an error from fn aborts the write.
func (s *Store) Mutate(fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	doc, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.write(doc)
}

// NewID returns a globally unique identifier of the form
// "<prefix>-<8 hex chars>".
func (s *Store) NewID(prefix string) string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "-" + frag
}

// Initialize creates an empty document file if it doesn't exist.
func (s *Store) Initialize() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(domain.NewDocument())
}

// IsInitialized checks if the document file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*domain.Document, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	doc.EnsureIndices()

	return &doc, nil
}

func (s *Store) write(doc *domain.Document) error {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
