package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mittbutik/storefront/pkg/logger"
)

// FileStore persists keys as a single JSON object on disk. It is the default
// backend and plays the role the browser's local storage played: small, local,
// rewritten in full on every write.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return nil, err
	}
	value, ok := values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		logger.Warn("Discarding unreadable storage file", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		values = map[string]json.RawMessage{}
	}
	values[key] = json.RawMessage(value)
	return s.write(values)
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse storage file: %w", err)
	}
	return values, nil
}

// write rewrites the whole file through a temp file and rename so a crash
// mid-write never leaves a truncated store behind.
func (s *FileStore) write(values map[string]json.RawMessage) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal storage file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}
