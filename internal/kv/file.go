package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store as one JSON file per collection in a data
// directory. This is the default backend: the on-disk analogue of the
// client-local storage the collections originally lived in.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("kv: data directory must be provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(collection string) (string, error) {
	if collection == "" || strings.ContainsAny(collection, "/\\.") {
		return "", fmt.Errorf("kv: invalid collection name %q", collection)
	}
	return filepath.Join(s.dir, collection+".json"), nil
}

func (s *FileStore) Load(_ context.Context, collection string) ([]byte, error) {
	path, err := s.path(collection)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: read %s: %w", collection, err)
	}
	return payload, nil
}

func (s *FileStore) Save(_ context.Context, collection string, payload []byte) error {
	path, err := s.path(collection)
	if err != nil {
		return err
	}

	// Write-then-rename so a crash mid-write never truncates the collection.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("kv: write %s: %w", collection, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("kv: replace %s: %w", collection, err)
	}
	return nil
}
