package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BlobStore holds uploaded note payloads. Metadata and payload operations
// are independent: a failed blob delete never blocks a record delete, and
// vice versa.
type BlobStore interface {
	Save(originalName string, data []byte) (string, error)
	Load(name string) ([]byte, error)
	Remove(name string) error
}

type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the payload under a timestamped name derived from the original
// filename and returns that name as the storage reference.
func (s *DiskStore) Save(originalName string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(originalName))

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return name, nil
}

func (s *DiskStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

func (s *DiskStore) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(name))); err != nil {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}
