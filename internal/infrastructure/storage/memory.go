package storage

import (
	"context"
	"errors"
	"io"
	"sync"

	dispatchapp "github.com/caterflow/backend/internal/application/dispatch"
)

// MemoryEvidenceStorage keeps evidence files in memory. Use it for local
// development and tests when no S3 backend is available.
type MemoryEvidenceStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryEvidenceStorage creates an empty MemoryEvidenceStorage
func NewMemoryEvidenceStorage() *MemoryEvidenceStorage {
	return &MemoryEvidenceStorage{
		objects: make(map[string][]byte),
	}
}

// Ensure MemoryEvidenceStorage implements EvidenceStorage
var _ dispatchapp.EvidenceStorage = (*MemoryEvidenceStorage)(nil)

// Put stores the file contents under the key
func (m *MemoryEvidenceStorage) Put(ctx context.Context, key, contentType string, body io.Reader, sizeBytes int64) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

// Delete removes the file stored under the key. Deleting a missing key
// is not an error.
func (m *MemoryEvidenceStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Get returns the stored contents and whether the key exists
func (m *MemoryEvidenceStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}

// Len returns the number of stored objects
func (m *MemoryEvidenceStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
