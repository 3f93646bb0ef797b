package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"
)

// MemoryUploader is an in-process Uploader used by tests and local
// development without object storage
type MemoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failErr error
}

// NewMemoryUploader creates an empty in-memory uploader
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{objects: make(map[string][]byte)}
}

// Fail makes every subsequent Upload return err
func (m *MemoryUploader) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Upload stores content in memory under prefix/filename
func (m *MemoryUploader) Upload(_ context.Context, prefix, filename string, content io.Reader, _ string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return Object{}, m.failErr
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return Object{}, err
	}

	key := path.Join(prefix, filename)
	m.objects[key] = data
	return Object{
		URL:        fmt.Sprintf("memory://%s", key),
		ExternalID: key,
	}, nil
}

// Delete removes an object by key
func (m *MemoryUploader) Delete(_ context.Context, externalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, externalID)
	return nil
}

// Get returns a stored object's bytes, or false if absent
func (m *MemoryUploader) Get(externalID string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[externalID]
	return data, ok
}

// Len reports how many objects are stored
func (m *MemoryUploader) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
