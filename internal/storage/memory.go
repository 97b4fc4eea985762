package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps objects in process memory. It backs local runs without an
// object store and the service tests.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	objects map[string][]byte
	failOn  map[string]error
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string][]byte),
		failOn:  make(map[string]error),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, data io.Reader, size int64, filename, folder, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	key := objectName(uuid.NewString(), folder, filename)

	s.mu.Lock()
	s.objects[key] = buf.Bytes()
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

func (s *MemoryStore) Delete(ctx context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failOn[fileID]; ok {
		return err
	}
	delete(s.objects, fileID)
	return nil
}

// FailDelete makes Delete of fileID return err.
func (s *MemoryStore) FailDelete(fileID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[fileID] = err
}

func (s *MemoryStore) Has(fileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[fileID]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
