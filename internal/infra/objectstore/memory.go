package objectstore

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
)

// MemoryStorage keeps blobs in memory. Useful for tests and local dev.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStorage constructs storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

// Put stores a copy of data and returns its metadata.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, _ string) (faq.StoredObject, error) {
	hash := md5.Sum(data)
	s.mu.Lock()
	s.blobs[key] = append([]byte(nil), data...)
	s.mu.Unlock()
	return faq.StoredObject{Key: key, Size: int64(len(data)), ETag: hex.EncodeToString(hash[:])}, nil
}

// Object returns a stored blob.
func (s *MemoryStorage) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	return data, ok
}

var _ faq.ObjectStorage = (*MemoryStorage)(nil)
