package storage

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	catalogapp "github.com/drobe/backend/internal/application/catalog"
)

// MemoryImageStore stands in for object storage when storage is disabled.
// URLs point at BaseURL and are not signed. A key exists once Put has been
// called for it, or always when AssumeUploaded is set so a local frontend
// can run the upload flow without a bucket.
type MemoryImageStore struct {
	BaseURL        string
	AssumeUploaded bool

	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time
}

type memoryObject struct {
	contentType string
	data        []byte
}

var _ catalogapp.ObjectStorageService = (*MemoryImageStore)(nil)

// NewMemoryImageStore creates an empty store
func NewMemoryImageStore(baseURL string) *MemoryImageStore {
	if baseURL == "" {
		baseURL = "http://localhost:8080/media"
	}
	return &MemoryImageStore{
		BaseURL: baseURL,
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (s *MemoryImageStore) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrStorageKeyRequired
	}
	expiresAt := s.now().Add(expiresIn)
	q := url.Values{}
	q.Set("content_type", contentType)
	q.Set("expires", strconv.FormatInt(expiresAt.Unix(), 10))
	return s.BaseURL + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

func (s *MemoryImageStore) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, ErrStorageKeyRequired
	}
	return s.BaseURL + "/" + storageKey, s.now().Add(expiresIn), nil
}

func (s *MemoryImageStore) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return ErrStorageKeyRequired
	}
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

func (s *MemoryImageStore) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, ErrStorageKeyRequired
	}
	if s.AssumeUploaded {
		return true, nil
	}
	s.mu.RLock()
	_, ok := s.objects[storageKey]
	s.mu.RUnlock()
	return ok, nil
}

// Put records an upload
func (s *MemoryImageStore) Put(_ context.Context, storageKey, contentType string, data []byte) error {
	if storageKey == "" {
		return ErrStorageKeyRequired
	}
	s.mu.Lock()
	s.objects[storageKey] = memoryObject{contentType: contentType, data: append([]byte(nil), data...)}
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored objects
func (s *MemoryImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
