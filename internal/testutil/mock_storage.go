// mock_storage.go - In-memory storage.Store for handler tests
package testutil

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/volume-uploader/backend/internal/models"
	"github.com/volume-uploader/backend/internal/storage"
)

// MockStorage implements storage.Store in memory.
type MockStorage struct {
	mu       sync.RWMutex
	files    map[string]models.FileRecord
	fileData map[string][]byte

	// SaveErr, ListErr and CheckErr force the matching method to fail.
	SaveErr  error
	ListErr  error
	CheckErr error
}

// NewMockStorage creates an empty mock store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files:    make(map[string]models.FileRecord),
		fileData: make(map[string][]byte),
	}
}

func (m *MockStorage) Save(ctx context.Context, name string, r io.Reader) (*models.StoredFile, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	finalName := name
	if _, exists := m.files[name]; exists {
		finalName = "dup_" + name
	}
	m.files[finalName] = models.FileRecord{
		Name:     finalName,
		Size:     int64(len(data)),
		Modified: time.Now().Format(models.ModifiedLayout),
	}
	m.fileData[finalName] = data
	return &models.StoredFile{Name: finalName, Path: "/mock/volume/" + finalName, Size: int64(len(data))}, nil
}

func (m *MockStorage) List(ctx context.Context) ([]models.FileRecord, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]models.FileRecord, 0, len(m.files))
	for _, f := range m.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Modified != files[j].Modified {
			return files[i].Modified > files[j].Modified
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (m *MockStorage) Check(ctx context.Context) error {
	return m.CheckErr
}

func (m *MockStorage) Location() string {
	return "/mock/volume"
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// AddFile adds a file directly to the mock
func (m *MockStorage) AddFile(name string, data []byte, modified string) models.FileRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := models.FileRecord{Name: name, Size: int64(len(data)), Modified: modified}
	m.files[name] = rec
	m.fileData[name] = data
	return rec
}

// GetFileData returns the file content
func (m *MockStorage) GetFileData(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.fileData[name]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// GetFileCount returns the number of stored files
func (m *MockStorage) GetFileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
