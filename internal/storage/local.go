package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/volume-uploader/backend/internal/models"
)

// LocalStore implements Store on a directory of the local filesystem.
type LocalStore struct {
	mu        sync.Mutex // serialises name reservation
	volumeDir string
	now       func() time.Time
}

// NewLocalStore creates a new LocalStore rooted at volumeDir.
func NewLocalStore(volumeDir string) (*LocalStore, error) {
	s := &LocalStore{
		volumeDir: volumeDir,
		now:       time.Now,
	}
	if err := s.ensureVolume(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) ensureVolume() error {
	if err := os.MkdirAll(s.volumeDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrVolumeUnavailable, err)
	}
	return nil
}

// Location returns the volume directory.
func (s *LocalStore) Location() string {
	return s.volumeDir
}

// Check recreates the volume directory if it went missing.
func (s *LocalStore) Check(ctx context.Context) error {
	return s.ensureVolume()
}

// Save writes r into the volume.
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) (*models.StoredFile, error) {
	if err := s.ensureVolume(); err != nil {
		return nil, err
	}

	f, finalName, err := s.reserve(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	path := filepath.Join(s.volumeDir, finalName)
	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	return &models.StoredFile{
		Name: finalName,
		Path: path,
		Size: size,
	}, nil
}

// reserve creates the destination file exclusively, falling back to a
// timestamped name when name is taken.
func (s *LocalStore) reserve(name string) (*os.File, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	finalName := name
	if _, err := os.Stat(filepath.Join(s.volumeDir, finalName)); err == nil {
		finalName = timestampedName(name, s.now())
	}

	f, err := os.OpenFile(filepath.Join(s.volumeDir, finalName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrNameTaken, finalName)
		}
		return nil, "", fmt.Errorf("creating file: %w", err)
	}
	return f, finalName, nil
}

// List returns the regular files in the volume, newest first. A missing
// volume yields an empty list.
func (s *LocalStore) List(ctx context.Context) ([]models.FileRecord, error) {
	entries, err := os.ReadDir(s.volumeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.FileRecord{}, nil
		}
		return nil, fmt.Errorf("reading volume: %w", err)
	}

	files := make([]models.FileRecord, 0, len(entries))
	for _, entry := range entries {
		// Stat follows symlinks, so a link to a regular file is listed.
		info, err := os.Stat(filepath.Join(s.volumeDir, entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, models.FileRecord{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().Format(models.ModifiedLayout),
		})
	}

	sortByModifiedDesc(files)
	return files, nil
}

var _ Store = (*LocalStore)(nil)
