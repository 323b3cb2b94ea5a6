// Package storage persists uploaded files on the upload volume.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/volume-uploader/backend/internal/models"
)

// ErrVolumeUnavailable is returned when the volume cannot be created or reached.
var ErrVolumeUnavailable = errors.New("volume unavailable")

// ErrNameTaken is returned when both the requested name and its
// timestamped fallback are already in use.
var ErrNameTaken = errors.New("name already taken")

// Store defines the interface for the upload volume.
type Store interface {
	// Save stores r under name. If name is already taken a timestamp
	// suffix is inserted before the extension.
	Save(ctx context.Context, name string, r io.Reader) (*models.StoredFile, error)
	// List returns every stored file, most recently modified first.
	List(ctx context.Context) ([]models.FileRecord, error)
	// Check makes sure the volume exists and is reachable.
	Check(ctx context.Context) error
	// Location describes where files end up, for display.
	Location() string
}

// timestampedName inserts a _YYYYMMDD_HHMMSS suffix before the extension.
func timestampedName(name string, now time.Time) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", base, now.Format("20060102_150405"), ext)
}

// sortByModifiedDesc orders records newest first. Modified uses a
// lexically sortable layout so string order matches time order.
func sortByModifiedDesc(files []models.FileRecord) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Modified > files[j].Modified
	})
}
