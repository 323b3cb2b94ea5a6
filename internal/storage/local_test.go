// local_test.go - Tests for the volume store
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func createTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestNewLocalStore(t *testing.T) {
	t.Run("creates volume directory", func(t *testing.T) {
		volumeDir := filepath.Join(t.TempDir(), "nested", "volume")

		store, err := NewLocalStore(volumeDir)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		if _, err := os.Stat(volumeDir); os.IsNotExist(err) {
			t.Error("Expected volume directory to be created")
		}
		if store.Location() != volumeDir {
			t.Errorf("Expected location %s, got %s", volumeDir, store.Location())
		}
	})

	t.Run("fails when volume is a file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewLocalStore(filepath.Join(blocker, "volume")); err == nil {
			t.Error("Expected error for unusable volume path")
		}
	})
}

func TestLocalStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("saves file from reader", func(t *testing.T) {
		store := createTestStore(t)
		content := "Hello, World!"

		stored, err := store.Save(ctx, "test.txt", strings.NewReader(content))
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		if stored.Name != "test.txt" {
			t.Errorf("Expected name 'test.txt', got %v", stored.Name)
		}
		if stored.Size != int64(len(content)) {
			t.Errorf("Expected size %d, got %d", len(content), stored.Size)
		}

		data, err := os.ReadFile(stored.Path)
		if err != nil {
			t.Fatalf("Failed to read saved file: %v", err)
		}
		if string(data) != content {
			t.Errorf("Expected content %q, got %q", content, string(data))
		}
	})

	t.Run("adds timestamp suffix on collision", func(t *testing.T) {
		store := createTestStore(t)
		store.now = func() time.Time {
			return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
		}

		if _, err := store.Save(ctx, "report.pdf", strings.NewReader("v1")); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		stored, err := store.Save(ctx, "report.pdf", strings.NewReader("v2"))
		if err != nil {
			t.Fatalf("second save failed: %v", err)
		}
		if stored.Name != "report_20240309_140507.pdf" {
			t.Errorf("Expected timestamped name, got %s", stored.Name)
		}

		original, _ := os.ReadFile(filepath.Join(store.Location(), "report.pdf"))
		if string(original) != "v1" {
			t.Errorf("Expected original file untouched, got %q", string(original))
		}
	})

	t.Run("fails instead of overwriting within the same second", func(t *testing.T) {
		store := createTestStore(t)
		store.now = func() time.Time {
			return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
		}

		for _, content := range []string{"v1", "v2"} {
			if _, err := store.Save(ctx, "report.pdf", strings.NewReader(content)); err != nil {
				t.Fatalf("save %s failed: %v", content, err)
			}
		}
		_, err := store.Save(ctx, "report.pdf", strings.NewReader("v3"))
		if !errors.Is(err, ErrNameTaken) {
			t.Fatalf("Expected ErrNameTaken, got %v", err)
		}

		data, _ := os.ReadFile(filepath.Join(store.Location(), "report_20240309_140507.pdf"))
		if string(data) != "v2" {
			t.Errorf("Expected timestamped file untouched, got %q", string(data))
		}
	})

	t.Run("recreates a removed volume", func(t *testing.T) {
		store := createTestStore(t)
		if err := os.RemoveAll(store.Location()); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Save(ctx, "a.txt", strings.NewReader("a")); err != nil {
			t.Fatalf("Expected save to recreate volume: %v", err)
		}
	})
}

func TestLocalStore_List(t *testing.T) {
	ctx := context.Background()

	t.Run("empty volume", func(t *testing.T) {
		store := createTestStore(t)
		files, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if files == nil || len(files) != 0 {
			t.Errorf("Expected empty non-nil list, got %v", files)
		}
	})

	t.Run("missing volume yields empty list", func(t *testing.T) {
		store := createTestStore(t)
		os.RemoveAll(store.Location())
		files, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(files) != 0 {
			t.Errorf("Expected no files, got %d", len(files))
		}
	})

	t.Run("newest first and directories skipped", func(t *testing.T) {
		store := createTestStore(t)
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
		for i, name := range []string{"old.txt", "new.txt", "mid.txt"} {
			path := filepath.Join(store.Location(), name)
			if err := os.WriteFile(path, []byte(strings.Repeat("x", i+1)), 0644); err != nil {
				t.Fatal(err)
			}
			var mtime time.Time
			switch name {
			case "old.txt":
				mtime = base
			case "mid.txt":
				mtime = base.Add(time.Hour)
			case "new.txt":
				mtime = base.Add(2 * time.Hour)
			}
			if err := os.Chtimes(path, mtime, mtime); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.Mkdir(filepath.Join(store.Location(), "subdir"), 0755); err != nil {
			t.Fatal(err)
		}

		files, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(files) != 3 {
			t.Fatalf("Expected 3 files, got %d", len(files))
		}
		want := []string{"new.txt", "mid.txt", "old.txt"}
		for i, f := range files {
			if f.Name != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], f.Name)
			}
		}
		if files[2].Modified != "2024-01-01 12:00:00" {
			t.Errorf("Expected modified '2024-01-01 12:00:00', got %s", files[2].Modified)
		}
		if files[0].Size != 2 {
			t.Errorf("Expected size 2 for new.txt, got %d", files[0].Size)
		}
	})
}

func TestLocalStore_ListFollowsSymlinks(t *testing.T) {
	store := createTestStore(t)
	outside := t.TempDir()

	target := filepath.Join(outside, "target.csv")
	if err := os.WriteFile(target, []byte("a,b,c"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(store.Location(), "linked.csv")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(outside, filepath.Join(store.Location(), "linked-dir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "missing"), filepath.Join(store.Location(), "dangling.txt")); err != nil {
		t.Fatal(err)
	}

	files, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected only the link to a regular file, got %v", files)
	}
	if files[0].Name != "linked.csv" || files[0].Size != 5 {
		t.Errorf("Expected linked.csv of size 5, got %+v", files[0])
	}
}

func TestLocalStore_Check(t *testing.T) {
	store := createTestStore(t)
	os.RemoveAll(store.Location())
	if err := store.Check(context.Background()); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if _, err := os.Stat(store.Location()); err != nil {
		t.Error("Expected Check to recreate the volume")
	}
}
