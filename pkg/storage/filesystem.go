package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorage persists blobs on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save replaces the named blob. The write goes to a temp file first and is renamed
// into place so readers never observe a partially written blob.
func (s *LocalStorage) Save(name string, data []byte) error {
	path := s.resolve(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare storage directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close blob %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace blob %s: %w", name, err)
	}
	return nil
}

// Load returns the blob contents. found is false when nothing was saved under name.
func (s *LocalStorage) Load(name string) (data []byte, found bool, err error) {
	data, err = os.ReadFile(s.resolve(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read blob %s: %w", name, err)
	}
	return data, true, nil
}

// Delete removes a stored blob if present.
func (s *LocalStorage) Delete(name string) error {
	if err := os.Remove(s.resolve(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}
	return nil
}

// List returns the stored blob names starting with prefix, in ascending order. Names
// come back in their on-disk form, with key separators already replaced.
func (s *LocalStorage) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list storage directory: %w", err)
	}
	prefix = strings.TrimSuffix(filepath.Base(s.resolve(prefix)), ".json")
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".tmp-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		name = strings.TrimSuffix(name, ".json")
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Path exposes the underlying path (useful for debugging).
func (s *LocalStorage) Path(name string) string {
	return s.resolve(name)
}

// resolve maps a blob key to a file name; key separators such as ':' are not portable.
func (s *LocalStorage) resolve(name string) string {
	clean := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(name)
	return filepath.Join(s.baseDir, clean+".json")
}
