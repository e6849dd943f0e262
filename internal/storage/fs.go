package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akarpov87/budget-keeper/internal/errs"
)

// FileStore keeps blobs as files in a single directory. It is the default
// backup backend.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create backup dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// validName rejects anything that could escape the store directory.
func validName(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.HasPrefix(name, ".")
}

// Put writes a blob with restrictive permissions.
func (s *FileStore) Put(_ context.Context, name string, data []byte) error {
	if !validName(name) {
		return fmt.Errorf("invalid object name %q", name)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o600)
}

// Get reads a blob by name.
func (s *FileStore) Get(_ context.Context, name string) ([]byte, error) {
	if !validName(name) {
		return nil, errs.ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, errs.ErrNotFound
	}
	return data, err
}

// List returns objects matching prefix with their modification times.
func (s *FileStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []ObjectInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, ObjectInfo{Name: e.Name(), CreatedAt: info.ModTime()})
	}
	return out, nil
}
