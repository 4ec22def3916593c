package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/errors"
)

// FileStore is a file-based layout store for the CLI.
// Layouts are stored as JSON files named by id.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/chartlayout/layouts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "chartlayout", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create layout dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) layoutPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, l *chartdoc.Layout) error {
	if err := prepare(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := chartdoc.WriteLayoutFile(*l, s.layoutPath(l.ID)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write layout file")
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*chartdoc.Layout, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.layoutPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, notFound(id)
	}
	l, err := chartdoc.ReadLayoutFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout %s", id)
	}
	return &l, nil
}

func (s *FileStore) List(ctx context.Context, limit int) ([]chartdoc.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read layout dir")
	}
	var out []chartdoc.Layout
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		l, err := chartdoc.ReadLayoutFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, l)
	}
	sortNewest(out)
	return out[:min(len(out), listLimit(limit))], nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.layoutPath(id)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove layout file")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for layout files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
