package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
)

// File stores each document as a JSON file in a directory.
type File struct {
	mu  sync.RWMutex
	dir string
}

// NewFile creates a file store in dir. The directory will be created if it
// doesn't exist. If dir is empty, defaults to ~/.local/share/edgeknife/graphs.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		d, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create data dir")
	}
	return &File{dir: dir}, nil
}

func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "edgeknife", "graphs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "get home dir")
	}
	return filepath.Join(home, ".local", "share", "edgeknife", "graphs"), nil
}

// Dir returns the directory documents are written to.
func (s *File) Dir() string { return s.dir }

// path converts a graph id to a file path. Ids are validated first so that
// they cannot escape the directory.
func (s *File) path(id string) (string, error) {
	if err := errors.ValidateGraphID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Get reads the document stored under id.
func (s *File) Get(ctx context.Context, id string) (*graph.Document, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read graph %s", id)
	}
	doc, err := graph.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode graph %s", id)
	}
	return &doc, nil
}

// Put writes doc to a temporary file and renames it into place, so readers
// never see a partial document.
func (s *File) Put(ctx context.Context, id string, doc graph.Document) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	data, err := graph.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode graph %s", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write graph %s", id)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write graph %s", id)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write graph %s", id)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write graph %s", id)
	}
	return nil
}

// Delete removes the file for id.
func (s *File) Delete(ctx context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if os.IsNotExist(err) {
		return notFound(id)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "remove graph %s", id)
	}
	return nil
}

// List returns the ids of all .json files in the directory.
func (s *File) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read data dir")
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for the file store.
func (s *File) Close() error {
	return nil
}

// Ensure File implements Store.
var _ Store = (*File)(nil)
