package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps every key in a single YAML document, rewritten on each change.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file settings backend requires a path")
	}

	fs := &FileStore{path: path, values: make(map[string]string)}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
	}

	if err = yaml.Unmarshal(b, &fs.values); err != nil {
		return nil, fmt.Errorf("error parsing settings file %s: %w", path, err)
	}
	if fs.values == nil {
		fs.values = make(map[string]string)
	}

	return fs, nil
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, found := f.values[key]
	return v, found
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if current, found := f.values[key]; found && current == value {
		return nil
	}
	f.values[key] = value

	return f.flush()
}

func (f *FileStore) SetDefault(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, found := f.values[key]; found {
		return nil
	}
	f.values[key] = value

	return f.flush()
}

// flush must be called with the write lock held.
func (f *FileStore) flush() error {
	b, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(f.path), os.ModePerm); err != nil {
		return fmt.Errorf("error creating settings directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err = os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("error writing settings file: %w", err)
	}

	return os.Rename(tmp, f.path)
}
