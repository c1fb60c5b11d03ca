package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	escerrors "github.com/curillo/escritorio/internal/errors"
)

// File is a Store backed by a YAML file. Every Set rewrites the file;
// the value set wins even if the write fails, so a read-only disk
// degrades to session-only persistence.
type File struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// NewFile loads (or initializes) a file-backed store at path.
// A missing file is an empty store, not an error.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("settings path cannot be empty: %w", escerrors.ErrEmptyValue)
	}

	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path) //#nosec G304 -- path comes from configuration
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return f, nil
}

// Get implements Store.
func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// Set implements Store.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[key] = value

	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
