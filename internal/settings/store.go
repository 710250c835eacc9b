package settings

import (
	"errors"
	"fmt"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	True  = "true"
	False = "false"
)

var ErrUnknownBackend = errors.New("unknown settings backend")

// Store is the local storage the automation persists its toggles in.
// Values are plain strings, booleans are stored as "true" or "false".
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	// SetDefault writes value only when key has never been set.
	SetDefault(key, value string) error
}

// Enabled reports whether key holds exactly "true".
func Enabled(s Store, key string) bool {
	v, found := s.Get(key)
	return found && v == True
}

// SetBool stores a boolean the same way the panel toggles do.
func SetBool(s Store, key string, value bool) error {
	if value {
		return s.Set(key, True)
	}

	return s.Set(key, False)
}

// Open returns the store for the given backend. path is ignored by the memory backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
