// Package store persists the portfolio history tables.
//
// Every implementation replaces a whole table at once: a failed Write leaves
// the previous content untouched.
package store

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/wealth"
)

// Store is a wealth.HistoryStore that holds resources.
type Store interface {
	wealth.HistoryStore
	io.Closer
}

var (
	_ Store = (*File)(nil)
	_ Store = (*SQLite)(nil)
	_ Store = (*Memory)(nil)
)

// Open returns the store of kind "file", "sqlite" or "memory" located at path.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case "", "file":
		return NewFile(path)
	case "sqlite":
		return OpenSQLite(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q want one of file, sqlite, memory", kind)
	}
}

// checkKey rejects keys that cannot be used as a file name.
func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid history key %q", key)
	}
	return nil
}
