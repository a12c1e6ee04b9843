package wealth

import "context"

// HistoryStore persists history tables addressed by a key (a worksheet name,
// a file name, ...).
type HistoryStore interface {
	// Read returns the rows stored under key, or no rows if the key does not exist yet.
	Read(ctx context.Context, key string) ([]HistoryRow, error)
	// Write replaces the whole table stored under key.
	// On failure the previously stored rows remain unchanged.
	Write(ctx context.Context, key string, rows []HistoryRow) error
}
