package store

import (
	"context"
	"slices"
	"sync"

	"github.com/etnz/wealth"
)

// Memory keeps history tables in memory. The zero value is not ready to use,
// call NewMemory.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]wealth.HistoryRow
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]wealth.HistoryRow)}
}

// Read returns a copy of table key.
func (m *Memory) Read(_ context.Context, key string) ([]wealth.HistoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.tables[key]), nil
}

// Write replaces table key by a copy of rows.
func (m *Memory) Write(_ context.Context, key string, rows []wealth.HistoryRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[key] = slices.Clone(rows)
	return nil
}

// Close does nothing, the tables live as long as m.
func (m *Memory) Close() error { return nil }
