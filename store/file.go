package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/wealth"
)

// File stores each history table as a JSON Lines file in a directory, one row
// per line, in chronological order. The files stay human readable and git friendly.
type File struct {
	dir string
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create history directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) filename(key string) string { return filepath.Join(f.dir, key+".jsonl") }

// Read returns the rows of table key, none if the table does not exist yet.
func (f *File) Read(ctx context.Context, key string) ([]wealth.HistoryRow, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	filename := f.filename(key)
	r, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
	}
	defer r.Close()

	var rows []wealth.HistoryRow
	scanner := bufio.NewScanner(r)
	for i := 1; scanner.Scan(); i++ {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var row wealth.HistoryRow
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, fmt.Errorf("format error %s:%d: %w", filename, i, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	return rows, ctx.Err()
}

// Write replaces table key by rows.
//
// Rows are written to a temporary file renamed over the table, so readers
// see either the old or the new table.
func (f *File) Write(ctx context.Context, key string, rows []wealth.HistoryRow) error {
	if err := checkKey(key); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("cannot encode %s row: %w", row.Date, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create history file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.filename(key)); err != nil {
		return fmt.Errorf("cannot replace history file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }
