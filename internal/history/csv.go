package history

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{
	"id", "created_at", "model", "neighbourhood", "room_type",
	"accommodates", "price", "input",
}

// CSVStore appends predictions to a CSV file. It is safe for concurrent use.
type CSVStore struct {
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewCSVStore opens path for appending, writing the header when the file is
// new or empty.
func NewCSVStore(path string) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s := &CSVStore{file: f, w: csv.NewWriter(f)}
	if info.Size() == 0 {
		if err := s.write(csvHeader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write history header: %w", err)
		}
	}
	return s, nil
}

// Save appends rec and flushes it to disk.
func (s *CSVStore) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := []string{
		rec.ID,
		rec.CreatedAt.Format(time.RFC3339),
		rec.Model,
		rec.Neighbourhood,
		rec.RoomType,
		strconv.FormatFloat(rec.Accommodates, 'f', -1, 64),
		strconv.FormatFloat(rec.Price, 'f', 2, 64),
		string(rec.Input),
	}
	if err := s.write(row); err != nil {
		return fmt.Errorf("write prediction %s: %w", rec.ID, err)
	}
	return nil
}

func (s *CSVStore) write(row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Write(row); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

// Close closes the file.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	return s.file.Close()
}
