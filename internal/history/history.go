// Package history records served predictions in PostgreSQL or a CSV file.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/happyhackingspace/stayprice/internal/config"
	"github.com/happyhackingspace/stayprice/listing"
)

// Record is one served prediction.
type Record struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Model         string          `json:"model,omitempty"`
	Neighbourhood string          `json:"neighbourhood"`
	RoomType      string          `json:"room_type"`
	Accommodates  float64         `json:"accommodates"`
	Price         float64         `json:"price"`
	Input         json.RawMessage `json:"input"`
}

// NewRecord builds a record with a fresh id for a prediction on in.
func NewRecord(in *listing.Input, price float64, model string) (Record, error) {
	if in == nil {
		in = &listing.Input{}
	}
	data, err := json.Marshal(in)
	if err != nil {
		return Record{}, fmt.Errorf("encode input: %w", err)
	}
	r := in.Resolve()
	return Record{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		Model:         model,
		Neighbourhood: r.Neighbourhood,
		RoomType:      r.RoomType,
		Accommodates:  r.Accommodates,
		Price:         price,
		Input:         data,
	}, nil
}

// Store persists prediction records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Close() error
}

// Multi fans a record out to several stores.
type Multi []Store

// Save writes rec to every store and joins their errors.
func (m Multi) Save(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every store.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open returns the stores enabled by cfg, or nil when history is disabled.
func Open(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	var stores Multi
	if cfg.DatabaseURL != "" {
		pg, err := NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		stores = append(stores, pg)
	}
	if cfg.CSVPath != "" {
		cs, err := NewCSVStore(cfg.CSVPath)
		if err != nil {
			_ = stores.Close()
			return nil, err
		}
		stores = append(stores, cs)
	}
	switch len(stores) {
	case 0:
		return nil, nil
	case 1:
		return stores[0], nil
	default:
		return stores, nil
	}
}
