// Package dataset holds the one price list currently being worked on.
package dataset

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/mauv0809/pricelist/internal/reconcile"
)

// Dataset is an uploaded, evaluated price list.
type Dataset struct {
	ID           uuid.UUID            `json:"id"`
	Filename     string               `json:"filename"`
	Schema       pricelist.Schema     `json:"schema"`
	UploadedAt   time.Time            `json:"uploadedAt"`
	Records      []models.PriceRecord `json:"records"`
	Reconciled   *reconcile.Result    `json:"reconciled,omitempty"`
	ReconciledAt *time.Time           `json:"reconciledAt,omitempty"`
}

// Store keeps the active dataset. A new upload replaces the previous one.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace makes records the active dataset and returns it.
func (s *Store) Replace(filename string, schema pricelist.Schema, records []models.PriceRecord) *Dataset {
	ds := &Dataset{
		ID:         uuid.New(),
		Filename:   filename,
		Schema:     schema,
		UploadedAt: time.Now().UTC(),
		Records:    records,
	}

	s.mu.Lock()
	s.current = ds
	s.mu.Unlock()
	return ds
}

// Current returns the active dataset, or nil before the first upload.
func (s *Store) Current() *Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reconcile merges catalog into the active dataset under the write lock.
// ok is false when nothing has been uploaded.
func (s *Store) Reconcile(catalog []models.PriceRecord) (res reconcile.Result, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return reconcile.Result{}, false
	}
	res = reconcile.Reconcile(s.current.Records, catalog)
	now := time.Now().UTC()
	s.current.Reconciled = &res
	s.current.ReconciledAt = &now
	return res, true
}

// Snapshot copies the active dataset so it can be read outside the lock.
// Record slices and maps are still shared.
func (s *Store) Snapshot() (Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Dataset{}, false
	}
	ds := *s.current
	ds.Records = append([]models.PriceRecord(nil), s.current.Records...)
	return ds, true
}
