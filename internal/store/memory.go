package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"bula/pkg/models"
)

// MemoryStore keeps records in a map. Records are copied in and out so
// callers observe the same persistence semantics as a remote store.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*models.LeafletRecord
}

// NewMemoryStore creates a store preloaded with records.
// Records without an ID get a generated one.
func NewMemoryStore(records ...*models.LeafletRecord) *MemoryStore {
	s := &MemoryStore{records: make(map[string]*models.LeafletRecord)}
	for _, r := range records {
		rec := clone(r)
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		s.put(rec)
	}
	return s
}

func (s *MemoryStore) put(rec *models.LeafletRecord) {
	if _, exists := s.records[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
}

// first returns a copy of the first record, in insertion order, matching fn.
func (s *MemoryStore) first(fn func(*models.LeafletRecord) bool) (*models.LeafletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if rec := s.records[id]; fn(rec) {
			return clone(rec), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByOfficialName(_ context.Context, name string) (*models.LeafletRecord, error) {
	return s.first(func(r *models.LeafletRecord) bool { return r.OfficialName == name })
}

func (s *MemoryStore) FindByAlternateName(_ context.Context, name string) (*models.LeafletRecord, error) {
	return s.first(func(r *models.LeafletRecord) bool { return slices.Contains(r.AlternateNames, name) })
}

func (s *MemoryStore) SaveSummary(_ context.Context, id string, summary models.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.Summary = &summary
	return nil
}

func (s *MemoryStore) UpsertLeaflet(_ context.Context, record *models.LeafletRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if rec := s.records[id]; rec.OfficialName == record.OfficialName {
			rec.AlternateNames = slices.Clone(record.AlternateNames)
			rec.FullText = record.FullText
			return false, nil
		}
	}

	rec := clone(record)
	rec.ID = uuid.NewString()
	rec.Summary = nil
	s.put(rec)
	return true, nil
}

// Get returns a copy of the record stored under id.
func (s *MemoryStore) Get(id string) (*models.LeafletRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return clone(rec), true
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error { return nil }

func clone(r *models.LeafletRecord) *models.LeafletRecord {
	c := *r
	c.AlternateNames = slices.Clone(r.AlternateNames)
	if r.Summary != nil {
		summary := *r.Summary
		c.Summary = &summary
	}
	return &c
}
