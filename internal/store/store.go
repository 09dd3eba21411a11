// Package store persists leaflet ("bula") records.
//
// Backends:
//   - FirestoreStore: Cloud Firestore collection (default)
//   - MongoStore: MongoDB collection
//   - MemoryStore: process-local map for tests and local development
//
// All backends share the document layout written by the catalog import:
// nome_medicamento, nomes_alternativos (lowercase), bula_completa and the
// optional resumos map added by the summary provider.
package store

import (
	"context"
	"errors"

	"bula/pkg/models"
)

// Document field names.
const (
	FieldOfficialName   = "nome_medicamento"
	FieldAlternateNames = "nomes_alternativos"
	FieldFullText       = "bula_completa"
	FieldSummary        = "resumos"
)

// ErrNotFound is returned when no record matches a lookup or update.
var ErrNotFound = errors.New("leaflet record not found")

// LeafletStore is the document store holding leaflet records.
type LeafletStore interface {
	// FindByOfficialName returns the first record whose official name equals name exactly.
	FindByOfficialName(ctx context.Context, name string) (*models.LeafletRecord, error)

	// FindByAlternateName returns the first record whose alternate names contain name.
	FindByAlternateName(ctx context.Context, name string) (*models.LeafletRecord, error)

	// SaveSummary sets the summary field of the record identified by id.
	// No other field is touched.
	SaveSummary(ctx context.Context, id string, summary models.Summary) error

	// UpsertLeaflet creates or updates a record keyed by official name.
	// Alternate names and full text are overwritten; an existing summary is kept.
	UpsertLeaflet(ctx context.Context, record *models.LeafletRecord) (created bool, err error)

	// Close releases the underlying client.
	Close() error
}
