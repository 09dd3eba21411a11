package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"

	"bula/internal/gcpauth"
	"bula/internal/logger"
	"bula/pkg/models"
)

// FirestoreStore implements LeafletStore on a Cloud Firestore collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	log        zerolog.Logger
}

// NewFirestoreStore connects to databaseID in projectID with credentials from environment.
func NewFirestoreStore(ctx context.Context, projectID, databaseID, collection string) (*FirestoreStore, error) {
	const op = "NewFirestoreStore"

	opts, _ := gcpauth.ClientOptions()

	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create Firestore client: %w", op, err)
	}

	return NewFirestoreStoreWithClient(client, collection), nil
}

// NewFirestoreStoreWithClient wraps an existing client (for testing against the emulator).
func NewFirestoreStoreWithClient(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{
		client:     client,
		collection: collection,
		log:        logger.WithComponent("store-firestore"),
	}
}

func (s *FirestoreStore) coll() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

// findOne runs query with limit 1 and decodes the first document.
func (s *FirestoreStore) findOne(ctx context.Context, op string, query firestore.Query) (*models.LeafletRecord, *firestore.DocumentRef, error) {
	iter := query.Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: query failed: %w", op, err)
	}

	var rec models.LeafletRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, nil, fmt.Errorf("%s: failed to decode document %s: %w", op, doc.Ref.ID, err)
	}
	rec.ID = doc.Ref.ID

	return &rec, doc.Ref, nil
}

func (s *FirestoreStore) FindByOfficialName(ctx context.Context, name string) (*models.LeafletRecord, error) {
	rec, _, err := s.findOne(ctx, "FindByOfficialName", s.coll().Where(FieldOfficialName, "==", name))
	return rec, err
}

func (s *FirestoreStore) FindByAlternateName(ctx context.Context, name string) (*models.LeafletRecord, error) {
	rec, _, err := s.findOne(ctx, "FindByAlternateName", s.coll().Where(FieldAlternateNames, "array-contains", name))
	return rec, err
}

func (s *FirestoreStore) SaveSummary(ctx context.Context, id string, summary models.Summary) error {
	const op = "SaveSummary"

	_, err := s.coll().Doc(id).Update(ctx, []firestore.Update{
		{Path: FieldSummary, Value: summary},
	})
	if err != nil {
		return fmt.Errorf("%s: failed to update document %s: %w", op, id, err)
	}

	s.log.Debug().Str("document", id).Msg("Summary stored")
	return nil
}

func (s *FirestoreStore) UpsertLeaflet(ctx context.Context, record *models.LeafletRecord) (bool, error) {
	const op = "UpsertLeaflet"

	_, ref, err := s.findOne(ctx, op, s.coll().Where(FieldOfficialName, "==", record.OfficialName))
	switch {
	case errors.Is(err, ErrNotFound):
		fresh := *record
		fresh.Summary = nil
		if _, _, err := s.coll().Add(ctx, fresh); err != nil {
			return false, fmt.Errorf("%s: failed to create document for %q: %w", op, record.OfficialName, err)
		}
		return true, nil
	case err != nil:
		return false, err
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: FieldAlternateNames, Value: record.AlternateNames},
		{Path: FieldFullText, Value: record.FullText},
	})
	if err != nil {
		return false, fmt.Errorf("%s: failed to update document %s: %w", op, ref.ID, err)
	}
	return false, nil
}

// Close closes the Firestore client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
