package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"bula/internal/logger"
	"bula/pkg/models"
)

// mongoLeaflet adds the Mongo object id to the shared record layout.
type mongoLeaflet struct {
	ObjectID             primitive.ObjectID `bson:"_id,omitempty"`
	models.LeafletRecord `bson:",inline"`
}

// MongoStore implements LeafletStore on a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        zerolog.Logger
}

// NewMongoStore connects to uri, verifies the connection and ensures lookup indexes.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	const op = "NewMongoStore"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect: %w", op, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping failed: %w", op, err)
	}

	s := NewMongoStoreWithClient(client, database, collection)
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// NewMongoStoreWithClient wraps an already connected client.
func NewMongoStoreWithClient(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		log:        logger.WithComponent("store-mongo"),
	}
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: FieldOfficialName, Value: 1}}},
		{Keys: bson.D{{Key: FieldAlternateNames, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, op string, filter bson.M) (*models.LeafletRecord, error) {
	var doc mongoLeaflet
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: query failed: %w", op, err)
	}

	rec := doc.LeafletRecord
	rec.ID = doc.ObjectID.Hex()
	return &rec, nil
}

func (s *MongoStore) FindByOfficialName(ctx context.Context, name string) (*models.LeafletRecord, error) {
	return s.findOne(ctx, "FindByOfficialName", bson.M{FieldOfficialName: name})
}

// FindByAlternateName relies on Mongo matching scalar equality against array elements.
func (s *MongoStore) FindByAlternateName(ctx context.Context, name string) (*models.LeafletRecord, error) {
	return s.findOne(ctx, "FindByAlternateName", bson.M{FieldAlternateNames: name})
}

func (s *MongoStore) SaveSummary(ctx context.Context, id string, summary models.Summary) error {
	const op = "SaveSummary"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%s: invalid document id %q: %w", op, id, err)
	}

	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{FieldSummary: summary}},
	)
	if err != nil {
		return fmt.Errorf("%s: failed to update document %s: %w", op, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: document %s: %w", op, id, ErrNotFound)
	}

	s.log.Debug().Str("document", id).Msg("Summary stored")
	return nil
}

func (s *MongoStore) UpsertLeaflet(ctx context.Context, record *models.LeafletRecord) (bool, error) {
	const op = "UpsertLeaflet"

	res, err := s.collection.UpdateOne(ctx,
		bson.M{FieldOfficialName: record.OfficialName},
		bson.M{"$set": bson.M{
			FieldAlternateNames: record.AlternateNames,
			FieldFullText:       record.FullText,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("%s: failed to upsert %q: %w", op, record.OfficialName, err)
	}
	return res.UpsertedCount > 0, nil
}

// Close disconnects the Mongo client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
