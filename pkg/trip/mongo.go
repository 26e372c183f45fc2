package trip

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore archives enriched trips in a MongoDB collection, one document
// per enriched record tagged with the run id. The JSON file remains the
// artifact the survey application consumes; the archive exists for studies
// that keep a central record of every generation run.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// archivedTrip is the stored document shape.
type archivedTrip struct {
	RunID     string    `bson:"run_id"`
	CreatedAt time.Time `bson:"created_at"`
	Record    Enriched  `bson:"record"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Archive inserts all records for one run. An empty record list is a no-op.
func (s *MongoStore) Archive(ctx context.Context, runID string, records []Enriched) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = archivedTrip{RunID: runID, CreatedAt: now, Record: rec}
	}
	_, err := s.coll.InsertMany(ctx, docs)
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
