package docstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mapscript/mapscript/pkg/errors"
)

// MongoStore keeps documents in a MongoDB collection, one document per
// diagram keyed by name. Intended for edit servers that outlive a single
// machine.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "mapscript"
	Collection string // defaults to "documents"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "mapscript"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts the document by name.
func (s *MongoStore) Save(ctx context.Context, doc Document) error {
	if err := validate(doc.Name); err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": doc.Name},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save document %q", doc.Name)
	}
	return nil
}

// Load retrieves the document by name.
func (s *MongoStore) Load(ctx context.Context, name string) (Document, error) {
	if err := validate(name); err != nil {
		return Document{}, err
	}

	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Document{}, errors.New(errors.ErrCodeNotFound, "document %q not found", name)
	}
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeStorage, err, "load document %q", name)
	}
	return doc, nil
}

// List returns all documents sorted by name, with Source omitted.
func (s *MongoStore) List(ctx context.Context) ([]Document, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.M{"_id": 1}).
			SetProjection(bson.M{"source": 0}),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list documents")
	}
	defer cur.Close(ctx)

	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode documents")
	}
	return docs, nil
}

// Delete removes the document. Deleting an absent document is not an error.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := validate(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete document %q", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
