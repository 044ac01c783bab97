package kv

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMongoDatabase   = "topolayout"
	defaultMongoCollection = "kv"
)

// Mongo stores each key as a document in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongo connects to a mongodb:// URL. The database is taken from the URL
// path (default "topolayout"); documents live in the "kv" collection unless a
// "collection" query parameter is given.
func NewMongo(ctx context.Context, rawURL string) (*Mongo, error) {
	db, collName := mongoNames(rawURL)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(rawURL))
	if err != nil {
		return nil, err
	}
	err = RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Mongo{client: client, coll: client.Database(db).Collection(collName)}, nil
}

func mongoNames(rawURL string) (db, coll string) {
	db, coll = defaultMongoDatabase, defaultMongoCollection
	u, err := url.Parse(rawURL)
	if err != nil {
		return db, coll
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		db = name
	}
	if c := u.Query().Get("collection"); c != "" {
		coll = c
	}
	return db, coll
}

// Get reads the document for key.
func (m *Mongo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Data, true, nil
}

// Set upserts the document for key.
func (m *Mongo) Set(ctx context.Context, key string, data []byte) error {
	doc := mongoDoc{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

// Delete removes the document for key.
func (m *Mongo) Delete(ctx context.Context, key string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Close disconnects the client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
