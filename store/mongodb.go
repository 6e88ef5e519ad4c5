package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNotFound is returned by replace operations whose target id matches nothing.
var ErrNotFound = errors.New("document not found")

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	log      *zap.Logger
}

func NewMongoDB(ctx context.Context, uri, dbName string, log *zap.Logger) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "mongo ping")
	}
	log = log.Named("store")
	log.Info("connected to MongoDB", zap.String("db", dbName))
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
		log:      log,
	}, nil
}

func (db *DB) Authors() *mongo.Collection {
	return db.Database.Collection("authors")
}

func (db *DB) Books() *mongo.Collection {
	return db.Database.Collection("books")
}

func (db *DB) Genres() *mongo.Collection {
	return db.Database.Collection("genres")
}

func (db *DB) BookInstances() *mongo.Collection {
	return db.Database.Collection("bookinstances")
}

// EnsureIndexes creates the indexes backing dependent lookups and sorted listings.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll *mongo.Collection
		key  string
	}{
		{db.Books(), "author"},
		{db.Books(), "genre"},
		{db.Books(), "title"},
		{db.BookInstances(), "book"},
		{db.BookInstances(), "status"},
		{db.Authors(), "family_name"},
		{db.Genres(), "name"},
	}
	for _, idx := range indexes {
		model := mongo.IndexModel{Keys: bson.D{{Key: idx.key, Value: 1}}}
		if _, err := idx.coll.Indexes().CreateOne(ctx, model); err != nil {
			return errors.Wrapf(err, "create index %s.%s", idx.coll.Name(), idx.key)
		}
		db.log.Debug("index ensured", zap.String("collection", idx.coll.Name()), zap.String("key", idx.key))
	}
	db.log.Info("indexes ensured", zap.Int("count", len(indexes)))
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findOne decodes the document with the given id, or returns nil when there is none.
func findOne[T any](ctx context.Context, coll *mongo.Collection, id interface{}) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func replaceOne(ctx context.Context, coll *mongo.Collection, id, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id interface{}) error {
	_, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func sortBy(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: 1}})
}
