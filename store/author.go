package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (db *DB) InsertAuthor(ctx context.Context, author *models.Author) (primitive.ObjectID, error) {
	res, err := db.Authors().InsertOne(ctx, author)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert author")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// AuthorByID returns nil, nil when no author has the id.
func (db *DB) AuthorByID(ctx context.Context, id primitive.ObjectID) (*models.Author, error) {
	a, err := findOne[models.Author](ctx, db.Authors(), id)
	return a, errors.Wrap(err, "find author")
}

func (db *DB) AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Author, error) {
	if len(ids) == 0 {
		return []models.Author{}, nil
	}
	authors, err := findMany[models.Author](ctx, db.Authors(), bson.M{"_id": bson.M{"$in": ids}})
	return authors, errors.Wrap(err, "find authors by ids")
}

// ListAuthors returns every author ordered by family name.
func (db *DB) ListAuthors(ctx context.Context) ([]models.Author, error) {
	authors, err := findMany[models.Author](ctx, db.Authors(), bson.M{}, sortBy("family_name"))
	return authors, errors.Wrap(err, "list authors")
}

func (db *DB) ReplaceAuthor(ctx context.Context, author *models.Author) error {
	return errors.Wrap(replaceOne(ctx, db.Authors(), author.ID, author), "replace author")
}

func (db *DB) DeleteAuthor(ctx context.Context, id primitive.ObjectID) error {
	return errors.Wrap(deleteOne(ctx, db.Authors(), id), "delete author")
}

func (db *DB) CountAuthors(ctx context.Context) (int64, error) {
	n, err := db.Authors().CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "count authors")
}
