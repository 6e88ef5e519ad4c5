package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (db *DB) InsertGenre(ctx context.Context, genre *models.Genre) (primitive.ObjectID, error) {
	res, err := db.Genres().InsertOne(ctx, genre)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert genre")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) GenreByID(ctx context.Context, id primitive.ObjectID) (*models.Genre, error) {
	g, err := findOne[models.Genre](ctx, db.Genres(), id)
	return g, errors.Wrap(err, "find genre")
}

func (db *DB) GenresByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Genre, error) {
	if len(ids) == 0 {
		return []models.Genre{}, nil
	}
	genres, err := findMany[models.Genre](ctx, db.Genres(), bson.M{"_id": bson.M{"$in": ids}}, sortBy("name"))
	return genres, errors.Wrap(err, "find genres by ids")
}

func (db *DB) ListGenres(ctx context.Context) ([]models.Genre, error) {
	genres, err := findMany[models.Genre](ctx, db.Genres(), bson.M{}, sortBy("name"))
	return genres, errors.Wrap(err, "list genres")
}

func (db *DB) ReplaceGenre(ctx context.Context, genre *models.Genre) error {
	return errors.Wrap(replaceOne(ctx, db.Genres(), genre.ID, genre), "replace genre")
}

func (db *DB) DeleteGenre(ctx context.Context, id primitive.ObjectID) error {
	return errors.Wrap(deleteOne(ctx, db.Genres(), id), "delete genre")
}

func (db *DB) CountGenres(ctx context.Context) (int64, error) {
	n, err := db.Genres().CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "count genres")
}
