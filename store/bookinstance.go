package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (db *DB) InsertBookInstance(ctx context.Context, bi *models.BookInstance) (primitive.ObjectID, error) {
	res, err := db.BookInstances().InsertOne(ctx, bi)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert book instance")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) BookInstanceByID(ctx context.Context, id primitive.ObjectID) (*models.BookInstance, error) {
	bi, err := findOne[models.BookInstance](ctx, db.BookInstances(), id)
	return bi, errors.Wrap(err, "find book instance")
}

func (db *DB) ListBookInstances(ctx context.Context) ([]models.BookInstance, error) {
	list, err := findMany[models.BookInstance](ctx, db.BookInstances(), bson.M{})
	return list, errors.Wrap(err, "list book instances")
}

func (db *DB) BookInstancesByBook(ctx context.Context, bookID primitive.ObjectID) ([]models.BookInstance, error) {
	list, err := findMany[models.BookInstance](ctx, db.BookInstances(), bson.M{"book": bookID})
	return list, errors.Wrap(err, "find book instances by book")
}

func (db *DB) ReplaceBookInstance(ctx context.Context, bi *models.BookInstance) error {
	return errors.Wrap(replaceOne(ctx, db.BookInstances(), bi.ID, bi), "replace book instance")
}

func (db *DB) DeleteBookInstance(ctx context.Context, id primitive.ObjectID) error {
	return errors.Wrap(deleteOne(ctx, db.BookInstances(), id), "delete book instance")
}

// CountBookInstances counts copies with the given status, or all copies when status is empty.
func (db *DB) CountBookInstances(ctx context.Context, status models.Status) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	n, err := db.BookInstances().CountDocuments(ctx, filter)
	return n, errors.Wrap(err, "count book instances")
}
