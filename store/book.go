package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert book")
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	b, err := findOne[models.Book](ctx, db.Books(), id)
	return b, errors.Wrap(err, "find book")
}

func (db *DB) BooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	books, err := findMany[models.Book](ctx, db.Books(), bson.M{"_id": bson.M{"$in": ids}})
	return books, errors.Wrap(err, "find books by ids")
}

// ListBooks returns title and author of every book, ordered by title.
func (db *DB) ListBooks(ctx context.Context) ([]models.Book, error) {
	opts := sortBy("title").SetProjection(bson.M{"title": 1, "author": 1})
	books, err := findMany[models.Book](ctx, db.Books(), bson.M{}, opts)
	return books, errors.Wrap(err, "list books")
}

// BooksByAuthor returns title and summary of the author's books.
func (db *DB) BooksByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Book, error) {
	opts := sortBy("title").SetProjection(bson.M{"title": 1, "summary": 1})
	books, err := findMany[models.Book](ctx, db.Books(), bson.M{"author": authorID}, opts)
	return books, errors.Wrap(err, "find books by author")
}

// BooksByGenre returns title and summary of the books tagged with the genre.
func (db *DB) BooksByGenre(ctx context.Context, genreID primitive.ObjectID) ([]models.Book, error) {
	opts := sortBy("title").SetProjection(bson.M{"title": 1, "summary": 1})
	books, err := findMany[models.Book](ctx, db.Books(), bson.M{"genre": genreID}, opts)
	return books, errors.Wrap(err, "find books by genre")
}

func (db *DB) ReplaceBook(ctx context.Context, book *models.Book) error {
	return errors.Wrap(replaceOne(ctx, db.Books(), book.ID, book), "replace book")
}

func (db *DB) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	return errors.Wrap(deleteOne(ctx, db.Books(), id), "delete book")
}

func (db *DB) CountBooks(ctx context.Context) (int64, error) {
	n, err := db.Books().CountDocuments(ctx, bson.M{})
	return n, errors.Wrap(err, "count books")
}
