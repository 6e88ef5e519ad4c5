package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sheacronin/locallibrary/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTestDB connects to MONGODB_TEST_URI and skips the test when it is unset.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewMongoDB(ctx, uri, "locallibrary_test_"+primitive.NewObjectID().Hex(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Disconnect(context.Background())
	})
	require.NoError(t, db.EnsureIndexes(ctx))
	return db
}

func TestDB_BookRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	authorID, err := db.InsertAuthor(ctx, &models.Author{FirstName: "Frank", FamilyName: "Herbert"})
	require.NoError(t, err)
	bookID, err := db.InsertBook(ctx, &models.Book{
		Title: "Dune", AuthorID: authorID, Summary: "Spice.", ISBN: "9780441013593",
		GenreIDs: []primitive.ObjectID{},
	})
	require.NoError(t, err)

	book, err := db.BookByID(ctx, bookID)
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, authorID, book.AuthorID)

	byAuthor, err := db.BooksByAuthor(ctx, authorID)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)

	book.Title = "Dune Messiah"
	require.NoError(t, db.ReplaceBook(ctx, book))
	book, err = db.BookByID(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", book.Title)

	require.NoError(t, db.DeleteBook(ctx, bookID))
	book, err = db.BookByID(ctx, bookID)
	require.NoError(t, err)
	assert.Nil(t, book)

	err = db.ReplaceBook(ctx, &models.Book{ID: bookID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_CountBookInstances(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	bookID := primitive.NewObjectID()
	for _, st := range []models.Status{models.StatusAvailable, models.StatusAvailable, models.StatusLoaned} {
		_, err := db.InsertBookInstance(ctx, &models.BookInstance{BookID: bookID, Imprint: "Ace", Status: st, DueBack: time.Now()})
		require.NoError(t, err)
	}
	all, err := db.CountBookInstances(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, all)
	available, err := db.CountBookInstances(ctx, models.StatusAvailable)
	require.NoError(t, err)
	assert.EqualValues(t, 2, available)
}

func TestDB_EnsureIndexesLogs(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	core, logs := observer.New(zapcore.InfoLevel)
	db, err := NewMongoDB(ctx, uri, "locallibrary_test_"+primitive.NewObjectID().Hex(), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Disconnect(context.Background())
	})

	require.NoError(t, db.EnsureIndexes(ctx))
	entries := logs.FilterMessage("indexes ensured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0].LoggerName)
	assert.EqualValues(t, 7, entries[0].ContextMap()["count"])
}
