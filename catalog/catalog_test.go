package catalog

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
	"github.com/sheacronin/locallibrary/service"
	"github.com/sheacronin/locallibrary/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	store  *memstore.Store
	author primitive.ObjectID
	genre  primitive.ObjectID
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	author, err := s.InsertAuthor(ctx, &models.Author{FirstName: "Frank", FamilyName: "Herbert"})
	require.NoError(t, err)
	genre, err := s.InsertGenre(ctx, &models.Genre{Name: "Science Fiction"})
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return &fixture{
		svc:    NewService(s, zap.NewNop(), opts...),
		store:  s,
		author: author,
		genre:  genre,
	}
}

func (f *fixture) addBook(t *testing.T, title string) primitive.ObjectID {
	t.Helper()
	id, err := f.store.InsertBook(context.Background(), &models.Book{
		Title:    title,
		AuthorID: f.author,
		Summary:  "summary",
		ISBN:     "isbn",
		GenreIDs: []primitive.ObjectID{f.genre},
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) addCopy(t *testing.T, book primitive.ObjectID) primitive.ObjectID {
	t.Helper()
	id, err := f.store.InsertBookInstance(context.Background(), &models.BookInstance{
		BookID: book, Imprint: "Ace", Status: models.StatusAvailable, DueBack: fixedNow,
	})
	require.NoError(t, err)
	return id
}

func bookForm(author, genre primitive.ObjectID) url.Values {
	return url.Values{
		"title":   {"Dune"},
		"author":  {author.Hex()},
		"summary": {"Desert planet."},
		"isbn":    {"9780441013593"},
		"genre":   {genre.Hex()},
	}
}

func TestCreateBook_Redirects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateBook(ctx, bookForm(f.author, f.genre))
	require.NoError(t, err)
	require.Equal(t, StateRedirected, res.State)

	books, err := f.store.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "/catalog/book/"+books[0].ID.Hex(), res.Location)

	res, err = f.svc.BookDetail(ctx, books[0].ID.Hex())
	require.NoError(t, err)
	page := res.Data.(*BookDetailPage)
	assert.Equal(t, "Dune", page.Book.Title)
	assert.Equal(t, "9780441013593", page.Book.ISBN)
	require.NotNil(t, page.Book.Author)
	assert.Equal(t, "Herbert, Frank", page.Book.Author.Name())
	assert.Len(t, page.Book.Genres, 1)
}

func TestCreateAuthor_InvalidIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateAuthor(ctx, url.Values{"first_name": {""}, "family_name": {"<Smith>"}})
	require.NoError(t, err)
	assert.Equal(t, StateRedisplayed, res.State)
	assert.Equal(t, ViewAuthorForm, res.View)

	page := res.Data.(*AuthorFormPage)
	assert.Equal(t, "First name must be specified.", page.Errors.For("first_name"))
	assert.Equal(t, "&lt;Smith&gt;", page.Values.Get("family_name"))

	n, err := f.store.CountAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateBook_Redisplay(t *testing.T) {
	f := newFixture(t)

	form := bookForm(f.author, f.genre)
	form.Set("title", "")
	res, err := f.svc.CreateBook(context.Background(), form)
	require.NoError(t, err)
	require.Equal(t, StateRedisplayed, res.State)

	page := res.Data.(*BookFormPage)
	assert.Equal(t, "Title must not be empty.", page.Errors.For("title"))
	require.Len(t, page.Genres, 1)
	assert.True(t, page.Genres[0].Selected)
	require.Len(t, page.Authors, 1)
	assert.True(t, page.Authors[0].Selected)
}

func TestCreateBook_References(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateBook(ctx, bookForm(primitive.NewObjectID(), f.genre))
	require.NoError(t, err)
	require.Equal(t, StateRedisplayed, res.State)
	assert.Equal(t, "Author not found.", res.Data.(*BookFormPage).Errors.For("author"))

	form := bookForm(f.author, f.genre)
	form.Add("genre", primitive.NewObjectID().Hex())
	res, err = f.svc.CreateBook(ctx, form)
	require.NoError(t, err)
	require.Equal(t, StateRedirected, res.State)

	books, err := f.store.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	stored, err := f.store.BookByID(ctx, books[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{f.genre}, stored.GenreIDs)
}

func TestCreateBook_RepeatedGenreStoredOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := bookForm(f.author, f.genre)
	form.Add("genre", f.genre.Hex())
	res, err := f.svc.CreateBook(ctx, form)
	require.NoError(t, err)
	require.Equal(t, StateRedirected, res.State)

	books, err := f.store.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	stored, err := f.store.BookByID(ctx, books[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{f.genre}, stored.GenreIDs)
}

func TestUpdateBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.addBook(t, "Dune")

	res, err := f.svc.BookUpdateForm(ctx, id.Hex())
	require.NoError(t, err)
	page := res.Data.(*BookFormPage)
	assert.Equal(t, "Dune", page.Values.Get("title"))
	assert.True(t, page.Genres[0].Selected)

	form := bookForm(f.author, f.genre)
	form.Set("title", "Dune Messiah")
	res, err = f.svc.UpdateBook(ctx, id.Hex(), form)
	require.NoError(t, err)
	assert.Equal(t, "/catalog/book/"+id.Hex(), res.Location)

	stored, err := f.store.BookByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", stored.Title)

	_, err = f.svc.UpdateBook(ctx, primitive.NewObjectID().Hex(), form)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = f.svc.BookUpdateForm(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "Dune")

	res, err := f.svc.DeleteAuthor(ctx, f.author.Hex())
	require.NoError(t, err)
	require.Equal(t, StateBlocked, res.State)
	page := res.Data.(*AuthorDeletePage)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Dune", page.Books[0].Title)

	require.NoError(t, f.store.DeleteBook(ctx, book))
	res, err = f.svc.DeleteAuthor(ctx, f.author.Hex())
	require.NoError(t, err)
	assert.Equal(t, StateRedirected, res.State)
	assert.Equal(t, "/catalog/authors", res.Location)

	a, err := f.store.AuthorByID(ctx, f.author)
	require.NoError(t, err)
	assert.Nil(t, a)

	// deleting again, or something that never existed, lands on the list
	for _, id := range []string{f.author.Hex(), "not-an-id"} {
		res, err = f.svc.DeleteAuthor(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "/catalog/authors", res.Location)
	}
}

func TestDeleteGenre_BlockedByBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBook(t, "Dune")

	res, err := f.svc.DeleteGenre(ctx, f.genre.Hex())
	require.NoError(t, err)
	assert.Equal(t, StateBlocked, res.State)
	assert.Len(t, res.Data.(*GenreDeletePage).Books, 1)
}

func TestDeleteBook_BlockedByCopies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "Dune")
	cp := f.addCopy(t, book)

	res, err := f.svc.DeleteBook(ctx, book.Hex())
	require.NoError(t, err)
	assert.Equal(t, StateBlocked, res.State)

	res, err = f.svc.DeleteBookInstance(ctx, cp.Hex())
	require.NoError(t, err)
	assert.Equal(t, "/catalog/bookinstances", res.Location)

	res, err = f.svc.DeleteBook(ctx, book.Hex())
	require.NoError(t, err)
	assert.Equal(t, StateRedirected, res.State)
	assert.Equal(t, "/catalog/books", res.Location)
}

func TestBookInstanceDetail_DanglingBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "Dune")
	cp := f.addCopy(t, book)

	res, err := f.svc.BookInstanceDetail(ctx, cp.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Copy: Dune", res.Data.(*BookInstanceDetailPage).Title)

	require.NoError(t, f.store.DeleteBook(ctx, book))
	_, err = f.svc.BookInstanceDetail(ctx, cp.Hex())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBookDetail_DanglingAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "Dune")

	_, err := f.svc.BookDetail(ctx, book.Hex())
	require.NoError(t, err)

	require.NoError(t, f.store.DeleteAuthor(ctx, f.author))
	_, err = f.svc.BookDetail(ctx, book.Hex())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateBookInstance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "Dune")

	res, err := f.svc.CreateBookInstance(ctx, url.Values{"book": {book.Hex()}, "imprint": {"Ace"}})
	require.NoError(t, err)
	require.Equal(t, StateRedirected, res.State)

	list, err := f.store.BookInstancesByBook(ctx, book)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusMaintenance, list[0].Status)
	assert.Equal(t, fixedNow, list[0].DueBack)

	res, err = f.svc.CreateBookInstance(ctx, url.Values{"book": {primitive.NewObjectID().Hex()}, "imprint": {"Ace"}, "status": {"Loaned"}})
	require.NoError(t, err)
	require.Equal(t, StateRedisplayed, res.State)
	page := res.Data.(*BookInstanceFormPage)
	assert.Equal(t, "Book not found.", page.Errors.For("book"))
	for _, c := range page.Statuses {
		assert.Equal(t, c.Value == "Loaned", c.Selected)
	}
}

func TestBookInstanceList_SortedByTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCopy(t, f.addBook(t, "Zorba"))
	f.addCopy(t, primitive.NewObjectID())
	f.addCopy(t, f.addBook(t, "Anathem"))

	res, err := f.svc.BookInstanceList(ctx)
	require.NoError(t, err)
	list := res.Data.(*BookInstanceListPage).Instances
	require.Len(t, list, 3)
	assert.Equal(t, "Anathem", list[0].Book.Title)
	assert.Equal(t, "Zorba", list[1].Book.Title)
	assert.Nil(t, list[2].Book)
}

func TestIndex(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(t, "Dune")
	f.addCopy(t, book)

	res, err := f.svc.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Books: 1, BookInstances: 1, BookInstancesAvailable: 1, Authors: 1, Genres: 1},
		res.Data.(*IndexPage).Counts)
}

func TestDetail_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := primitive.NewObjectID().Hex()

	for name, call := range map[string]func(string) (Result, error){
		"author":       func(id string) (Result, error) { return f.svc.AuthorDetail(ctx, id) },
		"genre":        func(id string) (Result, error) { return f.svc.GenreDetail(ctx, id) },
		"book":         func(id string) (Result, error) { return f.svc.BookDetail(ctx, id) },
		"bookinstance": func(id string) (Result, error) { return f.svc.BookInstanceDetail(ctx, id) },
	} {
		for _, id := range []string{missing, "zzz"} {
			_, err := call(id)
			assert.True(t, errors.Is(err, ErrNotFound), "%s %s", name, id)
		}
	}
}

func TestUpdateAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.UpdateAuthor(ctx, f.author.Hex(), url.Values{
		"first_name": {"Frank"}, "family_name": {"Herbert"}, "date_of_birth": {"1920-10-08"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/catalog/author/"+f.author.Hex(), res.Location)

	a, err := f.store.AuthorByID(ctx, f.author)
	require.NoError(t, err)
	assert.Equal(t, "1920-10-08", a.DateOfBirthISO())
}

type fakeLookup struct {
	meta *service.BookMetadata
	err  error
}

func (l fakeLookup) LookupISBN(context.Context, string) (*service.BookMetadata, error) {
	return l.meta, l.err
}

func TestBookCreateForm_Prefill(t *testing.T) {
	meta := &service.BookMetadata{Title: "Dune", Summary: "Spice & sand", ISBN: "9780441013593"}
	f := newFixture(t, WithISBNLookup(fakeLookup{meta: meta}))

	res, err := f.svc.BookCreateForm(context.Background(), "0441013597")
	require.NoError(t, err)
	values := res.Data.(*BookFormPage).Values
	assert.Equal(t, "Dune", values.Get("title"))
	assert.Equal(t, "Spice &amp; sand", values.Get("summary"))

	f = newFixture(t, WithISBNLookup(fakeLookup{err: errors.New("offline")}))
	res, err = f.svc.BookCreateForm(context.Background(), "0441013597")
	require.NoError(t, err)
	assert.Empty(t, res.Data.(*BookFormPage).Values)
}

type brokenStore struct {
	*memstore.Store
	err error
}

func (b brokenStore) BooksByAuthor(context.Context, primitive.ObjectID) ([]models.Book, error) {
	return nil, b.err
}

func (b brokenStore) InsertGenre(context.Context, *models.Genre) (primitive.ObjectID, error) {
	return primitive.NilObjectID, b.err
}

// CountGenres blocks until the read deadline passes.
func (b brokenStore) CountGenres(ctx context.Context) (int64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func TestStoreFailures(t *testing.T) {
	boom := errors.New("connection reset")
	s := brokenStore{Store: memstore.New(), err: boom}
	svc := NewService(s, zap.NewNop(), WithReadTimeout(20*time.Millisecond))
	ctx := context.Background()

	_, err := svc.AuthorDetail(ctx, primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrNotFound))

	_, err = svc.CreateGenre(ctx, url.Values{"name": {"Fantasy"}})
	assert.True(t, errors.Is(err, boom))

	_, err = svc.Index(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// batchReader exposes only the batch lookups the resolver needs.
type batchReader struct {
	s *memstore.Store
}

func (b batchReader) AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Author, error) {
	return b.s.AuthorsByIDs(ctx, ids)
}

func (b batchReader) GenresByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Genre, error) {
	return b.s.GenresByIDs(ctx, ids)
}

func (b batchReader) BooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	return b.s.BooksByIDs(ctx, ids)
}

func TestResolver_DanglingReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := NewResolver(batchReader{s: f.store})

	book := &models.Book{
		Title:    "Orphan",
		AuthorID: primitive.NewObjectID(),
		GenreIDs: []primitive.ObjectID{primitive.NewObjectID(), f.genre},
	}
	pb, err := r.Book(ctx, book)
	require.NoError(t, err)
	assert.Nil(t, pb.Author)
	require.Len(t, pb.Genres, 1)
	assert.Equal(t, "Science Fiction", pb.Genres[0].Name)

	pbi, err := r.BookInstance(ctx, &models.BookInstance{BookID: primitive.NewObjectID()})
	require.NoError(t, err)
	assert.Nil(t, pbi.Book)
}
