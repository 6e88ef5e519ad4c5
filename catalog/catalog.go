// Package catalog orchestrates the catalog pages: it loads what a page needs,
// runs submissions through the form pipeline, persists valid entities and
// decides whether the client is redirected or shown a page again.
package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
	"github.com/sheacronin/locallibrary/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound means the requested entity does not exist, or a reference the
// page cannot do without no longer resolves.
var ErrNotFound = errors.New("not found")

type AuthorStore interface {
	InsertAuthor(ctx context.Context, a *models.Author) (primitive.ObjectID, error)
	AuthorByID(ctx context.Context, id primitive.ObjectID) (*models.Author, error)
	AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Author, error)
	ListAuthors(ctx context.Context) ([]models.Author, error)
	ReplaceAuthor(ctx context.Context, a *models.Author) error
	DeleteAuthor(ctx context.Context, id primitive.ObjectID) error
	CountAuthors(ctx context.Context) (int64, error)
}

type GenreStore interface {
	InsertGenre(ctx context.Context, g *models.Genre) (primitive.ObjectID, error)
	GenreByID(ctx context.Context, id primitive.ObjectID) (*models.Genre, error)
	GenresByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Genre, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	ReplaceGenre(ctx context.Context, g *models.Genre) error
	DeleteGenre(ctx context.Context, id primitive.ObjectID) error
	CountGenres(ctx context.Context) (int64, error)
}

type BookStore interface {
	InsertBook(ctx context.Context, b *models.Book) (primitive.ObjectID, error)
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	BooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	BooksByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Book, error)
	BooksByGenre(ctx context.Context, genreID primitive.ObjectID) ([]models.Book, error)
	ReplaceBook(ctx context.Context, b *models.Book) error
	DeleteBook(ctx context.Context, id primitive.ObjectID) error
	CountBooks(ctx context.Context) (int64, error)
}

type BookInstanceStore interface {
	InsertBookInstance(ctx context.Context, bi *models.BookInstance) (primitive.ObjectID, error)
	BookInstanceByID(ctx context.Context, id primitive.ObjectID) (*models.BookInstance, error)
	ListBookInstances(ctx context.Context) ([]models.BookInstance, error)
	BookInstancesByBook(ctx context.Context, bookID primitive.ObjectID) ([]models.BookInstance, error)
	ReplaceBookInstance(ctx context.Context, bi *models.BookInstance) error
	DeleteBookInstance(ctx context.Context, id primitive.ObjectID) error
	CountBookInstances(ctx context.Context, status models.Status) (int64, error)
}

// Store is the entity store. Lookups by id return nil, nil when nothing matches;
// replacements of a missing id fail with store.ErrNotFound.
type Store interface {
	AuthorStore
	GenreStore
	BookStore
	BookInstanceStore
}

// ISBNLookup fetches book metadata used to prefill the book form.
type ISBNLookup interface {
	LookupISBN(ctx context.Context, isbn string) (*service.BookMetadata, error)
}

type State int

const (
	// StateDisplayed renders a read page or an empty form.
	StateDisplayed State = iota
	// StateRedirected sends the client to Location.
	StateRedirected
	// StateRedisplayed renders a submitted form again with its field errors.
	StateRedisplayed
	// StateBlocked renders a delete confirmation that lists blocking dependents.
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StateDisplayed:
		return "displayed"
	case StateRedirected:
		return "redirected"
	case StateRedisplayed:
		return "redisplayed"
	case StateBlocked:
		return "blocked"
	}
	return "unknown"
}

// Result tells the HTTP layer what to do with a request.
type Result struct {
	State    State
	Location string
	View     string
	Data     interface{}
}

func redirect(location string) Result {
	return Result{State: StateRedirected, Location: location}
}

func display(view string, data interface{}) Result {
	return Result{State: StateDisplayed, View: view, Data: data}
}

type Service struct {
	store   Store
	refs    *Resolver
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
	isbn    ISBNLookup
}

type Option func(*Service)

// WithReadTimeout bounds the concurrent reads of one page.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithISBNLookup(l ISBNLookup) Option {
	return func(s *Service) { s.isbn = l }
}

const defaultReadTimeout = 5 * time.Second

func NewService(store Store, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		refs:    NewResolver(store),
		log:     log.Named("catalog"),
		timeout: defaultReadTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// gather runs independent reads concurrently. It returns once all finished or
// the first failed; the reads share one deadline.
func (s *Service) gather(ctx context.Context, reads ...func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	for _, read := range reads {
		read := read
		g.Go(func() error { return read(ctx) })
	}
	return g.Wait()
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
