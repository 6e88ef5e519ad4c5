package catalog

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/forms"
	"github.com/sheacronin/locallibrary/models"
	"github.com/sheacronin/locallibrary/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (s *Service) BookList(ctx context.Context) (Result, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "list books")
	}
	populated, err := s.refs.Books(ctx, books)
	if err != nil {
		return Result{}, errors.Wrap(err, "populate books")
	}
	return display(ViewBookList, &BookListPage{Title: "Book List", Books: populated}), nil
}

// BookDetail shows the populated book together with its copies. A book whose
// author no longer resolves is reported as not found.
func (s *Service) BookDetail(ctx context.Context, id string) (Result, error) {
	book, instances, err := s.bookWithInstances(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if book == nil {
		return Result{}, ErrNotFound
	}
	populated, err := s.refs.Book(ctx, book)
	if err != nil {
		return Result{}, errors.Wrap(err, "populate book")
	}
	if populated.Author == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewBookDetail, &BookDetailPage{Title: book.Title, Book: populated, Instances: instances}), nil
}

func (s *Service) bookWithInstances(ctx context.Context, id string) (*models.Book, []models.BookInstance, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil, nil
	}
	var (
		book      *models.Book
		instances []models.BookInstance
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { book, err = s.store.BookByID(ctx, oid); return },
		func(ctx context.Context) (err error) { instances, err = s.store.BookInstancesByBook(ctx, oid); return },
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load book")
	}
	return book, instances, nil
}

// BookCreateForm offers every author and genre. With an isbn and a configured
// lookup the title, summary and isbn are prefilled; lookup failures only
// leave the form empty.
func (s *Service) BookCreateForm(ctx context.Context, isbn string) (Result, error) {
	authors, genres, err := s.bookChoices(ctx)
	if err != nil {
		return Result{}, err
	}
	values := url.Values{}
	if isbn != "" && s.isbn != nil {
		meta, err := s.isbn.LookupISBN(ctx, isbn)
		if err != nil {
			s.log.Warn("isbn lookup failed", zap.String("isbn", isbn), zap.Error(err))
		} else {
			values.Set("title", escape(meta.Title))
			values.Set("summary", escape(meta.Summary))
			values.Set("isbn", escape(meta.ISBN))
		}
	}
	return display(ViewBookForm, &BookFormPage{
		Title:   "Create Book",
		Values:  values,
		Authors: forms.AuthorChoices(authors, primitive.NilObjectID),
		Genres:  forms.GenreChoices(genres, nil),
	}), nil
}

func escape(v string) string {
	out, _ := forms.Escape(v)
	return out
}

func (s *Service) bookChoices(ctx context.Context) ([]models.Author, []models.Genre, error) {
	var (
		authors []models.Author
		genres  []models.Genre
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { authors, err = s.store.ListAuthors(ctx); return },
		func(ctx context.Context) (err error) { genres, err = s.store.ListGenres(ctx); return },
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load book choices")
	}
	return authors, genres, nil
}

func (s *Service) CreateBook(ctx context.Context, form url.Values) (Result, error) {
	book, res := forms.ParseBook(form, primitive.NilObjectID)
	if err := s.checkBookRefs(ctx, book, res); err != nil {
		return Result{}, err
	}
	if !res.Valid() {
		return s.bookFormAgain(ctx, "Create Book", book, res)
	}
	id, err := s.store.InsertBook(ctx, book)
	if err != nil {
		return Result{}, errors.Wrap(err, "create book")
	}
	book.ID = id
	s.log.Info("book created", zap.String("id", id.Hex()))
	return redirect(book.URL()), nil
}

func (s *Service) BookUpdateForm(ctx context.Context, id string) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	var (
		book    *models.Book
		authors []models.Author
		genres  []models.Genre
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { book, err = s.store.BookByID(ctx, oid); return },
		func(ctx context.Context) (err error) { authors, err = s.store.ListAuthors(ctx); return },
		func(ctx context.Context) (err error) { genres, err = s.store.ListGenres(ctx); return },
	)
	if err != nil {
		return Result{}, errors.Wrap(err, "load book form")
	}
	if book == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewBookForm, &BookFormPage{
		Title:   "Update Book",
		Book:    book,
		Values:  forms.BookValues(book),
		Authors: forms.AuthorChoices(authors, book.AuthorID),
		Genres:  forms.GenreChoices(genres, book.GenreIDs),
	}), nil
}

func (s *Service) UpdateBook(ctx context.Context, id string, form url.Values) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	book, res := forms.ParseBook(form, oid)
	if err := s.checkBookRefs(ctx, book, res); err != nil {
		return Result{}, err
	}
	if !res.Valid() {
		return s.bookFormAgain(ctx, "Update Book", book, res)
	}
	if err := s.store.ReplaceBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, errors.Wrap(err, "update book")
	}
	s.log.Info("book updated", zap.String("id", oid.Hex()))
	return redirect(book.URL()), nil
}

// checkBookRefs runs after a passing pipeline: an author that does not exist
// becomes a field error, genres that do not exist are dropped and repeated
// genres are kept once.
func (s *Service) checkBookRefs(ctx context.Context, book *models.Book, res *forms.Result) error {
	if !res.Valid() {
		return nil
	}
	var (
		author *models.Author
		genres []models.Genre
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { author, err = s.store.AuthorByID(ctx, book.AuthorID); return },
		func(ctx context.Context) (err error) { genres, err = s.store.GenresByIDs(ctx, book.GenreIDs); return },
	)
	if err != nil {
		return errors.Wrap(err, "check book references")
	}
	if author == nil {
		res.Errors = append(res.Errors, forms.FieldError{Field: "author", Message: "Author not found."})
	}
	known := make(map[primitive.ObjectID]bool, len(genres))
	for _, g := range genres {
		known[g.ID] = true
	}
	kept := make([]primitive.ObjectID, 0, len(book.GenreIDs))
	for _, id := range book.GenreIDs {
		if known[id] {
			kept = append(kept, id)
			delete(known, id)
		}
	}
	book.GenreIDs = kept
	return nil
}

// bookFormAgain re-reads the choices so the form comes back with the
// submitted author selected and the submitted genres checked.
func (s *Service) bookFormAgain(ctx context.Context, title string, book *models.Book, res *forms.Result) (Result, error) {
	authors, genres, err := s.bookChoices(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{
		State: StateRedisplayed,
		View:  ViewBookForm,
		Data: &BookFormPage{
			Title:   title,
			Book:    book,
			Values:  res.Values,
			Authors: forms.AuthorChoices(authors, book.AuthorID),
			Genres:  forms.GenreChoices(genres, book.GenreIDs),
			Errors:  res.Errors,
		},
	}, nil
}

func (s *Service) BookDeleteForm(ctx context.Context, id string) (Result, error) {
	book, instances, err := s.bookWithInstances(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if book == nil {
		return redirect(models.ListURL(models.KindBook)), nil
	}
	return display(ViewBookDelete, &BookDeletePage{Title: "Delete Book", Book: book, Instances: instances}), nil
}

// DeleteBook is blocked while copies of the book exist.
func (s *Service) DeleteBook(ctx context.Context, id string) (Result, error) {
	book, instances, err := s.bookWithInstances(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if book == nil {
		return redirect(models.ListURL(models.KindBook)), nil
	}
	if len(instances) > 0 {
		return Result{
			State: StateBlocked,
			View:  ViewBookDelete,
			Data:  &BookDeletePage{Title: "Delete Book", Book: book, Instances: instances},
		}, nil
	}
	if err := s.store.DeleteBook(ctx, book.ID); err != nil {
		return Result{}, errors.Wrap(err, "delete book")
	}
	s.log.Info("book deleted", zap.String("id", book.ID.Hex()))
	return redirect(models.ListURL(models.KindBook)), nil
}
