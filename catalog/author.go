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

func (s *Service) AuthorList(ctx context.Context) (Result, error) {
	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "list authors")
	}
	return display(ViewAuthorList, &AuthorListPage{Title: "Author List", Authors: authors}), nil
}

// AuthorDetail loads the author and the books written by them.
func (s *Service) AuthorDetail(ctx context.Context, id string) (Result, error) {
	author, books, err := s.authorWithBooks(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if author == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewAuthorDetail, &AuthorDetailPage{Title: "Author Detail", Author: author, Books: books}), nil
}

func (s *Service) authorWithBooks(ctx context.Context, id string) (*models.Author, []models.Book, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil, nil
	}
	var (
		author *models.Author
		books  []models.Book
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { author, err = s.store.AuthorByID(ctx, oid); return },
		func(ctx context.Context) (err error) { books, err = s.store.BooksByAuthor(ctx, oid); return },
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load author")
	}
	return author, books, nil
}

func (s *Service) AuthorCreateForm(ctx context.Context) (Result, error) {
	return display(ViewAuthorForm, &AuthorFormPage{Title: "Create Author", Values: url.Values{}}), nil
}

func (s *Service) CreateAuthor(ctx context.Context, form url.Values) (Result, error) {
	author, res := forms.ParseAuthor(form, primitive.NilObjectID)
	if !res.Valid() {
		return authorFormAgain("Create Author", author, res), nil
	}
	id, err := s.store.InsertAuthor(ctx, author)
	if err != nil {
		return Result{}, errors.Wrap(err, "create author")
	}
	author.ID = id
	s.log.Info("author created", zap.String("id", id.Hex()))
	return redirect(author.URL()), nil
}

func (s *Service) AuthorUpdateForm(ctx context.Context, id string) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	author, err := s.store.AuthorByID(ctx, oid)
	if err != nil {
		return Result{}, errors.Wrap(err, "load author")
	}
	if author == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewAuthorForm, &AuthorFormPage{
		Title:  "Update Author",
		Author: author,
		Values: forms.AuthorValues(author),
	}), nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id string, form url.Values) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	author, res := forms.ParseAuthor(form, oid)
	if !res.Valid() {
		return authorFormAgain("Update Author", author, res), nil
	}
	if err := s.store.ReplaceAuthor(ctx, author); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, errors.Wrap(err, "update author")
	}
	s.log.Info("author updated", zap.String("id", oid.Hex()))
	return redirect(author.URL()), nil
}

func authorFormAgain(title string, author *models.Author, res *forms.Result) Result {
	return Result{
		State: StateRedisplayed,
		View:  ViewAuthorForm,
		Data: &AuthorFormPage{
			Title:  title,
			Author: author,
			Values: res.Values,
			Errors: res.Errors,
		},
	}
}

// AuthorDeleteForm asks for confirmation; it lists the author's books, which
// have to be deleted first.
func (s *Service) AuthorDeleteForm(ctx context.Context, id string) (Result, error) {
	author, books, err := s.authorWithBooks(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if author == nil {
		return redirect(models.ListURL(models.KindAuthor)), nil
	}
	return display(ViewAuthorDelete, &AuthorDeletePage{Title: "Delete Author", Author: author, Books: books}), nil
}

// DeleteAuthor removes an author that no book refers to. A missing author is
// treated as already deleted.
func (s *Service) DeleteAuthor(ctx context.Context, id string) (Result, error) {
	author, books, err := s.authorWithBooks(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if author == nil {
		return redirect(models.ListURL(models.KindAuthor)), nil
	}
	if len(books) > 0 {
		return Result{
			State: StateBlocked,
			View:  ViewAuthorDelete,
			Data:  &AuthorDeletePage{Title: "Delete Author", Author: author, Books: books},
		}, nil
	}
	if err := s.store.DeleteAuthor(ctx, author.ID); err != nil {
		return Result{}, errors.Wrap(err, "delete author")
	}
	s.log.Info("author deleted", zap.String("id", author.ID.Hex()))
	return redirect(models.ListURL(models.KindAuthor)), nil
}
