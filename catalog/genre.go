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

func (s *Service) GenreList(ctx context.Context) (Result, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "list genres")
	}
	return display(ViewGenreList, &GenreListPage{Title: "Genre List", Genres: genres}), nil
}

func (s *Service) GenreDetail(ctx context.Context, id string) (Result, error) {
	genre, books, err := s.genreWithBooks(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if genre == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewGenreDetail, &GenreDetailPage{Title: "Genre Detail", Genre: genre, Books: books}), nil
}

func (s *Service) genreWithBooks(ctx context.Context, id string) (*models.Genre, []models.Book, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil, nil
	}
	var (
		genre *models.Genre
		books []models.Book
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { genre, err = s.store.GenreByID(ctx, oid); return },
		func(ctx context.Context) (err error) { books, err = s.store.BooksByGenre(ctx, oid); return },
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load genre")
	}
	return genre, books, nil
}

func (s *Service) GenreCreateForm(ctx context.Context) (Result, error) {
	return display(ViewGenreForm, &GenreFormPage{Title: "Create Genre", Values: url.Values{}}), nil
}

func (s *Service) CreateGenre(ctx context.Context, form url.Values) (Result, error) {
	genre, res := forms.ParseGenre(form, primitive.NilObjectID)
	if !res.Valid() {
		return genreFormAgain("Create Genre", genre, res), nil
	}
	id, err := s.store.InsertGenre(ctx, genre)
	if err != nil {
		return Result{}, errors.Wrap(err, "create genre")
	}
	genre.ID = id
	s.log.Info("genre created", zap.String("id", id.Hex()))
	return redirect(genre.URL()), nil
}

func (s *Service) GenreUpdateForm(ctx context.Context, id string) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	genre, err := s.store.GenreByID(ctx, oid)
	if err != nil {
		return Result{}, errors.Wrap(err, "load genre")
	}
	if genre == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewGenreForm, &GenreFormPage{Title: "Update Genre", Genre: genre, Values: forms.GenreValues(genre)}), nil
}

func (s *Service) UpdateGenre(ctx context.Context, id string, form url.Values) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	genre, res := forms.ParseGenre(form, oid)
	if !res.Valid() {
		return genreFormAgain("Update Genre", genre, res), nil
	}
	if err := s.store.ReplaceGenre(ctx, genre); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, errors.Wrap(err, "update genre")
	}
	s.log.Info("genre updated", zap.String("id", oid.Hex()))
	return redirect(genre.URL()), nil
}

func genreFormAgain(title string, genre *models.Genre, res *forms.Result) Result {
	return Result{
		State: StateRedisplayed,
		View:  ViewGenreForm,
		Data:  &GenreFormPage{Title: title, Genre: genre, Values: res.Values, Errors: res.Errors},
	}
}

func (s *Service) GenreDeleteForm(ctx context.Context, id string) (Result, error) {
	genre, books, err := s.genreWithBooks(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if genre == nil {
		return redirect(models.ListURL(models.KindGenre)), nil
	}
	return display(ViewGenreDelete, &GenreDeletePage{Title: "Delete Genre", Genre: genre, Books: books}), nil
}

// DeleteGenre is blocked while any book is filed under the genre.
func (s *Service) DeleteGenre(ctx context.Context, id string) (Result, error) {
	genre, books, err := s.genreWithBooks(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if genre == nil {
		return redirect(models.ListURL(models.KindGenre)), nil
	}
	if len(books) > 0 {
		return Result{
			State: StateBlocked,
			View:  ViewGenreDelete,
			Data:  &GenreDeletePage{Title: "Delete Genre", Genre: genre, Books: books},
		}, nil
	}
	if err := s.store.DeleteGenre(ctx, genre.ID); err != nil {
		return Result{}, errors.Wrap(err, "delete genre")
	}
	s.log.Info("genre deleted", zap.String("id", genre.ID.Hex()))
	return redirect(models.ListURL(models.KindGenre)), nil
}
