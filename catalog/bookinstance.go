package catalog

import (
	"context"
	"net/url"
	"sort"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/forms"
	"github.com/sheacronin/locallibrary/models"
	"github.com/sheacronin/locallibrary/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BookInstanceList shows every copy ordered by the title of its book. Copies
// whose book is gone sort last.
func (s *Service) BookInstanceList(ctx context.Context) (Result, error) {
	instances, err := s.store.ListBookInstances(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "list book instances")
	}
	populated, err := s.refs.BookInstances(ctx, instances)
	if err != nil {
		return Result{}, errors.Wrap(err, "populate book instances")
	}
	sort.SliceStable(populated, func(i, j int) bool {
		a, b := populated[i].Book, populated[j].Book
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.Title < b.Title
	})
	return display(ViewBookInstanceList, &BookInstanceListPage{Title: "Book Instance List", Instances: populated}), nil
}

func (s *Service) loadBookInstance(ctx context.Context, id string) (*models.PopulatedBookInstance, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	bi, err := s.store.BookInstanceByID(ctx, oid)
	if err != nil {
		return nil, errors.Wrap(err, "load book instance")
	}
	if bi == nil {
		return nil, nil
	}
	populated, err := s.refs.BookInstance(ctx, bi)
	if err != nil {
		return nil, errors.Wrap(err, "populate book instance")
	}
	return populated, nil
}

// BookInstanceDetail needs the copy's book; a dangling book reference is
// reported as not found.
func (s *Service) BookInstanceDetail(ctx context.Context, id string) (Result, error) {
	bi, err := s.loadBookInstance(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if bi == nil || bi.Book == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewBookInstanceDetail, &BookInstanceDetailPage{
		Title:    "Copy: " + bi.Book.Title,
		Instance: bi,
	}), nil
}

func (s *Service) BookInstanceCreateForm(ctx context.Context) (Result, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "list books")
	}
	return display(ViewBookInstanceForm, &BookInstanceFormPage{
		Title:    "Create BookInstance",
		Values:   url.Values{},
		Books:    forms.BookChoices(books, primitive.NilObjectID),
		Statuses: forms.StatusChoices(models.DefaultStatus),
	}), nil
}

func (s *Service) CreateBookInstance(ctx context.Context, form url.Values) (Result, error) {
	bi, res := forms.ParseBookInstance(form, primitive.NilObjectID, s.now())
	if err := s.checkBookInstanceRefs(ctx, bi, res); err != nil {
		return Result{}, err
	}
	if !res.Valid() {
		return s.bookInstanceFormAgain(ctx, "Create BookInstance", bi, res)
	}
	id, err := s.store.InsertBookInstance(ctx, bi)
	if err != nil {
		return Result{}, errors.Wrap(err, "create book instance")
	}
	bi.ID = id
	s.log.Info("book instance created", zap.String("id", id.Hex()))
	return redirect(bi.URL()), nil
}

func (s *Service) BookInstanceUpdateForm(ctx context.Context, id string) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	var (
		bi    *models.BookInstance
		books []models.Book
	)
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { bi, err = s.store.BookInstanceByID(ctx, oid); return },
		func(ctx context.Context) (err error) { books, err = s.store.ListBooks(ctx); return },
	)
	if err != nil {
		return Result{}, errors.Wrap(err, "load book instance form")
	}
	if bi == nil {
		return Result{}, ErrNotFound
	}
	return display(ViewBookInstanceForm, &BookInstanceFormPage{
		Title:    "Update BookInstance",
		Instance: bi,
		Values:   forms.BookInstanceValues(bi),
		Books:    forms.BookChoices(books, bi.BookID),
		Statuses: forms.StatusChoices(bi.Status),
	}), nil
}

func (s *Service) UpdateBookInstance(ctx context.Context, id string, form url.Values) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return Result{}, ErrNotFound
	}
	bi, res := forms.ParseBookInstance(form, oid, s.now())
	if err := s.checkBookInstanceRefs(ctx, bi, res); err != nil {
		return Result{}, err
	}
	if !res.Valid() {
		return s.bookInstanceFormAgain(ctx, "Update BookInstance", bi, res)
	}
	if err := s.store.ReplaceBookInstance(ctx, bi); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, errors.Wrap(err, "update book instance")
	}
	s.log.Info("book instance updated", zap.String("id", oid.Hex()))
	return redirect(bi.URL()), nil
}

func (s *Service) checkBookInstanceRefs(ctx context.Context, bi *models.BookInstance, res *forms.Result) error {
	if !res.Valid() {
		return nil
	}
	book, err := s.store.BookByID(ctx, bi.BookID)
	if err != nil {
		return errors.Wrap(err, "check book instance references")
	}
	if book == nil {
		res.Errors = append(res.Errors, forms.FieldError{Field: "book", Message: "Book not found."})
	}
	return nil
}

func (s *Service) bookInstanceFormAgain(ctx context.Context, title string, bi *models.BookInstance, res *forms.Result) (Result, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "list books")
	}
	return Result{
		State: StateRedisplayed,
		View:  ViewBookInstanceForm,
		Data: &BookInstanceFormPage{
			Title:    title,
			Instance: bi,
			Values:   res.Values,
			Books:    forms.BookChoices(books, bi.BookID),
			Statuses: forms.StatusChoices(bi.Status),
			Errors:   res.Errors,
		},
	}, nil
}

func (s *Service) BookInstanceDeleteForm(ctx context.Context, id string) (Result, error) {
	bi, err := s.loadBookInstance(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if bi == nil {
		return redirect(models.ListURL(models.KindBookInstance)), nil
	}
	return display(ViewBookInstanceDelete, &BookInstanceDeletePage{Title: "Delete BookInstance", Instance: bi}), nil
}

// DeleteBookInstance has no dependents to check.
func (s *Service) DeleteBookInstance(ctx context.Context, id string) (Result, error) {
	oid, ok := parseID(id)
	if !ok {
		return redirect(models.ListURL(models.KindBookInstance)), nil
	}
	if err := s.store.DeleteBookInstance(ctx, oid); err != nil {
		return Result{}, errors.Wrap(err, "delete book instance")
	}
	s.log.Info("book instance deleted", zap.String("id", oid.Hex()))
	return redirect(models.ListURL(models.KindBookInstance)), nil
}
