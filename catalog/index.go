package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
)

// Index counts every collection concurrently for the home page.
func (s *Service) Index(ctx context.Context) (Result, error) {
	var c Counts
	err := s.gather(ctx,
		func(ctx context.Context) (err error) { c.Books, err = s.store.CountBooks(ctx); return },
		func(ctx context.Context) (err error) { c.BookInstances, err = s.store.CountBookInstances(ctx, ""); return },
		func(ctx context.Context) (err error) {
			c.BookInstancesAvailable, err = s.store.CountBookInstances(ctx, models.StatusAvailable)
			return
		},
		func(ctx context.Context) (err error) { c.Authors, err = s.store.CountAuthors(ctx); return },
		func(ctx context.Context) (err error) { c.Genres, err = s.store.CountGenres(ctx); return },
	)
	if err != nil {
		return Result{}, errors.Wrap(err, "index counts")
	}
	return display(ViewIndex, &IndexPage{Title: "Local Library Home", Counts: c}), nil
}
