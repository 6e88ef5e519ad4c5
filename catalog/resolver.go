package catalog

import (
	"context"

	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type refReader interface {
	AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Author, error)
	GenresByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Genre, error)
	BooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error)
}

// Resolver replaces stored references with the documents they point to.
// References that no longer resolve come back as nil (or are left out of
// genre lists); only store failures are errors.
type Resolver struct {
	store refReader
}

func NewResolver(store refReader) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) Book(ctx context.Context, b *models.Book) (*models.PopulatedBook, error) {
	out, err := r.Books(ctx, []models.Book{*b})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Books populates a batch with one read per referenced collection.
func (r *Resolver) Books(ctx context.Context, books []models.Book) ([]models.PopulatedBook, error) {
	var authorIDs, genreIDs []primitive.ObjectID
	for _, b := range books {
		if !b.AuthorID.IsZero() {
			authorIDs = append(authorIDs, b.AuthorID)
		}
		genreIDs = append(genreIDs, b.GenreIDs...)
	}

	authors, err := r.store.AuthorsByIDs(ctx, dedupe(authorIDs))
	if err != nil {
		return nil, err
	}
	genres, err := r.store.GenresByIDs(ctx, dedupe(genreIDs))
	if err != nil {
		return nil, err
	}
	authorByID := make(map[primitive.ObjectID]*models.Author, len(authors))
	for i := range authors {
		authorByID[authors[i].ID] = &authors[i]
	}
	genreByID := make(map[primitive.ObjectID]models.Genre, len(genres))
	for _, g := range genres {
		genreByID[g.ID] = g
	}

	out := make([]models.PopulatedBook, 0, len(books))
	for _, b := range books {
		pb := models.PopulatedBook{Book: b, Genres: []models.Genre{}}
		if a, ok := authorByID[b.AuthorID]; ok {
			author := *a
			pb.Author = &author
		}
		for _, id := range b.GenreIDs {
			if g, ok := genreByID[id]; ok {
				pb.Genres = append(pb.Genres, g)
			}
		}
		out = append(out, pb)
	}
	return out, nil
}

func (r *Resolver) BookInstance(ctx context.Context, bi *models.BookInstance) (*models.PopulatedBookInstance, error) {
	out, err := r.BookInstances(ctx, []models.BookInstance{*bi})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *Resolver) BookInstances(ctx context.Context, instances []models.BookInstance) ([]models.PopulatedBookInstance, error) {
	ids := make([]primitive.ObjectID, 0, len(instances))
	for _, bi := range instances {
		if !bi.BookID.IsZero() {
			ids = append(ids, bi.BookID)
		}
	}
	books, err := r.store.BooksByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.Book, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}

	out := make([]models.PopulatedBookInstance, 0, len(instances))
	for _, bi := range instances {
		pbi := models.PopulatedBookInstance{BookInstance: bi}
		if b, ok := byID[bi.BookID]; ok {
			book := *b
			pbi.Book = &book
		}
		out = append(out, pbi)
	}
	return out, nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
