// Package memstore keeps the catalog in process memory. It backs the
// STORE_DRIVER=memory mode and the package tests of the layers above the store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/sheacronin/locallibrary/models"
	"github.com/sheacronin/locallibrary/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu        sync.RWMutex
	authors   map[primitive.ObjectID]models.Author
	genres    map[primitive.ObjectID]models.Genre
	books     map[primitive.ObjectID]models.Book
	instances map[primitive.ObjectID]models.BookInstance
}

func New() *Store {
	return &Store{
		authors:   make(map[primitive.ObjectID]models.Author),
		genres:    make(map[primitive.ObjectID]models.Genre),
		books:     make(map[primitive.ObjectID]models.Book),
		instances: make(map[primitive.ObjectID]models.BookInstance),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Authors

func (s *Store) InsertAuthor(ctx context.Context, a *models.Author) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := *a
	doc.ID = primitive.NewObjectID()
	s.authors[doc.ID] = doc
	return doc.ID, nil
}

func (s *Store) AuthorByID(ctx context.Context, id primitive.ObjectID) (*models.Author, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.authors[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) AuthorsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Author, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pick(s.authors, ids), nil
}

func (s *Store) ListAuthors(ctx context.Context) ([]models.Author, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := values(s.authors)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].FamilyName < out[j].FamilyName })
	return out, nil
}

func (s *Store) ReplaceAuthor(ctx context.Context, a *models.Author) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[a.ID]; !ok {
		return store.ErrNotFound
	}
	s.authors[a.ID] = *a
	return nil
}

func (s *Store) DeleteAuthor(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.authors, id)
	return nil
}

func (s *Store) CountAuthors(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.authors)), nil
}

// Genres

func (s *Store) InsertGenre(ctx context.Context, g *models.Genre) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := *g
	doc.ID = primitive.NewObjectID()
	s.genres[doc.ID] = doc
	return doc.ID, nil
}

func (s *Store) GenreByID(ctx context.Context, id primitive.ObjectID) (*models.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.genres[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (s *Store) GenresByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := pick(s.genres, ids)
	s.mu.RUnlock()
	sortGenres(out)
	return out, nil
}

func (s *Store) ListGenres(ctx context.Context) ([]models.Genre, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := values(s.genres)
	s.mu.RUnlock()
	sortGenres(out)
	return out, nil
}

func (s *Store) ReplaceGenre(ctx context.Context, g *models.Genre) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.genres[g.ID]; !ok {
		return store.ErrNotFound
	}
	s.genres[g.ID] = *g
	return nil
}

func (s *Store) DeleteGenre(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.genres, id)
	return nil
}

func (s *Store) CountGenres(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.genres)), nil
}

// Books

func (s *Store) InsertBook(ctx context.Context, b *models.Book) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := cloneBook(*b)
	doc.ID = primitive.NewObjectID()
	s.books[doc.ID] = doc
	return doc.ID, nil
}

func (s *Store) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return nil, nil
	}
	b = cloneBook(b)
	return &b, nil
}

func (s *Store) BooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := pick(s.books, ids)
	for i := range out {
		out[i] = cloneBook(out[i])
	}
	return out, nil
}

// The list reads return the same fields the Mongo projections do.

func titleAndAuthor(b models.Book) models.Book {
	return models.Book{ID: b.ID, Title: b.Title, AuthorID: b.AuthorID}
}

func titleAndSummary(b models.Book) models.Book {
	return models.Book{ID: b.ID, Title: b.Title, Summary: b.Summary}
}

func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.filterBooks(ctx, func(models.Book) bool { return true }, titleAndAuthor)
}

func (s *Store) BooksByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.Book, error) {
	return s.filterBooks(ctx, func(b models.Book) bool { return b.AuthorID == authorID }, titleAndSummary)
}

func (s *Store) BooksByGenre(ctx context.Context, genreID primitive.ObjectID) ([]models.Book, error) {
	return s.filterBooks(ctx, func(b models.Book) bool { return b.HasGenre(genreID) }, titleAndSummary)
}

func (s *Store) filterBooks(ctx context.Context, keep func(models.Book) bool, project func(models.Book) models.Book) ([]models.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := []models.Book{}
	for _, b := range s.books {
		if keep(b) {
			out = append(out, project(b))
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) ReplaceBook(ctx context.Context, b *models.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[b.ID]; !ok {
		return store.ErrNotFound
	}
	s.books[b.ID] = cloneBook(*b)
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.books, id)
	return nil
}

func (s *Store) CountBooks(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.books)), nil
}

// Book instances

func (s *Store) InsertBookInstance(ctx context.Context, bi *models.BookInstance) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := *bi
	doc.ID = primitive.NewObjectID()
	s.instances[doc.ID] = doc
	return doc.ID, nil
}

func (s *Store) BookInstanceByID(ctx context.Context, id primitive.ObjectID) (*models.BookInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	bi, ok := s.instances[id]
	if !ok {
		return nil, nil
	}
	return &bi, nil
}

func (s *Store) ListBookInstances(ctx context.Context) ([]models.BookInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return values(s.instances), nil
}

func (s *Store) BookInstancesByBook(ctx context.Context, bookID primitive.ObjectID) ([]models.BookInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.BookInstance{}
	for _, bi := range s.instances {
		if bi.BookID == bookID {
			out = append(out, bi)
		}
	}
	sortByID(out, func(bi models.BookInstance) primitive.ObjectID { return bi.ID })
	return out, nil
}

func (s *Store) ReplaceBookInstance(ctx context.Context, bi *models.BookInstance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[bi.ID]; !ok {
		return store.ErrNotFound
	}
	s.instances[bi.ID] = *bi
	return nil
}

func (s *Store) DeleteBookInstance(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, id)
	return nil
}

func (s *Store) CountBookInstances(ctx context.Context, status models.Status) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status == "" {
		return int64(len(s.instances)), nil
	}
	var n int64
	for _, bi := range s.instances {
		if bi.Status == status {
			n++
		}
	}
	return n, nil
}

// helpers

type identified interface {
	models.Author | models.Genre | models.Book | models.BookInstance
}

func values[T identified](m map[primitive.ObjectID]T) []T {
	ids := make([]primitive.ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	// ObjectIDs grow with insertion time, so this is insertion order.
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func pick[T identified](m map[primitive.ObjectID]T, ids []primitive.ObjectID) []T {
	out := make([]T, 0, len(ids))
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if v, ok := m[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, v)
		}
	}
	return out
}

func sortByID[T any](list []T, id func(T) primitive.ObjectID) {
	sort.Slice(list, func(i, j int) bool { return id(list[i]).Hex() < id(list[j]).Hex() })
}

func sortGenres(list []models.Genre) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
}

func cloneBook(b models.Book) models.Book {
	b.GenreIDs = append([]primitive.ObjectID(nil), b.GenreIDs...)
	return b
}
