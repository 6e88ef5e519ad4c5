package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CatalogReader is the read side of the entity store used by exports.
type CatalogReader interface {
	ListAuthors(ctx context.Context) ([]models.Author, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	BooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error)
	ListBookInstances(ctx context.Context) ([]models.BookInstance, error)
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// Snapshot is the JSON document written by an export.
type Snapshot struct {
	ExportedAt    time.Time             `json:"exportedAt"`
	Authors       []models.Author       `json:"authors"`
	Genres        []models.Genre        `json:"genres"`
	Books         []models.Book         `json:"books"`
	BookInstances []models.BookInstance `json:"bookInstances"`
}

const exportPrefix = "exports/"

type Exporter struct {
	catalog CatalogReader
	objects ObjectStore
	log     *zap.Logger
	now     func() time.Time
}

func NewExporter(catalog CatalogReader, objects ObjectStore, log *zap.Logger) *Exporter {
	return &Exporter{catalog: catalog, objects: objects, log: log.Named("export"), now: time.Now}
}

// Snapshot reads every collection concurrently.
func (e *Exporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{ExportedAt: e.now().UTC()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Authors, err = e.catalog.ListAuthors(gctx); return })
	g.Go(func() (err error) { snap.Genres, err = e.catalog.ListGenres(gctx); return })
	g.Go(func() (err error) { snap.BookInstances, err = e.catalog.ListBookInstances(gctx); return })
	g.Go(func() error {
		// the book list is projected, so fetch the full documents by id
		list, err := e.catalog.ListBooks(gctx)
		if err != nil {
			return err
		}
		ids := make([]primitive.ObjectID, 0, len(list))
		for _, b := range list {
			ids = append(ids, b.ID)
		}
		snap.Books, err = e.catalog.BooksByIDs(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return snap, nil
}

// Export writes a snapshot under exports/<uuid>.json and returns the key.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snap); err != nil {
		return "", errors.Wrap(err, "encode snapshot")
	}
	key := exportPrefix + uuid.New().String() + ".json"
	if err := e.objects.Put(ctx, key, &buf, "application/json"); err != nil {
		return "", err
	}
	e.log.Info("catalog exported",
		zap.String("key", key),
		zap.Int("authors", len(snap.Authors)),
		zap.Int("books", len(snap.Books)),
		zap.Int("genres", len(snap.Genres)),
		zap.Int("bookinstances", len(snap.BookInstances)),
	)
	return key, nil
}
