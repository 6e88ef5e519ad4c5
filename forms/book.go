package forms

import (
	"net/url"

	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var bookFields = []Field{
	Text("title", Required("Title must not be empty."), Escape),
	Ref("author", "Author must not be empty."),
	Text("summary", Required("Summary must not be empty."), Escape),
	Text("isbn", Required("ISBN must not be empty"), Escape),
	Refs("genre", "Invalid genre."),
}

// ParseBook validates a book submission. Genre may arrive absent, once or many
// times; it is normalized to a list before validation.
func ParseBook(form url.Values, id primitive.ObjectID) (*models.Book, *Result) {
	res := Evaluate(bookFields, form)
	return &models.Book{
		ID:       id,
		Title:    res.Get("title"),
		AuthorID: parseRef(res.Get("author")),
		Summary:  res.Get("summary"),
		ISBN:     res.Get("isbn"),
		GenreIDs: parseRefs(res.All("genre")),
	}, res
}

func BookValues(b *models.Book) url.Values {
	v := url.Values{
		"title":   {b.Title},
		"summary": {b.Summary},
		"isbn":    {b.ISBN},
		"genre":   {},
	}
	if !b.AuthorID.IsZero() {
		v.Set("author", b.AuthorID.Hex())
	}
	for _, g := range b.GenreIDs {
		v.Add("genre", g.Hex())
	}
	return v
}
