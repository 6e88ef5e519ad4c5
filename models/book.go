package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Book refers to its author and genres by id; see PopulatedBook for the resolved form.
type Book struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title    string               `bson:"title" json:"title"`
	AuthorID primitive.ObjectID   `bson:"author" json:"author"`
	Summary  string               `bson:"summary" json:"summary"`
	ISBN     string               `bson:"isbn" json:"isbn"`
	GenreIDs []primitive.ObjectID `bson:"genre" json:"genre"`
}

func (b *Book) URL() string { return CanonicalURL(KindBook, b.ID) }

// HasGenre reports whether id is among the book's genre references.
func (b *Book) HasGenre(id primitive.ObjectID) bool {
	for _, g := range b.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// PopulatedBook carries the referenced author and genres. Author is nil when
// the reference no longer resolves; unresolved genres are left out.
type PopulatedBook struct {
	Book
	Author *Author
	Genres []Genre
}
