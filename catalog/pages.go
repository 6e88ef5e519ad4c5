package catalog

import (
	"net/url"

	"github.com/sheacronin/locallibrary/forms"
	"github.com/sheacronin/locallibrary/models"
)

// View names understood by the renderer.
const (
	ViewIndex = "index"
	ViewError = "error"

	ViewAuthorList   = "author_list"
	ViewAuthorDetail = "author_detail"
	ViewAuthorForm   = "author_form"
	ViewAuthorDelete = "author_delete"

	ViewGenreList   = "genre_list"
	ViewGenreDetail = "genre_detail"
	ViewGenreForm   = "genre_form"
	ViewGenreDelete = "genre_delete"

	ViewBookList   = "book_list"
	ViewBookDetail = "book_detail"
	ViewBookForm   = "book_form"
	ViewBookDelete = "book_delete"

	ViewBookInstanceList   = "bookinstance_list"
	ViewBookInstanceDetail = "bookinstance_detail"
	ViewBookInstanceForm   = "bookinstance_form"
	ViewBookInstanceDelete = "bookinstance_delete"
)

type Counts struct {
	Books                  int64
	BookInstances          int64
	BookInstancesAvailable int64
	Authors                int64
	Genres                 int64
}

type IndexPage struct {
	Title  string
	Counts Counts
}

// ErrorPage is rendered for missing entities and internal failures.
type ErrorPage struct {
	Title   string
	Status  int
	Message string
}

type AuthorListPage struct {
	Title   string
	Authors []models.Author
}

type AuthorDetailPage struct {
	Title  string
	Author *models.Author
	Books  []models.Book
}

type AuthorFormPage struct {
	Title  string
	Author *models.Author
	Values url.Values
	Errors forms.Errors
}

// AuthorDeletePage doubles as the blocked page: Books lists the dependents.
type AuthorDeletePage struct {
	Title  string
	Author *models.Author
	Books  []models.Book
}

type GenreListPage struct {
	Title  string
	Genres []models.Genre
}

type GenreDetailPage struct {
	Title string
	Genre *models.Genre
	Books []models.Book
}

type GenreFormPage struct {
	Title  string
	Genre  *models.Genre
	Values url.Values
	Errors forms.Errors
}

type GenreDeletePage struct {
	Title string
	Genre *models.Genre
	Books []models.Book
}

type BookListPage struct {
	Title string
	Books []models.PopulatedBook
}

type BookDetailPage struct {
	Title     string
	Book      *models.PopulatedBook
	Instances []models.BookInstance
}

type BookFormPage struct {
	Title   string
	Book    *models.Book
	Values  url.Values
	Authors []forms.Choice
	Genres  []forms.Choice
	Errors  forms.Errors
}

type BookDeletePage struct {
	Title     string
	Book      *models.Book
	Instances []models.BookInstance
}

type BookInstanceListPage struct {
	Title     string
	Instances []models.PopulatedBookInstance
}

type BookInstanceDetailPage struct {
	Title    string
	Instance *models.PopulatedBookInstance
}

type BookInstanceFormPage struct {
	Title    string
	Instance *models.BookInstance
	Values   url.Values
	Books    []forms.Choice
	Statuses []forms.Choice
	Errors   forms.Errors
}

type BookInstanceDeletePage struct {
	Title    string
	Instance *models.PopulatedBookInstance
}
