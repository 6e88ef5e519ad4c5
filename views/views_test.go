package views

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/sheacronin/locallibrary/catalog"
	"github.com/sheacronin/locallibrary/forms"
	"github.com/sheacronin/locallibrary/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func render(t *testing.T, view string, data interface{}) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, view, data))
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Body.String()
}

func TestRenderer_KnowsEveryView(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, v := range []string{
		catalog.ViewIndex, catalog.ViewError,
		catalog.ViewAuthorList, catalog.ViewAuthorDetail, catalog.ViewAuthorForm, catalog.ViewAuthorDelete,
		catalog.ViewGenreList, catalog.ViewGenreDetail, catalog.ViewGenreForm, catalog.ViewGenreDelete,
		catalog.ViewBookList, catalog.ViewBookDetail, catalog.ViewBookForm, catalog.ViewBookDelete,
		catalog.ViewBookInstanceList, catalog.ViewBookInstanceDetail, catalog.ViewBookInstanceForm, catalog.ViewBookInstanceDelete,
	} {
		assert.True(t, r.Has(v), v)
	}

	err = r.Render(httptest.NewRecorder(), http.StatusOK, "nope", nil)
	assert.Error(t, err)
}

func TestRender_StoredTextIsNotEscapedTwice(t *testing.T) {
	book := &models.PopulatedBook{
		Book: models.Book{
			ID:      primitive.NewObjectID(),
			Title:   "Tom &amp; Jerry",
			Summary: "&lt;b&gt;bold&lt;&#x2F;b&gt;",
			ISBN:    "978",
		},
		Author: &models.Author{ID: primitive.NewObjectID(), FirstName: "Fred", FamilyName: "Quimby"},
		Genres: []models.Genre{{ID: primitive.NewObjectID(), Name: "Cartoon"}},
	}
	body := render(t, catalog.ViewBookDetail, &catalog.BookDetailPage{Title: book.Title, Book: book})

	assert.Contains(t, body, "<title>Tom &amp; Jerry</title>")
	assert.Contains(t, body, "&lt;b&gt;bold&lt;&#x2F;b&gt;")
	assert.NotContains(t, body, "&amp;amp;")
	assert.NotContains(t, body, "<b>bold")
	assert.Contains(t, body, "Quimby, Fred")
	assert.Contains(t, body, book.Genres[0].URL())
	assert.Contains(t, body, "There are no copies")
}

func TestRender_FormErrorsAndValues(t *testing.T) {
	page := &catalog.AuthorFormPage{
		Title: "Create Author",
		Values: url.Values{
			"first_name":    {""},
			"family_name":   {"O&#x27;Brien"},
			"date_of_birth": {"1920-10-08"},
		},
		Errors: forms.Errors{{Field: "first_name", Message: "First name must be specified."}},
	}
	body := render(t, catalog.ViewAuthorForm, page)

	assert.Contains(t, body, `value="1920-10-08"`)
	assert.Contains(t, body, "O&#x27;Brien")
	assert.Contains(t, body, "First name must be specified.")
}

func TestRender_BookFormMarksChoices(t *testing.T) {
	page := &catalog.BookFormPage{
		Title:   "Create Book",
		Values:  url.Values{},
		Authors: []forms.Choice{{Value: "a1", Label: "Herbert, Frank", Selected: true}},
		Genres: []forms.Choice{
			{Value: "g1", Label: "Fantasy", Selected: true},
			{Value: "g2", Label: "Poetry"},
		},
	}
	body := render(t, catalog.ViewBookForm, page)

	assert.Contains(t, body, `<option value="a1" selected>`)
	assert.Contains(t, body, `value="g1" checked>`)
	assert.Contains(t, body, `value="g2">`)
}

func TestRender_ErrorAndIndex(t *testing.T) {
	body := render(t, catalog.ViewError, &catalog.ErrorPage{Title: "Not Found", Status: 404, Message: "Book not found"})
	assert.Contains(t, body, "404")
	assert.Contains(t, body, "Book not found")

	body = render(t, catalog.ViewIndex, &catalog.IndexPage{Title: "Local Library Home", Counts: catalog.Counts{Books: 3}})
	assert.Contains(t, body, "<strong>Books:</strong> 3")
}
