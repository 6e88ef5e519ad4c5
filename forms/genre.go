package forms

import (
	"net/url"

	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var genreFields = []Field{
	Text("name",
		Required("Genre name required"),
		MinLen(3, "Genre name must be at least 3 characters."),
		MaxLen(nameMaxLen, "Genre name must be at most 100 characters."),
		Escape,
	),
}

func ParseGenre(form url.Values, id primitive.ObjectID) (*models.Genre, *Result) {
	res := Evaluate(genreFields, form)
	return &models.Genre{ID: id, Name: res.Get("name")}, res
}

func GenreValues(g *models.Genre) url.Values {
	return url.Values{"name": {g.Name}}
}
