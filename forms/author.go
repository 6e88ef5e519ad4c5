package forms

import (
	"net/url"

	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const nameMaxLen = 100

var authorFields = []Field{
	Text("first_name",
		Required("First name must be specified."),
		MaxLen(nameMaxLen, "First name must be at most 100 characters."),
		Escape,
		Alphanumeric("First name has non-alphanumeric characters."),
	),
	Text("family_name",
		Required("Family name must be specified."),
		MaxLen(nameMaxLen, "Family name must be at most 100 characters."),
		Escape,
		Alphanumeric("Family name has non-alphanumeric characters."),
	),
	Date("date_of_birth", "Invalid date of birth"),
	Date("date_of_death", "Invalid date of death"),
}

// ParseAuthor validates an author submission and maps it onto an Author with
// the given id. The author is built even when the result is invalid.
func ParseAuthor(form url.Values, id primitive.ObjectID) (*models.Author, *Result) {
	res := Evaluate(authorFields, form)
	return &models.Author{
		ID:          id,
		FirstName:   res.Get("first_name"),
		FamilyName:  res.Get("family_name"),
		DateOfBirth: res.Date("date_of_birth"),
		DateOfDeath: res.Date("date_of_death"),
	}, res
}

// AuthorValues is the form prefill for an existing author.
func AuthorValues(a *models.Author) url.Values {
	return url.Values{
		"first_name":    {a.FirstName},
		"family_name":   {a.FamilyName},
		"date_of_birth": {a.DateOfBirthISO()},
		"date_of_death": {a.DateOfDeathISO()},
	}
}
