package forms

import (
	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Choice is one option of a select or checkbox group.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

func AuthorChoices(authors []models.Author, selected primitive.ObjectID) []Choice {
	out := make([]Choice, 0, len(authors))
	for i := range authors {
		a := &authors[i]
		out = append(out, Choice{Value: a.ID.Hex(), Label: a.Name(), Selected: a.ID == selected})
	}
	return out
}

func BookChoices(books []models.Book, selected primitive.ObjectID) []Choice {
	out := make([]Choice, 0, len(books))
	for _, b := range books {
		out = append(out, Choice{Value: b.ID.Hex(), Label: b.Title, Selected: b.ID == selected})
	}
	return out
}

// GenreChoices marks every genre referenced by selected.
func GenreChoices(genres []models.Genre, selected []primitive.ObjectID) []Choice {
	picked := make(map[primitive.ObjectID]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}
	out := make([]Choice, 0, len(genres))
	for _, g := range genres {
		out = append(out, Choice{Value: g.ID.Hex(), Label: g.Name, Selected: picked[g.ID]})
	}
	return out
}

func StatusChoices(selected models.Status) []Choice {
	out := make([]Choice, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		out = append(out, Choice{Value: string(s), Label: string(s), Selected: s == selected})
	}
	return out
}
