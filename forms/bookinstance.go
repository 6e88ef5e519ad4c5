package forms

import (
	"net/url"
	"time"

	"github.com/sheacronin/locallibrary/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func statusNames() []string {
	out := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		out = append(out, string(s))
	}
	return out
}

var bookInstanceFields = []Field{
	Ref("book", "Book must be specified"),
	Text("imprint", Required("Imprint must be specified"), Escape),
	Enum("status", "Invalid status", statusNames()...),
	Date("due_back", "Invalid date"),
}

// ParseBookInstance validates a copy submission. An empty status falls back
// to Maintenance and an empty due date to now.
func ParseBookInstance(form url.Values, id primitive.ObjectID, now time.Time) (*models.BookInstance, *Result) {
	res := Evaluate(bookInstanceFields, form)
	bi := &models.BookInstance{
		ID:      id,
		BookID:  parseRef(res.Get("book")),
		Imprint: res.Get("imprint"),
		Status:  models.Status(res.Get("status")),
		DueBack: now.UTC(),
	}
	if bi.Status == "" || !bi.Status.Valid() {
		bi.Status = models.DefaultStatus
	}
	if due := res.Date("due_back"); due != nil {
		bi.DueBack = *due
	}
	return bi, res
}

func BookInstanceValues(bi *models.BookInstance) url.Values {
	v := url.Values{
		"imprint":  {bi.Imprint},
		"status":   {string(bi.Status)},
		"due_back": {bi.DueBackISO()},
	}
	if !bi.BookID.IsZero() {
		v.Set("book", bi.BookID.Hex())
	}
	return v
}
